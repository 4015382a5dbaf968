package sim

import (
	"sort"

	"golang.org/x/sync/errgroup"
)

// unassigned marks a product an assignment leaves without a shelf.
const unassigned = -1

// batchView caches per-product data the stochastic strategies read on every
// evaluation. It is immutable once built and safe to share across workers.
type batchView struct {
	products    []*Product
	footprints  []Voxel
	frequencies []int
	volumeOrder []int // product indices by descending volume, stable on ties
}

func newBatchView(batch []*Product, voxelSize float64) *batchView {
	v := &batchView{
		products:    batch,
		footprints:  make([]Voxel, len(batch)),
		frequencies: make([]int, len(batch)),
		volumeOrder: make([]int, len(batch)),
	}
	for i, p := range batch {
		v.footprints[i] = p.Footprint(voxelSize)
		v.frequencies[i] = p.Frequency
		v.volumeOrder[i] = i
	}
	sort.SliceStable(v.volumeOrder, func(a, b int) bool {
		return batch[v.volumeOrder[a]].Volume() > batch[v.volumeOrder[b]].Volume()
	})
	return v
}

// evaluation is the outcome of simulating one assignment on scratch occupancy.
type evaluation struct {
	cost     float64
	unplaced int
}

// evaluate simulates assignment on snap (which it mutates) in descending-volume
// order. Unassigned genes and failed placements both count as unplaced.
func (v *batchView) evaluate(assignment []int, snap *Snapshot) evaluation {
	var ev evaluation
	for _, i := range v.volumeOrder {
		shelf := assignment[i]
		if shelf == unassigned || !snap.Place(shelf, v.footprints[i]) {
			ev.unplaced++
			continue
		}
		ev.cost += unitPlacementCost(v.frequencies[i], snap.UnitCost(shelf))
	}
	return ev
}

// commit applies assignment to the real shelves in descending-volume order
// and returns the committed cost and the products left unplaced, in batch order.
func (v *batchView) commit(assignment []int, shelves []*Shelf) (float64, []*Product) {
	var cost float64
	for _, i := range v.volumeOrder {
		shelf := assignment[i]
		if shelf == unassigned {
			continue
		}
		p := v.products[i]
		if shelves[shelf].PlaceProduct(p) {
			cost += PlacementCost(p, shelves[shelf])
		}
	}
	var unplaced []*Product
	for _, p := range v.products {
		if !p.IsPlaced() {
			unplaced = append(unplaced, p)
		}
	}
	return cost, unplaced
}

// parallelFor runs fn(i) for i in [0, n) on at most workers goroutines.
// fn must only touch state private to index i.
func parallelFor(n, workers int, fn func(i int)) {
	var g errgroup.Group
	g.SetLimit(resolveWorkers(workers))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
