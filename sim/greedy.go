package sim

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// Greedy places products one pass, highest frequency first, each on the
// cheapest shelf that accepts it. Deterministic: identical batch and
// warehouse state give identical placements and cost.
type Greedy struct {
	cost float64
}

// NewGreedy creates a Greedy optimizer.
func NewGreedy() *Greedy {
	return &Greedy{}
}

// Solve implements Optimizer for Greedy.
func (g *Greedy) Solve(batch []*Product, wh *Warehouse) []*Product {
	g.cost = 0

	products := make([]*Product, len(batch))
	copy(products, batch)
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Frequency > products[j].Frequency
	})

	shelves := make([]*Shelf, len(wh.Shelves()))
	copy(shelves, wh.Shelves())
	sort.SliceStable(shelves, func(i, j int) bool {
		return shelves[i].UnitCost() < shelves[j].UnitCost()
	})

	logrus.Debugf("greedy: placing %d products over %d shelves", len(batch), len(shelves))

	for _, p := range products {
		for _, s := range shelves {
			if s.PlaceProduct(p) {
				g.cost += PlacementCost(p, s)
				break
			}
		}
	}

	var unplaced []*Product
	for _, p := range batch {
		if !p.IsPlaced() {
			unplaced = append(unplaced, p)
		}
	}
	logrus.Debugf("greedy: cost %.2f, %d unplaced", g.cost, len(unplaced))
	return unplaced
}

// Cost implements Optimizer for Greedy.
func (g *Greedy) Cost() float64 {
	return g.cost
}
