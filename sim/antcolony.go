package sim

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// antSolution is one ant's assignment and its score on a fresh snapshot.
type antSolution struct {
	assignment []int
	eval       evaluation
}

// AntColony searches product→shelf assignments with ant colony optimization.
//
// Pheromones live in a (product × shelf) matrix. Each ant visits products in
// descending-volume order and picks a shelf with probability proportional to
// pheromone^Alpha × attractiveness^Beta, where attractiveness is
// 1/(unit cost + Epsilon). Shelves that cannot fit the product on the ant's
// private scratch snapshot get probability zero; if none fit, the product
// stays unassigned for that ant.
//
// Only fully placed solutions deposit pheromone and qualify as the run's best.
// If no ant ever places the whole batch, nothing is committed and the whole
// batch is returned for carry-over.
//
// Thread-safety: Solve is not reentrant. Ants run on up to Workers goroutines;
// each ant draws from its own RNG seeded from the optimizer's RNG in ant order,
// so results do not depend on Workers.
type AntColony struct {
	config AntColonyConfig
	rng    *rand.Rand
	cost   float64
}

// NewAntColony creates an AntColony optimizer. Panics on invalid config.
func NewAntColony(config AntColonyConfig, rng *rand.Rand) *AntColony {
	if err := config.Validate(); err != nil {
		panic("NewAntColony: " + err.Error())
	}
	if rng == nil {
		panic("NewAntColony: rng must not be nil")
	}
	return &AntColony{config: config, rng: rng}
}

// Solve implements Optimizer for AntColony.
func (a *AntColony) Solve(batch []*Product, wh *Warehouse) []*Product {
	a.cost = 0
	shelves := wh.Shelves()
	if len(batch) == 0 {
		return nil
	}
	if len(shelves) == 0 {
		logrus.Debugf("ant-colony: no shelves, %d products unplaced", len(batch))
		return append([]*Product(nil), batch...)
	}

	view := newBatchView(batch, wh.VoxelSize)
	base := wh.Snapshot()
	pheromones := a.initPheromones(len(batch), len(shelves))
	attractiveness := a.attractiveness(shelves)

	var best *antSolution
	bestCost := math.Inf(1)

	logrus.Debugf("ant-colony: %d generations, %d ants, %d products, %d shelves",
		a.config.Generations, a.config.Ants, len(batch), len(shelves))

	for gen := 0; gen < a.config.Generations; gen++ {
		weights := a.choiceWeights(pheromones, attractiveness)

		seeds := make([]int64, a.config.Ants)
		for k := range seeds {
			seeds[k] = a.rng.Int63()
		}
		solutions := make([]antSolution, a.config.Ants)
		parallelFor(a.config.Ants, a.config.Workers, func(k int) {
			antRNG := rand.New(rand.NewSource(seeds[k]))
			assignment := a.construct(view, weights, base.Clone(), antRNG)
			solutions[k] = antSolution{
				assignment: assignment,
				eval:       view.evaluate(assignment, base.Clone()),
			}
		})

		a.updatePheromones(pheromones, solutions)

		for k := range solutions {
			sol := solutions[k]
			if sol.eval.unplaced == 0 && sol.eval.cost < bestCost {
				bestCost = sol.eval.cost
				best = &sol
			}
		}
		logrus.Tracef("ant-colony: generation %d best cost %.2f", gen, bestCost)
	}

	if best == nil {
		logrus.Debugf("ant-colony: no ant placed the whole batch; carrying over all %d products", len(batch))
		return append([]*Product(nil), batch...)
	}
	cost, unplaced := view.commit(best.assignment, shelves)
	a.cost = cost
	logrus.Debugf("ant-colony: committed cost %.2f, %d unplaced", cost, len(unplaced))
	return unplaced
}

// Cost implements Optimizer for AntColony.
func (a *AntColony) Cost() float64 {
	return a.cost
}

func (a *AntColony) initPheromones(numProducts, numShelves int) *mat.Dense {
	data := make([]float64, numProducts*numShelves)
	for i := range data {
		data[i] = a.config.InitialPheromone
	}
	return mat.NewDense(numProducts, numShelves, data)
}

// attractiveness returns 1/(unit cost + Epsilon) per shelf.
func (a *AntColony) attractiveness(shelves []*Shelf) []float64 {
	eta := make([]float64, len(shelves))
	for j, s := range shelves {
		eta[j] = 1.0 / (s.UnitCost() + a.config.Epsilon)
	}
	return eta
}

// choiceWeights returns pheromone^Alpha × attractiveness^Beta for every
// (product, shelf) pair. Pheromones are fixed within a generation, so ants share it read-only.
func (a *AntColony) choiceWeights(pheromones *mat.Dense, attractiveness []float64) *mat.Dense {
	etaBeta := make([]float64, len(attractiveness))
	for j, eta := range attractiveness {
		etaBeta[j] = math.Pow(eta, a.config.Beta)
	}
	var weights mat.Dense
	weights.Apply(func(_, j int, tau float64) float64 {
		return math.Pow(tau, a.config.Alpha) * etaBeta[j]
	}, pheromones)
	return &weights
}

// construct builds one ant's assignment against its private snapshot.
func (a *AntColony) construct(view *batchView, weights *mat.Dense, snap *Snapshot, rng *rand.Rand) []int {
	_, numShelves := weights.Dims()
	assignment := make([]int, len(view.products))
	for i := range assignment {
		assignment[i] = unassigned
	}
	probs := make([]float64, numShelves)
	for _, i := range view.volumeOrder {
		row := weights.RawRowView(i)
		for j := range probs {
			if snap.Fits(j, view.footprints[i]) {
				probs[j] = row[j]
			} else {
				probs[j] = 0
			}
		}
		total := floats.Sum(probs)
		if total <= 0 {
			continue
		}
		j := rouletteSelect(probs, total, rng)
		snap.Place(j, view.footprints[i])
		assignment[i] = j
	}
	return assignment
}

// updatePheromones evaporates every trail by (1 - EvaporationRate), then each
// fully placed solution deposits Q/(cost+1) on the pairs it used.
func (a *AntColony) updatePheromones(pheromones *mat.Dense, solutions []antSolution) {
	pheromones.Scale(1-a.config.EvaporationRate, pheromones)
	for _, sol := range solutions {
		if sol.eval.unplaced > 0 {
			continue
		}
		deposit := a.config.Q / (sol.eval.cost + 1)
		for i, j := range sol.assignment {
			if j != unassigned {
				pheromones.Set(i, j, pheromones.At(i, j)+deposit)
			}
		}
	}
}

// rouletteSelect draws index j with probability probs[j]/total.
func rouletteSelect(probs []float64, total float64, rng *rand.Rand) int {
	r := rng.Float64() * total
	last := -1
	for j, p := range probs {
		if p <= 0 {
			continue
		}
		last = j
		r -= p
		if r < 0 {
			return j
		}
	}
	return last
}
