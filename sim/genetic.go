package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// chromosome assigns one shelf index per batch product (direct encoding).
type chromosome []int

func (c chromosome) clone() chromosome {
	out := make(chromosome, len(c))
	copy(out, c)
	return out
}

// Genetic searches product→shelf assignments with a generational GA.
//
// Fitness is 1/(1 + cost + unplaced*UnplacedPenalty), computed by simulating
// the assignment on a scratch snapshot of the warehouse in descending-volume
// order, whatever the gene order. The best individual of the whole run is
// committed to the real shelves at the end.
//
// Thread-safety: Solve is not reentrant. Fitness evaluation fans out to
// Workers goroutines, each on its own snapshot; all random draws happen on
// the calling goroutine so results do not depend on Workers.
type Genetic struct {
	config GeneticConfig
	rng    *rand.Rand
	cost   float64

	generationBest []float64 // best fitness within each generation of the last Solve
}

// NewGenetic creates a Genetic optimizer. Panics on invalid config.
func NewGenetic(config GeneticConfig, rng *rand.Rand) *Genetic {
	if err := config.Validate(); err != nil {
		panic("NewGenetic: " + err.Error())
	}
	if rng == nil {
		panic("NewGenetic: rng must not be nil")
	}
	return &Genetic{config: config, rng: rng}
}

// Solve implements Optimizer for Genetic.
func (g *Genetic) Solve(batch []*Product, wh *Warehouse) []*Product {
	g.cost = 0
	g.generationBest = g.generationBest[:0]
	shelves := wh.Shelves()
	if len(batch) == 0 {
		return nil
	}
	if len(shelves) == 0 {
		logrus.Debugf("genetic: no shelves, %d products unplaced", len(batch))
		return append([]*Product(nil), batch...)
	}

	view := newBatchView(batch, wh.VoxelSize)
	base := wh.Snapshot()

	population := g.initPopulation(len(batch), len(shelves))
	fitness := make([]float64, len(population))

	var best chromosome
	bestFitness := -1.0
	bestGen := 0

	logrus.Debugf("genetic: %d generations, population %d, %d products, %d shelves",
		g.config.Generations, g.config.PopulationSize, len(batch), len(shelves))

	for gen := 0; gen < g.config.Generations; gen++ {
		g.score(population, fitness, view, base)

		genBest := -1.0
		for i, f := range fitness {
			genBest = max(genBest, f)
			if f > bestFitness {
				bestFitness = f
				bestGen = gen
				best = population[i].clone()
			}
		}
		g.generationBest = append(g.generationBest, genBest)
		logrus.Tracef("genetic: generation %d best fitness %.3e (run best %.3e)", gen, genBest, bestFitness)

		if gen < g.config.Generations-1 {
			population = g.reproduce(population, fitness, len(shelves))
		}
	}

	cost, unplaced := view.commit(best, shelves)
	g.cost = cost
	logrus.Debugf("genetic: committed generation %d individual, cost %.2f, %d unplaced", bestGen, cost, len(unplaced))
	return unplaced
}

// Cost implements Optimizer for Genetic.
func (g *Genetic) Cost() float64 {
	return g.cost
}

// Fitness returns 1/(1 + cost + unplaced*penalty). Higher is better.
func Fitness(cost float64, unplaced int, penalty float64) float64 {
	return 1.0 / (1.0 + cost + float64(unplaced)*penalty)
}

func (g *Genetic) initPopulation(numProducts, numShelves int) []chromosome {
	population := make([]chromosome, g.config.PopulationSize)
	for i := range population {
		c := make(chromosome, numProducts)
		for j := range c {
			c[j] = g.rng.Intn(numShelves)
		}
		population[i] = c
	}
	return population
}

// score fills fitness[i] for every individual, one private snapshot per evaluation.
func (g *Genetic) score(population []chromosome, fitness []float64, view *batchView, base *Snapshot) {
	parallelFor(len(population), g.config.Workers, func(i int) {
		ev := view.evaluate(population[i], base.Clone())
		fitness[i] = Fitness(ev.cost, ev.unplaced, g.config.UnplacedPenalty)
	})
}

// reproduce builds the next generation by tournament selection, single-point
// crossover and per-gene mutation.
func (g *Genetic) reproduce(population []chromosome, fitness []float64, numShelves int) []chromosome {
	next := make([]chromosome, 0, len(population))
	for len(next) < len(population) {
		parent1 := g.tournamentSelect(population, fitness)
		parent2 := g.tournamentSelect(population, fitness)
		child1, child2 := parent1.clone(), parent2.clone()
		if g.rng.Float64() < g.config.CrossoverRate {
			child1, child2 = g.crossover(parent1, parent2)
		}
		g.mutate(child1, numShelves)
		g.mutate(child2, numShelves)
		next = append(next, child1)
		if len(next) < len(population) {
			next = append(next, child2)
		}
	}
	return next
}

// tournamentSelect samples TournamentSize distinct individuals and returns the fittest.
// Ties go to the first sampled.
func (g *Genetic) tournamentSelect(population []chromosome, fitness []float64) chromosome {
	k := min(g.config.TournamentSize, len(population))
	candidates := g.rng.Perm(len(population))[:k]
	winner := candidates[0]
	for _, idx := range candidates[1:] {
		if fitness[idx] > fitness[winner] {
			winner = idx
		}
	}
	return population[winner]
}

// crossover cuts both parents at a uniform point in [1, n-1] and swaps tails.
// Chromosomes shorter than two genes are copied unchanged.
func (g *Genetic) crossover(parent1, parent2 chromosome) (chromosome, chromosome) {
	n := len(parent1)
	if n <= 1 {
		return parent1.clone(), parent2.clone()
	}
	cut := 1 + g.rng.Intn(n-1)
	child1 := make(chromosome, n)
	child2 := make(chromosome, n)
	copy(child1, parent1[:cut])
	copy(child1[cut:], parent2[cut:])
	copy(child2, parent2[:cut])
	copy(child2[cut:], parent1[cut:])
	return child1, child2
}

// mutate redraws each gene with probability MutationRate.
func (g *Genetic) mutate(c chromosome, numShelves int) {
	for i := range c {
		if g.rng.Float64() < g.config.MutationRate {
			c[i] = g.rng.Intn(numShelves)
		}
	}
}
