// Package scenario generates reproducible simulation inputs: one batch of
// incoming products per epoch and, for each epoch, the IDs to evict first.
//
// Removal decisions are drawn ahead of time against a simulated storage that
// assumes every delivered product was stored. Products that never actually made
// it onto a shelf therefore appear in removal lists and are ignored at run time.
package scenario

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/warehouse-sim/warehouse-sim/sim"
)

// DefaultFrequencyWeight scales how much a product's relative pick frequency
// raises its removal probability.
const DefaultFrequencyWeight = 0.5

// ProductTemplate is one catalog entry that batches are drawn from.
type ProductTemplate struct {
	Name       string   `yaml:"name"`
	Weight     float64  `yaml:"weight"`
	Dimensions sim.Dims `yaml:"dimensions"`
	Frequency  int      `yaml:"frequency"`
}

// Spec configures scenario generation.
type Spec struct {
	Epochs            int               `yaml:"epochs"`
	ProductsPerEpoch  int               `yaml:"products_per_epoch"`
	BaseRemovalChance float64           `yaml:"base_removal_chance"`
	FrequencyWeight   float64           `yaml:"frequency_weight"`
	Catalog           []ProductTemplate `yaml:"catalog"`
}

// DefaultCatalog is a small mix of long, flat and boxy goods that fit the
// default 5.0×0.5×0.5 shelf.
func DefaultCatalog() []ProductTemplate {
	return []ProductTemplate{
		{Name: "pipe", Weight: 0.5, Dimensions: sim.Dims{L: 1.3, W: 0.2, H: 0.2}, Frequency: 100},
		{Name: "carton", Weight: 1.0, Dimensions: sim.Dims{L: 0.5, W: 0.4, H: 0.3}, Frequency: 80},
		{Name: "rail", Weight: 0.8, Dimensions: sim.Dims{L: 0.8, W: 0.1, H: 0.1}, Frequency: 50},
		{Name: "crate", Weight: 1.2, Dimensions: sim.Dims{L: 1.4, W: 0.4, H: 0.4}, Frequency: 70},
	}
}

// DefaultSpec returns 10 epochs of 20 products with a 10% base removal chance.
func DefaultSpec() Spec {
	return Spec{
		Epochs:            10,
		ProductsPerEpoch:  20,
		BaseRemovalChance: 0.1,
		FrequencyWeight:   DefaultFrequencyWeight,
		Catalog:           DefaultCatalog(),
	}
}

// Validate checks that s can generate a scenario.
func (s Spec) Validate() error {
	if s.Epochs < 0 {
		return fmt.Errorf("epochs must be non-negative, got %d", s.Epochs)
	}
	if s.ProductsPerEpoch < 0 {
		return fmt.Errorf("products_per_epoch must be non-negative, got %d", s.ProductsPerEpoch)
	}
	if s.BaseRemovalChance < 0 || s.BaseRemovalChance > 1 {
		return fmt.Errorf("base_removal_chance must be in [0,1], got %g", s.BaseRemovalChance)
	}
	if s.FrequencyWeight < 0 {
		return fmt.Errorf("frequency_weight must be non-negative, got %g", s.FrequencyWeight)
	}
	if s.ProductsPerEpoch > 0 && len(s.Catalog) == 0 {
		return fmt.Errorf("catalog must not be empty when products_per_epoch > 0")
	}
	for i, t := range s.Catalog {
		if !t.Dimensions.Valid() {
			return fmt.Errorf("catalog[%d] %q: dimensions must be positive, got %v", i, t.Name, t.Dimensions)
		}
		if t.Weight < 0 {
			return fmt.Errorf("catalog[%d] %q: weight must be non-negative, got %g", i, t.Name, t.Weight)
		}
		if t.Frequency <= 0 {
			return fmt.Errorf("catalog[%d] %q: frequency must be positive, got %d", i, t.Name, t.Frequency)
		}
	}
	return nil
}

// Scenario is a generated run input. Removals[i] applies before Batches[i].
type Scenario struct {
	Batches  [][]*sim.Product
	Removals [][]string
}

// Generate draws a scenario from rng. All batches are drawn before any
// removal decision so the batch stream does not depend on the removal rates.
func Generate(spec Spec, rng *rand.Rand) (*Scenario, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	sc := &Scenario{
		Batches:  make([][]*sim.Product, spec.Epochs),
		Removals: make([][]string, spec.Epochs),
	}
	for e := range sc.Batches {
		sc.Batches[e] = generateBatch(spec, e+1, rng)
	}

	var storage []*sim.Product
	for e := range sc.Removals {
		removed := drawRemovals(spec, storage, rng)
		ids := make([]string, 0, len(removed))
		kept := storage[:0]
		for _, p := range storage {
			if removed[p.ID] {
				ids = append(ids, p.ID)
			} else {
				kept = append(kept, p)
			}
		}
		sc.Removals[e] = ids
		storage = append(kept, sc.Batches[e]...)
	}
	return sc, nil
}

func generateBatch(spec Spec, epoch int, rng *rand.Rand) []*sim.Product {
	batch := make([]*sim.Product, spec.ProductsPerEpoch)
	for i := range batch {
		t := spec.Catalog[rng.Intn(len(spec.Catalog))]
		batch[i] = sim.NewProduct(fmt.Sprintf("B%02d-P%03d", epoch, i+1), t.Weight, t.Dimensions, t.Frequency)
	}
	return batch
}

// drawRemovals gives each stored product probability
// base + (frequency/maxFrequency) × weight of being evicted.
func drawRemovals(spec Spec, storage []*sim.Product, rng *rand.Rand) map[string]bool {
	removed := make(map[string]bool)
	if len(storage) == 0 {
		return removed
	}
	maxFreq := 0
	for _, p := range storage {
		maxFreq = max(maxFreq, p.Frequency)
	}
	for _, p := range storage {
		prob := spec.BaseRemovalChance
		if maxFreq > 0 {
			prob += float64(p.Frequency) / float64(maxFreq) * spec.FrequencyWeight
		}
		if rng.Float64() < prob {
			removed[p.ID] = true
		}
	}
	return removed
}

// Clone returns a scenario with fresh, unplaced copies of every product, so the
// same input can drive several independent simulations.
func (sc *Scenario) Clone() *Scenario {
	out := &Scenario{
		Batches:  make([][]*sim.Product, len(sc.Batches)),
		Removals: make([][]string, len(sc.Removals)),
	}
	for e, batch := range sc.Batches {
		out.Batches[e] = make([]*sim.Product, len(batch))
		for i, p := range batch {
			out.Batches[e][i] = sim.NewProduct(p.ID, p.Weight, p.Dimensions, p.Frequency)
		}
	}
	for e, ids := range sc.Removals {
		out.Removals[e] = slices.Clone(ids)
	}
	return out
}

// TotalProducts returns the number of products across all batches.
func (sc *Scenario) TotalProducts() int {
	n := 0
	for _, b := range sc.Batches {
		n += len(b)
	}
	return n
}
