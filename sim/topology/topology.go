// Package topology builds warehouses from configuration: either a generated
// grid of identical racks with position-dependent costs, or an explicit layout.
package topology

import (
	"fmt"

	"github.com/warehouse-sim/warehouse-sim/sim"
)

// Config describes a warehouse. When Layout is non-empty it is used verbatim
// and the generator fields (Racks through OperationalCostStep) are ignored.
type Config struct {
	VoxelSize           float64    `yaml:"voxel_size"`
	Racks               int        `yaml:"racks"`
	ShelvesPerRack      int        `yaml:"shelves_per_rack"`
	MaxShelves          int        `yaml:"max_shelves"`
	ShelfDimensions     sim.Dims   `yaml:"shelf_dimensions"`
	AccessCostStep      float64    `yaml:"access_cost_step"`      // rack r costs (r+1)*step to reach
	OperationalCostStep float64    `yaml:"operational_cost_step"` // shelf s costs (s+1)*step to handle
	Layout              []RackSpec `yaml:"layout,omitempty"`
}

// RackSpec is one explicitly configured rack.
type RackSpec struct {
	ID         string      `yaml:"id"`
	MaxShelves int         `yaml:"max_shelves,omitempty"`
	Shelves    []ShelfSpec `yaml:"shelves"`
}

// ShelfSpec is one explicitly configured shelf.
type ShelfSpec struct {
	ID              string   `yaml:"id"`
	Dimensions      sim.Dims `yaml:"dimensions"`
	AccessCost      float64  `yaml:"access_cost"`
	OperationalCost float64  `yaml:"operational_cost"`
}

// DefaultConfig returns 10 racks of 4 shelves, each 5.0×0.5×0.5 m on a 0.1 m grid.
func DefaultConfig() Config {
	return Config{
		VoxelSize:           0.1,
		Racks:               10,
		ShelvesPerRack:      4,
		MaxShelves:          sim.DefaultMaxShelves,
		ShelfDimensions:     sim.Dims{L: 5.0, W: 0.5, H: 0.5},
		AccessCostStep:      100,
		OperationalCostStep: 10,
	}
}

// Validate checks that the config can be built.
func (c Config) Validate() error {
	if c.VoxelSize <= 0 {
		return fmt.Errorf("voxel_size must be positive, got %g", c.VoxelSize)
	}
	if len(c.Layout) > 0 {
		return c.validateLayout()
	}
	if c.Racks < 0 {
		return fmt.Errorf("racks must be non-negative, got %d", c.Racks)
	}
	if c.ShelvesPerRack < 0 {
		return fmt.Errorf("shelves_per_rack must be non-negative, got %d", c.ShelvesPerRack)
	}
	if c.MaxShelves > 0 && c.ShelvesPerRack > c.MaxShelves {
		return fmt.Errorf("shelves_per_rack %d exceeds max_shelves %d", c.ShelvesPerRack, c.MaxShelves)
	}
	if c.Racks > 0 && c.ShelvesPerRack > 0 && !c.ShelfDimensions.Valid() {
		return fmt.Errorf("shelf_dimensions must be positive, got %v", c.ShelfDimensions)
	}
	if c.AccessCostStep < 0 || c.OperationalCostStep < 0 {
		return fmt.Errorf("cost steps must be non-negative, got access=%g operational=%g",
			c.AccessCostStep, c.OperationalCostStep)
	}
	return nil
}

func (c Config) validateLayout() error {
	rackIDs := make(map[string]bool)
	shelfIDs := make(map[string]bool)
	for i, r := range c.Layout {
		if r.ID == "" {
			return fmt.Errorf("layout[%d]: rack id must not be empty", i)
		}
		if rackIDs[r.ID] {
			return fmt.Errorf("layout[%d]: duplicate rack id %q", i, r.ID)
		}
		rackIDs[r.ID] = true
		maxShelves := r.MaxShelves
		if maxShelves <= 0 {
			maxShelves = sim.DefaultMaxShelves
		}
		if len(r.Shelves) > maxShelves {
			return fmt.Errorf("rack %s: %d shelves exceed max_shelves %d", r.ID, len(r.Shelves), maxShelves)
		}
		for j, s := range r.Shelves {
			if s.ID == "" {
				return fmt.Errorf("rack %s shelf[%d]: id must not be empty", r.ID, j)
			}
			if shelfIDs[s.ID] {
				return fmt.Errorf("rack %s: duplicate shelf id %q", r.ID, s.ID)
			}
			shelfIDs[s.ID] = true
			if !s.Dimensions.Valid() {
				return fmt.Errorf("shelf %s: dimensions must be positive, got %v", s.ID, s.Dimensions)
			}
			if s.AccessCost < 0 || s.OperationalCost < 0 {
				return fmt.Errorf("shelf %s: costs must be non-negative", s.ID)
			}
		}
	}
	return nil
}

// Build validates c and constructs the warehouse.
func Build(c Config) (*sim.Warehouse, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid warehouse config: %w", err)
	}
	layout := c.Layout
	if len(layout) == 0 {
		layout = c.generateLayout()
	}
	wh := sim.NewWarehouse(c.VoxelSize)
	for _, rs := range layout {
		rack := sim.NewRack(rs.ID, rs.MaxShelves)
		for _, ss := range rs.Shelves {
			shelf := sim.NewShelf(ss.ID, ss.Dimensions, c.VoxelSize, ss.AccessCost, ss.OperationalCost)
			if !rack.AddShelf(shelf) {
				return nil, fmt.Errorf("rack %s: cannot add shelf %s (max %d)", rs.ID, ss.ID, rack.MaxShelves)
			}
		}
		if err := wh.AddRack(rack); err != nil {
			return nil, err
		}
	}
	return wh, nil
}

// generateLayout names racks R{r} and shelves R{r}-S{s}. Access cost grows
// with rack distance and operational cost with shelf height.
func (c Config) generateLayout() []RackSpec {
	layout := make([]RackSpec, c.Racks)
	for r := range layout {
		rs := RackSpec{
			ID:         fmt.Sprintf("R%d", r),
			MaxShelves: c.MaxShelves,
			Shelves:    make([]ShelfSpec, c.ShelvesPerRack),
		}
		for s := range rs.Shelves {
			rs.Shelves[s] = ShelfSpec{
				ID:              fmt.Sprintf("R%d-S%d", r, s),
				Dimensions:      c.ShelfDimensions,
				AccessCost:      float64(r+1) * c.AccessCostStep,
				OperationalCost: float64(s+1) * c.OperationalCostStep,
			}
		}
		layout[r] = rs
	}
	return layout
}
