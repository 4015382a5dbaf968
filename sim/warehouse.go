package sim

import "fmt"

// Warehouse is the set of racks. Its flattened shelf list is the universe an
// optimizer assigns products to.
type Warehouse struct {
	VoxelSize float64

	racks   []*Rack
	shelves []*Shelf          // flattened in rack order, rebuilt by AddRack
	byID    map[string]*Shelf // shelf ID → shelf
}

// NewWarehouse creates an empty warehouse. All shelves must share voxelSize.
func NewWarehouse(voxelSize float64) *Warehouse {
	if voxelSize <= 0 {
		panic("NewWarehouse: voxelSize must be > 0")
	}
	return &Warehouse{
		VoxelSize: voxelSize,
		byID:      make(map[string]*Shelf),
	}
}

// AddRack appends a rack. It fails on a duplicate shelf ID or a shelf built
// with a different voxel size.
func (w *Warehouse) AddRack(r *Rack) error {
	for _, s := range r.Shelves() {
		if _, dup := w.byID[s.ID]; dup {
			return fmt.Errorf("rack %s: duplicate shelf ID %q", r.ID, s.ID)
		}
		if s.VoxelSize() != w.VoxelSize {
			return fmt.Errorf("rack %s: shelf %s voxel size %g differs from warehouse voxel size %g",
				r.ID, s.ID, s.VoxelSize(), w.VoxelSize)
		}
	}
	w.racks = append(w.racks, r)
	for _, s := range r.Shelves() {
		w.byID[s.ID] = s
		w.shelves = append(w.shelves, s)
	}
	return nil
}

// Racks returns the racks in insertion order.
func (w *Warehouse) Racks() []*Rack {
	return w.racks
}

// Shelves returns every shelf, rack by rack, in order.
func (w *Warehouse) Shelves() []*Shelf {
	return w.shelves
}

// ShelfByID looks up a shelf by its ID.
func (w *Warehouse) ShelfByID(id string) (*Shelf, bool) {
	s, ok := w.byID[id]
	return s, ok
}

// ProductCount returns the number of stored products.
func (w *Warehouse) ProductCount() int {
	n := 0
	for _, r := range w.racks {
		n += r.ProductCount()
	}
	return n
}

// OccupiedVoxels returns the occupied cell count summed over all shelves.
func (w *Warehouse) OccupiedVoxels() int {
	n := 0
	for _, s := range w.shelves {
		n += s.OccupiedVoxels()
	}
	return n
}

// TotalVoxels returns the cell count summed over all shelves.
func (w *Warehouse) TotalVoxels() int {
	n := 0
	for _, s := range w.shelves {
		n += s.TotalVoxels()
	}
	return n
}

// OccupancyPercent returns occupied/total voxels as a percentage (0 for an empty universe).
func (w *Warehouse) OccupancyPercent() float64 {
	total := w.TotalVoxels()
	if total == 0 {
		return 0
	}
	return 100 * float64(w.OccupiedVoxels()) / float64(total)
}

// Remove evicts a stored product using its shelf back-reference.
// It returns false when the product is not currently stored.
func (w *Warehouse) Remove(p *Product) bool {
	s, ok := w.byID[p.ShelfID()]
	if !ok {
		return false
	}
	return s.RemoveProduct(p)
}

// Reset empties every shelf.
func (w *Warehouse) Reset() {
	for _, s := range w.shelves {
		s.Reset()
	}
}

// Snapshot captures the current occupancy of every shelf as private scratch
// grids. Shelf indices match Shelves().
func (w *Warehouse) Snapshot() *Snapshot {
	snap := &Snapshot{
		voxelSize: w.VoxelSize,
		grids:     make([]*Occupancy, len(w.shelves)),
		unitCosts: make([]float64, len(w.shelves)),
	}
	for i, s := range w.shelves {
		snap.grids[i] = s.grid.Clone()
		snap.unitCosts[i] = s.UnitCost()
	}
	return snap
}

// Snapshot is a disposable copy of warehouse occupancy used to evaluate
// candidate assignments without touching real shelves or products.
// Each evaluation unit owns its own Snapshot; it is not safe for concurrent use.
type Snapshot struct {
	voxelSize float64
	grids     []*Occupancy
	unitCosts []float64
}

// Clone returns an independent copy.
func (s *Snapshot) Clone() *Snapshot {
	grids := make([]*Occupancy, len(s.grids))
	for i, g := range s.grids {
		grids[i] = g.Clone()
	}
	return &Snapshot{voxelSize: s.voxelSize, grids: grids, unitCosts: s.unitCosts}
}

// NumShelves returns the number of shelves captured.
func (s *Snapshot) NumShelves() int {
	return len(s.grids)
}

// UnitCost returns the unit cost of shelf i.
func (s *Snapshot) UnitCost(i int) float64 {
	return s.unitCosts[i]
}

// Fits reports whether a box of the given footprint currently fits shelf i.
func (s *Snapshot) Fits(i int, footprint Voxel) bool {
	_, ok := s.grids[i].FirstFit(footprint)
	return ok
}

// Place reserves the first-fit position for footprint on shelf i.
func (s *Snapshot) Place(i int, footprint Voxel) bool {
	_, ok := s.grids[i].Place(footprint)
	return ok
}

// OccupiedVoxels returns the occupied cell count across all captured shelves.
func (s *Snapshot) OccupiedVoxels() int {
	n := 0
	for _, g := range s.grids {
		n += g.Count()
	}
	return n
}
