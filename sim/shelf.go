package sim

import (
	"slices"

	"github.com/sirupsen/logrus"
)

// Shelf owns one voxel occupancy grid and the placement state of the products
// stored on it.
//
// Invariants (checked by tests after every place/remove sequence):
//   - a cell is occupied iff exactly one stored product's box covers it
//   - stored products' boxes never overlap
//   - OccupiedVoxels() equals the sum of stored products' footprint volumes
type Shelf struct {
	ID              string
	Dimensions      Dims
	AccessCost      float64
	OperationalCost float64

	voxelSize float64
	grid      *Occupancy
	stored    []*Product
	occupied  int
}

// NewShelf creates an empty shelf whose grid is floor(Dimensions/voxelSize)
// on each axis. A dimension that is not a multiple of voxelSize is not an
// error; the remainder is wasted and a warning is logged.
func NewShelf(id string, dims Dims, voxelSize, accessCost, operationalCost float64) *Shelf {
	if voxelSize <= 0 {
		panic("NewShelf: voxelSize must be > 0")
	}
	if !IsAligned(dims, voxelSize) {
		logrus.Warnf("shelf %s: dimensions %v not a multiple of voxel size %g; grid truncated to %v",
			id, dims, voxelSize, GridDims(dims, voxelSize))
	}
	return &Shelf{
		ID:              id,
		Dimensions:      dims,
		AccessCost:      accessCost,
		OperationalCost: operationalCost,
		voxelSize:       voxelSize,
		grid:            NewOccupancy(GridDims(dims, voxelSize)),
	}
}

// VoxelSize returns the edge length of one grid cell.
func (s *Shelf) VoxelSize() float64 { return s.voxelSize }

// GridDims returns the voxel grid dimensions.
func (s *Shelf) GridDims() Voxel { return s.grid.Dims() }

// TotalVoxels returns the number of cells in the grid.
func (s *Shelf) TotalVoxels() int { return s.grid.Dims().Count() }

// OccupiedVoxels returns the cached count of occupied cells.
func (s *Shelf) OccupiedVoxels() int { return s.occupied }

// UnitCost is the per-frequency handling cost of storing on this shelf.
func (s *Shelf) UnitCost() float64 { return s.AccessCost + s.OperationalCost }

// ProductCount returns the number of stored products.
func (s *Shelf) ProductCount() int { return len(s.stored) }

// Products returns the stored products in placement order.
// The returned slice is a copy; the products themselves are shared.
func (s *Shelf) Products() []*Product {
	return slices.Clone(s.stored)
}

// Occupancy returns a private copy of the grid.
func (s *Shelf) Occupancy() *Occupancy {
	return s.grid.Clone()
}

// FindPlacementPosition returns the first free position for a box of the
// given voxel size, scanning z, then y, then x in ascending order.
func (s *Shelf) FindPlacementPosition(footprint Voxel) (Voxel, bool) {
	return s.grid.FirstFit(footprint)
}

// PlaceProduct reserves the first-fit position for p. On failure nothing is
// mutated. Products already holding a placement are refused. No rotation is tried.
func (s *Shelf) PlaceProduct(p *Product) bool {
	if p.IsPlaced() {
		logrus.Warnf("shelf %s: %s already placed on %s", s.ID, p.ID, p.ShelfID())
		return false
	}
	footprint := p.Footprint(s.voxelSize)
	pos, ok := s.grid.Place(footprint)
	if !ok {
		return false
	}
	s.stored = append(s.stored, p)
	s.occupied += footprint.Count()
	p.setPlacement(Placement{
		ShelfID:     s.ID,
		Position:    pos,
		Orientation: footprint.Scale(s.voxelSize),
		Block:       footprint,
	})
	return true
}

// RemoveProduct frees exactly the block recorded when p was placed and clears
// its placement. It returns false if p itself is not stored on this shelf;
// another product with the same ID does not count.
func (s *Shelf) RemoveProduct(p *Product) bool {
	idx := slices.Index(s.stored, p)
	if idx < 0 || !p.IsPlaced() || p.ShelfID() != s.ID {
		return false
	}
	pl, _ := p.Placement()
	s.grid.Fill(pl.Position, pl.Block, false)
	s.stored = slices.Delete(s.stored, idx, idx+1)
	s.occupied = s.grid.Count()
	p.clearPlacement()
	return true
}

// Reset clears every stored product's placement and empties the grid.
func (s *Shelf) Reset() {
	for _, p := range s.stored {
		p.clearPlacement()
	}
	s.stored = nil
	s.grid.Clear()
	s.occupied = 0
}
