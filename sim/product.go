package sim

import "fmt"

// Product is a physical item awaiting or occupying a storage location.
// Lifecycle: unplaced at creation, placed by Shelf.PlaceProduct, unplaced
// again by Shelf.RemoveProduct. Placement state is owned by the shelf that
// holds the product; the product only remembers the shelf's ID.
type Product struct {
	ID         string
	Weight     float64
	Dimensions Dims
	Frequency  int // retrieval weight, > 0

	placement *Placement
}

// Placement records where a product is stored.
type Placement struct {
	ShelfID     string // lookup key, never an owning reference
	Position    Voxel  // minimum corner on the shelf's voxel grid
	Orientation Dims   // physical space reserved: footprint * voxel size
	Block       Voxel  // reserved block size in voxels
}

// NewProduct creates an unplaced product.
func NewProduct(id string, weight float64, dims Dims, frequency int) *Product {
	return &Product{
		ID:         id,
		Weight:     weight,
		Dimensions: dims,
		Frequency:  frequency,
	}
}

// Validate checks the fields a placement engine relies on.
func (p *Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product ID must not be empty")
	}
	if !p.Dimensions.Valid() {
		return fmt.Errorf("product %q: dimensions must be positive, got %v", p.ID, p.Dimensions)
	}
	if p.Frequency <= 0 {
		return fmt.Errorf("product %q: frequency must be positive, got %d", p.ID, p.Frequency)
	}
	if p.Weight < 0 {
		return fmt.Errorf("product %q: weight must be non-negative, got %f", p.ID, p.Weight)
	}
	return nil
}

// Volume returns the physical volume in cubic metres.
func (p *Product) Volume() float64 {
	return p.Dimensions.Volume()
}

// Footprint returns the product's size in voxels for the given voxel size.
func (p *Product) Footprint(voxelSize float64) Voxel {
	return VoxelFootprint(p.Dimensions, voxelSize)
}

// Placement returns the current placement, if any.
func (p *Product) Placement() (Placement, bool) {
	if p.placement == nil {
		return Placement{}, false
	}
	return *p.placement, true
}

// IsPlaced reports whether the product currently occupies a shelf.
func (p *Product) IsPlaced() bool {
	return p.placement != nil
}

// ShelfID returns the ID of the holding shelf, or "" when unplaced.
func (p *Product) ShelfID() string {
	if p.placement == nil {
		return ""
	}
	return p.placement.ShelfID
}

func (p *Product) String() string {
	return fmt.Sprintf("Product %s", p.ID)
}

func (p *Product) setPlacement(pl Placement) {
	p.placement = &pl
}

func (p *Product) clearPlacement() {
	p.placement = nil
}
