package sim

// DefaultMaxShelves is the shelf capacity of a rack when none is configured.
const DefaultMaxShelves = 6

// Rack is a fixed-capacity ordered collection of shelves.
type Rack struct {
	ID         string
	MaxShelves int

	shelves []*Shelf
}

// NewRack creates an empty rack. maxShelves <= 0 selects DefaultMaxShelves.
func NewRack(id string, maxShelves int) *Rack {
	if maxShelves <= 0 {
		maxShelves = DefaultMaxShelves
	}
	return &Rack{ID: id, MaxShelves: maxShelves}
}

// AddShelf appends s unless the rack is full.
func (r *Rack) AddShelf(s *Shelf) bool {
	if len(r.shelves) >= r.MaxShelves {
		return false
	}
	r.shelves = append(r.shelves, s)
	return true
}

// Shelf returns the shelf at index i, or false when i is out of range.
func (r *Rack) Shelf(i int) (*Shelf, bool) {
	if i < 0 || i >= len(r.shelves) {
		return nil, false
	}
	return r.shelves[i], true
}

// Shelves returns the rack's shelves in order.
func (r *Rack) Shelves() []*Shelf {
	return r.shelves
}

// ProductCount returns the number of products stored across the rack.
func (r *Rack) ProductCount() int {
	n := 0
	for _, s := range r.shelves {
		n += s.ProductCount()
	}
	return n
}
