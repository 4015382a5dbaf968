package sim

import "math/bits"

// Occupancy is a compact 3D voxel bitset. Cell (x, y, z) lives at bit
// x + X*(y + Y*z), so a linear walk over the bits follows the same
// (z, y, x) order the first-fit search uses.
//
// Thread-safety: NOT thread-safe. Clone it to hand a private copy to a worker.
type Occupancy struct {
	dims  Voxel
	words []uint64
}

// NewOccupancy returns an empty grid of the given dimensions.
// Non-positive dimensions produce a grid with no cells.
func NewOccupancy(dims Voxel) *Occupancy {
	if dims.X < 0 || dims.Y < 0 || dims.Z < 0 {
		dims = Voxel{}
	}
	n := dims.Count()
	return &Occupancy{
		dims:  dims,
		words: make([]uint64, (n+63)/64),
	}
}

// Dims returns the grid dimensions.
func (o *Occupancy) Dims() Voxel {
	return o.dims
}

// Clone returns an independent copy.
func (o *Occupancy) Clone() *Occupancy {
	words := make([]uint64, len(o.words))
	copy(words, o.words)
	return &Occupancy{dims: o.dims, words: words}
}

// Equal reports whether two grids have the same shape and the same occupied cells.
func (o *Occupancy) Equal(other *Occupancy) bool {
	if o.dims != other.dims || len(o.words) != len(other.words) {
		return false
	}
	for i, w := range o.words {
		if other.words[i] != w {
			return false
		}
	}
	return true
}

// Occupied reports whether cell p is set. Out-of-range cells read as free.
func (o *Occupancy) Occupied(p Voxel) bool {
	if !o.inBounds(p) {
		return false
	}
	i := o.index(p.X, p.Y, p.Z)
	return o.words[i>>6]&(1<<(uint(i)&63)) != 0
}

// Count returns the number of occupied cells.
func (o *Occupancy) Count() int {
	n := 0
	for _, w := range o.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Clear frees every cell.
func (o *Occupancy) Clear() {
	for i := range o.words {
		o.words[i] = 0
	}
}

// FirstFit returns the first position, in ascending (z, y, x) order, at which a
// box of the given size covers only free cells. It returns false when no such
// position exists or the box exceeds the grid on any axis.
func (o *Occupancy) FirstFit(size Voxel) (Voxel, bool) {
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 || !size.Fits(o.dims) {
		return Voxel{}, false
	}
	for z := 0; z <= o.dims.Z-size.Z; z++ {
		for y := 0; y <= o.dims.Y-size.Y; y++ {
			for x := 0; x <= o.dims.X-size.X; x++ {
				if o.BoxFree(Voxel{x, y, z}, size) {
					return Voxel{x, y, z}, true
				}
			}
		}
	}
	return Voxel{}, false
}

// BoxFree reports whether the box at pos with the given size lies inside the
// grid and covers only free cells.
func (o *Occupancy) BoxFree(pos, size Voxel) bool {
	if pos.X < 0 || pos.Y < 0 || pos.Z < 0 {
		return false
	}
	if !(Voxel{pos.X + size.X, pos.Y + size.Y, pos.Z + size.Z}).Fits(o.dims) {
		return false
	}
	for z := pos.Z; z < pos.Z+size.Z; z++ {
		for y := pos.Y; y < pos.Y+size.Y; y++ {
			for x := pos.X; x < pos.X+size.X; x++ {
				i := o.index(x, y, z)
				if o.words[i>>6]&(1<<(uint(i)&63)) != 0 {
					return false
				}
			}
		}
	}
	return true
}

// Fill sets every cell of the box at pos to occupied (or free when occupied is false).
// The caller guarantees the box is inside the grid.
func (o *Occupancy) Fill(pos, size Voxel, occupied bool) {
	for z := pos.Z; z < pos.Z+size.Z; z++ {
		for y := pos.Y; y < pos.Y+size.Y; y++ {
			for x := pos.X; x < pos.X+size.X; x++ {
				i := o.index(x, y, z)
				if occupied {
					o.words[i>>6] |= 1 << (uint(i) & 63)
				} else {
					o.words[i>>6] &^= 1 << (uint(i) & 63)
				}
			}
		}
	}
}

// Place reserves the first-fit position for a box of the given size.
func (o *Occupancy) Place(size Voxel) (Voxel, bool) {
	pos, ok := o.FirstFit(size)
	if !ok {
		return Voxel{}, false
	}
	o.Fill(pos, size, true)
	return pos, true
}

func (o *Occupancy) inBounds(p Voxel) bool {
	return p.X >= 0 && p.Y >= 0 && p.Z >= 0 && p.X < o.dims.X && p.Y < o.dims.Y && p.Z < o.dims.Z
}

func (o *Occupancy) index(x, y, z int) int {
	return x + o.dims.X*(y+o.dims.Y*z)
}
