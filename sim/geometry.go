package sim

import (
	"fmt"
	"math"
)

// voxelEpsilon absorbs float error in dimension/voxelSize ratios so that
// 0.5/0.1 counts as exactly 5 voxels.
const voxelEpsilon = 1e-9

// Dims is a physical extent in metres (length along x, width along y, height along z).
type Dims struct {
	L float64 `yaml:"l" json:"l"`
	W float64 `yaml:"w" json:"w"`
	H float64 `yaml:"h" json:"h"`
}

// Volume returns L*W*H.
func (d Dims) Volume() float64 {
	return d.L * d.W * d.H
}

// Valid reports whether every axis is strictly positive.
func (d Dims) Valid() bool {
	return d.L > 0 && d.W > 0 && d.H > 0
}

func (d Dims) String() string {
	return fmt.Sprintf("(%.3g, %.3g, %.3g)", d.L, d.W, d.H)
}

// Voxel is an integer triple on a voxel grid. It is used both for positions
// (the minimum corner of a box) and for sizes (footprints, grid dimensions).
type Voxel struct {
	X, Y, Z int
}

// Count returns X*Y*Z, the number of cells a box of this size covers.
func (v Voxel) Count() int {
	return v.X * v.Y * v.Z
}

// Fits reports whether a box of size v fits inside a box of size outer.
func (v Voxel) Fits(outer Voxel) bool {
	return v.X <= outer.X && v.Y <= outer.Y && v.Z <= outer.Z
}

// Scale converts a voxel size back to physical metres.
func (v Voxel) Scale(voxelSize float64) Dims {
	return Dims{L: float64(v.X) * voxelSize, W: float64(v.Y) * voxelSize, H: float64(v.Z) * voxelSize}
}

func (v Voxel) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}

// VoxelFootprint returns the per-axis ceiling of d/voxelSize, never less than 1.
// The footprint is a conservative reservation: scaled back it is always at
// least as large as the physical item.
func VoxelFootprint(d Dims, voxelSize float64) Voxel {
	return Voxel{
		X: ceilVoxels(d.L, voxelSize),
		Y: ceilVoxels(d.W, voxelSize),
		Z: ceilVoxels(d.H, voxelSize),
	}
}

// GridDims returns the per-axis floor of d/voxelSize. Any remainder is wasted.
func GridDims(d Dims, voxelSize float64) Voxel {
	return Voxel{
		X: floorVoxels(d.L, voxelSize),
		Y: floorVoxels(d.W, voxelSize),
		Z: floorVoxels(d.H, voxelSize),
	}
}

// IsAligned reports whether every axis of d is an exact multiple of voxelSize.
func IsAligned(d Dims, voxelSize float64) bool {
	for _, v := range []float64{d.L, d.W, d.H} {
		r := v / voxelSize
		if math.Abs(r-math.Round(r)) > voxelEpsilon*math.Max(1, r) {
			return false
		}
	}
	return true
}

func ceilVoxels(v, voxelSize float64) int {
	n := int(math.Ceil(v/voxelSize - voxelEpsilon))
	if n < 1 {
		return 1
	}
	return n
}

func floorVoxels(v, voxelSize float64) int {
	n := int(math.Floor(v/voxelSize + voxelEpsilon))
	if n < 0 {
		return 0
	}
	return n
}
