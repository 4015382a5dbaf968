package sim

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchView_VolumeOrderIsStableDescending(t *testing.T) {
	batch := []*Product{
		NewProduct("small", 1, Dims{0.5, 0.5, 0.5}, 1),
		NewProduct("big", 1, Dims{1, 1, 1}, 1),
		NewProduct("small2", 1, Dims{0.5, 0.5, 0.5}, 1),
	}
	v := newBatchView(batch, 0.5)

	assert.Equal(t, []int{1, 0, 2}, v.volumeOrder)
	assert.Equal(t, Voxel{2, 2, 2}, v.footprints[1])
}

func TestBatchView_Evaluate_PlacesLargestFirst(t *testing.T) {
	// GIVEN one 8-voxel shelf, a small cube listed before a shelf-filling cube
	wh := singleShelfWarehouse(t, Dims{1, 1, 1})
	batch := []*Product{
		NewProduct("small", 1, Dims{0.5, 0.5, 0.5}, 3),
		NewProduct("big", 1, Dims{1, 1, 1}, 7),
	}
	v := newBatchView(batch, wh.VoxelSize)

	// WHEN both are assigned to the shelf
	ev := v.evaluate([]int{0, 0}, wh.Snapshot())

	// THEN the big one is evaluated first and the small one no longer fits
	assert.Equal(t, evaluation{cost: 7, unplaced: 1}, ev)
	assert.Equal(t, 0, wh.OccupiedVoxels(), "evaluation must not touch the warehouse")
}

func TestBatchView_Evaluate_UnassignedCountsAsUnplaced(t *testing.T) {
	wh := singleShelfWarehouse(t, Dims{1, 1, 1})
	batch := []*Product{NewProduct("a", 1, Dims{0.5, 0.5, 0.5}, 3)}
	v := newBatchView(batch, wh.VoxelSize)

	assert.Equal(t, evaluation{unplaced: 1}, v.evaluate([]int{unassigned}, wh.Snapshot()))
}

func TestBatchView_Commit_ReturnsUnplacedInBatchOrder(t *testing.T) {
	wh := singleShelfWarehouse(t, Dims{1, 1, 1})
	batch := []*Product{
		NewProduct("a", 1, Dims{0.5, 0.5, 0.5}, 3),
		NewProduct("big", 1, Dims{1, 1, 1}, 7),
		NewProduct("c", 1, Dims{0.5, 0.5, 0.5}, 2),
	}
	v := newBatchView(batch, wh.VoxelSize)

	cost, unplaced := v.commit([]int{0, 0, unassigned}, wh.Shelves())

	assert.Equal(t, 7.0, cost)
	require.Len(t, unplaced, 2)
	assert.Equal(t, "a", unplaced[0].ID)
	assert.Equal(t, "c", unplaced[1].ID)
	assert.True(t, batch[1].IsPlaced())
}

func TestParallelFor_VisitsEveryIndexOnce(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 64} {
		var hits [50]int32
		parallelFor(len(hits), workers, func(i int) {
			atomic.AddInt32(&hits[i], 1)
		})
		for i, h := range hits {
			assert.Equal(t, int32(1), h, "workers=%d index %d", workers, i)
		}
	}
}
