// Package trace provides placement-trace recording for warehouse simulation runs.
// Records are plain data; the package does not import sim.
package trace

// PlacementRecord captures one committed placement: where a product went and
// how much physical space was reserved for it.
type PlacementRecord struct {
	Epoch     int        `json:"epoch"`
	ProductID string     `json:"product_id"`
	ShelfID   string     `json:"shelf_id"`
	Position  [3]int     `json:"position"`  // voxel coordinates of the box's minimum corner
	Footprint [3]float64 `json:"footprint"` // reserved physical extent (voxel footprint × voxel size)
	Frequency int        `json:"frequency"`
	Cost      float64    `json:"cost"`
}

// RemovalRecord captures one eviction performed in an epoch's removal phase.
type RemovalRecord struct {
	Epoch     int    `json:"epoch"`
	ProductID string `json:"product_id"`
	ShelfID   string `json:"shelf_id"`
}

// CarryRecord captures a product left unplaced at the end of an epoch.
// Attempts counts the epochs in which placement was tried, including this one.
type CarryRecord struct {
	Epoch     int    `json:"epoch"`
	ProductID string `json:"product_id"`
	Attempts  int    `json:"attempts"`
}
