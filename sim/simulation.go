package sim

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/warehouse-sim/warehouse-sim/sim/trace"
)

// EpochSummary reports the outcome of one epoch.
type EpochSummary struct {
	Epoch            int
	Removed          int     // stored products evicted this epoch
	IgnoredRemovals  int     // removal IDs naming no stored product
	Incoming         int     // products in the new batch
	Rejected         int     // batch products dropped as invalid or duplicate IDs
	CarriedIn        int     // unplaced products retried from the previous epoch
	Placed           int     // products committed to shelves this epoch
	CarriedOut       int     // products left for the next epoch
	StoredProducts   int     // products on shelves after placement
	OccupancyPercent float64 // occupied / total voxels after placement
	BatchCost        float64
	CumulativeCost   float64
}

// Simulation sequences epochs over one warehouse: removal, merge of carry-over
// with the new batch, optimizer invocation, cost accounting, carry-over.
// Epochs run strictly in order and every mutation of the warehouse happens on
// the calling goroutine.
type Simulation struct {
	warehouse *Warehouse
	optimizer Optimizer
	trace     *trace.SimulationTrace // nil when tracing is off

	pending   []*Product
	stored    map[string]*Product // product ID → stored product
	attempts  map[string]int      // product ID → epochs spent trying to place it
	totalCost float64
	epoch     int

	Metrics *Metrics
}

// NewSimulation creates a Simulation. The warehouse is shared with the
// optimizer, never copied. tr may be nil.
// Panics if wh or opt is nil.
func NewSimulation(wh *Warehouse, opt Optimizer, tr *trace.SimulationTrace) *Simulation {
	if wh == nil {
		panic("NewSimulation: warehouse must not be nil")
	}
	if opt == nil {
		panic("NewSimulation: optimizer must not be nil")
	}
	s := &Simulation{
		warehouse: wh,
		optimizer: opt,
		trace:     tr,
		stored:    make(map[string]*Product),
		attempts:  make(map[string]int),
		Metrics:   NewMetrics(),
	}
	for _, shelf := range wh.Shelves() {
		for _, p := range shelf.Products() {
			s.stored[p.ID] = p
		}
	}
	return s
}

// Run executes one epoch per batch. removals[i] applies before batches[i];
// a missing entry means no removals.
func (s *Simulation) Run(batches [][]*Product, removals [][]string) *Metrics {
	for i, batch := range batches {
		var ids []string
		if i < len(removals) {
			ids = removals[i]
		}
		s.RunEpoch(batch, ids)
	}
	logrus.Infof("Simulation finished after %d epochs: cost %.2f, %d products still unplaced",
		s.epoch, s.totalCost, len(s.pending))
	return s.Metrics
}

// RunEpoch evicts the products named in removals, then places the carried-over
// products followed by batch. Unknown removal IDs are ignored.
//
// Conservation: CarriedIn + (Incoming - Rejected) == Placed + CarriedOut.
func (s *Simulation) RunEpoch(batch []*Product, removals []string) EpochSummary {
	s.epoch++
	summary := EpochSummary{Epoch: s.epoch, Incoming: len(batch), CarriedIn: len(s.pending)}

	summary.Removed, summary.IgnoredRemovals = s.removePhase(removals)

	merged := make([]*Product, 0, len(s.pending)+len(batch))
	merged = append(merged, s.pending...)
	seen := make(map[string]bool, len(merged))
	for _, p := range merged {
		seen[p.ID] = true
	}
	for _, p := range batch {
		if err := p.Validate(); err != nil {
			logrus.Warnf("epoch %d: rejecting product: %v", s.epoch, err)
			summary.Rejected++
			continue
		}
		if _, dup := s.stored[p.ID]; dup || seen[p.ID] || p.IsPlaced() {
			logrus.Warnf("epoch %d: rejecting duplicate product ID %q", s.epoch, p.ID)
			summary.Rejected++
			continue
		}
		seen[p.ID] = true
		merged = append(merged, p)
	}

	unplaced := s.optimizer.Solve(merged, s.warehouse)
	summary.BatchCost = s.optimizer.Cost()

	s.pending = s.pending[:0:0]
	for _, p := range merged {
		s.attempts[p.ID]++
		if p.IsPlaced() {
			s.stored[p.ID] = p
			delete(s.attempts, p.ID)
			summary.Placed++
			s.recordPlacement(p)
			continue
		}
		s.pending = append(s.pending, p)
		if s.trace.Enabled() {
			s.trace.RecordCarry(trace.CarryRecord{Epoch: s.epoch, ProductID: p.ID, Attempts: s.attempts[p.ID]})
		}
	}
	if len(unplaced) != len(s.pending) {
		logrus.Warnf("epoch %d: optimizer reported %d unplaced, warehouse shows %d",
			s.epoch, len(unplaced), len(s.pending))
	}

	s.totalCost += summary.BatchCost
	summary.CarriedOut = len(s.pending)
	summary.StoredProducts = s.warehouse.ProductCount()
	summary.OccupancyPercent = s.warehouse.OccupancyPercent()
	summary.CumulativeCost = s.totalCost
	s.Metrics.Record(summary)

	logrus.Infof("[epoch %03d] removed %d, placed %d/%d, carried %d, stored %d, occupancy %.1f%%, cost %.2f (total %.2f)",
		s.epoch, summary.Removed, summary.Placed, len(merged), summary.CarriedOut,
		summary.StoredProducts, summary.OccupancyPercent, summary.BatchCost, s.totalCost)
	return summary
}

// removePhase evicts stored products by ID. Duplicated IDs are removed once.
func (s *Simulation) removePhase(ids []string) (removed, ignored int) {
	for _, id := range ids {
		p, ok := s.stored[id]
		if !ok {
			logrus.Debugf("epoch %d: ignoring removal of %q (not stored)", s.epoch, id)
			ignored++
			continue
		}
		shelfID := p.ShelfID()
		if !s.warehouse.Remove(p) {
			logrus.Warnf("epoch %d: %q indexed as stored but shelf %q refused removal", s.epoch, id, shelfID)
			ignored++
			continue
		}
		delete(s.stored, id)
		removed++
		if s.trace.Enabled() {
			s.trace.RecordRemoval(trace.RemovalRecord{Epoch: s.epoch, ProductID: id, ShelfID: shelfID})
		}
	}
	return removed, ignored
}

func (s *Simulation) recordPlacement(p *Product) {
	if !s.trace.Enabled() {
		return
	}
	rec := s.placementRecord(p)
	rec.Epoch = s.epoch
	s.trace.RecordPlacement(rec)
}

func (s *Simulation) placementRecord(p *Product) trace.PlacementRecord {
	pl, _ := p.Placement()
	rec := trace.PlacementRecord{
		ProductID: p.ID,
		ShelfID:   pl.ShelfID,
		Position:  [3]int{pl.Position.X, pl.Position.Y, pl.Position.Z},
		Footprint: [3]float64{pl.Orientation.L, pl.Orientation.W, pl.Orientation.H},
		Frequency: p.Frequency,
	}
	if shelf, ok := s.warehouse.ShelfByID(pl.ShelfID); ok {
		rec.Cost = PlacementCost(p, shelf)
	}
	return rec
}

// Layout returns one record per product currently stored, shelf by shelf in
// warehouse order. Epoch is the current epoch number.
func (s *Simulation) Layout() []trace.PlacementRecord {
	var out []trace.PlacementRecord
	for _, shelf := range s.warehouse.Shelves() {
		for _, p := range shelf.Products() {
			rec := s.placementRecord(p)
			rec.Epoch = s.epoch
			out = append(out, rec)
		}
	}
	return out
}

// Pending returns the products awaiting placement in the next epoch, in retry order.
func (s *Simulation) Pending() []*Product {
	return append([]*Product(nil), s.pending...)
}

// StoredIDs returns the IDs of stored products, sorted.
func (s *Simulation) StoredIDs() []string {
	ids := make([]string, 0, len(s.stored))
	for id := range s.stored {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TotalCost returns the cost accumulated over all epochs so far.
func (s *Simulation) TotalCost() float64 {
	return s.totalCost
}

// Epoch returns the number of epochs run so far.
func (s *Simulation) Epoch() int {
	return s.epoch
}

// Warehouse returns the simulated warehouse.
func (s *Simulation) Warehouse() *Warehouse {
	return s.warehouse
}
