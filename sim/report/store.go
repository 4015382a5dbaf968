package report

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/warehouse-sim/warehouse-sim/sim"
	"github.com/warehouse-sim/warehouse-sim/sim/trace"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id         TEXT PRIMARY KEY,
	algorithm      TEXT NOT NULL,
	seed           INTEGER NOT NULL,
	epochs         INTEGER NOT NULL DEFAULT 0,
	total_cost     REAL NOT NULL DEFAULT 0,
	total_placed   INTEGER NOT NULL DEFAULT 0,
	total_removed  INTEGER NOT NULL DEFAULT 0,
	final_unplaced INTEGER NOT NULL DEFAULT 0,
	peak_occupancy REAL NOT NULL DEFAULT 0,
	started_at     INTEGER NOT NULL,
	finished_at    INTEGER
);
CREATE TABLE IF NOT EXISTS epochs (
	run_id            TEXT NOT NULL,
	epoch             INTEGER NOT NULL,
	removed           INTEGER NOT NULL,
	ignored_removals  INTEGER NOT NULL,
	incoming          INTEGER NOT NULL,
	rejected          INTEGER NOT NULL,
	carried_in        INTEGER NOT NULL,
	placed            INTEGER NOT NULL,
	carried_out       INTEGER NOT NULL,
	stored_products   INTEGER NOT NULL,
	occupancy_percent REAL NOT NULL,
	batch_cost        REAL NOT NULL,
	cumulative_cost   REAL NOT NULL,
	PRIMARY KEY (run_id, epoch),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
CREATE TABLE IF NOT EXISTS placements (
	run_id      TEXT NOT NULL,
	epoch       INTEGER NOT NULL,
	product_id  TEXT NOT NULL,
	shelf_id    TEXT NOT NULL,
	x           INTEGER NOT NULL,
	y           INTEGER NOT NULL,
	z           INTEGER NOT NULL,
	length      REAL NOT NULL,
	width       REAL NOT NULL,
	height      REAL NOT NULL,
	frequency   INTEGER NOT NULL,
	cost        REAL NOT NULL,
	PRIMARY KEY (run_id, product_id),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// pragmas are applied by the driver to every pooled connection it opens.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
	"foreign_keys(1)",
}

func dsn(path string) string {
	v := url.Values{}
	for _, p := range pragmas {
		v.Add("_pragma", p)
	}
	return path + "?" + v.Encode()
}

// Store writes run reports to a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the report database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open report db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect report db %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create report schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Run is one stored simulation run.
type Run struct {
	RunID         string
	Algorithm     string
	Seed          int64
	Epochs        int
	TotalCost     float64
	TotalPlaced   int
	TotalRemoved  int
	FinalUnplaced int
	PeakOccupancy float64
	StartedAt     int64
	FinishedAt    int64 // zero until FinishRun
}

// BeginRun inserts a run row and returns its generated ID.
func (s *Store) BeginRun(algorithm string, seed int64) (string, error) {
	runID := uuid.New().String()
	_, err := s.db.Exec(`INSERT INTO runs (run_id, algorithm, seed, started_at) VALUES (?, ?, ?, ?)`,
		runID, algorithm, seed, time.Now().UnixNano())
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return runID, nil
}

// SaveEpochs stores epoch summaries for a run in one transaction.
func (s *Store) SaveEpochs(runID string, epochs []sim.EpochSummary) error {
	return s.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO epochs (
				run_id, epoch, removed, ignored_removals, incoming, rejected,
				carried_in, placed, carried_out, stored_products,
				occupancy_percent, batch_cost, cumulative_cost
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare epoch insert: %w", err)
		}
		defer stmt.Close()
		for _, e := range epochs {
			if _, err := stmt.Exec(runID, e.Epoch, e.Removed, e.IgnoredRemovals, e.Incoming, e.Rejected,
				e.CarriedIn, e.Placed, e.CarriedOut, e.StoredProducts,
				e.OccupancyPercent, e.BatchCost, e.CumulativeCost); err != nil {
				return fmt.Errorf("insert epoch %d: %w", e.Epoch, err)
			}
		}
		return nil
	})
}

// SavePlacements stores a placement layout for a run in one transaction.
func (s *Store) SavePlacements(runID string, records []trace.PlacementRecord) error {
	return s.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO placements (
				run_id, epoch, product_id, shelf_id, x, y, z,
				length, width, height, frequency, cost
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare placement insert: %w", err)
		}
		defer stmt.Close()
		for _, r := range records {
			if _, err := stmt.Exec(runID, r.Epoch, r.ProductID, r.ShelfID,
				r.Position[0], r.Position[1], r.Position[2],
				r.Footprint[0], r.Footprint[1], r.Footprint[2],
				r.Frequency, r.Cost); err != nil {
				return fmt.Errorf("insert placement %s: %w", r.ProductID, err)
			}
		}
		return nil
	})
}

// FinishRun records the run totals.
func (s *Store) FinishRun(runID string, m *sim.Metrics) error {
	res, err := s.db.Exec(`
		UPDATE runs SET epochs = ?, total_cost = ?, total_placed = ?, total_removed = ?,
			final_unplaced = ?, peak_occupancy = ?, finished_at = ?
		WHERE run_id = ?`,
		len(m.Epochs), m.TotalCost, m.TotalPlaced, m.TotalRemoved,
		m.FinalUnplaced, m.PeakOccupancy, time.Now().UnixNano(), runID)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// Runs returns all stored runs, oldest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, algorithm, seed, epochs, total_cost, total_placed, total_removed,
		       final_unplaced, peak_occupancy, started_at, COALESCE(finished_at, 0)
		FROM runs
		ORDER BY started_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Algorithm, &r.Seed, &r.Epochs, &r.TotalCost, &r.TotalPlaced,
			&r.TotalRemoved, &r.FinalUnplaced, &r.PeakOccupancy, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Epochs returns the stored epoch summaries of a run in epoch order.
func (s *Store) Epochs(runID string) ([]sim.EpochSummary, error) {
	rows, err := s.db.Query(`
		SELECT epoch, removed, ignored_removals, incoming, rejected, carried_in, placed,
		       carried_out, stored_products, occupancy_percent, batch_cost, cumulative_cost
		FROM epochs
		WHERE run_id = ?
		ORDER BY epoch`, runID)
	if err != nil {
		return nil, fmt.Errorf("query epochs: %w", err)
	}
	defer rows.Close()

	var out []sim.EpochSummary
	for rows.Next() {
		var e sim.EpochSummary
		if err := rows.Scan(&e.Epoch, &e.Removed, &e.IgnoredRemovals, &e.Incoming, &e.Rejected,
			&e.CarriedIn, &e.Placed, &e.CarriedOut, &e.StoredProducts,
			&e.OccupancyPercent, &e.BatchCost, &e.CumulativeCost); err != nil {
			return nil, fmt.Errorf("scan epoch: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Placements returns the stored layout of a run ordered by shelf then product.
func (s *Store) Placements(runID string) ([]trace.PlacementRecord, error) {
	rows, err := s.db.Query(`
		SELECT epoch, product_id, shelf_id, x, y, z, length, width, height, frequency, cost
		FROM placements
		WHERE run_id = ?
		ORDER BY shelf_id, product_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query placements: %w", err)
	}
	defer rows.Close()

	var out []trace.PlacementRecord
	for rows.Next() {
		var r trace.PlacementRecord
		if err := rows.Scan(&r.Epoch, &r.ProductID, &r.ShelfID,
			&r.Position[0], &r.Position[1], &r.Position[2],
			&r.Footprint[0], &r.Footprint[1], &r.Footprint[2],
			&r.Frequency, &r.Cost); err != nil {
			return nil, fmt.Errorf("scan placement: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// SaveRun stores a complete simulation in one call: run row, epochs, final
// layout, totals. Returns the run ID.
func (s *Store) SaveRun(algorithm string, seed int64, m *sim.Metrics, layout []trace.PlacementRecord) (string, error) {
	runID, err := s.BeginRun(algorithm, seed)
	if err != nil {
		return "", err
	}
	if err := s.SaveEpochs(runID, m.Epochs); err != nil {
		return "", err
	}
	if err := s.SavePlacements(runID, layout); err != nil {
		return "", err
	}
	if err := s.FinishRun(runID, m); err != nil {
		return "", err
	}
	return runID, nil
}
