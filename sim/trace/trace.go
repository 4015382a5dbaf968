package trace

// TraceLevel controls the verbosity of placement tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelPlacements captures placements, removals and carry-over.
	TraceLevelPlacements TraceLevel = "placements"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:       true,
	TraceLevelPlacements: true,
	"":                   true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// SimulationTrace collects placement records during a simulation run.
type SimulationTrace struct {
	Level      TraceLevel
	Placements []PlacementRecord
	Removals   []RemovalRecord
	Carries    []CarryRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(level TraceLevel) *SimulationTrace {
	return &SimulationTrace{
		Level:      level,
		Placements: make([]PlacementRecord, 0),
		Removals:   make([]RemovalRecord, 0),
		Carries:    make([]CarryRecord, 0),
	}
}

// Enabled reports whether records should be collected.
// Safe to call on a nil trace.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Level == TraceLevelPlacements
}

// RecordPlacement appends a placement record.
func (st *SimulationTrace) RecordPlacement(record PlacementRecord) {
	st.Placements = append(st.Placements, record)
}

// RecordRemoval appends a removal record.
func (st *SimulationTrace) RecordRemoval(record RemovalRecord) {
	st.Removals = append(st.Removals, record)
}

// RecordCarry appends a carry-over record.
func (st *SimulationTrace) RecordCarry(record CarryRecord) {
	st.Carries = append(st.Carries, record)
}

// PlacementsForEpoch returns the placements committed in one epoch, in record order.
func (st *SimulationTrace) PlacementsForEpoch(epoch int) []PlacementRecord {
	var out []PlacementRecord
	for _, r := range st.Placements {
		if r.Epoch == epoch {
			out = append(out, r)
		}
	}
	return out
}
