package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// SimulationKey identifies a reproducible run. The same key with the same
// configuration yields the same scenario, the same placements and the same costs.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

const (
	// SubsystemScenario drives batch and removal generation. It is seeded with
	// the master seed itself, so --seed alone names a scenario.
	SubsystemScenario = "scenario"

	// SubsystemOptimizer is the prefix of every per-strategy stream.
	SubsystemOptimizer = "optimizer"
)

// SubsystemAlgorithm names the stream of one placement strategy, e.g.
// "optimizer_genetic". Strategies never share a stream, so running one
// strategy never shifts the draws of another.
func SubsystemAlgorithm(name string) string {
	return fmt.Sprintf("%s_%s", SubsystemOptimizer, name)
}

// PartitionedRNG hands out one *rand.Rand per named subsystem, each seeded
// from the key. SubsystemScenario gets the key unchanged; every other name
// gets key XOR fnv1a64(name).
//
// Not safe for concurrent use. Strategies that fan out draw their worker
// seeds from their stream on the calling goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// SeedFor returns the seed ForSubsystem uses for name.
func (p *PartitionedRNG) SeedFor(name string) int64 {
	if name == SubsystemScenario {
		return int64(p.key)
	}
	return int64(p.key) ^ fnv1a64(name)
}

// ForSubsystem returns the stream for name, creating it on first use.
// Repeated calls return the same instance, so draws continue where they left off.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	rng, ok := p.subsystems[name]
	if !ok {
		rng = rand.New(rand.NewSource(p.SeedFor(name)))
		p.subsystems[name] = rng
	}
	return rng
}

// Key returns the SimulationKey the streams derive from.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
