package bandit

import "math/rand"

// MutatorStats is what a mutator bandit needs from one batch of
// invocations to compute its throughput-normalized reward: how many times
// the mutator ran, how many of those runs found new coverage, and how that
// compares to the fuzzer's overall average.
type MutatorStats struct {
	Calls             int
	NewCoverageFound   int
	GlobalAvgCoverage  float64
	IterationsInBatch  int
}

// Reward computes (new_coverage_found/calls) / global_avg_coverage ·
// iterations_in_batch, the mutator reward formula. A zero GlobalAvgCoverage
// or zero Calls yields a zero reward rather than dividing by zero — there is
// nothing to compare against yet.
func (s MutatorStats) Reward() float64 {
	if s.Calls == 0 || s.GlobalAvgCoverage == 0 {
		return 0
	}
	perCall := float64(s.NewCoverageFound) / float64(s.Calls)
	return (perCall / s.GlobalAvgCoverage) * float64(s.IterationsInBatch)
}

// MutatorScheduler is the Exp3.1 instance over the fuzzer's fixed list of
// mutators: one action per mutator.
type MutatorScheduler struct {
	engine *Exp3
	names  []string
}

// NewMutatorScheduler builds a scheduler over the given mutator names, in
// the order they will be addressed by index.
func NewMutatorScheduler(names []string, rng *rand.Rand) *MutatorScheduler {
	return &MutatorScheduler{engine: New(len(names), rng), names: names}
}

// Select draws one mutator name from the current distribution.
func (m *MutatorScheduler) Select() (name string, index int) {
	index = m.engine.Select()
	return m.names[index], index
}

// Record applies one batch's outcome for the mutator at index.
func (m *MutatorScheduler) Record(index int, stats MutatorStats) {
	m.engine.Update(index, stats.Reward())
}

// Snapshot exposes the underlying per-arm state, keyed by mutator name, for
// tests and telemetry.
func (m *MutatorScheduler) Snapshot() map[string]ArmSnapshot {
	snap := m.engine.Snapshot()
	out := make(map[string]ArmSnapshot, len(m.names))
	for i, name := range m.names {
		out[name] = snap[i]
	}
	return out
}

// MaybeRestart runs the iteration-count restart rule for the mutator
// bandit, which — unlike the program cache — never shrinks its action
// pool, so iteration count is its only restart trigger.
func (m *MutatorScheduler) MaybeRestart(restartThreshold int64) {
	if m.engine.Iterations() >= restartThreshold {
		m.engine.Restart()
	}
}
