// Package fuzzer wires together the IR construction/splicing/bandit
// packages into one driver: the build loop and the engine-level concerns
// (event bus, corpus, runner/evaluator contracts) that sit above them. It
// is a small registry plus driver, never a process-wide global — actions
// keyed by name and selected by a bandit instead of a caller-supplied key.
// All such state is encapsulated in a Fuzzer context object owned by the
// top-level driver; none of it lives in a process-wide singleton.
package fuzzer

import (
	"context"
	"math/rand"
	"time"

	"github.com/edgecover/fuzzer/bandit"
	"github.com/edgecover/fuzzer/builder"
	"github.com/edgecover/fuzzer/ir"
)

// Config carries the tunables that are implementer knobs rather than
// contracts.
type Config struct {
	// WindowSize is how many iterations make up one critical-mass window,
	// the unit of bandit bookkeeping cadence: bandit Update calls and cache
	// regeneration checks both happen at window boundaries, not every
	// iteration.
	WindowSize int
	// RestartThreshold is passed straight through to both bandit
	// instances' restart rule.
	RestartThreshold int64
	// CacheSize, MinMutationsPerSample, and RegenerateThreshold configure
	// the program-cache bandit exactly as in bandit.NewProgramCache.
	CacheSize             int
	MinMutationsPerSample int
	RegenerateThreshold   int
	// Timeout bounds each Runner.Run call.
	Timeout time.Duration
}

// Fuzzer is the context object a top-level driver owns exclusively: every
// piece of state that would otherwise tempt a process-wide singleton lives
// here instead.
type Fuzzer struct {
	cfg Config

	builder *builder.Builder
	events  *Events
	corpus  Corpus
	runner  Runner
	evaluator Evaluator
	lifter  Lifter
	mutators []Mutator

	mutatorSched *bandit.MutatorScheduler
	progCache    *bandit.ProgramCache

	Log *Log
	rng *rand.Rand

	iterationsInWindow int
	mutatorBatch       []MutatorStats
	cacheBatch         map[int]ProgramStats
	coverageTotal      int
	coverageCalls      int
}

// MutatorStats and ProgramStats mirror bandit.MutatorStats/ProgramStats;
// Fuzzer accumulates in these across a window before handing the totals to
// the bandit, since its reward formulas are defined per-batch: an arm can
// run multiple times within one batch.
type MutatorStats = bandit.MutatorStats
type ProgramStats = bandit.ProgramStats

// New wires a Fuzzer around already-constructed collaborators. mutators
// must be given in the same order their names were registered under with
// the mutator bandit.
func New(cfg Config, b *builder.Builder, events *Events, corpus Corpus, runner Runner, evaluator Evaluator, lifter Lifter, mutators []Mutator, rng *rand.Rand) *Fuzzer {
	names := make([]string, len(mutators))
	for i, m := range mutators {
		names[i] = m.Name()
	}
	return &Fuzzer{
		cfg:          cfg,
		builder:      b,
		events:       events,
		corpus:       corpus,
		runner:       runner,
		evaluator:    evaluator,
		lifter:       lifter,
		mutators:     mutators,
		mutatorSched: bandit.NewMutatorScheduler(names, rng),
		progCache:    bandit.NewProgramCache(cfg.CacheSize, cfg.MinMutationsPerSample, cfg.RegenerateThreshold, cfg.RestartThreshold, rng),
		Log:          NewLog(),
		rng:          rng,
		mutatorBatch: make([]MutatorStats, len(mutators)),
		cacheBatch:   map[int]ProgramStats{},
	}
}

// SeedCache adds an initial batch of corpus programs to the program-cache
// bandit's pool; call this once, after Corpus has some initial entries and
// before the first RunIteration.
func (f *Fuzzer) SeedCache(programs []*ir.Program) {
	for _, p := range programs {
		f.progCache.AddToPool(p)
	}
}

func (f *Fuzzer) Events() *Events { return f.events }
func (f *Fuzzer) Corpus() Corpus  { return f.corpus }

// RunIteration performs one build-loop iteration: select a base program and
// a mutator via the two bandits, clone the base into a fresh Code, mutate
// it, run it through the external Runner/Evaluator, and update the corpus,
// event bus, and per-window bandit statistics. It returns the finalized
// candidate program and whether the mutator produced one at all; a false
// return is a swallowed CodeGeneratorFailed/SpliceFailed case, not an
// error.
func (f *Fuzzer) RunIteration(ctx context.Context) (*ir.Program, bool, error) {
	f.Log.Clear()
	base, slot, haveBase := f.selectBase()
	mutatorName, mutatorIdx := f.mutatorSched.Select()
	mutator := f.mutators[mutatorIdx]

	f.builder.Reset()
	ok := mutator.Mutate(f.builder, base, f.corpus, f.rng)
	if !ok {
		f.recordMutatorCall(mutatorIdx, false)
		if haveBase {
			f.recordCacheInvocation(slot, false)
		}
		f.maybeFlushWindow()
		return nil, false, nil
	}

	program := ir.Finalize(f.builder.Code(), base, []string{mutatorName})
	f.events.Fire(EventProgramGenerated, EventPayload{Program: program})

	script, err := f.lifter.Lift(program)
	if err != nil {
		f.recordMutatorCall(mutatorIdx, false)
		if haveBase {
			f.recordCacheInvocation(slot, false)
		}
		f.maybeFlushWindow()
		return program, true, nil
	}

	f.events.Fire(EventPreExecute, EventPayload{Program: program})
	execution, err := f.runner.Run(ctx, script, f.cfg.Timeout)
	f.events.Fire(EventPostExecute, EventPayload{Program: program, Execution: execution})
	if err != nil {
		f.recordMutatorCall(mutatorIdx, false)
		if haveBase {
			f.recordCacheInvocation(slot, false)
		}
		f.maybeFlushWindow()
		return program, true, err
	}

	foundCoverage := f.handleOutcome(program, execution)
	f.recordMutatorCall(mutatorIdx, foundCoverage)
	if haveBase {
		f.recordCacheInvocation(slot, foundCoverage)
	}
	f.maybeFlushWindow()
	return program, true, nil
}

// selectBase draws a base program from the cache bandit, or reports no
// base at all while the cache pool is still filling (SeedCache/earlier
// AddToPool calls have not yet supplied cacheSize candidates) — a
// GenerateMutator still works with no base, it is only Splice/
// OperationMutator that depend on one.
func (f *Fuzzer) selectBase() (program *ir.Program, slot int, ok bool) {
	if !f.progCache.Ready() {
		return nil, 0, false
	}
	program, slot = f.progCache.Select()
	return program, slot, true
}

// handleOutcome dispatches an Execution to the evaluator and fires the
// matching lifecycle event, returning whether new coverage was found (the
// signal recordMutatorCall/recordCacheInvocation need for the bandit reward
// formulas).
func (f *Fuzzer) handleOutcome(program *ir.Program, execution Execution) bool {
	if execution.Outcome == Crashed {
		if aspects, ok := f.evaluator.EvaluateCrash(execution); ok {
			f.events.Fire(EventCrashFound, EventPayload{Program: program, Aspects: aspects, Execution: execution})
		}
		return false
	}

	aspects, ok := f.evaluator.Evaluate(execution)
	if ok && !aspects.IsEmpty() {
		f.corpus.Add(program, aspects)
		f.progCache.AddToPool(program)
		f.events.Fire(EventInterestingProgramFound, EventPayload{Program: program, Aspects: aspects, Execution: execution})
		f.coverageTotal++
		return true
	}
	if execution.Outcome == Succeeded {
		f.events.Fire(EventValidProgramFound, EventPayload{Program: program, Execution: execution})
	}
	return false
}

func (f *Fuzzer) recordMutatorCall(idx int, foundCoverage bool) {
	f.mutatorBatch[idx].Calls++
	if foundCoverage {
		f.mutatorBatch[idx].NewCoverageFound++
	}
	f.coverageCalls++
}

func (f *Fuzzer) recordCacheInvocation(slot int, foundProgram bool) {
	stats := f.cacheBatch[slot]
	stats.Invocations++
	if foundProgram {
		stats.ProgramsFound++
	}
	f.cacheBatch[slot] = stats
}

// maybeFlushWindow applies accumulated per-window stats to both bandits
// once WindowSize iterations have passed, then runs the program cache's
// window-boundary bookkeeping (regeneration, restart).
func (f *Fuzzer) maybeFlushWindow() {
	f.iterationsInWindow++
	if f.iterationsInWindow < f.cfg.WindowSize {
		return
	}

	globalAvg := 0.0
	if f.coverageCalls > 0 {
		globalAvg = float64(f.coverageTotal) / float64(f.coverageCalls)
	}
	for idx := range f.mutatorBatch {
		stats := f.mutatorBatch[idx]
		stats.GlobalAvgCoverage = globalAvg
		stats.IterationsInBatch = f.iterationsInWindow
		f.mutatorSched.Record(idx, stats)
	}
	for slot, stats := range f.cacheBatch {
		stats.IterationsInBatch = f.iterationsInWindow
		f.progCache.RecordInvocation(slot, stats)
	}

	f.mutatorSched.MaybeRestart(f.cfg.RestartThreshold)
	f.progCache.OnCriticalMassWindow()

	f.mutatorBatch = make([]MutatorStats, len(f.mutators))
	f.cacheBatch = map[int]ProgramStats{}
	f.iterationsInWindow = 0
}
