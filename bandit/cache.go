package bandit

import (
	"math/rand"

	"github.com/edgecover/fuzzer/ir"
)

// ProgramStats mirrors MutatorStats for the program-cache bandit: its
// program reward is (programs_found/invocations) · iterations.
type ProgramStats struct {
	Invocations      int
	ProgramsFound     int
	IterationsInBatch int
}

func (s ProgramStats) Reward() float64 {
	if s.Invocations == 0 {
		return 0
	}
	return (float64(s.ProgramsFound) / float64(s.Invocations)) * float64(s.IterationsInBatch)
}

// poolEntry is one candidate program in the larger pool the cache samples
// from, along with how many times it has been drawn as a mutation source
// since it was last (re)drawn into the pool.
type poolEntry struct {
	program        *ir.Program
	mutationsUsed  int
}

// ProgramCache is the Exp3.1 instance over a sliding cache of corpus
// programs: maxCacheSize actions drawn from a larger pool. The engine only
// ever sees cache-slot indices; this type owns the mapping from slot to
// the pool entry currently occupying it, and periodically regenerates that
// mapping per its cache-regeneration and restart rules.
type ProgramCache struct {
	engine *Exp3

	pool []poolEntry
	// cacheSlots[i] indexes into pool: the program engine arm i currently
	// represents. filled[i] is false until AddToPool has assigned it a
	// real pool entry.
	cacheSlots []int
	filled     []bool

	minMutationsPerSample int
	regenerateThreshold   int
	restartThreshold      int64

	windowsSinceRegenerate int
	rng                    *rand.Rand
}

// NewProgramCache builds a cache of cacheSize slots over an initially
// empty pool; call AddToPool to seed it (typically from the corpus) before
// the first Select.
func NewProgramCache(cacheSize, minMutationsPerSample, regenerateThreshold int, restartThreshold int64, rng *rand.Rand) *ProgramCache {
	return &ProgramCache{
		engine:                New(cacheSize, rng),
		cacheSlots:            make([]int, cacheSize),
		filled:                make([]bool, cacheSize),
		minMutationsPerSample: minMutationsPerSample,
		regenerateThreshold:   regenerateThreshold,
		restartThreshold:      restartThreshold,
		rng:                   rng,
	}
}

// AddToPool adds p as a fresh candidate. If any cache slot is still
// unfilled (pool smaller than the cache, at startup), p is immediately
// placed into the first one found.
func (c *ProgramCache) AddToPool(p *ir.Program) {
	c.pool = append(c.pool, poolEntry{program: p})
	idx := len(c.pool) - 1
	for slot, filled := range c.filled {
		if !filled {
			c.cacheSlots[slot] = idx
			c.filled[slot] = true
			c.engine.ResetArm(slot)
			return
		}
	}
}

// Ready reports whether every cache slot has been filled (the pool holds
// at least cacheSize programs), the precondition Select relies on.
func (c *ProgramCache) Ready() bool {
	for _, filled := range c.filled {
		if !filled {
			return false
		}
	}
	return true
}

// Select draws one cache slot from the current distribution and returns
// the program currently occupying it. Select must not be called before
// every slot has been filled (i.e. the pool holds at least cacheSize
// programs); callers should check Ready first.
func (c *ProgramCache) Select() (program *ir.Program, slot int) {
	slot = c.engine.Select()
	return c.pool[c.cacheSlots[slot]].program, slot
}

// RecordInvocation applies one batch's outcome to slot, tracks how many
// times the occupying program has now been drawn, and evicts it (drawing
// a replacement from the pool) once it exceeds minMutationsPerSample.
func (c *ProgramCache) RecordInvocation(slot int, stats ProgramStats) {
	c.engine.Update(slot, stats.Reward())

	entry := &c.pool[c.cacheSlots[slot]]
	entry.mutationsUsed++
	if entry.mutationsUsed > c.minMutationsPerSample {
		c.regenerateSlot(slot)
	}
}

// OnCriticalMassWindow must be called once per critical-mass window (the
// engine driver's unit of bandit bookkeeping cadence); it regenerates the
// whole cache every regenerateThreshold windows and checks the pool-size
// restart trigger.
func (c *ProgramCache) OnCriticalMassWindow() {
	c.windowsSinceRegenerate++
	if c.windowsSinceRegenerate >= c.regenerateThreshold {
		c.regenerateAll()
		c.windowsSinceRegenerate = 0
	}
	if len(c.pool) < len(c.cacheSlots) || c.engine.Iterations() >= c.restartThreshold {
		c.Restart()
	}
}

// regenerateSlot draws a fresh random pool entry into slot and resets that
// arm's bandit state, since its history belongs to the program it's
// replacing.
func (c *ProgramCache) regenerateSlot(slot int) {
	if len(c.pool) == 0 {
		return
	}
	c.cacheSlots[slot] = c.rng.Intn(len(c.pool))
	c.pool[c.cacheSlots[slot]].mutationsUsed = 0
	c.engine.ResetArm(slot)
}

// regenerateAll replaces every cache slot's program with a fresh random
// draw, per the periodic cache-regeneration rule.
func (c *ProgramCache) regenerateAll() {
	for slot := range c.cacheSlots {
		c.regenerateSlot(slot)
	}
}

// Restart rescales the underlying bandit's weights and clears its epoch
// and per-arm counters, per the restart rule; the pool itself is left
// untouched; only the bandit's learned state resets.
func (c *ProgramCache) Restart() {
	c.engine.Restart()
}

// Snapshot exposes the underlying per-slot bandit state for tests and
// telemetry.
func (c *ProgramCache) Snapshot() []ArmSnapshot {
	return c.engine.Snapshot()
}
