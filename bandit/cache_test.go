package bandit

import (
	"math/rand"
	"testing"

	"github.com/edgecover/fuzzer/ir"
)

func fakeProgram() *ir.Program {
	return ir.Finalize(ir.NewCode(), nil, nil)
}

func TestProgramCacheFillsSlotsInOrder(t *testing.T) {
	c := NewProgramCache(3, 10, 100, 1000, rand.New(rand.NewSource(1)))
	p0, p1, p2 := fakeProgram(), fakeProgram(), fakeProgram()
	c.AddToPool(p0)
	c.AddToPool(p1)
	c.AddToPool(p2)

	seen := map[*ir.Program]bool{}
	for slot := 0; slot < 3; slot++ {
		seen[c.pool[c.cacheSlots[slot]].program] = true
	}
	for _, p := range []*ir.Program{p0, p1, p2} {
		if !seen[p] {
			t.Fatalf("expected every seeded program to occupy a slot")
		}
	}
}

func TestProgramCacheEvictsAfterMinMutations(t *testing.T) {
	c := NewProgramCache(2, 2, 1000, 1000, rand.New(rand.NewSource(1)))
	c.AddToPool(fakeProgram())
	c.AddToPool(fakeProgram())
	c.AddToPool(fakeProgram()) // spare pool entry for eviction to draw from

	for i := 0; i < 3; i++ {
		c.RecordInvocation(0, ProgramStats{Invocations: 1, ProgramsFound: 0, IterationsInBatch: 1})
	}
	if c.pool[c.cacheSlots[0]].mutationsUsed > c.minMutationsPerSample {
		t.Fatalf("slot should have been regenerated once it exceeded minMutationsPerSample")
	}
}

func TestProgramCacheReadyOnceSlotsAreFilled(t *testing.T) {
	c := NewProgramCache(2, 1000, 1000, 1000, rand.New(rand.NewSource(1)))
	if c.Ready() {
		t.Fatalf("expected a freshly constructed cache not to be ready")
	}
	c.AddToPool(fakeProgram())
	if c.Ready() {
		t.Fatalf("expected the cache not to be ready with only 1 of 2 slots filled")
	}
	c.AddToPool(fakeProgram())
	if !c.Ready() {
		t.Fatalf("expected the cache to be ready once every slot holds a program")
	}
}

func TestProgramCacheRestartsWhenPoolShrinksBelowCacheSize(t *testing.T) {
	c := NewProgramCache(2, 1000, 1000, 1000, rand.New(rand.NewSource(1)))
	c.AddToPool(fakeProgram())
	c.AddToPool(fakeProgram())

	c.engine.Update(0, 0.9)
	if c.engine.Iterations() == 0 {
		t.Fatalf("expected the update to register")
	}

	// Simulate the pool having shrunk below cache size.
	c.pool = c.pool[:1]
	c.OnCriticalMassWindow()

	if c.engine.Iterations() != 0 {
		t.Fatalf("expected Restart to clear iteration count once pool < cache size")
	}
}
