package fuzzer_test

import (
	"math/rand"
	"testing"

	"github.com/edgecover/fuzzer/fuzzer"
	"github.com/edgecover/fuzzer/ir"
)

func TestEdgeAspectsIntersect(t *testing.T) {
	a := fuzzer.NewEdgeAspects([]uint32{5, 1, 3})
	b := fuzzer.NewEdgeAspects([]uint32{3, 4, 5})

	got := a.Intersect(b)
	want := []uint32{3, 5}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestDefaultCorpusAddAndDraw(t *testing.T) {
	corpus := fuzzer.NewDefaultCorpus(rand.New(rand.NewSource(1)), 1000)
	if _, ok := corpus.RandomElementForSplicing(); ok {
		t.Fatalf("expected an empty corpus to report no element")
	}

	program := &ir.Program{}
	corpus.Add(program, fuzzer.NewEdgeAspects([]uint32{1, 2}))

	if corpus.Size() != 1 {
		t.Fatalf("expected size 1, got %d", corpus.Size())
	}
	got, ok := corpus.RandomElementForSplicing()
	if !ok || got != program {
		t.Fatalf("expected the single entry back, got %v, %v", got, ok)
	}
}

// A re-verification that never reproduces one edge increments its flake
// count; once that count passes the threshold, the edge is blacklisted and
// later intersections silently drop it rather than re-flagging it forever.
// Each round uses a fresh entry, since an intersection replaces the entry's
// recorded aspects with the stable ones.
func TestComputeAspectIntersectionBlacklistsFlakyEdge(t *testing.T) {
	corpus := fuzzer.NewDefaultCorpus(rand.New(rand.NewSource(1)), 2)
	program := &ir.Program{}

	for i := 0; i < 3; i++ {
		corpus.Add(program, fuzzer.NewEdgeAspects([]uint32{10, 20}))
		stable, ok := corpus.ComputeAspectIntersection(i, fuzzer.NewEdgeAspects([]uint32{20}))
		if !ok {
			t.Fatalf("expected a valid index")
		}
		if len(stable) != 1 || stable[0] != 20 {
			t.Fatalf("round %d: expected only edge 20 to remain stable, got %v", i, stable)
		}
	}

	// Edge 10 has now flaked 3 times against a threshold of 2: it should be
	// blacklisted and silently excluded, even from a run that reproduces it.
	corpus.Add(program, fuzzer.NewEdgeAspects([]uint32{10, 20}))
	stable, ok := corpus.ComputeAspectIntersection(3, fuzzer.NewEdgeAspects([]uint32{10, 20}))
	if !ok {
		t.Fatalf("expected a valid index")
	}
	if len(stable) != 1 || stable[0] != 20 {
		t.Fatalf("expected edge 20 to remain the sole stable edge, got %v", stable)
	}
}

func TestComputeAspectIntersectionInvalidIndex(t *testing.T) {
	corpus := fuzzer.NewDefaultCorpus(rand.New(rand.NewSource(1)), 1000)
	if _, ok := corpus.ComputeAspectIntersection(0, nil); ok {
		t.Fatalf("expected an out-of-range index to report failure")
	}
}

func TestEvictEmptyDropsEntriesWithNoAspects(t *testing.T) {
	corpus := fuzzer.NewDefaultCorpus(rand.New(rand.NewSource(1)), 1000)
	corpus.Add(&ir.Program{}, fuzzer.NewEdgeAspects([]uint32{1}))
	corpus.Add(&ir.Program{}, fuzzer.NewEdgeAspects(nil))

	removed := corpus.EvictEmpty()
	if removed != 1 {
		t.Fatalf("expected to remove 1 empty entry, got %d", removed)
	}
	if corpus.Size() != 1 {
		t.Fatalf("expected 1 entry left, got %d", corpus.Size())
	}
}
