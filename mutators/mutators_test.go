package mutators_test

import (
	"math/rand"
	"testing"

	"github.com/edgecover/fuzzer/analysis"
	"github.com/edgecover/fuzzer/builder"
	"github.com/edgecover/fuzzer/fuzzer"
	"github.com/edgecover/fuzzer/ir"
	"github.com/edgecover/fuzzer/mutators"
)

type fixedEnv struct{}

func (fixedEnv) InterestingIntegers() []int64    { return []int64{0, 1, -1} }
func (fixedEnv) InterestingFloats() []float64    { return []float64{0, 1.5} }
func (fixedEnv) Builtins() []string              { return nil }
func (fixedEnv) PropertiesForReading() []string  { return nil }
func (fixedEnv) PropertiesForWriting() []string  { return nil }
func (fixedEnv) PropertiesForDefining() []string { return nil }
func (fixedEnv) Methods() []string               { return nil }

func newBuilder(seed int64) *builder.Builder {
	return builder.New(seed, fixedEnv{}, analysis.NewPropertyTypes())
}

type emptyCorpus struct{}

func (emptyCorpus) Add(*ir.Program, fuzzer.Aspects)                {}
func (emptyCorpus) RandomElementForSplicing() (*ir.Program, bool) { return nil, false }
func (emptyCorpus) Size() int                                      { return 0 }

type oneProgramCorpus struct{ program *ir.Program }

func (c oneProgramCorpus) Add(*ir.Program, fuzzer.Aspects) {}
func (c oneProgramCorpus) RandomElementForSplicing() (*ir.Program, bool) {
	return c.program, true
}
func (c oneProgramCorpus) Size() int { return 1 }

func addition() *ir.Program {
	b := newBuilder(1)
	x := b.LoadInt(5)
	y := b.LoadInt(7)
	b.BinaryOp(ir.BinaryAdd, x, y)
	return ir.Finalize(b.Code(), nil, []string{"test"})
}

func TestSpliceMutatorPullsFromCorpus(t *testing.T) {
	donor := addition()
	m := mutators.NewSpliceMutator()
	host := newBuilder(2)

	ok := m.Mutate(host, nil, oneProgramCorpus{program: donor}, rand.New(rand.NewSource(3)))
	if !ok {
		t.Fatalf("expected a splice candidate to exist")
	}
	if host.Code().Len() == 0 {
		t.Fatalf("expected the splice to emit instructions")
	}
}

func TestSpliceMutatorFailsWithEmptyCorpus(t *testing.T) {
	m := mutators.NewSpliceMutator()
	host := newBuilder(2)

	if m.Mutate(host, nil, emptyCorpus{}, rand.New(rand.NewSource(3))) {
		t.Fatalf("expected splice to fail with no corpus donor")
	}
}

func TestGenerateMutatorAppendsInstructions(t *testing.T) {
	table := builder.NewGeneratorTable(builder.CodeGenerator{
		Name:            "always-int",
		RequiredContext: ir.ContextJavaScript,
		Run:             func(b *builder.Builder) { b.LoadInt(b.RandomInt()) },
	})
	m := mutators.NewGenerateMutator(table, 3)
	host := newBuilder(1)

	if !m.Mutate(host, nil, emptyCorpus{}, rand.New(rand.NewSource(1))) {
		t.Fatalf("expected generation to append at least one instruction")
	}
	if host.Code().Len() == 0 {
		t.Fatalf("expected nonzero instructions after generation")
	}
}

func TestOperationMutatorRewritesOneLiteral(t *testing.T) {
	b := newBuilder(1)
	x := b.LoadInt(5)
	y := b.LoadInt(7)
	b.BinaryOp(ir.BinaryAdd, x, y)
	target := ir.Finalize(b.Code(), nil, nil)

	m := mutators.NewOperationMutator()
	m.Deltas = []int64{100}
	host := newBuilder(2)

	if !m.Mutate(host, target, emptyCorpus{}, rand.New(rand.NewSource(1))) {
		t.Fatalf("expected the mutation to succeed")
	}
	if host.Code().Len() != target.Code().Len() {
		t.Fatalf("expected the same instruction count, got %d want %d", host.Code().Len(), target.Code().Len())
	}

	var found bool
	for i := 0; i < host.Code().Len(); i++ {
		lit, ok := host.Code().At(i).Op().(ir.LoadInteger)
		if ok && (lit.Value == 105 || lit.Value == 107) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected one literal to have been shifted by the chosen delta")
	}
}

func TestOperationMutatorFailsWithNoTarget(t *testing.T) {
	m := mutators.NewOperationMutator()
	host := newBuilder(2)
	if m.Mutate(host, nil, emptyCorpus{}, rand.New(rand.NewSource(1))) {
		t.Fatalf("expected failure with no target to mutate")
	}
}
