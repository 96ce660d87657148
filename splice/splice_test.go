package splice_test

import (
	"math/rand"
	"testing"

	"github.com/edgecover/fuzzer/analysis"
	"github.com/edgecover/fuzzer/builder"
	"github.com/edgecover/fuzzer/ir"
	"github.com/edgecover/fuzzer/splice"
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

// donorAddition builds x = 5, y = 7, z = x + y and finalizes it as a
// Program, returning the variable holding z for assertions.
func donorAddition() (*ir.Program, ir.Variable) {
	b := newBuilder(1)
	x := b.LoadInt(5)
	y := b.LoadInt(7)
	z := b.BinaryOp(ir.BinaryAdd, x, y)
	return ir.Finalize(b.Code(), nil, []string{"test"}), z
}

// Splicing into a fresh, empty host must pull in the whole producer chain
// behind the chosen root, since none of its inputs are remappable onto
// anything already visible (S3/S5-style whole-chain pull).
func TestSpliceWholeChainIntoEmptyHost(t *testing.T) {
	donor, _ := donorAddition()
	host := newBuilder(2)

	ok := splice.Splice(host, donor, splice.DefaultOptions(), rand.New(rand.NewSource(3)))
	if !ok {
		t.Fatalf("expected a candidate root to exist")
	}
	if host.Code().Len() != 3 {
		t.Fatalf("expected all 3 donor instructions to be pulled in, got %d", host.Code().Len())
	}

	last := host.Code().At(host.Code().Len() - 1)
	if _, ok := last.Op().(ir.BinaryOp); !ok {
		t.Fatalf("expected the final instruction to be the BinaryOp, got %T", last.Op())
	}
}

// A program made only of trivial data-flow roots (bare literals) has no
// eligible splice root at all and Splice must report failure rather than
// emit anything into the host.
func TestSpliceFailsWithNoEligibleRoot(t *testing.T) {
	b := newBuilder(1)
	b.LoadInt(5)
	b.LoadString("hi")
	donor := ir.Finalize(b.Code(), nil, nil)

	host := newBuilder(2)
	ok := splice.Splice(host, donor, splice.DefaultOptions(), rand.New(rand.NewSource(4)))
	if ok {
		t.Fatalf("expected no eligible root, splice should fail")
	}
	if host.Code().Len() != 0 {
		t.Fatalf("expected host untouched on failed splice, got %d instructions", host.Code().Len())
	}
}

// When the host already has a variable that structurally matches a donor
// literal, Pass 2's remap can substitute it in place of reproducing the
// literal's own load, shrinking what the backward slice needs to pull in.
func TestSpliceCanRemapOntoExistingHostVariable(t *testing.T) {
	donor, _ := donorAddition()

	host := newBuilder(2)
	host.LoadInt(100) // gives the host a visible int-typed variable to remap onto

	opts := splice.DefaultOptions()
	opts.OuterRemapProbability = 1.0 // force the remap path deterministically
	ok := splice.Splice(host, donor, opts, rand.New(rand.NewSource(5)))
	if !ok {
		t.Fatalf("expected a candidate root to exist")
	}
	// The host's own LoadInt(100) plus whatever the slice pulled in.
	if host.Code().Len() < 2 {
		t.Fatalf("expected at least the host's seed instruction plus spliced code, got %d", host.Code().Len())
	}
}

// A nested block is always spliced atomically: picking a root inside an if
// body pulls in the entire BeginIf/body/EndIf unit, never a partial slice
// of it, and the result must remain block-balanced.
func TestSpliceBlockIsAtomic(t *testing.T) {
	b := newBuilder(1)
	cond := b.LoadBoolean(true)
	var inner ir.Variable
	b.BuildIfElse(cond, func() {
		x := b.LoadInt(1)
		y := b.LoadInt(2)
		inner = b.BinaryOp(ir.BinaryAdd, x, y)
	}, nil)
	_ = inner
	donor := ir.Finalize(b.Code(), nil, nil)

	host := newBuilder(2)
	ok := splice.Splice(host, donor, splice.DefaultOptions(), rand.New(rand.NewSource(6)))
	if !ok {
		t.Fatalf("expected a candidate root (the if-block) to exist")
	}

	depth := 0
	host.Code().All(func(_ int, instr ir.Instruction) bool {
		if instr.IsBlockBegin() {
			depth++
		}
		if instr.IsBlockEnd() {
			depth--
		}
		return true
	})
	if depth != 0 {
		t.Fatalf("spliced code left unbalanced blocks, depth=%d", depth)
	}
}
