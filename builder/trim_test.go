package builder_test

import (
	"testing"

	"github.com/edgecover/fuzzer/analysis"
	"github.com/edgecover/fuzzer/builder"
	"github.com/edgecover/fuzzer/ir"
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

// TestTrimDropsUnusedLiteral builds x, y, z (all simple loads) but only uses
// x and y in a BinaryOp; z is never read and should be dropped. The sum
// feeds a CreateObject, which is not simple, so the BinaryOp and its inputs
// survive.
func TestTrimDropsUnusedLiteral(t *testing.T) {
	b := newBuilder(1)
	x := b.LoadInt(1)
	y := b.LoadInt(2)
	b.LoadInt(3) // unused
	sum := b.BinaryOp(ir.BinaryAdd, x, y)
	b.CreateObject([]string{"sum"}, []ir.Variable{sum})
	target := ir.Finalize(b.Code(), nil, nil)

	host := newBuilder(2)
	dropped := host.Trim(target)

	if dropped != 1 {
		t.Fatalf("expected exactly 1 dropped instruction, got %d", dropped)
	}
	if host.Code().Len() != target.Code().Len()-1 {
		t.Fatalf("expected the trimmed code to have one fewer instruction")
	}
}

// TestTrimKeepsEverythingWhenAllOutputsAreUsed confirms Trim is a no-op
// when nothing is dead: every simple output is read, ending in a
// CreateObject that is not simple.
func TestTrimKeepsEverythingWhenAllOutputsAreUsed(t *testing.T) {
	b := newBuilder(1)
	x := b.LoadInt(1)
	y := b.LoadInt(2)
	sum := b.BinaryOp(ir.BinaryAdd, x, y)
	b.CreateObject([]string{"sum"}, []ir.Variable{sum})
	target := ir.Finalize(b.Code(), nil, nil)

	host := newBuilder(2)
	dropped := host.Trim(target)

	if dropped != 0 {
		t.Fatalf("expected nothing dropped, got %d", dropped)
	}
	if host.Code().Len() != target.Code().Len() {
		t.Fatalf("expected an identical instruction count")
	}
}

// TestTrimNeverDropsNonSimpleInstructions confirms a side-effecting
// instruction (CreateObject feeding nothing onward) still survives, since
// only is_simple instructions are eligible for removal.
func TestTrimNeverDropsNonSimpleInstructions(t *testing.T) {
	b := newBuilder(1)
	v := b.LoadInt(1)
	b.CreateObject([]string{"x"}, []ir.Variable{v}) // output unused, but not simple
	target := ir.Finalize(b.Code(), nil, nil)

	host := newBuilder(2)
	host.Trim(target)

	var foundObject bool
	for i := 0; i < host.Code().Len(); i++ {
		if _, ok := host.Code().At(i).Op().(ir.CreateObject); ok {
			foundObject = true
		}
	}
	if !foundObject {
		t.Fatalf("expected CreateObject to survive trimming despite its output being unused")
	}
}
