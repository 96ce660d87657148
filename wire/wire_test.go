package wire_test

import (
	"testing"

	"github.com/edgecover/fuzzer/analysis"
	"github.com/edgecover/fuzzer/builder"
	"github.com/edgecover/fuzzer/ir"
	"github.com/edgecover/fuzzer/wire"
)

type fixedEnv struct{}

func (fixedEnv) InterestingIntegers() []int64    { return []int64{0, 1, -1} }
func (fixedEnv) InterestingFloats() []float64    { return []float64{0, 1.5} }
func (fixedEnv) Builtins() []string              { return []string{"Math"} }
func (fixedEnv) PropertiesForReading() []string  { return []string{"x"} }
func (fixedEnv) PropertiesForWriting() []string  { return []string{"x"} }
func (fixedEnv) PropertiesForDefining() []string { return []string{"x"} }
func (fixedEnv) Methods() []string               { return []string{"foo"} }

func newBuilder(seed int64) *builder.Builder {
	return builder.New(seed, fixedEnv{}, analysis.NewPropertyTypes())
}

// richProgram exercises a representative slice of the operation catalog:
// literals of every kind, a binary op, a property load, an object literal,
// a call, and an if/else block — enough to hit most of the payload
// switch's cases in one pass.
func richProgram() *ir.Program {
	b := newBuilder(1)
	x := b.LoadInt(5)
	y := b.LoadFloat(2.5)
	s := b.LoadString("hi")
	flag := b.LoadBoolean(true)
	obj := b.CreateObject([]string{"a", "b"}, []ir.Variable{x, y})
	_ = s
	_ = flag
	prop := b.LoadProperty(obj, "a")
	sum := b.BinaryOp(ir.BinaryAdd, x, prop)
	cond := b.CompareOp(ir.CompareGreaterThan, sum, x)
	b.BuildIfElse(cond, func() {
		b.LoadInt(1)
	}, func() {
		b.LoadInt(2)
	})
	return ir.Finalize(b.Code(), nil, []string{"test"})
}

func TestRoundTripByteIdentical(t *testing.T) {
	program := richProgram()
	encoded := wire.Marshal(program.Code())

	decoded, err := wire.Unmarshal(encoded)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	reEncoded := wire.Marshal(decoded)
	if string(reEncoded) != string(encoded) {
		t.Fatalf("round trip is not byte-identical")
	}

	if decoded.Len() != program.Code().Len() {
		t.Fatalf("expected %d instructions, got %d", program.Code().Len(), decoded.Len())
	}
	for i := 0; i < decoded.Len(); i++ {
		want := program.Code().At(i)
		got := decoded.At(i)
		if want.Op().Kind() != got.Op().Kind() {
			t.Fatalf("instruction %d: kind mismatch, want %s got %s", i, want.Op().Kind(), got.Op().Kind())
		}
		if len(want.Inouts()) != len(got.Inouts()) {
			t.Fatalf("instruction %d: inout count mismatch", i)
		}
		for j := range want.Inouts() {
			if want.Inouts()[j] != got.Inouts()[j] {
				t.Fatalf("instruction %d: inout %d mismatch, want %v got %v", i, j, want.Inouts()[j], got.Inouts()[j])
			}
		}
	}
}

func TestUnmarshalRejectsTruncatedStream(t *testing.T) {
	program := richProgram()
	encoded := wire.Marshal(program.Code())

	if _, err := wire.Unmarshal(encoded[:len(encoded)/2]); err == nil {
		t.Fatalf("expected an error decoding a truncated stream")
	}
}

func TestUnmarshalRejectsUnknownOpcode(t *testing.T) {
	b := newBuilder(1)
	b.LoadInt(1)
	program := ir.Finalize(b.Code(), nil, nil)
	encoded := wire.Marshal(program.Code())

	// Corrupt the opcode byte of the single instruction (right after the
	// leading instruction-count varint) to an out-of-range Kind value.
	corrupted := append([]byte(nil), encoded...)
	corrupted[1] = 0xff

	if _, err := wire.Unmarshal(corrupted); err == nil {
		t.Fatalf("expected an error decoding an unknown opcode")
	}
}

func TestMarshalUnmarshalProgram(t *testing.T) {
	program := richProgram()
	encoded := wire.MarshalProgram(program)

	decoded, err := wire.UnmarshalProgram(encoded)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Code().Len() != program.Code().Len() {
		t.Fatalf("expected %d instructions, got %d", program.Code().Len(), decoded.Code().Len())
	}
}
