package mutators

import (
	"math/rand"

	"github.com/edgecover/fuzzer/builder"
	"github.com/edgecover/fuzzer/fuzzer"
	"github.com/edgecover/fuzzer/ir"
)

// OperationMutator rewrites the value carried by one randomly chosen
// integer-literal instruction in target, leaving everything else an exact
// reproduction. It has no effect without a target (an empty corpus cache),
// in which case it reports no change rather than fabricating one.
type OperationMutator struct {
	// Deltas are the candidate offsets added to the chosen literal;
	// picking among small, structurally interesting deltas (off-by-one,
	// off-by-two, the 32-bit integer extremes) finds more bugs than a
	// uniform random integer would.
	Deltas []int64
}

func NewOperationMutator() *OperationMutator {
	return &OperationMutator{Deltas: []int64{1, -1, 2, -2, 0x7fffffff, -0x80000000}}
}

func (m *OperationMutator) Name() string { return "operation" }

func (m *OperationMutator) Mutate(b *builder.Builder, target *ir.Program, corpus fuzzer.Corpus, rng *rand.Rand) bool {
	if target == nil {
		return false
	}
	code := target.Code()

	var candidates []int
	for i := 0; i < code.Len(); i++ {
		if _, ok := code.At(i).Op().(ir.LoadInteger); ok {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return false
	}
	chosen := candidates[rng.Intn(len(candidates))]
	delta := m.Deltas[rng.Intn(len(m.Deltas))]

	b.BeginAdoption(target)
	defer b.EndAdoption()

	code.All(func(i int, instr ir.Instruction) bool {
		if i != chosen {
			b.AdoptInstruction(instr)
			return true
		}
		original := instr.Op().(ir.LoadInteger).Value
		host := b.LoadInt(original + delta)
		b.SetAdoptedMapping(instr.Outputs()[0], host)
		return true
	})
	return true
}
