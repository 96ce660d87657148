// Package mutators holds the concrete Mutator implementations a Fuzzer's
// mutator bandit chooses among. Each wraps one of the engine's own
// packages — splice, builder's generator table, or a direct operand tweak —
// behind the fuzzer.Mutator interface.
package mutators

import (
	"math/rand"

	"github.com/edgecover/fuzzer/builder"
	"github.com/edgecover/fuzzer/fuzzer"
	"github.com/edgecover/fuzzer/ir"
	"github.com/edgecover/fuzzer/splice"
)

// SpliceMutator clones target (if any) and splices in a dataflow-connected
// fragment drawn from a random corpus program.
type SpliceMutator struct {
	Options splice.Options
}

func NewSpliceMutator() *SpliceMutator {
	return &SpliceMutator{Options: splice.DefaultOptions()}
}

func (m *SpliceMutator) Name() string { return "splice" }

func (m *SpliceMutator) Mutate(b *builder.Builder, target *ir.Program, corpus fuzzer.Corpus, rng *rand.Rand) bool {
	if target != nil {
		b.AdoptProgram(target)
	}
	donor, ok := corpus.RandomElementForSplicing()
	if !ok {
		return false
	}
	return splice.Splice(b, donor, m.Options, rng)
}
