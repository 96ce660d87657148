package mutators

import (
	"math/rand"

	"github.com/edgecover/fuzzer/builder"
	"github.com/edgecover/fuzzer/fuzzer"
	"github.com/edgecover/fuzzer/ir"
)

// GenerateMutator clones target (if any) and appends InstructionBudget more
// instructions of freshly generated code, driving the build loop directly
// off Table. Registering this alongside SpliceMutator under the
// mutator bandit lets generation and splicing compete for selection on
// equal footing rather than being two hardcoded phases.
type GenerateMutator struct {
	Table             *builder.GeneratorTable
	InstructionBudget int
	Mode              builder.Mode
}

func NewGenerateMutator(table *builder.GeneratorTable, instructionBudget int) *GenerateMutator {
	return &GenerateMutator{Table: table, InstructionBudget: instructionBudget, Mode: builder.Aggressive}
}

func (m *GenerateMutator) Name() string { return "generate" }

func (m *GenerateMutator) Mutate(b *builder.Builder, target *ir.Program, corpus fuzzer.Corpus, rng *rand.Rand) bool {
	if target != nil {
		b.AdoptProgram(target)
	}
	before := b.Code().Len()
	b.Build(m.InstructionBudget, m.Mode, m.Table)
	return b.Code().Len() > before
}
