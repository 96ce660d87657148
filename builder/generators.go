package builder

import "github.com/edgecover/fuzzer/ir"

// CodeGenerator is one unit of random code the build loop can invoke. Run
// emits code using b's typed constructors and Build*/emit methods; it may
// emit zero instructions if, for instance, no compatible variable is in
// scope.
type CodeGenerator struct {
	Name            string
	RequiredContext ir.Context
	IsRecursive     bool
	Run             func(b *Builder)
}

// GeneratorTable holds the registered generators a build loop samples
// from. A real fuzzer wires this to a bandit-weighted selection (package
// bandit); Builder itself only needs uniform selection among the
// context-compatible subset, so that is what it provides directly.
type GeneratorTable struct {
	generators []CodeGenerator
}

func NewGeneratorTable(generators ...CodeGenerator) *GeneratorTable {
	return &GeneratorTable{generators: generators}
}

func (t *GeneratorTable) Add(g CodeGenerator) { t.generators = append(t.generators, g) }

// applicable returns the generators whose RequiredContext is satisfied by
// ctx, in registration order.
func (t *GeneratorTable) applicable(ctx ir.Context) []CodeGenerator {
	var out []CodeGenerator
	for _, g := range t.generators {
		if ctx.Contains(g.RequiredContext) {
			out = append(out, g)
		}
	}
	return out
}
