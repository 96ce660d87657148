package ir

// Program is a finalized, immutable Code plus lineage metadata. Finalize
// ends the mutable construction phase; from then on a Program is shared
// read-only, in particular by the splicer, which may read-borrow the same
// donor Program from multiple concurrent builders with no interior
// mutability and no locks needed.
type Program struct {
	code     *Code
	parent   *Program
	comments []string
	// Generators records the identifiers of every code generator or
	// mutator that contributed instructions to this program, for corpus
	// bookkeeping and minimization provenance.
	generators []string
}

// Finalize freezes code into an immutable Program without copying it. The
// Code must not be mutated afterwards; a caller that keeps building starts
// a new Code (Builder.Reset does this).
func Finalize(code *Code, parent *Program, generators []string) *Program {
	return &Program{
		code:       code,
		parent:     parent,
		generators: append([]string(nil), generators...),
	}
}

func (p *Program) Code() *Code { return p.code }

func (p *Program) Parent() *Program { return p.parent }

func (p *Program) Comments() []string { return p.comments }

func (p *Program) AddComment(c string) { p.comments = append(p.comments, c) }

func (p *Program) Generators() []string { return p.generators }

// Lineage walks parent pointers from the oldest ancestor to p itself.
func (p *Program) Lineage() []*Program {
	var chain []*Program
	for cur := p; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
