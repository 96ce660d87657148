package analysis

import "github.com/edgecover/fuzzer/ir"

// ContextAnalyzer maintains a stack of contexts opened by nested blocks;
// Current is always the union of the stack, exactly mirroring ir.Code's
// own internal bookkeeping but exposed for builder and splicer queries.
type ContextAnalyzer struct {
	stack []ir.Context
}

// NewContextAnalyzer returns an analyzer positioned at module scope
// (ContextJavaScript only).
func NewContextAnalyzer() *ContextAnalyzer {
	return &ContextAnalyzer{stack: []ir.Context{ir.ContextJavaScript}}
}

// ObserveInstruction updates the context stack for one more appended
// instruction, in append order.
func (a *ContextAnalyzer) ObserveInstruction(instr ir.Instruction) {
	attrs := instr.Op().Attrs()
	if attrs.Has(ir.AttrBlockEnd) && len(a.stack) > 1 {
		a.stack = a.stack[:len(a.stack)-1]
	}
	if attrs.Has(ir.AttrBlockBegin) {
		a.stack = append(a.stack, instr.Op().OpenedContext())
	}
}

// Current returns the union of every open context frame.
func (a *ContextAnalyzer) Current() ir.Context {
	var c ir.Context
	for _, frame := range a.stack {
		c |= frame
	}
	return c
}

// Depth returns the number of open context frames beyond module scope.
func (a *ContextAnalyzer) Depth() int { return len(a.stack) - 1 }
