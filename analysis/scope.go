// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package analysis provides incremental analyzers that consume a Code's
// instructions in order and maintain derived state: lexical scope,
// surrounding context, and a light type inference. These are the
// workhorses behind ProgramBuilder's "find a compatible variable" queries
// and the splicer's Pass 2 candidate selection.
package analysis

import "github.com/edgecover/fuzzer/ir"

// ScopeAnalyzer maintains a stack of lexical scopes, mirroring block
// nesting. Unlike ir.Code's internal integrity tracker (which only needs
// enough state to validate invariants), ScopeAnalyzer is built to answer
// queries cheaply: which variables are visible right now, and what does
// each individual scope on the stack own.
type ScopeAnalyzer struct {
	scopes []*scopeFrame
}

type scopeFrame struct {
	vars    []ir.Variable
	visible ir.VariableSet
}

// NewScopeAnalyzer returns an analyzer positioned at module scope.
func NewScopeAnalyzer() *ScopeAnalyzer {
	return &ScopeAnalyzer{scopes: []*scopeFrame{{}}}
}

// ObserveInstruction updates the scope stack for one more appended
// instruction. Must be called in the same order the instructions were
// appended to the Code being tracked.
func (a *ScopeAnalyzer) ObserveInstruction(instr ir.Instruction) {
	attrs := instr.Op().Attrs()

	if attrs.Has(ir.AttrBlockEnd) && len(a.scopes) > 1 {
		a.scopes = a.scopes[:len(a.scopes)-1]
	}

	top := a.scopes[len(a.scopes)-1]
	for _, v := range instr.Outputs() {
		top.vars = append(top.vars, v)
		top.visible.Insert(v)
	}

	if attrs.Has(ir.AttrBlockBegin) {
		frame := &scopeFrame{}
		for _, v := range instr.InnerOutputs() {
			frame.vars = append(frame.vars, v)
			frame.visible.Insert(v)
		}
		a.scopes = append(a.scopes, frame)
	}
}

// VisibleVariables returns the union of every open scope's variables —
// every variable a new instruction could legally reference right now.
func (a *ScopeAnalyzer) VisibleVariables() ir.VariableSet {
	var visible ir.VariableSet
	for _, s := range a.scopes {
		visible.UnionWith(s.visible)
	}
	return visible
}

// CurrentScopeVariables returns only the variables owned by the innermost
// open scope, in the order they were defined.
func (a *ScopeAnalyzer) CurrentScopeVariables() []ir.Variable {
	top := a.scopes[len(a.scopes)-1]
	out := make([]ir.Variable, len(top.vars))
	copy(out, top.vars)
	return out
}

// Depth returns the current nesting depth (0 at module scope).
func (a *ScopeAnalyzer) Depth() int { return len(a.scopes) - 1 }

// Scopes returns, outermost first, the variables owned directly by each
// open scope.
func (a *ScopeAnalyzer) Scopes() [][]ir.Variable {
	out := make([][]ir.Variable, len(a.scopes))
	for i, s := range a.scopes {
		out[i] = append([]ir.Variable(nil), s.vars...)
	}
	return out
}
