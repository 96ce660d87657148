// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package builder implements ProgramBuilder: the incremental construction
// API every code generator, mutator, and the splicer itself use to grow a
// Code while keeping its scope, context, and type invariants intact. A
// Builder owns exactly the state needed to emit one instruction at a time
// and to open and close nested blocks without ever leaving one dangling,
// even on an early return from a generator.
package builder

import (
	"math/rand"

	"github.com/edgecover/fuzzer/analysis"
	"github.com/edgecover/fuzzer/ir"
)

// Mode controls how variable queries behave when nothing in scope matches
// statically.
type Mode int

const (
	// Conservative: type queries return only statically-matching
	// variables; a caller that finds none is told so and must cope.
	Conservative Mode = iota
	// Aggressive: type queries also admit unknown-typed variables and,
	// failing that, fall back to any visible variable at all.
	Aggressive
)

// Environment supplies the "interesting values" rand_int et al. are biased
// toward, and the set of known builtins/properties/methods a fuzzer
// targets. A real engine wires this to the target's global object; tests
// can use a trivial fixed Environment.
type Environment interface {
	InterestingIntegers() []int64
	InterestingFloats() []float64
	Builtins() []string
	PropertiesForReading() []string
	PropertiesForWriting() []string
	PropertiesForDefining() []string
	Methods() []string
}

// Builder incrementally constructs a Code. It owns the Code exclusively
// while a build is active, exclusively by the currently active build.
type Builder struct {
	code  *ir.Code
	scope *analysis.ScopeAnalyzer
	ctx   *analysis.ContextAnalyzer
	types *analysis.TypeAnalyzer

	mode Mode
	rng  *rand.Rand
	env  Environment

	intReuse    map[int64][]ir.Variable
	floatReuse  map[float64][]ir.Variable
	stringReuse map[string][]ir.Variable

	adoption []*adoptionSession

	// currentFunction tracks the variable bound to the innermost open
	// function definition, for the anti-recursion heuristic: a
	// conservative-mode generator should not call a function variable
	// that is itself still being defined.
	currentFunction []ir.Variable

	buildStack []*buildingState
}

// New returns a Builder over a fresh, empty Code.
func New(seed int64, env Environment, table *analysis.PropertyTypes) *Builder {
	return &Builder{
		code:        ir.NewCode(),
		scope:       analysis.NewScopeAnalyzer(),
		ctx:         analysis.NewContextAnalyzer(),
		types:       analysis.NewTypeAnalyzer(table),
		mode:        Conservative,
		rng:         rand.New(rand.NewSource(seed)),
		env:         env,
		intReuse:    map[int64][]ir.Variable{},
		floatReuse:  map[float64][]ir.Variable{},
		stringReuse: map[string][]ir.Variable{},
	}
}

func (b *Builder) Code() *ir.Code                 { return b.code }
func (b *Builder) Context() ir.Context            { return b.ctx.Current() }
func (b *Builder) VisibleVariables() ir.VariableSet { return b.scope.VisibleVariables() }
func (b *Builder) Mode() Mode                     { return b.mode }
func (b *Builder) Types() *analysis.TypeAnalyzer   { return b.types }

// SetMode changes the matching behavior of variable queries. Recursive
// sub-builds save and restore it (see WithMode) so a generator that needs
// Aggressive matching for one query never leaks that into its caller.
func (b *Builder) SetMode(m Mode) { b.mode = m }

// WithMode runs f with mode temporarily set to m, restoring the previous
// mode afterward even if f panics.
func (b *Builder) WithMode(m Mode, f func()) {
	prev := b.mode
	b.mode = m
	defer func() { b.mode = prev }()
	f()
}

// Reset starts a fresh, empty Code and clears all analyzer/reuse state, for
// reusing one Builder across independent build() invocations. The previous
// Code is left untouched, so a Program finalized from it stays intact.
func (b *Builder) Reset() {
	b.code = ir.NewCode()
	b.scope = analysis.NewScopeAnalyzer()
	b.ctx = analysis.NewContextAnalyzer()
	b.types = analysis.NewTypeAnalyzer(b.types.PropertyTable())
	b.intReuse = map[int64][]ir.Variable{}
	b.floatReuse = map[float64][]ir.Variable{}
	b.stringReuse = map[string][]ir.Variable{}
	b.currentFunction = nil
	b.buildStack = nil
}

// emit allocates fresh output variables for op, appends the instruction,
// and feeds it to every analyzer in lockstep. It is the single choke
// point every typed constructor in this package funnels through.
func (b *Builder) emit(op ir.Operation, inputs []ir.Variable) ir.Instruction {
	next := b.code.NumVariables()
	nOut := op.NumOutputs() + op.NumInnerOutputs()
	inouts := make([]ir.Variable, 0, len(inputs)+nOut)
	inouts = append(inouts, inputs...)
	for i := 0; i < nOut; i++ {
		inouts = append(inouts, ir.Variable(next+i))
	}

	instr := ir.NewInstruction(op, inouts)
	b.code.Append(instr)
	b.scope.ObserveInstruction(instr)
	b.ctx.ObserveInstruction(instr)
	b.types.ObserveInstruction(instr)
	b.invalidateReassigned(instr)
	return instr
}

// invalidateReassigned drops value-reuse entries for any variable an
// instruction may have overwritten: reuse maps must be invalidated when a
// variable is reassigned.
func (b *Builder) invalidateReassigned(instr ir.Instruction) {
	if !instr.MayReassign() {
		return
	}
	// A Reassign's first input names the variable being overwritten, and a
	// ++/-- UnaryOp (the only may-reassign UnaryOp) overwrites its operand.
	// Every other may-reassign op (StoreElement, etc.) targets properties/
	// elements, not the variable slots themselves, so nothing to do.
	switch instr.Op().(type) {
	case ir.Reassign, ir.UnaryOp:
		target := instr.Inputs()[0]
		removeVar(b.intReuse, target)
		removeVar(b.floatReuse, target)
		removeVar(b.stringReuse, target)
	}
}

func removeVar[K comparable](m map[K][]ir.Variable, v ir.Variable) {
	for k, vars := range m {
		filtered := vars[:0]
		for _, existing := range vars {
			if existing != v {
				filtered = append(filtered, existing)
			}
		}
		if len(filtered) == 0 {
			delete(m, k)
		} else {
			m[k] = filtered
		}
	}
}
