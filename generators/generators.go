// Package generators holds concrete builder.CodeGenerator implementations:
// the build loop's pluggable collaborators, following a refactoring
// callback idiom (scoped construction via a builder method that
// guarantees matching block closes, here driving random content instead
// of a fixed AST transform).
package generators

import (
	"github.com/edgecover/fuzzer/analysis"
	"github.com/edgecover/fuzzer/builder"
	"github.com/edgecover/fuzzer/ir"
)

var binaryOperators = []ir.BinaryOperator{
	ir.BinaryAdd, ir.BinarySub, ir.BinaryMul, ir.BinaryDiv, ir.BinaryMod,
	ir.BinaryAnd, ir.BinaryOr, ir.BinaryXor, ir.BinaryLShift, ir.BinaryRShift,
}

var compareOperators = []ir.CompareOperator{
	ir.CompareEqual, ir.CompareStrictEqual, ir.CompareNotEqual,
	ir.CompareLessThan, ir.CompareLessEqual, ir.CompareGreaterThan, ir.CompareGreaterEqual,
}

// pickIndex turns an arbitrary (possibly negative) int64 into a valid index
// into a slice of length n; RandomInt's range spans all of int64, so a
// plain '%' is not enough on its own.
func pickIndex(n64 int64, n int) int {
	idx := int(n64 % int64(n))
	if idx < 0 {
		idx += n
	}
	return idx
}

// IntegerLiteral emits a single fresh integer literal.
var IntegerLiteral = builder.CodeGenerator{
	Name:            "IntegerLiteral",
	RequiredContext: ir.ContextJavaScript,
	Run: func(b *builder.Builder) {
		b.LoadInt(b.RandomInt())
	},
}

// FloatLiteral emits a single fresh float literal.
var FloatLiteral = builder.CodeGenerator{
	Name:            "FloatLiteral",
	RequiredContext: ir.ContextJavaScript,
	Run: func(b *builder.Builder) {
		b.LoadFloat(b.RandomFloat())
	},
}

// StringLiteral emits a single fresh string literal.
var StringLiteral = builder.CodeGenerator{
	Name:            "StringLiteral",
	RequiredContext: ir.ContextJavaScript,
	Run: func(b *builder.Builder) {
		b.LoadString(b.RandomString())
	},
}

// BinaryOperation applies a random binary operator to two in-scope
// variables (falling back to fresh integer literals when none are visible
// yet, since a generator must never panic on an empty scope).
var BinaryOperation = builder.CodeGenerator{
	Name:            "BinaryOperation",
	RequiredContext: ir.ContextJavaScript,
	Run: func(b *builder.Builder) {
		lhs, ok := b.RandomVariableOfType(analysis.Of(analysis.Anything))
		if !ok {
			lhs = b.LoadInt(b.RandomInt())
		}
		rhs, ok := b.RandomVariableOfType(analysis.Of(analysis.Anything))
		if !ok {
			rhs = b.LoadInt(b.RandomInt())
		}
		op := binaryOperators[pickIndex(b.RandomInt(), len(binaryOperators))]
		b.BinaryOp(op, lhs, rhs)
	},
}

// PropertyLoad reads a random property name off a random visible object.
var PropertyLoad = builder.CodeGenerator{
	Name:            "PropertyLoad",
	RequiredContext: ir.ContextJavaScript,
	Run: func(b *builder.Builder) {
		obj, ok := b.RandomVariableOfType(analysis.Of(analysis.Object))
		if !ok {
			return
		}
		name, ok := b.RandomPropertyForReading()
		if !ok {
			return
		}
		b.LoadProperty(obj, name)
	},
}

// ObjectLiteral builds a small object literal out of a handful of visible
// variables, with synthesized property names.
var ObjectLiteral = builder.CodeGenerator{
	Name:            "ObjectLiteral",
	RequiredContext: ir.ContextJavaScript,
	Run: func(b *builder.Builder) {
		vars := b.RandomVariables(3)
		if len(vars) == 0 {
			return
		}
		names := make([]string, len(vars))
		for i := range vars {
			names[i] = b.RandomString()
		}
		b.CreateObject(names, vars)
	},
}

// nestedBodyBudget is roughly how many instructions a recursive generator
// asks the build loop for when filling a block body it just opened.
const nestedBodyBudget = 3

// recursiveTable is filled in by DefaultTable; IfStatement and WhileLoop
// close over it so a nested Build call can sample the very same generator
// set that opened them, rather than leaving their bodies empty.
var recursiveTable *builder.GeneratorTable

// IfStatement opens an if/else whose body is filled by a nested Build call
// against the shared generator table: generators may recurse as long as
// the build loop's remaining budget allows it.
var IfStatement = builder.CodeGenerator{
	Name:            "IfStatement",
	RequiredContext: ir.ContextJavaScript,
	IsRecursive:     true,
	Run: func(b *builder.Builder) {
		lhs, ok := b.RandomVariableOfType(analysis.Of(analysis.Integer))
		if !ok {
			lhs = b.LoadInt(b.RandomInt())
		}
		rhs := b.LoadInt(b.RandomInt())
		cmp := compareOperators[pickIndex(b.RandomInt(), len(compareOperators))]
		b.BuildIfElse(b.CompareOp(cmp, lhs, rhs), func() {
			b.BuildRecursive(func() { b.Build(nestedBodyBudget, b.Mode(), recursiveTable) })
		}, nil)
	},
}

// WhileLoop opens a bounded while loop over a fresh counter; its
// comparison is seeded so the loop is very likely to terminate quickly,
// since nothing here runs the generated program to find out.
var WhileLoop = builder.CodeGenerator{
	Name:            "WhileLoop",
	RequiredContext: ir.ContextJavaScript,
	IsRecursive:     true,
	Run: func(b *builder.Builder) {
		counter := b.LoadInt(0)
		limit := b.LoadInt(int64(1 + pickIndex(b.RandomInt(), 10)))
		b.BuildWhileLoop(counter, limit, ir.CompareLessThan, func() {
			b.BuildRecursive(func() { b.Build(nestedBodyBudget, b.Mode(), recursiveTable) })
		})
	},
}

// DefaultTable assembles every generator in this package into one table, in
// an order favoring simple, always-applicable generators so a freshly
// reset Builder (empty scope) still has somewhere to start. It also wires
// recursiveTable so the two recursive generators above can fill the block
// bodies they open.
func DefaultTable() *builder.GeneratorTable {
	table := builder.NewGeneratorTable(
		IntegerLiteral,
		FloatLiteral,
		StringLiteral,
		BinaryOperation,
		PropertyLoad,
		ObjectLiteral,
		IfStatement,
		WhileLoop,
	)
	recursiveTable = table
	return table
}
