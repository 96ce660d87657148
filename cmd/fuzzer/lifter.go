package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/edgecover/fuzzer/ir"
)

// JSLifter renders a finalized Program as JavaScript source text by
// walking its Code linearly, one statement per instruction, naming every
// variable v<N>. It covers the operations package generators/mutators
// actually emit; any instruction it does not recognize is rendered as a
// comment carrying its Kind, rather than failing the whole lift, since a
// best-effort textual rendering is more useful to a downstream target than
// an aborted run.
type JSLifter struct{}

func NewJSLifter() *JSLifter { return &JSLifter{} }

func varName(v ir.Variable) string { return "v" + strconv.Itoa(int(v)) }

func (l *JSLifter) Lift(program *ir.Program) ([]byte, error) {
	var out strings.Builder
	depth := 0
	indent := func() { out.WriteString(strings.Repeat("    ", depth)) }

	// doWhileConditions is a stack of each open BeginDoWhileLoop's
	// condition text, since the textual "while (...)" clause can only be
	// written once the matching EndDoWhileLoop (which carries no inputs
	// of its own) is reached.
	var doWhileConditions []string

	code := program.Code()
	code.All(func(_ int, instr ir.Instruction) bool {
		if instr.Op().Attrs().Has(ir.AttrBlockEnd) {
			depth--
		}
		indent()
		writeInstruction(&out, instr, &doWhileConditions)
		out.WriteByte('\n')
		if instr.Op().Attrs().Has(ir.AttrBlockBegin) {
			depth++
		}
		return true
	})
	return []byte(out.String()), nil
}

func writeInstruction(out *strings.Builder, instr ir.Instruction, doWhileConditions *[]string) {
	in := instr.Inputs()
	allOut := instr.AllOutputs()
	assign := func() {
		if len(allOut) > 0 {
			fmt.Fprintf(out, "let %s = ", varName(allOut[0]))
		}
	}

	switch op := instr.Op().(type) {
	case ir.LoadInteger:
		assign()
		fmt.Fprintf(out, "%d;", op.Value)
	case ir.LoadFloat:
		assign()
		fmt.Fprintf(out, "%v;", op.Value)
	case ir.LoadString:
		assign()
		fmt.Fprintf(out, "%q;", op.Value)
	case ir.LoadBoolean:
		assign()
		fmt.Fprintf(out, "%v;", op.Value)
	case ir.LoadRegExp:
		assign()
		fmt.Fprintf(out, "/%s/%s;", op.Pattern, op.Flags)
	case ir.LoadBuiltin:
		assign()
		fmt.Fprintf(out, "%s;", op.Name)
	case ir.CreateArray:
		assign()
		parts := make([]string, len(in))
		for i, v := range in {
			parts[i] = varName(v)
		}
		fmt.Fprintf(out, "[%s];", strings.Join(parts, ", "))
	case ir.CreateObject:
		assign()
		parts := make([]string, len(op.PropertyNames))
		for i, name := range op.PropertyNames {
			parts[i] = fmt.Sprintf("%s: %s", name, varName(in[i]))
		}
		fmt.Fprintf(out, "{%s};", strings.Join(parts, ", "))
	case ir.LoadProperty:
		assign()
		fmt.Fprintf(out, "%s.%s;", varName(in[0]), op.Name)
	case ir.StoreProperty:
		fmt.Fprintf(out, "%s.%s = %s;", varName(in[0]), op.Name, varName(in[1]))
	case ir.DeleteProperty:
		fmt.Fprintf(out, "delete %s.%s;", varName(in[0]), op.Name)
	case ir.UnaryOp:
		assign()
		fmt.Fprintf(out, "%s%s;", op.Op, varName(in[0]))
	case ir.BinaryOp:
		assign()
		fmt.Fprintf(out, "%s %s %s;", varName(in[0]), op.Op, varName(in[1]))
	case ir.CompareOp:
		assign()
		fmt.Fprintf(out, "%s %s %s;", varName(in[0]), op.Op, varName(in[1]))
	case ir.LogicalOp:
		assign()
		fmt.Fprintf(out, "%s %s %s;", varName(in[0]), op.Op, varName(in[1]))
	case ir.CallFunction:
		assign()
		fmt.Fprintf(out, "%s(%s);", varName(in[0]), joinVars(in[1:]))
	case ir.CallMethod:
		assign()
		fmt.Fprintf(out, "%s.%s(%s);", varName(in[0]), op.MethodName, joinVars(in[1:]))
	case ir.ConstructObject:
		assign()
		fmt.Fprintf(out, "new %s(%s);", varName(in[0]), joinVars(in[1:]))
	case ir.CallFunctionWithSpread:
		assign()
		fmt.Fprintf(out, "%s(...%s);", varName(in[0]), joinVars(in[1:]))

	case ir.BeginPlainFunction:
		assign()
		fmt.Fprintf(out, "function(%s) {", joinSignature(op.Sig, instr.InnerOutputs()))
	case ir.BeginArrowFunction:
		assign()
		fmt.Fprintf(out, "(%s) => {", joinSignature(op.Sig, instr.InnerOutputs()))
	case ir.BeginGeneratorFunction:
		assign()
		fmt.Fprintf(out, "function*(%s) {", joinSignature(op.Sig, instr.InnerOutputs()))
	case ir.BeginAsyncFunction:
		assign()
		fmt.Fprintf(out, "async function(%s) {", joinSignature(op.Sig, instr.InnerOutputs()))
	case ir.EndPlainFunction, ir.EndArrowFunction, ir.EndGeneratorFunction, ir.EndAsyncFunction:
		out.WriteString("}")

	case ir.Return:
		if len(in) > 0 {
			fmt.Fprintf(out, "return %s;", varName(in[0]))
		} else {
			out.WriteString("return;")
		}
	case ir.Yield:
		assign()
		if len(in) > 0 {
			fmt.Fprintf(out, "yield %s;", varName(in[0]))
		} else {
			out.WriteString("yield;")
		}

	case ir.BeginIf:
		fmt.Fprintf(out, "if (%s) {", varName(in[0]))
	case ir.BeginElse:
		out.WriteString("} else {")
	case ir.EndIf:
		out.WriteString("}")
	case ir.BeginWhileLoop:
		fmt.Fprintf(out, "while (%s %s %s) {", varName(in[0]), op.Comparator, varName(in[1]))
	case ir.EndWhileLoop:
		out.WriteString("}")
	case ir.BeginDoWhileLoop:
		out.WriteString("do {")
		*doWhileConditions = append(*doWhileConditions, fmt.Sprintf("%s %s %s", varName(in[0]), op.Comparator, varName(in[1])))
	case ir.EndDoWhileLoop:
		last := len(*doWhileConditions) - 1
		cond := (*doWhileConditions)[last]
		*doWhileConditions = (*doWhileConditions)[:last]
		fmt.Fprintf(out, "} while (%s);", cond)
	case ir.BeginForLoop:
		fmt.Fprintf(out, "for (let %s = %s; %s %s %s; %s++) {",
			varName(allOut[0]), varName(in[0]), varName(allOut[0]), op.Comparator, varName(in[1]), varName(allOut[0]))
	case ir.EndForLoop:
		out.WriteString("}")

	default:
		fmt.Fprintf(out, "/* unsupported: %s */", instr.Op().Kind())
	}
}

func joinVars(vars []ir.Variable) string {
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = varName(v)
	}
	return strings.Join(parts, ", ")
}

// joinSignature names each parameter after the inner-output variable the
// function body will actually reference, rather than a synthetic name, so
// uses inside the body resolve to the same v<N> the declaration bound.
func joinSignature(sig ir.Signature, params []ir.Variable) string {
	parts := make([]string, len(sig.Parameters))
	for i, p := range sig.Parameters {
		name := varName(params[i])
		if p == ir.ParamRest {
			name = "..." + name
		}
		parts[i] = name
	}
	return strings.Join(parts, ", ")
}
