package ir

// Code is an append-only sequence of instructions. It is the workhorse data
// structure of the whole engine: the builder appends to one, the splicer
// reads from a donor's and appends to a host's, and a finalized Code
// becomes part of a Program.
//
// In debug mode (DebugChecks true), every Append call verifies the
// integrity invariants: dense monotonic variable numbers, balanced block
// nesting, in-scope inputs, satisfied required context, and the
// MAX_VARIABLES ceiling. Release callers that have already validated
// inputs through package builder may disable these checks for speed.
type Code struct {
	instructions []Instruction
	numVariables int

	// DebugChecks enables per-append invariant verification. NewCode sets
	// it to true; nothing in this module turns it off.
	DebugChecks bool

	// scopeStack and contextStack mirror the block nesting structurally,
	// entirely from each instruction's own Attrs/OpenedContext/
	// RequiredContext — no dependency on package analysis, to avoid an
	// import cycle and to keep Code self-validating.
	scopeStack   []VariableSet
	contextStack []Context
}

// NewCode returns an empty Code with debug checks enabled. Module scope
// already has ContextJavaScript active, so a freshly-appended simple
// operation never fails the required-context check.
func NewCode() *Code {
	return &Code{DebugChecks: true, scopeStack: []VariableSet{{}}, contextStack: []Context{ContextJavaScript}}
}

func (c *Code) Len() int { return len(c.instructions) }

func (c *Code) At(i int) Instruction { return c.instructions[i] }

func (c *Code) LastInstruction() Instruction {
	return c.instructions[len(c.instructions)-1]
}

// NumVariables returns the number of variables defined so far (the next
// variable number that would be allocated).
func (c *Code) NumVariables() int { return c.numVariables }

// All iterates every instruction in order.
func (c *Code) All(yield func(index int, instr Instruction) bool) {
	for i, instr := range c.instructions {
		if !yield(i, instr) {
			return
		}
	}
}

// currentContext returns the union of every open context frame — the
// instruction stream's active context.
func (c *Code) currentContext() Context {
	var ctx Context
	for _, frame := range c.contextStack {
		ctx |= frame
	}
	return ctx
}

// currentlyVisible returns the union of every open scope's variables.
func (c *Code) currentlyVisible() VariableSet {
	var visible VariableSet
	for _, s := range c.scopeStack {
		visible.UnionWith(s)
	}
	return visible
}

// Append adds instr to the code, allocating its outputs from the dense
// variable-number space, and returns the index at which it was appended.
// instr's output variables must already be set to the next numVariables
// values in order (the builder is responsible for that allocation); this
// mirrors invariant 1, which requires monotone dense numbering rather than
// Code silently renumbering on the caller's behalf.
func (c *Code) Append(instr Instruction) int {
	if c.DebugChecks {
		c.checkIntegrity(instr)
	}

	index := len(c.instructions)
	c.instructions = append(c.instructions, instr)

	for _, v := range instr.AllOutputs() {
		if int(v)+1 > c.numVariables {
			c.numVariables = int(v) + 1
		}
	}

	op := instr.Op()
	attrs := op.Attrs()

	// A block-end closes the innermost scope/context frame before a
	// paired block-begin (e.g. BeginElse, BeginCatch) opens a new one.
	if attrs.Has(AttrBlockEnd) && len(c.scopeStack) > 1 {
		c.scopeStack = c.scopeStack[:len(c.scopeStack)-1]
		c.contextStack = c.contextStack[:len(c.contextStack)-1]
	}
	// Regular outputs (e.g. the function object a BeginPlainFunction
	// produces) belong to the scope the instruction is emitted *into*;
	// only inner outputs (parameters, the catch exception, ...) belong to
	// the block this instruction opens.
	top := len(c.scopeStack) - 1
	for _, v := range instr.Outputs() {
		c.scopeStack[top].Insert(v)
	}
	if attrs.Has(AttrBlockBegin) {
		frame := VariableSet{}
		for _, v := range instr.InnerOutputs() {
			frame.Insert(v)
		}
		c.scopeStack = append(c.scopeStack, frame)
		c.contextStack = append(c.contextStack, op.OpenedContext())
	}

	return index
}

func (c *Code) checkIntegrity(instr Instruction) {
	op := instr.Op()
	index := len(c.instructions)

	if len(instr.AllOutputs()) > 0 {
		if first := instr.AllOutputs()[0]; int(first) != c.numVariables {
			panic(&InvariantViolation{Reason: "outputs are not dense/monotonic", Op: op.Kind(), Index: index, Want: c.numVariables, Got: int(first)})
		}
	}
	if c.numVariables+len(instr.AllOutputs()) > MaxVariables {
		panic(&InvariantViolation{Reason: "exceeds MAX_VARIABLES", Op: op.Kind(), Index: index, Want: MaxVariables, Got: c.numVariables + len(instr.AllOutputs())})
	}

	required := op.RequiredContext()
	current := c.currentContext()
	if !current.Contains(required) {
		panic(&InvariantViolation{Reason: "required context is not a subset of the active context", Op: op.Kind(), Index: index})
	}

	visible := c.currentlyVisible()
	for _, v := range instr.Inputs() {
		if !visible.Contains(v) {
			panic(&InvariantViolation{Reason: "input variable not in scope", Op: op.Kind(), Index: index, Want: int(v)})
		}
	}

	if op.Attrs().Has(AttrBlockEnd) && len(c.scopeStack) <= 1 {
		panic(&InvariantViolation{Reason: "block-end with no matching block-begin", Op: op.Kind(), Index: index})
	}
}

// RemoveAll clears the code back to empty so the same Code can be rebuilt
// from scratch. It must not be called on a Code that a Program wraps.
func (c *Code) RemoveAll() {
	c.instructions = c.instructions[:0]
	c.numVariables = 0
	c.scopeStack = []VariableSet{{}}
	c.contextStack = []Context{ContextJavaScript}
}

// OpenBlockDepth returns the current nesting depth; 0 at module scope.
func (c *Code) OpenBlockDepth() int { return len(c.scopeStack) - 1 }
