package ir

// Instruction is an immutable (operation, inouts) pair. inouts is ordered:
// the first NumInputs() entries are inputs, the next NumOutputs() are
// outputs, and the last NumInnerOutputs() are inner outputs (visible only
// inside the block this instruction opens, if any).
type Instruction struct {
	op     Operation
	inouts []Variable
}

// NewInstruction builds an Instruction, panicking if inouts does not match
// op's declared arity — a BuilderInvariantViolation, since only a caller
// bug produces a mismatched inouts slice.
func NewInstruction(op Operation, inouts []Variable) Instruction {
	want := op.NumInputs() + op.NumOutputs() + op.NumInnerOutputs()
	if len(inouts) != want {
		panic(&InvariantViolation{Reason: "inouts length does not match operation arity",
			Op: op.Kind(), Want: want, Got: len(inouts)})
	}
	cp := make([]Variable, len(inouts))
	copy(cp, inouts)
	return Instruction{op: op, inouts: cp}
}

func (i Instruction) Op() Operation { return i.op }

func (i Instruction) Inputs() []Variable {
	return i.inouts[:i.op.NumInputs()]
}

func (i Instruction) Outputs() []Variable {
	n := i.op.NumInputs()
	return i.inouts[n : n+i.op.NumOutputs()]
}

func (i Instruction) InnerOutputs() []Variable {
	n := i.op.NumInputs() + i.op.NumOutputs()
	return i.inouts[n:]
}

// AllOutputs returns outputs followed by inner outputs — every variable
// this instruction produces.
func (i Instruction) AllOutputs() []Variable {
	n := i.op.NumInputs()
	return i.inouts[n:]
}

func (i Instruction) Inouts() []Variable { return i.inouts }

func (i Instruction) IsBlockBegin() bool { return i.op.Attrs().Has(AttrBlockBegin) }
func (i Instruction) IsBlockEnd() bool   { return i.op.Attrs().Has(AttrBlockEnd) }
func (i Instruction) IsSimple() bool     { return i.op.Attrs().Has(AttrIsSimple) }
func (i Instruction) IsCall() bool       { return i.op.Attrs().Has(AttrIsCall) }
func (i Instruction) MayReassign() bool  { return i.op.Attrs().Has(AttrMayReassign) }
func (i Instruction) IsInternal() bool   { return i.op.Attrs().Has(AttrInternal) }

// HasOutput reports whether v is among this instruction's outputs or
// inner outputs.
func (i Instruction) HasOutput(v Variable) bool {
	for _, o := range i.AllOutputs() {
		if o == v {
			return true
		}
	}
	return false
}
