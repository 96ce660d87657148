package builder

import "github.com/edgecover/fuzzer/ir"

// adoptionSession maps a donor program's variable numbers onto this
// builder's own, stably for the lifetime of the session: adopting the same
// source variable twice always yields the same target variable (the
// idempotence property the splicer's backward slice depends on).
type adoptionSession struct {
	from    *ir.Program
	mapping map[ir.Variable]ir.Variable
}

// BeginAdoption starts a new adoption session copying instructions out of
// from. Sessions nest: splicing a donor fragment that itself references an
// already-adopted ancestor program works by pushing one session per
// program on the stack.
func (b *Builder) BeginAdoption(from *ir.Program) {
	b.adoption = append(b.adoption, &adoptionSession{from: from, mapping: map[ir.Variable]ir.Variable{}})
}

// EndAdoption closes the most recently opened adoption session.
func (b *Builder) EndAdoption() {
	b.adoption = b.adoption[:len(b.adoption)-1]
}

func (b *Builder) currentAdoption() *adoptionSession {
	return b.adoption[len(b.adoption)-1]
}

// Adopt resolves a source variable (one already adopted earlier in this
// session, since a well-formed Code only ever references variables defined
// earlier in the same program) to its mapped target variable.
func (b *Builder) Adopt(v ir.Variable) ir.Variable {
	mapped, ok := b.currentAdoption().mapping[v]
	if !ok {
		panic(&ir.InvariantViolation{Reason: "adopt: source variable referenced before it was adopted"})
	}
	return mapped
}

// AdoptInstruction copies one instruction from the session's donor program
// into this builder's Code, remapping its inputs through Adopt and
// recording its outputs under their source variable numbers for later
// Adopt calls.
func (b *Builder) AdoptInstruction(instr ir.Instruction) ir.Instruction {
	session := b.currentAdoption()

	mappedInputs := make([]ir.Variable, len(instr.Inputs()))
	for i, v := range instr.Inputs() {
		mappedInputs[i] = b.Adopt(v)
	}

	newInstr := b.emit(instr.Op(), mappedInputs)

	sourceOutputs := instr.AllOutputs()
	targetOutputs := newInstr.AllOutputs()
	for i, v := range sourceOutputs {
		session.mapping[v] = targetOutputs[i]
	}
	return newInstr
}

// AdoptInstructionRemapped is AdoptInstruction with an extra substitution
// table consulted first: an input present in remap is wired directly to
// its mapped host variable instead of going through Adopt, letting the
// splicer fold a donor instruction's reference onto an existing host
// variable rather than reproducing its producer. An output present in remap
// still gets a fresh host variable from the re-emitted instruction, but the
// session records the existing remap target, not that fresh variable, as
// that source variable's mapping, so later instructions that consume it
// (via Adopt) resolve to the existing host variable.
func (b *Builder) AdoptInstructionRemapped(instr ir.Instruction, remap map[ir.Variable]ir.Variable) ir.Instruction {
	session := b.currentAdoption()

	mappedInputs := make([]ir.Variable, len(instr.Inputs()))
	for i, v := range instr.Inputs() {
		if hv, ok := remap[v]; ok {
			mappedInputs[i] = hv
			continue
		}
		mappedInputs[i] = b.Adopt(v)
	}

	newInstr := b.emit(instr.Op(), mappedInputs)

	sourceOutputs := instr.AllOutputs()
	targetOutputs := newInstr.AllOutputs()
	for i, v := range sourceOutputs {
		if hv, ok := remap[v]; ok {
			session.mapping[v] = hv
			continue
		}
		session.mapping[v] = targetOutputs[i]
	}
	return newInstr
}

// SetAdoptedMapping records, in the current adoption session, that the
// donor's source variable now resolves to target — for a mutator that
// replaces one adopted instruction with a hand-built substitute (a
// different literal value, say) instead of reproducing it verbatim via
// AdoptInstruction, so that later Adopt calls referencing the original
// variable still resolve correctly.
func (b *Builder) SetAdoptedMapping(source, target ir.Variable) {
	b.currentAdoption().mapping[source] = target
}

// AdoptProgram copies every instruction of from into this builder's Code in
// order, within its own adoption session.
func (b *Builder) AdoptProgram(from *ir.Program) {
	b.BeginAdoption(from)
	defer b.EndAdoption()
	from.Code().All(func(_ int, instr ir.Instruction) bool {
		b.AdoptInstruction(instr)
		return true
	})
}
