package builder

import "github.com/edgecover/fuzzer/ir"

// Trim copies target into this builder's Code, dropping any "is_simple"
// instruction (a pure literal/operator load with no side effect) whose
// outputs are never read by anything that survives the trim. It is the
// pure, evaluator-free half of minimization: an instruction kept only
// because the Evaluator needs to re-observe its aspects still has to be
// confirmed by re-running the program, which is outside this package's
// concern. Non-simple instructions (calls, stores, block scaffolding,
// control flow) are never dropped, since removing them could change
// observable behavior or unbalance a block.
//
// Trim returns the number of instructions dropped.
func (b *Builder) Trim(target *ir.Program) int {
	code := target.Code()
	n := code.Len()

	keep := make([]bool, n)
	var used ir.VariableSet
	for i := n - 1; i >= 0; i-- {
		instr := code.At(i)

		k := true
		if instr.IsSimple() {
			k = false
			for _, v := range instr.AllOutputs() {
				if used.Contains(v) {
					k = true
					break
				}
			}
		}
		keep[i] = k

		if k {
			for _, v := range instr.Inputs() {
				used.Insert(v)
			}
		}
	}

	b.BeginAdoption(target)
	defer b.EndAdoption()

	dropped := 0
	code.All(func(i int, instr ir.Instruction) bool {
		if keep[i] {
			b.AdoptInstruction(instr)
		} else {
			dropped++
		}
		return true
	})
	return dropped
}
