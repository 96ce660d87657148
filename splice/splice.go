// Package splice implements the program-splicing engine: extracting
// a semantically valid sub-program from a donor Program and appending it to
// a host Builder's Code. It follows a backward-slice approach: compute,
// working backward from a chosen root, the transitive closure of producers
// a value depends on.
//
// Simplification from the reference algorithm: nested blocks are treated as
// atomic units throughout (following Pass 1's own "treat a block as one
// virtual instruction" framing) rather than attempting the finer-grained
// partial-block inclusion the reference's block-end/block-begin jump rule
// implies. Every slice this package produces is therefore trivially
// block-balanced; see DESIGN.md for the tradeoff.
package splice

import (
	"math/rand"

	"golang.org/x/tools/container/intsets"

	"github.com/edgecover/fuzzer/analysis"
	"github.com/edgecover/fuzzer/builder"
	"github.com/edgecover/fuzzer/ir"
)

// Options carries the splicer's tunable probabilities: these are knobs,
// not contracts.
type Options struct {
	// MergeDataFlow enables Pass 2's remap-onto-a-host-variable step.
	// Disabling it makes a splice a pure, unmodified copy of whatever
	// donor fragment the backward slice selects.
	MergeDataFlow bool

	// OuterRemapProbability is the chance a regular output is remapped to
	// a compatible host variable instead of being reproduced.
	OuterRemapProbability float64
	// InnerRemapProbability is the chance a block's inner output
	// (parameter, induction variable, ...) is remapped.
	InnerRemapProbability float64
	// MutationIncludeProbability is the coin-flip odds of pulling in an
	// instruction that may mutate a required variable, even though
	// nothing directly consumes its output.
	MutationIncludeProbability float64
}

func DefaultOptions() Options {
	return Options{
		MergeDataFlow:              true,
		OuterRemapProbability:      0.10,
		InnerRemapProbability:      0.75,
		MutationIncludeProbability: 0.50,
	}
}

// blockSummary is Pass 1's per-block aggregate, keyed by both its begin
// and end instruction index for convenient lookup from either end of the
// block.
type blockSummary struct {
	beginIndex, endIndex int
	openedContext        ir.Context
	requiredContext       ir.Context
	requiredInputs        ir.VariableSet
	externalOutputs       ir.VariableSet // the block-begin's own regular (non-inner) outputs
}

// summarizeBlocks performs Pass 1: a single forward walk maintaining a
// stack of open blocks, closing each into a blockSummary as its matching
// end is reached and bubbling the result into the parent frame exactly as
// if the whole block were one instruction.
func summarizeBlocks(code *ir.Code) map[int]*blockSummary {
	type frame struct {
		beginIndex    int
		openedContext ir.Context
		reqCtx        ir.Context
		rawInputs     ir.VariableSet
		provided      ir.VariableSet
	}

	summaries := map[int]*blockSummary{}
	stack := []frame{{beginIndex: -1}}

	code.All(func(i int, instr ir.Instruction) bool {
		op := instr.Op()
		attrs := op.Attrs()

		if attrs.Has(ir.AttrBlockEnd) {
			closed := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			closed.reqCtx |= op.RequiredContext()
			closed.provided = closed.provided.Union(ir.VarSetOf(instr.AllOutputs()...))

			finalReqCtx := closed.reqCtx &^ closed.openedContext
			finalRequiredInputs := closed.rawInputs.Subtract(closed.provided)

			beginInstr := code.At(closed.beginIndex)
			summary := &blockSummary{
				beginIndex:      closed.beginIndex,
				endIndex:        i,
				openedContext:   closed.openedContext,
				requiredContext: finalReqCtx,
				requiredInputs:  finalRequiredInputs,
				externalOutputs: ir.VarSetOf(beginInstr.Outputs()...),
			}
			summaries[closed.beginIndex] = summary
			summaries[i] = summary

			top := &stack[len(stack)-1]
			virtualInputs := ir.VarSetOf(beginInstr.Inputs()...).Union(finalRequiredInputs)
			top.rawInputs = top.rawInputs.Union(virtualInputs)
			top.provided = top.provided.Union(summary.externalOutputs)
			top.reqCtx |= finalReqCtx

			// Self-closing ops (BeginElse, BeginCatch, ObjectLiteralMethod,
			// ...) both close the previous body and open a new one.
			if attrs.Has(ir.AttrBlockBegin) {
				stack = append(stack, frame{beginIndex: i, openedContext: op.OpenedContext()})
			}
			return true
		}

		if attrs.Has(ir.AttrBlockBegin) {
			stack = append(stack, frame{beginIndex: i, openedContext: op.OpenedContext()})
			top := &stack[len(stack)-1]
			top.reqCtx |= op.RequiredContext()
			top.provided = top.provided.Union(ir.VarSetOf(instr.AllOutputs()...))
			return true
		}

		top := &stack[len(stack)-1]
		top.reqCtx |= op.RequiredContext()
		top.rawInputs = top.rawInputs.Union(ir.VarSetOf(instr.Inputs()...))
		top.provided = top.provided.Union(ir.VarSetOf(instr.AllOutputs()...))
		return true
	})

	return summaries
}

// unit is one top-level splicing granule: either a single non-block
// instruction, or an entire nested block treated atomically.
type unit struct {
	beginIndex, endIndex int
	isBlock              bool
}

func (u unit) requiredContext(code *ir.Code, summaries map[int]*blockSummary) ir.Context {
	if !u.isBlock {
		return code.At(u.beginIndex).Op().RequiredContext()
	}
	return summaries[u.beginIndex].requiredContext
}

// directInputs is the unit's own "virtual inputs": for a simple
// instruction, its Inputs(); for a block, its begin instruction's own
// Inputs() plus whatever the block requires from outside its body.
func (u unit) directInputs(code *ir.Code, summaries map[int]*blockSummary) ir.VariableSet {
	begin := code.At(u.beginIndex)
	if !u.isBlock {
		return ir.VarSetOf(begin.Inputs()...)
	}
	s := summaries[u.beginIndex]
	return ir.VarSetOf(begin.Inputs()...).Union(s.requiredInputs)
}

// externalOutputs is what the unit makes visible to whatever scope
// contains it.
func (u unit) externalOutputs(code *ir.Code) ir.VariableSet {
	return ir.VarSetOf(code.At(u.beginIndex).AllOutputs()...)
}

func (u unit) mayReassign(code *ir.Code) bool {
	return code.At(u.beginIndex).Op().Attrs().Has(ir.AttrMayReassign)
}

// buildUnits scans the donor code once, producing the top-level unit list;
// indices covered by a nested block are skipped entirely (they are part of
// that block's unit).
func buildUnits(code *ir.Code, summaries map[int]*blockSummary) []unit {
	var units []unit
	for i := 0; i < code.Len(); {
		instr := code.At(i)
		if instr.Op().Attrs().Has(ir.AttrBlockBegin) {
			s := summaries[i]
			units = append(units, unit{beginIndex: i, endIndex: s.endIndex, isBlock: true})
			i = s.endIndex + 1
		} else {
			units = append(units, unit{beginIndex: i, endIndex: i})
			i++
		}
	}
	return units
}

// isTrivialDataFlowRoot reports Pass 3's exclusion: a simple, no-input
// instruction in plain JavaScript context (a bare literal load), which
// makes an uninteresting splice root.
func isTrivialDataFlowRoot(code *ir.Code, u unit) bool {
	if u.isBlock {
		return false
	}
	op := code.At(u.beginIndex).Op()
	return op.Attrs().Has(ir.AttrIsSimple) && op.NumInputs() == 0 && op.RequiredContext() == ir.ContextJavaScript
}

// candidateSet is Pass 2's output: which units qualify for inclusion, and
// the donor-variable-to-host-variable remap table built along the way.
type candidateSet struct {
	isCandidate map[int]bool // by unit index
	remap       map[ir.Variable]ir.Variable
}

// selectCandidates performs Pass 2: a forward walk of units tracking which
// donor variables are available (producible within the slice, or
// substituted via remap), deciding per unit whether its required context
// and inputs are satisfiable, and opportunistically remapping outputs to
// compatible host variables.
func selectCandidates(b *builder.Builder, donorCode *ir.Code, units []unit, summaries map[int]*blockSummary, opts Options, rng *rand.Rand) candidateSet {
	result := candidateSet{isCandidate: map[int]bool{}, remap: map[ir.Variable]ir.Variable{}}

	donorTypes := analysis.NewTypeAnalyzer(b.Types().PropertyTable())
	donorCode.All(func(_ int, instr ir.Instruction) bool {
		donorTypes.ObserveInstruction(instr)
		return true
	})

	hostCtx := b.Context()
	// available tracks, as donor variable numbers, everything usable by a
	// later unit — either because an earlier includable unit would
	// produce it, or because it was remapped onto a host variable. A
	// sparse set fits this better than a dense VariableSet: unlike Code's
	// own variable space, the numbers landing here are an arbitrary,
	// non-contiguous subset of the donor's.
	var available intsets.Sparse

	tryRemapOne := func(v ir.Variable, probability float64) bool {
		if !opts.MergeDataFlow {
			return false
		}
		if rng.Float64() >= probability {
			return false
		}
		donorType := donorTypes.TypeOf(v)
		var matches []ir.Variable
		b.VisibleVariables().ForEach(func(hv ir.Variable) {
			if donorType.IsSubtypeOf(b.Types().TypeOf(hv)) {
				matches = append(matches, hv)
			}
		})
		if len(matches) == 0 {
			return false
		}
		result.remap[v] = matches[rng.Intn(len(matches))]
		return true
	}

	for idx, u := range units {
		reqCtx := u.requiredContext(donorCode, summaries)
		reqInputs := u.directInputs(donorCode, summaries)

		ctxOK := hostCtx.Contains(reqCtx)
		var nonRemapped intsets.Sparse
		reqInputs.ForEach(func(v ir.Variable) {
			if _, remapped := result.remap[v]; !remapped {
				nonRemapped.Insert(int(v))
			}
		})
		includable := ctxOK && nonRemapped.SubsetOf(&available)
		result.isCandidate[idx] = includable

		begin := donorCode.At(u.beginIndex)
		regularOutputs := begin.Outputs()
		innerOutputs := begin.InnerOutputs()

		for _, v := range regularOutputs {
			if tryRemapOne(v, opts.OuterRemapProbability) {
				available.Insert(int(v))
			}
		}
		for _, v := range innerOutputs {
			if tryRemapOne(v, opts.InnerRemapProbability) {
				available.Insert(int(v))
			}
		}
		if !includable {
			// Force a remap attempt on whatever outputs didn't already
			// get one, since there is no other way they become usable.
			for _, v := range append(append([]ir.Variable{}, regularOutputs...), innerOutputs...) {
				if _, ok := result.remap[v]; !ok {
					tryRemapOne(v, 1.0)
					if _, ok := result.remap[v]; ok {
						available.Insert(int(v))
					}
				}
			}
		} else {
			for _, v := range u.externalOutputs(donorCode).Variables() {
				if _, alreadyRemapped := result.remap[v]; !alreadyRemapped {
					available.Insert(int(v))
				}
			}
		}
	}

	return result
}

// pickRoot performs Pass 3: exclude trivial data-flow roots from the
// candidate set, then choose uniformly among what remains.
func pickRoot(donorCode *ir.Code, units []unit, candidates candidateSet, rng *rand.Rand) (int, bool) {
	var eligible []int
	for idx, u := range units {
		if candidates.isCandidate[idx] && !isTrivialDataFlowRoot(donorCode, u) {
			eligible = append(eligible, idx)
		}
	}
	if len(eligible) == 0 {
		return 0, false
	}
	return eligible[rng.Intn(len(eligible))], true
}

// Splice attempts one splice from donor into b, choosing a root
// automatically. It returns false (host unchanged) if no candidate root
// exists, a non-fatal SpliceFailed condition.
func Splice(b *builder.Builder, donor *ir.Program, opts Options, rng *rand.Rand) bool {
	donorCode := donor.Code()
	summaries := summarizeBlocks(donorCode)
	units := buildUnits(donorCode, summaries)
	candidates := selectCandidates(b, donorCode, units, summaries, opts, rng)

	rootIdx, ok := pickRoot(donorCode, units, candidates, rng)
	if !ok {
		return false
	}
	return spliceAt(b, donor, units, summaries, candidates, rootIdx, opts, rng)
}

// intersectsVarSet reports whether s (a donor-variable-number set) shares
// any member with vs.
func intersectsVarSet(s *intsets.Sparse, vs ir.VariableSet) bool {
	hit := false
	vs.ForEach(func(v ir.Variable) {
		if s.Has(int(v)) {
			hit = true
		}
	})
	return hit
}

// spliceAt runs Passes 4 and 5 for an already-chosen root unit index. Both
// `required` (donor variables the slice still needs a producer or remap
// for) and `included` (the unit indices pulled into the slice) are sparse
// index sets: neither is keyed densely over the donor's own variable or
// instruction numbering, which is exactly the case the pack's x/tools
// intsets package is meant for.
func spliceAt(b *builder.Builder, donor *ir.Program, units []unit, summaries map[int]*blockSummary, candidates candidateSet, rootIdx int, opts Options, rng *rand.Rand) bool {
	donorCode := donor.Code()
	var included intsets.Sparse
	var required intsets.Sparse

	addInputs := func(idx int) {
		units[idx].directInputs(donorCode, summaries).ForEach(func(v ir.Variable) {
			if _, remapped := candidates.remap[v]; !remapped {
				required.Insert(int(v))
			}
		})
	}

	included.Insert(rootIdx)
	addInputs(rootIdx)

	for idx := rootIdx - 1; idx >= 0; idx-- {
		u := units[idx]
		if !candidates.isCandidate[idx] {
			continue
		}
		outputsNeeded := intersectsVarSet(&required, u.externalOutputs(donorCode))
		mutatesNeeded := u.mayReassign(donorCode) && intersectsVarSet(&required, u.directInputs(donorCode, summaries)) && rng.Float64() < opts.MutationIncludeProbability
		if outputsNeeded || mutatesNeeded {
			included.Insert(idx)
			addInputs(idx)
		}
	}

	if !included.Has(rootIdx) {
		return false
	}

	b.BeginAdoption(donor)
	defer b.EndAdoption()

	for idx, u := range units {
		if !included.Has(idx) {
			continue
		}
		for i := u.beginIndex; i <= u.endIndex; i++ {
			b.AdoptInstructionRemapped(donorCode.At(i), candidates.remap)
		}
	}
	return true
}
