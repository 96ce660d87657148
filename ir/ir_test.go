package ir

import "testing"

func TestNewInstructionPanicsOnArityMismatch(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic for a mismatched inouts slice")
		}
		if _, ok := r.(*InvariantViolation); !ok {
			t.Fatalf("expected an *InvariantViolation panic, got %T", r)
		}
	}()
	// LoadInteger takes 0 inputs and 1 output; passing none is a mismatch.
	NewInstruction(NewLoadInteger(1), nil)
}

func TestInstructionInputsOutputsInnerOutputsSplitInOrder(t *testing.T) {
	op := NewBeginPlainFunction(Signature{Parameters: []ParamKind{ParamPlain, ParamPlain}})
	instr := NewInstruction(op, []Variable{0, 1, 2})
	if len(instr.Inputs()) != 0 {
		t.Fatalf("expected 0 inputs, got %d", len(instr.Inputs()))
	}
	if got := instr.Outputs(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected outputs [0], got %v", got)
	}
	if got := instr.InnerOutputs(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected inner outputs [1 2], got %v", got)
	}
	if got := instr.AllOutputs(); len(got) != 3 {
		t.Fatalf("expected AllOutputs to combine outputs and inner outputs, got %v", got)
	}
}

func TestCodeAppendPanicsOnNonDenseOutput(t *testing.T) {
	c := NewCode()
	c.Append(NewInstruction(NewLoadInteger(1), []Variable{0}))

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic for a non-dense output number")
		}
		v, ok := r.(*InvariantViolation)
		if !ok {
			t.Fatalf("expected an *InvariantViolation panic, got %T", r)
		}
		if v.Reason != "outputs are not dense/monotonic" {
			t.Fatalf("unexpected reason: %q", v.Reason)
		}
	}()
	// Should be 1, not 5: skips variable numbers.
	c.Append(NewInstruction(NewLoadInteger(2), []Variable{5}))
}

func TestCodeAppendPanicsOnOutOfScopeInput(t *testing.T) {
	c := NewCode()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic for an out-of-scope input")
		}
		v, ok := r.(*InvariantViolation)
		if !ok {
			t.Fatalf("expected an *InvariantViolation panic, got %T", r)
		}
		if v.Reason != "input variable not in scope" {
			t.Fatalf("unexpected reason: %q", v.Reason)
		}
	}()
	// Variable 0 was never defined.
	c.Append(NewInstruction(NewReassign(), []Variable{0, 0}))
}

func TestCodeAppendPanicsOnUnsatisfiedRequiredContext(t *testing.T) {
	c := NewCode()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic for a loop-only op emitted at module scope")
		}
		v, ok := r.(*InvariantViolation)
		if !ok {
			t.Fatalf("expected an *InvariantViolation panic, got %T", r)
		}
		if v.Reason != "required context is not a subset of the active context" {
			t.Fatalf("unexpected reason: %q", v.Reason)
		}
	}()
	// LoopContinue requires ContextInsideLoop; module scope never opens it.
	c.Append(NewInstruction(NewLoopContinue(), nil))
}

func TestCodeAppendAllowsSimpleOpAtModuleScope(t *testing.T) {
	c := NewCode()
	// Module scope must already satisfy ContextJavaScript so an ordinary
	// simple op succeeds without opening any block first.
	c.Append(NewInstruction(NewLoadInteger(42), []Variable{0}))
	if c.NumVariables() != 1 {
		t.Fatalf("expected 1 variable after a single LoadInteger, got %d", c.NumVariables())
	}
}

func TestCodeAppendPanicsOnUnbalancedBlockEnd(t *testing.T) {
	c := NewCode()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic for a dangling block-end")
		}
		v, ok := r.(*InvariantViolation)
		if !ok {
			t.Fatalf("expected an *InvariantViolation panic, got %T", r)
		}
		if v.Reason != "block-end with no matching block-begin" {
			t.Fatalf("unexpected reason: %q", v.Reason)
		}
	}()
	c.Append(NewInstruction(NewEndIf(), nil))
}

func TestCodeAppendBalancedIfElseTracksScopeAndVariableCount(t *testing.T) {
	c := NewCode()
	cond := c.Append(NewInstruction(NewLoadInteger(1), []Variable{0}))
	_ = cond
	if c.OpenBlockDepth() != 0 {
		t.Fatalf("expected depth 0 before any block opens")
	}

	c.Append(NewInstruction(NewBeginIf(), []Variable{0}))
	if c.OpenBlockDepth() != 1 {
		t.Fatalf("expected depth 1 after BeginIf, got %d", c.OpenBlockDepth())
	}

	c.Append(NewInstruction(NewBeginElse(), nil))
	if c.OpenBlockDepth() != 1 {
		t.Fatalf("expected depth to stay 1 across BeginElse (close then reopen), got %d", c.OpenBlockDepth())
	}

	c.Append(NewInstruction(NewEndIf(), nil))
	if c.OpenBlockDepth() != 0 {
		t.Fatalf("expected depth 0 after EndIf, got %d", c.OpenBlockDepth())
	}
	if c.NumVariables() != 1 {
		t.Fatalf("expected NumVariables to stay at 1, got %d", c.NumVariables())
	}
}

func TestCodeRemoveAllResetsScopeAndVariables(t *testing.T) {
	c := NewCode()
	c.Append(NewInstruction(NewLoadInteger(1), []Variable{0}))
	c.Append(NewInstruction(NewBeginIf(), []Variable{0}))

	c.RemoveAll()

	if c.Len() != 0 {
		t.Fatalf("expected Len 0 after RemoveAll, got %d", c.Len())
	}
	if c.NumVariables() != 0 {
		t.Fatalf("expected NumVariables 0 after RemoveAll, got %d", c.NumVariables())
	}
	if c.OpenBlockDepth() != 0 {
		t.Fatalf("expected OpenBlockDepth 0 after RemoveAll, got %d", c.OpenBlockDepth())
	}
	// A fresh append should be accepted as variable 0 again.
	c.Append(NewInstruction(NewLoadInteger(2), []Variable{0}))
}

func TestVariableSetNilAndEmptyAreEqualAndBehaveIdentically(t *testing.T) {
	var nilSet VariableSet
	empty := NewVariableSet(0)

	if !nilSet.Equal(empty) {
		t.Fatalf("expected a nil VariableSet to equal a freshly-constructed empty one")
	}
	if !nilSet.IsEmpty() || !empty.IsEmpty() {
		t.Fatalf("expected both to report empty")
	}
	if nilSet.Len() != 0 || empty.Len() != 0 {
		t.Fatalf("expected both to report length 0")
	}
	if nilSet.Contains(0) {
		t.Fatalf("a nil set must not contain anything")
	}
	if !nilSet.IsSubsetOf(empty) {
		t.Fatalf("a nil set is trivially a subset of anything")
	}
	if !nilSet.Disjoint(empty) {
		t.Fatalf("two empty sets must be disjoint")
	}
}

func TestVariableSetInsertRemoveContains(t *testing.T) {
	var s VariableSet
	s.Insert(3)
	s.Insert(7)

	if !s.Contains(3) || !s.Contains(7) {
		t.Fatalf("expected both inserted variables to be members")
	}
	if s.Contains(4) {
		t.Fatalf("variable 4 was never inserted")
	}
	if s.Len() != 2 {
		t.Fatalf("expected length 2, got %d", s.Len())
	}

	s.Remove(3)
	if s.Contains(3) {
		t.Fatalf("expected variable 3 to be gone after Remove")
	}
	if s.Len() != 1 {
		t.Fatalf("expected length 1 after removal, got %d", s.Len())
	}
}

func TestVariableSetUnionIntersectionSubtract(t *testing.T) {
	a := VarSetOf(1, 2, 3)
	b := VarSetOf(2, 3, 4)

	union := a.Union(b)
	for _, v := range []Variable{1, 2, 3, 4} {
		if !union.Contains(v) {
			t.Fatalf("expected union to contain %v", v)
		}
	}

	inter := a.Intersection(b)
	if inter.Len() != 2 || !inter.Contains(2) || !inter.Contains(3) {
		t.Fatalf("expected intersection {2, 3}, got %v", inter.Variables())
	}

	diff := a.Subtract(b)
	if diff.Len() != 1 || !diff.Contains(1) {
		t.Fatalf("expected difference {1}, got %v", diff.Variables())
	}
}

func TestProgramLineageOrdersOldestFirst(t *testing.T) {
	root := Finalize(NewCode(), nil, []string{"seed"})
	child := Finalize(NewCode(), root, []string{"mutate"})
	grandchild := Finalize(NewCode(), child, []string{"splice"})

	lineage := grandchild.Lineage()
	if len(lineage) != 3 {
		t.Fatalf("expected 3 generations, got %d", len(lineage))
	}
	if lineage[0] != root || lineage[1] != child || lineage[2] != grandchild {
		t.Fatalf("expected lineage ordered oldest to newest")
	}
}

func TestContextContainsAndHas(t *testing.T) {
	ctx := ContextJavaScript.With(ContextInsideLoop)
	if !ctx.Contains(ContextJavaScript) {
		t.Fatalf("expected ctx to still contain ContextJavaScript")
	}
	if !ctx.Contains(ContextInsideLoop) {
		t.Fatalf("expected ctx to contain ContextInsideLoop after With")
	}
	if ctx.Contains(ContextInsideFunction) {
		t.Fatalf("did not expect ctx to contain a bit that was never set")
	}
	if !ctx.Has(ContextInsideLoop | ContextInsideFunction) {
		t.Fatalf("expected Has to report true when any bit matches")
	}
}
