package analysis

import (
	"testing"

	"github.com/edgecover/fuzzer/ir"
)

func TestScopeAnalyzerVisibleVariablesAtModuleScope(t *testing.T) {
	a := NewScopeAnalyzer()
	a.ObserveInstruction(ir.NewInstruction(ir.NewLoadInteger(1), []ir.Variable{0}))
	a.ObserveInstruction(ir.NewInstruction(ir.NewLoadInteger(2), []ir.Variable{1}))

	visible := a.VisibleVariables()
	if !visible.Contains(0) || !visible.Contains(1) {
		t.Fatalf("expected both module-scope variables visible, got %v", visible.Variables())
	}
	if a.Depth() != 0 {
		t.Fatalf("expected depth 0 at module scope, got %d", a.Depth())
	}
}

// A variable defined inside a block must stop being visible once that
// block's matching end instruction is observed, while variables defined
// outside the block remain visible.
func TestScopeAnalyzerEvictsVariablesWhenBlockCloses(t *testing.T) {
	a := NewScopeAnalyzer()
	a.ObserveInstruction(ir.NewInstruction(ir.NewLoadInteger(1), []ir.Variable{0}))
	a.ObserveInstruction(ir.NewInstruction(ir.NewBeginIf(), []ir.Variable{0}))
	if a.Depth() != 1 {
		t.Fatalf("expected depth 1 after BeginIf, got %d", a.Depth())
	}

	a.ObserveInstruction(ir.NewInstruction(ir.NewLoadInteger(2), []ir.Variable{1}))
	inBlock := a.VisibleVariables()
	if !inBlock.Contains(0) || !inBlock.Contains(1) {
		t.Fatalf("expected both variables visible inside the block, got %v", inBlock.Variables())
	}

	a.ObserveInstruction(ir.NewInstruction(ir.NewEndIf(), nil))
	if a.Depth() != 0 {
		t.Fatalf("expected depth 0 after EndIf, got %d", a.Depth())
	}
	afterClose := a.VisibleVariables()
	if !afterClose.Contains(0) {
		t.Fatalf("expected the outer variable to remain visible after the block closed")
	}
	if afterClose.Contains(1) {
		t.Fatalf("expected the block-local variable to be evicted once the block closed")
	}
}

func TestScopeAnalyzerCurrentScopeVariablesOnlyOwnsInnermostFrame(t *testing.T) {
	a := NewScopeAnalyzer()
	a.ObserveInstruction(ir.NewInstruction(ir.NewLoadInteger(1), []ir.Variable{0}))
	a.ObserveInstruction(ir.NewInstruction(ir.NewBeginIf(), []ir.Variable{0}))
	a.ObserveInstruction(ir.NewInstruction(ir.NewLoadInteger(2), []ir.Variable{1}))

	current := a.CurrentScopeVariables()
	if len(current) != 1 || current[0] != 1 {
		t.Fatalf("expected the innermost scope to own only variable 1, got %v", current)
	}

	scopes := a.Scopes()
	if len(scopes) != 2 {
		t.Fatalf("expected 2 open scope frames, got %d", len(scopes))
	}
	if len(scopes[0]) != 1 || scopes[0][0] != 0 {
		t.Fatalf("expected the outer frame to own variable 0, got %v", scopes[0])
	}
}

func TestContextAnalyzerStartsAtJavaScriptOnlyContext(t *testing.T) {
	a := NewContextAnalyzer()
	if !a.Current().Contains(ir.ContextJavaScript) {
		t.Fatalf("expected module scope to already satisfy ContextJavaScript")
	}
	if a.Current().Contains(ir.ContextInsideLoop) {
		t.Fatalf("did not expect ContextInsideLoop before any loop opened")
	}
	if a.Depth() != 0 {
		t.Fatalf("expected depth 0 at module scope, got %d", a.Depth())
	}
}

func TestContextAnalyzerTracksLoopContextAcrossBeginEnd(t *testing.T) {
	a := NewContextAnalyzer()
	a.ObserveInstruction(ir.NewInstruction(ir.NewBeginWhileLoop(ir.CompareLessThan), []ir.Variable{0, 1}))
	if !a.Current().Contains(ir.ContextInsideLoop) {
		t.Fatalf("expected ContextInsideLoop active inside the loop body")
	}
	if a.Depth() != 1 {
		t.Fatalf("expected depth 1 inside the loop, got %d", a.Depth())
	}

	a.ObserveInstruction(ir.NewInstruction(ir.NewEndWhileLoop(), nil))
	if a.Current().Contains(ir.ContextInsideLoop) {
		t.Fatalf("expected ContextInsideLoop to drop once the loop closed")
	}
	if a.Depth() != 0 {
		t.Fatalf("expected depth 0 after EndWhileLoop, got %d", a.Depth())
	}
}

func TestTypeAnalyzerInfersLiteralTypes(t *testing.T) {
	a := NewTypeAnalyzer(NewPropertyTypes())
	a.ObserveInstruction(ir.NewInstruction(ir.NewLoadInteger(1), []ir.Variable{0}))
	a.ObserveInstruction(ir.NewInstruction(ir.NewLoadString("x"), []ir.Variable{1}))
	a.ObserveInstruction(ir.NewInstruction(ir.NewLoadBoolean(true), []ir.Variable{2}))

	if !a.TypeOf(0).Is(Integer) {
		t.Fatalf("expected variable 0 to be inferred Integer, got %v", a.TypeOf(0).Kind)
	}
	if !a.TypeOf(1).Is(String) {
		t.Fatalf("expected variable 1 to be inferred String, got %v", a.TypeOf(1).Kind)
	}
	if !a.TypeOf(2).Is(Boolean) {
		t.Fatalf("expected variable 2 to be inferred Boolean, got %v", a.TypeOf(2).Kind)
	}
	// A variable never observed defaults to Unknown rather than panicking.
	if !a.TypeOf(99).Is(Unknown) {
		t.Fatalf("expected an unobserved variable to report Unknown")
	}
}

func TestTypeAnalyzerDupCopiesInputType(t *testing.T) {
	a := NewTypeAnalyzer(NewPropertyTypes())
	a.ObserveInstruction(ir.NewInstruction(ir.NewLoadInteger(7), []ir.Variable{0}))
	a.ObserveInstruction(ir.NewInstruction(ir.NewDup(), []ir.Variable{0, 1}))

	if !a.TypeOf(1).Is(Integer) {
		t.Fatalf("expected Dup's output to carry its input's inferred type")
	}
}

func TestTypeIsSubtypeOfHandlesUnknownAnythingAndUnions(t *testing.T) {
	if !Of(Unknown).IsSubtypeOf(Of(String)) {
		t.Fatalf("Unknown must be a valid donor for any host expectation")
	}
	if !Of(Integer).IsSubtypeOf(Of(Anything)) {
		t.Fatalf("any type must be a valid donor where Anything is expected")
	}
	if Of(Integer).IsSubtypeOf(Of(String)) {
		t.Fatalf("Integer must not be a subtype of String")
	}

	union := NewUnion(Of(Integer), Of(Float))
	if !Of(Integer).IsSubtypeOf(union) {
		t.Fatalf("Integer must be a subtype of a union containing Integer")
	}
	if Of(String).IsSubtypeOf(union) {
		t.Fatalf("String must not be a subtype of a union lacking it")
	}
}

func TestTypeIsSubtypeOfObjectRequiresEveryHostProperty(t *testing.T) {
	donor := NewObject(map[string]Type{"length": Of(Integer), "name": Of(String)}, nil)
	wantJustLength := NewObject(map[string]Type{"length": Of(Integer)}, nil)
	wantMissing := NewObject(map[string]Type{"missing": Of(Integer)}, nil)

	if !donor.IsSubtypeOf(wantJustLength) {
		t.Fatalf("expected donor with a superset of properties to satisfy the narrower host shape")
	}
	if donor.IsSubtypeOf(wantMissing) {
		t.Fatalf("expected donor lacking a required property to fail the subtype check")
	}
}

func TestPropertyTypesSetTypeOfPropertyUnionsOnConflict(t *testing.T) {
	p := NewPropertyTypes()
	p.SetTypeOfProperty("value", Of(Integer))
	if !p.TypeOfProperty("value").Is(Integer) {
		t.Fatalf("expected the first observation to set the type directly")
	}

	p.SetTypeOfProperty("value", Of(String))
	got := p.TypeOfProperty("value")
	if !got.Is(Integer) || !got.Is(String) {
		t.Fatalf("expected a conflicting second observation to union with the first, got %v", got)
	}
	if p.TypeOfProperty("never-seen").Kind != Unknown {
		t.Fatalf("expected an unseen property to default to Unknown")
	}
}

func TestPropertyTypesMethodSignatureReceiverOverridesTable(t *testing.T) {
	p := NewPropertyTypes()
	tableWide := ir.Signature{Parameters: []ir.ParamKind{ir.ParamPlain}}
	p.SetMethodSignature("run", tableWide)

	receiverSpecific := ir.Signature{Parameters: []ir.ParamKind{ir.ParamPlain, ir.ParamPlain}}
	receiver := NewObject(nil, map[string]ir.Signature{"run": receiverSpecific})

	sig, ok := p.MethodSignature("run", receiver)
	if !ok || len(sig.Parameters) != 2 {
		t.Fatalf("expected the receiver's own method table to win over the fuzzer-wide one, got %+v, ok=%v", sig, ok)
	}

	plain := Of(Integer)
	sig, ok = p.MethodSignature("run", plain)
	if !ok || len(sig.Parameters) != 1 {
		t.Fatalf("expected a non-object receiver to fall back to the fuzzer-wide table, got %+v, ok=%v", sig, ok)
	}
}
