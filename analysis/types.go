package analysis

import "github.com/edgecover/fuzzer/ir"

// Kind is the light type lattice the builder uses as a hint, never a
// guarantee: mutators must tolerate the inference being imprecise.
type Kind uint8

const (
	Unknown Kind = iota
	Anything
	Undefined
	Null
	Boolean
	Integer
	Float
	String
	RegExp
	Object
	Function
	Union
)

// Type is one lattice element. Object carries property/method shape;
// Union carries its alternatives.
type Type struct {
	Kind       Kind
	Properties map[string]Type
	Methods    map[string]ir.Signature
	Members    []Type
}

func Of(kind Kind) Type { return Type{Kind: kind} }

func NewObject(properties map[string]Type, methods map[string]ir.Signature) Type {
	return Type{Kind: Object, Properties: properties, Methods: methods}
}

func NewUnion(members ...Type) Type {
	if len(members) == 1 {
		return members[0]
	}
	return Type{Kind: Union, Members: members}
}

// Is reports whether t could be kind — true for an exact match, for a
// union containing kind, or for Anything (which is compatible with every
// query, by design: "maximize match rate").
func (t Type) Is(kind Kind) bool {
	switch t.Kind {
	case kind:
		return true
	case Anything:
		return true
	case Union:
		for _, m := range t.Members {
			if m.Is(kind) {
				return true
			}
		}
	}
	return false
}

// IsSubtypeOf implements the splicer's remap-compatibility test: the donor
// inferred type must be a subtype of the host inferred type, with unknown
// treated as anything — i.e. Unknown is bottom for this relation (always a
// valid donor) while Anything is top (always a valid host expectation).
func (t Type) IsSubtypeOf(other Type) bool {
	if other.Kind == Anything || t.Kind == Unknown {
		return true
	}
	if t.Kind == Union {
		for _, m := range t.Members {
			if !m.IsSubtypeOf(other) {
				return false
			}
		}
		return true
	}
	if other.Kind == Union {
		for _, m := range other.Members {
			if t.IsSubtypeOf(m) {
				return true
			}
		}
		return false
	}
	if t.Kind != other.Kind {
		return false
	}
	if t.Kind != Object {
		return true
	}
	for name, wantType := range other.Properties {
		have, ok := t.Properties[name]
		if !ok || !have.IsSubtypeOf(wantType) {
			return false
		}
	}
	return true
}

// PropertyTypes is the fuzzer-wide table the spec's type_of_property and
// method_signature contracts read from; it is updated by mutators that
// observe concrete property/method names (e.g. from the surface-language
// corpus) and is shared across every TypeAnalyzer in one Fuzzer.
type PropertyTypes struct {
	properties map[string]Type
	methods    map[string]ir.Signature
}

func NewPropertyTypes() *PropertyTypes {
	return &PropertyTypes{properties: map[string]Type{}, methods: map[string]ir.Signature{}}
}

func (p *PropertyTypes) TypeOfProperty(name string) Type {
	if t, ok := p.properties[name]; ok {
		return t
	}
	return Of(Unknown)
}

func (p *PropertyTypes) SetTypeOfProperty(name string, t Type) {
	if existing, ok := p.properties[name]; ok {
		p.properties[name] = NewUnion(existing, t)
		return
	}
	p.properties[name] = t
}

// MethodSignature resolves a method name on a receiver type: an
// object-typed receiver's own Methods table wins, falling back to the
// fuzzer-wide table so methods learned on one object generalize to others
// observed to share a method of the same name.
func (p *PropertyTypes) MethodSignature(name string, receiver Type) (ir.Signature, bool) {
	if receiver.Kind == Object {
		if sig, ok := receiver.Methods[name]; ok {
			return sig, true
		}
	}
	sig, ok := p.methods[name]
	return sig, ok
}

func (p *PropertyTypes) SetMethodSignature(name string, sig ir.Signature) {
	p.methods[name] = sig
}

// TypeAnalyzer performs a light abstract interpretation over a single
// Code's instructions, one instruction at a time, to keep type_of cheap
// without a full fixpoint pass.
type TypeAnalyzer struct {
	vars  map[ir.Variable]Type
	table *PropertyTypes
}

// NewTypeAnalyzer returns an analyzer backed by the given fuzzer-wide
// property/method table (pass analysis.NewPropertyTypes() if the caller
// does not already have one to share).
func NewTypeAnalyzer(table *PropertyTypes) *TypeAnalyzer {
	return &TypeAnalyzer{vars: map[ir.Variable]Type{}, table: table}
}

// PropertyTable returns the fuzzer-wide table this analyzer reads from, so
// a fresh TypeAnalyzer for a new build can keep sharing it.
func (a *TypeAnalyzer) PropertyTable() *PropertyTypes { return a.table }

func (a *TypeAnalyzer) TypeOf(v ir.Variable) Type {
	if t, ok := a.vars[v]; ok {
		return t
	}
	return Of(Unknown)
}

func (a *TypeAnalyzer) TypeOfProperty(name string) Type { return a.table.TypeOfProperty(name) }

func (a *TypeAnalyzer) MethodSignature(name string, receiver Type) (ir.Signature, bool) {
	return a.table.MethodSignature(name, receiver)
}

func (a *TypeAnalyzer) set(v ir.Variable, t Type) { a.vars[v] = t }

// ObserveInstruction infers types for every output of instr from the
// operation kind and, where useful, the already-inferred types of its
// inputs. Unrecognized combinations default to Unknown rather than
// guessing — precision is sacrificed freely, soundness is not a goal of
// this analyzer at all (the builder only ever uses it as a hint).
func (a *TypeAnalyzer) ObserveInstruction(instr ir.Instruction) {
	op := instr.Op()
	outs := instr.Outputs()

	switch o := op.(type) {
	case ir.LoadInteger:
		a.set(outs[0], Of(Integer))
	case ir.LoadFloat:
		a.set(outs[0], Of(Float))
	case ir.LoadString:
		a.set(outs[0], Of(String))
	case ir.LoadBoolean:
		a.set(outs[0], Of(Boolean))
	case ir.LoadUndefined:
		a.set(outs[0], Of(Undefined))
	case ir.LoadNull:
		a.set(outs[0], Of(Null))
	case ir.LoadRegExp:
		a.set(outs[0], Of(RegExp))
	case ir.LoadBuiltin:
		a.set(outs[0], Of(Unknown))
	case ir.CreateArray, ir.CreateArrayWithSpread:
		a.set(outs[0], NewObject(map[string]Type{"length": Of(Integer)}, nil))
	case ir.CreateObject:
		props := map[string]Type{}
		for _, name := range o.PropertyNames {
			props[name] = Of(Unknown)
		}
		a.set(outs[0], NewObject(props, nil))
	case ir.LoadProperty:
		a.set(outs[0], a.TypeOfProperty(o.Name))
	case ir.LoadElement, ir.LoadComputedProperty:
		a.set(outs[0], Of(Unknown))
	case ir.DeleteProperty:
		a.set(outs[0], Of(Boolean))
	case ir.UnaryOp:
		switch o.Op {
		case ir.UnaryNot:
			a.set(outs[0], Of(Boolean))
		case ir.UnaryTypeOf:
			a.set(outs[0], Of(String))
		default:
			a.set(outs[0], NewUnion(Of(Integer), Of(Float)))
		}
	case ir.BinaryOp:
		if o.Op == ir.BinaryAdd {
			a.set(outs[0], NewUnion(Of(Integer), Of(Float), Of(String)))
		} else {
			a.set(outs[0], NewUnion(Of(Integer), Of(Float)))
		}
	case ir.CompareOp, ir.LogicalOp:
		a.set(outs[0], Of(Boolean))
	case ir.Dup:
		a.set(outs[0], a.TypeOf(instr.Inputs()[0]))
	case ir.CallFunction, ir.CallMethod, ir.ConstructObject, ir.CallFunctionWithSpread:
		a.set(outs[0], Of(Unknown))
	case ir.BeginPlainFunction, ir.BeginArrowFunction, ir.BeginGeneratorFunction, ir.BeginAsyncFunction:
		a.set(outs[0], Of(Function))
		for _, v := range instr.InnerOutputs() {
			a.set(v, Of(Unknown))
		}
	case ir.Yield:
		if len(outs) > 0 {
			a.set(outs[0], Of(Unknown))
		}
	case ir.Await:
		a.set(outs[0], Of(Unknown))
	case ir.BeginForInLoop:
		a.set(instr.InnerOutputs()[0], Of(String))
	case ir.BeginForOfLoop:
		a.set(instr.InnerOutputs()[0], Of(Unknown))
	case ir.BeginForLoop:
		a.set(instr.InnerOutputs()[0], Of(Integer))
	case ir.BeginCatch:
		a.set(instr.InnerOutputs()[0], Of(Unknown))
	case ir.BeginClassDefinition:
		a.set(outs[0], Of(Function))
	case ir.DefineVariable:
		a.set(outs[0], a.TypeOf(instr.Inputs()[0]))
	default:
		for _, v := range outs {
			a.set(v, Of(Unknown))
		}
	}
}
