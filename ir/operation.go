package ir

// Attr is a bitset of per-operation attributes: is_block_begin,
// is_block_end, is_internal, is_call, may_reassign, is_simple.
type Attr uint8

const (
	AttrBlockBegin Attr = 1 << iota
	AttrBlockEnd
	AttrInternal
	AttrIsCall
	AttrMayReassign
	AttrIsSimple
)

func (a Attr) Has(bits Attr) bool { return a&bits != 0 }

// Kind tags every member of the closed operation variant set. New
// operations require a new Kind and a new concrete type below; nothing in
// this package dispatches on anything but Kind or an exhaustive type
// switch, so the set is closed by construction.
type Kind uint16

const (
	KindLoadInteger Kind = iota
	KindLoadFloat
	KindLoadString
	KindLoadBoolean
	KindLoadUndefined
	KindLoadNull
	KindLoadRegExp
	KindLoadBuiltin
	KindCreateArray
	KindCreateArrayWithSpread
	KindCreateObject
	KindLoadProperty
	KindStoreProperty
	KindDeleteProperty
	KindLoadElement
	KindStoreElement
	KindLoadComputedProperty
	KindStoreComputedProperty
	KindUnaryOp
	KindBinaryOp
	KindCompareOp
	KindLogicalOp
	KindDup
	KindReassign
	KindCallFunction
	KindCallMethod
	KindConstructObject
	KindCallFunctionWithSpread
	KindBeginPlainFunction
	KindEndPlainFunction
	KindBeginArrowFunction
	KindEndArrowFunction
	KindBeginGeneratorFunction
	KindEndGeneratorFunction
	KindBeginAsyncFunction
	KindEndAsyncFunction
	KindReturn
	KindYield
	KindAwait
	KindBeginIf
	KindBeginElse
	KindEndIf
	KindBeginWhileLoop
	KindEndWhileLoop
	KindBeginDoWhileLoop
	KindEndDoWhileLoop
	KindBeginForLoop
	KindEndForLoop
	KindBeginForInLoop
	KindEndForInLoop
	KindBeginForOfLoop
	KindEndForOfLoop
	KindLoopBreak
	KindLoopContinue
	KindBeginTry
	KindBeginCatch
	KindBeginFinally
	KindEndTryCatchFinally
	KindBeginSwitch
	KindBeginSwitchCase
	KindEndSwitchCase
	KindEndSwitch
	KindBeginObjectLiteral
	KindObjectLiteralProperty
	KindObjectLiteralMethod
	KindEndObjectLiteral
	KindBeginClassDefinition
	KindClassField
	KindClassMethod
	KindEndClassDefinition
	KindDefineVariable
	KindNop
)

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "<unknown op>"
}

var kindNames = map[Kind]string{
	KindLoadInteger:            "LoadInteger",
	KindLoadFloat:              "LoadFloat",
	KindLoadString:             "LoadString",
	KindLoadBoolean:            "LoadBoolean",
	KindLoadUndefined:          "LoadUndefined",
	KindLoadNull:               "LoadNull",
	KindLoadRegExp:             "LoadRegExp",
	KindLoadBuiltin:            "LoadBuiltin",
	KindCreateArray:            "CreateArray",
	KindCreateArrayWithSpread:  "CreateArrayWithSpread",
	KindCreateObject:           "CreateObject",
	KindLoadProperty:           "LoadProperty",
	KindStoreProperty:          "StoreProperty",
	KindDeleteProperty:         "DeleteProperty",
	KindLoadElement:            "LoadElement",
	KindStoreElement:           "StoreElement",
	KindLoadComputedProperty:   "LoadComputedProperty",
	KindStoreComputedProperty:  "StoreComputedProperty",
	KindUnaryOp:                "UnaryOp",
	KindBinaryOp:               "BinaryOp",
	KindCompareOp:              "CompareOp",
	KindLogicalOp:              "LogicalOp",
	KindDup:                    "Dup",
	KindReassign:               "Reassign",
	KindCallFunction:           "CallFunction",
	KindCallMethod:             "CallMethod",
	KindConstructObject:        "ConstructObject",
	KindCallFunctionWithSpread: "CallFunctionWithSpread",
	KindBeginPlainFunction:     "BeginPlainFunction",
	KindEndPlainFunction:       "EndPlainFunction",
	KindBeginArrowFunction:     "BeginArrowFunction",
	KindEndArrowFunction:       "EndArrowFunction",
	KindBeginGeneratorFunction: "BeginGeneratorFunction",
	KindEndGeneratorFunction:   "EndGeneratorFunction",
	KindBeginAsyncFunction:     "BeginAsyncFunction",
	KindEndAsyncFunction:       "EndAsyncFunction",
	KindReturn:                 "Return",
	KindYield:                  "Yield",
	KindAwait:                  "Await",
	KindBeginIf:                "BeginIf",
	KindBeginElse:              "BeginElse",
	KindEndIf:                  "EndIf",
	KindBeginWhileLoop:         "BeginWhileLoop",
	KindEndWhileLoop:           "EndWhileLoop",
	KindBeginDoWhileLoop:       "BeginDoWhileLoop",
	KindEndDoWhileLoop:         "EndDoWhileLoop",
	KindBeginForLoop:           "BeginForLoop",
	KindEndForLoop:             "EndForLoop",
	KindBeginForInLoop:         "BeginForInLoop",
	KindEndForInLoop:           "EndForInLoop",
	KindBeginForOfLoop:         "BeginForOfLoop",
	KindEndForOfLoop:           "EndForOfLoop",
	KindLoopBreak:              "LoopBreak",
	KindLoopContinue:           "LoopContinue",
	KindBeginTry:               "BeginTry",
	KindBeginCatch:             "BeginCatch",
	KindBeginFinally:           "BeginFinally",
	KindEndTryCatchFinally:     "EndTryCatchFinally",
	KindBeginSwitch:            "BeginSwitch",
	KindBeginSwitchCase:        "BeginSwitchCase",
	KindEndSwitchCase:          "EndSwitchCase",
	KindEndSwitch:              "EndSwitch",
	KindBeginObjectLiteral:     "BeginObjectLiteral",
	KindObjectLiteralProperty:  "ObjectLiteralProperty",
	KindObjectLiteralMethod:    "ObjectLiteralMethod",
	KindEndObjectLiteral:       "EndObjectLiteral",
	KindBeginClassDefinition:   "BeginClassDefinition",
	KindClassField:             "ClassField",
	KindClassMethod:            "ClassMethod",
	KindEndClassDefinition:     "EndClassDefinition",
	KindDefineVariable:         "DefineVariable",
	KindNop:                    "Nop",
}

// Operation is the interface every member of the closed variant set
// implements. Arity can depend on the concrete instance (e.g., a call's
// argument count), so it is queried per-value rather than per-Kind.
type Operation interface {
	Kind() Kind
	NumInputs() int
	NumOutputs() int
	NumInnerOutputs() int
	RequiredContext() Context
	OpenedContext() Context
	Attrs() Attr
}

// fixed is embedded by operations whose arity never varies, saving every
// such type from repeating four trivial methods.
type fixed struct {
	kind                            Kind
	inputs, outputs, innerOutputs   int
	required, opened                Context
	attrs                           Attr
}

func (f fixed) Kind() Kind               { return f.kind }
func (f fixed) NumInputs() int           { return f.inputs }
func (f fixed) NumOutputs() int          { return f.outputs }
func (f fixed) NumInnerOutputs() int     { return f.innerOutputs }
func (f fixed) RequiredContext() Context { return f.required }
func (f fixed) OpenedContext() Context   { return f.opened }
func (f fixed) Attrs() Attr              { return f.attrs }

func simple(kind Kind, inputs, outputs int) fixed {
	return fixed{kind: kind, inputs: inputs, outputs: outputs, required: ContextJavaScript, attrs: AttrIsSimple}
}

// --- Literal loads -----------------------------------------------------

type LoadInteger struct {
	fixed
	Value int64
}

func NewLoadInteger(value int64) LoadInteger {
	return LoadInteger{fixed: simple(KindLoadInteger, 0, 1), Value: value}
}

type LoadFloat struct {
	fixed
	Value float64
}

func NewLoadFloat(value float64) LoadFloat {
	return LoadFloat{fixed: simple(KindLoadFloat, 0, 1), Value: value}
}

type LoadString struct {
	fixed
	Value string
}

func NewLoadString(value string) LoadString {
	return LoadString{fixed: simple(KindLoadString, 0, 1), Value: value}
}

type LoadBoolean struct {
	fixed
	Value bool
}

func NewLoadBoolean(value bool) LoadBoolean {
	return LoadBoolean{fixed: simple(KindLoadBoolean, 0, 1), Value: value}
}

type LoadUndefined struct{ fixed }

func NewLoadUndefined() LoadUndefined {
	return LoadUndefined{simple(KindLoadUndefined, 0, 1)}
}

type LoadNull struct{ fixed }

func NewLoadNull() LoadNull { return LoadNull{simple(KindLoadNull, 0, 1)} }

type LoadRegExp struct {
	fixed
	Pattern, Flags string
}

func NewLoadRegExp(pattern, flags string) LoadRegExp {
	return LoadRegExp{fixed: simple(KindLoadRegExp, 0, 1), Pattern: pattern, Flags: flags}
}

type LoadBuiltin struct {
	fixed
	Name string
}

func NewLoadBuiltin(name string) LoadBuiltin {
	return LoadBuiltin{fixed: simple(KindLoadBuiltin, 0, 1), Name: name}
}

// --- Aggregate construction ---------------------------------------------

// CreateArray takes NumElements inputs and produces one output.
type CreateArray struct {
	fixed
	NumElements int
}

func NewCreateArray(numElements int) CreateArray {
	f := simple(KindCreateArray, numElements, 1)
	f.attrs = 0
	return CreateArray{fixed: f, NumElements: numElements}
}

// CreateArrayWithSpread mirrors CreateArray but records, per input,
// whether it should be spread into the resulting array.
type CreateArrayWithSpread struct {
	fixed
	Spreads []bool
}

func NewCreateArrayWithSpread(spreads []bool) CreateArrayWithSpread {
	f := fixed{kind: KindCreateArrayWithSpread, inputs: len(spreads), outputs: 1, required: ContextJavaScript}
	return CreateArrayWithSpread{fixed: f, Spreads: append([]bool(nil), spreads...)}
}

func (o CreateArrayWithSpread) NumInputs() int { return len(o.Spreads) }

type CreateObject struct {
	fixed
	PropertyNames []string
}

func NewCreateObject(propertyNames []string) CreateObject {
	f := fixed{kind: KindCreateObject, inputs: len(propertyNames), outputs: 1, required: ContextJavaScript}
	return CreateObject{fixed: f, PropertyNames: append([]string(nil), propertyNames...)}
}

func (o CreateObject) NumInputs() int { return len(o.PropertyNames) }

// --- Property / element access ------------------------------------------

type LoadProperty struct {
	fixed
	Name string
}

func NewLoadProperty(name string) LoadProperty {
	return LoadProperty{fixed: simple(KindLoadProperty, 1, 1), Name: name}
}

type StoreProperty struct {
	fixed
	Name string
}

func NewStoreProperty(name string) StoreProperty {
	f := fixed{kind: KindStoreProperty, inputs: 2, required: ContextJavaScript, attrs: AttrMayReassign}
	return StoreProperty{fixed: f, Name: name}
}

type DeleteProperty struct {
	fixed
	Name string
}

func NewDeleteProperty(name string) DeleteProperty {
	f := fixed{kind: KindDeleteProperty, inputs: 1, outputs: 1, required: ContextJavaScript, attrs: AttrMayReassign}
	return DeleteProperty{fixed: f, Name: name}
}

type LoadElement struct{ fixed }

func NewLoadElement() LoadElement {
	return LoadElement{simple(KindLoadElement, 2, 1)}
}

type StoreElement struct{ fixed }

func NewStoreElement() StoreElement {
	return StoreElement{fixed{kind: KindStoreElement, inputs: 3, required: ContextJavaScript, attrs: AttrMayReassign}}
}

type LoadComputedProperty struct{ fixed }

func NewLoadComputedProperty() LoadComputedProperty {
	return LoadComputedProperty{simple(KindLoadComputedProperty, 2, 1)}
}

type StoreComputedProperty struct{ fixed }

func NewStoreComputedProperty() StoreComputedProperty {
	return StoreComputedProperty{fixed{kind: KindStoreComputedProperty, inputs: 3, required: ContextJavaScript, attrs: AttrMayReassign}}
}

// --- Operators -----------------------------------------------------------

type UnaryOperator string

const (
	UnaryNeg    UnaryOperator = "-"
	UnaryNot    UnaryOperator = "!"
	UnaryBitNot UnaryOperator = "~"
	UnaryInc    UnaryOperator = "++"
	UnaryDec    UnaryOperator = "--"
	UnaryTypeOf UnaryOperator = "typeof"
)

type UnaryOp struct {
	fixed
	Op UnaryOperator
}

func NewUnaryOp(op UnaryOperator) UnaryOp {
	f := simple(KindUnaryOp, 1, 1)
	if op == UnaryInc || op == UnaryDec {
		f.attrs |= AttrMayReassign
	}
	return UnaryOp{fixed: f, Op: op}
}

type BinaryOperator string

const (
	BinaryAdd    BinaryOperator = "+"
	BinarySub    BinaryOperator = "-"
	BinaryMul    BinaryOperator = "*"
	BinaryDiv    BinaryOperator = "/"
	BinaryMod    BinaryOperator = "%"
	BinaryExp    BinaryOperator = "**"
	BinaryAnd    BinaryOperator = "&"
	BinaryOr     BinaryOperator = "|"
	BinaryXor    BinaryOperator = "^"
	BinaryLShift BinaryOperator = "<<"
	BinaryRShift BinaryOperator = ">>"
)

type BinaryOp struct {
	fixed
	Op BinaryOperator
}

func NewBinaryOp(op BinaryOperator) BinaryOp {
	return BinaryOp{fixed: simple(KindBinaryOp, 2, 1), Op: op}
}

type CompareOperator string

const (
	CompareEqual        CompareOperator = "=="
	CompareStrictEqual  CompareOperator = "==="
	CompareNotEqual     CompareOperator = "!="
	CompareLessThan     CompareOperator = "<"
	CompareLessEqual    CompareOperator = "<="
	CompareGreaterThan  CompareOperator = ">"
	CompareGreaterEqual CompareOperator = ">="
)

type CompareOp struct {
	fixed
	Op CompareOperator
}

func NewCompareOp(op CompareOperator) CompareOp {
	return CompareOp{fixed: simple(KindCompareOp, 2, 1), Op: op}
}

type LogicalOperator string

const (
	LogicalAnd        LogicalOperator = "&&"
	LogicalOr         LogicalOperator = "||"
	LogicalNullCoales LogicalOperator = "??"
)

type LogicalOp struct {
	fixed
	Op LogicalOperator
}

func NewLogicalOp(op LogicalOperator) LogicalOp {
	return LogicalOp{fixed: simple(KindLogicalOp, 2, 1), Op: op}
}

// Dup duplicates a variable's value under a fresh name; used by mutators
// that need two independent handles to the same runtime value.
type Dup struct{ fixed }

func NewDup() Dup { return Dup{simple(KindDup, 1, 1)} }

// Reassign overwrites an existing visible variable's value in place: two
// inputs (the target variable being reassigned, then the new value), zero
// outputs. The target keeps its identity; only the value bound to it
// changes, by convention in package builder.
type Reassign struct{ fixed }

func NewReassign() Reassign {
	return Reassign{fixed{kind: KindReassign, inputs: 2, required: ContextJavaScript, attrs: AttrMayReassign}}
}

// --- Calls -----------------------------------------------------------------

type CallFunction struct {
	fixed
	NumArguments int
}

func NewCallFunction(numArguments int) CallFunction {
	f := fixed{kind: KindCallFunction, outputs: 1, required: ContextJavaScript, attrs: AttrIsCall}
	return CallFunction{fixed: f, NumArguments: numArguments}
}

func (o CallFunction) NumInputs() int { return 1 + o.NumArguments }

type CallMethod struct {
	fixed
	MethodName   string
	NumArguments int
}

func NewCallMethod(name string, numArguments int) CallMethod {
	f := fixed{kind: KindCallMethod, outputs: 1, required: ContextJavaScript, attrs: AttrIsCall}
	return CallMethod{fixed: f, MethodName: name, NumArguments: numArguments}
}

func (o CallMethod) NumInputs() int { return 1 + o.NumArguments }

type ConstructObject struct {
	fixed
	NumArguments int
}

func NewConstructObject(numArguments int) ConstructObject {
	f := fixed{kind: KindConstructObject, outputs: 1, required: ContextJavaScript, attrs: AttrIsCall}
	return ConstructObject{fixed: f, NumArguments: numArguments}
}

func (o ConstructObject) NumInputs() int { return 1 + o.NumArguments }

// CallFunctionWithSpread mirrors CallFunction, marking which arguments
// should be spread.
type CallFunctionWithSpread struct {
	fixed
	Spreads []bool
}

func NewCallFunctionWithSpread(spreads []bool) CallFunctionWithSpread {
	f := fixed{kind: KindCallFunctionWithSpread, outputs: 1, required: ContextJavaScript, attrs: AttrIsCall}
	return CallFunctionWithSpread{fixed: f, Spreads: append([]bool(nil), spreads...)}
}

func (o CallFunctionWithSpread) NumInputs() int { return 1 + len(o.Spreads) }

// --- Function signature ----------------------------------------------------

// ParamKind distinguishes a plain positional parameter from a rest
// parameter (the only kind that changes arity expectations at call sites).
type ParamKind int

const (
	ParamPlain ParamKind = iota
	ParamRest
)

// Signature describes a function's parameters. A Signature is attached
// only to the instruction that opens a function's or method's body.
// Adoption re-emits that operation unchanged, so the Signature is kept when
// the containing Code is mutated, and the wire format encodes it as its
// list of parameter kinds.
type Signature struct {
	Parameters []ParamKind
}

func (s Signature) NumParameters() int { return len(s.Parameters) }

func plainSignature(n int) Signature {
	ps := make([]ParamKind, n)
	return Signature{Parameters: ps}
}

type BeginPlainFunction struct {
	fixed
	Sig Signature
}

func NewBeginPlainFunction(sig Signature) BeginPlainFunction {
	f := fixed{
		kind:         KindBeginPlainFunction,
		outputs:      1,
		innerOutputs: sig.NumParameters(),
		required:     ContextJavaScript,
		opened:       ContextJavaScript | ContextInsideFunction,
		attrs:        AttrBlockBegin,
	}
	return BeginPlainFunction{fixed: f, Sig: sig}
}

type EndPlainFunction struct{ fixed }

func NewEndPlainFunction() EndPlainFunction {
	return EndPlainFunction{fixed{kind: KindEndPlainFunction, required: ContextInsideFunction, attrs: AttrBlockEnd}}
}

type BeginArrowFunction struct {
	fixed
	Sig Signature
}

func NewBeginArrowFunction(sig Signature) BeginArrowFunction {
	f := fixed{
		kind:         KindBeginArrowFunction,
		outputs:      1,
		innerOutputs: sig.NumParameters(),
		required:     ContextJavaScript,
		opened:       ContextJavaScript | ContextInsideFunction,
		attrs:        AttrBlockBegin,
	}
	return BeginArrowFunction{fixed: f, Sig: sig}
}

type EndArrowFunction struct{ fixed }

func NewEndArrowFunction() EndArrowFunction {
	return EndArrowFunction{fixed{kind: KindEndArrowFunction, required: ContextInsideFunction, attrs: AttrBlockEnd}}
}

type BeginGeneratorFunction struct {
	fixed
	Sig Signature
}

func NewBeginGeneratorFunction(sig Signature) BeginGeneratorFunction {
	f := fixed{
		kind:         KindBeginGeneratorFunction,
		outputs:      1,
		innerOutputs: sig.NumParameters(),
		required:     ContextJavaScript,
		opened:       ContextJavaScript | ContextInsideFunction | ContextInsideGenerator,
		attrs:        AttrBlockBegin,
	}
	return BeginGeneratorFunction{fixed: f, Sig: sig}
}

type EndGeneratorFunction struct{ fixed }

func NewEndGeneratorFunction() EndGeneratorFunction {
	return EndGeneratorFunction{fixed{kind: KindEndGeneratorFunction, required: ContextInsideFunction, attrs: AttrBlockEnd}}
}

type BeginAsyncFunction struct {
	fixed
	Sig Signature
}

func NewBeginAsyncFunction(sig Signature) BeginAsyncFunction {
	f := fixed{
		kind:         KindBeginAsyncFunction,
		outputs:      1,
		innerOutputs: sig.NumParameters(),
		required:     ContextJavaScript,
		opened:       ContextJavaScript | ContextInsideFunction | ContextInsideAsyncFunction,
		attrs:        AttrBlockBegin,
	}
	return BeginAsyncFunction{fixed: f, Sig: sig}
}

type EndAsyncFunction struct{ fixed }

func NewEndAsyncFunction() EndAsyncFunction {
	return EndAsyncFunction{fixed{kind: KindEndAsyncFunction, required: ContextInsideFunction, attrs: AttrBlockEnd}}
}

type Return struct{ fixed }

func NewReturn(hasValue bool) Return {
	in := 0
	if hasValue {
		in = 1
	}
	return Return{fixed{kind: KindReturn, inputs: in, required: ContextInsideFunction}}
}

type Yield struct{ fixed }

func NewYield(hasValue bool) Yield {
	in := 0
	if hasValue {
		in = 1
	}
	return Yield{fixed{kind: KindYield, inputs: in, outputs: 1, required: ContextInsideFunction | ContextInsideGenerator}}
}

type Await struct{ fixed }

func NewAwait() Await {
	return Await{fixed{kind: KindAwait, inputs: 1, outputs: 1, required: ContextInsideFunction | ContextInsideAsyncFunction}}
}

// --- Control flow: if/else --------------------------------------------------

type BeginIf struct{ fixed }

func NewBeginIf() BeginIf {
	return BeginIf{fixed{kind: KindBeginIf, inputs: 1, required: ContextJavaScript, opened: ContextJavaScript, attrs: AttrBlockBegin}}
}

type BeginElse struct{ fixed }

func NewBeginElse() BeginElse {
	return BeginElse{fixed{kind: KindBeginElse, required: ContextJavaScript, opened: ContextJavaScript, attrs: AttrBlockBegin | AttrBlockEnd}}
}

type EndIf struct{ fixed }

func NewEndIf() EndIf {
	return EndIf{fixed{kind: KindEndIf, required: ContextJavaScript, attrs: AttrBlockEnd}}
}

// --- Control flow: loops -----------------------------------------------------

type BeginWhileLoop struct {
	fixed
	Comparator CompareOperator
}

func NewBeginWhileLoop(cmp CompareOperator) BeginWhileLoop {
	f := fixed{kind: KindBeginWhileLoop, inputs: 2, required: ContextJavaScript, opened: ContextJavaScript | ContextInsideLoop, attrs: AttrBlockBegin}
	return BeginWhileLoop{fixed: f, Comparator: cmp}
}

type EndWhileLoop struct{ fixed }

func NewEndWhileLoop() EndWhileLoop {
	return EndWhileLoop{fixed{kind: KindEndWhileLoop, required: ContextInsideLoop, attrs: AttrBlockEnd}}
}

type BeginDoWhileLoop struct {
	fixed
	Comparator CompareOperator
}

func NewBeginDoWhileLoop(cmp CompareOperator) BeginDoWhileLoop {
	f := fixed{kind: KindBeginDoWhileLoop, inputs: 2, required: ContextJavaScript, opened: ContextJavaScript | ContextInsideLoop, attrs: AttrBlockBegin}
	return BeginDoWhileLoop{fixed: f, Comparator: cmp}
}

type EndDoWhileLoop struct{ fixed }

func NewEndDoWhileLoop() EndDoWhileLoop {
	return EndDoWhileLoop{fixed{kind: KindEndDoWhileLoop, required: ContextInsideLoop, attrs: AttrBlockEnd}}
}

// BeginForLoop opens a classic three-clause for loop; its single inner
// output is the loop induction variable.
type BeginForLoop struct {
	fixed
	Comparator CompareOperator
}

func NewBeginForLoop(cmp CompareOperator) BeginForLoop {
	f := fixed{
		kind: KindBeginForLoop, inputs: 2, innerOutputs: 1,
		required: ContextJavaScript, opened: ContextJavaScript | ContextInsideLoop,
		attrs: AttrBlockBegin,
	}
	return BeginForLoop{fixed: f, Comparator: cmp}
}

type EndForLoop struct{ fixed }

func NewEndForLoop() EndForLoop {
	return EndForLoop{fixed{kind: KindEndForLoop, required: ContextInsideLoop, attrs: AttrBlockEnd}}
}

type BeginForInLoop struct{ fixed }

func NewBeginForInLoop() BeginForInLoop {
	f := fixed{
		kind: KindBeginForInLoop, inputs: 1, innerOutputs: 1,
		required: ContextJavaScript, opened: ContextJavaScript | ContextInsideLoop,
		attrs: AttrBlockBegin,
	}
	return BeginForInLoop{fixed: f}
}

type EndForInLoop struct{ fixed }

func NewEndForInLoop() EndForInLoop {
	return EndForInLoop{fixed{kind: KindEndForInLoop, required: ContextInsideLoop, attrs: AttrBlockEnd}}
}

type BeginForOfLoop struct{ fixed }

func NewBeginForOfLoop() BeginForOfLoop {
	f := fixed{
		kind: KindBeginForOfLoop, inputs: 1, innerOutputs: 1,
		required: ContextJavaScript, opened: ContextJavaScript | ContextInsideLoop,
		attrs: AttrBlockBegin,
	}
	return BeginForOfLoop{fixed: f}
}

type EndForOfLoop struct{ fixed }

func NewEndForOfLoop() EndForOfLoop {
	return EndForOfLoop{fixed{kind: KindEndForOfLoop, required: ContextInsideLoop, attrs: AttrBlockEnd}}
}

type LoopBreak struct{ fixed }

func NewLoopBreak() LoopBreak {
	return LoopBreak{fixed{kind: KindLoopBreak, required: ContextInsideLoop | ContextInsideSwitch}}
}

type LoopContinue struct{ fixed }

func NewLoopContinue() LoopContinue {
	return LoopContinue{fixed{kind: KindLoopContinue, required: ContextInsideLoop}}
}

// --- try/catch/finally -------------------------------------------------------

type BeginTry struct{ fixed }

func NewBeginTry() BeginTry {
	return BeginTry{fixed{kind: KindBeginTry, required: ContextJavaScript, opened: ContextJavaScript, attrs: AttrBlockBegin}}
}

// BeginCatch closes the try block and opens the catch block; its inner
// output is the caught exception.
type BeginCatch struct{ fixed }

func NewBeginCatch() BeginCatch {
	f := fixed{kind: KindBeginCatch, innerOutputs: 1, required: ContextJavaScript, opened: ContextJavaScript, attrs: AttrBlockBegin | AttrBlockEnd}
	return BeginCatch{fixed: f}
}

type BeginFinally struct{ fixed }

func NewBeginFinally() BeginFinally {
	return BeginFinally{fixed{kind: KindBeginFinally, required: ContextJavaScript, opened: ContextJavaScript, attrs: AttrBlockBegin | AttrBlockEnd}}
}

type EndTryCatchFinally struct{ fixed }

func NewEndTryCatchFinally() EndTryCatchFinally {
	return EndTryCatchFinally{fixed{kind: KindEndTryCatchFinally, required: ContextJavaScript, attrs: AttrBlockEnd}}
}

// --- switch ------------------------------------------------------------------

type BeginSwitch struct{ fixed }

func NewBeginSwitch() BeginSwitch {
	return BeginSwitch{fixed{kind: KindBeginSwitch, inputs: 1, required: ContextJavaScript, opened: ContextJavaScript, attrs: AttrBlockBegin}}
}

// BeginSwitchCase takes one input unless IsDefaultCase, in which case it
// takes none. Default cases are forbidden as splice roots/targets: a block
// can have only one default case, and the splicer cannot verify that
// uniqueness across two programs.
type BeginSwitchCase struct {
	fixed
	IsDefaultCase bool
}

func NewBeginSwitchCase(isDefault bool) BeginSwitchCase {
	in := 1
	if isDefault {
		in = 0
	}
	f := fixed{kind: KindBeginSwitchCase, inputs: in, required: ContextInsideSwitch, opened: ContextInsideSwitch, attrs: AttrBlockBegin | AttrInternal}
	return BeginSwitchCase{fixed: f, IsDefaultCase: isDefault}
}

type EndSwitchCase struct{ fixed }

func NewEndSwitchCase() EndSwitchCase {
	return EndSwitchCase{fixed{kind: KindEndSwitchCase, required: ContextInsideSwitch, attrs: AttrBlockEnd}}
}

type EndSwitch struct{ fixed }

func NewEndSwitch() EndSwitch {
	return EndSwitch{fixed{kind: KindEndSwitch, required: ContextJavaScript, attrs: AttrBlockEnd}}
}

// --- object literal scaffolding ----------------------------------------------

type BeginObjectLiteral struct{ fixed }

func NewBeginObjectLiteral() BeginObjectLiteral {
	return BeginObjectLiteral{fixed{kind: KindBeginObjectLiteral, outputs: 1, required: ContextJavaScript, opened: ContextJavaScript | ContextInsideObjectLiteral, attrs: AttrBlockBegin}}
}

type ObjectLiteralProperty struct {
	fixed
	Name string
}

func NewObjectLiteralProperty(name string) ObjectLiteralProperty {
	f := fixed{kind: KindObjectLiteralProperty, inputs: 1, required: ContextInsideObjectLiteral, attrs: AttrInternal}
	return ObjectLiteralProperty{fixed: f, Name: name}
}

// ObjectLiteralMethod opens the method body; it is itself a block begin
// nested inside the object-literal block.
type ObjectLiteralMethod struct {
	fixed
	Name string
	Sig  Signature
}

// ObjectLiteralMethod both closes the literal's previous block (the
// literal itself, or a prior method's body) and opens this method's own
// body, the same self-closing shape as BeginElse/BeginCatch; the literal's
// EndObjectLiteral then closes whichever body was opened last.
func NewObjectLiteralMethod(name string, sig Signature) ObjectLiteralMethod {
	f := fixed{
		kind: KindObjectLiteralMethod, innerOutputs: sig.NumParameters(),
		required: ContextInsideObjectLiteral,
		opened:   ContextJavaScript | ContextInsideFunction | ContextInsideObjectLiteral,
		attrs:    AttrBlockBegin | AttrBlockEnd,
	}
	return ObjectLiteralMethod{fixed: f, Name: name, Sig: sig}
}

type EndObjectLiteral struct{ fixed }

func NewEndObjectLiteral() EndObjectLiteral {
	return EndObjectLiteral{fixed{kind: KindEndObjectLiteral, required: ContextInsideObjectLiteral, attrs: AttrBlockEnd}}
}

// --- class scaffolding ---------------------------------------------------

type BeginClassDefinition struct {
	fixed
	HasSuperclass bool
}

func NewBeginClassDefinition(hasSuperclass bool) BeginClassDefinition {
	in := 0
	if hasSuperclass {
		in = 1
	}
	f := fixed{
		kind: KindBeginClassDefinition, inputs: in, outputs: 1,
		required: ContextJavaScript, opened: ContextJavaScript | ContextInsideClassDefinition,
		attrs: AttrBlockBegin,
	}
	return BeginClassDefinition{fixed: f, HasSuperclass: hasSuperclass}
}

type ClassField struct {
	fixed
	Name string
}

func NewClassField(name string) ClassField {
	f := fixed{kind: KindClassField, required: ContextInsideClassDefinition, attrs: AttrInternal}
	return ClassField{fixed: f, Name: name}
}

type ClassMethod struct {
	fixed
	Name string
	Sig  Signature
}

// ClassMethod is self-closing like ObjectLiteralMethod: it closes whichever
// body was opened last (the class definition's own frame, or a prior
// method's) and opens its own, leaving EndClassDefinition to close the
// final one.
func NewClassMethod(name string, sig Signature) ClassMethod {
	f := fixed{
		kind: KindClassMethod, innerOutputs: sig.NumParameters(),
		required: ContextInsideClassDefinition,
		opened:   ContextJavaScript | ContextInsideFunction | ContextInsideClassDefinition,
		attrs:    AttrBlockBegin | AttrBlockEnd,
	}
	return ClassMethod{fixed: f, Name: name, Sig: sig}
}

type EndClassDefinition struct{ fixed }

func NewEndClassDefinition() EndClassDefinition {
	return EndClassDefinition{fixed{kind: KindEndClassDefinition, required: ContextInsideClassDefinition, attrs: AttrBlockEnd}}
}

// --- misc ----------------------------------------------------------------

// DefineVariable declares a `let`/`const`/`var` binding at the current
// scope from an existing value; distinct from a plain load so analyzers
// can tell "newly named binding" apart from "fresh literal".
type DefineVariable struct{ fixed }

func NewDefineVariable() DefineVariable {
	return DefineVariable{simple(KindDefineVariable, 1, 1)}
}

// Nop carries no semantics and has no inputs or outputs. Nothing in the
// engine emits one; the wire format still encodes and decodes it.
type Nop struct{ fixed }

func NewNop() Nop { return Nop{fixed{kind: KindNop}} }
