package builder

import "github.com/edgecover/fuzzer/ir"

// Every Build* method here follows the same shape: open the block, run
// the caller's callback, and use defer to guarantee the matching close is
// emitted even if the callback panics or returns early. A generator that
// recurses through these methods can never leave a begin/end pair
// unbalanced.

// BuildIfElse emits BeginIf(cond), runs then_, and if else_ is non-nil
// emits BeginElse and runs it, then always closes with EndIf.
func (b *Builder) BuildIfElse(cond ir.Variable, then_ func(), else_ func()) {
	b.emit(ir.NewBeginIf(), []ir.Variable{cond})
	defer b.emit(ir.NewEndIf(), nil)
	then_()
	if else_ != nil {
		b.emit(ir.NewBeginElse(), nil)
		else_()
	}
}

func (b *Builder) BuildWhileLoop(lhs, rhs ir.Variable, cmp ir.CompareOperator, body func()) {
	b.emit(ir.NewBeginWhileLoop(cmp), []ir.Variable{lhs, rhs})
	defer b.emit(ir.NewEndWhileLoop(), nil)
	body()
}

func (b *Builder) BuildDoWhileLoop(lhs, rhs ir.Variable, cmp ir.CompareOperator, body func()) {
	b.emit(ir.NewBeginDoWhileLoop(cmp), []ir.Variable{lhs, rhs})
	defer b.emit(ir.NewEndDoWhileLoop(), nil)
	body()
}

// BuildForLoop opens a three-clause for loop and hands the induction
// variable to body.
func (b *Builder) BuildForLoop(initial, end ir.Variable, cmp ir.CompareOperator, body func(loopVar ir.Variable)) {
	instr := b.emit(ir.NewBeginForLoop(cmp), []ir.Variable{initial, end})
	defer b.emit(ir.NewEndForLoop(), nil)
	body(instr.InnerOutputs()[0])
}

func (b *Builder) BuildForInLoop(obj ir.Variable, body func(key ir.Variable)) {
	instr := b.emit(ir.NewBeginForInLoop(), []ir.Variable{obj})
	defer b.emit(ir.NewEndForInLoop(), nil)
	body(instr.InnerOutputs()[0])
}

func (b *Builder) BuildForOfLoop(iterable ir.Variable, body func(value ir.Variable)) {
	instr := b.emit(ir.NewBeginForOfLoop(), []ir.Variable{iterable})
	defer b.emit(ir.NewEndForOfLoop(), nil)
	body(instr.InnerOutputs()[0])
}

// BuildTryCatchFinally emits try_, then catch_ (if non-nil, receiving the
// caught exception variable), then finally_ (if non-nil), always closing
// with EndTryCatchFinally.
func (b *Builder) BuildTryCatchFinally(try_ func(), catch_ func(exception ir.Variable), finally_ func()) {
	b.emit(ir.NewBeginTry(), nil)
	defer b.emit(ir.NewEndTryCatchFinally(), nil)
	try_()
	if catch_ != nil {
		instr := b.emit(ir.NewBeginCatch(), nil)
		catch_(instr.InnerOutputs()[0])
	}
	if finally_ != nil {
		b.emit(ir.NewBeginFinally(), nil)
		finally_()
	}
}

// SwitchCase describes one arm of a BuildSwitch. A default arm (IsDefault)
// takes no case value; its Value is ignored.
type SwitchCase struct {
	Value     ir.Variable
	IsDefault bool
	Body      func()
}

func (b *Builder) BuildSwitch(discriminant ir.Variable, cases []SwitchCase) {
	b.emit(ir.NewBeginSwitch(), []ir.Variable{discriminant})
	defer b.emit(ir.NewEndSwitch(), nil)
	for _, c := range cases {
		func() {
			if c.IsDefault {
				b.emit(ir.NewBeginSwitchCase(true), nil)
			} else {
				b.emit(ir.NewBeginSwitchCase(false), []ir.Variable{c.Value})
			}
			defer b.emit(ir.NewEndSwitchCase(), nil)
			c.Body()
		}()
	}
}

// ObjectLiteralBuilder is the scoped handle BuildObjectLiteral's callback
// uses to add properties and methods; it exists only for the duration of
// that callback.
type ObjectLiteralBuilder struct {
	b *Builder
}

func (o *ObjectLiteralBuilder) Property(name string, value ir.Variable) {
	o.b.emit(ir.NewObjectLiteralProperty(name), []ir.Variable{value})
}

// Method opens a method body and hands its parameters to body. Each call
// to Method implicitly closes whatever body was open before it (the
// literal's own, or the previous method's; ObjectLiteralMethod is
// self-closing), while Property closes and opens nothing; the literal's own
// EndObjectLiteral closes the last one.
func (o *ObjectLiteralBuilder) Method(name string, sig ir.Signature, body func(params []ir.Variable)) {
	instr := o.b.emit(ir.NewObjectLiteralMethod(name, sig), nil)
	body(instr.InnerOutputs())
}

func (b *Builder) BuildObjectLiteral(body func(*ObjectLiteralBuilder)) ir.Variable {
	instr := b.emit(ir.NewBeginObjectLiteral(), nil)
	defer b.emit(ir.NewEndObjectLiteral(), nil)
	body(&ObjectLiteralBuilder{b: b})
	return instr.Outputs()[0]
}

// ClassBuilder is the scoped handle BuildClassDefinition's callback uses to
// add fields and methods.
type ClassBuilder struct {
	b *Builder
}

func (c *ClassBuilder) Field(name string) {
	c.b.emit(ir.NewClassField(name), nil)
}

func (c *ClassBuilder) Method(name string, sig ir.Signature, body func(params []ir.Variable)) {
	instr := c.b.emit(ir.NewClassMethod(name, sig), nil)
	body(instr.InnerOutputs())
}

func (b *Builder) BuildClassDefinition(superclass ir.Variable, hasSuperclass bool, body func(*ClassBuilder)) ir.Variable {
	var inputs []ir.Variable
	if hasSuperclass {
		inputs = []ir.Variable{superclass}
	}
	instr := b.emit(ir.NewBeginClassDefinition(hasSuperclass), inputs)
	defer b.emit(ir.NewEndClassDefinition(), nil)
	body(&ClassBuilder{b: b})
	return instr.Outputs()[0]
}

// pushFunction/popFunction track the innermost function currently being
// defined, for the Conservative-mode anti-recursion heuristic.
func (b *Builder) pushFunction(v ir.Variable) { b.currentFunction = append(b.currentFunction, v) }
func (b *Builder) popFunction() {
	b.currentFunction = b.currentFunction[:len(b.currentFunction)-1]
}

func (b *Builder) BuildPlainFunction(sig ir.Signature, body func(params []ir.Variable)) ir.Variable {
	instr := b.emit(ir.NewBeginPlainFunction(sig), nil)
	b.pushFunction(instr.Outputs()[0])
	defer b.popFunction()
	defer b.emit(ir.NewEndPlainFunction(), nil)
	body(instr.InnerOutputs())
	return instr.Outputs()[0]
}

func (b *Builder) BuildArrowFunction(sig ir.Signature, body func(params []ir.Variable)) ir.Variable {
	instr := b.emit(ir.NewBeginArrowFunction(sig), nil)
	b.pushFunction(instr.Outputs()[0])
	defer b.popFunction()
	defer b.emit(ir.NewEndArrowFunction(), nil)
	body(instr.InnerOutputs())
	return instr.Outputs()[0]
}

func (b *Builder) BuildGeneratorFunction(sig ir.Signature, body func(params []ir.Variable)) ir.Variable {
	instr := b.emit(ir.NewBeginGeneratorFunction(sig), nil)
	b.pushFunction(instr.Outputs()[0])
	defer b.popFunction()
	defer b.emit(ir.NewEndGeneratorFunction(), nil)
	body(instr.InnerOutputs())
	return instr.Outputs()[0]
}

func (b *Builder) BuildAsyncFunction(sig ir.Signature, body func(params []ir.Variable)) ir.Variable {
	instr := b.emit(ir.NewBeginAsyncFunction(sig), nil)
	b.pushFunction(instr.Outputs()[0])
	defer b.popFunction()
	defer b.emit(ir.NewEndAsyncFunction(), nil)
	body(instr.InnerOutputs())
	return instr.Outputs()[0]
}
