package builder

import "github.com/edgecover/fuzzer/ir"

// LoadInt emits a fresh integer literal, unconditionally (use ReuseOrLoadInt
// to benefit from value reuse).
func (b *Builder) LoadInt(value int64) ir.Variable {
	instr := b.emit(ir.NewLoadInteger(value), nil)
	v := instr.Outputs()[0]
	b.intReuse[value] = append(b.intReuse[value], v)
	return v
}

func (b *Builder) LoadFloat(value float64) ir.Variable {
	instr := b.emit(ir.NewLoadFloat(value), nil)
	v := instr.Outputs()[0]
	b.floatReuse[value] = append(b.floatReuse[value], v)
	return v
}

func (b *Builder) LoadString(value string) ir.Variable {
	instr := b.emit(ir.NewLoadString(value), nil)
	v := instr.Outputs()[0]
	b.stringReuse[value] = append(b.stringReuse[value], v)
	return v
}

func (b *Builder) LoadBoolean(value bool) ir.Variable {
	return b.emit(ir.NewLoadBoolean(value), nil).Outputs()[0]
}

func (b *Builder) LoadUndefined() ir.Variable {
	return b.emit(ir.NewLoadUndefined(), nil).Outputs()[0]
}

func (b *Builder) LoadNull() ir.Variable {
	return b.emit(ir.NewLoadNull(), nil).Outputs()[0]
}

func (b *Builder) LoadRegExp(pattern, flags string) ir.Variable {
	return b.emit(ir.NewLoadRegExp(pattern, flags), nil).Outputs()[0]
}

// LoadBuiltin emits a reference to a named global; the reuse map does not
// apply here since a builtin can be reassigned by surrounding code.
func (b *Builder) LoadBuiltin(name string) ir.Variable {
	instr := b.emit(ir.NewLoadBuiltin(name), nil)
	return instr.Outputs()[0]
}

func (b *Builder) CreateArray(elements []ir.Variable) ir.Variable {
	return b.emit(ir.NewCreateArray(len(elements)), elements).Outputs()[0]
}

func (b *Builder) CreateArrayWithSpread(elements []ir.Variable, spreads []bool) ir.Variable {
	return b.emit(ir.NewCreateArrayWithSpread(spreads), elements).Outputs()[0]
}

func (b *Builder) CreateObject(names []string, values []ir.Variable) ir.Variable {
	return b.emit(ir.NewCreateObject(names), values).Outputs()[0]
}

func (b *Builder) LoadProperty(obj ir.Variable, name string) ir.Variable {
	return b.emit(ir.NewLoadProperty(name), []ir.Variable{obj}).Outputs()[0]
}

func (b *Builder) StoreProperty(obj ir.Variable, name string, value ir.Variable) {
	b.emit(ir.NewStoreProperty(name), []ir.Variable{obj, value})
}

func (b *Builder) DeleteProperty(obj ir.Variable, name string) ir.Variable {
	return b.emit(ir.NewDeleteProperty(name), []ir.Variable{obj}).Outputs()[0]
}

func (b *Builder) LoadElement(obj, index ir.Variable) ir.Variable {
	return b.emit(ir.NewLoadElement(), []ir.Variable{obj, index}).Outputs()[0]
}

func (b *Builder) StoreElement(obj, index, value ir.Variable) {
	b.emit(ir.NewStoreElement(), []ir.Variable{obj, index, value})
}

func (b *Builder) LoadComputedProperty(obj, key ir.Variable) ir.Variable {
	return b.emit(ir.NewLoadComputedProperty(), []ir.Variable{obj, key}).Outputs()[0]
}

func (b *Builder) StoreComputedProperty(obj, key, value ir.Variable) {
	b.emit(ir.NewStoreComputedProperty(), []ir.Variable{obj, key, value})
}

func (b *Builder) UnaryOp(op ir.UnaryOperator, operand ir.Variable) ir.Variable {
	return b.emit(ir.NewUnaryOp(op), []ir.Variable{operand}).Outputs()[0]
}

func (b *Builder) BinaryOp(op ir.BinaryOperator, lhs, rhs ir.Variable) ir.Variable {
	return b.emit(ir.NewBinaryOp(op), []ir.Variable{lhs, rhs}).Outputs()[0]
}

func (b *Builder) CompareOp(op ir.CompareOperator, lhs, rhs ir.Variable) ir.Variable {
	return b.emit(ir.NewCompareOp(op), []ir.Variable{lhs, rhs}).Outputs()[0]
}

func (b *Builder) LogicalOp(op ir.LogicalOperator, lhs, rhs ir.Variable) ir.Variable {
	return b.emit(ir.NewLogicalOp(op), []ir.Variable{lhs, rhs}).Outputs()[0]
}

func (b *Builder) Dup(v ir.Variable) ir.Variable {
	return b.emit(ir.NewDup(), []ir.Variable{v}).Outputs()[0]
}

// Reassign overwrites target's value in place with value; target keeps its
// variable number but is, from this point on, no longer known to hold
// whatever literal it used to (see invalidateReassigned).
func (b *Builder) Reassign(target, value ir.Variable) {
	b.emit(ir.NewReassign(), []ir.Variable{target, value})
}

// isCurrentlyOpenFunction implements the crude anti-recursion heuristic: in
// Conservative mode, a generator should not call a function variable that
// is the function currently being defined.
func (b *Builder) isCurrentlyOpenFunction(v ir.Variable) bool {
	for _, f := range b.currentFunction {
		if f == v {
			return true
		}
	}
	return false
}

func (b *Builder) callAllowed(callee ir.Variable) bool {
	if b.mode == Aggressive {
		return true
	}
	return !b.isCurrentlyOpenFunction(callee)
}

func (b *Builder) CallFunction(callee ir.Variable, args []ir.Variable) (ir.Variable, bool) {
	if !b.callAllowed(callee) {
		return ir.Invalid, false
	}
	inputs := append([]ir.Variable{callee}, args...)
	return b.emit(ir.NewCallFunction(len(args)), inputs).Outputs()[0], true
}

func (b *Builder) CallMethod(receiver ir.Variable, name string, args []ir.Variable) ir.Variable {
	inputs := append([]ir.Variable{receiver}, args...)
	return b.emit(ir.NewCallMethod(name, len(args)), inputs).Outputs()[0]
}

func (b *Builder) ConstructObject(constructor ir.Variable, args []ir.Variable) (ir.Variable, bool) {
	if !b.callAllowed(constructor) {
		return ir.Invalid, false
	}
	inputs := append([]ir.Variable{constructor}, args...)
	return b.emit(ir.NewConstructObject(len(args)), inputs).Outputs()[0], true
}

func (b *Builder) CallFunctionWithSpread(callee ir.Variable, args []ir.Variable, spreads []bool) (ir.Variable, bool) {
	if !b.callAllowed(callee) {
		return ir.Invalid, false
	}
	inputs := append([]ir.Variable{callee}, args...)
	return b.emit(ir.NewCallFunctionWithSpread(spreads), inputs).Outputs()[0], true
}

func (b *Builder) Return(value ir.Variable) {
	if value == ir.Invalid {
		b.emit(ir.NewReturn(false), nil)
		return
	}
	b.emit(ir.NewReturn(true), []ir.Variable{value})
}

func (b *Builder) Yield(value ir.Variable) ir.Variable {
	if value == ir.Invalid {
		return b.emit(ir.NewYield(false), nil).Outputs()[0]
	}
	return b.emit(ir.NewYield(true), []ir.Variable{value}).Outputs()[0]
}

func (b *Builder) Await(value ir.Variable) ir.Variable {
	return b.emit(ir.NewAwait(), []ir.Variable{value}).Outputs()[0]
}

func (b *Builder) LoopBreak() { b.emit(ir.NewLoopBreak(), nil) }

func (b *Builder) LoopContinue() { b.emit(ir.NewLoopContinue(), nil) }

func (b *Builder) DefineVariable(initial ir.Variable) ir.Variable {
	return b.emit(ir.NewDefineVariable(), []ir.Variable{initial}).Outputs()[0]
}
