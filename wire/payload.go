package wire

import (
	"bytes"
	"fmt"

	"github.com/edgecover/fuzzer/ir"
)

// writePayload encodes the kind-specific fields of op — everything beyond
// its Kind and inouts, which writeInstruction already handles. Operations
// with no such fields (most control-flow scaffolding) write nothing.
func writePayload(buf *bytes.Buffer, op ir.Operation) {
	switch v := op.(type) {
	case ir.LoadInteger:
		writeVarint(buf, v.Value)
	case ir.LoadFloat:
		writeFloat64(buf, v.Value)
	case ir.LoadString:
		writeString(buf, v.Value)
	case ir.LoadBoolean:
		writeBool(buf, v.Value)
	case ir.LoadRegExp:
		writeString(buf, v.Pattern)
		writeString(buf, v.Flags)
	case ir.LoadBuiltin:
		writeString(buf, v.Name)
	case ir.CreateArray:
		writeUvarint(buf, uint64(v.NumElements))
	case ir.CreateArrayWithSpread:
		writeBools(buf, v.Spreads)
	case ir.CreateObject:
		writeStrings(buf, v.PropertyNames)
	case ir.LoadProperty:
		writeString(buf, v.Name)
	case ir.StoreProperty:
		writeString(buf, v.Name)
	case ir.DeleteProperty:
		writeString(buf, v.Name)
	case ir.UnaryOp:
		writeString(buf, string(v.Op))
	case ir.BinaryOp:
		writeString(buf, string(v.Op))
	case ir.CompareOp:
		writeString(buf, string(v.Op))
	case ir.LogicalOp:
		writeString(buf, string(v.Op))
	case ir.CallFunction:
		writeUvarint(buf, uint64(v.NumArguments))
	case ir.CallMethod:
		writeString(buf, v.MethodName)
		writeUvarint(buf, uint64(v.NumArguments))
	case ir.ConstructObject:
		writeUvarint(buf, uint64(v.NumArguments))
	case ir.CallFunctionWithSpread:
		writeBools(buf, v.Spreads)
	case ir.BeginPlainFunction:
		writeSignature(buf, v.Sig)
	case ir.BeginArrowFunction:
		writeSignature(buf, v.Sig)
	case ir.BeginGeneratorFunction:
		writeSignature(buf, v.Sig)
	case ir.BeginAsyncFunction:
		writeSignature(buf, v.Sig)
	case ir.Return:
		writeBool(buf, v.NumInputs() == 1)
	case ir.Yield:
		writeBool(buf, v.NumInputs() == 1)
	case ir.BeginWhileLoop:
		writeString(buf, string(v.Comparator))
	case ir.BeginDoWhileLoop:
		writeString(buf, string(v.Comparator))
	case ir.BeginForLoop:
		writeString(buf, string(v.Comparator))
	case ir.BeginSwitchCase:
		writeBool(buf, v.IsDefaultCase)
	case ir.ObjectLiteralProperty:
		writeString(buf, v.Name)
	case ir.ObjectLiteralMethod:
		writeString(buf, v.Name)
		writeSignature(buf, v.Sig)
	case ir.BeginClassDefinition:
		writeBool(buf, v.HasSuperclass)
	case ir.ClassField:
		writeString(buf, v.Name)
	case ir.ClassMethod:
		writeString(buf, v.Name)
		writeSignature(buf, v.Sig)
	}
	// Every other Kind (LoadUndefined, LoadNull, LoadElement, StoreElement,
	// LoadComputedProperty, StoreComputedProperty, Dup, Reassign, Await,
	// BeginIf, BeginElse, EndIf, the End* block closers, BeginForInLoop,
	// BeginForOfLoop, LoopBreak, LoopContinue, BeginTry, BeginFinally,
	// BeginCatch, BeginSwitch, BeginObjectLiteral, DefineVariable, Nop)
	// carries no payload beyond its Kind and inouts.
}

// readPayload decodes kind's payload and reconstructs the Operation. It is
// the mirror image of writePayload, one case per Kind that writes
// something.
func readPayload(r *bytes.Reader, kind ir.Kind) (ir.Operation, error) {
	switch kind {
	case ir.KindLoadInteger:
		v, err := readVarint(r)
		return ir.NewLoadInteger(v), err
	case ir.KindLoadFloat:
		v, err := readFloat64(r)
		return ir.NewLoadFloat(v), err
	case ir.KindLoadString:
		v, err := readString(r)
		return ir.NewLoadString(v), err
	case ir.KindLoadBoolean:
		v, err := readBool(r)
		return ir.NewLoadBoolean(v), err
	case ir.KindLoadUndefined:
		return ir.NewLoadUndefined(), nil
	case ir.KindLoadNull:
		return ir.NewLoadNull(), nil
	case ir.KindLoadRegExp:
		pattern, err := readString(r)
		if err != nil {
			return nil, err
		}
		flags, err := readString(r)
		return ir.NewLoadRegExp(pattern, flags), err
	case ir.KindLoadBuiltin:
		v, err := readString(r)
		return ir.NewLoadBuiltin(v), err
	case ir.KindCreateArray:
		n, err := readUvarint(r)
		return ir.NewCreateArray(int(n)), err
	case ir.KindCreateArrayWithSpread:
		spreads, err := readBools(r)
		return ir.NewCreateArrayWithSpread(spreads), err
	case ir.KindCreateObject:
		names, err := readStrings(r)
		return ir.NewCreateObject(names), err
	case ir.KindLoadProperty:
		v, err := readString(r)
		return ir.NewLoadProperty(v), err
	case ir.KindStoreProperty:
		v, err := readString(r)
		return ir.NewStoreProperty(v), err
	case ir.KindDeleteProperty:
		v, err := readString(r)
		return ir.NewDeleteProperty(v), err
	case ir.KindLoadElement:
		return ir.NewLoadElement(), nil
	case ir.KindStoreElement:
		return ir.NewStoreElement(), nil
	case ir.KindLoadComputedProperty:
		return ir.NewLoadComputedProperty(), nil
	case ir.KindStoreComputedProperty:
		return ir.NewStoreComputedProperty(), nil
	case ir.KindUnaryOp:
		v, err := readString(r)
		return ir.NewUnaryOp(ir.UnaryOperator(v)), err
	case ir.KindBinaryOp:
		v, err := readString(r)
		return ir.NewBinaryOp(ir.BinaryOperator(v)), err
	case ir.KindCompareOp:
		v, err := readString(r)
		return ir.NewCompareOp(ir.CompareOperator(v)), err
	case ir.KindLogicalOp:
		v, err := readString(r)
		return ir.NewLogicalOp(ir.LogicalOperator(v)), err
	case ir.KindDup:
		return ir.NewDup(), nil
	case ir.KindReassign:
		return ir.NewReassign(), nil
	case ir.KindCallFunction:
		n, err := readUvarint(r)
		return ir.NewCallFunction(int(n)), err
	case ir.KindCallMethod:
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		n, err := readUvarint(r)
		return ir.NewCallMethod(name, int(n)), err
	case ir.KindConstructObject:
		n, err := readUvarint(r)
		return ir.NewConstructObject(int(n)), err
	case ir.KindCallFunctionWithSpread:
		spreads, err := readBools(r)
		return ir.NewCallFunctionWithSpread(spreads), err
	case ir.KindBeginPlainFunction:
		sig, err := readSignature(r)
		return ir.NewBeginPlainFunction(sig), err
	case ir.KindEndPlainFunction:
		return ir.NewEndPlainFunction(), nil
	case ir.KindBeginArrowFunction:
		sig, err := readSignature(r)
		return ir.NewBeginArrowFunction(sig), err
	case ir.KindEndArrowFunction:
		return ir.NewEndArrowFunction(), nil
	case ir.KindBeginGeneratorFunction:
		sig, err := readSignature(r)
		return ir.NewBeginGeneratorFunction(sig), err
	case ir.KindEndGeneratorFunction:
		return ir.NewEndGeneratorFunction(), nil
	case ir.KindBeginAsyncFunction:
		sig, err := readSignature(r)
		return ir.NewBeginAsyncFunction(sig), err
	case ir.KindEndAsyncFunction:
		return ir.NewEndAsyncFunction(), nil
	case ir.KindReturn:
		hasValue, err := readBool(r)
		return ir.NewReturn(hasValue), err
	case ir.KindYield:
		hasValue, err := readBool(r)
		return ir.NewYield(hasValue), err
	case ir.KindAwait:
		return ir.NewAwait(), nil
	case ir.KindBeginIf:
		return ir.NewBeginIf(), nil
	case ir.KindBeginElse:
		return ir.NewBeginElse(), nil
	case ir.KindEndIf:
		return ir.NewEndIf(), nil
	case ir.KindBeginWhileLoop:
		v, err := readString(r)
		return ir.NewBeginWhileLoop(ir.CompareOperator(v)), err
	case ir.KindEndWhileLoop:
		return ir.NewEndWhileLoop(), nil
	case ir.KindBeginDoWhileLoop:
		v, err := readString(r)
		return ir.NewBeginDoWhileLoop(ir.CompareOperator(v)), err
	case ir.KindEndDoWhileLoop:
		return ir.NewEndDoWhileLoop(), nil
	case ir.KindBeginForLoop:
		v, err := readString(r)
		return ir.NewBeginForLoop(ir.CompareOperator(v)), err
	case ir.KindEndForLoop:
		return ir.NewEndForLoop(), nil
	case ir.KindBeginForInLoop:
		return ir.NewBeginForInLoop(), nil
	case ir.KindEndForInLoop:
		return ir.NewEndForInLoop(), nil
	case ir.KindBeginForOfLoop:
		return ir.NewBeginForOfLoop(), nil
	case ir.KindEndForOfLoop:
		return ir.NewEndForOfLoop(), nil
	case ir.KindLoopBreak:
		return ir.NewLoopBreak(), nil
	case ir.KindLoopContinue:
		return ir.NewLoopContinue(), nil
	case ir.KindBeginTry:
		return ir.NewBeginTry(), nil
	case ir.KindBeginCatch:
		return ir.NewBeginCatch(), nil
	case ir.KindBeginFinally:
		return ir.NewBeginFinally(), nil
	case ir.KindEndTryCatchFinally:
		return ir.NewEndTryCatchFinally(), nil
	case ir.KindBeginSwitch:
		return ir.NewBeginSwitch(), nil
	case ir.KindBeginSwitchCase:
		isDefault, err := readBool(r)
		return ir.NewBeginSwitchCase(isDefault), err
	case ir.KindEndSwitchCase:
		return ir.NewEndSwitchCase(), nil
	case ir.KindEndSwitch:
		return ir.NewEndSwitch(), nil
	case ir.KindBeginObjectLiteral:
		return ir.NewBeginObjectLiteral(), nil
	case ir.KindObjectLiteralProperty:
		v, err := readString(r)
		return ir.NewObjectLiteralProperty(v), err
	case ir.KindObjectLiteralMethod:
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		sig, err := readSignature(r)
		return ir.NewObjectLiteralMethod(name, sig), err
	case ir.KindEndObjectLiteral:
		return ir.NewEndObjectLiteral(), nil
	case ir.KindBeginClassDefinition:
		hasSuper, err := readBool(r)
		return ir.NewBeginClassDefinition(hasSuper), err
	case ir.KindClassField:
		v, err := readString(r)
		return ir.NewClassField(v), err
	case ir.KindClassMethod:
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		sig, err := readSignature(r)
		return ir.NewClassMethod(name, sig), err
	case ir.KindEndClassDefinition:
		return ir.NewEndClassDefinition(), nil
	case ir.KindDefineVariable:
		return ir.NewDefineVariable(), nil
	case ir.KindNop:
		return ir.NewNop(), nil
	default:
		return nil, fmt.Errorf("unknown opcode %d", kind)
	}
}
