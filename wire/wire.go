// Package wire implements the IR's on-disk/on-wire encoding: a
// length-prefixed sequence of instructions, each an (operation tag,
// operation payload, inout count, inouts) tuple, grounded on
// dr8co-kong/code/code.go's opcode/operand encoding (there a fixed-width
// big-endian scheme for a stack-machine bytecode; here a varint scheme,
// since an operation's inout count is unbounded and most operands are
// small integers or short strings rather than fixed-width stack offsets).
//
// The format is a plain reflection of the current operation catalog. It is
// not forwards-compatible across catalog changes: decoding a stream
// produced by a build with a different Kind set or payload layout is
// undefined, mirroring the stance the IR package itself takes.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/edgecover/fuzzer/ir"
)

// Marshal encodes every instruction in code, in order, into a byte slice.
func Marshal(code *ir.Code) []byte {
	var buf bytes.Buffer
	writeUvarint(&buf, uint64(code.Len()))
	code.All(func(_ int, instr ir.Instruction) bool {
		writeInstruction(&buf, instr)
		return true
	})
	return buf.Bytes()
}

// Unmarshal decodes data into a fresh Code, appending each instruction
// through Code.Append so the usual invariant checks run as they would for
// any other builder-produced instruction. A malformed stream —
// truncated payload, unknown Kind, or an instruction that fails those
// invariants — is reported as an error rather than a panic.
func Unmarshal(data []byte) (code *ir.Code, err error) {
	defer func() {
		if r := recover(); r != nil {
			code = nil
			err = fmt.Errorf("wire: malformed stream: %v", r)
		}
	}()

	r := bytes.NewReader(data)
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("wire: reading instruction count: %w", err)
	}

	code = ir.NewCode()
	for i := uint64(0); i < n; i++ {
		instr, err := readInstruction(r)
		if err != nil {
			return nil, fmt.Errorf("wire: instruction %d: %w", i, err)
		}
		code.Append(instr)
	}
	return code, nil
}

// MarshalProgram encodes a finalized program's code. Lineage (the donor
// chain a splice or adoption session built up) is in-process bookkeeping
// with no wire representation; see DESIGN.md.
func MarshalProgram(p *ir.Program) []byte {
	return Marshal(p.Code())
}

// UnmarshalProgram decodes a byte slice produced by MarshalProgram into a
// standalone Program with no parent.
func UnmarshalProgram(data []byte) (*ir.Program, error) {
	code, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return ir.Finalize(code, nil, []string{"wire"}), nil
}

func writeInstruction(buf *bytes.Buffer, instr ir.Instruction) {
	op := instr.Op()
	writeUvarint(buf, uint64(op.Kind()))
	writePayload(buf, op)

	inouts := instr.Inouts()
	writeUvarint(buf, uint64(len(inouts)))
	for _, v := range inouts {
		writeVarint(buf, int64(v))
	}
}

func readInstruction(r *bytes.Reader) (ir.Instruction, error) {
	kindVal, err := binary.ReadUvarint(r)
	if err != nil {
		return ir.Instruction{}, fmt.Errorf("reading kind: %w", err)
	}
	kind := ir.Kind(kindVal)

	op, err := readPayload(r, kind)
	if err != nil {
		return ir.Instruction{}, fmt.Errorf("reading %s payload: %w", kind, err)
	}

	numInouts, err := binary.ReadUvarint(r)
	if err != nil {
		return ir.Instruction{}, fmt.Errorf("reading inout count: %w", err)
	}
	inouts := make([]ir.Variable, numInouts)
	for i := range inouts {
		v, err := binary.ReadVarint(r)
		if err != nil {
			return ir.Instruction{}, fmt.Errorf("reading inout %d: %w", i, err)
		}
		inouts[i] = ir.Variable(v)
	}

	return ir.NewInstruction(op, inouts), nil
}

// --- primitive encoders/decoders -----------------------------------------

func writeUvarint(buf *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	buf.Write(tmp[:n])
}

func writeVarint(buf *bytes.Buffer, v int64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutVarint(tmp[:], v)
	buf.Write(tmp[:n])
}

func readUvarint(r *bytes.Reader) (uint64, error) {
	return binary.ReadUvarint(r)
}

func readVarint(r *bytes.Reader) (int64, error) {
	return binary.ReadVarint(r)
}

func writeBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func readBool(r *bytes.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func writeString(buf *bytes.Buffer, s string) {
	writeUvarint(buf, uint64(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return "", err
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return "", err
	}
	return string(out), nil
}

func writeStrings(buf *bytes.Buffer, ss []string) {
	writeUvarint(buf, uint64(len(ss)))
	for _, s := range ss {
		writeString(buf, s)
	}
}

func readStrings(r *bytes.Reader) ([]string, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		if out[i], err = readString(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func writeBools(buf *bytes.Buffer, bs []bool) {
	writeUvarint(buf, uint64(len(bs)))
	for _, b := range bs {
		writeBool(buf, b)
	}
}

func readBools(r *bytes.Reader) ([]bool, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	out := make([]bool, n)
	for i := range out {
		if out[i], err = readBool(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func writeFloat64(buf *bytes.Buffer, f float64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], math.Float64bits(f))
	buf.Write(tmp[:])
}

func readFloat64(r *bytes.Reader) (float64, error) {
	var tmp [8]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(tmp[:])), nil
}

func writeSignature(buf *bytes.Buffer, sig ir.Signature) {
	writeUvarint(buf, uint64(len(sig.Parameters)))
	for _, p := range sig.Parameters {
		buf.WriteByte(byte(p))
	}
}

func readSignature(r *bytes.Reader) (ir.Signature, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return ir.Signature{}, err
	}
	params := make([]ir.ParamKind, n)
	for i := range params {
		b, err := r.ReadByte()
		if err != nil {
			return ir.Signature{}, err
		}
		params[i] = ir.ParamKind(b)
	}
	return ir.Signature{Parameters: params}, nil
}
