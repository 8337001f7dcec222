// Package disasm formats a Chunk as a readable assembly-style dump.
// Grounded on the disassembler shape in other_examples' go-flux bytecode
// package (offset / line / mnemonic / operand columns).
package disasm

import (
	"fmt"
	"io"

	"rslox/internal/bytecode"
	"rslox/internal/value"
)

// Disassemble writes one line per instruction in chunk to w, labeled name.
func Disassemble(w io.Writer, chunk *bytecode.Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(chunk.Code); {
		offset = instruction(w, chunk, offset)
	}
}

func instruction(w io.Writer, chunk *bytecode.Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && chunk.Line(offset) == chunk.Line(offset-1) {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", chunk.Line(offset))
	}

	op := bytecode.OpCode(chunk.Code[offset])
	switch op {
	case bytecode.OpConstant, bytecode.OpDefineGlobal, bytecode.OpGetGlobal, bytecode.OpSetGlobal:
		return constantInstruction(w, op, chunk, offset)
	case bytecode.OpGetLocal, bytecode.OpSetLocal, bytecode.OpGetUpvalue, bytecode.OpSetUpvalue, bytecode.OpCall:
		return byteInstruction(w, op, chunk, offset)
	case bytecode.OpJump, bytecode.OpJumpIfFalse:
		return jumpInstruction(w, op, chunk, offset, 1)
	case bytecode.OpLoop:
		return jumpInstruction(w, op, chunk, offset, -1)
	case bytecode.OpClosure:
		return closureInstruction(w, chunk, offset)
	default:
		fmt.Fprintf(w, "%s\n", op)
		return offset + 1
	}
}

func simpleValue(v interface{}) string {
	if val, ok := v.(value.Value); ok {
		return val.String()
	}
	return fmt.Sprintf("%v", v)
}

func constantInstruction(w io.Writer, op bytecode.OpCode, chunk *bytecode.Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	fmt.Fprintf(w, "%-18s %4d '%s'\n", op, idx, simpleValue(chunk.Constants[idx]))
	return offset + 2
}

func byteInstruction(w io.Writer, op bytecode.OpCode, chunk *bytecode.Chunk, offset int) int {
	slot := chunk.Code[offset+1]
	fmt.Fprintf(w, "%-18s %4d\n", op, slot)
	return offset + 2
}

func jumpInstruction(w io.Writer, op bytecode.OpCode, chunk *bytecode.Chunk, offset int, sign int) int {
	jump := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
	target := offset + 3 + sign*jump
	fmt.Fprintf(w, "%-18s %4d -> %d\n", op, offset, target)
	return offset + 3
}

func closureInstruction(w io.Writer, chunk *bytecode.Chunk, offset int) int {
	offset++
	idx := chunk.Code[offset]
	offset++
	fmt.Fprintf(w, "%-18s %4d '%s'\n", bytecode.OpClosure, idx, simpleValue(chunk.Constants[idx]))

	fn, ok := chunk.Constants[idx].(*value.Function)
	if !ok {
		return offset
	}
	for i := 0; i < fn.UpvalueCount; i++ {
		isLocal := chunk.Code[offset]
		offset++
		index := chunk.Code[offset]
		offset++
		kind := "upvalue"
		if isLocal == 1 {
			kind = "local"
		}
		fmt.Fprintf(w, "%04d      |                     %s %d\n", offset-2, kind, index)
	}
	return offset
}
