package bytecode

// OpCode identifies a single VM instruction. Each opcode is one byte,
// optionally followed by 1 or 2 operand bytes as noted below.
type OpCode byte

const (
	// OpConstant pushes constants[operand] onto the stack. Operand: u8 index.
	OpConstant OpCode = iota
	OpNil
	OpTrue
	OpFalse
	// OpPop discards the top of the stack.
	OpPop
	// OpGetLocal/OpSetLocal address stack[frame.base+operand]. Operand: u8 slot.
	OpGetLocal
	OpSetLocal
	// OpGetGlobal/OpSetGlobal/OpDefineGlobal take a u8 constant index holding
	// the variable's name.
	OpGetGlobal
	OpSetGlobal
	OpDefineGlobal
	// OpGetUpvalue/OpSetUpvalue address the current closure's upvalue cells.
	// Operand: u8 slot.
	OpGetUpvalue
	OpSetUpvalue
	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
	OpNegate
	OpPrint
	// OpJump/OpJumpIfFalse carry a big-endian u16 forward offset.
	OpJump
	OpJumpIfFalse
	// OpLoop carries a big-endian u16 backward offset.
	OpLoop
	// OpCall carries a u8 argument count.
	OpCall
	// OpClosure carries a u8 function-constant index followed by
	// upvalue_count pairs of (is_local u8, index u8).
	OpClosure
	// OpCloseUpvalue closes the open upvalue, if any, at the popped slot.
	OpCloseUpvalue
	OpReturn
)

var names = [...]string{
	OpConstant:     "OP_CONSTANT",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpGetLocal:     "OP_GET_LOCAL",
	OpSetLocal:     "OP_SET_LOCAL",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpGetUpvalue:   "OP_GET_UPVALUE",
	OpSetUpvalue:   "OP_SET_UPVALUE",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpNot:          "OP_NOT",
	OpNegate:       "OP_NEGATE",
	OpPrint:        "OP_PRINT",
	OpJump:         "OP_JUMP",
	OpJumpIfFalse:  "OP_JUMP_IF_FALSE",
	OpLoop:         "OP_LOOP",
	OpCall:         "OP_CALL",
	OpClosure:      "OP_CLOSURE",
	OpCloseUpvalue: "OP_CLOSE_UPVALUE",
	OpReturn:       "OP_RETURN",
}

func (op OpCode) String() string {
	if int(op) < len(names) && names[op] != "" {
		return names[op]
	}
	return "OP_UNKNOWN"
}
