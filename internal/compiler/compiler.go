// Package compiler is the single-pass Pratt compiler: it turns a token
// stream directly into a bytecode Function, resolving locals, globals and
// closure upvalues as it goes, with no intermediate AST.
package compiler

import (
	"strconv"
	"strings"

	"rslox/internal/bytecode"
	"rslox/internal/lexer"
	"rslox/internal/rerr"
	"rslox/internal/value"
)

const (
	maxLocals   = 256
	maxUpvalues = 256
)

type functionKind int

const (
	kindScript functionKind = iota
	kindFunction
)

type local struct {
	name       string
	depth      int // -1 while declared-but-uninitialized
	isCaptured bool
}

type upvalueRef struct {
	index   int
	isLocal bool
}

// funcState is one frame of the compiler's own call stack: one per function
// body currently being compiled, chained through enclosing.
type funcState struct {
	enclosing  *funcState
	function   *value.Function
	kind       functionKind
	locals     []local
	scopeDepth int
	upvalues   []upvalueRef
}

// Compiler holds the single-pass parser state plus the chain of funcStates.
type Compiler struct {
	scanner *lexer.Scanner

	current  lexer.Token
	previous lexer.Token

	hadError  bool
	panicMode bool
	errs      []*rerr.Error

	fn *funcState
}

// Compile compiles source into a top-level Function whose Chunk, when
// executed, evaluates the program. On a compile error it returns nil and the
// accumulated diagnostics.
func Compile(source string) (*value.Function, []*rerr.Error) {
	c := &Compiler{scanner: lexer.NewScanner(source)}
	c.pushFunc(kindScript, "")

	c.advance()
	for !c.match(lexer.TokenEOF) {
		c.declaration()
	}

	fn, _ := c.endFunction()
	if c.hadError {
		return nil, c.errs
	}
	return fn, nil
}

func (c *Compiler) pushFunc(kind functionKind, name string) {
	fn := &value.Function{Name: name, Chunk: bytecode.NewChunk()}
	fs := &funcState{enclosing: c.fn, function: fn, kind: kind}
	// Slot 0 is reserved for the callee itself (or `this`, unused here).
	fs.locals = append(fs.locals, local{name: "", depth: 0})
	c.fn = fs
}

// endFunction finishes the current funcState, emits the safety-net return,
// and restores the enclosing funcState. It returns the finished function
// together with the upvalue descriptors the enclosing scope must capture
// when it emits OpClosure for it.
func (c *Compiler) endFunction() (*value.Function, []upvalueRef) {
	c.emitReturn()
	fn := c.fn.function
	fn.UpvalueCount = len(c.fn.upvalues)
	upvals := c.fn.upvalues
	c.fn = c.fn.enclosing
	return fn, upvals
}

// ---- token stream plumbing ----

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.ScanToken()
		if c.current.Type != lexer.TokenError {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *Compiler) check(t lexer.TokenType) bool { return c.current.Type == t }

func (c *Compiler) match(t lexer.TokenType) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(t lexer.TokenType, msg string) {
	if c.current.Type == t {
		c.advance()
		return
	}
	c.errorAtCurrent(msg)
}

func (c *Compiler) errorAtCurrent(msg string) { c.errorAt(c.current, msg) }
func (c *Compiler) error(msg string)          { c.errorAt(c.previous, msg) }

func (c *Compiler) errorAt(tok lexer.Token, msg string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	c.errs = append(c.errs, rerr.NewCompile(tok.Line, tok.Lexeme, tok.Type == lexer.TokenEOF, "%s", msg))
}

// synchronize discards tokens until it reaches a plausible statement
// boundary, so later errors in the same source are still reported.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.current.Type != lexer.TokenEOF {
		if c.previous.Type == lexer.TokenSemicolon {
			return
		}
		switch c.current.Type {
		case lexer.TokenClass, lexer.TokenFun, lexer.TokenVar, lexer.TokenFor,
			lexer.TokenIf, lexer.TokenWhile, lexer.TokenPrint, lexer.TokenReturn:
			return
		}
		c.advance()
	}
}

// ---- bytecode emission ----

func (c *Compiler) chunk() *bytecode.Chunk { return c.fn.function.Chunk }

func (c *Compiler) emitByte(b byte) int { return c.chunk().WriteByte(b, c.previous.Line) }
func (c *Compiler) emitOp(op bytecode.OpCode) int {
	return c.chunk().WriteOp(op, c.previous.Line)
}
func (c *Compiler) emitOpByte(op bytecode.OpCode, b byte) {
	c.emitOp(op)
	c.emitByte(b)
}

func (c *Compiler) emitReturn() {
	c.emitOp(bytecode.OpNil)
	c.emitOp(bytecode.OpReturn)
}

func (c *Compiler) makeConstant(v value.Value) byte {
	idx, err := c.chunk().AddConstant(v)
	if err != nil {
		c.error(err.Error())
		return 0
	}
	return byte(idx)
}

func (c *Compiler) emitConstant(v value.Value) {
	c.emitOpByte(bytecode.OpConstant, c.makeConstant(v))
}

func (c *Compiler) emitJump(op bytecode.OpCode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return len(c.chunk().Code) - 2
}

func (c *Compiler) patchJump(offset int) {
	jump := len(c.chunk().Code) - offset - 2
	if jump > 0xffff {
		c.error("Too much code to jump over.")
		return
	}
	c.chunk().Code[offset] = byte((jump >> 8) & 0xff)
	c.chunk().Code[offset+1] = byte(jump & 0xff)
}

func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(bytecode.OpLoop)
	offset := len(c.chunk().Code) - loopStart + 2
	if offset > 0xffff {
		c.error("Loop body too large.")
	}
	c.emitByte(byte((offset >> 8) & 0xff))
	c.emitByte(byte(offset & 0xff))
}

// ---- literals ----

func (c *Compiler) number(canAssign bool) {
	n, _ := strconv.ParseFloat(c.previous.Lexeme, 64)
	c.emitConstant(value.Number(n))
}

func (c *Compiler) stringLit(canAssign bool) {
	s := c.previous.Lexeme
	c.emitConstant(value.String(strings.Trim(s, "\"")))
}

func (c *Compiler) literal(canAssign bool) {
	switch c.previous.Type {
	case lexer.TokenFalse:
		c.emitOp(bytecode.OpFalse)
	case lexer.TokenTrue:
		c.emitOp(bytecode.OpTrue)
	case lexer.TokenNil:
		c.emitOp(bytecode.OpNil)
	}
}

func (c *Compiler) grouping(canAssign bool) {
	c.expression()
	c.consume(lexer.TokenRightParen, "Expect ')' after expression.")
}

func (c *Compiler) unary(canAssign bool) {
	op := c.previous.Type
	c.parsePrecedence(PrecUnary)
	switch op {
	case lexer.TokenBang:
		c.emitOp(bytecode.OpNot)
	case lexer.TokenMinus:
		c.emitOp(bytecode.OpNegate)
	}
}

func (c *Compiler) binary(canAssign bool) {
	op := c.previous.Type
	rule := getRule(op)
	c.parsePrecedence(rule.precedence + 1)
	switch op {
	case lexer.TokenPlus:
		c.emitOp(bytecode.OpAdd)
	case lexer.TokenMinus:
		c.emitOp(bytecode.OpSubtract)
	case lexer.TokenStar:
		c.emitOp(bytecode.OpMultiply)
	case lexer.TokenSlash:
		c.emitOp(bytecode.OpDivide)
	case lexer.TokenBangEqual:
		c.emitOp(bytecode.OpEqual)
		c.emitOp(bytecode.OpNot)
	case lexer.TokenEqualEqual:
		c.emitOp(bytecode.OpEqual)
	case lexer.TokenGreater:
		c.emitOp(bytecode.OpGreater)
	case lexer.TokenGreaterEq:
		c.emitOp(bytecode.OpLess)
		c.emitOp(bytecode.OpNot)
	case lexer.TokenLess:
		c.emitOp(bytecode.OpLess)
	case lexer.TokenLessEq:
		c.emitOp(bytecode.OpGreater)
		c.emitOp(bytecode.OpNot)
	}
}

func (c *Compiler) and(canAssign bool) {
	endJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

func (c *Compiler) or(canAssign bool) {
	elseJump := c.emitJump(bytecode.OpJumpIfFalse)
	endJump := c.emitJump(bytecode.OpJump)
	c.patchJump(elseJump)
	c.emitOp(bytecode.OpPop)
	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func (c *Compiler) call(canAssign bool) {
	argc := c.argumentList()
	c.emitOpByte(bytecode.OpCall, argc)
}

func (c *Compiler) argumentList() byte {
	var argc int
	if !c.check(lexer.TokenRightParen) {
		for {
			c.expression()
			if argc == 255 {
				c.error("Can't have more than 255 arguments/parameters.")
			}
			argc++
			if !c.match(lexer.TokenComma) {
				break
			}
		}
	}
	c.consume(lexer.TokenRightParen, "Expect ')' after arguments.")
	return byte(argc)
}

// ---- expressions ----

func (c *Compiler) expression() { c.parsePrecedence(PrecAssignment) }

func (c *Compiler) parsePrecedence(prec Precedence) {
	c.advance()
	prefix := getRule(c.previous.Type).prefix
	if prefix == nil {
		c.error("Expect expression.")
		return
	}
	canAssign := prec <= PrecAssignment
	prefix(c, canAssign)

	for prec <= getRule(c.current.Type).precedence {
		c.advance()
		infix := getRule(c.previous.Type).infix
		infix(c, canAssign)
	}

	if canAssign && c.match(lexer.TokenEqual) {
		c.error("Invalid assignment target.")
	}
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

func (c *Compiler) namedVariable(tok lexer.Token, canAssign bool) {
	var getOp, setOp bytecode.OpCode
	arg, kind := c.resolveVariable(tok.Lexeme)
	switch kind {
	case varLocal:
		getOp, setOp = bytecode.OpGetLocal, bytecode.OpSetLocal
	case varUpvalue:
		getOp, setOp = bytecode.OpGetUpvalue, bytecode.OpSetUpvalue
	default:
		getOp, setOp = bytecode.OpGetGlobal, bytecode.OpSetGlobal
		arg = int(c.makeConstant(value.String(tok.Lexeme)))
	}

	if canAssign && c.match(lexer.TokenEqual) {
		c.expression()
		c.emitOpByte(setOp, byte(arg))
	} else {
		c.emitOpByte(getOp, byte(arg))
	}
}

type varKind int

const (
	varGlobal varKind = iota
	varLocal
	varUpvalue
)

// resolveVariable implements spec.md's resolve(x) walk: locals, then
// upvalues (possibly through several enclosing functions), then global.
func (c *Compiler) resolveVariable(name string) (int, varKind) {
	if idx := c.resolveLocal(c.fn, name); idx != -1 {
		return idx, varLocal
	}
	if idx := c.resolveUpvalue(c.fn, name); idx != -1 {
		return idx, varUpvalue
	}
	return -1, varGlobal
}

func (c *Compiler) resolveLocal(fs *funcState, name string) int {
	for i := len(fs.locals) - 1; i >= 0; i-- {
		if fs.locals[i].name == name {
			if fs.locals[i].depth == -1 {
				c.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

func (c *Compiler) resolveUpvalue(fs *funcState, name string) int {
	if fs.enclosing == nil {
		return -1
	}
	if idx := c.resolveLocal(fs.enclosing, name); idx != -1 {
		fs.enclosing.locals[idx].isCaptured = true
		return c.addUpvalue(fs, idx, true)
	}
	if idx := c.resolveUpvalue(fs.enclosing, name); idx != -1 {
		return c.addUpvalue(fs, idx, false)
	}
	return -1
}

func (c *Compiler) addUpvalue(fs *funcState, index int, isLocal bool) int {
	for i, u := range fs.upvalues {
		if u.index == index && u.isLocal == isLocal {
			return i
		}
	}
	if len(fs.upvalues) >= maxUpvalues {
		c.error("Too many closure variables in function.")
		return 0
	}
	fs.upvalues = append(fs.upvalues, upvalueRef{index: index, isLocal: isLocal})
	return len(fs.upvalues) - 1
}
