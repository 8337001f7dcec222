package compiler

import "rslox/internal/lexer"

// Precedence levels, ascending. Grounded on the teacher's expression-rule
// table idiom, generalized into the canonical Pratt ladder this
// specification fixes.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

var rules map[lexer.TokenType]parseRule

func init() {
	rules = map[lexer.TokenType]parseRule{
		lexer.TokenLeftParen:  {prefix: (*Compiler).grouping, infix: (*Compiler).call, precedence: PrecCall},
		lexer.TokenMinus:      {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm},
		lexer.TokenPlus:       {infix: (*Compiler).binary, precedence: PrecTerm},
		lexer.TokenSlash:      {infix: (*Compiler).binary, precedence: PrecFactor},
		lexer.TokenStar:       {infix: (*Compiler).binary, precedence: PrecFactor},
		lexer.TokenBang:       {prefix: (*Compiler).unary},
		lexer.TokenBangEqual:  {infix: (*Compiler).binary, precedence: PrecEquality},
		lexer.TokenEqualEqual: {infix: (*Compiler).binary, precedence: PrecEquality},
		lexer.TokenGreater:    {infix: (*Compiler).binary, precedence: PrecComparison},
		lexer.TokenGreaterEq:  {infix: (*Compiler).binary, precedence: PrecComparison},
		lexer.TokenLess:       {infix: (*Compiler).binary, precedence: PrecComparison},
		lexer.TokenLessEq:     {infix: (*Compiler).binary, precedence: PrecComparison},
		lexer.TokenIdentifier: {prefix: (*Compiler).variable},
		lexer.TokenString:     {prefix: (*Compiler).stringLit},
		lexer.TokenNumber:     {prefix: (*Compiler).number},
		lexer.TokenAnd:        {infix: (*Compiler).and, precedence: PrecAnd},
		lexer.TokenOr:         {infix: (*Compiler).or, precedence: PrecOr},
		lexer.TokenFalse:      {prefix: (*Compiler).literal},
		lexer.TokenTrue:       {prefix: (*Compiler).literal},
		lexer.TokenNil:        {prefix: (*Compiler).literal},
	}
}

func getRule(t lexer.TokenType) parseRule {
	return rules[t]
}
