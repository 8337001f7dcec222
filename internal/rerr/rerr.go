// Package rerr is the structured compile/runtime error type shared by the
// compiler and the VM, grounded on the teacher's internal/errors package but
// narrowed to the two error taxa this specification defines.
package rerr

import (
	"fmt"
	"strings"
)

// Kind distinguishes the two error taxa defined by the specification.
type Kind string

const (
	CompileError Kind = "CompileError"
	RuntimeError Kind = "RuntimeError"
)

// Frame is one entry of a runtime stack trace, innermost first.
type Frame struct {
	Function string
	Line     int
}

// Error is a compile-time or runtime diagnostic with enough context to
// render the wording fixed by the specification.
type Error struct {
	Kind    Kind
	Message string
	Line    int
	// Lexeme and AtEnd describe where a compile error was reported; AtEnd is
	// set when the error was reported at the EOF token.
	Lexeme string
	AtEnd  bool
	// Frames is populated only for runtime errors, innermost call first.
	Frames []Frame
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Kind == CompileError {
		where := fmt.Sprintf("at '%s'", e.Lexeme)
		if e.AtEnd {
			where = "at end"
		}
		fmt.Fprintf(&sb, "[line %d] Error %s: %s", e.Line, where, e.Message)
		return sb.String()
	}
	sb.WriteString(e.Message)
	for _, f := range e.Frames {
		name := f.Function
		if name == "" {
			name = "script"
		}
		fmt.Fprintf(&sb, "\n[line %d] in %s", f.Line, name)
	}
	return sb.String()
}

// NewCompile builds a compile-time error for the token at line/lexeme.
func NewCompile(line int, lexeme string, atEnd bool, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    CompileError,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Lexeme:  lexeme,
		AtEnd:   atEnd,
	}
}

// NewRuntime builds a runtime error with no stack trace yet attached; the VM
// appends frames as it unwinds.
func NewRuntime(format string, args ...interface{}) *Error {
	return &Error{Kind: RuntimeError, Message: fmt.Sprintf(format, args...)}
}
