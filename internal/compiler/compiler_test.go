package compiler_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rslox/internal/compiler"
	"rslox/internal/rerr"
)

func TestCompileValidProgram(t *testing.T) {
	fn, errs := compiler.Compile(`print 1 + 2;`)
	require.Empty(t, errs)
	require.NotNil(t, fn)
	assert.Equal(t, "", fn.Name)
}

func TestCompileErrorReportsLineAndLexeme(t *testing.T) {
	_, errs := compiler.Compile("var a = ;\n")
	require.NotEmpty(t, errs)
	assert.Equal(t, rerr.CompileError, errs[0].Kind)
	assert.Equal(t, 1, errs[0].Line)
	assert.Equal(t, ";", errs[0].Lexeme)
}

func TestReturnAtTopLevelIsCompileError(t *testing.T) {
	_, errs := compiler.Compile(`return 1;`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "Can't return from top-level code.")
}

func TestReadingLocalInItsOwnInitializerIsCompileError(t *testing.T) {
	_, errs := compiler.Compile(`{ var a = a; }`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "own initializer")
}

func TestRedeclaringLocalInSameScopeIsCompileError(t *testing.T) {
	_, errs := compiler.Compile(`{ var a = 1; var a = 2; }`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "Already a variable with this name in this scope.")
}

func TestSynchronizeReportsMultipleErrorsInOnePass(t *testing.T) {
	_, errs := compiler.Compile(`
		var a = ;
		var b = ;
	`)
	require.Len(t, errs, 2)
}

func TestTooManyConstantsIsCompileError(t *testing.T) {
	var src strings.Builder
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&src, "print %d;\n", i)
	}
	_, errs := compiler.Compile(src.String())
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "Too many constants in one chunk.")
}

func TestTooManyLocalsIsCompileError(t *testing.T) {
	var src strings.Builder
	src.WriteString("{\n")
	for i := 0; i < 260; i++ {
		fmt.Fprintf(&src, "var v%d = %d;\n", i, i)
	}
	src.WriteString("}\n")
	_, errs := compiler.Compile(src.String())
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "Too many local variables in function.")
}

func TestTooManyArgumentsIsCompileError(t *testing.T) {
	var args strings.Builder
	for i := 0; i < 256; i++ {
		if i > 0 {
			args.WriteString(", ")
		}
		args.WriteString("nil")
	}
	src := fmt.Sprintf("fun f() {}\nf(%s);\n", args.String())
	_, errs := compiler.Compile(src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "Can't have more than 255 arguments/parameters.")
}
