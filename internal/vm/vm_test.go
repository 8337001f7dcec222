package vm_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rslox/internal/vm"
)

func run(t *testing.T, source string) (string, error) {
	t.Helper()
	var out strings.Builder
	machine := vm.New()
	machine.Stdout = &out
	if err := machine.Interpret(source); err != nil {
		return out.String(), err
	}
	return out.String(), nil
}

func TestArithmeticAndPrint(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestGlobalsAndComparison(t *testing.T) {
	out, err := run(t, `
		var a = 1;
		var b = 2;
		print a < b;
		a = 3;
		print a > b;
	`)
	require.NoError(t, err)
	assert.Equal(t, "true\ntrue\n", out)
}

func TestStringConcatAndEquality(t *testing.T) {
	out, err := run(t, `
		var greeting = "hello" + " " + "world";
		print greeting;
		print greeting == "hello world";
		print greeting == 1;
	`)
	require.NoError(t, err)
	assert.Equal(t, "hello world\ntrue\nfalse\n", out)
}

func TestControlFlowForLoop(t *testing.T) {
	out, err := run(t, `
		var s = 0;
		for (var i = 1; i <= 5; i = i + 1) {
			s = s + i;
		}
		print s;
	`)
	require.NoError(t, err)
	assert.Equal(t, "15\n", out)
}

func TestClosureCapturesMutableState(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var count = 0;
			fun inc() {
				count = count + 1;
				return count;
			}
			return inc;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestSharedUpvalueAcrossTwoClosures(t *testing.T) {
	out, err := run(t, `
		fun make() {
			var value = 0;
			fun get() { return value; }
			fun set(v) { value = v; }
			fun pair(i) {
				if (i == 0) return get;
				return set;
			}
			return pair;
		}
		var pair = make();
		var get = pair(0);
		var set = pair(1);
		set(42);
		print get();
	`)
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestRuntimeErrorStackTrace(t *testing.T) {
	_, err := run(t, `
		fun a() {
			b();
		}
		fun b() {
			var x = "x" + 1;
		}
		a();
	`)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "[line 6] in b")
	assert.Contains(t, msg, "[line 3] in a")
	assert.Contains(t, msg, "[line 8] in script")
}

func TestTruthinessOnlyNilAndFalseAreFalsey(t *testing.T) {
	out, err := run(t, `
		if (0) print "zero is truthy"; else print "zero is falsey";
		if ("") print "empty string is truthy"; else print "empty string is falsey";
		if (nil) print "nil is truthy"; else print "nil is falsey";
		if (false) print "false is truthy"; else print "false is falsey";
	`)
	require.NoError(t, err)
	assert.Equal(t, "zero is truthy\nempty string is truthy\nnil is falsey\nfalse is falsey\n", out)
}

func TestUndefinedGlobalAssignmentIsRuntimeError(t *testing.T) {
	_, err := run(t, `nope = 1;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'nope'")
}

func TestReplPersistsGlobalsAcrossInterpretCalls(t *testing.T) {
	machine := vm.New()
	var out strings.Builder
	machine.Stdout = &out

	require.Nil(t, machine.Interpret(`var a = 1;`))
	require.Nil(t, machine.Interpret(`print a;`))
	assert.Equal(t, "1\n", out.String())
}
