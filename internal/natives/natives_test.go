package natives_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rslox/internal/natives"
	"rslox/internal/value"
)

type fakeVM struct {
	globals map[string]value.Value
}

func newFakeVM() *fakeVM { return &fakeVM{globals: map[string]value.Value{}} }

func (f *fakeVM) DefineGlobal(name string, v value.Value) { f.globals[name] = v }

func (f *fakeVM) native(t *testing.T, name string) *value.Native {
	t.Helper()
	n, ok := f.globals[name].(*value.Native)
	require.True(t, ok, "expected %s to be registered as a native", name)
	return n
}

func TestInstallRegistersCoreAndDomainNatives(t *testing.T) {
	vm := newFakeVM()
	natives.Install(vm)

	for _, name := range []string{
		"clock", "sqrt", "uuid", "hash", "hashVerify",
		"humanBytes", "humanComma", "isTTY",
		"dbOpen", "dbQuery", "dbClose",
		"wsDial", "wsSend", "wsRecv", "wsClose",
	} {
		assert.Contains(t, vm.globals, name)
	}
}

func TestSqrtNative(t *testing.T) {
	vm := newFakeVM()
	natives.Install(vm)
	n := vm.native(t, "sqrt")

	result, err := n.Fn([]value.Value{value.Number(9)})
	require.NoError(t, err)
	assert.Equal(t, value.Number(3), result)
}

func TestSqrtNativeRejectsNonNumber(t *testing.T) {
	vm := newFakeVM()
	natives.Install(vm)
	n := vm.native(t, "sqrt")

	_, err := n.Fn([]value.Value{value.String("nope")})
	require.Error(t, err)
}

func TestUUIDNativeProducesDistinctValues(t *testing.T) {
	vm := newFakeVM()
	natives.Install(vm)
	n := vm.native(t, "uuid")

	a, err := n.Fn(nil)
	require.NoError(t, err)
	b, err := n.Fn(nil)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashAndHashVerifyRoundTrip(t *testing.T) {
	vm := newFakeVM()
	natives.Install(vm)
	hashFn := vm.native(t, "hash")
	verifyFn := vm.native(t, "hashVerify")

	hashed, err := hashFn.Fn([]value.Value{value.String("correct horse")})
	require.NoError(t, err)

	ok, err := verifyFn.Fn([]value.Value{hashed, value.String("correct horse")})
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), ok)

	ok, err = verifyFn.Fn([]value.Value{hashed, value.String("wrong")})
	require.NoError(t, err)
	assert.Equal(t, value.Bool(false), ok)
}

func TestHumanCommaNative(t *testing.T) {
	vm := newFakeVM()
	natives.Install(vm)
	n := vm.native(t, "humanComma")

	result, err := n.Fn([]value.Value{value.Number(1234567)})
	require.NoError(t, err)
	assert.Equal(t, value.String("1,234,567"), result)
}

func TestHumanBytesNative(t *testing.T) {
	vm := newFakeVM()
	natives.Install(vm)
	n := vm.native(t, "humanBytes")

	result, err := n.Fn([]value.Value{value.Number(2048)})
	require.NoError(t, err)
	assert.Equal(t, value.String("2.0 kB"), result)
}
