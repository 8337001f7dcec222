// Package natives is the host-implemented native function bridge: it
// installs Native values into a VM's globals table. clock and sqrt are the
// two builtins spec.md fixes; the rest is the expanded native surface
// SPEC_FULL.md grounds on the teacher's own dependency stack.
package natives

import (
	"fmt"
	"math"
	"time"

	"rslox/internal/value"
)

// vmGlobals is the minimal surface natives.Install needs from a VM, kept
// narrow so this package never imports package vm's internals.
type vmGlobals interface {
	DefineGlobal(name string, v value.Value)
}

func native(name string, arity int, fn func(args []value.Value) (value.Value, error)) *value.Native {
	return &value.Native{Name: name, Arity: arity, Fn: fn}
}

// Install registers the core natives (clock, sqrt) plus the domain natives
// described in SPEC_FULL.md §4.9: uuid generation, password hashing, number
// formatting, SQL and WebSocket clients, and a TTY probe for the REPL.
func Install(vm vmGlobals) {
	vm.DefineGlobal("clock", native("clock", 0, nativeClock))
	vm.DefineGlobal("sqrt", native("sqrt", 1, nativeSqrt))

	vm.DefineGlobal("uuid", native("uuid", 0, nativeUUID))

	vm.DefineGlobal("hash", native("hash", 1, nativeHash))
	vm.DefineGlobal("hashVerify", native("hashVerify", 2, nativeHashVerify))

	vm.DefineGlobal("humanBytes", native("humanBytes", 1, nativeHumanBytes))
	vm.DefineGlobal("humanComma", native("humanComma", 1, nativeHumanComma))

	vm.DefineGlobal("isTTY", native("isTTY", 0, nativeIsTTY))

	vm.DefineGlobal("dbOpen", native("dbOpen", 2, nativeDBOpen))
	vm.DefineGlobal("dbQuery", native("dbQuery", 2, nativeDBQuery))
	vm.DefineGlobal("dbClose", native("dbClose", 1, nativeDBClose))

	vm.DefineGlobal("wsDial", native("wsDial", 1, nativeWSDial))
	vm.DefineGlobal("wsSend", native("wsSend", 2, nativeWSSend))
	vm.DefineGlobal("wsRecv", native("wsRecv", 1, nativeWSRecv))
	vm.DefineGlobal("wsClose", native("wsClose", 1, nativeWSClose))
}

func nativeClock(args []value.Value) (value.Value, error) {
	return value.Number(float64(time.Now().UnixNano()) / float64(time.Millisecond)), nil
}

func nativeSqrt(args []value.Value) (value.Value, error) {
	n, ok := args[0].(value.Number)
	if !ok {
		return nil, fmt.Errorf("sqrt() expects a number")
	}
	return value.Number(math.Sqrt(float64(n))), nil
}

func wantNumber(v value.Value, ctx string) (float64, error) {
	n, ok := v.(value.Number)
	if !ok {
		return 0, fmt.Errorf("%s expects a number", ctx)
	}
	return float64(n), nil
}

func wantString(v value.Value, ctx string) (string, error) {
	s, ok := v.(value.String)
	if !ok {
		return "", fmt.Errorf("%s expects a string", ctx)
	}
	return string(s), nil
}
