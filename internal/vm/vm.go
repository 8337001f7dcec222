// Package vm is the stack-based bytecode interpreter: call frames, the
// globals table, upvalue lifetime management and runtime error reporting.
// Grounded on the teacher's EnhancedVM call-frame model in
// internal/vm/vm.go, narrowed to the closure-capturing stack machine this
// specification defines.
package vm

import (
	"io"
	"os"

	"github.com/dolthub/swiss"

	"rslox/internal/bytecode"
	"rslox/internal/compiler"
	"rslox/internal/rerr"
	"rslox/internal/value"
)

const (
	framesMax = 64
	stackMax  = framesMax * 256
)

// CallFrame is a single invocation record: the active closure, its
// instruction pointer, and the stack index of its slot 0.
type CallFrame struct {
	closure *value.Closure
	ip      int
	base    int
}

// VM is the interpreter's complete execution state. The stack and frame
// array are fixed-size so that an open Upvalue's *Value pointer into the
// stack stays valid for the VM's lifetime.
type VM struct {
	stack    [stackMax]value.Value
	stackTop int

	frames     [framesMax]CallFrame
	frameCount int

	globals *swiss.Map[string, value.Value]

	openUpvalues []*value.Upvalue

	Stdout io.Writer
}

// New returns a VM with an empty globals table.
func New() *VM {
	return &VM{
		globals: swiss.NewMap[string, value.Value](64),
		Stdout:  os.Stdout,
	}
}

// DefineGlobal installs name into the globals table, overwriting any prior
// binding. Used by the native bridge and the REPL/CLI driver.
func (vm *VM) DefineGlobal(name string, v value.Value) {
	vm.globals.Put(name, v)
}

func (vm *VM) push(v value.Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

func (vm *VM) resetStack() {
	vm.stackTop = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
}

// Interpret compiles and runs source against this VM's existing globals
// table, so successive REPL lines see each other's top-level declarations.
func (vm *VM) Interpret(source string) *rerr.Error {
	fn, errs := compiler.Compile(source)
	if len(errs) > 0 {
		return errs[0]
	}

	closure := &value.Closure{Function: fn}
	vm.push(closure)
	vm.call(closure, 0)

	return vm.run()
}

func (vm *VM) call(closure *value.Closure, argCount int) *rerr.Error {
	if argCount != closure.Function.Arity {
		return vm.runtimeError("Expected %d arguments but got %d.", closure.Function.Arity, argCount)
	}
	if vm.frameCount >= framesMax {
		return vm.runtimeError("Stack overflow.")
	}
	vm.frames[vm.frameCount] = CallFrame{
		closure: closure,
		base:    vm.stackTop - argCount - 1,
	}
	vm.frameCount++
	return nil
}

func (vm *VM) callValue(callee value.Value, argCount int) *rerr.Error {
	switch fn := callee.(type) {
	case *value.Closure:
		return vm.call(fn, argCount)
	case *value.Native:
		if argCount != fn.Arity {
			return vm.runtimeError("Expected %d arguments but got %d.", fn.Arity, argCount)
		}
		args := vm.stack[vm.stackTop-argCount : vm.stackTop]
		result, err := fn.Fn(args)
		if err != nil {
			return vm.runtimeError("%s", err.Error())
		}
		vm.stackTop -= argCount + 1
		vm.push(result)
		return nil
	default:
		return vm.runtimeError("Can only call functions and classes.")
	}
}

// captureUpvalue returns the open upvalue for absolute stack slot, reusing
// an existing open cell if one already targets that slot.
func (vm *VM) captureUpvalue(slot int) *value.Upvalue {
	for _, uv := range vm.openUpvalues {
		if uv.StackSlot == slot {
			return uv
		}
	}
	created := value.NewOpenUpvalue(&vm.stack[slot], slot)

	i := 0
	for i < len(vm.openUpvalues) && vm.openUpvalues[i].StackSlot > slot {
		i++
	}
	vm.openUpvalues = append(vm.openUpvalues, nil)
	copy(vm.openUpvalues[i+1:], vm.openUpvalues[i:])
	vm.openUpvalues[i] = created
	return created
}

// closeUpvalues closes every open upvalue at or above the absolute stack
// slot last, migrating each one's value off the stack.
func (vm *VM) closeUpvalues(last int) {
	i := 0
	for i < len(vm.openUpvalues) && vm.openUpvalues[i].StackSlot >= last {
		vm.openUpvalues[i].Close()
		i++
	}
	vm.openUpvalues = vm.openUpvalues[i:]
}

func (vm *VM) runtimeError(format string, args ...interface{}) *rerr.Error {
	err := rerr.NewRuntime(format, args...)
	for i := vm.frameCount - 1; i >= 0; i-- {
		frame := &vm.frames[i]
		fn := frame.closure.Function
		line := fn.Chunk.Line(frame.ip - 1)
		err.Frames = append(err.Frames, rerr.Frame{Function: fn.Name, Line: line})
	}
	vm.resetStack()
	return err
}

func (vm *VM) currentChunk() *bytecode.Chunk {
	return vm.frames[vm.frameCount-1].closure.Function.Chunk
}
