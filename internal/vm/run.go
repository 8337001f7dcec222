package vm

import (
	"fmt"

	"rslox/internal/bytecode"
	"rslox/internal/rerr"
	"rslox/internal/value"
)

func (vm *VM) readByte() byte {
	frame := &vm.frames[vm.frameCount-1]
	b := vm.currentChunk().Code[frame.ip]
	frame.ip++
	return b
}

func (vm *VM) readShort() int {
	hi := vm.readByte()
	lo := vm.readByte()
	return int(hi)<<8 | int(lo)
}

func (vm *VM) readConstant() value.Value {
	idx := vm.readByte()
	return vm.currentChunk().Constants[idx].(value.Value)
}

func (vm *VM) readString() string {
	return string(vm.readConstant().(value.String))
}

// run is the dispatch loop. It returns nil on a clean top-level return and
// a *rerr.Error (already reset) on a runtime fault.
func (vm *VM) run() *rerr.Error {
	for {
		frame := &vm.frames[vm.frameCount-1]
		op := bytecode.OpCode(vm.readByte())

		switch op {
		case bytecode.OpConstant:
			vm.push(vm.readConstant())

		case bytecode.OpNil:
			vm.push(value.None)
		case bytecode.OpTrue:
			vm.push(value.Bool(true))
		case bytecode.OpFalse:
			vm.push(value.Bool(false))

		case bytecode.OpPop:
			vm.pop()

		case bytecode.OpGetLocal:
			slot := int(vm.readByte())
			vm.push(vm.stack[frame.base+slot])
		case bytecode.OpSetLocal:
			slot := int(vm.readByte())
			vm.stack[frame.base+slot] = vm.peek(0)

		case bytecode.OpGetGlobal:
			name := vm.readString()
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError("Undefined variable '%s'", name)
			}
			vm.push(v)
		case bytecode.OpSetGlobal:
			name := vm.readString()
			if _, ok := vm.globals.Get(name); !ok {
				return vm.runtimeError("Undefined variable '%s'", name)
			}
			vm.globals.Put(name, vm.peek(0))
		case bytecode.OpDefineGlobal:
			name := vm.readString()
			vm.globals.Put(name, vm.pop())

		case bytecode.OpGetUpvalue:
			slot := int(vm.readByte())
			vm.push(frame.closure.Upvalues[slot].Get())
		case bytecode.OpSetUpvalue:
			slot := int(vm.readByte())
			frame.closure.Upvalues[slot].Set(vm.peek(0))

		case bytecode.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))
		case bytecode.OpGreater:
			if err := vm.compare(func(a, b float64) bool { return a > b }, func(a, b string) bool { return a > b }); err != nil {
				return err
			}
		case bytecode.OpLess:
			if err := vm.compare(func(a, b float64) bool { return a < b }, func(a, b string) bool { return a < b }); err != nil {
				return err
			}

		case bytecode.OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case bytecode.OpSubtract:
			if err := vm.arith(func(a, b float64) float64 { return a - b }); err != nil {
				return err
			}
		case bytecode.OpMultiply:
			if err := vm.arith(func(a, b float64) float64 { return a * b }); err != nil {
				return err
			}
		case bytecode.OpDivide:
			if err := vm.arith(func(a, b float64) float64 { return a / b }); err != nil {
				return err
			}

		case bytecode.OpNot:
			vm.push(value.Bool(!value.Truthy(vm.pop())))
		case bytecode.OpNegate:
			n, ok := vm.peek(0).(value.Number)
			if !ok {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.pop()
			vm.push(-n)

		case bytecode.OpPrint:
			fmt.Fprintln(vm.Stdout, vm.pop().String())

		case bytecode.OpJump:
			offset := vm.readShort()
			frame.ip += offset
		case bytecode.OpJumpIfFalse:
			offset := vm.readShort()
			if !value.Truthy(vm.peek(0)) {
				frame.ip += offset
			}
		case bytecode.OpLoop:
			offset := vm.readShort()
			frame.ip -= offset

		case bytecode.OpCall:
			argCount := int(vm.readByte())
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return err
			}

		case bytecode.OpClosure:
			fn := vm.readConstant().(*value.Function)
			closure := &value.Closure{Function: fn, Upvalues: make([]*value.Upvalue, fn.UpvalueCount)}
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := vm.readByte() == 1
				index := int(vm.readByte())
				if isLocal {
					closure.Upvalues[i] = vm.captureUpvalue(frame.base + index)
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}
			vm.push(closure)

		case bytecode.OpCloseUpvalue:
			vm.closeUpvalues(vm.stackTop - 1)
			vm.pop()

		case bytecode.OpReturn:
			result := vm.pop()
			vm.closeUpvalues(frame.base)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop()
				return nil
			}
			vm.stackTop = frame.base
			vm.push(result)
		}
	}
}

func (vm *VM) add() *rerr.Error {
	b, bOk := vm.peek(0).(value.Number)
	a, aOk := vm.peek(1).(value.Number)
	if aOk && bOk {
		vm.pop()
		vm.pop()
		vm.push(a + b)
		return nil
	}
	bs, bsOk := vm.peek(0).(value.String)
	as, asOk := vm.peek(1).(value.String)
	if asOk && bsOk {
		vm.pop()
		vm.pop()
		vm.push(as + bs)
		return nil
	}
	return vm.runtimeError("Operands must be numbers.")
}

func (vm *VM) arith(op func(a, b float64) float64) *rerr.Error {
	b, bOk := vm.peek(0).(value.Number)
	a, aOk := vm.peek(1).(value.Number)
	if !aOk || !bOk {
		return vm.runtimeError("Operands must be numbers.")
	}
	vm.pop()
	vm.pop()
	vm.push(value.Number(op(float64(a), float64(b))))
	return nil
}

func (vm *VM) compare(numOp func(a, b float64) bool, strOp func(a, b string) bool) *rerr.Error {
	b, bOk := vm.peek(0).(value.Number)
	a, aOk := vm.peek(1).(value.Number)
	if aOk && bOk {
		vm.pop()
		vm.pop()
		vm.push(value.Bool(numOp(float64(a), float64(b))))
		return nil
	}
	bs, bsOk := vm.peek(0).(value.String)
	as, asOk := vm.peek(1).(value.String)
	if asOk && bsOk {
		vm.pop()
		vm.pop()
		vm.push(value.Bool(strOp(string(as), string(bs))))
		return nil
	}
	return vm.runtimeError("Operands must be numbers.")
}
