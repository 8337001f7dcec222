package value

import (
	"fmt"

	"rslox/internal/bytecode"
)

// Function is a compiled function body: immutable once the compiler finishes
// with it. It is never itself callable — the VM always wraps it in a
// Closure before invoking it (see OpClosure).
type Function struct {
	Name          string
	Arity         int
	UpvalueCount  int
	Chunk         *bytecode.Chunk
}

func (f *Function) String() string {
	if f.Name == "" {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name)
}
func (*Function) Type() string { return "function" }

// Closure pairs a compiled Function with the upvalue cells it captured at
// creation time. length(Upvalues) == Function.UpvalueCount always holds.
type Closure struct {
	Function *Function
	Upvalues []*Upvalue
}

func (c *Closure) String() string { return c.Function.String() }
func (*Closure) Type() string     { return "closure" }

// Native is a host-implemented callable with fixed arity.
type Native struct {
	Name  string
	Arity int
	Fn    func(args []Value) (Value, error)
}

func (n *Native) String() string { return fmt.Sprintf("<native fn %s>", n.Name) }
func (*Native) Type() string     { return "native" }

// Upvalue is a runtime capture cell. While open, Location points at the
// stack slot it captured and Closed is unused; close migrates the value out
// of the stack into Closed and Location is set to &Closed.
type Upvalue struct {
	Location *Value
	Closed   Value
	// StackSlot is the absolute stack index this cell captured, used only to
	// order and find open upvalues; meaningless once the cell is closed.
	StackSlot int
	open      bool
}

// NewOpenUpvalue returns an upvalue capturing the stack slot at loc.
func NewOpenUpvalue(loc *Value, slot int) *Upvalue {
	return &Upvalue{Location: loc, StackSlot: slot, open: true}
}

// IsOpen reports whether the cell still targets a live stack slot.
func (u *Upvalue) IsOpen() bool { return u.open }

// Close migrates the current value of the cell off the stack.
func (u *Upvalue) Close() {
	u.Closed = *u.Location
	u.Location = &u.Closed
	u.open = false
}

// Get reads the upvalue's current value, open or closed.
func (u *Upvalue) Get() Value { return *u.Location }

// Set writes the upvalue's current value, open or closed.
func (u *Upvalue) Set(v Value) { *u.Location = v }

func (u *Upvalue) String() string { return fmt.Sprintf("upvalue(%s)", u.Get().String()) }
func (*Upvalue) Type() string     { return "upvalue" }
