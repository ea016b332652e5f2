package codegen

import (
	"strconv"

	"tacc/internal/ir"
)

// inRegister reports the register a Local was assigned, if any.
func (c *ctx) inRegister(id ir.LocalId) (Reg, bool) {
	if c.alloc == nil {
		return "", false
	}
	colorIdx, ok := c.alloc.InRegister(id)
	if !ok {
		return "", false
	}
	return AllocatableRegisters[colorIdx], true
}

// home returns the sized assembly operand for a Local: its register
// view if regalloc placed it in one, else its stack slot.
func (c *ctx) home(l ir.Local) string {
	if r, ok := c.inRegister(l.Id); ok {
		return sized(r, l.Type.Size())
	}
	return c.layout.StackHome(l.Id)
}

// operand renders an RValue as an assembly operand: an immediate
// becomes "$N", a Local becomes its home.
func (c *ctx) operand(v ir.RValue) string {
	if v.IsImmediate() {
		return "$" + strconv.FormatInt(v.Imm.Truncated(), 10)
	}
	return c.home(v.Local)
}
