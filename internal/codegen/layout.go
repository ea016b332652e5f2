package codegen

import (
	"strconv"

	"tacc/internal/ir"
	"tacc/internal/regalloc"
)

const slotSize = 8

// Layout is the stack-frame shape computed for one function: which
// Locals live in a stack slot rather than a register, and which
// callee-saved registers the function must save/restore because
// regalloc handed them out (spec.md §4.15 "Prologue").
type Layout struct {
	Offset      map[ir.LocalId]int // rbp-relative byte offset, negative
	FrameSize   int                // bytes subtracted from rsp after rbp is set
	CalleeSaved []Reg              // in push order; popped in reverse
}

// ComputeLayout assigns a stack slot to every Local that alloc did not
// place in a register. alloc may be nil, meaning every Local is
// spilled (the -O0 path, spec.md §6 "-O0 disables ... register
// allocation; every Local is spilled").
func ComputeLayout(f *ir.Function, alloc *regalloc.Result) *Layout {
	l := &Layout{Offset: map[ir.LocalId]int{}}

	offset := 0
	for id := 0; id < len(f.Locals); id++ {
		lid := ir.LocalId(id)
		if alloc != nil {
			if _, ok := alloc.InRegister(lid); ok {
				continue
			}
		}
		offset -= slotSize
		l.Offset[lid] = offset
	}
	l.FrameSize = -offset

	if alloc != nil {
		used := map[Reg]bool{}
		for _, colorIdx := range alloc.Registers {
			r := AllocatableRegisters[colorIdx]
			if isCalleeSaved(r) {
				used[r] = true
			}
		}
		for _, r := range CalleeSaved {
			if used[r] {
				l.CalleeSaved = append(l.CalleeSaved, r)
			}
		}
	}

	return l
}

// StackHome returns the rbp-relative operand text for a spilled Local,
// e.g. "-8(%rbp)".
func (l *Layout) StackHome(id ir.LocalId) string {
	off, ok := l.Offset[id]
	if !ok {
		return ""
	}
	return strconv.Itoa(off) + "(%rbp)"
}
