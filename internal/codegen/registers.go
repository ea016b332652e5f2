// Package codegen lowers an optimized, register-allocated
// internal/ir.Function into GNU AT&T-syntax x86-64 assembly text
// (spec.md §4.15-4.16; orig: compiler/X86GenVisitor.{h,cpp}).
package codegen

import "tacc/internal/errors"

// Reg names one of the sixteen general-purpose x86-64 registers by
// its 64-bit (%rxx) name. Narrower views are derived by width as
// needed at the point of use rather than carried as separate values.
type Reg string

const (
	RAX Reg = "rax"
	RBX Reg = "rbx"
	RCX Reg = "rcx"
	RDX Reg = "rdx"
	RSI Reg = "rsi"
	RDI Reg = "rdi"
	RBP Reg = "rbp"
	RSP Reg = "rsp"
	R8  Reg = "r8"
	R9  Reg = "r9"
	R10 Reg = "r10"
	R11 Reg = "r11"
	R12 Reg = "r12"
	R13 Reg = "r13"
	R14 Reg = "r14"
	R15 Reg = "r15"
)

// CallerSaved lists registers a callee may clobber across a call
// (spec.md §6).
var CallerSaved = []Reg{RAX, RDI, RSI, RDX, RCX, R8, R9, R10, R11}

// CalleeSaved lists registers a callee must restore before returning
// (spec.md §6).
var CalleeSaved = []Reg{RBX, RBP, R12, R13, R14, R15}

// AllocatableRegisters is the 7-color set regalloc.Allocate assigns
// its color indices against, in the order spec.md §6 lists them. Index
// i in a regalloc.Result corresponds to AllocatableRegisters[i].
var AllocatableRegisters = []Reg{R10, R11, RBX, R12, R13, R14, R15}

// ArgRegisters holds the first six integer/pointer argument registers
// in SysV order (spec.md §6, §4.16 step 2).
var ArgRegisters = []Reg{RDI, RSI, RDX, RCX, R8, R9}

func isCalleeSaved(r Reg) bool {
	for _, c := range CalleeSaved {
		if c == r {
			return true
		}
	}
	return false
}

func isCallerSaved(r Reg) bool {
	for _, c := range CallerSaved {
		if c == r {
			return true
		}
	}
	return false
}

// sized returns the register name's view at the given byte width:
// 1 -> %al-style, 2 -> %ax-style, 4 -> %eax-style, 8 -> %rax-style.
// Unknown widths are a fatal back-end invariant failure (spec.md §4.15
// "Failure semantics"): the front-end is responsible for producing
// only 1/2/4/8-byte typed operands.
func sized(r Reg, width int) string {
	wide, ok := registerViews[r]
	if !ok {
		fatalUnsupportedWidth(r, width)
	}
	switch width {
	case 1:
		return "%" + wide.b1
	case 2:
		return "%" + wide.b2
	case 4:
		return "%" + wide.b4
	case 8:
		return "%" + wide.b8
	default:
		fatalUnsupportedWidth(r, width)
		return ""
	}
}

type registerWidths struct {
	b1, b2, b4, b8 string
}

var registerViews = map[Reg]registerWidths{
	RAX: {"al", "ax", "eax", "rax"},
	RBX: {"bl", "bx", "ebx", "rbx"},
	RCX: {"cl", "cx", "ecx", "rcx"},
	RDX: {"dl", "dx", "edx", "rdx"},
	RSI: {"sil", "si", "esi", "rsi"},
	RDI: {"dil", "di", "edi", "rdi"},
	RBP: {"bpl", "bp", "ebp", "rbp"},
	RSP: {"spl", "sp", "esp", "rsp"},
	R8:  {"r8b", "r8w", "r8d", "r8"},
	R9:  {"r9b", "r9w", "r9d", "r9"},
	R10: {"r10b", "r10w", "r10d", "r10"},
	R11: {"r11b", "r11w", "r11d", "r11"},
	R12: {"r12b", "r12w", "r12d", "r12"},
	R13: {"r13b", "r13w", "r13d", "r13"},
	R14: {"r14b", "r14w", "r14d", "r14"},
	R15: {"r15b", "r15w", "r15d", "r15"},
}

func fatalUnsupportedWidth(r Reg, width int) {
	errors.Fatalf(errors.FaultUnsupportedWidth, "register %s has no %d-byte view", r, width)
}
