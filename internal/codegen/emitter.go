package codegen

import (
	"fmt"
	"strings"

	"tacc/internal/errors"
	"tacc/internal/ir"
	"tacc/internal/regalloc"
)

// FunctionInfo bundles the per-function analysis results Emit needs
// alongside the IR itself: the register assignment (nil under -O0,
// meaning every Local is spilled per spec.md §6), the liveness used to
// decide caller-save spills around calls and comparison/jump fusion,
// and the call-liveness side table from ir.ComputeLiveness.
type FunctionInfo struct {
	Alloc *regalloc.Result
	Live  ir.Liveness
	Calls ir.CallLivenessMap
}

type ctx struct {
	f      *ir.Function
	alloc  *regalloc.Result
	layout *Layout
	lv     ir.Liveness
	calls  ir.CallLivenessMap
	out    *strings.Builder

	hasFusion  bool
	fusionDest ir.LocalId
	fusionCC   string
}

func (c *ctx) emit(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "    "+format+"\n", args...)
}

func (c *ctx) label(name string) {
	fmt.Fprintf(c.out, "%s:\n", name)
}

// Emit lowers every function in prog to assembly text, one function's
// .text body followed immediately by its .rodata string literals
// (spec.md §4.15 "String-literal section", §6 "Output"). infos must
// have an entry for every function in prog.Functions.
func Emit(prog *ir.Program, infos map[*ir.Function]*FunctionInfo) string {
	var out strings.Builder
	out.WriteString(".section .text\n")
	for _, f := range prog.Functions {
		info, ok := infos[f]
		if !ok {
			errors.Fatalf(errors.FaultMalformedCFG, "no codegen info for function %q", f.Name)
		}
		out.WriteString(EmitFunction(f, info))
	}
	return SimplifyAsm(out.String())
}

// EmitFunction renders one function's prologue, body, epilogue, and
// trailing .rodata literal section.
func EmitFunction(f *ir.Function, info *FunctionInfo) string {
	layout := ComputeLayout(f, info.Alloc)
	c := &ctx{
		f:      f,
		alloc:  info.Alloc,
		layout: layout,
		lv:     info.Live,
		calls:  info.Calls,
		out:    &strings.Builder{},
	}

	c.out.WriteString(".global " + f.Name + "\n")
	c.label(f.Name)
	emitPrologue(c)

	for _, b := range f.Blocks {
		c.label(b.Label)
		detectFusion(c, b)
		for i, inst := range b.Instructions {
			emitInstruction(c, inst, i == len(b.Instructions)-1)
		}
		emitTerminator(c, b.Terminator)
	}

	c.label(f.Epilogue.Label)
	emitEpilogue(c)

	var out strings.Builder
	out.WriteString(c.out.String())
	if len(f.Literals) > 0 {
		out.WriteString(".section .rodata\n")
		for _, lit := range f.Literals {
			fmt.Fprintf(&out, ".%s.literal.%d:\n", f.Name, lit.Id)
			out.WriteString("    .asciz \"" + escapeAsciz(lit.Value) + "\"\n")
		}
	}
	return out.String()
}

func escapeAsciz(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// emitPrologue pushes rbp, the callee-saved registers regalloc
// assigned, sets up the frame pointer, reserves the spill area, and
// moves incoming arguments from their ABI locations into their
// assigned homes, skipping any argument dead on entry (spec.md §4.15
// "Prologue").
func emitPrologue(c *ctx) {
	needsFrame := c.layout.FrameSize > 0 || len(c.layout.CalleeSaved) > 0
	if needsFrame {
		c.emit("pushq   %%rbp")
		for _, r := range c.layout.CalleeSaved {
			c.emit("pushq   %%%s", r)
		}
		c.emit("movq    %%rsp, %%rbp")
		if c.layout.FrameSize > 0 {
			c.emit("subq    $%d, %%rsp", c.layout.FrameSize)
		}
	}

	liveAtEntry := ir.LiveSet{}
	if bl, ok := c.lv[c.f.Prologue]; ok {
		liveAtEntry = bl.Out
	}

	for i := 1; i <= c.f.ArgCount; i++ {
		id := ir.LocalId(i)
		if c.lv != nil && !liveAtEntry[id] {
			continue
		}
		local := c.f.LocalAt(id)
		width := local.Type.Size()
		dest := c.home(local)
		if i <= len(ArgRegisters) {
			c.emit("mov%s    %s, %s", suffix(width), sized(ArgRegisters[i-1], width), dest)
		} else {
			stackIndex := i - len(ArgRegisters) - 1
			var stackSlot string
			if needsFrame {
				// rbp is set after pushq %rbp and the callee-save
				// pushes, so the caller's outgoing-arg region sits
				// above the saved return address (8) and saved rbp
				// (8) plus one slot per callee-saved push.
				offset := 16 + 8*len(c.layout.CalleeSaved) + stackIndex*8
				stackSlot = fmt.Sprintf("%d(%%rbp)", offset)
			} else {
				// no pushes happened, so %rsp is still where it was
				// at entry: the return address occupies 0(%rsp).
				stackSlot = fmt.Sprintf("%d(%%rsp)", 8+stackIndex*8)
			}
			c.emit("mov%s    %s, %s", suffix(width), stackSlot, dest)
		}
	}
}

// emitEpilogue moves the return Local into rax, tears down the frame,
// and returns (spec.md §4.15 "Return").
func emitEpilogue(c *ctx) {
	ret := c.f.ReturnLocal()
	if ret.Type != ir.VOID {
		width := ret.Type.Size()
		c.emit("mov%s    %s, %s", suffix(width), c.home(ret), sized(RAX, width))
	}

	needsFrame := c.layout.FrameSize > 0 || len(c.layout.CalleeSaved) > 0
	if needsFrame {
		c.emit("movq    %%rbp, %%rsp")
		for i := len(c.layout.CalleeSaved) - 1; i >= 0; i-- {
			c.emit("popq    %%%s", c.layout.CalleeSaved[i])
		}
		c.emit("popq    %%rbp")
	}
	c.emit("ret")
}
