package codegen

import "tacc/internal/ir"

// emitCall lowers a Call instruction following spec.md §4.16's
// six-step protocol: spill caller-saved locals that survive the call,
// marshal arguments into the SysV argument registers and stack, pad
// for 16-byte alignment, make the call, and unwind.
func emitCall(c *ctx, call *ir.Call) {
	cl := c.calls[call]

	var spilled []Reg
	if cl != nil {
		for id := range cl.Before {
			if !cl.After[id] {
				continue
			}
			reg, ok := c.inRegister(id)
			if !ok || !isCallerSaved(reg) {
				continue
			}
			spilled = append(spilled, reg)
		}
	}
	for _, r := range spilled {
		c.emit("pushq   %%%s", r)
	}

	regArgs := call.Args
	var stackArgs []ir.RValue
	if len(call.Args) > len(ArgRegisters) {
		regArgs = call.Args[:len(ArgRegisters)]
		stackArgs = call.Args[len(ArgRegisters):]
	}
	for i, arg := range regArgs {
		width := arg.Type().Size()
		c.emit("mov%s    %s, %s", suffix(width), c.operand(arg), sized(ArgRegisters[i], width))
	}

	for i := len(stackArgs) - 1; i >= 0; i-- {
		c.emit("pushq   %s", c.operand(stackArgs[i]))
	}

	// The return address and the prologue's pushes (rbp, callee-saves,
	// spill area) count toward alignment along with the pushes above.
	framePushes := 0
	if c.layout.FrameSize > 0 || len(c.layout.CalleeSaved) > 0 {
		framePushes = 1 + len(c.layout.CalleeSaved) + c.layout.FrameSize/slotSize
	}
	pushCount := len(spilled) + len(stackArgs)
	paddedForAlignment := false
	if (1+framePushes+pushCount)%2 != 0 {
		c.emit("pushq   %%rcx")
		paddedForAlignment = true
	}

	if call.Variadic {
		c.emit("movq    $0, %%rax")
	}

	c.emit("call    %s@PLT", call.Name)

	if paddedForAlignment {
		c.emit("popq    %%rcx")
	}
	for range stackArgs {
		c.emit("addq    $8, %%rsp")
	}

	if call.HasResult {
		width := call.DestLocal.Type.Size()
		c.emit("mov%s    %s, %s", suffix(width), sized(RAX, width), c.home(call.DestLocal))
	}

	for i := len(spilled) - 1; i >= 0; i-- {
		c.emit("popq    %%%s", spilled[i])
	}
}
