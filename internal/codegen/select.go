package codegen

import (
	"strconv"

	"tacc/internal/errors"
	"tacc/internal/ir"
)

// suffix is the AT&T mnemonic size suffix for a byte width.
func suffix(width int) string {
	switch width {
	case 1:
		return "b"
	case 2:
		return "w"
	case 4:
		return "l"
	case 8:
		return "q"
	default:
		errors.Fatalf(errors.FaultUnsupportedWidth, "no mnemonic suffix for %d-byte operand", width)
		return ""
	}
}

var commutativeMnemonic = map[ir.BinaryOpKind]string{
	ir.ADD: "add",
	ir.MUL: "imul",
	ir.AND: "and",
	ir.OR:  "or",
	ir.XOR: "xor",
}

var conditionCode = map[ir.BinaryOpKind]string{
	ir.EQ:  "e",
	ir.NEQ: "ne",
	ir.LT:  "l",
	ir.GT:  "g",
	ir.LE:  "le",
	ir.GE:  "ge",
}

func isComparison(op ir.BinaryOpKind) bool {
	_, ok := conditionCode[op]
	return ok
}

// detectFusion implements spec.md §4.15's comparison/ConditionalJump
// fusion: when a block's last instruction is a comparison whose
// destination is exactly the following ConditionalJump's condition,
// and that destination is dead after the block, the setcc is skipped
// and the cc is carried into the terminator's own jump instead.
func detectFusion(c *ctx, b *ir.BasicBlock) {
	c.hasFusion = false

	cj, ok := b.Terminator.(*ir.ConditionalJump)
	if !ok || !cj.Cond.IsLocal() || len(b.Instructions) == 0 {
		return
	}
	last, ok := b.Instructions[len(b.Instructions)-1].(*ir.BinaryOp)
	if !ok || !isComparison(last.Op) {
		return
	}
	if last.DestLocal.Id != cj.Cond.Local.Id {
		return
	}
	if bl, ok := c.lv[b]; ok && bl.Out[last.DestLocal.Id] {
		return
	}

	c.hasFusion = true
	c.fusionDest = last.DestLocal.Id
	c.fusionCC = conditionCode[last.Op]
}

func emitInstruction(c *ctx, inst ir.Instruction, isLast bool) {
	switch i := inst.(type) {
	case *ir.BinaryOp:
		emitBinaryOp(c, i, isLast)
	case *ir.UnaryOp:
		emitUnaryOp(c, i, isLast)
	case *ir.Assignment:
		emitAssignment(c, i)
	case *ir.Cast:
		emitCast(c, i)
	case *ir.Call:
		emitCall(c, i)
	case *ir.PointerRead:
		emitPointerRead(c, i)
	case *ir.PointerWrite:
		emitPointerWrite(c, i)
	case *ir.AddressOf:
		emitAddressOf(c, i)
	default:
		errors.Fatalf(errors.FaultUnreachableCase, "unhandled instruction variant %T", inst)
	}
}

// emitBinaryOp loads left into dest's home (a register when regalloc
// gave it one, else a scratch register to avoid a memory-memory op),
// applies the operator against right, and stores back. Comparisons
// become cmp plus setcc, unless detectFusion already claimed this
// instruction for the block's terminator.
func emitBinaryOp(c *ctx, b *ir.BinaryOp, isLast bool) {
	width := b.DestLocal.Type.Size()
	acc, destIsReg := c.inRegister(b.DestLocal.Id)
	if !destIsReg {
		acc = RAX
	}
	accOperand := sized(acc, width)

	if isComparison(b.Op) {
		c.emit("mov%s    %s, %s", suffix(width), c.operand(b.Left), accOperand)
		c.emit("cmp%s    %s, %s", suffix(width), c.operand(b.Right), accOperand)
		if c.hasFusion && isLast && b.DestLocal.Id == c.fusionDest {
			return
		}
		destWidth := 1
		destOperand := accOperand
		if !destIsReg {
			destOperand = sized(RAX, destWidth)
		} else {
			destOperand = sized(acc, destWidth)
		}
		c.emit("set%s    %s", conditionCode[b.Op], destOperand)
		if !destIsReg {
			c.emit("movzbl  %s, %s", sized(RAX, 1), sized(RAX, 4))
			c.emit("mov%s    %s, %s", suffix(width), sized(RAX, width), c.home(b.DestLocal))
		}
		return
	}

	mnemonic, ok := commutativeMnemonic[b.Op]
	if !ok && b.Op != ir.SUB {
		emitDivOrMod(c, b)
		return
	}
	if b.Op == ir.SUB {
		mnemonic = "sub"
	}

	c.emit("mov%s    %s, %s", suffix(width), c.operand(b.Left), accOperand)
	c.emit("%s%s    %s, %s", mnemonic, suffix(width), c.operand(b.Right), accOperand)
	if !destIsReg {
		c.emit("mov%s    %s, %s", suffix(width), accOperand, c.home(b.DestLocal))
	}
}

// emitDivOrMod handles DIV/MOD: sign-extend left in rax into rdx:rax,
// idiv by right (materialized into rcx first if it's an immediate,
// since idiv has no immediate form), then move the quotient (rax) or
// remainder (rdx, or ah for a 1-byte operand) into dest (spec.md
// §4.15's DIV/MOD row).
func emitDivOrMod(c *ctx, b *ir.BinaryOp) {
	width := b.DestLocal.Type.Size()
	c.emit("mov%s    %s, %s", suffix(width), c.operand(b.Left), sized(RAX, width))
	c.emit(signExtendMnemonic(width))

	divisor := c.operand(b.Right)
	if b.Right.IsImmediate() {
		c.emit("mov%s    %s, %s", suffix(width), divisor, sized(RCX, width))
		divisor = sized(RCX, width)
	}
	c.emit("idiv%s   %s", suffix(width), divisor)

	if b.Op == ir.MOD && width == 1 {
		// idivb leaves its 8-bit remainder in %ah, not %dl.
		c.emit("mov%s    %%ah, %s", suffix(width), c.home(b.DestLocal))
		return
	}
	result := RAX
	if b.Op == ir.MOD {
		result = RDX
	}
	c.emit("mov%s    %s, %s", suffix(width), sized(result, width), c.home(b.DestLocal))
}

func signExtendMnemonic(width int) string {
	switch width {
	case 8:
		return "cqto"
	case 4:
		return "cltd"
	case 2:
		return "cwtd"
	default:
		return "cbtw"
	}
}

func emitUnaryOp(c *ctx, u *ir.UnaryOp, isLast bool) {
	width := u.Operand.Type().Size()
	switch u.Op {
	case ir.NEG:
		if reg, ok := c.inRegister(u.DestLocal.Id); ok {
			c.emit("mov%s    %s, %s", suffix(width), c.operand(u.Operand), sized(reg, width))
			c.emit("neg%s    %s", suffix(width), sized(reg, width))
			return
		}
		c.emit("mov%s    %s, %s", suffix(width), c.operand(u.Operand), sized(RAX, width))
		c.emit("neg%s    %s", suffix(width), sized(RAX, width))
		c.emit("mov%s    %s, %s", suffix(width), sized(RAX, width), c.home(u.DestLocal))
	case ir.LOGNOT:
		c.emit("mov%s    %s, %s", suffix(width), c.operand(u.Operand), sized(RAX, width))
		c.emit("test%s   %s, %s", suffix(width), sized(RAX, width), sized(RAX, width))
		if c.hasFusion && isLast && u.DestLocal.Id == c.fusionDest {
			c.fusionCC = "e"
			return
		}
		c.emit("setz    %s", sized(RAX, 1))
		c.emit("movzbl  %s, %s", sized(RAX, 1), sized(RAX, 4))
		destWidth := u.DestLocal.Type.Size()
		c.emit("mov%s    %s, %s", suffix(destWidth), sized(RAX, destWidth), c.home(u.DestLocal))
	}
}

// emitAssignment copies source into dest; when dest has a register,
// the value is moved straight into it, skipping the memory round trip
// spilled destinations require.
func emitAssignment(c *ctx, a *ir.Assignment) {
	width := a.DestLocal.Type.Size()
	if _, ok := c.inRegister(a.DestLocal.Id); ok {
		c.emit("mov%s    %s, %s", suffix(width), c.operand(a.Source), c.home(a.DestLocal))
		return
	}
	c.emit("mov%s    %s, %s", suffix(width), c.operand(a.Source), sized(RAX, width))
	c.emit("mov%s    %s, %s", suffix(width), sized(RAX, width), c.home(a.DestLocal))
}

// emitCast reinterprets source to dest's type: widening uses a
// sign-extending move, same-size is a plain mov, and narrowing simply
// moves through the smaller register name (spec.md §4.15's Cast row).
func emitCast(c *ctx, cst *ir.Cast) {
	from := cst.Source.Type().Size()
	to := cst.DestLocal.Type.Size()

	switch {
	case to > from:
		c.emit("movs%s%s  %s, %s", suffix(from), suffix(to), c.operand(cst.Source), c.home(cst.DestLocal))
	case to == from:
		c.emit("mov%s    %s, %s", suffix(to), c.operand(cst.Source), c.home(cst.DestLocal))
	default:
		if r, ok := c.inRegister(cst.Source.Local.Id); ok && cst.Source.IsLocal() {
			c.emit("mov%s    %s, %s", suffix(to), sized(r, to), c.home(cst.DestLocal))
		} else {
			c.emit("mov%s    %s, %s", suffix(from), c.operand(cst.Source), sized(RAX, from))
			c.emit("mov%s    %s, %s", suffix(to), sized(RAX, to), c.home(cst.DestLocal))
		}
	}
}

// emitPointerRead/Write load the address into a scratch register
// (rdx) before dereferencing, since AT&T syntax has no
// memory-to-memory indirect form (spec.md §4.15's PointerRead/Write
// row).
func emitPointerRead(c *ctx, p *ir.PointerRead) {
	addrWidth := p.Address.Type().Size()
	width := p.DestLocal.Type.Size()
	c.emit("mov%s    %s, %s", suffix(addrWidth), c.operand(p.Address), sized(RDX, addrWidth))
	c.emit("mov%s    (%%rdx), %s", suffix(width), sized(RAX, width))
	c.emit("mov%s    %s, %s", suffix(width), sized(RAX, width), c.home(p.DestLocal))
}

func emitPointerWrite(c *ctx, p *ir.PointerWrite) {
	addrWidth := p.Address.Type().Size()
	width := p.Source.Type().Size()
	c.emit("mov%s    %s, %s", suffix(addrWidth), c.operand(p.Address), sized(RDX, addrWidth))
	c.emit("mov%s    %s, %s", suffix(width), c.operand(p.Source), sized(RAX, width))
	c.emit("mov%s    %s, (%%rdx)", suffix(width), sized(RAX, width))
}

// emitAddressOf computes &source: a stack-homed Local's address comes
// from its rbp offset, a string literal's from a rip-relative label
// (spec.md §4.15's AddressOf rows).
func emitAddressOf(c *ctx, a *ir.AddressOf) {
	dest := c.home(a.DestLocal)
	switch a.Source.Kind {
	case ir.AddressableLocal:
		c.emit("leaq    %s, %s", c.layout.StackHome(a.Source.Local.Id), dest)
	case ir.AddressableStringLiteral:
		label := litLabel(c.f.Name, a.Source.StringLitId)
		c.emit("leaq    %s(%%rip), %s", label, dest)
	}
}

func litLabel(fn string, id int) string {
	return "." + fn + ".literal." + strconv.Itoa(id)
}

// emitTerminator emits BasicJump as an unconditional jmp, and
// ConditionalJump either as the fused j<cc> recorded by detectFusion
// or as a test-and-branch pair over the condition's home.
func emitTerminator(c *ctx, t ir.Terminator) {
	switch term := t.(type) {
	case *ir.BasicJump:
		c.emit("jmp     %s", term.Target.Label)
	case *ir.ConditionalJump:
		if c.hasFusion {
			c.emit("j%s      %s", c.fusionCC, term.TrueTarget.Label)
			c.emit("jmp     %s", term.FalseTarget.Label)
			return
		}
		width := term.Cond.Type().Size()
		reg := RAX
		if term.Cond.IsLocal() {
			if r, ok := c.inRegister(term.Cond.Local.Id); ok {
				reg = r
			} else {
				c.emit("mov%s    %s, %s", suffix(width), c.operand(term.Cond), sized(RAX, width))
			}
		} else {
			c.emit("mov%s    %s, %s", suffix(width), c.operand(term.Cond), sized(RAX, width))
		}
		c.emit("test%s   %s, %s", suffix(width), sized(reg, width), sized(reg, width))
		c.emit("jne     %s", term.TrueTarget.Label)
		c.emit("jmp     %s", term.FalseTarget.Label)
	default:
		errors.Fatalf(errors.FaultUnreachableCase, "unhandled terminator variant %T", t)
	}
}
