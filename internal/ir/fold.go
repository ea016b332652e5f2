package ir

// ConstantFold walks every instruction and terminator in f, folding
// constant expressions and algebraic identities per spec.md §4.7. It
// returns true if any rewrite was performed.
func ConstantFold(f *Function) bool {
	changed := false
	for _, b := range allBlocksForward(f) {
		for idx, inst := range b.Instructions {
			if folded, ok := foldInstruction(inst); ok {
				b.Instructions[idx] = folded
				changed = true
			}
		}
		if cj, ok := b.Terminator.(*ConditionalJump); ok && cj.Cond.IsImmediate() {
			target := cj.FalseTarget
			if cj.Cond.Imm.Truncated() != 0 {
				target = cj.TrueTarget
			}
			b.Terminator = &BasicJump{Target: target}
			changed = true
		}
	}
	return changed
}

func foldInstruction(inst Instruction) (Instruction, bool) {
	switch i := inst.(type) {
	case *BinaryOp:
		return foldBinaryOp(i)
	case *UnaryOp:
		if i.Operand.IsImmediate() {
			v := evalUnary(i.Op, i.Operand.Imm.Truncated(), i.DestLocal.Type.Size())
			return &Assignment{DestLocal: i.DestLocal, Source: ImmRValue(Immediate{Value: v, Type: i.DestLocal.Type})}, true
		}
	case *Cast:
		if i.Source.Type().Size() == i.DestLocal.Type.Size() {
			return &Assignment{DestLocal: i.DestLocal, Source: i.Source}, true
		}
		if i.Source.IsImmediate() {
			v := truncateToWidth(i.Source.Imm.Value, i.DestLocal.Type.Size())
			return &Assignment{DestLocal: i.DestLocal, Source: ImmRValue(Immediate{Value: v, Type: i.DestLocal.Type})}, true
		}
	}
	return inst, false
}

func foldBinaryOp(i *BinaryOp) (Instruction, bool) {
	if i.Left.IsImmediate() && i.Right.IsImmediate() {
		width := i.DestLocal.Type.Size()
		v := evalBinary(i.Op, i.Left.Imm.Truncated(), i.Right.Imm.Truncated(), width)
		return &Assignment{DestLocal: i.DestLocal, Source: ImmRValue(Immediate{Value: v, Type: i.DestLocal.Type})}, true
	}

	// Algebraic identities when exactly one side is constant.
	if i.Right.IsImmediate() && !i.Left.IsImmediate() {
		c := i.Right.Imm.Truncated()
		switch i.Op {
		case ADD:
			if c == 0 {
				return &Assignment{DestLocal: i.DestLocal, Source: i.Left}, true
			}
		case SUB:
			if c == 0 {
				return &Assignment{DestLocal: i.DestLocal, Source: i.Left}, true
			}
		case MUL:
			if c == 1 {
				return &Assignment{DestLocal: i.DestLocal, Source: i.Left}, true
			}
			if c == 0 {
				return &Assignment{DestLocal: i.DestLocal, Source: zeroImm(i.DestLocal.Type)}, true
			}
		}
	}
	if i.Left.IsImmediate() && !i.Right.IsImmediate() {
		c := i.Left.Imm.Truncated()
		switch i.Op {
		case ADD:
			if c == 0 {
				return &Assignment{DestLocal: i.DestLocal, Source: i.Right}, true
			}
		case SUB:
			if c == 0 {
				return &UnaryOp{DestLocal: i.DestLocal, Operand: i.Right, Op: NEG}, true
			}
		case MUL:
			if c == 1 {
				return &Assignment{DestLocal: i.DestLocal, Source: i.Right}, true
			}
			if c == 0 {
				return &Assignment{DestLocal: i.DestLocal, Source: zeroImm(i.DestLocal.Type)}, true
			}
		}
	}

	return i, false
}

func zeroImm(t *Type) RValue {
	return ImmRValue(Immediate{Value: 0, Type: t})
}

func evalBinary(op BinaryOpKind, l, r int64, width int) int64 {
	var result int64
	switch op {
	case ADD:
		result = l + r
	case SUB:
		result = l - r
	case MUL:
		result = l * r
	case DIV:
		if r == 0 {
			result = 0
		} else {
			result = l / r
		}
	case MOD:
		if r == 0 {
			result = 0
		} else {
			result = l % r
		}
	case EQ:
		result = boolToInt(l == r)
	case NEQ:
		result = boolToInt(l != r)
	case LT:
		result = boolToInt(l < r)
	case GT:
		result = boolToInt(l > r)
	case LE:
		result = boolToInt(l <= r)
	case GE:
		result = boolToInt(l >= r)
	case AND:
		result = l & r
	case XOR:
		result = l ^ r
	case OR:
		result = l | r
	}
	return truncateToWidth(result, width)
}

func evalUnary(op UnaryOpKind, v int64, width int) int64 {
	switch op {
	case NEG:
		return truncateToWidth(-v, width)
	case LOGNOT:
		return boolToInt(v == 0)
	}
	return v
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
