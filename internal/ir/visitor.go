package ir

// Visitor holds optional callbacks for each instruction and
// terminator variant plus one for each block. Unset callbacks are
// no-ops, matching spec.md §4.1's "default traversal ... defaults are
// no-ops". This replaces the source's OOP visitor-with-overloads: Go
// has no virtual dispatch, so Walk performs the type switch once and
// every pass supplies only the callbacks it needs.
type Visitor struct {
	Block           func(*BasicBlock)
	BinaryOp        func(*BinaryOp)
	UnaryOp         func(*UnaryOp)
	Assignment      func(*Assignment)
	Cast            func(*Cast)
	Call            func(*Call)
	PointerRead     func(*PointerRead)
	PointerWrite    func(*PointerWrite)
	AddressOf       func(*AddressOf)
	BasicJump       func(*BasicJump)
	ConditionalJump func(*ConditionalJump)
}

// dispatch runs the matching callback for inst, if set.
func (v *Visitor) dispatchInstruction(inst Instruction) {
	switch i := inst.(type) {
	case *BinaryOp:
		if v.BinaryOp != nil {
			v.BinaryOp(i)
		}
	case *UnaryOp:
		if v.UnaryOp != nil {
			v.UnaryOp(i)
		}
	case *Assignment:
		if v.Assignment != nil {
			v.Assignment(i)
		}
	case *Cast:
		if v.Cast != nil {
			v.Cast(i)
		}
	case *Call:
		if v.Call != nil {
			v.Call(i)
		}
	case *PointerRead:
		if v.PointerRead != nil {
			v.PointerRead(i)
		}
	case *PointerWrite:
		if v.PointerWrite != nil {
			v.PointerWrite(i)
		}
	case *AddressOf:
		if v.AddressOf != nil {
			v.AddressOf(i)
		}
	case tombstone:
		// no-op: compacted lazily
	}
}

// dispatchTerminator runs the matching callback for term, if set.
func (v *Visitor) dispatchTerminator(term Terminator) {
	switch t := term.(type) {
	case *BasicJump:
		if v.BasicJump != nil {
			v.BasicJump(t)
		}
	case *ConditionalJump:
		if v.ConditionalJump != nil {
			v.ConditionalJump(t)
		}
	}
}

// WalkBlock visits a block's instructions in program order, then its
// terminator, invoking v's Block callback first if set (spec.md
// §4.1's default traversal order).
func (v *Visitor) WalkBlock(b *BasicBlock) {
	if v.Block != nil {
		v.Block(b)
	}
	for _, inst := range b.Instructions {
		v.dispatchInstruction(inst)
	}
	if b.Terminator != nil {
		v.dispatchTerminator(b.Terminator)
	}
}

// WalkBlockReverse visits a block's terminator first, then its
// instructions in reverse order — the ordering liveness and DCE
// require (spec.md §4.1: "Traversals may walk instructions in
// reverse ... this is the only ordering knob").
func (v *Visitor) WalkBlockReverse(b *BasicBlock) {
	if v.Block != nil {
		v.Block(b)
	}
	if b.Terminator != nil {
		v.dispatchTerminator(b.Terminator)
	}
	for i := len(b.Instructions) - 1; i >= 0; i-- {
		v.dispatchInstruction(b.Instructions[i])
	}
}

// WalkFunction visits prologue, body blocks in order, then epilogue
// (spec.md §4.1's default function traversal).
func (v *Visitor) WalkFunction(f *Function) {
	v.WalkBlock(f.Prologue)
	for _, b := range f.Blocks {
		v.WalkBlock(b)
	}
	v.WalkBlock(f.Epilogue)
}

// Uses returns the RValue operands used by inst, in spec.md §4.4's
// "sets (use)" column order.
func Uses(inst Instruction) []RValue {
	switch i := inst.(type) {
	case *BinaryOp:
		return []RValue{i.Left, i.Right}
	case *UnaryOp:
		return []RValue{i.Operand}
	case *Assignment:
		return []RValue{i.Source}
	case *Cast:
		return []RValue{i.Source}
	case *Call:
		return append([]RValue(nil), i.Args...)
	case *PointerRead:
		return []RValue{i.Address}
	case *PointerWrite:
		return []RValue{i.Address, i.Source}
	case *AddressOf:
		if i.Source.Kind == AddressableLocal {
			return []RValue{LocalRValue(i.Source.Local)}
		}
		return nil
	default:
		return nil
	}
}

// TerminatorUses returns the RValue operands a terminator uses.
func TerminatorUses(term Terminator) []RValue {
	if cj, ok := term.(*ConditionalJump); ok {
		return []RValue{cj.Cond}
	}
	return nil
}
