package ir

// BasicBlock is an ordered sequence of Instructions plus exactly one
// Terminator. During construction the Terminator slot may be
// temporarily nil; every block participating in the CFG after
// construction must be terminated (spec.md §3).
type BasicBlock struct {
	Label        string
	Instructions []Instruction
	Terminator   Terminator

	// skip marks a block as logically removed mid-pass by
	// EmptyBlockElimination (spec.md §4.10's per-block {live, skip}
	// marker) so a single optimizer pass does not re-visit it.
	skip bool
}

// Empty reports whether the block has no instructions. Empty blocks
// may still be terminated and participate in the CFG.
func (b *BasicBlock) Empty() bool { return len(b.Instructions) == 0 }

// compact drops all tombstoned instruction slots, preserving order.
func (b *BasicBlock) compact() {
	out := b.Instructions[:0]
	for _, inst := range b.Instructions {
		if !isTombstone(inst) {
			out = append(out, inst)
		}
	}
	b.Instructions = out
}
