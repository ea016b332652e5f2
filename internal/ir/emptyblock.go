package ir

// EmptyBlockElimination rewrites terminators per spec.md §4.10:
//   - BasicJump(target) where target is empty and itself ends in
//     BasicJump(next): retarget to next.
//   - BasicJump(target) where target is non-empty but has exactly one
//     predecessor (the current block) and ends in BasicJump(next):
//     merge target's instructions into the current block and retarget
//     to next.
//   - ConditionalJump(cond, T, F): apply the same empty-skip rewrite to
//     both T and F; if either target is an empty block whose
//     terminator is a ConditionalJump on the same condition, shortcut
//     through the matching branch.
//
// Each intermediate block consumed by a rewrite is marked skip so a
// single pass does not revisit it (spec.md's per-block {live, skip}
// state machine).
//
// spec.md §9 notes a latent bug in one draft of the source, where the
// ConditionalJump visitor used trueTarget's terminator as the guard
// when checking falseTarget. This implementation uses each branch's
// own terminator, which is the specified (fixed) behavior.
func EmptyBlockElimination(f *Function, deps DependenceMap) bool {
	changed := false
	for _, b := range f.Blocks {
		if b.skip {
			continue
		}
		switch t := b.Terminator.(type) {
		case *BasicJump:
			if rewriteJumpTarget(b, &t.Target, deps) {
				changed = true
			}
		case *ConditionalJump:
			if rewriteJumpTarget(b, &t.TrueTarget, deps) {
				changed = true
			}
			if rewriteJumpTarget(b, &t.FalseTarget, deps) {
				changed = true
			}
			if shortcutConditional(t) {
				changed = true
			}
		}
	}
	return changed
}

// rewriteJumpTarget applies the empty-skip / single-predecessor-merge
// rewrite to *target, which is one branch slot of b's terminator.
func rewriteJumpTarget(b *BasicBlock, target **BasicBlock, deps DependenceMap) bool {
	t := *target
	if t == nil || t == b {
		return false
	}

	if t.Empty() {
		if next, ok := t.Terminator.(*BasicJump); ok {
			*target = next.Target
			t.skip = true
			return true
		}
		return false
	}

	if next, ok := t.Terminator.(*BasicJump); ok && singlePredecessor(t, deps, b) {
		b.Instructions = append(b.Instructions, t.Instructions...)
		*target = next.Target
		t.skip = true
		return true
	}

	return false
}

func singlePredecessor(block *BasicBlock, deps DependenceMap, expected *BasicBlock) bool {
	preds := deps[block]
	if len(preds) != 1 {
		return false
	}
	return preds[0] == expected
}

// shortcutConditional checks whether either branch target is an empty
// block whose own terminator is a ConditionalJump on the same
// condition, and if so rewrites t to jump straight through the
// matching sub-branch (true->true, false->false).
func shortcutConditional(t *ConditionalJump) bool {
	changed := false
	if t.TrueTarget != nil && t.TrueTarget.Empty() {
		if inner, ok := t.TrueTarget.Terminator.(*ConditionalJump); ok && inner.Cond.Equal(t.Cond) {
			t.TrueTarget = inner.TrueTarget
			changed = true
		}
	}
	if t.FalseTarget != nil && t.FalseTarget.Empty() {
		if inner, ok := t.FalseTarget.Terminator.(*ConditionalJump); ok && inner.Cond.Equal(t.Cond) {
			t.FalseTarget = inner.FalseTarget
			changed = true
		}
	}
	return changed
}
