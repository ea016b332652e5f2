package ir

// LocalValuePropagation substitutes operands within a single block
// using the entry mapping 4.5 computed for it, then maintains the
// mapping as it walks forward (spec.md §4.6). It reports whether any
// substitution was performed.
func LocalValuePropagation(f *Function, global GlobalPropagation, pointed PointedLocals) bool {
	changed := false
	for _, b := range allBlocksForward(f) {
		entry, ok := global[b]
		if !ok {
			continue
		}
		mapping := entry.clone()

		for _, inst := range b.Instructions {
			if substituteOperands(inst, mapping) {
				changed = true
			}
			updateLocalMapping(inst, mapping, pointed)
		}
		if b.Terminator != nil {
			if substituteTerminator(b.Terminator, mapping) {
				changed = true
			}
		}
	}
	return changed
}

func allBlocksForward(f *Function) []*BasicBlock {
	all := make([]*BasicBlock, 0, len(f.Blocks)+2)
	all = append(all, f.Prologue)
	all = append(all, f.Blocks...)
	all = append(all, f.Epilogue)
	return all
}

// substitute returns the replacement for v if v is a Local found in
// mapping, else v unchanged, plus whether a substitution occurred.
func substitute(v RValue, mapping ValueMap) (RValue, bool) {
	if !v.IsLocal() {
		return v, false
	}
	if repl, ok := mapping[v.Local.Id]; ok {
		return repl, true
	}
	return v, false
}

func substituteOperands(inst Instruction, mapping ValueMap) bool {
	changed := false
	switch i := inst.(type) {
	case *BinaryOp:
		if r, ok := substitute(i.Left, mapping); ok {
			i.Left = r
			changed = true
		}
		if r, ok := substitute(i.Right, mapping); ok {
			i.Right = r
			changed = true
		}
	case *UnaryOp:
		if r, ok := substitute(i.Operand, mapping); ok {
			i.Operand = r
			changed = true
		}
	case *Assignment:
		if r, ok := substitute(i.Source, mapping); ok {
			i.Source = r
			changed = true
		}
	case *Cast:
		if r, ok := substitute(i.Source, mapping); ok {
			i.Source = r
			changed = true
		}
	case *Call:
		for idx, arg := range i.Args {
			if r, ok := substitute(arg, mapping); ok {
				i.Args[idx] = r
				changed = true
			}
		}
	case *PointerRead:
		if r, ok := substitute(i.Address, mapping); ok {
			i.Address = r
			changed = true
		}
	case *PointerWrite:
		if r, ok := substitute(i.Address, mapping); ok {
			i.Address = r
			changed = true
		}
		if r, ok := substitute(i.Source, mapping); ok {
			i.Source = r
			changed = true
		}
	}
	return changed
}

func substituteTerminator(term Terminator, mapping ValueMap) bool {
	if cj, ok := term.(*ConditionalJump); ok {
		if r, ok := substitute(cj.Cond, mapping); ok {
			cj.Cond = r
			return true
		}
	}
	return false
}

// updateLocalMapping maintains the mapping after inst executes: on
// Assignment, record dest->source (same pointed-local exclusion as
// 4.5); on any other destination-writing instruction, remove dest and
// any entry whose value equals dest (invalidating stale copies that
// refer to the now-overwritten Local).
func updateLocalMapping(inst Instruction, mapping ValueMap, pointed PointedLocals) {
	if a, ok := inst.(*Assignment); ok {
		if pointed.Contains(a.DestLocal.Id) || (a.Source.IsLocal() && pointed.Contains(a.Source.Local.Id)) {
			invalidate(mapping, a.DestLocal.Id)
			return
		}
		mapping[a.DestLocal.Id] = a.Source
		return
	}
	if dest, ok := inst.Dest(); ok {
		invalidate(mapping, dest.Id)
	}
}

func invalidate(mapping ValueMap, id LocalId) {
	delete(mapping, id)
	for k, v := range mapping {
		if v.IsLocal() && v.Local.Id == id {
			delete(mapping, k)
		}
	}
}
