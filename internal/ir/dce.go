package ir

// DeadCodeElimination runs after liveness is computed (spec.md §4.8).
// Per block in reverse, instructions whose destination is neither
// live nor a pointed local are tombstoned and compacted; Calls,
// PointerWrites, and terminators are never removed.
func DeadCodeElimination(f *Function, lv Liveness, pointed PointedLocals) bool {
	changed := false
	for _, b := range allBlocksForward(f) {
		bl, ok := lv[b]
		if !ok {
			continue
		}
		working := bl.Out.clone()
		for _, u := range TerminatorUses(b.Terminator) {
			if u.IsLocal() {
				working[u.Local.Id] = true
			}
		}

		for i := len(b.Instructions) - 1; i >= 0; i-- {
			inst := b.Instructions[i]

			if shouldRemove(inst, working, pointed) {
				b.Instructions[i] = tombstone{}
				changed = true
				continue
			}

			if dest, ok := inst.Dest(); ok {
				delete(working, dest.Id)
			}
			for _, u := range Uses(inst) {
				if u.IsLocal() {
					working[u.Local.Id] = true
				}
			}
		}

		b.compact()
	}
	return changed
}

func shouldRemove(inst Instruction, working LiveSet, pointed PointedLocals) bool {
	switch inst.(type) {
	case *Call, *PointerWrite:
		return false
	}
	dest, hasDest := inst.Dest()
	if !hasDest {
		return false
	}
	if working[dest.Id] {
		return false
	}
	if pointed.Contains(dest.Id) {
		return false
	}
	return true
}
