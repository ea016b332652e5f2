package ir

// TwoStepAssignmentElimination recognizes "compute into T, then copy
// T into X" where T dies at the copy, and rewrites the producer's
// destination to X directly, dropping the copy (spec.md §4.9). It is
// a copy-coalescing move expressed at the IR level, scanning each
// block in reverse.
func TwoStepAssignmentElimination(f *Function, lv Liveness, pointed PointedLocals) bool {
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

		// candidates: T.Id -> (X, index of the copy instruction to tombstone)
		candidates := map[LocalId]struct {
			X   Local
			Idx int
		}{}

		for i := len(b.Instructions) - 1; i >= 0; i-- {
			inst := b.Instructions[i]

			if dest, ok := inst.Dest(); ok {
				if cand, found := candidates[dest.Id]; found {
					rewriteDestination(inst, cand.X)
					b.Instructions[cand.Idx] = tombstone{}
					delete(candidates, dest.Id)
					changed = true
				}
				delete(working, dest.Id)
			}

			// A copy X = T starts a candidate for T iff T is not live
			// past this point, judged from working before this
			// instruction's own use is folded in below. The
			// cancel-on-use step that follows must not immediately
			// cancel the candidate this same instruction just
			// started: the copy's reference to T is exactly what the
			// candidate represents, not a disqualifying later use.
			var selfT LocalId
			startsCandidate := false
			if a, ok := inst.(*Assignment); ok && a.Source.IsLocal() {
				t := a.Source.Local
				if !working[t.Id] && !pointed.Contains(t.Id) {
					selfT, startsCandidate = t.Id, true
				}
			}

			for _, u := range Uses(inst) {
				if !u.IsLocal() {
					continue
				}
				if !(startsCandidate && u.Local.Id == selfT) {
					delete(candidates, u.Local.Id)
				}
				working[u.Local.Id] = true
			}

			if startsCandidate {
				a := inst.(*Assignment)
				candidates[selfT] = struct {
					X   Local
					Idx int
				}{X: a.DestLocal, Idx: i}
			}
		}

		b.compact()
	}
	return changed
}

// rewriteDestination sets inst's result Local to x. Every
// result-producing variant, Call included, has a single result Local
// and is rewritten here; PointerWrite has no result and is left as is.
func rewriteDestination(inst Instruction, x Local) {
	switch i := inst.(type) {
	case *BinaryOp:
		i.DestLocal = x
	case *UnaryOp:
		i.DestLocal = x
	case *Assignment:
		i.DestLocal = x
	case *Cast:
		i.DestLocal = x
	case *Call:
		i.DestLocal = x
	case *PointerRead:
		i.DestLocal = x
	case *AddressOf:
		i.DestLocal = x
	}
}
