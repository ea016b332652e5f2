package ir

// ValueMap is a per-block input/output mapping Local -> RValue, where
// a present entry means "provably equal to this RValue on every path
// into this block" and a Local absent from the map is "known to be
// varying" (top), per spec.md §4.5.
type ValueMap map[LocalId]RValue

func (m ValueMap) clone() ValueMap {
	out := make(ValueMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// GlobalPropagation is the per-block result of the forwards dataflow
// analysis in spec.md §4.5: the entry (In) mapping each block starts
// local propagation from.
type GlobalPropagation map[*BasicBlock]ValueMap

// meet computes the join of two mappings: keep only entries where
// both sides agree exactly; a disagreement (or absence on either
// side) drops the entry, matching "top" for that Local.
func meet(a, b ValueMap, seen bool) ValueMap {
	if !seen {
		return a.clone()
	}
	out := ValueMap{}
	for id, av := range a {
		if bv, ok := b[id]; ok && av.Equal(bv) {
			out[id] = av
		}
	}
	return out
}

// transfer applies one block's instructions to an input mapping,
// producing the block's output mapping, per spec.md §4.5's transfer
// rule: Assignment(dest, src) records dest->src unless dest or src
// (if a Local) is pointed; every other destination-writing
// instruction marks its destination as varying (removed from the
// map).
func transfer(in ValueMap, b *BasicBlock, pointed PointedLocals) ValueMap {
	out := in.clone()
	for _, inst := range b.Instructions {
		switch i := inst.(type) {
		case *Assignment:
			if pointed.Contains(i.DestLocal.Id) {
				delete(out, i.DestLocal.Id)
				continue
			}
			if i.Source.IsLocal() && pointed.Contains(i.Source.Local.Id) {
				delete(out, i.DestLocal.Id)
				continue
			}
			out[i.DestLocal.Id] = i.Source
		default:
			if dest, ok := inst.Dest(); ok {
				delete(out, dest.Id)
			}
		}
	}
	return out
}

// ComputeGlobalPropagation runs the forwards worklist dataflow from
// spec.md §4.5. Blocks are seeded in reverse order so control-flow
// fall-through is visited early, as the spec directs.
func ComputeGlobalPropagation(f *Function, pointed PointedLocals) GlobalPropagation {
	result := GlobalPropagation{}
	seenIn := map[*BasicBlock]bool{}

	ensure := func(b *BasicBlock) ValueMap {
		if m, ok := result[b]; ok {
			return m
		}
		result[b] = ValueMap{}
		return result[b]
	}

	order := allBlocksReverse(f)
	var worklist []*BasicBlock
	worklist = append(worklist, order...)

	outputs := map[*BasicBlock]ValueMap{}

	for len(worklist) > 0 {
		current := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		ensure(current)
		out := transfer(result[current], current, pointed)

		prevOut, hadOut := outputs[current]
		if hadOut && equalValueMaps(prevOut, out) {
			continue
		}
		outputs[current] = out

		for _, succ := range successorsOf(current) {
			merged := meet(out, result[succ], seenIn[succ])
			seenIn[succ] = true
			if !equalValueMaps(merged, result[succ]) {
				result[succ] = merged
				worklist = append(worklist, succ)
			}
		}
	}

	return result
}

func equalValueMaps(a, b ValueMap) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		bv, ok := b[k]
		if !ok || !v.Equal(bv) {
			return false
		}
	}
	return true
}

func allBlocksReverse(f *Function) []*BasicBlock {
	all := make([]*BasicBlock, 0, len(f.Blocks)+2)
	all = append(all, f.Prologue)
	all = append(all, f.Blocks...)
	all = append(all, f.Epilogue)
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all
}

func successorsOf(b *BasicBlock) []*BasicBlock {
	if b.Terminator == nil {
		return nil
	}
	return b.Terminator.Successors()
}
