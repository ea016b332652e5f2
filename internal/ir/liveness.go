package ir

// LiveSet is the set of Locals live at some program point.
type LiveSet map[LocalId]bool

func (s LiveSet) clone() LiveSet {
	out := make(LiveSet, len(s))
	for id := range s {
		out[id] = true
	}
	return out
}

// insert adds id to s and reports whether s grew.
func (s LiveSet) insert(id LocalId) bool {
	if s[id] {
		return false
	}
	s[id] = true
	return true
}

// BlockLiveness is the per-block input (live at entry) and output
// (live at exit) set computed by the backwards dataflow analysis in
// spec.md §4.4.
type BlockLiveness struct {
	In  LiveSet
	Out LiveSet
}

// Liveness is the per-function result: one BlockLiveness per block,
// plus the prologue and epilogue's own entries.
type Liveness map[*BasicBlock]*BlockLiveness

func (lv Liveness) entry(b *BasicBlock) *BlockLiveness {
	bl, ok := lv[b]
	if !ok {
		bl = &BlockLiveness{In: LiveSet{}, Out: LiveSet{}}
		lv[b] = bl
	}
	return bl
}

// InterferenceRecorder is satisfied by internal/regalloc's
// InterferenceGraph. It is expressed as an interface here, rather
// than liveness depending on the regalloc package directly, to keep
// the coupling spec.md §9 calls for ("keep the liveness visitor
// responsible for graph construction ... but make the graph parameter
// optional") without an import cycle between ir and regalloc.
type InterferenceRecorder interface {
	AddInterference(a, b LocalId)
}

// CallLiveness records, for one Call instruction, the live set
// immediately before (after all its uses have applied) and
// immediately after (before def/uses apply) the call — spec.md §4.4's
// "Call-liveness side effect".
type CallLiveness struct {
	Before LiveSet
	After  LiveSet
}

// CallLivenessMap collects one CallLiveness per Call instruction
// encountered during the liveness walk.
type CallLivenessMap map[*Call]*CallLiveness

// ComputeLiveness runs the backwards worklist dataflow from spec.md
// §4.4 over f, given its predecessor map. ig and calls are optional
// side-effect outputs; pass nil for either to skip it.
func ComputeLiveness(f *Function, deps DependenceMap, ig InterferenceRecorder, calls CallLivenessMap) Liveness {
	lv := Liveness{}

	// Seed the epilogue's output with the return Local, and push
	// every block (plus prologue/epilogue) so each is visited at
	// least once (spec.md §4.4 "Algorithm").
	lv.entry(f.Epilogue).Out[f.ReturnLocal().Id] = true

	var worklist []*BasicBlock
	worklist = append(worklist, f.Prologue)
	worklist = append(worklist, f.Blocks...)
	worklist = append(worklist, f.Epilogue)

	push := func(b *BasicBlock) { worklist = append(worklist, b) }

	recordNewlyLive := func(working LiveSet, id LocalId) {
		if ig == nil {
			return
		}
		for other := range working {
			if other != id {
				ig.AddInterference(id, other)
			}
		}
	}

	setLive := func(working LiveSet, v RValue) {
		if !v.IsLocal() {
			return
		}
		if working.insert(v.Local.Id) {
			recordNewlyLive(working, v.Local.Id)
		}
	}
	unsetLive := func(working LiveSet, l Local) {
		delete(working, l.Id)
	}

	applyReverse := func(working LiveSet, b *BasicBlock) {
		if b.Terminator != nil {
			if cj, ok := b.Terminator.(*ConditionalJump); ok {
				setLive(working, cj.Cond)
			}
		}
		for i := len(b.Instructions) - 1; i >= 0; i-- {
			inst := b.Instructions[i]
			if call, ok := inst.(*Call); ok {
				if calls != nil {
					calls[call] = &CallLiveness{After: working.clone()}
				}
				if call.HasResult {
					unsetLive(working, call.DestLocal)
				}
				for _, arg := range call.Args {
					setLive(working, arg)
				}
				if calls != nil {
					calls[call].Before = working.clone()
				}
				continue
			}
			// Def is applied before uses when walking in reverse —
			// crucial for self-update patterns like x := x + 1
			// (spec.md §4.4).
			if dest, ok := inst.Dest(); ok {
				unsetLive(working, dest)
			}
			for _, u := range Uses(inst) {
				setLive(working, u)
			}
		}
	}

	for len(worklist) > 0 {
		current := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		working := lv.entry(current).Out.clone()
		applyReverse(working, current)

		// Merge working into the block's input; if it grew, propagate
		// to every predecessor's output and push those predecessors.
		inSet := lv.entry(current).In
		grew := false
		for id := range working {
			if inSet.insert(id) {
				grew = true
			}
		}

		if grew {
			for _, pred := range deps[current] {
				predOut := lv.entry(pred).Out
				changed := false
				for id := range inSet {
					if predOut.insert(id) {
						changed = true
						recordNewlyLive(predOut, id)
					}
				}
				if changed {
					push(pred)
				}
			}
		}
	}

	return lv
}
