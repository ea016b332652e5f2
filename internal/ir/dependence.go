package ir

// DependenceMap maps a block to its predecessors, built by inspecting
// every block's terminator (spec.md §4.2). A ConditionalJump adds two
// predecessor edges — duplicates are kept when both branches of a
// diamond target the same block, matching the original C++
// `BlockDependance` which stores predecessors as a plain vector
// (orig: compiler/BlockDependance.h).
type DependenceMap map[*BasicBlock][]*BasicBlock

// ComputeDependenceMap builds the predecessor map for f. The prologue
// has no predecessors; the epilogue's predecessors are whichever
// blocks (including the prologue, for a function with an empty body)
// jump or fall through into it.
func ComputeDependenceMap(f *Function) DependenceMap {
	deps := DependenceMap{}
	addEdge := func(from, to *BasicBlock) {
		if to == nil {
			return
		}
		deps[to] = append(deps[to], from)
	}

	record := func(b *BasicBlock) {
		switch t := b.Terminator.(type) {
		case *BasicJump:
			addEdge(b, t.Target)
		case *ConditionalJump:
			addEdge(b, t.TrueTarget)
			addEdge(b, t.FalseTarget)
		}
	}

	record(f.Prologue)
	for _, b := range f.Blocks {
		record(b)
	}
	return deps
}
