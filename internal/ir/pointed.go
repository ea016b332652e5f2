package ir

// PointedLocals is the set of Locals that have had their address
// taken somewhere in the function (spec.md §4.3). These locals must
// be spilled to memory and are excluded from value propagation and
// dead-code elimination, since aliasing through the taken address may
// observe or mutate them outside the instructions that name them
// directly.
type PointedLocals map[LocalId]bool

// GatherPointedLocals walks every instruction in f looking for
// AddressOf(_, Local) and returns the set of addressed Locals (orig:
// compiler/PointedLocalGatherer.h).
func GatherPointedLocals(f *Function) PointedLocals {
	pointed := PointedLocals{}
	visitor := &Visitor{
		AddressOf: func(a *AddressOf) {
			if a.Source.Kind == AddressableLocal {
				pointed[a.Source.Local.Id] = true
			}
		},
	}
	visitor.WalkFunction(f)
	return pointed
}

// Contains reports whether id is a pointed local.
func (p PointedLocals) Contains(id LocalId) bool { return p[id] }
