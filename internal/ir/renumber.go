package ir

import "sort"

// RenumberLocals walks every instruction and terminator collecting the
// set of Locals actually used, preserves the return Local and
// parameters, and rebuilds a dense [0, |U|) local table, substituting
// every reference via the old->new translation map (spec.md §4.12).
// It is a bijection on the set of used locals.
func RenumberLocals(f *Function) {
	used := map[LocalId]bool{}
	used[0] = true
	for i := 1; i <= f.ArgCount; i++ {
		used[LocalId(i)] = true
	}

	collect := &Visitor{
		BinaryOp:     func(i *BinaryOp) { markUse(used, i.Left); markUse(used, i.Right); used[i.DestLocal.Id] = true },
		UnaryOp:      func(i *UnaryOp) { markUse(used, i.Operand); used[i.DestLocal.Id] = true },
		Assignment:   func(i *Assignment) { markUse(used, i.Source); used[i.DestLocal.Id] = true },
		Cast:         func(i *Cast) { markUse(used, i.Source); used[i.DestLocal.Id] = true },
		PointerRead:  func(i *PointerRead) { markUse(used, i.Address); used[i.DestLocal.Id] = true },
		PointerWrite: func(i *PointerWrite) { markUse(used, i.Address); markUse(used, i.Source) },
		AddressOf: func(i *AddressOf) {
			if i.Source.Kind == AddressableLocal {
				used[i.Source.Local.Id] = true
			}
			used[i.DestLocal.Id] = true
		},
		Call: func(i *Call) {
			for _, a := range i.Args {
				markUse(used, a)
			}
			if i.HasResult {
				used[i.DestLocal.Id] = true
			}
		},
		ConditionalJump: func(t *ConditionalJump) { markUse(used, t.Cond) },
	}
	collect.WalkFunction(f)

	ordered := make([]LocalId, 0, len(used))
	for id := range used {
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	translate := map[LocalId]LocalId{}
	newLocals := make([]LocalInfo, 0, len(ordered))
	for newId, oldId := range ordered {
		translate[oldId] = LocalId(newId)
		newLocals = append(newLocals, f.Locals[oldId])
	}

	remap := func(l Local) Local {
		newId := translate[l.Id]
		return Local{Id: newId, Type: f.Locals[l.Id].Type}
	}
	remapRValue := func(v RValue) RValue {
		if v.IsLocal() {
			return LocalRValue(remap(v.Local))
		}
		return v
	}

	apply := &Visitor{
		BinaryOp: func(i *BinaryOp) {
			i.DestLocal = remap(i.DestLocal)
			i.Left = remapRValue(i.Left)
			i.Right = remapRValue(i.Right)
		},
		UnaryOp: func(i *UnaryOp) {
			i.DestLocal = remap(i.DestLocal)
			i.Operand = remapRValue(i.Operand)
		},
		Assignment: func(i *Assignment) {
			i.DestLocal = remap(i.DestLocal)
			i.Source = remapRValue(i.Source)
		},
		Cast: func(i *Cast) {
			i.DestLocal = remap(i.DestLocal)
			i.Source = remapRValue(i.Source)
		},
		PointerRead: func(i *PointerRead) {
			i.DestLocal = remap(i.DestLocal)
			i.Address = remapRValue(i.Address)
		},
		PointerWrite: func(i *PointerWrite) {
			i.Address = remapRValue(i.Address)
			i.Source = remapRValue(i.Source)
		},
		AddressOf: func(i *AddressOf) {
			i.DestLocal = remap(i.DestLocal)
			if i.Source.Kind == AddressableLocal {
				i.Source = LocalAddressable(remap(i.Source.Local))
			}
		},
		Call: func(i *Call) {
			if i.HasResult {
				i.DestLocal = remap(i.DestLocal)
			}
			for idx, a := range i.Args {
				i.Args[idx] = remapRValue(a)
			}
		},
		ConditionalJump: func(t *ConditionalJump) { t.Cond = remapRValue(t.Cond) },
	}
	apply.WalkFunction(f)

	f.Locals = newLocals
}

func markUse(used map[LocalId]bool, v RValue) {
	if v.IsLocal() {
		used[v.Local.Id] = true
	}
}
