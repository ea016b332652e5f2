package ir

// RunOptimizationPipeline runs the fixed-point loop spec.md §2 and §4
// describe: propagate, liveness, DCE, constant-fold, liveness,
// two-step, empty-block, reorder — looping while any pass reported a
// change. Once the loop settles, local renumbering runs once. It
// returns the number of iterations performed, mirroring the teacher's
// OptimizationPipeline.Run progress reporting (kanso:
// internal/ir/optimizations.go) but as a return value rather than
// stdout logging, since this package has no CLI concerns of its own.
func RunOptimizationPipeline(f *Function) int {
	iterations := 0
	for {
		iterations++
		changed := false

		pointed := GatherPointedLocals(f)

		global := ComputeGlobalPropagation(f, pointed)
		if LocalValuePropagation(f, global, pointed) {
			changed = true
		}

		deps := ComputeDependenceMap(f)
		lv := ComputeLiveness(f, deps, nil, nil)
		if DeadCodeElimination(f, lv, pointed) {
			changed = true
		}

		if ConstantFold(f) {
			changed = true
		}

		deps = ComputeDependenceMap(f)
		lv = ComputeLiveness(f, deps, nil, nil)
		if TwoStepAssignmentElimination(f, lv, pointed) {
			changed = true
		}

		deps = ComputeDependenceMap(f)
		if EmptyBlockElimination(f, deps) {
			changed = true
		}

		ReorderBlocks(f)

		if !changed {
			break
		}
	}

	RenumberLocals(f)
	return iterations
}
