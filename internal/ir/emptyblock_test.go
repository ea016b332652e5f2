package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyBlockEliminationSkipsOverEmptyTarget(t *testing.T) {
	f := NewFunction("skip_empty", INT, nil, nil)
	target := f.NewBlock()
	empty := f.NewBlock()
	entry := f.NewBlock()

	entry.Terminator = &BasicJump{Target: empty}
	empty.Terminator = &BasicJump{Target: target}
	target.Terminator = &BasicJump{Target: f.Epilogue}
	f.Prologue.Terminator = &BasicJump{Target: entry}

	deps := ComputeDependenceMap(f)
	changed := EmptyBlockElimination(f, deps)
	assert.True(t, changed)

	bj := entry.Terminator.(*BasicJump)
	assert.Equal(t, f.Epilogue, bj.Target, "target is empty too, so entry should jump straight past both empty blocks")
}

func TestEmptyBlockEliminationMergesSinglePredecessor(t *testing.T) {
	f := NewFunction("merge_single_pred", INT, nil, nil)
	x := f.NewLocal(INT, "x")
	mid := f.NewBlock()
	entry := f.NewBlock()

	mid.Instructions = append(mid.Instructions, &Assignment{DestLocal: x, Source: ImmRValue(Immediate{Value: 1, Type: INT})})
	mid.Terminator = &BasicJump{Target: f.Epilogue}
	entry.Terminator = &BasicJump{Target: mid}
	f.Prologue.Terminator = &BasicJump{Target: entry}

	deps := ComputeDependenceMap(f)
	changed := EmptyBlockElimination(f, deps)
	assert.True(t, changed)

	assert.Len(t, entry.Instructions, 1, "mid's single instruction should have merged into entry")
	bj := entry.Terminator.(*BasicJump)
	assert.Equal(t, f.Epilogue, bj.Target)
}

func TestEmptyBlockEliminationShortcutsConditionalThroughEmptyBranch(t *testing.T) {
	f := NewFunction("shortcut_cond", INT, nil, nil)
	cond := f.NewLocal(BOOL, "cond")
	x := f.NewLocal(INT, "x")
	innerTrue := f.NewBlock()
	innerFalse := f.NewBlock()
	emptyTrue := f.NewBlock()
	entry := f.NewBlock()
	// A second, unrelated predecessor into innerTrue (innerFalse already
	// has two: entry and emptyTrue) so the single-predecessor merge
	// rewrite does not also fire and consume them before
	// shortcutConditional runs — this test isolates the same-condition
	// branch shortcut specifically.
	other := f.NewBlock()

	innerTrue.Instructions = append(innerTrue.Instructions, &Assignment{DestLocal: x, Source: ImmRValue(Immediate{Value: 1, Type: INT})})
	innerFalse.Instructions = append(innerFalse.Instructions, &Assignment{DestLocal: x, Source: ImmRValue(Immediate{Value: 2, Type: INT})})

	entry.Terminator = &ConditionalJump{Cond: LocalRValue(cond), TrueTarget: emptyTrue, FalseTarget: innerFalse}
	emptyTrue.Terminator = &ConditionalJump{Cond: LocalRValue(cond), TrueTarget: innerTrue, FalseTarget: innerFalse}
	innerTrue.Terminator = &BasicJump{Target: f.Epilogue}
	innerFalse.Terminator = &BasicJump{Target: f.Epilogue}
	other.Terminator = &BasicJump{Target: innerTrue}
	f.Prologue.Terminator = &BasicJump{Target: entry}

	deps := ComputeDependenceMap(f)
	changed := EmptyBlockElimination(f, deps)
	assert.True(t, changed)

	cj := entry.Terminator.(*ConditionalJump)
	assert.Equal(t, innerTrue, cj.TrueTarget, "the same-condition empty true-branch should shortcut directly to its own true target")
}
