package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReorderBlocksFollowsTerminatorsFromPrologue(t *testing.T) {
	f := NewFunction("reorder_basic", INT, nil, nil)
	b2 := f.NewBlock()
	b1 := f.NewBlock()
	unreachable := f.NewBlock()

	f.Prologue.Terminator = &BasicJump{Target: b1}
	b1.Terminator = &BasicJump{Target: b2}
	b2.Terminator = &BasicJump{Target: f.Epilogue}
	unreachable.Terminator = &BasicJump{Target: f.Epilogue}

	ReorderBlocks(f)

	assert.Equal(t, []*BasicBlock{b1, b2}, f.Blocks, "blocks should be in reachability order from the prologue, dropping the unreachable block")
}

func TestReorderBlocksVisitsTrueBranchBeforeFalse(t *testing.T) {
	f := NewFunction("reorder_branch", INT, nil, nil)
	cond := f.NewLocal(BOOL, "cond")
	falseB := f.NewBlock()
	trueB := f.NewBlock()
	entry := f.NewBlock()

	f.Prologue.Terminator = &BasicJump{Target: entry}
	entry.Terminator = &ConditionalJump{Cond: LocalRValue(cond), TrueTarget: trueB, FalseTarget: falseB}
	trueB.Terminator = &BasicJump{Target: f.Epilogue}
	falseB.Terminator = &BasicJump{Target: f.Epilogue}

	ReorderBlocks(f)

	assert.Equal(t, []*BasicBlock{entry, trueB, falseB}, f.Blocks)
}
