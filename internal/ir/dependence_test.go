package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDependenceMapConditionalJumpAddsBothEdges(t *testing.T) {
	f := NewFunction("deps_basic", INT, nil, nil)
	cond := f.NewLocal(BOOL, "cond")
	trueB := f.NewBlock()
	falseB := f.NewBlock()
	entry := f.NewBlock()

	f.Prologue.Terminator = &BasicJump{Target: entry}
	entry.Terminator = &ConditionalJump{Cond: LocalRValue(cond), TrueTarget: trueB, FalseTarget: falseB}
	trueB.Terminator = &BasicJump{Target: f.Epilogue}
	falseB.Terminator = &BasicJump{Target: f.Epilogue}

	deps := ComputeDependenceMap(f)

	assert.ElementsMatch(t, []*BasicBlock{entry}, deps[trueB])
	assert.ElementsMatch(t, []*BasicBlock{entry}, deps[falseB])
	assert.ElementsMatch(t, []*BasicBlock{trueB, falseB}, deps[f.Epilogue])
	assert.Empty(t, deps[f.Prologue])
}

func TestComputeDependenceMapDuplicatesOnDiamondBothBranches(t *testing.T) {
	f := NewFunction("deps_duplicate", INT, nil, nil)
	cond := f.NewLocal(BOOL, "cond")
	shared := f.NewBlock()
	entry := f.NewBlock()

	f.Prologue.Terminator = &BasicJump{Target: entry}
	entry.Terminator = &ConditionalJump{Cond: LocalRValue(cond), TrueTarget: shared, FalseTarget: shared}
	shared.Terminator = &BasicJump{Target: f.Epilogue}

	deps := ComputeDependenceMap(f)

	assert.Len(t, deps[shared], 2, "both branches of the same conditional targeting one block contribute a predecessor edge each")
}
