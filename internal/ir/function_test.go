package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFunctionPrePopulatesReturnAndParameters(t *testing.T) {
	f := NewFunction("add", INT, []*Type{INT, INT}, []string{"a", "b"})

	assert.Equal(t, INT, f.ReturnType())
	assert.Equal(t, 2, f.ArgCount)
	assert.True(t, f.IsParameter(1))
	assert.True(t, f.IsParameter(2))
	assert.False(t, f.IsParameter(0), "id 0 is the return slot, not a parameter")
	assert.False(t, f.IsParameter(3))
	assert.Equal(t, ".add.prologue", f.Prologue.Label)
	assert.Equal(t, ".add.epilogue", f.Epilogue.Label)
}

func TestNewBlockLabelsAreUniqueAndMonotonic(t *testing.T) {
	f := NewFunction("labels", VOID, nil, nil)
	b0 := f.NewBlock()
	b1 := f.NewBlock()
	assert.NotEqual(t, b0.Label, b1.Label)
	assert.Equal(t, ".labels.BB0", b0.Label)
	assert.Equal(t, ".labels.BB1", b1.Label)
}

func TestBlockCompactDropsTombstones(t *testing.T) {
	f, b := newFn("compact")
	x := f.NewLocal(INT, "x")
	b.Instructions = append(b.Instructions,
		&Assignment{DestLocal: x, Source: ImmRValue(Immediate{Value: 1, Type: INT})},
		tombstone{},
		&Assignment{DestLocal: f.ReturnLocal(), Source: LocalRValue(x)},
	)

	assert.Len(t, b.Instructions, 3)
	b.compact()
	assert.Len(t, b.Instructions, 2)
	for _, inst := range b.Instructions {
		assert.False(t, isTombstone(inst))
	}
}

func TestStringLiteralRoundTrip(t *testing.T) {
	f := NewFunction("lit", VOID, nil, nil)
	id := f.NewStringLiteral("hello")
	lit := f.StringLiteralAt(id)
	assert.Equal(t, "hello", lit.Value)
	assert.Equal(t, id, lit.Id)
}
