package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGatherPointedLocalsFindsAddressedLocalsOnly(t *testing.T) {
	f, b := newFn("pointed_basic")
	x := f.NewLocal(INT, "x")
	y := f.NewLocal(INT, "y")
	ptr := f.NewLocal(PointerTo(INT), "p")
	b.Instructions = append(b.Instructions,
		&Assignment{DestLocal: x, Source: ImmRValue(Immediate{Value: 1, Type: INT})},
		&Assignment{DestLocal: y, Source: ImmRValue(Immediate{Value: 2, Type: INT})},
		&AddressOf{DestLocal: ptr, Source: LocalAddressable(x)},
	)

	pointed := GatherPointedLocals(f)

	assert.True(t, pointed.Contains(x.Id))
	assert.False(t, pointed.Contains(y.Id), "y's address is never taken")
	assert.False(t, pointed.Contains(ptr.Id), "the pointer local itself is not pointed")
}

func TestGatherPointedLocalsIgnoresStringLiteralAddressable(t *testing.T) {
	f, b := newFn("pointed_string")
	ptr := f.NewLocal(PointerTo(CHAR), "p")
	lit := f.NewStringLiteral("hello")
	b.Instructions = append(b.Instructions, &AddressOf{DestLocal: ptr, Source: StringLiteralAddressable(lit)})

	pointed := GatherPointedLocals(f)
	assert.Empty(t, pointed, "a string-literal address-of has no Local to mark as pointed")
}
