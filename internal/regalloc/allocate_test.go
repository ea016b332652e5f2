package regalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"tacc/internal/ir"
)

func TestAllocateColorsNonInterferingLocalsWithSameRegister(t *testing.T) {
	f := ir.NewFunction("alloc_simple", ir.INT, nil, nil)
	a := f.NewLocal(ir.INT, "a")
	b := f.NewLocal(ir.INT, "b")

	g := NewInterferenceGraph(len(f.Locals))
	// a and b never interfere: no edge recorded.

	result := Allocate(f, ir.PointedLocals{}, g, 2)

	ra, ok := result.InRegister(a.Id)
	assert.True(t, ok)
	rb, ok := result.InRegister(b.Id)
	assert.True(t, ok)
	assert.Equal(t, ra, rb, "locals that never interfere may share a register")
	assert.Empty(t, result.Spilled)
}

func TestAllocateAssignsDistinctRegistersWhenInterfering(t *testing.T) {
	f := ir.NewFunction("alloc_interfere", ir.INT, nil, nil)
	a := f.NewLocal(ir.INT, "a")
	b := f.NewLocal(ir.INT, "b")

	g := NewInterferenceGraph(len(f.Locals))
	g.AddInterference(a.Id, b.Id)

	result := Allocate(f, ir.PointedLocals{}, g, 2)

	ra, _ := result.InRegister(a.Id)
	rb, _ := result.InRegister(b.Id)
	assert.NotEqual(t, ra, rb)
}

func TestAllocateSpillsWhenRegistersExhausted(t *testing.T) {
	f := ir.NewFunction("alloc_spill", ir.INT, nil, nil)
	locals := make([]ir.Local, 3)
	for i := range locals {
		locals[i] = f.NewLocal(ir.INT, "x")
	}

	g := NewInterferenceGraph(len(f.Locals))
	// A 3-clique with only 2 registers forces exactly one spill.
	g.AddInterference(locals[0].Id, locals[1].Id)
	g.AddInterference(locals[1].Id, locals[2].Id)
	g.AddInterference(locals[0].Id, locals[2].Id)

	result := Allocate(f, ir.PointedLocals{}, g, 2)

	spilledCount := 0
	for _, l := range locals {
		if result.Spilled[l.Id] {
			spilledCount++
		}
	}
	assert.Equal(t, 1, spilledCount, "a 3-clique cannot be 2-colored; exactly one vertex must spill")
}

func TestAllocateSeedsSpillSetFromPointedLocals(t *testing.T) {
	f := ir.NewFunction("alloc_pointed", ir.INT, nil, nil)
	p := f.NewLocal(ir.PointerTo(ir.INT), "p")

	g := NewInterferenceGraph(len(f.Locals))
	pointed := ir.PointedLocals{p.Id: true}

	result := Allocate(f, pointed, g, 4)

	assert.True(t, result.Spilled[p.Id])
	_, ok := result.InRegister(p.Id)
	assert.False(t, ok, "a pointed local must never receive a register regardless of its degree")
}
