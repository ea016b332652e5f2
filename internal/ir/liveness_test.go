package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeLivenessReturnValueCrossesToEntry(t *testing.T) {
	f, b := newFn("ret_copy")
	ten := f.NewLocal(INT, "ten")
	b.Instructions = append(b.Instructions,
		&Assignment{DestLocal: ten, Source: ImmRValue(Immediate{Value: 10, Type: INT})},
		&Assignment{DestLocal: f.ReturnLocal(), Source: LocalRValue(ten)},
	)

	deps := ComputeDependenceMap(f)
	lv := ComputeLiveness(f, deps, nil, nil)

	assert.True(t, lv[b].Out[0], "return local should be live on exit of the only body block")
	assert.Empty(t, lv[b].In, "both locals are fully defined and consumed within the block")
}

type recordingInterferenceGraph struct {
	edges map[[2]LocalId]bool
}

func (g *recordingInterferenceGraph) AddInterference(a, b LocalId) {
	if a > b {
		a, b = b, a
	}
	if g.edges == nil {
		g.edges = map[[2]LocalId]bool{}
	}
	g.edges[[2]LocalId{a, b}] = true
}

func TestComputeLivenessRecordsInterferenceForSimultaneouslyLiveLocals(t *testing.T) {
	f, b := newFn("interfere")
	x := f.NewLocal(INT, "x")
	y := f.NewLocal(INT, "y")
	b.Instructions = append(b.Instructions,
		&Assignment{DestLocal: x, Source: ImmRValue(Immediate{Value: 1, Type: INT})},
		&Assignment{DestLocal: y, Source: ImmRValue(Immediate{Value: 2, Type: INT})},
		&BinaryOp{DestLocal: f.ReturnLocal(), Left: LocalRValue(x), Right: LocalRValue(y), Op: ADD},
	)

	ig := &recordingInterferenceGraph{}
	deps := ComputeDependenceMap(f)
	ComputeLiveness(f, deps, ig, nil)

	assert.True(t, ig.edges[[2]LocalId{x.Id, y.Id}], "x and y are both live across the final add and must interfere")
}

func TestComputeLivenessRecordsCallBeforeAndAfter(t *testing.T) {
	f, b := newFn("call_live")
	arg := f.NewLocal(INT, "arg")
	result := f.NewLocal(INT, "result")
	call := &Call{DestLocal: result, Name: "helper", Args: []RValue{LocalRValue(arg)}, HasResult: true}
	b.Instructions = append(b.Instructions,
		&Assignment{DestLocal: arg, Source: ImmRValue(Immediate{Value: 5, Type: INT})},
		call,
		&Assignment{DestLocal: f.ReturnLocal(), Source: LocalRValue(result)},
	)

	calls := CallLivenessMap{}
	deps := ComputeDependenceMap(f)
	ComputeLiveness(f, deps, nil, calls)

	cl := calls[call]
	if cl == nil {
		t.Fatal("expected a CallLiveness entry for the call instruction")
	}
	assert.True(t, cl.After[result.Id], "result is live immediately after the call, before its def applies")
	assert.True(t, cl.Before[arg.Id], "arg is live immediately before the call, once its use applies")
}
