package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantFoldBothImmediateOperands(t *testing.T) {
	f, b := newFn("fold_both")
	b.Instructions = append(b.Instructions, &BinaryOp{
		DestLocal: f.ReturnLocal(),
		Left:      ImmRValue(Immediate{Value: 2, Type: INT}),
		Right:     ImmRValue(Immediate{Value: 3, Type: INT}),
		Op:        ADD,
	})

	changed := ConstantFold(f)
	assert.True(t, changed)

	a, ok := b.Instructions[0].(*Assignment)
	if !assert.True(t, ok, "expected the BinaryOp to fold into an Assignment") {
		return
	}
	assert.True(t, a.Source.IsImmediate())
	assert.Equal(t, int64(5), a.Source.Imm.Value)
}

func TestConstantFoldAlgebraicIdentityAddZero(t *testing.T) {
	f, b := newFn("fold_add_zero")
	x := f.NewLocal(INT, "x")
	b.Instructions = append(b.Instructions, &BinaryOp{
		DestLocal: f.ReturnLocal(),
		Left:      LocalRValue(x),
		Right:     ImmRValue(Immediate{Value: 0, Type: INT}),
		Op:        ADD,
	})

	assert.True(t, ConstantFold(f))

	a := b.Instructions[0].(*Assignment)
	assert.True(t, a.Source.IsLocal())
	assert.Equal(t, x.Id, a.Source.Local.Id)
}

func TestConstantFoldSubFromZeroNegates(t *testing.T) {
	f, b := newFn("fold_zero_sub")
	x := f.NewLocal(INT, "x")
	b.Instructions = append(b.Instructions, &BinaryOp{
		DestLocal: f.ReturnLocal(),
		Left:      ImmRValue(Immediate{Value: 0, Type: INT}),
		Right:     LocalRValue(x),
		Op:        SUB,
	})

	assert.True(t, ConstantFold(f))

	u, ok := b.Instructions[0].(*UnaryOp)
	if !assert.True(t, ok, "0 - x should fold into NEG(x)") {
		return
	}
	assert.Equal(t, NEG, u.Op)
}

func TestConstantFoldMulByZeroAndOne(t *testing.T) {
	f, b := newFn("fold_mul")
	x := f.NewLocal(INT, "x")
	y := f.NewLocal(INT, "y")
	b.Instructions = append(b.Instructions,
		&BinaryOp{DestLocal: x, Left: LocalRValue(y), Right: ImmRValue(Immediate{Value: 0, Type: INT}), Op: MUL},
		&BinaryOp{DestLocal: f.ReturnLocal(), Left: LocalRValue(y), Right: ImmRValue(Immediate{Value: 1, Type: INT}), Op: MUL},
	)

	assert.True(t, ConstantFold(f))

	zeroed := b.Instructions[0].(*Assignment)
	assert.True(t, zeroed.Source.IsImmediate())
	assert.Equal(t, int64(0), zeroed.Source.Imm.Value)

	identity := b.Instructions[1].(*Assignment)
	assert.True(t, identity.Source.IsLocal())
	assert.Equal(t, y.Id, identity.Source.Local.Id)
}

func TestConstantFoldConditionalJumpWithImmediateCond(t *testing.T) {
	f := NewFunction("fold_branch", INT, nil, nil)
	trueB := f.NewBlock()
	falseB := f.NewBlock()
	entry := f.NewBlock()
	entry.Terminator = &ConditionalJump{
		Cond:        ImmRValue(Immediate{Value: 1, Type: BOOL}),
		TrueTarget:  trueB,
		FalseTarget: falseB,
	}
	f.Prologue.Terminator = &BasicJump{Target: entry}
	trueB.Terminator = &BasicJump{Target: f.Epilogue}
	falseB.Terminator = &BasicJump{Target: f.Epilogue}

	assert.True(t, ConstantFold(f))

	bj, ok := entry.Terminator.(*BasicJump)
	if !assert.True(t, ok, "a constant-true condition should collapse to an unconditional jump") {
		return
	}
	assert.Equal(t, trueB, bj.Target)
}
