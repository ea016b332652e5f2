package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"tacc/internal/ir"
	"tacc/internal/regalloc"
)

func build7ArgFunction() *ir.Function {
	types := make([]*ir.Type, 7)
	for i := range types {
		types[i] = ir.INT
	}
	f := ir.NewFunction("f7", ir.VOID, types, nil)
	b := f.NewBlock()
	f.Prologue.Terminator = &ir.BasicJump{Target: b}
	b.Terminator = &ir.BasicJump{Target: f.Epilogue}
	return f
}

func buildAddFunction() *ir.Function {
	f := ir.NewFunction("add", ir.INT, []*ir.Type{ir.INT, ir.INT}, []string{"a", "b"})
	b := f.NewBlock()
	f.Prologue.Terminator = &ir.BasicJump{Target: b}
	a := f.LocalAt(1)
	bb := f.LocalAt(2)
	b.Instructions = append(b.Instructions, &ir.BinaryOp{
		DestLocal: f.ReturnLocal(),
		Left:      ir.LocalRValue(a),
		Right:     ir.LocalRValue(bb),
		Op:        ir.ADD,
	})
	b.Terminator = &ir.BasicJump{Target: f.Epilogue}
	return f
}

func TestEmitFunctionUnderO0SpillsEverythingAndAddsArguments(t *testing.T) {
	f := buildAddFunction()
	deps := ir.ComputeDependenceMap(f)
	lv := ir.ComputeLiveness(f, deps, nil, nil)

	out := EmitFunction(f, &FunctionInfo{Live: lv})

	assert.Contains(t, out, ".global add")
	assert.Contains(t, out, "add:")
	assert.Contains(t, out, "pushq   %rbp")
	assert.Contains(t, out, "subq    $24, %rsp")
	assert.Contains(t, out, "addl")
	assert.Contains(t, out, "ret")
}

func TestEmitFunctionEmitsStringLiteralsInRodata(t *testing.T) {
	f := ir.NewFunction("greet", ir.VOID, nil, nil)
	b := f.NewBlock()
	f.Prologue.Terminator = &ir.BasicJump{Target: b}
	b.Terminator = &ir.BasicJump{Target: f.Epilogue}
	f.NewStringLiteral("hi")

	deps := ir.ComputeDependenceMap(f)
	lv := ir.ComputeLiveness(f, deps, nil, nil)

	out := EmitFunction(f, &FunctionInfo{Live: lv})

	assert.Contains(t, out, ".section .rodata")
	assert.Contains(t, out, ".greet.literal.0:")
	assert.Contains(t, out, `.asciz "hi"`)
}

func TestEmitPrologueLoadsStackArgRelativeToRspWithoutAFrame(t *testing.T) {
	f := build7ArgFunction()
	// Only R10/R11 are caller-saved among AllocatableRegisters, so this
	// alloc needs no callee-save pushes and no spill slots: no frame.
	alloc := &regalloc.Result{Registers: map[ir.LocalId]uint32{
		0: 0, 1: 0, 2: 1, 3: 0, 4: 1, 5: 0, 6: 1, 7: 0,
	}}

	out := EmitFunction(f, &FunctionInfo{Alloc: alloc})

	assert.NotContains(t, out, "pushq   %rbp")
	assert.Contains(t, out, "8(%rsp)")
}

func TestEmitPrologueLoadsStackArgRelativeToRbpAccountingForCalleeSaves(t *testing.T) {
	f := build7ArgFunction()
	// Local 1 colors to RBX (a callee-saved register), forcing a
	// pushq %rbx the stack-arg offset must account for.
	alloc := &regalloc.Result{Registers: map[ir.LocalId]uint32{
		0: 0, 1: 2, 2: 1, 3: 0, 4: 1, 5: 0, 6: 1, 7: 0,
	}}

	out := EmitFunction(f, &FunctionInfo{Alloc: alloc})

	assert.Contains(t, out, "pushq   %rbp")
	assert.Contains(t, out, "pushq   %rbx")
	assert.Contains(t, out, "24(%rbp)")
}

func TestEmitRunsPeepholeOverTheWholeProgram(t *testing.T) {
	f := buildAddFunction()
	deps := ir.ComputeDependenceMap(f)
	lv := ir.ComputeLiveness(f, deps, nil, nil)

	prog := &ir.Program{Functions: []*ir.Function{f}}
	out := Emit(prog, map[*ir.Function]*FunctionInfo{f: {Live: lv}})

	assert.Contains(t, out, ".section .text")
	assert.Contains(t, out, "ret")
}
