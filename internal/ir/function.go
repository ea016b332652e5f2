package ir

import (
	"strconv"

	"tacc/internal/errors"
)

// StringLiteral is an owned string constant referenced by id from
// AddressOf instructions and emitted to .rodata per function.
type StringLiteral struct {
	Id    int
	Value string
}

// Function holds one compilation unit's worth of IR: its locals, its
// body blocks, and the distinguished prologue/epilogue blocks that
// bracket the body but are not part of the Blocks slice (spec.md §3).
type Function struct {
	Name     string
	ArgCount int
	Locals   []LocalInfo // index 0 = return slot, 1..ArgCount = parameters
	Blocks   []*BasicBlock

	Prologue *BasicBlock
	Epilogue *BasicBlock

	Literals []StringLiteral

	blockCounter int
}

// ReturnType is the declared type of the return slot, Local id 0.
func (f *Function) ReturnType() *Type {
	if len(f.Locals) == 0 {
		return VOID
	}
	return f.Locals[0].Type
}

// ReturnLocal is Local id 0, valid for every function (spec.md §3).
func (f *Function) ReturnLocal() Local {
	return Local{Id: 0, Type: f.ReturnType()}
}

// LocalAt returns the Local for id, reading its type from the table.
func (f *Function) LocalAt(id LocalId) Local {
	if int(id) >= len(f.Locals) {
		errors.Fatalf(errors.FaultUnreachableCase, "function %q has no local %d", f.Name, id)
	}
	return Local{Id: id, Type: f.Locals[id].Type}
}

// IsParameter reports whether id names one of the function's
// declared parameters (ids 1..ArgCount).
func (f *Function) IsParameter(id LocalId) bool {
	return id >= 1 && int(id) <= f.ArgCount
}

// NewLocal appends a fresh entry to the local table and returns the
// resulting Local. The local table is append-only during construction
// (spec.md §3 "Lifecycles").
func (f *Function) NewLocal(t *Type, name string) Local {
	id := LocalId(len(f.Locals))
	f.Locals = append(f.Locals, LocalInfo{Type: t, Name: name})
	return Local{Id: id, Type: t}
}

// NewBlock appends a fresh, unterminated block to the body and
// returns it, labeling it from the function name and a monotonically
// increasing index (spec.md §3 "unique textual label").
func (f *Function) NewBlock() *BasicBlock {
	label := blockLabel(f.Name, f.blockCounter)
	f.blockCounter++
	b := &BasicBlock{Label: label}
	f.Blocks = append(f.Blocks, b)
	return b
}

func blockLabel(fn string, index int) string {
	return "." + fn + ".BB" + strconv.Itoa(index)
}

// NewStringLiteral appends a literal and returns its id.
func (f *Function) NewStringLiteral(value string) int {
	id := len(f.Literals)
	f.Literals = append(f.Literals, StringLiteral{Id: id, Value: value})
	return id
}

// StringLiteralAt validates and returns the literal at id.
func (f *Function) StringLiteralAt(id int) StringLiteral {
	if id < 0 || id >= len(f.Literals) {
		errors.Fatalf(errors.FaultUnreachableCase, "function %q has no string literal %d", f.Name, id)
	}
	return f.Literals[id]
}

// NewFunction creates a function with the return slot and argCount
// parameters pre-populated per spec.md §3 ("Local id 0 of every
// function is reserved as the return slot; ids 1..argCount correspond
// to parameters"), plus its prologue and epilogue blocks.
func NewFunction(name string, returnType *Type, paramTypes []*Type, paramNames []string) *Function {
	f := &Function{Name: name, ArgCount: len(paramTypes)}
	f.Locals = append(f.Locals, LocalInfo{Type: returnType, Name: "$ret"})
	for i, pt := range paramTypes {
		n := ""
		if i < len(paramNames) {
			n = paramNames[i]
		}
		f.Locals = append(f.Locals, LocalInfo{Type: pt, Name: n})
	}
	f.Prologue = &BasicBlock{Label: "." + name + ".prologue"}
	f.Epilogue = &BasicBlock{Label: "." + name + ".epilogue"}
	return f
}

// Program is the module-level container: the compiled functions plus
// the originating source filename, used by the CLI driver and the
// debug-artifact writers (SPEC_FULL.md §3).
type Program struct {
	SourceFile string
	Functions  []*Function
}
