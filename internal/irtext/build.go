package irtext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"tacc/internal/errors"
	"tacc/internal/ir"
)

func toPosition(filename string, pos lexer.Position) errors.Position {
	return errors.Position{Filename: filename, Line: pos.Line, Column: pos.Column}
}

func boundaryErr(filename string, pos lexer.Position, code, format string, args ...interface{}) *errors.CompilerError {
	return &errors.CompilerError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Position: toPosition(filename, pos),
	}
}

func build(filename string, file *File) (*ir.Program, error) {
	prog := &ir.Program{SourceFile: filename}
	for _, fd := range file.Functions {
		f, err := buildFunction(filename, fd)
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, f)
	}
	return prog, nil
}

func buildFunction(filename string, fd *FuncDecl) (*ir.Function, error) {
	if len(fd.Locals) < 1+fd.ArgCount {
		return nil, boundaryErr(filename, fd.Pos, errors.ErrorArityMismatch,
			"function %q declares argCount=%d but only %d locals", fd.Name, fd.ArgCount, len(fd.Locals))
	}

	types := make([]*ir.Type, len(fd.Locals))
	for i, ld := range fd.Locals {
		if ld.Id != i {
			return nil, boundaryErr(filename, ld.Pos, errors.ErrorMalformedIR,
				"local table must be declared in order; expected id %d, got %d", i, ld.Id)
		}
		t, err := resolveType(filename, ld.Type)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}

	f := ir.NewFunction(fd.Name, types[0], types[1:1+fd.ArgCount], nil)
	for i := 1 + fd.ArgCount; i < len(types); i++ {
		f.NewLocal(types[i], "")
	}

	for i, lit := range fd.Literals {
		id, err := strconv.Atoi(strings.TrimPrefix(lit.Ref, "@str"))
		if err != nil || id != i {
			return nil, boundaryErr(filename, lit.Pos, errors.ErrorMalformedIR,
				"string literals must be declared in order starting at @str0; got %s at position %d", lit.Ref, i)
		}
		f.NewStringLiteral(unescapeString(lit.Value))
	}

	blocksByLabel := map[string]*ir.BasicBlock{
		f.Prologue.Label: f.Prologue,
		f.Epilogue.Label: f.Epilogue,
	}
	declared := map[string]bool{}
	for _, bd := range fd.Blocks {
		if declared[bd.Label] {
			return nil, boundaryErr(filename, bd.Pos, errors.ErrorDuplicateLabel, "duplicate block label %q", bd.Label)
		}
		declared[bd.Label] = true

		if bd.Label == f.Prologue.Label || bd.Label == f.Epilogue.Label {
			continue
		}
		b := &ir.BasicBlock{Label: bd.Label}
		f.Blocks = append(f.Blocks, b)
		blocksByLabel[bd.Label] = b
	}

	for _, bd := range fd.Blocks {
		b := blocksByLabel[bd.Label]
		for _, inst := range bd.Insts {
			built, err := buildInstruction(filename, inst, types)
			if err != nil {
				return nil, err
			}
			b.Instructions = append(b.Instructions, built)
		}
		if bd.Term != nil {
			term, err := buildTerminator(filename, bd.Term, types, blocksByLabel)
			if err != nil {
				return nil, err
			}
			b.Terminator = term
		}
	}

	return f, nil
}

func resolveType(filename string, ref *TypeRef) (*ir.Type, error) {
	base, ok := primitiveTypes[ref.Name]
	if !ok {
		return nil, boundaryErr(filename, ref.Pos, errors.ErrorUnknownType, "unknown type %q", ref.Name)
	}
	t := base
	for range ref.Stars {
		t = ir.PointerTo(t)
	}
	return t, nil
}

var primitiveTypes = map[string]*ir.Type{
	"int":   ir.INT,
	"char":  ir.CHAR,
	"short": ir.SHORT,
	"long":  ir.LONG,
	"bool":  ir.BOOL,
	"void":  ir.VOID,
}

func checkLocalId(filename string, pos lexer.Position, id int, types []*ir.Type) (ir.Local, error) {
	if id < 0 || id >= len(types) {
		return ir.Local{}, boundaryErr(filename, pos, errors.ErrorUnknownLocal, "no local %%%d in this function", id)
	}
	return ir.Local{Id: ir.LocalId(id), Type: types[id]}, nil
}

// buildRVal resolves an RVal against the function's local table. When
// the operand is a bare integer literal, expected supplies the type it
// is tagged with — the grammar carries no type annotation of its own,
// so an immediate inherits the type of the position it fills, as
// chosen by the caller (the destination's type for binary, unary and
// assignment operands, the cast's target type, int for call arguments
// and pointer-write payloads, bool for a branch condition, a pointer
// type for an address).
func buildRVal(filename string, r *RVal, types []*ir.Type, expected *ir.Type) (ir.RValue, error) {
	if r.LocalId != nil {
		l, err := checkLocalId(filename, r.Pos, *r.LocalId, types)
		if err != nil {
			return ir.RValue{}, err
		}
		return ir.LocalRValue(l), nil
	}
	return ir.ImmRValue(ir.Immediate{Value: int64(*r.Imm), Type: expected}), nil
}

func buildAddr(filename string, a *Addr, types []*ir.Type) (ir.Addressable, error) {
	if a.LocalId != nil {
		l, err := checkLocalId(filename, a.Pos, *a.LocalId, types)
		if err != nil {
			return ir.Addressable{}, err
		}
		return ir.LocalAddressable(l), nil
	}
	id, err := strconv.Atoi(strings.TrimPrefix(*a.StrRef, "@str"))
	if err != nil {
		return ir.Addressable{}, boundaryErr(filename, a.Pos, errors.ErrorMalformedIR, "malformed string reference %q", *a.StrRef)
	}
	return ir.StringLiteralAddressable(id), nil
}

func destLocal(filename string, pos lexer.Position, id int, types []*ir.Type) (ir.Local, error) {
	return checkLocalId(filename, pos, id, types)
}

func buildInstruction(filename string, inst *Inst, types []*ir.Type) (ir.Instruction, error) {
	switch {
	case inst.Binary != nil:
		b := inst.Binary
		dest, err := destLocal(filename, b.Pos, b.Dest, types)
		if err != nil {
			return nil, err
		}
		left, err := buildRVal(filename, b.Left, types, dest.Type)
		if err != nil {
			return nil, err
		}
		right, err := buildRVal(filename, b.Right, types, dest.Type)
		if err != nil {
			return nil, err
		}
		return &ir.BinaryOp{DestLocal: dest, Left: left, Right: right, Op: binaryOpKinds[b.Op]}, nil

	case inst.Unary != nil:
		u := inst.Unary
		dest, err := destLocal(filename, u.Pos, u.Dest, types)
		if err != nil {
			return nil, err
		}
		operand, err := buildRVal(filename, u.Operand, types, dest.Type)
		if err != nil {
			return nil, err
		}
		return &ir.UnaryOp{DestLocal: dest, Operand: operand, Op: unaryOpKinds[u.Op]}, nil

	case inst.Cast != nil:
		c := inst.Cast
		dest, err := destLocal(filename, c.Pos, c.Dest, types)
		if err != nil {
			return nil, err
		}
		castType, err := resolveType(filename, c.Type)
		if err != nil {
			return nil, err
		}
		source, err := buildRVal(filename, c.Source, types, castType)
		if err != nil {
			return nil, err
		}
		return &ir.Cast{DestLocal: dest, Source: source}, nil

	case inst.Call != nil:
		call := inst.Call
		args := make([]ir.RValue, len(call.Args))
		for i, a := range call.Args {
			v, err := buildRVal(filename, a, types, ir.INT)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		out := &ir.Call{Name: call.Name, Args: args, Variadic: call.Variadic}
		if call.Dest != nil {
			dest, err := destLocal(filename, call.Pos, *call.Dest, types)
			if err != nil {
				return nil, err
			}
			out.DestLocal = dest
			out.HasResult = true
		}
		return out, nil

	case inst.PtrRead != nil:
		p := inst.PtrRead
		dest, err := destLocal(filename, p.Pos, p.Dest, types)
		if err != nil {
			return nil, err
		}
		addr, err := buildRVal(filename, p.Address, types, ir.PointerTo(dest.Type))
		if err != nil {
			return nil, err
		}
		return &ir.PointerRead{DestLocal: dest, Address: addr}, nil

	case inst.AddrOf != nil:
		a := inst.AddrOf
		dest, err := destLocal(filename, a.Pos, a.Dest, types)
		if err != nil {
			return nil, err
		}
		src, err := buildAddr(filename, a.Source, types)
		if err != nil {
			return nil, err
		}
		return &ir.AddressOf{DestLocal: dest, Source: src}, nil

	case inst.PtrWrite != nil:
		p := inst.PtrWrite
		addr, err := buildRVal(filename, p.Address, types, ir.PointerTo(ir.INT))
		if err != nil {
			return nil, err
		}
		source, err := buildRVal(filename, p.Source, types, ir.INT)
		if err != nil {
			return nil, err
		}
		return &ir.PointerWrite{Address: addr, Source: source}, nil

	default:
		a := inst.Assign
		dest, err := destLocal(filename, a.Pos, a.Dest, types)
		if err != nil {
			return nil, err
		}
		source, err := buildRVal(filename, a.Source, types, dest.Type)
		if err != nil {
			return nil, err
		}
		return &ir.Assignment{DestLocal: dest, Source: source}, nil
	}
}

var binaryOpKinds = map[string]ir.BinaryOpKind{
	"add": ir.ADD, "sub": ir.SUB, "mul": ir.MUL, "div": ir.DIV, "mod": ir.MOD,
	"eq": ir.EQ, "neq": ir.NEQ, "lt": ir.LT, "gt": ir.GT, "le": ir.LE, "ge": ir.GE,
	"and": ir.AND, "xor": ir.XOR, "or": ir.OR,
}

var unaryOpKinds = map[string]ir.UnaryOpKind{
	"neg": ir.NEG, "lognot": ir.LOGNOT,
}

func buildTerminator(filename string, term *Term, types []*ir.Type, blocks map[string]*ir.BasicBlock) (ir.Terminator, error) {
	if term.Jmp != nil {
		target, err := resolveBlock(filename, term.Jmp.Pos, term.Jmp.Target, blocks)
		if err != nil {
			return nil, err
		}
		return &ir.BasicJump{Target: target}, nil
	}

	br := term.Br
	cond, err := buildRVal(filename, br.Cond, types, ir.BOOL)
	if err != nil {
		return nil, err
	}
	trueTarget, err := resolveBlock(filename, br.Pos, br.TrueLabel, blocks)
	if err != nil {
		return nil, err
	}
	falseTarget, err := resolveBlock(filename, br.Pos, br.FalseLabel, blocks)
	if err != nil {
		return nil, err
	}
	return &ir.ConditionalJump{Cond: cond, TrueTarget: trueTarget, FalseTarget: falseTarget}, nil
}

func resolveBlock(filename string, pos lexer.Position, label string, blocks map[string]*ir.BasicBlock) (*ir.BasicBlock, error) {
	b, ok := blocks[label]
	if !ok {
		return nil, boundaryErr(filename, pos, errors.ErrorUnknownBlock, "no block labeled %q", label)
	}
	return b, nil
}

func unescapeString(s string) string {
	s = strings.Trim(s, `"`)
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	s = strings.ReplaceAll(s, `\n`, "\n")
	return s
}
