package ir

import (
	"fmt"
	"strings"
)

// Print renders a human-readable textual form of a Program, grounded
// on the teacher's own IR pretty-printer (kanso: internal/ir/printer.go)
// but emitting spec.md §3's instruction/terminator shapes instead of
// EVM SSA.
func Print(p *Program) string {
	var out strings.Builder
	for i, fn := range p.Functions {
		if i > 0 {
			out.WriteString("\n")
		}
		PrintFunction(&out, fn)
	}
	return out.String()
}

// PrintFunction writes one function's IR to out.
func PrintFunction(out *strings.Builder, f *Function) {
	fmt.Fprintf(out, "func %s(", f.Name)
	for i := 1; i <= f.ArgCount; i++ {
		if i > 1 {
			out.WriteString(", ")
		}
		fmt.Fprintf(out, "%%%d: %s", i, f.Locals[i].Type)
	}
	fmt.Fprintf(out, ") -> %s\n", f.ReturnType())

	printBlock(out, f.Prologue)
	for _, b := range f.Blocks {
		printBlock(out, b)
	}
	printBlock(out, f.Epilogue)
}

func printBlock(out *strings.Builder, b *BasicBlock) {
	fmt.Fprintf(out, "%s:\n", b.Label)
	for _, inst := range b.Instructions {
		fmt.Fprintf(out, "  %s\n", printInstruction(inst))
	}
	if b.Terminator != nil {
		fmt.Fprintf(out, "  %s\n", printTerminator(b.Terminator))
	}
}

func printInstruction(inst Instruction) string {
	switch i := inst.(type) {
	case *BinaryOp:
		return fmt.Sprintf("%%%d = %s %s, %s", i.DestLocal.Id, binOpName(i.Op), printRValue(i.Left), printRValue(i.Right))
	case *UnaryOp:
		return fmt.Sprintf("%%%d = %s %s", i.DestLocal.Id, unOpName(i.Op), printRValue(i.Operand))
	case *Assignment:
		return fmt.Sprintf("%%%d = %s", i.DestLocal.Id, printRValue(i.Source))
	case *Cast:
		return fmt.Sprintf("%%%d = cast %s to %s", i.DestLocal.Id, printRValue(i.Source), i.DestLocal.Type)
	case *Call:
		args := make([]string, len(i.Args))
		for idx, a := range i.Args {
			args[idx] = printRValue(a)
		}
		prefix := ""
		if i.HasResult {
			prefix = fmt.Sprintf("%%%d = ", i.DestLocal.Id)
		}
		variadic := ""
		if i.Variadic {
			variadic = " (variadic)"
		}
		return fmt.Sprintf("%scall %s(%s)%s", prefix, i.Name, strings.Join(args, ", "), variadic)
	case *PointerRead:
		return fmt.Sprintf("%%%d = *%s", i.DestLocal.Id, printRValue(i.Address))
	case *PointerWrite:
		return fmt.Sprintf("*%s = %s", printRValue(i.Address), printRValue(i.Source))
	case *AddressOf:
		return fmt.Sprintf("%%%d = &%s", i.DestLocal.Id, printAddressable(i.Source))
	case tombstone:
		return "<removed>"
	default:
		return "<unknown instruction>"
	}
}

func printTerminator(term Terminator) string {
	switch t := term.(type) {
	case *BasicJump:
		return fmt.Sprintf("jmp %s", t.Target.Label)
	case *ConditionalJump:
		return fmt.Sprintf("br %s, %s, %s", printRValue(t.Cond), t.TrueTarget.Label, t.FalseTarget.Label)
	default:
		return "<unknown terminator>"
	}
}

func printRValue(v RValue) string {
	if v.IsLocal() {
		return fmt.Sprintf("%%%d", v.Local.Id)
	}
	return fmt.Sprintf("%d", v.Imm.Value)
}

func printAddressable(a Addressable) string {
	if a.Kind == AddressableLocal {
		return fmt.Sprintf("%%%d", a.Local.Id)
	}
	return fmt.Sprintf("@str%d", a.StringLitId)
}

func binOpName(op BinaryOpKind) string {
	names := map[BinaryOpKind]string{
		ADD: "add", SUB: "sub", MUL: "mul", DIV: "div", MOD: "mod",
		EQ: "eq", NEQ: "neq", LT: "lt", GT: "gt", LE: "le", GE: "ge",
		AND: "and", XOR: "xor", OR: "or",
	}
	return names[op]
}

func unOpName(op UnaryOpKind) string {
	if op == NEG {
		return "neg"
	}
	return "lognot"
}
