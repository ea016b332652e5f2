package irtext

import "github.com/alecthomas/participle/v2/lexer"

// File is the top-level parse tree: a sequence of function
// definitions, modeled on the teacher's grammar.Program
// (grammar/grammar.go) but for the IR-text boundary format rather
// than Kanso source.
type File struct {
	Pos       lexer.Position
	Functions []*FuncDecl `@@*`
}

// FuncDecl declares a function's name, argument count, its full local
// table (id 0 is always the return slot, 1..ArgCount the parameters),
// any owned string literals, and its body blocks.
type FuncDecl struct {
	Pos      lexer.Position
	Name     string        `"func" @Ident "("`
	ArgCount int           `@Int ")" "locals"`
	Locals   []*LocalDecl  `@@*`
	Literals []*LiteralDecl `@@*`
	Blocks   []*BlockDecl  `@@*`
}

// LocalDecl types one entry of the local table by id, in declaration
// order.
type LocalDecl struct {
	Pos  lexer.Position
	Id   int      `"%" @Int ":"`
	Type *TypeRef `@@`
}

// TypeRef is a primitive name with zero or more trailing "*"
// qualifiers, e.g. "int" or "int * *".
type TypeRef struct {
	Pos   lexer.Position
	Name  string   `@Ident`
	Stars []string `{ @"*" }`
}

// LiteralDecl owns one string constant under a "@strN" reference.
type LiteralDecl struct {
	Pos   lexer.Position
	Ref   string `@StrRef ":"`
	Value string `@String`
}

// BlockDecl is one labeled basic block: zero or more instructions
// followed by an optional terminator (the epilogue block commonly has
// none).
type BlockDecl struct {
	Pos   lexer.Position
	Label string  `@Label ":"`
	Insts []*Inst `@@*`
	Term  *Term   `@@?`
}

// Inst is the closed alternation of instruction shapes. Order matters:
// each keyword-led alternative is tried before the catch-all
// AssignInst, which accepts any "%N = <rvalue>" shape.
type Inst struct {
	Pos      lexer.Position
	Binary   *BinaryInst       `  @@`
	Unary    *UnaryInst        `| @@`
	Cast     *CastInst         `| @@`
	Call     *CallInst         `| @@`
	PtrRead  *PointerReadInst  `| @@`
	AddrOf   *AddressOfInst    `| @@`
	PtrWrite *PointerWriteInst `| @@`
	Assign   *AssignInst       `| @@`
}

// BinaryInst is "%N = <op> <left>, <right>".
type BinaryInst struct {
	Pos   lexer.Position
	Dest  int    `"%" @Int "="`
	Op    string `@("add" | "sub" | "mul" | "div" | "mod" | "eq" | "neq" | "lt" | "gt" | "le" | "ge" | "and" | "xor" | "or")`
	Left  *RVal  `@@ ","`
	Right *RVal  `@@`
}

// UnaryInst is "%N = <op> <operand>".
type UnaryInst struct {
	Pos     lexer.Position
	Dest    int    `"%" @Int "="`
	Op      string `@("neg" | "lognot")`
	Operand *RVal  `@@`
}

// CastInst is "%N = cast <source> to <type>".
type CastInst struct {
	Pos    lexer.Position
	Dest   int      `"%" @Int "=" "cast"`
	Source *RVal    `@@ "to"`
	Type   *TypeRef `@@`
}

// CallInst is "[%N =] call <name>(<args>) [(variadic)]".
type CallInst struct {
	Pos      lexer.Position
	Dest     *int    `[ "%" @Int "=" ]`
	Name     string  `"call" @Ident "("`
	Args     []*RVal `[ @@ { "," @@ } ] ")"`
	Variadic bool    `[ "(" @"variadic" ")" ]`
}

// PointerReadInst is "%N = *<address>".
type PointerReadInst struct {
	Pos     lexer.Position
	Dest    int   `"%" @Int "=" "*"`
	Address *RVal `@@`
}

// AddressOfInst is "%N = &<addressable>".
type AddressOfInst struct {
	Pos    lexer.Position
	Dest   int   `"%" @Int "=" "&"`
	Source *Addr `@@`
}

// PointerWriteInst is "*<address> = <source>".
type PointerWriteInst struct {
	Pos     lexer.Position
	Address *RVal `"*" @@ "="`
	Source  *RVal `@@`
}

// AssignInst is the fallback "%N = <rvalue>" copy shape.
type AssignInst struct {
	Pos    lexer.Position
	Dest   int   `"%" @Int "="`
	Source *RVal `@@`
}

// RVal is Local | Immediate.
type RVal struct {
	Pos     lexer.Position
	LocalId *int `  "%" @Int`
	Imm     *int `| @Int`
}

// Addr is Local | string-literal reference, the operand shapes
// AddressOf accepts.
type Addr struct {
	Pos     lexer.Position
	LocalId *int    `  "%" @Int`
	StrRef  *string `| @StrRef`
}

// Term is the closed alternation of block terminators.
type Term struct {
	Pos lexer.Position
	Jmp *JmpTerm `  @@`
	Br  *BrTerm  `| @@`
}

// JmpTerm is "jmp <label>".
type JmpTerm struct {
	Pos    lexer.Position
	Target string `"jmp" @Label`
}

// BrTerm is "br <cond>, <trueLabel>, <falseLabel>".
type BrTerm struct {
	Pos        lexer.Position
	Cond       *RVal  `"br" @@ ","`
	TrueLabel  string `@Label ","`
	FalseLabel string `@Label`
}
