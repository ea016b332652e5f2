package irtext

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// IRLexer tokenizes the IR-text boundary format: no source-language
// keywords, just the handful of punctuation and literal shapes
// spec.md §3's instruction/terminator grammar needs (modeled on the
// teacher's own stateful lexer, grammar/lexer.go).
var IRLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"String", `"(\\.|[^"\\])*"`, nil},
		{"Arrow", `->`, nil},
		{"Label", `\.[A-Za-z_][A-Za-z0-9_.]*`, nil},
		{"StrRef", `@str[0-9]+`, nil},
		{"Ident", `[A-Za-z_][A-Za-z0-9_]*`, nil},
		{"Int", `-?[0-9]+`, nil},
		{"Punct", `[%():,=*&:]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
