// Package irtext loads the textual IR boundary format into
// internal/ir structures, standing in for the front-end the pipeline
// spec assumes already exists (SPEC_FULL.md §4.18). It is explicitly
// not a parser for the source language the IR was originally lowered
// from — only for a small instruction-oriented grammar describing
// already-built IR.
package irtext

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"

	"tacc/internal/errors"
	"tacc/internal/ir"
)

var irParser = participle.MustBuild[File](
	participle.Lexer(IRLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(3),
)

// Parse reads source (attributed to filename for diagnostics) and
// builds an ir.Program from it. Grammar errors are wrapped into
// *errors.CompilerError with caret-style position info, the same
// shape the teacher's own front-end reports parse errors in
// (cmd/kanso-cli/main.go's reportParseError).
func Parse(filename, source string) (*ir.Program, error) {
	file, err := irParser.ParseString(filename, source)
	if err != nil {
		return nil, wrapParseError(filename, source, err)
	}
	return build(filename, file)
}

func wrapParseError(filename, source string, err error) error {
	pe, ok := err.(participle.Error)
	if !ok {
		return &errors.CompilerError{
			Code:    errors.ErrorMalformedIR,
			Message: err.Error(),
			Position: errors.Position{
				Filename: filename,
			},
		}
	}

	pos := pe.Position()
	return &errors.CompilerError{
		Code:    errors.ErrorMalformedIR,
		Message: pe.Message(),
		Position: errors.Position{
			Filename: filename,
			Line:     pos.Line,
			Column:   pos.Column,
		},
		Notes: []string{caretLine(source, pos.Line, pos.Column)},
	}
}

func caretLine(source string, line, column int) string {
	lines := strings.Split(source, "\n")
	if line <= 0 || line > len(lines) {
		return ""
	}
	src := lines[line-1]
	caretCol := column - 1
	if caretCol < 0 {
		caretCol = 0
	}
	return fmt.Sprintf("%s\n%s^", src, strings.Repeat(" ", caretCol))
}
