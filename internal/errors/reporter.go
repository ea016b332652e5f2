package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter formats CompilerErrors and BackendFaults the way the
// teacher's own error reporter does: a header line, a source
// location, the offending line with a caret marker, and optional
// notes — colorized for a terminal.
type Reporter struct {
	filename string
	source   string
	lines    []string
}

// NewReporter creates a reporter for a single IR-text source file.
func NewReporter(filename, source string) *Reporter {
	return &Reporter{
		filename: filename,
		source:   source,
		lines:    strings.Split(source, "\n"),
	}
}

// FormatCompilerError renders a caret-annotated diagnostic.
func (r *Reporter) FormatCompilerError(err *CompilerError) string {
	var out strings.Builder

	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()

	out.WriteString(fmt.Sprintf("%s[%s]: %s\n", red("error"), err.Code, err.Message))

	width := lineNumberWidth(err.Position.Line)
	indent := strings.Repeat(" ", width)

	out.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("-->"), err.Position))
	out.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	if err.Position.Line > 0 && err.Position.Line <= len(r.lines) {
		line := r.lines[err.Position.Line-1]
		out.WriteString(fmt.Sprintf("%s %s %s\n", bold(pad(err.Position.Line, width)), dim("│"), line))

		length := err.Length
		if length <= 0 {
			length = 1
		}
		marker := strings.Repeat(" ", max0(err.Position.Column-1)) + red(strings.Repeat("^", length))
		out.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), marker))
	}

	for _, note := range err.Notes {
		noteColor := color.New(color.FgBlue).SprintFunc()
		out.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), noteColor("note:"), note))
	}

	out.WriteString("\n")
	return out.String()
}

// FormatBackendFault renders a fatal back-end fault without source
// context, since these represent pipeline-internal invariant breaks
// rather than something traceable to a source position.
func FormatBackendFault(f *BackendFault) string {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	return fmt.Sprintf("%s[%s]: %s\n", red("fatal"), f.Code, f.Message)
}

func lineNumberWidth(line int) int {
	w := len(fmt.Sprintf("%d", line))
	if w < 3 {
		w = 3
	}
	return w
}

func pad(line, width int) string {
	return fmt.Sprintf("%*d", width, line)
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
