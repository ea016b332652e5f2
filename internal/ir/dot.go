package ir

import (
	"fmt"
	"io"
)

// PrintDot renders f's control-flow graph as a directed Graphviz dot
// document: one node per block (prologue, body, epilogue) and one edge
// per successor edge in its terminator, generalizing the interference
// graph's own PrintDot (internal/regalloc/interference.go) to CFG edges
// read from each block's terminator successors instead of the
// interference relation (SPEC_FULL.md §4.17).
func PrintDot(out io.Writer, f *Function) {
	blocks := make([]*BasicBlock, 0, len(f.Blocks)+2)
	blocks = append(blocks, f.Prologue)
	blocks = append(blocks, f.Blocks...)
	blocks = append(blocks, f.Epilogue)

	fmt.Fprintf(out, "digraph %q {\n", f.Name)
	for _, b := range blocks {
		fmt.Fprintf(out, "  %q\n", b.Label)
	}
	for _, b := range blocks {
		if b.Terminator == nil {
			continue
		}
		for _, succ := range b.Terminator.Successors() {
			fmt.Fprintf(out, "  %q -> %q\n", b.Label, succ.Label)
		}
	}
	fmt.Fprintln(out, "}")
}
