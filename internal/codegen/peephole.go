package codegen

import (
	"regexp"
	"strings"
)

var movSameOperand = regexp.MustCompile(`^\s*mov[bwlq]?\s+(\S+),\s*(\S+)\s*$`)
var labelLine = regexp.MustCompile(`^([.\w]+):\s*$`)
var jmpLine = regexp.MustCompile(`^\s*jmp\s+([.\w]+)\s*$`)
var jumpReferenceLine = regexp.MustCompile(`^\s*j\w+\s+([.\w]+)\s*$`)

// SimplifyAsm runs the fixed-point peephole cleanup from spec.md
// §4.15 over already-emitted assembly text: drop no-op moves, drop a
// jmp immediately followed by its own target label, and drop labels
// no jump instruction references.
func SimplifyAsm(text string) string {
	lines := strings.Split(text, "\n")
	for {
		next, changed := simplifyPass(lines)
		lines = next
		if !changed {
			break
		}
	}
	return strings.Join(lines, "\n")
}

func simplifyPass(lines []string) ([]string, bool) {
	changed := false

	out := lines[:0:0]
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if m := movSameOperand.FindStringSubmatch(line); m != nil && m[1] == m[2] {
			changed = true
			continue
		}
		if m := jmpLine.FindStringSubmatch(line); m != nil && i+1 < len(lines) {
			if lm := labelLine.FindStringSubmatch(lines[i+1]); lm != nil && lm[1] == m[1] {
				changed = true
				continue
			}
		}
		out = append(out, line)
	}

	referenced := map[string]bool{}
	for _, line := range out {
		if m := jumpReferenceLine.FindStringSubmatch(line); m != nil {
			referenced[m[1]] = true
		}
	}

	final := out[:0:0]
	for _, line := range out {
		if m := labelLine.FindStringSubmatch(line); m != nil && !referenced[m[1]] && !isGlobalDecl(final, m[1]) {
			changed = true
			continue
		}
		final = append(final, line)
	}

	return final, changed
}

// isGlobalDecl reports whether label was introduced by a .global
// directive earlier in the stream, meaning it names a function entry
// point and must survive even with no internal jmp referencing it.
func isGlobalDecl(lines []string, label string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) == ".global "+label {
			return true
		}
	}
	return false
}
