package regalloc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"tacc/internal/ir"
)

func TestAddInterferenceIsUndirectedAndDeduped(t *testing.T) {
	g := NewInterferenceGraph(3)
	g.AddInterference(0, 1)
	g.AddInterference(1, 0)
	g.AddInterference(0, 1)

	assert.Equal(t, []ir.LocalId{1}, g.Neighbors(0))
	assert.Equal(t, []ir.LocalId{0}, g.Neighbors(1))
}

func TestAddInterferenceIgnoresSelfEdge(t *testing.T) {
	g := NewInterferenceGraph(2)
	g.AddInterference(0, 0)
	assert.Empty(t, g.Neighbors(0))
}

func TestPrintDotEmitsEachEdgeOnce(t *testing.T) {
	g := NewInterferenceGraph(3)
	g.AddInterference(0, 1)
	g.AddInterference(1, 2)

	var out strings.Builder
	g.PrintDot(&out)
	text := out.String()

	assert.Equal(t, 1, strings.Count(text, "_0 -- _1"))
	assert.Equal(t, 1, strings.Count(text, "_1 -- _2"))
	assert.Equal(t, 0, strings.Count(text, "_1 -- _0"), "an edge is printed only from the lower-numbered endpoint")
}
