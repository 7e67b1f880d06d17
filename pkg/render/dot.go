package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mnemonic-no/act-utils/pkg/graph"
)

// ToDOT converts g to Graphviz DOT source. Edge endpoints that were never
// declared as nodes are left for Graphviz to create.
func ToDOT(g *graph.Graph) string {
	var buf bytes.Buffer
	if c := g.Comment(); c != "" {
		for _, line := range strings.Split(c, "\n") {
			fmt.Fprintf(&buf, "// %s\n", line)
		}
	}
	fmt.Fprintf(&buf, "digraph %s {\n", quote(g.Name()))

	for n := range g.Nodes() {
		attrs := []string{"label=" + quote(n.DisplayLabel())}
		if n.Shape != graph.ShapeDefault {
			attrs = append(attrs, "shape="+string(n.Shape))
		}
		fmt.Fprintf(&buf, "\t%s [%s]\n", quote(n.ID), strings.Join(attrs, " "))
	}

	for e := range g.Edges() {
		var attrs []string
		if e.Label != "" {
			attrs = append(attrs, "label="+quote(e.Label))
		}
		if e.Bidirectional() {
			attrs = append(attrs, "dir=both")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "\t%s -> %s\n", quote(e.From), quote(e.To))
			continue
		}
		fmt.Fprintf(&buf, "\t%s -> %s [%s]\n", quote(e.From), quote(e.To), strings.Join(attrs, " "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// quote returns s as a DOT double-quoted string.
func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
