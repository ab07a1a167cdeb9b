package sip

import (
	"fmt"
	"strings"
)

// Representation renders each arc as `{ src1, src2, … } -> X1, X2, … q`, the
// human-readable form required by §6. Order follows Arcs(), i.e. insertion
// order.
func (g *Graph) Representation() []string {
	out := make([]string, 0, len(g.arcs))
	for _, a := range g.arcs {
		members := make([]string, len(a.Source))
		for i, id := range a.Source {
			members[i] = string(id)
		}
		vars := make([]string, len(a.Vars))
		for i, v := range a.Vars {
			vars[i] = v.String()
		}
		out = append(out, fmt.Sprintf("{ %s } -> %s %s",
			strings.Join(members, ", "),
			strings.Join(vars, ", "),
			a.To))
	}
	return out
}

// DOT renders the graph in graphviz DOT syntax: one node per
// subgoal-occurrence and per source set, with edge labels listing the
// bindings. This replaces the original's pydot dependency (not available
// anywhere in the example pack) with a direct text/template-free DOT writer;
// see DESIGN.md for why this one corner of §6 stays on the standard
// library.
func (g *Graph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph sip {\n")
	for i, a := range g.arcs {
		setNode := fmt.Sprintf("set%d", i)
		if a.HeadSourced {
			setNode = string(a.Source[0])
			fmt.Fprintf(&b, "  %q [shape=box];\n", setNode)
		} else {
			fmt.Fprintf(&b, "  %q [shape=point];\n", setNode)
			for _, m := range a.Source {
				fmt.Fprintf(&b, "  %q -> %q [arrowhead=none];\n", m, setNode)
			}
		}
		fmt.Fprintf(&b, "  %q [shape=plaintext];\n", a.To)
		labels := make([]string, len(a.Vars))
		for i, v := range a.Vars {
			labels[i] = v.String()
		}
		fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", setNode, a.To, strings.Join(labels, ","))
	}
	b.WriteString("}\n")
	return b.String()
}
