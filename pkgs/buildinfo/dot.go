package buildinfo

import (
	"bytes"
	"fmt"
	"slices"
)

// ToDOT renders t as a Graphviz digraph. Components are boxes, system
// libraries are dashed ellipses, and every requires/system_libs entry is an
// edge in declared order.
func ToDOT(t Table) string {
	var buf bytes.Buffer
	buf.WriteString("digraph components {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box];\n")

	var sys []string
	for _, name := range t.Names() {
		for _, s := range t[name].SystemLibs {
			if !slices.Contains(sys, s) {
				sys = append(sys, s)
			}
		}
	}
	slices.Sort(sys)

	for _, name := range t.Names() {
		fmt.Fprintf(&buf, "  %q;\n", name)
	}
	for _, s := range sys {
		fmt.Fprintf(&buf, "  %q [shape=ellipse, style=dashed];\n", s)
	}
	buf.WriteString("\n")
	for _, name := range t.Names() {
		c := t[name]
		for _, dep := range c.Requires {
			fmt.Fprintf(&buf, "  %q -> %q;\n", name, dep)
		}
		for _, s := range c.SystemLibs {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", name, s)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}
