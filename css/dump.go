package css

import (
	"fmt"
	"strconv"
	"strings"
)

// treeWriter accumulates indented lines, two spaces per depth level.
type treeWriter struct {
	sb strings.Builder
}

func (tw *treeWriter) line(depth int, format string, args ...any) {
	tw.sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&tw.sb, format, args...)
	tw.sb.WriteByte('\n')
}

// text writes "label: value" line, non empty value is quoted so whitespace
// stays visible.
func (tw *treeWriter) text(depth int, label, value string) {
	if value != "" {
		value = strconv.Quote(value)
	}
	tw.line(depth, "%s: %s", label, value)
}

// Dump returns indented text representation of the tree for troubleshooting.
func (r *Root) Dump() string {
	tw := &treeWriter{}
	tw.line(0, "root file=%q nodes=%d", File(r), len(r.Nodes))
	tw.children(r, 1)
	return tw.sb.String()
}

func (tw *treeWriter) children(c Container, depth int) {
	for _, n := range c.Children() {
		switch n := n.(type) {
		case *AtRule:
			tw.line(depth, "atrule @%s block=%t", n.Name, n.HasBlock)
			tw.text(depth+1, "params", n.Params)
			tw.children(n, depth+1)
		case *Rule:
			tw.line(depth, "rule")
			tw.text(depth+1, "selector", n.Selector)
			tw.children(n, depth+1)
		case *Declaration:
			tw.line(depth, "decl %s important=%t", n.Prop, n.Important)
			tw.text(depth+1, "value", n.Value)
		case *Comment:
			tw.text(depth, "comment", n.Text)
		}
	}
}
