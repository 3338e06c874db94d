package css

import (
	"fmt"
	"strings"
)

// Warning is a non fatal diagnostic tied to a particular node.
type Warning struct {
	Plugin string
	Text   string
	Node   Node
}

func (w Warning) String() string {
	var sb strings.Builder
	if w.Plugin != "" {
		sb.WriteString(w.Plugin)
		sb.WriteString(": ")
	}
	if w.Node != nil {
		if file := File(w.Node); file != "" {
			sb.WriteString(file)
			sb.WriteString(": ")
		}
	}
	sb.WriteString(w.Text)
	return sb.String()
}

// Result carries a stylesheet through processing together with diagnostics
// produced along the way.
type Result struct {
	Root     *Root
	Warnings []Warning
}

// NewResult wraps parsed stylesheet.
func NewResult(root *Root) *Result {
	return &Result{Root: root}
}

// Warn records a warning for node n.
func (r *Result) Warn(plugin, text string, n Node) {
	r.Warnings = append(r.Warnings, Warning{Plugin: plugin, Text: text, Node: n})
}

// String returns CSS text of the processed stylesheet.
func (r *Result) String() string {
	if r.Root == nil {
		return ""
	}
	return r.Root.String()
}

// Messages returns warnings as text.
func (r *Result) Messages() []string {
	msgs := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		msgs = append(msgs, fmt.Sprint(w))
	}
	return msgs
}
