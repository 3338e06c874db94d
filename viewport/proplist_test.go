package viewport

import (
	"strings"
	"testing"
)

func TestFilterPropList(t *testing.T) {
	tests := []struct {
		name   string
		filter func([]string) []string
		list   []string
		want   string
	}{
		{"exact", FilterPropList.Exact, []string{"font-size", "margin", "!padding", "*border*", "*", "*y", "!*font*"}, "font-size,margin"},
		{"contain", FilterPropList.Contain, []string{"font-size", "*margin*", "!padding", "*border*", "*", "*y", "!*font*"}, "margin,border"},
		{"start", FilterPropList.StartWith, []string{"font-size", "*margin*", "!padding", "border*", "*", "*y", "!*font*"}, "border"},
		{"end", FilterPropList.EndWith, []string{"font-size", "*margin*", "!padding", "border*", "*", "*y", "!*font*"}, "y"},
		{"not", FilterPropList.NotExact, []string{"font-size", "*margin*", "!padding", "border*", "*", "*y", "!*font*"}, "padding"},
		{"not skips wildcards", FilterPropList.NotExact, []string{"!padding", "!border*", "!*y", "!!margin", "!"}, "padding"},
		{"not contain", FilterPropList.NotContain, []string{"font-size", "*margin*", "!padding", "!border*", "*", "*y", "!*font*"}, "font"},
		{"not start", FilterPropList.NotStartWith, []string{"font-size", "*margin*", "!padding", "!border*", "*", "*y", "!*font*"}, "border"},
		{"not end", FilterPropList.NotEndWith, []string{"font-size", "*margin*", "!padding", "!border*", "*", "!*y", "!*font*"}, "y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strings.Join(tt.filter(tt.list), ","); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPropList_Match(t *testing.T) {
	tests := []struct {
		name  string
		list  []string
		props map[string]bool
	}{
		{
			name:  "everything",
			list:  []string{"*"},
			props: map[string]bool{"width": true, "font-size": true, "--custom": true},
		},
		{
			name:  "empty list allows everything",
			list:  nil,
			props: map[string]bool{"width": true, "margin-left": true},
		},
		{
			name: "mixed",
			list: []string{"*font*", "margin*", "!margin-left", "*-right", "pad"},
			props: map[string]bool{
				"font-size":     true,
				"line-font":     true,
				"margin":        true,
				"margin-top":    true,
				"margin-left":   false,
				"padding":       false,
				"pad":           true,
				"padding-right": true,
				"width":         false,
			},
		},
		{
			name: "deny wins",
			list: []string{"*", "width", "!width", "!*padding*", "!font*", "!*-top"},
			props: map[string]bool{
				"width":          false,
				"padding":        false,
				"border-padding": false,
				"font-size":      false,
				"margin-top":     false,
				"margin":         true,
				"height":         true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pl := NewPropList(tt.list)
			for prop, want := range tt.props {
				if got := pl.Match(prop); got != want {
					t.Errorf("Match(%q) = %v, want %v", prop, got, want)
				}
			}
		})
	}
}
