package css_test

import (
	"strings"
	"testing"

	"pxtovw/css"
)

func TestContainer_InsertAfterDuringEach(t *testing.T) {
	root := parse(t, ".a { width: 1px; height: 2px }")
	rule := root.Nodes[0].(*css.Rule)

	var visited []string
	rule.Each(func(n css.Node, i int) bool {
		d := n.(*css.Declaration)
		visited = append(visited, d.Prop+":"+d.Value)
		if strings.HasSuffix(d.Value, "px") {
			rule.InsertAfter(i, d.CloneWithValue(strings.TrimSuffix(d.Value, "px")+"vw"))
		}
		return true
	})

	want := []string{"width:1px", "width:1vw", "height:2px", "height:2vw"}
	if strings.Join(visited, ",") != strings.Join(want, ",") {
		t.Errorf("visited %v, want %v", visited, want)
	}
	if got := root.String(); got != ".a { width: 1px; width: 1vw; height: 2px; height: 2vw }" {
		t.Errorf("got %q", got)
	}
}

func TestContainer_RemoveDuringEach(t *testing.T) {
	root := parse(t, ".a { /* x */ width: 1px; /* y */ height: 2px }")
	rule := root.Nodes[0].(*css.Rule)

	var visited []string
	rule.Each(func(n css.Node, i int) bool {
		d, ok := n.(*css.Declaration)
		if !ok {
			return true
		}
		visited = append(visited, d.Prop)
		if prev, ok := css.Prev(d).(*css.Comment); ok {
			css.Remove(prev)
		}
		return true
	})

	if strings.Join(visited, ",") != "width,height" {
		t.Errorf("visited %v", visited)
	}
	if got := root.String(); got != ".a { width: 1px; height: 2px }" {
		t.Errorf("got %q", got)
	}
}

func TestContainer_EachStops(t *testing.T) {
	root := parse(t, "a{} b{} c{}")
	count := 0
	done := root.Each(func(css.Node, int) bool {
		count++
		return count < 2
	})
	if done || count != 2 {
		t.Errorf("Each() = %v after %d nodes", done, count)
	}
}

func TestContainer_CloneAndRemoveAll(t *testing.T) {
	root := parse(t, ".a { width: 1px; height: 2px }")
	rule := root.Nodes[0].(*css.Rule)

	shell := rule.Clone().(*css.Rule)
	shell.RemoveAll()
	if len(shell.Nodes) != 0 || shell.Parent() != nil {
		t.Fatalf("unexpected shell %+v", shell)
	}
	if len(rule.Nodes) != 2 {
		t.Fatalf("original rule modified")
	}

	shell.Append(css.Declarations(rule)[1].CloneWithValue("1vw"))
	if got := css.NodeString(shell); got != ".a { height: 1vw }" {
		t.Errorf("got %q", got)
	}
	if css.Declarations(rule)[1].Value != "2px" {
		t.Errorf("clone shares state with original")
	}
}

func TestContainer_AppendMovesNode(t *testing.T) {
	root := parse(t, ".a { width: 1px } .b { }")
	a := root.Nodes[0].(*css.Rule)
	b := root.Nodes[1].(*css.Rule)

	d := css.Declarations(a)[0]
	b.Append(d)
	if len(a.Nodes) != 0 || d.Parent() != css.Container(b) {
		t.Fatalf("node was not moved")
	}
}

func TestWalkRules(t *testing.T) {
	root := parse(t, ".a{} @media print { .b{} @supports (x: y) { .c{} } } .d{}")
	var got []string
	css.WalkRules(root, func(r *css.Rule) {
		got = append(got, r.Selector)
	})
	if strings.Join(got, " ") != ".a .b .c .d" {
		t.Errorf("WalkRules order %v", got)
	}
}

func TestSiblings(t *testing.T) {
	root := parse(t, ".a { /* c */ width: 1px }")
	rule := root.Nodes[0].(*css.Rule)
	c := rule.Nodes[0]
	d := rule.Nodes[1]

	if css.Prev(c) != nil || css.Next(c) != d || css.Prev(d) != c || css.Next(d) != nil {
		t.Error("unexpected siblings")
	}
	if css.RootOf(d) != root {
		t.Error("RootOf() does not return root")
	}
	css.Remove(d)
	if css.RootOf(d) != nil || css.Next(c) != nil {
		t.Error("removed node still attached")
	}
}
