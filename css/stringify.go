package css

import (
	"io"
	"regexp"
	"strings"
)

// defaultRaws are used when formatting can not be inferred from the tree.
var defaultRaws = map[string]string{
	"after":         "\n",
	"beforeClose":   "\n",
	"beforeComment": "\n",
	"beforeDecl":    "\n",
	"beforeOpen":    " ",
	"beforeRule":    "\n",
	"colon":         ": ",
	"commentLeft":   " ",
	"commentRight":  " ",
	"emptyBody":     "",
	"indent":        "    ",
	"semicolon":     "",
}

var (
	lastLine   = regexp.MustCompile(`[^\n]+$`)
	notColonWS = regexp.MustCompile(`[^\s:]`)
)

// stringifier writes the tree back to text. Nodes created without raws get
// their formatting inferred from the first node in the tree which has it, so
// synthesized blocks look like their neighbours.
type stringifier struct {
	sb    strings.Builder
	cache map[string]string
}

// String returns CSS text of the stylesheet.
func (r *Root) String() string {
	s := &stringifier{cache: make(map[string]string)}
	s.root(r)
	return s.sb.String()
}

// WriteTo writes the stylesheet to w, implementing io.WriterTo.
func (r *Root) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}

// NodeString returns CSS text of a single node (and its children).
func NodeString(n Node) string {
	s := &stringifier{cache: make(map[string]string)}
	s.stringify(n, false)
	return s.sb.String()
}

func (s *stringifier) stringify(n Node, semicolon bool) {
	switch n := n.(type) {
	case *Root:
		s.root(n)
	case *AtRule:
		s.atRule(n, semicolon)
	case *Rule:
		s.rule(n)
	case *Declaration:
		s.decl(n, semicolon)
	case *Comment:
		s.comment(n)
	}
}

func (s *stringifier) root(r *Root) {
	s.body(r)
	if after := r.Raws()[RawAfter]; after != "" {
		s.sb.WriteString(after)
	}
}

func (s *stringifier) body(c Container) {
	children := c.Children()
	last := len(children) - 1
	for last > 0 && children[last].Type() == CommentNode {
		last--
	}
	semicolon := s.raw(c, RawSemicolon, "") == ";"
	for i, child := range children {
		if before := s.raw(child, RawBefore, ""); before != "" {
			s.sb.WriteString(before)
		}
		s.stringify(child, last != i || semicolon)
	}
}

func (s *stringifier) decl(d *Declaration, semicolon bool) {
	s.sb.WriteString(d.Prop)
	s.sb.WriteString(s.raw(d, RawBetween, "colon"))
	if d.RawValue != nil && d.RawValue.Value == d.Value {
		s.sb.WriteString(d.RawValue.Raw)
	} else {
		s.sb.WriteString(d.Value)
	}
	if d.Important {
		if imp, ok := d.Raws().Get(RawImportant); ok && imp != "" {
			s.sb.WriteString(imp)
		} else {
			s.sb.WriteString(" !important")
		}
	}
	if semicolon {
		s.sb.WriteByte(';')
	}
}

func (s *stringifier) rule(r *Rule) {
	s.block(r, r.Selector)
	if own, ok := r.Raws().Get(RawOwnSemicolon); ok {
		s.sb.WriteString(own)
	}
}

func (s *stringifier) atRule(a *AtRule, semicolon bool) {
	name := "@" + a.Name
	if afterName, ok := a.Raws().Get(RawAfterName); ok {
		name += afterName
	} else if a.Params != "" {
		name += " "
	}
	if a.HasBlock {
		s.block(a, name+a.Params)
		return
	}
	s.sb.WriteString(name + a.Params + a.Raws()[RawBetween])
	if semicolon {
		s.sb.WriteByte(';')
	}
}

func (s *stringifier) block(c Container, start string) {
	s.sb.WriteString(start)
	s.sb.WriteString(s.raw(c, RawBetween, "beforeOpen"))
	s.sb.WriteByte('{')
	var after string
	if len(c.Children()) > 0 {
		s.body(c)
		after = s.raw(c, RawAfter, "")
	} else {
		after = s.raw(c, RawAfter, "emptyBody")
	}
	s.sb.WriteString(after)
	s.sb.WriteByte('}')
}

func (s *stringifier) comment(c *Comment) {
	s.sb.WriteString("/*")
	s.sb.WriteString(s.raw(c, RawLeft, "commentLeft"))
	s.sb.WriteString(c.Text)
	s.sb.WriteString(s.raw(c, RawRight, "commentRight"))
	s.sb.WriteString("*/")
}

// raw returns own formatting of n for key own, or infers it using detect
// (which defaults to own).
func (s *stringifier) raw(n Node, own, detect string) string {
	if detect == "" {
		detect = own
	}
	if own != "" {
		if v, ok := n.Raws().Get(own); ok {
			return v
		}
	}

	parent := n.Parent()
	if detect == RawBefore {
		if parent == nil {
			return ""
		}
		if r, ok := parent.(*Root); ok && len(r.Nodes) > 0 && r.Nodes[0] == n {
			return ""
		}
	}
	if parent == nil {
		return defaultRaws[detect]
	}

	root := RootOf(n)
	if root == nil {
		return defaultRaws[detect]
	}
	if v, ok := s.cache[detect]; ok {
		return v
	}
	if detect == RawBefore || detect == RawAfter {
		return s.beforeAfter(n, detect)
	}

	v, ok := s.detect(root, n, own, detect)
	if !ok {
		v = defaultRaws[detect]
	}
	s.cache[detect] = v
	return v
}

func (s *stringifier) beforeAfter(n Node, detect string) string {
	var v string
	switch {
	case n.Type() == DeclarationNode:
		v = s.raw(n, "", "beforeDecl")
	case n.Type() == CommentNode:
		v = s.raw(n, "", "beforeComment")
	case detect == RawBefore:
		v = s.raw(n, "", "beforeRule")
	default:
		v = s.raw(n, "", "beforeClose")
	}

	depth := 0
	for p := n.Parent(); p != nil && p.Type() != RootNode; p = p.Parent() {
		depth++
	}
	if strings.Contains(v, "\n") {
		if indent := s.raw(n, "", "indent"); indent != "" {
			v += strings.Repeat(indent, depth)
		}
	}
	return v
}

// detect looks for the first node in the tree which has the formatting
// requested.
func (s *stringifier) detect(root *Root, n Node, own, detect string) (string, bool) {
	var (
		value string
		found bool
	)
	trimLastLine := func(v string) string {
		if strings.Contains(v, "\n") {
			return lastLine.ReplaceAllString(v, "")
		}
		return v
	}

	switch detect {
	case RawSemicolon:
		Walk(root, func(i Node) bool {
			c, ok := i.(Container)
			if !ok || len(c.Children()) == 0 {
				return true
			}
			if c.Children()[len(c.Children())-1].Type() == DeclarationNode {
				value, found = i.Raws().Get(RawSemicolon)
			}
			return !found
		})

	case "emptyBody":
		Walk(root, func(i Node) bool {
			if c, ok := i.(Container); ok && len(c.Children()) == 0 && hasBlock(c) {
				value, found = i.Raws().Get(RawAfter)
			}
			return !found
		})

	case "indent":
		if v, ok := root.Raws().Get("indent"); ok && v != "" {
			return v, true
		}
		Walk(root, func(i Node) bool {
			p := i.Parent()
			if p != nil && Node(p) != Node(root) && p.Parent() != nil && Node(p.Parent()) == Node(root) {
				if before, ok := i.Raws().Get(RawBefore); ok {
					parts := strings.Split(before, "\n")
					value, found = nonSpace.ReplaceAllString(parts[len(parts)-1], ""), true
				}
			}
			return !found
		})

	case "beforeComment":
		Walk(root, func(i Node) bool {
			if i.Type() == CommentNode {
				if before, ok := i.Raws().Get(RawBefore); ok {
					value, found = trimLastLine(before), true
				}
			}
			return !found
		})
		if !found {
			return s.raw(n, "", "beforeDecl"), true
		}
		value = nonSpace.ReplaceAllString(value, "")

	case "beforeDecl":
		Walk(root, func(i Node) bool {
			if i.Type() == DeclarationNode {
				if before, ok := i.Raws().Get(RawBefore); ok {
					value, found = trimLastLine(before), true
				}
			}
			return !found
		})
		if !found {
			return s.raw(n, "", "beforeRule"), true
		}
		value = nonSpace.ReplaceAllString(value, "")

	case "beforeRule":
		Walk(root, func(i Node) bool {
			c, ok := i.(Container)
			if ok && hasBlock(c) && (Node(i.Parent()) != Node(root) || len(root.Nodes) == 0 || root.Nodes[0] != i) {
				if before, ok := i.Raws().Get(RawBefore); ok {
					value, found = trimLastLine(before), true
				}
			}
			return !found
		})
		value = nonSpace.ReplaceAllString(value, "")

	case "beforeClose":
		Walk(root, func(i Node) bool {
			c, ok := i.(Container)
			if ok && len(c.Children()) > 0 {
				if after, ok := i.Raws().Get(RawAfter); ok {
					value, found = trimLastLine(after), true
				}
			}
			return !found
		})
		value = nonSpace.ReplaceAllString(value, "")

	case "beforeOpen":
		Walk(root, func(i Node) bool {
			if i.Type() != DeclarationNode {
				value, found = i.Raws().Get(RawBetween)
			}
			return !found
		})

	case "colon":
		Walk(root, func(i Node) bool {
			if i.Type() == DeclarationNode {
				if between, ok := i.Raws().Get(RawBetween); ok {
					value, found = notColonWS.ReplaceAllString(between, ""), true
				}
			}
			return !found
		})

	default:
		Walk(root, func(i Node) bool {
			value, found = i.Raws().Get(own)
			return !found
		})
	}
	return value, found
}

func hasBlock(c Container) bool {
	if a, ok := c.(*AtRule); ok {
		return a.HasBlock
	}
	return true
}
