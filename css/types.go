package css

import (
	"maps"
	"strings"
)

// NodeType identifies concrete node kind in the stylesheet tree.
type NodeType int

const (
	RootNode NodeType = iota
	AtRuleNode
	RuleNode
	DeclarationNode
	CommentNode
)

// String returns node type name as used in debug dumps.
func (t NodeType) String() string {
	switch t {
	case RootNode:
		return "root"
	case AtRuleNode:
		return "atrule"
	case RuleNode:
		return "rule"
	case DeclarationNode:
		return "decl"
	case CommentNode:
		return "comment"
	default:
		return "unknown"
	}
}

// Raw formatting keys. Missing keys are inferred from the rest of the tree
// when the stylesheet is serialized.
const (
	RawBefore       = "before"
	RawBetween      = "between"
	RawAfter        = "after"
	RawAfterName    = "afterName"
	RawLeft         = "left"
	RawRight        = "right"
	RawImportant    = "important"
	RawSemicolon    = "semicolon"
	RawOwnSemicolon = "ownSemicolon"
)

// Raws keeps formatting (whitespace, separators) of a node so the tree can be
// written back byte for byte. Semicolon is stored as ";" when the last child
// declaration was terminated and as "" when it was not.
type Raws map[string]string

// Get returns raw value and whether it was ever set.
func (r Raws) Get(key string) (string, bool) {
	v, ok := r[key]
	return v, ok
}

func (r Raws) clone() Raws {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// RawValue keeps original text of a value when it differs from its cleaned
// form (trailing whitespace before terminating semicolon, for example).
type RawValue struct {
	Value string
	Raw   string
}

// Source identifies where node came from.
type Source struct {
	File string
}

// Node is a single element of the stylesheet tree.
type Node interface {
	Type() NodeType
	Parent() Container
	Raws() Raws
	Clone() Node

	base() *node
}

// Container is a node which may hold other nodes.
type Container interface {
	Node

	Children() []Node
	Index(n Node) int
	Append(nodes ...Node)
	InsertAfter(index int, nodes ...Node)
	RemoveChild(n Node)
	RemoveAll()
	Each(fn func(n Node, i int) bool) bool

	list() *container
}

type node struct {
	parent Container
	raws   Raws
	Source *Source
}

func (n *node) base() *node { return n }

// Parent returns container holding the node or nil for detached nodes.
func (n *node) Parent() Container { return n.parent }

// Raws returns formatting of the node, it is never nil.
func (n *node) Raws() Raws {
	if n.raws == nil {
		n.raws = make(Raws)
	}
	return n.raws
}

func (n *node) cloneBase() node {
	return node{raws: n.raws.clone(), Source: n.Source}
}

// Root is the top of stylesheet tree.
type Root struct {
	node
	container
}

// AtRule is an at-rule like @media or @import. Block at-rules have HasBlock
// set and keep their children in Nodes.
type AtRule struct {
	node
	container
	Name     string
	Params   string
	HasBlock bool
}

// Rule is a qualified rule: selector followed by declaration block.
type Rule struct {
	node
	container
	Selector string
}

// Declaration is a single property: value pair.
type Declaration struct {
	node
	Prop      string
	Value     string
	Important bool

	// RawValue is used when serializing as long as RawValue.Value still
	// matches Value.
	RawValue *RawValue
}

// Comment is a /* ... */ node.
type Comment struct {
	node
	Text string
}

// NewRoot creates empty detached stylesheet.
func NewRoot(file string) *Root {
	return &Root{node: node{Source: &Source{File: file}}}
}

// NewAtRule creates block at-rule without any formatting, serializer infers
// formatting from surrounding nodes.
func NewAtRule(name, params string) *AtRule {
	return &AtRule{Name: name, Params: params, HasBlock: true}
}

// NewRule creates empty rule without formatting.
func NewRule(selector string) *Rule {
	return &Rule{Selector: selector}
}

// NewDeclaration creates declaration without formatting.
func NewDeclaration(prop, value string) *Declaration {
	return &Declaration{Prop: prop, Value: value}
}

func (*Root) Type() NodeType        { return RootNode }
func (*AtRule) Type() NodeType      { return AtRuleNode }
func (*Rule) Type() NodeType        { return RuleNode }
func (*Declaration) Type() NodeType { return DeclarationNode }
func (*Comment) Type() NodeType     { return CommentNode }

// File returns path of the file node was parsed from, if known.
func File(n Node) string {
	for n != nil {
		if src := n.base().Source; src != nil && src.File != "" {
			return src.File
		}
		p := n.Parent()
		if p == nil {
			break
		}
		n = p
	}
	return ""
}

// RootOf returns top of the tree node belongs to, or nil if node is detached
// and is not a root itself.
func RootOf(n Node) *Root {
	for n != nil {
		if r, ok := n.(*Root); ok {
			return r
		}
		p := n.Parent()
		if p == nil {
			return nil
		}
		n = p
	}
	return nil
}

// Prev returns previous sibling or nil.
func Prev(n Node) Node {
	return sibling(n, -1)
}

// Next returns next sibling or nil.
func Next(n Node) Node {
	return sibling(n, 1)
}

// Remove detaches node from its parent.
func Remove(n Node) {
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
}

func sibling(n Node, offset int) Node {
	p := n.Parent()
	if p == nil {
		return nil
	}
	i := p.Index(n)
	if i < 0 {
		return nil
	}
	i += offset
	children := p.Children()
	if i < 0 || i >= len(children) {
		return nil
	}
	return children[i]
}

// Params returns condition text of an enclosing at-rule, empty when node
// parent is not an at-rule.
func Params(n Node) string {
	if at, ok := n.Parent().(*AtRule); ok {
		return at.Params
	}
	return ""
}

// Clone returns deep detached copy of the stylesheet.
func (r *Root) Clone() Node {
	c := &Root{node: r.cloneBase()}
	c.cloneChildren(c, &r.container)
	return c
}

// Clone returns deep detached copy of the at-rule.
func (a *AtRule) Clone() Node {
	c := &AtRule{node: a.cloneBase(), Name: a.Name, Params: a.Params, HasBlock: a.HasBlock}
	c.cloneChildren(c, &a.container)
	return c
}

// Clone returns deep detached copy of the rule.
func (r *Rule) Clone() Node {
	c := &Rule{node: r.cloneBase(), Selector: r.Selector}
	c.cloneChildren(c, &r.container)
	return c
}

// Clone returns detached copy of the declaration.
func (d *Declaration) Clone() Node {
	c := &Declaration{node: d.cloneBase(), Prop: d.Prop, Value: d.Value, Important: d.Important}
	if d.RawValue != nil {
		rv := *d.RawValue
		c.RawValue = &rv
	}
	return c
}

// CloneWithValue returns detached copy of the declaration with new value.
func (d *Declaration) CloneWithValue(value string) *Declaration {
	c := d.Clone().(*Declaration)
	c.Value = value
	return c
}

// Clone returns detached copy of the comment.
func (c *Comment) Clone() Node {
	return &Comment{node: c.cloneBase(), Text: c.Text}
}

// Walk calls fn for every descendant of c in document order. Returning false
// from fn stops the walk, Walk reports whether it ran to completion.
func Walk(c Container, fn func(n Node) bool) bool {
	return c.Each(func(n Node, _ int) bool {
		if !fn(n) {
			return false
		}
		if sub, ok := n.(Container); ok {
			return Walk(sub, fn)
		}
		return true
	})
}

// WalkRules calls fn for every rule under c in document order, including
// rules nested in at-rules.
func WalkRules(c Container, fn func(r *Rule)) {
	Walk(c, func(n Node) bool {
		if r, ok := n.(*Rule); ok {
			fn(r)
		}
		return true
	})
}

// Declarations returns declarations which are direct children of c.
func Declarations(c Container) []*Declaration {
	var decls []*Declaration
	for _, n := range c.Children() {
		if d, ok := n.(*Declaration); ok {
			decls = append(decls, d)
		}
	}
	return decls
}

// trimSpaceLeft splits s into leading whitespace and the rest.
func trimSpaceLeft(s string) (string, string) {
	rest := strings.TrimLeft(s, " \t\n\r\f")
	return s[:len(s)-len(rest)], rest
}

// trimSpaceRight splits s into content and trailing whitespace.
func trimSpaceRight(s string) (string, string) {
	rest := strings.TrimRight(s, " \t\n\r\f")
	return rest, s[len(rest):]
}
