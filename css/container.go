package css

import (
	"regexp"
	"slices"
)

var nonSpace = regexp.MustCompile(`\S`)

// container holds children of Root, AtRule and Rule. Mutations performed
// while Each is running are tracked so iteration neither skips nor repeats
// nodes: a node inserted right after the current one is visited next, a
// removed node is not visited.
type container struct {
	Nodes []Node
	iters []*int
}

func (c *container) list() *container { return c }

// Children returns direct children in document order.
func (c *container) Children() []Node { return c.Nodes }

// Index returns position of n among children or -1.
func (c *container) Index(n Node) int {
	for i, x := range c.Nodes {
		if x == n {
			return i
		}
	}
	return -1
}

// Each calls fn for every direct child. Returning false stops iteration,
// Each reports whether all children were visited.
func (c *container) Each(fn func(n Node, i int) bool) bool {
	idx := 0
	c.iters = append(c.iters, &idx)
	defer c.dropIter(&idx)

	for idx < len(c.Nodes) {
		if !fn(c.Nodes[idx], idx) {
			return false
		}
		idx++
	}
	return true
}

func (c *container) dropIter(p *int) {
	for i, it := range c.iters {
		if it == p {
			c.iters = slices.Delete(c.iters, i, i+1)
			return
		}
	}
}

func (c *container) last() Node {
	if len(c.Nodes) == 0 {
		return nil
	}
	return c.Nodes[len(c.Nodes)-1]
}

// normalize detaches n from its current parent and, when n has no leading
// whitespace of its own, borrows the whitespace shape of sample.
func (c *container) normalize(self Container, n Node, sample Node) {
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
	raws := n.Raws()
	if _, ok := raws[RawBefore]; !ok && sample != nil {
		if before, ok := sample.Raws().Get(RawBefore); ok {
			raws[RawBefore] = nonSpace.ReplaceAllString(before, "")
		}
	}
	n.base().parent = self
}

func (c *container) appendNodes(self Container, nodes []Node) {
	if c.Nodes == nil {
		c.Nodes = make([]Node, 0, len(nodes))
	}
	for _, n := range nodes {
		c.normalize(self, n, c.last())
		c.Nodes = append(c.Nodes, n)
	}
}

func (c *container) insertAfter(self Container, index int, nodes []Node) {
	if len(c.Nodes) == 0 || index >= len(c.Nodes) {
		c.appendNodes(self, nodes)
		return
	}
	index = max(index, 0)

	exist := c.Nodes[index]
	for _, n := range nodes {
		c.normalize(self, n, exist)
	}
	// normalization may have moved nodes out of this very container
	index = c.Index(exist)
	c.Nodes = slices.Insert(c.Nodes, index+1, nodes...)
	for _, it := range c.iters {
		if index < *it {
			*it += len(nodes)
		}
	}
}

func (c *container) removeChild(n Node) {
	i := c.Index(n)
	if i < 0 {
		return
	}
	c.Nodes = slices.Delete(c.Nodes, i, i+1)
	n.base().parent = nil
	for _, it := range c.iters {
		if *it >= i {
			*it--
		}
	}
}

func (c *container) removeAll() {
	for _, n := range c.Nodes {
		n.base().parent = nil
	}
	c.Nodes = []Node{}
}

func (c *container) cloneChildren(self Container, src *container) {
	if src.Nodes == nil {
		return
	}
	c.Nodes = make([]Node, 0, len(src.Nodes))
	for _, n := range src.Nodes {
		cl := n.Clone()
		cl.base().parent = self
		c.Nodes = append(c.Nodes, cl)
	}
}

// Append adds nodes at the end of the stylesheet.
func (r *Root) Append(nodes ...Node) { r.appendNodes(r, nodes) }

// InsertAfter inserts nodes right after child at index.
func (r *Root) InsertAfter(index int, nodes ...Node) { r.insertAfter(r, index, nodes) }

// RemoveChild detaches n if it is a direct child.
func (r *Root) RemoveChild(n Node) { r.removeChild(n) }

// RemoveAll detaches all children.
func (r *Root) RemoveAll() { r.removeAll() }

// Append adds nodes at the end of the block, at-rule becomes a block at-rule.
func (a *AtRule) Append(nodes ...Node) {
	a.HasBlock = true
	a.appendNodes(a, nodes)
}

// InsertAfter inserts nodes right after child at index.
func (a *AtRule) InsertAfter(index int, nodes ...Node) {
	a.HasBlock = true
	a.insertAfter(a, index, nodes)
}

// RemoveChild detaches n if it is a direct child.
func (a *AtRule) RemoveChild(n Node) { a.removeChild(n) }

// RemoveAll detaches all children.
func (a *AtRule) RemoveAll() { a.removeAll() }

// Append adds nodes at the end of the declaration block.
func (r *Rule) Append(nodes ...Node) { r.appendNodes(r, nodes) }

// InsertAfter inserts nodes right after child at index.
func (r *Rule) InsertAfter(index int, nodes ...Node) { r.insertAfter(r, index, nodes) }

// RemoveChild detaches n if it is a direct child.
func (r *Rule) RemoveChild(n Node) { r.removeChild(n) }

// RemoveAll detaches all children.
func (r *Rule) RemoveAll() { r.removeAll() }
