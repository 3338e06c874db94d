package viewport

import (
	"strings"

	"go.uber.org/zap"

	"pxtovw/css"
)

const (
	// IgnoreNext placed in a comment right before a declaration leaves it
	// unconverted.
	IgnoreNext = "px-to-viewport-ignore-next"
	// IgnorePrev placed in a comment right after a declaration, on the same
	// line, leaves it unconverted.
	IgnorePrev = "px-to-viewport-ignore"
)

const misplacedIgnore = "Unexpected comment /* " + IgnorePrev + " */ must be after declaration at same line."

func directive(n css.Node, marker string) (*css.Comment, bool) {
	c, ok := n.(*css.Comment)
	if !ok || c.Text != marker {
		return nil, false
	}
	return c, true
}

// ignored checks comments surrounding the declaration. Directive which
// suppressed conversion is removed from the tree. Ignore comment on its own
// line produces a warning and does not stop conversion.
func (p *pass) ignored(d *css.Declaration) bool {
	if c, ok := directive(css.Prev(d), IgnoreNext); ok {
		css.Remove(c)
		return true
	}

	c, ok := directive(css.Next(d), IgnorePrev)
	if !ok {
		return false
	}
	if before, _ := c.Raws().Get(css.RawBefore); strings.Contains(before, "\n") {
		p.result.Warn(PluginName, misplacedIgnore, c)
		p.log.Warn("Misplaced ignore comment",
			zap.String("file", p.file),
			zap.String("prop", d.Prop),
			zap.String("value", d.Value))
		p.stats.Warnings++
		return false
	}
	css.Remove(c)
	return true
}
