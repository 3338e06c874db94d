package viewport

import (
	"go.uber.org/zap"

	"pxtovw/css"
)

const landscapeParams = "(orientation: landscape)"

// variant is MediaOption with inherited values filled in.
type variant struct {
	index            int
	param            string
	width            BasisWidth
	viewportUnit     string
	fontViewportUnit string
	matcher          *unitMatcher
}

// mediaGroup collects converted rules of a single variant.
type mediaGroup struct {
	param string
	rules []*css.Rule
}

// compileVariants returns media options which are enabled, in configured order.
func compileVariants(opts *Options) []*variant {
	var out []*variant
	for i, m := range opts.MediaOptions {
		enabled := opts.Enable
		if m.Enable != nil {
			enabled = *m.Enable
		}
		if !enabled {
			continue
		}
		v := &variant{
			index:            i,
			param:            m.MediaParam,
			width:            opts.ViewportWidth,
			viewportUnit:     opts.ViewportUnit,
			fontViewportUnit: opts.FontViewportUnit,
		}
		if m.ViewportWidth != nil {
			v.width = m.ViewportWidth
		}
		if m.ViewportUnit != "" {
			v.viewportUnit = m.ViewportUnit
		}
		if m.FontViewportUnit != "" {
			v.fontViewportUnit = m.FontViewportUnit
		}
		unit := opts.UnitToConvert
		if m.UnitToConvert != "" {
			unit = m.UnitToConvert
		}
		v.matcher = newUnitMatcher(unit)
		out = append(out, v)
	}
	return out
}

// collectVariants converts a copy of the rule for every enabled media
// option. Copies are kept until the end of the pass.
func (p *pass) collectVariants(r *css.Rule) {
	for slot, v := range p.t.variants {
		shell := r.Clone().(*css.Rule)
		shell.RemoveAll()

		for _, d := range css.Declarations(r) {
			if !v.matcher.mentioned(d.Value) || !p.t.props.Match(d.Prop) {
				continue
			}
			width, ok := resolveWidth(v.width, p.file)
			if !ok {
				continue
			}
			conv := &converter{
				unit:      unitFor(d.Prop, v.viewportUnit, v.fontViewportUnit),
				basis:     width,
				precision: p.t.opts.UnitPrecision,
				minPixel:  p.t.opts.MinPixelValue,
				force:     inMathFunction(d.Value),
			}
			value, _ := v.matcher.replace(d.Value, conv)
			shell.Append(d.CloneWithValue(value))
		}

		if len(shell.Nodes) == 0 {
			continue
		}
		if p.media[slot] == nil {
			p.media[slot] = &mediaGroup{param: v.param}
		}
		p.media[slot].rules = append(p.media[slot].rules, shell)
	}
}

// finish appends collected media blocks to the end of the stylesheet.
func (p *pass) finish() {
	root := p.result.Root

	if len(p.landscape) > 0 {
		at := css.NewAtRule("media", landscapeParams)
		for _, r := range p.landscape {
			at.Append(r)
		}
		root.Append(at)
		p.stats.MediaBlocks++
		p.landscape = nil
	}

	for slot, g := range p.media {
		if g == nil {
			continue
		}
		at := css.NewAtRule("media", g.param)
		for _, r := range g.rules {
			at.Append(r)
		}
		root.Append(at)
		p.stats.MediaBlocks++
		p.log.Debug("Media block appended",
			zap.Int("option", p.t.variants[slot].index),
			zap.String("params", g.param),
			zap.Int("rules", len(g.rules)))
	}
	p.media = nil
}
