// Package viewport rewrites absolute lengths in stylesheets into viewport
// units.
package viewport

import (
	"fmt"

	"go.uber.org/zap"

	"pxtovw/css"
)

// PluginName is reported with every warning produced by transformation.
const PluginName = "postcss-px-to-vw-device"

// Transformer converts stylesheets. It is immutable once created and may be
// used for any number of concurrent passes.
type Transformer struct {
	log      *zap.Logger
	opts     Options
	matcher  *unitMatcher
	props    *PropList
	variants []*variant
}

// Stats summarizes a single pass.
type Stats struct {
	Rules       int
	Converted   int
	Inserted    int
	Duplicates  int
	Ignored     int
	Warnings    int
	MediaBlocks int
}

// New validates options and prepares transformer.
func New(opts Options, log *zap.Logger) (*Transformer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Transformer{
		log:      log.Named("px-to-viewport"),
		opts:     opts,
		matcher:  newUnitMatcher(opts.UnitToConvert),
		props:    NewPropList(opts.PropList),
		variants: compileVariants(&opts),
	}, nil
}

// Options returns copy of options transformer was created with.
func (t *Transformer) Options() Options {
	return t.opts
}

// pass holds state of a single stylesheet transformation.
type pass struct {
	t      *Transformer
	log    *zap.Logger
	result *css.Result
	file   string
	stats  Stats

	media []*mediaGroup
	// landscape is never filled: rules under landscape media queries are
	// skipped rather than collected.
	landscape []*css.Rule
}

// Process transforms stylesheet in place. Warnings are added to result.
func (t *Transformer) Process(result *css.Result) Stats {
	p := &pass{
		t:      t,
		log:    t.log,
		result: result,
		media:  make([]*mediaGroup, len(t.variants)),
	}
	css.WalkRules(result.Root, p.rule)
	p.finish()

	t.log.Debug("Stylesheet processed",
		zap.String("file", css.File(result.Root)),
		zap.Int("rules", p.stats.Rules),
		zap.Int("converted", p.stats.Converted),
		zap.Int("inserted", p.stats.Inserted),
		zap.Int("duplicates", p.stats.Duplicates),
		zap.Int("ignored", p.stats.Ignored),
		zap.Int("warnings", p.stats.Warnings),
		zap.Int("media", p.stats.MediaBlocks))
	return p.stats
}

func (p *pass) rule(r *css.Rule) {
	p.stats.Rules++
	p.file = css.File(r)
	opts := &p.t.opts

	if !p.t.fileAllowed(p.file) {
		return
	}
	if blacklisted(opts.SelectorBlackList, r.Selector) {
		return
	}

	params := css.Params(r)
	if len(p.t.variants) > 0 && params == "" {
		p.collectVariants(r)
	}
	if !validParams(params, opts.MediaQuery) {
		return
	}

	r.Each(func(n css.Node, i int) bool {
		if d, ok := n.(*css.Declaration); ok {
			p.declaration(r, d, i, params)
		}
		return true
	})
}

func (p *pass) declaration(r *css.Rule, d *css.Declaration, i int, params string) {
	opts := &p.t.opts

	if !opts.Enable {
		return
	}
	if !p.t.matcher.mentioned(d.Value) || !p.t.props.Match(d.Prop) {
		return
	}
	if p.ignored(d) {
		p.stats.Ignored++
		return
	}
	if landscape(params) {
		return
	}

	width, ok := resolveWidth(opts.ViewportWidth, p.file)
	if !ok {
		return
	}
	conv := &converter{
		unit:      unitFor(d.Prop, opts.ViewportUnit, opts.FontViewportUnit),
		basis:     width,
		precision: opts.UnitPrecision,
		minPixel:  opts.MinPixelValue,
		force:     inMathFunction(d.Value),
	}
	value, _ := p.t.matcher.replace(d.Value, conv)

	if declarationExists(r, d.Prop, value) {
		p.stats.Duplicates++
		return
	}

	if opts.Replace {
		d.Value = value
		p.stats.Converted++
		return
	}
	r.InsertAfter(i, d.CloneWithValue(value))
	p.stats.Inserted++
}

// ProcessString parses stylesheet, transforms it with opts and returns
// resulting text together with warnings.
func ProcessString(src, file string, opts Options, log *zap.Logger) (string, []css.Warning, error) {
	t, err := New(opts, log)
	if err != nil {
		return "", nil, err
	}
	root, err := css.NewParser(log).Parse([]byte(src), file)
	if err != nil {
		return "", nil, fmt.Errorf("unable to parse stylesheet: %w", err)
	}
	result := css.NewResult(root)
	t.Process(result)
	return result.String(), result.Warnings, nil
}
