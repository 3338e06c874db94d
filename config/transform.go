package config

import (
	"fmt"
	"regexp"
	"strings"

	"pxtovw/viewport"
)

// slashed recognizes "/expr/" notation used for regular expressions in
// lists which also accept plain strings.
func slashed(s string) (string, bool) {
	if len(s) > 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/") {
		return s[1 : len(s)-1], true
	}
	return "", false
}

func compileAll(list []string, what string) ([]*regexp.Regexp, error) {
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]*regexp.Regexp, 0, len(list))
	for _, s := range list {
		re, err := regexp.Compile(s)
		if err != nil {
			return nil, fmt.Errorf("bad %s pattern %q: %w", what, s, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// basis builds viewport width from the fixed value and the optional list of
// per stylesheet widths. Paths no rule matches fall back to the fixed value.
func basis(fixed float64, widths []WidthRule) (viewport.BasisWidth, error) {
	if len(widths) == 0 {
		return viewport.Fixed(fixed), nil
	}

	type rule struct {
		re    *regexp.Regexp
		width float64
	}
	rules := make([]rule, 0, len(widths))
	for _, r := range widths {
		re, err := regexp.Compile(r.Match)
		if err != nil {
			return nil, fmt.Errorf("bad viewport width pattern %q: %w", r.Match, err)
		}
		rules = append(rules, rule{re: re, width: r.Width})
	}

	return viewport.PerFile(func(path string) (float64, bool) {
		for _, r := range rules {
			if r.re.MatchString(path) {
				return r.width, true
			}
		}
		return fixed, fixed > 0
	}), nil
}

// ToOptions converts configuration into transformer options.
func (tc *TransformConfig) ToOptions() (viewport.Options, error) {
	opts := viewport.DefaultOptions()
	opts.UnitToConvert = tc.UnitToConvert
	opts.ViewportUnit = tc.ViewportUnit
	opts.FontViewportUnit = tc.FontViewportUnit
	opts.ViewportHeight = tc.ViewportHeight
	opts.UnitPrecision = tc.UnitPrecision
	opts.MinPixelValue = tc.MinPixelValue
	opts.Enable = tc.Enable
	opts.Replace = tc.Replace
	opts.MediaQuery = tc.MediaQuery
	if tc.PropList != nil {
		opts.PropList = tc.PropList
	}

	var err error
	if opts.ViewportWidth, err = basis(tc.ViewportWidth, tc.ViewportWidths); err != nil {
		return opts, err
	}
	if opts.Include, err = compileAll(tc.Include, "include"); err != nil {
		return opts, err
	}
	if opts.Exclude, err = compileAll(tc.Exclude, "exclude"); err != nil {
		return opts, err
	}

	for _, s := range tc.SelectorBlackList {
		expr, ok := slashed(s)
		if !ok {
			opts.SelectorBlackList = append(opts.SelectorBlackList, viewport.Substring(s))
			continue
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return opts, fmt.Errorf("bad selector black list pattern %q: %w", s, err)
		}
		opts.SelectorBlackList = append(opts.SelectorBlackList, viewport.Regexp(re))
	}

	for _, m := range tc.MediaOptions {
		mo := viewport.MediaOption{
			MediaParam:       m.MediaParam,
			UnitToConvert:    m.UnitToConvert,
			ViewportUnit:     m.ViewportUnit,
			FontViewportUnit: m.FontViewportUnit,
			Enable:           m.Enable,
		}
		// variant without widths of its own uses top level basis
		switch {
		case len(m.ViewportWidths) > 0:
			fixed := m.ViewportWidth
			if fixed == 0 {
				fixed = tc.ViewportWidth
			}
			if mo.ViewportWidth, err = basis(fixed, m.ViewportWidths); err != nil {
				return opts, fmt.Errorf("media option %q: %w", m.MediaParam, err)
			}
		case m.ViewportWidth > 0:
			mo.ViewportWidth = viewport.Fixed(m.ViewportWidth)
		}
		opts.MediaOptions = append(opts.MediaOptions, mo)
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}
