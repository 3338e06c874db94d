package viewport

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

// ErrInvalidOption is wrapped by every configuration error returned from New.
var ErrInvalidOption = errors.New("invalid option")

// Defaults.
const (
	DefaultUnitToConvert    = "px"
	DefaultViewportUnit     = "vw"
	DefaultFontViewportUnit = "vw"
	DefaultViewportWidth    = 370
	DefaultViewportHeight   = 568
	DefaultUnitPrecision    = 6
	DefaultMinPixelValue    = 1

	// maxUnitPrecision keeps rounding multiplier within float64 exact
	// integer range.
	maxUnitPrecision = 20
)

// BasisWidth is the reference width lengths are rescaled against. It is
// either Fixed or PerFile.
type BasisWidth interface {
	// Width returns basis for the stylesheet at path, false when there is
	// none.
	Width(path string) (float64, bool)

	sealed()
}

type fixedWidth float64

func (w fixedWidth) Width(string) (float64, bool) { return float64(w), true }
func (fixedWidth) sealed()                        {}

type perFileWidth func(path string) (float64, bool)

func (f perFileWidth) Width(path string) (float64, bool) { return f(path) }
func (perFileWidth) sealed()                             {}

// Fixed returns basis width which does not depend on the stylesheet.
func Fixed(width float64) BasisWidth {
	return fixedWidth(width)
}

// PerFile returns basis width computed from the stylesheet path. The function
// should be pure, it is called once per converted declaration.
func PerFile(fn func(path string) (float64, bool)) BasisWidth {
	if fn == nil {
		return nil
	}
	return perFileWidth(fn)
}

// SelectorPattern is a selector blacklist entry.
type SelectorPattern struct {
	substr string
	re     *regexp.Regexp
}

// Substring returns pattern matching selectors containing s.
func Substring(s string) SelectorPattern {
	return SelectorPattern{substr: s}
}

// Regexp returns pattern matching selectors re matches.
func Regexp(re *regexp.Regexp) SelectorPattern {
	return SelectorPattern{re: re}
}

func (p SelectorPattern) String() string {
	if p.re != nil {
		return "/" + p.re.String() + "/"
	}
	return p.substr
}

// MediaOption describes additional breakpoint: converted copies of top level
// rules are collected into "@media MediaParam" block appended to the end of
// the stylesheet. Empty fields inherit values of the enclosing Options.
type MediaOption struct {
	ViewportWidth    BasisWidth
	UnitToConvert    string
	ViewportUnit     string
	FontViewportUnit string
	// Enable overrides Options.Enable when set.
	Enable *bool
	// MediaParam is used verbatim as media query condition.
	MediaParam string
}

// Options controls transformation. Start with DefaultOptions and change what
// is necessary, zero Options is not valid.
type Options struct {
	UnitToConvert    string
	ViewportUnit     string
	FontViewportUnit string
	ViewportWidth    BasisWidth
	// ViewportHeight is informational only.
	ViewportHeight float64
	UnitPrecision  int
	MinPixelValue  float64
	Enable         bool

	// Include and Exclude are matched against stylesheet path, stylesheets
	// without path are never filtered.
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp

	SelectorBlackList []SelectorPattern
	PropList          []string
	Replace           bool
	MediaQuery        bool
	MediaOptions      []MediaOption
}

// DefaultOptions returns options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		UnitToConvert:     DefaultUnitToConvert,
		ViewportUnit:      DefaultViewportUnit,
		FontViewportUnit:  DefaultFontViewportUnit,
		ViewportWidth:     Fixed(DefaultViewportWidth),
		ViewportHeight:    DefaultViewportHeight,
		UnitPrecision:     DefaultUnitPrecision,
		MinPixelValue:     DefaultMinPixelValue,
		Enable:            true,
		SelectorBlackList: []SelectorPattern{},
		PropList:          []string{"*"},
		Replace:           true,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOption, fmt.Sprintf(format, args...))
}

func validWidth(w BasisWidth, name string) error {
	if w == nil {
		return invalid("%s is not set", name)
	}
	if f, ok := w.(fixedWidth); ok && (math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) || f < 0) {
		return invalid("%s must be non-negative number, got %v", name, float64(f))
	}
	return nil
}

// Validate checks options for consistency.
func (o *Options) Validate() error {
	switch {
	case o.UnitToConvert == "":
		return invalid("unit to convert is empty")
	case o.ViewportUnit == "":
		return invalid("viewport unit is empty")
	case o.FontViewportUnit == "":
		return invalid("font viewport unit is empty")
	case o.UnitPrecision < 0 || o.UnitPrecision > maxUnitPrecision:
		return invalid("unit precision must be in [0, %d], got %d", maxUnitPrecision, o.UnitPrecision)
	case math.IsNaN(o.MinPixelValue) || o.MinPixelValue < 0:
		return invalid("min pixel value must be non-negative, got %v", o.MinPixelValue)
	case math.IsNaN(o.ViewportHeight) || o.ViewportHeight < 0:
		return invalid("viewport height must be non-negative, got %v", o.ViewportHeight)
	}
	if err := validWidth(o.ViewportWidth, "viewport width"); err != nil {
		return err
	}
	for i, re := range o.Include {
		if re == nil {
			return invalid("include pattern %d is not a regular expression", i)
		}
	}
	for i, re := range o.Exclude {
		if re == nil {
			return invalid("exclude pattern %d is not a regular expression", i)
		}
	}
	for i, p := range o.SelectorBlackList {
		if p.re == nil && p.substr == "" {
			return invalid("selector black list entry %d is empty", i)
		}
	}
	for i, m := range o.MediaOptions {
		if m.MediaParam == "" {
			return invalid("media option %d has no media param", i)
		}
		if m.ViewportWidth != nil {
			if err := validWidth(m.ViewportWidth, fmt.Sprintf("media option %d viewport width", i)); err != nil {
				return err
			}
		}
	}
	return nil
}
