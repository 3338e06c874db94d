package viewport

import (
	"math"
	"strings"
)

// unitFor picks output unit for the property.
func unitFor(prop, viewportUnit, fontViewportUnit string) string {
	if strings.Contains(prop, "font") {
		return fontViewportUnit
	}
	return viewportUnit
}

// resolveWidth returns usable basis for path. Missing, zero, negative and
// non-finite widths mean the declaration is left alone.
func resolveWidth(w BasisWidth, path string) (float64, bool) {
	width, ok := w.Width(path)
	if !ok || math.IsNaN(width) || math.IsInf(width, 0) || width <= 0 {
		return 0, false
	}
	return width, true
}

// validParams reports whether rules under at-rule with params are subject
// to conversion: top level rules always are, nested ones only when
// conversion inside media queries is on.
func validParams(params string, mediaQuery bool) bool {
	return params == "" || mediaQuery
}

func landscape(params string) bool {
	return strings.Contains(params, "landscape")
}
