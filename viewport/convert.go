package viewport

import (
	"math"
	"strconv"
	"strings"
)

// converter turns a single length token into viewport units.
type converter struct {
	unit      string
	basis     float64
	precision int
	minPixel  float64
	// force converts tokens below minPixel, set for values using math
	// functions.
	force bool
}

func (c *converter) convert(seg segment) string {
	if seg.number == "" {
		return seg.text
	}
	pixels, err := strconv.ParseFloat(seg.number, 64)
	if err != nil {
		return seg.text
	}
	if pixels <= c.minPixel && !c.force {
		return seg.text
	}
	v := toFixed(pixels/c.basis*100, c.precision)
	if v == 0 {
		return "0"
	}
	return formatNumber(v) + c.unit
}

// toFixed keeps one digit past precision, drops the rest and rounds half up
// on that digit: 1.00049 with precision 3 is 1, 1.0007 is 1.001.
func toFixed(n float64, precision int) float64 {
	mult := math.Pow(10, float64(precision+1))
	whole := math.Floor(n * mult)
	return math.Floor(whole/10+0.5) * 10 / mult
}

// formatNumber produces shortest text which reads back as f, the way
// browsers and JavaScript print numbers: positional notation for magnitudes
// in [1e-6, 1e21), exponent otherwise.
func formatNumber(f float64) string {
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}
