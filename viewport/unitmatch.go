package viewport

import (
	"regexp"
	"strings"
)

var mathFunction = regexp.MustCompile(`(?:calc|var|max|min|clamp)\(`)

// inMathFunction reports whether value uses any of calc(), var(), max(),
// min() or clamp(). Lengths in such values are converted regardless of
// minimum pixel value.
func inMathFunction(value string) bool {
	return mathFunction.MatchString(value)
}

type segmentKind int

const (
	skipSegment segmentKind = iota
	lengthSegment
)

// segment is a piece of declaration value. Length segments carry numeric
// part of the token separately, text is always the original text.
type segment struct {
	kind   segmentKind
	text   string
	number string
}

// unitMatcher finds lengths in a single unit. Quoted strings and url()
// arguments are matched as a whole so lengths inside are never reported.
// Unit is case sensitive and is not required to end on a word boundary.
type unitMatcher struct {
	unit string
	re   *regexp.Regexp
}

func newUnitMatcher(unit string) *unitMatcher {
	return &unitMatcher{
		unit: unit,
		re:   regexp.MustCompile(`"[^"]+"|'[^']+'|url\([^\)]+\)|(\d*\.?\d+)` + regexp.QuoteMeta(unit)),
	}
}

// mentioned is a cheap check: false means value has no tokens of the unit.
func (m *unitMatcher) mentioned(value string) bool {
	return strings.Contains(value, m.unit)
}

func (m *unitMatcher) tokenize(value string) []segment {
	matches := m.re.FindAllStringSubmatchIndex(value, -1)
	if len(matches) == 0 {
		return []segment{{kind: skipSegment, text: value}}
	}

	segs := make([]segment, 0, 2*len(matches)+1)
	last := 0
	for _, loc := range matches {
		if loc[0] > last {
			segs = append(segs, segment{kind: skipSegment, text: value[last:loc[0]]})
		}
		if loc[2] < 0 {
			segs = append(segs, segment{kind: skipSegment, text: value[loc[0]:loc[1]]})
		} else {
			segs = append(segs, segment{kind: lengthSegment, text: value[loc[0]:loc[1]], number: value[loc[2]:loc[3]]})
		}
		last = loc[1]
	}
	if last < len(value) {
		segs = append(segs, segment{kind: skipSegment, text: value[last:]})
	}
	return segs
}

// replace rewrites every length in value with conv.
func (m *unitMatcher) replace(value string, conv *converter) (string, int) {
	var (
		sb      strings.Builder
		changed int
	)
	for _, seg := range m.tokenize(value) {
		if seg.kind != lengthSegment {
			sb.WriteString(seg.text)
			continue
		}
		out := conv.convert(seg)
		if out != seg.text {
			changed++
		}
		sb.WriteString(out)
	}
	return sb.String(), changed
}
