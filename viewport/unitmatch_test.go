package viewport

import (
	"reflect"
	"testing"
)

func TestUnitMatcher_Tokenize(t *testing.T) {
	m := newUnitMatcher("px")

	tests := []struct {
		value string
		want  []segment
	}{
		{
			value: "0 0 20px",
			want: []segment{
				{kind: skipSegment, text: "0 0 "},
				{kind: lengthSegment, text: "20px", number: "20"},
			},
		},
		{
			value: `url(1px.png) "2px" '3px' 4.5px`,
			want: []segment{
				{kind: skipSegment, text: "url(1px.png)"},
				{kind: skipSegment, text: " "},
				{kind: skipSegment, text: `"2px"`},
				{kind: skipSegment, text: " "},
				{kind: skipSegment, text: "'3px'"},
				{kind: skipSegment, text: " "},
				{kind: lengthSegment, text: "4.5px", number: "4.5"},
			},
		},
		{
			value: "-.2px",
			want: []segment{
				{kind: skipSegment, text: "-"},
				{kind: lengthSegment, text: ".2px", number: ".2"},
			},
		},
		{
			value: "12PX auto",
			want:  []segment{{kind: skipSegment, text: "12PX auto"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := m.tokenize(tt.value); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestUnitMatcher_QuotesUnit(t *testing.T) {
	m := newUnitMatcher("x.")
	if segs := m.tokenize("10xy"); len(segs) != 1 || segs[0].kind != skipSegment {
		t.Errorf("unit must be matched literally, got %#v", segs)
	}
	if segs := m.tokenize("10x."); len(segs) != 1 || segs[0].kind != lengthSegment {
		t.Errorf("expected length, got %#v", segs)
	}
}

func TestInMathFunction(t *testing.T) {
	tests := map[string]bool{
		"calc(100% - 1px)":        true,
		"var(--gap, 1px)":         true,
		"max(1px, 2px)":           true,
		"min(1px, 2px)":           true,
		"clamp(1px, 2vw, 3px)":    true,
		"1px solid #000":          false,
		"translate(1px)":          false,
		"calc (1px)":              false,
		"minmax(10px, 1fr)":       true,
		"fit-content(var(--w))":   true,
		"url(calc(1px).png) 10px": true,
	}
	for value, want := range tests {
		if got := inMathFunction(value); got != want {
			t.Errorf("inMathFunction(%q) = %v, want %v", value, got, want)
		}
	}
}
