package viewport

import (
	"slices"
	"strings"
)

// PropList is a compiled property allow/deny list. Entries are property
// names with optional '*' on either end (substring, prefix or suffix match)
// and optional leading '!' turning them into deny entries. Deny entries
// always win. A list without allow entries allows everything not denied, so
// does a "*" entry.
type PropList struct {
	all bool

	exact     []string
	contain   []string
	startWith []string
	endWith   []string

	notExact     []string
	notContain   []string
	notStartWith []string
	notEndWith   []string
}

// Entries of the list grouped by shape, wildcard and negation markers
// stripped. Exact groups hold only entries without '*'.
var FilterPropList = struct {
	Exact        func(list []string) []string
	Contain      func(list []string) []string
	StartWith    func(list []string) []string
	EndWith      func(list []string) []string
	NotExact     func(list []string) []string
	NotContain   func(list []string) []string
	NotStartWith func(list []string) []string
	NotEndWith   func(list []string) []string
}{
	Exact: func(list []string) []string {
		return collect(list, func(m string) (string, bool) {
			return m, m != "" && !strings.ContainsAny(m, "*!")
		})
	},
	Contain: func(list []string) []string {
		return collect(list, func(m string) (string, bool) {
			if len(m) < 3 || m[0] != '*' || m[len(m)-1] != '*' {
				return "", false
			}
			return m[1 : len(m)-1], true
		})
	},
	StartWith: func(list []string) []string {
		return collect(list, func(m string) (string, bool) {
			head, ok := strings.CutSuffix(m, "*")
			return head, ok && head != "" && !strings.ContainsAny(head, "*!")
		})
	},
	EndWith: func(list []string) []string {
		return collect(list, func(m string) (string, bool) {
			tail, ok := strings.CutPrefix(m, "*")
			return tail, ok && tail != "" && !strings.Contains(tail, "*")
		})
	},
	NotExact: func(list []string) []string {
		return collect(list, func(m string) (string, bool) {
			rest, ok := strings.CutPrefix(m, "!")
			return rest, ok && rest != "" && !strings.ContainsAny(rest, "*!")
		})
	},
	NotContain: func(list []string) []string {
		return collect(list, func(m string) (string, bool) {
			if len(m) < 4 || !strings.HasPrefix(m, "!*") || m[len(m)-1] != '*' {
				return "", false
			}
			return m[2 : len(m)-1], true
		})
	},
	NotStartWith: func(list []string) []string {
		return collect(list, func(m string) (string, bool) {
			rest, ok := strings.CutPrefix(m, "!")
			if !ok {
				return "", false
			}
			head, ok := strings.CutSuffix(rest, "*")
			return head, ok && head != "" && !strings.Contains(head, "*")
		})
	},
	NotEndWith: func(list []string) []string {
		return collect(list, func(m string) (string, bool) {
			tail, ok := strings.CutPrefix(m, "!*")
			return tail, ok && tail != "" && !strings.Contains(tail, "*")
		})
	},
}

func collect(list []string, pick func(m string) (string, bool)) []string {
	out := []string{}
	for _, m := range list {
		if v, ok := pick(m); ok {
			out = append(out, v)
		}
	}
	return out
}

// NewPropList compiles list of property patterns.
func NewPropList(list []string) *PropList {
	pl := &PropList{
		exact:        FilterPropList.Exact(list),
		contain:      FilterPropList.Contain(list),
		startWith:    FilterPropList.StartWith(list),
		endWith:      FilterPropList.EndWith(list),
		notExact:     FilterPropList.NotExact(list),
		notContain:   FilterPropList.NotContain(list),
		notStartWith: FilterPropList.NotStartWith(list),
		notEndWith:   FilterPropList.NotEndWith(list),
	}
	pl.all = slices.Contains(list, "*") ||
		len(pl.exact)+len(pl.contain)+len(pl.startWith)+len(pl.endWith) == 0
	return pl
}

// Match reports whether prop should be converted.
func (pl *PropList) Match(prop string) bool {
	return pl.allowed(prop) && !pl.denied(prop)
}

func (pl *PropList) allowed(prop string) bool {
	return pl.all ||
		slices.Contains(pl.exact, prop) ||
		slices.ContainsFunc(pl.contain, func(m string) bool { return strings.Contains(prop, m) }) ||
		slices.ContainsFunc(pl.startWith, func(m string) bool { return strings.HasPrefix(prop, m) }) ||
		slices.ContainsFunc(pl.endWith, func(m string) bool { return strings.HasSuffix(prop, m) })
}

func (pl *PropList) denied(prop string) bool {
	return slices.Contains(pl.notExact, prop) ||
		slices.ContainsFunc(pl.notContain, func(m string) bool { return strings.Contains(prop, m) }) ||
		slices.ContainsFunc(pl.notStartWith, func(m string) bool { return strings.HasPrefix(prop, m) }) ||
		slices.ContainsFunc(pl.notEndWith, func(m string) bool { return strings.HasSuffix(prop, m) })
}
