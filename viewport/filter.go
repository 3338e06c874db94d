package viewport

import (
	"regexp"
	"strings"
)

// fileAllowed applies include and exclude patterns to the stylesheet path.
// Stylesheets without path are never filtered out.
func (t *Transformer) fileAllowed(file string) bool {
	if file == "" {
		return true
	}
	if len(t.opts.Include) > 0 && !anyMatch(t.opts.Include, file) {
		return false
	}
	if len(t.opts.Exclude) > 0 && anyMatch(t.opts.Exclude, file) {
		return false
	}
	return true
}

func anyMatch(list []*regexp.Regexp, s string) bool {
	for _, re := range list {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// blacklisted reports whether any of the patterns matches selector.
func blacklisted(list []SelectorPattern, selector string) bool {
	for _, p := range list {
		if p.re != nil {
			if p.re.MatchString(selector) {
				return true
			}
			continue
		}
		if strings.Contains(selector, p.substr) {
			return true
		}
	}
	return false
}
