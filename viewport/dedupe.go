package viewport

import "pxtovw/css"

// declarationExists reports whether container already has declaration with
// the same property and value.
func declarationExists(parent css.Container, prop, value string) bool {
	if parent == nil {
		return false
	}
	for _, d := range css.Declarations(parent) {
		if d.Prop == prop && d.Value == value {
			return true
		}
	}
	return false
}
