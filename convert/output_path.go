package convert

import (
	"errors"
	"path/filepath"

	"pxtovw/state"
)

// buildOutputPath returns where converted stylesheet goes. Without
// destination directory stylesheets are converted in place, otherwise source
// layout is reproduced under destination unless flattening was requested.
func buildOutputPath(s stylesheet, dst string, env *state.LocalEnv) (string, error) {
	if dst == "" {
		if s.file == "" {
			return "", errors.New("destination directory is required for stylesheets from archives")
		}
		return s.file, nil
	}
	return filepath.Join(determineOutputDir(s, dst, env), filepath.Base(filepath.FromSlash(s.rel))), nil
}

func determineOutputDir(s stylesheet, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(filepath.FromSlash(s.rel)))
}
