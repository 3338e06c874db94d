// Package archive reads stylesheets packed into zip bundles.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// WalkFunc is called for every stylesheet Walk finds. Name is the path of the
// entry inside archive. If an error is returned, processing stops.
type WalkFunc func(name string, data []byte) error

// Walk reads all files in the archive whose names are under prefix and match
// glob pattern (relative to prefix), calling walkFn for each one in archive
// order. When prefix names a file entry, that entry is read regardless of
// pattern. Entries with path traversal components ("..") or absolute paths
// are rejected.
func Walk(archive, prefix, pattern string, walkFn WalkFunc) error {
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid pattern: %s", pattern)
	}
	exact := strings.TrimSuffix(strings.TrimPrefix(prefix, "/"), "/")
	prefix = exact
	if prefix != "" {
		prefix += "/"
	}

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if name != exact {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			if ok, _ := doublestar.Match(pattern, strings.TrimPrefix(name, prefix)); !ok {
				continue
			}
		}
		data, err := readEntry(f)
		if err != nil {
			return fmt.Errorf("zip entry %q: %w", name, err)
		}
		if err := walkFn(name, data); err != nil {
			return err
		}
	}
	return nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// IsArchive reports whether file at path looks like zip archive.
func IsArchive(p string) bool {
	r, err := zip.OpenReader(p)
	if err != nil {
		return false
	}
	r.Close()
	return true
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
