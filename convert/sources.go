package convert

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"pxtovw/archive"
)

// stylesheet is a single unit of work.
type stylesheet struct {
	// name is used in logs and error messages.
	name string
	// path is reported to the transformer and matched by include and
	// exclude filters, always with forward slashes.
	path string
	// rel is output path relative to destination directory, with forward
	// slashes.
	rel string
	// file is set for stylesheets which exist on disk, such stylesheets may
	// be converted in place.
	file string
	data []byte
}

func (s stylesheet) read() ([]byte, error) {
	if s.file == "" {
		return s.data, nil
	}
	return os.ReadFile(s.file)
}

// discover determines what src points to (directory, archive, path inside
// archive or single file) and returns stylesheets to process in natural
// order.
func discover(ctx context.Context, src, pattern string, log *zap.Logger) ([]stylesheet, error) {
	src, err := filepath.Abs(src)
	if err != nil {
		return nil, err
	}

	for head := src; len(head) != 0; head, _ = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if head != src {
				// directory cannot have tail - it would be simple file
				return nil, fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			return discoverDir(head, pattern, log)
		}

		if !fi.Mode().IsRegular() {
			return nil, fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		if archive.IsArchive(head) {
			inner := strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			return discoverArchive(head, filepath.ToSlash(inner), pattern, log)
		}

		if head != src {
			return nil, fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}
		return []stylesheet{{
			name: src,
			path: filepath.ToSlash(src),
			rel:  filepath.Base(src),
			file: src,
		}}, nil
	}
	return nil, fmt.Errorf("input source was not found (%s)", src)
}

// discoverDir finds stylesheets under dir matching pattern. Symbolic links
// are not followed.
func discoverDir(dir, pattern string, log *zap.Logger) ([]stylesheet, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly(), doublestar.WithNoFollow())
	if err != nil {
		return nil, fmt.Errorf("unable to search directory (%s): %w", dir, err)
	}
	sort.Sort(natural.StringSlice(matches))

	if len(matches) == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir), zap.String("pattern", pattern))
	}

	sheets := make([]stylesheet, 0, len(matches))
	for _, m := range matches {
		file := filepath.Join(dir, filepath.FromSlash(m))
		sheets = append(sheets, stylesheet{
			name: file,
			path: filepath.ToSlash(file),
			rel:  m,
			file: file,
		})
	}
	return sheets, nil
}

// discoverArchive reads stylesheets under prefix inside zip archive. Output
// layout is relative to prefix, a single entry named by prefix is written
// under its base name.
func discoverArchive(arc, prefix, pattern string, log *zap.Logger) ([]stylesheet, error) {
	var sheets []stylesheet
	err := archive.Walk(arc, prefix, pattern, func(name string, data []byte) error {
		rel := strings.TrimPrefix(strings.TrimPrefix(name, strings.Trim(prefix, "/")), "/")
		if rel == "" {
			// prefix names the entry itself
			rel = path.Base(name)
		}
		sheets = append(sheets, stylesheet{
			name: arc + ":" + name,
			path: path.Join(filepath.ToSlash(arc), name),
			rel:  rel,
			data: data,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to process archive (%s): %w", arc, err)
	}

	sort.Slice(sheets, func(i, j int) bool { return natural.Less(sheets[i].rel, sheets[j].rel) })
	if len(sheets) == 0 {
		log.Debug("Nothing to process", zap.String("archive", arc), zap.String("path", prefix), zap.String("pattern", pattern))
	}
	return sheets, nil
}
