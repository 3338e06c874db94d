package archive

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func makeZip(t *testing.T, files map[string]string, order []string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "bundle.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)
	for _, name := range order {
		if content, ok := files[name]; ok {
			fw, err := w.Create(name)
			if err != nil {
				t.Fatalf("Failed to create file %s in zip: %v", name, err)
			}
			if _, err := fw.Write([]byte(content)); err != nil {
				t.Fatalf("Failed to write content for %s: %v", name, err)
			}
			continue
		}
		// names without content are directories
		hdr := &zip.FileHeader{Name: name}
		hdr.SetMode(os.ModeDir | 0755)
		if _, err := w.CreateHeader(hdr); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
	zipFile.Close()
	return zipPath
}

func TestWalk(t *testing.T) {
	files := map[string]string{
		"css/main.css":        ".a { width: 10px }",
		"css/pages/home.css":  ".b { width: 20px }",
		"css/pages/notes.txt": "not a stylesheet",
		"vendor/reset.css":    "* { margin: 0 }",
		"index.html":          "<html></html>",
	}
	order := []string{"css/", "css/main.css", "css/pages/home.css", "css/pages/notes.txt", "vendor/reset.css", "index.html"}
	zipPath := makeZip(t, files, order)

	tests := []struct {
		name    string
		prefix  string
		pattern string
		want    []string
	}{
		{"all stylesheets", "", "**/*.css", []string{"css/main.css", "css/pages/home.css", "vendor/reset.css"}},
		{"prefix with slash", "css/", "**/*.css", []string{"css/main.css", "css/pages/home.css"}},
		{"prefix without slash", "css", "**/*.css", []string{"css/main.css", "css/pages/home.css"}},
		{"single level", "css", "*.css", []string{"css/main.css"}},
		{"no match", "nonexistent", "**/*.css", nil},
		{"single entry", "css/main.css", "**/*.css", []string{"css/main.css"}},
		{"single entry ignores pattern", "/css/pages/notes.txt", "**/*.css", []string{"css/pages/notes.txt"}},
		{"entry name prefix is not a directory", "css/main", "**/*.css", nil},
		{"everything", "", "**", []string{"css/main.css", "css/pages/home.css", "css/pages/notes.txt", "vendor/reset.css", "index.html"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var visited []string
			err := Walk(zipPath, tt.prefix, tt.pattern, func(name string, data []byte) error {
				if string(data) != files[name] {
					t.Errorf("content of %s = %q, want %q", name, data, files[name])
				}
				visited = append(visited, name)
				return nil
			})
			if err != nil {
				t.Fatalf("Walk() error = %v", err)
			}
			if !slices.Equal(visited, tt.want) {
				t.Errorf("visited %v, want %v", visited, tt.want)
			}
		})
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	files := map[string]string{"a.css": "", "b.css": "", "c.css": ""}
	zipPath := makeZip(t, files, []string{"a.css", "b.css", "c.css"})

	var visited int
	stopErr := errors.New("stop walking")
	err := Walk(zipPath, "", "*.css", func(string, []byte) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})

	if !errors.Is(err, stopErr) {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}
	if visited != 2 {
		t.Errorf("visited %d files, want 2 (early termination)", visited)
	}
}

func TestWalk_Errors(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		if err := Walk("/nonexistent/file.zip", "", "**", func(string, []byte) error { return nil }); err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}
		if err := Walk(invalidZip, "", "**", func(string, []byte) error { return nil }); err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})

	t.Run("invalid pattern", func(t *testing.T) {
		zipPath := makeZip(t, map[string]string{"a.css": ""}, []string{"a.css"})
		if err := Walk(zipPath, "", "[", func(string, []byte) error { return nil }); err == nil {
			t.Error("Expected error for invalid pattern")
		}
	})

	t.Run("path traversal", func(t *testing.T) {
		zipPath := makeZip(t, map[string]string{"../evil.css": ""}, []string{"../evil.css"})
		if err := Walk(zipPath, "", "**", func(string, []byte) error { return nil }); err == nil {
			t.Error("Expected error for unsafe entry")
		}
	})
}

func TestIsArchive(t *testing.T) {
	zipPath := makeZip(t, map[string]string{"a.css": ""}, []string{"a.css"})
	if !IsArchive(zipPath) {
		t.Errorf("IsArchive(%s) = false", zipPath)
	}

	plain := filepath.Join(t.TempDir(), "a.css")
	if err := os.WriteFile(plain, []byte(".a {}"), 0644); err != nil {
		t.Fatal(err)
	}
	if IsArchive(plain) {
		t.Errorf("IsArchive(%s) = true", plain)
	}
	if IsArchive(filepath.Join(t.TempDir(), "missing.zip")) {
		t.Error("IsArchive() = true for missing file")
	}
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"css/main.css", true},
		{"main.css", true},
		{"/etc/passwd", false},
		{`\windows\file`, false},
		{"../escape.css", false},
		{"css/../../escape.css", false},
		{"css/..hidden.css", true},
	}
	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.want {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
