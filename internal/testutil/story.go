package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteStory writes a story YAML file under dir and returns its absolute path
// with symlinks resolved, matching the path the story loader records.
//
// name may contain slashes; parent directories are created. Leading tabs are
// not allowed in YAML, so content is written verbatim and callers indent with
// spaces.
func WriteStory(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create story dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimLeft(content, "\n")), 0o644); err != nil {
		t.Fatalf("write story %s: %v", name, err)
	}
	abs, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("resolve path %s: %v", path, err)
	}
	abs, err = filepath.Abs(abs)
	if err != nil {
		t.Fatalf("abs path %s: %v", path, err)
	}
	return abs
}

// StoryDir creates a temporary directory (symlinks resolved) populated with the given files
// (name → content) and returns it.
func StoryDir(t testing.TB, files map[string]string) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}
	for name, content := range files {
		WriteStory(t, dir, name, content)
	}
	return dir
}
