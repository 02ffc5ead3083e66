package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSummarize(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "go.mod"))
	touch(t, filepath.Join(dir, "Dockerfile"))

	got := Summarize(dir)
	if !strings.Contains(got, "Go project") {
		t.Errorf("summary %q should mention the Go project", got)
	}
	if !strings.Contains(got, "Dockerfile present") {
		t.Errorf("summary %q should mention the Dockerfile", got)
	}
}

func TestSummarizeEmptyDir(t *testing.T) {
	if got := Summarize(t.TempDir()); got != "" {
		t.Errorf("empty dir should summarize to \"\", got %q", got)
	}
}

func TestSummarizeDedupesFrameworkNotes(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "next.config.js"))
	touch(t, filepath.Join(dir, "next.config.ts"))

	got := Summarize(dir)
	if strings.Count(got, "Next.js") != 1 {
		t.Errorf("Next.js should be reported once, got %q", got)
	}
}
