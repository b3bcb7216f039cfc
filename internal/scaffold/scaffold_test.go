package scaffold

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleData() WorkspaceData {
	return WorkspaceData{
		Title:         "Atlas Gap Analysis",
		TaskID:        "t-42",
		DirectoryName: "atlas-gap-analysis",
		CreatedAt:     "2026-10-19 09:00:00 ET",
		Description:   "Compare the atlas inventory against the target state.",
		Stage:         "initialization",
		Progress:      0,
	}
}

func TestGenerateWorkspace(t *testing.T) {
	dir := t.TempDir()

	result, err := Generate(SetWorkspace, sampleData(), dir)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	assertFiles(t, result, []string{"README.md"})

	content := readGenerated(t, dir, "README.md")
	assertContains(t, content, "# Task Workspace: Atlas Gap Analysis")
	assertContains(t, content, "**Task ID:** `t-42`")
	assertContains(t, content, "**Directory:** `atlas-gap-analysis`")
	assertContains(t, content, "**Created:** 2026-10-19 09:00:00 ET")
	assertContains(t, content, "Compare the atlas inventory against the target state.")
	assertContains(t, content, "atlas-gap-analysis/\n├── .roy-metadata.json")
	assertContains(t, content, "Current Stage: initialization")
	assertContains(t, content, "Progress: 0%")
}

func TestGenerateDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "README.md")
	if err := os.WriteFile(existing, []byte("keep me"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Generate(SetWorkspace, sampleData(), dir)
	if !errors.Is(err, fs.ErrExist) {
		t.Fatalf("expected ErrExist, got %v", err)
	}
	if got := readGenerated(t, dir, "README.md"); got != "keep me" {
		t.Errorf("existing file was modified: %q", got)
	}
}

func TestGenerateUnknownSet(t *testing.T) {
	if _, err := Generate("nope", sampleData(), t.TempDir()); err == nil {
		t.Fatal("expected error for unknown template set, got nil")
	}
}

func TestGenerateMissingField(t *testing.T) {
	// A map without the expected keys fails instead of rendering "<no value>".
	if _, err := Generate(SetWorkspace, map[string]any{"Title": "x"}, t.TempDir()); err == nil {
		t.Fatal("expected error for incomplete template data, got nil")
	}
}

// ─── Helpers ───────────────────────────────────────────────────────

func assertFiles(t *testing.T, result *Result, want []string) {
	t.Helper()
	if len(result.Files) != len(want) {
		t.Fatalf("generated %v, want %v", result.Files, want)
	}
	for i, f := range want {
		if result.Files[i] != f {
			t.Errorf("file %d = %q, want %q", i, result.Files[i], f)
		}
	}
}

func readGenerated(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("expected content to contain %q", substr)
	}
}
