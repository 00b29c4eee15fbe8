package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadLinesMissingFile(t *testing.T) {
	lines, err := ReadLines(filepath.Join(t.TempDir(), "exclude.txt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines == nil || len(lines) != 0 {
		t.Fatalf("expected empty list, got %v", lines)
	}
}

func TestReadLinesTrimsAndSkipsBlank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.txt")
	os.WriteFile(path, []byte("/src/private\r\n\n  /src/tmp  \n"), 0644)
	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(lines) != 2 || lines[0] != "/src/private" || lines[1] != "/src/tmp" {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestLoadExtensions(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, ExtensionsFileName), []byte(".JPG\n.png\n"), 0644)
	set, err := LoadExtensions(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !set.Contains(".jpg") || !set.Contains(".Jpg") || !set.Contains(".png") {
		t.Fatalf("expected jpg and png allowed: %v", set)
	}
	if set.Contains(".txt") || set.Contains("") {
		t.Fatal("unexpected extension allowed")
	}
}

func TestLoadExtensionsMissingAllowsNothing(t *testing.T) {
	set, err := LoadExtensions(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.Contains(".jpg") {
		t.Fatal("empty allow-list must not allow anything")
	}
}

func TestLoadExcludeList(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, ExcludeFileName), []byte("/src/private\n"), 0644)
	lines, err := LoadExcludeList(dir)
	if err != nil || len(lines) != 1 {
		t.Fatalf("unexpected: %v %v", lines, err)
	}
}
