package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteLinesTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "FilesToCopy.txt")
	if err := WriteLines(path, []string{"a", "b", "c"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteLines(path, []string{"z"}); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "z\n" {
		t.Fatalf("unexpected contents: %q", data)
	}
}

func TestWriteLinesEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "InaccessibleFolders.txt")
	if err := WriteLines(path, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() != 0 {
		t.Fatalf("expected empty file: %v %v", info, err)
	}
}

func TestAppendLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.txt")
	for _, line := range []string{"/src/a.jpg", "/src/b.jpg"} {
		if err := AppendLine(path, line); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || lines[1] != "/src/b.jpg" {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestAppendLineMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "error.txt")
	if err := AppendLine(path, "x"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestMetricsSummary(t *testing.T) {
	m := Metrics{FilesCopied: 2, Duplicates: 1, Failures: 0, SelectedFiles: 3}
	if got := m.Summary(); got != "copied=2 duplicates=1 failed=0 selected=3" {
		t.Fatalf("unexpected summary: %s", got)
	}
}
