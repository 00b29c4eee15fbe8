package copier

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"filebackup/logger"

	"github.com/djherbis/times"
)

func init() {
	logger.Init("error")
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func writeSource(t *testing.T, dir, name, content string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	return path
}

func TestCopyThenDuplicate(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	errorLog := filepath.Join(dst, "error.txt")
	mtime := time.Date(2022, 3, 1, 8, 30, 0, 0, time.Local)
	atime := time.Date(2023, 5, 6, 7, 8, 9, 0, time.Local)
	from := writeSource(t, src, "a.jpg", "original bytes", mtime)
	if err := os.Chtimes(from, atime, mtime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	to := filepath.Join(dst, "2022", "a.jpg")

	outcome, err := Copy(from, to, errorLog)
	if err != nil || outcome != Copied {
		t.Fatalf("first copy: %v %v", outcome, err)
	}
	// Checked before any read of the copy can move its access time.
	ts, err := times.Stat(to)
	if err != nil {
		t.Fatalf("times: %v", err)
	}
	if !ts.AccessTime().Equal(atime) {
		t.Fatalf("access time not preserved: %v != %v", ts.AccessTime(), atime)
	}
	data, _ := os.ReadFile(to)
	if string(data) != "original bytes" {
		t.Fatalf("unexpected contents: %q", data)
	}
	info, err := os.Stat(to)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Fatalf("mod time not preserved: %v != %v", info.ModTime(), mtime)
	}
	if lines := readLines(t, filepath.Join(dst, "2022", IndexLogName)); len(lines) != 1 || lines[0] != from {
		t.Fatalf("unexpected index: %v", lines)
	}

	// Change the source so an overwrite would be visible.
	os.WriteFile(from, []byte("changed"), 0644)

	outcome, err = Copy(from, to, errorLog)
	if err != nil || outcome != Duplicate {
		t.Fatalf("second copy: %v %v", outcome, err)
	}
	data, _ = os.ReadFile(to)
	if string(data) != "original bytes" {
		t.Fatalf("duplicate overwrote destination: %q", data)
	}
	after, _ := os.Stat(to)
	if !after.ModTime().Equal(info.ModTime()) {
		t.Fatal("duplicate changed destination mod time")
	}
	if lines := readLines(t, filepath.Join(dst, "2022", DupLogName)); len(lines) != 1 || lines[0] != from {
		t.Fatalf("unexpected dup log: %v", lines)
	}
	if lines := readLines(t, filepath.Join(dst, "2022", IndexLogName)); len(lines) != 1 {
		t.Fatalf("index should still have one entry: %v", lines)
	}
	if _, err := os.Stat(errorLog); !os.IsNotExist(err) {
		t.Fatal("error log should not exist")
	}
}

func TestCopyStampFailure(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	errorLog := filepath.Join(dst, "error.txt")
	from := writeSource(t, src, "a.jpg", "bytes", time.Date(2022, 3, 1, 8, 30, 0, 0, time.Local))
	to := filepath.Join(dst, "a.jpg")

	orig := stampTimes
	stampTimes = func(string, sourceTimes) error { return errors.New("read-only filesystem") }
	t.Cleanup(func() { stampTimes = orig })

	outcome, err := Copy(from, to, errorLog)
	if err == nil || outcome != CopyFailed {
		t.Fatalf("expected CopyFailed, got %v %v", outcome, err)
	}
	if outcome.Label() != "EXCEPTION-2" {
		t.Fatalf("unexpected label %s", outcome.Label())
	}
	if data, err := os.ReadFile(to); err != nil || string(data) != "bytes" {
		t.Fatalf("copied contents should be kept: %v %q", err, data)
	}
	if lines := readLines(t, filepath.Join(dst, IndexLogName)); len(lines) != 1 || lines[0] != from {
		t.Fatalf("unexpected index: %v", lines)
	}
	if lines := readLines(t, errorLog); len(lines) != 1 || lines[0] != from {
		t.Fatalf("unexpected error log: %v", lines)
	}
}

func TestCopyDirectoryFailure(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	errorLog := filepath.Join(dst, "error.txt")
	from := writeSource(t, src, "a.jpg", "x", time.Now())

	blocker := filepath.Join(dst, "2022")
	os.WriteFile(blocker, []byte("not a directory"), 0644)

	outcome, err := Copy(from, filepath.Join(blocker, "a.jpg"), errorLog)
	if err == nil || outcome != DirFailed {
		t.Fatalf("expected directory failure, got %v %v", outcome, err)
	}
	if outcome.Label() != "EXCEPTION-1" {
		t.Fatalf("unexpected label %s", outcome.Label())
	}
	if lines := readLines(t, errorLog); len(lines) != 1 || lines[0] != from {
		t.Fatalf("unexpected error log: %v", lines)
	}
}

func TestCopyMissingSource(t *testing.T) {
	dst := t.TempDir()
	errorLog := filepath.Join(dst, "error.txt")
	from := filepath.Join(t.TempDir(), "gone.jpg")
	to := filepath.Join(dst, "gone.jpg")

	outcome, err := Copy(from, to, errorLog)
	if err == nil || outcome != CopyFailed {
		t.Fatalf("expected copy failure, got %v %v", outcome, err)
	}
	if outcome.Label() != "EXCEPTION-2" {
		t.Fatalf("unexpected label %s", outcome.Label())
	}
	if _, err := os.Stat(to); !os.IsNotExist(err) {
		t.Fatal("no destination should be left behind")
	}
	if lines := readLines(t, errorLog); len(lines) != 1 || lines[0] != from {
		t.Fatalf("unexpected error log: %v", lines)
	}
}

func TestCopyRequiresArguments(t *testing.T) {
	if _, err := Copy("", "b", "c"); err == nil {
		t.Fatal("expected error for empty source")
	}
	if _, err := Copy("a", "b", ""); err == nil {
		t.Fatal("expected error for empty error log")
	}
}

func TestCopyLargeFile(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	content := strings.Repeat("0123456789abcdef", copyLargeBufferThreshold/16+1)
	from := writeSource(t, src, "big.mov", content, time.Now().Add(-time.Hour))
	to := filepath.Join(dst, "big.mov")
	if outcome, err := Copy(from, to, filepath.Join(dst, "error.txt")); err != nil || outcome != Copied {
		t.Fatalf("copy: %v %v", outcome, err)
	}
	info, _ := os.Stat(to)
	if info.Size() != int64(len(content)) {
		t.Fatalf("size mismatch: %d", info.Size())
	}
}

func TestOutcomeLabels(t *testing.T) {
	if Copied.Label() != "COPY" || Duplicate.Label() != "DUP" {
		t.Fatal("unexpected labels")
	}
}
