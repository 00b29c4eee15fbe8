package utils

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	ExcludeFileName    = "exclude.txt"
	ExtensionsFileName = "extensions.txt"
)

// ReadLines returns the non-blank lines of path with line endings and
// surrounding whitespace removed. A missing file yields an empty list.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	defer f.Close()

	lines := []string{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// LoadExcludeList reads exclude.txt from appDir.
func LoadExcludeList(appDir string) ([]string, error) {
	return ReadLines(filepath.Join(appDir, ExcludeFileName))
}

// LoadExtensions reads extensions.txt from appDir.
func LoadExtensions(appDir string) (ExtensionSet, error) {
	lines, err := ReadLines(filepath.Join(appDir, ExtensionsFileName))
	if err != nil {
		return nil, err
	}
	return NewExtensionSet(lines), nil
}

// ExtensionSet is a lowercase allow-list of extensions including the dot.
type ExtensionSet map[string]struct{}

func NewExtensionSet(exts []string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		set[ext] = struct{}{}
	}
	return set
}

// Contains reports whether ext, compared case-insensitively, is allowed.
// An empty set allows nothing.
func (s ExtensionSet) Contains(ext string) bool {
	_, ok := s[strings.ToLower(ext)]
	return ok
}
