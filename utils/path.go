package utils

import (
	"path/filepath"
	"strings"
)

// IsPathWithin returns true if the given path is within any of the roots.
func IsPathWithin(path string, roots []string) bool {
	absPath, err := resolve(path)
	if err != nil {
		return false
	}
	for _, root := range roots {
		absRoot, err := resolve(root)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absRoot, absPath)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// SamePath reports whether a and b name the same directory once cleaned and
// symlinks are resolved.
func SamePath(a, b string) bool {
	absA, err := resolve(a)
	if err != nil {
		return false
	}
	absB, err := resolve(b)
	if err != nil {
		return false
	}
	return absA == absB
}

func resolve(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}
	return filepath.Abs(resolved)
}
