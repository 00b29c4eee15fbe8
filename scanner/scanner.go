package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"filebackup/logger"
)

// ErrEmptyRoot is returned when a scan is started without a root path.
var ErrEmptyRoot = errors.New("source root is not specified")

const (
	// DefaultPattern matches every file name.
	DefaultPattern = "*"

	progressInterval = 1000
)

// Option configures a Scanner.
type Option func(*Scanner)

// WithPattern restricts recorded files to names matching the glob pattern.
func WithPattern(pattern string) Option {
	return func(s *Scanner) {
		if pattern != "" {
			s.pattern = pattern
		}
	}
}

// WithExclude skips directories whose absolute path equals one of paths.
// The comparison is exact after cleaning; descendants of an excluded
// directory are never visited.
func WithExclude(paths []string) Option {
	return func(s *Scanner) {
		for _, p := range paths {
			if p == "" {
				continue
			}
			s.exclude[filepath.Clean(p)] = struct{}{}
		}
	}
}

// WithProgress replaces the default progress log emitted every 1000
// directories.
func WithProgress(fn func(directories int)) Option {
	return func(s *Scanner) {
		if fn != nil {
			s.progress = fn
		}
	}
}

// Scanner walks a directory tree depth-first. Each call to Scan builds a
// fresh Result, so a Scanner may be reused for several roots but results
// are never shared between calls.
type Scanner struct {
	pattern  string
	exclude  map[string]struct{}
	progress func(int)
	readDir  func(string) ([]fs.DirEntry, error)
}

func New(opts ...Option) *Scanner {
	s := &Scanner{
		pattern:  DefaultPattern,
		exclude:  make(map[string]struct{}),
		progress: logProgress,
		readDir:  os.ReadDir,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// isExcluded reports whether dir is in the exclusion list.
func (s *Scanner) isExcluded(dir string) bool {
	_, ok := s.exclude[filepath.Clean(dir)]
	return ok
}

type node struct {
	path string
	root bool
}

// Scan walks root and returns what it found. Directories that cannot be
// listed are recorded in Result.Inaccessible and not descended into; the
// walk continues with their siblings.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	if root == "" {
		return nil, ErrEmptyRoot
	}
	if _, err := filepath.Match(s.pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid search pattern %q: %w", s.pattern, err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve source root %s: %w", root, err)
	}

	res := &Result{}
	stack := []node{{path: absRoot, root: true}}
	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		res.DirectoryCount++
		if res.DirectoryCount%progressInterval == 0 {
			s.progress(res.DirectoryCount)
		}

		if s.isExcluded(current.path) {
			logger.Debugf("Excluded directory %s", current.path)
			continue
		}
		if !current.root {
			res.Directories = append(res.Directories, DirRecord{Path: current.path})
		}

		entries, err := s.readDir(current.path)
		if err != nil {
			res.Inaccessible = append(res.Inaccessible, DirRecord{Path: current.path})
			logger.Warnf("Directory %s could not be accessed: %v", current.path, err)
			continue
		}

		var subdirs []string
		for _, entry := range entries {
			path := filepath.Join(current.path, entry.Name())
			if entry.IsDir() {
				subdirs = append(subdirs, path)
				continue
			}
			if matched, _ := filepath.Match(s.pattern, entry.Name()); !matched {
				continue
			}
			rec, ok := s.fileRecord(current.path, path, entry)
			if ok {
				res.Files = append(res.Files, rec)
			}
		}
		// Reverse push keeps the walk in lexical pre-order.
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, node{path: subdirs[i]})
		}
	}
	return res, nil
}

func (s *Scanner) fileRecord(dir, path string, entry fs.DirEntry) (FileRecord, bool) {
	info, err := entry.Info()
	if err != nil {
		logger.Warnf("Failed to stat %s: %v", path, err)
		return FileRecord{}, false
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		info, err = os.Stat(path)
		if err != nil {
			logger.Warnf("Broken symlink %s: %v", path, err)
			return FileRecord{}, false
		}
		if info.IsDir() {
			logger.Debugf("Not following directory symlink %s", path)
			return FileRecord{}, false
		}
	}
	if !info.Mode().IsRegular() {
		logger.Debugf("Skipping non-regular file %s", path)
		return FileRecord{}, false
	}

	ts, err := statTimes(path)
	if err != nil {
		logger.Warnf("Failed to read times for %s: %v", path, err)
		return FileRecord{}, false
	}
	return FileRecord{
		Path:         path,
		Dir:          dir,
		Name:         entry.Name(),
		Extension:    filepath.Ext(entry.Name()),
		Size:         info.Size(),
		CreationTime: ts.Creation,
		ModTime:      ts.Modified,
		AccessTime:   ts.Access,
	}, true
}

func logProgress(directories int) {
	logger.Infof("--- Directories: %d -- %s", directories, time.Now().Format(time.DateTime))
}
