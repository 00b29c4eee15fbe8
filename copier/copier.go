package copier

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"filebackup/logger"
	"filebackup/output"

	"github.com/djherbis/times"
)

const (
	// DupLogName is appended to, in the destination directory, for every
	// source whose destination already exists.
	DupLogName = "dup.txt"
	// IndexLogName is appended to, in the destination directory, for every
	// successful copy.
	IndexLogName = "index.txt"

	copyBufferSmallSize      = 32 * 1024
	copyBufferLargeSize      = 1024 * 1024
	copyLargeBufferThreshold = 4 * 1024 * 1024
)

// Outcome reports what Copy did with a file.
type Outcome int

const (
	Copied Outcome = iota
	Duplicate
	// DirFailed means the destination directory could not be created.
	DirFailed
	// CopyFailed means copying or stamping timestamps failed.
	CopyFailed
)

// Label is the tag printed next to each file in the run output.
func (o Outcome) Label() string {
	switch o {
	case Copied:
		return "COPY"
	case Duplicate:
		return "DUP"
	case DirFailed:
		return "EXCEPTION-1"
	default:
		return "EXCEPTION-2"
	}
}

var copyBufferSmallPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, copyBufferSmallSize)
		return &buf
	},
}

var copyBufferLargePool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, copyBufferLargeSize)
		return &buf
	},
}

var stampTimes = setFileTimes

// sourceTimes are the timestamps replicated onto a copy.
type sourceTimes struct {
	Creation time.Time
	Modified time.Time
	Access   time.Time
	// HasCreation is false when the filesystem keeps no birth time.
	HasCreation bool
}

// Copy copies from to to. An existing destination is never overwritten; the
// source is recorded in dup.txt next to it instead. Failures are appended to
// errorLog and returned for the caller to report; they never abort a run.
func Copy(from, to, errorLog string) (Outcome, error) {
	if from == "" || to == "" || errorLog == "" {
		return CopyFailed, errors.New("copy requires source, destination and error log paths")
	}

	dir := filepath.Dir(to)
	if err := os.MkdirAll(dir, 0755); err != nil {
		recordFailure(errorLog, from)
		return DirFailed, fmt.Errorf("create directory %s: %w", dir, err)
	}

	if _, err := os.Lstat(to); err == nil {
		if err := output.AppendLine(filepath.Join(dir, DupLogName), from); err != nil {
			logger.Warnf("Failed to record duplicate %s: %v", from, err)
		}
		return Duplicate, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		recordFailure(errorLog, from)
		return CopyFailed, fmt.Errorf("check destination %s: %w", to, err)
	}

	if err := copyExactly(from, to, dir); err != nil {
		recordFailure(errorLog, from)
		return CopyFailed, err
	}
	return Copied, nil
}

func copyExactly(from, to, dir string) error {
	// Read the source times before the copy touches the access time.
	st, err := readTimes(from)
	if err != nil {
		return fmt.Errorf("read times of %s: %w", from, err)
	}
	if err := copyContents(from, to); err != nil {
		return err
	}
	if err := output.AppendLine(filepath.Join(dir, IndexLogName), from); err != nil {
		return fmt.Errorf("update index for %s: %w", to, err)
	}
	if err := stampTimes(to, st); err != nil {
		return fmt.Errorf("set times on %s: %w", to, err)
	}
	return nil
}

func readTimes(path string) (sourceTimes, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return sourceTimes{}, err
	}
	st := sourceTimes{
		Modified: ts.ModTime(),
		Access:   ts.AccessTime(),
	}
	if ts.HasBirthTime() {
		st.Creation = ts.BirthTime()
		st.HasCreation = true
	}
	return st, nil
}

func copyContents(from, to string) (err error) {
	src, err := os.Open(from)
	if err != nil {
		return fmt.Errorf("open source %s: %w", from, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat source %s: %w", from, err)
	}

	dst, err := os.OpenFile(to, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination %s: %w", to, err)
	}
	defer func() {
		if err != nil {
			// A partial copy would be mistaken for a duplicate next run.
			os.Remove(to)
		}
	}()

	bufferPool := &copyBufferSmallPool
	if info.Size() >= copyLargeBufferThreshold {
		bufferPool = &copyBufferLargePool
	}
	bufferPtr := bufferPool.Get().(*[]byte)
	defer bufferPool.Put(bufferPtr)

	if _, err = io.CopyBuffer(dst, src, *bufferPtr); err != nil {
		dst.Close()
		return fmt.Errorf("copy %s: %w", from, err)
	}
	if err = dst.Close(); err != nil {
		return fmt.Errorf("close %s: %w", to, err)
	}
	return nil
}

func recordFailure(errorLog, from string) {
	if err := output.AppendLine(errorLog, from); err != nil {
		logger.Errorf("Failed to write error log %s: %v", errorLog, err)
	}
}
