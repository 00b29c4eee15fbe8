package organizer

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"filebackup/metadata"
	"filebackup/scanner"
)

// Builder derives destination paths for scanned files.
type Builder struct {
	// DateTaken looks up an embedded capture date. Defaults to
	// metadata.DateTaken.
	DateTaken func(path string) (time.Time, bool)
}

// EffectiveDate returns the date a file is filed under: its embedded capture
// date when useMetadata is set and one exists, otherwise the earlier of its
// creation and modification times.
func (b Builder) EffectiveDate(file scanner.FileRecord, useMetadata bool) time.Time {
	if useMetadata {
		lookup := b.DateTaken
		if lookup == nil {
			lookup = metadata.DateTaken
		}
		if taken, ok := lookup(file.Path); ok {
			return taken
		}
	}
	return file.EarliestTime()
}

// BuildPath returns the destination path of file under destRoot for mode.
// Unknown modes behave like Flat.
func (b Builder) BuildPath(file scanner.FileRecord, destRoot string, useMetadata bool, mode Mode) string {
	switch mode {
	case ByYear:
		date := b.EffectiveDate(file, useMetadata)
		return filepath.Join(destRoot, yearDir(date), file.Name)
	case ByMonth:
		date := b.EffectiveDate(file, useMetadata)
		return filepath.Join(destRoot, yearDir(date), monthDir(date), file.Name)
	case ByDay:
		date := b.EffectiveDate(file, useMetadata)
		return filepath.Join(destRoot, yearDir(date), monthDir(date), date.Format("02"), file.Name)
	case PathEcho:
		return filepath.Join(destRoot, stripRoot(file.Dir), file.Name)
	default:
		return filepath.Join(destRoot, file.Name)
	}
}

func yearDir(date time.Time) string {
	return strconv.Itoa(date.Year())
}

// monthDir renders "03_Mar".
func monthDir(date time.Time) string {
	return date.Format("01") + "_" + date.Format("Jan")
}

// stripRoot removes the volume and leading separator from dir, so
// "C:\photos\2020" becomes "photos\2020" and "/home/me" becomes "home/me".
// A directory without a root prefix is returned unchanged.
func stripRoot(dir string) string {
	root := pathRoot(dir)
	if root == "" {
		return dir
	}
	idx := strings.Index(dir, root)
	if idx < 0 {
		return dir
	}
	return dir[:idx] + dir[idx+len(root):]
}

func pathRoot(dir string) string {
	vol := filepath.VolumeName(dir)
	rest := dir[len(vol):]
	if rest != "" && os.IsPathSeparator(rest[0]) {
		return vol + rest[:1]
	}
	return vol
}
