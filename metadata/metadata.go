package metadata

import (
	"io"
	"os"
	"strings"
	"time"

	"filebackup/logger"

	"github.com/h2non/filetype"
	"github.com/rwcarlsen/goexif/exif"
)

// DefaultMaxBytes bounds how much of a file the EXIF decoder may read.
const DefaultMaxBytes int64 = 1 * 1024 * 1024

var dateLayouts = []string{
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
	"2006:01:02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006:01:02",
	"2006-01-02",
}

// Extractor reads capture dates from image metadata.
type Extractor struct {
	// MaxBytes limits the bytes handed to the decoder; 0 means unlimited.
	MaxBytes int64
}

var defaultExtractor = Extractor{MaxBytes: DefaultMaxBytes}

// DateTaken returns the embedded capture date of path using the default
// extractor. The boolean is false when the date is unknown.
func DateTaken(path string) (time.Time, bool) {
	return defaultExtractor.DateTaken(path)
}

// DateTaken returns the date recorded in the Exif sub-IFD of path.
// Unsupported, corrupt or date-less files report false; decoder failures
// never propagate.
func (e Extractor) DateTaken(path string) (tm time.Time, ok bool) {
	if !IsImageExtension(path) {
		return time.Time{}, false
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Debugf("EXIF decoder panic for %s: %v", path, r)
			tm, ok = time.Time{}, false
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		logger.Debugf("Failed to open %s for metadata: %v", path, err)
		return time.Time{}, false
	}
	defer f.Close()

	if !looksLikeMedia(f) {
		logger.Debugf("Skipping metadata for %s: content is not a media container", path)
		return time.Time{}, false
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return time.Time{}, false
	}

	var reader io.Reader = f
	if e.MaxBytes > 0 {
		reader = io.LimitReader(f, e.MaxBytes)
	}
	x, err := exif.Decode(reader)
	if err != nil {
		logger.Debugf("No EXIF data in %s: %v", path, err)
		return time.Time{}, false
	}
	return dateFromExif(x)
}

// looksLikeMedia rejects files whose header identifies a known non-media
// type. Unrecognised headers are given the benefit of the doubt.
func looksLikeMedia(r io.Reader) bool {
	head := make([]byte, 261)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false
	}
	head = head[:n]
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return true
	}
	return filetype.IsImage(head) || filetype.IsVideo(head) || filetype.IsAudio(head)
}

func dateFromExif(x *exif.Exif) (time.Time, bool) {
	for _, name := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime} {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		value, err := tag.StringVal()
		if err != nil {
			continue
		}
		if tm, ok := parseDate(value); ok {
			return tm, true
		}
	}
	return time.Time{}, false
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(strings.TrimRight(value, "\x00"))
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		tm, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil && tm.Year() > 0 {
			return tm, true
		}
	}
	return time.Time{}, false
}
