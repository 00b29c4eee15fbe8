package metadata

import (
	"path/filepath"
	"strings"
)

// imageFormats lists the containers the EXIF date lookup is attempted for.
var imageFormats = map[string]struct{}{
	".avi":        {},
	".bmp":        {},
	".eps":        {},
	".filesystem": {},
	".filetype":   {},
	".gif":        {},
	".heif":       {},
	".ico":        {},
	".jpeg":       {},
	".jpg":        {},
	".mpeg":       {},
	".netpbm":     {},
	".pcx":        {},
	".photoshop":  {},
	".png":        {},
	".quicktime":  {},
	".raf":        {},
	".tga":        {},
	".tiff":       {},
	".wav":        {},
	".webp":       {},
}

// IsImageExtension reports whether the extension of path is one of the
// known image or media container extensions. Matching ignores case.
func IsImageExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	_, ok := imageFormats[ext]
	return ok
}
