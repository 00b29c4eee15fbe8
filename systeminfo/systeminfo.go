package systeminfo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v4/disk"
)

// DiskSpace describes the volume holding a path.
type DiskSpace struct {
	Path  string `json:"path"`
	Total uint64 `json:"total"`
	Free  uint64 `json:"free"`
}

// GetDiskSpace reports the volume usage for path. A path that does not exist
// yet is resolved to its nearest existing ancestor.
func GetDiskSpace(path string) (*DiskSpace, error) {
	existing, err := nearestExisting(path)
	if err != nil {
		return nil, err
	}
	usage, err := disk.Usage(existing)
	if err != nil {
		return nil, fmt.Errorf("disk usage for %s: %w", existing, err)
	}
	return &DiskSpace{Path: existing, Total: usage.Total, Free: usage.Free}, nil
}

// Fits reports whether size bytes fit in the free space.
func (d *DiskSpace) Fits(size int64) bool {
	if d == nil || size <= 0 {
		return true
	}
	return uint64(size) <= d.Free
}

func nearestExisting(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(abs); err == nil {
			return abs, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("no existing ancestor for %s", path)
		}
		abs = parent
	}
}
