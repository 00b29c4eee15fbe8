package scanner

import "time"

// FileRecord describes a file discovered during a scan.
type FileRecord struct {
	Path         string    `json:"path"`
	Dir          string    `json:"dir"`
	Name         string    `json:"name"`
	Extension    string    `json:"extension,omitempty"`
	Size         int64     `json:"size"`
	CreationTime time.Time `json:"creation_time"`
	ModTime      time.Time `json:"mod_time"`
	AccessTime   time.Time `json:"access_time"`
}

// EarliestTime returns the earlier of the creation and modification times.
// Copies made by some tools carry a creation time newer than the content.
func (r FileRecord) EarliestTime() time.Time {
	if r.CreationTime.IsZero() || r.ModTime.Before(r.CreationTime) {
		return r.ModTime
	}
	return r.CreationTime
}

// DirRecord describes a directory seen during a scan.
type DirRecord struct {
	Path string `json:"path"`
}

// Result accumulates everything one scan discovered.
type Result struct {
	Files          []FileRecord
	Directories    []DirRecord
	Inaccessible   []DirRecord
	DirectoryCount int
}

// Select returns the files for which keep reports true, in scan order.
func (r *Result) Select(keep func(FileRecord) bool) []FileRecord {
	if r == nil {
		return nil
	}
	selected := make([]FileRecord, 0, len(r.Files))
	for _, f := range r.Files {
		if keep(f) {
			selected = append(selected, f)
		}
	}
	return selected
}
