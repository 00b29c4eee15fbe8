package scanner

import (
	"time"

	"github.com/djherbis/times"
)

type fileTimes struct {
	Creation time.Time
	Modified time.Time
	Access   time.Time
}

// statTimes reads the timestamps of path. Filesystems without a birth time
// report the modification time as the creation time.
func statTimes(path string) (fileTimes, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return fileTimes{}, err
	}
	result := fileTimes{
		Modified: ts.ModTime(),
		Access:   ts.AccessTime(),
		Creation: ts.ModTime(),
	}
	if ts.HasBirthTime() {
		result.Creation = ts.BirthTime()
	}
	return result, nil
}
