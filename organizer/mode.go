package organizer

import (
	"errors"
	"fmt"
)

// Mode selects the directory layout under the destination root.
type Mode int

const (
	Flat Mode = iota
	ByYear
	ByMonth
	ByDay
	PathEcho
)

// ErrInvalidMode is returned by ParseMode for unknown names.
var ErrInvalidMode = errors.New("invalid organization format")

var modeNames = map[Mode]string{
	Flat:     "Flat",
	ByYear:   "ByYear",
	ByMonth:  "ByMonth",
	ByDay:    "ByDay",
	PathEcho: "PathEcho",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a configuration value to a Mode. Names are
// case-sensitive.
func ParseMode(name string) (Mode, error) {
	for mode, n := range modeNames {
		if n == name {
			return mode, nil
		}
	}
	return Flat, fmt.Errorf("%w: %q (expected Flat, ByYear, ByMonth, ByDay or PathEcho)", ErrInvalidMode, name)
}
