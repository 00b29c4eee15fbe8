//go:build !windows
// +build !windows

package copier

import "golang.org/x/sys/unix"

// setFileTimes stamps access and modification times. Unix filesystems do
// not allow the birth time to be set.
func setFileTimes(path string, st sourceTimes) error {
	ts := []unix.Timespec{
		unix.NsecToTimespec(st.Access.UnixNano()),
		unix.NsecToTimespec(st.Modified.UnixNano()),
	}
	return unix.UtimesNano(path, ts)
}
