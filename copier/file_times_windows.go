//go:build windows
// +build windows

package copier

import "golang.org/x/sys/windows"

func setFileTimes(path string, st sourceTimes) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	handle, err := windows.CreateFile(
		p,
		windows.FILE_WRITE_ATTRIBUTES,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS,
		0,
	)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(handle)

	access := windows.NsecToFiletime(st.Access.UnixNano())
	modified := windows.NsecToFiletime(st.Modified.UnixNano())
	var creation *windows.Filetime
	if st.HasCreation {
		c := windows.NsecToFiletime(st.Creation.UnixNano())
		creation = &c
	}
	return windows.SetFileTime(handle, creation, &access, &modified)
}
