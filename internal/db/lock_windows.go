//go:build windows

package db

import (
	"golang.org/x/sys/windows"
)

// tryLock takes an exclusive lock on the first byte of the file without
// blocking; it fails if another process holds it.
func (l *fileLock) tryLock() error {
	ol := new(windows.Overlapped)
	return windows.LockFileEx(
		windows.Handle(l.f.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0,
		1,
		0,
		ol,
	)
}

func (l *fileLock) unlock() {
	if l.f != nil {
		ol := new(windows.Overlapped)
		windows.UnlockFileEx(windows.Handle(l.f.Fd()), 0, 1, 0, ol)
	}
}

// isProcessAlive reports whether a process with the given pid is still
// running. Exit code 259 (STILL_ACTIVE) means it is.
func isProcessAlive(pid int) bool {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(handle)

	var exitCode uint32
	if err := windows.GetExitCodeProcess(handle, &exitCode); err != nil {
		return false
	}
	return exitCode == 259
}
