//go:build unix

package db

import (
	"os"
	"syscall"
)

// tryLock takes the exclusive flock without blocking; it fails if another
// process holds it.
func (l *fileLock) tryLock() error {
	return syscall.Flock(int(l.f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
}

func (l *fileLock) unlock() {
	if l.f != nil {
		syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
	}
}

// isProcessAlive reports whether a process with the given pid exists.
// FindProcess never fails on unix, so probe with signal 0.
func isProcessAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
