package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	lockFileName   = "db.lock"
	lockTimeout    = 500 * time.Millisecond
	lockBackoff    = 5 * time.Millisecond
	lockBackoffCap = 50 * time.Millisecond
)

// fileLock serializes writers across processes via an OS file lock on
// .wr/db.lock. The OS drops the lock when the process dies, so a crashed
// writer never wedges the database.
type fileLock struct {
	path string
	f    *os.File
}

func newFileLock(baseDir string) *fileLock {
	return &fileLock{path: filepath.Join(baseDir, dataDir, lockFileName)}
}

// acquire polls for the exclusive lock until timeout, doubling the sleep
// between attempts. The timeout error names the current holder.
func (l *fileLock) acquire(timeout time.Duration) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	l.f = f

	deadline := time.Now().Add(timeout)
	wait := lockBackoff
	for {
		if err := l.tryLock(); err == nil {
			l.stampHolder()
			return nil
		}
		if time.Now().After(deadline) {
			holder := l.holderInfo()
			l.f.Close()
			l.f = nil
			return fmt.Errorf("write lock timeout after %v (held by %s)", timeout, holder)
		}
		time.Sleep(wait)
		if wait < lockBackoffCap {
			wait *= 2
			if wait > lockBackoffCap {
				wait = lockBackoffCap
			}
		}
	}
}

func (l *fileLock) release() error {
	if l.f == nil {
		return nil
	}
	l.f.Truncate(0)
	l.unlock()
	l.f.Close()
	l.f = nil
	return nil
}

// stampHolder records pid and acquisition time in the lock file so a
// blocked process can report who holds it.
func (l *fileLock) stampHolder() {
	if l.f == nil {
		return
	}
	l.f.Truncate(0)
	l.f.Seek(0, 0)
	fmt.Fprintf(l.f, "pid=%d at=%s\n", os.Getpid(), time.Now().Format(time.RFC3339))
	l.f.Sync()
}

// holderInfo describes the current lock holder, flagging stale entries
// whose process is gone.
func (l *fileLock) holderInfo() string {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return "unknown"
	}

	var pid, at string
	for _, field := range strings.Fields(string(data)) {
		if v, ok := strings.CutPrefix(field, "pid="); ok {
			pid = v
		}
		if v, ok := strings.CutPrefix(field, "at="); ok {
			at = v
		}
	}
	if pid == "" {
		return "unknown"
	}

	if n, err := strconv.Atoi(pid); err == nil && !isProcessAlive(n) {
		return fmt.Sprintf("pid %s since %s (stale, process dead)", pid, at)
	}
	return fmt.Sprintf("pid %s since %s", pid, at)
}

// tryLock and unlock are per-platform: flock on unix (lock_unix.go),
// LockFileEx on windows (lock_windows.go).
