package db

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestFileLockAcquireRelease(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(dir+"/"+dataDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	l := newFileLock(dir)
	if err := l.acquire(lockTimeout); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		t.Fatalf("read lock file: %v", err)
	}
	if !strings.Contains(string(data), "pid=") {
		t.Errorf("lock file missing holder stamp: %q", data)
	}

	if err := l.release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	// Released lock must be re-acquirable.
	l2 := newFileLock(dir)
	if err := l2.acquire(lockTimeout); err != nil {
		t.Fatalf("re-acquire after release: %v", err)
	}
	l2.release()
}

func TestFileLockHolderInfo(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(dir+"/"+dataDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	l := newFileLock(dir)
	if err := l.acquire(lockTimeout); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer l.release()

	info := l.holderInfo()
	if !strings.Contains(info, "pid ") {
		t.Errorf("holderInfo = %q, want pid of holder", info)
	}
	if strings.Contains(info, "stale") {
		t.Errorf("holderInfo reports live holder as stale: %q", info)
	}
}

func TestFileLockTimeoutReportsHolder(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(dir+"/"+dataDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	held := newFileLock(dir)
	if err := held.acquire(lockTimeout); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer held.release()

	waiter := newFileLock(dir)
	err := waiter.acquire(20 * time.Millisecond)
	if err == nil {
		waiter.release()
		t.Fatal("second acquire succeeded while lock held")
	}
	if !strings.Contains(err.Error(), "held by") {
		t.Errorf("timeout error = %q, want holder named", err)
	}
}
