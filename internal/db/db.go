package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	dataDir = ".wr"
	dbFile  = ".wr/reports.db"
)

// DB wraps the database connection for one project directory.
type DB struct {
	conn    *sql.DB
	baseDir string
}

// Open opens an existing database.
func Open(baseDir string) (*DB, error) {
	dbPath := filepath.Join(baseDir, dbFile)

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found: run 'wr init' first")
	}

	conn, err := openConn(dbPath)
	if err != nil {
		return nil, err
	}

	db := &DB{conn: conn, baseDir: baseDir}
	if err := db.ensureSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

// Initialize creates the database directory and schema.
func Initialize(baseDir string) (*DB, error) {
	dbPath := filepath.Join(baseDir, dbFile)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	conn, err := openConn(dbPath)
	if err != nil {
		return nil, err
	}

	db := &DB{conn: conn, baseDir: baseDir}
	if err := db.ensureSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

func openConn(dbPath string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL allows concurrent reads while writes are serialized.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Busy timeout as fallback protection (matches the write lock timeout).
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	// Slightly faster writes, still safe with WAL.
	conn.Exec("PRAGMA synchronous=NORMAL")

	return conn, nil
}

// Close closes the database
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the database connection is alive.
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// BaseDir returns the base directory for the database
func (db *DB) BaseDir() string {
	return db.baseDir
}

// Path returns the database file path under a base directory.
func Path(baseDir string) string {
	return filepath.Join(baseDir, dbFile)
}

// withWriteLock executes fn while holding an exclusive write lock.
// This prevents concurrent writes from multiple processes.
func (db *DB) withWriteLock(fn func() error) error {
	locker := newFileLock(db.baseDir)
	if err := locker.acquire(lockTimeout); err != nil {
		return err
	}
	defer locker.release()
	return fn()
}

// inTx runs fn inside a transaction, rolling back on error.
func (db *DB) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
