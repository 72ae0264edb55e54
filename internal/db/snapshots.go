package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/marcus/wr/internal/models"
)

// SaveSnapshot stores a snapshot as an opaque JSON document. Snapshots are
// append-only; there is no update path.
func (db *DB) SaveSnapshot(snap *models.Snapshot) error {
	doc, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`
			INSERT INTO snapshots (id, week_report_id, schema_version, created_at, document)
			VALUES (?, ?, ?, ?, ?)
		`, snap.ID, snap.WeekReportID, snap.SchemaVersion,
			formatLocalTime(snap.CreatedAt), string(doc))
		return err
	})
}

// GetSnapshot retrieves a snapshot by id.
func (db *DB) GetSnapshot(id string) (*models.Snapshot, error) {
	var doc string
	err := db.conn.QueryRow(`SELECT document FROM snapshots WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snapshot: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(doc)
}

// LatestSnapshotForReport returns the most recent snapshot for a report.
func (db *DB) LatestSnapshotForReport(reportID string) (*models.Snapshot, error) {
	var doc string
	err := db.conn.QueryRow(`
		SELECT document FROM snapshots
		WHERE week_report_id = ?
		ORDER BY created_at DESC, id DESC LIMIT 1
	`, reportID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snapshot: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(doc)
}

// SnapshotSummary is one row of the snapshot listing.
type SnapshotSummary struct {
	ID            string           `json:"id"`
	WeekReportID  string           `json:"week_report_id"`
	SchemaVersion string           `json:"schema_version"`
	CreatedAt     models.LocalTime `json:"created_at"`
}

// ListSnapshots returns snapshot metadata for a report, newest first.
func (db *DB) ListSnapshots(reportID string) ([]SnapshotSummary, error) {
	rows, err := db.conn.Query(`
		SELECT id, week_report_id, schema_version, created_at
		FROM snapshots WHERE week_report_id = ?
		ORDER BY created_at DESC, id DESC
	`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SnapshotSummary
	for rows.Next() {
		var s SnapshotSummary
		var createdAt string
		if err := rows.Scan(&s.ID, &s.WeekReportID, &s.SchemaVersion, &createdAt); err != nil {
			return nil, err
		}
		if s.CreatedAt, err = parseLocalTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse snapshot created_at: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func decodeSnapshot(doc string) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal([]byte(doc), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
