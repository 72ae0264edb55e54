package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marcus/wr/internal/models"
)

// jsonList marshals a slice into the TEXT column form, defaulting to "[]".
func jsonList(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return "[]"
	}
	return string(data)
}

func unmarshalList(s string, v interface{}) {
	if s == "" || s == "null" {
		return
	}
	json.Unmarshal([]byte(s), v)
}

func parseDate(s string) (models.Date, error) {
	if s == "" {
		return models.Date{}, nil
	}
	t, err := time.ParseInLocation(models.DateLayout, s, time.Local)
	if err != nil {
		return models.Date{}, err
	}
	return models.DateOf(t), nil
}

func parseLocalTime(s string) (models.LocalTime, error) {
	if s == "" {
		return models.LocalTime{}, nil
	}
	t, err := time.ParseInLocation(models.TimeLayout, s, time.Local)
	if err != nil {
		return models.LocalTime{}, err
	}
	return models.LocalTimeOf(t), nil
}

func formatLocalTime(t models.LocalTime) string {
	if t.IsZero() {
		return ""
	}
	return t.String()
}

// scanReport reads a full week_reports row.
func scanReport(row *sql.Row) (*models.WeekReport, []models.Task, error) {
	var (
		r                                                    models.WeekReport
		cycleStart, cycleEnd, reviewAt, createdAt, updatedAt string
		goalsWeek, goalsMonth, goalsLong, goodPoints, issues string
		lastWeekTasks                                        string
	)
	err := row.Scan(&r.ID, &r.WeekID, &cycleStart, &cycleEnd, &reviewAt, &r.Status,
		&r.PrevWeekReportID, &goalsWeek, &goalsMonth, &goalsLong, &goodPoints,
		&issues, &lastWeekTasks, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("week report: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, nil, err
	}

	if r.CycleStart, err = parseDate(cycleStart); err != nil {
		return nil, nil, fmt.Errorf("parse cycle_start: %w", err)
	}
	if r.CycleEnd, err = parseDate(cycleEnd); err != nil {
		return nil, nil, fmt.Errorf("parse cycle_end: %w", err)
	}
	if r.ReviewAt, err = parseLocalTime(reviewAt); err != nil {
		return nil, nil, fmt.Errorf("parse review_at: %w", err)
	}
	if r.CreatedAt, err = parseLocalTime(createdAt); err != nil {
		return nil, nil, fmt.Errorf("parse created_at: %w", err)
	}
	if r.UpdatedAt, err = parseLocalTime(updatedAt); err != nil {
		return nil, nil, fmt.Errorf("parse updated_at: %w", err)
	}
	unmarshalList(goalsWeek, &r.GoalsWeek)
	unmarshalList(goalsMonth, &r.GoalsMonth)
	unmarshalList(goalsLong, &r.GoalsLong)
	unmarshalList(goodPoints, &r.GoodPoints)
	unmarshalList(issues, &r.Issues)

	var carryover []models.Task
	unmarshalList(lastWeekTasks, &carryover)

	return &r, carryover, nil
}

const reportColumns = `id, week_id, cycle_start, cycle_end, review_at, status,
	prev_week_report_id, goals_week, goals_month, goals_long, good_points,
	issues, last_week_tasks, created_at, updated_at`

// GetWeekReport retrieves a report row by id (without its child entities;
// use LoadBundle for the full aggregate).
func (db *DB) GetWeekReport(id string) (*models.WeekReport, error) {
	row := db.conn.QueryRow(`SELECT `+reportColumns+` FROM week_reports WHERE id = ?`, id)
	r, _, err := scanReport(row)
	return r, err
}

// FindReportByWeekID retrieves a report by its ISO week key.
func (db *DB) FindReportByWeekID(weekID string) (*models.WeekReport, error) {
	row := db.conn.QueryRow(`SELECT `+reportColumns+` FROM week_reports WHERE week_id = ?`, weekID)
	r, _, err := scanReport(row)
	return r, err
}

// LatestFinalizedReportID returns the id of the most recent finalized
// report by cycle start, or empty when none exists.
func (db *DB) LatestFinalizedReportID() (string, error) {
	var id string
	err := db.conn.QueryRow(`
		SELECT id FROM week_reports
		WHERE status = ?
		ORDER BY cycle_start DESC LIMIT 1
	`, models.ReportStatusFinalized).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// LatestDraftReportID returns the id of the most recent draft report, or
// empty when none exists.
func (db *DB) LatestDraftReportID() (string, error) {
	var id string
	err := db.conn.QueryRow(`
		SELECT id FROM week_reports
		WHERE status = ?
		ORDER BY cycle_start DESC LIMIT 1
	`, models.ReportStatusDraft).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// ReportSummary is one row of the report listing.
type ReportSummary struct {
	ID         string              `json:"id"`
	WeekID     string              `json:"week_id"`
	CycleStart models.Date         `json:"cycle_start"`
	CycleEnd   models.Date         `json:"cycle_end"`
	Status     models.ReportStatus `json:"status"`
	TaskCount  int                 `json:"task_count"`
}

// ListReports returns all reports, most recent cycle first.
func (db *DB) ListReports() ([]ReportSummary, error) {
	rows, err := db.conn.Query(`
		SELECT r.id, r.week_id, r.cycle_start, r.cycle_end, r.status,
		       (SELECT COUNT(*) FROM tasks t WHERE t.week_report_id = r.id)
		FROM week_reports r
		ORDER BY r.cycle_start DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReportSummary
	for rows.Next() {
		var s ReportSummary
		var cycleStart, cycleEnd string
		if err := rows.Scan(&s.ID, &s.WeekID, &cycleStart, &cycleEnd, &s.Status, &s.TaskCount); err != nil {
			return nil, err
		}
		if s.CycleStart, err = parseDate(cycleStart); err != nil {
			return nil, err
		}
		if s.CycleEnd, err = parseDate(cycleEnd); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
