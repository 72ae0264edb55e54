package db

import (
	"database/sql"
	"fmt"

	"github.com/marcus/wr/internal/models"
)

// SaveBundle persists a full aggregate in one transaction. Child rows are
// replaced wholesale, which keeps the write path identical for inserts,
// updates and deletes.
func (db *DB) SaveBundle(b *models.Bundle) error {
	return db.withWriteLock(func() error {
		return db.inTx(func(tx *sql.Tx) error {
			r := &b.Report
			_, err := tx.Exec(`
				INSERT INTO week_reports (id, week_id, cycle_start, cycle_end,
					review_at, status, prev_week_report_id, goals_week,
					goals_month, goals_long, good_points, issues,
					last_week_tasks, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					week_id = excluded.week_id,
					cycle_start = excluded.cycle_start,
					cycle_end = excluded.cycle_end,
					review_at = excluded.review_at,
					status = excluded.status,
					prev_week_report_id = excluded.prev_week_report_id,
					goals_week = excluded.goals_week,
					goals_month = excluded.goals_month,
					goals_long = excluded.goals_long,
					good_points = excluded.good_points,
					issues = excluded.issues,
					last_week_tasks = excluded.last_week_tasks,
					updated_at = excluded.updated_at
			`, r.ID, r.WeekID, r.CycleStart.String(), r.CycleEnd.String(),
				formatLocalTime(r.ReviewAt), r.Status, r.PrevWeekReportID,
				jsonList(r.GoalsWeek), jsonList(r.GoalsMonth), jsonList(r.GoalsLong),
				jsonList(r.GoodPoints), jsonList(r.Issues), jsonList(b.LastWeekTasks),
				formatLocalTime(r.CreatedAt), formatLocalTime(r.UpdatedAt))
			if err != nil {
				return fmt.Errorf("save report: %w", err)
			}

			// Sessions reference tasks, so they go first on the way out.
			if _, err := tx.Exec(`
				DELETE FROM task_sessions WHERE task_id IN
					(SELECT id FROM tasks WHERE week_report_id = ?)
			`, r.ID); err != nil {
				return err
			}
			if _, err := tx.Exec(`DELETE FROM tasks WHERE week_report_id = ?`, r.ID); err != nil {
				return err
			}
			if _, err := tx.Exec(`DELETE FROM days WHERE week_report_id = ?`, r.ID); err != nil {
				return err
			}

			for i := range b.Days {
				d := &b.Days[i]
				if _, err := tx.Exec(`
					INSERT INTO days (id, week_report_id, date, available_minutes,
						planned_minutes, scheduled_minutes, done_count, total_count)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?)
				`, d.ID, d.WeekReportID, d.Date.String(), d.AvailableMinutes,
					d.PlannedMinutes, d.ScheduledMinutes, d.DoneCount, d.TotalCount); err != nil {
					return fmt.Errorf("save day %s: %w", d.ID, err)
				}
			}
			for i := range b.Tasks {
				t := &b.Tasks[i]
				if _, err := tx.Exec(`
					INSERT INTO tasks (id, week_report_id, day_id, title,
						estimated_minutes, priority, status, reason_tags, note,
						created_at, updated_at)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				`, t.ID, t.WeekReportID, t.DayID, t.Title, t.EstimatedMinutes,
					t.Priority, t.Status, jsonList(t.ReasonTags), t.Note,
					formatLocalTime(t.CreatedAt), formatLocalTime(t.UpdatedAt)); err != nil {
					return fmt.Errorf("save task %s: %w", t.ID, err)
				}
			}
			for i := range b.TaskSessions {
				s := &b.TaskSessions[i]
				if _, err := tx.Exec(`
					INSERT INTO task_sessions (id, task_id, start_at, end_at, note, is_completed)
					VALUES (?, ?, ?, ?, ?, ?)
				`, s.ID, s.TaskID, formatLocalTime(s.StartAt), formatLocalTime(s.EndAt),
					s.Note, s.IsCompleted); err != nil {
					return fmt.Errorf("save session %s: %w", s.ID, err)
				}
			}
			return nil
		})
	})
}

// LoadBundle reassembles the aggregate for a report id.
func (db *DB) LoadBundle(reportID string) (*models.Bundle, error) {
	row := db.conn.QueryRow(`SELECT `+reportColumns+` FROM week_reports WHERE id = ?`, reportID)
	report, carryover, err := scanReport(row)
	if err != nil {
		return nil, err
	}
	b := &models.Bundle{Report: *report, LastWeekTasks: carryover}

	if b.Days, err = db.loadDays(reportID); err != nil {
		return nil, err
	}
	if b.Tasks, err = db.loadTasks(reportID); err != nil {
		return nil, err
	}
	if b.TaskSessions, err = db.loadSessions(reportID); err != nil {
		return nil, err
	}
	return b, nil
}

func (db *DB) loadDays(reportID string) ([]models.Day, error) {
	rows, err := db.conn.Query(`
		SELECT id, week_report_id, date, available_minutes, planned_minutes,
		       scheduled_minutes, done_count, total_count
		FROM days WHERE week_report_id = ? ORDER BY date
	`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []models.Day
	for rows.Next() {
		var d models.Day
		var date string
		if err := rows.Scan(&d.ID, &d.WeekReportID, &date, &d.AvailableMinutes,
			&d.PlannedMinutes, &d.ScheduledMinutes, &d.DoneCount, &d.TotalCount); err != nil {
			return nil, err
		}
		if d.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("parse day date: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (db *DB) loadTasks(reportID string) ([]models.Task, error) {
	rows, err := db.conn.Query(`
		SELECT id, week_report_id, day_id, title, estimated_minutes, priority,
		       status, reason_tags, note, created_at, updated_at
		FROM tasks WHERE week_report_id = ? ORDER BY created_at, id
	`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var reasonTags, createdAt, updatedAt string
		if err := rows.Scan(&t.ID, &t.WeekReportID, &t.DayID, &t.Title,
			&t.EstimatedMinutes, &t.Priority, &t.Status, &reasonTags, &t.Note,
			&createdAt, &updatedAt); err != nil {
			return nil, err
		}
		unmarshalList(reasonTags, &t.ReasonTags)
		if t.CreatedAt, err = parseLocalTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse task created_at: %w", err)
		}
		if t.UpdatedAt, err = parseLocalTime(updatedAt); err != nil {
			return nil, fmt.Errorf("parse task updated_at: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (db *DB) loadSessions(reportID string) ([]models.TaskSession, error) {
	rows, err := db.conn.Query(`
		SELECT s.id, s.task_id, s.start_at, s.end_at, s.note, s.is_completed
		FROM task_sessions s
		JOIN tasks t ON t.id = s.task_id
		WHERE t.week_report_id = ?
		ORDER BY s.start_at, s.id
	`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.TaskSession
	for rows.Next() {
		var s models.TaskSession
		var startAt, endAt string
		if err := rows.Scan(&s.ID, &s.TaskID, &startAt, &endAt, &s.Note, &s.IsCompleted); err != nil {
			return nil, err
		}
		if s.StartAt, err = parseLocalTime(startAt); err != nil {
			return nil, fmt.Errorf("parse session start_at: %w", err)
		}
		if s.EndAt, err = parseLocalTime(endAt); err != nil {
			return nil, fmt.Errorf("parse session end_at: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
