package models

import (
	"sort"
	"strings"
)

// ValidateDay checks a Day against its owning report. The date must fall
// inside [cycle_start, cycle_end] and capacity cannot be negative.
func ValidateDay(day *Day, report *WeekReport) []Violation {
	var out []Violation
	if day.WeekReportID != report.ID {
		out = append(out, Violationf("week_report_id", "day %s does not belong to report %s", day.ID, report.ID))
	}
	if day.Date.IsZero() {
		out = append(out, Violationf("date", "date is required"))
	} else if day.Date.Before(report.CycleStart) || day.Date.After(report.CycleEnd) {
		out = append(out, Violationf("date", "date %s outside cycle %s..%s", day.Date, report.CycleStart, report.CycleEnd))
	}
	if day.AvailableMinutes != nil && *day.AvailableMinutes < 0 {
		out = append(out, Violationf("available_minutes", "must not be negative"))
	}
	return out
}

// ValidateTask checks intrinsic task fields. Referential checks (day
// membership) belong to the bundle-level operations.
func ValidateTask(task *Task) []Violation {
	var out []Violation
	if strings.TrimSpace(task.Title) == "" {
		out = append(out, Violationf("title", "title is required"))
	}
	if task.EstimatedMinutes <= 0 {
		out = append(out, Violationf("estimated_minutes", "must be positive, got %d", task.EstimatedMinutes))
	}
	if !IsValidTaskStatus(task.Status) {
		out = append(out, Violationf("status", "invalid task status %q", task.Status))
	}
	if task.DayID == "" {
		out = append(out, Violationf("day_id", "day_id is required"))
	}
	return out
}

// ValidateSession checks intrinsic session fields.
func ValidateSession(session *TaskSession) []Violation {
	var out []Violation
	if session.TaskID == "" {
		out = append(out, Violationf("task_id", "task_id is required"))
	}
	if session.StartAt.IsZero() {
		out = append(out, Violationf("start_at", "start_at is required"))
	}
	if session.EndAt.IsZero() {
		out = append(out, Violationf("end_at", "end_at is required"))
	}
	if !session.StartAt.IsZero() && !session.EndAt.IsZero() && !session.EndAt.Time.After(session.StartAt.Time) {
		out = append(out, Violationf("end_at", "end_at %s must be after start_at %s", session.EndAt, session.StartAt))
	}
	return out
}

// ValidateBundle runs the full consistency check used at finalize time:
// report status value, a contiguous 7-day sequence with no duplicate dates,
// every task resolving to a day of the same report, and no overlapping
// sessions per task. Returns a *ValidationError or nil.
func ValidateBundle(b *Bundle) error {
	var out []Violation

	if !IsValidReportStatus(b.Report.Status) {
		out = append(out, Violationf("status", "invalid report status %q", b.Report.Status))
	}
	if b.Report.CycleEnd.Before(b.Report.CycleStart) {
		out = append(out, Violationf("cycle_end", "cycle_end must be on or after cycle_start"))
	}
	if strings.TrimSpace(b.Report.WeekID) == "" {
		out = append(out, Violationf("week_id", "week_id is required"))
	}
	for _, issue := range b.Report.Issues {
		if strings.TrimSpace(issue.Problem) == "" {
			out = append(out, Violationf("issues.problem", "problem is required"))
		}
	}

	out = append(out, validateDaySequence(b)...)

	dayIDs := make(map[string]bool, len(b.Days))
	for i := range b.Days {
		dayIDs[b.Days[i].ID] = true
		out = append(out, ValidateDay(&b.Days[i], &b.Report)...)
	}

	taskIDs := make(map[string]bool, len(b.Tasks))
	for i := range b.Tasks {
		t := &b.Tasks[i]
		taskIDs[t.ID] = true
		out = append(out, ValidateTask(t)...)
		if t.WeekReportID != b.Report.ID {
			out = append(out, Violationf("tasks.week_report_id", "task %s does not belong to report %s", t.ID, b.Report.ID))
		}
		if t.DayID != "" && !dayIDs[t.DayID] {
			out = append(out, Violationf("tasks.day_id", "task %s references unknown day %s", t.ID, t.DayID))
		}
	}

	for i := range b.TaskSessions {
		s := &b.TaskSessions[i]
		out = append(out, ValidateSession(s)...)
		if !taskIDs[s.TaskID] {
			out = append(out, Violationf("task_sessions.task_id", "session %s references unknown task %s", s.ID, s.TaskID))
		}
	}
	out = append(out, validateSessionOverlaps(b.TaskSessions)...)

	return NewValidationError(out...)
}

// validateDaySequence enforces the contiguous 7-day invariant.
func validateDaySequence(b *Bundle) []Violation {
	var out []Violation
	if len(b.Days) != 7 {
		out = append(out, Violationf("days", "expected 7 days, got %d", len(b.Days)))
		return out
	}
	days := append([]Day(nil), b.Days...)
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	seen := make(map[string]bool, len(days))
	for i, d := range days {
		key := d.Date.String()
		if seen[key] {
			out = append(out, Violationf("days.date", "duplicate date %s", key))
		}
		seen[key] = true
		want := b.Report.CycleStart.AddDays(i)
		if !d.Date.Equal(want) {
			out = append(out, Violationf("days.date", "day %d is %s, want %s", i, d.Date, want))
		}
	}
	return out
}

// validateSessionOverlaps rejects intersecting [start, end) intervals for
// the same task, regardless of insertion order.
func validateSessionOverlaps(sessions []TaskSession) []Violation {
	var out []Violation
	byTask := make(map[string][]*TaskSession)
	for i := range sessions {
		s := &sessions[i]
		byTask[s.TaskID] = append(byTask[s.TaskID], s)
	}
	for taskID, group := range byTask {
		sort.Slice(group, func(i, j int) bool { return group[i].StartAt.Time.Before(group[j].StartAt.Time) })
		for i := 1; i < len(group); i++ {
			if group[i-1].Overlaps(group[i]) {
				out = append(out, Violationf("task_sessions", "sessions %s and %s overlap for task %s", group[i-1].ID, group[i].ID, taskID))
			}
		}
	}
	return out
}
