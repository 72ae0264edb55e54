package models

import (
	"time"
)

// ReportStatus represents the lifecycle state of a WeekReport
type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "draft"
	ReportStatusFinalized ReportStatus = "finalized"
)

// TaskStatus represents task status
type TaskStatus string

const (
	TaskStatusTodo    TaskStatus = "todo"
	TaskStatusDoing   TaskStatus = "doing"
	TaskStatusDone    TaskStatus = "done"
	TaskStatusDropped TaskStatus = "dropped"
)

// DateLayout and TimeLayout are the wire formats for dates and timestamps.
// Timestamps are local wall-clock values and are never converted to UTC;
// the clock value the user entered is preserved end to end.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "2006-01-02T15:04:05"
)

// Date is a calendar date (no time component) serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// AddDays returns the date offset by n days.
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d is later than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Equal reports whether two dates are the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Format(DateLayout) == other.Format(DateLayout)
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON serializes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON parses a "YYYY-MM-DD" date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	t, err := time.ParseInLocation(`"`+DateLayout+`"`, s, time.Local)
	if err != nil {
		return err
	}
	*d = Date{t}
	return nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Time.IsZero()
}

// LocalTime is a local wall-clock timestamp serialized as
// YYYY-MM-DDTHH:mm:ss with no timezone designator.
type LocalTime struct {
	time.Time
}

// LocalTimeOf wraps a time.Time, truncating sub-second precision.
func LocalTimeOf(t time.Time) LocalTime {
	return LocalTime{t.Truncate(time.Second)}
}

func (t LocalTime) String() string {
	return t.Format(TimeLayout)
}

// MarshalJSON serializes the timestamp without a timezone.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(TimeLayout) + `"`), nil
}

// UnmarshalJSON parses a local wall-clock timestamp. A date-only value is
// accepted and treated as midnight.
func (t *LocalTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*t = LocalTime{}
		return nil
	}
	parsed, err := time.ParseInLocation(`"`+TimeLayout+`"`, s, time.Local)
	if err != nil {
		parsed, err = time.ParseInLocation(`"`+DateLayout+`"`, s, time.Local)
		if err != nil {
			return err
		}
	}
	*t = LocalTime{parsed}
	return nil
}

// IsZero reports whether the timestamp is unset.
func (t LocalTime) IsZero() bool {
	return t.Time.IsZero()
}

// Sub returns the duration between two timestamps.
func (t LocalTime) Sub(other LocalTime) time.Duration {
	return t.Time.Sub(other.Time)
}

// Issue is one retrospective problem entry on a WeekReport.
type Issue struct {
	Problem     string   `json:"problem"`
	RootCause   string   `json:"root_cause"`
	Improvement string   `json:"improvement"`
	Tags        []string `json:"tags,omitempty"`
}

// WeekReport is the root entity for one review cycle. Exactly one exists
// per Bundle; its status moves draft -> finalized exactly once.
type WeekReport struct {
	ID               string       `json:"id"`
	WeekID           string       `json:"week_id"`
	CycleStart       Date         `json:"cycle_start"`
	CycleEnd         Date         `json:"cycle_end"`
	ReviewAt         LocalTime    `json:"review_at"`
	Status           ReportStatus `json:"status"`
	PrevWeekReportID string       `json:"prev_week_report_id,omitempty"`
	GoalsWeek        []string     `json:"goals_week,omitempty"`
	GoalsMonth       []string     `json:"goals_month,omitempty"`
	GoalsLong        []string     `json:"goals_long,omitempty"`
	GoodPoints       []string     `json:"good_points,omitempty"`
	Issues           []Issue      `json:"issues,omitempty"`
	CreatedAt        LocalTime    `json:"created_at"`
	UpdatedAt        LocalTime    `json:"updated_at"`
}

// Finalized reports whether the report has been frozen.
func (r *WeekReport) Finalized() bool {
	return r.Status == ReportStatusFinalized
}

// Day is one capacity row of a week. PlannedMinutes, ScheduledMinutes,
// DoneCount and TotalCount are derived: they are recomputed from tasks and
// sessions and never set directly by callers.
type Day struct {
	ID               string `json:"id"`
	WeekReportID     string `json:"week_report_id"`
	Date             Date   `json:"date"`
	AvailableMinutes *int   `json:"available_minutes"` // nil = unbounded
	PlannedMinutes   int    `json:"planned_minutes"`
	ScheduledMinutes int    `json:"scheduled_minutes"`
	DoneCount        int    `json:"done_count"`
	TotalCount       int    `json:"total_count"`
}

// Task is a unit of planned work assigned to a Day.
type Task struct {
	ID               string     `json:"id"`
	WeekReportID     string     `json:"week_report_id"`
	DayID            string     `json:"day_id"`
	Title            string     `json:"title"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	Priority         *int       `json:"priority,omitempty"` // lower = higher
	Status           TaskStatus `json:"status"`
	ReasonTags       []string   `json:"reason_tags,omitempty"`
	Note             string     `json:"note,omitempty"`
	CreatedAt        LocalTime  `json:"created_at"`
	UpdatedAt        LocalTime  `json:"updated_at"`
}

// Open reports whether the task is still a carryover candidate.
func (t *Task) Open() bool {
	return t.Status == TaskStatusTodo || t.Status == TaskStatusDoing
}

// TaskSession is one logged block of work against a Task. Sessions for the
// same task never overlap in time.
type TaskSession struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	StartAt     LocalTime `json:"start_at"`
	EndAt       LocalTime `json:"end_at"`
	Note        string    `json:"note,omitempty"`
	IsCompleted *bool     `json:"is_completed,omitempty"`
}

// Minutes returns the whole-minute duration of the session.
func (s *TaskSession) Minutes() int {
	return int(s.EndAt.Sub(s.StartAt) / time.Minute)
}

// Overlaps reports whether two sessions intersect as [start, end) intervals.
func (s *TaskSession) Overlaps(other *TaskSession) bool {
	return s.StartAt.Time.Before(other.EndAt.Time) && other.StartAt.Time.Before(s.EndAt.Time)
}

// Completed reports whether the session closed out its task.
func (s *TaskSession) Completed() bool {
	return s.IsCompleted != nil && *s.IsCompleted
}

// Bundle is the full in-memory aggregate for one week's report cycle.
// LastWeekTasks is a read-only projection of the previous week's open
// tasks; mutating it has no effect on the prior week.
type Bundle struct {
	Report        WeekReport    `json:"week_report"`
	Days          []Day         `json:"days"`
	Tasks         []Task        `json:"tasks"`
	TaskSessions  []TaskSession `json:"task_sessions"`
	LastWeekTasks []Task        `json:"last_week_tasks"`
}

// DayByID returns the Day with the given id, or nil.
func (b *Bundle) DayByID(id string) *Day {
	for i := range b.Days {
		if b.Days[i].ID == id {
			return &b.Days[i]
		}
	}
	return nil
}

// TaskByID returns the Task with the given id, or nil.
func (b *Bundle) TaskByID(id string) *Task {
	for i := range b.Tasks {
		if b.Tasks[i].ID == id {
			return &b.Tasks[i]
		}
	}
	return nil
}

// SessionsForTask returns all sessions belonging to the given task.
func (b *Bundle) SessionsForTask(taskID string) []TaskSession {
	var out []TaskSession
	for _, s := range b.TaskSessions {
		if s.TaskID == taskID {
			out = append(out, s)
		}
	}
	return out
}

// Clone returns a deep copy sharing no mutable state with the receiver.
func (b *Bundle) Clone() *Bundle {
	out := &Bundle{
		Report:        b.Report,
		Days:          append([]Day(nil), b.Days...),
		Tasks:         cloneTasks(b.Tasks),
		TaskSessions:  make([]TaskSession, len(b.TaskSessions)),
		LastWeekTasks: cloneTasks(b.LastWeekTasks),
	}
	out.Report.GoalsWeek = append([]string(nil), b.Report.GoalsWeek...)
	out.Report.GoalsMonth = append([]string(nil), b.Report.GoalsMonth...)
	out.Report.GoalsLong = append([]string(nil), b.Report.GoalsLong...)
	out.Report.GoodPoints = append([]string(nil), b.Report.GoodPoints...)
	out.Report.Issues = make([]Issue, len(b.Report.Issues))
	for i, issue := range b.Report.Issues {
		issue.Tags = append([]string(nil), issue.Tags...)
		out.Report.Issues[i] = issue
	}
	for i := range b.Days {
		if b.Days[i].AvailableMinutes != nil {
			v := *b.Days[i].AvailableMinutes
			out.Days[i].AvailableMinutes = &v
		}
	}
	for i, s := range b.TaskSessions {
		if s.IsCompleted != nil {
			v := *s.IsCompleted
			s.IsCompleted = &v
		}
		out.TaskSessions[i] = s
	}
	return out
}

func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		t.ReasonTags = append([]string(nil), t.ReasonTags...)
		if t.Priority != nil {
			v := *t.Priority
			t.Priority = &v
		}
		out[i] = t
	}
	return out
}

// DayCompletion is the per-day completion entry of a snapshot's closing stats.
type DayCompletion struct {
	DayID      string  `json:"day_id"`
	Date       Date    `json:"date"`
	DoneCount  int     `json:"done_count"`
	TotalCount int     `json:"total_count"`
	Rate       float64 `json:"rate"`
}

// ClosingStats are the summary numbers computed at finalize time.
type ClosingStats struct {
	TotalEstimatedMinutes int                `json:"total_estimated_minutes"`
	TotalScheduledMinutes int                `json:"total_scheduled_minutes"`
	DayCompletion         []DayCompletion    `json:"day_completion"`
	StatusCounts          map[TaskStatus]int `json:"status_counts"`
}

// Snapshot is an immutable copy of a finalized Bundle plus closing stats.
// It is identified by the WeekReport id and the finalize timestamp.
type Snapshot struct {
	ID            string       `json:"id"`
	WeekReportID  string       `json:"week_report_id"`
	SchemaVersion string       `json:"schema_version"`
	CreatedAt     LocalTime    `json:"created_at"`
	Bundle        Bundle       `json:"bundle"`
	Stats         ClosingStats `json:"stats"`
}

// IsValidReportStatus checks if a report status is valid
func IsValidReportStatus(s ReportStatus) bool {
	switch s {
	case ReportStatusDraft, ReportStatusFinalized:
		return true
	}
	return false
}

// IsValidTaskStatus checks if a task status is valid
func IsValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusTodo, TaskStatusDoing, TaskStatusDone, TaskStatusDropped:
		return true
	}
	return false
}

// NormalizeTaskStatus maps common aliases to canonical task statuses
func NormalizeTaskStatus(s string) TaskStatus {
	switch s {
	case "in_progress", "in-progress", "wip":
		return TaskStatusDoing
	case "completed", "complete", "closed":
		return TaskStatusDone
	case "drop", "cancelled", "canceled":
		return TaskStatusDropped
	default:
		return TaskStatus(s)
	}
}
