package bundle

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/marcus/wr/internal/ident"
	"github.com/marcus/wr/internal/models"
)

// seqGenerator mints predictable ids for tests.
type seqGenerator struct {
	n int
}

func (g *seqGenerator) NewID(kind ident.Kind) (string, error) {
	g.n++
	return fmt.Sprintf("%s%04d", ident.Prefix(kind), g.n), nil
}

var testClock = func() time.Time {
	return time.Date(2024, time.June, 10, 18, 0, 0, 0, time.Local)
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	reviewAt := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.Local)
	m, err := InitWeek(reviewAt, nil, WithIDGenerator(&seqGenerator{}), WithClock(testClock))
	if err != nil {
		t.Fatalf("init week: %v", err)
	}
	return m
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func at(day, hour, min int) time.Time {
	return time.Date(2024, time.June, day, hour, min, 0, 0, time.Local)
}

func TestInitWeekMondayReview(t *testing.T) {
	m := newTestManager(t)
	b := m.Bundle()

	if got := b.Report.CycleStart.String(); got != "2024-06-10" {
		t.Errorf("cycle_start = %s, want 2024-06-10", got)
	}
	if got := b.Report.CycleEnd.String(); got != "2024-06-16" {
		t.Errorf("cycle_end = %s, want 2024-06-16", got)
	}
	if got := b.Report.WeekID; got != "2024-W24" {
		t.Errorf("week_id = %s, want 2024-W24", got)
	}
	if b.Report.Status != models.ReportStatusDraft {
		t.Errorf("status = %s, want draft", b.Report.Status)
	}
	if len(b.Days) != 7 {
		t.Fatalf("days = %d, want 7", len(b.Days))
	}
	for i, d := range b.Days {
		want := b.Report.CycleStart.AddDays(i)
		if !d.Date.Equal(want) {
			t.Errorf("day %d date = %s, want %s", i, d.Date, want)
		}
		if d.WeekReportID != b.Report.ID {
			t.Errorf("day %d owner = %s, want %s", i, d.WeekReportID, b.Report.ID)
		}
	}
	if len(b.Tasks) != 0 {
		t.Errorf("tasks = %d, want 0", len(b.Tasks))
	}
}

func TestInitWeekMidweekReviewStartsNextMonday(t *testing.T) {
	reviewAt := time.Date(2024, time.June, 12, 17, 30, 0, 0, time.Local) // Wednesday
	m, err := InitWeek(reviewAt, nil, WithIDGenerator(&seqGenerator{}), WithClock(testClock))
	if err != nil {
		t.Fatalf("init week: %v", err)
	}
	b := m.Bundle()
	if got := b.Report.CycleStart.String(); got != "2024-06-17" {
		t.Errorf("cycle_start = %s, want 2024-06-17 (next Monday)", got)
	}
}

func TestInitWeekZeroReviewAt(t *testing.T) {
	_, err := InitWeek(time.Time{}, nil)
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestInitWeekCarryover(t *testing.T) {
	prev := newTestManager(t)
	day := prev.Bundle().Days[0]
	if _, err := prev.AddTask(day.ID, "unfinished", 60, TaskOptions{}); err != nil {
		t.Fatalf("add task: %v", err)
	}
	done, err := prev.AddTask(day.ID, "finished", 30, TaskOptions{})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	status := models.TaskStatusDone
	if _, err := prev.UpdateTask(done.ID, TaskPatch{Status: &status}); err != nil {
		t.Fatalf("update task: %v", err)
	}
	dropped, err := prev.AddTask(day.ID, "abandoned", 15, TaskOptions{})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	droppedStatus := models.TaskStatusDropped
	if _, err := prev.UpdateTask(dropped.ID, TaskPatch{Status: &droppedStatus}); err != nil {
		t.Fatalf("update task: %v", err)
	}
	if err := prev.EditReport(ReportPatch{GoalsWeek: &[]string{"ship it"}}); err != nil {
		t.Fatalf("edit report: %v", err)
	}

	prevBundle := prev.Bundle()
	prevBundle.Report.Status = models.ReportStatusFinalized

	reviewAt := time.Date(2024, time.June, 17, 9, 0, 0, 0, time.Local)
	m, err := InitWeek(reviewAt, prevBundle, WithIDGenerator(&seqGenerator{}), WithClock(testClock))
	if err != nil {
		t.Fatalf("init week: %v", err)
	}
	b := m.Bundle()

	if len(b.LastWeekTasks) != 1 {
		t.Fatalf("last_week_tasks = %d, want 1 (todo/doing only)", len(b.LastWeekTasks))
	}
	if b.LastWeekTasks[0].Title != "unfinished" {
		t.Errorf("carryover = %q, want %q", b.LastWeekTasks[0].Title, "unfinished")
	}
	if b.Report.PrevWeekReportID != prevBundle.Report.ID {
		t.Errorf("prev_week_report_id = %s, want %s", b.Report.PrevWeekReportID, prevBundle.Report.ID)
	}
	if len(b.Report.GoalsWeek) != 1 || b.Report.GoalsWeek[0] != "ship it" {
		t.Errorf("goals_week = %v, want carried forward", b.Report.GoalsWeek)
	}
	if len(b.Tasks) != 0 {
		t.Errorf("tasks = %d, want 0 (carryover is not auto-inserted)", len(b.Tasks))
	}
}

func TestInitWeekIgnoresDraftPrev(t *testing.T) {
	prev := newTestManager(t)
	day := prev.Bundle().Days[0]
	if _, err := prev.AddTask(day.ID, "open task", 60, TaskOptions{}); err != nil {
		t.Fatalf("add task: %v", err)
	}

	reviewAt := time.Date(2024, time.June, 17, 9, 0, 0, 0, time.Local)
	m, err := InitWeek(reviewAt, prev.Bundle(), WithIDGenerator(&seqGenerator{}), WithClock(testClock))
	if err != nil {
		t.Fatalf("init week: %v", err)
	}
	b := m.Bundle()
	if len(b.LastWeekTasks) != 0 {
		t.Errorf("last_week_tasks = %d, want 0 for a non-finalized prev report", len(b.LastWeekTasks))
	}
	if b.Report.PrevWeekReportID != "" {
		t.Errorf("prev_week_report_id = %s, want empty", b.Report.PrevWeekReportID)
	}
}

func TestAddTaskRecomputesDay(t *testing.T) {
	m := newTestManager(t)
	day := m.Bundle().Days[0]

	if err := m.SetDayCapacity(day.ID, intPtr(480)); err != nil {
		t.Fatalf("set capacity: %v", err)
	}
	taskA, err := m.AddTask(day.ID, "Task A", 60, TaskOptions{})
	if err != nil {
		t.Fatalf("add task A: %v", err)
	}
	if _, err := m.AddTask(day.ID, "Task B", 90, TaskOptions{}); err != nil {
		t.Fatalf("add task B: %v", err)
	}

	b := m.Bundle()
	if got := b.DayByID(day.ID).PlannedMinutes; got != 150 {
		t.Errorf("planned = %d, want 150", got)
	}

	// Log 30 minutes against A, then close it out with a completed session.
	if _, err := m.LogSession(taskA.ID, at(10, 9, 0), at(10, 9, 30), "", nil); err != nil {
		t.Fatalf("log session: %v", err)
	}
	b = m.Bundle()
	if got := b.DayByID(day.ID).ScheduledMinutes; got != 30 {
		t.Errorf("scheduled = %d, want 30", got)
	}

	if _, err := m.LogSession(taskA.ID, at(10, 10, 0), at(10, 10, 15), "wrap up", boolPtr(true)); err != nil {
		t.Fatalf("log completed session: %v", err)
	}
	b = m.Bundle()
	if got := b.TaskByID(taskA.ID).Status; got != models.TaskStatusDone {
		t.Errorf("task A status = %s, want done", got)
	}
	d := b.DayByID(day.ID)
	if d.DoneCount != 1 || d.TotalCount != 2 {
		t.Errorf("done/total = %d/%d, want 1/2", d.DoneCount, d.TotalCount)
	}
}

func TestAddTaskValidation(t *testing.T) {
	m := newTestManager(t)
	day := m.Bundle().Days[0]

	if _, err := m.AddTask(day.ID, "", 60, TaskOptions{}); !models.IsValidation(err) {
		t.Errorf("empty title: err = %v, want ValidationError", err)
	}
	if _, err := m.AddTask(day.ID, "ok", 0, TaskOptions{}); !models.IsValidation(err) {
		t.Errorf("zero minutes: err = %v, want ValidationError", err)
	}
	if _, err := m.AddTask("dy-nope", "ok", 60, TaskOptions{}); !models.IsValidation(err) {
		t.Errorf("foreign day: err = %v, want ValidationError", err)
	}
}

func TestAddRemoveRoundTrip(t *testing.T) {
	m := newTestManager(t)
	day := m.Bundle().Days[0]
	if _, err := m.AddTask(day.ID, "keeper", 45, TaskOptions{}); err != nil {
		t.Fatalf("add keeper: %v", err)
	}
	before := m.Bundle().Days

	task, err := m.AddTask(day.ID, "transient", 120, TaskOptions{})
	if err != nil {
		t.Fatalf("add transient: %v", err)
	}
	if err := m.RemoveTask(task.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	after := m.Bundle().Days
	for i := range before {
		if before[i].PlannedMinutes != after[i].PlannedMinutes ||
			before[i].ScheduledMinutes != after[i].ScheduledMinutes ||
			before[i].DoneCount != after[i].DoneCount ||
			before[i].TotalCount != after[i].TotalCount {
			t.Errorf("day %d metrics changed: %+v vs %+v", i, before[i], after[i])
		}
	}
}

func TestRemoveTaskCascadesSessions(t *testing.T) {
	m := newTestManager(t)
	day := m.Bundle().Days[0]
	task, err := m.AddTask(day.ID, "with sessions", 60, TaskOptions{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := m.LogSession(task.ID, at(10, 9, 0), at(10, 10, 0), "", nil); err != nil {
		t.Fatalf("log: %v", err)
	}

	if err := m.RemoveTask(task.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	b := m.Bundle()
	if len(b.TaskSessions) != 0 {
		t.Errorf("sessions = %d, want 0 after cascade", len(b.TaskSessions))
	}
	if got := b.DayByID(day.ID).ScheduledMinutes; got != 0 {
		t.Errorf("scheduled = %d, want 0", got)
	}
}

func TestMoveTaskRecomputesBothDays(t *testing.T) {
	m := newTestManager(t)
	b := m.Bundle()
	dayA, dayB := b.Days[0], b.Days[1]

	task, err := m.AddTask(dayA.ID, "movable", 60, TaskOptions{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := m.UpdateTask(task.ID, TaskPatch{DayID: &dayB.ID}); err != nil {
		t.Fatalf("move: %v", err)
	}

	b = m.Bundle()
	if got := b.DayByID(dayA.ID).PlannedMinutes; got != 0 {
		t.Errorf("old day planned = %d, want 0", got)
	}
	if got := b.DayByID(dayB.ID).PlannedMinutes; got != 60 {
		t.Errorf("new day planned = %d, want 60", got)
	}
}

func TestUpdateTaskUnknownID(t *testing.T) {
	m := newTestManager(t)
	title := "x"
	if _, err := m.UpdateTask("tk-missing", TaskPatch{Title: &title}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLogSessionOverlapRejected(t *testing.T) {
	m := newTestManager(t)
	day := m.Bundle().Days[0]
	task, err := m.AddTask(day.ID, "busy", 60, TaskOptions{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := m.LogSession(task.ID, at(10, 9, 0), at(10, 10, 0), "", nil); err != nil {
		t.Fatalf("first session: %v", err)
	}
	// Overlapping interval fails regardless of insertion order.
	if _, err := m.LogSession(task.ID, at(10, 9, 30), at(10, 10, 30), "", nil); !models.IsValidation(err) {
		t.Errorf("overlap: err = %v, want ValidationError", err)
	}
	if _, err := m.LogSession(task.ID, at(10, 8, 0), at(10, 9, 30), "", nil); !models.IsValidation(err) {
		t.Errorf("overlap (earlier start): err = %v, want ValidationError", err)
	}
	// Adjacent [end, start) intervals are fine.
	if _, err := m.LogSession(task.ID, at(10, 10, 0), at(10, 11, 0), "", nil); err != nil {
		t.Errorf("adjacent session: %v", err)
	}
	// Failed attempts must not have left partial state behind.
	if got := len(m.Bundle().TaskSessions); got != 2 {
		t.Errorf("sessions = %d, want 2", got)
	}
}

func TestLogSessionInvalidInterval(t *testing.T) {
	m := newTestManager(t)
	day := m.Bundle().Days[0]
	task, err := m.AddTask(day.ID, "t", 60, TaskOptions{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := m.LogSession(task.ID, at(10, 10, 0), at(10, 10, 0), "", nil); !models.IsValidation(err) {
		t.Errorf("zero-length: err = %v, want ValidationError", err)
	}
	if _, err := m.LogSession(task.ID, at(10, 11, 0), at(10, 10, 0), "", nil); !models.IsValidation(err) {
		t.Errorf("inverted: err = %v, want ValidationError", err)
	}
	if _, err := m.LogSession("tk-ghost", at(10, 9, 0), at(10, 10, 0), "", nil); !models.IsValidation(err) {
		t.Errorf("unknown task: err = %v, want ValidationError", err)
	}
}

func TestEditReport(t *testing.T) {
	m := newTestManager(t)
	goals := []string{"finish migration", "write retro"}
	issues := []models.Issue{{Problem: "late starts", RootCause: "meetings", Improvement: "block mornings", Tags: []string{"focus"}}}
	if err := m.EditReport(ReportPatch{GoalsWeek: &goals, Issues: &issues}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	b := m.Bundle()
	if len(b.Report.GoalsWeek) != 2 || len(b.Report.Issues) != 1 {
		t.Errorf("report not updated: %+v", b.Report)
	}

	bad := []models.Issue{{Problem: ""}}
	if err := m.EditReport(ReportPatch{Issues: &bad}); !models.IsValidation(err) {
		t.Errorf("empty problem: err = %v, want ValidationError", err)
	}
}

func TestMutationsRejectedAfterFinalize(t *testing.T) {
	m := newTestManager(t)
	day := m.Bundle().Days[0]
	task, err := m.AddTask(day.ID, "pre-freeze", 60, TaskOptions{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	// Freeze the report the way the finalizer does.
	if err := m.WithBundle(func(b *models.Bundle) error {
		b.Report.Status = models.ReportStatusFinalized
		return nil
	}); err != nil {
		t.Fatalf("freeze: %v", err)
	}

	if _, err := m.AddTask(day.ID, "late", 30, TaskOptions{}); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("AddTask: err = %v, want ErrInvalidState", err)
	}
	title := "late edit"
	if _, err := m.UpdateTask(task.ID, TaskPatch{Title: &title}); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("UpdateTask: err = %v, want ErrInvalidState", err)
	}
	if err := m.RemoveTask(task.ID); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("RemoveTask: err = %v, want ErrInvalidState", err)
	}
	if _, err := m.LogSession(task.ID, at(10, 9, 0), at(10, 10, 0), "", nil); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("LogSession: err = %v, want ErrInvalidState", err)
	}
	if err := m.EditReport(ReportPatch{GoodPoints: &[]string{"nope"}}); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("EditReport: err = %v, want ErrInvalidState", err)
	}
}

func TestAcceptCarryover(t *testing.T) {
	prev := newTestManager(t)
	day := prev.Bundle().Days[0]
	if _, err := prev.AddTask(day.ID, "leftover", 45, TaskOptions{Priority: intPtr(1)}); err != nil {
		t.Fatalf("add: %v", err)
	}
	prevBundle := prev.Bundle()
	prevBundle.Report.Status = models.ReportStatusFinalized

	m, err := InitWeek(time.Date(2024, time.June, 17, 9, 0, 0, 0, time.Local), prevBundle,
		WithIDGenerator(&seqGenerator{}), WithClock(testClock))
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	b := m.Bundle()
	target := b.Days[2]

	task, err := m.AcceptCarryover(b.LastWeekTasks[0].ID, target.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if task.ID == b.LastWeekTasks[0].ID {
		t.Error("accepted task reused the carryover id")
	}
	if task.WeekReportID != b.Report.ID || task.DayID != target.ID {
		t.Errorf("ownership wrong: %+v", task)
	}
	got := m.Bundle()
	if got.DayByID(target.ID).PlannedMinutes != 45 {
		t.Errorf("planned = %d, want 45", got.DayByID(target.ID).PlannedMinutes)
	}
	if len(got.LastWeekTasks) != 1 {
		t.Errorf("last_week_tasks mutated: %d entries", len(got.LastWeekTasks))
	}
}

func TestWarnings(t *testing.T) {
	m := newTestManager(t)
	day := m.Bundle().Days[0]
	if err := m.SetDayCapacity(day.ID, intPtr(60)); err != nil {
		t.Fatalf("set capacity: %v", err)
	}
	if _, err := m.AddTask(day.ID, "too big", 90, TaskOptions{}); err != nil {
		t.Fatalf("add: %v", err)
	}
	warnings := m.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(warnings))
	}
	if warnings[0].PlannedMinutes != 90 || warnings[0].AvailableMinutes != 60 {
		t.Errorf("warning = %+v", warnings[0])
	}
}
