// Package bundle owns one in-flight week's aggregate and the mutation
// operations that keep its derived metrics consistent. A Manager is
// single-writer: every operation runs under one lock and either commits
// fully (including its recomputation pass) or leaves the bundle untouched.
package bundle

import (
	"fmt"
	"sync"
	"time"

	"github.com/marcus/wr/internal/ident"
	"github.com/marcus/wr/internal/metrics"
	"github.com/marcus/wr/internal/models"
)

// Manager wraps a Bundle with invariant-preserving mutation operations.
type Manager struct {
	mu  sync.Mutex
	ids ident.Generator
	now func() time.Time
	b   *models.Bundle
}

// Option configures a Manager.
type Option func(*Manager)

// WithIDGenerator substitutes the id generator (tests use a sequential one).
func WithIDGenerator(gen ident.Generator) Option {
	return func(m *Manager) { m.ids = gen }
}

// WithClock substitutes the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager wraps an existing bundle. The Manager takes ownership; the
// caller must not mutate the bundle directly afterwards.
func NewManager(b *models.Bundle, opts ...Option) *Manager {
	m := &Manager{
		ids: ident.NewGenerator(),
		now: time.Now,
		b:   b,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bundle returns a deep copy of the current aggregate.
func (m *Manager) Bundle() *models.Bundle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.b.Clone()
}

// WithBundle runs fn against the live bundle under the manager lock.
// fn must not retain references past its return. The finalizer uses this
// so validation through commit is a single critical section.
func (m *Manager) WithBundle(fn func(b *models.Bundle) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.b)
}

// Warnings reports days currently planned over capacity.
func (m *Manager) Warnings() []metrics.Warning {
	m.mu.Lock()
	defer m.mu.Unlock()
	return metrics.OverCapacity(m.b)
}

// guardDraft rejects mutations once the report is finalized.
func (m *Manager) guardDraft() error {
	if m.b.Report.Finalized() {
		return fmt.Errorf("report %s is finalized: %w", m.b.Report.ID, models.ErrInvalidState)
	}
	return nil
}

// TaskOptions carries the optional fields of AddTask.
type TaskOptions struct {
	Priority   *int
	ReasonTags []string
	Note       string
}

// AddTask appends a new task to a day of the active report and recomputes
// that day's metrics.
func (m *Manager) AddTask(dayID, title string, estimatedMinutes int, opts TaskOptions) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.guardDraft(); err != nil {
		return nil, err
	}
	if m.b.DayByID(dayID) == nil {
		return nil, models.NewValidationError(
			models.Violationf("day_id", "day %s does not belong to report %s", dayID, m.b.Report.ID))
	}

	id, err := m.ids.NewID(ident.KindTask)
	if err != nil {
		return nil, err
	}
	now := models.LocalTimeOf(m.now())
	task := models.Task{
		ID:               id,
		WeekReportID:     m.b.Report.ID,
		DayID:            dayID,
		Title:            title,
		EstimatedMinutes: estimatedMinutes,
		Priority:         opts.Priority,
		Status:           models.TaskStatusTodo,
		ReasonTags:       opts.ReasonTags,
		Note:             opts.Note,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if violations := models.ValidateTask(&task); len(violations) > 0 {
		return nil, models.NewValidationError(violations...)
	}

	m.b.Tasks = append(m.b.Tasks, task)
	metrics.Recompute(m.b)
	return &task, nil
}

// TaskPatch is a partial task update; nil fields are left unchanged.
type TaskPatch struct {
	Title            *string
	EstimatedMinutes *int
	DayID            *string
	Priority         *int
	ClearPriority    bool
	Status           *models.TaskStatus
	ReasonTags       *[]string
	Note             *string
}

// UpdateTask applies a partial update. Reassigning the day revalidates the
// target and recomputes both affected days. A status change is always
// authoritative; sessions never block it.
func (m *Manager) UpdateTask(taskID string, patch TaskPatch) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.guardDraft(); err != nil {
		return nil, err
	}
	task := m.b.TaskByID(taskID)
	if task == nil {
		return nil, fmt.Errorf("task %s: %w", taskID, models.ErrNotFound)
	}

	updated := *task
	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.EstimatedMinutes != nil {
		updated.EstimatedMinutes = *patch.EstimatedMinutes
	}
	if patch.DayID != nil {
		if m.b.DayByID(*patch.DayID) == nil {
			return nil, models.NewValidationError(
				models.Violationf("day_id", "day %s does not belong to report %s", *patch.DayID, m.b.Report.ID))
		}
		updated.DayID = *patch.DayID
	}
	if patch.ClearPriority {
		updated.Priority = nil
	} else if patch.Priority != nil {
		updated.Priority = patch.Priority
	}
	if patch.Status != nil {
		updated.Status = *patch.Status
	}
	if patch.ReasonTags != nil {
		updated.ReasonTags = *patch.ReasonTags
	}
	if patch.Note != nil {
		updated.Note = *patch.Note
	}
	if violations := models.ValidateTask(&updated); len(violations) > 0 {
		return nil, models.NewValidationError(violations...)
	}
	updated.UpdatedAt = models.LocalTimeOf(m.now())

	*task = updated
	metrics.Recompute(m.b)
	result := updated
	return &result, nil
}

// RemoveTask deletes a task and cascades to its sessions, then recomputes
// the task's day.
func (m *Manager) RemoveTask(taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.guardDraft(); err != nil {
		return err
	}
	if m.b.TaskByID(taskID) == nil {
		return fmt.Errorf("task %s: %w", taskID, models.ErrNotFound)
	}

	tasks := m.b.Tasks[:0]
	for _, t := range m.b.Tasks {
		if t.ID != taskID {
			tasks = append(tasks, t)
		}
	}
	m.b.Tasks = tasks

	sessions := m.b.TaskSessions[:0]
	for _, s := range m.b.TaskSessions {
		if s.TaskID != taskID {
			sessions = append(sessions, s)
		}
	}
	m.b.TaskSessions = sessions

	metrics.Recompute(m.b)
	return nil
}

// LogSession records a block of work against a task. The interval must be
// well-formed and must not overlap any existing session for the same task.
// A completed session advances the task's status to done (one-directional
// sync; status changes via UpdateTask remain authoritative).
func (m *Manager) LogSession(taskID string, startAt, endAt time.Time, note string, isCompleted *bool) (*models.TaskSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.guardDraft(); err != nil {
		return nil, err
	}
	task := m.b.TaskByID(taskID)
	if task == nil {
		return nil, models.NewValidationError(
			models.Violationf("task_id", "task %s does not exist in this bundle", taskID))
	}

	id, err := m.ids.NewID(ident.KindSession)
	if err != nil {
		return nil, err
	}
	session := models.TaskSession{
		ID:          id,
		TaskID:      taskID,
		StartAt:     models.LocalTimeOf(startAt),
		EndAt:       models.LocalTimeOf(endAt),
		Note:        note,
		IsCompleted: isCompleted,
	}
	if violations := models.ValidateSession(&session); len(violations) > 0 {
		return nil, models.NewValidationError(violations...)
	}
	for i := range m.b.TaskSessions {
		existing := &m.b.TaskSessions[i]
		if existing.TaskID == taskID && existing.Overlaps(&session) {
			return nil, models.NewValidationError(
				models.Violationf("start_at", "interval %s..%s overlaps session %s", session.StartAt, session.EndAt, existing.ID))
		}
	}

	m.b.TaskSessions = append(m.b.TaskSessions, session)
	if session.Completed() {
		task.Status = models.TaskStatusDone
		task.UpdatedAt = models.LocalTimeOf(m.now())
	}
	metrics.Recompute(m.b)
	return &session, nil
}

// ReportPatch is a partial update of the report's narrative fields; nil
// fields are left unchanged.
type ReportPatch struct {
	GoalsWeek  *[]string
	GoalsMonth *[]string
	GoalsLong  *[]string
	GoodPoints *[]string
	Issues     *[]models.Issue
}

// EditReport updates the report narrative. Draft reports only.
func (m *Manager) EditReport(patch ReportPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.guardDraft(); err != nil {
		return err
	}
	if patch.Issues != nil {
		var violations []models.Violation
		for _, issue := range *patch.Issues {
			if issue.Problem == "" {
				violations = append(violations, models.Violationf("issues.problem", "problem is required"))
			}
		}
		if len(violations) > 0 {
			return models.NewValidationError(violations...)
		}
	}

	if patch.GoalsWeek != nil {
		m.b.Report.GoalsWeek = *patch.GoalsWeek
	}
	if patch.GoalsMonth != nil {
		m.b.Report.GoalsMonth = *patch.GoalsMonth
	}
	if patch.GoalsLong != nil {
		m.b.Report.GoalsLong = *patch.GoalsLong
	}
	if patch.GoodPoints != nil {
		m.b.Report.GoodPoints = *patch.GoodPoints
	}
	if patch.Issues != nil {
		m.b.Report.Issues = *patch.Issues
	}
	m.b.Report.UpdatedAt = models.LocalTimeOf(m.now())
	return nil
}

// SetDayCapacity sets or clears a day's available minutes. Derived fields
// are untouched; capacity only feeds over-capacity warnings.
func (m *Manager) SetDayCapacity(dayID string, minutes *int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.guardDraft(); err != nil {
		return err
	}
	day := m.b.DayByID(dayID)
	if day == nil {
		return fmt.Errorf("day %s: %w", dayID, models.ErrNotFound)
	}
	if minutes != nil && *minutes < 0 {
		return models.NewValidationError(models.Violationf("available_minutes", "must not be negative"))
	}
	day.AvailableMinutes = minutes
	return nil
}

// AcceptCarryover copies a last-week task onto a day of the active report
// as a fresh todo task. The previous week's record is not touched.
func (m *Manager) AcceptCarryover(carryoverID, dayID string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.guardDraft(); err != nil {
		return nil, err
	}
	var source *models.Task
	for i := range m.b.LastWeekTasks {
		if m.b.LastWeekTasks[i].ID == carryoverID {
			source = &m.b.LastWeekTasks[i]
			break
		}
	}
	if source == nil {
		return nil, fmt.Errorf("carryover task %s: %w", carryoverID, models.ErrNotFound)
	}
	if m.b.DayByID(dayID) == nil {
		return nil, models.NewValidationError(
			models.Violationf("day_id", "day %s does not belong to report %s", dayID, m.b.Report.ID))
	}

	id, err := m.ids.NewID(ident.KindTask)
	if err != nil {
		return nil, err
	}
	now := models.LocalTimeOf(m.now())
	task := models.Task{
		ID:               id,
		WeekReportID:     m.b.Report.ID,
		DayID:            dayID,
		Title:            source.Title,
		EstimatedMinutes: source.EstimatedMinutes,
		Priority:         source.Priority,
		Status:           models.TaskStatusTodo,
		ReasonTags:       append([]string(nil), source.ReasonTags...),
		Note:             source.Note,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	m.b.Tasks = append(m.b.Tasks, task)
	metrics.Recompute(m.b)
	return &task, nil
}
