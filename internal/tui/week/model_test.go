package week

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/wr/internal/models"
)

func testModel() Model {
	b := &models.Bundle{
		Report: models.WeekReport{
			ID:         "wr-0001",
			WeekID:     "2024-W24",
			CycleStart: models.NewDate(2024, 6, 10),
			CycleEnd:   models.NewDate(2024, 6, 16),
			Status:     models.ReportStatusDraft,
		},
	}
	for i := 0; i < 7; i++ {
		b.Days = append(b.Days, models.Day{
			ID:   "dy-000" + string(rune('1'+i)),
			Date: b.Report.CycleStart.AddDays(i),
		})
	}
	b.Tasks = []models.Task{
		{ID: "tk-0001", DayID: "dy-0001", Title: "Write importer", Status: models.TaskStatusTodo},
		{ID: "tk-0002", DayID: "dy-0001", Title: "Review PRs", Status: models.TaskStatusDoing},
		{ID: "tk-0003", DayID: "dy-0002", Title: "Write docs", Status: models.TaskStatusTodo},
	}

	m := NewModel(nil, "wr-0001")
	m.Bundle = b
	m.Width = 120
	m.Height = 30
	return m
}

func TestVisibleTasksByDay(t *testing.T) {
	m := testModel()
	if got := len(m.visibleTasks(0)); got != 2 {
		t.Errorf("day 0 tasks = %d, want 2", got)
	}
	if got := len(m.visibleTasks(1)); got != 1 {
		t.Errorf("day 1 tasks = %d, want 1", got)
	}
	if got := len(m.visibleTasks(2)); got != 0 {
		t.Errorf("day 2 tasks = %d, want 0", got)
	}
}

func TestVisibleTasksFilter(t *testing.T) {
	m := testModel()
	m.Filter.SetValue("write")

	tasks := m.visibleTasks(0)
	if len(tasks) != 1 || tasks[0].ID != "tk-0001" {
		t.Errorf("filtered day 0 = %v", tasks)
	}
	tasks = m.visibleTasks(1)
	if len(tasks) != 1 || tasks[0].ID != "tk-0003" {
		t.Errorf("filtered day 1 = %v", tasks)
	}
}

func TestDayNavigationWraps(t *testing.T) {
	m := testModel()

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	m = next.(Model)
	if m.DayIdx != 1 {
		t.Errorf("DayIdx after l = %d", m.DayIdx)
	}

	m.DayIdx = 6
	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	m = next.(Model)
	if m.DayIdx != 0 {
		t.Errorf("DayIdx should wrap to 0, got %d", m.DayIdx)
	}

	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	m = next.(Model)
	if m.DayIdx != 6 {
		t.Errorf("DayIdx should wrap back to 6, got %d", m.DayIdx)
	}
}

func TestTaskCursorBounds(t *testing.T) {
	m := testModel()

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = next.(Model)
	if m.TaskIdx != 1 {
		t.Errorf("TaskIdx after j = %d", m.TaskIdx)
	}

	// Already at the last task of day 0.
	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = next.(Model)
	if m.TaskIdx != 1 {
		t.Errorf("TaskIdx should stay at 1, got %d", m.TaskIdx)
	}

	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	m = next.(Model)
	if m.TaskIdx != 0 {
		t.Errorf("TaskIdx after k = %d", m.TaskIdx)
	}
}

func TestClampCursorAfterFilter(t *testing.T) {
	m := testModel()
	m.TaskIdx = 1
	m.Filter.SetValue("importer")
	m.clampCursor()
	if m.TaskIdx != 0 {
		t.Errorf("TaskIdx after clamp = %d", m.TaskIdx)
	}
}

func TestSelectedTask(t *testing.T) {
	m := testModel()
	task := m.selectedTask()
	if task == nil || task.ID != "tk-0001" {
		t.Errorf("selectedTask = %v", task)
	}

	m.DayIdx = 2
	if m.selectedTask() != nil {
		t.Error("selectedTask on empty day should be nil")
	}
}

func TestViewRendersBoard(t *testing.T) {
	m := testModel()
	view := m.View()
	for _, want := range []string{"2024-W24", "Mon", "Write importer"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
