// Package week is the Bubble Tea board for a draft week: seven day columns,
// task cursor, quick status changes, and a filter input.
package week

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/wr/internal/bundle"
	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/models"
)

// MinWidth is the minimum terminal width for proper display
const MinWidth = 60

// MinHeight is the minimum terminal height for proper display
const MinHeight = 12

// Model is the main Bubble Tea model for the week board
type Model struct {
	DB       *db.DB
	ReportID string
	Bundle   *models.Bundle

	// Window dimensions
	Width  int
	Height int

	// Cursor position: day column and task row within it
	DayIdx  int
	TaskIdx int

	// Filter state
	Filter    textinput.Model
	Filtering bool

	ShowHelp    bool
	StatusLine  string
	LastRefresh time.Time
	Err         error
}

// RefreshMsg carries a reloaded bundle
type RefreshMsg struct {
	Bundle    *models.Bundle
	Timestamp time.Time
}

// ErrMsg carries a load or save failure
type ErrMsg struct{ Err error }

// StatusMsg sets the transient status line
type StatusMsg string

// NewModel creates a new board model
func NewModel(database *db.DB, reportID string) Model {
	ti := textinput.New()
	ti.Placeholder = "filter tasks"
	ti.CharLimit = 60
	ti.Width = 30
	return Model{
		DB:       database,
		ReportID: reportID,
		Filter:   ti,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.fetchData()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case RefreshMsg:
		m.Bundle = msg.Bundle
		m.LastRefresh = msg.Timestamp
		m.Err = nil
		m.clampCursor()
		return m, nil

	case StatusMsg:
		m.StatusLine = string(msg)
		return m, m.fetchData()

	case ErrMsg:
		m.Err = msg.Err
		return m, nil
	}

	return m, nil
}

// handleKey processes key input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Filtering {
		switch msg.String() {
		case "enter", "esc":
			m.Filtering = false
			m.Filter.Blur()
			if msg.String() == "esc" {
				m.Filter.SetValue("")
			}
			m.clampCursor()
			return m, nil
		default:
			var cmd tea.Cmd
			m.Filter, cmd = m.Filter.Update(msg)
			m.clampCursor()
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab", "l", "right":
		m.DayIdx = (m.DayIdx + 1) % m.dayCount()
		m.TaskIdx = 0
		return m, nil

	case "shift+tab", "h", "left":
		m.DayIdx = (m.DayIdx + m.dayCount() - 1) % m.dayCount()
		m.TaskIdx = 0
		return m, nil

	case "j", "down":
		if m.TaskIdx < len(m.visibleTasks(m.DayIdx))-1 {
			m.TaskIdx++
		}
		return m, nil

	case "k", "up":
		if m.TaskIdx > 0 {
			m.TaskIdx--
		}
		return m, nil

	case "/":
		m.Filtering = true
		m.Filter.Focus()
		return m, textinput.Blink

	case "t":
		return m, m.setStatus(models.TaskStatusTodo)

	case "s":
		return m, m.setStatus(models.TaskStatusDoing)

	case "d":
		return m, m.setStatus(models.TaskStatusDone)

	case "x":
		return m, m.setStatus(models.TaskStatusDropped)

	case "r":
		return m, m.fetchData()

	case "?":
		m.ShowHelp = !m.ShowHelp
		return m, nil
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	return m.renderView()
}

// fetchData returns a command that reloads the bundle from the database
func (m Model) fetchData() tea.Cmd {
	store, reportID := m.DB, m.ReportID
	return func() tea.Msg {
		b, err := store.LoadBundle(reportID)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return RefreshMsg{Bundle: b, Timestamp: time.Now()}
	}
}

// setStatus changes the selected task's status and persists the bundle
func (m Model) setStatus(status models.TaskStatus) tea.Cmd {
	task := m.selectedTask()
	if task == nil {
		return nil
	}
	store, reportID, taskID := m.DB, m.ReportID, task.ID
	return func() tea.Msg {
		b, err := store.LoadBundle(reportID)
		if err != nil {
			return ErrMsg{Err: err}
		}
		mgr := bundle.NewManager(b)
		if _, err := mgr.UpdateTask(taskID, bundle.TaskPatch{Status: &status}); err != nil {
			return ErrMsg{Err: err}
		}
		if err := store.SaveBundle(mgr.Bundle()); err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsg(taskID + " -> " + string(status))
	}
}

func (m Model) dayCount() int {
	if m.Bundle == nil || len(m.Bundle.Days) == 0 {
		return 1
	}
	return len(m.Bundle.Days)
}

// visibleTasks returns the day's tasks that match the current filter.
func (m Model) visibleTasks(dayIdx int) []*models.Task {
	if m.Bundle == nil || dayIdx >= len(m.Bundle.Days) {
		return nil
	}
	dayID := m.Bundle.Days[dayIdx].ID
	needle := strings.ToLower(strings.TrimSpace(m.Filter.Value()))

	var out []*models.Task
	for i := range m.Bundle.Tasks {
		t := &m.Bundle.Tasks[i]
		if t.DayID != dayID {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Title), needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (m Model) selectedTask() *models.Task {
	tasks := m.visibleTasks(m.DayIdx)
	if m.TaskIdx < 0 || m.TaskIdx >= len(tasks) {
		return nil
	}
	return tasks[m.TaskIdx]
}

func (m *Model) clampCursor() {
	if m.DayIdx >= m.dayCount() {
		m.DayIdx = m.dayCount() - 1
	}
	if n := len(m.visibleTasks(m.DayIdx)); m.TaskIdx >= n {
		m.TaskIdx = n - 1
	}
	if m.TaskIdx < 0 {
		m.TaskIdx = 0
	}
}
