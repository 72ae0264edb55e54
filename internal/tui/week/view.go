package week

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/wr/internal/models"
)

// renderView renders the complete board view
func (m Model) renderView() string {
	if m.Width == 0 || m.Height == 0 {
		return "Loading..."
	}

	if m.Err != nil {
		return m.renderError()
	}

	if m.Bundle == nil {
		return "Loading..."
	}

	if m.Width < MinWidth || m.Height < MinHeight {
		return m.renderCompact()
	}

	if m.ShowHelp {
		return m.renderHelp()
	}

	header := m.renderHeader()
	board := m.renderColumns()
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, board, footer)
}

// renderCompact renders a minimal view for small terminals
func (m Model) renderCompact() string {
	var s strings.Builder

	fmt.Fprintf(&s, "wr board %s (resize for full view)\n\n", m.Bundle.Report.WeekID)

	for i := range m.Bundle.Days {
		d := &m.Bundle.Days[i]
		marker := "  "
		if i == m.DayIdx {
			marker = "> "
		}
		fmt.Fprintf(&s, "%s%s %s  %d/%d\n", marker,
			d.Date.Format("01-02"), d.Date.Weekday().String()[:3],
			d.DoneCount, d.TotalCount)
	}

	s.WriteString("\nq:quit r:refresh ?:help")
	return s.String()
}

// renderError renders an error message
func (m Model) renderError() string {
	return fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.Err)
}

func (m Model) renderHeader() string {
	r := &m.Bundle.Report
	title := titleStyle.Render(fmt.Sprintf("wr board  %s", r.WeekID))
	span := subtleStyle.Render(fmt.Sprintf("%s to %s", r.CycleStart, r.CycleEnd))
	status := subtleStyle.Render(string(r.Status))
	if r.Finalized() {
		status = overStyle.Render("finalized (read-only)")
	}
	return title + "  " + span + "  " + status
}

// renderColumns renders the seven day columns side by side
func (m Model) renderColumns() string {
	colWidth := m.Width/len(m.Bundle.Days) - 4
	if colWidth < 10 {
		colWidth = 10
	}
	colHeight := m.Height - 6

	cols := make([]string, 0, len(m.Bundle.Days))
	for i := range m.Bundle.Days {
		cols = append(cols, m.renderColumn(i, colWidth, colHeight))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) renderColumn(dayIdx, width, height int) string {
	d := &m.Bundle.Days[dayIdx]
	isActive := dayIdx == m.DayIdx

	var content strings.Builder
	title := fmt.Sprintf("%s %s", d.Date.Weekday().String()[:3], d.Date.Format("01-02"))
	content.WriteString(columnTitleStyle.Render(ansi.Truncate(title, width, "…")))
	content.WriteString("\n")

	capacity := m.renderCapacity(d)
	content.WriteString(ansi.Truncate(capacity, width, "…"))
	content.WriteString("\n\n")

	tasks := m.visibleTasks(dayIdx)
	if len(tasks) == 0 {
		content.WriteString(subtleStyle.Render("-"))
		content.WriteString("\n")
	}
	for rowIdx, t := range tasks {
		line := formatStatusSymbol(t.Status) + " " + taskLabel(t)
		line = ansi.Truncate(line, width, "…")
		if isActive && rowIdx == m.TaskIdx {
			line = selectedRowStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		content.WriteString(line)
		content.WriteString("\n")
	}

	style := columnStyle
	if isActive {
		style = activeColumnStyle
	}
	return style.Width(width + 2).Height(height).Render(content.String())
}

// renderCapacity summarizes planned vs available minutes for a day
func (m Model) renderCapacity(d *models.Day) string {
	if d.AvailableMinutes == nil {
		return subtleStyle.Render(fmt.Sprintf("%dm planned", d.PlannedMinutes))
	}
	s := fmt.Sprintf("%dm/%dm", d.PlannedMinutes, *d.AvailableMinutes)
	if d.PlannedMinutes > *d.AvailableMinutes {
		return overStyle.Render(s + " over")
	}
	return subtleStyle.Render(s)
}

func taskLabel(t *models.Task) string {
	if t.EstimatedMinutes > 0 {
		return fmt.Sprintf("%s (%dm)", t.Title, t.EstimatedMinutes)
	}
	return t.Title
}

func (m Model) renderFooter() string {
	if m.Filtering {
		return "filter: " + m.Filter.View()
	}

	var parts []string
	if v := m.Filter.Value(); v != "" {
		parts = append(parts, fmt.Sprintf("filter: %q", v))
	}
	if m.StatusLine != "" {
		parts = append(parts, m.StatusLine)
	}
	parts = append(parts, helpStyle.Render("h/l:day j/k:task t/s/d/x:status /:filter r:refresh ?:help q:quit"))
	return strings.Join(parts, "  ")
}

func (m Model) renderHelp() string {
	help := `wr board keys

  h, left / l, right, tab   switch day column
  j, down / k, up           move task cursor
  t                         mark task todo
  s                         mark task doing
  d                         mark task done
  x                         drop task
  /                         filter tasks by title (esc clears)
  r                         reload from disk
  ?                         toggle this help
  q, ctrl+c                 quit
`
	return help
}
