package week

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/wr/internal/models"
)

var (
	// Base colors
	primaryColor = lipgloss.Color("212")
	mutedColor   = lipgloss.Color("241")
	successColor = lipgloss.Color("42")
	warningColor = lipgloss.Color("214")
	errorColor   = lipgloss.Color("196")

	// Column styles
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeColumnStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor).
				Padding(0, 1)

	columnTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("255"))

	// Text styles
	titleStyle       = lipgloss.NewStyle().Bold(true)
	subtleStyle      = lipgloss.NewStyle().Foreground(mutedColor)
	helpStyle        = lipgloss.NewStyle().Foreground(mutedColor)
	selectedRowStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	overStyle        = lipgloss.NewStyle().Foreground(errorColor)

	// Status styles
	statusStyles = map[models.TaskStatus]lipgloss.Style{
		models.TaskStatusTodo:    lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		models.TaskStatusDoing:   lipgloss.NewStyle().Foreground(warningColor),
		models.TaskStatusDone:    lipgloss.NewStyle().Foreground(successColor),
		models.TaskStatusDropped: lipgloss.NewStyle().Foreground(mutedColor),
	}

	statusSymbols = map[models.TaskStatus]string{
		models.TaskStatusTodo:    "○",
		models.TaskStatusDoing:   "▶",
		models.TaskStatusDone:    "✓",
		models.TaskStatusDropped: "✗",
	}
)

// formatStatusSymbol renders the single-char status indicator with color
func formatStatusSymbol(s models.TaskStatus) string {
	symbol, ok := statusSymbols[s]
	if !ok {
		symbol = "?"
	}
	style, ok := statusStyles[s]
	if !ok {
		return symbol
	}
	return style.Render(symbol)
}
