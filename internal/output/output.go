// Package output provides styled terminal output helpers (success, error,
// warning, task formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/wr/internal/models"
)

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	statusStyles = map[models.TaskStatus]lipgloss.Style{
		models.TaskStatusTodo:    lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		models.TaskStatusDoing:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.TaskStatusDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.TaskStatusDropped: lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}
)

// OutputMode determines output format
type OutputMode int

const (
	ModeShort OutputMode = iota
	ModeLong
	ModeJSON
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Error codes for structured JSON output
const (
	ErrCodeNotFound         = "not_found"
	ErrCodeInvalidInput     = "invalid_input"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeInvalidState     = "invalid_state"
	ErrCodeDatabaseError    = "database_error"
	ErrCodeInternal         = "internal"
)

// JSONError outputs an error as JSON
func JSONError(code, message string) {
	fmt.Printf(`{"error":{"code":"%s","message":"%s"}}`, code, message)
	fmt.Println()
}

// JSONErrorWithDetails outputs an error as JSON with additional context
func JSONErrorWithDetails(code, message string, details map[string]interface{}) {
	errObj := map[string]interface{}{
		"code":    code,
		"message": message,
	}
	if len(details) > 0 {
		errObj["details"] = details
	}
	result := map[string]interface{}{
		"error": errObj,
	}
	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(data))
}

// FormatStatus formats a task status with color
func FormatStatus(s models.TaskStatus) string {
	style, ok := statusStyles[s]
	if !ok {
		return string(s)
	}
	return style.Render(fmt.Sprintf("[%s]", s))
}

// FormatReportStatus formats a report status with color
func FormatReportStatus(s models.ReportStatus) string {
	if s == models.ReportStatusFinalized {
		return successStyle.Render("[finalized]")
	}
	return warningStyle.Render("[draft]")
}

// FormatMinutes renders a minute count as "1h30m" / "45m" / "" for zero
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}

// FormatTaskShort formats a task in short format
func FormatTaskShort(task *models.Task) string {
	var parts []string
	parts = append(parts, titleStyle.Render(task.ID))
	if task.Priority != nil {
		parts = append(parts, subtleStyle.Render(fmt.Sprintf("p%d", *task.Priority)))
	}
	parts = append(parts, task.Title)
	if est := FormatMinutes(task.EstimatedMinutes); est != "" {
		parts = append(parts, subtleStyle.Render(est))
	}
	parts = append(parts, FormatStatus(task.Status))
	return strings.Join(parts, "  ")
}

// FormatDayLine formats a day's capacity summary
// e.g., "dy-abc1  2024-06-10 Mon  planned 2h30m / 8h  done 1/3"
func FormatDayLine(day *models.Day) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(day.ID))
	sb.WriteString("  ")
	sb.WriteString(day.Date.String())
	sb.WriteString(" ")
	sb.WriteString(day.Date.Time.Weekday().String()[:3])

	planned := FormatMinutes(day.PlannedMinutes)
	if planned == "" {
		planned = "0m"
	}
	sb.WriteString("  planned " + planned)
	if day.AvailableMinutes != nil {
		sb.WriteString(" / " + FormatMinutes(*day.AvailableMinutes))
		if day.PlannedMinutes > *day.AvailableMinutes {
			sb.WriteString(" " + warningStyle.Render("over"))
		}
	}
	if sched := FormatMinutes(day.ScheduledMinutes); sched != "" {
		sb.WriteString("  logged " + sched)
	}
	sb.WriteString(fmt.Sprintf("  done %d/%d", day.DoneCount, day.TotalCount))
	return sb.String()
}

// TaskOneLiner returns a concise single-line task representation
// Format: "tk-abc1 \"Title\" [status]"
func TaskOneLiner(task *models.Task) string {
	return fmt.Sprintf("%s \"%s\" %s", task.ID, task.Title, FormatStatus(task.Status))
}

// TaskOneLinerPlain returns task one-liner without status styling (for text contexts)
func TaskOneLinerPlain(task *models.Task) string {
	return fmt.Sprintf("%s \"%s\" [%s]", task.ID, task.Title, task.Status)
}

// StatusBadge returns a status indicator with symbol
// e.g., "○ todo", "▶ doing", "✓ done", "✗ dropped"
func StatusBadge(status models.TaskStatus) string {
	symbols := map[models.TaskStatus]string{
		models.TaskStatusTodo:    "○",
		models.TaskStatusDoing:   "▶",
		models.TaskStatusDone:    "✓",
		models.TaskStatusDropped: "✗",
	}
	symbol, ok := symbols[status]
	if !ok {
		symbol = "?"
	}
	style, hasStyle := statusStyles[status]
	if hasStyle {
		return style.Render(fmt.Sprintf("%s %s", symbol, status))
	}
	return fmt.Sprintf("%s %s", symbol, status)
}

// FormatTimeAgo formats a time as a human-readable "ago" string
func FormatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		return t.Format("2006-01-02")
	}
}

// SectionHeader returns a formatted section header for CLI output
// e.g., "\nDAYS:\n"
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}

// IndentLines indents each line by the specified number of spaces
func IndentLines(lines []string, spaces int) []string {
	indent := strings.Repeat(" ", spaces)
	result := make([]string, len(lines))
	for i, line := range lines {
		result[i] = indent + line
	}
	return result
}

// IndentString indents each line in a string by the specified number of spaces
func IndentString(s string, spaces int) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	indented := IndentLines(lines, spaces)
	return strings.Join(indented, "\n")
}

// BulletList formats items as a bulleted list with optional indentation
func BulletList(items []string, indent int) []string {
	prefix := strings.Repeat(" ", indent)
	result := make([]string, len(items))
	for i, item := range items {
		result[i] = prefix + "- " + item
	}
	return result
}
