package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marcus/wr/internal/models"
)

// RenderReport builds the markdown report for a snapshot. The layout is
// stable so diffs between weeks stay readable.
func RenderReport(snap *models.Snapshot) string {
	b := &snap.Bundle
	r := &b.Report

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Weekly Report %s\n\n", r.WeekID)
	fmt.Fprintf(&sb, "- Cycle: %s to %s\n", r.CycleStart, r.CycleEnd)
	fmt.Fprintf(&sb, "- Reviewed: %s\n", r.ReviewAt)
	fmt.Fprintf(&sb, "- Status: %s\n", r.Status)
	fmt.Fprintf(&sb, "- Snapshot: %s (schema %s)\n", snap.ID, snap.SchemaVersion)

	writeGoals(&sb, "Goals this week", r.GoalsWeek)
	writeGoals(&sb, "Goals this month", r.GoalsMonth)
	writeGoals(&sb, "Long-term goals", r.GoalsLong)

	if len(r.GoodPoints) > 0 {
		sb.WriteString("\n## What went well\n\n")
		for _, p := range r.GoodPoints {
			fmt.Fprintf(&sb, "- %s\n", p)
		}
	}

	if len(r.Issues) > 0 {
		sb.WriteString("\n## Issues\n\n")
		for _, issue := range r.Issues {
			fmt.Fprintf(&sb, "- **%s**\n", issue.Problem)
			if issue.RootCause != "" {
				fmt.Fprintf(&sb, "  - Root cause: %s\n", issue.RootCause)
			}
			if issue.Improvement != "" {
				fmt.Fprintf(&sb, "  - Improvement: %s\n", issue.Improvement)
			}
			if len(issue.Tags) > 0 {
				fmt.Fprintf(&sb, "  - Tags: %s\n", strings.Join(issue.Tags, ", "))
			}
		}
	}

	if len(b.LastWeekTasks) > 0 {
		sb.WriteString("\n## Carried over from last week\n\n")
		for i := range b.LastWeekTasks {
			t := &b.LastWeekTasks[i]
			fmt.Fprintf(&sb, "- %s (%dm) [%s]\n", t.Title, t.EstimatedMinutes, t.Status)
		}
	}

	sb.WriteString("\n## Week plan\n\n")
	sb.WriteString("| Date | Capacity | Planned | Logged | Done |\n")
	sb.WriteString("|------|----------|---------|--------|------|\n")
	for i := range b.Days {
		d := &b.Days[i]
		capacity := "-"
		if d.AvailableMinutes != nil {
			capacity = fmt.Sprintf("%dm", *d.AvailableMinutes)
		}
		fmt.Fprintf(&sb, "| %s %s | %s | %dm | %dm | %d/%d |\n",
			d.Date, d.Date.Weekday().String()[:3], capacity,
			d.PlannedMinutes, d.ScheduledMinutes, d.DoneCount, d.TotalCount)
	}

	tasksByDay := make(map[string][]*models.Task)
	for i := range b.Tasks {
		t := &b.Tasks[i]
		tasksByDay[t.DayID] = append(tasksByDay[t.DayID], t)
	}
	for i := range b.Days {
		d := &b.Days[i]
		tasks := tasksByDay[d.ID]
		if len(tasks) == 0 {
			continue
		}
		sort.SliceStable(tasks, func(i, j int) bool {
			pi, pj := taskPriority(tasks[i]), taskPriority(tasks[j])
			return pi < pj
		})
		fmt.Fprintf(&sb, "\n### %s %s\n\n", d.Date, d.Date.Weekday())
		for _, t := range tasks {
			mark := " "
			if t.Status == models.TaskStatusDone {
				mark = "x"
			}
			fmt.Fprintf(&sb, "- [%s] %s (%dm) [%s]\n", mark, t.Title, t.EstimatedMinutes, t.Status)
			for _, s := range b.SessionsForTask(t.ID) {
				note := ""
				if s.Note != "" {
					note = " " + s.Note
				}
				fmt.Fprintf(&sb, "  - %s to %s (%dm)%s\n",
					s.StartAt.Format("15:04"), s.EndAt.Format("15:04"), s.Minutes(), note)
			}
		}
	}

	stats := &snap.Stats
	sb.WriteString("\n## Closing stats\n\n")
	fmt.Fprintf(&sb, "- Estimated: %dm\n", stats.TotalEstimatedMinutes)
	fmt.Fprintf(&sb, "- Logged: %dm\n", stats.TotalScheduledMinutes)
	for _, status := range []models.TaskStatus{
		models.TaskStatusTodo, models.TaskStatusDoing,
		models.TaskStatusDone, models.TaskStatusDropped,
	} {
		fmt.Fprintf(&sb, "- %s: %d\n", status, stats.StatusCounts[status])
	}
	if len(stats.DayCompletion) > 0 {
		sb.WriteString("\n| Date | Completion |\n|------|------------|\n")
		for _, dc := range stats.DayCompletion {
			fmt.Fprintf(&sb, "| %s | %.0f%% |\n", dc.Date, dc.Rate*100)
		}
	}

	return sb.String()
}

// taskPriority orders nil priority after explicit ones.
func taskPriority(t *models.Task) int {
	if t.Priority == nil {
		return 1 << 30
	}
	return *t.Priority
}

func writeGoals(sb *strings.Builder, heading string, goals []string) {
	if len(goals) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n## %s\n\n", heading)
	for _, g := range goals {
		fmt.Fprintf(sb, "- %s\n", g)
	}
}
