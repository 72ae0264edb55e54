// Package metrics derives per-day capacity numbers from tasks and sessions.
// Recomputation is always from scratch so the derived fields can never
// drift from their source entities.
package metrics

import (
	"fmt"

	"github.com/marcus/wr/internal/models"
)

// Recompute rewrites the derived fields of every Day in the bundle from
// the current tasks and sessions in a single pass. Idempotent.
func Recompute(b *models.Bundle) {
	tasksByDay := make(map[string][]*models.Task)
	for i := range b.Tasks {
		t := &b.Tasks[i]
		tasksByDay[t.DayID] = append(tasksByDay[t.DayID], t)
	}
	minutesByTask := make(map[string]int)
	for i := range b.TaskSessions {
		s := &b.TaskSessions[i]
		minutesByTask[s.TaskID] += s.Minutes()
	}

	for i := range b.Days {
		day := &b.Days[i]
		planned, scheduled, done, total := 0, 0, 0, 0
		for _, t := range tasksByDay[day.ID] {
			scheduled += minutesByTask[t.ID]
			if t.Status == models.TaskStatusDropped {
				continue
			}
			planned += t.EstimatedMinutes
			total++
			if t.Status == models.TaskStatusDone {
				done++
			}
		}
		day.PlannedMinutes = planned
		day.ScheduledMinutes = scheduled
		day.DoneCount = done
		day.TotalCount = total
	}
}

// Warning flags a day whose planned minutes exceed its capacity. Over
// capacity is not an error; callers decide whether to surface it.
type Warning struct {
	DayID            string
	Date             models.Date
	PlannedMinutes   int
	AvailableMinutes int
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: planned %dm exceeds capacity %dm", w.Date, w.PlannedMinutes, w.AvailableMinutes)
}

// OverCapacity returns a warning for each day with bounded capacity whose
// planned minutes exceed it. Days with nil capacity are unbounded.
func OverCapacity(b *models.Bundle) []Warning {
	var out []Warning
	for i := range b.Days {
		day := &b.Days[i]
		if day.AvailableMinutes == nil {
			continue
		}
		if day.PlannedMinutes > *day.AvailableMinutes {
			out = append(out, Warning{
				DayID:            day.ID,
				Date:             day.Date,
				PlannedMinutes:   day.PlannedMinutes,
				AvailableMinutes: *day.AvailableMinutes,
			})
		}
	}
	return out
}

// ClosingStats computes the snapshot summary for a bundle whose day
// metrics are current: week totals, per-day completion rates and
// per-status task counts.
func ClosingStats(b *models.Bundle) models.ClosingStats {
	stats := models.ClosingStats{
		StatusCounts: map[models.TaskStatus]int{
			models.TaskStatusTodo:    0,
			models.TaskStatusDoing:   0,
			models.TaskStatusDone:    0,
			models.TaskStatusDropped: 0,
		},
	}
	for i := range b.Tasks {
		t := &b.Tasks[i]
		stats.StatusCounts[t.Status]++
		if t.Status != models.TaskStatusDropped {
			stats.TotalEstimatedMinutes += t.EstimatedMinutes
		}
	}
	for i := range b.TaskSessions {
		stats.TotalScheduledMinutes += b.TaskSessions[i].Minutes()
	}
	for i := range b.Days {
		day := &b.Days[i]
		rate := 0.0
		if day.TotalCount > 0 {
			rate = float64(day.DoneCount) / float64(day.TotalCount)
		}
		stats.DayCompletion = append(stats.DayCompletion, models.DayCompletion{
			DayID:      day.ID,
			Date:       day.Date,
			DoneCount:  day.DoneCount,
			TotalCount: day.TotalCount,
			Rate:       rate,
		})
	}
	return stats
}
