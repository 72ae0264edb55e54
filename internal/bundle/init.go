package bundle

import (
	"fmt"
	"time"

	"github.com/marcus/wr/internal/ident"
	"github.com/marcus/wr/internal/models"
)

// InitWeek builds a fresh draft bundle for the week reviewed at reviewAt.
//
// Week policy: a cycle runs Monday through Sunday. The cycle being planned
// starts on the Monday on or after reviewAt's date, so a Monday review
// opens that same week and the reviewed week is the one ending the Sunday
// before. Open tasks (todo/doing) of the previous finalized report are
// offered as carryover candidates in LastWeekTasks; they are not inserted
// into Tasks, the caller accepts them individually. Week goals carry
// forward from the previous report.
func InitWeek(reviewAt time.Time, prev *models.Bundle, opts ...Option) (*Manager, error) {
	cfg := &Manager{ids: ident.NewGenerator(), now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}

	if reviewAt.IsZero() {
		return nil, fmt.Errorf("review_at is required: %w", models.ErrInvalidInput)
	}

	cycleStart := mondayOnOrAfter(models.DateOf(reviewAt))
	cycleEnd := cycleStart.AddDays(6)

	reportID, err := cfg.ids.NewID(ident.KindWeekReport)
	if err != nil {
		return nil, err
	}
	now := models.LocalTimeOf(cfg.now())
	report := models.WeekReport{
		ID:         reportID,
		WeekID:     WeekID(cycleStart),
		CycleStart: cycleStart,
		CycleEnd:   cycleEnd,
		ReviewAt:   models.LocalTimeOf(reviewAt),
		Status:     models.ReportStatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	b := &models.Bundle{Report: report}

	if prev != nil && prev.Report.Finalized() {
		b.Report.PrevWeekReportID = prev.Report.ID
		b.Report.GoalsWeek = append([]string(nil), prev.Report.GoalsWeek...)
		b.Report.GoalsMonth = append([]string(nil), prev.Report.GoalsMonth...)
		b.Report.GoalsLong = append([]string(nil), prev.Report.GoalsLong...)
		for i := range prev.Tasks {
			t := prev.Tasks[i]
			if t.Open() {
				t.ReasonTags = append([]string(nil), t.ReasonTags...)
				if t.Priority != nil {
					v := *t.Priority
					t.Priority = &v
				}
				b.LastWeekTasks = append(b.LastWeekTasks, t)
			}
		}
	}

	for offset := 0; offset < 7; offset++ {
		dayID, err := cfg.ids.NewID(ident.KindDay)
		if err != nil {
			return nil, err
		}
		b.Days = append(b.Days, models.Day{
			ID:           dayID,
			WeekReportID: reportID,
			Date:         cycleStart.AddDays(offset),
		})
	}

	cfg.b = b
	return cfg, nil
}

// WeekID formats a date's ISO year-week key, e.g. "2024-W24".
func WeekID(d models.Date) string {
	year, week := d.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// mondayOnOrAfter returns d if it is a Monday, otherwise the next Monday.
func mondayOnOrAfter(d models.Date) models.Date {
	offset := (int(time.Monday) - int(d.Weekday()) + 7) % 7
	return d.AddDays(offset)
}
