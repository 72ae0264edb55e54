package cmd

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/marcus/wr/internal/bundle"
	"github.com/marcus/wr/internal/config"
	"github.com/marcus/wr/internal/dateparse"
	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/metrics"
	"github.com/marcus/wr/internal/models"
	"github.com/marcus/wr/internal/output"
)

var taskIDPattern = regexp.MustCompile(`^tk-[0-9a-f]{4,20}$`)

// ValidateTaskIDs checks that every argument looks like a task id, so a
// dropped shell variable does not silently become an empty lookup.
func ValidateTaskIDs(ids []string, usage string) error {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("empty task ID\n\nUsage: wr %s", usage)
		}
		if !taskIDPattern.MatchString(id) {
			return fmt.Errorf("invalid task ID: %q (expected tk-xxxx)\n\nUsage: wr %s", id, usage)
		}
	}
	return nil
}

// activeReportID resolves the report to operate on: the configured active
// report first, then the most recent draft.
func activeReportID(database *db.DB) (string, error) {
	id, err := config.GetActiveWeekReport(database.BaseDir())
	if err == nil && id != "" {
		if _, err := database.GetWeekReport(id); err == nil {
			return id, nil
		}
	}
	id, err = database.LatestDraftReportID()
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("no draft week found (run 'wr week init' first)")
	}
	return id, nil
}

// loadManager loads the active bundle into a Manager for mutation.
func loadManager(database *db.DB) (*bundle.Manager, error) {
	reportID, err := activeReportID(database)
	if err != nil {
		return nil, err
	}
	b, err := database.LoadBundle(reportID)
	if err != nil {
		return nil, err
	}
	return bundle.NewManager(b), nil
}

// saveManager persists the manager's bundle and prints capacity warnings.
func saveManager(database *db.DB, m *bundle.Manager) error {
	if err := database.SaveBundle(m.Bundle()); err != nil {
		return err
	}
	printWarnings(m.Warnings())
	return nil
}

func printWarnings(warnings []metrics.Warning) {
	for _, w := range warnings {
		output.Warning("%s", w)
	}
}

// resolveDayID maps a day argument (weekday name, YYYY-MM-DD, today,
// tomorrow) to the matching day of the bundle.
func resolveDayID(b *models.Bundle, input string) (string, error) {
	date, err := dateparse.ParseDay(input, b.Report.CycleStart)
	if err != nil {
		return "", err
	}
	for i := range b.Days {
		if b.Days[i].Date.Equal(date) {
			return b.Days[i].ID, nil
		}
	}
	return "", fmt.Errorf("%s is outside week %s (%s to %s)",
		date, b.Report.WeekID, b.Report.CycleStart, b.Report.CycleEnd)
}

func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
