package cmd

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/marcus/wr/internal/bundle"
	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/output"
	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Edit the week's goals and retrospective",
	Long: `Opens an interactive form for the narrative part of the active draft
week: goals for the week, month, and long term, plus what went well.

One entry per line. Issues are managed separately with 'wr issue'.`,
	GroupID: "review",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		database, err := db.Open(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		m, err := loadManager(database)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		b := m.Bundle()

		goalsWeek := strings.Join(b.Report.GoalsWeek, "\n")
		goalsMonth := strings.Join(b.Report.GoalsMonth, "\n")
		goalsLong := strings.Join(b.Report.GoalsLong, "\n")
		goodPoints := strings.Join(b.Report.GoodPoints, "\n")

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewText().
					Title("Goals this week").
					Value(&goalsWeek).
					Placeholder("One goal per line...").
					Lines(4),
				huh.NewText().
					Title("Goals this month").
					Value(&goalsMonth).
					Placeholder("One goal per line...").
					Lines(3),
				huh.NewText().
					Title("Long-term goals").
					Value(&goalsLong).
					Placeholder("One goal per line...").
					Lines(3),
				huh.NewText().
					Title("What went well").
					Value(&goodPoints).
					Placeholder("One point per line...").
					Lines(4),
			).Title("Review: " + b.Report.WeekID),
		)

		if err := form.Run(); err != nil {
			return err
		}

		patch := bundle.ReportPatch{}
		week := splitLines(goalsWeek)
		month := splitLines(goalsMonth)
		long := splitLines(goalsLong)
		good := splitLines(goodPoints)
		patch.GoalsWeek = &week
		patch.GoalsMonth = &month
		patch.GoalsLong = &long
		patch.GoodPoints = &good

		if err := m.EditReport(patch); err != nil {
			output.Error("%v", err)
			return err
		}
		if err := saveManager(database, m); err != nil {
			output.Error("%v", err)
			return err
		}

		output.Success("Updated review for %s", b.Report.WeekID)
		return nil
	},
}

// splitLines turns a textarea value into trimmed non-empty lines.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
