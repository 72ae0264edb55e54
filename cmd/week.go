package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/marcus/wr/internal/bundle"
	"github.com/marcus/wr/internal/config"
	"github.com/marcus/wr/internal/dateparse"
	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/models"
	"github.com/marcus/wr/internal/output"
	"github.com/spf13/cobra"
)

var weekCmd = &cobra.Command{
	Use:     "week",
	Short:   "Manage review weeks",
	Long:    `Initialize, list, and switch between weekly report cycles.`,
	GroupID: "week",
}

var weekInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Start a new draft week",
	Long: `Starts a new draft week anchored on the review timestamp.

The cycle runs Monday to Sunday. Open tasks from the most recent finalized
week are offered as carryover candidates.

Examples:
  wr week init                          # review happens now
  wr week init --review-at "2024-06-09T18:00:00"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		jsonOutput, _ := cmd.Flags().GetBool("json")

		database, err := db.Open(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		reviewAt := time.Now()
		if v, _ := cmd.Flags().GetString("review-at"); v != "" {
			reviewAt, err = dateparse.ParseLocalDateTime(v)
			if err != nil {
				output.Error("invalid --review-at: %v", err)
				return err
			}
		}

		// Previous finalized week feeds carryover candidates
		var prev *models.Bundle
		prevID, err := database.LatestFinalizedReportID()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if prevID != "" {
			prev, err = database.LoadBundle(prevID)
			if err != nil {
				output.Error("%v", err)
				return err
			}
		}

		m, err := bundle.InitWeek(reviewAt, prev)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		b := m.Bundle()

		if existing, err := database.FindReportByWeekID(b.Report.WeekID); err == nil {
			output.Error("week %s already initialized as %s", existing.WeekID, existing.ID)
			return fmt.Errorf("week already initialized")
		} else if !errors.Is(err, models.ErrNotFound) {
			output.Error("%v", err)
			return err
		}

		if err := database.SaveBundle(b); err != nil {
			output.Error("%v", err)
			return err
		}
		if err := config.SetActiveWeekReport(baseDir, b.Report.ID); err != nil {
			output.Warning("could not set active week: %v", err)
		}

		if jsonOutput {
			return output.JSON(b)
		}

		output.Success("Initialized week %s (%s)", b.Report.WeekID, b.Report.ID)
		fmt.Printf("Cycle: %s to %s\n", b.Report.CycleStart, b.Report.CycleEnd)
		if len(b.LastWeekTasks) > 0 {
			fmt.Printf("Carryover candidates: %d (wr carryover list)\n", len(b.LastWeekTasks))
		}
		return nil
	},
}

var weekListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all weeks",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		database, err := db.Open(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		reports, err := database.ListReports()
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return output.JSON(reports)
		}

		if len(reports) == 0 {
			output.Info("No weeks found")
			return nil
		}

		activeID, _ := config.GetActiveWeekReport(baseDir)
		for _, r := range reports {
			marker := " "
			if r.ID == activeID {
				marker = "*"
			}
			fmt.Printf("%s %s  %s  %s to %s  %s  %d tasks\n",
				marker, r.ID, r.WeekID, r.CycleStart, r.CycleEnd,
				output.FormatReportStatus(r.Status), r.TaskCount)
		}
		return nil
	},
}

var weekUseCmd = &cobra.Command{
	Use:   "use <report-id>",
	Short: "Switch the active week",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		database, err := db.Open(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		report, err := database.GetWeekReport(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if err := config.SetActiveWeekReport(baseDir, report.ID); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Active week: %s (%s)", report.WeekID, report.ID)
		return nil
	},
}

func init() {
	weekInitCmd.Flags().String("review-at", "", "Review timestamp (YYYY-MM-DDTHH:MM:SS, default now)")
	weekInitCmd.Flags().Bool("json", false, "Output as JSON")
	weekListCmd.Flags().Bool("json", false, "Output as JSON")

	weekCmd.AddCommand(weekInitCmd)
	weekCmd.AddCommand(weekListCmd)
	weekCmd.AddCommand(weekUseCmd)
	rootCmd.AddCommand(weekCmd)
}
