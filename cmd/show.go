package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/export"
	"github.com/marcus/wr/internal/finalize"
	"github.com/marcus/wr/internal/metrics"
	"github.com/marcus/wr/internal/models"
	"github.com/marcus/wr/internal/output"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show [report-id]",
	Aliases: []string{"view"},
	Short:   "Render the weekly report",
	Long: `Renders the weekly report as formatted markdown.

For a finalized week the stored snapshot is rendered. For a draft week a
live preview is rendered from the current bundle.

Examples:
  wr show                # active week
  wr show wr-abc123      # specific week
  wr show --raw          # plain markdown, no terminal styling`,
	GroupID: "review",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		database, err := db.Open(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		reportID := ""
		if len(args) == 1 {
			reportID = args[0]
		} else {
			reportID, err = activeReportID(database)
			if err != nil {
				// Fall back to the most recent finalized week
				if id, ferr := database.LatestFinalizedReportID(); ferr == nil && id != "" {
					reportID = id
				} else {
					output.Error("%v", err)
					return err
				}
			}
		}

		snap, err := database.LatestSnapshotForReport(reportID)
		if errors.Is(err, models.ErrNotFound) {
			// Draft week: build a live preview
			b, lerr := database.LoadBundle(reportID)
			if lerr != nil {
				output.Error("%v", lerr)
				return lerr
			}
			snap = &models.Snapshot{
				WeekReportID:  b.Report.ID,
				SchemaVersion: finalize.SchemaVersion,
				CreatedAt:     models.LocalTimeOf(time.Now()),
				Bundle:        *b,
				Stats:         metrics.ClosingStats(b),
			}
		} else if err != nil {
			output.Error("%v", err)
			return err
		}

		md := export.RenderReport(snap)

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Print(md)
			return nil
		}

		rendered, err := output.RenderMarkdown(md)
		if err != nil {
			// Styling failed; the raw markdown is still useful
			fmt.Print(md)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("raw", false, "Print plain markdown without styling")
	rootCmd.AddCommand(showCmd)
}
