package cmd

import (
	"fmt"

	"github.com/marcus/wr/internal/config"
	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/export"
	"github.com/marcus/wr/internal/finalize"
	"github.com/marcus/wr/internal/models"
	"github.com/marcus/wr/internal/output"
	"github.com/marcus/wr/internal/webhook"
	"github.com/spf13/cobra"
)

var finalizeCmd = &cobra.Command{
	Use:   "finalize [report-id]",
	Short: "Finalize the week and export its snapshot",
	Long: `Validates the draft week, freezes it, and writes the snapshot exports.

After finalizing, the week is read-only: tasks, sessions, capacities, and
the report narrative can no longer change. Exports land in the configured
output directory (default .wr/exports/).

Examples:
  wr finalize              # finalize the active draft week
  wr finalize --pdf        # also run the configured pdf_command
  wr finalize wr-abc123    # finalize a specific report`,
	GroupID: "week",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		jsonOutput, _ := cmd.Flags().GetBool("json")
		generatePDF, _ := cmd.Flags().GetBool("pdf")

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
				output.Error("%v", err)
				return err
			}
		}

		b, err := database.LoadBundle(reportID)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		outputDir, err := config.GetOutputDir(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		exporter := export.New(outputDir)

		opts := []finalize.Option{}
		pdfCommand, _ := config.GetPDFCommand(baseDir)
		if pdfCommand != "" {
			opts = append(opts, finalize.WithPDFGenerator(export.NewCommandGenerator(pdfCommand, exporter)))
		} else if generatePDF {
			output.Warning("no pdf_command configured (wr config set pdf_command ...)")
			generatePDF = false
		}

		result, err := finalize.New(opts...).FinalizeBundle(b, generatePDF)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		snap := result.Snapshot

		if err := database.SaveBundle(b); err != nil {
			output.Error("%v", err)
			return err
		}
		if err := database.SaveSnapshot(snap); err != nil {
			output.Error("%v", err)
			return err
		}

		paths, err := exporter.WriteSnapshot(snap)
		if err != nil {
			output.Warning("export failed: %v", err)
		}
		if result.PDFWarning != "" {
			output.Warning("%s", result.PDFWarning)
		}

		if active, _ := config.GetActiveWeekReport(baseDir); active == b.Report.ID {
			if err := config.ClearActiveWeekReport(baseDir); err != nil {
				output.Warning("could not clear active week: %v", err)
			}
		}

		if url := webhook.GetURL(baseDir); url != "" {
			payload := webhook.BuildFinalizedPayload(snap)
			if err := webhook.Dispatch(url, webhook.GetSecret(baseDir), payload); err != nil {
				output.Warning("webhook delivery failed: %v", err)
			} else {
				output.Info("webhook delivered: %s", payload.Event)
			}
		}

		if jsonOutput {
			return output.JSON(map[string]interface{}{
				"snapshot": snap,
				"exports":  paths,
			})
		}

		output.Success("Finalized week %s (snapshot %s)", b.Report.WeekID, snap.ID)
		total := 0
		for _, n := range snap.Stats.StatusCounts {
			total += n
		}
		fmt.Printf("Tasks done: %d/%d  Estimated: %s  Logged: %s\n",
			snap.Stats.StatusCounts[models.TaskStatusDone], total,
			output.FormatMinutes(snap.Stats.TotalEstimatedMinutes),
			output.FormatMinutes(snap.Stats.TotalScheduledMinutes))
		if paths.JSON != "" {
			fmt.Printf("Exports:\n  %s\n  %s\n", paths.JSON, paths.Markdown)
			if generatePDF && result.PDFWarning == "" {
				fmt.Printf("  %s\n", paths.PDF)
			}
		}
		return nil
	},
}

func init() {
	finalizeCmd.Flags().Bool("pdf", false, "Generate a PDF via the configured pdf_command")
	finalizeCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(finalizeCmd)
}
