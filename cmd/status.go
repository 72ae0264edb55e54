package cmd

import (
	"fmt"

	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/output"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show the active week at a glance",
	GroupID: "week",
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

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return output.JSON(b)
		}

		fmt.Printf("Week %s (%s) %s\n", b.Report.WeekID, b.Report.ID,
			output.FormatReportStatus(b.Report.Status))
		fmt.Printf("Cycle: %s to %s\n\n", b.Report.CycleStart, b.Report.CycleEnd)

		for i := range b.Days {
			day := &b.Days[i]
			fmt.Println(output.FormatDayLine(day))
			for j := range b.Tasks {
				task := &b.Tasks[j]
				if task.DayID != day.ID {
					continue
				}
				fmt.Printf("  %s %s\n", output.StatusBadge(task.Status), output.TaskOneLiner(task))
			}
		}

		printWarnings(m.Warnings())
		if n := len(b.LastWeekTasks); n > 0 {
			fmt.Printf("\nCarryover candidates: %d (wr carryover list)\n", n)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(statusCmd)
}
