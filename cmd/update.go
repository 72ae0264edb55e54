package cmd

import (
	"fmt"

	"github.com/marcus/wr/internal/bundle"
	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/models"
	"github.com/marcus/wr/internal/output"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:     "update <task-id>",
	Aliases: []string{"edit"},
	Short:   "Update fields on an existing task",
	Long: `Updates one or more fields on a task of the active draft week.

Examples:
  wr update tk-abc123 --title "Ship the launch post"
  wr update tk-abc123 --est 120 --priority 1
  wr update tk-abc123 --day fri          # move the task to Friday
  wr update tk-abc123 --clear-priority`,
	GroupID: "plan",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		jsonOutput, _ := cmd.Flags().GetBool("json")

		if err := ValidateTaskIDs(args, "update <task-id>"); err != nil {
			output.Error("%v", err)
			return err
		}

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

		patch := bundle.TaskPatch{}
		if title, _ := cmd.Flags().GetString("title"); title != "" {
			patch.Title = strPtr(title)
		}
		if cmd.Flags().Changed("est") {
			est, _ := cmd.Flags().GetInt("est")
			patch.EstimatedMinutes = intPtr(est)
		}
		if cmd.Flags().Changed("priority") {
			p, _ := cmd.Flags().GetInt("priority")
			patch.Priority = intPtr(p)
		}
		if clear, _ := cmd.Flags().GetBool("clear-priority"); clear {
			patch.ClearPriority = true
		}
		if day, _ := cmd.Flags().GetString("day"); day != "" {
			dayID, err := resolveDayID(m.Bundle(), day)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			patch.DayID = strPtr(dayID)
		}
		if s, _ := cmd.Flags().GetString("status"); s != "" {
			status := models.NormalizeTaskStatus(s)
			if !models.IsValidTaskStatus(status) {
				output.Error("invalid status: %s (valid: todo, doing, done, dropped)", s)
				return fmt.Errorf("invalid status: %s", s)
			}
			patch.Status = &status
		}
		if cmd.Flags().Changed("tags") {
			tags, _ := cmd.Flags().GetStringSlice("tags")
			patch.ReasonTags = &tags
		}
		if cmd.Flags().Changed("note") {
			note, _ := cmd.Flags().GetString("note")
			patch.Note = strPtr(note)
		}

		task, err := m.UpdateTask(args[0], patch)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if err := saveManager(database, m); err != nil {
			output.Error("%v", err)
			return err
		}

		if jsonOutput {
			return output.JSON(task)
		}
		output.Success("Updated %s", task.ID)
		fmt.Println(output.FormatTaskShort(task))
		return nil
	},
}

func init() {
	updateCmd.Flags().String("title", "", "New title")
	updateCmd.Flags().Int("est", 0, "Estimated minutes")
	updateCmd.Flags().Int("priority", 0, "Priority (lower = higher)")
	updateCmd.Flags().Bool("clear-priority", false, "Remove the priority")
	updateCmd.Flags().String("day", "", "Move to another day (weekday or date)")
	updateCmd.Flags().String("status", "", "New status (todo, doing, done, dropped)")
	updateCmd.Flags().StringSlice("tags", nil, "Replace reason tags")
	updateCmd.Flags().String("note", "", "Replace the note")
	updateCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(updateCmd)
}
