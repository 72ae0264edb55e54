package cmd

import (
	"fmt"

	"github.com/marcus/wr/internal/bundle"
	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/output"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:     "add <day> <title>",
	Aliases: []string{"a"},
	Short:   "Add a task to a day of the active week",
	Long: `Adds a planned task to one day of the active draft week.

The day can be a weekday name, a date, or a relative word.

Examples:
  wr add mon "Write launch post" --est 90
  wr add 2024-06-12 "Review PRs" --est 45 --priority 1
  wr add today "Fix flaky test" --est 30 --note "see CI run 8123"`,
	GroupID: "plan",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		jsonOutput, _ := cmd.Flags().GetBool("json")

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

		dayID, err := resolveDayID(m.Bundle(), args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}

		est, _ := cmd.Flags().GetInt("est")
		opts := bundle.TaskOptions{}
		if cmd.Flags().Changed("priority") {
			p, _ := cmd.Flags().GetInt("priority")
			opts.Priority = intPtr(p)
		}
		if tags, _ := cmd.Flags().GetStringSlice("tags"); len(tags) > 0 {
			opts.ReasonTags = tags
		}
		opts.Note, _ = cmd.Flags().GetString("note")

		task, err := m.AddTask(dayID, args[1], est, opts)
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
		output.Success("Added %s", task.ID)
		fmt.Println(output.FormatTaskShort(task))
		return nil
	},
}

func init() {
	addCmd.Flags().Int("est", 30, "Estimated minutes")
	addCmd.Flags().Int("priority", 0, "Priority (lower = higher)")
	addCmd.Flags().StringSlice("tags", nil, "Reason tags (comma-separated)")
	addCmd.Flags().String("note", "", "Free-form note")
	addCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(addCmd)
}
