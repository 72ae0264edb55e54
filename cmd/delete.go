package cmd

import (
	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/output"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "rm <task-id...>",
	Aliases: []string{"delete", "remove"},
	Short:   "Remove tasks and their sessions",
	Long: `Removes tasks from the active draft week. Logged sessions for the
task are removed with it.`,
	GroupID: "plan",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		if err := ValidateTaskIDs(args, "rm <task-id>"); err != nil {
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

		for _, taskID := range args {
			if err := m.RemoveTask(taskID); err != nil {
				output.Error("%s: %v", taskID, err)
				return err
			}
		}
		if err := saveManager(database, m); err != nil {
			output.Error("%v", err)
			return err
		}

		for _, taskID := range args {
			output.Success("Removed %s", taskID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
