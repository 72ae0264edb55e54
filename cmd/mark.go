package cmd

import (
	"fmt"

	"github.com/marcus/wr/internal/bundle"
	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/models"
	"github.com/marcus/wr/internal/output"
	"github.com/spf13/cobra"
)

// markStatus applies a status to one or more tasks of the active week.
func markStatus(cmd *cobra.Command, args []string, status models.TaskStatus, usage string) error {
	baseDir := getBaseDir()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if err := ValidateTaskIDs(args, usage); err != nil {
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

	var updated []*models.Task
	for _, taskID := range args {
		task, err := m.UpdateTask(taskID, bundle.TaskPatch{Status: &status})
		if err != nil {
			output.Error("%s: %v", taskID, err)
			return err
		}
		updated = append(updated, task)
	}
	if err := saveManager(database, m); err != nil {
		output.Error("%v", err)
		return err
	}

	if jsonOutput {
		return output.JSON(updated)
	}
	for _, task := range updated {
		fmt.Printf("%s %s\n", output.StatusBadge(task.Status), output.TaskOneLiner(task))
	}
	return nil
}

var startCmd = &cobra.Command{
	Use:     "start <task-id...>",
	Short:   "Mark tasks as doing",
	GroupID: "plan",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return markStatus(cmd, args, models.TaskStatusDoing, "start <task-id>")
	},
}

var doneCmd = &cobra.Command{
	Use:     "done <task-id...>",
	Short:   "Mark tasks as done",
	GroupID: "plan",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return markStatus(cmd, args, models.TaskStatusDone, "done <task-id>")
	},
}

var dropCmd = &cobra.Command{
	Use:     "drop <task-id...>",
	Short:   "Mark tasks as dropped",
	GroupID: "plan",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return markStatus(cmd, args, models.TaskStatusDropped, "drop <task-id>")
	},
}

var todoCmd = &cobra.Command{
	Use:     "todo <task-id...>",
	Short:   "Mark tasks back to todo",
	GroupID: "plan",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return markStatus(cmd, args, models.TaskStatusTodo, "todo <task-id>")
	},
}

func init() {
	for _, c := range []*cobra.Command{startCmd, doneCmd, dropCmd, todoCmd} {
		c.Flags().Bool("json", false, "Output as JSON")
		rootCmd.AddCommand(c)
	}
}
