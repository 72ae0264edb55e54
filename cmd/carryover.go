package cmd

import (
	"fmt"

	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/output"
	"github.com/spf13/cobra"
)

var carryoverCmd = &cobra.Command{
	Use:     "carryover",
	Aliases: []string{"co"},
	Short:   "Manage carryover from the previous week",
	GroupID: "plan",
}

var carryoverListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List carryover candidates",
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
			return output.JSON(b.LastWeekTasks)
		}

		if len(b.LastWeekTasks) == 0 {
			output.Info("No carryover candidates")
			return nil
		}
		for i := range b.LastWeekTasks {
			t := &b.LastWeekTasks[i]
			fmt.Printf("%s %s\n", output.StatusBadge(t.Status), output.TaskOneLiner(t))
		}
		fmt.Println("\nAccept with: wr carryover accept <task-id> <day>")
		return nil
	},
}

var carryoverAcceptCmd = &cobra.Command{
	Use:   "accept <task-id> <day>",
	Short: "Accept a carryover task onto a day of this week",
	Long: `Copies an open task from last week onto a day of the active draft
week. The new task starts fresh as todo with no sessions; the previous
week is not modified.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		jsonOutput, _ := cmd.Flags().GetBool("json")

		if err := ValidateTaskIDs(args[:1], "carryover accept <task-id> <day>"); err != nil {
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

		dayID, err := resolveDayID(m.Bundle(), args[1])
		if err != nil {
			output.Error("%v", err)
			return err
		}

		task, err := m.AcceptCarryover(args[0], dayID)
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
		output.Success("Carried over as %s", task.ID)
		fmt.Println(output.FormatTaskShort(task))
		return nil
	},
}

func init() {
	carryoverListCmd.Flags().Bool("json", false, "Output as JSON")
	carryoverAcceptCmd.Flags().Bool("json", false, "Output as JSON")
	carryoverCmd.AddCommand(carryoverListCmd)
	carryoverCmd.AddCommand(carryoverAcceptCmd)
	rootCmd.AddCommand(carryoverCmd)
}
