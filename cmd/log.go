package cmd

import (
	"fmt"
	"time"

	"github.com/marcus/wr/internal/dateparse"
	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/models"
	"github.com/marcus/wr/internal/output"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:     "log <task-id>",
	Aliases: []string{"session"},
	Short:   "Log a work session against a task",
	Long: `Logs a block of worked time against a task of the active week.

Times are local wall-clock values. Short HH:MM times are resolved against
--day (default today). Sessions for the same task must not overlap.

Examples:
  wr log tk-abc123 --from 09:00 --to 10:30
  wr log tk-abc123 --from 14:00 --to 15:00 --day tue --note "pairing"
  wr log tk-abc123 --from 09:00 --to 11:00 --done`,
	GroupID: "plan",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		jsonOutput, _ := cmd.Flags().GetBool("json")

		if err := ValidateTaskIDs(args, "log <task-id> --from HH:MM --to HH:MM"); err != nil {
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

		day := models.DateOf(time.Now())
		if v, _ := cmd.Flags().GetString("day"); v != "" {
			day, err = dateparse.ParseDay(v, m.Bundle().Report.CycleStart)
			if err != nil {
				output.Error("%v", err)
				return err
			}
		}

		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		startAt, err := parseSessionTime(from, day)
		if err != nil {
			output.Error("invalid --from: %v", err)
			return err
		}
		endAt, err := parseSessionTime(to, day)
		if err != nil {
			output.Error("invalid --to: %v", err)
			return err
		}

		note, _ := cmd.Flags().GetString("note")
		var isCompleted *bool
		if cmd.Flags().Changed("done") {
			v, _ := cmd.Flags().GetBool("done")
			isCompleted = boolPtr(v)
		}

		sess, err := m.LogSession(args[0], startAt, endAt, note, isCompleted)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if err := saveManager(database, m); err != nil {
			output.Error("%v", err)
			return err
		}

		if jsonOutput {
			return output.JSON(sess)
		}
		output.Success("Logged %s on %s (%s)", output.FormatMinutes(sess.Minutes()), args[0], sess.ID)
		if sess.Completed() {
			task := m.Bundle().TaskByID(args[0])
			fmt.Printf("%s %s\n", output.StatusBadge(task.Status), output.TaskOneLiner(task))
		}
		return nil
	},
}

// parseSessionTime accepts HH:MM (resolved against day) or a full local
// timestamp.
func parseSessionTime(input string, day models.Date) (time.Time, error) {
	if input == "" {
		return time.Time{}, fmt.Errorf("time is required")
	}
	if t, err := time.ParseInLocation("15:04", input, time.Local); err == nil {
		return time.Date(day.Year(), day.Month(), day.Day(),
			t.Hour(), t.Minute(), 0, 0, time.Local), nil
	}
	return dateparse.ParseLocalDateTime(input)
}

func init() {
	logCmd.Flags().String("from", "", "Session start (HH:MM or full timestamp)")
	logCmd.Flags().String("to", "", "Session end (HH:MM or full timestamp)")
	logCmd.Flags().String("day", "", "Day for HH:MM times (default today)")
	logCmd.Flags().String("note", "", "Session note")
	logCmd.Flags().Bool("done", false, "Mark the task done with this session")
	logCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(logCmd)
}
