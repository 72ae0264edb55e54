package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/output"
	"github.com/spf13/cobra"
)

var capacityCmd = &cobra.Command{
	Use:   "capacity <day> <minutes|none>",
	Short: "Set a day's available minutes",
	Long: `Sets the available capacity for one day of the active draft week.
Use "none" to make a day unbounded.

Examples:
  wr capacity mon 480
  wr capacity 2024-06-12 240
  wr capacity sat none`,
	GroupID: "plan",
	Args:    cobra.ExactArgs(2),
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

		dayID, err := resolveDayID(m.Bundle(), args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}

		var minutes *int
		if strings.ToLower(args[1]) != "none" {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				output.Error("invalid minutes %q (use a number or none)", args[1])
				return fmt.Errorf("invalid minutes %q", args[1])
			}
			minutes = intPtr(n)
		}

		if err := m.SetDayCapacity(dayID, minutes); err != nil {
			output.Error("%v", err)
			return err
		}
		if err := saveManager(database, m); err != nil {
			output.Error("%v", err)
			return err
		}

		day := m.Bundle().DayByID(dayID)
		fmt.Println(output.FormatDayLine(day))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(capacityCmd)
}
