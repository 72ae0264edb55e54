package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/output"
	"github.com/marcus/wr/internal/tui/week"
	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Interactive week board TUI",
	Long: `Launch an interactive board showing the active week, one column per day.

Key bindings:
  Tab/l/→        Next day
  Shift+Tab/h/←  Previous day
  j/k            Select task
  t/s/d/x        Mark todo / doing / done / dropped
  /              Filter tasks by title
  r              Refresh from disk
  ?              Toggle help
  q              Quit`,
	GroupID: "week",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		database, err := db.Open(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		reportID, err := activeReportID(database)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		model := week.NewModel(database, reportID)

		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running board: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
