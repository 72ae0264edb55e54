package cmd

import (
	"fmt"
	"strconv"

	"github.com/marcus/wr/internal/bundle"
	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/models"
	"github.com/marcus/wr/internal/output"
	"github.com/spf13/cobra"
)

var issueCmd = &cobra.Command{
	Use:     "issue",
	Short:   "Manage the week's issue retrospective",
	GroupID: "review",
}

var issueAddCmd = &cobra.Command{
	Use:   "add <problem>",
	Short: "Record an issue with root cause and improvement",
	Long: `Records a retrospective issue on the active draft week.

Examples:
  wr issue add "Deploy slipped a day" --cause "staging was broken" \
    --improvement "smoke test before the deploy window" --tags infra,process`,
	Args: cobra.ExactArgs(1),
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

		cause, _ := cmd.Flags().GetString("cause")
		improvement, _ := cmd.Flags().GetString("improvement")
		tags, _ := cmd.Flags().GetStringSlice("tags")

		issues := append([]models.Issue{}, m.Bundle().Report.Issues...)
		issues = append(issues, models.Issue{
			Problem:     args[0],
			RootCause:   cause,
			Improvement: improvement,
			Tags:        tags,
		})

		if err := m.EditReport(bundle.ReportPatch{Issues: &issues}); err != nil {
			output.Error("%v", err)
			return err
		}
		if err := saveManager(database, m); err != nil {
			output.Error("%v", err)
			return err
		}

		output.Success("Recorded issue #%d", len(issues))
		return nil
	},
}

var issueListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the week's issues",
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
		issues := m.Bundle().Report.Issues

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return output.JSON(issues)
		}

		if len(issues) == 0 {
			output.Info("No issues recorded")
			return nil
		}
		for i, issue := range issues {
			fmt.Printf("#%d %s\n", i+1, issue.Problem)
			if issue.RootCause != "" {
				fmt.Printf("   cause: %s\n", issue.RootCause)
			}
			if issue.Improvement != "" {
				fmt.Printf("   improvement: %s\n", issue.Improvement)
			}
			if len(issue.Tags) > 0 {
				fmt.Printf("   tags: %v\n", issue.Tags)
			}
		}
		return nil
	},
}

var issueRemoveCmd = &cobra.Command{
	Use:     "rm <number>",
	Aliases: []string{"remove"},
	Short:   "Remove an issue by its list number",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		n, err := strconv.Atoi(args[0])
		if err != nil {
			output.Error("invalid issue number %q", args[0])
			return fmt.Errorf("invalid issue number %q", args[0])
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

		issues := append([]models.Issue{}, m.Bundle().Report.Issues...)
		if n < 1 || n > len(issues) {
			output.Error("no issue #%d (have %d)", n, len(issues))
			return fmt.Errorf("no issue #%d", n)
		}
		issues = append(issues[:n-1], issues[n:]...)

		if err := m.EditReport(bundle.ReportPatch{Issues: &issues}); err != nil {
			output.Error("%v", err)
			return err
		}
		if err := saveManager(database, m); err != nil {
			output.Error("%v", err)
			return err
		}

		output.Success("Removed issue #%d", n)
		return nil
	},
}

func init() {
	issueAddCmd.Flags().String("cause", "", "Root cause")
	issueAddCmd.Flags().String("improvement", "", "Improvement to try")
	issueAddCmd.Flags().StringSlice("tags", nil, "Tags (comma-separated)")
	issueListCmd.Flags().Bool("json", false, "Output as JSON")

	issueCmd.AddCommand(issueAddCmd)
	issueCmd.AddCommand(issueListCmd)
	issueCmd.AddCommand(issueRemoveCmd)
	rootCmd.AddCommand(issueCmd)
}
