package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/output"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:     "init",
	Short:   "Initialize a new wr project",
	Long:    `Creates the local .wr directory and SQLite database.`,
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		// Check if already initialized
		if _, err := os.Stat(db.Path(baseDir)); err == nil {
			output.Warning(".wr/ already exists")
			return nil
		}

		// Initialize database
		database, err := db.Initialize(baseDir)
		if err != nil {
			output.Error("failed to initialize database: %v", err)
			return err
		}
		defer database.Close()

		fmt.Println("INITIALIZED .wr/")

		if _, err := os.Stat(filepath.Join(baseDir, ".git")); err == nil {
			addToGitignore(filepath.Join(baseDir, ".gitignore"))
		}

		fmt.Println("Next: wr week init")
		return nil
	},
}

func addToGitignore(path string) {
	// Read existing content
	content, _ := os.ReadFile(path)
	contentStr := string(content)

	// Check if already present
	if strings.Contains(contentStr, ".wr/") {
		return
	}

	// Append to file
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	// Add newline if file doesn't end with one
	if len(contentStr) > 0 && !strings.HasSuffix(contentStr, "\n") {
		f.WriteString("\n")
	}

	f.WriteString(".wr/\n")
	fmt.Println("Added .wr/ to .gitignore")
}

func init() {
	rootCmd.AddCommand(initCmd)
}
