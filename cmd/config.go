package cmd

import (
	"fmt"
	"strings"

	"github.com/marcus/wr/internal/config"
	"github.com/marcus/wr/internal/output"
	"github.com/spf13/cobra"
)

// validConfigKeys lists the supported config keys for set/get.
var validConfigKeys = []string{
	"output_dir",
	"pdf_command",
}

func isValidConfigKey(key string) bool {
	for _, k := range validConfigKeys {
		if k == key {
			return true
		}
	}
	return false
}

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage wr configuration",
	GroupID: "system",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		key, val := args[0], args[1]

		if !isValidConfigKey(key) {
			output.Error("unknown config key: %s", key)
			fmt.Println("Valid keys:", strings.Join(validConfigKeys, ", "))
			return fmt.Errorf("unknown config key: %s", key)
		}

		var err error
		switch key {
		case "output_dir":
			err = config.SetOutputDir(baseDir, val)
		case "pdf_command":
			err = config.SetPDFCommand(baseDir, val)
		}
		if err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("%s = %s", key, val)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show config values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		cfg, err := config.Load(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if len(args) == 1 {
			switch args[0] {
			case "output_dir":
				dir, _ := config.GetOutputDir(baseDir)
				fmt.Println(dir)
			case "pdf_command":
				fmt.Println(cfg.PDFCommand)
			default:
				output.Error("unknown config key: %s", args[0])
				return fmt.Errorf("unknown config key: %s", args[0])
			}
			return nil
		}

		dir, _ := config.GetOutputDir(baseDir)
		fmt.Printf("output_dir = %s\n", dir)
		fmt.Printf("pdf_command = %s\n", cfg.PDFCommand)
		if cfg.ActiveWeekReportID != "" {
			fmt.Printf("active_week = %s\n", cfg.ActiveWeekReportID)
		}
		if cfg.WebhookURL != "" {
			fmt.Printf("webhook_url = %s\n", cfg.WebhookURL)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}
