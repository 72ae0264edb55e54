package cmd

import (
	"fmt"

	"github.com/marcus/wr/internal/config"
	"github.com/marcus/wr/internal/db"
	"github.com/marcus/wr/internal/output"
	"github.com/marcus/wr/internal/webhook"
	"github.com/spf13/cobra"
)

var webhookCmd = &cobra.Command{
	Use:     "webhook",
	Short:   "Manage webhook settings",
	GroupID: "system",
}

var webhookSetCmd = &cobra.Command{
	Use:   "set <url>",
	Short: "Set the webhook URL (and optional --secret)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		url := args[0]
		secret, _ := cmd.Flags().GetString("secret")

		if !cmd.Flags().Changed("secret") {
			// Keep the existing secret when only the URL changes
			_, secret, _ = config.GetWebhook(baseDir)
		}
		if err := config.SetWebhook(baseDir, url, secret); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Printf("Webhook URL set: %s\n", url)
		if secret != "" {
			fmt.Println("HMAC secret: configured")
		}
		return nil
	},
}

var webhookRemoveCmd = &cobra.Command{
	Use:     "remove",
	Aliases: []string{"rm"},
	Short:   "Remove webhook configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		if err := config.SetWebhook(baseDir, "", ""); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Println("Webhook configuration removed.")
		return nil
	},
}

var webhookStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current webhook configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		url := webhook.GetURL(baseDir)
		if url == "" {
			fmt.Println("Webhook: not configured")
			return nil
		}
		fmt.Printf("Webhook URL: %s\n", url)
		if webhook.GetSecret(baseDir) != "" {
			fmt.Println("HMAC secret: configured")
		}
		return nil
	},
}

var webhookTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test delivery for the latest snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		url := webhook.GetURL(baseDir)
		if url == "" {
			output.Error("no webhook configured (wr webhook set <url>)")
			return fmt.Errorf("no webhook configured")
		}

		database, err := db.Open(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		reportID, err := database.LatestFinalizedReportID()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if reportID == "" {
			output.Error("no finalized week to deliver")
			return fmt.Errorf("no finalized week")
		}
		snap, err := database.LatestSnapshotForReport(reportID)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		payload := webhook.BuildFinalizedPayload(snap)
		if err := webhook.Dispatch(url, webhook.GetSecret(baseDir), payload); err != nil {
			output.Error("delivery failed: %v", err)
			return err
		}
		output.Success("Delivered %s for %s", payload.Event, payload.WeekID)
		return nil
	},
}

func init() {
	webhookSetCmd.Flags().String("secret", "", "HMAC signing secret")

	webhookCmd.AddCommand(webhookSetCmd)
	webhookCmd.AddCommand(webhookRemoveCmd)
	webhookCmd.AddCommand(webhookStatusCmd)
	webhookCmd.AddCommand(webhookTestCmd)
	rootCmd.AddCommand(webhookCmd)
}
