// Package webhook handles webhook configuration and HTTP dispatch.
package webhook

import (
	"os"

	"github.com/marcus/wr/internal/config"
)

// GetURL returns the webhook URL for the project.
// Priority: WR_WEBHOOK_URL env > config.json webhook_url.
func GetURL(baseDir string) string {
	if v := os.Getenv("WR_WEBHOOK_URL"); v != "" {
		return v
	}
	cfg, err := config.Load(baseDir)
	if err != nil {
		return ""
	}
	return cfg.WebhookURL
}

// GetSecret returns the webhook HMAC secret.
// Priority: WR_WEBHOOK_SECRET env > config.json webhook_secret.
func GetSecret(baseDir string) string {
	if v := os.Getenv("WR_WEBHOOK_SECRET"); v != "" {
		return v
	}
	cfg, err := config.Load(baseDir)
	if err != nil {
		return ""
	}
	return cfg.WebhookSecret
}

// IsEnabled returns true if a webhook URL is configured.
func IsEnabled(baseDir string) bool {
	return GetURL(baseDir) != ""
}
