package api

import (
	"os"
	"time"
)

// Config holds the server configuration, loaded from environment variables.
type Config struct {
	ListenAddr      string
	BaseDir         string // directory holding .wr/
	ShutdownTimeout time.Duration
	LogFormat       string // "json" (default) or "text"
	LogLevel        string // "debug", "info" (default), "warn", "error"
	PDFCommand      string // external markdown-to-pdf converter, "" = disabled
}

// LoadConfig reads configuration from environment variables with sensible defaults.
func LoadConfig() Config {
	cfg := Config{
		ListenAddr:      ":8080",
		BaseDir:         ".",
		ShutdownTimeout: 30 * time.Second,
		LogFormat:       "json",
		LogLevel:        "info",
	}

	if v := os.Getenv("WR_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("WR_BASE_DIR"); v != "" {
		cfg.BaseDir = v
	}
	if v := os.Getenv("WR_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ShutdownTimeout = d
		}
	}
	if v := os.Getenv("WR_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("WR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("WR_PDF_COMMAND"); v != "" {
		cfg.PDFCommand = v
	}

	return cfg
}
