package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"
)

const configFile = ".wr/config.json"
const lockFile = ".wr/config.json.lock"

// DefaultOutputDir is where finalize writes snapshot exports when the
// config does not override it.
const DefaultOutputDir = ".wr/exports"

// Config is the per-directory local state. It lives next to the database
// and is never synced.
type Config struct {
	ActiveWeekReportID string `json:"active_week_report_id,omitempty"`
	OutputDir          string `json:"output_dir,omitempty"`
	WebhookURL         string `json:"webhook_url,omitempty"`
	WebhookSecret      string `json:"webhook_secret,omitempty"`
	PDFCommand         string `json:"pdf_command,omitempty"`
}

// Load reads the config from disk
func Load(baseDir string) (*Config, error) {
	configPath := filepath.Join(baseDir, configFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to disk using atomic write (temp file + rename)
func Save(baseDir string, cfg *Config) error {
	configPath := filepath.Join(baseDir, configFile)

	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Atomic write: temp file in same dir, then rename
	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, configPath)
}

// withConfigLock serializes access to config.json using flock
func withConfigLock(baseDir string, fn func() error) error {
	lockPath := filepath.Join(baseDir, lockFile)

	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return err
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	return fn()
}

// SetActiveWeekReport sets the week report commands operate on by default
func SetActiveWeekReport(baseDir string, reportID string) error {
	return withConfigLock(baseDir, func() error {
		cfg, err := Load(baseDir)
		if err != nil {
			return err
		}
		cfg.ActiveWeekReportID = reportID
		return Save(baseDir, cfg)
	})
}

// GetActiveWeekReport returns the active week report ID
func GetActiveWeekReport(baseDir string) (string, error) {
	cfg, err := Load(baseDir)
	if err != nil {
		return "", err
	}
	return cfg.ActiveWeekReportID, nil
}

// ClearActiveWeekReport clears the active week report
func ClearActiveWeekReport(baseDir string) error {
	return SetActiveWeekReport(baseDir, "")
}

// GetOutputDir returns the export directory, resolved against baseDir when
// the configured value is relative.
func GetOutputDir(baseDir string) (string, error) {
	cfg, err := Load(baseDir)
	if err != nil {
		return "", err
	}
	out := cfg.OutputDir
	if out == "" {
		out = DefaultOutputDir
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(baseDir, out)
	}
	return out, nil
}

// SetOutputDir saves the export directory to config
func SetOutputDir(baseDir, outputDir string) error {
	return withConfigLock(baseDir, func() error {
		cfg, err := Load(baseDir)
		if err != nil {
			return err
		}
		cfg.OutputDir = outputDir
		return Save(baseDir, cfg)
	})
}

// GetWebhook returns the finalize webhook URL and signing secret.
func GetWebhook(baseDir string) (url, secret string, err error) {
	cfg, err := Load(baseDir)
	if err != nil {
		return "", "", err
	}
	return cfg.WebhookURL, cfg.WebhookSecret, nil
}

// SetWebhook saves the finalize webhook settings
func SetWebhook(baseDir, url, secret string) error {
	return withConfigLock(baseDir, func() error {
		cfg, err := Load(baseDir)
		if err != nil {
			return err
		}
		cfg.WebhookURL = url
		cfg.WebhookSecret = secret
		return Save(baseDir, cfg)
	})
}

// GetPDFCommand returns the external PDF converter command, if configured.
func GetPDFCommand(baseDir string) (string, error) {
	cfg, err := Load(baseDir)
	if err != nil {
		return "", err
	}
	return cfg.PDFCommand, nil
}

// SetPDFCommand saves the external PDF converter command
func SetPDFCommand(baseDir, command string) error {
	return withConfigLock(baseDir, func() error {
		cfg, err := Load(baseDir)
		if err != nil {
			return err
		}
		cfg.PDFCommand = command
		return Save(baseDir, cfg)
	})
}
