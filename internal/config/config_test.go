package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingReturnsEmpty(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ActiveWeekReportID != "" || cfg.OutputDir != "" {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestActiveWeekReportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if err := SetActiveWeekReport(dir, "wr-abc123"); err != nil {
		t.Fatalf("SetActiveWeekReport: %v", err)
	}
	id, err := GetActiveWeekReport(dir)
	if err != nil {
		t.Fatalf("GetActiveWeekReport: %v", err)
	}
	if id != "wr-abc123" {
		t.Errorf("id = %q", id)
	}
	if err := ClearActiveWeekReport(dir); err != nil {
		t.Fatalf("ClearActiveWeekReport: %v", err)
	}
	id, _ = GetActiveWeekReport(dir)
	if id != "" {
		t.Errorf("id after clear = %q", id)
	}
}

func TestSavePreservesOtherFields(t *testing.T) {
	dir := t.TempDir()
	if err := SetWebhook(dir, "https://example.com/hook", "s3cret"); err != nil {
		t.Fatalf("SetWebhook: %v", err)
	}
	if err := SetActiveWeekReport(dir, "wr-abc123"); err != nil {
		t.Fatalf("SetActiveWeekReport: %v", err)
	}
	url, secret, err := GetWebhook(dir)
	if err != nil {
		t.Fatalf("GetWebhook: %v", err)
	}
	if url != "https://example.com/hook" || secret != "s3cret" {
		t.Errorf("webhook = %q / %q", url, secret)
	}
}

func TestOutputDirDefaultsAndResolves(t *testing.T) {
	dir := t.TempDir()

	out, err := GetOutputDir(dir)
	if err != nil {
		t.Fatalf("GetOutputDir: %v", err)
	}
	if out != filepath.Join(dir, DefaultOutputDir) {
		t.Errorf("default output dir = %q", out)
	}

	if err := SetOutputDir(dir, "reports"); err != nil {
		t.Fatalf("SetOutputDir: %v", err)
	}
	out, err = GetOutputDir(dir)
	if err != nil {
		t.Fatalf("GetOutputDir: %v", err)
	}
	if out != filepath.Join(dir, "reports") {
		t.Errorf("relative output dir = %q", out)
	}

	if err := SetOutputDir(dir, "/tmp/wr-exports"); err != nil {
		t.Fatalf("SetOutputDir: %v", err)
	}
	out, err = GetOutputDir(dir)
	if err != nil {
		t.Fatalf("GetOutputDir: %v", err)
	}
	if out != "/tmp/wr-exports" {
		t.Errorf("absolute output dir = %q", out)
	}
}

func TestPDFCommandRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if err := SetPDFCommand(dir, "pandoc -o {pdf} {md}"); err != nil {
		t.Fatalf("SetPDFCommand: %v", err)
	}
	cmd, err := GetPDFCommand(dir)
	if err != nil {
		t.Fatalf("GetPDFCommand: %v", err)
	}
	if cmd != "pandoc -o {pdf} {md}" {
		t.Errorf("pdf command = %q", cmd)
	}
}
