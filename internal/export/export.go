// Package export writes finalized snapshots to disk as JSON documents and
// human-readable markdown reports, with optional PDF conversion through an
// external command.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marcus/wr/internal/models"
)

// Paths are the files produced for one snapshot.
type Paths struct {
	JSON     string `json:"json"`
	Markdown string `json:"markdown"`
	PDF      string `json:"pdf,omitempty"`
}

// Exporter writes snapshot artifacts into a single output directory.
type Exporter struct {
	outputDir string
}

func New(outputDir string) *Exporter {
	return &Exporter{outputDir: outputDir}
}

// JSONPath returns the snapshot document path for a week.
func (e *Exporter) JSONPath(weekID string) string {
	return filepath.Join(e.outputDir, weekID+"_snapshot.json")
}

// MarkdownPath returns the markdown report path for a week.
func (e *Exporter) MarkdownPath(weekID string) string {
	return filepath.Join(e.outputDir, weekID+"_report.md")
}

// PDFPath returns the PDF report path for a week.
func (e *Exporter) PDFPath(weekID string) string {
	return filepath.Join(e.outputDir, weekID+"_report.pdf")
}

// WriteSnapshot writes the JSON document and markdown report. Files are
// written atomically so a crashed export never leaves a half document.
func (e *Exporter) WriteSnapshot(snap *models.Snapshot) (Paths, error) {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return Paths{}, fmt.Errorf("create output dir: %w", err)
	}
	weekID := snap.Bundle.Report.WeekID

	doc, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return Paths{}, fmt.Errorf("marshal snapshot: %w", err)
	}
	paths := Paths{
		JSON:     e.JSONPath(weekID),
		Markdown: e.MarkdownPath(weekID),
	}
	if err := writeFileAtomic(paths.JSON, doc); err != nil {
		return Paths{}, err
	}
	if _, err := e.WriteMarkdown(snap); err != nil {
		return Paths{}, err
	}
	return paths, nil
}

// WriteMarkdown renders and writes just the markdown report, returning its
// path. Used on its own by the PDF generator, which needs the markdown on
// disk before the full snapshot export runs.
func (e *Exporter) WriteMarkdown(snap *models.Snapshot) (string, error) {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := e.MarkdownPath(snap.Bundle.Report.WeekID)
	if err := writeFileAtomic(path, []byte(RenderReport(snap))); err != nil {
		return "", err
	}
	return path, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp")
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
	return os.Rename(tmpName, path)
}
