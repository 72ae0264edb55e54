package export

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/marcus/wr/internal/models"
)

// CommandGenerator converts the markdown report to PDF by shelling out to a
// user-configured command (pandoc, wkhtmltopdf, whatever is installed).
// The command string may use {md} and {pdf} placeholders for the input and
// output paths.
type CommandGenerator struct {
	command  string
	exporter *Exporter
}

func NewCommandGenerator(command string, exporter *Exporter) *CommandGenerator {
	return &CommandGenerator{command: command, exporter: exporter}
}

// Generate writes the markdown report and runs the converter on it. The
// markdown is written here, not borrowed from a prior export, so the
// generator works no matter when finalize invokes it.
func (g *CommandGenerator) Generate(snap *models.Snapshot) error {
	if g.command == "" {
		return fmt.Errorf("no pdf_command configured")
	}
	mdPath, err := g.exporter.WriteMarkdown(snap)
	if err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	pdfPath := g.exporter.PDFPath(snap.Bundle.Report.WeekID)

	fields := strings.Fields(g.command)
	if len(fields) == 0 {
		return fmt.Errorf("empty pdf_command")
	}
	args := make([]string, 0, len(fields)-1)
	for _, f := range fields[1:] {
		f = strings.ReplaceAll(f, "{md}", mdPath)
		f = strings.ReplaceAll(f, "{pdf}", pdfPath)
		args = append(args, f)
	}

	cmd := exec.Command(fields[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("pdf command: %s: %s", err, msg)
		}
		return fmt.Errorf("pdf command: %w", err)
	}
	return nil
}
