// Package finalize turns a live bundle into an immutable snapshot. The
// transition is all-or-nothing: validation failures leave the bundle
// untouched, and a finalized report never has stale day metrics.
package finalize

import (
	"fmt"
	"time"

	"github.com/marcus/wr/internal/bundle"
	"github.com/marcus/wr/internal/ident"
	"github.com/marcus/wr/internal/metrics"
	"github.com/marcus/wr/internal/models"
)

// SchemaVersion identifies the snapshot document format.
const SchemaVersion = "1.0"

// PDFGenerator renders a snapshot as a PDF. It is an opaque collaborator:
// it runs after the snapshot is committed and its failure never rolls the
// finalize back.
type PDFGenerator interface {
	Generate(snapshot *models.Snapshot) error
}

// Result is the outcome of a successful finalize. PDFWarning carries a
// non-fatal rendering failure; the week is closed regardless.
type Result struct {
	Snapshot   *models.Snapshot
	PDFWarning string
}

// Finalizer freezes bundles into snapshots.
type Finalizer struct {
	ids ident.Generator
	now func() time.Time
	pdf PDFGenerator
}

// Option configures a Finalizer.
type Option func(*Finalizer)

// WithIDGenerator substitutes the id generator.
func WithIDGenerator(gen ident.Generator) Option {
	return func(f *Finalizer) { f.ids = gen }
}

// WithClock substitutes the time source.
func WithClock(now func() time.Time) Option {
	return func(f *Finalizer) { f.now = now }
}

// WithPDFGenerator installs the opaque PDF collaborator.
func WithPDFGenerator(gen PDFGenerator) Option {
	return func(f *Finalizer) { f.pdf = gen }
}

// New creates a Finalizer.
func New(opts ...Option) *Finalizer {
	f := &Finalizer{
		ids: ident.NewGenerator(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FinalizeWeek validates and freezes the manager's bundle, holding the
// manager lock from validation through commit so no mutation can
// interleave. Steps: validate, recompute every day defensively, flip the
// status, deep-copy into a snapshot with closing stats, then (optionally)
// generate the PDF.
func (f *Finalizer) FinalizeWeek(m *bundle.Manager, generatePDF bool) (*Result, error) {
	var snap *models.Snapshot

	err := m.WithBundle(func(b *models.Bundle) error {
		if b.Report.Finalized() {
			return fmt.Errorf("report %s already finalized: %w", b.Report.ID, models.ErrInvalidState)
		}
		if err := models.ValidateBundle(b); err != nil {
			return err
		}

		// Never trust cached metrics at finalize time.
		metrics.Recompute(b)

		b.Report.Status = models.ReportStatusFinalized
		b.Report.UpdatedAt = models.LocalTimeOf(f.now())

		s, err := f.buildSnapshot(b)
		if err != nil {
			// Roll the status flip back; nothing else was touched.
			b.Report.Status = models.ReportStatusDraft
			return err
		}
		snap = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &Result{Snapshot: snap}
	if generatePDF && f.pdf != nil {
		if err := f.pdf.Generate(snap); err != nil {
			result.PDFWarning = fmt.Sprintf("pdf generation failed: %v", err)
		}
	}
	return result, nil
}

// FinalizeBundle freezes a raw bundle that arrived over a boundary (no
// manager involved). The caller must be its only writer.
func (f *Finalizer) FinalizeBundle(b *models.Bundle, generatePDF bool) (*Result, error) {
	return f.FinalizeWeek(bundle.NewManager(b), generatePDF)
}

func (f *Finalizer) buildSnapshot(b *models.Bundle) (*models.Snapshot, error) {
	id, err := f.ids.NewID(ident.KindSnapshot)
	if err != nil {
		return nil, err
	}
	return &models.Snapshot{
		ID:            id,
		WeekReportID:  b.Report.ID,
		SchemaVersion: SchemaVersion,
		CreatedAt:     models.LocalTimeOf(f.now()),
		Bundle:        *b.Clone(),
		Stats:         metrics.ClosingStats(b),
	}, nil
}
