package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/marcus/wr/internal/bundle"
	"github.com/marcus/wr/internal/config"
	"github.com/marcus/wr/internal/export"
	"github.com/marcus/wr/internal/finalize"
	"github.com/marcus/wr/internal/models"
	"github.com/marcus/wr/internal/webhook"
)

// InitWeekRequest is the POST /v1/weeks/init body.
type InitWeekRequest struct {
	ReviewAt models.LocalTime `json:"review_at"`
}

// InitWeekResponse is a Bundle at the top level plus any capacity
// warnings.
type InitWeekResponse struct {
	*models.Bundle
	Warnings []string `json:"warnings,omitempty"`
}

// handleInitWeek starts a new review cycle, carrying goals and open tasks
// forward from the most recent finalized week.
func (s *Server) handleInitWeek(w http.ResponseWriter, r *http.Request) {
	var req InitWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid JSON body: "+err.Error())
		return
	}
	if req.ReviewAt.IsZero() {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, "review_at is required")
		return
	}

	var prev *models.Bundle
	prevID, err := s.store.LatestFinalizedReportID()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if prevID != "" {
		prev, err = s.store.LoadBundle(prevID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
	}

	m, err := bundle.InitWeek(req.ReviewAt.Time, prev)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	b := m.Bundle()

	if _, err := s.store.FindReportByWeekID(b.Report.WeekID); err == nil {
		writeError(w, http.StatusConflict, ErrCodeInvalidState,
			fmt.Sprintf("week %s already initialized", b.Report.WeekID))
		return
	} else if !errors.Is(err, models.ErrNotFound) {
		writeDomainError(w, r, err)
		return
	}

	if err := s.store.SaveBundle(b); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := config.SetActiveWeekReport(s.config.BaseDir, b.Report.ID); err != nil {
		logFor(r.Context()).Error("set active week report", "err", err)
	}

	s.metrics.RecordWeekInit()
	logFor(r.Context()).Info("week initialized", "week_id", b.Report.WeekID, "report_id", b.Report.ID)
	writeJSON(w, http.StatusCreated, InitWeekResponse{Bundle: b, Warnings: warningStrings(m)})
}

// FinalizeWeekRequest is the POST /v1/weeks/finalize body. The client
// posts back the bundle it has been mutating locally. week_report_id is a
// convenience for clients without a local copy: the stored bundle is
// finalized as-is. With neither, the most recent draft is finalized.
type FinalizeWeekRequest struct {
	Bundle       *models.Bundle `json:"bundle,omitempty"`
	WeekReportID string         `json:"week_report_id,omitempty"`
	GeneratePDF  bool           `json:"generate_pdf"`
}

// FinalizeWeekResponse carries the snapshot and any non-fatal warnings.
type FinalizeWeekResponse struct {
	Snapshot *models.Snapshot `json:"snapshot"`
	Exports  *export.Paths    `json:"exports,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

// handleFinalizeWeek freezes a draft week into an immutable snapshot.
func (s *Server) handleFinalizeWeek(w http.ResponseWriter, r *http.Request) {
	var req FinalizeWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid JSON body: "+err.Error())
		return
	}

	var b *models.Bundle
	if req.Bundle != nil {
		// The posted bundle is authoritative; the client mutated it
		// locally and this is the commit point.
		b = req.Bundle
		if b.Report.ID == "" {
			writeError(w, http.StatusBadRequest, ErrCodeInvalidInput, "bundle.week_report.id is required")
			return
		}
		if stored, err := s.store.GetWeekReport(b.Report.ID); err == nil {
			if stored.Finalized() {
				writeError(w, http.StatusConflict, ErrCodeInvalidState,
					fmt.Sprintf("report %s already finalized", b.Report.ID))
				return
			}
		} else if !errors.Is(err, models.ErrNotFound) {
			writeDomainError(w, r, err)
			return
		}
		if err := models.ValidateBundle(b); err != nil {
			writeDomainError(w, r, err)
			return
		}
	} else {
		reportID := req.WeekReportID
		if reportID == "" {
			var err error
			reportID, err = s.store.LatestDraftReportID()
			if err != nil {
				writeDomainError(w, r, err)
				return
			}
			if reportID == "" {
				writeError(w, http.StatusNotFound, ErrCodeNotFound, "no draft week report to finalize")
				return
			}
		}

		var err error
		b, err = s.store.LoadBundle(reportID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
	}

	outputDir, err := config.GetOutputDir(s.config.BaseDir)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	exporter := export.New(outputDir)

	var opts []finalize.Option
	if s.config.PDFCommand != "" {
		opts = append(opts, finalize.WithPDFGenerator(export.NewCommandGenerator(s.config.PDFCommand, exporter)))
	}
	f := finalize.New(opts...)

	result, err := f.FinalizeBundle(b, req.GeneratePDF)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := s.store.SaveBundle(b); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := s.store.SaveSnapshot(result.Snapshot); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if active, _ := config.GetActiveWeekReport(s.config.BaseDir); active == b.Report.ID {
		if err := config.ClearActiveWeekReport(s.config.BaseDir); err != nil {
			logFor(r.Context()).Warn("clear active week", "err", err)
		}
	}

	resp := FinalizeWeekResponse{Snapshot: result.Snapshot}
	if result.PDFWarning != "" {
		resp.Warnings = append(resp.Warnings, result.PDFWarning)
	}

	paths, err := exporter.WriteSnapshot(result.Snapshot)
	if err != nil {
		resp.Warnings = append(resp.Warnings, "export failed: "+err.Error())
	} else {
		resp.Exports = &paths
	}

	if url := webhook.GetURL(s.config.BaseDir); url != "" {
		secret := webhook.GetSecret(s.config.BaseDir)
		if err := webhook.Dispatch(url, secret, webhook.BuildFinalizedPayload(result.Snapshot)); err != nil {
			resp.Warnings = append(resp.Warnings, "webhook failed: "+err.Error())
		}
	}

	s.metrics.RecordWeekFinalized()
	logFor(r.Context()).Info("week finalized",
		"week_id", b.Report.WeekID,
		"report_id", b.Report.ID,
		"snapshot_id", result.Snapshot.ID,
	)
	writeJSON(w, http.StatusOK, resp)
}

// handleListWeeks returns all week reports, newest first.
func (s *Server) handleListWeeks(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListReports()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"weeks": list})
}

// handleGetWeek returns the full bundle for one report.
func (s *Server) handleGetWeek(w http.ResponseWriter, r *http.Request) {
	b, err := s.store.LoadBundle(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// handleGetSnapshot returns the latest snapshot for one report.
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.LatestSnapshotForReport(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func warningStrings(m *bundle.Manager) []string {
	var out []string
	for _, warning := range m.Warnings() {
		out = append(out, warning.String())
	}
	return out
}
