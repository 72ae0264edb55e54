package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/marcus/wr/internal/models"
)

func intPtr(v int) *int { return &v }

func localTime(day, hour, min int) models.LocalTime {
	return models.LocalTimeOf(time.Date(2024, 6, day, hour, min, 0, 0, time.Local))
}

func testSnapshot() *models.Snapshot {
	report := models.WeekReport{
		ID:         "wr-0001",
		WeekID:     "2024-W24",
		CycleStart: models.NewDate(2024, 6, 10),
		CycleEnd:   models.NewDate(2024, 6, 16),
		ReviewAt:   localTime(10, 9, 0),
		Status:     models.ReportStatusFinalized,
		GoalsWeek:  []string{"ship the importer"},
		GoodPoints: []string{"no production incidents"},
		Issues:     []models.Issue{{Problem: "late standups", Improvement: "move to 9:30"}},
	}
	b := models.Bundle{Report: report}
	for i := 0; i < 7; i++ {
		b.Days = append(b.Days, models.Day{
			ID:           "dy-000" + string(rune('1'+i)),
			WeekReportID: report.ID,
			Date:         report.CycleStart.AddDays(i),
		})
	}
	b.Days[0].AvailableMinutes = intPtr(480)
	b.Days[0].PlannedMinutes = 60
	b.Days[0].ScheduledMinutes = 45
	b.Days[0].DoneCount = 1
	b.Days[0].TotalCount = 1
	b.Tasks = []models.Task{{
		ID:               "tk-0001",
		WeekReportID:     report.ID,
		DayID:            "dy-0001",
		Title:            "Write importer",
		EstimatedMinutes: 60,
		Status:           models.TaskStatusDone,
	}}
	b.TaskSessions = []models.TaskSession{{
		ID:      "ts-0001",
		TaskID:  "tk-0001",
		StartAt: localTime(10, 10, 0),
		EndAt:   localTime(10, 10, 45),
		Note:    "first pass",
	}}
	b.LastWeekTasks = []models.Task{{
		ID:               "tk-prev1",
		Title:            "Leftover review",
		EstimatedMinutes: 45,
		Status:           models.TaskStatusTodo,
	}}
	return &models.Snapshot{
		ID:            "sn-0001",
		WeekReportID:  report.ID,
		SchemaVersion: "1.0",
		CreatedAt:     localTime(16, 17, 0),
		Bundle:        b,
		Stats: models.ClosingStats{
			TotalEstimatedMinutes: 60,
			TotalScheduledMinutes: 45,
			DayCompletion: []models.DayCompletion{
				{DayID: "dy-0001", Date: models.NewDate(2024, 6, 10), DoneCount: 1, TotalCount: 1, Rate: 1.0},
			},
			StatusCounts: map[models.TaskStatus]int{models.TaskStatusDone: 1},
		},
	}
}

func TestWriteSnapshot(t *testing.T) {
	dir := t.TempDir()
	exporter := New(dir)
	snap := testSnapshot()

	paths, err := exporter.WriteSnapshot(snap)
	if err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if paths.JSON != filepath.Join(dir, "2024-W24_snapshot.json") {
		t.Errorf("json path = %q", paths.JSON)
	}
	if paths.Markdown != filepath.Join(dir, "2024-W24_report.md") {
		t.Errorf("markdown path = %q", paths.Markdown)
	}

	data, err := os.ReadFile(paths.JSON)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var decoded models.Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded.Bundle.Report.WeekID != "2024-W24" {
		t.Errorf("decoded week_id = %q", decoded.Bundle.Report.WeekID)
	}
	if decoded.SchemaVersion != "1.0" {
		t.Errorf("decoded schema_version = %q", decoded.SchemaVersion)
	}
}

func TestWriteSnapshotCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	exporter := New(dir)
	if _, err := exporter.WriteSnapshot(testSnapshot()); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "2024-W24_report.md")); err != nil {
		t.Errorf("report not written: %v", err)
	}
}

func TestRenderReportSections(t *testing.T) {
	got := RenderReport(testSnapshot())

	for _, want := range []string{
		"# Weekly Report 2024-W24",
		"Cycle: 2024-06-10 to 2024-06-16",
		"## Goals this week",
		"- ship the importer",
		"## What went well",
		"## Issues",
		"**late standups**",
		"Improvement: move to 9:30",
		"## Carried over from last week",
		"- Leftover review (45m) [todo]",
		"## Week plan",
		"| 2024-06-10 Mon | 480m | 60m | 45m | 1/1 |",
		"### 2024-06-10 Monday",
		"- [x] Write importer (60m) [done]",
		"10:00 to 10:45 (45m) first pass",
		"## Closing stats",
		"- Estimated: 60m",
		"- Logged: 45m",
		"- done: 1",
		"| 2024-06-10 | 100% |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q\n---\n%s", want, got)
		}
	}
}

func TestRenderReportOmitsEmptySections(t *testing.T) {
	snap := testSnapshot()
	snap.Bundle.Report.GoalsMonth = nil
	snap.Bundle.Report.GoodPoints = nil
	snap.Bundle.LastWeekTasks = nil
	got := RenderReport(snap)
	if strings.Contains(got, "Goals this month") {
		t.Error("empty goals section rendered")
	}
	if strings.Contains(got, "What went well") {
		t.Error("empty good points section rendered")
	}
	if strings.Contains(got, "Carried over") {
		t.Error("empty carryover section rendered")
	}
}

func TestCommandGeneratorNoCommand(t *testing.T) {
	gen := NewCommandGenerator("", New(t.TempDir()))
	if err := gen.Generate(testSnapshot()); err == nil {
		t.Fatal("expected error with empty command")
	}
}

func TestCommandGeneratorRuns(t *testing.T) {
	// A fresh exporter dir: the generator must produce its own markdown
	// input rather than depend on an earlier snapshot export.
	dir := t.TempDir()
	exporter := New(dir)
	snap := testSnapshot()

	gen := NewCommandGenerator("cp {md} {pdf}", exporter)
	if err := gen.Generate(snap); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := os.Stat(exporter.MarkdownPath("2024-W24")); err != nil {
		t.Fatalf("markdown input not written: %v", err)
	}
	data, err := os.ReadFile(exporter.PDFPath("2024-W24"))
	if err != nil {
		t.Fatalf("read pdf output: %v", err)
	}
	if !strings.Contains(string(data), "# Weekly Report 2024-W24") {
		t.Error("pdf output does not contain report content")
	}
}

func TestCommandGeneratorFailure(t *testing.T) {
	exporter := New(t.TempDir())
	gen := NewCommandGenerator("false", exporter)
	if err := gen.Generate(testSnapshot()); err == nil {
		t.Fatal("expected error from failing command")
	}
}
