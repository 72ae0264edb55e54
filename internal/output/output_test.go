package output

import (
	"strings"
	"testing"
	"time"

	"github.com/marcus/wr/internal/models"
)

// TestFormatTimeAgoJustNow tests times less than a minute ago
func TestFormatTimeAgoJustNow(t *testing.T) {
	now := time.Now()
	tests := []time.Time{
		now,
		now.Add(-30 * time.Second),
		now.Add(-59 * time.Second),
	}

	for _, tm := range tests {
		result := FormatTimeAgo(tm)
		if result != "just now" {
			t.Errorf("FormatTimeAgo(%v) = %q, want 'just now'", tm, result)
		}
	}
}

// TestFormatTimeAgoRelative tests minute/hour/day buckets
func TestFormatTimeAgoRelative(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{1 * time.Minute, "1m ago"},
		{30 * time.Minute, "30m ago"},
		{1 * time.Hour, "1h ago"},
		{23 * time.Hour, "23h ago"},
		{24 * time.Hour, "1d ago"},
		{6 * 24 * time.Hour, "6d ago"},
	}

	for _, tc := range tests {
		tm := time.Now().Add(-tc.duration - time.Second)
		result := FormatTimeAgo(tm)
		if result != tc.expected {
			t.Errorf("FormatTimeAgo(-%v) = %q, want %q", tc.duration, result, tc.expected)
		}
	}
}

// TestFormatTimeAgoOld tests times older than a week fall back to a date
func TestFormatTimeAgoOld(t *testing.T) {
	tm := time.Now().Add(-8 * 24 * time.Hour)
	result := FormatTimeAgo(tm)
	if result != tm.Format("2006-01-02") {
		t.Errorf("FormatTimeAgo(old) = %q, want date format", result)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes  int
		expected string
	}{
		{0, ""},
		{-5, ""},
		{45, "45m"},
		{60, "1h"},
		{90, "1h30m"},
		{125, "2h05m"},
		{480, "8h"},
	}
	for _, tc := range tests {
		if got := FormatMinutes(tc.minutes); got != tc.expected {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tc.minutes, got, tc.expected)
		}
	}
}

func TestFormatStatusUnknown(t *testing.T) {
	if got := FormatStatus(models.TaskStatus("bogus")); got != "bogus" {
		t.Errorf("FormatStatus(bogus) = %q", got)
	}
}

func TestFormatTaskShort(t *testing.T) {
	p := 1
	task := &models.Task{
		ID:               "tk-abc1",
		Title:            "Write importer",
		EstimatedMinutes: 90,
		Priority:         &p,
		Status:           models.TaskStatusTodo,
	}
	got := FormatTaskShort(task)
	for _, want := range []string{"tk-abc1", "p1", "Write importer", "1h30m", "todo"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatTaskShort missing %q in %q", want, got)
		}
	}
}

func TestTaskOneLinerPlain(t *testing.T) {
	task := &models.Task{ID: "tk-abc1", Title: "Fix flake", Status: models.TaskStatusDoing}
	got := TaskOneLinerPlain(task)
	if got != `tk-abc1 "Fix flake" [doing]` {
		t.Errorf("TaskOneLinerPlain = %q", got)
	}
}

func TestFormatDayLine(t *testing.T) {
	avail := 480
	day := &models.Day{
		ID:               "dy-abc1",
		Date:             models.NewDate(2024, 6, 10),
		AvailableMinutes: &avail,
		PlannedMinutes:   150,
		ScheduledMinutes: 30,
		DoneCount:        1,
		TotalCount:       2,
	}
	got := FormatDayLine(day)
	for _, want := range []string{"dy-abc1", "2024-06-10", "Mon", "2h30m", "8h", "30m", "done 1/2"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatDayLine missing %q in %q", want, got)
		}
	}
	if strings.Contains(got, "over") {
		t.Errorf("FormatDayLine flagged over-capacity at 150/480: %q", got)
	}

	day.PlannedMinutes = 500
	if got := FormatDayLine(day); !strings.Contains(got, "over") {
		t.Errorf("FormatDayLine missing over-capacity marker: %q", got)
	}
}

func TestFormatDayLineUnbounded(t *testing.T) {
	day := &models.Day{
		ID:             "dy-abc1",
		Date:           models.NewDate(2024, 6, 11),
		PlannedMinutes: 10000,
	}
	got := FormatDayLine(day)
	if strings.Contains(got, "over") {
		t.Errorf("unbounded day flagged over-capacity: %q", got)
	}
}

func TestStatusBadge(t *testing.T) {
	tests := []struct {
		status models.TaskStatus
		symbol string
	}{
		{models.TaskStatusTodo, "○"},
		{models.TaskStatusDoing, "▶"},
		{models.TaskStatusDone, "✓"},
		{models.TaskStatusDropped, "✗"},
		{models.TaskStatus("bogus"), "?"},
	}
	for _, tc := range tests {
		got := StatusBadge(tc.status)
		if !strings.Contains(got, tc.symbol) {
			t.Errorf("StatusBadge(%s) = %q, want symbol %q", tc.status, got, tc.symbol)
		}
	}
}

func TestIndentString(t *testing.T) {
	got := IndentString("a\nb", 2)
	if got != "  a\n  b" {
		t.Errorf("IndentString = %q", got)
	}
	if IndentString("", 2) != "" {
		t.Error("IndentString of empty string should be empty")
	}
}

func TestBulletList(t *testing.T) {
	got := BulletList([]string{"one", "two"}, 2)
	if len(got) != 2 || got[0] != "  - one" || got[1] != "  - two" {
		t.Errorf("BulletList = %v", got)
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	got, err := RenderMarkdownWithWidth("   \n", 80)
	if err != nil {
		t.Fatalf("RenderMarkdownWithWidth: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty render, got %q", got)
	}
}

func TestRenderMarkdownHeading(t *testing.T) {
	got, err := RenderMarkdownWithWidth("# Week 24\n\nsome text", 80)
	if err != nil {
		t.Fatalf("RenderMarkdownWithWidth: %v", err)
	}
	if !strings.Contains(got, "Week 24") {
		t.Errorf("rendered markdown missing heading text: %q", got)
	}
}
