package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestLocalTimeJSONPreservesWallClock(t *testing.T) {
	in := LocalTimeOf(time.Date(2024, time.June, 10, 9, 0, 0, 0, time.Local))
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-06-10T09:00:00"` {
		t.Errorf("wire form = %s, want local wall-clock with no timezone", data)
	}

	var out LocalTime
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Time.Equal(in.Time) {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}

func TestLocalTimeAcceptsDateOnly(t *testing.T) {
	var out LocalTime
	if err := json.Unmarshal([]byte(`"2024-06-10"`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Hour() != 0 || out.Day() != 10 {
		t.Errorf("date-only parse = %v, want midnight June 10", out)
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.June, 10)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-06-10"` {
		t.Errorf("wire form = %s", data)
	}
	var out Date
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Equal(d) {
		t.Errorf("round trip = %v, want %v", out, d)
	}
}

func TestSessionOverlaps(t *testing.T) {
	mk := func(startHour, endHour int) TaskSession {
		return TaskSession{
			StartAt: LocalTimeOf(time.Date(2024, time.June, 10, startHour, 0, 0, 0, time.Local)),
			EndAt:   LocalTimeOf(time.Date(2024, time.June, 10, endHour, 0, 0, 0, time.Local)),
		}
	}
	a := mk(9, 11)
	b := mk(10, 12)
	c := mk(11, 12) // starts exactly where a ends

	if !a.Overlaps(&b) || !b.Overlaps(&a) {
		t.Error("expected a/b overlap in both directions")
	}
	if a.Overlaps(&c) {
		t.Error("half-open intervals: [9,11) and [11,12) must not overlap")
	}
}

func TestSessionMinutes(t *testing.T) {
	s := TaskSession{
		StartAt: LocalTimeOf(time.Date(2024, time.June, 10, 9, 0, 0, 0, time.Local)),
		EndAt:   LocalTimeOf(time.Date(2024, time.June, 10, 9, 30, 30, 0, time.Local)),
	}
	if got := s.Minutes(); got != 30 {
		t.Errorf("minutes = %d, want 30 (whole minutes)", got)
	}
}

func TestBundleCloneIndependence(t *testing.T) {
	avail := 480
	done := true
	b := &Bundle{
		Report: WeekReport{
			ID:        "wr-1",
			GoalsWeek: []string{"goal"},
			Issues:    []Issue{{Problem: "p", Tags: []string{"t"}}},
		},
		Days:  []Day{{ID: "dy-1", AvailableMinutes: &avail}},
		Tasks: []Task{{ID: "tk-1", Title: "original", ReasonTags: []string{"x"}}},
		TaskSessions: []TaskSession{{
			ID: "ts-1", TaskID: "tk-1", IsCompleted: &done,
		}},
		LastWeekTasks: []Task{{ID: "tk-0", Title: "old"}},
	}

	clone := b.Clone()
	b.Report.GoalsWeek[0] = "mutated"
	b.Report.Issues[0].Tags[0] = "mutated"
	b.Tasks[0].Title = "mutated"
	b.Tasks[0].ReasonTags[0] = "mutated"
	*b.Days[0].AvailableMinutes = 0
	*b.TaskSessions[0].IsCompleted = false

	if clone.Report.GoalsWeek[0] != "goal" {
		t.Error("clone shares goals slice")
	}
	if clone.Report.Issues[0].Tags[0] != "t" {
		t.Error("clone shares issue tags")
	}
	if clone.Tasks[0].Title != "original" || clone.Tasks[0].ReasonTags[0] != "x" {
		t.Error("clone shares task storage")
	}
	if *clone.Days[0].AvailableMinutes != 480 {
		t.Error("clone shares capacity pointer")
	}
	if !*clone.TaskSessions[0].IsCompleted {
		t.Error("clone shares is_completed pointer")
	}
}

func TestBundleLookups(t *testing.T) {
	b := &Bundle{
		Days:  []Day{{ID: "dy-1"}, {ID: "dy-2"}},
		Tasks: []Task{{ID: "tk-1"}},
		TaskSessions: []TaskSession{
			{ID: "ts-1", TaskID: "tk-1"},
			{ID: "ts-2", TaskID: "tk-other"},
		},
	}
	if b.DayByID("dy-2") == nil || b.DayByID("dy-3") != nil {
		t.Error("DayByID lookup wrong")
	}
	if b.TaskByID("tk-1") == nil || b.TaskByID("tk-2") != nil {
		t.Error("TaskByID lookup wrong")
	}
	if got := len(b.SessionsForTask("tk-1")); got != 1 {
		t.Errorf("SessionsForTask = %d, want 1", got)
	}
}

func TestNormalizeTaskStatus(t *testing.T) {
	cases := map[string]TaskStatus{
		"in_progress": TaskStatusDoing,
		"wip":         TaskStatusDoing,
		"completed":   TaskStatusDone,
		"cancelled":   TaskStatusDropped,
		"todo":        TaskStatusTodo,
	}
	for in, want := range cases {
		if got := NormalizeTaskStatus(in); got != want {
			t.Errorf("NormalizeTaskStatus(%q) = %q, want %q", in, got, want)
		}
	}
}
