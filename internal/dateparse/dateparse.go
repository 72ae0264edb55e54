// Package dateparse parses the date and timestamp strings that cross the
// CLI and HTTP boundaries. Timestamps are local wall-clock values
// (YYYY-MM-DDTHH:mm:ss); no timezone conversion happens anywhere.
package dateparse

import (
	"fmt"
	"strings"
	"time"

	"github.com/marcus/wr/internal/models"
)

// ParseLocalDateTime parses a local wall-clock timestamp. A date-only
// value is accepted and treated as midnight.
func ParseLocalDateTime(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.ParseInLocation(models.TimeLayout, input, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(models.DateLayout, input, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q (want %s)", input, models.TimeLayout)
}

// ParseDay parses a day selector for the active week. Uses the current
// time as the reference point.
//
// Supported formats:
//   - Exact dates: "2026-03-01"
//   - Weekday names: "monday", "tue", ... (the occurrence inside the cycle)
//   - Keywords: "today", "tomorrow"
//   - Offsets from cycle start: "1".."7"
func ParseDay(input string, cycleStart models.Date) (models.Date, error) {
	return ParseDayFrom(input, cycleStart, time.Now())
}

// ParseDayFrom is ParseDay with an explicit reference time, for
// deterministic tests.
func ParseDayFrom(input string, cycleStart models.Date, now time.Time) (models.Date, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return models.Date{}, fmt.Errorf("empty day input")
	}

	if t, err := time.ParseInLocation(models.DateLayout, input, time.Local); err == nil {
		return models.DateOf(t), nil
	}

	switch input {
	case "today":
		return models.DateOf(now), nil
	case "tomorrow":
		return models.DateOf(now.AddDate(0, 0, 1)), nil
	}

	// Offsets 1..7 count from cycle start.
	if len(input) == 1 && input[0] >= '1' && input[0] <= '7' {
		return cycleStart.AddDays(int(input[0] - '1')), nil
	}

	if target, ok := weekdays[input]; ok {
		offset := (int(target) - int(cycleStart.Weekday()) + 7) % 7
		return cycleStart.AddDays(offset), nil
	}

	return models.Date{}, fmt.Errorf("unrecognized day %q (use a date, weekday name, today, tomorrow, or 1-7)", input)
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}
