package domain

import (
	"fmt"
	"time"
)

// WireTimeLayout is the ISO-8601 form sent in date_from/date_to: UTC with
// millisecond precision and a Z suffix.
const WireTimeLayout = "2006-01-02T15:04:05.000Z"

// naive layouts the backend uses for timestamps stored without a zone.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses an RFC 3339 timestamp. Timestamps without an offset
// are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// FormatWireTime renders t the way the backend expects query bounds.
func FormatWireTime(t time.Time) string {
	return t.UTC().Format(WireTimeLayout)
}

// DateRange is an inclusive [From, To] window of balance-change history.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Last24Hours is the window used by the per-account recent-change indicator.
func Last24Hours(now time.Time) DateRange {
	return DateRange{From: now.Add(-24 * time.Hour), To: now}
}

// DayRange widens [from, to] to whole days in loc: from starts at 00:00:00.000
// and to ends at 23:59:59.999.
func DayRange(from, to time.Time, loc *time.Location) DateRange {
	return DateRange{From: StartOfDay(from, loc), To: EndOfDay(to, loc)}
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the last millisecond of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
}

// Validate checks that the range is non-empty and ordered.
func (r DateRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return fmt.Errorf("both date bounds are required")
	}
	if r.To.Before(r.From) {
		return fmt.Errorf("date_to %s is before date_from %s", FormatWireTime(r.To), FormatWireTime(r.From))
	}
	return nil
}

// RangePreset is a named "last N days" shortcut of the range picker.
type RangePreset struct {
	Key  string
	Name string
	Days int
}

// RangePresets lists the shortcuts offered next to the custom range.
var RangePresets = []RangePreset{
	{Key: "7d", Name: "7 days", Days: 7},
	{Key: "14d", Name: "14 days", Days: 14},
	{Key: "30d", Name: "30 days", Days: 30},
	{Key: "90d", Name: "90 days", Days: 90},
}

// PresetByKey looks up a preset by key.
func PresetByKey(key string) (RangePreset, bool) {
	for _, p := range RangePresets {
		if p.Key == key {
			return p, true
		}
	}
	return RangePreset{}, false
}

// Range returns the preset window ending today, normalised to day bounds.
func (p RangePreset) Range(now time.Time, loc *time.Location) DateRange {
	return DayRange(now.AddDate(0, 0, -p.Days), now, loc)
}

// Today is the default detail window.
func Today(now time.Time, loc *time.Location) DateRange {
	return DayRange(now, now, loc)
}
