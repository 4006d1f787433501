// Package recurrence steps through the repeat patterns a chore can carry.
package recurrence

import (
	"fmt"
	"strings"
	"time"
)

type Pattern string

const (
	Daily   Pattern = "daily"
	Weekly  Pattern = "weekly"
	Monthly Pattern = "monthly"
)

// maxSteps bounds NextAfter so a far-future cutoff cannot spin forever.
const maxSteps = 100000

// Parse accepts a pattern name in any case.
func Parse(s string) (Pattern, error) {
	switch p := Pattern(strings.ToLower(strings.TrimSpace(s))); p {
	case Daily, Weekly, Monthly:
		return p, nil
	case "":
		return "", fmt.Errorf("empty recurrence pattern")
	default:
		return "", fmt.Errorf("unknown recurrence pattern %q", s)
	}
}

// Occurrence returns the n-th repeat of anchor, where n = 0 is anchor
// itself. Monthly repeats keep anchor's day of month, clamped to the last
// day of shorter months.
func (p Pattern) Occurrence(anchor time.Time, n int) time.Time {
	switch p {
	case Daily:
		return anchor.AddDate(0, 0, n)
	case Weekly:
		return anchor.AddDate(0, 0, 7*n)
	case Monthly:
		year, month, day := anchor.Date()
		first := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, anchor.Location())
		day = min(day, daysInMonth(first.Year(), first.Month()))
		return time.Date(first.Year(), first.Month(), day,
			anchor.Hour(), anchor.Minute(), anchor.Second(), anchor.Nanosecond(), anchor.Location())
	}
	return anchor
}

// NextAfter returns the first repeat of anchor strictly after t. Anchor
// itself is returned when it is already after t.
func (p Pattern) NextAfter(anchor, t time.Time) time.Time {
	if anchor.After(t) {
		return anchor
	}
	// Jump close to t for daily and weekly so long gaps stay cheap.
	n := 1
	switch p {
	case Daily:
		n = max(1, int(t.Sub(anchor)/(24*time.Hour)))
	case Weekly:
		n = max(1, int(t.Sub(anchor)/(7*24*time.Hour)))
	}
	for ; n < maxSteps; n++ {
		if next := p.Occurrence(anchor, n); next.After(t) {
			return next
		}
	}
	return p.Occurrence(anchor, maxSteps)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
