// Package recurring evaluates recurrence rules into concrete calendar dates.
//
// All functions are pure: they read no clock and perform no I/O. Dates are
// compared at day granularity; the time-of-day of every input is discarded.
package recurring

import (
	"slices"
	"time"

	"github.com/parishdesk/parishdesk/internal/domain"
)

// DateOnly normalizes t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the number of whole days from a to b. Both arguments
// must already be day-normalized.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// monthsBetween returns the number of whole calendar months from a to b.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// Matches reports whether date would be produced by the rule: it checks the
// frequency, interval phase, weekday set, and the StartDate/Until bounds.
// The rule's Count cap is a generation concern and is not evaluated here.
func Matches(rule domain.RecurrenceRule, date time.Time) bool {
	if rule.Interval < 1 {
		return false
	}

	d := DateOnly(date)
	anchor := DateOnly(rule.StartDate)

	// Candidates before the anchor never match, regardless of phase.
	if d.Before(anchor) {
		return false
	}
	if rule.Until != nil && !d.Before(DateOnly(*rule.Until)) {
		return false
	}

	switch rule.Frequency {
	case domain.FrequencyDaily:
		return daysBetween(anchor, d)%rule.Interval == 0

	case domain.FrequencyWeekly:
		if rule.ByWeekday != nil {
			// A present-but-empty weekday set can never match.
			if len(rule.ByWeekday) == 0 {
				return false
			}
			if !slices.Contains(rule.ByWeekday, d.Weekday()) {
				return false
			}
		} else if d.Weekday() != anchor.Weekday() {
			return false
		}
		weeks := daysBetween(anchor, d) / 7
		return weeks%rule.Interval == 0

	case domain.FrequencyMonthly:
		if d.Day() != anchor.Day() {
			return false
		}
		return monthsBetween(anchor, d)%rule.Interval == 0

	default:
		return false
	}
}
