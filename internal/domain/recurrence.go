package domain

import (
	"time"
)

// RecurrenceRule describes how an occasion repeats.
//
// The rule is anchored at StartDate: an occurrence qualifies only if the
// number of whole frequency units between StartDate and the occurrence is an
// exact multiple of Interval. Time-of-day on StartDate and Until is ignored;
// rules operate on calendar days.
type RecurrenceRule struct {
	Frequency Frequency
	Interval  int // repeat every N units of Frequency, >= 1

	// ByWeekday restricts weekly rules to specific days (e.g. Sunday and
	// Wednesday). nil means "same weekday as StartDate". A non-nil empty set
	// is degenerate and never matches.
	ByWeekday []time.Weekday

	// StartDate anchors the pattern's phase. Occurrences never fall before it.
	StartDate time.Time

	// Until, when set, excludes occurrences at or after this date.
	Until *time.Time

	// Count, when set, caps the total number of occurrences counted from
	// StartDate. Callers drive generation by either a window or a count, never
	// both in the same call.
	Count *int
}

// Validate checks the rule's structural invariants.
func (r *RecurrenceRule) Validate() error {
	if _, err := NewFrequency(string(r.Frequency)); err != nil {
		return err
	}
	if r.Interval < 1 {
		return ErrInvalidInterval
	}
	if len(r.ByWeekday) > 0 && r.Frequency != FrequencyWeekly {
		return ErrWeekdaysRequireWeekly
	}
	if r.StartDate.IsZero() {
		return ErrMissingStartDate
	}
	return nil
}

// Occasion is a named, possibly-recurring event template (e.g. "Sunday
// Service") under which concrete dated sessions are created.
type Occasion struct {
	ID   string
	Name string

	// Recurrence is nil for one-off occasions; sessions for those are created
	// from manually enumerated dates instead of a rule.
	Recurrence *RecurrenceRule

	CreatedAt time.Time
	UpdatedAt time.Time

	// Optimistic locking version for concurrent update protection
	Version int
}

// IsRecurring reports whether sessions for this occasion are rule-derived.
func (o *Occasion) IsRecurring() bool {
	return o.Recurrence != nil
}
