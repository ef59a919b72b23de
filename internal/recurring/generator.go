package recurring

import (
	"time"

	"github.com/parishdesk/parishdesk/internal/domain"
)

// maxScanDays is the hard ceiling on day-stepping per generation call. A rule
// whose constraints can never be satisfied (or whose matches are further out
// than this) yields fewer results than requested instead of scanning forever.
const maxScanDays = 366 * 5

// Between returns every date in [rangeStart, rangeEnd] (inclusive) that
// satisfies the rule, in ascending order with no duplicates. The rule's own
// Until and Count bounds additionally cap results even when rangeEnd is
// later. An inverted range yields an empty result, not an error.
func Between(rule domain.RecurrenceRule, rangeStart, rangeEnd time.Time) []time.Time {
	start := DateOnly(rangeStart)
	end := DateOnly(rangeEnd)
	if start.After(end) {
		return nil
	}

	anchor := DateOnly(rule.StartDate)

	// With a total-occurrence cap the scan has to walk from the anchor so
	// that matches before the window still consume the budget.
	cursor := start
	if cursor.Before(anchor) || rule.Count != nil {
		cursor = anchor
	}

	budget := -1
	if rule.Count != nil {
		budget = *rule.Count
	}

	var occurrences []time.Time
	for scanned := 0; scanned < maxScanDays && !cursor.After(end); scanned++ {
		if Matches(rule, cursor) {
			if budget == 0 {
				break
			}
			if budget > 0 {
				budget--
			}
			if !cursor.Before(start) {
				occurrences = append(occurrences, cursor)
			}
		}
		cursor = cursor.AddDate(0, 0, 1)
	}

	return occurrences
}

// Next returns the first count qualifying dates at or after from, in
// ascending order. It returns fewer than count when the rule's Until or
// Count bound runs out first, or when the scan ceiling is reached.
func Next(rule domain.RecurrenceRule, count int, from time.Time) []time.Time {
	if count <= 0 {
		return nil
	}

	lower := DateOnly(from)
	anchor := DateOnly(rule.StartDate)

	cursor := lower
	if cursor.Before(anchor) || rule.Count != nil {
		cursor = anchor
	}

	budget := -1
	if rule.Count != nil {
		budget = *rule.Count
	}

	var occurrences []time.Time
	for scanned := 0; scanned < maxScanDays && len(occurrences) < count; scanned++ {
		if rule.Until != nil && !cursor.Before(DateOnly(*rule.Until)) {
			break
		}
		if Matches(rule, cursor) {
			if budget == 0 {
				break
			}
			if budget > 0 {
				budget--
			}
			if !cursor.Before(lower) {
				occurrences = append(occurrences, cursor)
			}
		}
		cursor = cursor.AddDate(0, 0, 1)
	}

	return occurrences
}
