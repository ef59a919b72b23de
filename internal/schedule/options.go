package schedule

import (
	"time"

	"github.com/parishdesk/parishdesk/internal/domain"
)

// sessionCounts maps the per-session-count presets to the number of upcoming
// occurrences to generate.
var sessionCounts = map[domain.BulkDurationOption]int{
	domain.BulkNext1Session:  1,
	domain.BulkNext2Sessions: 2,
	domain.BulkNext3Sessions: 3,
	domain.BulkNext4Sessions: 4,
	domain.BulkNext5Sessions: 5,
	domain.BulkNext6Sessions: 6,
	domain.BulkNext7Sessions: 7,
	domain.BulkNext8Sessions: 8,
}

// monthSpans maps the calendar-range presets to the number of months covered
// starting from the month after now. current_month is handled separately.
var monthSpans = map[domain.BulkDurationOption]int{
	domain.BulkNext2Months: 2,
	domain.BulkNext3Months: 3,
	domain.BulkNext4Months: 4,
	domain.BulkNext5Months: 5,
	domain.BulkNext6Months: 6,
}

// SessionCount resolves a per-session-count preset to its count.
func SessionCount(option domain.BulkDurationOption) (int, bool) {
	n, ok := sessionCounts[option]
	return n, ok
}

// OptionRange resolves a calendar-range preset to an inclusive [start, end]
// day range relative to the supplied reference instant. The reference is an
// explicit parameter so callers control the clock. custom_range and the
// count presets have no implicit range and resolve to ok=false.
func OptionRange(option domain.BulkDurationOption, now time.Time) (start, end time.Time, ok bool) {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	if option == domain.BulkCurrentMonth {
		return firstOfMonth, firstOfMonth.AddDate(0, 1, -1), true
	}

	months, ok := monthSpans[option]
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	// First day of next month through the last day of the K-th following month.
	start = firstOfMonth.AddDate(0, 1, 0)
	end = start.AddDate(0, months, -1)
	return start, end, true
}
