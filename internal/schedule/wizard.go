package schedule

import (
	"sort"
	"strings"
	"time"

	"github.com/parishdesk/parishdesk/internal/domain"
	"github.com/parishdesk/parishdesk/internal/recurring"
)

// Mode selects how target dates are chosen in a generation run.
type Mode string

const (
	// ModeSingle creates one session for an explicitly chosen date.
	ModeSingle Mode = "single"

	// ModeBulk creates sessions for a resolved set of dates: rule-derived for
	// recurring occasions, manually enumerated otherwise.
	ModeBulk Mode = "bulk"
)

// Validation messages surfaced inline near the date-selection step.
const (
	msgOccasionRequired  = "Select an occasion."
	msgDateRequired      = "Select a date."
	msgDateOutOfPattern  = "Selected date does not match the occasion's schedule."
	msgManualDatesNeeded = "Add at least one date for bulk creation."
	msgCustomRangeNeeded = "Select a start and end date for the custom range."
	msgNoMatchingDates   = "No dates match the occasion's schedule in the selected period."
)

// GenerateRequest describes one generation run of the wizard.
type GenerateRequest struct {
	Occasion *domain.Occasion
	Mode     Mode

	// Single mode: the chosen date.
	Date *time.Time

	// Bulk mode, non-recurring occasion: manually enumerated dates.
	ManualDates []time.Time

	// Bulk mode, recurring occasion: preset plus optional custom bounds.
	Option      domain.BulkDurationOption
	CustomStart *time.Time
	CustomEnd   *time.Time

	// Shared session attributes applied to every draft.
	Template SessionTemplate

	// Now is the reference instant for relative presets. Threaded explicitly
	// so tests can pin the clock.
	Now time.Time
}

// ValidationError carries the short descriptive messages of a rejected
// generation attempt. It is a recoverable, user-facing condition, not a
// programming error.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "generation rejected: " + strings.Join(e.Messages, "; ")
}

// Wizard owns the in-progress draft set and the conflict panel state for one
// session-creation flow. It is exclusively owned by a single caller; there is
// no concurrent editing of draft state.
type Wizard struct {
	drafts   []DraftSession
	conflict *ConflictInfo
}

// NewWizard creates an empty wizard.
func NewWizard() *Wizard {
	return &Wizard{}
}

// Generate computes target dates for the request, validates them, and on
// success replaces the entire draft set with freshly built drafts. On any
// validation failure the previous draft set is left untouched. Replacement
// discards unsaved per-draft edits; that is the intended trade-off, not a
// bug to fix with merging.
func (w *Wizard) Generate(req GenerateRequest) ([]DraftSession, error) {
	dates, err := resolveDates(req)
	if err != nil {
		return nil, err
	}

	drafts, err := BuildDrafts(req.Occasion.ID, req.Template, dates)
	if err != nil {
		return nil, err
	}

	w.drafts = drafts
	w.conflict = nil
	return w.Drafts(), nil
}

// resolveDates turns a request into the ordered list of target dates.
func resolveDates(req GenerateRequest) ([]time.Time, error) {
	if req.Occasion == nil {
		return nil, &ValidationError{Messages: []string{msgOccasionRequired}}
	}

	switch req.Mode {
	case ModeSingle:
		return resolveSingleDate(req)
	default:
		return resolveBulkDates(req)
	}
}

func resolveSingleDate(req GenerateRequest) ([]time.Time, error) {
	if req.Date == nil {
		return nil, &ValidationError{Messages: []string{msgDateRequired}}
	}
	if req.Occasion.IsRecurring() && !recurring.Matches(*req.Occasion.Recurrence, *req.Date) {
		return nil, &ValidationError{Messages: []string{msgDateOutOfPattern}}
	}
	return []time.Time{recurring.DateOnly(*req.Date)}, nil
}

func resolveBulkDates(req GenerateRequest) ([]time.Time, error) {
	if !req.Occasion.IsRecurring() {
		if len(req.ManualDates) == 0 {
			return nil, &ValidationError{Messages: []string{msgManualDatesNeeded}}
		}
		dates := make([]time.Time, 0, len(req.ManualDates))
		for _, d := range req.ManualDates {
			dates = append(dates, recurring.DateOnly(d))
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		return dates, nil
	}

	rule := *req.Occasion.Recurrence

	if n, ok := SessionCount(req.Option); ok {
		dates := recurring.Next(rule, n, req.Now)
		if len(dates) == 0 {
			return nil, &ValidationError{Messages: []string{msgNoMatchingDates}}
		}
		return dates, nil
	}

	var start, end time.Time
	if req.Option == domain.BulkCustomRange {
		if req.CustomStart == nil || req.CustomEnd == nil {
			return nil, &ValidationError{Messages: []string{msgCustomRangeNeeded}}
		}
		start, end = *req.CustomStart, *req.CustomEnd
	} else {
		var ok bool
		start, end, ok = OptionRange(req.Option, req.Now)
		if !ok {
			return nil, &ValidationError{Messages: []string{msgNoMatchingDates}}
		}
	}

	dates := recurring.Between(rule, start, end)
	if len(dates) == 0 {
		return nil, &ValidationError{Messages: []string{msgNoMatchingDates}}
	}
	return dates, nil
}

// Drafts returns a copy of the current draft set in chronological order.
func (w *Wizard) Drafts() []DraftSession {
	out := make([]DraftSession, len(w.drafts))
	copy(out, w.drafts)
	return out
}

// DraftUpdate carries the per-draft fields a user may edit. Dates of
// rule-derived drafts stay read-only; editing times moves the clock on the
// draft's own day.
type DraftUpdate struct {
	Name      *string
	StartTime *time.Time
	EndTime   *time.Time
}

// UpdateDraft applies an edit to the draft with the given token.
func (w *Wizard) UpdateDraft(token string, upd DraftUpdate) error {
	for i := range w.drafts {
		if w.drafts[i].Token != token {
			continue
		}
		if upd.Name != nil {
			w.drafts[i].Name = *upd.Name
		}
		if upd.StartTime != nil {
			w.drafts[i].StartTime = alignClock(*upd.StartTime, w.drafts[i].StartTime)
		}
		if upd.EndTime != nil {
			w.drafts[i].EndTime = alignClock(*upd.EndTime, w.drafts[i].EndTime)
		}
		return nil
	}
	return domain.ErrNotFound
}

// RemoveDraft deletes the draft with the given token.
func (w *Wizard) RemoveDraft(token string) bool {
	for i := range w.drafts {
		if w.drafts[i].Token == token {
			w.drafts = append(w.drafts[:i], w.drafts[i+1:]...)
			return true
		}
	}
	return false
}

// Conflict returns the currently reported conflict, or nil when idle.
func (w *Wizard) Conflict() *ConflictInfo {
	return w.conflict
}

// ReportSubmissionError feeds a failed submission back into the wizard. When
// the error follows the conflict message protocol the wizard moves to the
// reported state, keeps its drafts intact, and returns true. Any other error
// returns false and must go through the caller's generic error channel.
func (w *Wizard) ReportSubmissionError(err error) bool {
	if err == nil {
		return false
	}
	info := ParseConflictError(err.Error())
	if info == nil {
		return false
	}
	w.conflict = info
	return true
}

// DismissConflict returns the conflict panel to idle.
func (w *Wizard) DismissConflict() {
	w.conflict = nil
}

// Clear drops all drafts and conflict state after a confirmed successful
// submission.
func (w *Wizard) Clear() {
	w.drafts = nil
	w.conflict = nil
}
