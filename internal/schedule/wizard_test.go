package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/parishdesk/parishdesk/internal/domain"
	"github.com/parishdesk/parishdesk/internal/ptr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recurringOccasion() *domain.Occasion {
	return &domain.Occasion{
		ID:   "occ-sunday",
		Name: "Sunday Service",
		Recurrence: &domain.RecurrenceRule{
			Frequency: domain.FrequencyWeekly,
			Interval:  1,
			StartDate: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		},
	}
}

func oneOffOccasion() *domain.Occasion {
	return &domain.Occasion{ID: "occ-retreat", Name: "Youth Retreat"}
}

func baseRequest(occ *domain.Occasion) GenerateRequest {
	return GenerateRequest{
		Occasion: occ,
		Template: SessionTemplate{
			OccasionName: occ.Name,
			StartTime:    time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
			EndTime:      time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC),
		},
		Now: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	}
}

func requireValidation(t *testing.T, err error, message string) {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages, message)
}

func TestGenerateValidation(t *testing.T) {
	w := NewWizard()

	t.Run("missing occasion", func(t *testing.T) {
		req := baseRequest(recurringOccasion())
		req.Occasion = nil
		req.Mode = ModeSingle
		_, err := w.Generate(req)
		requireValidation(t, err, "Select an occasion.")
	})

	t.Run("single mode without a date", func(t *testing.T) {
		req := baseRequest(recurringOccasion())
		req.Mode = ModeSingle
		_, err := w.Generate(req)
		requireValidation(t, err, "Select a date.")
	})

	t.Run("single mode with an out-of-pattern date", func(t *testing.T) {
		req := baseRequest(recurringOccasion())
		req.Mode = ModeSingle
		req.Date = ptr.To(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) // Wednesday
		_, err := w.Generate(req)
		requireValidation(t, err, "Selected date does not match the occasion's schedule.")
	})

	t.Run("bulk mode for one-off occasion without dates", func(t *testing.T) {
		req := baseRequest(oneOffOccasion())
		req.Mode = ModeBulk
		_, err := w.Generate(req)
		requireValidation(t, err, "Add at least one date for bulk creation.")
	})

	t.Run("custom range without bounds", func(t *testing.T) {
		req := baseRequest(recurringOccasion())
		req.Mode = ModeBulk
		req.Option = domain.BulkCustomRange
		_, err := w.Generate(req)
		requireValidation(t, err, "Select a start and end date for the custom range.")
	})

	t.Run("range with no matching occurrences", func(t *testing.T) {
		occ := recurringOccasion()
		occ.Recurrence.Until = ptr.To(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC))
		req := baseRequest(occ)
		req.Mode = ModeBulk
		req.Option = domain.BulkNext2Months
		_, err := w.Generate(req)
		requireValidation(t, err, "No dates match the occasion's schedule in the selected period.")
	})
}

func TestGenerateSingle(t *testing.T) {
	w := NewWizard()

	req := baseRequest(recurringOccasion())
	req.Mode = ModeSingle
	req.Date = ptr.To(time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)) // Sunday

	drafts, err := w.Generate(req)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, time.Date(2024, 1, 14, 9, 30, 0, 0, time.UTC), drafts[0].StartTime)
	assert.Equal(t, "Sunday Service – Jan 14, 2024", drafts[0].Name)
}

func TestGenerateBulkRecurring(t *testing.T) {
	t.Run("count preset", func(t *testing.T) {
		w := NewWizard()
		req := baseRequest(recurringOccasion())
		req.Mode = ModeBulk
		req.Option = domain.BulkNext3Sessions

		drafts, err := w.Generate(req)
		require.NoError(t, err)
		require.Len(t, drafts, 3)
		assert.Equal(t, 14, drafts[0].StartTime.Day())
		assert.Equal(t, 21, drafts[1].StartTime.Day())
		assert.Equal(t, 28, drafts[2].StartTime.Day())
	})

	t.Run("current month preset", func(t *testing.T) {
		w := NewWizard()
		req := baseRequest(recurringOccasion())
		req.Mode = ModeBulk
		req.Option = domain.BulkCurrentMonth

		drafts, err := w.Generate(req)
		require.NoError(t, err)
		// Sundays in January 2024 on or after the anchor: 7, 14, 21, 28.
		require.Len(t, drafts, 4)
	})

	t.Run("custom range", func(t *testing.T) {
		w := NewWizard()
		req := baseRequest(recurringOccasion())
		req.Mode = ModeBulk
		req.Option = domain.BulkCustomRange
		req.CustomStart = ptr.To(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
		req.CustomEnd = ptr.To(time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC))

		drafts, err := w.Generate(req)
		require.NoError(t, err)
		require.Len(t, drafts, 2)
		assert.Equal(t, 14, drafts[0].StartTime.Day())
		assert.Equal(t, 21, drafts[1].StartTime.Day())
	})
}

func TestGenerateBulkManualDates(t *testing.T) {
	w := NewWizard()
	req := baseRequest(oneOffOccasion())
	req.Mode = ModeBulk
	req.ManualDates = []time.Time{
		time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	}

	drafts, err := w.Generate(req)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	// Manual dates are sorted into chronological order.
	assert.True(t, drafts[0].StartTime.Before(drafts[1].StartTime))
}

func TestGenerateReplacesOnlyOnSuccess(t *testing.T) {
	w := NewWizard()

	req := baseRequest(recurringOccasion())
	req.Mode = ModeBulk
	req.Option = domain.BulkNext2Sessions
	first, err := w.Generate(req)
	require.NoError(t, err)
	require.Len(t, first, 2)

	// Rename a draft, then fail a regeneration: drafts must survive untouched.
	require.NoError(t, w.UpdateDraft(first[0].Token, DraftUpdate{Name: ptr.To("Edited")}))

	bad := baseRequest(oneOffOccasion())
	bad.Mode = ModeBulk
	_, err = w.Generate(bad)
	require.Error(t, err)

	kept := w.Drafts()
	require.Len(t, kept, 2)
	assert.Equal(t, "Edited", kept[0].Name)

	// A successful regeneration replaces everything, edits included.
	req.Option = domain.BulkNext3Sessions
	replaced, err := w.Generate(req)
	require.NoError(t, err)
	require.Len(t, replaced, 3)
	for _, d := range replaced {
		assert.NotEqual(t, "Edited", d.Name)
	}
}

func TestDraftEditing(t *testing.T) {
	w := NewWizard()
	req := baseRequest(recurringOccasion())
	req.Mode = ModeBulk
	req.Option = domain.BulkNext2Sessions
	drafts, err := w.Generate(req)
	require.NoError(t, err)

	t.Run("times move the clock but keep the day", func(t *testing.T) {
		newStart := time.Date(2000, 6, 6, 18, 15, 0, 0, time.UTC)
		require.NoError(t, w.UpdateDraft(drafts[0].Token, DraftUpdate{StartTime: &newStart}))

		updated := w.Drafts()[0]
		assert.Equal(t, drafts[0].StartTime.Day(), updated.StartTime.Day())
		assert.Equal(t, 18, updated.StartTime.Hour())
		assert.Equal(t, 15, updated.StartTime.Minute())
	})

	t.Run("removing a draft", func(t *testing.T) {
		assert.True(t, w.RemoveDraft(drafts[1].Token))
		assert.Len(t, w.Drafts(), 1)
		assert.False(t, w.RemoveDraft("no-such-token"))
	})

	t.Run("unknown token", func(t *testing.T) {
		err := w.UpdateDraft("no-such-token", DraftUpdate{Name: ptr.To("x")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestConflictStateMachine(t *testing.T) {
	w := NewWizard()
	req := baseRequest(recurringOccasion())
	req.Mode = ModeBulk
	req.Option = domain.BulkNext2Sessions
	_, err := w.Generate(req)
	require.NoError(t, err)

	t.Run("conflict errors are reported and drafts kept", func(t *testing.T) {
		conflictErr := &ConflictError{Mode: ConflictModeBulk, Items: []string{"A @ 10:00"}}
		assert.True(t, w.ReportSubmissionError(conflictErr))
		require.NotNil(t, w.Conflict())
		assert.Equal(t, ConflictModeBulk, w.Conflict().Mode)
		assert.Len(t, w.Drafts(), 2)
	})

	t.Run("dismiss returns to idle", func(t *testing.T) {
		w.DismissConflict()
		assert.Nil(t, w.Conflict())
	})

	t.Run("generic errors are not captured", func(t *testing.T) {
		assert.False(t, w.ReportSubmissionError(errors.New("network error")))
		assert.Nil(t, w.Conflict())
		assert.False(t, w.ReportSubmissionError(nil))
	})

	t.Run("successful regeneration clears a reported conflict", func(t *testing.T) {
		require.True(t, w.ReportSubmissionError(&ConflictError{Mode: ConflictModeSingle, Items: []string{"A @ 10:00"}}))
		_, err := w.Generate(req)
		require.NoError(t, err)
		assert.Nil(t, w.Conflict())
	})
}
