package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parishdesk/parishdesk/internal/domain"
)

// nameSeparator joins the base name and the friendly date in generated
// session names.
const nameSeparator = " – "

// SessionTemplate carries the shared attributes one wizard run applies to
// every generated draft. StartTime and EndTime are clock-of-day carriers:
// only their hour and minute are used, the calendar day comes from each
// occurrence date.
type SessionTemplate struct {
	OccasionName string
	BaseName     string
	StartTime    time.Time
	EndTime      time.Time
	Settings     domain.SessionSettings
}

// DraftSession is an unsaved, locally-held candidate session pending user
// review and submission. Token identifies the draft within the wizard only;
// it is never a server-assigned ID.
type DraftSession struct {
	Token      string
	OccasionID string
	Name       string
	StartTime  time.Time
	EndTime    time.Time
	Settings   domain.SessionSettings
}

// BuildDraft produces one draft for the given occurrence date: the
// template's clock-of-day is aligned onto the date's calendar day with
// seconds zeroed, settings are copied verbatim, and a fresh local token is
// generated.
func BuildDraft(occasionID string, tpl SessionTemplate, date time.Time) (DraftSession, error) {
	tokenObj, err := uuid.NewV7()
	if err != nil {
		return DraftSession{}, fmt.Errorf("failed to generate draft token: %w", err)
	}

	return DraftSession{
		Token:      tokenObj.String(),
		OccasionID: occasionID,
		Name:       draftName(tpl.BaseName, tpl.OccasionName, date),
		StartTime:  alignClock(tpl.StartTime, date),
		EndTime:    alignClock(tpl.EndTime, date),
		Settings:   tpl.Settings,
	}, nil
}

// BuildDrafts produces one draft per date, preserving date order.
func BuildDrafts(occasionID string, tpl SessionTemplate, dates []time.Time) ([]DraftSession, error) {
	drafts := make([]DraftSession, 0, len(dates))
	for _, date := range dates {
		draft, err := BuildDraft(occasionID, tpl, date)
		if err != nil {
			return nil, fmt.Errorf("failed to build draft for %s: %w", date.Format(time.DateOnly), err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// alignClock combines clock's hour and minute with date's calendar day.
// Seconds and sub-seconds are zeroed.
func alignClock(clock, date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.UTC)
}

// draftName builds the human-readable session name. Empty parts are omitted
// rather than leaving stray separators.
func draftName(baseName, occasionName string, date time.Time) string {
	base := strings.TrimSpace(baseName)
	if base == "" {
		base = strings.TrimSpace(occasionName)
	}

	friendly := date.Format("Jan 2, 2006")
	if base == "" {
		return friendly
	}
	return base + nameSeparator + friendly
}
