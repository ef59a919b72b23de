package domain

import (
	"fmt"
	"time"
)

// Field names for Occasion update masks.
const (
	FieldOccasionName = "name"
	FieldRecurrence   = "recurrence"
)

// Field names for Session update masks.
const (
	FieldSessionName = "name"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
	FieldOpen        = "open"
	FieldSettings    = "settings"
)

// UpdateOccasionParams contains parameters for updating an occasion with
// field mask support. Uses optimistic concurrency control via etag.
type UpdateOccasionParams struct {
	OccasionID string

	// Etag for optimistic concurrency control, numeric string ("1", "2").
	// If provided and it doesn't match the current version, the update fails
	// with ErrVersionConflict.
	Etag *string

	// UpdateMask specifies which fields to update.
	UpdateMask []string

	// Field values (only applied if the field is in UpdateMask)
	Name       *string
	Recurrence *RecurrenceRule
}

// UpdateSessionParams contains parameters for updating a session with field
// mask support. Uses optimistic concurrency control via etag.
type UpdateSessionParams struct {
	SessionID string

	Etag *string

	UpdateMask []string

	// Field values (only applied if the field is in UpdateMask)
	Name      *string
	StartTime *time.Time
	EndTime   *time.Time
	Open      *bool
	Settings  *SessionSettings
}

// Etag returns the entity tag for an occasion.
func (o *Occasion) Etag() string {
	return fmt.Sprintf("%d", o.Version)
}

// Etag returns the entity tag for a session.
func (s *Session) Etag() string {
	return fmt.Sprintf("%d", s.Version)
}
