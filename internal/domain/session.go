package domain

import "time"

// SessionSettings are session-wide attendance settings shared by every
// session generated from one wizard run. They are not date-dependent and are
// copied verbatim onto each generated session.
type SessionSettings struct {
	// Open controls whether attendance can still be marked.
	Open bool

	// PublicMarking allows members to mark their own attendance without a
	// committee member present.
	PublicMarking bool

	// SelfMarking allows members to mark themselves via the member portal.
	SelfMarking bool

	// Proximity requirement: when set, marking is only accepted within
	// RadiusMeters of the configured coordinates.
	RequireProximity bool
	Latitude         *float64
	Longitude        *float64
	RadiusMeters     *int

	// Allow-lists restrict who may attend. Empty means unrestricted.
	AllowedTagIDs    []string
	AllowedGroupIDs  []string
	AllowedMemberIDs []string
}

// Session is a single dated/timed instance of an occasion at which
// attendance is recorded.
type Session struct {
	ID         string
	OccasionID string
	Name       string

	StartTime time.Time
	EndTime   time.Time

	Settings SessionSettings

	CreatedAt time.Time
	UpdatedAt time.Time

	// Optimistic locking version for concurrent update protection
	Version int
}

// Validate checks the session's structural invariants.
func (s *Session) Validate() error {
	if s.OccasionID == "" {
		return ErrOccasionNotFound
	}
	if _, err := NewName(s.Name); err != nil {
		return err
	}
	if !s.EndTime.After(s.StartTime) {
		return ErrInvalidSessionTimes
	}
	return nil
}

// ListSessionsParams contains parameters for listing sessions with filtering
// and pagination.
type ListSessionsParams struct {
	// Optional filters (nil = no filter applied)
	OccasionID  *string
	Open        *bool
	StartAfter  *time.Time
	StartBefore *time.Time

	// Pagination (both required for correct pagination)
	Limit  int
	Offset int
}

// PagedSessions contains sessions matching the query parameters.
type PagedSessions struct {
	Sessions   []Session
	TotalCount int
	HasMore    bool
}

// ListOccasionsParams contains parameters for listing occasions.
type ListOccasionsParams struct {
	NameContains *string

	Limit  int
	Offset int
}

// PagedOccasions contains occasions matching the query parameters.
type PagedOccasions struct {
	Occasions  []*Occasion
	TotalCount int
	HasMore    bool
}
