package domain

import "errors"

// Domain errors returned by services and repository implementations.

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrOccasionNotFound indicates the specified occasion does not exist.
	ErrOccasionNotFound = errors.New("occasion not found")

	// ErrSessionNotFound indicates the specified session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidID indicates the provided ID format is invalid.
	ErrInvalidID = errors.New("invalid ID format")

	// ErrNameRequired indicates a required name field was empty.
	ErrNameRequired = errors.New("name is required")

	// ErrNameTooLong indicates a name exceeded the 255 character limit.
	ErrNameTooLong = errors.New("name must be 255 characters or less")

	// ErrInvalidFrequency indicates an unrecognized recurrence frequency.
	ErrInvalidFrequency = errors.New("invalid recurrence frequency")

	// ErrInvalidInterval indicates a recurrence interval below 1.
	ErrInvalidInterval = errors.New("recurrence interval must be at least 1")

	// ErrWeekdaysRequireWeekly indicates a weekday set on a non-weekly rule.
	ErrWeekdaysRequireWeekly = errors.New("weekday constraints require weekly frequency")

	// ErrMissingStartDate indicates a recurrence rule without an anchor date.
	ErrMissingStartDate = errors.New("recurrence rule requires a start date")

	// ErrInvalidSessionTimes indicates a session whose end does not follow its start.
	ErrInvalidSessionTimes = errors.New("session end time must be after start time")

	// ErrVersionConflict indicates an optimistic-locking version mismatch.
	ErrVersionConflict = errors.New("version conflict: resource was modified")
)
