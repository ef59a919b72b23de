package schedule

import (
	"strings"

	"github.com/parishdesk/parishdesk/internal/domain"
)

// The persistence layer reports scheduling conflicts as a prefixed,
// delimiter-joined message. The prefixes and separators below are a fixed
// protocol between the session repositories (producers) and
// ParseConflictError (consumer); changing them breaks clients that pattern
// match on the message.
const (
	// SingleConflictPrefix starts the message for a single-session conflict.
	// Descriptors follow, joined with ", ".
	SingleConflictPrefix = "Conflicting session exists on the same date/time: "

	// BulkConflictPrefix starts the message for a bulk-creation conflict.
	// Descriptors follow, joined with " | " because bulk descriptors may
	// themselves contain commas.
	BulkConflictPrefix = "Conflicting sessions detected on the same date/time: "

	singleSeparator = ", "
	bulkSeparator   = " | "
)

// ConflictMode distinguishes single-session from bulk-creation conflicts.
type ConflictMode string

const (
	ConflictModeSingle ConflictMode = "single"
	ConflictModeBulk   ConflictMode = "bulk"
)

// ConflictInfo is the structured form of a conflict message: one
// human-readable descriptor per conflicting session. It is a transient
// display aid, never persisted.
type ConflictInfo struct {
	Mode  ConflictMode
	Items []string
}

// ConflictError is the error the session repositories return when a create
// collides with persisted sessions. Its message follows the fixed protocol
// above so that callers holding only the string can still recover the
// structure via ParseConflictError.
type ConflictError struct {
	Mode  ConflictMode
	Items []string
}

func (e *ConflictError) Error() string {
	if e.Mode == ConflictModeBulk {
		return BulkConflictPrefix + strings.Join(e.Items, bulkSeparator)
	}
	return SingleConflictPrefix + strings.Join(e.Items, singleSeparator)
}

// SessionDescriptor formats one persisted session for a conflict message.
func SessionDescriptor(s *domain.Session) string {
	return s.Name + " @ " + s.StartTime.Format("Jan 2, 2006 15:04")
}

// ParseConflictError converts a conflict message back into structured form.
// It returns nil for any message that doesn't carry one of the two fixed
// prefixes, signaling "not a conflict" so callers fall through to their
// default error path. Empty segments are filtered out; descriptor content is
// otherwise taken as-is.
func ParseConflictError(message string) *ConflictInfo {
	if rest, ok := strings.CutPrefix(message, SingleConflictPrefix); ok {
		return &ConflictInfo{
			Mode:  ConflictModeSingle,
			Items: splitDescriptors(rest, singleSeparator),
		}
	}
	if rest, ok := strings.CutPrefix(message, BulkConflictPrefix); ok {
		return &ConflictInfo{
			Mode:  ConflictModeBulk,
			Items: splitDescriptors(rest, bulkSeparator),
		}
	}
	return nil
}

func splitDescriptors(s, sep string) []string {
	items := make([]string, 0)
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}
