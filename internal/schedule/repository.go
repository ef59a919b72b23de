package schedule

import (
	"context"
	"time"

	"github.com/parishdesk/parishdesk/internal/domain"
)

// Repository defines storage operations for occasions and sessions.
// All create/update operations return the entity as persisted, including version.
type Repository interface {
	// === Occasion Operations ===

	// CreateOccasion creates a new occasion.
	CreateOccasion(ctx context.Context, occasion *domain.Occasion) (*domain.Occasion, error)

	// FindOccasionByID retrieves an occasion by its ID.
	// Returns domain.ErrOccasionNotFound if it doesn't exist.
	FindOccasionByID(ctx context.Context, id string) (*domain.Occasion, error)

	// ListOccasions retrieves occasions with filtering and pagination.
	ListOccasions(ctx context.Context, params domain.ListOccasionsParams) (*domain.PagedOccasions, error)

	// UpdateOccasion updates an occasion using a field mask.
	// Returns domain.ErrVersionConflict if the etag doesn't match.
	UpdateOccasion(ctx context.Context, params domain.UpdateOccasionParams) (*domain.Occasion, error)

	// DeleteOccasion removes an occasion and its sessions.
	DeleteOccasion(ctx context.Context, id string) error

	// === Session Operations ===

	// CreateSession persists a single session. When another session of the
	// same occasion overlaps the new one's time range, it fails with an error
	// whose message carries SingleConflictPrefix and the conflicting
	// descriptors, and nothing is persisted.
	CreateSession(ctx context.Context, session *domain.Session) (*domain.Session, error)

	// CreateSessions persists a batch atomically. On overlap it fails with an
	// error whose message carries BulkConflictPrefix, and nothing is persisted.
	CreateSessions(ctx context.Context, sessions []*domain.Session) ([]*domain.Session, error)

	// FindSessionByID retrieves a session by its ID.
	// Returns domain.ErrSessionNotFound if it doesn't exist.
	FindSessionByID(ctx context.Context, id string) (*domain.Session, error)

	// ListSessions retrieves sessions with filtering and pagination, ordered
	// by start time ascending.
	ListSessions(ctx context.Context, params domain.ListSessionsParams) (*domain.PagedSessions, error)

	// UpdateSession updates a session using a field mask.
	// Returns domain.ErrVersionConflict if the etag doesn't match.
	UpdateSession(ctx context.Context, params domain.UpdateSessionParams) (*domain.Session, error)

	// DeleteSession removes a session.
	DeleteSession(ctx context.Context, id string) error

	// CloseExpiredSessions clears the open flag on sessions whose end time is
	// at or before now. Returns the number of sessions closed.
	CloseExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
