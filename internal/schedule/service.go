package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/parishdesk/parishdesk/internal/domain"
)

// Default configuration values.
const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Config holds configuration for the Service.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Service provides business logic for occasion and session management.
// It orchestrates operations using the Repository interface.
type Service struct {
	repo   Repository
	config Config
}

// NewService creates a new schedule service.
// Applies application defaults for zero or invalid config values.
func NewService(repo Repository, config Config) *Service {
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = DefaultPageSize
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = MaxPageSize
	}

	return &Service{
		repo:   repo,
		config: config,
	}
}

// clampPaging applies the service page-size defaults and caps.
func (s *Service) clampPaging(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = s.config.DefaultPageSize
	}
	if limit > s.config.MaxPageSize {
		limit = s.config.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// CreateOccasion creates a new occasion. A nil rule makes the occasion
// one-off; sessions for it are created from manually enumerated dates.
func (s *Service) CreateOccasion(ctx context.Context, nameStr string, rule *domain.RecurrenceRule) (*domain.Occasion, error) {
	name, err := domain.NewName(nameStr)
	if err != nil {
		return nil, err
	}

	if rule != nil {
		if rule.Interval == 0 {
			rule.Interval = 1
		}
		if err := rule.Validate(); err != nil {
			return nil, err
		}
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	occasion := &domain.Occasion{
		ID:         idObj.String(),
		Name:       name.String(),
		Recurrence: rule,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	created, err := s.repo.CreateOccasion(ctx, occasion)
	if err != nil {
		return nil, fmt.Errorf("failed to create occasion: %w", err)
	}

	return created, nil
}

// GetOccasion retrieves an occasion by ID.
func (s *Service) GetOccasion(ctx context.Context, id string) (*domain.Occasion, error) {
	if id == "" {
		return nil, domain.ErrOccasionNotFound
	}
	return s.repo.FindOccasionByID(ctx, id)
}

// ListOccasions retrieves occasions with filtering and pagination.
func (s *Service) ListOccasions(ctx context.Context, params domain.ListOccasionsParams) (*domain.PagedOccasions, error) {
	params.Limit, params.Offset = s.clampPaging(params.Limit, params.Offset)
	return s.repo.ListOccasions(ctx, params)
}

// UpdateOccasion updates an occasion using a field mask.
func (s *Service) UpdateOccasion(ctx context.Context, params domain.UpdateOccasionParams) (*domain.Occasion, error) {
	if params.OccasionID == "" {
		return nil, domain.ErrOccasionNotFound
	}

	for _, field := range params.UpdateMask {
		switch field {
		case domain.FieldOccasionName:
			if params.Name != nil {
				if _, err := domain.NewName(*params.Name); err != nil {
					return nil, err
				}
			}
		case domain.FieldRecurrence:
			if params.Recurrence != nil {
				if err := params.Recurrence.Validate(); err != nil {
					return nil, err
				}
			}
		}
	}

	return s.repo.UpdateOccasion(ctx, params)
}

// DeleteOccasion removes an occasion and its sessions.
func (s *Service) DeleteOccasion(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrOccasionNotFound
	}
	return s.repo.DeleteOccasion(ctx, id)
}

// GetSession retrieves a session by ID.
func (s *Service) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}
	return s.repo.FindSessionByID(ctx, id)
}

// ListSessions retrieves sessions with filtering and pagination.
func (s *Service) ListSessions(ctx context.Context, params domain.ListSessionsParams) (*domain.PagedSessions, error) {
	params.Limit, params.Offset = s.clampPaging(params.Limit, params.Offset)
	return s.repo.ListSessions(ctx, params)
}

// UpdateSession updates a session using a field mask.
func (s *Service) UpdateSession(ctx context.Context, params domain.UpdateSessionParams) (*domain.Session, error) {
	if params.SessionID == "" {
		return nil, domain.ErrSessionNotFound
	}
	return s.repo.UpdateSession(ctx, params)
}

// DeleteSession removes a session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrSessionNotFound
	}
	return s.repo.DeleteSession(ctx, id)
}

// SubmitDrafts persists the wizard's drafts. Each draft receives a fresh
// server ID; its local token is only mapped to that ID after the repository
// confirms success. One draft goes through the single-create path, several
// through the atomic bulk path, so a conflict error carries the matching
// message prefix for the mode. On conflict nothing is persisted and the
// caller's drafts remain intact for editing and resubmission.
func (s *Service) SubmitDrafts(ctx context.Context, drafts []DraftSession) ([]*domain.Session, error) {
	if len(drafts) == 0 {
		return nil, &ValidationError{Messages: []string{msgDateRequired}}
	}

	sessions := make([]*domain.Session, 0, len(drafts))
	for _, draft := range drafts {
		idObj, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session id: %w", err)
		}

		session := &domain.Session{
			ID:         idObj.String(),
			OccasionID: draft.OccasionID,
			Name:       draft.Name,
			StartTime:  draft.StartTime,
			EndTime:    draft.EndTime,
			Settings:   draft.Settings,
			CreatedAt:  time.Now().UTC(),
			UpdatedAt:  time.Now().UTC(),
		}
		if err := session.Validate(); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if len(sessions) == 1 {
		created, err := s.repo.CreateSession(ctx, sessions[0])
		if err != nil {
			return nil, err
		}
		return []*domain.Session{created}, nil
	}

	created, err := s.repo.CreateSessions(ctx, sessions)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CloseExpiredSessions clears the open flag on sessions that have ended.
// Called by the maintenance worker.
func (s *Service) CloseExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return s.repo.CloseExpiredSessions(ctx, now)
}
