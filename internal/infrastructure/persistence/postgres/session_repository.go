package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/parishdesk/parishdesk/internal/domain"
	"github.com/parishdesk/parishdesk/internal/schedule"
)

const sessionColumns = "id, occasion_id, name, start_time, end_time, open, settings, created_at, updated_at, version"

// CreateSession persists a single session after checking for overlapping
// sessions of the same occasion. On overlap nothing is persisted and the
// returned error carries schedule.SingleConflictPrefix.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	var created *domain.Session
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		conflicts, err := findOverlapping(ctx, tx, session)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &schedule.ConflictError{Mode: schedule.ConflictModeSingle, Items: conflicts}
		}
		created, err = insertSession(ctx, tx, session)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateSessions persists a batch atomically. Conflicts are collected across
// the whole batch before failing, so the caller sees every collision at once;
// the returned error carries schedule.BulkConflictPrefix.
func (s *Store) CreateSessions(ctx context.Context, sessions []*domain.Session) ([]*domain.Session, error) {
	created := make([]*domain.Session, 0, len(sessions))
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var conflicts []string
		for _, session := range sessions {
			found, err := findOverlapping(ctx, tx, session)
			if err != nil {
				return err
			}
			conflicts = append(conflicts, found...)
		}
		if len(conflicts) > 0 {
			return &schedule.ConflictError{Mode: schedule.ConflictModeBulk, Items: conflicts}
		}
		for _, session := range sessions {
			persisted, err := insertSession(ctx, tx, session)
			if err != nil {
				return err
			}
			created = append(created, persisted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// findOverlapping returns descriptors of persisted sessions of the same
// occasion whose time range intersects the candidate's.
func findOverlapping(ctx context.Context, tx pgx.Tx, session *domain.Session) ([]string, error) {
	occasionID, err := uuid.Parse(session.OccasionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, session.OccasionID)
	}

	rows, err := tx.Query(ctx, `
		SELECT name, start_time
		FROM sessions
		WHERE occasion_id = $1 AND start_time < $3 AND end_time > $2
		ORDER BY start_time`,
		occasionID, session.StartTime, session.EndTime)
	if err != nil {
		return nil, fmt.Errorf("failed to check for conflicting sessions: %w", err)
	}
	defer rows.Close()

	var descriptors []string
	for rows.Next() {
		existing := domain.Session{}
		if err := rows.Scan(&existing.Name, &existing.StartTime); err != nil {
			return nil, fmt.Errorf("failed to scan conflicting session: %w", err)
		}
		descriptors = append(descriptors, schedule.SessionDescriptor(&existing))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to check for conflicting sessions: %w", err)
	}
	return descriptors, nil
}

func insertSession(ctx context.Context, tx pgx.Tx, session *domain.Session) (*domain.Session, error) {
	id, err := uuid.Parse(session.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, session.ID)
	}
	occasionID, err := uuid.Parse(session.OccasionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, session.OccasionID)
	}

	settings, err := marshalSettings(session.Settings)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	row := tx.QueryRow(ctx, `
		INSERT INTO sessions (id, occasion_id, name, start_time, end_time, open, settings, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8, 1)
		RETURNING `+sessionColumns,
		id, occasionID, session.Name, session.StartTime, session.EndTime,
		session.Settings.Open, settings, now)

	created, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return created, nil
}

// FindSessionByID retrieves a session by ID.
func (s *Store) FindSessionByID(ctx context.Context, id string) (*domain.Session, error) {
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, id)
	}

	row := s.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE id = $1`,
		sessionID)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return session, nil
}

// ListSessions retrieves sessions with filtering and pagination, ordered by
// start time ascending.
func (s *Store) ListSessions(ctx context.Context, params domain.ListSessionsParams) (*domain.PagedSessions, error) {
	query := `
		SELECT ` + sessionColumns + `, COUNT(*) OVER() AS total_count
		FROM sessions
		WHERE 1=1`
	args := []any{}
	addArg := func(clause string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}

	if params.OccasionID != nil {
		occasionID, err := uuid.Parse(*params.OccasionID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, *params.OccasionID)
		}
		addArg(" AND occasion_id = $%d", occasionID)
	}
	if params.Open != nil {
		addArg(" AND open = $%d", *params.Open)
	}
	if params.StartAfter != nil {
		addArg(" AND start_time >= $%d", *params.StartAfter)
	}
	if params.StartBefore != nil {
		addArg(" AND start_time < $%d", *params.StartBefore)
	}

	query += fmt.Sprintf(" ORDER BY start_time, id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	result := &domain.PagedSessions{Sessions: []domain.Session{}}
	for rows.Next() {
		var (
			session    domain.Session
			id         uuid.UUID
			occasionID uuid.UUID
			open       bool
			settings   []byte
		)
		if err := rows.Scan(&id, &occasionID, &session.Name, &session.StartTime,
			&session.EndTime, &open, &settings, &session.CreatedAt,
			&session.UpdatedAt, &session.Version, &result.TotalCount); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		session.ID = id.String()
		session.OccasionID = occasionID.String()
		if session.Settings, err = unmarshalSettings(settings, open); err != nil {
			return nil, err
		}
		result.Sessions = append(result.Sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	result.HasMore = params.Offset+len(result.Sessions) < result.TotalCount
	return result, nil
}

// UpdateSession applies a field-masked update with optimistic locking.
func (s *Store) UpdateSession(ctx context.Context, params domain.UpdateSessionParams) (*domain.Session, error) {
	sessionID, err := uuid.Parse(params.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, params.SessionID)
	}

	var updated *domain.Session
	err = s.withTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			SELECT `+sessionColumns+`
			FROM sessions
			WHERE id = $1
			FOR UPDATE`,
			sessionID)

		current, err := scanSession(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, params.SessionID)
			}
			return fmt.Errorf("failed to load session for update: %w", err)
		}

		if params.Etag != nil && *params.Etag != current.Etag() {
			return fmt.Errorf("%w: session %s", domain.ErrVersionConflict, params.SessionID)
		}

		for _, field := range params.UpdateMask {
			switch field {
			case domain.FieldSessionName:
				if params.Name != nil {
					current.Name = *params.Name
				}
			case domain.FieldStartTime:
				if params.StartTime != nil {
					current.StartTime = *params.StartTime
				}
			case domain.FieldEndTime:
				if params.EndTime != nil {
					current.EndTime = *params.EndTime
				}
			case domain.FieldOpen:
				if params.Open != nil {
					current.Settings.Open = *params.Open
				}
			case domain.FieldSettings:
				if params.Settings != nil {
					current.Settings = *params.Settings
				}
			}
		}

		if err := current.Validate(); err != nil {
			return err
		}

		settings, err := marshalSettings(current.Settings)
		if err != nil {
			return err
		}

		row = tx.QueryRow(ctx, `
			UPDATE sessions
			SET name = $2, start_time = $3, end_time = $4, open = $5, settings = $6,
			    updated_at = $7, version = version + 1
			WHERE id = $1
			RETURNING `+sessionColumns,
			sessionID, current.Name, current.StartTime, current.EndTime,
			current.Settings.Open, settings, time.Now().UTC())

		updated, err = scanSession(row)
		if err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteSession removes a session.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidID, id)
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return nil
}

// CloseExpiredSessions clears the open flag on sessions whose end time is at
// or before now.
func (s *Store) CloseExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE sessions
		SET open = FALSE, updated_at = $1, version = version + 1
		WHERE open AND end_time <= $1`,
		now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to close expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var (
		session    domain.Session
		id         uuid.UUID
		occasionID uuid.UUID
		open       bool
		settings   []byte
	)
	if err := row.Scan(&id, &occasionID, &session.Name, &session.StartTime,
		&session.EndTime, &open, &settings, &session.CreatedAt,
		&session.UpdatedAt, &session.Version); err != nil {
		return nil, err
	}
	session.ID = id.String()
	session.OccasionID = occasionID.String()
	var err error
	if session.Settings, err = unmarshalSettings(settings, open); err != nil {
		return nil, err
	}
	return &session, nil
}
