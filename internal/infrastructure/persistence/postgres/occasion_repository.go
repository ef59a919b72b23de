package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/parishdesk/parishdesk/internal/domain"
)

const occasionColumns = "id, name, recurrence, created_at, updated_at, version"

// CreateOccasion inserts a new occasion row.
func (s *Store) CreateOccasion(ctx context.Context, occasion *domain.Occasion) (*domain.Occasion, error) {
	id, err := uuid.Parse(occasion.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, occasion.ID)
	}

	recurrence, err := marshalRecurrence(occasion.Recurrence)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO occasions (id, name, recurrence, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $4, 1)
		RETURNING `+occasionColumns,
		id, occasion.Name, recurrence, now)

	created, err := scanOccasion(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create occasion: %w", err)
	}
	return created, nil
}

// FindOccasionByID retrieves an occasion by ID.
func (s *Store) FindOccasionByID(ctx context.Context, id string) (*domain.Occasion, error) {
	occasionID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, id)
	}

	row := s.pool.QueryRow(ctx, `
		SELECT `+occasionColumns+`
		FROM occasions
		WHERE id = $1`,
		occasionID)

	occasion, err := scanOccasion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrOccasionNotFound, id)
		}
		return nil, fmt.Errorf("failed to find occasion: %w", err)
	}
	return occasion, nil
}

// ListOccasions retrieves occasions with filtering and pagination, ordered by
// name ascending.
func (s *Store) ListOccasions(ctx context.Context, params domain.ListOccasionsParams) (*domain.PagedOccasions, error) {
	query := `
		SELECT ` + occasionColumns + `, COUNT(*) OVER() AS total_count
		FROM occasions`
	args := []any{}
	if params.NameContains != nil {
		query += ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, *params.NameContains)
	}
	query += fmt.Sprintf(` ORDER BY name, id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list occasions: %w", err)
	}
	defer rows.Close()

	result := &domain.PagedOccasions{Occasions: []*domain.Occasion{}}
	for rows.Next() {
		var (
			occasion   domain.Occasion
			id         uuid.UUID
			recurrence []byte
		)
		if err := rows.Scan(&id, &occasion.Name, &recurrence, &occasion.CreatedAt,
			&occasion.UpdatedAt, &occasion.Version, &result.TotalCount); err != nil {
			return nil, fmt.Errorf("failed to scan occasion: %w", err)
		}
		occasion.ID = id.String()
		if occasion.Recurrence, err = unmarshalRecurrence(recurrence); err != nil {
			return nil, err
		}
		result.Occasions = append(result.Occasions, &occasion)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list occasions: %w", err)
	}

	result.HasMore = params.Offset+len(result.Occasions) < result.TotalCount
	return result, nil
}

// UpdateOccasion applies a field-masked update with optimistic locking.
func (s *Store) UpdateOccasion(ctx context.Context, params domain.UpdateOccasionParams) (*domain.Occasion, error) {
	occasionID, err := uuid.Parse(params.OccasionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, params.OccasionID)
	}

	var updated *domain.Occasion
	err = s.withTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			SELECT `+occasionColumns+`
			FROM occasions
			WHERE id = $1
			FOR UPDATE`,
			occasionID)

		current, err := scanOccasion(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: %s", domain.ErrOccasionNotFound, params.OccasionID)
			}
			return fmt.Errorf("failed to load occasion for update: %w", err)
		}

		if params.Etag != nil && *params.Etag != current.Etag() {
			return fmt.Errorf("%w: occasion %s", domain.ErrVersionConflict, params.OccasionID)
		}

		for _, field := range params.UpdateMask {
			switch field {
			case domain.FieldOccasionName:
				if params.Name != nil {
					current.Name = *params.Name
				}
			case domain.FieldRecurrence:
				current.Recurrence = params.Recurrence
			}
		}

		recurrence, err := marshalRecurrence(current.Recurrence)
		if err != nil {
			return err
		}

		row = tx.QueryRow(ctx, `
			UPDATE occasions
			SET name = $2, recurrence = $3, updated_at = $4, version = version + 1
			WHERE id = $1
			RETURNING `+occasionColumns,
			occasionID, current.Name, recurrence, time.Now().UTC())

		updated, err = scanOccasion(row)
		if err != nil {
			return fmt.Errorf("failed to update occasion: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteOccasion removes an occasion; its sessions go with it via the
// foreign key cascade.
func (s *Store) DeleteOccasion(ctx context.Context, id string) error {
	occasionID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidID, id)
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM occasions WHERE id = $1`, occasionID)
	if err != nil {
		return fmt.Errorf("failed to delete occasion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrOccasionNotFound, id)
	}
	return nil
}

func scanOccasion(row pgx.Row) (*domain.Occasion, error) {
	var (
		occasion   domain.Occasion
		id         uuid.UUID
		recurrence []byte
	)
	if err := row.Scan(&id, &occasion.Name, &recurrence, &occasion.CreatedAt,
		&occasion.UpdatedAt, &occasion.Version); err != nil {
		return nil, err
	}
	occasion.ID = id.String()
	var err error
	if occasion.Recurrence, err = unmarshalRecurrence(recurrence); err != nil {
		return nil, err
	}
	return &occasion, nil
}
