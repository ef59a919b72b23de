package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/parishdesk/parishdesk/internal/domain"
	"github.com/parishdesk/parishdesk/internal/ptr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository is a minimal hand-written mock for testing service logic.
type mockRepository struct {
	createOccasionFn func(ctx context.Context, occasion *domain.Occasion) (*domain.Occasion, error)
	createSessionFn  func(ctx context.Context, session *domain.Session) (*domain.Session, error)
	createSessionsFn func(ctx context.Context, sessions []*domain.Session) ([]*domain.Session, error)
	closeExpiredFn   func(ctx context.Context, now time.Time) (int64, error)
	findOccasionFn   func(ctx context.Context, id string) (*domain.Occasion, error)
	listSessionsFn   func(ctx context.Context, params domain.ListSessionsParams) (*domain.PagedSessions, error)
}

func (m *mockRepository) CreateOccasion(ctx context.Context, occasion *domain.Occasion) (*domain.Occasion, error) {
	if m.createOccasionFn != nil {
		return m.createOccasionFn(ctx, occasion)
	}
	return occasion, nil
}

func (m *mockRepository) FindOccasionByID(ctx context.Context, id string) (*domain.Occasion, error) {
	if m.findOccasionFn != nil {
		return m.findOccasionFn(ctx, id)
	}
	panic("not used in this test")
}

func (m *mockRepository) ListOccasions(ctx context.Context, params domain.ListOccasionsParams) (*domain.PagedOccasions, error) {
	panic("not used in this test")
}

func (m *mockRepository) UpdateOccasion(ctx context.Context, params domain.UpdateOccasionParams) (*domain.Occasion, error) {
	panic("not used in this test")
}

func (m *mockRepository) DeleteOccasion(ctx context.Context, id string) error {
	panic("not used in this test")
}

func (m *mockRepository) CreateSession(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	if m.createSessionFn != nil {
		return m.createSessionFn(ctx, session)
	}
	return session, nil
}

func (m *mockRepository) CreateSessions(ctx context.Context, sessions []*domain.Session) ([]*domain.Session, error) {
	if m.createSessionsFn != nil {
		return m.createSessionsFn(ctx, sessions)
	}
	return sessions, nil
}

func (m *mockRepository) FindSessionByID(ctx context.Context, id string) (*domain.Session, error) {
	panic("not used in this test")
}

func (m *mockRepository) ListSessions(ctx context.Context, params domain.ListSessionsParams) (*domain.PagedSessions, error) {
	if m.listSessionsFn != nil {
		return m.listSessionsFn(ctx, params)
	}
	panic("not used in this test")
}

func (m *mockRepository) UpdateSession(ctx context.Context, params domain.UpdateSessionParams) (*domain.Session, error) {
	panic("not used in this test")
}

func (m *mockRepository) DeleteSession(ctx context.Context, id string) error {
	panic("not used in this test")
}

func (m *mockRepository) CloseExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	if m.closeExpiredFn != nil {
		return m.closeExpiredFn(ctx, now)
	}
	return 0, nil
}

func testDrafts(t *testing.T, count int) []DraftSession {
	t.Helper()
	occ := recurringOccasion()
	w := NewWizard()
	req := baseRequest(occ)
	req.Mode = ModeBulk
	switch count {
	case 1:
		req.Option = domain.BulkNext1Session
	case 2:
		req.Option = domain.BulkNext2Sessions
	default:
		req.Option = domain.BulkNext3Sessions
	}
	drafts, err := w.Generate(req)
	require.NoError(t, err)
	require.Len(t, drafts, count)
	return drafts
}

func TestCreateOccasion(t *testing.T) {
	svc := NewService(&mockRepository{}, Config{})
	ctx := context.Background()

	t.Run("valid recurring occasion", func(t *testing.T) {
		rule := &domain.RecurrenceRule{
			Frequency: domain.FrequencyWeekly,
			StartDate: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		}
		occ, err := svc.CreateOccasion(ctx, "Sunday Service", rule)
		require.NoError(t, err)
		assert.NotEmpty(t, occ.ID)
		assert.True(t, occ.IsRecurring())
		assert.Equal(t, 1, occ.Recurrence.Interval, "zero interval defaults to 1")
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := svc.CreateOccasion(ctx, "   ", nil)
		assert.ErrorIs(t, err, domain.ErrNameRequired)
	})

	t.Run("weekday set on monthly rule rejected", func(t *testing.T) {
		rule := &domain.RecurrenceRule{
			Frequency: domain.FrequencyMonthly,
			Interval:  1,
			ByWeekday: []time.Weekday{time.Sunday},
			StartDate: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		}
		_, err := svc.CreateOccasion(ctx, "Board Meeting", rule)
		assert.ErrorIs(t, err, domain.ErrWeekdaysRequireWeekly)
	})
}

func TestSubmitDrafts(t *testing.T) {
	ctx := context.Background()

	t.Run("single draft uses the single-create path", func(t *testing.T) {
		var singleCalls, bulkCalls int
		repo := &mockRepository{
			createSessionFn: func(ctx context.Context, session *domain.Session) (*domain.Session, error) {
				singleCalls++
				return session, nil
			},
			createSessionsFn: func(ctx context.Context, sessions []*domain.Session) ([]*domain.Session, error) {
				bulkCalls++
				return sessions, nil
			},
		}
		svc := NewService(repo, Config{})

		created, err := svc.SubmitDrafts(ctx, testDrafts(t, 1))
		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.Equal(t, 1, singleCalls)
		assert.Equal(t, 0, bulkCalls)
	})

	t.Run("multiple drafts use the bulk path", func(t *testing.T) {
		var bulkCalls int
		repo := &mockRepository{
			createSessionsFn: func(ctx context.Context, sessions []*domain.Session) ([]*domain.Session, error) {
				bulkCalls++
				return sessions, nil
			},
		}
		svc := NewService(repo, Config{})

		created, err := svc.SubmitDrafts(ctx, testDrafts(t, 3))
		require.NoError(t, err)
		require.Len(t, created, 3)
		assert.Equal(t, 1, bulkCalls)
	})

	t.Run("sessions get server ids distinct from draft tokens", func(t *testing.T) {
		svc := NewService(&mockRepository{}, Config{})
		drafts := testDrafts(t, 2)

		created, err := svc.SubmitDrafts(ctx, drafts)
		require.NoError(t, err)
		for i, session := range created {
			assert.NotEmpty(t, session.ID)
			assert.NotEqual(t, drafts[i].Token, session.ID)
			assert.Equal(t, drafts[i].Name, session.Name)
			assert.Equal(t, drafts[i].StartTime, session.StartTime)
		}
	})

	t.Run("conflict errors pass through with their message intact", func(t *testing.T) {
		conflictErr := &ConflictError{Mode: ConflictModeBulk, Items: []string{"A @ 10:00", "B @ 11:00"}}
		repo := &mockRepository{
			createSessionsFn: func(ctx context.Context, sessions []*domain.Session) ([]*domain.Session, error) {
				return nil, conflictErr
			},
		}
		svc := NewService(repo, Config{})

		_, err := svc.SubmitDrafts(ctx, testDrafts(t, 2))
		require.Error(t, err)

		info := ParseConflictError(err.Error())
		require.NotNil(t, info, "conflict protocol must survive the service boundary")
		assert.Equal(t, ConflictModeBulk, info.Mode)
		assert.Len(t, info.Items, 2)
	})

	t.Run("no drafts rejected", func(t *testing.T) {
		svc := NewService(&mockRepository{}, Config{})
		_, err := svc.SubmitDrafts(ctx, nil)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestCloseExpiredSessions(t *testing.T) {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	repo := &mockRepository{
		closeExpiredFn: func(ctx context.Context, got time.Time) (int64, error) {
			assert.Equal(t, now, got)
			return 4, nil
		},
	}
	svc := NewService(repo, Config{})

	closed, err := svc.CloseExpiredSessions(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), closed)
}

func TestListSessionsPaging(t *testing.T) {
	repo := &mockRepository{
		listSessionsFn: func(ctx context.Context, params domain.ListSessionsParams) (*domain.PagedSessions, error) {
			assert.Equal(t, DefaultPageSize, params.Limit, "zero limit gets the default")
			assert.Equal(t, 0, params.Offset, "negative offset is clamped")
			return &domain.PagedSessions{}, nil
		},
	}
	svc := NewService(repo, Config{})

	_, err := svc.ListSessions(context.Background(), domain.ListSessionsParams{
		OccasionID: ptr.To("occ-1"),
		Offset:     -5,
	})
	require.NoError(t, err)
}
