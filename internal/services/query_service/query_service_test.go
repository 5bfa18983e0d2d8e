package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"travkings/internal/domain/models"
	"travkings/internal/repository"
	"travkings/internal/storage"
	"travkings/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockQueryRepository реализация мок-репозитория
type MockQueryRepository struct {
	mock.Mock
}

func (m *MockQueryRepository) SaveQuery(ctx context.Context, query models.Query) (uuid.UUID, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockQueryRepository) GetQueryByID(ctx context.Context, id uuid.UUID) (*models.Query, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Query), args.Error(1)
}

func (m *MockQueryRepository) ListQueries(ctx context.Context, filter repository.QueryFilter) ([]models.Query, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Query), args.Error(1)
}

func (m *MockQueryRepository) UpdateQueryStatus(ctx context.Context, id uuid.UUID, status models.QueryStatus, resolvedAt *time.Time) error {
	args := m.Called(ctx, id, status, resolvedAt)
	return args.Error(0)
}

func (m *MockQueryRepository) DeleteQuery(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQueryRepository) CountQueries(ctx context.Context, status models.QueryStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

func TestQueryService_CreateQuery(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()
	testID := uuid.New()

	tests := []struct {
		name      string
		req       dto.CreateQueryRequest
		mockSetup func(repo *MockQueryRepository)
		checkVErr bool
	}{
		{
			name: "successful creation defaults to pending and contact_form",
			req: dto.CreateQueryRequest{
				Name:    "Ivan",
				Email:   "ivan@example.com",
				Service: "honeymoon",
				Message: "Looking for a package in May",
			},
			mockSetup: func(repo *MockQueryRepository) {
				repo.On("SaveQuery", ctx, mock.MatchedBy(func(q models.Query) bool {
					return q.Status == models.QueryStatusPending && q.Source == models.DefaultQuerySource
				})).Return(testID, nil)
				repo.On("GetQueryByID", ctx, testID).Return(&models.Query{ID: testID}, nil)
			},
		},
		{
			name: "invalid email rejected",
			req: dto.CreateQueryRequest{
				Name:    "Ivan",
				Email:   "not-an-email",
				Service: "honeymoon",
				Message: "Hello",
			},
			mockSetup: func(repo *MockQueryRepository) {},
			checkVErr: true,
		},
		{
			name: "missing message rejected",
			req: dto.CreateQueryRequest{
				Name:    "Ivan",
				Email:   "ivan@example.com",
				Service: "honeymoon",
			},
			mockSetup: func(repo *MockQueryRepository) {},
			checkVErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockQueryRepository)
			service := NewQueryService(log, repo)

			tt.mockSetup(repo)

			query, err := service.CreateQuery(ctx, tt.req)

			if tt.checkVErr {
				require.Error(t, err)
				assert.True(t, models.IsValidationError(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, testID, query.ID)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestQueryService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()
	id := uuid.New()

	t.Run("resolving sets resolvedAt", func(t *testing.T) {
		repo := new(MockQueryRepository)
		service := NewQueryService(log, repo)

		repo.On("UpdateQueryStatus", ctx, id, models.QueryStatusResolved, mock.MatchedBy(func(ts *time.Time) bool {
			return ts != nil
		})).Return(nil)
		repo.On("GetQueryByID", ctx, id).Return(&models.Query{ID: id, Status: models.QueryStatusResolved}, nil)

		query, err := service.UpdateStatus(ctx, id, models.QueryStatusResolved)

		require.NoError(t, err)
		assert.Equal(t, models.QueryStatusResolved, query.Status)
		repo.AssertExpectations(t)
	})

	t.Run("reopening clears resolvedAt", func(t *testing.T) {
		repo := new(MockQueryRepository)
		service := NewQueryService(log, repo)

		repo.On("UpdateQueryStatus", ctx, id, models.QueryStatusPending, (*time.Time)(nil)).Return(nil)
		repo.On("GetQueryByID", ctx, id).Return(&models.Query{ID: id, Status: models.QueryStatusPending}, nil)

		_, err := service.UpdateStatus(ctx, id, models.QueryStatusPending)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		repo := new(MockQueryRepository)
		service := NewQueryService(log, repo)

		_, err := service.UpdateStatus(ctx, id, "archived")

		require.Error(t, err)
		assert.True(t, models.IsValidationError(err))
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := new(MockQueryRepository)
		service := NewQueryService(log, repo)

		repo.On("UpdateQueryStatus", ctx, id, models.QueryStatusResolved, mock.Anything).Return(storage.ErrQueryNotFound)

		_, err := service.UpdateStatus(ctx, id, models.QueryStatusResolved)

		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrQueryNotFound)
	})
}
