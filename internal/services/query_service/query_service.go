package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"travkings/internal/domain/models"
	"travkings/internal/lib/logger/sl"
	"travkings/internal/metrics"
	"travkings/internal/repository"
	"travkings/internal/transport/http/dto"

	"github.com/google/uuid"
)

type QueryService struct {
	log  *slog.Logger
	repo repository.QueryRepository
}

func NewQueryService(log *slog.Logger, repo repository.QueryRepository) *QueryService {
	return &QueryService{log: log, repo: repo}
}

// CreateQuery сохраняет обращение с публичной контактной формы
func (s *QueryService) CreateQuery(ctx context.Context, req dto.CreateQueryRequest) (*models.Query, error) {
	const op = "query_service.CreateQuery"
	log := s.log.With(
		slog.String("op", op),
		slog.String("email", req.Email),
	)

	log.Info("creating customer query", slog.String("service", req.Service))

	query := req.ToDomain()

	if err := query.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	query.CreatedAt = now
	query.UpdatedAt = now

	id, err := s.repo.SaveQuery(ctx, query)
	if err != nil {
		log.Error("failed to save query", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.ContentWritesTotal.WithLabelValues("query", "create").Inc()

	log.Info("query created", slog.String("query_id", id.String()))

	return s.repo.GetQueryByID(ctx, id)
}

// GetQueryByID возвращает обращение по идентификатору
func (s *QueryService) GetQueryByID(ctx context.Context, id uuid.UUID) (*models.Query, error) {
	const op = "query_service.GetQueryByID"

	query, err := s.repo.GetQueryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return query, nil
}

// ListQueries возвращает обращения по фильтру
func (s *QueryService) ListQueries(ctx context.Context, filter repository.QueryFilter) ([]models.Query, error) {
	const op = "query_service.ListQueries"
	log := s.log.With(slog.String("op", op))

	queries, err := s.repo.ListQueries(ctx, filter)
	if err != nil {
		log.Error("failed to list queries", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return queries, nil
}

// UpdateStatus переводит обращение между pending и resolved.
// Метка resolvedAt существует только у разрешенных обращений.
func (s *QueryService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.QueryStatus) (*models.Query, error) {
	const op = "query_service.UpdateStatus"
	log := s.log.With(
		slog.String("op", op),
		slog.String("query_id", id.String()),
		slog.String("status", string(status)),
	)

	if !models.ValidQueryStatus(status) {
		return nil, &models.ValidationError{Errors: []string{fmt.Sprintf("invalid status '%s'", status)}}
	}

	log.Info("updating query status")

	var resolvedAt *time.Time
	if status == models.QueryStatusResolved {
		now := time.Now()
		resolvedAt = &now
	}

	if err := s.repo.UpdateQueryStatus(ctx, id, status, resolvedAt); err != nil {
		log.Error("failed to update query status", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.ContentWritesTotal.WithLabelValues("query", "update").Inc()

	log.Info("query status updated")

	return s.repo.GetQueryByID(ctx, id)
}

// DeleteQuery удаляет обращение
func (s *QueryService) DeleteQuery(ctx context.Context, id uuid.UUID) error {
	const op = "query_service.DeleteQuery"
	log := s.log.With(
		slog.String("op", op),
		slog.String("query_id", id.String()),
	)

	log.Info("deleting query")

	if err := s.repo.DeleteQuery(ctx, id); err != nil {
		log.Error("failed to delete query", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.ContentWritesTotal.WithLabelValues("query", "delete").Inc()

	log.Info("query deleted")

	return nil
}

// CountQueries возвращает число обращений с данным статусом (пустой статус — все)
func (s *QueryService) CountQueries(ctx context.Context, status models.QueryStatus) (int, error) {
	const op = "query_service.CountQueries"

	count, err := s.repo.CountQueries(ctx, status)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}
