package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travkings/internal/domain/models"
	"travkings/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var queryColumns = []string{
	"id", "name", "email", "phone", "service", "travel_date", "message",
	"status", "source", "package_id", "resolved_at", "created_at", "updated_at",
}

type QueryRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewQueryRepository(db *pgxpool.Pool) *QueryRepo {
	return &QueryRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *QueryRepo) SaveQuery(ctx context.Context, query models.Query) (uuid.UUID, error) {
	const op = "repository.query_repository.SaveQuery"

	sql, args, err := r.sb.Insert("queries").
		Columns(
			"name", "email", "phone", "service", "travel_date",
			"message", "status", "source", "package_id",
		).
		Values(
			query.Name, query.Email, query.Phone, query.Service, query.TravelDate,
			query.Message, query.Status, query.Source, query.PackageID,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *QueryRepo) GetQueryByID(ctx context.Context, id uuid.UUID) (*models.Query, error) {
	const op = "repository.query_repository.GetQueryByID"

	sql, args, err := r.sb.Select(queryColumns...).
		From("queries").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var q models.Query
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&q.ID, &q.Name, &q.Email, &q.Phone, &q.Service, &q.TravelDate,
		&q.Message, &q.Status, &q.Source, &q.PackageID, &q.ResolvedAt,
		&q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrQueryNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &q, nil
}

func (r *QueryRepo) ListQueries(ctx context.Context, filter QueryFilter) ([]models.Query, error) {
	const op = "repository.query_repository.ListQueries"

	builder := r.sb.Select(queryColumns...).
		From("queries").
		OrderBy("created_at DESC")

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Email != "" {
		builder = builder.Where(sq.ILike{"email": "%" + filter.Email + "%"})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Skip > 0 {
		builder = builder.Offset(uint64(filter.Skip))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var queries []models.Query
	for rows.Next() {
		var q models.Query
		err := rows.Scan(
			&q.ID, &q.Name, &q.Email, &q.Phone, &q.Service, &q.TravelDate,
			&q.Message, &q.Status, &q.Source, &q.PackageID, &q.ResolvedAt,
			&q.CreatedAt, &q.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		queries = append(queries, q)
	}

	return queries, nil
}

// UpdateQueryStatus единственный путь изменения обращения: pending <-> resolved
func (r *QueryRepo) UpdateQueryStatus(ctx context.Context, id uuid.UUID, status models.QueryStatus, resolvedAt *time.Time) error {
	const op = "repository.query_repository.UpdateQueryStatus"

	sql, args, err := r.sb.Update("queries").
		Set("status", status).
		Set("resolved_at", resolvedAt).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrQueryNotFound)
	}

	return nil
}

func (r *QueryRepo) DeleteQuery(ctx context.Context, id uuid.UUID) error {
	const op = "repository.query_repository.DeleteQuery"

	sql, args, err := r.sb.Delete("queries").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrQueryNotFound)
	}

	return nil
}

func (r *QueryRepo) CountQueries(ctx context.Context, status models.QueryStatus) (int, error) {
	const op = "repository.query_repository.CountQueries"

	builder := r.sb.Select("COUNT(*)").From("queries")
	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}
