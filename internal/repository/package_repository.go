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
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const pgUniqueViolation = "23505"

var packageColumns = []string{
	"id", "title", "slug", "description", "short_description", "thumbnail",
	"price", "currency", "duration", "destination", "destinations", "images",
	"category", "inclusions", "exclusions", "itinerary", "highlights",
	"is_active", "is_featured", "max_travelers", "min_travelers",
	"departure_dates", "booking_deadline", "tags", "meta",
	"created_at", "updated_at",
}

type PackageRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewPackageRepository(db *pgxpool.Pool) *PackageRepo {
	return &PackageRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PackageRepo) SavePackage(ctx context.Context, pkg models.TravelPackage) (uuid.UUID, error) {
	const op = "repository.package_repository.SavePackage"

	query, args, err := r.sb.Insert("travel_packages").
		Columns(
			"title", "slug", "description", "short_description", "thumbnail",
			"price", "currency", "duration", "destination", "destinations",
			"images", "category", "inclusions", "exclusions", "itinerary",
			"highlights", "is_active", "is_featured", "max_travelers",
			"min_travelers", "departure_dates", "booking_deadline", "tags", "meta",
		).
		Values(
			pkg.Title, pkg.Slug, pkg.Description, pkg.ShortDescription, pkg.Thumbnail,
			pkg.Price, pkg.Currency, pkg.Duration, pkg.Destination, pkg.Destinations,
			pkg.Images, pkg.Category, pkg.Inclusions, pkg.Exclusions, pkg.Itinerary,
			pkg.Highlights, pkg.IsActive, pkg.IsFeatured, pkg.MaxTravelers,
			pkg.MinTravelers, pkg.DepartureDates, pkg.BookingDeadline, pkg.Tags, pkg.Meta,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	err = r.db.QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrSlugExists)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *PackageRepo) GetPackageByID(ctx context.Context, id uuid.UUID) (*models.TravelPackage, error) {
	const op = "repository.package_repository.GetPackageByID"

	query, args, err := r.sb.Select(packageColumns...).
		From("travel_packages").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.scanPackage(ctx, op, query, args)
}

func (r *PackageRepo) GetPackageBySlug(ctx context.Context, slug string, onlyActive bool) (*models.TravelPackage, error) {
	const op = "repository.package_repository.GetPackageBySlug"

	builder := r.sb.Select(packageColumns...).
		From("travel_packages").
		Where(sq.Eq{"slug": slug})

	if onlyActive {
		builder = builder.Where(sq.Eq{"is_active": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.scanPackage(ctx, op, query, args)
}

func (r *PackageRepo) scanPackage(ctx context.Context, op, query string, args []interface{}) (*models.TravelPackage, error) {
	var pkg models.TravelPackage

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&pkg.ID, &pkg.Title, &pkg.Slug, &pkg.Description, &pkg.ShortDescription,
		&pkg.Thumbnail, &pkg.Price, &pkg.Currency, &pkg.Duration, &pkg.Destination,
		&pkg.Destinations, &pkg.Images, &pkg.Category, &pkg.Inclusions,
		&pkg.Exclusions, &pkg.Itinerary, &pkg.Highlights, &pkg.IsActive,
		&pkg.IsFeatured, &pkg.MaxTravelers, &pkg.MinTravelers, &pkg.DepartureDates,
		&pkg.BookingDeadline, &pkg.Tags, &pkg.Meta, &pkg.CreatedAt, &pkg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrPackageNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &pkg, nil
}

func (r *PackageRepo) ListPackages(ctx context.Context, filter PackageFilter) ([]models.TravelPackage, error) {
	const op = "repository.package_repository.ListPackages"

	builder := r.sb.Select(packageColumns...).
		From("travel_packages").
		OrderBy("created_at DESC")

	if filter.IsActive != nil {
		builder = builder.Where(sq.Eq{"is_active": *filter.IsActive})
	}
	if filter.IsFeatured != nil {
		builder = builder.Where(sq.Eq{"is_featured": *filter.IsFeatured})
	}
	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}
	if filter.Destination != "" {
		builder = builder.Where(sq.ILike{"destination": "%" + filter.Destination + "%"})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Skip > 0 {
		builder = builder.Offset(uint64(filter.Skip))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var packages []models.TravelPackage
	for rows.Next() {
		var pkg models.TravelPackage
		err := rows.Scan(
			&pkg.ID, &pkg.Title, &pkg.Slug, &pkg.Description, &pkg.ShortDescription,
			&pkg.Thumbnail, &pkg.Price, &pkg.Currency, &pkg.Duration, &pkg.Destination,
			&pkg.Destinations, &pkg.Images, &pkg.Category, &pkg.Inclusions,
			&pkg.Exclusions, &pkg.Itinerary, &pkg.Highlights, &pkg.IsActive,
			&pkg.IsFeatured, &pkg.MaxTravelers, &pkg.MinTravelers, &pkg.DepartureDates,
			&pkg.BookingDeadline, &pkg.Tags, &pkg.Meta, &pkg.CreatedAt, &pkg.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		packages = append(packages, pkg)
	}

	return packages, nil
}

// PackageUpdatableColumns колонки, которые UpdatePackageFields принимает в updates.
// updated_at репозиторий проставляет сам.
var PackageUpdatableColumns = map[string]bool{
	"title": true, "slug": true, "description": true, "short_description": true,
	"thumbnail": true, "price": true, "currency": true, "duration": true,
	"destination": true, "destinations": true, "images": true, "category": true,
	"inclusions": true, "exclusions": true, "itinerary": true, "highlights": true,
	"is_active": true, "is_featured": true, "max_travelers": true,
	"min_travelers": true, "departure_dates": true, "booking_deadline": true,
	"tags": true, "meta": true,
}

func (r *PackageRepo) UpdatePackageFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	const op = "repository.package_repository.UpdatePackageFields"

	if len(updates) == 0 {
		return fmt.Errorf("%s: no fields to update", op)
	}

	builder := r.sb.Update("travel_packages").
		Set("updated_at", time.Now())

	for field, value := range updates {
		if !PackageUpdatableColumns[field] {
			return fmt.Errorf("%s: field '%s' is not allowed for update", op, field)
		}
		builder = builder.Set(field, value)
	}

	query, args, err := builder.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrSlugExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPackageNotFound)
	}

	return nil
}

func (r *PackageRepo) DeletePackage(ctx context.Context, id uuid.UUID) error {
	const op = "repository.package_repository.DeletePackage"

	query, args, err := r.sb.Delete("travel_packages").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPackageNotFound)
	}

	return nil
}

// PackageSlugExists быстрая проверка занятости slug; гарантию уникальности
// дает уникальный индекс в базе, а не эта проверка.
func (r *PackageRepo) PackageSlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	const op = "repository.package_repository.PackageSlugExists"

	builder := r.sb.Select("1").
		From("travel_packages").
		Where(sq.Eq{"slug": slug})

	if excludeID != uuid.Nil {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}

	query, args, err := builder.Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var one int
	err = r.db.QueryRow(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

func (r *PackageRepo) CountPackages(ctx context.Context) (int, error) {
	const op = "repository.package_repository.CountPackages"

	query, args, err := r.sb.Select("COUNT(*)").From("travel_packages").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}
