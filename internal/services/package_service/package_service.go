package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"travkings/internal/cache"
	"travkings/internal/domain/models"
	"travkings/internal/lib/logger/sl"
	"travkings/internal/metrics"
	"travkings/internal/repository"
	"travkings/internal/storage"
	filestorage "travkings/internal/storage/filestorage"
	"travkings/internal/transport/http/dto"

	"github.com/google/uuid"
)

type PackageService struct {
	log         *slog.Logger
	repo        repository.PackageRepository
	images      filestorage.ImageStore
	invalidator cache.Invalidator
}

func NewPackageService(log *slog.Logger, repo repository.PackageRepository, images filestorage.ImageStore, invalidator cache.Invalidator) *PackageService {
	return &PackageService{
		log:         log,
		repo:        repo,
		images:      images,
		invalidator: invalidator,
	}
}

// CreatePackage создает пакет вместе с обложкой.
// Файл пишется до вставки в БД; если вставка не удалась, файл удаляется.
func (s *PackageService) CreatePackage(ctx context.Context, req dto.CreatePackageRequest, thumbnail *multipart.FileHeader) (*models.TravelPackage, error) {
	const op = "package_service.CreatePackage"
	log := s.log.With(
		slog.String("op", op),
		slog.String("slug", req.Slug),
	)

	log.Info("creating travel package", slog.String("title", req.Title))

	pkg := req.ToDomain()

	if !models.ValidSlug(pkg.Slug) {
		return nil, &models.ValidationError{Errors: []string{"invalid slug format"}}
	}

	exists, err := s.repo.PackageSlugExists(ctx, pkg.Slug, uuid.Nil)
	if err != nil {
		log.Error("failed to check slug", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrSlugExists)
	}

	if thumbnail == nil {
		return nil, &models.ValidationError{Errors: []string{"thumbnail is required"}}
	}

	filename, err := s.images.Save(ctx, thumbnail, filestorage.KindPackage)
	if err != nil {
		log.Error("failed to save thumbnail", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	pkg.Thumbnail = filename

	if err := pkg.Validate(); err != nil {
		_ = s.images.Delete(ctx, filestorage.KindPackage, filename)
		return nil, err
	}

	now := time.Now()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now

	id, err := s.repo.SavePackage(ctx, pkg)
	if err != nil {
		// гонка двух одинаковых slug проходит предварительную проверку,
		// уникальный индекс ловит ее здесь; файл больше никому не нужен
		_ = s.images.Delete(ctx, filestorage.KindPackage, filename)
		log.Error("failed to save package", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.ContentWritesTotal.WithLabelValues("package", "create").Inc()
	s.invalidator.Invalidate(ctx, "/", "/packages", "/packages/"+pkg.Slug)

	log.Info("package created", slog.String("package_id", id.String()))

	return s.repo.GetPackageByID(ctx, id)
}

// UpdatePackage частично обновляет пакет.
// Новая обложка записывается первой, прежняя удаляется только после успеха.
func (s *PackageService) UpdatePackage(ctx context.Context, id uuid.UUID, req dto.UpdatePackageRequest, thumbnail *multipart.FileHeader) (*models.TravelPackage, error) {
	const op = "package_service.UpdatePackage"
	log := s.log.With(
		slog.String("op", op),
		slog.String("package_id", id.String()),
	)

	log.Info("updating travel package")

	existing, err := s.repo.GetPackageByID(ctx, id)
	if err != nil {
		log.Error("failed to get package", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updates := make(map[string]interface{})

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Slug != nil && *req.Slug != existing.Slug {
		if !models.ValidSlug(*req.Slug) {
			return nil, &models.ValidationError{Errors: []string{"invalid slug format"}}
		}
		taken, err := s.repo.PackageSlugExists(ctx, *req.Slug, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if taken {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrSlugExists)
		}
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ShortDescription != nil {
		updates["short_description"] = *req.ShortDescription
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.Destination != nil {
		updates["destination"] = *req.Destination
	}
	if req.Destinations != nil {
		updates["destinations"] = req.Destinations
	}
	if req.Images != nil {
		updates["images"] = req.Images
	}
	if req.Category != nil {
		if !models.ValidPackageCategory(*req.Category) {
			return nil, &models.ValidationError{Errors: []string{fmt.Sprintf("invalid category '%s'", *req.Category)}}
		}
		updates["category"] = *req.Category
	}
	if req.Inclusions != nil {
		updates["inclusions"] = req.Inclusions
	}
	if req.Exclusions != nil {
		updates["exclusions"] = req.Exclusions
	}
	if req.Itinerary != nil {
		updates["itinerary"] = req.Itinerary
	}
	if req.Highlights != nil {
		updates["highlights"] = req.Highlights
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.MaxTravelers != nil {
		updates["max_travelers"] = *req.MaxTravelers
	}
	if req.MinTravelers != nil {
		updates["min_travelers"] = *req.MinTravelers
	}
	if req.DepartureDates != nil {
		updates["departure_dates"] = req.DepartureDates
	}
	if req.BookingDeadline != nil {
		updates["booking_deadline"] = req.BookingDeadline
	}
	if req.Tags != nil {
		updates["tags"] = req.Tags
	}
	if req.Meta != nil {
		updates["meta"] = req.Meta
	}

	if thumbnail != nil {
		filename, err := s.images.Replace(ctx, thumbnail, filestorage.KindPackage, existing.Thumbnail)
		if err != nil {
			log.Error("failed to replace thumbnail", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		updates["thumbnail"] = filename
	} else if req.Thumbnail != nil {
		// имя уже загруженного файла, переданное строкой, сохраняем как есть
		updates["thumbnail"] = *req.Thumbnail
	}

	// updated_at проставляет репозиторий
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.UpdatePackageFields(ctx, id, updates); err != nil {
		log.Error("failed to update package", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.ContentWritesTotal.WithLabelValues("package", "update").Inc()

	paths := []string{"/", "/packages", "/packages/" + existing.Slug}
	if slug, ok := updates["slug"].(string); ok {
		paths = append(paths, "/packages/"+slug)
	}
	s.invalidator.Invalidate(ctx, paths...)

	log.Info("package updated")

	return s.repo.GetPackageByID(ctx, id)
}

// GetPackageByID возвращает пакет по идентификатору (включая неактивные)
func (s *PackageService) GetPackageByID(ctx context.Context, id uuid.UUID) (*models.TravelPackage, error) {
	const op = "package_service.GetPackageByID"

	pkg, err := s.repo.GetPackageByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pkg, nil
}

// GetPackageBySlug возвращает активный пакет для публичной страницы
func (s *PackageService) GetPackageBySlug(ctx context.Context, slug string) (*models.TravelPackage, error) {
	const op = "package_service.GetPackageBySlug"

	pkg, err := s.repo.GetPackageBySlug(ctx, slug, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pkg, nil
}

// ListPackages возвращает пакеты по фильтру
func (s *PackageService) ListPackages(ctx context.Context, filter repository.PackageFilter) ([]models.TravelPackage, error) {
	const op = "package_service.ListPackages"
	log := s.log.With(slog.String("op", op))

	packages, err := s.repo.ListPackages(ctx, filter)
	if err != nil {
		log.Error("failed to list packages", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return packages, nil
}

// DeletePackage удаляет пакет и его обложку.
// Отсутствие файла обложки не мешает удалению записи.
func (s *PackageService) DeletePackage(ctx context.Context, id uuid.UUID) error {
	const op = "package_service.DeletePackage"
	log := s.log.With(
		slog.String("op", op),
		slog.String("package_id", id.String()),
	)

	log.Info("deleting travel package")

	pkg, err := s.repo.GetPackageByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.images.Delete(ctx, filestorage.KindPackage, pkg.Thumbnail); err != nil {
		log.Warn("failed to delete thumbnail", sl.Err(err))
	}

	if err := s.repo.DeletePackage(ctx, id); err != nil {
		log.Error("failed to delete package", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.ContentWritesTotal.WithLabelValues("package", "delete").Inc()
	s.invalidator.Invalidate(ctx, "/", "/packages", "/packages/"+pkg.Slug)

	log.Info("package deleted")

	return nil
}

// CountPackages возвращает общее число пакетов для панели администратора
func (s *PackageService) CountPackages(ctx context.Context) (int, error) {
	const op = "package_service.CountPackages"

	count, err := s.repo.CountPackages(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}
