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

type BlogService struct {
	log         *slog.Logger
	repo        repository.BlogRepository
	images      filestorage.ImageStore
	invalidator cache.Invalidator
}

func NewBlogService(log *slog.Logger, repo repository.BlogRepository, images filestorage.ImageStore, invalidator cache.Invalidator) *BlogService {
	return &BlogService{
		log:         log,
		repo:        repo,
		images:      images,
		invalidator: invalidator,
	}
}

// CreateBlog создает статью вместе с обложкой.
// Файл пишется до вставки в БД; если вставка не удалась, файл удаляется.
func (s *BlogService) CreateBlog(ctx context.Context, req dto.CreateBlogRequest, thumbnail *multipart.FileHeader) (*models.Blog, error) {
	const op = "blog_service.CreateBlog"
	log := s.log.With(
		slog.String("op", op),
		slog.String("slug", req.Slug),
	)

	log.Info("creating blog", slog.String("title", req.Title))

	blog := req.ToDomain()

	if !models.ValidSlug(blog.Slug) {
		return nil, &models.ValidationError{Errors: []string{"invalid slug format"}}
	}

	exists, err := s.repo.BlogSlugExists(ctx, blog.Slug, uuid.Nil)
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

	filename, err := s.images.Save(ctx, thumbnail, filestorage.KindBlog)
	if err != nil {
		log.Error("failed to save thumbnail", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	blog.Thumbnail = filename

	if err := blog.Validate(); err != nil {
		_ = s.images.Delete(ctx, filestorage.KindBlog, filename)
		return nil, err
	}

	now := time.Now()
	blog.CreatedAt = now
	blog.UpdatedAt = now

	// статья, созданная сразу опубликованной, получает метку публикации
	if blog.IsPublished {
		blog.PublishedAt = &now
	}

	id, err := s.repo.SaveBlog(ctx, blog)
	if err != nil {
		_ = s.images.Delete(ctx, filestorage.KindBlog, filename)
		log.Error("failed to save blog", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.ContentWritesTotal.WithLabelValues("blog", "create").Inc()
	s.invalidator.Invalidate(ctx, "/", "/blogs", "/blogs/"+blog.Slug)

	log.Info("blog created", slog.String("blog_id", id.String()))

	return s.repo.GetBlogByID(ctx, id)
}

// UpdateBlog частично обновляет статью.
// Переход в published ставит метку публикации, обратный переход снимает ее.
func (s *BlogService) UpdateBlog(ctx context.Context, id uuid.UUID, req dto.UpdateBlogRequest, thumbnail *multipart.FileHeader) (*models.Blog, error) {
	const op = "blog_service.UpdateBlog"
	log := s.log.With(
		slog.String("op", op),
		slog.String("blog_id", id.String()),
	)

	log.Info("updating blog")

	existing, err := s.repo.GetBlogByID(ctx, id)
	if err != nil {
		log.Error("failed to get blog", sl.Err(err))
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
		taken, err := s.repo.BlogSlugExists(ctx, *req.Slug, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if taken {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrSlugExists)
		}
		updates["slug"] = *req.Slug
	}
	if req.Excerpt != nil {
		updates["excerpt"] = *req.Excerpt
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Author != nil {
		updates["author"] = *req.Author
	}
	if req.Category != nil {
		if !models.ValidBlogCategory(*req.Category) {
			return nil, &models.ValidationError{Errors: []string{fmt.Sprintf("invalid category '%s'", *req.Category)}}
		}
		updates["category"] = *req.Category
	}
	if req.Tags != nil {
		if len(req.Tags) > models.MaxBlogTags {
			return nil, &models.ValidationError{Errors: []string{fmt.Sprintf("cannot have more than %d tags", models.MaxBlogTags)}}
		}
		updates["tags"] = req.Tags
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.Meta != nil {
		updates["meta"] = req.Meta
	}

	if req.IsPublished != nil && *req.IsPublished != existing.IsPublished {
		updates["is_published"] = *req.IsPublished
		if *req.IsPublished {
			now := time.Now()
			updates["published_at"] = &now
		} else {
			updates["published_at"] = nil
		}
	}

	if thumbnail != nil {
		filename, err := s.images.Replace(ctx, thumbnail, filestorage.KindBlog, existing.Thumbnail)
		if err != nil {
			log.Error("failed to replace thumbnail", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		updates["thumbnail"] = filename
	} else if req.Thumbnail != nil {
		updates["thumbnail"] = *req.Thumbnail
	}

	// updated_at проставляет репозиторий
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.UpdateBlogFields(ctx, id, updates); err != nil {
		log.Error("failed to update blog", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.ContentWritesTotal.WithLabelValues("blog", "update").Inc()

	paths := []string{"/", "/blogs", "/blogs/" + existing.Slug}
	if slug, ok := updates["slug"].(string); ok {
		paths = append(paths, "/blogs/"+slug)
	}
	s.invalidator.Invalidate(ctx, paths...)

	log.Info("blog updated")

	return s.repo.GetBlogByID(ctx, id)
}

// GetBlogByID возвращает статью по идентификатору (включая черновики)
func (s *BlogService) GetBlogByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	const op = "blog_service.GetBlogByID"

	blog, err := s.repo.GetBlogByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return blog, nil
}

// GetBlogBySlug возвращает опубликованную статью для публичной страницы
func (s *BlogService) GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	const op = "blog_service.GetBlogBySlug"

	blog, err := s.repo.GetBlogBySlug(ctx, slug, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return blog, nil
}

// ListBlogs возвращает статьи по фильтру
func (s *BlogService) ListBlogs(ctx context.Context, filter repository.BlogFilter) ([]models.Blog, error) {
	const op = "blog_service.ListBlogs"
	log := s.log.With(slog.String("op", op))

	blogs, err := s.repo.ListBlogs(ctx, filter)
	if err != nil {
		log.Error("failed to list blogs", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return blogs, nil
}

// IncrementViews атомарно увеличивает счетчик просмотров и возвращает новое значение
func (s *BlogService) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	const op = "blog_service.IncrementViews"

	views, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return views, nil
}

// DeleteBlog удаляет статью и ее обложку.
// Отсутствие файла обложки не мешает удалению записи.
func (s *BlogService) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	const op = "blog_service.DeleteBlog"
	log := s.log.With(
		slog.String("op", op),
		slog.String("blog_id", id.String()),
	)

	log.Info("deleting blog")

	blog, err := s.repo.GetBlogByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.images.Delete(ctx, filestorage.KindBlog, blog.Thumbnail); err != nil {
		log.Warn("failed to delete thumbnail", sl.Err(err))
	}

	if err := s.repo.DeleteBlog(ctx, id); err != nil {
		log.Error("failed to delete blog", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.ContentWritesTotal.WithLabelValues("blog", "delete").Inc()
	s.invalidator.Invalidate(ctx, "/", "/blogs", "/blogs/"+blog.Slug)

	log.Info("blog deleted")

	return nil
}

// CountBlogs возвращает общее число статей для панели администратора
func (s *BlogService) CountBlogs(ctx context.Context) (int, error) {
	const op = "blog_service.CountBlogs"

	count, err := s.repo.CountBlogs(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}
