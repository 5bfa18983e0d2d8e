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

var blogColumns = []string{
	"id", "title", "slug", "excerpt", "content", "thumbnail", "author",
	"category", "tags", "is_published", "is_featured", "views", "meta",
	"published_at", "created_at", "updated_at",
}

type BlogRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewBlogRepository(db *pgxpool.Pool) *BlogRepo {
	return &BlogRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *BlogRepo) SaveBlog(ctx context.Context, blog models.Blog) (uuid.UUID, error) {
	const op = "repository.blog_repository.SaveBlog"

	query, args, err := r.sb.Insert("blogs").
		Columns(
			"title", "slug", "excerpt", "content", "thumbnail", "author",
			"category", "tags", "is_published", "is_featured", "views",
			"meta", "published_at",
		).
		Values(
			blog.Title, blog.Slug, blog.Excerpt, blog.Content, blog.Thumbnail,
			blog.Author, blog.Category, blog.Tags, blog.IsPublished,
			blog.IsFeatured, blog.Views, blog.Meta, blog.PublishedAt,
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

func (r *BlogRepo) GetBlogByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	const op = "repository.blog_repository.GetBlogByID"

	query, args, err := r.sb.Select(blogColumns...).
		From("blogs").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.scanBlog(ctx, op, query, args)
}

func (r *BlogRepo) GetBlogBySlug(ctx context.Context, slug string, onlyPublished bool) (*models.Blog, error) {
	const op = "repository.blog_repository.GetBlogBySlug"

	builder := r.sb.Select(blogColumns...).
		From("blogs").
		Where(sq.Eq{"slug": slug})

	if onlyPublished {
		builder = builder.Where(sq.Eq{"is_published": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.scanBlog(ctx, op, query, args)
}

func (r *BlogRepo) scanBlog(ctx context.Context, op, query string, args []interface{}) (*models.Blog, error) {
	var blog models.Blog

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&blog.ID, &blog.Title, &blog.Slug, &blog.Excerpt, &blog.Content,
		&blog.Thumbnail, &blog.Author, &blog.Category, &blog.Tags,
		&blog.IsPublished, &blog.IsFeatured, &blog.Views, &blog.Meta,
		&blog.PublishedAt, &blog.CreatedAt, &blog.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrBlogNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &blog, nil
}

func (r *BlogRepo) ListBlogs(ctx context.Context, filter BlogFilter) ([]models.Blog, error) {
	const op = "repository.blog_repository.ListBlogs"

	builder := r.sb.Select(blogColumns...).
		From("blogs").
		OrderBy("created_at DESC")

	if filter.IsPublished != nil {
		builder = builder.Where(sq.Eq{"is_published": *filter.IsPublished})
	}
	if filter.IsFeatured != nil {
		builder = builder.Where(sq.Eq{"is_featured": *filter.IsFeatured})
	}
	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}
	if len(filter.Tags) > 0 {
		builder = builder.Where("tags && ?", filter.Tags)
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

	var blogs []models.Blog
	for rows.Next() {
		var blog models.Blog
		err := rows.Scan(
			&blog.ID, &blog.Title, &blog.Slug, &blog.Excerpt, &blog.Content,
			&blog.Thumbnail, &blog.Author, &blog.Category, &blog.Tags,
			&blog.IsPublished, &blog.IsFeatured, &blog.Views, &blog.Meta,
			&blog.PublishedAt, &blog.CreatedAt, &blog.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		blogs = append(blogs, blog)
	}

	return blogs, nil
}

// BlogUpdatableColumns колонки, которые UpdateBlogFields принимает в updates.
// updated_at репозиторий проставляет сам.
var BlogUpdatableColumns = map[string]bool{
	"title": true, "slug": true, "excerpt": true, "content": true,
	"thumbnail": true, "author": true, "category": true, "tags": true,
	"is_published": true, "is_featured": true, "meta": true,
	"published_at": true,
}

func (r *BlogRepo) UpdateBlogFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	const op = "repository.blog_repository.UpdateBlogFields"

	if len(updates) == 0 {
		return fmt.Errorf("%s: no fields to update", op)
	}

	builder := r.sb.Update("blogs").
		Set("updated_at", time.Now())

	for field, value := range updates {
		if !BlogUpdatableColumns[field] {
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
		return fmt.Errorf("%s: %w", op, storage.ErrBlogNotFound)
	}

	return nil
}

func (r *BlogRepo) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	const op = "repository.blog_repository.DeleteBlog"

	query, args, err := r.sb.Delete("blogs").
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
		return fmt.Errorf("%s: %w", op, storage.ErrBlogNotFound)
	}

	return nil
}

func (r *BlogRepo) BlogSlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	const op = "repository.blog_repository.BlogSlugExists"

	builder := r.sb.Select("1").
		From("blogs").
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

// IncrementViews атомарный инкремент счетчика на стороне базы,
// конкурентные вызовы не теряют обновлений.
func (r *BlogRepo) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	const op = "repository.blog_repository.IncrementViews"

	query, args, err := r.sb.Update("blogs").
		Set("views", sq.Expr("views + 1")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING views").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var views int64
	err = r.db.QueryRow(ctx, query, args...).Scan(&views)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrBlogNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return views, nil
}

func (r *BlogRepo) CountBlogs(ctx context.Context) (int, error) {
	const op = "repository.blog_repository.CountBlogs"

	query, args, err := r.sb.Select("COUNT(*)").From("blogs").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}
