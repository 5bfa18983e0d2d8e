package repository

import (
	"context"
	"time"

	"travkings/internal/domain/models"

	"github.com/google/uuid"
)

// PackageFilter параметры выборки пакетов для публичного списка и админки
type PackageFilter struct {
	IsActive    *bool
	IsFeatured  *bool
	Category    string
	Destination string
	Limit       int
	Skip        int
}

// BlogFilter параметры выборки статей
type BlogFilter struct {
	IsPublished *bool
	IsFeatured  *bool
	Category    string
	Tags        []string
	Limit       int
	Skip        int
}

// QueryFilter параметры выборки обращений
type QueryFilter struct {
	Status models.QueryStatus
	Email  string
	Limit  int
	Skip   int
}

type PackageRepository interface {
	SavePackage(ctx context.Context, pkg models.TravelPackage) (uuid.UUID, error)
	GetPackageByID(ctx context.Context, id uuid.UUID) (*models.TravelPackage, error)
	GetPackageBySlug(ctx context.Context, slug string, onlyActive bool) (*models.TravelPackage, error)
	ListPackages(ctx context.Context, filter PackageFilter) ([]models.TravelPackage, error)
	UpdatePackageFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeletePackage(ctx context.Context, id uuid.UUID) error
	PackageSlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	CountPackages(ctx context.Context) (int, error)
}

type BlogRepository interface {
	SaveBlog(ctx context.Context, blog models.Blog) (uuid.UUID, error)
	GetBlogByID(ctx context.Context, id uuid.UUID) (*models.Blog, error)
	GetBlogBySlug(ctx context.Context, slug string, onlyPublished bool) (*models.Blog, error)
	ListBlogs(ctx context.Context, filter BlogFilter) ([]models.Blog, error)
	UpdateBlogFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteBlog(ctx context.Context, id uuid.UUID) error
	BlogSlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, error)
	CountBlogs(ctx context.Context) (int, error)
}

type QueryRepository interface {
	SaveQuery(ctx context.Context, query models.Query) (uuid.UUID, error)
	GetQueryByID(ctx context.Context, id uuid.UUID) (*models.Query, error)
	ListQueries(ctx context.Context, filter QueryFilter) ([]models.Query, error)
	UpdateQueryStatus(ctx context.Context, id uuid.UUID, status models.QueryStatus, resolvedAt *time.Time) error
	DeleteQuery(ctx context.Context, id uuid.UUID) error
	CountQueries(ctx context.Context, status models.QueryStatus) (int, error)
}
