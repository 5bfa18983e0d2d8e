package repository

import (
	"github.com/jackc/pgx/v4/pgxpool"
)

type Repository struct {
	Packages PackageRepository
	Blogs    BlogRepository
	Queries  QueryRepository
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		Packages: NewPackageRepository(db),
		Blogs:    NewBlogRepository(db),
		Queries:  NewQueryRepository(db),
	}
}
