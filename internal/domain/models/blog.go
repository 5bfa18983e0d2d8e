package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type BlogCategory string

const (
	BlogCategoryTravelTips   BlogCategory = "travel-tips"
	BlogCategoryDestinations BlogCategory = "destinations"
	BlogCategoryGuides       BlogCategory = "guides"
	BlogCategoryNews         BlogCategory = "news"
	BlogCategoryStories      BlogCategory = "stories"
	BlogCategoryOther        BlogCategory = "other"
)

const MaxBlogTags = 10

// Blog представляет статью блога
type Blog struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	Title       string       `db:"title" json:"title"`
	Slug        string       `db:"slug" json:"slug"`
	Excerpt     string       `db:"excerpt" json:"excerpt"`
	Content     string       `db:"content" json:"content"`
	Thumbnail   string       `db:"thumbnail" json:"thumbnail"`
	Author      string       `db:"author" json:"author"`
	Category    BlogCategory `db:"category" json:"category"`
	Tags        []string     `db:"tags" json:"tags"`
	IsPublished bool         `db:"is_published" json:"isPublished"`
	IsFeatured  bool         `db:"is_featured" json:"isFeatured"`
	Views       int64        `db:"views" json:"views"`
	Meta        *SEOMeta     `db:"meta" json:"meta,omitempty"`
	PublishedAt *time.Time   `db:"published_at" json:"publishedAt,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updatedAt"`
}

// ValidBlogCategory проверяет значение категории статьи
func ValidBlogCategory(c BlogCategory) bool {
	switch c {
	case BlogCategoryTravelTips, BlogCategoryDestinations, BlogCategoryGuides,
		BlogCategoryNews, BlogCategoryStories, BlogCategoryOther:
		return true
	}
	return false
}

// Validate проверяет корректность данных статьи перед сохранением
func (b *Blog) Validate() error {
	var validationErrors []string

	if b.Title == "" {
		validationErrors = append(validationErrors, "title is required")
	}
	if len(b.Title) > 200 {
		validationErrors = append(validationErrors, "title must be 200 characters or less")
	}
	if b.Slug == "" {
		validationErrors = append(validationErrors, "slug is required")
	} else if !ValidSlug(b.Slug) {
		validationErrors = append(validationErrors, "invalid slug format")
	}
	if b.Excerpt == "" {
		validationErrors = append(validationErrors, "excerpt is required")
	}
	if len(b.Excerpt) > 500 {
		validationErrors = append(validationErrors, "excerpt must be 500 characters or less")
	}
	if b.Content == "" {
		validationErrors = append(validationErrors, "content is required")
	}
	if b.Thumbnail == "" {
		validationErrors = append(validationErrors, "thumbnail is required")
	}
	if b.Author == "" {
		validationErrors = append(validationErrors, "author name is required")
	}
	if len(b.Author) > 100 {
		validationErrors = append(validationErrors, "author name must be 100 characters or less")
	}
	if !ValidBlogCategory(b.Category) {
		validationErrors = append(validationErrors, fmt.Sprintf("invalid category '%s'", b.Category))
	}
	if len(b.Tags) > MaxBlogTags {
		validationErrors = append(validationErrors, fmt.Sprintf("cannot have more than %d tags", MaxBlogTags))
	}
	if b.Views < 0 {
		validationErrors = append(validationErrors, "views cannot be negative")
	}

	if len(validationErrors) > 0 {
		return &ValidationError{Errors: validationErrors}
	}

	return nil
}
