package dto

import (
	"travkings/internal/domain/models"
)

// CreateBlogRequest содержит данные новой статьи
type CreateBlogRequest struct {
	Title       string              `json:"title" validate:"required,max=200"`
	Slug        string              `json:"slug" validate:"required"`
	Excerpt     string              `json:"excerpt" validate:"required,max=500"`
	Content     string              `json:"content" validate:"required"`
	Author      string              `json:"author" validate:"required,max=100"`
	Category    models.BlogCategory `json:"category" validate:"required"`
	Tags        []string            `json:"tags" validate:"max=10"`
	IsPublished bool                `json:"isPublished"`
	IsFeatured  bool                `json:"isFeatured"`
	Meta        *models.SEOMeta     `json:"meta"`
}

func (r CreateBlogRequest) ToDomain() models.Blog {
	return models.Blog{
		Title:       r.Title,
		Slug:        r.Slug,
		Excerpt:     r.Excerpt,
		Content:     r.Content,
		Author:      r.Author,
		Category:    r.Category,
		Tags:        r.Tags,
		IsPublished: r.IsPublished,
		IsFeatured:  r.IsFeatured,
		Meta:        r.Meta,
	}
}

// UpdateBlogRequest частичное обновление: nil-поле означает "не трогать"
type UpdateBlogRequest struct {
	Title       *string              `json:"title"`
	Slug        *string              `json:"slug"`
	Excerpt     *string              `json:"excerpt"`
	Content     *string              `json:"content"`
	Thumbnail   *string              `json:"thumbnail"`
	Author      *string              `json:"author"`
	Category    *models.BlogCategory `json:"category"`
	Tags        []string             `json:"tags"`
	IsPublished *bool                `json:"isPublished"`
	IsFeatured  *bool                `json:"isFeatured"`
	Meta        *models.SEOMeta      `json:"meta"`
}

// BlogListResponse список статей с общим количеством для пагинации
type BlogListResponse struct {
	Blogs []models.Blog `json:"blogs"`
	Total int           `json:"total"`
	Limit int           `json:"limit"`
	Skip  int           `json:"skip"`
}
