package dto

import (
	"time"

	"travkings/internal/domain/models"
)

// CreatePackageRequest содержит данные нового пакета.
// Приходит JSON-частью multipart-формы, файл обложки передается отдельно.
type CreatePackageRequest struct {
	Title            string                 `json:"title" validate:"required,max=200"`
	Slug             string                 `json:"slug" validate:"required"`
	Description      string                 `json:"description" validate:"required"`
	ShortDescription string                 `json:"shortDescription" validate:"max=300"`
	Price            float64                `json:"price" validate:"min=0"`
	Currency         string                 `json:"currency" validate:"required,len=3"`
	Duration         int                    `json:"duration" validate:"required,min=1"`
	Destination      string                 `json:"destination" validate:"required"`
	Destinations     []string               `json:"destinations"`
	Images           []string               `json:"images"`
	Category         models.PackageCategory `json:"category" validate:"required"`
	Inclusions       []string               `json:"inclusions"`
	Exclusions       []string               `json:"exclusions"`
	Itinerary        models.Itinerary       `json:"itinerary"`
	Highlights       []string               `json:"highlights"`
	IsActive         *bool                  `json:"isActive"`
	IsFeatured       bool                   `json:"isFeatured"`
	MaxTravelers     *int                   `json:"maxTravelers"`
	MinTravelers     int                    `json:"minTravelers"`
	DepartureDates   []time.Time            `json:"departureDates"`
	BookingDeadline  *time.Time             `json:"bookingDeadline"`
	Tags             []string               `json:"tags"`
	Meta             *models.SEOMeta        `json:"meta"`
}

func (r CreatePackageRequest) ToDomain() models.TravelPackage {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	minTravelers := r.MinTravelers
	if minTravelers == 0 {
		minTravelers = 1
	}

	return models.TravelPackage{
		Title:            r.Title,
		Slug:             r.Slug,
		Description:      r.Description,
		ShortDescription: r.ShortDescription,
		Price:            r.Price,
		Currency:         r.Currency,
		Duration:         r.Duration,
		Destination:      r.Destination,
		Destinations:     r.Destinations,
		Images:           r.Images,
		Category:         r.Category,
		Inclusions:       r.Inclusions,
		Exclusions:       r.Exclusions,
		Itinerary:        r.Itinerary,
		Highlights:       r.Highlights,
		IsActive:         isActive,
		IsFeatured:       r.IsFeatured,
		MaxTravelers:     r.MaxTravelers,
		MinTravelers:     minTravelers,
		DepartureDates:   r.DepartureDates,
		BookingDeadline:  r.BookingDeadline,
		Tags:             r.Tags,
		Meta:             r.Meta,
	}
}

// UpdatePackageRequest частичное обновление: nil-поле означает "не трогать"
type UpdatePackageRequest struct {
	Title            *string                 `json:"title"`
	Slug             *string                 `json:"slug"`
	Description      *string                 `json:"description"`
	ShortDescription *string                 `json:"shortDescription"`
	Thumbnail        *string                 `json:"thumbnail"`
	Price            *float64                `json:"price"`
	Currency         *string                 `json:"currency"`
	Duration         *int                    `json:"duration"`
	Destination      *string                 `json:"destination"`
	Destinations     []string                `json:"destinations"`
	Images           []string                `json:"images"`
	Category         *models.PackageCategory `json:"category"`
	Inclusions       []string                `json:"inclusions"`
	Exclusions       []string                `json:"exclusions"`
	Itinerary        models.Itinerary        `json:"itinerary"`
	Highlights       []string                `json:"highlights"`
	IsActive         *bool                   `json:"isActive"`
	IsFeatured       *bool                   `json:"isFeatured"`
	MaxTravelers     *int                    `json:"maxTravelers"`
	MinTravelers     *int                    `json:"minTravelers"`
	DepartureDates   []time.Time             `json:"departureDates"`
	BookingDeadline  *time.Time              `json:"bookingDeadline"`
	Tags             []string                `json:"tags"`
	Meta             *models.SEOMeta         `json:"meta"`
}

// PackageListResponse список пакетов с общим количеством для пагинации
type PackageListResponse struct {
	Packages []models.TravelPackage `json:"packages"`
	Total    int                    `json:"total"`
	Limit    int                    `json:"limit"`
	Skip     int                    `json:"skip"`
}
