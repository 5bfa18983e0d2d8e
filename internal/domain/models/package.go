package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PackageCategory string

const (
	PackageCategoryLuxury    PackageCategory = "luxury"
	PackageCategoryAdventure PackageCategory = "adventure"
	PackageCategoryFamily    PackageCategory = "family"
	PackageCategoryCorporate PackageCategory = "corporate"
	PackageCategoryHoneymoon PackageCategory = "honeymoon"
	PackageCategoryGroup     PackageCategory = "group"
	PackageCategorySolo      PackageCategory = "solo"
	PackageCategoryOther     PackageCategory = "other"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// TravelPackage представляет туристический пакет в системе
type TravelPackage struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	Title            string          `db:"title" json:"title"`
	Slug             string          `db:"slug" json:"slug"`
	Description      string          `db:"description" json:"description"`
	ShortDescription string          `db:"short_description" json:"shortDescription,omitempty"`
	Thumbnail        string          `db:"thumbnail" json:"thumbnail"`
	Price            float64         `db:"price" json:"price"`
	Currency         string          `db:"currency" json:"currency"`
	Duration         int             `db:"duration" json:"duration"`
	Destination      string          `db:"destination" json:"destination"`
	Destinations     []string        `db:"destinations" json:"destinations"`
	Images           []string        `db:"images" json:"images"`
	Category         PackageCategory `db:"category" json:"category"`
	Inclusions       []string        `db:"inclusions" json:"inclusions"`
	Exclusions       []string        `db:"exclusions" json:"exclusions"`
	Itinerary        Itinerary       `db:"itinerary" json:"itinerary"`
	Highlights       []string        `db:"highlights" json:"highlights"`
	IsActive         bool            `db:"is_active" json:"isActive"`
	IsFeatured       bool            `db:"is_featured" json:"isFeatured"`
	MaxTravelers     *int            `db:"max_travelers" json:"maxTravelers,omitempty"`
	MinTravelers     int             `db:"min_travelers" json:"minTravelers"`
	DepartureDates   []time.Time     `db:"departure_dates" json:"departureDates"`
	BookingDeadline  *time.Time      `db:"booking_deadline" json:"bookingDeadline,omitempty"`
	Tags             []string        `db:"tags" json:"tags"`
	Meta             *SEOMeta        `db:"meta" json:"meta,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updatedAt"`
}

// ItineraryDay описывает один день маршрута
type ItineraryDay struct {
	Day         int      `json:"day"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Activities  []string `json:"activities,omitempty"`
}

type Itinerary []ItineraryDay

// SEOMeta опциональные SEO-поля пакета или статьи
type SEOMeta struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Value реализует интерфейс driver.Valuer для сериализации Itinerary в JSONB
func (it Itinerary) Value() (driver.Value, error) {
	if it == nil {
		return json.Marshal(Itinerary{})
	}
	return json.Marshal(it)
}

// Scan реализует интерфейс sql.Scanner для десериализации JSONB в Itinerary
func (it *Itinerary) Scan(value interface{}) error {
	if value == nil {
		*it = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("itinerary: unsupported scan type %T", value)
	}
	return json.Unmarshal(b, it)
}

// Value реализует интерфейс driver.Valuer для сериализации SEOMeta в JSONB
func (m *SEOMeta) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan реализует интерфейс sql.Scanner для десериализации JSONB в SEOMeta
func (m *SEOMeta) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("seo meta: unsupported scan type %T", value)
	}
	return json.Unmarshal(b, m)
}

// ValidSlug проверяет, что slug в нижнем регистре и разделен дефисами
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// ValidPackageCategory проверяет значение категории пакета
func ValidPackageCategory(c PackageCategory) bool {
	switch c {
	case PackageCategoryLuxury, PackageCategoryAdventure, PackageCategoryFamily,
		PackageCategoryCorporate, PackageCategoryHoneymoon, PackageCategoryGroup,
		PackageCategorySolo, PackageCategoryOther:
		return true
	}
	return false
}

// Validate проверяет корректность данных пакета перед сохранением
func (p *TravelPackage) Validate() error {
	var validationErrors []string

	if p.Title == "" {
		validationErrors = append(validationErrors, "title is required")
	}
	if len(p.Title) > 200 {
		validationErrors = append(validationErrors, "title must be 200 characters or less")
	}
	if p.Slug == "" {
		validationErrors = append(validationErrors, "slug is required")
	} else if !ValidSlug(p.Slug) {
		validationErrors = append(validationErrors, "invalid slug format")
	}
	if p.Description == "" {
		validationErrors = append(validationErrors, "description is required")
	}
	if len(p.ShortDescription) > 300 {
		validationErrors = append(validationErrors, "short description must be 300 characters or less")
	}
	if p.Thumbnail == "" {
		validationErrors = append(validationErrors, "thumbnail is required")
	}
	if p.Price < 0 {
		validationErrors = append(validationErrors, "price cannot be negative")
	}
	if len(p.Currency) != 3 {
		validationErrors = append(validationErrors, "currency code must be 3 characters")
	}
	if p.Duration < 1 {
		validationErrors = append(validationErrors, "duration must be at least 1 day")
	}
	if p.Destination == "" {
		validationErrors = append(validationErrors, "destination is required")
	}
	if !ValidPackageCategory(p.Category) {
		validationErrors = append(validationErrors, fmt.Sprintf("invalid category '%s'", p.Category))
	}
	if p.MinTravelers < 1 {
		validationErrors = append(validationErrors, "min travelers must be at least 1")
	}
	if p.MaxTravelers != nil && *p.MaxTravelers < p.MinTravelers {
		validationErrors = append(validationErrors, "max travelers cannot be less than min travelers")
	}

	if len(validationErrors) > 0 {
		return &ValidationError{Errors: validationErrors}
	}

	return nil
}

// ValidationError кастомный тип ошибки для валидации доменных моделей
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// IsValidationError проверяет, является ли ошибка ошибкой валидации
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}
