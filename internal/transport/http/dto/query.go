package dto

import (
	"time"

	"travkings/internal/domain/models"

	"github.com/google/uuid"
)

// CreateQueryRequest обращение с публичной контактной формы
type CreateQueryRequest struct {
	Name       string     `json:"name" validate:"required,max=100"`
	Email      string     `json:"email" validate:"required,email"`
	Phone      string     `json:"phone" validate:"max=20"`
	Service    string     `json:"service" validate:"required"`
	TravelDate *time.Time `json:"travelDate"`
	Message    string     `json:"message" validate:"required,max=2000"`
	Source     string     `json:"source"`
	PackageID  *uuid.UUID `json:"packageId"`
}

func (r CreateQueryRequest) ToDomain() models.Query {
	source := r.Source
	if source == "" {
		source = models.DefaultQuerySource
	}

	return models.Query{
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Service:    r.Service,
		TravelDate: r.TravelDate,
		Message:    r.Message,
		Status:     models.QueryStatusPending,
		Source:     source,
		PackageID:  r.PackageID,
	}
}

// UpdateQueryStatusRequest смена статуса обращения администратором
type UpdateQueryStatusRequest struct {
	Status models.QueryStatus `json:"status" validate:"required,oneof=pending resolved"`
}

// QueryListResponse список обращений с общим количеством
type QueryListResponse struct {
	Queries []models.Query `json:"queries"`
	Total   int            `json:"total"`
	Limit   int            `json:"limit"`
	Skip    int            `json:"skip"`
}
