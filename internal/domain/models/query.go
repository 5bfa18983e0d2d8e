package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

type QueryStatus string

const (
	QueryStatusPending  QueryStatus = "pending"
	QueryStatusResolved QueryStatus = "resolved"
)

const (
	MaxQueryMessageLen = 2000
	DefaultQuerySource = "contact_form"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Query представляет обращение клиента с контактной формы
type Query struct {
	ID         uuid.UUID   `db:"id" json:"id"`
	Name       string      `db:"name" json:"name"`
	Email      string      `db:"email" json:"email"`
	Phone      string      `db:"phone" json:"phone,omitempty"`
	Service    string      `db:"service" json:"service"`
	TravelDate *time.Time  `db:"travel_date" json:"travelDate,omitempty"`
	Message    string      `db:"message" json:"message"`
	Status     QueryStatus `db:"status" json:"status"`
	Source     string      `db:"source" json:"source"`
	PackageID  *uuid.UUID  `db:"package_id" json:"packageId,omitempty"`
	ResolvedAt *time.Time  `db:"resolved_at" json:"resolvedAt,omitempty"`
	CreatedAt  time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updatedAt"`
}

// ValidEmail проверяет адрес по простому регулярному выражению
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidQueryStatus проверяет значение статуса: существуют только pending и resolved
func ValidQueryStatus(s QueryStatus) bool {
	return s == QueryStatusPending || s == QueryStatusResolved
}

// Validate проверяет корректность обращения перед сохранением
func (q *Query) Validate() error {
	var validationErrors []string

	if q.Name == "" {
		validationErrors = append(validationErrors, "name is required")
	}
	if len(q.Name) > 100 {
		validationErrors = append(validationErrors, "name must be 100 characters or less")
	}
	if q.Email == "" {
		validationErrors = append(validationErrors, "email is required")
	} else if !ValidEmail(q.Email) {
		validationErrors = append(validationErrors, "invalid email address")
	}
	if len(q.Phone) > 20 {
		validationErrors = append(validationErrors, "phone number must be 20 characters or less")
	}
	if q.Service == "" {
		validationErrors = append(validationErrors, "service is required")
	}
	if q.Message == "" {
		validationErrors = append(validationErrors, "message is required")
	}
	if len(q.Message) > MaxQueryMessageLen {
		validationErrors = append(validationErrors, fmt.Sprintf("message must be %d characters or less", MaxQueryMessageLen))
	}
	if !ValidQueryStatus(q.Status) {
		validationErrors = append(validationErrors, fmt.Sprintf("invalid status '%s'", q.Status))
	}

	if len(validationErrors) > 0 {
		return &ValidationError{Errors: validationErrors}
	}

	return nil
}
