package model

import (
	"time"

	"github.com/google/uuid"
)

// EntityStatus is the soft-delete state carried by administrator-managed
// entities. Inactive rows stay in place so associations and audit history
// survive, but every "active" query treats them as absent.
type EntityStatus string

const (
	StatusActive   EntityStatus = "active"
	StatusInactive EntityStatus = "inactive"
)

func (s EntityStatus) IsActive() bool {
	return s == StatusActive
}

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Pagination represents common pagination parameters
type Pagination struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

// BaseFilter contains common filter fields
type BaseFilter struct {
	SearchTerm      string       `json:"search_term" form:"search_term"`
	Status          EntityStatus `json:"status" form:"status"`
	IncludeInactive bool         `json:"include_inactive" form:"include_inactive"`
	StartDate       time.Time    `json:"start_date" form:"start_date"`
	EndDate         time.Time    `json:"end_date" form:"end_date"`
}
