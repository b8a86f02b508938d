package model

import (
	"time"

	"github.com/google/uuid"
)

// PQR is a petition, complaint, claim or suggestion filed by a client.

type PQRType string

const (
	PQRTypePetition   PQRType = "petition"
	PQRTypeComplaint  PQRType = "complaint"
	PQRTypeClaim      PQRType = "claim"
	PQRTypeSuggestion PQRType = "suggestion"
)

type PQRStatus string

const (
	PQRStatusOpen     PQRStatus = "open"
	PQRStatusInReview PQRStatus = "in_review"
	PQRStatusResolved PQRStatus = "resolved"
	PQRStatusClosed   PQRStatus = "closed"
)

type PQR struct {
	Base
	Number      string     `db:"number" json:"number"`
	ClientID    uuid.UUID  `db:"client_id" json:"client_id"`
	Type        PQRType    `db:"type" json:"type"`
	Subject     string     `db:"subject" json:"subject"`
	Description string     `db:"description" json:"description"`
	Status      PQRStatus  `db:"status" json:"status"`
	Resolution  *string    `db:"resolution" json:"resolution,omitempty"`
	ResolvedAt  *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
}

type CreatePQRRequest struct {
	ClientID    string `json:"client_id" binding:"required,uuid"`
	Type        string `json:"type" binding:"required,oneof=petition complaint claim suggestion"`
	Subject     string `json:"subject" binding:"required,max=200"`
	Description string `json:"description" binding:"required,max=4000"`
}

type ResolvePQRRequest struct {
	Resolution string `json:"resolution" binding:"required,max=4000"`
}

type PQRFilter struct {
	ClientID  uuid.UUID `json:"client_id" form:"client_id"`
	Type      PQRType   `json:"type" form:"type"`
	Status    PQRStatus `json:"status" form:"status"`
	StartDate time.Time `json:"start_date" form:"start_date"`
	EndDate   time.Time `json:"end_date" form:"end_date"`
}
