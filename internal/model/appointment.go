package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	Base
	Number       string            `db:"number" json:"number"`
	ClientID     uuid.UUID         `db:"client_id" json:"client_id"`
	BranchID     uuid.UUID         `db:"branch_id" json:"branch_id"`
	Date         time.Time         `db:"date" json:"date"`
	Slot         string            `db:"slot" json:"slot"`
	Status       AppointmentStatus `db:"status" json:"status"`
	Notes        string            `db:"notes" json:"notes,omitempty"`
	CancelReason *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

type CreateAppointmentRequest struct {
	ClientID string `json:"client_id" binding:"required,uuid"`
	BranchID string `json:"branch_id" binding:"required,uuid"`
	Date     string `json:"date" binding:"required"`
	Slot     string `json:"slot" binding:"required,timeslot"`
	Notes    string `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	Date  *string `json:"date"`
	Slot  *string `json:"slot" binding:"omitempty,timeslot"`
	Notes *string `json:"notes"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type AppointmentFilter struct {
	ClientID  uuid.UUID         `json:"client_id" form:"client_id"`
	BranchID  uuid.UUID         `json:"branch_id" form:"branch_id"`
	Status    AppointmentStatus `json:"status" form:"status"`
	StartDate time.Time         `json:"start_date" form:"start_date"`
	EndDate   time.Time         `json:"end_date" form:"end_date"`
}

// DayAvailability is the free half-hour grid for one branch on one date.
type DayAvailability struct {
	BranchID uuid.UUID `json:"branch_id"`
	Date     time.Time `json:"date"`
	Holiday  bool      `json:"holiday"`
	Slots    []string  `json:"slots"`
}
