package model

import "time"

// Holiday blocks appointment booking for a whole calendar date.
type Holiday struct {
	Base
	Date   time.Time    `db:"date" json:"date"`
	Name   string       `db:"name" json:"name"`
	Status EntityStatus `db:"status" json:"status"`
}

type CreateHolidayRequest struct {
	Date string `json:"date" binding:"required"`
	Name string `json:"name" binding:"required"`
}
