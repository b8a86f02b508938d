package model

// Branch is a service office where appointments take place.
type Branch struct {
	Base
	Code       string       `db:"code" json:"code"`
	Name       string       `db:"name" json:"name"`
	Street     string       `db:"street" json:"street"`
	City       string       `db:"city" json:"city"`
	State      string       `db:"state" json:"state"`
	PostalCode string       `db:"postal_code" json:"postal_code"`
	Phone      string       `db:"phone" json:"phone"`
	Status     EntityStatus `db:"status" json:"status"`
}

type CreateBranchRequest struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

type UpdateBranchRequest struct {
	Name       *string `json:"name"`
	Street     *string `json:"street"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code"`
	Phone      *string `json:"phone"`
}
