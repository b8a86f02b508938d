package model

// Client is a utility-company customer. Document, phone and address fields
// are validated through the domain value objects at the service boundary
// and persisted as plain columns.
type Client struct {
	Base
	FirstName     string       `db:"first_name" json:"first_name"`
	LastName      string       `db:"last_name" json:"last_name"`
	DocumentType  string       `db:"document_type" json:"document_type"`
	DocumentValue string       `db:"document_value" json:"document_value"`
	Email         string       `db:"email" json:"email"`
	Phone         string       `db:"phone" json:"phone"`
	MobilePhone   string       `db:"mobile_phone" json:"mobile_phone"`
	Street        string       `db:"street" json:"street"`
	City          string       `db:"city" json:"city"`
	State         string       `db:"state" json:"state"`
	PostalCode    string       `db:"postal_code" json:"postal_code"`
	Status        EntityStatus `db:"status" json:"status"`
}

type CreateClientRequest struct {
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	DocumentType  string `json:"document_type" binding:"required,doctype"`
	DocumentValue string `json:"document_value" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone"`
	MobilePhone   string `json:"mobile_phone" binding:"required"`
	Street        string `json:"street" binding:"required"`
	City          string `json:"city" binding:"required"`
	State         string `json:"state" binding:"required"`
	PostalCode    string `json:"postal_code"`
}

type UpdateClientRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	MobilePhone *string `json:"mobile_phone"`
	Street      *string `json:"street"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	PostalCode  *string `json:"postal_code"`
}

type ClientFilter struct {
	BaseFilter
	DocumentType string `json:"document_type" form:"document_type"`
}
