package model

import "time"

// User is a back-office operator or administrator.
type User struct {
	Base
	Email            string       `db:"email" json:"email"`
	Name             string       `db:"name" json:"name"`
	Password         string       `db:"-" json:"password,omitempty"`
	PasswordHash     string       `db:"password_hash" json:"-"`
	Status           EntityStatus `db:"status" json:"status"`
	LoginAttempts    int          `db:"login_attempts" json:"-"`
	LastLoginAttempt *time.Time   `db:"last_login_attempt" json:"-"`
	LastLoginAt      *time.Time   `db:"last_login_at" json:"last_login_at,omitempty"`
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

type UserFilter struct {
	BaseFilter
}
