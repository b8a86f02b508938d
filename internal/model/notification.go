package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationStatusPending  NotificationStatus = "pending"
	NotificationStatusSent     NotificationStatus = "sent"
	NotificationStatusFailed   NotificationStatus = "failed"
	NotificationStatusRetrying NotificationStatus = "retrying"
)

type NotificationChannel string

const (
	NotificationChannelEmail NotificationChannel = "email"
	NotificationChannelSMS   NotificationChannel = "sms"
)

type Notification struct {
	Base
	ClientID   uuid.UUID           `db:"client_id" json:"client_id"`
	Channel    NotificationChannel `db:"channel" json:"channel"`
	Recipient  string              `db:"recipient" json:"recipient"`
	Subject    string              `db:"subject" json:"subject"`
	Content    string              `db:"content" json:"content"`
	Status     NotificationStatus  `db:"status" json:"status"`
	RetryCount int                 `db:"retry_count" json:"retry_count"`
	LastError  *string             `db:"last_error" json:"last_error,omitempty"`
	SentAt     *time.Time          `db:"sent_at" json:"sent_at,omitempty"`
}
