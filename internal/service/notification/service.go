package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/email"
	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository"
	"github.com/serviexpress/scheduling-api/pkg/logger"
	"github.com/serviexpress/scheduling-api/pkg/metrics"
)

const (
	maxRetries = 3
	retryDelay = 2 * time.Second
)

// Service records notifications and delivers them over email. Delivery
// runs in the background with retries; failures are recorded on the row
// and counted in metrics, never surfaced to the triggering operation.
type Service struct {
	repo    repository.NotificationRepository
	email   email.Service
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewService(repo repository.NotificationRepository, emailSvc email.Service, m *metrics.Metrics, log *logger.Logger) *Service {
	return &Service{repo: repo, email: emailSvc, metrics: m, logger: log}
}

func (s *Service) AppointmentScheduled(ctx context.Context, client *model.Client, apt *model.Appointment) {
	subject := "Appointment confirmation " + apt.Number
	body := fmt.Sprintf(
		"<p>Dear %s %s,</p><p>Your appointment <b>%s</b> is scheduled for %s at %s.</p>",
		client.FirstName, client.LastName, apt.Number, apt.Date.Format("2006-01-02"), apt.Slot,
	)
	s.dispatch(ctx, client, subject, body)
}

func (s *Service) AppointmentCancelled(ctx context.Context, client *model.Client, apt *model.Appointment) {
	subject := "Appointment cancelled " + apt.Number
	body := fmt.Sprintf(
		"<p>Dear %s %s,</p><p>Your appointment <b>%s</b> for %s at %s has been cancelled.</p>",
		client.FirstName, client.LastName, apt.Number, apt.Date.Format("2006-01-02"), apt.Slot,
	)
	s.dispatch(ctx, client, subject, body)
}

func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*model.Notification, error) {
	return s.repo.ListByClient(ctx, clientID)
}

func (s *Service) dispatch(ctx context.Context, client *model.Client, subject, body string) {
	n := &model.Notification{
		Base:      model.Base{ID: uuid.New()},
		ClientID:  client.ID,
		Channel:   model.NotificationChannelEmail,
		Recipient: client.Email,
		Subject:   subject,
		Content:   body,
		Status:    model.NotificationStatusPending,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error(err, "failed to record notification", "client_id", client.ID)
		return
	}

	go s.deliver(n)
}

// deliver runs detached from the request; it owns its own context so the
// caller's cancellation does not abort in-flight retries.
func (s *Service) deliver(n *model.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = s.email.Send(ctx, n.Recipient, n.Subject, n.Content)
		if lastErr == nil {
			now := time.Now()
			n.Status = model.NotificationStatusSent
			n.SentAt = &now
			n.RetryCount = attempt - 1
			if err := s.repo.Update(ctx, n); err != nil {
				s.logger.Error(err, "failed to mark notification sent", "notification_id", n.ID)
			}
			s.metrics.NotificationsSent.WithLabelValues(string(n.Channel)).Inc()
			return
		}

		n.Status = model.NotificationStatusRetrying
		n.RetryCount = attempt
		msg := lastErr.Error()
		n.LastError = &msg
		if err := s.repo.Update(ctx, n); err != nil {
			s.logger.Error(err, "failed to record notification retry", "notification_id", n.ID)
		}

		if attempt < maxRetries {
			time.Sleep(retryDelay * time.Duration(attempt))
		}
	}

	n.Status = model.NotificationStatusFailed
	if err := s.repo.Update(ctx, n); err != nil {
		s.logger.Error(err, "failed to mark notification failed", "notification_id", n.ID)
	}
	s.metrics.NotificationsFailed.WithLabelValues(string(n.Channel)).Inc()
	s.logger.Error(lastErr, "notification delivery exhausted retries",
		"notification_id", n.ID, "recipient", n.Recipient)
}
