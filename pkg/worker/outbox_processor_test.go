package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository/memory"
	"github.com/serviexpress/scheduling-api/pkg/logger"
	"github.com/serviexpress/scheduling-api/pkg/metrics"
)

type fakeBroker struct {
	mu        sync.Mutex
	published []string
	failures  int
}

func (b *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures > 0 {
		b.failures--
		return errors.New("broker unavailable")
	}
	b.published = append(b.published, channel)
	return nil
}

func (b *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func (b *fakeBroker) Close() error { return nil }

func (b *fakeBroker) channels() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.published...)
}

var testMetrics = metrics.NewMetrics("scheduling", "worker_test")

func newProcessor(repo *memory.OutboxRepository, broker *fakeBroker) *OutboxProcessor {
	return NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}, logger.NewLogger(nil), testMetrics)
}

func pending(t *testing.T, repo *memory.OutboxRepository) []*model.OutboxEvent {
	t.Helper()
	events, err := repo.GetPendingEvents(context.Background(), 100)
	require.NoError(t, err)
	return events
}

func TestProcessEventsPublishesAndMarks(t *testing.T) {
	repo := memory.NewOutboxRepository()
	broker := &fakeBroker{}
	ctx := context.Background()

	payload, _ := json.Marshal(map[string]string{"number": "APT-1"})
	require.NoError(t, repo.Create(ctx, &model.OutboxEvent{
		EventType: "appointment.scheduled",
		Payload:   payload,
		Status:    model.OutboxStatusPending,
	}))

	p := newProcessor(repo, broker)
	require.NoError(t, p.processEvents(ctx))

	assert.Equal(t, []string{"appointment.scheduled"}, broker.channels())
	assert.Empty(t, pending(t, repo))
}

func TestProcessEventsRetriesTransientFailure(t *testing.T) {
	repo := memory.NewOutboxRepository()
	broker := &fakeBroker{failures: 1}
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.OutboxEvent{
		EventType: "appointment.cancelled",
		Status:    model.OutboxStatusPending,
	}))

	p := newProcessor(repo, broker)
	require.NoError(t, p.processEvents(ctx))

	// First attempt fails, the retry succeeds.
	assert.Equal(t, []string{"appointment.cancelled"}, broker.channels())
	assert.Empty(t, pending(t, repo))
}

func TestProcessEventsMarksFailedAfterRetries(t *testing.T) {
	repo := memory.NewOutboxRepository()
	broker := &fakeBroker{failures: 10}
	ctx := context.Background()

	event := &model.OutboxEvent{
		EventType: "appointment.scheduled",
		Status:    model.OutboxStatusPending,
	}
	require.NoError(t, repo.Create(ctx, event))

	p := newProcessor(repo, broker)
	require.NoError(t, p.processEvents(ctx))

	// Exhausted events leave the pending pool and stay parked as failed.
	assert.Empty(t, broker.channels())
	assert.Empty(t, pending(t, repo))
}
