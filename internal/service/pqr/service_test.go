package pqr

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository/memory"
	"github.com/serviexpress/scheduling-api/internal/service/audit"
	apperrors "github.com/serviexpress/scheduling-api/pkg/errors"
)

type fixture struct {
	svc     *Service
	clients *memory.ClientRepository
	client  *model.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clients := memory.NewClientRepository()
	client := &model.Client{
		FirstName:     "Laura",
		LastName:      "Mejia",
		DocumentType:  "CC",
		DocumentValue: "1023456789",
		Status:        model.StatusActive,
	}
	require.NoError(t, clients.Create(context.Background(), client))

	svc := NewService(memory.NewPQRRepository(), clients, audit.NewService(memory.NewAuditRepository()))
	return &fixture{svc: svc, clients: clients, client: client}
}

func (f *fixture) createRequest(pqrType string) *model.CreatePQRRequest {
	return &model.CreatePQRRequest{
		ClientID:    f.client.ID.String(),
		Type:        pqrType,
		Subject:     "  Billing mismatch  ",
		Description: "Charged twice for the March cycle.",
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pqr, err := f.svc.Create(ctx, f.createRequest("complaint"))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^PQR-\d{8}-[A-F0-9]{8}$`), pqr.Number)
	assert.Equal(t, model.PQRStatusOpen, pqr.Status)
	assert.Equal(t, model.PQRTypeComplaint, pqr.Type)
	assert.Equal(t, "Billing mismatch", pqr.Subject)
	assert.Nil(t, pqr.Resolution)
	assert.Nil(t, pqr.ResolvedAt)
}

func TestCreate_InvalidClientID(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest("petition")
	req.ClientID = "not-a-uuid"

	_, err := f.svc.Create(context.Background(), req)
	assert.ErrorContains(t, err, "invalid client id")
}

func TestCreate_UnknownClient(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest("petition")
	req.ClientID = uuid.New().String()

	_, err := f.svc.Create(context.Background(), req)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreate_InactiveClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.clients.Deactivate(ctx, f.client.ID))
	_, err := f.svc.Create(ctx, f.createRequest("claim"))
	assert.ErrorContains(t, err, "client is inactive")
}

func TestLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pqr, err := f.svc.Create(ctx, f.createRequest("claim"))
	require.NoError(t, err)

	pqr, err = f.svc.StartReview(ctx, pqr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PQRStatusInReview, pqr.Status)

	// review is not re-enterable
	_, err = f.svc.StartReview(ctx, pqr.ID)
	assert.Error(t, err)

	pqr, err = f.svc.Resolve(ctx, pqr.ID, "Refund issued for the duplicate charge.")
	require.NoError(t, err)
	assert.Equal(t, model.PQRStatusResolved, pqr.Status)
	require.NotNil(t, pqr.Resolution)
	assert.Equal(t, "Refund issued for the duplicate charge.", *pqr.Resolution)
	assert.NotNil(t, pqr.ResolvedAt)

	pqr, err = f.svc.Close(ctx, pqr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PQRStatusClosed, pqr.Status)

	// closed is terminal
	_, err = f.svc.Close(ctx, pqr.ID)
	assert.Error(t, err)
	_, err = f.svc.Resolve(ctx, pqr.ID, "again")
	assert.Error(t, err)
}

func TestResolve_DirectlyFromOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pqr, err := f.svc.Create(ctx, f.createRequest("petition"))
	require.NoError(t, err)

	pqr, err = f.svc.Resolve(ctx, pqr.ID, "Answered by phone.")
	require.NoError(t, err)
	assert.Equal(t, model.PQRStatusResolved, pqr.Status)
}

func TestClose_RequiresResolved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pqr, err := f.svc.Create(ctx, f.createRequest("suggestion"))
	require.NoError(t, err)

	_, err = f.svc.Close(ctx, pqr.ID)
	assert.Error(t, err)
}

func TestGetByNumber_NormalizesInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pqr, err := f.svc.Create(ctx, f.createRequest("complaint"))
	require.NoError(t, err)

	found, err := f.svc.GetByNumber(ctx, "  "+pqr.Number+"  ")
	require.NoError(t, err)
	assert.Equal(t, pqr.ID, found.ID)

	_, err = f.svc.GetByNumber(ctx, "PQR-20250101-DEADBEEF")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestList_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.createRequest("complaint"))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.createRequest("petition"))
	require.NoError(t, err)

	_, err = f.svc.Resolve(ctx, first.ID, "done")
	require.NoError(t, err)

	byType, err := f.svc.List(ctx, &model.PQRFilter{Type: model.PQRTypePetition})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, model.PQRTypePetition, byType[0].Type)

	open, err := f.svc.List(ctx, &model.PQRFilter{Status: model.PQRStatusOpen})
	require.NoError(t, err)
	require.Len(t, open, 1)

	all, err := f.svc.List(ctx, &model.PQRFilter{ClientID: f.client.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
