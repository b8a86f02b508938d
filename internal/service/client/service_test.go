package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository/memory"
)

func validRequest() *model.CreateClientRequest {
	return &model.CreateClientRequest{
		FirstName:     "Carlos",
		LastName:      "Perez",
		DocumentType:  "CC",
		DocumentValue: "1023456789",
		Email:         "carlos@example.com",
		Phone:         "6012345",
		MobilePhone:   "+57 310 555 1234",
		Street:        "Avenida 68 # 22-15",
		City:          "Medellin",
		State:         "Antioquia",
		PostalCode:    "050001",
	}
}

func TestCreateClientNormalizes(t *testing.T) {
	svc := NewService(memory.NewClientRepository(), nil)

	client, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "CC", client.DocumentType)
	assert.Equal(t, "1023456789", client.DocumentValue)
	// The mobile number is stored as bare national digits.
	assert.Equal(t, "3105551234", client.MobilePhone)
	assert.Equal(t, "6012345", client.Phone)
	assert.Equal(t, model.StatusActive, client.Status)
}

func TestCreateClientRejectsBadDocument(t *testing.T) {
	svc := NewService(memory.NewClientRepository(), nil)

	req := validRequest()
	req.DocumentType = "XX"
	_, err := svc.Create(context.Background(), req)
	assert.ErrorContains(t, err, "document")

	req = validRequest()
	req.DocumentValue = "12"
	_, err = svc.Create(context.Background(), req)
	assert.Error(t, err)
}

func TestCreateClientRejectsBadMobile(t *testing.T) {
	svc := NewService(memory.NewClientRepository(), nil)

	req := validRequest()
	req.MobilePhone = "6012345" // landline shape, not a mobile
	_, err := svc.Create(context.Background(), req)
	assert.Error(t, err)
}

func TestCreateClientRejectsDuplicateDocument(t *testing.T) {
	svc := NewService(memory.NewClientRepository(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	dup := validRequest()
	dup.Email = "other@example.com"
	_, err = svc.Create(ctx, dup)
	assert.ErrorContains(t, err, "already exists")
}

func TestUpdateClientRevalidates(t *testing.T) {
	svc := NewService(memory.NewClientRepository(), nil)
	ctx := context.Background()

	client, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	badStreet := "x"
	_, err = svc.Update(ctx, client.ID, &model.UpdateClientRequest{Street: &badStreet})
	assert.Error(t, err)

	newMobile := "3209876543"
	updated, err := svc.Update(ctx, client.ID, &model.UpdateClientRequest{MobilePhone: &newMobile})
	require.NoError(t, err)
	assert.Equal(t, "3209876543", updated.MobilePhone)
	// Untouched fields survive the partial update.
	assert.Equal(t, "Carlos", updated.FirstName)
}

func TestGetByDocumentNormalizesLookup(t *testing.T) {
	svc := NewService(memory.NewClientRepository(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	found, err := svc.GetByDocument(ctx, "CC", " 1023456789 ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestDeactivateClient(t *testing.T) {
	svc := NewService(memory.NewClientRepository(), nil)
	ctx := context.Background()

	client, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, client.ID))

	// Inactive clients drop out of the default listing.
	listed, err := svc.List(ctx, &model.ClientFilter{})
	require.NoError(t, err)
	assert.Empty(t, listed)

	listed, err = svc.List(ctx, &model.ClientFilter{BaseFilter: model.BaseFilter{IncludeInactive: true}})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
