package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentNumber(t *testing.T) {
	tests := []struct {
		number  string
		docType DocumentType
		wantErr bool
	}{
		{"12345678", DocumentTypeCC, false},
		{"1234", DocumentTypeCC, true},
		{"12345678901", DocumentTypeCC, true},
		{"987654321", DocumentTypeCE, false},
		{"1098765432", DocumentTypeTI, false},
		{"123456789", DocumentTypeTI, true},
		{"AB123456", DocumentTypePAS, false},
		{"ab123456", DocumentTypePAS, false}, // normalized to upper case
		{"AB-123", DocumentTypePAS, true},
		{"900123456", DocumentTypeNIT, false},
		{"12345678", DocumentTypeNIT, true},
		{"12345678", DocumentType("XX"), true},
		{"", DocumentTypeCC, true},
	}

	for _, tt := range tests {
		doc, err := NewDocumentNumber(tt.number, tt.docType)
		if tt.wantErr {
			assert.Error(t, err, "%s %s", tt.docType, tt.number)
			continue
		}
		require.NoError(t, err, "%s %s", tt.docType, tt.number)
		assert.Equal(t, tt.docType, doc.Type())
	}
}

func TestNewDocumentNumber_Normalizes(t *testing.T) {
	doc, err := NewDocumentNumber("  ab123456 ", DocumentTypePAS)
	require.NoError(t, err)
	assert.Equal(t, "AB123456", doc.Value())
	assert.Equal(t, "PAS AB123456", doc.String())
}

func TestNewDocumentNumber_UnknownTypeError(t *testing.T) {
	_, err := NewDocumentNumber("12345678", DocumentType("ZZ"))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "document_type", vErr.Field)
}

func TestDocumentType_Valid(t *testing.T) {
	assert.True(t, DocumentTypeCC.Valid())
	assert.True(t, DocumentTypeNIT.Valid())
	assert.False(t, DocumentType("XX").Valid())
}
