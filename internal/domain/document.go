package domain

import (
	"regexp"
	"strings"
)

// DocumentType is the closed set of identity document types accepted for
// clients. Each type carries its own format rule.
type DocumentType string

const (
	DocumentTypeCC  DocumentType = "CC"  // cédula de ciudadanía
	DocumentTypeCE  DocumentType = "CE"  // cédula de extranjería
	DocumentTypeTI  DocumentType = "TI"  // tarjeta de identidad
	DocumentTypePAS DocumentType = "PAS" // passport
	DocumentTypeNIT DocumentType = "NIT" // tax ID
)

var documentPatterns = map[DocumentType]*regexp.Regexp{
	DocumentTypeCC:  regexp.MustCompile(`^\d{6,10}$`),
	DocumentTypeCE:  regexp.MustCompile(`^\d{6,10}$`),
	DocumentTypeTI:  regexp.MustCompile(`^\d{10,11}$`),
	DocumentTypePAS: regexp.MustCompile(`^[A-Z0-9]{6,12}$`),
	DocumentTypeNIT: regexp.MustCompile(`^\d{9,10}$`),
}

func (t DocumentType) Valid() bool {
	_, ok := documentPatterns[t]
	return ok
}

// DocumentNumber is a validated identity document: a normalized value plus
// its type tag. Equality is structural over both fields.
type DocumentNumber struct {
	value   string
	docType DocumentType
}

func NewDocumentNumber(number string, docType DocumentType) (DocumentNumber, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return DocumentNumber{}, newValidationError("document_number", "document number is required")
	}

	pattern, ok := documentPatterns[docType]
	if !ok {
		return DocumentNumber{}, newValidationError("document_type", "unknown document type "+string(docType))
	}
	if !pattern.MatchString(number) {
		return DocumentNumber{}, newValidationError("document_number", "invalid format for document type "+string(docType))
	}

	return DocumentNumber{value: number, docType: docType}, nil
}

func (d DocumentNumber) Value() string      { return d.value }
func (d DocumentNumber) Type() DocumentType { return d.docType }

func (d DocumentNumber) String() string {
	return string(d.docType) + " " + d.value
}
