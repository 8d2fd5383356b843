package utils

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrorRecordNotFound = errors.New("record not found")

	// ErrConfirmationRequired is returned when a delete is not confirmed with the document id.
	ErrConfirmationRequired = errors.New("delete must be confirmed with the document id")
	ErrForbidden            = errors.New("operation requires admin privileges")

	// ErrConflict is a store-level write conflict (duplicate key, lock not obtained).
	ErrConflict = errors.New("conflicting concurrent update, please retry")
)

// ValidationError lists the offending fields and the rule each one broke.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, rule string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: rule}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// InsufficientInventoryError reports the first material that cannot be covered by stock.
type InsufficientInventoryError struct {
	ItemId    string
	ItemName  string
	Available decimal.Decimal
	Needed    decimal.Decimal
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for %s: available %s, needed %s",
		e.ItemName, e.Available.String(), e.Needed.String())
}

// ReferencedDocumentError blocks deleting a document another document still links to.
type ReferencedDocumentError struct {
	Kind         string
	Id           string
	ReferencedBy string
}

func (e *ReferencedDocumentError) Error() string {
	return fmt.Sprintf("%s %s is still referenced by %s", e.Kind, e.Id, e.ReferencedBy)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsInsufficientInventoryError(err error) bool {
	var ie *InsufficientInventoryError
	return errors.As(err, &ie)
}

func IsReferencedDocumentError(err error) bool {
	var re *ReferencedDocumentError
	return errors.As(err, &re)
}
