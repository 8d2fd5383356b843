package utils

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleLine struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
}

type sampleInput struct {
	Title string              `json:"title" validate:"required,max=5"`
	Hours decimal.NullDecimal `json:"hours" validate:"omitempty,gt=0"`
	Lines []sampleLine        `json:"lines" validate:"dive"`
}

func TestValidateStruct_MapsFieldsByJsonName(t *testing.T) {
	err := ValidateStruct(&sampleInput{
		Title: "too long",
		Hours: decimal.NewNullDecimal(d("-1")),
		Lines: []sampleLine{{Name: "ok", Price: d("1")}, {Price: d("-2")}},
	})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, map[string]string{
		"title":          "max",
		"hours":          "gt",
		"lines[1].name":  "required",
		"lines[1].price": "gte",
	}, ve.Fields)
	assert.Equal(t, "validation failed: hours: gt, lines[1].name: required, lines[1].price: gte, title: max", ve.Error())
}

func TestValidateStruct_NullDecimalOmitted(t *testing.T) {
	assert.NoError(t, ValidateStruct(&sampleInput{Title: "ok"}))
}

func TestErrorHelpers(t *testing.T) {
	wrapped := errors.Join(errors.New("saving"), &InsufficientInventoryError{ItemName: "Widget", Available: d("1"), Needed: d("2")})
	assert.True(t, IsInsufficientInventoryError(wrapped))
	assert.False(t, IsValidationError(wrapped))
	assert.EqualError(t, &ReferencedDocumentError{Kind: "Quote", Id: "q1", ReferencedBy: "work order w1"},
		"Quote q1 is still referenced by work order w1")
}
