package models

import (
	"github.com/mmdatafocus/opsdesk_backend/utils"
	"github.com/shopspring/decimal"
)

type LineItem struct {
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Total        decimal.Decimal `json:"total"`
	InventoryRef *string         `json:"inventory_ref,omitempty"`
}

type LaborEntry struct {
	Description string          `json:"description"`
	Hours       decimal.Decimal `json:"hours"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	Total       decimal.Decimal `json:"total"`
}

type NewLineItem struct {
	Description  string          `json:"description" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitPrice    decimal.Decimal `json:"unit_price" validate:"gte=0"`
	InventoryRef *string         `json:"inventory_ref"`
}

type NewLaborEntry struct {
	Description string          `json:"description" validate:"required"`
	Hours       decimal.Decimal `json:"hours" validate:"gte=0"`
	HourlyRate  decimal.Decimal `json:"hourly_rate" validate:"gte=0"`
}

func newLineItem(description string, quantity, unitPrice decimal.Decimal, inventoryRef *string) LineItem {
	return LineItem{
		Description:  description,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Total:        utils.CalculateLineTotal(quantity, unitPrice),
		InventoryRef: copyString(inventoryRef),
	}
}

func newLaborEntry(description string, hours, hourlyRate decimal.Decimal) LaborEntry {
	return LaborEntry{
		Description: description,
		Hours:       hours,
		HourlyRate:  hourlyRate,
		Total:       utils.CalculateLineTotal(hours, hourlyRate),
	}
}

func lineItemsFromInput(input []NewLineItem) []LineItem {
	items := make([]LineItem, 0, len(input))
	for _, in := range input {
		items = append(items, newLineItem(in.Description, in.Quantity, in.UnitPrice, in.InventoryRef))
	}
	return items
}

func laborFromInput(input []NewLaborEntry) []LaborEntry {
	labor := make([]LaborEntry, 0, len(input))
	for _, in := range input {
		labor = append(labor, newLaborEntry(in.Description, in.Hours, in.HourlyRate))
	}
	return labor
}

// cloneLineItems deep-copies items, recomputing totals on the way.
func cloneLineItems(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, newLineItem(it.Description, it.Quantity, it.UnitPrice, it.InventoryRef))
	}
	return out
}

func cloneLaborEntries(labor []LaborEntry) []LaborEntry {
	out := make([]LaborEntry, 0, len(labor))
	for _, l := range labor {
		out = append(out, newLaborEntry(l.Description, l.Hours, l.HourlyRate))
	}
	return out
}

func sumLaborHours(labor []LaborEntry) decimal.Decimal {
	hours := decimal.Zero
	for _, l := range labor {
		hours = hours.Add(l.Hours)
	}
	return hours
}

// Totals is the calculator output stored on quotes and invoices.
type Totals struct {
	Subtotal  decimal.Decimal
	VatAmount decimal.Decimal
	Total     decimal.Decimal
}

func ComputeTotals(items []LineItem, labor []LaborEntry, vatRate decimal.Decimal) Totals {
	lineTotals := make([]decimal.Decimal, 0, len(items)+len(labor))
	for _, it := range items {
		lineTotals = append(lineTotals, it.Total)
	}
	for _, l := range labor {
		lineTotals = append(lineTotals, l.Total)
	}
	subtotal, vatAmount, total := utils.CalculateDocumentTotals(lineTotals, vatRate)
	return Totals{Subtotal: subtotal, VatAmount: vatAmount, Total: total}
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func copyInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

// relink applies a link field from a form: nil keeps current, an empty string
// clears it, anything else replaces it. It reports whether the link changed.
func relink(current *string, input *string) (*string, bool) {
	if input == nil {
		return copyString(current), false
	}
	if *input == "" {
		return nil, current != nil
	}
	return copyString(input), stringValue(current) != *input
}

func nonEmpty(id *string) *string {
	out, _ := relink(nil, id)
	return out
}

func linkText(id *string) string {
	if id == nil {
		return "none"
	}
	return *id
}
