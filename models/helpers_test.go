package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/mmdatafocus/opsdesk_backend/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	v := dec(s)
	return &v
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func testEnv() Env {
	counter := 0
	return Env{
		Actor: Actor{Id: "E1", Name: "alice", IsAdmin: true},
		Now:   testNow,
		Directory: NewStaticDirectory(
			[]Employee{{ID: "E1", Name: "Alice"}, {ID: "E2", Name: "Bob"}},
			[]Customer{{ID: "C1", Name: "Acme BV"}},
		),
		Settings: config.DefaultEngineSettings(),
		NewId: func() string {
			counter++
			return fmt.Sprintf("id-%03d", counter)
		},
	}
}

// later returns env with the clock moved forward by d.
func later(env Env, d time.Duration) Env {
	env.Now = env.Now.Add(d)
	return env
}

func emptySet() DocumentSet {
	return NewDocumentSet(nil, nil, nil, nil)
}

func workOrderForm(w WorkOrder) *NewWorkOrder {
	form := &NewWorkOrder{
		Title:             w.Title,
		Description:       w.Description,
		AssignedTo:        w.AssignedTo,
		CustomerId:        copyString(w.CustomerId),
		QuoteId:           copyString(w.QuoteId),
		InvoiceId:         copyString(w.InvoiceId),
		RequiredInventory: cloneMaterials(w.RequiredInventory),
		HoursSpent:        w.HoursSpent,
		EstimatedHours:    w.EstimatedHours,
		EstimatedCost:     w.EstimatedCost,
		SortIndex:         copyInt(w.SortIndex),
		PendingReason:     copyString(w.PendingReason),
	}
	for _, it := range w.Items {
		form.Items = append(form.Items, NewLineItem{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice, InventoryRef: copyString(it.InventoryRef)})
	}
	for _, l := range w.Labor {
		form.Labor = append(form.Labor, NewLaborEntry{Description: l.Description, Hours: l.Hours, HourlyRate: l.HourlyRate})
	}
	return form
}

func mustCreateWorkOrder(t *testing.T, s DocumentSet, env Env, input *NewWorkOrder) (DocumentSet, WorkOrder) {
	t.Helper()
	next, w, err := s.CreateWorkOrder(env, input)
	require.NoError(t, err)
	require.NotNil(t, w)
	return next, *w
}

func mustWorkOrder(t *testing.T, s DocumentSet, id string) WorkOrder {
	t.Helper()
	w, ok := s.WorkOrder(id)
	require.True(t, ok, "work order %s not found", id)
	return w
}

func mustInvoice(t *testing.T, s DocumentSet, id string) Invoice {
	t.Helper()
	inv, ok := s.Invoice(id)
	require.True(t, ok, "invoice %s not found", id)
	return inv
}

func historyActions(h History) []HistoryAction {
	out := make([]HistoryAction, 0, len(h))
	for _, e := range h {
		out = append(out, e.Action)
	}
	return out
}

func countActions(h History, action HistoryAction) int {
	n := 0
	for _, e := range h {
		if e.Action == action {
			n++
		}
	}
	return n
}
