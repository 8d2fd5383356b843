package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_CleanSetHasNoFindings(t *testing.T) {
	env := testEnv()
	s, q := approvedQuote(t, env)
	s, w, err := s.ConvertQuoteToWorkOrder(env, q.ID, strPtr("E2"))
	require.NoError(t, err)
	s, _, err = s.ChangeWorkOrderStatus(env, w.ID, WorkOrderStatusCompleted, nil)
	require.NoError(t, err)

	assert.Empty(t, s.Reconcile("cid"))
}

func TestReconcile_ReportsDrift(t *testing.T) {
	s := NewDocumentSet(
		[]Quote{{ID: "q1", Total: dec("10"), WorkOrderId: strPtr("gone")}},
		[]Invoice{
			{ID: "i1", InvoiceNumber: "2025-001"},
			{ID: "i2", InvoiceNumber: "2025-001", QuoteId: strPtr("q9")},
		},
		[]WorkOrder{
			{ID: "w1", AssignedTo: "E1", Status: WorkOrderStatusToDo, SortIndex: intPtr(1)},
			{ID: "w2", AssignedTo: "E1", Status: WorkOrderStatusToDo, SortIndex: intPtr(1)},
			{ID: "w3", AssignedTo: "E2", Status: WorkOrderStatusInProgress},
		},
		[]InventoryItem{{ID: "x", Name: "Widget", Quantity: dec("-1")}},
	)

	found := map[string][]string{}
	for _, r := range s.Reconcile("cid") {
		assert.Equal(t, "cid", r.CorrelationId)
		found[r.CheckType] = append(found[r.CheckType], r.EntityId)
	}
	assert.Equal(t, []string{"w2"}, found[CheckDuplicateSortIndex])
	assert.Equal(t, []string{"w3"}, found[CheckMissingSortIndex])
	assert.Len(t, found[CheckDuplicateInvoiceNumber], 1)
	assert.Equal(t, []string{"q1"}, found[CheckTotalsDrift])
	assert.ElementsMatch(t, []string{"q1", "i2"}, found[CheckDanglingLink])
	assert.Equal(t, []string{"x"}, found[CheckNegativeStock])
}
