package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentSet_OperationsDoNotMutateReceiver(t *testing.T) {
	env := testEnv()
	base := NewDocumentSet(nil, nil, nil, []InventoryItem{{ID: "x", Name: "Widget", Quantity: dec("5")}})
	s, w := mustCreateWorkOrder(t, base, env, &NewWorkOrder{
		Title:             "Fix",
		AssignedTo:        "E1",
		RequiredInventory: []RequiredMaterial{{ItemId: "x", Quantity: dec("2")}},
	})

	_, _, err := s.ChangeWorkOrderStatus(env, w.ID, WorkOrderStatusCompleted, nil)
	require.NoError(t, err)

	assert.Empty(t, base.WorkOrders())
	item, _ := s.InventoryItem("x")
	assert.True(t, item.Quantity.Equal(dec("5")))
	assert.Empty(t, s.Invoices())
	assert.Equal(t, WorkOrderStatusToDo, mustWorkOrder(t, s, w.ID).Status)
}

func TestDocumentSet_GettersReturnCopies(t *testing.T) {
	env := testEnv()
	s, w := mustCreateWorkOrder(t, emptySet(), env, &NewWorkOrder{
		Title:      "Fix",
		AssignedTo: "E1",
		Items:      []NewLineItem{{Description: "bolt", Quantity: dec("1"), UnitPrice: dec("1")}},
	})

	got := mustWorkOrder(t, s, w.ID)
	got.Items[0].Description = "nut"
	*got.SortIndex = 99

	again := mustWorkOrder(t, s, w.ID)
	assert.Equal(t, "bolt", again.Items[0].Description)
	assert.Equal(t, 1, *again.SortIndex)
}

func TestDocumentSet_ListOrdering(t *testing.T) {
	env := testEnv()
	s := emptySet()
	s, a := mustCreateWorkOrder(t, s, env, &NewWorkOrder{Title: "a", AssignedTo: "E2"})
	s, b := mustCreateWorkOrder(t, s, env, &NewWorkOrder{Title: "b", AssignedTo: "E1", SortIndex: intPtr(4)})
	s, c := mustCreateWorkOrder(t, s, env, &NewWorkOrder{Title: "c", AssignedTo: "E1", SortIndex: intPtr(2)})

	var ids []string
	for _, w := range s.WorkOrders() {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, ids)

	s, older, _ := s.CreateQuote(env, &NewQuote{RelatedTo: RelatedToCustomer("C1")})
	s, newer, _ := s.CreateQuote(later(env, time.Hour), &NewQuote{RelatedTo: RelatedToCustomer("C1")})
	quotes := s.Quotes()
	require.Len(t, quotes, 2)
	assert.Equal(t, newer.ID, quotes[0].ID)
	assert.Equal(t, older.ID, quotes[1].ID)
}

func TestDocumentSet_RecordCollapsesCreateThenUpdate(t *testing.T) {
	s := emptySet().fork()
	s.record(DocumentKindQuote, "q1", ChangeCreated)
	s.record(DocumentKindQuote, "q1", ChangeUpdated)
	s.record(DocumentKindQuote, "q2", ChangeUpdated)
	s.record(DocumentKindQuote, "q2", ChangeDeleted)

	assert.Equal(t, []Change{
		{Kind: DocumentKindQuote, Id: "q1", Action: ChangeCreated},
		{Kind: DocumentKindQuote, Id: "q2", Action: ChangeDeleted},
	}, s.Changes())
}

func TestHistory_SortedKeepsTies(t *testing.T) {
	h := History{
		{Timestamp: testNow.Add(time.Minute), Details: "late"},
		{Timestamp: testNow, Details: "first"},
		{Timestamp: testNow, Details: "second"},
	}
	sorted := h.Sorted()
	assert.Equal(t, []string{"first", "second", "late"}, []string{sorted[0].Details, sorted[1].Details, sorted[2].Details})
	assert.Equal(t, "late", h[0].Details)
}
