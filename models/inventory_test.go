package models

import (
	"errors"
	"testing"
	"time"

	"github.com/mmdatafocus/opsdesk_backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stock() map[string]InventoryItem {
	return map[string]InventoryItem{
		"x": {ID: "x", Name: "Widget", Quantity: dec("3"), Price: dec("10")},
		"y": {ID: "y", Name: "Valve", Quantity: dec("10"), Price: dec("4.5")},
	}
}

func TestValidateInventory(t *testing.T) {
	t.Run("enough stock", func(t *testing.T) {
		err := ValidateInventory([]RequiredMaterial{{ItemId: "x", Quantity: dec("3")}, {ItemId: "y", Quantity: dec("1")}}, stock())
		assert.NoError(t, err)
	})

	t.Run("reports first shortage only", func(t *testing.T) {
		err := ValidateInventory([]RequiredMaterial{
			{ItemId: "y", Quantity: dec("1")},
			{ItemId: "x", Quantity: dec("5")},
			{ItemId: "y", Quantity: dec("50")},
		}, stock())
		var ie *utils.InsufficientInventoryError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, "Widget", ie.ItemName)
		assert.True(t, ie.Available.Equal(dec("3")))
		assert.True(t, ie.Needed.Equal(dec("5")))
	})

	t.Run("repeated item uses running total", func(t *testing.T) {
		err := ValidateInventory([]RequiredMaterial{{ItemId: "x", Quantity: dec("2")}, {ItemId: "x", Quantity: dec("2")}}, stock())
		var ie *utils.InsufficientInventoryError
		require.True(t, errors.As(err, &ie))
		assert.True(t, ie.Needed.Equal(dec("4")))
	})

	t.Run("unknown item has nothing available", func(t *testing.T) {
		err := ValidateInventory([]RequiredMaterial{{ItemId: "ghost", Quantity: dec("1")}}, stock())
		var ie *utils.InsufficientInventoryError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, "ghost", ie.ItemName)
		assert.True(t, ie.Available.IsZero())
	})
}

func TestDeductInventory_ClampsAtZero(t *testing.T) {
	inventory := stock()
	updated := DeductInventory([]RequiredMaterial{
		{ItemId: "x", Quantity: dec("5")},
		{ItemId: "y", Quantity: dec("2")},
		{ItemId: "y", Quantity: dec("1.5")},
		{ItemId: "ghost", Quantity: dec("1")},
	}, inventory)

	require.Len(t, updated, 2)
	assert.Equal(t, "x", updated[0].ID)
	assert.True(t, updated[0].Quantity.IsZero(), "got %s", updated[0].Quantity)
	assert.True(t, updated[1].Quantity.Equal(dec("6.5")), "got %s", updated[1].Quantity)
	assert.True(t, inventory["x"].Quantity.Equal(dec("3")), "input map untouched")
}

func TestCompleteWorkOrder_DeductsStockOnce(t *testing.T) {
	env := testEnv()
	s := NewDocumentSet(nil, nil,
		[]WorkOrder{{
			ID:                "W1",
			Title:             "Replace widget",
			Status:            WorkOrderStatusInProgress,
			AssignedTo:        "E1",
			RequiredInventory: []RequiredMaterial{{ItemId: "x", Quantity: dec("5")}},
			SortIndex:         intPtr(1),
			CreatedDate:       testNow,
			Timestamps:        newTimestamps(testNow),
		}},
		[]InventoryItem{{ID: "x", Name: "Widget", Quantity: dec("3"), Price: dec("10")}},
	)

	s, done, err := s.ChangeWorkOrderStatus(env, "W1", WorkOrderStatusCompleted, nil)
	require.NoError(t, err)
	item, _ := s.InventoryItem("x")
	assert.True(t, item.Quantity.IsZero(), "got %s", item.Quantity)
	require.NotNil(t, done.MaterialsDeductedAt)
	assert.Contains(t, s.Changes(), Change{Kind: DocumentKindInventoryItem, Id: "x", Action: ChangeUpdated})

	restocked := NewDocumentSet(s.Quotes(), s.Invoices(), s.WorkOrders(),
		[]InventoryItem{{ID: "x", Name: "Widget", Quantity: dec("20"), Price: dec("10")}})
	restocked, _, err = restocked.ChangeWorkOrderStatus(later(env, time.Hour), "W1", WorkOrderStatusInProgress, nil)
	require.NoError(t, err)
	restocked, _, err = restocked.ChangeWorkOrderStatus(later(env, 2*time.Hour), "W1", WorkOrderStatusCompleted, nil)
	require.NoError(t, err)

	item, _ = restocked.InventoryItem("x")
	assert.True(t, item.Quantity.Equal(dec("20")), "second completion must not deduct again, got %s", item.Quantity)
	assert.Len(t, restocked.Invoices(), 1)
}

func TestCreateWorkOrder_RejectsShortStock(t *testing.T) {
	env := testEnv()
	s := NewDocumentSet(nil, nil, nil, []InventoryItem{{ID: "x", Name: "Widget", Quantity: dec("3")}})

	after, w, err := s.CreateWorkOrder(env, &NewWorkOrder{
		Title:             "Big job",
		AssignedTo:        "E1",
		RequiredInventory: []RequiredMaterial{{ItemId: "x", Quantity: dec("4")}},
	})
	assert.Nil(t, w)
	assert.True(t, utils.IsInsufficientInventoryError(err))
	assert.Empty(t, after.WorkOrders())
	assert.Empty(t, after.Changes())
}

func TestInventoryItem_NeedsReorder(t *testing.T) {
	assert.True(t, InventoryItem{Quantity: dec("2"), ReorderLevel: dec("2")}.NeedsReorder())
	assert.False(t, InventoryItem{Quantity: dec("3"), ReorderLevel: dec("2")}.NeedsReorder())
}
