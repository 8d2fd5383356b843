package models

import (
	"errors"
	"testing"
	"time"

	"github.com/mmdatafocus/opsdesk_backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeWorkOrderStatus_StartedStampedOnce(t *testing.T) {
	env := testEnv()
	s, w := mustCreateWorkOrder(t, emptySet(), env, &NewWorkOrder{Title: "Fix roof", AssignedTo: "E2"})

	s, started, err := s.ChangeWorkOrderStatus(later(env, time.Hour), w.ID, WorkOrderStatusInProgress, nil)
	require.NoError(t, err)
	require.NotNil(t, started.Timestamps.Started)
	first := *started.Timestamps.Started

	s, again, err := s.ChangeWorkOrderStatus(later(env, 2*time.Hour), w.ID, WorkOrderStatusInProgress, nil)
	require.NoError(t, err)
	assert.Equal(t, first, *again.Timestamps.Started)
	assert.Equal(t, 2, countActions(again.History, HistoryActionStatusChanged))
	assert.Len(t, s.Invoices(), 0)
}

func TestChangeWorkOrderStatus_PendingReason(t *testing.T) {
	env := testEnv()
	s, w := mustCreateWorkOrder(t, emptySet(), env, &NewWorkOrder{Title: "Fix roof", AssignedTo: "E1"})

	s, pending, err := s.ChangeWorkOrderStatus(env, w.ID, WorkOrderStatusPending, strPtr("waiting for parts"))
	require.NoError(t, err)
	assert.Equal(t, WorkOrderStatusPending, pending.Status)
	assert.Equal(t, "waiting for parts", *pending.PendingReason)
	last := pending.History[len(pending.History)-1]
	assert.Contains(t, last.Details, "waiting for parts")
	assert.Equal(t, "To Do", *last.FromStatus)
	assert.Equal(t, "Pending", *last.ToStatus)

	_, resumed, err := s.ChangeWorkOrderStatus(env, w.ID, WorkOrderStatusInProgress, strPtr("ignored"))
	require.NoError(t, err)
	assert.Nil(t, resumed.PendingReason)
}

func TestCreateWorkOrder_WithReasonStartsPending(t *testing.T) {
	env := testEnv()
	_, w := mustCreateWorkOrder(t, emptySet(), env, &NewWorkOrder{
		Title:         "Paint hall",
		AssignedTo:    "E1",
		PendingReason: strPtr("customer on holiday"),
	})
	assert.Equal(t, WorkOrderStatusPending, w.Status)
	assert.Equal(t, "customer on holiday", *w.PendingReason)
	assert.Equal(t, []HistoryAction{HistoryActionCreated}, historyActions(w.History))
	assert.Equal(t, "E1", w.AssignedBy)
	assert.Equal(t, testNow, w.CreatedDate)
}

func TestCreateWorkOrder_WithStatusRunsTransition(t *testing.T) {
	env := testEnv()
	s, w := mustCreateWorkOrder(t, emptySet(), env, &NewWorkOrder{
		Title:      "Quick fix",
		AssignedTo: "E1",
		Status:     WorkOrderStatusCompleted,
		HoursSpent: nullDec("1.5"),
	})

	assert.Equal(t, WorkOrderStatusCompleted, w.Status)
	require.NotNil(t, w.InvoiceId)
	inv := mustInvoice(t, s, *w.InvoiceId)
	assert.True(t, inv.Total.Equal(dec("90.75")), "got %s", inv.Total)
	assert.Equal(t, Change{Kind: DocumentKindWorkOrder, Id: w.ID, Action: ChangeCreated}, s.Changes()[0])
}

func TestChangeWorkOrderStatus_Validation(t *testing.T) {
	env := testEnv()
	s, w := mustCreateWorkOrder(t, emptySet(), env, &NewWorkOrder{Title: "x", AssignedTo: "E1"})

	_, _, err := s.ChangeWorkOrderStatus(env, w.ID, WorkOrderStatus("Done"), nil)
	var ve *utils.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "oneof", ve.Fields["status"])

	_, _, err = s.ChangeWorkOrderStatus(env, "missing", WorkOrderStatusCompleted, nil)
	assert.ErrorIs(t, err, utils.ErrorRecordNotFound)
}

func TestCompleteWorkOrder_ReopenAndCompleteAgain(t *testing.T) {
	env := testEnv()
	s, w := mustCreateWorkOrder(t, emptySet(), env, &NewWorkOrder{Title: "Fix roof", AssignedTo: "E1", HoursSpent: nullDec("2")})

	s, done, err := s.ChangeWorkOrderStatus(later(env, time.Hour), w.ID, WorkOrderStatusCompleted, nil)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedDate)
	firstCompleted := *done.Timestamps.Completed
	require.NotNil(t, done.Timestamps.Converted)

	s, _, err = s.ChangeWorkOrderStatus(later(env, 2*time.Hour), w.ID, WorkOrderStatusToDo, nil)
	require.NoError(t, err)
	s, again, err := s.ChangeWorkOrderStatus(later(env, 3*time.Hour), w.ID, WorkOrderStatusCompleted, nil)
	require.NoError(t, err)

	assert.Equal(t, firstCompleted, *again.Timestamps.Completed)
	assert.Equal(t, testNow.Add(3*time.Hour), *again.CompletedDate)
	assert.Len(t, s.Invoices(), 1)
	assert.Equal(t, *done.InvoiceId, *again.InvoiceId)
	assert.Equal(t, 1, countActions(again.History, HistoryActionInvoiced))
}

func TestWorkOrderHistoryOnlyGrows(t *testing.T) {
	env := testEnv()
	s, w := mustCreateWorkOrder(t, emptySet(), env, &NewWorkOrder{Title: "Fix roof", AssignedTo: "E1"})
	prev := w.History

	steps := []func(DocumentSet, Env) (DocumentSet, *WorkOrder, error){
		func(s DocumentSet, env Env) (DocumentSet, *WorkOrder, error) {
			return s.ChangeWorkOrderStatus(env, w.ID, WorkOrderStatusInProgress, nil)
		},
		func(s DocumentSet, env Env) (DocumentSet, *WorkOrder, error) {
			form := workOrderForm(mustWorkOrder(t, s, w.ID))
			form.AssignedTo = "E2"
			form.Title = "Fix roof and gutter"
			form.SortIndex = nil
			return s.UpdateWorkOrder(env, w.ID, form)
		},
		func(s DocumentSet, env Env) (DocumentSet, *WorkOrder, error) {
			return s.SetWorkOrderSortIndex(env, w.ID, 5)
		},
		func(s DocumentSet, env Env) (DocumentSet, *WorkOrder, error) {
			return s.ChangeWorkOrderStatus(env, w.ID, WorkOrderStatusCompleted, nil)
		},
	}
	for i, step := range steps {
		env = later(env, time.Minute)
		next, updated, err := step(s, env)
		require.NoError(t, err, "step %d", i)

		require.Greater(t, len(updated.History), len(prev), "step %d", i)
		assert.Equal(t, prev, updated.History[:len(prev)], "step %d rewrote history", i)
		for j := 1; j < len(updated.History); j++ {
			assert.False(t, updated.History[j].Timestamp.Before(updated.History[j-1].Timestamp))
		}
		prev = updated.History
		s = next
	}

	assert.Equal(t, "E2", mustWorkOrder(t, s, w.ID).AssignedTo)
	assert.Equal(t, []HistoryAction{
		HistoryActionCreated,
		HistoryActionStatusChanged,
		HistoryActionUpdated,
		HistoryActionAssigned,
		HistoryActionReordered,
		HistoryActionStatusChanged,
		HistoryActionInvoiced,
	}, historyActions(prev))
}

func TestUpdateWorkOrder_ReassignmentMovesToEndOfNewQueue(t *testing.T) {
	env := testEnv()
	s := emptySet()
	s, _ = mustCreateWorkOrder(t, s, env, &NewWorkOrder{Title: "bob 1", AssignedTo: "E2"})
	s, _ = mustCreateWorkOrder(t, s, env, &NewWorkOrder{Title: "bob 2", AssignedTo: "E2"})
	s, w := mustCreateWorkOrder(t, s, env, &NewWorkOrder{Title: "alice 1", AssignedTo: "E1"})

	form := workOrderForm(w)
	form.AssignedTo = "E2"
	form.SortIndex = nil
	s, moved, err := s.UpdateWorkOrder(later(env, time.Hour), w.ID, form)
	require.NoError(t, err)

	assert.Equal(t, 3, *moved.SortIndex)
	assert.Equal(t, "E1", moved.AssignedBy)
	assert.Equal(t, testNow.Add(time.Hour), moved.Timestamps.Assigned)
	last := moved.History[len(moved.History)-1]
	assert.Equal(t, HistoryActionAssigned, last.Action)
	assert.Equal(t, "E1", *last.FromAssignee)
	assert.Equal(t, "E2", *last.ToAssignee)
	assert.Contains(t, last.Details, "Bob")
	assert.Len(t, s.OpenOrdersByAssignee()["E2"], 3)
}

func TestUpdateWorkOrder_InvalidInputLeavesSetUntouched(t *testing.T) {
	env := testEnv()
	s, w := mustCreateWorkOrder(t, emptySet(), env, &NewWorkOrder{Title: "Fix roof", AssignedTo: "E1"})

	form := workOrderForm(w)
	form.Title = "   "
	form.HoursSpent = nullDec("-1")
	after, updated, err := s.UpdateWorkOrder(env, w.ID, form)

	var ve *utils.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "required", ve.Fields["title"])
	assert.Equal(t, "gte", ve.Fields["hours_spent"])
	assert.Nil(t, updated)
	assert.Equal(t, "Fix roof", mustWorkOrder(t, after, w.ID).Title)
	assert.Len(t, mustWorkOrder(t, after, w.ID).History, 1)
}

func TestDeleteWorkOrder(t *testing.T) {
	env := testEnv()
	s, w := mustCreateWorkOrder(t, emptySet(), env, &NewWorkOrder{Title: "Fix roof", AssignedTo: "E1"})

	_, err := s.DeleteWorkOrder(env, w.ID, "wrong")
	assert.ErrorIs(t, err, utils.ErrConfirmationRequired)

	after, err := s.DeleteWorkOrder(env, w.ID, w.ID)
	require.NoError(t, err)
	assert.Empty(t, after.WorkOrders())
	assert.Len(t, s.WorkOrders(), 1)
}
