package models

import (
	"fmt"

	"github.com/mmdatafocus/opsdesk_backend/utils"
)

// ChangeWorkOrderStatus moves an order to status. Every state may move to any
// other; each move is recorded. pendingReason is only read when entering Pending.
func (s DocumentSet) ChangeWorkOrderStatus(env Env, id string, status WorkOrderStatus, pendingReason *string) (DocumentSet, *WorkOrder, error) {
	if !status.IsValid() {
		return s, nil, utils.NewValidationError("status", "oneof")
	}
	if _, ok := s.workOrders[id]; !ok {
		return s, nil, utils.ErrorRecordNotFound
	}

	next := s.fork()
	next.transitionWorkOrder(env, id, status, pendingReason)

	out := next.workOrders[id].clone()
	return next, &out, nil
}

// transitionWorkOrder runs one state change on an already forked set:
// side effects, then the status_changed entry, then timestamps. Completion
// additionally hands the order to the invoice conversion.
func (s *DocumentSet) transitionWorkOrder(env Env, id string, to WorkOrderStatus, pendingReason *string) {
	order := s.workOrders[id].clone()
	from := order.Status

	if from == WorkOrderStatusPending && to != WorkOrderStatusPending {
		order.PendingReason = nil
	}
	switch to {
	case WorkOrderStatusPending:
		if hasReason(pendingReason) {
			order.PendingReason = copyString(pendingReason)
		}
	case WorkOrderStatusCompleted:
		order.PendingReason = nil
		s.deductMaterials(env, &order)
	}
	if from == WorkOrderStatusCompleted && to != WorkOrderStatusCompleted {
		s.ensureOpenSortIndex(env, &order)
	}
	order.Status = to

	entry := env.entry(HistoryActionStatusChanged, fmt.Sprintf("Status changed from %s to %s", from, to))
	entry.FromStatus = statusPtr(from)
	entry.ToStatus = statusPtr(to)
	if to == WorkOrderStatusPending && order.PendingReason != nil {
		entry.Details += ": " + *order.PendingReason
	}
	order = order.withHistory(entry)

	switch to {
	case WorkOrderStatusInProgress:
		stampOnce(&order.Timestamps.Started, env.Now)
	case WorkOrderStatusCompleted:
		completed := env.Now
		order.CompletedDate = &completed
		stampOnce(&order.Timestamps.Completed, env.Now)
	}

	s.putWorkOrder(order, ChangeUpdated)

	if to == WorkOrderStatusCompleted {
		s.convertWorkOrderToInvoice(env, id)
	}
}

// deductMaterials takes the order's materials out of stock once per order.
func (s *DocumentSet) deductMaterials(env Env, order *WorkOrder) {
	if order.MaterialsDeductedAt != nil || len(order.RequiredInventory) == 0 {
		return
	}
	for _, item := range DeductInventory(order.RequiredInventory, s.inventory) {
		s.putInventoryItem(item)
	}
	deducted := env.Now
	order.MaterialsDeductedAt = &deducted
}
