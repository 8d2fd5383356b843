package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NextInvoiceNumber returns "{year}-{seq}" where seq is one past the highest
// sequence already used in that year, zero-padded to three digits.
func NextInvoiceNumber(invoices []Invoice, year int) string {
	prefix := fmt.Sprintf("%d-", year)
	highest := 0
	for _, inv := range invoices {
		if !strings.HasPrefix(inv.InvoiceNumber, prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(inv.InvoiceNumber, prefix))
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, highest+1)
}

// NextSortIndex is one past the assignee's highest index, or 1 when they have none.
func NextSortIndex(workOrders []WorkOrder, assigneeId string) int {
	return maxSortIndex(workOrders, assigneeId, "") + 1
}

func maxSortIndex(workOrders []WorkOrder, assigneeId string, excludeId string) int {
	highest := 0
	for _, w := range workOrders {
		if w.AssignedTo != assigneeId || w.ID == excludeId || w.SortIndex == nil {
			continue
		}
		if *w.SortIndex > highest {
			highest = *w.SortIndex
		}
	}
	return highest
}

// placeSortIndex gives w the target index and displaces any other open order
// of the same assignee already holding it. A displaced order moves to one past
// the highest index in use, counting previousIndex (w's index before the edit).
// status is the status w will have once the edit is applied.
// w is modified but not stored; displaced orders are stored.
func (s *DocumentSet) placeSortIndex(env Env, w *WorkOrder, target int, previousIndex *int, status WorkOrderStatus) {
	w.SortIndex = copyInt(&target)
	if status == WorkOrderStatusCompleted {
		return
	}

	orders := s.workOrderList()
	highest := maxSortIndex(orders, w.AssignedTo, w.ID)
	if previousIndex != nil && *previousIndex > highest {
		highest = *previousIndex
	}
	if target > highest {
		highest = target
	}

	var holders []WorkOrder
	for _, o := range orders {
		if o.ID == w.ID || o.AssignedTo != w.AssignedTo || o.Status == WorkOrderStatusCompleted {
			continue
		}
		if o.SortIndex != nil && *o.SortIndex == target {
			holders = append(holders, o)
		}
	}
	sort.Slice(holders, func(i, j int) bool { return holders[i].ID < holders[j].ID })

	for _, h := range holders {
		highest++
		moved := h.clone()
		moved.SortIndex = copyInt(&highest)
		moved.History = moved.History.Append(env.entry(HistoryActionReordered,
			fmt.Sprintf("Moved from position %d to %d to make room for %q", target, highest, w.Title)))
		s.putWorkOrder(moved, ChangeUpdated)

		w.History = w.History.Append(env.entry(HistoryActionReordered,
			fmt.Sprintf("Took position %d from %q, which moved to %d", target, h.Title, highest)))
	}
}

// ensureOpenSortIndex gives a reopened order a fresh index when an open order
// of the same assignee took its slot while it was completed.
func (s *DocumentSet) ensureOpenSortIndex(env Env, w *WorkOrder) {
	if w.SortIndex == nil {
		return
	}
	for _, o := range s.workOrders {
		if o.ID == w.ID || o.AssignedTo != w.AssignedTo || o.Status == WorkOrderStatusCompleted {
			continue
		}
		if o.SortIndex != nil && *o.SortIndex == *w.SortIndex {
			from := *w.SortIndex
			next := NextSortIndex(s.workOrderList(), w.AssignedTo)
			w.SortIndex = copyInt(&next)
			w.History = w.History.Append(env.entry(HistoryActionReordered,
				fmt.Sprintf("Reopened at position %d because position %d is taken by %q", next, from, o.Title)))
			return
		}
	}
}
