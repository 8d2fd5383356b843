package models

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Reconcile checks the stored documents for drift the engine should never
// produce: clashing queue positions, reused invoice numbers, stale totals,
// negative stock and links to missing documents.
func (s DocumentSet) Reconcile(correlationId string) []ReconciliationReport {
	var reports []ReconciliationReport
	add := func(check string, kind DocumentKind, id string, format string, args ...interface{}) {
		reports = append(reports, ReconciliationReport{
			CheckType:     check,
			EntityType:    kind,
			EntityId:      id,
			Details:       fmt.Sprintf(format, args...),
			CorrelationId: correlationId,
		})
	}

	queues := s.OpenOrdersByAssignee()
	assignees := make([]string, 0, len(queues))
	for assignee := range queues {
		assignees = append(assignees, assignee)
	}
	sort.Strings(assignees)
	for _, assignee := range assignees {
		orders := queues[assignee]
		seen := map[int]string{}
		for _, w := range orders {
			if w.SortIndex == nil {
				add(CheckMissingSortIndex, DocumentKindWorkOrder, w.ID, "open work order of %s has no sort_index", assignee)
				continue
			}
			if other, ok := seen[*w.SortIndex]; ok {
				add(CheckDuplicateSortIndex, DocumentKindWorkOrder, w.ID, "sort_index %d of %s also used by %s", *w.SortIndex, assignee, other)
				continue
			}
			seen[*w.SortIndex] = w.ID
		}
	}

	numbers := map[string]string{}
	for _, inv := range s.Invoices() {
		if other, ok := numbers[inv.InvoiceNumber]; ok {
			add(CheckDuplicateInvoiceNumber, DocumentKindInvoice, inv.ID, "invoice_number %s also used by %s", inv.InvoiceNumber, other)
		} else {
			numbers[inv.InvoiceNumber] = inv.ID
		}
		if drift := totalsDrift(inv.Items, inv.Labor, inv.VatRate, Totals{Subtotal: inv.Subtotal, VatAmount: inv.VatAmount, Total: inv.Total}); drift != "" {
			add(CheckTotalsDrift, DocumentKindInvoice, inv.ID, "%s", drift)
		}
		if inv.QuoteId != nil {
			if _, ok := s.quotes[*inv.QuoteId]; !ok {
				add(CheckDanglingLink, DocumentKindInvoice, inv.ID, "quote_id %s not found", *inv.QuoteId)
			}
		}
		if inv.WorkOrderId != nil {
			if _, ok := s.workOrders[*inv.WorkOrderId]; !ok {
				add(CheckDanglingLink, DocumentKindInvoice, inv.ID, "work_order_id %s not found", *inv.WorkOrderId)
			}
		}
	}

	for _, q := range s.Quotes() {
		if drift := totalsDrift(q.Items, q.Labor, q.VatRate, Totals{Subtotal: q.Subtotal, VatAmount: q.VatAmount, Total: q.Total}); drift != "" {
			add(CheckTotalsDrift, DocumentKindQuote, q.ID, "%s", drift)
		}
		if q.WorkOrderId != nil {
			if _, ok := s.workOrders[*q.WorkOrderId]; !ok {
				add(CheckDanglingLink, DocumentKindQuote, q.ID, "work_order_id %s not found", *q.WorkOrderId)
			}
		}
	}

	for _, w := range s.WorkOrders() {
		if w.QuoteId != nil {
			if _, ok := s.quotes[*w.QuoteId]; !ok {
				add(CheckDanglingLink, DocumentKindWorkOrder, w.ID, "quote_id %s not found", *w.QuoteId)
			}
		}
		if w.InvoiceId != nil {
			if _, ok := s.invoices[*w.InvoiceId]; !ok {
				add(CheckDanglingLink, DocumentKindWorkOrder, w.ID, "invoice_id %s not found", *w.InvoiceId)
			}
		}
	}

	for _, it := range s.Inventory() {
		if it.Quantity.IsNegative() {
			add(CheckNegativeStock, DocumentKindInventoryItem, it.ID, "%s quantity=%s", it.Name, it.Quantity.String())
		}
	}
	return reports
}

func totalsDrift(items []LineItem, labor []LaborEntry, vatRate decimal.Decimal, stored Totals) string {
	want := ComputeTotals(items, labor, vatRate)
	if want.Subtotal.Round(4).Equal(stored.Subtotal.Round(4)) &&
		want.VatAmount.Round(4).Equal(stored.VatAmount.Round(4)) &&
		want.Total.Round(4).Equal(stored.Total.Round(4)) {
		return ""
	}
	return fmt.Sprintf("stored subtotal=%s vat=%s total=%s, recomputed subtotal=%s vat=%s total=%s",
		stored.Subtotal, stored.VatAmount, stored.Total, want.Subtotal, want.VatAmount, want.Total)
}
