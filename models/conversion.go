package models

import (
	"fmt"
	"sort"

	"github.com/mmdatafocus/opsdesk_backend/utils"
	"github.com/shopspring/decimal"
)

// conversionSource is the part of a quote or invoice a work order is built from.
type conversionSource struct {
	label      string
	customerId *string
	items      []LineItem
	labor      []LaborEntry
	total      decimal.Decimal
	notes      string
}

func (s DocumentSet) ConvertQuoteToWorkOrder(env Env, quoteId string, assignee *string) (DocumentSet, *WorkOrder, error) {
	q, ok := s.quotes[quoteId]
	if !ok {
		return s, nil, utils.ErrorRecordNotFound
	}
	src := conversionSource{
		label:      "quote " + shortId(q.ID),
		customerId: q.CustomerId,
		items:      q.Items,
		labor:      q.Labor,
		total:      q.Total,
		notes:      q.Notes,
	}

	next := s.fork()
	order := next.workOrderFromSource(env, src, assignee)
	order.QuoteId = &q.ID
	next.putWorkOrder(order, ChangeCreated)

	out := order.clone()
	return next, &out, nil
}

func (s DocumentSet) ConvertInvoiceToWorkOrder(env Env, invoiceId string, assignee *string) (DocumentSet, *WorkOrder, error) {
	inv, ok := s.invoices[invoiceId]
	if !ok {
		return s, nil, utils.ErrorRecordNotFound
	}
	src := conversionSource{
		label:      "invoice " + inv.InvoiceNumber,
		customerId: inv.CustomerId,
		items:      inv.Items,
		labor:      inv.Labor,
		total:      inv.Total,
		notes:      inv.Notes,
	}

	next := s.fork()
	order := next.workOrderFromSource(env, src, assignee)
	order.InvoiceId = &inv.ID
	next.putWorkOrder(order, ChangeCreated)

	out := order.clone()
	return next, &out, nil
}

// workOrderFromSource builds a To Do order from a quote or invoice. Nothing is
// written back onto the source; the order's quote/invoice id is the only link.
func (s *DocumentSet) workOrderFromSource(env Env, src conversionSource, assignee *string) WorkOrder {
	assignedTo := env.Actor.Id
	if assignee != nil && *assignee != "" {
		assignedTo = *assignee
	}

	title := "Work from " + src.label
	if len(src.items) > 0 && src.items[0].Description != "" {
		title = src.items[0].Description
	}
	labor := cloneLaborEntries(src.labor)
	sortIndex := NextSortIndex(s.workOrderList(), assignedTo)
	convertedBy := env.Actor.Id

	order := WorkOrder{
		ID:             env.newId(),
		Title:          title,
		Description:    src.notes,
		Status:         WorkOrderStatusToDo,
		AssignedTo:     assignedTo,
		AssignedBy:     env.Actor.Id,
		ConvertedBy:    &convertedBy,
		CustomerId:     copyString(src.customerId),
		Items:          cloneLineItems(src.items),
		Labor:          labor,
		EstimatedHours: decimal.NewNullDecimal(sumLaborHours(labor)),
		EstimatedCost:  decimal.NewNullDecimal(src.total),
		SortIndex:      &sortIndex,
		CreatedDate:    env.Now,
		Timestamps:     newTimestamps(env.Now),
	}

	assigned := env.entry(HistoryActionAssigned, "Assigned to "+env.employeeName(assignedTo))
	assigned.ToAssignee = &assignedTo
	order = order.withHistory(
		env.entry(HistoryActionCreated, fmt.Sprintf("Work order created from %s", src.label)),
		env.entry(HistoryActionConverted, fmt.Sprintf("Converted from %s by %s", src.label, env.actorName())),
		assigned,
	)
	stampOnce(&order.Timestamps.ConvertedToWorkOrder, env.Now)
	return order
}

// ConvertWorkOrderToInvoice materializes or refreshes the invoice for an order.
// It is what completion runs; calling it directly never creates a second invoice.
func (s DocumentSet) ConvertWorkOrderToInvoice(env Env, workOrderId string) (DocumentSet, *Invoice, error) {
	if _, ok := s.workOrders[workOrderId]; !ok {
		return s, nil, utils.ErrorRecordNotFound
	}
	next := s.fork()
	invoiceId := next.convertWorkOrderToInvoice(env, workOrderId)
	if len(next.changes) == 0 {
		next = s
	}
	inv, ok := next.Invoice(invoiceId)
	if !ok {
		return s, nil, utils.ErrorRecordNotFound
	}
	return next, &inv, nil
}

// convertWorkOrderToInvoice picks the target invoice in order:
//  1. the invoice the order already links to (or that links back to it),
//  2. an invoice already derived from the order's quote,
//  3. a new invoice.
//
// For 1 and 2 only the labor hours are refreshed, and only when the order
// has hours spent. It returns the invoice id.
func (s *DocumentSet) convertWorkOrderToInvoice(env Env, workOrderId string) string {
	order := s.workOrders[workOrderId]

	if inv, ok := s.invoiceOfWorkOrder(order); ok {
		s.refreshInvoiceFromWorkOrder(env, inv, order)
		return inv.ID
	}
	if order.QuoteId != nil {
		if inv, ok := s.invoiceOfQuote(*order.QuoteId); ok {
			s.refreshInvoiceFromWorkOrder(env, inv, order)
			return inv.ID
		}
	}
	return s.createInvoiceFromWorkOrder(env, order)
}

func (s DocumentSet) invoiceOfWorkOrder(order WorkOrder) (Invoice, bool) {
	if order.InvoiceId != nil {
		if inv, ok := s.invoices[*order.InvoiceId]; ok {
			return inv, true
		}
	}
	return s.firstInvoiceWhere(func(inv Invoice) bool {
		return inv.WorkOrderId != nil && *inv.WorkOrderId == order.ID
	})
}

func (s DocumentSet) invoiceOfQuote(quoteId string) (Invoice, bool) {
	return s.firstInvoiceWhere(func(inv Invoice) bool {
		return inv.QuoteId != nil && *inv.QuoteId == quoteId
	})
}

// firstInvoiceWhere returns the lowest-numbered matching invoice.
func (s DocumentSet) firstInvoiceWhere(match func(Invoice) bool) (Invoice, bool) {
	var found []Invoice
	for _, inv := range s.invoices {
		if match(inv) {
			found = append(found, inv)
		}
	}
	if len(found) == 0 {
		return Invoice{}, false
	}
	sort.Slice(found, func(i, j int) bool { return found[i].InvoiceNumber < found[j].InvoiceNumber })
	return found[0], true
}

// refreshInvoiceFromWorkOrder updates labor hours from the order's hours spent
// and makes sure both documents link to each other.
func (s *DocumentSet) refreshInvoiceFromWorkOrder(env Env, inv Invoice, order WorkOrder) {
	invoice := inv.clone()
	invoiceChanged := false
	if order.HoursSpent.Valid {
		labor := laborWithHours(invoice.Labor, order.HoursSpent.Decimal, env.Settings.DefaultHourlyRate, order.Title)
		invoice = invoice.withLines(invoice.Items, labor, invoice.VatRate)
		invoice = invoice.withHistory(env.entry(HistoryActionUpdated,
			fmt.Sprintf("Labor set to %s hours from work order %q, total %s",
				order.HoursSpent.Decimal.String(), order.Title, invoice.Total.StringFixed(2))))
		invoiceChanged = true
	}
	if invoice.WorkOrderId == nil {
		invoice.WorkOrderId = &order.ID
		invoiceChanged = true
	}
	if invoiceChanged {
		s.putInvoice(invoice, ChangeUpdated)
	}

	if order.InvoiceId == nil || *order.InvoiceId != invoice.ID {
		linked := order.clone()
		linked.InvoiceId = &invoice.ID
		linked = linked.withHistory(env.entry(HistoryActionInvoiced,
			fmt.Sprintf("Linked to invoice %s", invoice.InvoiceNumber)))
		s.putWorkOrder(linked, ChangeUpdated)
	}
}

// laborWithHours sets the total labor hours to hours. A single entry takes
// all of them, several entries are scaled proportionally, and with no entries
// one is added at the default rate.
func laborWithHours(labor []LaborEntry, hours decimal.Decimal, defaultRate decimal.Decimal, title string) []LaborEntry {
	switch len(labor) {
	case 0:
		return []LaborEntry{newLaborEntry("Labor: "+title, hours, defaultRate)}
	case 1:
		return []LaborEntry{newLaborEntry(labor[0].Description, hours, labor[0].HourlyRate)}
	}
	weights := make([]decimal.Decimal, len(labor))
	for i, l := range labor {
		weights[i] = l.Hours
	}
	shares := utils.SplitProportionally(hours, weights, 2)
	out := make([]LaborEntry, len(labor))
	for i, l := range labor {
		out[i] = newLaborEntry(l.Description, shares[i], l.HourlyRate)
	}
	return out
}

func (s *DocumentSet) createInvoiceFromWorkOrder(env Env, order WorkOrder) string {
	var quote *Quote
	if order.QuoteId != nil {
		if q, ok := s.quotes[*order.QuoteId]; ok {
			quote = &q
		}
	}

	invoice := s.draftInvoice(env)
	invoice.CustomerId = copyString(order.CustomerId)
	if invoice.CustomerId == nil && quote != nil {
		invoice.CustomerId = copyString(quote.CustomerId)
	}
	invoice.QuoteId = copyString(order.QuoteId)
	invoice.WorkOrderId = &order.ID
	invoice.Notes = fmt.Sprintf("Generated from work order %q", order.Title)

	vatRate := env.Settings.DefaultVatRate
	if quote != nil {
		vatRate = quote.VatRate
	}
	invoice = invoice.withLines(s.invoiceItemsFor(order, quote), invoiceLaborFor(order, quote, env), vatRate)
	invoice = invoice.withHistory(env.entry(HistoryActionCreated,
		fmt.Sprintf("Invoice %s generated from work order %q", invoice.InvoiceNumber, order.Title)))
	s.putInvoice(invoice, ChangeCreated)

	linked := order.clone()
	linked.InvoiceId = &invoice.ID
	if linked.ConvertedBy == nil {
		convertedBy := env.Actor.Id
		linked.ConvertedBy = &convertedBy
	}
	linked = linked.withHistory(env.entry(HistoryActionInvoiced,
		fmt.Sprintf("Invoice %s created, total %s", invoice.InvoiceNumber, invoice.Total.StringFixed(2))))
	stampOnce(&linked.Timestamps.Converted, env.Now)
	s.putWorkOrder(linked, ChangeUpdated)

	return invoice.ID
}

// invoiceItemsFor picks the invoice lines: the quote's, else the order's own,
// else its materials priced from inventory, else one line for the estimate.
func (s DocumentSet) invoiceItemsFor(order WorkOrder, quote *Quote) []LineItem {
	if quote != nil && len(quote.Items) > 0 {
		return cloneLineItems(quote.Items)
	}
	if len(order.Items) > 0 {
		return cloneLineItems(order.Items)
	}
	if len(order.RequiredInventory) > 0 {
		items := make([]LineItem, 0, len(order.RequiredInventory))
		for _, m := range order.RequiredInventory {
			itemId := m.ItemId
			if it, ok := s.inventory[m.ItemId]; ok {
				items = append(items, newLineItem(it.Name, m.Quantity, it.Price, &itemId))
				continue
			}
			items = append(items, newLineItem("Item "+m.ItemId, m.Quantity, decimal.Zero, &itemId))
		}
		return items
	}
	if order.EstimatedCost.Valid {
		return []LineItem{newLineItem(order.Title, decimal.NewFromInt(1), order.EstimatedCost.Decimal, nil)}
	}
	return []LineItem{}
}

// invoiceLaborFor copies the quote's labor, else bills hours spent at the
// default rate, else keeps the order's own labor lines.
func invoiceLaborFor(order WorkOrder, quote *Quote, env Env) []LaborEntry {
	if quote != nil && len(quote.Labor) > 0 {
		return cloneLaborEntries(quote.Labor)
	}
	if order.HoursSpent.Valid {
		return []LaborEntry{newLaborEntry("Labor: "+order.Title, order.HoursSpent.Decimal, env.Settings.DefaultHourlyRate)}
	}
	return cloneLaborEntries(order.Labor)
}

func shortId(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
