package models

import (
	"fmt"

	"github.com/mmdatafocus/opsdesk_backend/utils"
)

// CloneQuote stores a new draft copy of a quote with its own lines, a fresh
// validity window and a history holding only the "cloned from" entry.
func (s DocumentSet) CloneQuote(env Env, id string) (DocumentSet, *Quote, error) {
	src, ok := s.quotes[id]
	if !ok {
		return s, nil, utils.ErrorRecordNotFound
	}

	quote := Quote{
		ID:          env.newId(),
		CustomerId:  copyString(src.CustomerId),
		LeadId:      copyString(src.LeadId),
		Status:      QuoteStatusDraft,
		ValidUntil:  env.Now.AddDate(0, 0, env.Settings.QuoteValidDays),
		Notes:       src.Notes,
		CreatedBy:   env.Actor.Id,
		Timestamps:  newTimestamps(env.Now),
		WorkOrderId: nil,
	}.withLines(cloneLineItems(src.Items), cloneLaborEntries(src.Labor), src.VatRate)
	quote = quote.withHistory(env.entry(HistoryActionCreated, fmt.Sprintf("Cloned from quote %s", shortId(src.ID))))

	next := s.fork()
	next.putQuote(quote, ChangeCreated)
	out := quote.clone()
	return next, &out, nil
}

// CloneInvoice stores a new draft copy under the next invoice number. The copy
// is not linked to the source's quote or work order.
func (s DocumentSet) CloneInvoice(env Env, id string) (DocumentSet, *Invoice, error) {
	src, ok := s.invoices[id]
	if !ok {
		return s, nil, utils.ErrorRecordNotFound
	}

	invoice := s.draftInvoice(env)
	invoice.CustomerId = copyString(src.CustomerId)
	invoice.PaymentTerms = src.PaymentTerms
	invoice.Notes = src.Notes
	invoice = invoice.withLines(cloneLineItems(src.Items), cloneLaborEntries(src.Labor), src.VatRate)
	invoice = invoice.withHistory(env.entry(HistoryActionCreated,
		fmt.Sprintf("Cloned from invoice %s", src.InvoiceNumber)))

	next := s.fork()
	next.putInvoice(invoice, ChangeCreated)
	out := invoice.clone()
	return next, &out, nil
}
