package models

import (
	"fmt"
	"time"

	"github.com/mmdatafocus/opsdesk_backend/config"
	"github.com/mmdatafocus/opsdesk_backend/utils"
	"github.com/shopspring/decimal"
)

type Invoice struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	InvoiceNumber string          `gorm:"size:20;not null;uniqueIndex" json:"invoice_number"`
	CustomerId    *string         `gorm:"size:64;index" json:"customer_id"`
	Items         []LineItem      `gorm:"serializer:json;type:text" json:"items"`
	Labor         []LaborEntry    `gorm:"serializer:json;type:text" json:"labor"`
	VatRate       decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0" json:"vat_rate"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"subtotal"`
	VatAmount     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"vat_amount"`
	Total         decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"total"`
	Status        InvoiceStatus   `gorm:"size:20;not null;index" json:"status"`
	IssueDate     time.Time       `gorm:"not null" json:"issue_date"`
	DueDate       time.Time       `gorm:"not null" json:"due_date"`
	PaymentTerms  string          `gorm:"size:100" json:"payment_terms"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedBy     string          `gorm:"size:64" json:"created_by"`
	QuoteId       *string         `gorm:"size:36;index" json:"quote_id"`
	WorkOrderId   *string         `gorm:"size:36;index" json:"work_order_id"`
	Timestamps    Timestamps      `gorm:"serializer:json;type:text" json:"timestamps"`
	History       History         `gorm:"serializer:json;type:text" json:"history"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInvoice struct {
	CustomerId   string           `json:"customer_id" validate:"required"`
	Items        []NewLineItem    `json:"items" validate:"dive"`
	Labor        []NewLaborEntry  `json:"labor" validate:"dive"`
	VatRate      *decimal.Decimal `json:"vat_rate" validate:"omitempty,gte=0,lte=100"`
	Status       InvoiceStatus    `json:"status"`
	IssueDate    *time.Time       `json:"issue_date"`
	DueDate      *time.Time       `json:"due_date"`
	PaymentTerms string           `json:"payment_terms" validate:"max=100"`
	Notes        string           `json:"notes"`
	QuoteId      *string          `json:"quote_id"`
	WorkOrderId  *string          `json:"work_order_id"`
}

func (input *NewInvoice) validate(s DocumentSet) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if input.Status != "" && !input.Status.IsValid() {
		return utils.NewValidationError("status", "oneof")
	}
	if input.IssueDate != nil && input.DueDate != nil && input.DueDate.Before(*input.IssueDate) {
		return utils.NewValidationError("due_date", "gtefield")
	}
	if stringValue(input.QuoteId) != "" {
		if _, ok := s.quotes[*input.QuoteId]; !ok {
			return utils.NewValidationError("quote_id", "exists")
		}
	}
	if stringValue(input.WorkOrderId) != "" {
		if _, ok := s.workOrders[*input.WorkOrderId]; !ok {
			return utils.NewValidationError("work_order_id", "exists")
		}
	}
	return nil
}

func (inv Invoice) clone() Invoice {
	out := inv
	out.CustomerId = copyString(inv.CustomerId)
	out.QuoteId = copyString(inv.QuoteId)
	out.WorkOrderId = copyString(inv.WorkOrderId)
	out.Items = cloneLineItems(inv.Items)
	out.Labor = cloneLaborEntries(inv.Labor)
	out.Timestamps = inv.Timestamps.clone()
	out.History = inv.History.Append()
	return out
}

func (inv Invoice) withLines(items []LineItem, labor []LaborEntry, vatRate decimal.Decimal) Invoice {
	inv.Items = items
	inv.Labor = labor
	inv.VatRate = vatRate
	totals := ComputeTotals(items, labor, vatRate)
	inv.Subtotal, inv.VatAmount, inv.Total = totals.Subtotal, totals.VatAmount, totals.Total
	return inv
}

func (inv Invoice) withHistory(entries ...HistoryEntry) Invoice {
	inv.History = inv.History.Append(entries...)
	return inv
}

func (inv Invoice) withStatus(env Env, status InvoiceStatus) Invoice {
	from := inv.Status
	inv.Status = status
	entry := env.entry(HistoryActionStatusChanged, fmt.Sprintf("Status changed from %s to %s", from, status))
	entry.FromStatus = statusPtr(from)
	entry.ToStatus = statusPtr(status)
	return inv.withHistory(entry)
}

// draftInvoice returns an invoice with a freshly allocated number, issued now
// and due after the configured number of days.
func (s DocumentSet) draftInvoice(env Env) Invoice {
	return Invoice{
		ID:            env.newId(),
		InvoiceNumber: NextInvoiceNumber(s.invoiceList(), env.Now.Year()),
		Status:        InvoiceStatusDraft,
		IssueDate:     env.Now,
		DueDate:       env.Now.AddDate(0, 0, env.Settings.InvoiceDueDays),
		PaymentTerms:  env.Settings.PaymentTerms,
		CreatedBy:     env.Actor.Id,
		Timestamps:    newTimestamps(env.Now),
	}
}

func (s DocumentSet) CreateInvoice(env Env, input *NewInvoice) (DocumentSet, *Invoice, error) {
	if err := input.validate(s); err != nil {
		return s, nil, err
	}

	invoice := s.draftInvoice(env)
	customerId := input.CustomerId
	invoice.CustomerId = &customerId
	if input.Status != "" {
		invoice.Status = input.Status
	}
	if input.IssueDate != nil {
		invoice.IssueDate = *input.IssueDate
		invoice.DueDate = input.IssueDate.AddDate(0, 0, env.Settings.InvoiceDueDays)
	}
	if input.DueDate != nil {
		invoice.DueDate = *input.DueDate
	}
	if input.PaymentTerms != "" {
		invoice.PaymentTerms = input.PaymentTerms
	}
	invoice.Notes = input.Notes
	invoice.QuoteId = nonEmpty(input.QuoteId)
	invoice.WorkOrderId = nonEmpty(input.WorkOrderId)
	invoice = invoice.withLines(lineItemsFromInput(input.Items), laborFromInput(input.Labor), env.vatRateOr(input.VatRate))
	invoice = invoice.withHistory(env.entry(HistoryActionCreated,
		fmt.Sprintf("Invoice %s created for %s", invoice.InvoiceNumber, env.customerName(customerId))))

	next := s.fork()
	next.putInvoice(invoice, ChangeCreated)
	out := invoice.clone()
	return next, &out, nil
}

// UpdateInvoice replaces the editable fields. The invoice number never changes.
func (s DocumentSet) UpdateInvoice(env Env, id string, input *NewInvoice) (DocumentSet, *Invoice, error) {
	old, ok := s.invoices[id]
	if !ok {
		return s, nil, utils.ErrorRecordNotFound
	}
	if err := input.validate(s); err != nil {
		return s, nil, err
	}
	if input.DueDate == nil && input.IssueDate != nil && old.DueDate.Before(*input.IssueDate) {
		return s, nil, utils.NewValidationError("due_date", "gtefield")
	}

	vatRate := old.VatRate
	if input.VatRate != nil {
		vatRate = *input.VatRate
	}
	invoice := old.clone().withLines(lineItemsFromInput(input.Items), laborFromInput(input.Labor), vatRate)
	customerId := input.CustomerId
	invoice.CustomerId = &customerId
	if input.IssueDate != nil {
		invoice.IssueDate = *input.IssueDate
	}
	if input.DueDate != nil {
		invoice.DueDate = *input.DueDate
	}
	if input.PaymentTerms != "" {
		invoice.PaymentTerms = input.PaymentTerms
	}
	invoice.Notes = input.Notes
	details := fmt.Sprintf("Invoice %s updated, total %s", invoice.InvoiceNumber, invoice.Total.StringFixed(2))
	var relinked bool
	if invoice.QuoteId, relinked = relink(old.QuoteId, input.QuoteId); relinked {
		details += fmt.Sprintf("; quote link %s -> %s", linkText(old.QuoteId), linkText(invoice.QuoteId))
	}
	if invoice.WorkOrderId, relinked = relink(old.WorkOrderId, input.WorkOrderId); relinked {
		details += fmt.Sprintf("; work order link %s -> %s", linkText(old.WorkOrderId), linkText(invoice.WorkOrderId))
	}
	invoice = invoice.withHistory(env.entry(HistoryActionUpdated, details))
	if input.Status != "" && input.Status != old.Status {
		invoice = invoice.withStatus(env, input.Status)
	}

	next := s.fork()
	next.putInvoice(invoice, ChangeUpdated)
	out := invoice.clone()
	return next, &out, nil
}

func (s DocumentSet) ChangeInvoiceStatus(env Env, id string, status InvoiceStatus) (DocumentSet, *Invoice, error) {
	if !status.IsValid() {
		return s, nil, utils.NewValidationError("status", "oneof")
	}
	old, ok := s.invoices[id]
	if !ok {
		return s, nil, utils.ErrorRecordNotFound
	}

	invoice := old.clone().withStatus(env, status)

	next := s.fork()
	next.putInvoice(invoice, ChangeUpdated)
	out := invoice.clone()
	return next, &out, nil
}

// DeleteInvoice removes an invoice once confirmed. Under the block policy an
// invoice a work order still points at cannot be deleted.
func (s DocumentSet) DeleteInvoice(env Env, id string, confirmation string) (DocumentSet, error) {
	if err := env.authorizeDelete(id, confirmation); err != nil {
		return s, err
	}
	inv, ok := s.invoices[id]
	if !ok {
		return s, utils.ErrorRecordNotFound
	}
	if env.Settings.DeletePolicy != config.ReferenceDeleteTolerate {
		if by := s.invoiceReferencedBy(id); by != "" {
			return s, &utils.ReferencedDocumentError{Kind: string(DocumentKindInvoice), Id: inv.InvoiceNumber, ReferencedBy: by}
		}
	}

	next := s.fork()
	delete(next.invoices, id)
	next.record(DocumentKindInvoice, id, ChangeDeleted)
	return next, nil
}

// MarkOverdue flips sent invoices past their due date to overdue.
func (s DocumentSet) MarkOverdue(env Env) (DocumentSet, []Invoice) {
	next := s.fork()
	var changed []Invoice
	for _, inv := range s.Invoices() {
		if inv.Status != InvoiceStatusSent || !env.Now.After(inv.DueDate) {
			continue
		}
		updated := inv.withStatus(env, InvoiceStatusOverdue)
		next.putInvoice(updated, ChangeUpdated)
		changed = append(changed, updated.clone())
	}
	if len(changed) == 0 {
		return s, nil
	}
	return next, changed
}
