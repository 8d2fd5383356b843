package models

import (
	"fmt"
	"time"

	"github.com/mmdatafocus/opsdesk_backend/config"
	"github.com/mmdatafocus/opsdesk_backend/utils"
	"github.com/shopspring/decimal"
)

type Quote struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	CustomerId  *string         `gorm:"size:64;index" json:"customer_id"`
	LeadId      *string         `gorm:"size:64;index" json:"lead_id"`
	Items       []LineItem      `gorm:"serializer:json;type:text" json:"items"`
	Labor       []LaborEntry    `gorm:"serializer:json;type:text" json:"labor"`
	VatRate     decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0" json:"vat_rate"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"subtotal"`
	VatAmount   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"vat_amount"`
	Total       decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"total"`
	Status      QuoteStatus     `gorm:"size:20;not null;index" json:"status"`
	ValidUntil  time.Time       `gorm:"not null" json:"valid_until"`
	Notes       string          `gorm:"type:text" json:"notes"`
	CreatedBy   string          `gorm:"size:64" json:"created_by"`
	WorkOrderId *string         `gorm:"size:36;index" json:"work_order_id"`
	Timestamps  Timestamps      `gorm:"serializer:json;type:text" json:"timestamps"`
	History     History         `gorm:"serializer:json;type:text" json:"history"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// RelatedTo is who a quote is for: exactly one of a lead or a customer.
type RelatedTo struct {
	Type RelatedType `json:"type" validate:"required,oneof=lead customer"`
	Id   string      `json:"id" validate:"required"`
}

func RelatedToLead(id string) RelatedTo {
	return RelatedTo{Type: RelatedTypeLead, Id: id}
}

func RelatedToCustomer(id string) RelatedTo {
	return RelatedTo{Type: RelatedTypeCustomer, Id: id}
}

func (r RelatedTo) ids() (customerId *string, leadId *string) {
	id := r.Id
	if r.Type == RelatedTypeLead {
		return nil, &id
	}
	return &id, nil
}

func (q Quote) RelatedTo() RelatedTo {
	if q.LeadId != nil {
		return RelatedToLead(*q.LeadId)
	}
	return RelatedToCustomer(stringValue(q.CustomerId))
}

type NewQuote struct {
	RelatedTo  RelatedTo        `json:"related_to"`
	Items      []NewLineItem    `json:"items" validate:"dive"`
	Labor      []NewLaborEntry  `json:"labor" validate:"dive"`
	VatRate    *decimal.Decimal `json:"vat_rate" validate:"omitempty,gte=0,lte=100"`
	Status     QuoteStatus      `json:"status"`
	ValidUntil *time.Time       `json:"valid_until"`
	Notes      string           `json:"notes"`
}

func (input *NewQuote) validate() error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if input.Status != "" && !input.Status.IsValid() {
		return utils.NewValidationError("status", "oneof")
	}
	return nil
}

func (q Quote) clone() Quote {
	out := q
	out.CustomerId = copyString(q.CustomerId)
	out.LeadId = copyString(q.LeadId)
	out.WorkOrderId = copyString(q.WorkOrderId)
	out.Items = cloneLineItems(q.Items)
	out.Labor = cloneLaborEntries(q.Labor)
	out.Timestamps = q.Timestamps.clone()
	out.History = q.History.Append()
	return out
}

// withLines replaces items, labor and VAT rate and recomputes the totals.
func (q Quote) withLines(items []LineItem, labor []LaborEntry, vatRate decimal.Decimal) Quote {
	q.Items = items
	q.Labor = labor
	q.VatRate = vatRate
	totals := ComputeTotals(items, labor, vatRate)
	q.Subtotal, q.VatAmount, q.Total = totals.Subtotal, totals.VatAmount, totals.Total
	return q
}

func (q Quote) withHistory(entries ...HistoryEntry) Quote {
	q.History = q.History.Append(entries...)
	return q
}

func (q Quote) withRelatedTo(r RelatedTo) Quote {
	q.CustomerId, q.LeadId = r.ids()
	return q
}

func (e Env) relatedName(r RelatedTo) string {
	if r.Type == RelatedTypeCustomer {
		return e.customerName(r.Id)
	}
	return "lead " + r.Id
}

func (s DocumentSet) CreateQuote(env Env, input *NewQuote) (DocumentSet, *Quote, error) {
	if err := input.validate(); err != nil {
		return s, nil, err
	}

	status := input.Status
	if status == "" {
		status = QuoteStatusDraft
	}
	validUntil := env.Now.AddDate(0, 0, env.Settings.QuoteValidDays)
	if input.ValidUntil != nil {
		validUntil = *input.ValidUntil
	}

	quote := Quote{
		ID:         env.newId(),
		Status:     status,
		ValidUntil: validUntil,
		Notes:      input.Notes,
		CreatedBy:  env.Actor.Id,
		Timestamps: newTimestamps(env.Now),
	}.
		withRelatedTo(input.RelatedTo).
		withLines(lineItemsFromInput(input.Items), laborFromInput(input.Labor), env.vatRateOr(input.VatRate))
	quote = quote.withHistory(env.entry(HistoryActionCreated,
		fmt.Sprintf("Quote created for %s", env.relatedName(input.RelatedTo))))

	next := s.fork()
	next.putQuote(quote, ChangeCreated)
	out := quote.clone()
	return next, &out, nil
}

func (s DocumentSet) UpdateQuote(env Env, id string, input *NewQuote) (DocumentSet, *Quote, error) {
	old, ok := s.quotes[id]
	if !ok {
		return s, nil, utils.ErrorRecordNotFound
	}
	if err := input.validate(); err != nil {
		return s, nil, err
	}

	vatRate := old.VatRate
	if input.VatRate != nil {
		vatRate = *input.VatRate
	}
	quote := old.clone().
		withRelatedTo(input.RelatedTo).
		withLines(lineItemsFromInput(input.Items), laborFromInput(input.Labor), vatRate)
	quote.Notes = input.Notes
	if input.ValidUntil != nil {
		quote.ValidUntil = *input.ValidUntil
	}
	quote = quote.withHistory(env.entry(HistoryActionUpdated,
		fmt.Sprintf("Quote updated, total %s", quote.Total.StringFixed(2))))
	if input.Status != "" && input.Status != old.Status {
		quote = quote.withStatus(env, input.Status)
	}

	next := s.fork()
	next.putQuote(quote, ChangeUpdated)
	out := quote.clone()
	return next, &out, nil
}

func (q Quote) withStatus(env Env, status QuoteStatus) Quote {
	from := q.Status
	q.Status = status
	entry := env.entry(HistoryActionStatusChanged, fmt.Sprintf("Status changed from %s to %s", from, status))
	entry.FromStatus = statusPtr(from)
	entry.ToStatus = statusPtr(status)
	return q.withHistory(entry)
}

func (s DocumentSet) ChangeQuoteStatus(env Env, id string, status QuoteStatus) (DocumentSet, *Quote, error) {
	if !status.IsValid() {
		return s, nil, utils.NewValidationError("status", "oneof")
	}
	old, ok := s.quotes[id]
	if !ok {
		return s, nil, utils.ErrorRecordNotFound
	}

	quote := old.clone().withStatus(env, status)

	next := s.fork()
	next.putQuote(quote, ChangeUpdated)
	out := quote.clone()
	return next, &out, nil
}

// DeleteQuote removes a quote once confirmed. Under the block policy a quote
// that a work order or invoice still points at cannot be deleted.
func (s DocumentSet) DeleteQuote(env Env, id string, confirmation string) (DocumentSet, error) {
	if err := env.authorizeDelete(id, confirmation); err != nil {
		return s, err
	}
	if _, ok := s.quotes[id]; !ok {
		return s, utils.ErrorRecordNotFound
	}
	if env.Settings.DeletePolicy != config.ReferenceDeleteTolerate {
		if by := s.quoteReferencedBy(id); by != "" {
			return s, &utils.ReferencedDocumentError{Kind: string(DocumentKindQuote), Id: id, ReferencedBy: by}
		}
	}

	next := s.fork()
	delete(next.quotes, id)
	next.record(DocumentKindQuote, id, ChangeDeleted)
	return next, nil
}
