package models

import (
	"errors"
)

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusApproved QuoteStatus = "approved"
	QuoteStatusRejected QuoteStatus = "rejected"
	QuoteStatusExpired  QuoteStatus = "expired"
)

func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusApproved, QuoteStatusRejected, QuoteStatusExpired:
		return true
	}
	return false
}

func (s *QuoteStatus) UnmarshalText(b []byte) error {
	v := QuoteStatus(b)
	if !v.IsValid() {
		return errors.New("invalid quote status")
	}
	*s = v
	return nil
}

type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

func (s *InvoiceStatus) UnmarshalText(b []byte) error {
	v := InvoiceStatus(b)
	if !v.IsValid() {
		return errors.New("invalid invoice status")
	}
	*s = v
	return nil
}

type WorkOrderStatus string

const (
	WorkOrderStatusToDo       WorkOrderStatus = "To Do"
	WorkOrderStatusPending    WorkOrderStatus = "Pending"
	WorkOrderStatusInProgress WorkOrderStatus = "In Progress"
	WorkOrderStatusCompleted  WorkOrderStatus = "Completed"
)

func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case WorkOrderStatusToDo, WorkOrderStatusPending, WorkOrderStatusInProgress, WorkOrderStatusCompleted:
		return true
	}
	return false
}

func (s *WorkOrderStatus) UnmarshalText(b []byte) error {
	v := WorkOrderStatus(b)
	if !v.IsValid() {
		return errors.New("invalid work order status")
	}
	*s = v
	return nil
}

type HistoryAction string

const (
	HistoryActionCreated       HistoryAction = "created"
	HistoryActionUpdated       HistoryAction = "updated"
	HistoryActionStatusChanged HistoryAction = "status_changed"
	HistoryActionAssigned      HistoryAction = "assigned"
	HistoryActionReordered     HistoryAction = "reordered"
	HistoryActionConverted     HistoryAction = "converted"
	HistoryActionInvoiced      HistoryAction = "invoiced"
)

type RelatedType string

const (
	RelatedTypeLead     RelatedType = "lead"
	RelatedTypeCustomer RelatedType = "customer"
)

// DocumentKind names the document collections the engine owns.
type DocumentKind string

const (
	DocumentKindQuote         DocumentKind = "Quote"
	DocumentKindInvoice       DocumentKind = "Invoice"
	DocumentKindWorkOrder     DocumentKind = "WorkOrder"
	DocumentKindInventoryItem DocumentKind = "InventoryItem"
)
