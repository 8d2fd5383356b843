package models

import (
	"sort"
)

type ChangeAction string

const (
	ChangeCreated ChangeAction = "created"
	ChangeUpdated ChangeAction = "updated"
	ChangeDeleted ChangeAction = "deleted"
)

// Change names one document an operation wrote. The store persists exactly these.
type Change struct {
	Kind   DocumentKind
	Id     string
	Action ChangeAction
}

// DocumentSet is an immutable snapshot of every document collection, indexed by id.
// Operations return a new set and leave the receiver untouched; Changes on the
// returned set lists what that operation wrote.
type DocumentSet struct {
	quotes     map[string]Quote
	invoices   map[string]Invoice
	workOrders map[string]WorkOrder
	inventory  map[string]InventoryItem
	changes    []Change
}

func NewDocumentSet(quotes []Quote, invoices []Invoice, workOrders []WorkOrder, inventory []InventoryItem) DocumentSet {
	s := DocumentSet{
		quotes:     make(map[string]Quote, len(quotes)),
		invoices:   make(map[string]Invoice, len(invoices)),
		workOrders: make(map[string]WorkOrder, len(workOrders)),
		inventory:  make(map[string]InventoryItem, len(inventory)),
	}
	for _, q := range quotes {
		s.quotes[q.ID] = q.clone()
	}
	for _, inv := range invoices {
		s.invoices[inv.ID] = inv.clone()
	}
	for _, w := range workOrders {
		s.workOrders[w.ID] = w.clone()
	}
	for _, it := range inventory {
		s.inventory[it.ID] = it
	}
	return s
}

// fork copies the indexes so the copy can be written without touching s.
// Documents are stored by value and replaced wholesale, never edited in place.
func (s DocumentSet) fork() DocumentSet {
	next := DocumentSet{
		quotes:     make(map[string]Quote, len(s.quotes)),
		invoices:   make(map[string]Invoice, len(s.invoices)),
		workOrders: make(map[string]WorkOrder, len(s.workOrders)),
		inventory:  make(map[string]InventoryItem, len(s.inventory)),
	}
	for k, v := range s.quotes {
		next.quotes[k] = v
	}
	for k, v := range s.invoices {
		next.invoices[k] = v
	}
	for k, v := range s.workOrders {
		next.workOrders[k] = v
	}
	for k, v := range s.inventory {
		next.inventory[k] = v
	}
	return next
}

func (s *DocumentSet) record(kind DocumentKind, id string, action ChangeAction) {
	for i, c := range s.changes {
		if c.Kind != kind || c.Id != id {
			continue
		}
		if c.Action == ChangeCreated && action == ChangeUpdated {
			return
		}
		s.changes[i].Action = action
		return
	}
	s.changes = append(s.changes, Change{Kind: kind, Id: id, Action: action})
}

func (s *DocumentSet) putQuote(q Quote, action ChangeAction) {
	s.quotes[q.ID] = q
	s.record(DocumentKindQuote, q.ID, action)
}

func (s *DocumentSet) putInvoice(inv Invoice, action ChangeAction) {
	s.invoices[inv.ID] = inv
	s.record(DocumentKindInvoice, inv.ID, action)
}

func (s *DocumentSet) putWorkOrder(w WorkOrder, action ChangeAction) {
	s.workOrders[w.ID] = w
	s.record(DocumentKindWorkOrder, w.ID, action)
}

func (s *DocumentSet) putInventoryItem(it InventoryItem) {
	s.inventory[it.ID] = it
	s.record(DocumentKindInventoryItem, it.ID, ChangeUpdated)
}

// Changes lists the documents written by the operation that produced s.
func (s DocumentSet) Changes() []Change {
	out := make([]Change, len(s.changes))
	copy(out, s.changes)
	return out
}

func (s DocumentSet) Quote(id string) (Quote, bool) {
	q, ok := s.quotes[id]
	if !ok {
		return Quote{}, false
	}
	return q.clone(), true
}

func (s DocumentSet) Invoice(id string) (Invoice, bool) {
	inv, ok := s.invoices[id]
	if !ok {
		return Invoice{}, false
	}
	return inv.clone(), true
}

func (s DocumentSet) WorkOrder(id string) (WorkOrder, bool) {
	w, ok := s.workOrders[id]
	if !ok {
		return WorkOrder{}, false
	}
	return w.clone(), true
}

func (s DocumentSet) InventoryItem(id string) (InventoryItem, bool) {
	it, ok := s.inventory[id]
	return it, ok
}

// Quotes returns all quotes, newest first.
func (s DocumentSet) Quotes() []Quote {
	out := make([]Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		out = append(out, q.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamps.Created.Equal(out[j].Timestamps.Created) {
			return out[i].Timestamps.Created.After(out[j].Timestamps.Created)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Invoices returns all invoices ordered by invoice number.
func (s DocumentSet) Invoices() []Invoice {
	out := make([]Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		out = append(out, inv.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].InvoiceNumber < out[j].InvoiceNumber
	})
	return out
}

// WorkOrders returns all orders grouped by assignee, lowest sort index first.
// Orders without an index sort after indexed ones.
func (s DocumentSet) WorkOrders() []WorkOrder {
	out := make([]WorkOrder, 0, len(s.workOrders))
	for _, w := range s.workOrders {
		out = append(out, w.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.AssignedTo != b.AssignedTo {
			return a.AssignedTo < b.AssignedTo
		}
		switch {
		case a.SortIndex != nil && b.SortIndex != nil && *a.SortIndex != *b.SortIndex:
			return *a.SortIndex < *b.SortIndex
		case a.SortIndex != nil && b.SortIndex == nil:
			return true
		case a.SortIndex == nil && b.SortIndex != nil:
			return false
		}
		if !a.CreatedDate.Equal(b.CreatedDate) {
			return a.CreatedDate.Before(b.CreatedDate)
		}
		return a.ID < b.ID
	})
	return out
}

func (s DocumentSet) Inventory() []InventoryItem {
	out := make([]InventoryItem, 0, len(s.inventory))
	for _, it := range s.inventory {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s DocumentSet) invoiceList() []Invoice {
	out := make([]Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		out = append(out, inv)
	}
	return out
}

func (s DocumentSet) workOrderList() []WorkOrder {
	out := make([]WorkOrder, 0, len(s.workOrders))
	for _, w := range s.workOrders {
		out = append(out, w)
	}
	return out
}

// quoteReferencedBy returns a description of the first document linking to the quote.
func (s DocumentSet) quoteReferencedBy(id string) string {
	for _, w := range s.WorkOrders() {
		if w.QuoteId != nil && *w.QuoteId == id {
			return "work order " + w.ID
		}
	}
	for _, inv := range s.Invoices() {
		if inv.QuoteId != nil && *inv.QuoteId == id {
			return "invoice " + inv.InvoiceNumber
		}
	}
	return ""
}

func (s DocumentSet) invoiceReferencedBy(id string) string {
	for _, w := range s.WorkOrders() {
		if w.InvoiceId != nil && *w.InvoiceId == id {
			return "work order " + w.ID
		}
	}
	return ""
}
