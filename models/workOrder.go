package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmdatafocus/opsdesk_backend/utils"
	"github.com/shopspring/decimal"
)

type WorkOrder struct {
	ID                  string              `gorm:"primaryKey;size:36" json:"id"`
	Title               string              `gorm:"size:255;not null" json:"title"`
	Description         string              `gorm:"type:text" json:"description"`
	Status              WorkOrderStatus     `gorm:"size:20;not null;index" json:"status"`
	AssignedTo          string              `gorm:"size:64;not null;index" json:"assigned_to"`
	AssignedBy          string              `gorm:"size:64" json:"assigned_by"`
	ConvertedBy         *string             `gorm:"size:64" json:"converted_by"`
	CustomerId          *string             `gorm:"size:64;index" json:"customer_id"`
	QuoteId             *string             `gorm:"size:36;index" json:"quote_id"`
	InvoiceId           *string             `gorm:"size:36;index" json:"invoice_id"`
	Items               []LineItem          `gorm:"serializer:json;type:text" json:"items"`
	Labor               []LaborEntry        `gorm:"serializer:json;type:text" json:"labor"`
	RequiredInventory   []RequiredMaterial  `gorm:"serializer:json;type:text" json:"required_inventory"`
	HoursSpent          decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"hours_spent"`
	EstimatedHours      decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"estimated_hours"`
	EstimatedCost       decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"estimated_cost"`
	SortIndex           *int                `gorm:"index" json:"sort_index"`
	PendingReason       *string             `gorm:"type:text" json:"pending_reason"`
	CreatedDate         time.Time           `gorm:"not null" json:"created_date"`
	CompletedDate       *time.Time          `json:"completed_date"`
	MaterialsDeductedAt *time.Time          `json:"materials_deducted_at"`
	Timestamps          Timestamps          `gorm:"serializer:json;type:text" json:"timestamps"`
	History             History             `gorm:"serializer:json;type:text" json:"history"`
	CreatedAt           time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewWorkOrder struct {
	Title             string              `json:"title" validate:"required,max=255"`
	Description       string              `json:"description"`
	Status            WorkOrderStatus     `json:"status"`
	AssignedTo        string              `json:"assigned_to" validate:"required"`
	CustomerId        *string             `json:"customer_id"`
	QuoteId           *string             `json:"quote_id"`
	InvoiceId         *string             `json:"invoice_id"`
	Items             []NewLineItem       `json:"items" validate:"dive"`
	Labor             []NewLaborEntry     `json:"labor" validate:"dive"`
	RequiredInventory []RequiredMaterial  `json:"required_inventory" validate:"dive"`
	HoursSpent        decimal.NullDecimal `json:"hours_spent" validate:"omitempty,gte=0"`
	EstimatedHours    decimal.NullDecimal `json:"estimated_hours" validate:"omitempty,gte=0"`
	EstimatedCost     decimal.NullDecimal `json:"estimated_cost" validate:"omitempty,gte=0"`
	SortIndex         *int                `json:"sort_index" validate:"omitempty,gte=1"`
	PendingReason     *string             `json:"pending_reason"`
}

func (input *NewWorkOrder) validate() error {
	input.Title = strings.TrimSpace(input.Title)
	input.AssignedTo = strings.TrimSpace(input.AssignedTo)
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if input.Status != "" && !input.Status.IsValid() {
		return utils.NewValidationError("status", "oneof")
	}
	return nil
}

func (w WorkOrder) clone() WorkOrder {
	out := w
	out.ConvertedBy = copyString(w.ConvertedBy)
	out.CustomerId = copyString(w.CustomerId)
	out.QuoteId = copyString(w.QuoteId)
	out.InvoiceId = copyString(w.InvoiceId)
	out.Items = cloneLineItems(w.Items)
	out.Labor = cloneLaborEntries(w.Labor)
	out.RequiredInventory = cloneMaterials(w.RequiredInventory)
	out.SortIndex = copyInt(w.SortIndex)
	out.PendingReason = copyString(w.PendingReason)
	out.CompletedDate = copyTime(w.CompletedDate)
	out.MaterialsDeductedAt = copyTime(w.MaterialsDeductedAt)
	out.Timestamps = w.Timestamps.clone()
	out.History = w.History.Append()
	return out
}

func (w WorkOrder) withHistory(entries ...HistoryEntry) WorkOrder {
	w.History = w.History.Append(entries...)
	return w
}

func (w WorkOrder) IsOpen() bool {
	return w.Status != WorkOrderStatusCompleted
}

func hasReason(reason *string) bool {
	return reason != nil && strings.TrimSpace(*reason) != ""
}

func (s DocumentSet) CreateWorkOrder(env Env, input *NewWorkOrder) (DocumentSet, *WorkOrder, error) {
	if err := input.validate(); err != nil {
		return s, nil, err
	}
	if err := ValidateInventory(input.RequiredInventory, s.inventory); err != nil {
		return s, nil, err
	}

	status := WorkOrderStatusToDo
	var pendingReason *string
	if hasReason(input.PendingReason) {
		status = WorkOrderStatusPending
		pendingReason = copyString(input.PendingReason)
	}

	order := WorkOrder{
		ID:                env.newId(),
		Title:             input.Title,
		Description:       input.Description,
		Status:            status,
		AssignedTo:        input.AssignedTo,
		AssignedBy:        env.Actor.Id,
		CustomerId:        copyString(input.CustomerId),
		QuoteId:           nonEmpty(input.QuoteId),
		InvoiceId:         nonEmpty(input.InvoiceId),
		Items:             lineItemsFromInput(input.Items),
		Labor:             laborFromInput(input.Labor),
		RequiredInventory: cloneMaterials(input.RequiredInventory),
		HoursSpent:        input.HoursSpent,
		EstimatedHours:    input.EstimatedHours,
		EstimatedCost:     input.EstimatedCost,
		PendingReason:     pendingReason,
		CreatedDate:       env.Now,
		Timestamps:        newTimestamps(env.Now),
	}

	next := s.fork()
	order = order.withHistory(env.entry(HistoryActionCreated,
		fmt.Sprintf("Work order %q created and assigned to %s", order.Title, env.employeeName(order.AssignedTo))))
	if input.SortIndex != nil {
		next.placeSortIndex(env, &order, *input.SortIndex, nil, order.Status)
	} else {
		idx := NextSortIndex(next.workOrderList(), order.AssignedTo)
		order.SortIndex = &idx
	}
	next.putWorkOrder(order, ChangeCreated)

	if input.Status != "" && input.Status != status {
		next.transitionWorkOrder(env, order.ID, input.Status, input.PendingReason)
	}

	out := next.workOrders[order.ID].clone()
	return next, &out, nil
}

// UpdateWorkOrder applies an edit: plain fields first, then reassignment,
// then the sort index, then a status change through the state machine.
func (s DocumentSet) UpdateWorkOrder(env Env, id string, input *NewWorkOrder) (DocumentSet, *WorkOrder, error) {
	old, ok := s.workOrders[id]
	if !ok {
		return s, nil, utils.ErrorRecordNotFound
	}
	if err := input.validate(); err != nil {
		return s, nil, err
	}
	if old.MaterialsDeductedAt == nil {
		if err := ValidateInventory(input.RequiredInventory, s.inventory); err != nil {
			return s, nil, err
		}
	}

	next := s.fork()
	order := old.clone()

	changed := order.applyFields(input)
	if order.Status == WorkOrderStatusPending && hasReason(input.PendingReason) &&
		stringValue(order.PendingReason) != *input.PendingReason {
		order.PendingReason = copyString(input.PendingReason)
		changed = append(changed, "pending_reason")
	}
	if len(changed) > 0 {
		order = order.withHistory(env.entry(HistoryActionUpdated, "Updated "+strings.Join(changed, ", ")))
	}

	reassigned := input.AssignedTo != old.AssignedTo
	if reassigned {
		order = order.withAssignee(env, input.AssignedTo)
	}

	switch {
	case input.SortIndex != nil && (reassigned || old.SortIndex == nil || *old.SortIndex != *input.SortIndex):
		var previous *int
		if !reassigned {
			previous = old.SortIndex
		}
		targetStatus := order.Status
		if input.Status != "" {
			targetStatus = input.Status
		}
		next.placeSortIndex(env, &order, *input.SortIndex, previous, targetStatus)
		order = order.withHistory(env.entry(HistoryActionReordered,
			fmt.Sprintf("Position changed from %s to %d", sortIndexText(old.SortIndex), *input.SortIndex)))
	case reassigned:
		idx := NextSortIndex(next.workOrderList(), order.AssignedTo)
		order.SortIndex = &idx
	}
	next.putWorkOrder(order, ChangeUpdated)

	if input.Status != "" && input.Status != old.Status {
		next.transitionWorkOrder(env, id, input.Status, input.PendingReason)
	}

	out := next.workOrders[id].clone()
	return next, &out, nil
}

// applyFields copies the plain fields of input onto w and returns the names that changed.
func (w *WorkOrder) applyFields(input *NewWorkOrder) []string {
	var changed []string
	if w.Title != input.Title {
		w.Title = input.Title
		changed = append(changed, "title")
	}
	if w.Description != input.Description {
		w.Description = input.Description
		changed = append(changed, "description")
	}
	if stringValue(w.CustomerId) != stringValue(input.CustomerId) {
		w.CustomerId = copyString(input.CustomerId)
		changed = append(changed, "customer")
	}
	var relinked bool
	if w.QuoteId, relinked = relink(w.QuoteId, input.QuoteId); relinked {
		changed = append(changed, "quote")
	}
	if w.InvoiceId, relinked = relink(w.InvoiceId, input.InvoiceId); relinked {
		changed = append(changed, "invoice")
	}
	items := lineItemsFromInput(input.Items)
	if !sameLineItems(w.Items, items) {
		w.Items = items
		changed = append(changed, "items")
	}
	labor := laborFromInput(input.Labor)
	if !sameLabor(w.Labor, labor) {
		w.Labor = labor
		changed = append(changed, "labor")
	}
	if !sameMaterials(w.RequiredInventory, input.RequiredInventory) {
		w.RequiredInventory = cloneMaterials(input.RequiredInventory)
		changed = append(changed, "required_inventory")
	}
	if !sameNullDecimal(w.HoursSpent, input.HoursSpent) {
		w.HoursSpent = input.HoursSpent
		changed = append(changed, "hours_spent")
	}
	if !sameNullDecimal(w.EstimatedHours, input.EstimatedHours) {
		w.EstimatedHours = input.EstimatedHours
		changed = append(changed, "estimated_hours")
	}
	if !sameNullDecimal(w.EstimatedCost, input.EstimatedCost) {
		w.EstimatedCost = input.EstimatedCost
		changed = append(changed, "estimated_cost")
	}
	return changed
}

func (w WorkOrder) withAssignee(env Env, assignee string) WorkOrder {
	from := w.AssignedTo
	w.AssignedTo = assignee
	w.AssignedBy = env.Actor.Id
	entry := env.entry(HistoryActionAssigned,
		fmt.Sprintf("Reassigned from %s to %s", env.employeeName(from), env.employeeName(assignee)))
	entry.FromAssignee = &from
	entry.ToAssignee = &assignee
	w = w.withHistory(entry)
	advance(&w.Timestamps.Assigned, env.Now)
	return w
}

// SetWorkOrderSortIndex moves an order to index, displacing whichever open
// order of the same assignee held it.
func (s DocumentSet) SetWorkOrderSortIndex(env Env, id string, index int) (DocumentSet, *WorkOrder, error) {
	if index < 1 {
		return s, nil, utils.NewValidationError("sort_index", "gte")
	}
	old, ok := s.workOrders[id]
	if !ok {
		return s, nil, utils.ErrorRecordNotFound
	}
	if old.SortIndex != nil && *old.SortIndex == index {
		out := old.clone()
		return s, &out, nil
	}

	next := s.fork()
	order := old.clone()
	next.placeSortIndex(env, &order, index, old.SortIndex, order.Status)
	order = order.withHistory(env.entry(HistoryActionReordered,
		fmt.Sprintf("Position changed from %s to %d", sortIndexText(old.SortIndex), index)))
	next.putWorkOrder(order, ChangeUpdated)

	out := order.clone()
	return next, &out, nil
}

// DeleteWorkOrder removes an order once confirmed. Links to it from quotes or
// invoices are left in place and no longer resolve.
func (s DocumentSet) DeleteWorkOrder(env Env, id string, confirmation string) (DocumentSet, error) {
	if err := env.authorizeDelete(id, confirmation); err != nil {
		return s, err
	}
	if _, ok := s.workOrders[id]; !ok {
		return s, utils.ErrorRecordNotFound
	}

	next := s.fork()
	delete(next.workOrders, id)
	next.record(DocumentKindWorkOrder, id, ChangeDeleted)
	return next, nil
}

func sameLineItems(a, b []LineItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Description != b[i].Description || !a[i].Quantity.Equal(b[i].Quantity) ||
			!a[i].UnitPrice.Equal(b[i].UnitPrice) || stringValue(a[i].InventoryRef) != stringValue(b[i].InventoryRef) {
			return false
		}
	}
	return true
}

func sameLabor(a, b []LaborEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Description != b[i].Description || !a[i].Hours.Equal(b[i].Hours) || !a[i].HourlyRate.Equal(b[i].HourlyRate) {
			return false
		}
	}
	return true
}

func sameMaterials(a, b []RequiredMaterial) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ItemId != b[i].ItemId || !a[i].Quantity.Equal(b[i].Quantity) {
			return false
		}
	}
	return true
}

func sameNullDecimal(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

// OpenOrdersByAssignee groups open orders per assignee in sort order.
func (s DocumentSet) OpenOrdersByAssignee() map[string][]WorkOrder {
	out := make(map[string][]WorkOrder)
	for _, w := range s.WorkOrders() {
		if !w.IsOpen() {
			continue
		}
		out[w.AssignedTo] = append(out[w.AssignedTo], w)
	}
	return out
}

func sortIndexText(i *int) string {
	if i == nil {
		return "none"
	}
	return fmt.Sprint(*i)
}
