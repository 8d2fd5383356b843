package workflow

import (
	"context"

	"github.com/mmdatafocus/opsdesk_backend/models"
	"github.com/mmdatafocus/opsdesk_backend/utils"
)

func (w *DocumentWorkflow) CreateQuote(ctx context.Context, input *models.NewQuote) (*models.Quote, error) {
	var out *models.Quote
	_, err := w.run(ctx, "CreateQuote", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		next, q, err := s.CreateQuote(env, input)
		out = q
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *DocumentWorkflow) UpdateQuote(ctx context.Context, id string, input *models.NewQuote) (*models.Quote, error) {
	var out *models.Quote
	_, err := w.run(ctx, "UpdateQuote", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		next, q, err := s.UpdateQuote(env, id, input)
		out = q
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *DocumentWorkflow) ChangeQuoteStatus(ctx context.Context, id string, status models.QuoteStatus) (*models.Quote, error) {
	var out *models.Quote
	_, err := w.run(ctx, "ChangeQuoteStatus", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		next, q, err := s.ChangeQuoteStatus(env, id, status)
		out = q
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *DocumentWorkflow) DeleteQuote(ctx context.Context, id string, confirmation string) error {
	_, err := w.run(ctx, "DeleteQuote", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		return s.DeleteQuote(env, id, confirmation)
	})
	return err
}

func (w *DocumentWorkflow) CloneQuote(ctx context.Context, id string) (*models.Quote, error) {
	var out *models.Quote
	_, err := w.run(ctx, "CloneQuote", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		next, q, err := s.CloneQuote(env, id)
		out = q
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *DocumentWorkflow) ConvertQuoteToWorkOrder(ctx context.Context, id string, assignee *string) (*models.WorkOrder, error) {
	var out *models.WorkOrder
	_, err := w.run(ctx, "ConvertQuoteToWorkOrder", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		next, order, err := s.ConvertQuoteToWorkOrder(env, id, assignee)
		out = order
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *DocumentWorkflow) CreateInvoice(ctx context.Context, input *models.NewInvoice) (*models.Invoice, error) {
	var out *models.Invoice
	_, err := w.run(ctx, "CreateInvoice", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		next, inv, err := s.CreateInvoice(env, input)
		out = inv
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *DocumentWorkflow) UpdateInvoice(ctx context.Context, id string, input *models.NewInvoice) (*models.Invoice, error) {
	var out *models.Invoice
	_, err := w.run(ctx, "UpdateInvoice", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		next, inv, err := s.UpdateInvoice(env, id, input)
		out = inv
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *DocumentWorkflow) ChangeInvoiceStatus(ctx context.Context, id string, status models.InvoiceStatus) (*models.Invoice, error) {
	var out *models.Invoice
	_, err := w.run(ctx, "ChangeInvoiceStatus", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		next, inv, err := s.ChangeInvoiceStatus(env, id, status)
		out = inv
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *DocumentWorkflow) DeleteInvoice(ctx context.Context, id string, confirmation string) error {
	_, err := w.run(ctx, "DeleteInvoice", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		return s.DeleteInvoice(env, id, confirmation)
	})
	return err
}

func (w *DocumentWorkflow) CloneInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	var out *models.Invoice
	_, err := w.run(ctx, "CloneInvoice", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		next, inv, err := s.CloneInvoice(env, id)
		out = inv
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *DocumentWorkflow) ConvertInvoiceToWorkOrder(ctx context.Context, id string, assignee *string) (*models.WorkOrder, error) {
	var out *models.WorkOrder
	_, err := w.run(ctx, "ConvertInvoiceToWorkOrder", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		next, order, err := s.ConvertInvoiceToWorkOrder(env, id, assignee)
		out = order
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkOverdueInvoices flips every sent invoice past its due date to overdue.
func (w *DocumentWorkflow) MarkOverdueInvoices(ctx context.Context) ([]models.Invoice, error) {
	var out []models.Invoice
	_, err := w.run(ctx, "MarkOverdueInvoices", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		next, changed := s.MarkOverdue(env)
		out = changed
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *DocumentWorkflow) CreateWorkOrder(ctx context.Context, input *models.NewWorkOrder) (*models.WorkOrder, error) {
	var out *models.WorkOrder
	_, err := w.run(ctx, "CreateWorkOrder", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		next, order, err := s.CreateWorkOrder(env, input)
		out = order
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *DocumentWorkflow) UpdateWorkOrder(ctx context.Context, id string, input *models.NewWorkOrder) (*models.WorkOrder, error) {
	var out *models.WorkOrder
	_, err := w.run(ctx, "UpdateWorkOrder", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		next, order, err := s.UpdateWorkOrder(env, id, input)
		out = order
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *DocumentWorkflow) ChangeWorkOrderStatus(ctx context.Context, id string, status models.WorkOrderStatus, pendingReason *string) (*models.WorkOrder, error) {
	var out *models.WorkOrder
	_, err := w.run(ctx, "ChangeWorkOrderStatus", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		next, order, err := s.ChangeWorkOrderStatus(env, id, status, pendingReason)
		out = order
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *DocumentWorkflow) SetWorkOrderSortIndex(ctx context.Context, id string, index int) (*models.WorkOrder, error) {
	var out *models.WorkOrder
	_, err := w.run(ctx, "SetWorkOrderSortIndex", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		next, order, err := s.SetWorkOrderSortIndex(env, id, index)
		out = order
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *DocumentWorkflow) ConvertWorkOrderToInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	var out *models.Invoice
	_, err := w.run(ctx, "ConvertWorkOrderToInvoice", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		next, inv, err := s.ConvertWorkOrderToInvoice(env, id)
		out = inv
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *DocumentWorkflow) DeleteWorkOrder(ctx context.Context, id string, confirmation string) error {
	_, err := w.run(ctx, "DeleteWorkOrder", func(s models.DocumentSet, env models.Env) (models.DocumentSet, error) {
		return s.DeleteWorkOrder(env, id, confirmation)
	})
	return err
}

func (w *DocumentWorkflow) GetQuote(ctx context.Context, id string) (*models.Quote, error) {
	s, err := w.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	q, ok := s.Quote(id)
	if !ok {
		return nil, utils.ErrorRecordNotFound
	}
	return &q, nil
}

func (w *DocumentWorkflow) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	s, err := w.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	inv, ok := s.Invoice(id)
	if !ok {
		return nil, utils.ErrorRecordNotFound
	}
	return &inv, nil
}

func (w *DocumentWorkflow) GetWorkOrder(ctx context.Context, id string) (*models.WorkOrder, error) {
	s, err := w.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	order, ok := s.WorkOrder(id)
	if !ok {
		return nil, utils.ErrorRecordNotFound
	}
	return &order, nil
}

func (w *DocumentWorkflow) ListQuotes(ctx context.Context) ([]models.Quote, error) {
	s, err := w.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.Quotes(), nil
}

func (w *DocumentWorkflow) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	s, err := w.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.Invoices(), nil
}

// ListWorkOrders returns work orders in queue order.
func (w *DocumentWorkflow) ListWorkOrders(ctx context.Context) ([]models.WorkOrder, error) {
	s, err := w.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.WorkOrders(), nil
}

func (w *DocumentWorkflow) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	s, err := w.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.Inventory(), nil
}
