package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/opsdesk_backend/middlewares"
	"github.com/mmdatafocus/opsdesk_backend/models"
	"github.com/mmdatafocus/opsdesk_backend/models/reports"
	"github.com/mmdatafocus/opsdesk_backend/utils"
	"github.com/mmdatafocus/opsdesk_backend/workflow"
)

type documentHandlers struct {
	workflow *workflow.DocumentWorkflow
}

func registerDocumentRoutes(r *gin.RouterGroup, h *documentHandlers) {
	quotes := r.Group("/quotes")
	quotes.GET("", h.listQuotes)
	quotes.POST("", h.createQuote)
	quotes.GET("/:id", h.getQuote)
	quotes.PUT("/:id", h.updateQuote)
	quotes.DELETE("/:id", h.deleteQuote)
	quotes.POST("/:id/status", h.changeQuoteStatus)
	quotes.POST("/:id/clone", h.cloneQuote)
	quotes.POST("/:id/convert", h.convertQuote)

	invoices := r.Group("/invoices")
	invoices.GET("", h.listInvoices)
	invoices.POST("", h.createInvoice)
	invoices.GET("/export", h.exportRegister)
	invoices.GET("/:id", h.getInvoice)
	invoices.PUT("/:id", h.updateInvoice)
	invoices.DELETE("/:id", h.deleteInvoice)
	invoices.POST("/:id/status", h.changeInvoiceStatus)
	invoices.POST("/:id/clone", h.cloneInvoice)
	invoices.POST("/:id/convert", h.convertInvoice)

	workOrders := r.Group("/work-orders")
	workOrders.GET("", h.listWorkOrders)
	workOrders.POST("", h.createWorkOrder)
	workOrders.GET("/:id", h.getWorkOrder)
	workOrders.PUT("/:id", h.updateWorkOrder)
	workOrders.DELETE("/:id", h.deleteWorkOrder)
	workOrders.POST("/:id/status", h.changeWorkOrderStatus)
	workOrders.PUT("/:id/sort-index", h.setWorkOrderSortIndex)
	workOrders.POST("/:id/convert", h.convertWorkOrder)

	r.GET("/inventory", h.listInventory)
}

// writeError maps engine errors to HTTP statuses.
func writeError(c *gin.Context, err error) {
	var (
		ve *utils.ValidationError
		ie *utils.InsufficientInventoryError
		re *utils.ReferencedDocumentError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "fields": ve.Fields})
	case errors.As(err, &ie):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     ie.Error(),
			"item_id":   ie.ItemId,
			"available": ie.Available,
			"needed":    ie.Needed,
		})
	case errors.As(err, &re):
		c.JSON(http.StatusConflict, gin.H{"error": re.Error()})
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrConfirmationRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return false
	}
	return true
}

type assigneeRequest struct {
	AssignedTo *string `json:"assigned_to"`
}

// quotes

func (h *documentHandlers) listQuotes(c *gin.Context) {
	out, err := h.workflow.ListQuotes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *documentHandlers) getQuote(c *gin.Context) {
	out, err := h.workflow.GetQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *documentHandlers) createQuote(c *gin.Context) {
	var input models.NewQuote
	if !bindJSON(c, &input) {
		return
	}
	out, err := h.workflow.CreateQuote(c.Request.Context(), &input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *documentHandlers) updateQuote(c *gin.Context) {
	var input models.NewQuote
	if !bindJSON(c, &input) {
		return
	}
	out, err := h.workflow.UpdateQuote(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *documentHandlers) deleteQuote(c *gin.Context) {
	if err := h.workflow.DeleteQuote(c.Request.Context(), c.Param("id"), c.Query("confirm")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *documentHandlers) changeQuoteStatus(c *gin.Context) {
	var req struct {
		Status models.QuoteStatus `json:"status" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.workflow.ChangeQuoteStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *documentHandlers) cloneQuote(c *gin.Context) {
	out, err := h.workflow.CloneQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *documentHandlers) convertQuote(c *gin.Context) {
	var req assigneeRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	out, err := h.workflow.ConvertQuoteToWorkOrder(c.Request.Context(), c.Param("id"), req.AssignedTo)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// invoices

func (h *documentHandlers) listInvoices(c *gin.Context) {
	out, err := h.workflow.ListInvoices(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *documentHandlers) getInvoice(c *gin.Context) {
	out, err := h.workflow.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *documentHandlers) createInvoice(c *gin.Context) {
	var input models.NewInvoice
	if !bindJSON(c, &input) {
		return
	}
	out, err := h.workflow.CreateInvoice(c.Request.Context(), &input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *documentHandlers) updateInvoice(c *gin.Context) {
	var input models.NewInvoice
	if !bindJSON(c, &input) {
		return
	}
	out, err := h.workflow.UpdateInvoice(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *documentHandlers) deleteInvoice(c *gin.Context) {
	if err := h.workflow.DeleteInvoice(c.Request.Context(), c.Param("id"), c.Query("confirm")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *documentHandlers) changeInvoiceStatus(c *gin.Context) {
	var req struct {
		Status models.InvoiceStatus `json:"status" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.workflow.ChangeInvoiceStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *documentHandlers) cloneInvoice(c *gin.Context) {
	out, err := h.workflow.CloneInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *documentHandlers) convertInvoice(c *gin.Context) {
	var req assigneeRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	out, err := h.workflow.ConvertInvoiceToWorkOrder(c.Request.Context(), c.Param("id"), req.AssignedTo)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *documentHandlers) exportRegister(c *gin.Context) {
	ctx := c.Request.Context()
	snapshot, err := h.workflow.Snapshot(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	directory, err := h.workflow.Directory.Load(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	f, err := reports.ExportDocumentRegister(snapshot, directory)
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("document-register-%s.xlsx", h.workflow.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// work orders

// workOrderView adds display names to a work order.
type workOrderView struct {
	models.WorkOrder
	AssigneeName string `json:"assignee_name"`
	CustomerName string `json:"customer_name,omitempty"`
}

// workOrderViews resolves the names of all orders with one batched lookup per
// kind.
func (h *documentHandlers) workOrderViews(c *gin.Context, orders []models.WorkOrder) ([]workOrderView, error) {
	ctx := c.Request.Context()
	var employeeIds, customerIds []string
	seen := map[string]bool{}
	for _, w := range orders {
		if !seen["e:"+w.AssignedTo] {
			seen["e:"+w.AssignedTo] = true
			employeeIds = append(employeeIds, w.AssignedTo)
		}
		if w.CustomerId != nil && !seen["c:"+*w.CustomerId] {
			seen["c:"+*w.CustomerId] = true
			customerIds = append(customerIds, *w.CustomerId)
		}
	}

	names := map[string]string{}
	if len(employeeIds) > 0 {
		employees, errs := middlewares.GetEmployees(ctx, employeeIds)
		if err := firstError(errs); err != nil {
			return nil, err
		}
		for i, e := range employees {
			names["e:"+employeeIds[i]] = e.Name
		}
	}
	if len(customerIds) > 0 {
		customers, errs := middlewares.GetCustomers(ctx, customerIds)
		if err := firstError(errs); err != nil {
			return nil, err
		}
		for i, cu := range customers {
			names["c:"+customerIds[i]] = cu.Name
		}
	}

	out := make([]workOrderView, 0, len(orders))
	for _, w := range orders {
		view := workOrderView{WorkOrder: w, AssigneeName: names["e:"+w.AssignedTo]}
		if w.CustomerId != nil {
			view.CustomerName = names["c:"+*w.CustomerId]
		}
		out = append(out, view)
	}
	return out, nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (h *documentHandlers) listWorkOrders(c *gin.Context) {
	orders, err := h.workflow.ListWorkOrders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if assignee := c.Query("assigned_to"); assignee != "" {
		var mine []models.WorkOrder
		for _, w := range orders {
			if w.AssignedTo == assignee {
				mine = append(mine, w)
			}
		}
		orders = mine
	}
	views, err := h.workOrderViews(c, orders)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *documentHandlers) getWorkOrder(c *gin.Context) {
	order, err := h.workflow.GetWorkOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	views, err := h.workOrderViews(c, []models.WorkOrder{*order})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views[0])
}

func (h *documentHandlers) createWorkOrder(c *gin.Context) {
	var input models.NewWorkOrder
	if !bindJSON(c, &input) {
		return
	}
	out, err := h.workflow.CreateWorkOrder(c.Request.Context(), &input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *documentHandlers) updateWorkOrder(c *gin.Context) {
	var input models.NewWorkOrder
	if !bindJSON(c, &input) {
		return
	}
	out, err := h.workflow.UpdateWorkOrder(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *documentHandlers) deleteWorkOrder(c *gin.Context) {
	if err := h.workflow.DeleteWorkOrder(c.Request.Context(), c.Param("id"), c.Query("confirm")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *documentHandlers) changeWorkOrderStatus(c *gin.Context) {
	var req struct {
		Status        models.WorkOrderStatus `json:"status" binding:"required"`
		PendingReason *string                `json:"pending_reason"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.workflow.ChangeWorkOrderStatus(c.Request.Context(), c.Param("id"), req.Status, req.PendingReason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *documentHandlers) setWorkOrderSortIndex(c *gin.Context) {
	var req struct {
		SortIndex int `json:"sort_index" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.workflow.SetWorkOrderSortIndex(c.Request.Context(), c.Param("id"), req.SortIndex)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *documentHandlers) convertWorkOrder(c *gin.Context) {
	out, err := h.workflow.ConvertWorkOrderToInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// inventory

type inventoryView struct {
	models.InventoryItem
	NeedsReorder bool `json:"needs_reorder"`
}

func (h *documentHandlers) listInventory(c *gin.Context) {
	items, err := h.workflow.ListInventory(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]inventoryView, 0, len(items))
	for _, it := range items {
		out = append(out, inventoryView{InventoryItem: it, NeedsReorder: it.NeedsReorder()})
	}
	c.JSON(http.StatusOK, out)
}
