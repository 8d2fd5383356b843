package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/opsdesk_backend/models"
	"github.com/mmdatafocus/opsdesk_backend/utils"
	"github.com/mmdatafocus/opsdesk_backend/workflow"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type opsHandlers struct {
	db       *gorm.DB
	workflow *workflow.DocumentWorkflow
	logger   *logrus.Logger
}

func registerOpsRoutes(r *gin.RouterGroup, h *opsHandlers) {
	r.Use(adminOnly())
	// Replay outbox events that were marked DEAD/FAILED.
	r.POST("/outbox/replay", h.outboxReplay)
	r.POST("/reconcile", h.reconcile)
	r.POST("/invoices/mark-overdue", h.markOverdue)
}

func adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.GetIsAdminFromContext(c.Request.Context()) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": utils.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}

type outboxReplayRequest struct {
	RecordId int `json:"record_id"`
}

func (h *opsHandlers) outboxReplay(c *gin.Context) {
	var req outboxReplayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.RecordId <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "record_id is required"})
		return
	}

	now := h.workflow.Now()
	result := h.db.WithContext(c.Request.Context()).
		Model(&models.DocumentEventRecord{}).
		Where("id = ? AND publish_status IN ?", req.RecordId,
			[]string{models.OutboxPublishStatusDead, models.OutboxPublishStatusFailed}).
		Updates(map[string]interface{}{
			"publish_status":     models.OutboxPublishStatusFailed,
			"publish_attempts":   0,
			"next_attempt_at":    &now,
			"locked_at":          nil,
			"locked_by":          nil,
			"last_publish_error": nil,
		})
	if result.Error != nil {
		writeError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no DEAD or FAILED event with that record_id"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"field":     "OutboxReplay",
		"record_id": req.RecordId,
	}).Info("outbox event queued for replay")

	c.JSON(http.StatusOK, gin.H{
		"record_id":       req.RecordId,
		"publish_status":  models.OutboxPublishStatusFailed,
		"next_attempt_at": now.Format(time.RFC3339Nano),
	})
}

func (h *opsHandlers) reconcile(c *gin.Context) {
	reports, err := workflow.RunReconciliationChecks(c.Request.Context(), h.db, h.logger)
	if err != nil {
		writeError(c, err)
		return
	}
	if reports == nil {
		reports = []models.ReconciliationReport{}
	}
	c.JSON(http.StatusOK, gin.H{"findings": len(reports), "reports": reports})
}

func (h *opsHandlers) markOverdue(c *gin.Context) {
	changed, err := h.workflow.MarkOverdueInvoices(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	ids := make([]string, 0, len(changed))
	for _, inv := range changed {
		ids = append(ids, inv.ID)
	}
	c.JSON(http.StatusOK, gin.H{"marked_overdue": ids})
}
