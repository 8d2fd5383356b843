package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mmdatafocus/opsdesk_backend/models"
	"github.com/mmdatafocus/opsdesk_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RunReconciliationChecks writes drift findings to reconciliation_reports and
// returns them. Intended for a nightly schedule or an admin trigger.
func RunReconciliationChecks(ctx context.Context, db *gorm.DB, logger *logrus.Logger) ([]models.ReconciliationReport, error) {
	cid, ok := utils.GetCorrelationIdFromContext(ctx)
	if !ok || cid == "" {
		cid = uuid.NewString()
	}

	snapshot, err := loadSnapshot(db.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	reports := snapshot.Reconcile(cid)

	var dead []models.DocumentEventRecord
	if err := db.WithContext(ctx).
		Where("publish_status = ?", models.OutboxPublishStatusDead).
		Order("id ASC").
		Find(&dead).Error; err != nil {
		return nil, err
	}
	for _, rec := range dead {
		details := fmt.Sprintf("%s %s %s not published after %d attempts", rec.Kind, rec.DocumentId, rec.Action, rec.PublishAttempts)
		if rec.LastPublishError != nil {
			details += ": " + *rec.LastPublishError
		}
		reports = append(reports, models.ReconciliationReport{
			CheckType:     models.CheckDeadOutboxEvent,
			EntityType:    rec.Kind,
			EntityId:      rec.DocumentId,
			Details:       details,
			CorrelationId: cid,
		})
	}

	if len(reports) > 0 {
		if err := db.WithContext(ctx).Create(&reports).Error; err != nil {
			return nil, err
		}
	}
	logger.WithFields(logrus.Fields{
		"field":          "ReconciliationChecks",
		"correlation_id": cid,
		"findings":       len(reports),
	}).Info("reconciliation checks completed")
	return reports, nil
}
