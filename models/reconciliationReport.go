package models

import "time"

// Reconciliation check types.
const (
	CheckDuplicateSortIndex     = "DUPLICATE_SORT_INDEX"
	CheckMissingSortIndex       = "MISSING_SORT_INDEX"
	CheckDuplicateInvoiceNumber = "DUPLICATE_INVOICE_NUMBER"
	CheckTotalsDrift            = "TOTALS_DRIFT"
	CheckNegativeStock          = "NEGATIVE_STOCK"
	CheckDanglingLink           = "DANGLING_LINK"
	CheckDeadOutboxEvent        = "DEAD_OUTBOX_EVENT"
)

// ReconciliationReport is one drift finding (nightly/admin-triggered).
type ReconciliationReport struct {
	ID            int          `gorm:"primaryKey;autoIncrement" json:"id"`
	CheckType     string       `gorm:"size:50;index;not null" json:"check_type"`
	EntityType    DocumentKind `gorm:"size:50;index;not null" json:"entity_type"`
	EntityId      string       `gorm:"size:64;index;not null" json:"entity_id"`
	Details       string       `gorm:"type:text" json:"details"`
	CorrelationId string       `gorm:"size:64;index" json:"correlation_id"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"created_at"`
}
