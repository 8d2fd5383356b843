package models

import (
	"time"

	"github.com/mmdatafocus/opsdesk_backend/config"
)

// Outbox publish statuses for DocumentEventRecord.PublishStatus.
const (
	OutboxPublishStatusPending    = "PENDING"
	OutboxPublishStatusProcessing = "PROCESSING"
	OutboxPublishStatusSent       = "SENT"
	OutboxPublishStatusFailed     = "FAILED"
	OutboxPublishStatusDead       = "DEAD"
)

// DocumentEventRecord is the outbox row written in the same transaction as the
// document change. The dispatcher publishes it after commit.
type DocumentEventRecord struct {
	ID               int          `gorm:"primaryKey;autoIncrement;index:idx_outbox_dispatch,priority:3" json:"id"`
	Kind             DocumentKind `gorm:"size:20;not null" json:"kind"`
	DocumentId       string       `gorm:"size:64;not null;index" json:"document_id"`
	Action           ChangeAction `gorm:"size:20;not null" json:"action"`
	OccurredAt       time.Time    `gorm:"not null" json:"occurred_at"`
	UserId           string       `gorm:"size:64" json:"user_id"`
	CorrelationId    string       `gorm:"size:64;index" json:"correlation_id"`
	PublishStatus    string       `gorm:"size:20;index;not null;default:'PENDING';index:idx_outbox_dispatch,priority:1" json:"publish_status"`
	PublishedAt      *time.Time   `gorm:"index" json:"published_at"`
	PubSubMessageId  *string      `gorm:"size:255" json:"pubsub_message_id"`
	PublishAttempts  int          `gorm:"not null;default:0" json:"publish_attempts"`
	NextAttemptAt    *time.Time   `gorm:"index;index:idx_outbox_dispatch,priority:2" json:"next_attempt_at"`
	LockedAt         *time.Time   `gorm:"index" json:"locked_at"`
	LockedBy         *string      `gorm:"size:100" json:"locked_by"`
	LastPublishError *string      `gorm:"type:text" json:"last_publish_error"`
	CreatedAt        time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// EventRecordsFor turns the changes of one operation into pending outbox rows.
func EventRecordsFor(changes []Change, env Env, correlationId string) []DocumentEventRecord {
	records := make([]DocumentEventRecord, 0, len(changes))
	for _, c := range changes {
		records = append(records, DocumentEventRecord{
			Kind:          c.Kind,
			DocumentId:    c.Id,
			Action:        c.Action,
			OccurredAt:    env.Now,
			UserId:        env.Actor.Id,
			CorrelationId: correlationId,
			PublishStatus: OutboxPublishStatusPending,
		})
	}
	return records
}

func (r DocumentEventRecord) Message() config.DocumentEventMessage {
	return config.DocumentEventMessage{
		Kind:          string(r.Kind),
		DocumentId:    r.DocumentId,
		Action:        string(r.Action),
		OccurredAt:    r.OccurredAt,
		UserId:        r.UserId,
		CorrelationId: r.CorrelationId,
	}
}
