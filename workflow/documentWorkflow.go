package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/opsdesk_backend/config"
	"github.com/mmdatafocus/opsdesk_backend/models"
	"github.com/mmdatafocus/opsdesk_backend/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const documentsLockKey = "lock:documents"

var tracer = otel.Tracer("opsdesk-backend/workflow")

// DocumentWorkflow runs engine operations against the database: one lock, one
// transaction, one snapshot per operation, and an outbox row per written document.
type DocumentWorkflow struct {
	DB        *gorm.DB
	Locker    Locker
	Directory *DirectoryLoader
	Logger    *logrus.Logger
	Settings  config.EngineSettings
	Now       func() time.Time
	NewId     func() string
}

// NewDocumentWorkflow wires the workflow from the global config: redis locking
// when redis is connected, in-process locking otherwise.
func NewDocumentWorkflow(db *gorm.DB, logger *logrus.Logger) *DocumentWorkflow {
	settings := config.LoadEngineSettings()
	wait := time.Duration(settings.DocumentLockWaitMs) * time.Millisecond

	var locker Locker = NewLocalLocker(wait)
	if client := config.GetRedisLock(); client != nil {
		locker = NewRedisLocker(client, settings.DocumentLockTTL, wait, logger)
	}
	return &DocumentWorkflow{
		DB:        db,
		Locker:    locker,
		Directory: NewDirectoryLoader(db),
		Logger:    logger,
		Settings:  settings,
		Now:       func() time.Time { return time.Now().UTC() },
		NewId:     uuid.NewString,
	}
}

type operation func(s models.DocumentSet, env models.Env) (models.DocumentSet, error)

func actorFromContext(ctx context.Context) models.Actor {
	id, ok := utils.GetUserIdFromContext(ctx)
	if !ok || id == "" {
		id = "system"
	}
	name, _ := utils.GetUserNameFromContext(ctx)
	return models.Actor{Id: id, Name: name, IsAdmin: utils.GetIsAdminFromContext(ctx)}
}

func (w *DocumentWorkflow) env(ctx context.Context) (models.Env, error) {
	directory, err := w.Directory.Load(ctx)
	if err != nil {
		return models.Env{}, err
	}
	return models.Env{
		Actor:     actorFromContext(ctx),
		Now:       w.Now(),
		Directory: directory,
		Settings:  w.Settings,
		NewId:     w.NewId,
	}, nil
}

// isDomainError reports errors that describe a rejected request rather than a failure.
func isDomainError(err error) bool {
	return utils.IsValidationError(err) ||
		utils.IsInsufficientInventoryError(err) ||
		utils.IsReferencedDocumentError(err) ||
		errors.Is(err, utils.ErrorRecordNotFound) ||
		errors.Is(err, utils.ErrForbidden) ||
		errors.Is(err, utils.ErrConfirmationRequired) ||
		errors.Is(err, utils.ErrConflict)
}

// run executes op under the documents lock inside a transaction. Nothing is
// written when op fails.
func (w *DocumentWorkflow) run(ctx context.Context, name string, op operation) (models.DocumentSet, error) {
	cid, _ := utils.GetCorrelationIdFromContext(ctx)
	ctx, span := tracer.Start(ctx, "DocumentWorkflow."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("correlation.id", cid)))
	defer span.End()

	result, err := w.runLocked(ctx, name, op)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if isDomainError(err) {
			w.Logger.WithFields(logrus.Fields{
				"field":     "DocumentWorkflow",
				"operation": name,
			}).Info("operation rejected: " + err.Error())
		} else {
			config.LogError(w.Logger, "documentWorkflow.go", name, "run", nil, err)
		}
		return models.DocumentSet{}, err
	}

	span.SetAttributes(attribute.Int("documents.changed", len(result.Changes())))
	w.Logger.WithFields(logrus.Fields{
		"field":     "DocumentWorkflow",
		"operation": name,
		"changes":   len(result.Changes()),
	}).Info("operation committed")
	return result, nil
}

func (w *DocumentWorkflow) runLocked(ctx context.Context, name string, op operation) (models.DocumentSet, error) {
	unlock, err := w.Locker.Lock(ctx, documentsLockKey)
	if err != nil {
		return models.DocumentSet{}, err
	}
	defer unlock()

	env, err := w.env(ctx)
	if err != nil {
		return models.DocumentSet{}, err
	}
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)

	var result models.DocumentSet
	err = w.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireDocumentsLock(tx, int(w.Settings.DocumentLockTTL/time.Second)); err != nil {
			return err
		}
		defer ReleaseDocumentsLock(tx)

		snapshot, err := loadSnapshot(tx)
		if err != nil {
			return err
		}
		next, err := op(snapshot, env)
		if err != nil {
			return err
		}
		if err := persistChanges(tx, next); err != nil {
			return err
		}
		if records := models.EventRecordsFor(next.Changes(), env, correlationId); len(records) > 0 {
			if err := tx.Create(&records).Error; err != nil {
				return err
			}
		}
		result = next
		return nil
	})
	if isDuplicateKeyErr(err) {
		return models.DocumentSet{}, utils.ErrConflict
	}
	return result, err
}

// Snapshot reads the current documents without taking the lock.
func (w *DocumentWorkflow) Snapshot(ctx context.Context) (models.DocumentSet, error) {
	return loadSnapshot(w.DB.WithContext(ctx))
}
