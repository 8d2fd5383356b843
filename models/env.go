package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/opsdesk_backend/config"
	"github.com/mmdatafocus/opsdesk_backend/utils"
	"github.com/shopspring/decimal"
)

// Actor is whoever triggered the operation.
type Actor struct {
	Id      string
	Name    string
	IsAdmin bool
}

// Env carries everything an operation needs besides the document set itself.
// Operations never read the clock or generate ids on their own.
type Env struct {
	Actor     Actor
	Now       time.Time
	Directory Directory
	Settings  config.EngineSettings
	NewId     func() string
}

func (e Env) newId() string {
	if e.NewId != nil {
		return e.NewId()
	}
	return uuid.NewString()
}

func (e Env) actorName() string {
	if e.Directory != nil {
		if name, ok := e.Directory.EmployeeName(e.Actor.Id); ok {
			return name
		}
	}
	if e.Actor.Name != "" {
		return e.Actor.Name
	}
	return e.Actor.Id
}

func (e Env) employeeName(id string) string {
	if e.Directory != nil {
		if name, ok := e.Directory.EmployeeName(id); ok {
			return name
		}
	}
	return id
}

func (e Env) customerName(id string) string {
	if e.Directory != nil {
		if name, ok := e.Directory.CustomerName(id); ok {
			return name
		}
	}
	return id
}

func (e Env) vatRateOr(rate *decimal.Decimal) decimal.Decimal {
	if rate != nil {
		return *rate
	}
	return e.Settings.DefaultVatRate
}

func (e Env) entry(action HistoryAction, details string) HistoryEntry {
	return HistoryEntry{
		Timestamp:   e.Now,
		Action:      action,
		PerformedBy: e.actorName(),
		Details:     details,
	}
}

// authorizeDelete checks the admin gate and the confirmation token (the document id).
func (e Env) authorizeDelete(id string, confirmation string) error {
	if !e.Actor.IsAdmin {
		return utils.ErrForbidden
	}
	if confirmation == "" || confirmation != id {
		return utils.ErrConfirmationRequired
	}
	return nil
}
