package config

import (
	"time"

	"github.com/shopspring/decimal"
)

// EngineSettings are the business defaults used when a document does not carry its own value.
type EngineSettings struct {
	DefaultVatRate     decimal.Decimal
	DefaultHourlyRate  decimal.Decimal
	InvoiceDueDays     int
	QuoteValidDays     int
	PaymentTerms       string
	DeletePolicy       ReferenceDeletePolicy
	DocumentLockTTL    time.Duration
	DocumentLockWaitMs int
}

func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		DefaultVatRate:     decimal.NewFromInt(21),
		DefaultHourlyRate:  decimal.NewFromInt(50),
		InvoiceDueDays:     14,
		QuoteValidDays:     30,
		PaymentTerms:       "Net 14",
		DeletePolicy:       ReferenceDeleteBlock,
		DocumentLockTTL:    30 * time.Second,
		DocumentLockWaitMs: 5000,
	}
}

// LoadEngineSettings applies env overrides on top of DefaultEngineSettings.
//
// Env:
// - DEFAULT_VAT_RATE, DEFAULT_HOURLY_RATE
// - INVOICE_DUE_DAYS, QUOTE_VALID_DAYS, PAYMENT_TERMS
// - REFERENCE_DELETE_POLICY=block|tolerate
// - DOCUMENT_LOCK_TTL_SECONDS, DOCUMENT_LOCK_WAIT_MS
func LoadEngineSettings() EngineSettings {
	s := DefaultEngineSettings()
	s.DefaultVatRate = decimalFromEnv("DEFAULT_VAT_RATE", s.DefaultVatRate)
	s.DefaultHourlyRate = decimalFromEnv("DEFAULT_HOURLY_RATE", s.DefaultHourlyRate)
	s.InvoiceDueDays = intFromEnv("INVOICE_DUE_DAYS", s.InvoiceDueDays)
	s.QuoteValidDays = intFromEnv("QUOTE_VALID_DAYS", s.QuoteValidDays)
	if v := stringFromEnv("PAYMENT_TERMS"); v != "" {
		s.PaymentTerms = v
	}
	s.DeletePolicy = ReferenceDeletePolicyFromEnv()
	if ttl := intFromEnv("DOCUMENT_LOCK_TTL_SECONDS", 0); ttl > 0 {
		s.DocumentLockTTL = time.Duration(ttl) * time.Second
	}
	s.DocumentLockWaitMs = intFromEnv("DOCUMENT_LOCK_WAIT_MS", s.DocumentLockWaitMs)
	return s
}
