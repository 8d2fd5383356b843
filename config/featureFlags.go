package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type ReferenceDeletePolicy string

const (
	// ReferenceDeleteBlock rejects deleting a quote or invoice another document still points at.
	ReferenceDeleteBlock ReferenceDeletePolicy = "block"
	// ReferenceDeleteTolerate allows the delete and leaves the dangling reference unresolvable.
	ReferenceDeleteTolerate ReferenceDeletePolicy = "tolerate"
)

// ReferenceDeletePolicyFromEnv reads REFERENCE_DELETE_POLICY (block|tolerate, default block).
func ReferenceDeletePolicyFromEnv() ReferenceDeletePolicy {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("REFERENCE_DELETE_POLICY")))
	if v == string(ReferenceDeleteTolerate) {
		return ReferenceDeleteTolerate
	}
	return ReferenceDeleteBlock
}

func stringFromEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func boolFromEnv(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	}
	return def
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func decimalFromEnv(key string, def decimal.Decimal) decimal.Decimal {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return def
	}
	return d
}
