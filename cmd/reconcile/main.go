package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/opsdesk_backend/config"
	"github.com/mmdatafocus/opsdesk_backend/utils"
	"github.com/mmdatafocus/opsdesk_backend/workflow"
)

// reconcile runs the stored-document consistency checks once, records the
// findings in reconciliation_reports and prints them.
//
// Example:
//
//	go run ./cmd/reconcile/ -fail-on-findings
func main() {
	failOnFindings := flag.Bool("fail-on-findings", false, "Exit with status 3 when any check reports a finding")
	timeout := flag.Duration("timeout", 5*time.Minute, "Overall timeout")
	flag.Parse()

	config.ConnectDatabase()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = utils.SetUserIdInContext(ctx, "reconcile")
	ctx = utils.SetCorrelationIdInContext(ctx, uuid.NewString())

	reports, err := workflow.RunReconciliationChecks(ctx, db, config.GetLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "reconciliation failed: %v\n", err)
		os.Exit(1)
	}

	for _, r := range reports {
		fmt.Printf("%-24s %-14s %-36s %s\n", r.CheckType, r.EntityType, r.EntityId, r.Details)
	}
	fmt.Printf("findings=%d\n", len(reports))
	if *failOnFindings && len(reports) > 0 {
		os.Exit(3)
	}
}
