// seed-dev creates the employees, customers and inventory a local environment
// needs, and prints an admin bearer token for the first employee.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-dev
//	DB_DRIVER=sqlite SQLITE_DSN=file:opsdesk.db go run ./cmd/seed-dev
//
// Rerunning is safe: existing rows are updated in place.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mmdatafocus/opsdesk_backend/config"
	"github.com/mmdatafocus/opsdesk_backend/models"
	"github.com/mmdatafocus/opsdesk_backend/utils"
	"github.com/mmdatafocus/opsdesk_backend/workflow"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var employees = []models.Employee{
	{ID: "emp-admin", Name: "Office Admin", Role: "admin", Email: "admin@example.com", IsActive: true},
	{ID: "emp-tech-1", Name: "Sanne de Vries", Role: "technician", Email: "sanne@example.com", IsActive: true},
	{ID: "emp-tech-2", Name: "Daan Jansen", Role: "technician", Email: "daan@example.com", IsActive: true},
}

var customers = []struct {
	models.Customer
	rawPhone string
}{
	{Customer: models.Customer{ID: "cust-1", Name: "Bakkerij Smit", Email: "info@bakkerijsmit.example"}, rawPhone: "020 123 4567"},
	{Customer: models.Customer{ID: "cust-2", Name: "Van Dijk Installaties", Email: "office@vandijk.example"}, rawPhone: "+31 10 765 4321"},
}

var inventory = []models.InventoryItem{
	{ID: "inv-valve", Name: "Ball valve 22mm", Quantity: decimal.NewFromInt(40), ReorderLevel: decimal.NewFromInt(10), Price: decimal.RequireFromString("12.50")},
	{ID: "inv-pump", Name: "Circulation pump", Quantity: decimal.NewFromInt(4), ReorderLevel: decimal.NewFromInt(2), Price: decimal.RequireFromString("189.00")},
	{ID: "inv-pipe", Name: "Copper pipe 1m", Quantity: decimal.NewFromInt(120), ReorderLevel: decimal.NewFromInt(30), Price: decimal.RequireFromString("7.25")},
}

func main() {
	ctx := context.Background()
	config.ConnectDatabase()
	config.ConnectRedisWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	if err := models.AutoMigrate(db); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&employees).Error; err != nil {
			return fmt.Errorf("employees: %w", err)
		}
		for _, c := range customers {
			row := c.Customer
			phone, err := utils.NormalizePhoneNumber(c.rawPhone)
			if err != nil {
				return fmt.Errorf("customer %s phone %q: %w", row.ID, c.rawPhone, err)
			}
			row.Phone = phone
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
				return fmt.Errorf("customer %s: %w", row.ID, err)
			}
		}
		// Stock levels of existing items are left alone.
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&inventory).Error; err != nil {
			return fmt.Errorf("inventory: %w", err)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}

	if err := workflow.NewDirectoryLoader(db).Invalidate(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: directory cache not cleared: %v\n", err)
	}

	token, err := utils.JwtGenerate(employees[0].ID, employees[0].Name, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded %d employees, %d customers, %d inventory items\n", len(employees), len(customers), len(inventory))
	fmt.Printf("admin token (%s): %s\n", employees[0].ID, token)
}
