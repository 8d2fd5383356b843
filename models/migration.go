package models

import (
	"log"

	"github.com/mmdatafocus/opsdesk_backend/config"
	"gorm.io/gorm"
)

func MigrateTable() {
	if err := AutoMigrate(config.GetDB()); err != nil {
		log.Fatal(err)
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Quote{}, &Invoice{}, &WorkOrder{},
		&InventoryItem{},
		&Employee{}, &Customer{},
		&DocumentEventRecord{}, &ReconciliationReport{},
	)
}
