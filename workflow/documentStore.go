package workflow

import (
	"fmt"

	"github.com/mmdatafocus/opsdesk_backend/models"
	"gorm.io/gorm"
)

// loadSnapshot reads every document collection into a DocumentSet.
func loadSnapshot(tx *gorm.DB) (models.DocumentSet, error) {
	var (
		quotes     []models.Quote
		invoices   []models.Invoice
		workOrders []models.WorkOrder
		inventory  []models.InventoryItem
	)
	if err := tx.Find(&quotes).Error; err != nil {
		return models.DocumentSet{}, err
	}
	if err := tx.Find(&invoices).Error; err != nil {
		return models.DocumentSet{}, err
	}
	if err := tx.Find(&workOrders).Error; err != nil {
		return models.DocumentSet{}, err
	}
	if err := tx.Find(&inventory).Error; err != nil {
		return models.DocumentSet{}, err
	}
	return models.NewDocumentSet(quotes, invoices, workOrders, inventory), nil
}

// persistChanges writes exactly the documents listed in s.Changes().
func persistChanges(tx *gorm.DB, s models.DocumentSet) error {
	for _, c := range s.Changes() {
		var err error
		switch c.Kind {
		case models.DocumentKindQuote:
			q, ok := s.Quote(c.Id)
			err = writeDocument(tx, c, &q, ok)
		case models.DocumentKindInvoice:
			inv, ok := s.Invoice(c.Id)
			err = writeDocument(tx, c, &inv, ok)
		case models.DocumentKindWorkOrder:
			w, ok := s.WorkOrder(c.Id)
			err = writeDocument(tx, c, &w, ok)
		case models.DocumentKindInventoryItem:
			it, ok := s.InventoryItem(c.Id)
			err = writeDocument(tx, c, &it, ok)
		default:
			err = fmt.Errorf("unknown document kind %q", c.Kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeDocument[T any](tx *gorm.DB, c models.Change, doc *T, found bool) error {
	if c.Action == models.ChangeDeleted {
		return tx.Where("id = ?", c.Id).Delete(new(T)).Error
	}
	if !found {
		return fmt.Errorf("%s %s missing from document set", c.Kind, c.Id)
	}
	if c.Action == models.ChangeCreated {
		return tx.Create(doc).Error
	}
	return tx.Save(doc).Error
}
