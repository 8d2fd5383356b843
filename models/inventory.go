package models

import (
	"time"

	"github.com/mmdatafocus/opsdesk_backend/utils"
	"github.com/shopspring/decimal"
)

type InventoryItem struct {
	ID           string          `gorm:"primaryKey;size:64" json:"id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"quantity"`
	ReorderLevel decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"reorder_level"`
	Price        decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"price"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (it InventoryItem) NeedsReorder() bool {
	return it.Quantity.LessThanOrEqual(it.ReorderLevel)
}

type RequiredMaterial struct {
	ItemId   string          `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
}

func cloneMaterials(materials []RequiredMaterial) []RequiredMaterial {
	out := make([]RequiredMaterial, len(materials))
	copy(out, materials)
	return out
}

// ValidateInventory walks the materials in order and reports the first one
// stock cannot cover. Repeated items are checked against their running total.
// An item missing from inventory counts as zero available.
func ValidateInventory(required []RequiredMaterial, inventory map[string]InventoryItem) error {
	needed := make(map[string]decimal.Decimal, len(required))
	for _, m := range required {
		total := needed[m.ItemId].Add(m.Quantity)
		needed[m.ItemId] = total

		available := decimal.Zero
		name := m.ItemId
		if item, ok := inventory[m.ItemId]; ok {
			available = item.Quantity
			name = item.Name
		}
		if available.LessThan(total) {
			return &utils.InsufficientInventoryError{
				ItemId:    m.ItemId,
				ItemName:  name,
				Available: available,
				Needed:    total,
			}
		}
	}
	return nil
}

// DeductInventory returns the items touched by the materials with their new
// quantities. Stock is floored at zero; unknown items are skipped.
func DeductInventory(required []RequiredMaterial, inventory map[string]InventoryItem) []InventoryItem {
	updated := make(map[string]InventoryItem)
	order := make([]string, 0, len(required))
	for _, m := range required {
		item, ok := updated[m.ItemId]
		if !ok {
			item, ok = inventory[m.ItemId]
			if !ok {
				continue
			}
			order = append(order, m.ItemId)
		}
		item.Quantity = decimal.Max(decimal.Zero, item.Quantity.Sub(m.Quantity))
		updated[m.ItemId] = item
	}

	out := make([]InventoryItem, 0, len(order))
	for _, id := range order {
		out = append(out, updated[id])
	}
	return out
}
