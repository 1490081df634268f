package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryItem is named stock with a fractional quantity. One row per
// (farmer, item_name); the unique index is the correctness backstop for
// concurrent inserts.
type InventoryItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FarmerID  uuid.UUID `gorm:"column:farmer_id;type:uuid;not null;uniqueIndex:idx_inventories_farmer_item"`
	ItemName  string    `gorm:"column:item_name;not null;uniqueIndex:idx_inventories_farmer_item"`
	Quantity  float64   `gorm:"column:quantity;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
