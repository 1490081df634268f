package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyProductionSummary caches per-day production totals for a farmer.
// It is not authoritative: it is recomputed from ProductionRecord inside
// the same transaction as every production write.
type DailyProductionSummary struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FarmerID    uuid.UUID `gorm:"column:farmer_id;type:uuid;not null;uniqueIndex:idx_daily_summaries_farmer_date"`
	Date        time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_daily_summaries_farmer_date"`
	TotalWeight float64   `gorm:"column:total_weight;not null;default:0"`
	TotalAmount float64   `gorm:"column:total_amount;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (d *DailyProductionSummary) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
