package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailySale records a delivery of plucked tea to a factory, with the
// gross/tare/net weights from the factory weighbridge.
type DailySale struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FarmerID       uuid.UUID `gorm:"column:farmer_id;type:uuid;not null;index"`
	Factory        *string   `gorm:"column:factory"`
	TransactionRef *string   `gorm:"column:transaction_ref"`
	PluckingDate   time.Time `gorm:"column:plucking_date;type:date;not null"`
	GrossWeight    float64   `gorm:"column:gross_weight;not null"`
	TareWeight     float64   `gorm:"column:tare_weight;not null"`
	NetWeight      float64   `gorm:"column:net_weight;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (d *DailySale) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
