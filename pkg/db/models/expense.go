package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Expense is a dated operational cost tagged by a labour category.
type Expense struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FarmerID    uuid.UUID `gorm:"column:farmer_id;type:uuid;not null;index"`
	CategoryID  uuid.UUID `gorm:"column:category_id;type:uuid;not null"`
	Description *string   `gorm:"column:description"`
	Amount      float64   `gorm:"column:amount;not null"`
	Date        time.Time `gorm:"column:date;type:date;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
