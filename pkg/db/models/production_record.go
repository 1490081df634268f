package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductionRecord is one weighing event for one employee on one date.
// Rate is a point-in-time copy of the pay rate; later labour edits must
// not change it. FarmerID is denormalized so tenant-scoped queries never
// need to join through employees.
type ProductionRecord struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FarmerID   uuid.UUID `gorm:"column:farmer_id;type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;not null;index"`
	Date       time.Time `gorm:"column:date;type:date;not null"`
	Weight     float64   `gorm:"column:weight;not null"`
	Rate       float64   `gorm:"column:rate;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *ProductionRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// AmountPaid is always derived, never stored.
func (p *ProductionRecord) AmountPaid() float64 {
	return p.Weight * p.Rate
}
