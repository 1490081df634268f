package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Labour is a job/expense category with a default rate. The rate here is
// only a proposal for new production records; it is copied by value at
// record time and never read back for historical rows.
type Labour struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FarmerID    uuid.UUID `gorm:"column:farmer_id;type:uuid;not null;uniqueIndex:idx_labours_farmer_type"`
	Type        string    `gorm:"column:type;not null;uniqueIndex:idx_labours_farmer_type"`
	Description *string   `gorm:"column:description"`
	Rate        float64   `gorm:"column:rate;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *Labour) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
