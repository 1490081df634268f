package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Farmer is the tenant root: every other row traces back to exactly one farmer.
type Farmer struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name         string     `gorm:"column:name;not null"`
	Phone        string     `gorm:"column:phone;not null;uniqueIndex"`
	Email        string     `gorm:"column:email;not null;uniqueIndex"`
	FarmName     *string    `gorm:"column:farm_name"`
	Location     *string    `gorm:"column:location"`
	TotalAcreage *float64   `gorm:"column:total_acreage"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (f *Farmer) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
