package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is a worker belonging to exactly one farmer, assigned a labour
// job type. Phone is unique within the owning farmer, not globally. Email
// is optional but globally unique when present: it backs login, so two
// employees must never share one.
type Employee struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	FarmerID     uuid.UUID  `gorm:"column:farmer_id;type:uuid;not null;uniqueIndex:idx_employees_farmer_phone"`
	Name         string     `gorm:"column:name;not null"`
	Phone        string     `gorm:"column:phone;not null;uniqueIndex:idx_employees_farmer_phone"`
	Email        *string    `gorm:"column:email;uniqueIndex:idx_employees_email,where:email IS NOT NULL"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	JobTypeID    uuid.UUID  `gorm:"column:job_type_id;type:uuid;not null"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
