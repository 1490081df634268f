package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teafarmpro/teafarm-backend/pkg/enums"
)

// Task assigns a labour-type job to an employee with an optional due date.
type Task struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	FarmerID   uuid.UUID        `gorm:"column:farmer_id;type:uuid;not null;index"`
	LabourID   uuid.UUID        `gorm:"column:labour_id;type:uuid;not null"`
	EmployeeID uuid.UUID        `gorm:"column:employee_id;type:uuid;not null;index"`
	DueDate    *time.Time       `gorm:"column:due_date;type:date"`
	Status     enums.TaskStatus `gorm:"column:status;not null;default:pending"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
