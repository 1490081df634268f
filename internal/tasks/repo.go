package tasks

import (
	"context"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence for the task board, farmer-scoped.
type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	FindByID(ctx context.Context, farmerID, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, farmerID uuid.UUID) ([]models.Task, error)
	ListByEmployee(ctx context.Context, farmerID, employeeID uuid.UUID) ([]models.Task, error)
	Update(ctx context.Context, farmerID, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, farmerID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tasks repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func (r *repository) FindByID(ctx context.Context, farmerID, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND id = ?", farmerID, id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *repository) List(ctx context.Context, farmerID uuid.UUID) ([]models.Task, error) {
	var taskRows []models.Task
	err := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Find(&taskRows).Error
	if err != nil {
		return nil, err
	}
	return taskRows, nil
}

func (r *repository) ListByEmployee(ctx context.Context, farmerID, employeeID uuid.UUID) ([]models.Task, error) {
	var taskRows []models.Task
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND employee_id = ?", farmerID, employeeID).
		Order("created_at DESC").
		Find(&taskRows).Error
	if err != nil {
		return nil, err
	}
	return taskRows, nil
}

func (r *repository) Update(ctx context.Context, farmerID, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("farmer_id = ? AND id = ?", farmerID, id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, farmerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("farmer_id = ? AND id = ?", farmerID, id).
		Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
