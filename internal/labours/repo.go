package labours

import (
	"context"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for labour types. Every method
// takes the owning farmer id and scopes its predicate to it.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, labour *models.Labour) (*models.Labour, error)
	FindByID(ctx context.Context, farmerID, id uuid.UUID) (*models.Labour, error)
	FindByType(ctx context.Context, farmerID uuid.UUID, labourType string) (*models.Labour, error)
	List(ctx context.Context, farmerID uuid.UUID) ([]models.Labour, error)
	Update(ctx context.Context, farmerID, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, farmerID, id uuid.UUID) error
	CountEmployeesByJobType(ctx context.Context, farmerID, labourID uuid.UUID) (int64, error)
	CountExpensesByCategory(ctx context.Context, farmerID, labourID uuid.UUID) (int64, error)
	CountTasksByLabour(ctx context.Context, farmerID, labourID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a labours repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, labour *models.Labour) (*models.Labour, error) {
	if err := r.db.WithContext(ctx).Create(labour).Error; err != nil {
		return nil, err
	}
	return labour, nil
}

func (r *repository) FindByID(ctx context.Context, farmerID, id uuid.UUID) (*models.Labour, error) {
	var labour models.Labour
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND id = ?", farmerID, id).
		First(&labour).Error
	if err != nil {
		return nil, err
	}
	return &labour, nil
}

func (r *repository) FindByType(ctx context.Context, farmerID uuid.UUID, labourType string) (*models.Labour, error) {
	var labour models.Labour
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND type = ?", farmerID, labourType).
		First(&labour).Error
	if err != nil {
		return nil, err
	}
	return &labour, nil
}

func (r *repository) List(ctx context.Context, farmerID uuid.UUID) ([]models.Labour, error) {
	var labourTypes []models.Labour
	err := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("type ASC").
		Find(&labourTypes).Error
	if err != nil {
		return nil, err
	}
	return labourTypes, nil
}

func (r *repository) Update(ctx context.Context, farmerID, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Labour{}).
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
		Delete(&models.Labour{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountEmployeesByJobType(ctx context.Context, farmerID, labourID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("farmer_id = ? AND job_type_id = ?", farmerID, labourID).
		Count(&count).Error
	return count, err
}

func (r *repository) CountExpensesByCategory(ctx context.Context, farmerID, labourID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Where("farmer_id = ? AND category_id = ?", farmerID, labourID).
		Count(&count).Error
	return count, err
}

func (r *repository) CountTasksByLabour(ctx context.Context, farmerID, labourID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("farmer_id = ? AND labour_id = ?", farmerID, labourID).
		Count(&count).Error
	return count, err
}
