package expenses

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence for the expense ledger, farmer-scoped.
type Repository interface {
	Create(ctx context.Context, expense *models.Expense) (*models.Expense, error)
	FindByID(ctx context.Context, farmerID, id uuid.UUID) (*models.Expense, error)
	ListInRange(ctx context.Context, farmerID uuid.UUID, start, end time.Time) ([]models.Expense, error)
	TotalInRange(ctx context.Context, farmerID uuid.UUID, start, end time.Time) (float64, error)
	Update(ctx context.Context, farmerID, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, farmerID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an expenses repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	if err := r.db.WithContext(ctx).Create(expense).Error; err != nil {
		return nil, err
	}
	return expense, nil
}

func (r *repository) FindByID(ctx context.Context, farmerID, id uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND id = ?", farmerID, id).
		First(&expense).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *repository) ListInRange(ctx context.Context, farmerID uuid.UUID, start, end time.Time) ([]models.Expense, error) {
	var expenseRows []models.Expense
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND date >= ? AND date <= ?", farmerID, start, end).
		Order("date DESC, created_at DESC").
		Find(&expenseRows).Error
	if err != nil {
		return nil, err
	}
	return expenseRows, nil
}

func (r *repository) TotalInRange(ctx context.Context, farmerID uuid.UUID, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("farmer_id = ? AND date >= ? AND date <= ?", farmerID, start, end).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repository) Update(ctx context.Context, farmerID, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Expense{}).
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
		Delete(&models.Expense{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
