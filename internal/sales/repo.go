package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence for factory deliveries, farmer-scoped.
type Repository interface {
	Create(ctx context.Context, sale *models.DailySale) (*models.DailySale, error)
	FindByID(ctx context.Context, farmerID, id uuid.UUID) (*models.DailySale, error)
	ListInRange(ctx context.Context, farmerID uuid.UUID, start, end time.Time) ([]models.DailySale, error)
	Update(ctx context.Context, farmerID, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, farmerID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a sales repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, sale *models.DailySale) (*models.DailySale, error) {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *repository) FindByID(ctx context.Context, farmerID, id uuid.UUID) (*models.DailySale, error) {
	var sale models.DailySale
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND id = ?", farmerID, id).
		First(&sale).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *repository) ListInRange(ctx context.Context, farmerID uuid.UUID, start, end time.Time) ([]models.DailySale, error) {
	var saleRows []models.DailySale
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND plucking_date >= ? AND plucking_date <= ?", farmerID, start, end).
		Order("plucking_date DESC").
		Find(&saleRows).Error
	if err != nil {
		return nil, err
	}
	return saleRows, nil
}

func (r *repository) Update(ctx context.Context, farmerID, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.DailySale{}).
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
		Delete(&models.DailySale{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
