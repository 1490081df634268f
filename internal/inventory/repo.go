package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	"github.com/teafarmpro/teafarm-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence for inventory stock, farmer-scoped.
type Repository interface {
	Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	FindByID(ctx context.Context, farmerID, id uuid.UUID) (*models.InventoryItem, error)
	FindByName(ctx context.Context, farmerID uuid.UUID, itemName string) (*models.InventoryItem, error)
	List(ctx context.Context, farmerID uuid.UUID, params pagination.Params) ([]models.InventoryItem, int64, error)
	SetQuantity(ctx context.Context, farmerID, id uuid.UUID, quantity float64) error
	AdjustQuantity(ctx context.Context, farmerID, id uuid.UUID, delta float64) (bool, error)
	Delete(ctx context.Context, farmerID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) FindByID(ctx context.Context, farmerID, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND id = ?", farmerID, id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByName(ctx context.Context, farmerID uuid.UUID, itemName string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND item_name = ?", farmerID, itemName).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context, farmerID uuid.UUID, params pagination.Params) ([]models.InventoryItem, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("farmer_id = ?", farmerID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var items []models.InventoryItem
	err = r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("item_name ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) SetQuantity(ctx context.Context, farmerID, id uuid.UUID, quantity float64) error {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("farmer_id = ? AND id = ?", farmerID, id).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AdjustQuantity applies the delta atomically; the predicate refuses any
// change that would take the quantity below zero. The bool result reports
// whether a row changed.
func (r *repository) AdjustQuantity(ctx context.Context, farmerID, id uuid.UUID, delta float64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("farmer_id = ? AND id = ? AND quantity + ? >= 0", farmerID, id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Delete(ctx context.Context, farmerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("farmer_id = ? AND id = ?", farmerID, id).
		Delete(&models.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
