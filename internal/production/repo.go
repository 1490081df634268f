package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence for production records and the per-day
// summary cache. All methods are farmer-scoped.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.ProductionRecord) (*models.ProductionRecord, error)
	FindByID(ctx context.Context, farmerID, id uuid.UUID) (*models.ProductionRecord, error)
	ListByEmployee(ctx context.Context, farmerID, employeeID uuid.UUID) ([]models.ProductionRecord, error)
	Update(ctx context.Context, farmerID, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, farmerID, id uuid.UUID) error
	SumForDate(ctx context.Context, farmerID uuid.UUID, date time.Time) (weight, amount float64, err error)
	UpsertDailySummary(ctx context.Context, farmerID uuid.UUID, date time.Time, totalWeight, totalAmount float64) error
	FindDailySummary(ctx context.Context, farmerID uuid.UUID, date time.Time) (*models.DailyProductionSummary, error)
	TotalWeight(ctx context.Context, farmerID uuid.UUID, start, end time.Time) (float64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a production repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.ProductionRecord) (*models.ProductionRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *repository) FindByID(ctx context.Context, farmerID, id uuid.UUID) (*models.ProductionRecord, error) {
	var record models.ProductionRecord
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND id = ?", farmerID, id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) ListByEmployee(ctx context.Context, farmerID, employeeID uuid.UUID) ([]models.ProductionRecord, error) {
	var records []models.ProductionRecord
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND employee_id = ?", farmerID, employeeID).
		Order("date DESC, created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) Update(ctx context.Context, farmerID, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.ProductionRecord{}).
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
		Delete(&models.ProductionRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) SumForDate(ctx context.Context, farmerID uuid.UUID, date time.Time) (float64, float64, error) {
	var totals struct {
		TotalWeight float64
		TotalAmount float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.ProductionRecord{}).
		Select("COALESCE(SUM(weight), 0) AS total_weight, COALESCE(SUM(weight * rate), 0) AS total_amount").
		Where("farmer_id = ? AND date = ?", farmerID, date).
		Scan(&totals).Error
	if err != nil {
		return 0, 0, err
	}
	return totals.TotalWeight, totals.TotalAmount, nil
}

func (r *repository) UpsertDailySummary(ctx context.Context, farmerID uuid.UUID, date time.Time, totalWeight, totalAmount float64) error {
	res := r.db.WithContext(ctx).
		Model(&models.DailyProductionSummary{}).
		Where("farmer_id = ? AND date = ?", farmerID, date).
		Updates(map[string]any{
			"total_weight": totalWeight,
			"total_amount": totalAmount,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	summary := &models.DailyProductionSummary{
		FarmerID:    farmerID,
		Date:        date,
		TotalWeight: totalWeight,
		TotalAmount: totalAmount,
	}
	return r.db.WithContext(ctx).Create(summary).Error
}

func (r *repository) FindDailySummary(ctx context.Context, farmerID uuid.UUID, date time.Time) (*models.DailyProductionSummary, error) {
	var summary models.DailyProductionSummary
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND date = ?", farmerID, date).
		First(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *repository) TotalWeight(ctx context.Context, farmerID uuid.UUID, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.ProductionRecord{}).
		Select("COALESCE(SUM(weight), 0)").
		Where("farmer_id = ? AND date >= ? AND date <= ?", farmerID, start, end).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
