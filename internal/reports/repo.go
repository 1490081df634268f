package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	"gorm.io/gorm"
)

// WeighedEntry is the (weight, rate) pair of one production record,
// the raw material for weight and income aggregates.
type WeighedEntry struct {
	Weight float64
	Rate   float64
}

// Repository exposes the read-only aggregate queries the reporting
// engine needs. It never mutates anything.
type Repository interface {
	ProductionEntries(ctx context.Context, farmerID uuid.UUID, start, end time.Time) ([]WeighedEntry, error)
	EmployeeEntries(ctx context.Context, farmerID, employeeID uuid.UUID, start, end time.Time) ([]WeighedEntry, error)
	FindEmployee(ctx context.Context, farmerID, employeeID uuid.UUID) (*models.Employee, error)
	ExpensesInRange(ctx context.Context, farmerID uuid.UUID, start, end time.Time) ([]models.Expense, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reports repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ProductionEntries(ctx context.Context, farmerID uuid.UUID, start, end time.Time) ([]WeighedEntry, error) {
	var entries []WeighedEntry
	err := r.db.WithContext(ctx).
		Model(&models.ProductionRecord{}).
		Select("weight", "rate").
		Where("farmer_id = ? AND date >= ? AND date <= ?", farmerID, start, end).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) EmployeeEntries(ctx context.Context, farmerID, employeeID uuid.UUID, start, end time.Time) ([]WeighedEntry, error) {
	var entries []WeighedEntry
	err := r.db.WithContext(ctx).
		Model(&models.ProductionRecord{}).
		Select("weight", "rate").
		Where("farmer_id = ? AND employee_id = ? AND date >= ? AND date <= ?", farmerID, employeeID, start, end).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) FindEmployee(ctx context.Context, farmerID, employeeID uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND id = ?", farmerID, employeeID).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *repository) ExpensesInRange(ctx context.Context, farmerID uuid.UUID, start, end time.Time) ([]models.Expense, error) {
	var expenseRows []models.Expense
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND date >= ? AND date <= ?", farmerID, start, end).
		Order("date ASC").
		Find(&expenseRows).Error
	if err != nil {
		return nil, err
	}
	return expenseRows, nil
}
