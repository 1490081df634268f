package production

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/db"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type employeeDirectory interface {
	FindEmployeeByID(ctx context.Context, farmerID, id uuid.UUID) (*models.Employee, error)
}

type jobTypeCatalog interface {
	FindByID(ctx context.Context, farmerID, id uuid.UUID) (*models.Labour, error)
}

// Service owns the production ledger. Rate is captured by value at record
// time: the record stores the rate used and later labour edits never touch
// it. Every mutation recomputes that day's summary inside the same
// transaction.
type Service interface {
	Record(ctx context.Context, farmerID uuid.UUID, input RecordInput) (*models.ProductionRecord, error)
	Get(ctx context.Context, farmerID, recordID uuid.UUID) (*models.ProductionRecord, error)
	Update(ctx context.Context, farmerID, recordID uuid.UUID, input UpdateInput) (*models.ProductionRecord, error)
	Delete(ctx context.Context, farmerID, recordID uuid.UUID) error
	ListByEmployee(ctx context.Context, farmerID, employeeID uuid.UUID) ([]models.ProductionRecord, error)
	TotalWeight(ctx context.Context, farmerID uuid.UUID, start, end time.Time) (float64, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	employees employeeDirectory
	jobTypes  jobTypeCatalog
}

// RecordInput captures one weighing event. A nil Rate means "copy the
// employee's current job-type rate".
type RecordInput struct {
	EmployeeID uuid.UUID
	Date       time.Time
	Weight     float64
	Rate       *float64
}

// UpdateInput carries partial updates; nil fields are left untouched.
type UpdateInput struct {
	Date   *time.Time
	Weight *float64
	Rate   *float64
}

// NewService builds the production service.
func NewService(repo Repository, tx txRunner, employees employeeDirectory, jobTypes jobTypeCatalog) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("production repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if employees == nil {
		return nil, fmt.Errorf("employee directory required")
	}
	if jobTypes == nil {
		return nil, fmt.Errorf("job type catalog required")
	}
	return &service{repo: repo, tx: tx, employees: employees, jobTypes: jobTypes}, nil
}

// DateOnly truncates a timestamp to its calendar day in UTC so stored
// dates compare equal regardless of the incoming clock component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *service) Record(ctx context.Context, farmerID uuid.UUID, input RecordInput) (*models.ProductionRecord, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if input.EmployeeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee id required")
	}
	if input.Weight <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must be positive")
	}
	if input.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date required")
	}
	if input.Rate != nil && *input.Rate < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate must not be negative")
	}

	employee, err := s.employees.FindEmployeeByID(ctx, farmerID, input.EmployeeID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown employee")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load employee")
	}

	rate, err := s.resolveRate(ctx, farmerID, employee, input.Rate)
	if err != nil {
		return nil, err
	}

	date := DateOnly(input.Date)
	record := &models.ProductionRecord{
		FarmerID:   farmerID,
		EmployeeID: employee.ID,
		Date:       date,
		Weight:     input.Weight,
		Rate:       rate,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create production record")
		}
		return recomputeSummary(ctx, repo, farmerID, date)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// resolveRate picks the explicit rate when given, otherwise copies the
// current rate of the employee's job type.
func (s *service) resolveRate(ctx context.Context, farmerID uuid.UUID, employee *models.Employee, explicit *float64) (float64, error) {
	if explicit != nil {
		return *explicit, nil
	}
	labour, err := s.jobTypes.FindByID(ctx, farmerID, employee.JobTypeID)
	if err != nil {
		if db.IsNotFound(err) {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, "employee has no job type rate; provide a rate")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load job type rate")
	}
	return labour.Rate, nil
}

func (s *service) Get(ctx context.Context, farmerID, recordID uuid.UUID) (*models.ProductionRecord, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if recordID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "record id required")
	}
	record, err := s.repo.FindByID(ctx, farmerID, recordID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "production record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load production record")
	}
	return record, nil
}

func (s *service) Update(ctx context.Context, farmerID, recordID uuid.UUID, input UpdateInput) (*models.ProductionRecord, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if recordID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "record id required")
	}

	updates := map[string]any{}
	var newDate *time.Time
	if input.Date != nil {
		d := DateOnly(*input.Date)
		newDate = &d
		updates["date"] = d
	}
	if input.Weight != nil {
		if *input.Weight <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must be positive")
		}
		updates["weight"] = *input.Weight
	}
	if input.Rate != nil {
		if *input.Rate < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate must not be negative")
		}
		updates["rate"] = *input.Rate
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	var updated *models.ProductionRecord
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindByID(ctx, farmerID, recordID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "production record not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load production record")
		}
		oldDate := DateOnly(existing.Date)

		if err := repo.Update(ctx, farmerID, recordID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update production record")
		}

		if err := recomputeSummary(ctx, repo, farmerID, oldDate); err != nil {
			return err
		}
		if newDate != nil && !newDate.Equal(oldDate) {
			if err := recomputeSummary(ctx, repo, farmerID, *newDate); err != nil {
				return err
			}
		}

		updated, err = repo.FindByID(ctx, farmerID, recordID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload production record")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, farmerID, recordID uuid.UUID) error {
	if farmerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if recordID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "record id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindByID(ctx, farmerID, recordID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "production record not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load production record")
		}

		if err := repo.Delete(ctx, farmerID, recordID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete production record")
		}
		return recomputeSummary(ctx, repo, farmerID, DateOnly(existing.Date))
	})
}

func (s *service) ListByEmployee(ctx context.Context, farmerID, employeeID uuid.UUID) ([]models.ProductionRecord, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if employeeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee id required")
	}
	records, err := s.repo.ListByEmployee(ctx, farmerID, employeeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list production records")
	}
	return records, nil
}

func (s *service) TotalWeight(ctx context.Context, farmerID uuid.UUID, start, end time.Time) (float64, error) {
	if farmerID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if start.IsZero() || end.IsZero() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "start and end dates required")
	}
	startDay, endDay := DateOnly(start), DateOnly(end)
	if endDay.Before(startDay) {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "end date before start date")
	}
	total, err := s.repo.TotalWeight(ctx, farmerID, startDay, endDay)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum production weight")
	}
	return total, nil
}

func recomputeSummary(ctx context.Context, repo Repository, farmerID uuid.UUID, date time.Time) error {
	weight, amount, err := repo.SumForDate(ctx, farmerID, date)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum production for date")
	}
	if err := repo.UpsertDailySummary(ctx, farmerID, date, weight, amount); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store daily summary")
	}
	return nil
}
