package expenses

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/db"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
)

type categoryCatalog interface {
	FindByID(ctx context.Context, farmerID, id uuid.UUID) (*models.Labour, error)
}

// Service owns the expense ledger. Range queries use inclusive bounds.
type Service interface {
	Log(ctx context.Context, farmerID uuid.UUID, input LogInput) (*models.Expense, error)
	Get(ctx context.Context, farmerID, expenseID uuid.UUID) (*models.Expense, error)
	Update(ctx context.Context, farmerID, expenseID uuid.UUID, input UpdateInput) (*models.Expense, error)
	Delete(ctx context.Context, farmerID, expenseID uuid.UUID) error
	ListInRange(ctx context.Context, farmerID uuid.UUID, start, end time.Time) ([]models.Expense, error)
	TotalInRange(ctx context.Context, farmerID uuid.UUID, start, end time.Time) (float64, error)
}

type service struct {
	repo       Repository
	categories categoryCatalog
}

// LogInput captures one dated cost entry.
type LogInput struct {
	CategoryID  uuid.UUID
	Description *string
	Amount      float64
	Date        time.Time
}

// UpdateInput carries partial updates; nil fields are left untouched.
type UpdateInput struct {
	CategoryID  *uuid.UUID
	Description *string
	Amount      *float64
	Date        *time.Time
}

// NewService builds the expenses service.
func NewService(repo Repository, categories categoryCatalog) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("expenses repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category catalog required")
	}
	return &service{repo: repo, categories: categories}, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *service) Log(ctx context.Context, farmerID uuid.UUID, input LogInput) (*models.Expense, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category required")
	}
	if input.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date required")
	}

	if err := s.checkCategory(ctx, farmerID, input.CategoryID); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		FarmerID:    farmerID,
		CategoryID:  input.CategoryID,
		Description: input.Description,
		Amount:      input.Amount,
		Date:        dateOnly(input.Date),
	}
	created, err := s.repo.Create(ctx, expense)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create expense")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, farmerID, expenseID uuid.UUID) (*models.Expense, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if expenseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expense id required")
	}
	expense, err := s.repo.FindByID(ctx, farmerID, expenseID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load expense")
	}
	return expense, nil
}

func (s *service) Update(ctx context.Context, farmerID, expenseID uuid.UUID, input UpdateInput) (*models.Expense, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if expenseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expense id required")
	}

	updates := map[string]any{}
	if input.CategoryID != nil {
		if err := s.checkCategory(ctx, farmerID, *input.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *input.CategoryID
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Amount != nil {
		if *input.Amount <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
		}
		updates["amount"] = *input.Amount
	}
	if input.Date != nil {
		updates["date"] = dateOnly(*input.Date)
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, farmerID, expenseID, updates); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update expense")
	}

	expense, err := s.repo.FindByID(ctx, farmerID, expenseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload expense")
	}
	return expense, nil
}

func (s *service) Delete(ctx context.Context, farmerID, expenseID uuid.UUID) error {
	if farmerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if expenseID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "expense id required")
	}
	if err := s.repo.Delete(ctx, farmerID, expenseID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete expense")
	}
	return nil
}

func (s *service) ListInRange(ctx context.Context, farmerID uuid.UUID, start, end time.Time) ([]models.Expense, error) {
	startDay, endDay, err := s.checkRange(farmerID, start, end)
	if err != nil {
		return nil, err
	}
	expenseRows, err := s.repo.ListInRange(ctx, farmerID, startDay, endDay)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list expenses")
	}
	return expenseRows, nil
}

func (s *service) TotalInRange(ctx context.Context, farmerID uuid.UUID, start, end time.Time) (float64, error) {
	startDay, endDay, err := s.checkRange(farmerID, start, end)
	if err != nil {
		return 0, err
	}
	total, err := s.repo.TotalInRange(ctx, farmerID, startDay, endDay)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum expenses")
	}
	return total, nil
}

func (s *service) checkRange(farmerID uuid.UUID, start, end time.Time) (time.Time, time.Time, error) {
	if farmerID == uuid.Nil {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "start and end dates required")
	}
	startDay, endDay := dateOnly(start), dateOnly(end)
	if endDay.Before(startDay) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "end date before start date")
	}
	return startDay, endDay, nil
}

// checkCategory confirms the labour category exists under the same farmer.
func (s *service) checkCategory(ctx context.Context, farmerID, categoryID uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, farmerID, categoryID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown expense category")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load expense category")
	}
	return nil
}
