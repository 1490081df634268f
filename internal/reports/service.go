package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
	"gorm.io/gorm"
)

// ProductionReport aggregates production over a date range. Income is
// the sum of weight*rate across records, using the rate each record
// captured at write time.
type ProductionReport struct {
	Start       time.Time       `json:"start"`
	End         time.Time       `json:"end"`
	TotalWeight float64         `json:"totalWeight"`
	TotalIncome decimal.Decimal `json:"totalIncome"`
}

// EmployeeReport is a per-employee slice of the production aggregates.
type EmployeeReport struct {
	EmployeeID   uuid.UUID       `json:"employeeId"`
	EmployeeName string          `json:"employeeName"`
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	TotalWeight  float64         `json:"totalWeight"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
}

// ExpenseReport totals the expense ledger with the line items behind
// the figure.
type ExpenseReport struct {
	Start         time.Time        `json:"start"`
	End           time.Time        `json:"end"`
	TotalExpenses decimal.Decimal  `json:"totalExpenses"`
	Details       []models.Expense `json:"details"`
}

// CombinedReport sets production income against expenses.
type CombinedReport struct {
	Start           time.Time       `json:"start"`
	End             time.Time       `json:"end"`
	TotalProduction float64         `json:"totalProduction"`
	TotalIncome     decimal.Decimal `json:"totalIncome"`
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`
	NetProfit       decimal.Decimal `json:"netProfit"`
}

// Service is the read-only reporting engine. All ranges are inclusive
// on both ends; an empty range yields zero totals, not an error.
type Service interface {
	TotalProduction(ctx context.Context, farmerID uuid.UUID, start, end time.Time) (*ProductionReport, error)
	EmployeePerformance(ctx context.Context, farmerID, employeeID uuid.UUID, start, end time.Time) (*EmployeeReport, error)
	Expenses(ctx context.Context, farmerID uuid.UUID, start, end time.Time) (*ExpenseReport, error)
	Combined(ctx context.Context, farmerID uuid.UUID, start, end time.Time) (*CombinedReport, error)
}

type service struct {
	repo Repository
}

// NewService builds the reports service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) TotalProduction(ctx context.Context, farmerID uuid.UUID, start, end time.Time) (*ProductionReport, error) {
	start, end, err := checkRange(start, end)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ProductionEntries(ctx, farmerID, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load production entries")
	}
	weight, income := sumEntries(entries)
	return &ProductionReport{Start: start, End: end, TotalWeight: weight, TotalIncome: income}, nil
}

func (s *service) EmployeePerformance(ctx context.Context, farmerID, employeeID uuid.UUID, start, end time.Time) (*EmployeeReport, error) {
	start, end, err := checkRange(start, end)
	if err != nil {
		return nil, err
	}
	employee, err := s.repo.FindEmployee(ctx, farmerID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load employee")
	}
	entries, err := s.repo.EmployeeEntries(ctx, farmerID, employeeID, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load employee entries")
	}
	weight, income := sumEntries(entries)
	return &EmployeeReport{
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		Start:        start,
		End:          end,
		TotalWeight:  weight,
		TotalIncome:  income,
	}, nil
}

func (s *service) Expenses(ctx context.Context, farmerID uuid.UUID, start, end time.Time) (*ExpenseReport, error) {
	start, end, err := checkRange(start, end)
	if err != nil {
		return nil, err
	}
	expenseRows, err := s.repo.ExpensesInRange(ctx, farmerID, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load expenses")
	}
	total := decimal.Zero
	for _, expense := range expenseRows {
		total = total.Add(decimal.NewFromFloat(expense.Amount))
	}
	if expenseRows == nil {
		expenseRows = []models.Expense{}
	}
	return &ExpenseReport{Start: start, End: end, TotalExpenses: total, Details: expenseRows}, nil
}

func (s *service) Combined(ctx context.Context, farmerID uuid.UUID, start, end time.Time) (*CombinedReport, error) {
	production, err := s.TotalProduction(ctx, farmerID, start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := s.Expenses(ctx, farmerID, start, end)
	if err != nil {
		return nil, err
	}
	return &CombinedReport{
		Start:           production.Start,
		End:             production.End,
		TotalProduction: production.TotalWeight,
		TotalIncome:     production.TotalIncome,
		TotalExpenses:   expenses.TotalExpenses,
		NetProfit:       production.TotalIncome.Sub(expenses.TotalExpenses),
	}, nil
}

func sumEntries(entries []WeighedEntry) (float64, decimal.Decimal) {
	weight := 0.0
	income := decimal.Zero
	for _, entry := range entries {
		weight += entry.Weight
		income = income.Add(
			decimal.NewFromFloat(entry.Weight).Mul(decimal.NewFromFloat(entry.Rate)),
		)
	}
	return weight, income
}

func checkRange(start, end time.Time) (time.Time, time.Time, error) {
	start, end = dateOnly(start), dateOnly(end)
	if end.Before(start) {
		return start, end, pkgerrors.New(pkgerrors.CodeValidation, "end date before start date")
	}
	return start, end, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
