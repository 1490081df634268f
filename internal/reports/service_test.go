package reports

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReportsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	labours := `
CREATE TABLE IF NOT EXISTS labours (
  id TEXT PRIMARY KEY,
  farmer_id TEXT NOT NULL,
  type TEXT NOT NULL,
  description TEXT,
  rate REAL NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	employees := `
CREATE TABLE IF NOT EXISTS employees (
  id TEXT PRIMARY KEY,
  farmer_id TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT,
  password_hash TEXT NOT NULL,
  job_type_id TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	records := `
CREATE TABLE IF NOT EXISTS production_records (
  id TEXT PRIMARY KEY,
  farmer_id TEXT NOT NULL,
  employee_id TEXT NOT NULL,
  date DATE NOT NULL,
  weight REAL NOT NULL,
  rate REAL NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	expenses := `
CREATE TABLE IF NOT EXISTS expenses (
  id TEXT PRIMARY KEY,
  farmer_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  description TEXT,
  amount REAL NOT NULL,
  date DATE NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, ddl := range []string{labours, employees, records, expenses} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

type fixture struct {
	svc      Service
	db       *gorm.DB
	farmerID uuid.UUID
	labour   *models.Labour
	employee *models.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	farmerID := uuid.New()
	labour := &models.Labour{FarmerID: farmerID, Type: "Plucking", Rate: 10}
	require.NoError(t, db.Create(labour).Error)
	employee := &models.Employee{
		FarmerID:     farmerID,
		Name:         "John Doe",
		Phone:        "0700000400",
		PasswordHash: "x",
		JobTypeID:    labour.ID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(employee).Error)

	return &fixture{svc: svc, db: db, farmerID: farmerID, labour: labour, employee: employee}
}

func (fx *fixture) addRecord(t *testing.T, date string, weight, rate float64) {
	t.Helper()
	record := &models.ProductionRecord{
		FarmerID:   fx.farmerID,
		EmployeeID: fx.employee.ID,
		Date:       day(date),
		Weight:     weight,
		Rate:       rate,
	}
	require.NoError(t, fx.db.Create(record).Error)
}

func (fx *fixture) addExpense(t *testing.T, date string, amount float64, description string) {
	t.Helper()
	expense := &models.Expense{
		FarmerID:    fx.farmerID,
		CategoryID:  fx.labour.ID,
		Description: &description,
		Amount:      amount,
		Date:        day(date),
	}
	require.NoError(t, fx.db.Create(expense).Error)
}

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestMonthlyLedgerBalances(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	// One month of plucking at rate 10: 300 kg for 3000 income, with
	// 500 of expenses against it.
	fx.addRecord(t, "2025-03-05", 100, 10)
	fx.addRecord(t, "2025-03-12", 120, 10)
	fx.addRecord(t, "2025-03-20", 80, 10)
	fx.addExpense(t, "2025-03-08", 300, "fertilizer")
	fx.addExpense(t, "2025-03-18", 200, "transport")

	production, err := fx.svc.TotalProduction(ctx, fx.farmerID, day("2025-03-01"), day("2025-03-31"))
	require.NoError(t, err)
	assert.Equal(t, 300.0, production.TotalWeight)
	assert.True(t, production.TotalIncome.Equal(decimal.NewFromInt(3000)),
		"income %s", production.TotalIncome)

	combined, err := fx.svc.Combined(ctx, fx.farmerID, day("2025-03-01"), day("2025-03-31"))
	require.NoError(t, err)
	assert.Equal(t, 300.0, combined.TotalProduction)
	assert.True(t, combined.TotalExpenses.Equal(decimal.NewFromInt(500)))
	assert.True(t, combined.NetProfit.Equal(decimal.NewFromInt(2500)),
		"net profit %s", combined.NetProfit)
}

func TestIncomeUsesCapturedRates(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	// Two records at different captured rates; the catalog rate no
	// longer matters for either.
	fx.addRecord(t, "2025-03-05", 50, 10)
	fx.addRecord(t, "2025-03-06", 50, 14)
	require.NoError(t, fx.db.Model(fx.labour).Update("rate", 99).Error)

	production, err := fx.svc.TotalProduction(ctx, fx.farmerID, day("2025-03-01"), day("2025-03-31"))
	require.NoError(t, err)
	assert.Equal(t, 100.0, production.TotalWeight)
	assert.True(t, production.TotalIncome.Equal(decimal.NewFromInt(1200)),
		"income %s", production.TotalIncome)
}

func TestEmptyRangeYieldsZeroTotals(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	combined, err := fx.svc.Combined(ctx, fx.farmerID, day("2025-01-01"), day("2025-01-31"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, combined.TotalProduction)
	assert.True(t, combined.TotalIncome.IsZero())
	assert.True(t, combined.TotalExpenses.IsZero())
	assert.True(t, combined.NetProfit.IsZero())

	expenses, err := fx.svc.Expenses(ctx, fx.farmerID, day("2025-01-01"), day("2025-01-31"))
	require.NoError(t, err)
	assert.True(t, expenses.TotalExpenses.IsZero())
	assert.NotNil(t, expenses.Details)
	assert.Empty(t, expenses.Details)

	_, err = fx.svc.TotalProduction(ctx, fx.farmerID, day("2025-01-31"), day("2025-01-01"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestEmployeePerformance(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	second := &models.Employee{
		FarmerID:     fx.farmerID,
		Name:         "Worker Two",
		Phone:        "0700000401",
		PasswordHash: "x",
		JobTypeID:    fx.labour.ID,
		IsActive:     true,
	}
	require.NoError(t, fx.db.Create(second).Error)

	fx.addRecord(t, "2025-03-05", 100, 10)
	other := &models.ProductionRecord{
		FarmerID:   fx.farmerID,
		EmployeeID: second.ID,
		Date:       day("2025-03-05"),
		Weight:     40,
		Rate:       10,
	}
	require.NoError(t, fx.db.Create(other).Error)

	report, err := fx.svc.EmployeePerformance(ctx, fx.farmerID, fx.employee.ID, day("2025-03-01"), day("2025-03-31"))
	require.NoError(t, err)
	assert.Equal(t, "John Doe", report.EmployeeName)
	assert.Equal(t, 100.0, report.TotalWeight)
	assert.True(t, report.TotalIncome.Equal(decimal.NewFromInt(1000)))

	_, err = fx.svc.EmployeePerformance(ctx, uuid.New(), fx.employee.ID, day("2025-03-01"), day("2025-03-31"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestReportsAreTenantScoped(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.addRecord(t, "2025-03-05", 100, 10)
	fx.addExpense(t, "2025-03-05", 50, "tools")

	combined, err := fx.svc.Combined(ctx, uuid.New(), day("2025-03-01"), day("2025-03-31"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, combined.TotalProduction)
	assert.True(t, combined.TotalExpenses.IsZero())
}

func TestRenderCombinedPDF(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.addRecord(t, "2025-03-05", 100, 10)
	fx.addExpense(t, "2025-03-08", 250, "fertilizer")

	combined, err := fx.svc.Combined(ctx, fx.farmerID, day("2025-03-01"), day("2025-03-31"))
	require.NoError(t, err)

	rendered, err := RenderCombinedPDF(combined)
	require.NoError(t, err)
	require.NotEmpty(t, rendered)
	assert.Equal(t, "%PDF", string(rendered[:4]))
}

func TestRenderExpensesPDFHandlesMultiByteDescriptions(t *testing.T) {
	long := strings.Repeat("चाय", 40)
	report := &ExpenseReport{
		Start:         day("2025-03-01"),
		End:           day("2025-03-31"),
		TotalExpenses: decimal.NewFromInt(250),
		Details: []models.Expense{
			{ID: uuid.New(), Date: day("2025-03-08"), Description: &long, Amount: 250},
		},
	}

	rendered, err := RenderExpensesPDF(report)
	require.NoError(t, err)
	require.NotEmpty(t, rendered)
	assert.Equal(t, "%PDF", string(rendered[:4]))
}

func TestTruncateNeverSplitsRunes(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 60, "short"},
		{strings.Repeat("a", 60), 60, strings.Repeat("a", 60)},
		{strings.Repeat("a", 61), 60, strings.Repeat("a", 57) + "..."},
		{strings.Repeat("é", 61), 60, strings.Repeat("é", 57) + "..."},
	}
	for _, tc := range cases {
		got := truncate(tc.in, tc.max)
		assert.Equal(t, tc.want, got)
		assert.True(t, utf8.ValidString(got))
	}
}
