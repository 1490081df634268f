package production

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProductionTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

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
	summaries := `
CREATE TABLE IF NOT EXISTS daily_production_summaries (
  id TEXT PRIMARY KEY,
  farmer_id TEXT NOT NULL,
  date DATE NOT NULL,
  total_weight REAL NOT NULL DEFAULT 0,
  total_amount REAL NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT idx_daily_summaries_farmer_date UNIQUE (farmer_id, date)
);`
	for _, ddl := range []string{employees, labours, records, summaries} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type directoryStub struct {
	db *gorm.DB
}

func (d directoryStub) FindEmployeeByID(ctx context.Context, farmerID, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	err := d.db.WithContext(ctx).
		Where("farmer_id = ? AND id = ?", farmerID, id).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

type catalogStub struct {
	db *gorm.DB
}

func (c catalogStub) FindByID(ctx context.Context, farmerID, id uuid.UUID) (*models.Labour, error) {
	var labour models.Labour
	err := c.db.WithContext(ctx).
		Where("farmer_id = ? AND id = ?", farmerID, id).
		First(&labour).Error
	if err != nil {
		return nil, err
	}
	return &labour, nil
}

type fixture struct {
	svc      Service
	repo     Repository
	db       *gorm.DB
	farmerID uuid.UUID
	labour   *models.Labour
	employee *models.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupProductionTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, gormTxRunner{db: db}, directoryStub{db: db}, catalogStub{db: db})
	require.NoError(t, err)

	farmerID := uuid.New()
	labour := &models.Labour{FarmerID: farmerID, Type: "Plucking", Rate: 10}
	require.NoError(t, db.Create(labour).Error)
	employee := &models.Employee{
		FarmerID:     farmerID,
		Name:         "Worker One",
		Phone:        "0700000100",
		PasswordHash: "x",
		JobTypeID:    labour.ID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(employee).Error)

	return &fixture{svc: svc, repo: repo, db: db, farmerID: farmerID, labour: labour, employee: employee}
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRecordCapturesRateByValue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.svc.Record(ctx, f.farmerID, RecordInput{
		EmployeeID: f.employee.ID,
		Date:       day("2026-03-02"),
		Weight:     100,
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, record.Rate)
	assert.Equal(t, 1000.0, record.AmountPaid())

	// Editing the labour rate afterwards must not drift the stored copy.
	require.NoError(t, f.db.Model(&models.Labour{}).
		Where("id = ?", f.labour.ID).
		Update("rate", 99).Error)

	reloaded, err := f.svc.Get(ctx, f.farmerID, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, reloaded.Rate)
	assert.Equal(t, 1000.0, reloaded.AmountPaid())

	// New records pick up the new default.
	next, err := f.svc.Record(ctx, f.farmerID, RecordInput{
		EmployeeID: f.employee.ID,
		Date:       day("2026-03-03"),
		Weight:     50,
	})
	require.NoError(t, err)
	assert.Equal(t, 99.0, next.Rate)
}

func TestRecordExplicitRateWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rate := 14.5
	record, err := f.svc.Record(ctx, f.farmerID, RecordInput{
		EmployeeID: f.employee.ID,
		Date:       day("2026-03-02"),
		Weight:     20,
		Rate:       &rate,
	})
	require.NoError(t, err)
	assert.Equal(t, 14.5, record.Rate)
	assert.Equal(t, 290.0, record.AmountPaid())
}

func TestRecordValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Record(ctx, f.farmerID, RecordInput{
		EmployeeID: f.employee.ID,
		Date:       day("2026-03-02"),
		Weight:     0,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	// Employee from another farmer is unknown here.
	_, err = f.svc.Record(ctx, uuid.New(), RecordInput{
		EmployeeID: f.employee.ID,
		Date:       day("2026-03-02"),
		Weight:     10,
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDailySummaryTracksWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := day("2026-03-02")

	first, err := f.svc.Record(ctx, f.farmerID, RecordInput{
		EmployeeID: f.employee.ID,
		Date:       date,
		Weight:     100,
	})
	require.NoError(t, err)
	_, err = f.svc.Record(ctx, f.farmerID, RecordInput{
		EmployeeID: f.employee.ID,
		Date:       date,
		Weight:     200,
	})
	require.NoError(t, err)

	summary, err := f.repo.FindDailySummary(ctx, f.farmerID, date)
	require.NoError(t, err)
	assert.Equal(t, 300.0, summary.TotalWeight)
	assert.Equal(t, 3000.0, summary.TotalAmount)

	weight := 150.0
	_, err = f.svc.Update(ctx, f.farmerID, first.ID, UpdateInput{Weight: &weight})
	require.NoError(t, err)

	summary, err = f.repo.FindDailySummary(ctx, f.farmerID, date)
	require.NoError(t, err)
	assert.Equal(t, 350.0, summary.TotalWeight)
	assert.Equal(t, 3500.0, summary.TotalAmount)

	require.NoError(t, f.svc.Delete(ctx, f.farmerID, first.ID))
	summary, err = f.repo.FindDailySummary(ctx, f.farmerID, date)
	require.NoError(t, err)
	assert.Equal(t, 200.0, summary.TotalWeight)
	assert.Equal(t, 2000.0, summary.TotalAmount)
}

func TestUpdateMovingDateRecomputesBothDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dayOne := day("2026-03-02")
	dayTwo := day("2026-03-05")

	record, err := f.svc.Record(ctx, f.farmerID, RecordInput{
		EmployeeID: f.employee.ID,
		Date:       dayOne,
		Weight:     100,
	})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.farmerID, record.ID, UpdateInput{Date: &dayTwo})
	require.NoError(t, err)

	oldSummary, err := f.repo.FindDailySummary(ctx, f.farmerID, dayOne)
	require.NoError(t, err)
	assert.Equal(t, 0.0, oldSummary.TotalWeight)

	newSummary, err := f.repo.FindDailySummary(ctx, f.farmerID, dayTwo)
	require.NoError(t, err)
	assert.Equal(t, 100.0, newSummary.TotalWeight)
	assert.Equal(t, 1000.0, newSummary.TotalAmount)
}

func TestTotalWeightInclusiveRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, rec := range []struct {
		date   string
		weight float64
	}{
		{"2026-03-01", 10},
		{"2026-03-02", 20},
		{"2026-03-10", 40},
		{"2026-03-11", 80},
	} {
		_, err := f.svc.Record(ctx, f.farmerID, RecordInput{
			EmployeeID: f.employee.ID,
			Date:       day(rec.date),
			Weight:     rec.weight,
		})
		require.NoError(t, err)
	}

	total, err := f.svc.TotalWeight(ctx, f.farmerID, day("2026-03-02"), day("2026-03-10"))
	require.NoError(t, err)
	assert.Equal(t, 60.0, total)

	// Empty range sums to zero.
	total, err = f.svc.TotalWeight(ctx, f.farmerID, day("2026-04-01"), day("2026-04-30"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)

	_, err = f.svc.TotalWeight(ctx, f.farmerID, day("2026-03-10"), day("2026-03-02"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestProductionTenancy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.svc.Record(ctx, f.farmerID, RecordInput{
		EmployeeID: f.employee.ID,
		Date:       day("2026-03-02"),
		Weight:     100,
	})
	require.NoError(t, err)

	other := uuid.New()
	_, err = f.svc.Get(ctx, other, record.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	err = f.svc.Delete(ctx, other, record.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
