package expenses

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

func setupExpensesTestDB(t *testing.T) *gorm.DB {
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
	expenseTable := `
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
	for _, ddl := range []string{labours, expenseTable} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
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

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func newExpensesFixture(t *testing.T) (Service, *gorm.DB, uuid.UUID, *models.Labour) {
	t.Helper()
	db := setupExpensesTestDB(t)
	svc, err := NewService(NewRepository(db), catalogStub{db: db})
	require.NoError(t, err)

	farmerID := uuid.New()
	labour := &models.Labour{FarmerID: farmerID, Type: "Fertilizer", Rate: 0}
	require.NoError(t, db.Create(labour).Error)
	return svc, db, farmerID, labour
}

func TestLogAndReadBack(t *testing.T) {
	svc, _, farmerID, labour := newExpensesFixture(t)
	ctx := context.Background()

	desc := "NPK bags"
	created, err := svc.Log(ctx, farmerID, LogInput{
		CategoryID:  labour.ID,
		Description: &desc,
		Amount:      500,
		Date:        day("2026-03-02"),
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, farmerID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, got.Amount)
	require.NotNil(t, got.Description)
	assert.Equal(t, "NPK bags", *got.Description)
}

func TestLogValidation(t *testing.T) {
	svc, _, farmerID, labour := newExpensesFixture(t)
	ctx := context.Background()

	_, err := svc.Log(ctx, farmerID, LogInput{CategoryID: labour.ID, Amount: 0, Date: day("2026-03-02")})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.Log(ctx, farmerID, LogInput{CategoryID: labour.ID, Amount: -5, Date: day("2026-03-02")})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	// Another farmer's category is unknown in this tenant.
	_, err = svc.Log(ctx, uuid.New(), LogInput{CategoryID: labour.ID, Amount: 10, Date: day("2026-03-02")})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestRangeQueriesInclusive(t *testing.T) {
	svc, _, farmerID, labour := newExpensesFixture(t)
	ctx := context.Background()

	for _, e := range []struct {
		date   string
		amount float64
	}{
		{"2026-03-01", 100},
		{"2026-03-02", 200},
		{"2026-03-10", 400},
		{"2026-03-11", 800},
	} {
		_, err := svc.Log(ctx, farmerID, LogInput{
			CategoryID: labour.ID,
			Amount:     e.amount,
			Date:       day(e.date),
		})
		require.NoError(t, err)
	}

	total, err := svc.TotalInRange(ctx, farmerID, day("2026-03-02"), day("2026-03-10"))
	require.NoError(t, err)
	assert.Equal(t, 600.0, total)

	list, err := svc.ListInRange(ctx, farmerID, day("2026-03-02"), day("2026-03-10"))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// Empty range totals zero.
	total, err = svc.TotalInRange(ctx, farmerID, day("2026-05-01"), day("2026-05-31"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestDeleteThenReadNotFound(t *testing.T) {
	svc, _, farmerID, labour := newExpensesFixture(t)
	ctx := context.Background()

	created, err := svc.Log(ctx, farmerID, LogInput{
		CategoryID: labour.ID,
		Amount:     50,
		Date:       day("2026-03-02"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, farmerID, created.ID))

	_, err = svc.Get(ctx, farmerID, created.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestExpenseTenancy(t *testing.T) {
	svc, db, farmerID, labour := newExpensesFixture(t)
	ctx := context.Background()

	created, err := svc.Log(ctx, farmerID, LogInput{
		CategoryID: labour.ID,
		Amount:     50,
		Date:       day("2026-03-02"),
	})
	require.NoError(t, err)

	otherFarmer := uuid.New()
	otherLabour := &models.Labour{FarmerID: otherFarmer, Type: "Fuel", Rate: 0}
	require.NoError(t, db.Create(otherLabour).Error)

	_, err = svc.Get(ctx, otherFarmer, created.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	amount := 999.0
	_, err = svc.Update(ctx, otherFarmer, created.ID, UpdateInput{Amount: &amount})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	// The row is untouched.
	got, err := svc.Get(ctx, farmerID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.Amount)
}
