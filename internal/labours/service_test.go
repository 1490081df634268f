package labours

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLaboursTestDB(t *testing.T) *gorm.DB {
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
  updated_at DATETIME,
  CONSTRAINT idx_labours_farmer_type UNIQUE (farmer_id, type)
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
	tasks := `
CREATE TABLE IF NOT EXISTS tasks (
  id TEXT PRIMARY KEY,
  farmer_id TEXT NOT NULL,
  labour_id TEXT NOT NULL,
  employee_id TEXT NOT NULL,
  due_date DATE,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, ddl := range []string{labours, employees, expenses, tasks} {
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

func newLaboursService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db})
	require.NoError(t, err)
	return svc
}

func TestCreateTypeAndDuplicate(t *testing.T) {
	db := setupLaboursTestDB(t)
	svc := newLaboursService(t, db)
	ctx := context.Background()
	farmerID := uuid.New()

	created, err := svc.CreateType(ctx, farmerID, CreateTypeInput{Type: "Plucking", Rate: 12.5})
	require.NoError(t, err)
	assert.Equal(t, "Plucking", created.Type)
	assert.Equal(t, 12.5, created.Rate)
	assert.NotEqual(t, uuid.Nil, created.ID)

	_, err = svc.CreateType(ctx, farmerID, CreateTypeInput{Type: "Plucking", Rate: 15})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// Same name under a different farmer is legal.
	_, err = svc.CreateType(ctx, uuid.New(), CreateTypeInput{Type: "Plucking", Rate: 10})
	require.NoError(t, err)
}

func TestCreateTypeValidation(t *testing.T) {
	db := setupLaboursTestDB(t)
	svc := newLaboursService(t, db)
	ctx := context.Background()

	_, err := svc.CreateType(ctx, uuid.New(), CreateTypeInput{Type: "   "})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.CreateType(ctx, uuid.New(), CreateTypeInput{Type: "Weeding", Rate: -1})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateTypeTenancy(t *testing.T) {
	db := setupLaboursTestDB(t)
	svc := newLaboursService(t, db)
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	created, err := svc.CreateType(ctx, owner, CreateTypeInput{Type: "Pruning", Rate: 8})
	require.NoError(t, err)

	newRate := 9.5
	updated, err := svc.UpdateType(ctx, owner, created.ID, UpdateTypeInput{Rate: &newRate})
	require.NoError(t, err)
	assert.Equal(t, 9.5, updated.Rate)

	_, err = svc.UpdateType(ctx, other, created.ID, UpdateTypeInput{Rate: &newRate})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeleteTypeRejectsWhileReferenced(t *testing.T) {
	db := setupLaboursTestDB(t)
	svc := newLaboursService(t, db)
	ctx := context.Background()
	farmerID := uuid.New()

	created, err := svc.CreateType(ctx, farmerID, CreateTypeInput{Type: "Plucking", Rate: 12})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
		INSERT INTO employees (id, farmer_id, name, phone, password_hash, job_type_id, is_active)
		VALUES (?, ?, 'Jane', '0700000001', 'x', ?, 1)`,
		uuid.NewString(), farmerID.String(), created.ID.String()).Error)

	err = svc.DeleteType(ctx, farmerID, created.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// Still present.
	_, err = svc.GetType(ctx, farmerID, created.ID)
	require.NoError(t, err)

	require.NoError(t, db.Exec(`DELETE FROM employees`).Error)
	require.NoError(t, svc.DeleteType(ctx, farmerID, created.ID))

	_, err = svc.GetType(ctx, farmerID, created.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListTypesScopedToFarmer(t *testing.T) {
	db := setupLaboursTestDB(t)
	svc := newLaboursService(t, db)
	ctx := context.Background()
	farmerA := uuid.New()
	farmerB := uuid.New()

	_, err := svc.CreateType(ctx, farmerA, CreateTypeInput{Type: "Plucking", Rate: 12})
	require.NoError(t, err)
	_, err = svc.CreateType(ctx, farmerA, CreateTypeInput{Type: "Weeding", Rate: 6})
	require.NoError(t, err)
	_, err = svc.CreateType(ctx, farmerB, CreateTypeInput{Type: "Spraying", Rate: 7})
	require.NoError(t, err)

	list, err := svc.ListTypes(ctx, farmerA)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Plucking", list[0].Type)
	assert.Equal(t, "Weeding", list[1].Type)
}
