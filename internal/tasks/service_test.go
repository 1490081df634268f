package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	"github.com/teafarmpro/teafarm-backend/pkg/enums"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTasksTestDB(t *testing.T) *gorm.DB {
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
	taskTable := `
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
	for _, ddl := range []string{labours, employees, taskTable} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
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
	db       *gorm.DB
	farmerID uuid.UUID
	labour   *models.Labour
	employee *models.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTasksTestDB(t)
	svc, err := NewService(NewRepository(db), directoryStub{db: db}, catalogStub{db: db})
	require.NoError(t, err)

	farmerID := uuid.New()
	labour := &models.Labour{FarmerID: farmerID, Type: "Weeding", Rate: 8}
	require.NoError(t, db.Create(labour).Error)
	employee := &models.Employee{
		FarmerID:     farmerID,
		Name:         "Worker One",
		Phone:        "0700000200",
		PasswordHash: "x",
		JobTypeID:    labour.ID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(employee).Error)

	return &fixture{svc: svc, db: db, farmerID: farmerID, labour: labour, employee: employee}
}

func TestAssignTask(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	due := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	task, err := fx.svc.Assign(ctx, fx.farmerID, AssignInput{
		LabourID:   fx.labour.ID,
		EmployeeID: fx.employee.ID,
		DueDate:    &due,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.TaskStatusPending, task.Status)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, due, task.DueDate.UTC())

	loaded, err := fx.svc.Get(ctx, fx.farmerID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, fx.employee.ID, loaded.EmployeeID)
}

func TestAssignRejectsForeignReferences(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	otherFarmer := uuid.New()
	foreignLabour := &models.Labour{FarmerID: otherFarmer, Type: "Pruning", Rate: 12}
	require.NoError(t, fx.db.Create(foreignLabour).Error)
	foreignEmployee := &models.Employee{
		FarmerID:     otherFarmer,
		Name:         "Outsider",
		Phone:        "0700000300",
		PasswordHash: "x",
		JobTypeID:    foreignLabour.ID,
		IsActive:     true,
	}
	require.NoError(t, fx.db.Create(foreignEmployee).Error)

	_, err := fx.svc.Assign(ctx, fx.farmerID, AssignInput{
		LabourID:   foreignLabour.ID,
		EmployeeID: fx.employee.ID,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = fx.svc.Assign(ctx, fx.farmerID, AssignInput{
		LabourID:   fx.labour.ID,
		EmployeeID: foreignEmployee.ID,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestStatusMovesForwardOnly(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	task, err := fx.svc.Assign(ctx, fx.farmerID, AssignInput{
		LabourID:   fx.labour.ID,
		EmployeeID: fx.employee.ID,
	})
	require.NoError(t, err)

	task, err = fx.svc.UpdateStatus(ctx, fx.farmerID, task.ID, enums.TaskStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, enums.TaskStatusInProgress, task.Status)

	// Repeating the current status is a no-op, not an error.
	task, err = fx.svc.UpdateStatus(ctx, fx.farmerID, task.ID, enums.TaskStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, enums.TaskStatusInProgress, task.Status)

	_, err = fx.svc.UpdateStatus(ctx, fx.farmerID, task.ID, enums.TaskStatusPending)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	task, err = fx.svc.UpdateStatus(ctx, fx.farmerID, task.ID, enums.TaskStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, enums.TaskStatusCompleted, task.Status)

	_, err = fx.svc.UpdateStatus(ctx, fx.farmerID, task.ID, enums.TaskStatusInProgress)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = fx.svc.UpdateStatus(ctx, fx.farmerID, task.ID, enums.TaskStatus("archived"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestListByEmployeeScopes(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	second := &models.Employee{
		FarmerID:     fx.farmerID,
		Name:         "Worker Two",
		Phone:        "0700000201",
		PasswordHash: "x",
		JobTypeID:    fx.labour.ID,
		IsActive:     true,
	}
	require.NoError(t, fx.db.Create(second).Error)

	for i := 0; i < 2; i++ {
		_, err := fx.svc.Assign(ctx, fx.farmerID, AssignInput{
			LabourID:   fx.labour.ID,
			EmployeeID: fx.employee.ID,
		})
		require.NoError(t, err)
	}
	_, err := fx.svc.Assign(ctx, fx.farmerID, AssignInput{
		LabourID:   fx.labour.ID,
		EmployeeID: second.ID,
	})
	require.NoError(t, err)

	all, err := fx.svc.List(ctx, fx.farmerID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := fx.svc.ListByEmployee(ctx, fx.farmerID, fx.employee.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := fx.svc.ListByEmployee(ctx, uuid.New(), fx.employee.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTaskTenancy(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	task, err := fx.svc.Assign(ctx, fx.farmerID, AssignInput{
		LabourID:   fx.labour.ID,
		EmployeeID: fx.employee.ID,
	})
	require.NoError(t, err)

	otherFarmer := uuid.New()
	_, err = fx.svc.Get(ctx, otherFarmer, task.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = fx.svc.UpdateStatus(ctx, otherFarmer, task.ID, enums.TaskStatusInProgress)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	err = fx.svc.Delete(ctx, otherFarmer, task.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	// Owner can still delete.
	require.NoError(t, fx.svc.Delete(ctx, fx.farmerID, task.ID))
	_, err = fx.svc.Get(ctx, fx.farmerID, task.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
