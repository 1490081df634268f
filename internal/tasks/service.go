package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	"github.com/teafarmpro/teafarm-backend/pkg/enums"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
	"gorm.io/gorm"
)

type employeeDirectory interface {
	FindEmployeeByID(ctx context.Context, farmerID, id uuid.UUID) (*models.Employee, error)
}

type labourCatalog interface {
	FindByID(ctx context.Context, farmerID, id uuid.UUID) (*models.Labour, error)
}

// Service owns the task board. Status moves forward only: pending ->
// in_progress -> completed, never backwards.
type Service interface {
	Assign(ctx context.Context, farmerID uuid.UUID, input AssignInput) (*models.Task, error)
	Get(ctx context.Context, farmerID, taskID uuid.UUID) (*models.Task, error)
	List(ctx context.Context, farmerID uuid.UUID) ([]models.Task, error)
	ListByEmployee(ctx context.Context, farmerID, employeeID uuid.UUID) ([]models.Task, error)
	UpdateStatus(ctx context.Context, farmerID, taskID uuid.UUID, status enums.TaskStatus) (*models.Task, error)
	Update(ctx context.Context, farmerID, taskID uuid.UUID, input UpdateInput) (*models.Task, error)
	Delete(ctx context.Context, farmerID, taskID uuid.UUID) error
}

type service struct {
	repo      Repository
	employees employeeDirectory
	labours   labourCatalog
}

// AssignInput creates a task for an employee against a labour type.
type AssignInput struct {
	LabourID   uuid.UUID
	EmployeeID uuid.UUID
	DueDate    *time.Time
}

// UpdateInput carries partial updates; nil fields are left untouched.
type UpdateInput struct {
	LabourID   *uuid.UUID
	EmployeeID *uuid.UUID
	DueDate    *time.Time
}

// NewService builds the tasks service.
func NewService(repo Repository, employees employeeDirectory, labours labourCatalog) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tasks repository required")
	}
	if employees == nil {
		return nil, fmt.Errorf("employee directory required")
	}
	if labours == nil {
		return nil, fmt.Errorf("labour catalog required")
	}
	return &service{repo: repo, employees: employees, labours: labours}, nil
}

func (s *service) Assign(ctx context.Context, farmerID uuid.UUID, input AssignInput) (*models.Task, error) {
	if err := s.checkLabour(ctx, farmerID, input.LabourID); err != nil {
		return nil, err
	}
	if err := s.checkEmployee(ctx, farmerID, input.EmployeeID); err != nil {
		return nil, err
	}

	task := &models.Task{
		FarmerID:   farmerID,
		LabourID:   input.LabourID,
		EmployeeID: input.EmployeeID,
		DueDate:    input.DueDate,
		Status:     enums.TaskStatusPending,
	}
	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create task")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, farmerID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, farmerID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load task")
	}
	return task, nil
}

func (s *service) List(ctx context.Context, farmerID uuid.UUID) ([]models.Task, error) {
	taskRows, err := s.repo.List(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tasks")
	}
	return taskRows, nil
}

func (s *service) ListByEmployee(ctx context.Context, farmerID, employeeID uuid.UUID) ([]models.Task, error) {
	taskRows, err := s.repo.ListByEmployee(ctx, farmerID, employeeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tasks by employee")
	}
	return taskRows, nil
}

func (s *service) UpdateStatus(ctx context.Context, farmerID, taskID uuid.UUID, status enums.TaskStatus) (*models.Task, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid task status")
	}
	task, err := s.Get(ctx, farmerID, taskID)
	if err != nil {
		return nil, err
	}
	if !task.Status.CanTransitionTo(status) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "task status cannot move backwards").
			WithDetails(map[string]any{"from": task.Status, "to": status})
	}
	if task.Status == status {
		return task, nil
	}
	if err := s.repo.Update(ctx, farmerID, taskID, map[string]any{"status": status}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update task status")
	}
	return s.Get(ctx, farmerID, taskID)
}

func (s *service) Update(ctx context.Context, farmerID, taskID uuid.UUID, input UpdateInput) (*models.Task, error) {
	if _, err := s.Get(ctx, farmerID, taskID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.LabourID != nil {
		if err := s.checkLabour(ctx, farmerID, *input.LabourID); err != nil {
			return nil, err
		}
		updates["labour_id"] = *input.LabourID
	}
	if input.EmployeeID != nil {
		if err := s.checkEmployee(ctx, farmerID, *input.EmployeeID); err != nil {
			return nil, err
		}
		updates["employee_id"] = *input.EmployeeID
	}
	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}
	if len(updates) == 0 {
		return s.Get(ctx, farmerID, taskID)
	}

	if err := s.repo.Update(ctx, farmerID, taskID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update task")
	}
	return s.Get(ctx, farmerID, taskID)
}

func (s *service) Delete(ctx context.Context, farmerID, taskID uuid.UUID) error {
	if err := s.repo.Delete(ctx, farmerID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete task")
	}
	return nil
}

func (s *service) checkLabour(ctx context.Context, farmerID, labourID uuid.UUID) error {
	if _, err := s.labours.FindByID(ctx, farmerID, labourID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown labour type")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load labour type")
	}
	return nil
}

func (s *service) checkEmployee(ctx context.Context, farmerID, employeeID uuid.UUID) error {
	if _, err := s.employees.FindEmployeeByID(ctx, farmerID, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown employee")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load employee")
	}
	return nil
}
