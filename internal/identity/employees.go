package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/db"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
	"github.com/teafarmpro/teafarm-backend/pkg/security"
)

func (s *service) RegisterEmployee(ctx context.Context, farmerID uuid.UUID, input RegisterEmployeeInput) (*models.Employee, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" || phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and phone are required")
	}
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password required")
	}
	if input.JobTypeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job type required")
	}

	if err := s.checkJobType(ctx, farmerID, input.JobTypeID); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindEmployeeByPhone(ctx, farmerID, phone); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered for this farm")
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check employee phone")
	}

	// Email backs login, so it is unique across all farms when set.
	var email *string
	if input.Email != nil {
		trimmed := strings.ToLower(strings.TrimSpace(*input.Email))
		if trimmed != "" {
			if _, err := s.repo.FindEmployeeByEmail(ctx, trimmed); err == nil {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			} else if !db.IsNotFound(err) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check employee email")
			}
			email = &trimmed
		}
	}

	hash, err := security.HashPassword(input.Password, s.passwords)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	employee := &models.Employee{
		FarmerID:     farmerID,
		Name:         name,
		Phone:        phone,
		Email:        email,
		PasswordHash: hash,
		JobTypeID:    input.JobTypeID,
		IsActive:     true,
	}
	created, err := s.repo.CreateEmployee(ctx, employee)
	if err != nil {
		if db.IsUniqueViolation(err, uniqueEmployeePhone) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered for this farm")
		}
		if db.IsUniqueViolation(err, uniqueEmployeeEmail) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create employee")
	}
	return created, nil
}

func (s *service) GetEmployee(ctx context.Context, farmerID, employeeID uuid.UUID) (*models.Employee, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if employeeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee id required")
	}
	employee, err := s.repo.FindEmployeeByID(ctx, farmerID, employeeID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load employee")
	}
	return employee, nil
}

func (s *service) ListEmployees(ctx context.Context, farmerID uuid.UUID) ([]models.Employee, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	employees, err := s.repo.ListEmployees(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list employees")
	}
	return employees, nil
}

func (s *service) UpdateEmployee(ctx context.Context, farmerID, employeeID uuid.UUID, input UpdateEmployeeInput) (*models.Employee, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if employeeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
		}
		updates["name"] = name
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone required")
		}
		updates["phone"] = phone
	}
	if input.Email != nil {
		// An empty email clears the column so the unique index only ever
		// sees real addresses.
		trimmed := strings.ToLower(strings.TrimSpace(*input.Email))
		if trimmed == "" {
			updates["email"] = nil
		} else {
			updates["email"] = trimmed
		}
	}
	if input.JobTypeID != nil {
		if err := s.checkJobType(ctx, farmerID, *input.JobTypeID); err != nil {
			return nil, err
		}
		updates["job_type_id"] = *input.JobTypeID
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.UpdateEmployee(ctx, farmerID, employeeID, updates); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		if db.IsUniqueViolation(err, uniqueEmployeePhone) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered for this farm")
		}
		if db.IsUniqueViolation(err, uniqueEmployeeEmail) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update employee")
	}

	employee, err := s.repo.FindEmployeeByID(ctx, farmerID, employeeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload employee")
	}
	return employee, nil
}

func (s *service) DeleteEmployee(ctx context.Context, farmerID, employeeID uuid.UUID) error {
	if farmerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if employeeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "employee id required")
	}
	if err := s.repo.DeleteEmployee(ctx, farmerID, employeeID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete employee")
	}
	return nil
}

// checkJobType confirms the labour type exists under the same farmer.
func (s *service) checkJobType(ctx context.Context, farmerID, jobTypeID uuid.UUID) error {
	if _, err := s.jobTypes.FindByID(ctx, farmerID, jobTypeID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown job type")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load job type")
	}
	return nil
}
