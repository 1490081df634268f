package labours

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/db"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
	"gorm.io/gorm"
)

const uniqueFarmerType = "idx_labours_farmer_type"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the labour type catalog for one farmer.
type Service interface {
	CreateType(ctx context.Context, farmerID uuid.UUID, input CreateTypeInput) (*models.Labour, error)
	GetType(ctx context.Context, farmerID, labourID uuid.UUID) (*models.Labour, error)
	ListTypes(ctx context.Context, farmerID uuid.UUID) ([]models.Labour, error)
	UpdateType(ctx context.Context, farmerID, labourID uuid.UUID, input UpdateTypeInput) (*models.Labour, error)
	DeleteType(ctx context.Context, farmerID, labourID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// CreateTypeInput holds the fields accepted when defining a labour type.
type CreateTypeInput struct {
	Type        string
	Description *string
	Rate        float64
}

// UpdateTypeInput carries partial updates; nil fields are left untouched.
type UpdateTypeInput struct {
	Type        *string
	Description *string
	Rate        *float64
}

// NewService builds a labour catalog service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("labours repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateType(ctx context.Context, farmerID uuid.UUID, input CreateTypeInput) (*models.Labour, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	name := strings.TrimSpace(input.Type)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "labour type name required")
	}
	if input.Rate < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate must not be negative")
	}

	// Pre-check gives the friendly error; the unique index is the backstop.
	if _, err := s.repo.FindByType(ctx, farmerID, name); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "labour type already exists")
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check labour type")
	}

	labour := &models.Labour{
		FarmerID:    farmerID,
		Type:        name,
		Description: input.Description,
		Rate:        input.Rate,
	}
	created, err := s.repo.Create(ctx, labour)
	if err != nil {
		if db.IsUniqueViolation(err, uniqueFarmerType) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "labour type already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create labour type")
	}
	return created, nil
}

func (s *service) GetType(ctx context.Context, farmerID, labourID uuid.UUID) (*models.Labour, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if labourID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "labour id required")
	}
	labour, err := s.repo.FindByID(ctx, farmerID, labourID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "labour type not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load labour type")
	}
	return labour, nil
}

func (s *service) ListTypes(ctx context.Context, farmerID uuid.UUID) ([]models.Labour, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	labourTypes, err := s.repo.List(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list labour types")
	}
	return labourTypes, nil
}

func (s *service) UpdateType(ctx context.Context, farmerID, labourID uuid.UUID, input UpdateTypeInput) (*models.Labour, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if labourID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "labour id required")
	}

	updates := map[string]any{}
	if input.Type != nil {
		name := strings.TrimSpace(*input.Type)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "labour type name required")
		}
		updates["type"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
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

	if err := s.repo.Update(ctx, farmerID, labourID, updates); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "labour type not found")
		}
		if db.IsUniqueViolation(err, uniqueFarmerType) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "labour type already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update labour type")
	}

	labour, err := s.repo.FindByID(ctx, farmerID, labourID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload labour type")
	}
	return labour, nil
}

// DeleteType rejects the delete while the type is still referenced by
// employees, expenses, or tasks, so historical data keeps its category.
func (s *service) DeleteType(ctx context.Context, farmerID, labourID uuid.UUID) error {
	if farmerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if labourID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "labour id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindByID(ctx, farmerID, labourID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "labour type not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load labour type")
		}

		checks := []struct {
			count func(context.Context, uuid.UUID, uuid.UUID) (int64, error)
			what  string
		}{
			{repo.CountEmployeesByJobType, "employees"},
			{repo.CountExpensesByCategory, "expenses"},
			{repo.CountTasksByLabour, "tasks"},
		}
		for _, check := range checks {
			count, err := check.count(ctx, farmerID, labourID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count labour references")
			}
			if count > 0 {
				return pkgerrors.New(pkgerrors.CodeConflict, "labour type in use").
					WithDetails(map[string]any{"referenced_by": check.what})
			}
		}

		if err := repo.Delete(ctx, farmerID, labourID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "labour type not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete labour type")
		}
		return nil
	})
}
