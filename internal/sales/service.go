package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service owns the factory delivery log. Net weight is derived from the
// weighbridge figures: net = gross - tare, recomputed on every write.
type Service interface {
	Record(ctx context.Context, farmerID uuid.UUID, input RecordInput) (*models.DailySale, error)
	Get(ctx context.Context, farmerID, saleID uuid.UUID) (*models.DailySale, error)
	ListInRange(ctx context.Context, farmerID uuid.UUID, start, end time.Time) ([]models.DailySale, error)
	Update(ctx context.Context, farmerID, saleID uuid.UUID, input UpdateInput) (*models.DailySale, error)
	Delete(ctx context.Context, farmerID, saleID uuid.UUID) error
}

type service struct {
	repo Repository
}

// RecordInput captures one delivery to a factory weighbridge.
type RecordInput struct {
	Factory        *string
	TransactionRef *string
	PluckingDate   time.Time
	GrossWeight    float64
	TareWeight     float64
}

// UpdateInput carries partial updates; nil fields are left untouched.
type UpdateInput struct {
	Factory        *string
	TransactionRef *string
	PluckingDate   *time.Time
	GrossWeight    *float64
	TareWeight     *float64
}

// NewService builds the sales service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, farmerID uuid.UUID, input RecordInput) (*models.DailySale, error) {
	if err := checkWeights(input.GrossWeight, input.TareWeight); err != nil {
		return nil, err
	}

	sale := &models.DailySale{
		FarmerID:       farmerID,
		Factory:        input.Factory,
		TransactionRef: input.TransactionRef,
		PluckingDate:   dateOnly(input.PluckingDate),
		GrossWeight:    input.GrossWeight,
		TareWeight:     input.TareWeight,
		NetWeight:      input.GrossWeight - input.TareWeight,
	}
	created, err := s.repo.Create(ctx, sale)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sale")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, farmerID, saleID uuid.UUID) (*models.DailySale, error) {
	sale, err := s.repo.FindByID(ctx, farmerID, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
	}
	return sale, nil
}

func (s *service) ListInRange(ctx context.Context, farmerID uuid.UUID, start, end time.Time) ([]models.DailySale, error) {
	start, end = dateOnly(start), dateOnly(end)
	if end.Before(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date before start date")
	}
	saleRows, err := s.repo.ListInRange(ctx, farmerID, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}
	return saleRows, nil
}

func (s *service) Update(ctx context.Context, farmerID, saleID uuid.UUID, input UpdateInput) (*models.DailySale, error) {
	sale, err := s.Get(ctx, farmerID, saleID)
	if err != nil {
		return nil, err
	}

	gross, tare := sale.GrossWeight, sale.TareWeight
	if input.GrossWeight != nil {
		gross = *input.GrossWeight
	}
	if input.TareWeight != nil {
		tare = *input.TareWeight
	}
	if err := checkWeights(gross, tare); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Factory != nil {
		updates["factory"] = *input.Factory
	}
	if input.TransactionRef != nil {
		updates["transaction_ref"] = *input.TransactionRef
	}
	if input.PluckingDate != nil {
		updates["plucking_date"] = dateOnly(*input.PluckingDate)
	}
	if input.GrossWeight != nil || input.TareWeight != nil {
		updates["gross_weight"] = gross
		updates["tare_weight"] = tare
		updates["net_weight"] = gross - tare
	}
	if len(updates) == 0 {
		return sale, nil
	}

	if err := s.repo.Update(ctx, farmerID, saleID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update sale")
	}
	return s.Get(ctx, farmerID, saleID)
}

func (s *service) Delete(ctx context.Context, farmerID, saleID uuid.UUID) error {
	if err := s.repo.Delete(ctx, farmerID, saleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete sale")
	}
	return nil
}

func checkWeights(gross, tare float64) error {
	if gross <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "gross weight must be positive")
	}
	if tare < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "tare weight must not be negative")
	}
	if tare > gross {
		return pkgerrors.New(pkgerrors.CodeValidation, "tare weight exceeds gross weight")
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
