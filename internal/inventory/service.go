package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/db"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
	"github.com/teafarmpro/teafarm-backend/pkg/pagination"
)

const uniqueFarmerItem = "idx_inventories_farmer_item"

// Service owns named stock per farmer. SetQuantity replaces the stored
// value; AdjustQuantity applies a signed delta and refuses to go negative.
type Service interface {
	AddItem(ctx context.Context, farmerID uuid.UUID, input AddItemInput) (*models.InventoryItem, error)
	Get(ctx context.Context, farmerID, itemID uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context, farmerID uuid.UUID, params pagination.Params) (pagination.Page[models.InventoryItem], error)
	SetQuantity(ctx context.Context, farmerID, itemID uuid.UUID, quantity float64) (*models.InventoryItem, error)
	AdjustQuantity(ctx context.Context, farmerID, itemID uuid.UUID, delta float64) (*models.InventoryItem, error)
	Delete(ctx context.Context, farmerID, itemID uuid.UUID) error
}

type service struct {
	repo Repository
}

// AddItemInput holds the fields accepted when stocking a new item.
type AddItemInput struct {
	ItemName string
	Quantity float64
}

// NewService builds the inventory service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) AddItem(ctx context.Context, farmerID uuid.UUID, input AddItemInput) (*models.InventoryItem, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	name := strings.TrimSpace(input.ItemName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}

	if _, err := s.repo.FindByName(ctx, farmerID, name); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "inventory item already exists")
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check inventory item")
	}

	item := &models.InventoryItem{
		FarmerID: farmerID,
		ItemName: name,
		Quantity: input.Quantity,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		if db.IsUniqueViolation(err, uniqueFarmerItem) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "inventory item already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory item")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, farmerID, itemID uuid.UUID) (*models.InventoryItem, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := s.repo.FindByID(ctx, farmerID, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context, farmerID uuid.UUID, params pagination.Params) (pagination.Page[models.InventoryItem], error) {
	if farmerID == uuid.Nil {
		return pagination.Page[models.InventoryItem]{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	items, total, err := s.repo.List(ctx, farmerID, params)
	if err != nil {
		return pagination.Page[models.InventoryItem]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) SetQuantity(ctx context.Context, farmerID, itemID uuid.UUID, quantity float64) (*models.InventoryItem, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}

	if err := s.repo.SetQuantity(ctx, farmerID, itemID, quantity); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set inventory quantity")
	}
	return s.Get(ctx, farmerID, itemID)
}

func (s *service) AdjustQuantity(ctx context.Context, farmerID, itemID uuid.UUID, delta float64) (*models.InventoryItem, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if delta == 0 {
		return s.Get(ctx, farmerID, itemID)
	}

	changed, err := s.repo.AdjustQuantity(ctx, farmerID, itemID, delta)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust inventory quantity")
	}
	if !changed {
		// Either the item does not exist or the delta would underflow;
		// look the row up to tell the two apart.
		item, err := s.repo.FindByID(ctx, farmerID, itemID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient quantity").
			WithDetails(map[string]any{
				"available": item.Quantity,
				"requested": -delta,
			})
	}
	return s.Get(ctx, farmerID, itemID)
}

func (s *service) Delete(ctx context.Context, farmerID, itemID uuid.UUID) error {
	if farmerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer identity missing")
	}
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if err := s.repo.Delete(ctx, farmerID, itemID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory item")
	}
	return nil
}
