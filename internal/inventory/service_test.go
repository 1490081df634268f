package inventory

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgerrors "github.com/teafarmpro/teafarm-backend/pkg/errors"
	"github.com/teafarmpro/teafarm-backend/pkg/pagination"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
CREATE TABLE IF NOT EXISTS inventory_items (
  id TEXT PRIMARY KEY,
  farmer_id TEXT NOT NULL,
  item_name TEXT NOT NULL,
  quantity REAL NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT idx_inventories_farmer_item UNIQUE (farmer_id, item_name)
);`).Error)
	return db
}

func newInventoryService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestAddItemAndDuplicate(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc := newInventoryService(t, db)
	ctx := context.Background()
	farmerID := uuid.New()

	created, err := svc.AddItem(ctx, farmerID, AddItemInput{ItemName: "Fertilizer", Quantity: 40})
	require.NoError(t, err)
	assert.Equal(t, 40.0, created.Quantity)

	_, err = svc.AddItem(ctx, farmerID, AddItemInput{ItemName: "Fertilizer", Quantity: 5})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// Single row per (farmer, item); other farmers get their own row.
	_, err = svc.AddItem(ctx, uuid.New(), AddItemInput{ItemName: "Fertilizer", Quantity: 5})
	require.NoError(t, err)
}

func TestSetVersusAdjust(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc := newInventoryService(t, db)
	ctx := context.Background()
	farmerID := uuid.New()

	item, err := svc.AddItem(ctx, farmerID, AddItemInput{ItemName: "Tea bags", Quantity: 10})
	require.NoError(t, err)

	set, err := svc.SetQuantity(ctx, farmerID, item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, set.Quantity)

	adjusted, err := svc.AdjustQuantity(ctx, farmerID, item.ID, 4.5)
	require.NoError(t, err)
	assert.Equal(t, 7.5, adjusted.Quantity)

	adjusted, err = svc.AdjustQuantity(ctx, farmerID, item.ID, -2.5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, adjusted.Quantity)
}

func TestAdjustUnderflowLeavesQuantityUnchanged(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc := newInventoryService(t, db)
	ctx := context.Background()
	farmerID := uuid.New()

	item, err := svc.AddItem(ctx, farmerID, AddItemInput{ItemName: "Pesticide", Quantity: 5})
	require.NoError(t, err)

	_, err = svc.AdjustQuantity(ctx, farmerID, item.ID, -6)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	got, err := svc.Get(ctx, farmerID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Quantity)

	// Draining to exactly zero is allowed.
	drained, err := svc.AdjustQuantity(ctx, farmerID, item.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, drained.Quantity)
}

func TestListPagination(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc := newInventoryService(t, db)
	ctx := context.Background()
	farmerID := uuid.New()

	for i := 0; i < 30; i++ {
		_, err := svc.AddItem(ctx, farmerID, AddItemInput{
			ItemName: fmt.Sprintf("item-%02d", i),
			Quantity: float64(i),
		})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, farmerID, pagination.Params{Page: 1, PageSize: 25})
	require.NoError(t, err)
	assert.Len(t, page.Items, 25)
	assert.Equal(t, int64(30), page.TotalItems)
	assert.Equal(t, "item-00", page.Items[0].ItemName)

	page, err = svc.List(ctx, farmerID, pagination.Params{Page: 2, PageSize: 25})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, "item-25", page.Items[0].ItemName)

	// Other farmers see an empty page, not a shared one.
	page, err = svc.List(ctx, uuid.New(), pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(0), page.TotalItems)
}

func TestInventoryTenancy(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc := newInventoryService(t, db)
	ctx := context.Background()
	farmerID := uuid.New()

	item, err := svc.AddItem(ctx, farmerID, AddItemInput{ItemName: "Shears", Quantity: 2})
	require.NoError(t, err)

	other := uuid.New()
	_, err = svc.Get(ctx, other, item.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	_, err = svc.SetQuantity(ctx, other, item.ID, 99)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	err = svc.Delete(ctx, other, item.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
