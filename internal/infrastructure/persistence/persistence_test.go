package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	appinventory "github.com/backoffice/backend/internal/application/inventory"
	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/procurement"
	"github.com/backoffice/backend/internal/domain/shared"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := NewSQLiteDatabase()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, AutoMigrate(database.DB))
	return database.DB
}

func newTestItem(t *testing.T, tenantID uuid.UUID, sku string, qty int64) *inventory.StockItem {
	t.Helper()
	item, err := inventory.NewStockItem(tenantID, sku, "Widget "+sku)
	require.NoError(t, err)
	item.StockQty = decimal.NewFromInt(qty)
	return item
}

func TestStockItemRepositoryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStockItemRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	item := newTestItem(t, tenantID, "WID-001", 40)
	item.ReorderLevel = decimal.NewFromInt(50)
	require.NoError(t, repo.Save(ctx, item))

	found, err := repo.FindBySKU(ctx, tenantID, "wid-001")
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
	assert.True(t, found.StockQty.Equal(decimal.NewFromInt(40)))

	_, err = repo.FindByIDForTenant(ctx, uuid.New(), item.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	low, err := repo.FindBelowReorderLevel(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "WID-001", low[0].SKU)
}

func TestSaveWithLockRejectsStaleVersion(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStockItemRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	item := newTestItem(t, tenantID, "WID-002", 100)
	require.NoError(t, repo.Save(ctx, item))

	first, err := repo.FindByIDForTenant(ctx, tenantID, item.ID)
	require.NoError(t, err)
	second, err := repo.FindByIDForTenant(ctx, tenantID, item.ID)
	require.NoError(t, err)

	source := inventory.MovementSource{Type: inventory.SourceManual, ID: uuid.New()}
	_, err = first.Reserve(decimal.NewFromInt(10), source)
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithLock(ctx, first))

	// the winning copy stays current and can keep writing
	_, err = first.Release(decimal.NewFromInt(5), source)
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithLock(ctx, first))

	_, err = second.Reserve(decimal.NewFromInt(5), source)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.SaveWithLock(ctx, second), shared.ErrConcurrencyConflict)

	stored, err := repo.FindByIDForTenant(ctx, tenantID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.GetVersion())
	assert.True(t, stored.ReservedStock.Equal(decimal.NewFromInt(5)))
}

func TestStockMovementRepositoryLedger(t *testing.T) {
	db := newTestDB(t)
	itemRepo := NewGormStockItemRepository(db)
	movementRepo := NewGormStockMovementRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	item := newTestItem(t, tenantID, "WID-003", 100)
	require.NoError(t, itemRepo.Save(ctx, item))

	sourceID := uuid.New()
	source := inventory.MovementSource{Type: inventory.SourceSalesOrder, ID: sourceID}
	reserve, err := item.Reserve(decimal.NewFromInt(30), source)
	require.NoError(t, err)
	release, err := item.Release(decimal.NewFromInt(10), source)
	require.NoError(t, err)
	require.NoError(t, movementRepo.Append(ctx, reserve, release))

	byItem, err := movementRepo.FindByItem(ctx, tenantID, item.ID, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, byItem, 2)
	assert.Equal(t, inventory.MovementRelease, byItem[0].MovementType)

	bySource, err := movementRepo.FindBySource(ctx, tenantID, sourceID)
	require.NoError(t, err)
	require.Len(t, bySource, 2)
	assert.Equal(t, inventory.MovementReserve, bySource[0].MovementType)
	assert.True(t, bySource[0].NewReserved.Equal(decimal.NewFromInt(30)))

	count, err := movementRepo.CountByType(ctx, tenantID, inventory.MovementReserve)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPurchaseOrderRepositoryPreloadsItems(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	po, err := procurement.NewPurchaseOrder(tenantID, "PO-2026-00001", uuid.New())
	require.NoError(t, err)
	require.NoError(t, po.AddItem(uuid.New(), "WID-004", decimal.NewFromInt(10),
		decimal.NewFromInt(25), decimal.Zero, decimal.Zero))
	require.NoError(t, repo.Save(ctx, po))

	found, err := repo.FindByOrderNumber(ctx, tenantID, "PO-2026-00001")
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "WID-004", found.Items[0].SKU)
	assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(250)))
}

func TestDocumentNumberGeneratorCounts(t *testing.T) {
	db := newTestDB(t)
	gen := NewGormDocumentNumberGenerator(db)
	ctx := context.Background()
	tenantID := uuid.New()

	first, err := gen.Next(ctx, tenantID, "PO")
	require.NoError(t, err)
	second, err := gen.Next(ctx, tenantID, "PO")
	require.NoError(t, err)
	assert.Equal(t, shared.FormatDocumentNumber("PO", 1), first)
	assert.Equal(t, shared.FormatDocumentNumber("PO", 2), second)

	otherDoc, err := gen.Next(ctx, tenantID, "GRN")
	require.NoError(t, err)
	assert.Equal(t, shared.FormatDocumentNumber("GRN", 1), otherDoc)

	otherTenant, err := gen.Next(ctx, uuid.New(), "PO")
	require.NoError(t, err)
	assert.Equal(t, shared.FormatDocumentNumber("PO", 1), otherTenant)
}

func TestDocumentNumberGeneratorConcurrentFirstIssuance(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	gen := NewGormDocumentNumberGenerator(db)
	tenantID := uuid.New()

	// all callers race for the very first number of the counter
	const callers = 8
	numbers := make(chan string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := gen.Next(context.Background(), tenantID, "PO")
			assert.NoError(t, err)
			numbers <- number
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool, callers)
	for number := range numbers {
		assert.False(t, seen[number], "number %s drawn twice", number)
		seen[number] = true
	}
	assert.Len(t, seen, callers)
}

func TestTransactionScopeRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	tenantID := uuid.New()

	item := newTestItem(t, tenantID, "WID-005", 10)
	wantErr := errors.New("boom")
	err := scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		if err := repos.StockItems().Save(ctx, item); err != nil {
			return err
		}
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	_, err = NewGormStockItemRepository(db).FindBySKU(ctx, tenantID, "WID-005")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		return repos.StockItems().Save(ctx, item)
	})
	require.NoError(t, err)

	saved, err := NewGormStockItemRepository(db).FindBySKU(ctx, tenantID, "WID-005")
	require.NoError(t, err)
	assert.True(t, saved.StockQty.Equal(decimal.NewFromInt(10)))
}
