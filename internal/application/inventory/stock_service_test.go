package inventory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/application/apptest"
	appsvc "github.com/backoffice/backend/internal/application/inventory"
	"github.com/backoffice/backend/internal/domain/inventory"
)

func newStockService(repos *apptest.Repos, pub *apptest.CapturingPublisher) *appsvc.StockService {
	return appsvc.NewStockService(repos.Scope(), repos.StockItemRepo, repos.MovementRepo, pub, zap.NewNop())
}

func TestStockServiceCreateItem(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repos := apptest.NewRepos()
	svc := newStockService(repos, &apptest.CapturingPublisher{})

	resp, err := svc.CreateItem(ctx, tenantID, appsvc.CreateStockItemRequest{
		SKU:          "WID-001",
		Name:         "Widget",
		SellingPrice: decimal.NewFromInt(25),
		ReorderLevel: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "WID-001", resp.SKU)
	assert.True(t, resp.StockQty.IsZero())

	_, err = svc.CreateItem(ctx, tenantID, appsvc.CreateStockItemRequest{SKU: "WID-001", Name: "Widget"})
	assert.Error(t, err, "duplicate SKU must be rejected")
}

func TestStockServiceAdjustStock(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repos := apptest.NewRepos()
	pub := &apptest.CapturingPublisher{}
	svc := newStockService(repos, pub)

	item, err := inventory.NewStockItem(tenantID, "WID-001", "Widget")
	require.NoError(t, err)
	require.NoError(t, repos.StockItemRepo.Save(ctx, item))

	resp, err := svc.AdjustStock(ctx, tenantID, item.ID, appsvc.AdjustStockRequest{
		NewQuantity: decimal.NewFromInt(50),
		Reason:      "opening stock count",
	}, nil)
	require.NoError(t, err)
	assert.True(t, resp.StockQty.Equal(decimal.NewFromInt(50)))

	entries := repos.MovementRepo.OfType(inventory.MovementAdjustment)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].PreviousStock.IsZero())
	assert.True(t, entries[0].NewStock.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "opening stock count", entries[0].Notes)

	recorded := pub.OfType(inventory.EventTypeStockMovementRecorded)
	assert.Len(t, recorded, 1)
}

func TestStockServiceAdjustStockRequiresReason(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repos := apptest.NewRepos()
	svc := newStockService(repos, &apptest.CapturingPublisher{})

	item, _ := inventory.NewStockItem(tenantID, "WID-001", "Widget")
	require.NoError(t, repos.StockItemRepo.Save(ctx, item))

	_, err := svc.AdjustStock(ctx, tenantID, item.ID, appsvc.AdjustStockRequest{
		NewQuantity: decimal.NewFromInt(5),
	}, nil)
	assert.Error(t, err)
	assert.Empty(t, repos.MovementRepo.Entries, "failed adjustment must not write a ledger entry")
}

func TestStockServiceRecordPOSSale(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repos := apptest.NewRepos()
	pub := &apptest.CapturingPublisher{}
	svc := newStockService(repos, pub)

	item, _ := inventory.NewStockItem(tenantID, "WID-001", "Widget")
	item.StockQty = decimal.NewFromInt(20)
	item.ReorderLevel = decimal.NewFromInt(15)
	require.NoError(t, repos.StockItemRepo.Save(ctx, item))

	resp, err := svc.RecordPOSSale(ctx, tenantID, item.ID, appsvc.POSSaleRequest{
		Quantity: decimal.NewFromInt(8),
		SaleID:   uuid.New(),
	})
	require.NoError(t, err)
	assert.True(t, resp.StockQty.Equal(decimal.NewFromInt(12)))

	require.Len(t, repos.MovementRepo.OfType(inventory.MovementPOSSale), 1)
	assert.Len(t, pub.OfType(inventory.EventTypeLowStockDetected), 1, "sale below reorder level raises low stock")

	_, err = svc.RecordPOSSale(ctx, tenantID, item.ID, appsvc.POSSaleRequest{Quantity: decimal.NewFromInt(100)})
	assert.Error(t, err, "overselling must fail")
}

func TestStockServiceListBelowReorderLevel(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repos := apptest.NewRepos()
	svc := newStockService(repos, &apptest.CapturingPublisher{})

	low, _ := inventory.NewStockItem(tenantID, "LOW-001", "Low item")
	low.StockQty = decimal.NewFromInt(2)
	low.ReorderLevel = decimal.NewFromInt(10)
	require.NoError(t, repos.StockItemRepo.Save(ctx, low))

	ok, _ := inventory.NewStockItem(tenantID, "OK-001", "Healthy item")
	ok.StockQty = decimal.NewFromInt(50)
	ok.ReorderLevel = decimal.NewFromInt(10)
	require.NoError(t, repos.StockItemRepo.Save(ctx, ok))

	items, err := svc.ListBelowReorderLevel(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "LOW-001", items[0].SKU)
}
