package fulfillment_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/application/apptest"
	appsvc "github.com/backoffice/backend/internal/application/fulfillment"
	"github.com/backoffice/backend/internal/domain/fulfillment"
	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/partner"
)

type fulfillFixture struct {
	repos      *apptest.Repos
	pub        *apptest.CapturingPublisher
	soSvc      *appsvc.SalesOrderService
	challanSvc *appsvc.ChallanService
	invoiceSvc *appsvc.InvoiceService
	customer   *partner.Customer
}

func newFulfillFixture(t *testing.T, tenantID uuid.UUID) *fulfillFixture {
	t.Helper()
	repos := apptest.NewRepos()
	pub := &apptest.CapturingPublisher{}
	numberGen := apptest.NewSequenceGenerator()
	customer, err := partner.NewCustomer(tenantID, "CUST-01", "Corner Shop")
	require.NoError(t, err)
	require.NoError(t, repos.CustomerRepo.Save(context.Background(), customer))
	return &fulfillFixture{
		repos: repos,
		pub:   pub,
		soSvc: appsvc.NewSalesOrderService(
			repos.Scope(), repos.SORepo, repos.StockItemRepo, numberGen, pub, zap.NewNop()),
		challanSvc: appsvc.NewChallanService(
			repos.Scope(), repos.ChallanRepo, repos.SORepo, numberGen, pub, zap.NewNop()),
		invoiceSvc: appsvc.NewInvoiceService(
			repos.Scope(), repos.InvoiceRepo, repos.ChallanRepo, numberGen, pub, zap.NewNop()),
		customer: customer,
	}
}

func (f *fulfillFixture) seedItem(t *testing.T, tenantID uuid.UUID, sku string, stock, price int64) *inventory.StockItem {
	t.Helper()
	item, err := inventory.NewStockItem(tenantID, sku, "Item "+sku)
	require.NoError(t, err)
	item.StockQty = decimal.NewFromInt(stock)
	item.SellingPrice = decimal.NewFromInt(price)
	require.NoError(t, f.repos.StockItemRepo.Save(context.Background(), item))
	return item
}

// seedConfirmedOrder creates and confirms an order for a single line
func (f *fulfillFixture) seedConfirmedOrder(t *testing.T, tenantID uuid.UUID, item *inventory.StockItem, qty int64) *appsvc.SalesOrderResponse {
	t.Helper()
	ctx := context.Background()
	resp, err := f.soSvc.Create(ctx, tenantID, appsvc.CreateSalesOrderRequest{
		CustomerID: f.customer.ID,
		Lines: []appsvc.SalesOrderLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(qty),
		}},
	})
	require.NoError(t, err)
	confirmed, err := f.soSvc.Confirm(ctx, tenantID, resp.ID)
	require.NoError(t, err)
	return confirmed
}

func TestSalesOrderServiceCreateLocksSellingPrice(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFulfillFixture(t, tenantID)
	item := f.seedItem(t, tenantID, "WID-001", 100, 25)

	resp, err := f.soSvc.Create(ctx, tenantID, appsvc.CreateSalesOrderRequest{
		CustomerID: f.customer.ID,
		Lines: []appsvc.SalesOrderLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(10),
		}},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.OrderNumber, "SO-")
	require.Len(t, resp.Lines, 1)
	assert.True(t, resp.Lines[0].Rate.Equal(decimal.NewFromInt(25)), "zero rate falls back to selling price")
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(250)))
}

func TestSalesOrderServiceConfirmReservesStock(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFulfillFixture(t, tenantID)
	item := f.seedItem(t, tenantID, "WID-001", 100, 25)

	order := f.seedConfirmedOrder(t, tenantID, item, 10)
	assert.Equal(t, string(fulfillment.SOStatusConfirmed), order.Status)

	item, err := f.repos.StockItemRepo.FindByIDForTenant(ctx, tenantID, item.ID)
	require.NoError(t, err)
	assert.True(t, item.ReservedStock.Equal(decimal.NewFromInt(10)))
	require.Len(t, f.repos.MovementRepo.OfType(inventory.MovementReserve), 1)
	assert.Len(t, f.pub.OfType(fulfillment.EventTypeSOConfirmed), 1)
}

func TestSalesOrderServiceConfirmFailsBeyondStock(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFulfillFixture(t, tenantID)
	item := f.seedItem(t, tenantID, "WID-001", 5, 25)

	resp, err := f.soSvc.Create(ctx, tenantID, appsvc.CreateSalesOrderRequest{
		CustomerID: f.customer.ID,
		Lines: []appsvc.SalesOrderLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(50),
		}},
	})
	require.NoError(t, err)
	_, err = f.soSvc.Confirm(ctx, tenantID, resp.ID)
	assert.Error(t, err, "hold beyond on-hand stock breaks the ledger invariant")
}

func TestSalesOrderServiceCancelReleasesReservation(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFulfillFixture(t, tenantID)
	item := f.seedItem(t, tenantID, "WID-001", 100, 25)
	order := f.seedConfirmedOrder(t, tenantID, item, 10)

	require.NoError(t, f.soSvc.Cancel(ctx, tenantID, order.ID, "customer withdrew"))

	item, err := f.repos.StockItemRepo.FindByIDForTenant(ctx, tenantID, item.ID)
	require.NoError(t, err)
	assert.True(t, item.ReservedStock.IsZero())
	require.Len(t, f.repos.MovementRepo.OfType(inventory.MovementRelease), 1)
}

func TestSalesOrderServiceCancelAfterDeliveryFails(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFulfillFixture(t, tenantID)
	item := f.seedItem(t, tenantID, "WID-001", 100, 25)
	order := f.seedConfirmedOrder(t, tenantID, item, 10)

	_, err := f.challanSvc.Create(ctx, tenantID, appsvc.CreateChallanRequest{
		SalesOrderID: order.ID,
		Lines: []appsvc.ChallanLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(4),
		}},
	})
	require.NoError(t, err)

	err = f.soSvc.Cancel(ctx, tenantID, order.ID, "too late")
	assert.Error(t, err)
}
