package fulfillment_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsvc "github.com/backoffice/backend/internal/application/fulfillment"
	"github.com/backoffice/backend/internal/domain/fulfillment"
	"github.com/backoffice/backend/internal/domain/inventory"
)

func TestChallanServiceCreateBuildsInTransit(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFulfillFixture(t, tenantID)
	item := f.seedItem(t, tenantID, "WID-001", 100, 25)
	order := f.seedConfirmedOrder(t, tenantID, item, 10)

	resp, err := f.challanSvc.Create(ctx, tenantID, appsvc.CreateChallanRequest{
		SalesOrderID: order.ID,
		Lines: []appsvc.ChallanLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(10),
		}},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.ChallanNumber, "DC-")

	// shipping fills in-transit, physical stock is untouched
	item, err = f.repos.StockItemRepo.FindByIDForTenant(ctx, tenantID, item.ID)
	require.NoError(t, err)
	assert.True(t, item.StockQty.Equal(decimal.NewFromInt(100)))
	assert.True(t, item.InTransitStock.Equal(decimal.NewFromInt(10)))

	// paired ledger rows
	require.Len(t, f.repos.MovementRepo.OfType(inventory.MovementInTransit), 1)
	require.Len(t, f.repos.MovementRepo.OfType(inventory.MovementDeliver), 1)

	so, err := f.repos.SORepo.FindByIDForTenant(ctx, tenantID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.SOStatusDelivered, so.Status)
}

func TestChallanServiceCreateValidatesQuantities(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFulfillFixture(t, tenantID)
	item := f.seedItem(t, tenantID, "WID-001", 100, 25)
	order := f.seedConfirmedOrder(t, tenantID, item, 10)

	_, err := f.challanSvc.Create(ctx, tenantID, appsvc.CreateChallanRequest{
		SalesOrderID: order.ID,
		Lines: []appsvc.ChallanLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(12),
		}},
	})
	assert.Error(t, err, "shipping beyond the ordered quantity must fail")

	scarce := f.seedItem(t, tenantID, "SCARCE-01", 3, 25)
	scarceOrder, err := f.soSvc.Create(ctx, tenantID, appsvc.CreateSalesOrderRequest{
		CustomerID: f.customer.ID,
		Lines: []appsvc.SalesOrderLineRequest{{
			ItemID:   scarce.ID,
			Quantity: decimal.NewFromInt(3),
		}},
	})
	require.NoError(t, err)
	_, err = f.soSvc.Confirm(ctx, tenantID, scarceOrder.ID)
	require.NoError(t, err)

	// drain physical stock out from under the order
	scarce, err = f.repos.StockItemRepo.FindByIDForTenant(ctx, tenantID, scarce.ID)
	require.NoError(t, err)
	scarce.StockQty = decimal.NewFromInt(1)
	require.NoError(t, f.repos.StockItemRepo.Save(ctx, scarce))

	_, err = f.challanSvc.Create(ctx, tenantID, appsvc.CreateChallanRequest{
		SalesOrderID: scarceOrder.ID,
		Lines: []appsvc.ChallanLineRequest{{
			ItemID:   scarce.ID,
			Quantity: decimal.NewFromInt(3),
		}},
	})
	assert.Error(t, err, "shipping beyond physical stock must fail")
}

func TestChallanServiceDeleteUnwindsDelivery(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFulfillFixture(t, tenantID)
	item := f.seedItem(t, tenantID, "WID-001", 100, 25)
	order := f.seedConfirmedOrder(t, tenantID, item, 10)

	resp, err := f.challanSvc.Create(ctx, tenantID, appsvc.CreateChallanRequest{
		SalesOrderID: order.ID,
		Lines: []appsvc.ChallanLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(6),
		}},
	})
	require.NoError(t, err)

	require.NoError(t, f.challanSvc.Delete(ctx, tenantID, resp.ID))

	item, err = f.repos.StockItemRepo.FindByIDForTenant(ctx, tenantID, item.ID)
	require.NoError(t, err)
	assert.True(t, item.InTransitStock.IsZero())
	// the order confirmation hold survives challan deletion
	assert.True(t, item.ReservedStock.Equal(decimal.NewFromInt(10)))

	so, err := f.repos.SORepo.FindByIDForTenant(ctx, tenantID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.SOStatusConfirmed, so.Status)
	assert.True(t, so.Items[0].DeliveredQty.IsZero())
}

func TestChallanServiceDeleteConvertedFails(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFulfillFixture(t, tenantID)
	item := f.seedItem(t, tenantID, "WID-001", 100, 25)
	order := f.seedConfirmedOrder(t, tenantID, item, 10)

	resp, err := f.challanSvc.Create(ctx, tenantID, appsvc.CreateChallanRequest{
		SalesOrderID: order.ID,
		Lines: []appsvc.ChallanLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(10),
		}},
	})
	require.NoError(t, err)
	_, err = f.invoiceSvc.ConvertChallan(ctx, tenantID, resp.ID)
	require.NoError(t, err)

	err = f.challanSvc.Delete(ctx, tenantID, resp.ID)
	assert.Error(t, err, "converted challans are immutable")
}
