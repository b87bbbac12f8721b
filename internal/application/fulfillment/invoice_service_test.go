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
	"github.com/backoffice/backend/internal/domain/partner"
)

func TestInvoiceServiceConvertChallan(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFulfillFixture(t, tenantID)
	item := f.seedItem(t, tenantID, "WID-001", 100, 25)
	order := f.seedConfirmedOrder(t, tenantID, item, 10)

	challan, err := f.challanSvc.Create(ctx, tenantID, appsvc.CreateChallanRequest{
		SalesOrderID: order.ID,
		Lines: []appsvc.ChallanLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(10),
		}},
	})
	require.NoError(t, err)

	invoice, err := f.invoiceSvc.ConvertChallan(ctx, tenantID, challan.ID)
	require.NoError(t, err)
	assert.Contains(t, invoice.InvoiceNumber, "INV-")
	assert.True(t, invoice.GrandTotal.Equal(decimal.NewFromInt(250)))

	// the conversion is the only stock decrement in the chain: all three
	// buckets drain together
	item, err = f.repos.StockItemRepo.FindByIDForTenant(ctx, tenantID, item.ID)
	require.NoError(t, err)
	assert.True(t, item.StockQty.Equal(decimal.NewFromInt(90)))
	assert.True(t, item.ReservedStock.IsZero())
	assert.True(t, item.InTransitStock.IsZero())
	require.Len(t, f.repos.MovementRepo.OfType(inventory.MovementInvoice), 1)

	so, err := f.repos.SORepo.FindByIDForTenant(ctx, tenantID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.SOStatusInvoiced, so.Status)

	customer, err := f.repos.CustomerRepo.FindByIDForTenant(ctx, tenantID, f.customer.ID)
	require.NoError(t, err)
	assert.True(t, customer.Dues.Equal(decimal.NewFromInt(250)))

	payments, err := f.repos.PaymentRepo.FindByCustomer(ctx, tenantID, f.customer.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "invoice_raised", payments[0].Kind)

	assert.Len(t, f.pub.OfType(fulfillment.EventTypeChallanConverted), 1)
}

func TestInvoiceServiceConvertChallanIsOneShot(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFulfillFixture(t, tenantID)
	item := f.seedItem(t, tenantID, "WID-001", 100, 25)
	order := f.seedConfirmedOrder(t, tenantID, item, 10)

	challan, err := f.challanSvc.Create(ctx, tenantID, appsvc.CreateChallanRequest{
		SalesOrderID: order.ID,
		Lines: []appsvc.ChallanLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(10),
		}},
	})
	require.NoError(t, err)
	_, err = f.invoiceSvc.ConvertChallan(ctx, tenantID, challan.ID)
	require.NoError(t, err)

	_, err = f.invoiceSvc.ConvertChallan(ctx, tenantID, challan.ID)
	assert.Error(t, err)
}

func TestInvoiceServiceRecordPayment(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFulfillFixture(t, tenantID)
	item := f.seedItem(t, tenantID, "WID-001", 100, 25)
	order := f.seedConfirmedOrder(t, tenantID, item, 10)

	challan, err := f.challanSvc.Create(ctx, tenantID, appsvc.CreateChallanRequest{
		SalesOrderID: order.ID,
		Lines: []appsvc.ChallanLineRequest{{
			ItemID:   item.ID,
			Quantity: decimal.NewFromInt(10),
		}},
	})
	require.NoError(t, err)
	invoice, err := f.invoiceSvc.ConvertChallan(ctx, tenantID, challan.ID)
	require.NoError(t, err)

	account, err := partner.NewBankAccount(tenantID, "Main", "000111222", "First Bank")
	require.NoError(t, err)
	require.NoError(t, f.repos.BankAccountRepo.Save(ctx, account))

	paid, err := f.invoiceSvc.RecordPayment(ctx, tenantID, invoice.ID, appsvc.RecordPaymentRequest{
		Amount:        decimal.NewFromInt(100),
		Mode:          "bank_transfer",
		BankAccountID: &account.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, string(fulfillment.PaymentStatusPartial), paid.PaymentStatus)
	assert.True(t, paid.Outstanding.Equal(decimal.NewFromInt(150)))

	customer, err := f.repos.CustomerRepo.FindByIDForTenant(ctx, tenantID, f.customer.ID)
	require.NoError(t, err)
	assert.True(t, customer.Dues.Equal(decimal.NewFromInt(150)))

	account, err = f.repos.BankAccountRepo.FindByIDForTenant(ctx, tenantID, account.ID)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(100)))

	cashRows, err := f.repos.CashBankRepo.FindBySource(ctx, tenantID, invoice.ID)
	require.NoError(t, err)
	require.Len(t, cashRows, 1)
	assert.Equal(t, partner.CashFlowIn, cashRows[0].Direction)

	// settle the rest in cash
	paid, err = f.invoiceSvc.RecordPayment(ctx, tenantID, invoice.ID, appsvc.RecordPaymentRequest{
		Amount: decimal.NewFromInt(150),
		Mode:   "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, string(fulfillment.PaymentStatusPaid), paid.PaymentStatus)

	// overpaying must fail
	_, err = f.invoiceSvc.RecordPayment(ctx, tenantID, invoice.ID, appsvc.RecordPaymentRequest{
		Amount: decimal.NewFromInt(1),
		Mode:   "cash",
	})
	assert.Error(t, err)
}
