package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinventory "github.com/backoffice/backend/internal/application/inventory"
	"github.com/backoffice/backend/internal/domain/fulfillment"
	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/shared"
)

// InvoiceService converts delivery challans into invoices and settles
// them. Conversion is the only point in the fulfillment pipeline where
// physical stock is decremented: each line drains all three buckets at
// once, and the customer's dues grow by the invoice total in the same
// transaction.
type InvoiceService struct {
	scope          appinventory.TransactionScope
	invoiceRepo    fulfillment.InvoiceRepository
	challanRepo    fulfillment.DeliveryChallanRepository
	numberGen      shared.DocumentNumberGenerator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInvoiceService creates an InvoiceService
func NewInvoiceService(
	scope appinventory.TransactionScope,
	invoiceRepo fulfillment.InvoiceRepository,
	challanRepo fulfillment.DeliveryChallanRepository,
	numberGen shared.DocumentNumberGenerator,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		scope:          scope,
		invoiceRepo:    invoiceRepo,
		challanRepo:    challanRepo,
		numberGen:      numberGen,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// ConvertChallan turns an open challan into an invoice. Pricing comes
// from the sales order's locked rate, tax and discount; lines the order
// does not carry fall back to the item's current selling price.
func (s *InvoiceService) ConvertChallan(ctx context.Context, tenantID, challanID uuid.UUID) (*InvoiceResponse, error) {
	invoiceNumber, err := s.numberGen.Next(ctx, tenantID, "INV")
	if err != nil {
		return nil, err
	}
	var challan *fulfillment.DeliveryChallan
	var invoice *fulfillment.Invoice
	err = s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		challan, err = repos.Challans().FindByIDForTenant(ctx, tenantID, challanID)
		if err != nil {
			return err
		}
		so, err := repos.SalesOrders().FindByIDForTenant(ctx, tenantID, challan.SalesOrderID)
		if err != nil {
			return err
		}
		invoice, err = fulfillment.NewInvoice(tenantID, invoiceNumber, challan.CustomerID, so.ID, &challan.ID)
		if err != nil {
			return err
		}

		for _, line := range challan.Items {
			item, err := repos.StockItems().FindByIDForTenant(ctx, tenantID, line.ItemID)
			if err != nil {
				return err
			}
			rate := item.SellingPrice
			tax := decimal.Zero
			discount := decimal.Zero
			if orderLine := so.Line(line.ItemID); orderLine != nil {
				rate = orderLine.Rate
				tax = orderLine.TaxPercent
				discount = orderLine.DiscountPercent
			}
			if err := so.RecordInvoiced(line.ItemID, line.Quantity); err != nil {
				return err
			}
			movement, err := item.InvoiceOut(line.Quantity, inventory.MovementSource{
				Type: inventory.SourceInvoice,
				ID:   invoice.ID,
			})
			if err != nil {
				return err
			}
			if err := invoice.AddItem(item.ID, item.SKU, line.Quantity, rate, tax, discount); err != nil {
				return err
			}
			if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
				return err
			}
			if err := repos.Movements().Append(ctx, movement); err != nil {
				return err
			}
		}

		if err := challan.MarkConverted(invoice.ID); err != nil {
			return err
		}

		customer, err := repos.Customers().FindByIDForTenant(ctx, tenantID, challan.CustomerID)
		if err != nil {
			return err
		}
		if err := customer.AddDues(invoice.GrandTotal, "invoice "+invoice.InvoiceNumber); err != nil {
			return err
		}
		if err := repos.Customers().SaveWithLock(ctx, customer); err != nil {
			return err
		}
		if err := repos.Payments().Append(ctx, partner.NewPaymentTransaction(
			tenantID, customer.ID, invoice.GrandTotal, "invoice_raised", "invoice", invoice.ID)); err != nil {
			return err
		}

		if err := repos.Invoices().Save(ctx, invoice); err != nil {
			return err
		}
		if err := repos.SalesOrders().SaveWithLock(ctx, so); err != nil {
			return err
		}
		return repos.Challans().SaveWithLock(ctx, challan)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &challan.BaseAggregateRoot)
	s.logger.Info("challan converted to invoice",
		zap.String("challan_number", challan.ChallanNumber),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("grand_total", invoice.GrandTotal.String()))
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// RecordPayment settles part or all of an invoice, reduces the customer's
// dues and writes the money audit rows in one transaction
func (s *InvoiceService) RecordPayment(ctx context.Context, tenantID, invoiceID uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	var invoice *fulfillment.Invoice
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		invoice, err = repos.Invoices().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if err := invoice.RecordPayment(req.Amount); err != nil {
			return err
		}
		customer, err := repos.Customers().FindByIDForTenant(ctx, tenantID, invoice.CustomerID)
		if err != nil {
			return err
		}
		if err := customer.ReduceDues(req.Amount, "payment against invoice "+invoice.InvoiceNumber); err != nil {
			return err
		}
		if err := repos.Customers().SaveWithLock(ctx, customer); err != nil {
			return err
		}

		tx := partner.NewCashBankTransaction(
			tenantID, partner.CashFlowIn, req.Amount, req.Mode, "invoice_payment", invoice.ID)
		if req.BankAccountID != nil {
			account, err := repos.BankAccounts().FindByIDForTenant(ctx, tenantID, *req.BankAccountID)
			if err != nil {
				return err
			}
			if err := account.Credit(req.Amount); err != nil {
				return err
			}
			if err := repos.BankAccounts().SaveWithLock(ctx, account); err != nil {
				return err
			}
			tx.BankAccountID = &account.ID
		}
		if err := repos.CashBank().Append(ctx, tx); err != nil {
			return err
		}
		if err := repos.Payments().Append(ctx, partner.NewPaymentTransaction(
			tenantID, customer.ID, req.Amount, "payment_received", "invoice", invoice.ID)); err != nil {
			return err
		}
		return repos.Invoices().SaveWithLock(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &invoice.BaseAggregateRoot)
	s.logger.Info("invoice payment recorded",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("amount", req.Amount.String()),
		zap.String("status", string(invoice.PaymentStatus)))
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// GetByID returns an invoice
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// List returns invoices for a tenant
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]InvoiceResponse, 0, len(invoices))
	for idx := range invoices {
		responses = append(responses, ToInvoiceResponse(&invoices[idx]))
	}
	return responses, nil
}

func (s *InvoiceService) publishEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish invoice events", zap.Error(err))
	}
	root.ClearDomainEvents()
}
