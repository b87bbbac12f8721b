package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appapproval "github.com/backoffice/backend/internal/application/approval"
	appinventory "github.com/backoffice/backend/internal/application/inventory"
	"github.com/backoffice/backend/internal/domain/approval"
	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/procurement"
	"github.com/backoffice/backend/internal/domain/shared"
)

// PurchaseOrderService drives the procurement pipeline from draft order
// to converted purchase. Stock is reserved when approval completes and
// released again when an order with pending quantity is cancelled.
type PurchaseOrderService struct {
	scope          appinventory.TransactionScope
	poRepo         procurement.PurchaseOrderRepository
	itemRepo       inventory.StockItemRepository
	workflowSvc    *appapproval.WorkflowService
	numberGen      shared.DocumentNumberGenerator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPurchaseOrderService creates a PurchaseOrderService
func NewPurchaseOrderService(
	scope appinventory.TransactionScope,
	poRepo procurement.PurchaseOrderRepository,
	itemRepo inventory.StockItemRepository,
	workflowSvc *appapproval.WorkflowService,
	numberGen shared.DocumentNumberGenerator,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		scope:          scope,
		poRepo:         poRepo,
		itemRepo:       itemRepo,
		workflowSvc:    workflowSvc,
		numberGen:      numberGen,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Create builds a draft purchase order with a generated number
func (s *PurchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	orderNumber, err := s.numberGen.Next(ctx, tenantID, "PO")
	if err != nil {
		return nil, err
	}
	po, err := procurement.NewPurchaseOrder(tenantID, orderNumber, req.SupplierID)
	if err != nil {
		return nil, err
	}
	po.Notes = req.Notes

	for _, line := range req.Lines {
		item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, line.ItemID)
		if err != nil {
			return nil, shared.NewValidationError("unknown stock item %s", line.ItemID)
		}
		if err := po.AddItem(item.ID, item.SKU, line.Quantity, line.Rate, line.TaxPercent, line.DiscountPercent); err != nil {
			return nil, err
		}
	}

	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	s.logger.Info("purchase order created",
		zap.String("order_number", po.OrderNumber),
		zap.String("total", po.TotalAmount.String()))
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// Submit moves a draft into approval. The chain is sized from the order
// total by the threshold policy.
func (s *PurchaseOrderService) Submit(ctx context.Context, tenantID, orderID uuid.UUID, req SubmitPurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := po.Submit(); err != nil {
		return nil, err
	}
	if err := s.poRepo.SaveWithLock(ctx, po); err != nil {
		return nil, err
	}
	if _, err := s.workflowSvc.Start(ctx, tenantID, appapproval.StartRequest{
		EntityType: approval.EntityPurchaseOrder,
		EntityID:   po.ID,
		Amount:     po.TotalAmount,
		Approvers:  req.ApproverIDs,
	}); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &po.BaseAggregateRoot)
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// HandleApproved applies the approval outcome: the order is marked
// approved and every line's ordered quantity is reserved, with RESERVE
// ledger entries, in one transaction.
func (s *PurchaseOrderService) HandleApproved(ctx context.Context, tenantID, orderID uuid.UUID) error {
	var po *procurement.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		po, err = repos.PurchaseOrders().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if err := po.MarkApproved(); err != nil {
			return err
		}
		for _, line := range po.Items {
			item, err := repos.StockItems().FindByIDForTenant(ctx, tenantID, line.ItemID)
			if err != nil {
				return err
			}
			movement, err := item.Reserve(line.OrderedQty, inventory.MovementSource{
				Type: inventory.SourcePurchaseOrder,
				ID:   po.ID,
			})
			if err != nil {
				return err
			}
			if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
				return err
			}
			if err := repos.Movements().Append(ctx, movement); err != nil {
				return err
			}
		}
		return repos.PurchaseOrders().SaveWithLock(ctx, po)
	})
	if err != nil {
		return err
	}
	s.publishEvents(ctx, &po.BaseAggregateRoot)
	s.logger.Info("purchase order approved, stock reserved",
		zap.String("order_number", po.OrderNumber))
	return nil
}

// HandleRejected sends the order back to draft for rework
func (s *PurchaseOrderService) HandleRejected(ctx context.Context, tenantID, orderID uuid.UUID, reason string) error {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if err := po.MarkRejected(reason); err != nil {
		return err
	}
	if err := s.poRepo.SaveWithLock(ctx, po); err != nil {
		return err
	}
	s.publishEvents(ctx, &po.BaseAggregateRoot)
	return nil
}

// Cancel terminates the order and releases reservations for quantities
// never received
func (s *PurchaseOrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID, reason string) error {
	var po *procurement.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		po, err = repos.PurchaseOrders().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		releasable, err := po.Cancel(reason)
		if err != nil {
			return err
		}
		for itemID, qty := range releasable {
			item, err := repos.StockItems().FindByIDForTenant(ctx, tenantID, itemID)
			if err != nil {
				return err
			}
			movement, err := item.Release(qty, inventory.MovementSource{
				Type:  inventory.SourcePurchaseOrder,
				ID:    po.ID,
				Notes: "order cancelled: " + reason,
			})
			if err != nil {
				return err
			}
			if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
				return err
			}
			if err := repos.Movements().Append(ctx, movement); err != nil {
				return err
			}
		}
		return repos.PurchaseOrders().SaveWithLock(ctx, po)
	})
	if err != nil {
		return err
	}
	s.publishEvents(ctx, &po.BaseAggregateRoot)
	s.logger.Info("purchase order cancelled",
		zap.String("order_number", po.OrderNumber),
		zap.String("reason", reason))
	return nil
}

// ConvertToPurchase snapshots an approved order into a purchase
// document. One-shot per order.
func (s *PurchaseOrderService) ConvertToPurchase(ctx context.Context, tenantID, orderID uuid.UUID) (*procurement.Purchase, error) {
	purchaseNumber, err := s.numberGen.Next(ctx, tenantID, "PUR")
	if err != nil {
		return nil, err
	}
	var purchase *procurement.Purchase
	var po *procurement.PurchaseOrder
	err = s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		po, err = repos.PurchaseOrders().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if err := po.ConvertToPurchase(); err != nil {
			return err
		}
		purchase, err = procurement.NewPurchaseFromOrder(purchaseNumber, po)
		if err != nil {
			return err
		}
		if err := repos.Purchases().Save(ctx, purchase); err != nil {
			return err
		}
		return repos.PurchaseOrders().SaveWithLock(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &po.BaseAggregateRoot)
	return purchase, nil
}

// CancelPurchase voids a purchase document and reverses its effects:
// received stock is backed out with PURCHASE_CANCEL movements and the
// supplier payable is reduced. Blocked while any live return references
// the purchase, since those returns validate against its lines.
func (s *PurchaseOrderService) CancelPurchase(ctx context.Context, tenantID, purchaseID uuid.UUID, reason string) error {
	var purchase *procurement.Purchase
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		purchase, err = repos.Purchases().FindByIDForTenant(ctx, tenantID, purchaseID)
		if err != nil {
			return err
		}
		prior, err := repos.Returns().FindByPurchase(ctx, tenantID, purchase.ID)
		if err != nil {
			return err
		}
		for _, pr := range prior {
			if pr.Status.CountsAgainstReturnable() {
				return shared.NewStateConflict(
					"purchase %s has return %s in status %s and cannot be cancelled",
					purchase.PurchaseNumber, pr.ReturnNumber, pr.Status)
			}
		}
		if err := purchase.Cancel(reason); err != nil {
			return err
		}

		// stock comes back by what was actually received against the
		// originating order, not by the ordered snapshot
		var received map[uuid.UUID]decimal.Decimal
		if purchase.PurchaseOrderID != nil {
			po, err := repos.PurchaseOrders().FindByIDForTenant(ctx, tenantID, *purchase.PurchaseOrderID)
			if err != nil {
				return err
			}
			received = make(map[uuid.UUID]decimal.Decimal, len(po.Items))
			for _, line := range po.Items {
				received[line.ItemID] = line.ReceivedQty
			}
		}
		for _, line := range purchase.Items {
			qty := line.Quantity
			if received != nil {
				qty = received[line.ItemID]
			}
			if !qty.IsPositive() {
				continue
			}
			item, err := repos.StockItems().FindByIDForTenant(ctx, tenantID, line.ItemID)
			if err != nil {
				return err
			}
			movement, err := item.CancelPurchase(qty, inventory.MovementSource{
				Type:  inventory.SourcePurchase,
				ID:    purchase.ID,
				Notes: "purchase cancelled: " + reason,
			})
			if err != nil {
				return err
			}
			if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
				return err
			}
			if err := repos.Movements().Append(ctx, movement); err != nil {
				return err
			}
		}

		supplier, err := repos.Suppliers().FindByIDForTenant(ctx, tenantID, purchase.SupplierID)
		if err != nil {
			return err
		}
		// the payable carries only the accepted value from receipts, which
		// can be less than the purchase total when lines were rejected
		reversal := decimal.Min(supplier.PayableBalance, purchase.TotalAmount)
		if reversal.IsPositive() {
			if err := supplier.ReducePayable(reversal, "purchase "+purchase.PurchaseNumber+" cancelled"); err != nil {
				return err
			}
			if err := repos.Suppliers().SaveWithLock(ctx, supplier); err != nil {
				return err
			}
		}
		return repos.Purchases().SaveWithLock(ctx, purchase)
	})
	if err != nil {
		return err
	}
	s.logger.Info("purchase cancelled",
		zap.String("purchase_number", purchase.PurchaseNumber),
		zap.String("reason", reason))
	return nil
}

// GetByID returns a purchase order
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// List returns purchase orders for a tenant
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrderResponse, error) {
	orders, err := s.poRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]PurchaseOrderResponse, 0, len(orders))
	for idx := range orders {
		responses = append(responses, ToPurchaseOrderResponse(&orders[idx]))
	}
	return responses, nil
}

func (s *PurchaseOrderService) publishEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish purchase order events", zap.Error(err))
	}
	root.ClearDomainEvents()
}
