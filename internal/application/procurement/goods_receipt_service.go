package procurement

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appinventory "github.com/backoffice/backend/internal/application/inventory"
	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/procurement"
	"github.com/backoffice/backend/internal/domain/shared"
)

// GoodsReceiptService books physical deliveries against approved
// purchase orders. Finalizing a receipt is the single transaction where
// accepted goods enter stock, the order's received quantities advance
// and the supplier payable grows.
type GoodsReceiptService struct {
	scope          appinventory.TransactionScope
	grnRepo        procurement.GoodsReceiptRepository
	poRepo         procurement.PurchaseOrderRepository
	numberGen      shared.DocumentNumberGenerator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewGoodsReceiptService creates a GoodsReceiptService
func NewGoodsReceiptService(
	scope appinventory.TransactionScope,
	grnRepo procurement.GoodsReceiptRepository,
	poRepo procurement.PurchaseOrderRepository,
	numberGen shared.DocumentNumberGenerator,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *GoodsReceiptService {
	return &GoodsReceiptService{
		scope:          scope,
		grnRepo:        grnRepo,
		poRepo:         poRepo,
		numberGen:      numberGen,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// CreateDraft builds a draft receipt against a receivable order. Rates
// come from the order's locked pricing, never from the request.
func (s *GoodsReceiptService) CreateDraft(ctx context.Context, tenantID uuid.UUID, req CreateGoodsReceiptRequest) (*GoodsReceiptResponse, error) {
	po, err := s.poRepo.FindByIDForTenant(ctx, tenantID, req.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	if !po.Status.CanReceiveGoods() {
		return nil, shared.NewStateConflict("cannot receive goods against order in status %s", po.Status)
	}

	receiptNumber, err := s.numberGen.Next(ctx, tenantID, "GRN")
	if err != nil {
		return nil, err
	}
	grn, err := procurement.NewGoodsReceiptNote(tenantID, receiptNumber, po.ID, po.SupplierID)
	if err != nil {
		return nil, err
	}
	grn.Notes = req.Notes

	for _, line := range req.Lines {
		var poLine *procurement.PurchaseOrderItem
		for idx := range po.Items {
			if po.Items[idx].ItemID == line.ItemID {
				poLine = &po.Items[idx]
				break
			}
		}
		if poLine == nil {
			return nil, shared.NewValidationError("item %s is not on order %s", line.ItemID, po.OrderNumber)
		}
		if line.ReceivedQty.GreaterThan(poLine.PendingQty()) {
			return nil, shared.NewValidationError(
				"received quantity %s exceeds pending quantity %s for item %s",
				line.ReceivedQty.String(), poLine.PendingQty().String(), poLine.SKU)
		}
		if err := grn.AddItem(line.ItemID, poLine.SKU, line.ReceivedQty, line.RejectedQty, poLine.Rate); err != nil {
			return nil, err
		}
		if line.BatchNo != "" {
			if err := grn.SetBatch(line.ItemID, line.BatchNo, line.ExpiryDate); err != nil {
				return nil, err
			}
		}
	}

	if err := s.grnRepo.Save(ctx, grn); err != nil {
		return nil, err
	}
	resp := ToGoodsReceiptResponse(grn)
	return &resp, nil
}

// Finalize applies the receipt: per line the ledger books the accepted
// quantity with weighted-average costing, batch-tracked items get their
// batch rows, the order's received quantities and status advance, and
// the supplier payable grows by the receipt value. All in one
// transaction.
func (s *GoodsReceiptService) Finalize(ctx context.Context, tenantID, receiptID uuid.UUID, finalizedBy *uuid.UUID) (*GoodsReceiptResponse, error) {
	var grn *procurement.GoodsReceiptNote
	var po *procurement.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		grn, err = repos.GoodsReceipts().FindByIDForTenant(ctx, tenantID, receiptID)
		if err != nil {
			return err
		}
		po, err = repos.PurchaseOrders().FindByIDForTenant(ctx, tenantID, grn.PurchaseOrderID)
		if err != nil {
			return err
		}
		if err := grn.MarkFinalized(finalizedBy); err != nil {
			return err
		}

		for _, line := range grn.Items {
			if err := po.ReceiveLine(line.ItemID, line.ReceivedQty); err != nil {
				return err
			}
			item, err := repos.StockItems().FindByIDForTenant(ctx, tenantID, line.ItemID)
			if err != nil {
				return err
			}
			movement, err := item.ReceivePurchase(line.AcceptedQty, line.ReceivedQty, line.Rate, inventory.MovementSource{
				Type:      inventory.SourceGoodsReceipt,
				ID:        grn.ID,
				CreatedBy: finalizedBy,
			})
			if err != nil {
				return err
			}
			if item.TrackBatch && line.BatchNo != "" {
				batch, err := item.AddBatch(line.BatchNo, line.AcceptedQty, line.Rate)
				if err != nil {
					return err
				}
				if line.ExpiryDate != nil {
					batch.WithExpiry(*line.ExpiryDate)
				}
			}
			if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
				return err
			}
			if err := repos.Movements().Append(ctx, movement); err != nil {
				return err
			}
		}

		supplier, err := repos.Suppliers().FindByIDForTenant(ctx, tenantID, grn.SupplierID)
		if err != nil {
			return err
		}
		if err := supplier.AddPayable(grn.TotalValue, "goods receipt "+grn.ReceiptNumber); err != nil {
			return err
		}
		if err := repos.Suppliers().SaveWithLock(ctx, supplier); err != nil {
			return err
		}

		if err := repos.PurchaseOrders().SaveWithLock(ctx, po); err != nil {
			return err
		}
		return repos.GoodsReceipts().SaveWithLock(ctx, grn)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &grn.BaseAggregateRoot)
	s.logger.Info("goods receipt finalized",
		zap.String("receipt_number", grn.ReceiptNumber),
		zap.String("order_number", po.OrderNumber),
		zap.String("value", grn.TotalValue.String()))
	resp := ToGoodsReceiptResponse(grn)
	return &resp, nil
}

// CancelDraft discards a draft receipt before it touched stock
func (s *GoodsReceiptService) CancelDraft(ctx context.Context, tenantID, receiptID uuid.UUID) error {
	grn, err := s.grnRepo.FindByIDForTenant(ctx, tenantID, receiptID)
	if err != nil {
		return err
	}
	if err := grn.Cancel(); err != nil {
		return err
	}
	return s.grnRepo.SaveWithLock(ctx, grn)
}

// GetByID returns a goods receipt
func (s *GoodsReceiptService) GetByID(ctx context.Context, tenantID, receiptID uuid.UUID) (*GoodsReceiptResponse, error) {
	grn, err := s.grnRepo.FindByIDForTenant(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}
	resp := ToGoodsReceiptResponse(grn)
	return &resp, nil
}

func (s *GoodsReceiptService) publishEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish goods receipt events", zap.Error(err))
	}
	root.ClearDomainEvents()
}
