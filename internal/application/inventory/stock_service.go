package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/shared"
)

// StockService owns the stock ledger: item registration, manual
// adjustments, POS deductions and ledger queries. Pipeline-driven
// movements (reserve, receive, invoice, return) are posted by the
// procurement, fulfillment and returns services inside their own
// transactions.
type StockService struct {
	scope          TransactionScope
	itemRepo       inventory.StockItemRepository
	movementRepo   inventory.StockMovementRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewStockService creates a StockService
func NewStockService(
	scope TransactionScope,
	itemRepo inventory.StockItemRepository,
	movementRepo inventory.StockMovementRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		scope:          scope,
		itemRepo:       itemRepo,
		movementRepo:   movementRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// CreateItem registers a stock item with empty buckets
func (s *StockService) CreateItem(ctx context.Context, tenantID uuid.UUID, req CreateStockItemRequest) (*StockItemResponse, error) {
	if existing, err := s.itemRepo.FindBySKU(ctx, tenantID, req.SKU); err == nil && existing != nil {
		return nil, shared.NewDomainErrorf(shared.CodeStateConflict, "SKU %s already exists", req.SKU)
	}
	item, err := inventory.NewStockItem(tenantID, req.SKU, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	item.SellingPrice = req.SellingPrice
	item.ReorderLevel = req.ReorderLevel
	item.TrackBatch = req.TrackBatch

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("stock item created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("sku", item.SKU))
	resp := ToStockItemResponse(item)
	return &resp, nil
}

// GetByID returns a stock item
func (s *StockService) GetByID(ctx context.Context, tenantID, itemID uuid.UUID) (*StockItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	resp := ToStockItemResponse(item)
	return &resp, nil
}

// GetBySKU returns a stock item by SKU
func (s *StockService) GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*StockItemResponse, error) {
	item, err := s.itemRepo.FindBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, err
	}
	resp := ToStockItemResponse(item)
	return &resp, nil
}

// List returns stock items for a tenant
func (s *StockService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockItemResponse, int64, error) {
	items, err := s.itemRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]StockItemResponse, 0, len(items))
	for idx := range items {
		responses = append(responses, ToStockItemResponse(&items[idx]))
	}
	return responses, total, nil
}

// ListBelowReorderLevel returns items running low
func (s *StockService) ListBelowReorderLevel(ctx context.Context, tenantID uuid.UUID) ([]StockItemResponse, error) {
	items, err := s.itemRepo.FindBelowReorderLevel(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]StockItemResponse, 0, len(items))
	for idx := range items {
		responses = append(responses, ToStockItemResponse(&items[idx]))
	}
	return responses, nil
}

// AdjustStock sets physical stock to a counted value and writes the
// ADJUSTMENT ledger entry in the same transaction
func (s *StockService) AdjustStock(ctx context.Context, tenantID, itemID uuid.UUID, req AdjustStockRequest, adjustedBy *uuid.UUID) (*StockItemResponse, error) {
	var item *inventory.StockItem
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.StockItems().FindByIDForTenant(ctx, tenantID, itemID)
		if err != nil {
			return err
		}
		movement, err := item.Adjust(req.NewQuantity, req.Reason, inventory.MovementSource{
			Type:      inventory.SourceManual,
			ID:        itemID,
			CreatedBy: adjustedBy,
		})
		if err != nil {
			return err
		}
		if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
			return err
		}
		return repos.Movements().Append(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, item)
	s.logger.Info("stock adjusted",
		zap.String("sku", item.SKU),
		zap.String("new_qty", item.StockQty.String()),
		zap.String("reason", req.Reason))
	resp := ToStockItemResponse(item)
	return &resp, nil
}

// RecordPOSSale deducts an over-the-counter sale, bypassing the
// reserve/deliver/invoice pipeline
func (s *StockService) RecordPOSSale(ctx context.Context, tenantID, itemID uuid.UUID, req POSSaleRequest) (*StockItemResponse, error) {
	var item *inventory.StockItem
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.StockItems().FindByIDForTenant(ctx, tenantID, itemID)
		if err != nil {
			return err
		}
		movement, err := item.DeductPOSSale(req.Quantity, inventory.MovementSource{
			Type: inventory.SourcePOSSale,
			ID:   req.SaleID,
		})
		if err != nil {
			return err
		}
		if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
			return err
		}
		return repos.Movements().Append(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, item)
	resp := ToStockItemResponse(item)
	return &resp, nil
}

// ListMovements returns the ledger for an item, newest first
func (s *StockService) ListMovements(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]StockMovementResponse, error) {
	movements, err := s.movementRepo.FindByItem(ctx, tenantID, itemID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]StockMovementResponse, 0, len(movements))
	for idx := range movements {
		responses = append(responses, ToStockMovementResponse(&movements[idx]))
	}
	return responses, nil
}

func (s *StockService) publishEvents(ctx context.Context, item *inventory.StockItem) {
	if s.eventPublisher == nil {
		return
	}
	events := item.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish stock events", zap.Error(err))
	}
	item.ClearDomainEvents()
}
