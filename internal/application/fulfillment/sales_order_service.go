package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appinventory "github.com/backoffice/backend/internal/application/inventory"
	"github.com/backoffice/backend/internal/domain/fulfillment"
	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/shared"
)

// SalesOrderService manages the sales order head of the fulfillment
// pipeline. Confirming an order reserves the full ordered quantity per
// line; the hold is consumed line by line as challans are invoiced.
type SalesOrderService struct {
	scope          appinventory.TransactionScope
	soRepo         fulfillment.SalesOrderRepository
	itemRepo       inventory.StockItemRepository
	numberGen      shared.DocumentNumberGenerator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSalesOrderService creates a SalesOrderService
func NewSalesOrderService(
	scope appinventory.TransactionScope,
	soRepo fulfillment.SalesOrderRepository,
	itemRepo inventory.StockItemRepository,
	numberGen shared.DocumentNumberGenerator,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *SalesOrderService {
	return &SalesOrderService{
		scope:          scope,
		soRepo:         soRepo,
		itemRepo:       itemRepo,
		numberGen:      numberGen,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Create builds a draft sales order. Lines with a zero rate fall back to
// the item's current selling price, locked in at order time.
func (s *SalesOrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	orderNumber, err := s.numberGen.Next(ctx, tenantID, "SO")
	if err != nil {
		return nil, err
	}
	so, err := fulfillment.NewSalesOrder(tenantID, orderNumber, req.CustomerID)
	if err != nil {
		return nil, err
	}
	so.Notes = req.Notes

	for _, line := range req.Lines {
		item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, line.ItemID)
		if err != nil {
			return nil, shared.NewValidationError("unknown stock item %s", line.ItemID)
		}
		rate := line.Rate
		if rate.IsZero() {
			rate = item.SellingPrice
		}
		if err := so.AddItem(item.ID, item.SKU, line.Quantity, rate, line.TaxPercent, line.DiscountPercent); err != nil {
			return nil, err
		}
	}

	if err := s.soRepo.Save(ctx, so); err != nil {
		return nil, err
	}
	s.logger.Info("sales order created",
		zap.String("order_number", so.OrderNumber),
		zap.String("total", so.TotalAmount.String()))
	resp := ToSalesOrderResponse(so)
	return &resp, nil
}

// Confirm locks the order and reserves each line's full quantity so that
// later invoicing can always consume the hold
func (s *SalesOrderService) Confirm(ctx context.Context, tenantID, orderID uuid.UUID) (*SalesOrderResponse, error) {
	var so *fulfillment.SalesOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		so, err = repos.SalesOrders().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if err := so.Confirm(); err != nil {
			return err
		}
		for _, line := range so.Items {
			item, err := repos.StockItems().FindByIDForTenant(ctx, tenantID, line.ItemID)
			if err != nil {
				return err
			}
			movement, err := item.Reserve(line.Quantity, inventory.MovementSource{
				Type: inventory.SourceSalesOrder,
				ID:   so.ID,
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
		return repos.SalesOrders().SaveWithLock(ctx, so)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, &so.BaseAggregateRoot)
	s.logger.Info("sales order confirmed", zap.String("order_number", so.OrderNumber))
	resp := ToSalesOrderResponse(so)
	return &resp, nil
}

// Cancel terminates an order before any delivery. The reservation made at
// confirmation is released; a draft order has nothing to release.
func (s *SalesOrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID, reason string) error {
	var so *fulfillment.SalesOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		so, err = repos.SalesOrders().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		wasConfirmed := so.Status == fulfillment.SOStatusConfirmed
		if err := so.Cancel(); err != nil {
			return err
		}
		if wasConfirmed {
			for _, line := range so.Items {
				item, err := repos.StockItems().FindByIDForTenant(ctx, tenantID, line.ItemID)
				if err != nil {
					return err
				}
				movement, err := item.Release(line.Quantity, inventory.MovementSource{
					Type:  inventory.SourceSalesOrder,
					ID:    so.ID,
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
		}
		return repos.SalesOrders().SaveWithLock(ctx, so)
	})
	if err != nil {
		return err
	}
	s.logger.Info("sales order cancelled",
		zap.String("order_number", so.OrderNumber),
		zap.String("reason", reason))
	return nil
}

// GetByID returns a sales order
func (s *SalesOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*SalesOrderResponse, error) {
	so, err := s.soRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToSalesOrderResponse(so)
	return &resp, nil
}

// List returns sales orders for a tenant
func (s *SalesOrderService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SalesOrderResponse, error) {
	orders, err := s.soRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]SalesOrderResponse, 0, len(orders))
	for idx := range orders {
		responses = append(responses, ToSalesOrderResponse(&orders[idx]))
	}
	return responses, nil
}

func (s *SalesOrderService) publishEvents(ctx context.Context, root *shared.BaseAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish sales order events", zap.Error(err))
	}
	root.ClearDomainEvents()
}
