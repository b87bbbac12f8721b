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

// ChallanService ships goods against confirmed sales orders. Shipping
// moves quantity into the in-transit bucket and writes paired DELIVER and
// IN_TRANSIT ledger rows; physical stock does not change until the
// challan is invoiced.
type ChallanService struct {
	scope          appinventory.TransactionScope
	challanRepo    fulfillment.DeliveryChallanRepository
	soRepo         fulfillment.SalesOrderRepository
	numberGen      shared.DocumentNumberGenerator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewChallanService creates a ChallanService
func NewChallanService(
	scope appinventory.TransactionScope,
	challanRepo fulfillment.DeliveryChallanRepository,
	soRepo fulfillment.SalesOrderRepository,
	numberGen shared.DocumentNumberGenerator,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *ChallanService {
	return &ChallanService{
		scope:          scope,
		challanRepo:    challanRepo,
		soRepo:         soRepo,
		numberGen:      numberGen,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Create ships goods. Per line the quantity must fit both the order's
// undelivered balance and the physical stock on hand.
func (s *ChallanService) Create(ctx context.Context, tenantID uuid.UUID, req CreateChallanRequest) (*ChallanResponse, error) {
	challanNumber, err := s.numberGen.Next(ctx, tenantID, "DC")
	if err != nil {
		return nil, err
	}
	var challan *fulfillment.DeliveryChallan
	err = s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		so, err := repos.SalesOrders().FindByIDForTenant(ctx, tenantID, req.SalesOrderID)
		if err != nil {
			return err
		}
		if !so.Status.CanDeliver() {
			return shared.NewStateConflict("cannot deliver against order in status %s", so.Status)
		}
		challan, err = fulfillment.NewDeliveryChallan(tenantID, challanNumber, so.ID, so.CustomerID)
		if err != nil {
			return err
		}
		challan.Notes = req.Notes

		for _, line := range req.Lines {
			item, err := repos.StockItems().FindByIDForTenant(ctx, tenantID, line.ItemID)
			if err != nil {
				return err
			}
			if line.Quantity.GreaterThan(item.StockQty) {
				return shared.NewValidationError(
					"cannot ship %s of %s: only %s in stock",
					line.Quantity.String(), item.SKU, item.StockQty.String())
			}
			if err := so.RecordDelivery(line.ItemID, line.Quantity); err != nil {
				return err
			}
			if err := challan.AddItem(item.ID, item.SKU, line.Quantity); err != nil {
				return err
			}
			source := inventory.MovementSource{Type: inventory.SourceDeliveryChallan, ID: challan.ID}
			inTransit, err := item.MarkInTransit(line.Quantity, source)
			if err != nil {
				return err
			}
			deliver, err := item.RecordDelivery(line.Quantity, source)
			if err != nil {
				return err
			}
			if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
				return err
			}
			if err := repos.Movements().Append(ctx, inTransit); err != nil {
				return err
			}
			if err := repos.Movements().Append(ctx, deliver); err != nil {
				return err
			}
		}

		if err := repos.Challans().Save(ctx, challan); err != nil {
			return err
		}
		return repos.SalesOrders().SaveWithLock(ctx, so)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("delivery challan created",
		zap.String("challan_number", challan.ChallanNumber))
	resp := ToChallanResponse(challan)
	return &resp, nil
}

// Delete tombstones an open challan and unwinds its delivery: the order's
// delivered quantities shrink back and the in-transit hold drains. The
// reservation made at order confirmation stays in place.
func (s *ChallanService) Delete(ctx context.Context, tenantID, challanID uuid.UUID) error {
	var challan *fulfillment.DeliveryChallan
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		challan, err = repos.Challans().FindByIDForTenant(ctx, tenantID, challanID)
		if err != nil {
			return err
		}
		so, err := repos.SalesOrders().FindByIDForTenant(ctx, tenantID, challan.SalesOrderID)
		if err != nil {
			return err
		}
		if err := challan.MarkDeleted(); err != nil {
			return err
		}
		for _, line := range challan.Items {
			if err := so.ReverseDelivery(line.ItemID, line.Quantity); err != nil {
				return err
			}
			item, err := repos.StockItems().FindByIDForTenant(ctx, tenantID, line.ItemID)
			if err != nil {
				return err
			}
			movement, err := item.ReverseInTransit(line.Quantity, inventory.MovementSource{
				Type:  inventory.SourceDeliveryChallan,
				ID:    challan.ID,
				Notes: "challan " + challan.ChallanNumber + " deleted",
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
		if err := repos.SalesOrders().SaveWithLock(ctx, so); err != nil {
			return err
		}
		return repos.Challans().SaveWithLock(ctx, challan)
	})
	if err != nil {
		return err
	}
	s.logger.Info("delivery challan deleted",
		zap.String("challan_number", challan.ChallanNumber))
	return nil
}

// GetByID returns a delivery challan
func (s *ChallanService) GetByID(ctx context.Context, tenantID, challanID uuid.UUID) (*ChallanResponse, error) {
	challan, err := s.challanRepo.FindByIDForTenant(ctx, tenantID, challanID)
	if err != nil {
		return nil, err
	}
	resp := ToChallanResponse(challan)
	return &resp, nil
}

// ListBySalesOrder returns the challans cut against an order
func (s *ChallanService) ListBySalesOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) ([]ChallanResponse, error) {
	challans, err := s.challanRepo.FindBySalesOrder(ctx, tenantID, salesOrderID)
	if err != nil {
		return nil, err
	}
	responses := make([]ChallanResponse, 0, len(challans))
	for idx := range challans {
		responses = append(responses, ToChallanResponse(&challans[idx]))
	}
	return responses, nil
}
