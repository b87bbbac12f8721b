package procurement

import (
	"context"

	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/domain/approval"
	"github.com/backoffice/backend/internal/domain/shared"
)

// WorkflowEventHandler reacts to approval outcomes for purchase orders.
// Approval reserves the ordered stock; rejection sends the order back to
// draft.
type WorkflowEventHandler struct {
	poService *PurchaseOrderService
	logger    *zap.Logger
}

// NewWorkflowEventHandler creates a WorkflowEventHandler
func NewWorkflowEventHandler(poService *PurchaseOrderService, logger *zap.Logger) *WorkflowEventHandler {
	return &WorkflowEventHandler{poService: poService, logger: logger}
}

// EventTypes returns the approval event types this handler consumes
func (h *WorkflowEventHandler) EventTypes() []string {
	return []string{approval.EventTypeWorkflowApproved, approval.EventTypeWorkflowRejected}
}

// Handle dispatches workflow outcomes for purchase order entities
func (h *WorkflowEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *approval.WorkflowApprovedEvent:
		if e.EntityType != approval.EntityPurchaseOrder {
			return nil
		}
		h.logger.Info("applying purchase order approval",
			zap.String("order_id", e.EntityID.String()))
		return h.poService.HandleApproved(ctx, e.TenantID(), e.EntityID)
	case *approval.WorkflowRejectedEvent:
		if e.EntityType != approval.EntityPurchaseOrder {
			return nil
		}
		return h.poService.HandleRejected(ctx, e.TenantID(), e.EntityID, e.Reason)
	default:
		return nil
	}
}
