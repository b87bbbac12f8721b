package returns

import (
	"context"

	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/domain/approval"
	"github.com/backoffice/backend/internal/domain/shared"
)

// WorkflowEventHandler reacts to approval outcomes for purchase returns
// that were large enough to need a chain
type WorkflowEventHandler struct {
	returnService *ReturnService
	logger        *zap.Logger
}

// NewWorkflowEventHandler creates a WorkflowEventHandler
func NewWorkflowEventHandler(returnService *ReturnService, logger *zap.Logger) *WorkflowEventHandler {
	return &WorkflowEventHandler{returnService: returnService, logger: logger}
}

// EventTypes returns the approval event types this handler consumes
func (h *WorkflowEventHandler) EventTypes() []string {
	return []string{approval.EventTypeWorkflowApproved, approval.EventTypeWorkflowRejected}
}

// Handle dispatches workflow outcomes for purchase return entities
func (h *WorkflowEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *approval.WorkflowApprovedEvent:
		if e.EntityType != approval.EntityPurchaseReturn {
			return nil
		}
		h.logger.Info("applying purchase return approval",
			zap.String("return_id", e.EntityID.String()))
		return h.returnService.HandleApproved(ctx, e.TenantID(), e.EntityID)
	case *approval.WorkflowRejectedEvent:
		if e.EntityType != approval.EntityPurchaseReturn {
			return nil
		}
		return h.returnService.HandleRejected(ctx, e.TenantID(), e.EntityID, e.Reason)
	default:
		return nil
	}
}
