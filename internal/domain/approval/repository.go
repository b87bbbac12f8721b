package approval

import (
	"context"

	"github.com/google/uuid"

	"github.com/backoffice/backend/internal/domain/shared"
)

// WorkflowRepository persists approval workflows
type WorkflowRepository interface {
	shared.TenantRepository[ApprovalWorkflow]
	// FindByEntity returns the most recent workflow attached to a document
	FindByEntity(ctx context.Context, tenantID uuid.UUID, entityType EntityType, entityID uuid.UUID) (*ApprovalWorkflow, error)
	// FindPendingForApprover lists workflows whose current level is assigned
	// to the given approver
	FindPendingForApprover(ctx context.Context, tenantID, approverID uuid.UUID, filter shared.Filter) ([]ApprovalWorkflow, error)
	// SaveWithLock saves using optimistic locking on the version column
	SaveWithLock(ctx context.Context, workflow *ApprovalWorkflow) error
}
