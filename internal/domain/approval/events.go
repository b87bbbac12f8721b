package approval

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// Event types for approval workflows
const (
	EventTypeWorkflowStarted  = "approval.workflow.started"
	EventTypeWorkflowApproved = "approval.workflow.approved"
	EventTypeWorkflowRejected = "approval.workflow.rejected"
)

// WorkflowStartedEvent is raised when a workflow is created
type WorkflowStartedEvent struct {
	shared.BaseDomainEvent
	EntityType EntityType      `json:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Amount     decimal.Decimal `json:"amount"`
	Levels     int             `json:"levels"`
}

// NewWorkflowStartedEvent creates a workflow started event
func NewWorkflowStartedEvent(wf *ApprovalWorkflow) *WorkflowStartedEvent {
	return &WorkflowStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeWorkflowStarted, "ApprovalWorkflow", wf.ID, wf.TenantID),
		EntityType: wf.EntityType,
		EntityID:   wf.EntityID,
		Amount:     wf.Amount,
		Levels:     len(wf.Levels),
	}
}

// WorkflowApprovedEvent is raised when the final level approves. The
// owning pipeline reacts to it (reserving stock for purchase orders,
// posting return movements for purchase returns).
type WorkflowApprovedEvent struct {
	shared.BaseDomainEvent
	EntityType EntityType `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id"`
	ApprovedBy uuid.UUID  `json:"approved_by"`
}

// NewWorkflowApprovedEvent creates a workflow approved event
func NewWorkflowApprovedEvent(wf *ApprovalWorkflow, approvedBy uuid.UUID) *WorkflowApprovedEvent {
	return &WorkflowApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeWorkflowApproved, "ApprovalWorkflow", wf.ID, wf.TenantID),
		EntityType: wf.EntityType,
		EntityID:   wf.EntityID,
		ApprovedBy: approvedBy,
	}
}

// WorkflowRejectedEvent is raised when any level rejects
type WorkflowRejectedEvent struct {
	shared.BaseDomainEvent
	EntityType EntityType `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id"`
	RejectedBy uuid.UUID  `json:"rejected_by"`
	Reason     string     `json:"reason"`
}

// NewWorkflowRejectedEvent creates a workflow rejected event
func NewWorkflowRejectedEvent(wf *ApprovalWorkflow, rejectedBy uuid.UUID, reason string) *WorkflowRejectedEvent {
	return &WorkflowRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeWorkflowRejected, "ApprovalWorkflow", wf.ID, wf.TenantID),
		EntityType: wf.EntityType,
		EntityID:   wf.EntityID,
		RejectedBy: rejectedBy,
		Reason:     reason,
	}
}
