package approval

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/domain/approval"
	"github.com/backoffice/backend/internal/domain/shared"
)

// WorkflowService drives approval chains. It sizes each chain from the
// document amount using the threshold policy and publishes the workflow
// events the owning pipelines react to.
type WorkflowService struct {
	workflowRepo   approval.WorkflowRepository
	policy         approval.ThresholdPolicy
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewWorkflowService creates a WorkflowService
func NewWorkflowService(
	workflowRepo approval.WorkflowRepository,
	policy approval.ThresholdPolicy,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *WorkflowService {
	return &WorkflowService{
		workflowRepo:   workflowRepo,
		policy:         policy,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Policy returns the threshold policy in force
func (s *WorkflowService) Policy() approval.ThresholdPolicy {
	return s.policy
}

// StartRequest carries the inputs for starting a workflow
type StartRequest struct {
	EntityType approval.EntityType
	EntityID   uuid.UUID
	Amount     decimal.Decimal
	Approvers  []uuid.UUID
}

// Start creates a workflow for a document. The amount decides how many
// levels are needed; the approvers list must cover at least that many,
// extra entries are ignored.
func (s *WorkflowService) Start(ctx context.Context, tenantID uuid.UUID, req StartRequest) (*approval.ApprovalWorkflow, error) {
	required := s.policy.RequiredLevels(req.Amount)
	if len(req.Approvers) < required {
		return nil, shared.NewValidationError(
			"amount %s requires %d approval levels, only %d approvers given",
			req.Amount.String(), required, len(req.Approvers))
	}

	if existing, err := s.workflowRepo.FindByEntity(ctx, tenantID, req.EntityType, req.EntityID); err == nil && existing != nil && !existing.Status.IsTerminal() {
		return nil, shared.NewStateConflict("an approval workflow is already open for this document")
	}

	wf, err := approval.NewApprovalWorkflow(tenantID, req.EntityType, req.EntityID, req.Amount, req.Approvers[:required])
	if err != nil {
		return nil, err
	}
	if err := s.workflowRepo.Save(ctx, wf); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, wf)
	s.logger.Info("approval workflow started",
		zap.String("entity_type", string(req.EntityType)),
		zap.String("entity_id", req.EntityID.String()),
		zap.Int("levels", required))
	return wf, nil
}

// Approve records an approval at the workflow's current level
func (s *WorkflowService) Approve(ctx context.Context, tenantID, workflowID, approverID uuid.UUID, comments string) (*approval.ApprovalWorkflow, error) {
	wf, err := s.workflowRepo.FindByIDForTenant(ctx, tenantID, workflowID)
	if err != nil {
		return nil, err
	}
	if err := wf.Approve(approverID, comments); err != nil {
		return nil, err
	}
	if err := s.workflowRepo.SaveWithLock(ctx, wf); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, wf)
	return wf, nil
}

// Reject terminates the workflow at its current level
func (s *WorkflowService) Reject(ctx context.Context, tenantID, workflowID, approverID uuid.UUID, comments string) (*approval.ApprovalWorkflow, error) {
	wf, err := s.workflowRepo.FindByIDForTenant(ctx, tenantID, workflowID)
	if err != nil {
		return nil, err
	}
	if err := wf.Reject(approverID, comments); err != nil {
		return nil, err
	}
	if err := s.workflowRepo.SaveWithLock(ctx, wf); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, wf)
	return wf, nil
}

// Cancel withdraws an open workflow, typically because the document was
// cancelled before approval finished
func (s *WorkflowService) Cancel(ctx context.Context, tenantID, workflowID uuid.UUID) error {
	wf, err := s.workflowRepo.FindByIDForTenant(ctx, tenantID, workflowID)
	if err != nil {
		return err
	}
	if err := wf.Cancel(); err != nil {
		return err
	}
	return s.workflowRepo.SaveWithLock(ctx, wf)
}

// GetByEntity returns the workflow attached to a document
func (s *WorkflowService) GetByEntity(ctx context.Context, tenantID uuid.UUID, entityType approval.EntityType, entityID uuid.UUID) (*approval.ApprovalWorkflow, error) {
	return s.workflowRepo.FindByEntity(ctx, tenantID, entityType, entityID)
}

// ListPending returns workflows waiting on an approver
func (s *WorkflowService) ListPending(ctx context.Context, tenantID, approverID uuid.UUID, filter shared.Filter) ([]approval.ApprovalWorkflow, error) {
	return s.workflowRepo.FindPendingForApprover(ctx, tenantID, approverID, filter)
}

func (s *WorkflowService) publishEvents(ctx context.Context, wf *approval.ApprovalWorkflow) {
	if s.eventPublisher == nil {
		return
	}
	events := wf.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish workflow events", zap.Error(err))
	}
	wf.ClearDomainEvents()
}
