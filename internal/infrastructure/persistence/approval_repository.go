package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/backoffice/backend/internal/domain/approval"
	"github.com/backoffice/backend/internal/domain/shared"
)

// GormWorkflowRepository implements approval.WorkflowRepository
type GormWorkflowRepository struct {
	gormStore[approval.ApprovalWorkflow]
}

// NewGormWorkflowRepository creates a GormWorkflowRepository
func NewGormWorkflowRepository(db *gorm.DB) *GormWorkflowRepository {
	return &GormWorkflowRepository{newGormStore[approval.ApprovalWorkflow](
		db, withSortFields("status", "amount"), "Levels")}
}

// FindByEntity returns the most recent workflow attached to a document
func (r *GormWorkflowRepository) FindByEntity(ctx context.Context, tenantID uuid.UUID, entityType approval.EntityType, entityID uuid.UUID) (*approval.ApprovalWorkflow, error) {
	var wf approval.ApprovalWorkflow
	err := r.query(ctx).
		Where("tenant_id = ? AND entity_type = ? AND entity_id = ?", tenantID, entityType, entityID).
		Order("created_at DESC").
		First(&wf).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &wf, nil
}

// FindPendingForApprover lists workflows whose current level is assigned
// to the given approver
func (r *GormWorkflowRepository) FindPendingForApprover(ctx context.Context, tenantID, approverID uuid.UUID, filter shared.Filter) ([]approval.ApprovalWorkflow, error) {
	var workflows []approval.ApprovalWorkflow
	query := r.query(ctx).
		Joins("JOIN approval_levels ON approval_levels.workflow_id = approval_workflows.id"+
			" AND approval_levels.level = approval_workflows.current_level").
		Where("approval_workflows.tenant_id = ?", tenantID).
		Where("approval_workflows.status IN ?", []approval.WorkflowStatus{
			approval.WorkflowStatusPending, approval.WorkflowStatusInProgress,
		}).
		Where("approval_levels.approver_id = ?", approverID).
		Order("approval_workflows.created_at DESC")

	offset := (filter.Page - 1) * filter.PageSize
	if offset < 0 {
		offset = 0
	}
	limit := filter.PageSize
	if limit <= 0 {
		limit = 20
	}
	if err := query.Offset(offset).Limit(limit).Find(&workflows).Error; err != nil {
		return nil, err
	}
	return workflows, nil
}

var _ approval.WorkflowRepository = (*GormWorkflowRepository)(nil)
