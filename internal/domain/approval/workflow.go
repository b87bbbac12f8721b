package approval

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// WorkflowStatus represents the state of an approval workflow
type WorkflowStatus string

const (
	WorkflowStatusPending    WorkflowStatus = "pending"
	WorkflowStatusInProgress WorkflowStatus = "in_progress"
	WorkflowStatusApproved   WorkflowStatus = "approved"
	WorkflowStatusRejected   WorkflowStatus = "rejected"
	WorkflowStatusCancelled  WorkflowStatus = "cancelled"
)

// IsTerminal reports whether no further action can change the workflow
func (s WorkflowStatus) IsTerminal() bool {
	return s == WorkflowStatusApproved || s == WorkflowStatusRejected || s == WorkflowStatusCancelled
}

// LevelStatus represents the state of a single approval level
type LevelStatus string

const (
	LevelStatusPending  LevelStatus = "pending"
	LevelStatusApproved LevelStatus = "approved"
	LevelStatusRejected LevelStatus = "rejected"
	LevelStatusSkipped  LevelStatus = "skipped"
)

// EntityType identifies the kind of document under approval
type EntityType string

const (
	EntityPurchaseOrder  EntityType = "purchase_order"
	EntityPurchaseReturn EntityType = "purchase_return"
)

// ApprovalLevel is one step of the chain. Levels are numbered from 1 and
// acted on strictly in order.
type ApprovalLevel struct {
	shared.BaseEntity
	WorkflowID uuid.UUID   `gorm:"type:uuid;not null;index"`
	Level      int         `gorm:"not null"`
	ApproverID uuid.UUID   `gorm:"type:uuid;not null"`
	Status     LevelStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Comments   string      `gorm:"type:text"`
	ActionDate *time.Time
}

// TableName returns the table name for GORM
func (ApprovalLevel) TableName() string {
	return "approval_levels"
}

// ApprovalWorkflow is a generic multi-level approval chain attached to a
// document by (EntityType, EntityID). The engine knows nothing about the
// document itself; completion and rejection are announced through domain
// events that the owning pipeline handles.
type ApprovalWorkflow struct {
	shared.TenantAggregateRoot
	EntityType   EntityType      `gorm:"type:varchar(40);not null;index:idx_approval_workflows_entity"`
	EntityID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_approval_workflows_entity"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Status       WorkflowStatus  `gorm:"type:varchar(20);not null;default:'pending'"`
	CurrentLevel int             `gorm:"not null;default:1"`
	CompletedAt  *time.Time
	Levels       []ApprovalLevel `gorm:"foreignKey:WorkflowID"`
}

// TableName returns the table name for GORM
func (ApprovalWorkflow) TableName() string {
	return "approval_workflows"
}

// NewApprovalWorkflow creates a workflow with one level per approver, in
// the order given
func NewApprovalWorkflow(tenantID uuid.UUID, entityType EntityType, entityID uuid.UUID, amount decimal.Decimal, approvers []uuid.UUID) (*ApprovalWorkflow, error) {
	if len(approvers) == 0 {
		return nil, shared.NewValidationError("at least one approver is required")
	}
	wf := &ApprovalWorkflow{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EntityType:          entityType,
		EntityID:            entityID,
		Amount:              amount,
		Status:              WorkflowStatusPending,
		CurrentLevel:        1,
	}
	for idx, approverID := range approvers {
		wf.Levels = append(wf.Levels, ApprovalLevel{
			BaseEntity: shared.NewBaseEntity(),
			WorkflowID: wf.ID,
			Level:      idx + 1,
			ApproverID: approverID,
			Status:     LevelStatusPending,
		})
	}
	wf.AddDomainEvent(NewWorkflowStartedEvent(wf))
	return wf, nil
}

// CurrentLevelEntry returns the level awaiting action, or nil when the
// workflow is complete
func (w *ApprovalWorkflow) CurrentLevelEntry() *ApprovalLevel {
	for idx := range w.Levels {
		if w.Levels[idx].Level == w.CurrentLevel {
			return &w.Levels[idx]
		}
	}
	return nil
}

// Approve records an approval by the current level's assignee. When the
// last level approves, the workflow completes and raises
// WorkflowApprovedEvent; otherwise the chain advances one level.
func (w *ApprovalWorkflow) Approve(approverID uuid.UUID, comments string) error {
	if w.Status.IsTerminal() {
		return shared.NewStateConflict("workflow is already %s", w.Status)
	}
	level := w.CurrentLevelEntry()
	if level == nil {
		return shared.NewStateConflict("workflow has no pending level")
	}
	if level.ApproverID != approverID {
		return shared.ErrUnauthorized
	}
	if level.Status != LevelStatusPending {
		return shared.NewStateConflict("level %d has already been %s", level.Level, level.Status)
	}

	now := time.Now()
	level.Status = LevelStatusApproved
	level.Comments = comments
	level.ActionDate = &now

	if w.CurrentLevel >= len(w.Levels) {
		w.Status = WorkflowStatusApproved
		w.CompletedAt = &now
		w.AddDomainEvent(NewWorkflowApprovedEvent(w, approverID))
		return nil
	}
	w.CurrentLevel++
	w.Status = WorkflowStatusInProgress
	return nil
}

// Reject terminates the workflow immediately. Remaining levels stay
// pending; there is no point skipping through them once the document is
// dead.
func (w *ApprovalWorkflow) Reject(approverID uuid.UUID, comments string) error {
	if w.Status.IsTerminal() {
		return shared.NewStateConflict("workflow is already %s", w.Status)
	}
	level := w.CurrentLevelEntry()
	if level == nil {
		return shared.NewStateConflict("workflow has no pending level")
	}
	if level.ApproverID != approverID {
		return shared.ErrUnauthorized
	}
	if level.Status != LevelStatusPending {
		return shared.NewStateConflict("level %d has already been %s", level.Level, level.Status)
	}

	now := time.Now()
	level.Status = LevelStatusRejected
	level.Comments = comments
	level.ActionDate = &now
	w.Status = WorkflowStatusRejected
	w.CompletedAt = &now
	w.AddDomainEvent(NewWorkflowRejectedEvent(w, approverID, comments))
	return nil
}

// Cancel withdraws a workflow that has not reached a terminal state
func (w *ApprovalWorkflow) Cancel() error {
	if w.Status.IsTerminal() {
		return shared.NewStateConflict("workflow is already %s", w.Status)
	}
	now := time.Now()
	w.Status = WorkflowStatusCancelled
	w.CompletedAt = &now
	return nil
}

// IsApproved reports whether the workflow completed successfully
func (w *ApprovalWorkflow) IsApproved() bool {
	return w.Status == WorkflowStatusApproved
}

// ThresholdPolicy sizes approval chains by document amount
type ThresholdPolicy struct {
	LevelTwoAbove   decimal.Decimal
	LevelThreeAbove decimal.Decimal
}

// DefaultThresholdPolicy mirrors the standard purchasing policy: a single
// approver up to 100000, two up to 500000, three beyond.
func DefaultThresholdPolicy() ThresholdPolicy {
	return ThresholdPolicy{
		LevelTwoAbove:   decimal.NewFromInt(100000),
		LevelThreeAbove: decimal.NewFromInt(500000),
	}
}

// RequiredLevels returns how many approval levels an amount needs
func (p ThresholdPolicy) RequiredLevels(amount decimal.Decimal) int {
	switch {
	case amount.GreaterThan(p.LevelThreeAbove):
		return 3
	case amount.GreaterThan(p.LevelTwoAbove):
		return 2
	default:
		return 1
	}
}
