package approval

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/approval"
)

// LevelResponse is the outward shape of one approval level
type LevelResponse struct {
	Level      int        `json:"level"`
	ApproverID uuid.UUID  `json:"approver_id"`
	Status     string     `json:"status"`
	Comments   string     `json:"comments,omitempty"`
	ActionDate *time.Time `json:"action_date,omitempty"`
}

// WorkflowResponse is the outward shape of an approval workflow
type WorkflowResponse struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	EntityType   string          `json:"entity_type"`
	EntityID     uuid.UUID       `json:"entity_id"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	CurrentLevel int             `json:"current_level"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	Levels       []LevelResponse `json:"levels"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewWorkflowResponse maps a workflow aggregate to its response shape
func NewWorkflowResponse(wf *approval.ApprovalWorkflow) WorkflowResponse {
	resp := WorkflowResponse{
		ID:           wf.ID,
		TenantID:     wf.TenantID,
		EntityType:   string(wf.EntityType),
		EntityID:     wf.EntityID,
		Amount:       wf.Amount,
		Status:       string(wf.Status),
		CurrentLevel: wf.CurrentLevel,
		CompletedAt:  wf.CompletedAt,
		Levels:       make([]LevelResponse, 0, len(wf.Levels)),
		CreatedAt:    wf.CreatedAt,
		UpdatedAt:    wf.UpdatedAt,
	}
	for _, lvl := range wf.Levels {
		resp.Levels = append(resp.Levels, LevelResponse{
			Level:      lvl.Level,
			ApproverID: lvl.ApproverID,
			Status:     string(lvl.Status),
			Comments:   lvl.Comments,
			ActionDate: lvl.ActionDate,
		})
	}
	return resp
}

// NewWorkflowResponses maps a slice of workflow aggregates
func NewWorkflowResponses(wfs []approval.ApprovalWorkflow) []WorkflowResponse {
	out := make([]WorkflowResponse, 0, len(wfs))
	for i := range wfs {
		out = append(out, NewWorkflowResponse(&wfs[i]))
	}
	return out
}
