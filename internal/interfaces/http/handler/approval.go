package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appapproval "github.com/backoffice/backend/internal/application/approval"
	"github.com/backoffice/backend/internal/domain/approval"
)

// ApprovalHandler exposes approval workflows over HTTP. Workflows are
// started by the owning pipelines, so the surface here is acting on and
// inspecting existing chains.
type ApprovalHandler struct {
	BaseHandler
	workflowService *appapproval.WorkflowService
}

// NewApprovalHandler creates an approval handler
func NewApprovalHandler(workflowService *appapproval.WorkflowService) *ApprovalHandler {
	return &ApprovalHandler{workflowService: workflowService}
}

// RegisterRoutes registers approval routes
func (h *ApprovalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	approvals := rg.Group("/approvals")
	{
		approvals.GET("/pending", h.ListPending)
		approvals.GET("/entity/:type/:id", h.GetByEntity)
		approvals.POST("/:id/approve", h.Approve)
		approvals.POST("/:id/reject", h.Reject)
		approvals.POST("/:id/cancel", h.Cancel)
	}
}

// approvalActionRequest carries the optional comment for an approve or
// reject action
type approvalActionRequest struct {
	Comments string `json:"comments" binding:"max=1000"`
}

// ListPending returns workflows awaiting action by the calling user
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	approverID := getUserID(c)
	if approverID == nil {
		h.BadRequest(c, "X-User-ID header is required")
		return
	}
	workflows, err := h.workflowService.ListPending(c.Request.Context(), tenantID, *approverID, parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appapproval.NewWorkflowResponses(workflows))
}

// GetByEntity returns the workflow attached to a document
func (h *ApprovalHandler) GetByEntity(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	entityID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid entity ID")
		return
	}
	entityType := approval.EntityType(c.Param("type"))
	wf, err := h.workflowService.GetByEntity(c.Request.Context(), tenantID, entityType, entityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appapproval.NewWorkflowResponse(wf))
}

// Approve records an approval by the current level's assignee
func (h *ApprovalHandler) Approve(c *gin.Context) {
	h.act(c, h.workflowService.Approve)
}

// Reject terminates the workflow at the current level
func (h *ApprovalHandler) Reject(c *gin.Context) {
	h.act(c, h.workflowService.Reject)
}

type workflowAction func(ctx context.Context, tenantID, workflowID, approverID uuid.UUID, comments string) (*approval.ApprovalWorkflow, error)

// act handles the shared shape of approve and reject
func (h *ApprovalHandler) act(c *gin.Context, fn workflowAction) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	workflowID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid workflow ID")
		return
	}
	approverID := getUserID(c)
	if approverID == nil {
		h.BadRequest(c, "X-User-ID header is required")
		return
	}
	var req approvalActionRequest
	if err := bindOptional(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	wf, err := fn(c.Request.Context(), tenantID, workflowID, *approverID, req.Comments)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appapproval.NewWorkflowResponse(wf))
}

// Cancel withdraws a workflow that has not reached a terminal state
func (h *ApprovalHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	workflowID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid workflow ID")
		return
	}
	if err := h.workflowService.Cancel(c.Request.Context(), tenantID, workflowID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
