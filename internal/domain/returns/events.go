package returns

import (
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// Event types for the return pipeline
const (
	EventTypeReturnSubmitted = "returns.purchase_return.submitted"
	EventTypeReturnApproved  = "returns.purchase_return.approved"
	EventTypeReturnRejected  = "returns.purchase_return.rejected"
	EventTypeReturnCompleted = "returns.purchase_return.completed"
	EventTypeReturnCancelled = "returns.purchase_return.cancelled"
)

// PurchaseReturnSubmittedEvent is raised when a draft enters approval
type PurchaseReturnSubmittedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber string          `json:"return_number"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// NewPurchaseReturnSubmittedEvent creates a submitted event
func NewPurchaseReturnSubmittedEvent(pr *PurchaseReturn) *PurchaseReturnSubmittedEvent {
	return &PurchaseReturnSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeReturnSubmitted, "PurchaseReturn", pr.ID, pr.TenantID),
		ReturnNumber: pr.ReturnNumber,
		TotalAmount:  pr.TotalAmount,
	}
}

// PurchaseReturnApprovedEvent is raised when the approval chain completes
type PurchaseReturnApprovedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber string          `json:"return_number"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// NewPurchaseReturnApprovedEvent creates an approved event
func NewPurchaseReturnApprovedEvent(pr *PurchaseReturn) *PurchaseReturnApprovedEvent {
	return &PurchaseReturnApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeReturnApproved, "PurchaseReturn", pr.ID, pr.TenantID),
		ReturnNumber: pr.ReturnNumber,
		TotalAmount:  pr.TotalAmount,
	}
}

// PurchaseReturnRejectedEvent is raised when approval rejects the return
type PurchaseReturnRejectedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber string `json:"return_number"`
	Reason       string `json:"reason"`
}

// NewPurchaseReturnRejectedEvent creates a rejected event
func NewPurchaseReturnRejectedEvent(pr *PurchaseReturn, reason string) *PurchaseReturnRejectedEvent {
	return &PurchaseReturnRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeReturnRejected, "PurchaseReturn", pr.ID, pr.TenantID),
		ReturnNumber: pr.ReturnNumber,
		Reason:       reason,
	}
}

// PurchaseReturnCompletedEvent is raised when the refund settles
type PurchaseReturnCompletedEvent struct {
	shared.BaseDomainEvent
	ReturnNumber string          `json:"return_number"`
	RefundMode   RefundMode      `json:"refund_mode"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// NewPurchaseReturnCompletedEvent creates a completed event
func NewPurchaseReturnCompletedEvent(pr *PurchaseReturn) *PurchaseReturnCompletedEvent {
	return &PurchaseReturnCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeReturnCompleted, "PurchaseReturn", pr.ID, pr.TenantID),
		ReturnNumber: pr.ReturnNumber,
		RefundMode:   pr.RefundMode,
		TotalAmount:  pr.TotalAmount,
	}
}

// PurchaseReturnCancelledEvent is raised on cancellation; WasCompleted
// distinguishes a full reversal from a simple withdrawal
type PurchaseReturnCancelledEvent struct {
	shared.BaseDomainEvent
	ReturnNumber string `json:"return_number"`
	WasCompleted bool   `json:"was_completed"`
}

// NewPurchaseReturnCancelledEvent creates a cancelled event
func NewPurchaseReturnCancelledEvent(pr *PurchaseReturn, wasCompleted bool) *PurchaseReturnCancelledEvent {
	return &PurchaseReturnCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeReturnCancelled, "PurchaseReturn", pr.ID, pr.TenantID),
		ReturnNumber: pr.ReturnNumber,
		WasCompleted: wasCompleted,
	}
}
