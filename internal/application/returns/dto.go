package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/returns"
)

// ReturnLineRequest is one returned line with its condition assessment
type ReturnLineRequest struct {
	ItemID      uuid.UUID       `json:"item_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Condition   string          `json:"condition" binding:"required,oneof=damaged defective resalable scrap expired wrong_item"`
	Disposition string          `json:"disposition" binding:"required,oneof=restock quarantine scrap vendor_return repair"`
	Reason      string          `json:"reason"`
}

// CreateReturnRequest creates a draft return against a purchase
type CreateReturnRequest struct {
	PurchaseID uuid.UUID           `json:"purchase_id" binding:"required"`
	Notes      string              `json:"notes"`
	Lines      []ReturnLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// SubmitReturnRequest sends a draft into approval. Approvers are ignored
// when the amount auto-approves below the first threshold.
type SubmitReturnRequest struct {
	ApproverIDs []uuid.UUID `json:"approver_ids"`
}

// CompleteReturnRequest settles an approved return through a refund
// channel
type CompleteReturnRequest struct {
	Mode          returns.RefundMode `json:"mode" binding:"required,oneof=cash bank_transfer credit_note adjust_payable"`
	BankAccountID *uuid.UUID         `json:"bank_account_id"`
}

// ReturnLineResponse is the API view of a returned line
type ReturnLineResponse struct {
	ItemID      uuid.UUID       `json:"item_id"`
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Condition   string          `json:"condition"`
	Disposition string          `json:"disposition"`
	LineValue   decimal.Decimal `json:"line_value"`
}

// ReturnResponse is the API view of a purchase return
type ReturnResponse struct {
	ID           uuid.UUID            `json:"id"`
	ReturnNumber string               `json:"return_number"`
	PurchaseID   uuid.UUID            `json:"purchase_id"`
	SupplierID   uuid.UUID            `json:"supplier_id"`
	Status       string               `json:"status"`
	TotalAmount  decimal.Decimal      `json:"total_amount"`
	RefundMode   string               `json:"refund_mode,omitempty"`
	Lines        []ReturnLineResponse `json:"lines"`
	CreatedAt    time.Time            `json:"created_at"`
}

// ToReturnResponse maps a domain return to its API view
func ToReturnResponse(pr *returns.PurchaseReturn) ReturnResponse {
	lines := make([]ReturnLineResponse, 0, len(pr.Items))
	for idx := range pr.Items {
		item := &pr.Items[idx]
		lines = append(lines, ReturnLineResponse{
			ItemID:      item.ItemID,
			SKU:         item.SKU,
			Quantity:    item.ReturnQty,
			Rate:        item.Rate,
			Condition:   string(item.Condition),
			Disposition: item.Disposition,
			LineValue:   item.LineValue(),
		})
	}
	return ReturnResponse{
		ID:           pr.ID,
		ReturnNumber: pr.ReturnNumber,
		PurchaseID:   pr.PurchaseID,
		SupplierID:   pr.SupplierID,
		Status:       string(pr.Status),
		TotalAmount:  pr.TotalAmount,
		RefundMode:   string(pr.RefundMode),
		Lines:        lines,
		CreatedAt:    pr.CreatedAt,
	}
}

// RefundResponse is the API view of a refund transaction
type RefundResponse struct {
	ID               uuid.UUID       `json:"id"`
	PurchaseReturnID uuid.UUID       `json:"purchase_return_id"`
	Mode             string          `json:"mode"`
	Amount           decimal.Decimal `json:"amount"`
	Status           string          `json:"status"`
	Reference        string          `json:"reference,omitempty"`
}

// ToRefundResponse maps a refund transaction to its API view
func ToRefundResponse(rt *returns.RefundTransaction) RefundResponse {
	return RefundResponse{
		ID:               rt.ID,
		PurchaseReturnID: rt.PurchaseReturnID,
		Mode:             string(rt.Mode),
		Amount:           rt.Amount,
		Status:           string(rt.Status),
		Reference:        rt.Reference,
	}
}
