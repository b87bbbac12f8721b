package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/procurement"
)

// PurchaseOrderLineRequest is one line on a create request
type PurchaseOrderLineRequest struct {
	ItemID          uuid.UUID       `json:"item_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	Rate            decimal.Decimal `json:"rate" binding:"required"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// CreatePurchaseOrderRequest creates a draft order
type CreatePurchaseOrderRequest struct {
	SupplierID uuid.UUID                  `json:"supplier_id" binding:"required"`
	Notes      string                     `json:"notes"`
	Lines      []PurchaseOrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// SubmitPurchaseOrderRequest sends a draft into approval
type SubmitPurchaseOrderRequest struct {
	ApproverIDs []uuid.UUID `json:"approver_ids" binding:"required,min=1"`
}

// GoodsReceiptLineRequest is one received line
type GoodsReceiptLineRequest struct {
	ItemID      uuid.UUID       `json:"item_id" binding:"required"`
	ReceivedQty decimal.Decimal `json:"received_qty" binding:"required"`
	RejectedQty decimal.Decimal `json:"rejected_qty"`
	BatchNo     string          `json:"batch_no"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
}

// CreateGoodsReceiptRequest creates a draft receipt against an order
type CreateGoodsReceiptRequest struct {
	PurchaseOrderID uuid.UUID                 `json:"purchase_order_id" binding:"required"`
	Notes           string                    `json:"notes"`
	Lines           []GoodsReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// PurchaseOrderLineResponse is the API view of an order line
type PurchaseOrderLineResponse struct {
	ItemID      uuid.UUID       `json:"item_id"`
	SKU         string          `json:"sku"`
	OrderedQty  decimal.Decimal `json:"ordered_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	PendingQty  decimal.Decimal `json:"pending_qty"`
	Rate        decimal.Decimal `json:"rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// PurchaseOrderResponse is the API view of a purchase order
type PurchaseOrderResponse struct {
	ID          uuid.UUID                   `json:"id"`
	OrderNumber string                      `json:"order_number"`
	SupplierID  uuid.UUID                   `json:"supplier_id"`
	Status      string                      `json:"status"`
	TotalAmount decimal.Decimal             `json:"total_amount"`
	Converted   bool                        `json:"converted_to_purchase"`
	Lines       []PurchaseOrderLineResponse `json:"lines"`
	CreatedAt   time.Time                   `json:"created_at"`
}

// ToPurchaseOrderResponse maps a domain order to its API view
func ToPurchaseOrderResponse(po *procurement.PurchaseOrder) PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, 0, len(po.Items))
	for idx := range po.Items {
		item := &po.Items[idx]
		lines = append(lines, PurchaseOrderLineResponse{
			ItemID:      item.ItemID,
			SKU:         item.SKU,
			OrderedQty:  item.OrderedQty,
			ReceivedQty: item.ReceivedQty,
			PendingQty:  item.PendingQty(),
			Rate:        item.Rate,
			LineTotal:   item.LineTotal,
		})
	}
	return PurchaseOrderResponse{
		ID:          po.ID,
		OrderNumber: po.OrderNumber,
		SupplierID:  po.SupplierID,
		Status:      string(po.Status),
		TotalAmount: po.TotalAmount,
		Converted:   po.ConvertedToPurchase,
		Lines:       lines,
		CreatedAt:   po.CreatedAt,
	}
}

// GoodsReceiptResponse is the API view of a goods receipt note
type GoodsReceiptResponse struct {
	ID              uuid.UUID       `json:"id"`
	ReceiptNumber   string          `json:"receipt_number"`
	PurchaseOrderID uuid.UUID       `json:"purchase_order_id"`
	Status          string          `json:"status"`
	TotalValue      decimal.Decimal `json:"total_value"`
	FinalizedAt     *time.Time      `json:"finalized_at,omitempty"`
}

// ToGoodsReceiptResponse maps a domain receipt to its API view
func ToGoodsReceiptResponse(grn *procurement.GoodsReceiptNote) GoodsReceiptResponse {
	return GoodsReceiptResponse{
		ID:              grn.ID,
		ReceiptNumber:   grn.ReceiptNumber,
		PurchaseOrderID: grn.PurchaseOrderID,
		Status:          string(grn.Status),
		TotalValue:      grn.TotalValue,
		FinalizedAt:     grn.FinalizedAt,
	}
}

// PurchaseLineResponse is the API view of a purchase line
type PurchaseLineResponse struct {
	ItemID    uuid.UUID       `json:"item_id"`
	SKU       string          `json:"sku"`
	Quantity  decimal.Decimal `json:"quantity"`
	Rate      decimal.Decimal `json:"rate"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// PurchaseResponse is the API view of a purchase document
type PurchaseResponse struct {
	ID              uuid.UUID              `json:"id"`
	PurchaseNumber  string                 `json:"purchase_number"`
	PurchaseOrderID *uuid.UUID             `json:"purchase_order_id,omitempty"`
	SupplierID      uuid.UUID              `json:"supplier_id"`
	Status          string                 `json:"status"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	Notes           string                 `json:"notes,omitempty"`
	CancelReason    string                 `json:"cancel_reason,omitempty"`
	Lines           []PurchaseLineResponse `json:"lines"`
	CreatedAt       time.Time              `json:"created_at"`
}

// ToPurchaseResponse maps a domain purchase to its API view
func ToPurchaseResponse(p *procurement.Purchase) PurchaseResponse {
	lines := make([]PurchaseLineResponse, 0, len(p.Items))
	for idx := range p.Items {
		item := &p.Items[idx]
		lines = append(lines, PurchaseLineResponse{
			ItemID:    item.ItemID,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			Rate:      item.Rate,
			LineTotal: item.LineTotal,
		})
	}
	return PurchaseResponse{
		ID:              p.ID,
		PurchaseNumber:  p.PurchaseNumber,
		PurchaseOrderID: p.PurchaseOrderID,
		SupplierID:      p.SupplierID,
		Status:          string(p.Status),
		TotalAmount:     p.TotalAmount,
		Notes:           p.Notes,
		CancelReason:    p.CancelReason,
		Lines:           lines,
		CreatedAt:       p.CreatedAt,
	}
}
