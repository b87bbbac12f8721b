package returns

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/shared"
)

// ReturnStatus represents the state of a purchase return
type ReturnStatus string

const (
	ReturnStatusDraft           ReturnStatus = "draft"
	ReturnStatusPendingApproval ReturnStatus = "pending_approval"
	ReturnStatusApproved        ReturnStatus = "approved"
	ReturnStatusRejected        ReturnStatus = "rejected"
	ReturnStatusCompleted       ReturnStatus = "completed"
	ReturnStatusCancelled       ReturnStatus = "cancelled"
)

// CountsAgainstReturnable reports whether quantities on a return in this
// status consume the returnable balance of the source purchase. Cancelled
// and rejected returns do not.
func (s ReturnStatus) CountsAgainstReturnable() bool {
	return s != ReturnStatusCancelled && s != ReturnStatusRejected
}

// ItemCondition describes the physical state of returned goods
type ItemCondition string

const (
	ConditionDamaged   ItemCondition = "damaged"
	ConditionDefective ItemCondition = "defective"
	ConditionResalable ItemCondition = "resalable"
	ConditionScrap     ItemCondition = "scrap"
	ConditionExpired   ItemCondition = "expired"
	ConditionWrongItem ItemCondition = "wrong_item"
)

// AllowedDispositions returns the dispositions compatible with a condition.
// The table is explicit: goods can only go where their condition permits.
func AllowedDispositions(condition ItemCondition) []string {
	switch condition {
	case ConditionDamaged:
		return []string{inventory.DispositionQuarantine, inventory.DispositionScrap, inventory.DispositionVendorReturn}
	case ConditionDefective:
		return []string{inventory.DispositionQuarantine, inventory.DispositionRepair, inventory.DispositionVendorReturn, inventory.DispositionScrap}
	case ConditionResalable:
		return []string{inventory.DispositionRestock, inventory.DispositionVendorReturn}
	case ConditionScrap:
		return []string{inventory.DispositionScrap}
	case ConditionExpired:
		return []string{inventory.DispositionScrap, inventory.DispositionVendorReturn}
	case ConditionWrongItem:
		return []string{inventory.DispositionVendorReturn, inventory.DispositionRestock}
	default:
		return nil
	}
}

// ValidateDisposition checks a condition and disposition pairing
func ValidateDisposition(condition ItemCondition, disposition string) error {
	allowed := AllowedDispositions(condition)
	if allowed == nil {
		return shared.NewValidationError("unknown item condition: %s", condition)
	}
	for _, d := range allowed {
		if d == disposition {
			return nil
		}
	}
	return shared.NewValidationError(
		"disposition %q is not allowed for condition %q (allowed: %v)",
		disposition, condition, allowed)
}

// ValidateReturnQty checks a requested return quantity against what was
// purchased and what earlier returns already consumed
func ValidateReturnQty(sku string, purchased, previouslyReturned, requested decimal.Decimal) error {
	available := purchased.Sub(previouslyReturned)
	if requested.GreaterThan(available) {
		return shared.NewValidationError(
			"return quantity %s exceeds returnable quantity for %s. Purchased: %s, Previously returned: %s, Available: %s",
			requested.String(), sku, purchased.String(), previouslyReturned.String(), available.String())
	}
	return nil
}

// PurchaseReturnItem is a returned line with its condition assessment and
// disposition decision
type PurchaseReturnItem struct {
	shared.BaseEntity
	PurchaseReturnID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null"`
	SKU              string          `gorm:"type:varchar(64);not null"`
	ReturnQty        decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	Rate             decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	Condition        ItemCondition   `gorm:"type:varchar(20);not null"`
	Disposition      string          `gorm:"type:varchar(20);not null"`
	Reason           string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PurchaseReturnItem) TableName() string {
	return "purchase_return_items"
}

// LineValue returns the refundable value of the line
func (i *PurchaseReturnItem) LineValue() decimal.Decimal {
	return i.ReturnQty.Mul(i.Rate).Round(2)
}

// PurchaseReturn sends goods back to a supplier against a purchase. Stock
// leaves on approval, money comes back through one of the refund channels
// on completion, and a completed return can be fully reversed.
type PurchaseReturn struct {
	shared.TenantAggregateRoot
	ReturnNumber string               `gorm:"type:varchar(40);not null;index"`
	PurchaseID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	SupplierID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	Status       ReturnStatus         `gorm:"type:varchar(20);not null;default:'draft'"`
	TotalAmount  decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0"`
	RefundMode   RefundMode           `gorm:"type:varchar(20)"`
	Notes        string               `gorm:"type:text"`
	Items        []PurchaseReturnItem `gorm:"foreignKey:PurchaseReturnID"`
}

// TableName returns the table name for GORM
func (PurchaseReturn) TableName() string {
	return "purchase_returns"
}

// NewPurchaseReturn creates a draft return against a purchase
func NewPurchaseReturn(tenantID uuid.UUID, returnNumber string, purchaseID, supplierID uuid.UUID) (*PurchaseReturn, error) {
	if returnNumber == "" {
		return nil, shared.NewValidationError("return number is required")
	}
	if purchaseID == uuid.Nil {
		return nil, shared.NewValidationError("source purchase is required")
	}
	return &PurchaseReturn{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReturnNumber:        returnNumber,
		PurchaseID:          purchaseID,
		SupplierID:          supplierID,
		Status:              ReturnStatusDraft,
		TotalAmount:         decimal.Zero,
	}, nil
}

// AddItem adds a returned line to a draft. The condition and disposition
// pairing is validated here so an impossible combination never reaches the
// ledger.
func (pr *PurchaseReturn) AddItem(itemID uuid.UUID, sku string, qty, rate decimal.Decimal, condition ItemCondition, disposition, reason string) error {
	if pr.Status != ReturnStatusDraft {
		return shared.NewStateConflict("items can only be added to a draft return")
	}
	if !qty.IsPositive() {
		return shared.NewValidationError("return quantity must be positive")
	}
	if err := ValidateDisposition(condition, disposition); err != nil {
		return err
	}
	for _, existing := range pr.Items {
		if existing.ItemID == itemID {
			return shared.NewValidationError("item %s is already on the return", sku)
		}
	}
	item := PurchaseReturnItem{
		BaseEntity:       shared.NewBaseEntity(),
		PurchaseReturnID: pr.ID,
		ItemID:           itemID,
		SKU:              sku,
		ReturnQty:        qty,
		Rate:             rate,
		Condition:        condition,
		Disposition:      disposition,
		Reason:           reason,
	}
	pr.Items = append(pr.Items, item)
	pr.recalculateTotal()
	return nil
}

// Submit moves a draft into the approval pipeline
func (pr *PurchaseReturn) Submit() error {
	if pr.Status != ReturnStatusDraft {
		return shared.NewStateConflict("only draft returns can be submitted, current status: %s", pr.Status)
	}
	if len(pr.Items) == 0 {
		return shared.NewValidationError("cannot submit a return without items")
	}
	pr.Status = ReturnStatusPendingApproval
	pr.AddDomainEvent(NewPurchaseReturnSubmittedEvent(pr))
	return nil
}

// MarkApproved records that the approval chain completed. The caller posts
// the disposition stock movements and the payable reduction in the same
// transaction.
func (pr *PurchaseReturn) MarkApproved() error {
	if pr.Status != ReturnStatusPendingApproval {
		return shared.NewStateConflict("cannot approve return in status %s", pr.Status)
	}
	pr.Status = ReturnStatusApproved
	pr.AddDomainEvent(NewPurchaseReturnApprovedEvent(pr))
	return nil
}

// MarkRejected terminates the return with no stock or money effects
func (pr *PurchaseReturn) MarkRejected(reason string) error {
	if pr.Status != ReturnStatusPendingApproval {
		return shared.NewStateConflict("cannot reject return in status %s", pr.Status)
	}
	pr.Status = ReturnStatusRejected
	pr.AddDomainEvent(NewPurchaseReturnRejectedEvent(pr, reason))
	return nil
}

// Complete settles the return through a refund channel
func (pr *PurchaseReturn) Complete(mode RefundMode) error {
	if pr.Status != ReturnStatusApproved {
		return shared.NewStateConflict("only approved returns can be completed, current status: %s", pr.Status)
	}
	if !mode.IsValid() {
		return shared.NewValidationError("invalid refund mode: %s", mode)
	}
	pr.Status = ReturnStatusCompleted
	pr.RefundMode = mode
	pr.AddDomainEvent(NewPurchaseReturnCompletedEvent(pr))
	return nil
}

// Cancel terminates the return. It reports whether the return had already
// been completed, in which case the caller must reverse the stock, payable
// and refund effects in the same transaction.
func (pr *PurchaseReturn) Cancel() (wasCompleted bool, err error) {
	switch pr.Status {
	case ReturnStatusCancelled, ReturnStatusRejected:
		return false, shared.NewStateConflict("return is already %s", pr.Status)
	case ReturnStatusCompleted:
		wasCompleted = true
	}
	pr.Status = ReturnStatusCancelled
	pr.AddDomainEvent(NewPurchaseReturnCancelledEvent(pr, wasCompleted))
	return wasCompleted, nil
}

// ReturnedQty returns the quantity of an item on this return
func (pr *PurchaseReturn) ReturnedQty(itemID uuid.UUID) decimal.Decimal {
	for _, item := range pr.Items {
		if item.ItemID == itemID {
			return item.ReturnQty
		}
	}
	return decimal.Zero
}

func (pr *PurchaseReturn) recalculateTotal() {
	total := decimal.Zero
	for _, item := range pr.Items {
		total = total.Add(item.LineValue())
	}
	pr.TotalAmount = total
}
