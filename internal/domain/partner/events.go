package partner

import (
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeSupplierPayableChanged = "partner.supplier.payable_changed"
	EventTypeCustomerDuesChanged    = "partner.customer.dues_changed"
)

// SupplierPayableChangedEvent is raised whenever the accounts payable
// balance moves
type SupplierPayableChangedEvent struct {
	shared.BaseDomainEvent
	SupplierCode string          `json:"supplier_code"`
	OldBalance   decimal.Decimal `json:"old_balance"`
	NewBalance   decimal.Decimal `json:"new_balance"`
	Reason       string          `json:"reason"`
}

// NewSupplierPayableChangedEvent creates a payable changed event
func NewSupplierPayableChangedEvent(s *Supplier, oldBalance, newBalance decimal.Decimal, reason string) *SupplierPayableChangedEvent {
	return &SupplierPayableChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeSupplierPayableChanged, "Supplier", s.ID, s.TenantID),
		SupplierCode: s.Code,
		OldBalance:   oldBalance,
		NewBalance:   newBalance,
		Reason:       reason,
	}
}

// CustomerDuesChangedEvent is raised whenever the receivable balance moves
type CustomerDuesChangedEvent struct {
	shared.BaseDomainEvent
	CustomerCode string          `json:"customer_code"`
	OldDues      decimal.Decimal `json:"old_dues"`
	NewDues      decimal.Decimal `json:"new_dues"`
	Reason       string          `json:"reason"`
}

// NewCustomerDuesChangedEvent creates a dues changed event
func NewCustomerDuesChangedEvent(c *Customer, oldDues, newDues decimal.Decimal, reason string) *CustomerDuesChangedEvent {
	return &CustomerDuesChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeCustomerDuesChanged, "Customer", c.ID, c.TenantID),
		CustomerCode: c.Code,
		OldDues:      oldDues,
		NewDues:      newDues,
		Reason:       reason,
	}
}
