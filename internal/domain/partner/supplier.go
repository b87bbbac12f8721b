package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
	SupplierStatusBlocked  SupplierStatus = "blocked"
)

// Supplier is a vendor we buy from. PayableBalance is the running
// accounts payable: goods receipts increase it, payments and purchase
// returns reduce it.
type Supplier struct {
	shared.TenantAggregateRoot
	Code           string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_suppliers_tenant_code"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Status         SupplierStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName    string          `gorm:"type:varchar(100)"`
	Phone          string          `gorm:"type:varchar(50)"`
	Email          string          `gorm:"type:varchar(200)"`
	TaxID          string          `gorm:"type:varchar(50)"`
	PayableBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Notes          string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates an active supplier
func NewSupplier(tenantID uuid.UUID, code, name string) (*Supplier, error) {
	if code == "" {
		return nil, shared.NewValidationError("supplier code is required")
	}
	if name == "" {
		return nil, shared.NewValidationError("supplier name is required")
	}
	return &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              SupplierStatusActive,
		PayableBalance:      decimal.Zero,
	}, nil
}

// AddPayable increases the accounts payable balance (goods received)
func (s *Supplier) AddPayable(amount decimal.Decimal, reason string) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("payable amount must be positive")
	}
	oldBalance := s.PayableBalance
	s.PayableBalance = s.PayableBalance.Add(amount)
	s.touch()
	s.AddDomainEvent(NewSupplierPayableChangedEvent(s, oldBalance, s.PayableBalance, reason))
	return nil
}

// ReducePayable decreases the accounts payable balance (payment made or
// goods returned). Driving the balance negative is an invariant
// violation, not a silent clamp.
func (s *Supplier) ReducePayable(amount decimal.Decimal, reason string) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("payable amount must be positive")
	}
	if s.PayableBalance.LessThan(amount) {
		return shared.NewInvariantViolation(
			"reducing payable by %s for supplier %s would go below zero (balance %s)",
			amount.String(), s.Code, s.PayableBalance.String())
	}
	oldBalance := s.PayableBalance
	s.PayableBalance = s.PayableBalance.Sub(amount)
	s.touch()
	s.AddDomainEvent(NewSupplierPayableChangedEvent(s, oldBalance, s.PayableBalance, reason))
	return nil
}

// IsActive returns true if the supplier is active
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}

// Block blocks the supplier from further purchasing
func (s *Supplier) Block() error {
	if s.Status == SupplierStatusBlocked {
		return shared.NewStateConflict("supplier is already blocked")
	}
	s.Status = SupplierStatusBlocked
	s.touch()
	return nil
}

// Activate re-activates an inactive or blocked supplier
func (s *Supplier) Activate() error {
	if s.Status == SupplierStatusActive {
		return shared.NewStateConflict("supplier is already active")
	}
	s.Status = SupplierStatusActive
	s.touch()
	return nil
}

func (s *Supplier) touch() {
	s.UpdatedAt = time.Now()
}
