package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/shared"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Customer is a buyer. Dues is the running receivable balance: invoices
// increase it, payments reduce it.
type Customer struct {
	shared.TenantAggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_customers_tenant_code"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Status      CustomerStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	Phone       string          `gorm:"type:varchar(50)"`
	Email       string          `gorm:"type:varchar(200)"`
	Dues        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Notes       string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates an active customer
func NewCustomer(tenantID uuid.UUID, code, name string) (*Customer, error) {
	if code == "" {
		return nil, shared.NewValidationError("customer code is required")
	}
	if name == "" {
		return nil, shared.NewValidationError("customer name is required")
	}
	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              CustomerStatusActive,
		Dues:                decimal.Zero,
		CreditLimit:         decimal.Zero,
	}, nil
}

// AddDues increases the receivable balance when an invoice is raised
func (c *Customer) AddDues(amount decimal.Decimal, reason string) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("dues amount must be positive")
	}
	oldDues := c.Dues
	c.Dues = c.Dues.Add(amount)
	c.touch()
	c.AddDomainEvent(NewCustomerDuesChangedEvent(c, oldDues, c.Dues, reason))
	return nil
}

// ReduceDues decreases the receivable balance when a payment is received
func (c *Customer) ReduceDues(amount decimal.Decimal, reason string) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("dues amount must be positive")
	}
	if c.Dues.LessThan(amount) {
		return shared.NewInvariantViolation(
			"reducing dues by %s for customer %s would go below zero (dues %s)",
			amount.String(), c.Code, c.Dues.String())
	}
	oldDues := c.Dues
	c.Dues = c.Dues.Sub(amount)
	c.touch()
	c.AddDomainEvent(NewCustomerDuesChangedEvent(c, oldDues, c.Dues, reason))
	return nil
}

// IsOverCreditLimit reports whether dues exceed the configured limit.
// A zero limit means no limit.
func (c *Customer) IsOverCreditLimit() bool {
	if c.CreditLimit.IsZero() {
		return false
	}
	return c.Dues.GreaterThan(c.CreditLimit)
}

// IsActive returns true if the customer is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// Deactivate takes the customer out of use. Outstanding dues survive
// deactivation.
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewStateConflict("customer is already inactive")
	}
	c.Status = CustomerStatusInactive
	c.touch()
	return nil
}

// Activate re-activates an inactive customer
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewStateConflict("customer is already active")
	}
	c.Status = CustomerStatusActive
	c.touch()
	return nil
}

func (c *Customer) touch() {
	c.UpdatedAt = time.Now()
}
