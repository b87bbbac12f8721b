package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockBatch is a received lot of a batch-tracked item. Batches are
// appended on goods receipt and consumed for expiry reporting; they do not
// participate in the bucket arithmetic.
type StockBatch struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNo    string          `gorm:"type:varchar(64);not null"`
	Quantity   decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	Rate       decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	ExpiryDate *time.Time
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockBatch) TableName() string {
	return "stock_batches"
}

// NewStockBatch creates a batch record for a received lot
func NewStockBatch(itemID, tenantID uuid.UUID, batchNo string, qty, rate decimal.Decimal) *StockBatch {
	return &StockBatch{
		ID:        uuid.New(),
		TenantID:  tenantID,
		ItemID:    itemID,
		BatchNo:   batchNo,
		Quantity:  qty,
		Rate:      rate,
		CreatedAt: time.Now(),
	}
}

// WithExpiry sets the batch expiry date
func (b *StockBatch) WithExpiry(expiry time.Time) *StockBatch {
	b.ExpiryDate = &expiry
	return b
}

// IsExpired reports whether the batch has passed its expiry date
func (b *StockBatch) IsExpired(now time.Time) bool {
	return b.ExpiryDate != nil && b.ExpiryDate.Before(now)
}
