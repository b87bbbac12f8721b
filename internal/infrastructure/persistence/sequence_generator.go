package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/backoffice/backend/internal/domain/shared"
)

// DocumentSequence is one per-tenant, per-document-type, per-year counter
type DocumentSequence struct {
	TenantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocType  string    `gorm:"type:varchar(10);primaryKey"`
	Year     int       `gorm:"primaryKey"`
	Value    int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequence) TableName() string {
	return "document_sequences"
}

// GormDocumentNumberGenerator hands out document numbers from database
// counters. The increment is a single conflict-upsert, so two concurrent
// callers can never draw the same number even on the first issuance.
type GormDocumentNumberGenerator struct {
	db *gorm.DB
}

// NewGormDocumentNumberGenerator creates a GormDocumentNumberGenerator
func NewGormDocumentNumberGenerator(db *gorm.DB) *GormDocumentNumberGenerator {
	return &GormDocumentNumberGenerator{db: db}
}

// Next returns the next document number for a tenant and document type
func (g *GormDocumentNumberGenerator) Next(ctx context.Context, tenantID uuid.UUID, docType string) (string, error) {
	seq := DocumentSequence{
		TenantID: tenantID,
		DocType:  docType,
		Year:     time.Now().Year(),
		Value:    1,
	}
	err := g.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "tenant_id"}, {Name: "doc_type"}, {Name: "year"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"value": gorm.Expr("document_sequences.value + 1"),
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "value"}}},
		).
		Create(&seq).Error
	if err != nil {
		return "", err
	}
	return shared.FormatDocumentNumber(docType, seq.Value), nil
}

var _ shared.DocumentNumberGenerator = (*GormDocumentNumberGenerator)(nil)
