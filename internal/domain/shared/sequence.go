package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentNumberGenerator hands out gapless, per-tenant document numbers
// such as PO-2026-00001. Implementations must increment atomically; a
// read-then-write sequence would hand the same number to two callers.
type DocumentNumberGenerator interface {
	Next(ctx context.Context, tenantID uuid.UUID, docType string) (string, error)
}

// FormatDocumentNumber renders a sequence value as a document number,
// e.g. FormatDocumentNumber("PO", 1) in 2026 yields PO-2026-00001.
func FormatDocumentNumber(docType string, seq int) string {
	return fmt.Sprintf("%s-%d-%05d", docType, time.Now().Year(), seq)
}
