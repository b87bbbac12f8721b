package persistence

import (
	"gorm.io/gorm"

	"github.com/backoffice/backend/internal/domain/approval"
	"github.com/backoffice/backend/internal/domain/fulfillment"
	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/procurement"
	"github.com/backoffice/backend/internal/domain/returns"
)

// AutoMigrate creates or updates every table the module persists
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&inventory.StockItem{},
		&inventory.StockBatch{},
		&inventory.StockMovement{},
		&approval.ApprovalWorkflow{},
		&approval.ApprovalLevel{},
		&procurement.PurchaseOrder{},
		&procurement.PurchaseOrderItem{},
		&procurement.GoodsReceiptNote{},
		&procurement.GoodsReceiptItem{},
		&procurement.Purchase{},
		&procurement.PurchaseItem{},
		&fulfillment.SalesOrder{},
		&fulfillment.SalesOrderItem{},
		&fulfillment.DeliveryChallan{},
		&fulfillment.DeliveryChallanItem{},
		&fulfillment.Invoice{},
		&fulfillment.InvoiceItem{},
		&returns.PurchaseReturn{},
		&returns.PurchaseReturnItem{},
		&returns.RefundTransaction{},
		&partner.Supplier{},
		&partner.Customer{},
		&partner.BankAccount{},
		&partner.SupplierCreditNote{},
		&partner.CashBankTransaction{},
		&partner.PaymentTransaction{},
		&DocumentSequence{},
	)
}
