// Package apptest provides in-memory repository fakes shared by the
// application layer tests. The fakes keep aggregates in maps and make no
// attempt at transactional behavior; services under test pair them with
// a NoOpTransactionScope.
package apptest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	appinventory "github.com/backoffice/backend/internal/application/inventory"
	"github.com/backoffice/backend/internal/domain/approval"
	"github.com/backoffice/backend/internal/domain/fulfillment"
	"github.com/backoffice/backend/internal/domain/inventory"
	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/procurement"
	"github.com/backoffice/backend/internal/domain/returns"
	"github.com/backoffice/backend/internal/domain/shared"
)

// memStore is a generic in-memory aggregate store
type memStore[T any] struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*T
	getID     func(*T) uuid.UUID
	getTenant func(*T) uuid.UUID
	// SaveErr, when set, is returned by every Save and SaveWithLock call
	SaveErr error
}

func newMemStore[T any](getID, getTenant func(*T) uuid.UUID) *memStore[T] {
	return &memStore[T]{
		items:     make(map[uuid.UUID]*T),
		getID:     getID,
		getTenant: getTenant,
	}
}

func (s *memStore[T]) FindByID(_ context.Context, id uuid.UUID) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.items[id]; ok {
		return item, nil
	}
	return nil, shared.ErrNotFound
}

func (s *memStore[T]) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.items[id]; ok && s.getTenant(item) == tenantID {
		return item, nil
	}
	return nil, shared.ErrNotFound
}

func (s *memStore[T]) FindAll(_ context.Context, _ shared.Filter) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]T, 0, len(s.items))
	for _, item := range s.items {
		result = append(result, *item)
	}
	return result, nil
}

func (s *memStore[T]) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if s.getTenant(item) == tenantID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (s *memStore[T]) Save(_ context.Context, entity *T) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[s.getID(entity)] = entity
	return nil
}

func (s *memStore[T]) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *memStore[T]) Count(_ context.Context, _ shared.Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

func (s *memStore[T]) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, item := range s.items {
		if s.getTenant(item) == tenantID {
			count++
		}
	}
	return count, nil
}

func (s *memStore[T]) all() []*T {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*T, 0, len(s.items))
	for _, item := range s.items {
		result = append(result, item)
	}
	return result
}

// FakeStockItemRepo is an in-memory inventory.StockItemRepository
type FakeStockItemRepo struct {
	*memStore[inventory.StockItem]
}

// NewFakeStockItemRepo creates an empty repo
func NewFakeStockItemRepo() *FakeStockItemRepo {
	return &FakeStockItemRepo{newMemStore(
		func(i *inventory.StockItem) uuid.UUID { return i.ID },
		func(i *inventory.StockItem) uuid.UUID { return i.TenantID },
	)}
}

// FindBySKU looks up an item by SKU
func (r *FakeStockItemRepo) FindBySKU(_ context.Context, tenantID uuid.UUID, sku string) (*inventory.StockItem, error) {
	for _, item := range r.all() {
		if item.TenantID == tenantID && item.SKU == sku {
			return item, nil
		}
	}
	return nil, shared.ErrNotFound
}

// SaveWithLock saves without real lock semantics
func (r *FakeStockItemRepo) SaveWithLock(ctx context.Context, item *inventory.StockItem) error {
	return r.Save(ctx, item)
}

// FindBelowReorderLevel lists items under their reorder level
func (r *FakeStockItemRepo) FindBelowReorderLevel(_ context.Context, tenantID uuid.UUID) ([]inventory.StockItem, error) {
	var result []inventory.StockItem
	for _, item := range r.all() {
		if item.TenantID == tenantID && item.ReorderLevel.IsPositive() && item.StockQty.LessThan(item.ReorderLevel) {
			result = append(result, *item)
		}
	}
	return result, nil
}

// FakeMovementRepo is an append-only in-memory ledger
type FakeMovementRepo struct {
	mu        sync.Mutex
	Entries   []*inventory.StockMovement
	AppendErr error
}

// NewFakeMovementRepo creates an empty ledger
func NewFakeMovementRepo() *FakeMovementRepo {
	return &FakeMovementRepo{}
}

// Append stores ledger entries
func (r *FakeMovementRepo) Append(_ context.Context, movements ...*inventory.StockMovement) error {
	if r.AppendErr != nil {
		return r.AppendErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, movements...)
	return nil
}

// FindByItem lists entries for an item
func (r *FakeMovementRepo) FindByItem(_ context.Context, tenantID, itemID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []inventory.StockMovement
	for _, m := range r.Entries {
		if m.TenantID == tenantID && m.ItemID == itemID {
			result = append(result, *m)
		}
	}
	return result, nil
}

// FindBySource lists entries caused by a document
func (r *FakeMovementRepo) FindBySource(_ context.Context, tenantID, sourceID uuid.UUID) ([]inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []inventory.StockMovement
	for _, m := range r.Entries {
		if m.TenantID == tenantID && m.SourceID == sourceID {
			result = append(result, *m)
		}
	}
	return result, nil
}

// CountByType counts entries of a movement type
func (r *FakeMovementRepo) CountByType(_ context.Context, tenantID uuid.UUID, movementType inventory.MovementType) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.Entries {
		if m.TenantID == tenantID && m.MovementType == movementType {
			count++
		}
	}
	return count, nil
}

// OfType returns stored entries of a movement type, in insertion order
func (r *FakeMovementRepo) OfType(movementType inventory.MovementType) []*inventory.StockMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*inventory.StockMovement
	for _, m := range r.Entries {
		if m.MovementType == movementType {
			result = append(result, m)
		}
	}
	return result
}

// FakeWorkflowRepo is an in-memory approval.WorkflowRepository
type FakeWorkflowRepo struct {
	*memStore[approval.ApprovalWorkflow]
}

// NewFakeWorkflowRepo creates an empty repo
func NewFakeWorkflowRepo() *FakeWorkflowRepo {
	return &FakeWorkflowRepo{newMemStore(
		func(w *approval.ApprovalWorkflow) uuid.UUID { return w.ID },
		func(w *approval.ApprovalWorkflow) uuid.UUID { return w.TenantID },
	)}
}

// FindByEntity returns the workflow attached to a document
func (r *FakeWorkflowRepo) FindByEntity(_ context.Context, tenantID uuid.UUID, entityType approval.EntityType, entityID uuid.UUID) (*approval.ApprovalWorkflow, error) {
	for _, wf := range r.all() {
		if wf.TenantID == tenantID && wf.EntityType == entityType && wf.EntityID == entityID {
			return wf, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindPendingForApprover lists workflows awaiting the approver
func (r *FakeWorkflowRepo) FindPendingForApprover(_ context.Context, tenantID, approverID uuid.UUID, _ shared.Filter) ([]approval.ApprovalWorkflow, error) {
	var result []approval.ApprovalWorkflow
	for _, wf := range r.all() {
		if wf.TenantID != tenantID || wf.Status.IsTerminal() {
			continue
		}
		if level := wf.CurrentLevelEntry(); level != nil && level.ApproverID == approverID {
			result = append(result, *wf)
		}
	}
	return result, nil
}

// SaveWithLock saves without real lock semantics
func (r *FakeWorkflowRepo) SaveWithLock(ctx context.Context, wf *approval.ApprovalWorkflow) error {
	return r.Save(ctx, wf)
}

// FakePurchaseOrderRepo is an in-memory procurement.PurchaseOrderRepository
type FakePurchaseOrderRepo struct {
	*memStore[procurement.PurchaseOrder]
}

// NewFakePurchaseOrderRepo creates an empty repo
func NewFakePurchaseOrderRepo() *FakePurchaseOrderRepo {
	return &FakePurchaseOrderRepo{newMemStore(
		func(po *procurement.PurchaseOrder) uuid.UUID { return po.ID },
		func(po *procurement.PurchaseOrder) uuid.UUID { return po.TenantID },
	)}
}

// FindByOrderNumber looks up an order by number
func (r *FakePurchaseOrderRepo) FindByOrderNumber(_ context.Context, tenantID uuid.UUID, orderNumber string) (*procurement.PurchaseOrder, error) {
	for _, po := range r.all() {
		if po.TenantID == tenantID && po.OrderNumber == orderNumber {
			return po, nil
		}
	}
	return nil, shared.ErrNotFound
}

// SaveWithLock saves without real lock semantics
func (r *FakePurchaseOrderRepo) SaveWithLock(ctx context.Context, po *procurement.PurchaseOrder) error {
	return r.Save(ctx, po)
}

// FakeGoodsReceiptRepo is an in-memory procurement.GoodsReceiptRepository
type FakeGoodsReceiptRepo struct {
	*memStore[procurement.GoodsReceiptNote]
}

// NewFakeGoodsReceiptRepo creates an empty repo
func NewFakeGoodsReceiptRepo() *FakeGoodsReceiptRepo {
	return &FakeGoodsReceiptRepo{newMemStore(
		func(grn *procurement.GoodsReceiptNote) uuid.UUID { return grn.ID },
		func(grn *procurement.GoodsReceiptNote) uuid.UUID { return grn.TenantID },
	)}
}

// FindByPurchaseOrder lists receipts against an order
func (r *FakeGoodsReceiptRepo) FindByPurchaseOrder(_ context.Context, tenantID, purchaseOrderID uuid.UUID) ([]procurement.GoodsReceiptNote, error) {
	var result []procurement.GoodsReceiptNote
	for _, grn := range r.all() {
		if grn.TenantID == tenantID && grn.PurchaseOrderID == purchaseOrderID {
			result = append(result, *grn)
		}
	}
	return result, nil
}

// SaveWithLock saves without real lock semantics
func (r *FakeGoodsReceiptRepo) SaveWithLock(ctx context.Context, grn *procurement.GoodsReceiptNote) error {
	return r.Save(ctx, grn)
}

// FakePurchaseRepo is an in-memory procurement.PurchaseRepository
type FakePurchaseRepo struct {
	*memStore[procurement.Purchase]
}

// NewFakePurchaseRepo creates an empty repo
func NewFakePurchaseRepo() *FakePurchaseRepo {
	return &FakePurchaseRepo{newMemStore(
		func(p *procurement.Purchase) uuid.UUID { return p.ID },
		func(p *procurement.Purchase) uuid.UUID { return p.TenantID },
	)}
}

// SaveWithLock saves without real lock semantics
func (r *FakePurchaseRepo) SaveWithLock(ctx context.Context, p *procurement.Purchase) error {
	return r.Save(ctx, p)
}

// FindByPurchaseOrder returns the purchase converted from an order
func (r *FakePurchaseRepo) FindByPurchaseOrder(_ context.Context, tenantID, purchaseOrderID uuid.UUID) (*procurement.Purchase, error) {
	for _, p := range r.all() {
		if p.TenantID == tenantID && p.PurchaseOrderID != nil && *p.PurchaseOrderID == purchaseOrderID {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FakeSalesOrderRepo is an in-memory fulfillment.SalesOrderRepository
type FakeSalesOrderRepo struct {
	*memStore[fulfillment.SalesOrder]
}

// NewFakeSalesOrderRepo creates an empty repo
func NewFakeSalesOrderRepo() *FakeSalesOrderRepo {
	return &FakeSalesOrderRepo{newMemStore(
		func(so *fulfillment.SalesOrder) uuid.UUID { return so.ID },
		func(so *fulfillment.SalesOrder) uuid.UUID { return so.TenantID },
	)}
}

// FindByOrderNumber looks up an order by number
func (r *FakeSalesOrderRepo) FindByOrderNumber(_ context.Context, tenantID uuid.UUID, orderNumber string) (*fulfillment.SalesOrder, error) {
	for _, so := range r.all() {
		if so.TenantID == tenantID && so.OrderNumber == orderNumber {
			return so, nil
		}
	}
	return nil, shared.ErrNotFound
}

// SaveWithLock saves without real lock semantics
func (r *FakeSalesOrderRepo) SaveWithLock(ctx context.Context, so *fulfillment.SalesOrder) error {
	return r.Save(ctx, so)
}

// FakeChallanRepo is an in-memory fulfillment.DeliveryChallanRepository
type FakeChallanRepo struct {
	*memStore[fulfillment.DeliveryChallan]
}

// NewFakeChallanRepo creates an empty repo
func NewFakeChallanRepo() *FakeChallanRepo {
	return &FakeChallanRepo{newMemStore(
		func(dc *fulfillment.DeliveryChallan) uuid.UUID { return dc.ID },
		func(dc *fulfillment.DeliveryChallan) uuid.UUID { return dc.TenantID },
	)}
}

// FindBySalesOrder lists challans cut against an order
func (r *FakeChallanRepo) FindBySalesOrder(_ context.Context, tenantID, salesOrderID uuid.UUID) ([]fulfillment.DeliveryChallan, error) {
	var result []fulfillment.DeliveryChallan
	for _, dc := range r.all() {
		if dc.TenantID == tenantID && dc.SalesOrderID == salesOrderID {
			result = append(result, *dc)
		}
	}
	return result, nil
}

// SaveWithLock saves without real lock semantics
func (r *FakeChallanRepo) SaveWithLock(ctx context.Context, dc *fulfillment.DeliveryChallan) error {
	return r.Save(ctx, dc)
}

// FakeInvoiceRepo is an in-memory fulfillment.InvoiceRepository
type FakeInvoiceRepo struct {
	*memStore[fulfillment.Invoice]
}

// NewFakeInvoiceRepo creates an empty repo
func NewFakeInvoiceRepo() *FakeInvoiceRepo {
	return &FakeInvoiceRepo{newMemStore(
		func(inv *fulfillment.Invoice) uuid.UUID { return inv.ID },
		func(inv *fulfillment.Invoice) uuid.UUID { return inv.TenantID },
	)}
}

// FindByChallan returns the invoice produced from a challan
func (r *FakeInvoiceRepo) FindByChallan(_ context.Context, tenantID, challanID uuid.UUID) (*fulfillment.Invoice, error) {
	for _, inv := range r.all() {
		if inv.TenantID == tenantID && inv.ChallanID != nil && *inv.ChallanID == challanID {
			return inv, nil
		}
	}
	return nil, shared.ErrNotFound
}

// SaveWithLock saves without real lock semantics
func (r *FakeInvoiceRepo) SaveWithLock(ctx context.Context, inv *fulfillment.Invoice) error {
	return r.Save(ctx, inv)
}

// FakeReturnRepo is an in-memory returns.PurchaseReturnRepository
type FakeReturnRepo struct {
	*memStore[returns.PurchaseReturn]
}

// NewFakeReturnRepo creates an empty repo
func NewFakeReturnRepo() *FakeReturnRepo {
	return &FakeReturnRepo{newMemStore(
		func(pr *returns.PurchaseReturn) uuid.UUID { return pr.ID },
		func(pr *returns.PurchaseReturn) uuid.UUID { return pr.TenantID },
	)}
}

// FindByPurchase lists returns raised against a purchase
func (r *FakeReturnRepo) FindByPurchase(_ context.Context, tenantID, purchaseID uuid.UUID) ([]returns.PurchaseReturn, error) {
	var result []returns.PurchaseReturn
	for _, pr := range r.all() {
		if pr.TenantID == tenantID && pr.PurchaseID == purchaseID {
			result = append(result, *pr)
		}
	}
	return result, nil
}

// SaveWithLock saves without real lock semantics
func (r *FakeReturnRepo) SaveWithLock(ctx context.Context, pr *returns.PurchaseReturn) error {
	return r.Save(ctx, pr)
}

// FakeRefundRepo is an in-memory returns.RefundTransactionRepository
type FakeRefundRepo struct {
	*memStore[returns.RefundTransaction]
}

// NewFakeRefundRepo creates an empty repo
func NewFakeRefundRepo() *FakeRefundRepo {
	return &FakeRefundRepo{newMemStore(
		func(rt *returns.RefundTransaction) uuid.UUID { return rt.ID },
		func(rt *returns.RefundTransaction) uuid.UUID { return rt.TenantID },
	)}
}

// FindByReturn lists refunds for a purchase return
func (r *FakeRefundRepo) FindByReturn(_ context.Context, tenantID, purchaseReturnID uuid.UUID) ([]returns.RefundTransaction, error) {
	var result []returns.RefundTransaction
	for _, rt := range r.all() {
		if rt.TenantID == tenantID && rt.PurchaseReturnID == purchaseReturnID {
			result = append(result, *rt)
		}
	}
	return result, nil
}

// All returns every stored refund
func (r *FakeRefundRepo) All() []*returns.RefundTransaction {
	return r.all()
}

// FakeSupplierRepo is an in-memory partner.SupplierRepository
type FakeSupplierRepo struct {
	*memStore[partner.Supplier]
}

// NewFakeSupplierRepo creates an empty repo
func NewFakeSupplierRepo() *FakeSupplierRepo {
	return &FakeSupplierRepo{newMemStore(
		func(s *partner.Supplier) uuid.UUID { return s.ID },
		func(s *partner.Supplier) uuid.UUID { return s.TenantID },
	)}
}

// FindByCode looks up a supplier by code
func (r *FakeSupplierRepo) FindByCode(_ context.Context, tenantID uuid.UUID, code string) (*partner.Supplier, error) {
	for _, s := range r.all() {
		if s.TenantID == tenantID && s.Code == code {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

// SaveWithLock saves without real lock semantics
func (r *FakeSupplierRepo) SaveWithLock(ctx context.Context, s *partner.Supplier) error {
	return r.Save(ctx, s)
}

// FakeCustomerRepo is an in-memory partner.CustomerRepository
type FakeCustomerRepo struct {
	*memStore[partner.Customer]
}

// NewFakeCustomerRepo creates an empty repo
func NewFakeCustomerRepo() *FakeCustomerRepo {
	return &FakeCustomerRepo{newMemStore(
		func(c *partner.Customer) uuid.UUID { return c.ID },
		func(c *partner.Customer) uuid.UUID { return c.TenantID },
	)}
}

// FindByCode looks up a customer by code
func (r *FakeCustomerRepo) FindByCode(_ context.Context, tenantID uuid.UUID, code string) (*partner.Customer, error) {
	for _, c := range r.all() {
		if c.TenantID == tenantID && c.Code == code {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

// SaveWithLock saves without real lock semantics
func (r *FakeCustomerRepo) SaveWithLock(ctx context.Context, c *partner.Customer) error {
	return r.Save(ctx, c)
}

// FakeBankAccountRepo is an in-memory partner.BankAccountRepository
type FakeBankAccountRepo struct {
	*memStore[partner.BankAccount]
}

// NewFakeBankAccountRepo creates an empty repo
func NewFakeBankAccountRepo() *FakeBankAccountRepo {
	return &FakeBankAccountRepo{newMemStore(
		func(a *partner.BankAccount) uuid.UUID { return a.ID },
		func(a *partner.BankAccount) uuid.UUID { return a.TenantID },
	)}
}

// FindActive lists active accounts
func (r *FakeBankAccountRepo) FindActive(_ context.Context, tenantID uuid.UUID) ([]*partner.BankAccount, error) {
	var result []*partner.BankAccount
	for _, a := range r.all() {
		if a.TenantID == tenantID && a.Active {
			result = append(result, a)
		}
	}
	return result, nil
}

// SaveWithLock saves without real lock semantics
func (r *FakeBankAccountRepo) SaveWithLock(ctx context.Context, a *partner.BankAccount) error {
	return r.Save(ctx, a)
}

// FakeCreditNoteRepo is an in-memory partner.CreditNoteRepository
type FakeCreditNoteRepo struct {
	*memStore[partner.SupplierCreditNote]
}

// NewFakeCreditNoteRepo creates an empty repo
func NewFakeCreditNoteRepo() *FakeCreditNoteRepo {
	return &FakeCreditNoteRepo{newMemStore(
		func(n *partner.SupplierCreditNote) uuid.UUID { return n.ID },
		func(n *partner.SupplierCreditNote) uuid.UUID { return n.TenantID },
	)}
}

// FindBySupplier lists credit notes held against a supplier
func (r *FakeCreditNoteRepo) FindBySupplier(_ context.Context, tenantID, supplierID uuid.UUID) ([]*partner.SupplierCreditNote, error) {
	var result []*partner.SupplierCreditNote
	for _, n := range r.all() {
		if n.TenantID == tenantID && n.SupplierID == supplierID {
			result = append(result, n)
		}
	}
	return result, nil
}

// FindBySource returns the credit note issued by a document
func (r *FakeCreditNoteRepo) FindBySource(_ context.Context, tenantID, sourceID uuid.UUID) (*partner.SupplierCreditNote, error) {
	for _, n := range r.all() {
		if n.TenantID == tenantID && n.SourceID == sourceID {
			return n, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FakeCashBankRepo is an append-only in-memory cash/bank audit log
type FakeCashBankRepo struct {
	mu      sync.Mutex
	Entries []*partner.CashBankTransaction
}

// NewFakeCashBankRepo creates an empty log
func NewFakeCashBankRepo() *FakeCashBankRepo {
	return &FakeCashBankRepo{}
}

// Append stores a cash/bank row
func (r *FakeCashBankRepo) Append(_ context.Context, tx *partner.CashBankTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, tx)
	return nil
}

// FindBySource lists rows caused by a document
func (r *FakeCashBankRepo) FindBySource(_ context.Context, tenantID, sourceID uuid.UUID) ([]*partner.CashBankTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*partner.CashBankTransaction
	for _, tx := range r.Entries {
		if tx.TenantID == tenantID && tx.SourceID == sourceID {
			result = append(result, tx)
		}
	}
	return result, nil
}

// FakePaymentRepo is an append-only in-memory customer payment log
type FakePaymentRepo struct {
	mu      sync.Mutex
	Entries []*partner.PaymentTransaction
}

// NewFakePaymentRepo creates an empty log
func NewFakePaymentRepo() *FakePaymentRepo {
	return &FakePaymentRepo{}
}

// Append stores a payment row
func (r *FakePaymentRepo) Append(_ context.Context, tx *partner.PaymentTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, tx)
	return nil
}

// FindByCustomer lists rows for a customer
func (r *FakePaymentRepo) FindByCustomer(_ context.Context, tenantID, customerID uuid.UUID) ([]*partner.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*partner.PaymentTransaction
	for _, tx := range r.Entries {
		if tx.TenantID == tenantID && tx.CustomerID == customerID {
			result = append(result, tx)
		}
	}
	return result, nil
}

// Repos bundles every fake repository and satisfies the application
// layer's TransactionalRepositories
type Repos struct {
	StockItemRepo   *FakeStockItemRepo
	MovementRepo    *FakeMovementRepo
	WorkflowRepo    *FakeWorkflowRepo
	PORepo          *FakePurchaseOrderRepo
	GRNRepo         *FakeGoodsReceiptRepo
	PurchaseRepo    *FakePurchaseRepo
	SORepo          *FakeSalesOrderRepo
	ChallanRepo     *FakeChallanRepo
	InvoiceRepo     *FakeInvoiceRepo
	ReturnRepo      *FakeReturnRepo
	RefundRepo      *FakeRefundRepo
	SupplierRepo    *FakeSupplierRepo
	CustomerRepo    *FakeCustomerRepo
	BankAccountRepo *FakeBankAccountRepo
	CreditNoteRepo  *FakeCreditNoteRepo
	CashBankRepo    *FakeCashBankRepo
	PaymentRepo     *FakePaymentRepo
}

// NewRepos creates a full set of empty fakes
func NewRepos() *Repos {
	return &Repos{
		StockItemRepo:   NewFakeStockItemRepo(),
		MovementRepo:    NewFakeMovementRepo(),
		WorkflowRepo:    NewFakeWorkflowRepo(),
		PORepo:          NewFakePurchaseOrderRepo(),
		GRNRepo:         NewFakeGoodsReceiptRepo(),
		PurchaseRepo:    NewFakePurchaseRepo(),
		SORepo:          NewFakeSalesOrderRepo(),
		ChallanRepo:     NewFakeChallanRepo(),
		InvoiceRepo:     NewFakeInvoiceRepo(),
		ReturnRepo:      NewFakeReturnRepo(),
		RefundRepo:      NewFakeRefundRepo(),
		SupplierRepo:    NewFakeSupplierRepo(),
		CustomerRepo:    NewFakeCustomerRepo(),
		BankAccountRepo: NewFakeBankAccountRepo(),
		CreditNoteRepo:  NewFakeCreditNoteRepo(),
		CashBankRepo:    NewFakeCashBankRepo(),
		PaymentRepo:     NewFakePaymentRepo(),
	}
}

// Scope returns a no-op transaction scope over these fakes
func (r *Repos) Scope() *appinventory.NoOpTransactionScope {
	return &appinventory.NoOpTransactionScope{Repos: r}
}

// StockItems returns the stock item repository
func (r *Repos) StockItems() inventory.StockItemRepository { return r.StockItemRepo }

// Movements returns the ledger repository
func (r *Repos) Movements() inventory.StockMovementRepository { return r.MovementRepo }

// Workflows returns the workflow repository
func (r *Repos) Workflows() approval.WorkflowRepository { return r.WorkflowRepo }

// PurchaseOrders returns the purchase order repository
func (r *Repos) PurchaseOrders() procurement.PurchaseOrderRepository { return r.PORepo }

// GoodsReceipts returns the goods receipt repository
func (r *Repos) GoodsReceipts() procurement.GoodsReceiptRepository { return r.GRNRepo }

// Purchases returns the purchase repository
func (r *Repos) Purchases() procurement.PurchaseRepository { return r.PurchaseRepo }

// SalesOrders returns the sales order repository
func (r *Repos) SalesOrders() fulfillment.SalesOrderRepository { return r.SORepo }

// Challans returns the delivery challan repository
func (r *Repos) Challans() fulfillment.DeliveryChallanRepository { return r.ChallanRepo }

// Invoices returns the invoice repository
func (r *Repos) Invoices() fulfillment.InvoiceRepository { return r.InvoiceRepo }

// Returns returns the purchase return repository
func (r *Repos) Returns() returns.PurchaseReturnRepository { return r.ReturnRepo }

// Refunds returns the refund transaction repository
func (r *Repos) Refunds() returns.RefundTransactionRepository { return r.RefundRepo }

// Suppliers returns the supplier repository
func (r *Repos) Suppliers() partner.SupplierRepository { return r.SupplierRepo }

// Customers returns the customer repository
func (r *Repos) Customers() partner.CustomerRepository { return r.CustomerRepo }

// BankAccounts returns the bank account repository
func (r *Repos) BankAccounts() partner.BankAccountRepository { return r.BankAccountRepo }

// CreditNotes returns the credit note repository
func (r *Repos) CreditNotes() partner.CreditNoteRepository { return r.CreditNoteRepo }

// CashBank returns the cash/bank audit repository
func (r *Repos) CashBank() partner.CashBankTransactionRepository { return r.CashBankRepo }

// Payments returns the customer payment audit repository
func (r *Repos) Payments() partner.PaymentTransactionRepository { return r.PaymentRepo }

var _ appinventory.TransactionalRepositories = (*Repos)(nil)

// CapturingPublisher records published events for assertions
type CapturingPublisher struct {
	mu     sync.Mutex
	Events []shared.DomainEvent
}

// Publish stores the events
func (p *CapturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, events...)
	return nil
}

// OfType returns captured events of one type
func (p *CapturingPublisher) OfType(eventType string) []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var result []shared.DomainEvent
	for _, e := range p.Events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

var _ shared.EventPublisher = (*CapturingPublisher)(nil)

// SequenceGenerator hands out predictable document numbers in tests
type SequenceGenerator struct {
	mu   sync.Mutex
	next map[string]int
}

// NewSequenceGenerator creates a generator starting at 1 per doc type
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{next: make(map[string]int)}
}

// Next returns the next number formatted like the real generator
func (g *SequenceGenerator) Next(_ context.Context, _ uuid.UUID, docType string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next[docType]++
	return shared.FormatDocumentNumber(docType, g.next[docType]), nil
}

var _ shared.DocumentNumberGenerator = (*SequenceGenerator)(nil)
