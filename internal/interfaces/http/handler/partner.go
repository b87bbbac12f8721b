package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apppartner "github.com/backoffice/backend/internal/application/partner"
)

// PartnerHandler exposes suppliers, customers and bank accounts over HTTP
type PartnerHandler struct {
	BaseHandler
	supplierService *apppartner.SupplierService
	customerService *apppartner.CustomerService
	bankService     *apppartner.BankAccountService
}

// NewPartnerHandler creates a partner handler
func NewPartnerHandler(supplierService *apppartner.SupplierService, customerService *apppartner.CustomerService, bankService *apppartner.BankAccountService) *PartnerHandler {
	return &PartnerHandler{
		supplierService: supplierService,
		customerService: customerService,
		bankService:     bankService,
	}
}

// RegisterRoutes registers supplier, customer and bank account routes
func (h *PartnerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", h.CreateSupplier)
		suppliers.GET("", h.ListSuppliers)
		suppliers.GET("/:id", h.GetSupplier)
		suppliers.PUT("/:id", h.UpdateSupplier)
		suppliers.POST("/:id/block", h.BlockSupplier)
		suppliers.POST("/:id/activate", h.ActivateSupplier)
		suppliers.GET("/:id/credit-notes", h.ListSupplierCreditNotes)
	}
	customers := rg.Group("/customers")
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.POST("/:id/deactivate", h.DeactivateCustomer)
		customers.POST("/:id/activate", h.ActivateCustomer)
		customers.GET("/:id/transactions", h.ListCustomerTransactions)
	}
	accounts := rg.Group("/bank-accounts")
	{
		accounts.POST("", h.CreateBankAccount)
		accounts.GET("", h.ListBankAccounts)
		accounts.GET("/active", h.ListActiveBankAccounts)
		accounts.GET("/:id", h.GetBankAccount)
		accounts.POST("/:id/deposit", h.Deposit)
		accounts.POST("/:id/withdraw", h.Withdraw)
		accounts.POST("/:id/deactivate", h.DeactivateBankAccount)
	}
}

// CreateSupplier registers a supplier
func (h *PartnerHandler) CreateSupplier(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req apppartner.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	supplier, err := h.supplierService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// ListSuppliers returns a page of suppliers
func (h *PartnerHandler) ListSuppliers(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	suppliers, err := h.supplierService.List(c.Request.Context(), tenantID, parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suppliers)
}

// GetSupplier returns a supplier by ID
func (h *PartnerHandler) GetSupplier(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	supplierID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid supplier ID")
		return
	}
	supplier, err := h.supplierService.GetByID(c.Request.Context(), tenantID, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// UpdateSupplier updates supplier contact details
func (h *PartnerHandler) UpdateSupplier(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	supplierID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid supplier ID")
		return
	}
	var req apppartner.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	supplier, err := h.supplierService.Update(c.Request.Context(), tenantID, supplierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// BlockSupplier blocks a supplier from new purchase orders
func (h *PartnerHandler) BlockSupplier(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	supplierID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid supplier ID")
		return
	}
	supplier, err := h.supplierService.Block(c.Request.Context(), tenantID, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// ActivateSupplier lifts a block on a supplier
func (h *PartnerHandler) ActivateSupplier(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	supplierID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid supplier ID")
		return
	}
	supplier, err := h.supplierService.Activate(c.Request.Context(), tenantID, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// ListSupplierCreditNotes returns the credit notes held against a supplier
func (h *PartnerHandler) ListSupplierCreditNotes(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	supplierID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid supplier ID")
		return
	}
	notes, err := h.supplierService.ListCreditNotes(c.Request.Context(), tenantID, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, notes)
}

// CreateCustomer registers a customer
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req apppartner.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	customer, err := h.customerService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// ListCustomers returns a page of customers
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	customers, err := h.customerService.List(c.Request.Context(), tenantID, parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// GetCustomer returns a customer by ID
func (h *PartnerHandler) GetCustomer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	customerID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid customer ID")
		return
	}
	customer, err := h.customerService.GetByID(c.Request.Context(), tenantID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// UpdateCustomer updates customer contact details
func (h *PartnerHandler) UpdateCustomer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	customerID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid customer ID")
		return
	}
	var req apppartner.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	customer, err := h.customerService.Update(c.Request.Context(), tenantID, customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// DeactivateCustomer retires a customer from new sales orders
func (h *PartnerHandler) DeactivateCustomer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	customerID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid customer ID")
		return
	}
	customer, err := h.customerService.Deactivate(c.Request.Context(), tenantID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// ActivateCustomer reinstates a deactivated customer
func (h *PartnerHandler) ActivateCustomer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	customerID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid customer ID")
		return
	}
	customer, err := h.customerService.Activate(c.Request.Context(), tenantID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// ListCustomerTransactions returns a customer's payment history
func (h *PartnerHandler) ListCustomerTransactions(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	customerID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid customer ID")
		return
	}
	transactions, err := h.customerService.ListTransactions(c.Request.Context(), tenantID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transactions)
}

// CreateBankAccount registers a bank account
func (h *PartnerHandler) CreateBankAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req apppartner.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	account, err := h.bankService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// ListBankAccounts returns a page of bank accounts
func (h *PartnerHandler) ListBankAccounts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	accounts, err := h.bankService.List(c.Request.Context(), tenantID, parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}

// ListActiveBankAccounts returns the accounts usable for refunds and
// payments
func (h *PartnerHandler) ListActiveBankAccounts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	accounts, err := h.bankService.ListActive(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}

// GetBankAccount returns a bank account by ID
func (h *PartnerHandler) GetBankAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	accountID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid account ID")
		return
	}
	account, err := h.bankService.GetByID(c.Request.Context(), tenantID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Deposit credits a bank account
func (h *PartnerHandler) Deposit(c *gin.Context) {
	h.moveMoney(c, h.bankService.Deposit)
}

// Withdraw debits a bank account
func (h *PartnerHandler) Withdraw(c *gin.Context) {
	h.moveMoney(c, h.bankService.Withdraw)
}

// DeactivateBankAccount retires an account from refund and payment flows
func (h *PartnerHandler) DeactivateBankAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	accountID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid account ID")
		return
	}
	account, err := h.bankService.Deactivate(c.Request.Context(), tenantID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

type bankAccountAction func(ctx context.Context, tenantID, accountID uuid.UUID, req apppartner.BankAccountMoneyRequest) (*apppartner.BankAccountResponse, error)

// moveMoney handles the shared shape of deposit and withdraw
func (h *PartnerHandler) moveMoney(c *gin.Context, fn bankAccountAction) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	accountID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid account ID")
		return
	}
	var req apppartner.BankAccountMoneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	account, err := fn(c.Request.Context(), tenantID, accountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}
