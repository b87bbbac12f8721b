package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appapproval "github.com/backoffice/backend/internal/application/approval"
	appfulfillment "github.com/backoffice/backend/internal/application/fulfillment"
	appinventory "github.com/backoffice/backend/internal/application/inventory"
	apppartner "github.com/backoffice/backend/internal/application/partner"
	appprocurement "github.com/backoffice/backend/internal/application/procurement"
	appreturns "github.com/backoffice/backend/internal/application/returns"
	"github.com/backoffice/backend/internal/infrastructure/config"
	"github.com/backoffice/backend/internal/infrastructure/event"
	"github.com/backoffice/backend/internal/infrastructure/logger"
	"github.com/backoffice/backend/internal/infrastructure/persistence"
	"github.com/backoffice/backend/internal/interfaces/http/handler"
	"github.com/backoffice/backend/internal/interfaces/http/middleware"
	"github.com/backoffice/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("starting backoffice backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	if err := persistence.AutoMigrate(db.DB); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}
	log.Info("database connected")

	// Repositories
	itemRepo := persistence.NewGormStockItemRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	workflowRepo := persistence.NewGormWorkflowRepository(db.DB)
	poRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	grnRepo := persistence.NewGormGoodsReceiptRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	soRepo := persistence.NewGormSalesOrderRepository(db.DB)
	challanRepo := persistence.NewGormDeliveryChallanRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	returnRepo := persistence.NewGormPurchaseReturnRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	bankAccountRepo := persistence.NewGormBankAccountRepository(db.DB)
	creditNoteRepo := persistence.NewGormCreditNoteRepository(db.DB)
	cashBankRepo := persistence.NewGormCashBankTransactionRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentTransactionRepository(db.DB)

	scope := persistence.NewGormTransactionScope(db.DB)
	numberGen := persistence.NewGormDocumentNumberGenerator(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	stockService := appinventory.NewStockService(scope, itemRepo, movementRepo, eventBus, log)
	workflowService := appapproval.NewWorkflowService(workflowRepo, cfg.Approval.ThresholdPolicy(), eventBus, log)
	poService := appprocurement.NewPurchaseOrderService(scope, poRepo, itemRepo, workflowService, numberGen, eventBus, log)
	grnService := appprocurement.NewGoodsReceiptService(scope, grnRepo, poRepo, numberGen, eventBus, log)
	soService := appfulfillment.NewSalesOrderService(scope, soRepo, itemRepo, numberGen, eventBus, log)
	challanService := appfulfillment.NewChallanService(scope, challanRepo, soRepo, numberGen, eventBus, log)
	invoiceService := appfulfillment.NewInvoiceService(scope, invoiceRepo, challanRepo, numberGen, eventBus, log)
	returnService := appreturns.NewReturnService(scope, returnRepo, purchaseRepo, workflowService, numberGen, eventBus, log)
	supplierService := apppartner.NewSupplierService(supplierRepo, creditNoteRepo, log)
	customerService := apppartner.NewCustomerService(customerRepo, paymentRepo, log)
	bankService := apppartner.NewBankAccountService(bankAccountRepo, cashBankRepo, log)

	// Event subscriptions: approval outcomes drive the procurement and
	// return pipelines, low stock is surfaced operationally
	poEvents := appprocurement.NewWorkflowEventHandler(poService, log)
	eventBus.Subscribe(poEvents, poEvents.EventTypes()...)
	returnEvents := appreturns.NewWorkflowEventHandler(returnService, log)
	eventBus.Subscribe(returnEvents, returnEvents.EventTypes()...)
	lowStock := appinventory.NewLowStockHandler(log)
	eventBus.Subscribe(lowStock, lowStock.EventTypes()...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))
	engine.Use(middleware.Secure())
	engine.Use(middleware.Tenant())

	healthHandler := handler.NewHealthHandler(db, cfg.App.Name, version)
	healthHandler.RegisterOn(engine)

	router.NewRouter(engine).
		Register(handler.NewStockHandler(stockService)).
		Register(handler.NewApprovalHandler(workflowService)).
		Register(handler.NewPurchaseOrderHandler(poService, grnService)).
		Register(handler.NewFulfillmentHandler(soService, challanService, invoiceService)).
		Register(handler.NewReturnHandler(returnService)).
		Register(handler.NewPartnerHandler(supplierService, customerService, bankService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("event bus shutdown failed", zap.Error(err))
	}
	log.Info("stopped")
}
