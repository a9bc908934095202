package router

import (
	"time"

	"github.com/wali1264/ketabestan2/internal/config"
	"github.com/wali1264/ketabestan2/internal/handler"
	"github.com/wali1264/ketabestan2/internal/infra"
	"github.com/wali1264/ketabestan2/internal/middleware"
	"github.com/wali1264/ketabestan2/internal/repository"
	"github.com/wali1264/ketabestan2/internal/service"
	"github.com/wali1264/ketabestan2/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailerCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	partyRepo := repository.NewPartyRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	backupRepo := repository.NewBackupRepository(db)

	// Worker dispatcher - injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, rdb)
	inventorySvc := service.NewInventoryService(productRepo, movementRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, partyRepo, ledgerRepo, inventorySvc, dispatcher)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, productRepo, partyRepo, ledgerRepo, movementRepo, inventorySvc)
	partySvc := service.NewPartyService(partyRepo, ledgerRepo)
	ledgerSvc := service.NewLedgerService(ledgerRepo, partyRepo)
	expenseSvc := service.NewExpenseService(expenseRepo)
	reportSvc := service.NewReportService(saleRepo, productRepo, partyRepo)
	backupSvc := service.NewBackupService(backupRepo)
	settingsSvc := service.NewSettingsService(settingsRepo)
	receiptSvc := service.NewReceiptService(receiptRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductHandler(productSvc)
	priceH := handler.NewPriceCheckHandler(productRepo, rdb)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	salesH := handler.NewSaleHandler(saleSvc)
	purchasesH := handler.NewPurchaseHandler(purchaseSvc)
	partiesH := handler.NewPartyHandler(partySvc)
	ledgersH := handler.NewLedgerHandler(ledgerSvc)
	expensesH := handler.NewExpenseHandler(expenseSvc)
	reportsH := handler.NewReportHandler(reportSvc)
	backupH := handler.NewBackupHandler(backupSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)
	receiptsH := handler.NewReceiptHandler(receiptSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailerCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check - no auth required; serves the customer-facing scanner
	r.GET("/v1/price-check/:barcode", priceH.Check)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		anyRole := middleware.RequireRole("cashier", "manager", "admin")
		managerUp := middleware.RequireRole("manager", "admin")
		adminOnly := middleware.RequireRole("admin")

		// Sales - cashiers sell and return; edits need a manager, voids rewrite
		// history and are reserved for admins.
		v1.POST("/sales", anyRole, salesH.Create)
		v1.GET("/sales", anyRole, salesH.List)
		v1.GET("/sales/:id", anyRole, salesH.Get)
		v1.PUT("/sales/:id", managerUp, salesH.Edit)
		v1.POST("/sales/:id/void", adminOnly, salesH.Void)
		v1.POST("/sales/returns", anyRole, salesH.Return)
		v1.GET("/sales/:id/receipt", anyRole, receiptsH.Status)
		v1.GET("/sales/:id/receipt/pdf", anyRole, receiptsH.Download)

		// Products - everyone reads (catalog sync), managers write
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.Get)
		prods := v1.Group("/products", managerUp)
		{
			prods.POST("", productsH.Create)
			prods.PATCH("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Delete)
			prods.POST("/:id/reactivate", productsH.Reactivate)
		}

		// Inventory
		inv := v1.Group("/inventory")
		{
			inv.POST("/adjust", managerUp, inventoryH.AdjustBatch)
			inv.GET("/movements", managerUp, inventoryH.ListMovements)
			inv.GET("/alerts/low-stock", anyRole, inventoryH.LowStock)
			inv.GET("/alerts/expiring", anyRole, inventoryH.Expiring)
		}

		// Purchases - manager territory
		pur := v1.Group("/purchases", managerUp)
		{
			pur.POST("", purchasesH.Create)
			pur.GET("", purchasesH.List)
			pur.GET("/:id", purchasesH.Get)
			pur.DELETE("/:id", purchasesH.Delete)
			pur.POST("/returns", purchasesH.Return)
		}

		// Parties and ledgers
		parties := v1.Group("/parties/:type")
		{
			parties.GET("", anyRole, partiesH.List)
			parties.GET("/:id", anyRole, partiesH.Get)
			parties.POST("", managerUp, partiesH.Create)
			parties.PATCH("/:id", managerUp, partiesH.Update)
			parties.DELETE("/:id", managerUp, partiesH.Delete)
			parties.GET("/:id/ledger", managerUp, ledgersH.Ledger)
			parties.POST("/:id/payments", managerUp, ledgersH.Payment)
		}
		v1.POST("/employees/:id/advances", managerUp, ledgersH.Advance)
		v1.POST("/employees/:id/salaries", managerUp, ledgersH.Salary)

		// Expenses
		v1.POST("/expenses", anyRole, expensesH.Create)
		v1.GET("/expenses", managerUp, expensesH.List)
		v1.GET("/expenses/summary", managerUp, expensesH.Summary)
		v1.DELETE("/expenses/:id", managerUp, expensesH.Delete)

		// Reports - manager and up
		reports := v1.Group("/reports", managerUp)
		{
			reports.GET("/sales", reportsH.Sales)
			reports.GET("/stock-valuation", reportsH.StockValuation)
			reports.GET("/balances", reportsH.Balances)
		}

		// Settings
		v1.GET("/settings", anyRole, settingsH.Get)
		v1.PATCH("/settings", adminOnly, settingsH.Update)

		// Users - admin only
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PATCH("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
			users.POST("/:id/reactivate", authH.ReactivateUser)
		}

		// Backup - admin only
		backup := v1.Group("/backup", adminOnly)
		{
			backup.GET("/export", backupH.Export)
			backup.POST("/import", backupH.Import)
		}
	}

	return r
}
