package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/rentals/backend/internal/application/billing"
	exportapp "github.com/rentals/backend/internal/application/export"
	leasingapp "github.com/rentals/backend/internal/application/leasing"
	propertyapp "github.com/rentals/backend/internal/application/property"
	reportapp "github.com/rentals/backend/internal/application/report"
	tenancyapp "github.com/rentals/backend/internal/application/tenancy"
	"github.com/rentals/backend/internal/infrastructure/config"
	"github.com/rentals/backend/internal/infrastructure/logger"
	"github.com/rentals/backend/internal/infrastructure/persistence"
	"github.com/rentals/backend/internal/interfaces/http/handler"
	"github.com/rentals/backend/internal/interfaces/http/middleware"
	"github.com/rentals/backend/internal/interfaces/http/router"
)

//	@title			Rentals Backend API
//	@version		1.0
//	@description	Property rental management API - units, tenants, contracts, and billing

//	@contact.name	API Support
//	@contact.url	https://github.com/rentals/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Rentals Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	unitRepo := persistence.NewGormUnitRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	dashboardRepo := persistence.NewGormDashboardRepository(db.DB)

	// Transaction scopes keep contract creation and payment recording
	// serialized per aggregate
	leasingTxScope := persistence.NewGormLeasingTransactionScope(db.DB)
	billingTxScope := persistence.NewGormBillingTransactionScope(db.DB)

	// Initialize application services
	unitService := propertyapp.NewUnitService(unitRepo, contractRepo)
	tenantService := tenancyapp.NewTenantService(tenantRepo, contractRepo)
	contractService := leasingapp.NewContractService(contractRepo, leasingTxScope)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, contractRepo, billingTxScope)
	reportService := reportapp.NewReportService(dashboardRepo)
	exportService := exportapp.NewContractExportService(contractRepo, unitRepo, tenantRepo)

	// Initialize HTTP handlers
	unitHandler := handler.NewUnitHandler(unitService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	contractHandler := handler.NewContractHandler(contractService, exportService, cfg.Billing.ExpiryNotificationDays)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	reportHandler := handler.NewReportHandler(reportService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Unit registry
	unitRoutes := router.NewDomainGroup("units", "/units")
	unitRoutes.POST("", unitHandler.Create)
	unitRoutes.GET("", unitHandler.List)
	unitRoutes.GET("/number/:number", unitHandler.GetByNumber)
	unitRoutes.GET("/:id", unitHandler.GetByID)
	unitRoutes.PUT("/:id", unitHandler.Update)
	unitRoutes.DELETE("/:id", unitHandler.Delete)
	unitRoutes.POST("/:id/maintenance", unitHandler.SetMaintenance)
	unitRoutes.DELETE("/:id/maintenance", unitHandler.ClearMaintenance)

	// Tenant registry
	tenantRoutes := router.NewDomainGroup("tenants", "/tenants")
	tenantRoutes.POST("", tenantHandler.Create)
	tenantRoutes.GET("", tenantHandler.List)
	tenantRoutes.GET("/:id", tenantHandler.GetByID)
	tenantRoutes.PUT("/:id", tenantHandler.Update)
	tenantRoutes.DELETE("/:id", tenantHandler.Delete)
	tenantRoutes.GET("/:id/contracts", contractHandler.ListByTenant)

	// Contract lifecycle
	contractRoutes := router.NewDomainGroup("contracts", "/contracts")
	contractRoutes.POST("", contractHandler.Create)
	contractRoutes.GET("", contractHandler.List)
	contractRoutes.GET("/search", contractHandler.List)
	contractRoutes.GET("/export", contractHandler.Export)
	contractRoutes.POST("/notify-expiring", contractHandler.NotifyExpiring)
	contractRoutes.GET("/:id", contractHandler.GetByID)
	contractRoutes.PUT("/:id", contractHandler.Update)
	contractRoutes.POST("/:id/cancel", contractHandler.Cancel)
	contractRoutes.PUT("/:id/utility-readings", contractHandler.SetUtilityReadings)
	contractRoutes.GET("/:id/invoices", invoiceHandler.ListByContract)
	contractRoutes.POST("/:id/invoices/generate", invoiceHandler.GenerateForContract)

	// Invoice ledger
	invoiceRoutes := router.NewDomainGroup("invoices", "/invoices")
	invoiceRoutes.GET("", invoiceHandler.List)
	invoiceRoutes.POST("/refresh-overdue", invoiceHandler.RefreshOverdue)
	invoiceRoutes.GET("/:id", invoiceHandler.GetByID)
	invoiceRoutes.POST("/:id/payments", invoiceHandler.RecordPayment)
	invoiceRoutes.POST("/:id/pay-full", invoiceHandler.PayFull)

	// Payment ledger, read side
	paymentRoutes := router.NewDomainGroup("payments", "/payments")
	paymentRoutes.GET("", invoiceHandler.ListPayments)

	// Dashboard reports
	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.GET("/dashboard", reportHandler.Dashboard)
	reportRoutes.GET("/charts", reportHandler.Charts)

	// System routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(unitRoutes).
		Register(tenantRoutes).
		Register(contractRoutes).
		Register(invoiceRoutes).
		Register(paymentRoutes).
		Register(reportRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
