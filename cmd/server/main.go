package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ledgerapp "github.com/gescom/backend/internal/application/ledger"
	reportapp "github.com/gescom/backend/internal/application/report"
	"github.com/gescom/backend/internal/infrastructure/auth"
	"github.com/gescom/backend/internal/infrastructure/cache"
	"github.com/gescom/backend/internal/infrastructure/config"
	"github.com/gescom/backend/internal/infrastructure/event"
	"github.com/gescom/backend/internal/infrastructure/logger"
	"github.com/gescom/backend/internal/infrastructure/persistence"
	"github.com/gescom/backend/internal/infrastructure/storage"
	"github.com/gescom/backend/internal/infrastructure/telemetry"
	"github.com/gescom/backend/internal/interfaces/http/handler"
	"github.com/gescom/backend/internal/interfaces/http/middleware"
	"github.com/gescom/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

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

	log.Info("Starting Ledger Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Ship application logs to the collector alongside the local output
	logsProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize OTLP logs pipeline", zap.Error(err))
	}
	defer func() {
		if err := logsProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logs provider", zap.Error(err))
		}
	}()
	log = telemetry.BridgeLogger(log, logsProvider, cfg.Telemetry.ServiceName, zapcore.InfoLevel)

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

	// Initialize OpenTelemetry trace and metric pipelines. Both degrade to
	// no-op providers when telemetry is disabled.
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Continuous profiling via Pyroscope. No-op unless enabled.
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServerAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	// With both tracing and the profiler running, tag CPU profiles with the
	// span they were sampled under
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	// Database query tracing via otelgorm
	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:         "postgresql",
			WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Business metrics (fund balances, pending expenses, ledger event
	// counters) plus query and connection pool instrumentation. Only wired
	// when metrics export is actually enabled.
	var businessMetrics *telemetry.BusinessMetrics
	if meterProvider.IsEnabled() {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:          meterProvider.Meter("ledger.business"),
			Logger:         log,
			LedgerProvider: telemetry.NewGormLedgerMetricsProvider(db.DB),
		})
		if err != nil {
			log.Fatal("Failed to initialize business metrics", zap.Error(err))
		}
		businessMetrics.StartPeriodicCollection(context.Background(), telemetry.NewGormOwnerProvider(db.DB), 5*time.Minute)
		defer businessMetrics.Stop()

		dbMetrics, err := telemetry.NewDBMetrics(meterProvider.Meter("db.client"), telemetry.DBMetricsConfig{
			Enabled:            true,
			SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize database metrics", zap.Error(err))
		}
		if sqlDB, err := db.DB.DB(); err == nil {
			dbMetrics.SetSQLDB(sqlDB)
			dbMetrics.StartPoolStatsCollection(context.Background())
			defer dbMetrics.Stop()
		}
		if err := db.DB.Use(telemetry.NewDBMetricsPlugin(dbMetrics, log)); err != nil {
			log.Warn("Failed to register database metrics plugin", zap.Error(err))
		}
	}

	// Initialize repositories
	fundRepo := persistence.NewGormFundRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	cashBookRepo := persistence.NewGormCashBookRepository(db.DB)
	journalRepo := persistence.NewGormJournalRepository(db.DB)
	snapshotRepo := persistence.NewGormReportSnapshotRepository(db.DB)
	ledgerReportRepo := persistence.NewGormLedgerReportRepository(db.DB)

	// Transaction manager for multi-write units of work
	txManager := persistence.NewGormTransactionManager(db)

	// Object storage for receipt files. Falls back to a stub when no
	// credentials are configured so local development works without S3.
	var objectStorage ledgerapp.ObjectStorageService
	if cfg.Storage.AccessKey != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(context.Background()); err != nil {
			log.Warn("Failed to ensure storage bucket", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage initialized", zap.String("bucket", s3Storage.GetBucket()))
	} else {
		log.Warn("Storage credentials not configured, using stub object storage")
		objectStorage = storage.NewStubObjectStorage()
	}

	// Stats cache: Redis when available, in-memory otherwise
	cacheFactory := cache.NewStatsCacheFactory(cfg.Redis, cache.WithStatsCacheLogger(log))
	var statsCache = cacheFactory.CreateInMemoryCache()
	if cfg.Report.StatsCacheEnabled {
		statsCache, err = cacheFactory.CreateCache()
		if err != nil {
			log.Fatal("Failed to create stats cache", zap.Error(err))
		}
	}

	// JWT token validation. Tokens are issued by the external identity
	// provider; this service only verifies them.
	jwtService := auth.NewJWTService(cfg.JWT)

	// Token revocations (logout, password change) are written by the
	// identity provider to a shared Redis keyspace; consult it when enabled.
	var tokenBlacklist auth.TokenBlacklist
	if cfg.JWT.RevocationEnabled {
		blacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect token revocation store", zap.Error(err))
		}
		defer func() {
			if err := blacklist.Close(); err != nil {
				log.Error("Error closing token revocation store", zap.Error(err))
			}
		}()
		tokenBlacklist = blacklist
		log.Info("Token revocation checks enabled")
	}

	// Request deduplication for money-moving endpoints. Clients retrying a
	// POST send the same Idempotency-Key; the guard rejects the replay.
	idempotencyStore := cache.NewIdempotencyStore(cfg.Redis, log)
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()
	idempotent := middleware.IdempotencyGuard(middleware.IdempotencyConfig{
		Store:  idempotencyStore,
		Logger: log,
	})

	// Initialize application services
	fundService := ledgerapp.NewFundService(fundRepo, transactionRepo, journalRepo, txManager)
	transactionService := ledgerapp.NewTransactionService(fundRepo, transactionRepo, journalRepo, txManager)
	expenseService := ledgerapp.NewExpenseService(expenseRepo, categoryRepo, fundRepo, transactionRepo, journalRepo, txManager)
	categoryService := ledgerapp.NewCategoryService(categoryRepo)
	cashBookService := ledgerapp.NewCashBookService(cashBookRepo, journalRepo, txManager)
	receiptService := ledgerapp.NewReceiptService(objectStorage)
	statsService := reportapp.NewAccountingStatsService(ledgerReportRepo, expenseRepo, statsCache, log)
	snapshotService := reportapp.NewReportSnapshotService(snapshotRepo, ledgerReportRepo)

	// Initialize event bus. Ledger services publish domain events after each
	// committed unit of work; handlers consume them asynchronously.
	eventBus := event.NewInMemoryEventBus(log)

	// Ledger money movements -> business metric counters
	if businessMetrics != nil {
		ledgerMetricsHandler := telemetry.NewLedgerMetricsHandler(businessMetrics, log)
		eventBus.Subscribe(ledgerMetricsHandler)
		log.Info("Event handlers registered",
			zap.Strings("ledger_metrics_events", ledgerMetricsHandler.EventTypes()),
		)
	}

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	fundService = fundService.WithEvents(eventBus)
	transactionService = transactionService.WithEvents(eventBus)
	expenseService = expenseService.WithEvents(eventBus)
	cashBookService = cashBookService.WithEvents(eventBus)

	// Initialize HTTP handlers
	fundHandler := handler.NewImprestFundHandler(fundService, transactionService)
	transactionHandler := handler.NewImprestTransactionHandler(transactionService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	cashBookHandler := handler.NewCashBookHandler(cashBookService)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	reportHandler := handler.NewAccountingReportHandler(statsService, snapshotService)

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
	// 3. Tracing - OpenTelemetry spans (no-op when disabled)
	// 4. Logger - Log requests
	// 5. Metrics - HTTP request metrics (no-op when disabled)
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	// 9. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       cfg.Telemetry.Enabled,
	}))
	if profiler.IsEnabled() {
		profilingCfg := middleware.DefaultProfilingConfig()
		engine.Use(middleware.ProfilingWithConfig(profilingCfg))
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Ledger domain (funds, transactions, expenses, categories, cash book)
	ledgerRoutes := router.NewDomainGroup("ledger", "/ledger")
	ledgerRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ledger service ready"})
	})

	// Imprest fund routes
	ledgerRoutes.POST("/funds", fundHandler.Create)
	ledgerRoutes.GET("/funds", fundHandler.List)
	ledgerRoutes.GET("/funds/reference/:reference", fundHandler.GetByReference)
	ledgerRoutes.GET("/funds/:id", fundHandler.Get)
	ledgerRoutes.GET("/funds/:id/balance-check", fundHandler.CheckBalance)
	ledgerRoutes.PUT("/funds/:id", fundHandler.Update)
	ledgerRoutes.DELETE("/funds/:id", fundHandler.Delete)

	// Imprest transaction routes (append-only log)
	ledgerRoutes.POST("/transactions", idempotent, transactionHandler.Record)
	ledgerRoutes.GET("/transactions", transactionHandler.List)
	ledgerRoutes.GET("/transactions/:id", transactionHandler.Get)

	// Expense routes
	ledgerRoutes.POST("/expenses", idempotent, expenseHandler.Submit)
	ledgerRoutes.GET("/expenses", expenseHandler.List)
	ledgerRoutes.GET("/expenses/:id", expenseHandler.Get)
	ledgerRoutes.POST("/expenses/:id/approve", idempotent, expenseHandler.Approve)
	ledgerRoutes.POST("/expenses/:id/reject", idempotent, expenseHandler.Reject)
	ledgerRoutes.POST("/expenses/:id/pay", idempotent, expenseHandler.MarkPaid)
	ledgerRoutes.DELETE("/expenses/:id", expenseHandler.Delete)

	// Expense category routes
	ledgerRoutes.POST("/categories", categoryHandler.Create)
	ledgerRoutes.GET("/categories", categoryHandler.List)
	ledgerRoutes.GET("/categories/:id", categoryHandler.Get)
	ledgerRoutes.PUT("/categories/:id", categoryHandler.Update)
	ledgerRoutes.DELETE("/categories/:id", categoryHandler.Delete)

	// Cash book routes
	ledgerRoutes.POST("/cashbook", idempotent, cashBookHandler.Create)
	ledgerRoutes.GET("/cashbook", cashBookHandler.List)
	ledgerRoutes.GET("/cashbook/:id", cashBookHandler.Get)
	ledgerRoutes.PUT("/cashbook/:id", cashBookHandler.Update)
	ledgerRoutes.DELETE("/cashbook/:id", cashBookHandler.Delete)
	ledgerRoutes.POST("/cashbook/:id/reconcile", cashBookHandler.Reconcile)

	// Journal routes (read-only projection of all money movements)
	ledgerRoutes.GET("/journal", cashBookHandler.ListJournal)

	// Receipt file routes (presigned upload/download)
	ledgerRoutes.POST("/receipts/upload-url", receiptHandler.InitiateUpload)
	ledgerRoutes.POST("/receipts/confirm", receiptHandler.ConfirmUpload)
	ledgerRoutes.GET("/receipts/download-url", receiptHandler.GetDownloadURL)
	ledgerRoutes.DELETE("/receipts", receiptHandler.Delete)

	// Report domain (dashboard stats, trial balance, snapshots)
	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "report service ready"})
	})
	reportRoutes.GET("/stats", reportHandler.GetStats)
	reportRoutes.GET("/trial-balance", reportHandler.GetTrialBalance)
	reportRoutes.POST("/snapshots", reportHandler.Generate)
	reportRoutes.GET("/snapshots", reportHandler.List)
	reportRoutes.GET("/snapshots/:id", reportHandler.Get)
	reportRoutes.DELETE("/snapshots/:id", reportHandler.Delete)

	// Register all domain groups
	r.Register(ledgerRoutes).
		Register(reportRoutes)

	// Register system routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

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
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
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
