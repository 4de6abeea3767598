package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgeledger/backend/internal/app"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/infrastructure/auth"
	"github.com/forgeledger/backend/internal/infrastructure/cache"
	"github.com/forgeledger/backend/internal/infrastructure/config"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"github.com/forgeledger/backend/internal/infrastructure/persistence"
	"github.com/forgeledger/backend/internal/infrastructure/telemetry"
	"github.com/forgeledger/backend/internal/interfaces/http/middleware"
	"github.com/forgeledger/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/forgeledger/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//	@title			ForgeLedger API
//	@version		1.0
//	@description	Multi-tenant document lifecycle API: companies, partners, products, orders, invoices, bills and purchase orders.

//	@contact.name	API Support
//	@contact.url	https://github.com/forgeledger/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	bootLog, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	// Rebuild the logger so records are also exported through the OTLP bridge.
	log := bootLog
	if core := providers.ZapCore(); core != nil {
		if log, err = logger.New(cfg.Log, core); err != nil {
			bootLog.Fatal("Failed to initialize logger", zap.Error(err))
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ForgeLedger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentDB(db.DB, db.Driver, cfg.Telemetry); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", db.Driver))

	var idempotency shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		if idempotency, err = cache.NewIdempotencyStore(ctx, cfg.Redis, log); err != nil {
			log.Fatal("Failed to initialize idempotency store", zap.Error(err))
		}
		defer func() {
			_ = idempotency.Close()
		}()
	}

	docMetrics, err := telemetry.NewDocumentMetrics(providers.Meter())
	if err != nil {
		log.Fatal("Failed to register document metrics", zap.Error(err))
	}

	application := app.New(app.Options{
		DB:              db.DB,
		Logger:          log,
		Tokens:          auth.NewJWTService(cfg.JWT),
		Idempotency:     idempotency,
		IdempotencyTTL:  cfg.Idempotency.TTL,
		SequenceRetries: cfg.Sequence.MaxRetries,
		Subscribers:     []shared.EventHandler{docMetrics},
		ServiceName:     cfg.App.Name,
		Version:         version,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var extra []gin.HandlerFunc
	if cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled {
		httpMetrics, err := middleware.HTTPMetrics(providers.Meter())
		if err != nil {
			log.Fatal("Failed to register HTTP metrics", zap.Error(err))
		}
		extra = append(extra, httpMetrics)
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.ProfilingEnabled {
		extra = append(extra, middleware.Profiling())
	}

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:      log,
		HTTP:        cfg.HTTP,
		ServiceName: cfg.Telemetry.ServiceName,
		Tracing:     cfg.Telemetry.Enabled,
		Extra:       extra,
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	application.Routes(engine)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	application.Stop()

	telemetryCtx, cancelTelemetry := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTelemetry()
	if err := providers.Shutdown(telemetryCtx); err != nil {
		log.Warn("Telemetry shutdown incomplete", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
