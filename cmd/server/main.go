package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	analyticsapp "github.com/shopfront/gateway/internal/application/analytics"
	authapp "github.com/shopfront/gateway/internal/application/auth"
	cartapp "github.com/shopfront/gateway/internal/application/cart"
	catalogapp "github.com/shopfront/gateway/internal/application/catalog"
	directoryapp "github.com/shopfront/gateway/internal/application/directory"
	orderingapp "github.com/shopfront/gateway/internal/application/ordering"
	reportapp "github.com/shopfront/gateway/internal/application/report"
	"github.com/shopfront/gateway/internal/infrastructure/cache"
	"github.com/shopfront/gateway/internal/infrastructure/config"
	"github.com/shopfront/gateway/internal/infrastructure/logger"
	"github.com/shopfront/gateway/internal/infrastructure/persistence"
	"github.com/shopfront/gateway/internal/infrastructure/session"
	"github.com/shopfront/gateway/internal/infrastructure/telemetry"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
	"github.com/shopfront/gateway/internal/interfaces/http/router"
)

var version = "dev"

const catalogSweepInterval = 5 * time.Minute
const catalogMaxIdle = 30 * time.Minute

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

	log.Info("Starting storefront gateway",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Root context cancelled on shutdown; background workers hang off it
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Distributed tracing
	shutdownTracing, err := telemetry.InitTracing(rootCtx, &cfg.Telemetry)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Error("Error shutting down tracing", zap.Error(err))
		}
	}()

	// Platform core API client
	client, err := upstream.NewClient(&upstream.Config{
		BaseURL:         cfg.Upstream.BaseURL,
		Timeout:         cfg.Upstream.Timeout,
		MaxResponseSize: cfg.Upstream.MaxResponseSize,
		ServiceToken:    cfg.Upstream.ServiceToken,
	}, log)
	if err != nil {
		log.Fatal("Failed to build upstream client", zap.Error(err))
	}

	// Session principal store and listing cache: Redis when available,
	// in-process fallbacks otherwise
	var principalStore session.Store
	var listingCache cache.ListingCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(rootCtx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			pingCancel()
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		pingCancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		principalStore = session.NewRedisStore(redisClient)
		listingCache = cache.NewRedisListingCache(redisClient, log)
		log.Info("Redis connected successfully")
	} else {
		principalStore = session.NewMemoryStore()
		listingCache = cache.NewMemoryListingCache()
		log.Warn("Redis disabled, using in-process session store and listing cache")
	}

	codec := session.NewCodec(cfg.Session.Secret, cfg.Session.Issuer)

	// Application services
	adminAuth := authapp.NewAdminService(client, codec, principalStore, cfg.Session.AdminTTL, log)
	customerAuth := authapp.NewCustomerService(client, codec, principalStore, cfg.Session.CustomerTTL, log)
	orderingService := orderingapp.NewService(client, log)
	cartService := cartapp.NewService(client, log)
	catalogService := catalogapp.NewService(client, listingCache, cfg.Cache.ListingTTL, log)
	reportService := reportapp.NewService(client, log)
	directoryService := directoryapp.NewService(client, log)

	go catalogService.RunSweeper(rootCtx, catalogSweepInterval, catalogMaxIdle)

	// Analytics spool and background flusher
	var analyticsService *analyticsapp.Service
	if cfg.Analytics.Enabled {
		db, err := persistence.NewDatabase(&cfg.Spool, log)
		if err != nil {
			log.Fatal("Failed to open analytics spool database", zap.Error(err))
		}
		spoolRepo := persistence.NewSpoolRepository(db)
		analyticsService = analyticsapp.NewService(
			spoolRepo,
			client,
			cfg.Analytics.BatchSize,
			cfg.Analytics.FlushInterval,
			cfg.Analytics.MaxRetries,
			cfg.Analytics.Retention,
			log,
		)
		go analyticsService.Run(rootCtx)
		log.Info("Analytics spool started",
			zap.String("driver", cfg.Spool.Driver),
			zap.Int("batch_size", cfg.Analytics.BatchSize),
			zap.Duration("flush_interval", cfg.Analytics.FlushInterval),
		)
	}

	// Prometheus registry with process and runtime collectors
	registry := prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	engine := router.Setup(router.Dependencies{
		Config:    cfg,
		Logger:    log,
		Registry:  registry,
		Upstream:  client,
		AdminAuth: adminAuth,
		CustAuth:  customerAuth,
		Ordering:  orderingService,
		Cart:      cartService,
		Catalog:   catalogService,
		Report:    reportService,
		Directory: directoryService,
		Analytics: analyticsService,
		Version:   version,
	})

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

	// Stop background workers after the listener drains so in-flight
	// requests can still spool events
	rootCancel()

	log.Info("Server exited gracefully")
}
