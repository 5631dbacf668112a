package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"kitchen_dashboard/internal/cache"
	"kitchen_dashboard/internal/config"
	"kitchen_dashboard/internal/handlers"
	"kitchen_dashboard/internal/notifications"
	"kitchen_dashboard/internal/observability"
	"kitchen_dashboard/internal/router"
	"kitchen_dashboard/internal/security"
	"kitchen_dashboard/internal/server"
	"kitchen_dashboard/internal/session"
	"kitchen_dashboard/internal/setup"
)

func main() {
	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.LoadConfig(logger)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	observability.SetVersion(cfg.App.Version)

	var resources []server.Resource

	// Session cache: Redis when configured, memory otherwise
	memoryConfig := cache.DefaultConfig()
	memoryConfig.DefaultTTL = cfg.Session.TTL

	var sessionCache *cache.FallbackCache
	if cfg.Redis.Addr != "" {
		redisConfig := cache.DefaultRedisConfig()
		redisConfig.Config = memoryConfig
		redisConfig.Addr = cfg.Redis.Addr
		redisConfig.Password = cfg.Redis.Password
		redisConfig.DB = cfg.Redis.DB
		redisConfig.Logger = logger

		sessionCache = cache.NewFallbackCache(&cache.FallbackConfig{
			Redis:  redisConfig,
			Memory: memoryConfig,
			Logger: logger,
		})
	} else {
		sessionCache = cache.NewFallbackCacheWith(nil, cache.NewMemoryCache(memoryConfig), logger)
	}
	resources = append(resources, server.CacheResource("session-cache", sessionCache))

	health := observability.NewHealth(logger, 5*time.Second,
		observability.CacheProbe(sessionCache.Ping, sessionCache.UsingPrimary),
	)

	// Notifications: demo feed or the notifications table

	var provider notifications.Provider = notifications.NewStaticProvider(nil)
	if cfg.Dashboard.NotificationsSource == config.NotificationsSourcePostgres {
		db, err := config.NewPool(config.DBConfigFrom(cfg.Database, logger))
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		resources = append(resources, server.DatabaseResource(db))
		health.Add(observability.DatabaseProbe(db.Ping))
		provider = notifications.NewPostgresProvider(db, cfg.Dashboard.NotificationsLimit, logger)
	}

	checker := setup.NewChecker(cfg.Integrations)
	health.Add(observability.CredentialsProbe(checker.AllRequired))

	// Metrics on a dedicated registry with the runtime collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsConfig := observability.DefaultMetricsConfig("kitchen")
	metricsConfig.Registerer = registry
	metricsConfig.Logger = logger
	metrics := observability.NewMetrics(metricsConfig)

	sessions, err := session.NewManager(&session.Config{
		Cache:        sessionCache,
		Secret:       cfg.Session.Secret,
		TTL:          cfg.Session.TTL,
		CookieSecure: cfg.Session.CookieSecure,
		Logger:       logger,
	})
	if err != nil {
		log.Fatalf("Failed to create session manager: %v", err)
	}

	csrf := security.NewCSRFProtection(logger)

	h := handlers.NewHandler(handlers.Handler{
		Logger:        logger,
		Metrics:       metrics,
		Checker:       checker,
		Notifications: provider,
		CSRF:          csrf,
		SetupPath:     cfg.Dashboard.SetupPath,
		CookieSecure:  cfg.Session.CookieSecure,
	})

	r, err := router.SetupRoutes(&router.Config{
		Logger:     logger,
		Handler:    h,
		Sessions:   sessions,
		CSRF:       csrf,
		Metrics:    metrics,
		Gatherer:   registry,
		Health:     health,
		Production: cfg.IsProduction(),

		ResponseCache:    sessionCache,
		ResponseCacheTTL: cfg.Dashboard.NotificationsCacheTTL,
	})
	if err != nil {
		log.Fatalf("Failed to setup routes: %v", err)
	}

	if ok, _ := checker.AllRequired(context.Background()); !ok {
		logger.Warn("required API credentials missing, the dashboard will show the configuration banner")
	}

	serverConfig := server.DefaultConfig(":" + cfg.Server.Port)
	if cfg.IsProduction() {
		serverConfig = server.ProductionConfig(":" + cfg.Server.Port)
	}
	serverConfig.Logger = logger
	if cfg.TLS.Enabled {
		serverConfig.TLS = &server.TLSFiles{CertFile: cfg.TLS.CertFile, KeyFile: cfg.TLS.KeyFile}
	}

	logger.Info("Starting server", "address", cfg.GetServerAddress())

	// Start server (this includes graceful shutdown handling)
	if err := server.Start(r.Handler(), serverConfig, resources); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
