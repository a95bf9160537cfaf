package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/cartwise/companion-service/config"
	"github.com/cartwise/companion-service/internal/catalog"
	"github.com/cartwise/companion-service/internal/database"
	"github.com/cartwise/companion-service/internal/handlers"
	"github.com/cartwise/companion-service/internal/location"
	"github.com/cartwise/companion-service/internal/middleware"
	"github.com/cartwise/companion-service/internal/proximity"
	"github.com/cartwise/companion-service/internal/scan"
	"github.com/cartwise/companion-service/internal/stores"
	"github.com/cartwise/companion-service/internal/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting companion service")

	ctx := context.Background()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL not set")
	}

	pool, err := database.NewPool(ctx, database.PoolConfig{
		URL:             dbURL,
		MaxConnections:  cfg.Database.MaxConnections,
		MinConnections:  cfg.Database.MinConnections,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	logger.Info().Msg("Database connected")

	source := catalog.NewPostgresCatalog(pool)
	cached := catalog.NewCachedCatalog(source, cfg.Catalog.CacheTTL, cfg.Catalog.WarmupConcurrency, *logger)
	if err := cached.Warmup(ctx); err != nil {
		// Lookups lazily retry the load, so a cold start is degraded, not fatal.
		logger.Warn().Err(err).Msg("Catalog warmup failed, continuing with lazy loads")
	}

	// Notification delivery to devices is owned by the mobile client; the
	// service records the entry event.
	notifier := proximity.NotifierFunc(func(_ context.Context, nearest []stores.StoreRecord) {
		logger.Info().Int("stores", len(nearest)).Msg("User entered supermarket proximity")
	})

	monitor := proximity.NewMonitor(cached, notifier, cfg.Proximity.VeryCloseRadiusKm, *logger)

	policy := location.Policy{
		HighAccuracyTimeout: cfg.Location.HighAccuracyTimeout,
		HighAccuracyMaxAge:  cfg.Location.HighAccuracyMaxAge,
		LowAccuracyTimeout:  cfg.Location.LowAccuracyTimeout,
		LowAccuracyMaxAge:   cfg.Location.LowAccuracyMaxAge,
	}
	if err := policy.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid location policy")
	}

	var identifier handlers.ProductIdentifier
	if cfg.Scan.VisionEndpoint != "" {
		visionCfg := scan.DefaultVisionConfig()
		visionCfg.Endpoint = cfg.Scan.VisionEndpoint
		visionCfg.APIKey = cfg.Scan.VisionAPIKey
		visionCfg.ConfidenceThreshold = cfg.Scan.ConfidenceThreshold
		visionCfg.Timeout = cfg.Scan.Timeout
		identifier = scan.NewVisionClient(visionCfg, *logger)
	} else {
		logger.Warn().Msg("VISION_ENDPOINT not set, photo scanning disabled")
	}

	h := handlers.New(handlers.Config{
		Catalog:        cached,
		Monitor:        monitor,
		Identifier:     identifier,
		Pool:           pool,
		NearbyRadiusKm: cfg.Proximity.NearbyRadiusKm,
		LocationPolicy: policy,
		Logger:         *logger,
	})

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuth())
	internal.Use(middleware.RateLimit(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
	}))
	{
		internal.GET("/health", h.HealthCheck)

		storesGroup := internal.Group("/stores")
		{
			storesGroup.GET("/nearby", h.NearbyStores)
			storesGroup.GET("/cheapest", h.CheapestStores)
		}

		internal.GET("/location/policy", h.LocationPolicy)
		internal.POST("/proximity/evaluate", h.EvaluateProximity)
		internal.POST("/nutrition/score", h.ScoreNutrition)
		internal.POST("/scan", h.ScanProduct)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Telemetry shutdown failed")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "companion-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		end := time.Now()
		latency := end.Sub(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
