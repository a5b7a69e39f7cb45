package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lotboard/lotboard-service/internal/adapters/cache"
	"github.com/lotboard/lotboard-service/internal/adapters/db"
	"github.com/lotboard/lotboard-service/internal/adapters/httpapi"
	"github.com/lotboard/lotboard-service/internal/adapters/redisclient"
	"github.com/lotboard/lotboard-service/internal/adapters/refresher"
	"github.com/lotboard/lotboard-service/internal/adapters/upstream"
	"github.com/lotboard/lotboard-service/internal/adapters/ws"
	"github.com/lotboard/lotboard-service/internal/app"
	"github.com/lotboard/lotboard-service/internal/config"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	initLogging(cfg)

	log.Info().Msg("Starting Lotboard listing service...")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection for the audit sink
	dbConn, err := db.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbConn.Close()

	auditRepo := db.NewAuditRepository(dbConn)
	log.Info().Msg("Database connection established")

	// Create Redis client for the snapshot cache
	redisClient := redisclient.NewClient(cfg)
	if err := redisclient.Ping(redisClient); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	log.Info().Msg("Redis connection established")

	snapshotCache := cache.NewSnapshotCache(cache.SnapshotCacheParams{
		RedisClient: redisClient,
		TTL:         cfg.Redis.SnapshotTTL,
		Logger:      log.Logger,
	})

	// Upstream listing client
	lotSource := upstream.NewClient(upstream.ClientParams{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
		Logger:  log.Logger,
	})

	// Catalog service
	catalogService := app.NewCatalogService(app.CatalogServiceParams{
		Source:        lotSource,
		Cache:         snapshotCache,
		Audit:         auditRepo,
		FetchPageSize: cfg.Upstream.PageSize,
		Logger:        log.Logger,
	})
	defer catalogService.Stop()

	// Serve from the cached snapshot until the first refresh lands
	catalogService.WarmStart(ctx)

	log.Info().Msg("Catalog service initialized")

	// Start the background listing refresher
	listingRefresher := refresher.NewRefresher(refresher.RefresherParams{
		Catalog:  catalogService,
		Interval: cfg.Refresh.Interval,
		Logger:   log.Logger,
	})
	listingRefresher.Start()
	log.Info().Msg("Listing refresher started")

	// Countdown WebSocket handler
	wsHandler := ws.NewHandler(ws.HandlerParams{
		Config:  cfg,
		Catalog: catalogService,
		Logger:  log.Logger,
	})

	// HTTP API server
	server := httpapi.NewServer(httpapi.ServerParams{
		Config:    cfg,
		Catalog:   catalogService,
		Audit:     auditRepo,
		WsHandler: wsHandler,
		Logger:    log.Logger,
	})

	log.Info().Msg("HTTP server initialized")

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Failed to start HTTP server")
			cancel()
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled")
	}

	// Graceful shutdown
	log.Info().Msg("Starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop the refresher
	listingRefresher.Stop()
	log.Info().Msg("Listing refresher stopped")

	// Stop WebSocket clients and their countdown tickers
	wsHandler.Shutdown()
	log.Info().Msg("WebSocket clients stopped")

	// Stop HTTP server
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping HTTP server")
	}

	log.Info().Msg("Graceful shutdown completed")
}

func initLogging(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Set log format
	if cfg.Logging.Format == "json" {
		// JSON format (default)
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		// Console format for development
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set global logger
	zerolog.DefaultContextLogger = &log.Logger
}
