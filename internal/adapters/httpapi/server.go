package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/lotboard/lotboard-service/internal/adapters/ws"
	"github.com/lotboard/lotboard-service/internal/config"
	"github.com/lotboard/lotboard-service/internal/ports/inbound"
	"github.com/lotboard/lotboard-service/internal/ports/outbound"
)

// Server exposes the listing API and the countdown WebSocket endpoint.
type Server struct {
	httpServer *http.Server
	config     *config.Config
	logger     zerolog.Logger
}

type ServerParams struct {
	Config    *config.Config
	Catalog   inbound.CatalogService
	Audit     outbound.AuditSink
	WsHandler *ws.Handler
	Logger    zerolog.Logger
}

func NewServer(params ServerParams) *Server {
	handler := NewLotHandler(LotHandlerParams{
		Catalog: params.Catalog,
		Audit:   params.Audit,
		Logger:  params.Logger,
	})

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: params.Config.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/health", handleHealth)
	router.Route("/api", func(r chi.Router) {
		r.Get("/lots", handler.ListLots)
		r.Get("/lots/featured", handler.FeaturedLots)
		r.Get("/lots/{id}", handler.GetLot)
		r.Get("/audit", handler.RecentAudit)
	})
	router.Get("/ws/countdown", params.WsHandler.HandleWebSocket)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", params.Config.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Minute,
	}

	return &Server{
		httpServer: httpServer,
		config:     params.Config,
		logger:     params.Logger.With().Str("component", "http_server").Logger(),
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("Stopping HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok", "service": "lotboard"}`))
}
