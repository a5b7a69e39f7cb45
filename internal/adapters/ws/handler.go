package ws

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lotboard/lotboard-service/internal/config"
	"github.com/lotboard/lotboard-service/internal/ports/inbound"
)

// Handler manages WebSocket connections and routes watch/unwatch messages to
// per-client countdown tickers.
type Handler struct {
	clients   map[string]*Client
	clientsMu sync.RWMutex
	upgrader  websocket.Upgrader
	catalog   inbound.CatalogService
	logger    zerolog.Logger
}

type HandlerParams struct {
	Config  *config.Config
	Catalog inbound.CatalogService
	Logger  zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(params HandlerParams) *Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  params.Config.WebSocket.ReadBufferSize,
		WriteBufferSize: params.Config.WebSocket.WriteBufferSize,
		// The SPA origin is enforced by the CORS layer; the countdown stream
		// itself carries no privileged data.
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	return &Handler{
		clients:  make(map[string]*Client),
		upgrader: upgrader,
		catalog:  params.Catalog,
		logger:   params.Logger.With().Str("component", "ws_handler").Logger(),
	}
}

// HandleWebSocket handles WebSocket connection upgrades
func (handler *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := handler.upgrader.Upgrade(w, r, nil)
	if err != nil {
		handler.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := NewClient(ClientParams{
		Conn:    conn,
		Handler: handler,
		Logger:  handler.logger,
	})

	handler.registerClient(client)
	client.Start()

	// Wait for client to disconnect
	go func() {
		<-client.ctx.Done()
		handler.unregisterClient(client)
	}()

	handler.logger.Info().Str("client_id", client.id).Msg("WebSocket client connected")
}

// HandleClientMessage routes a validated client message.
func (handler *Handler) HandleClientMessage(client *Client, msg *ClientMessage) error {
	switch msg.Type {
	case MessageTypeWatch:
		return handler.handleWatch(client, msg.LotID)
	case MessageTypeUnwatch:
		client.unwatch(msg.LotID)
		return nil
	default:
		return nil
	}
}

// handleWatch classifies the lot, sends its current derived state and, when a
// countdown applies, starts streaming ticks for it.
func (handler *Handler) handleWatch(client *Client, lotID string) error {
	view, err := handler.catalog.GetLot(client.ctx, lotID)
	if err != nil {
		handler.logger.Debug().Err(err).Str("lot_id", lotID).Msg("Watch requested for unknown lot")
		return err
	}

	if err := client.Send(NewStatusMessage(lotID, view.State)); err != nil {
		return err
	}

	// Draft, ended and malformed lots have no countdown; the status message
	// is the whole answer.
	if view.State.CountdownTarget == nil {
		client.unwatch(lotID)
		return nil
	}

	client.watch(lotID, *view.State.CountdownTarget)

	handler.logger.Debug().
		Str("client_id", client.id).
		Str("lot_id", lotID).
		Time("target", *view.State.CountdownTarget).
		Msg("Countdown started for client")
	return nil
}

func (handler *Handler) registerClient(client *Client) {
	handler.clientsMu.Lock()
	defer handler.clientsMu.Unlock()
	handler.clients[client.id] = client
	handler.logger.Debug().Str("client_id", client.id).Int("total_clients", len(handler.clients)).Msg("Client registered")
}

func (handler *Handler) unregisterClient(client *Client) {
	handler.clientsMu.Lock()
	defer handler.clientsMu.Unlock()

	delete(handler.clients, client.id)
	client.Stop()

	handler.logger.Info().Str("client_id", client.id).Int("total_clients", len(handler.clients)).Msg("WebSocket client disconnected")
}

// Shutdown stops every connected client.
func (handler *Handler) Shutdown() {
	handler.clientsMu.Lock()
	clients := make([]*Client, 0, len(handler.clients))
	for _, client := range handler.clients {
		clients = append(clients, client)
	}
	handler.clients = make(map[string]*Client)
	handler.clientsMu.Unlock()

	for _, client := range clients {
		client.Stop()
	}
}
