package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alitto/pond"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lotboard/lotboard-service/internal/config"
	"github.com/lotboard/lotboard-service/internal/countdown"
)

// Client is one WebSocket consumer of countdown streams. Each watched lot
// owns exactly one running countdown ticker; watching a lot again replaces
// the previous ticker so no stale timer overlaps the new one.
type Client struct {
	id         string
	conn       *websocket.Conn
	sendChan   chan *ServerMessage
	ctx        context.Context
	cancel     context.CancelFunc
	handler    *Handler
	workerPool *pond.WorkerPool

	tickers   map[string]*countdown.Ticker
	tickersMu sync.Mutex

	stopped bool
	mu      sync.Mutex
	logger  zerolog.Logger
}

type ClientParams struct {
	Conn    *websocket.Conn
	Handler *Handler
	Logger  zerolog.Logger
}

// NewClient creates a new WebSocket client
func NewClient(params ClientParams) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	pool := pond.New(
		config.WSMaxWorkers,
		config.WSMaxCapacity,
		pond.Context(ctx),
		pond.Strategy(pond.Balanced()),
	)

	id := uuid.New().String()
	return &Client{
		id:         id,
		conn:       params.Conn,
		sendChan:   make(chan *ServerMessage, 100), // Buffered channel to absorb tick bursts
		ctx:        ctx,
		cancel:     cancel,
		handler:    params.Handler,
		workerPool: pool,
		tickers:    make(map[string]*countdown.Ticker),
		logger:     params.Logger.With().Str("client_id", id).Logger(),
	}
}

func (client *Client) Start() {
	go client.messageSender()
	go client.messageReceiver()
}

// Stop tears the client down: all countdown tickers are stopped first so no
// tick can land on a closing connection, then the connection is closed and
// the worker pool released. The send channel is never closed; messageSender
// exits on the cancelled context, so a Send racing Stop fails cleanly instead
// of hitting a closed channel. Safe to call more than once.
func (client *Client) Stop() {
	client.stopAllTickers()

	client.mu.Lock()
	defer client.mu.Unlock()

	// Prevent double closing
	if client.stopped {
		return
	}
	client.stopped = true

	client.cancel()
	client.conn.Close()

	if client.workerPool != nil {
		client.workerPool.Stop()
	}
}

// Send queues a message for delivery. Safe to call concurrently with Stop.
func (client *Client) Send(msg *ServerMessage) error {
	select {
	case <-client.ctx.Done():
		return fmt.Errorf("client is stopped")
	default:
	}

	select {
	case client.sendChan <- msg:
		return nil
	case <-client.ctx.Done():
		return fmt.Errorf("client is stopped")
	case <-time.After(100 * time.Millisecond):
		return fmt.Errorf("client send channel is full")
	}
}

// watch starts a countdown toward target for the given lot, cancelling any
// countdown already running for it.
func (client *Client) watch(lotID string, target time.Time) {
	client.tickersMu.Lock()
	if previous, ok := client.tickers[lotID]; ok {
		delete(client.tickers, lotID)
		client.tickersMu.Unlock()
		previous.Stop()
		client.tickersMu.Lock()
	}

	ticker := countdown.NewTicker(countdown.TickerParams{
		Target: target,
		OnTick: func(snapshot countdown.Snapshot) {
			var msg *ServerMessage
			if snapshot.Finished {
				msg = NewFinishedMessage(lotID, snapshot)
			} else {
				msg = NewTickMessage(lotID, snapshot)
			}
			if err := client.Send(msg); err != nil {
				client.logger.Debug().Err(err).Str("lot_id", lotID).Msg("Dropped countdown message")
			}
		},
	})
	client.tickers[lotID] = ticker
	client.tickersMu.Unlock()

	ticker.Start()
}

// unwatch stops the countdown for a lot, if one is running.
func (client *Client) unwatch(lotID string) {
	client.tickersMu.Lock()
	ticker, ok := client.tickers[lotID]
	if ok {
		delete(client.tickers, lotID)
	}
	client.tickersMu.Unlock()

	if ok {
		ticker.Stop()
	}
}

func (client *Client) stopAllTickers() {
	client.tickersMu.Lock()
	tickers := make([]*countdown.Ticker, 0, len(client.tickers))
	for _, ticker := range client.tickers {
		tickers = append(tickers, ticker)
	}
	client.tickers = make(map[string]*countdown.Ticker)
	client.tickersMu.Unlock()

	for _, ticker := range tickers {
		ticker.Stop()
	}
}

func (client *Client) messageSender() {
	for {
		select {
		case msg := <-client.sendChan:
			if err := client.sendMessage(msg); err != nil {
				client.logger.Error().Err(err).Msg("Failed to send message to client")
				return
			}
		case <-client.ctx.Done():
			return
		}
	}
}

func (client *Client) messageReceiver() {
	for {
		select {
		case <-client.ctx.Done():
			return
		default:
			_, message, err := client.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					client.logger.Error().Err(err).Msg("WebSocket read error for client")
				} else {
					client.logger.Info().Str("error", err.Error()).Msg("WebSocket connection closed for client")
				}
				// Cancel context to notify handler about disconnection
				client.cancel()
				return
			}

			client.workerPool.Submit(func() {
				if err := client.handleMessage(message); err != nil {
					client.logger.Error().Err(err).Msg("Failed to handle message in worker pool")
					errorMsg := NewErrorMessage(err.Error(), "")
					client.sendMessage(errorMsg)
				}
			})
		}
	}
}

func (client *Client) sendMessage(msg *ServerMessage) error {
	return client.conn.WriteJSON(msg)
}

func (client *Client) handleMessage(data []byte) error {
	msg, err := ParseClientMessage(data)
	if err != nil {
		return fmt.Errorf("invalid message format: %w", err)
	}

	if err := msg.Validate(); err != nil {
		return fmt.Errorf("message validation failed: %w", err)
	}

	if msg.Type == MessageTypePing {
		return client.Send(NewServerMessage(MessageTypePong))
	}

	if client.handler != nil {
		return client.handler.HandleClientMessage(client, msg)
	}
	return fmt.Errorf("handler not available")
}
