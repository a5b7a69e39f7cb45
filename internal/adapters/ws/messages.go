package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lotboard/lotboard-service/internal/countdown"
	"github.com/lotboard/lotboard-service/internal/domain/lifecycle"
	"github.com/lotboard/lotboard-service/internal/domain/shared"
)

type MessageType string

const (
	// Client to Server message types
	MessageTypeWatch   MessageType = "watch"
	MessageTypeUnwatch MessageType = "unwatch"
	MessageTypePing    MessageType = "ping"

	// Server to Client message types
	MessageTypeStatus   MessageType = "status"
	MessageTypeTick     MessageType = "tick"
	MessageTypeFinished MessageType = "finished"
	MessageTypeError    MessageType = "error"
	MessageTypePong     MessageType = "pong"
)

// ClientMessage represents a message sent from client to server
type ClientMessage struct {
	Type      MessageType `json:"type"`
	LotID     string      `json:"lot_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// ServerMessage represents a message sent from server to client
type ServerMessage struct {
	Type      MessageType         `json:"type"`
	LotID     string              `json:"lot_id,omitempty"`
	State     *lifecycle.State    `json:"state,omitempty"`
	Countdown *countdown.Snapshot `json:"countdown,omitempty"`
	Error     *string             `json:"error,omitempty"`
	Timestamp int64               `json:"timestamp"`
}

func NewServerMessage(msgType MessageType) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Timestamp: time.Now().Unix(),
	}
}

func NewErrorMessage(err string, lotID string) *ServerMessage {
	msg := NewServerMessage(MessageTypeError)
	msg.LotID = lotID
	msg.Error = &err
	return msg
}

// NewStatusMessage creates a message carrying a lot's derived lifecycle state
func NewStatusMessage(lotID string, state lifecycle.State) *ServerMessage {
	msg := NewServerMessage(MessageTypeStatus)
	msg.LotID = lotID
	msg.State = &state
	return msg
}

// NewTickMessage creates a countdown tick message
func NewTickMessage(lotID string, snapshot countdown.Snapshot) *ServerMessage {
	msg := NewServerMessage(MessageTypeTick)
	msg.LotID = lotID
	msg.Countdown = &snapshot
	return msg
}

// NewFinishedMessage creates the terminal countdown message for a lot
func NewFinishedMessage(lotID string, snapshot countdown.Snapshot) *ServerMessage {
	msg := NewServerMessage(MessageTypeFinished)
	msg.LotID = lotID
	msg.Countdown = &snapshot
	return msg
}

// ParseClientMessage parses a JSON message from client
func ParseClientMessage(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse client message: %w", err)
	}

	if msg.Type == "" {
		return nil, shared.ErrMessageTypeRequired
	}

	return &msg, nil
}

// Validate validates a client message
func (m *ClientMessage) Validate() error {
	switch m.Type {
	case MessageTypeWatch, MessageTypeUnwatch:
		if m.LotID == "" {
			return shared.ErrLotIDRequired
		}
	case MessageTypePing:

	default:
		return shared.ErrUnknownMessageType
	}

	return nil
}
