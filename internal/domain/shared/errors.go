package shared

import "errors"

// Domain-specific errors
var (
	// Lot errors
	ErrLotNotFound   = errors.New("lot not found")
	ErrLotIDRequired = errors.New("lot_id is required")

	// Upstream listing API errors
	ErrUpstreamUnavailable = errors.New("upstream listing API unavailable")
	ErrUpstreamBadPayload  = errors.New("upstream listing API returned a malformed payload")

	// Snapshot cache errors
	ErrSnapshotCacheMiss = errors.New("no listing snapshot in cache")

	// WebSocket message validation errors
	ErrMessageTypeRequired = errors.New("message type is required")
	ErrUnknownMessageType  = errors.New("unknown message type")
)
