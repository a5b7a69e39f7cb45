package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lotboard/lotboard-service/internal/domain/lot"
	"github.com/lotboard/lotboard-service/internal/domain/shared"
)

const snapshotKey = "lots:snapshot"

// SnapshotCache stores the full listing snapshot in Redis so restarts and
// sibling instances can serve before their first upstream fetch. Implements
// outbound.SnapshotCache.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

type SnapshotCacheParams struct {
	RedisClient *redis.Client
	TTL         time.Duration
	Logger      zerolog.Logger
}

// NewSnapshotCache creates a new Redis-backed snapshot cache
func NewSnapshotCache(params SnapshotCacheParams) *SnapshotCache {
	ttl := params.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &SnapshotCache{
		client: params.RedisClient,
		ttl:    ttl,
		logger: params.Logger.With().Str("component", "snapshot_cache").Logger(),
	}
}

// Store persists the full concatenated listing snapshot
func (c *SnapshotCache) Store(ctx context.Context, lots []lot.Lot) error {
	payload, err := json.Marshal(lots)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := c.client.Set(ctx, snapshotKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	c.logger.Debug().Int("lot_count", len(lots)).Msg("Snapshot stored in cache")
	return nil
}

// Load retrieves the cached snapshot
func (c *SnapshotCache) Load(ctx context.Context) ([]lot.Lot, error) {
	payload, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrSnapshotCacheMiss
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var lots []lot.Lot
	if err := json.Unmarshal(payload, &lots); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return lots, nil
}
