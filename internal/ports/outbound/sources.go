package outbound

import (
	"context"

	"github.com/lotboard/lotboard-service/internal/domain/lot"
)

// LotPage is one backend page of the upstream listing.
type LotPage struct {
	Lots       []lot.Lot
	TotalCount int
	HasNext    bool
}

// LotSource defines the interface to the upstream listing API
type LotSource interface {
	// FetchPage retrieves one backend page of the listing. Pages are 1-indexed.
	FetchPage(ctx context.Context, page, pageSize int) (*LotPage, error)
}

// SnapshotCache defines the interface for the shared listing snapshot cache
type SnapshotCache interface {
	// Store persists the full concatenated listing snapshot
	Store(ctx context.Context, lots []lot.Lot) error

	// Load retrieves the cached snapshot; returns shared.ErrSnapshotCacheMiss
	// when none is present
	Load(ctx context.Context) ([]lot.Lot, error)
}
