package inbound

import (
	"context"

	"github.com/lotboard/lotboard-service/internal/domain/lifecycle"
	"github.com/lotboard/lotboard-service/internal/domain/lot"
)

// LotView pairs a lot with its derived lifecycle state at serve time.
type LotView struct {
	Lot   lot.Lot         `json:"lot"`
	State lifecycle.State `json:"state"`
}

// LotListing is one page of the filtered listing with derived state attached.
type LotListing struct {
	Lots       []LotView `json:"lots"`
	TotalCount int       `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
	HasNext    bool      `json:"hasNext"`
	HasPrev    bool      `json:"hasPrev"`
}

// ListLotsRequest carries the filter and pagination criteria for a listing read.
type ListLotsRequest struct {
	Categories []string `json:"categories,omitempty"`
	Statuses   []string `json:"statuses,omitempty"`
	SearchText string   `json:"search_text,omitempty"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
}

// CatalogService defines the interface for listing reads and refreshes
type CatalogService interface {
	// ListLots filters and paginates the current snapshot
	ListLots(ctx context.Context, req ListLotsRequest) (*LotListing, error)

	// GetLot retrieves a single lot with its derived state
	GetLot(ctx context.Context, lotID string) (*LotView, error)

	// FeaturedLots returns up to limit active lots, soonest ending first
	FeaturedLots(ctx context.Context, limit int) ([]LotView, error)

	// Refresh re-fetches the full listing from the upstream API
	Refresh(ctx context.Context) error

	// Snapshot returns a copy of the current in-memory listing
	Snapshot() []lot.Lot
}
