package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alitto/pond"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lotboard/lotboard-service/internal/config"
	"github.com/lotboard/lotboard-service/internal/domain/lifecycle"
	"github.com/lotboard/lotboard-service/internal/domain/listing"
	"github.com/lotboard/lotboard-service/internal/domain/lot"
	"github.com/lotboard/lotboard-service/internal/domain/shared"
	"github.com/lotboard/lotboard-service/internal/ports/inbound"
	"github.com/lotboard/lotboard-service/internal/ports/outbound"
)

// CatalogService holds the in-memory listing snapshot and serves filtered,
// classified reads from it. Implements inbound.CatalogService.
type CatalogService struct {
	source        outbound.LotSource
	cache         outbound.SnapshotCache
	audit         outbound.AuditSink
	fetchPageSize int
	pool          *pond.WorkerPool

	mu          sync.RWMutex
	snapshot    []lot.Lot
	refreshedAt time.Time

	logger zerolog.Logger
}

type CatalogServiceParams struct {
	Source        outbound.LotSource
	Cache         outbound.SnapshotCache
	Audit         outbound.AuditSink
	FetchPageSize int
	Logger        zerolog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(params CatalogServiceParams) *CatalogService {
	fetchPageSize := params.FetchPageSize
	if fetchPageSize <= 0 {
		fetchPageSize = config.DefaultPageSize
	}

	return &CatalogService{
		source:        params.Source,
		cache:         params.Cache,
		audit:         params.Audit,
		fetchPageSize: fetchPageSize,
		pool:          pond.New(config.RefreshMaxWorkers, config.RefreshMaxCapacity),
		logger:        params.Logger.With().Str("component", "catalog_service").Logger(),
	}
}

// WarmStart seeds the snapshot from the cache so reads work before the first
// upstream refresh completes. A cache miss is not an error.
func (service *CatalogService) WarmStart(ctx context.Context) {
	if service.cache == nil {
		return
	}

	lots, err := service.cache.Load(ctx)
	if err != nil {
		service.logger.Info().Err(err).Msg("No cached snapshot for warm start")
		return
	}

	service.mu.Lock()
	service.snapshot = lots
	service.refreshedAt = time.Now()
	service.mu.Unlock()

	service.logger.Info().Int("lot_count", len(lots)).Msg("Snapshot warm-started from cache")
}

// Refresh pulls every upstream page, concatenates them in page order and
// atomically swaps the in-memory snapshot. Pages are fetched concurrently
// when the first page carries a total count; envelopes that only signal
// continuation through HasNext are walked sequentially instead. On any fetch
// failure the previous snapshot is kept and keeps being served.
func (service *CatalogService) Refresh(ctx context.Context) error {
	first, err := service.source.FetchPage(ctx, 1, service.fetchPageSize)
	if err != nil {
		service.logger.Error().Err(err).Msg("Failed to fetch first upstream page")
		return fmt.Errorf("failed to fetch upstream listing: %w", err)
	}

	totalPages := 1
	if first.TotalCount > len(first.Lots) {
		totalPages = (first.TotalCount + service.fetchPageSize - 1) / service.fetchPageSize
	}

	var all []lot.Lot
	if totalPages > 1 {
		all, err = service.fetchConcurrent(ctx, first.Lots, totalPages)
	} else {
		all, err = service.fetchSequential(ctx, first)
	}
	if err != nil {
		service.logger.Error().Err(err).Msg("Upstream refresh failed, keeping previous snapshot")
		return err
	}

	service.mu.Lock()
	service.snapshot = all
	service.refreshedAt = time.Now()
	service.mu.Unlock()

	service.logger.Info().
		Int("lot_count", len(all)).
		Msg("Listing snapshot refreshed")

	if service.cache != nil {
		if err := service.cache.Store(ctx, all); err != nil {
			service.logger.Warn().Err(err).Msg("Failed to store snapshot in cache")
		}
	}

	service.auditInconsistencies(ctx, all)

	return nil
}

// fetchConcurrent fans pages 2..totalPages out on the worker pool and
// concatenates them in page order.
func (service *CatalogService) fetchConcurrent(ctx context.Context, firstPage []lot.Lot, totalPages int) ([]lot.Lot, error) {
	pages := make([][]lot.Lot, totalPages+1)
	pages[1] = firstPage

	var fetchMu sync.Mutex
	var fetchErr error

	group := service.pool.Group()
	for p := 2; p <= totalPages; p++ {
		page := p
		group.Submit(func() {
			result, err := service.source.FetchPage(ctx, page, service.fetchPageSize)
			fetchMu.Lock()
			defer fetchMu.Unlock()
			if err != nil {
				if fetchErr == nil {
					fetchErr = fmt.Errorf("failed to fetch upstream page %d: %w", page, err)
				}
				return
			}
			pages[page] = result.Lots
		})
	}
	group.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}

	var all []lot.Lot
	for p := 1; p <= totalPages; p++ {
		all = append(all, pages[p]...)
	}
	return all, nil
}

// fetchSequential walks pages while the envelope reports more. Count-less
// upstream responses only signal continuation through HasNext, so the next
// page number is unknowable until the previous page arrives.
func (service *CatalogService) fetchSequential(ctx context.Context, first *outbound.LotPage) ([]lot.Lot, error) {
	all := first.Lots
	hasNext := first.HasNext

	for page := 2; hasNext; page++ {
		result, err := service.source.FetchPage(ctx, page, service.fetchPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch upstream page %d: %w", page, err)
		}
		if len(result.Lots) == 0 {
			break
		}
		all = append(all, result.Lots...)
		hasNext = result.HasNext
	}

	return all, nil
}

// ListLots filters and paginates the current snapshot and classifies every
// surfaced lot against the current wall clock.
func (service *CatalogService) ListLots(ctx context.Context, req inbound.ListLotsRequest) (*inbound.LotListing, error) {
	criteria := listing.Criteria{
		Categories: req.Categories,
		Statuses:   req.Statuses,
		SearchText: req.SearchText,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
	if criteria.PageSize <= 0 {
		criteria.PageSize = config.DefaultPageSize
	}

	result := listing.Apply(service.Snapshot(), criteria)

	now := time.Now()
	views := make([]inbound.LotView, 0, len(result.Page))
	for _, l := range result.Page {
		views = append(views, inbound.LotView{Lot: l, State: lifecycle.Classify(l, now)})
	}

	return &inbound.LotListing{
		Lots:       views,
		TotalCount: result.TotalCount,
		TotalPages: result.TotalPages,
		HasNext:    result.HasNext,
		HasPrev:    result.HasPrev,
	}, nil
}

// GetLot retrieves a single lot with its derived state.
func (service *CatalogService) GetLot(ctx context.Context, lotID string) (*inbound.LotView, error) {
	service.mu.RLock()
	defer service.mu.RUnlock()

	for _, l := range service.snapshot {
		if l.ID == lotID {
			return &inbound.LotView{Lot: l, State: lifecycle.Classify(l, time.Now())}, nil
		}
	}

	return nil, shared.ErrLotNotFound
}

// FeaturedLots returns up to limit currently active lots, soonest ending first.
func (service *CatalogService) FeaturedLots(ctx context.Context, limit int) ([]inbound.LotView, error) {
	if limit <= 0 {
		limit = config.DefaultFeaturedLimit
	}

	now := time.Now()
	var featured []inbound.LotView
	for _, l := range service.Snapshot() {
		state := lifecycle.Classify(l, now)
		if state.DisplayStatus == lifecycle.StatusActive {
			featured = append(featured, inbound.LotView{Lot: l, State: state})
		}
	}

	sort.SliceStable(featured, func(i, j int) bool {
		return featured[i].Lot.EndDate.Before(featured[j].Lot.EndDate)
	})

	if len(featured) > limit {
		featured = featured[:limit]
	}

	return featured, nil
}

// Snapshot returns a copy of the current in-memory listing.
func (service *CatalogService) Snapshot() []lot.Lot {
	service.mu.RLock()
	defer service.mu.RUnlock()

	lots := make([]lot.Lot, len(service.snapshot))
	copy(lots, service.snapshot)
	return lots
}

// Stop releases the refresh worker pool.
func (service *CatalogService) Stop() {
	service.pool.StopAndWait()
}

// auditInconsistencies scans a fresh snapshot for status/schedule
// disagreements, logs them and forwards them to the audit sink. Audit
// failures never affect the read path.
func (service *CatalogService) auditInconsistencies(ctx context.Context, lots []lot.Lot) {
	now := time.Now()
	for _, l := range lots {
		state := lifecycle.Classify(l, now)
		if state.Inconsistency == lifecycle.InconsistencyNone {
			continue
		}

		service.logger.Warn().
			Str("lot_id", l.ID).
			Str("raw_status", l.Status).
			Str("inconsistency", string(state.Inconsistency)).
			Time("start_date", l.StartDate).
			Time("end_date", l.EndDate).
			Msg("Lot status disagrees with its schedule")

		if service.audit == nil {
			continue
		}

		entry := outbound.AuditEntry{
			ID:         uuid.New(),
			LotID:      l.ID,
			Kind:       state.Inconsistency,
			RawStatus:  l.Status,
			StartDate:  l.StartDate,
			EndDate:    l.EndDate,
			ObservedAt: now,
		}
		if err := service.audit.Record(ctx, entry); err != nil {
			service.logger.Error().Err(err).Str("lot_id", l.ID).Msg("Failed to record audit entry")
		}
	}
}
