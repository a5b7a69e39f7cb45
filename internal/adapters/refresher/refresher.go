package refresher

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lotboard/lotboard-service/internal/ports/inbound"
)

// Refresher periodically re-fetches the upstream listing through the catalog
// service. A failed refresh keeps the previous snapshot being served.
type Refresher struct {
	catalog  inbound.CatalogService
	interval time.Duration
	logger   zerolog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

type RefresherParams struct {
	Catalog  inbound.CatalogService
	Interval time.Duration
	Logger   zerolog.Logger
}

func NewRefresher(params RefresherParams) *Refresher {
	ctx, cancel := context.WithCancel(context.Background())

	interval := params.Interval
	if interval <= 0 {
		interval = time.Minute
	}

	return &Refresher{
		catalog:  params.Catalog,
		interval: interval,
		logger:   params.Logger.With().Str("component", "refresher").Logger(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins the refresh loop. The first refresh runs immediately.
func (r *Refresher) Start() {
	r.logger.Info().Dur("interval", r.interval).Msg("Starting listing refresher")

	r.wg.Add(1)
	go r.refreshLoop()
}

// Stop gracefully stops the refresher
func (r *Refresher) Stop() {
	r.logger.Info().Msg("Stopping listing refresher")
	r.cancel()
	r.wg.Wait()
}

// refreshLoop runs the main refresh loop
func (r *Refresher) refreshLoop() {
	defer r.wg.Done()

	r.refresh()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refresh()
		case <-r.ctx.Done():
			r.logger.Info().Msg("Refresh loop stopped")
			return
		}
	}
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(r.ctx, r.interval)
	defer cancel()

	if err := r.catalog.Refresh(ctx); err != nil {
		r.logger.Error().Err(err).Msg("Listing refresh failed, serving stale snapshot")
		return
	}
}
