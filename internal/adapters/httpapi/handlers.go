package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/lotboard/lotboard-service/internal/config"
	"github.com/lotboard/lotboard-service/internal/domain/shared"
	"github.com/lotboard/lotboard-service/internal/ports/inbound"
	"github.com/lotboard/lotboard-service/internal/ports/outbound"
)

// LotHandler serves the listing endpoints.
type LotHandler struct {
	catalog inbound.CatalogService
	audit   outbound.AuditSink
	logger  zerolog.Logger
}

type LotHandlerParams struct {
	Catalog inbound.CatalogService
	Audit   outbound.AuditSink
	Logger  zerolog.Logger
}

func NewLotHandler(params LotHandlerParams) *LotHandler {
	return &LotHandler{
		catalog: params.Catalog,
		audit:   params.Audit,
		logger:  params.Logger.With().Str("component", "lot_handler").Logger(),
	}
}

// ListLots handles GET /api/lots
func (h *LotHandler) ListLots(w http.ResponseWriter, r *http.Request) {
	req := inbound.ListLotsRequest{
		Categories: splitParam(r.URL.Query().Get("categories")),
		Statuses:   splitParam(r.URL.Query().Get("statuses")),
		SearchText: r.URL.Query().Get("q"),
		Page:       intParam(r, "page", 1),
		PageSize:   intParam(r, "page_size", config.DefaultPageSize),
	}
	if req.PageSize > config.MaxPageSize {
		req.PageSize = config.MaxPageSize
	}

	listing, err := h.catalog.ListLots(r.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list lots")
		http.Error(w, "failed to list lots", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, listing)
}

// GetLot handles GET /api/lots/{id}
func (h *LotHandler) GetLot(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "id")
	if lotID == "" {
		http.Error(w, "lot ID is required", http.StatusBadRequest)
		return
	}

	view, err := h.catalog.GetLot(r.Context(), lotID)
	if err != nil {
		if errors.Is(err, shared.ErrLotNotFound) {
			http.Error(w, "lot not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Str("lot_id", lotID).Msg("Failed to get lot")
		http.Error(w, "failed to get lot", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

// FeaturedLots handles GET /api/lots/featured
func (h *LotHandler) FeaturedLots(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r, "limit", config.DefaultFeaturedLimit)

	featured, err := h.catalog.FeaturedLots(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list featured lots")
		http.Error(w, "failed to list featured lots", http.StatusInternalServerError)
		return
	}

	if featured == nil {
		featured = []inbound.LotView{}
	}
	h.writeJSON(w, http.StatusOK, featured)
}

// RecentAudit handles GET /api/audit
func (h *LotHandler) RecentAudit(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r, "limit", 50)

	entries, err := h.audit.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list audit entries")
		http.Error(w, "failed to list audit entries", http.StatusInternalServerError)
		return
	}

	if entries == nil {
		entries = []outbound.AuditEntry{}
	}
	h.writeJSON(w, http.StatusOK, entries)
}

func (h *LotHandler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

// splitParam turns a comma-separated query parameter into a slice, dropping
// empty items.
func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}

	var values []string
	for _, v := range strings.Split(raw, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}

func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
