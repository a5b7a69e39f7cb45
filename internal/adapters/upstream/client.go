package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lotboard/lotboard-service/internal/domain/lot"
	"github.com/lotboard/lotboard-service/internal/domain/shared"
	"github.com/lotboard/lotboard-service/internal/ports/outbound"
)

// Client fetches the auction listing from the upstream REST API. Implements
// outbound.LotSource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

type ClientParams struct {
	BaseURL string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// NewClient creates a new upstream listing client
func NewClient(params ClientParams) *Client {
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(params.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     params.Logger.With().Str("component", "upstream_client").Logger(),
	}
}

// pagePayload mirrors the upstream page envelope, tolerating the field-name
// variants the API has shipped over time.
type pagePayload struct {
	Results []lot.Lot `json:"results"`
	Lots    []lot.Lot `json:"lots"`
	Data    []lot.Lot `json:"data"`

	TotalCount      *int `json:"totalCount"`
	TotalCountSnake *int `json:"total_count"`
	Count           *int `json:"count"`

	HasNext      *bool `json:"hasNext"`
	HasNextSnake *bool `json:"has_next"`
}

// FetchPage retrieves one backend page of the listing.
func (c *Client) FetchPage(ctx context.Context, page, pageSize int) (*outbound.LotPage, error) {
	endpoint := fmt.Sprintf("%s/auctions?%s", c.baseURL, url.Values{
		"page":      []string{strconv.Itoa(page)},
		"page_size": []string{strconv.Itoa(pageSize)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Int("page", page).Msg("Upstream request failed")
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Int("page", page).Msg("Upstream returned non-OK status")
		return nil, fmt.Errorf("%w: status %d", shared.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var payload pagePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Error().Err(err).Int("page", page).Msg("Failed to decode upstream payload")
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstreamBadPayload, err)
	}

	lots := payload.Results
	if lots == nil {
		lots = payload.Lots
	}
	if lots == nil {
		lots = payload.Data
	}

	totalCount := len(lots)
	if payload.TotalCount != nil {
		totalCount = *payload.TotalCount
	} else if payload.TotalCountSnake != nil {
		totalCount = *payload.TotalCountSnake
	} else if payload.Count != nil {
		totalCount = *payload.Count
	}

	hasNext := false
	if payload.HasNext != nil {
		hasNext = *payload.HasNext
	} else if payload.HasNextSnake != nil {
		hasNext = *payload.HasNextSnake
	}

	c.logger.Debug().
		Int("page", page).
		Int("lot_count", len(lots)).
		Int("total_count", totalCount).
		Msg("Fetched upstream page")

	return &outbound.LotPage{
		Lots:       lots,
		TotalCount: totalCount,
		HasNext:    hasNext,
	}, nil
}
