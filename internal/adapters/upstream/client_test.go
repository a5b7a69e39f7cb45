package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lotboard/lotboard-service/internal/domain/shared"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientParams{
		BaseURL: server.URL,
		Logger:  zerolog.Nop(),
	})
}

func TestClient_FetchPage_envelopeVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantLots  int
		wantTotal int
		wantNext  bool
	}{
		{
			name:      "results with camelCase metadata",
			body:      `{"results":[{"id":"1","title":"a"}],"totalCount":40,"hasNext":true}`,
			wantLots:  1,
			wantTotal: 40,
			wantNext:  true,
		},
		{
			name:      "lots with snake_case metadata",
			body:      `{"lots":[{"id":"1","title":"a"},{"id":"2","title":"b"}],"total_count":2,"has_next":false}`,
			wantLots:  2,
			wantTotal: 2,
			wantNext:  false,
		},
		{
			name:      "data with count",
			body:      `{"data":[{"id":"1","title":"a"}],"count":12}`,
			wantLots:  1,
			wantTotal: 12,
			wantNext:  false,
		},
		{
			name:      "missing metadata falls back to page length",
			body:      `{"results":[{"id":"1","title":"a"},{"id":"2","title":"b"}]}`,
			wantLots:  2,
			wantTotal: 2,
			wantNext:  false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})

			page, err := client.FetchPage(context.Background(), 1, 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(page.Lots) != tt.wantLots {
				t.Errorf("len(Lots) = %d, want %d", len(page.Lots), tt.wantLots)
			}
			if page.TotalCount != tt.wantTotal {
				t.Errorf("TotalCount = %d, want %d", page.TotalCount, tt.wantTotal)
			}
			if page.HasNext != tt.wantNext {
				t.Errorf("HasNext = %v, want %v", page.HasNext, tt.wantNext)
			}
		})
	}
}

func TestClient_FetchPage_sendsPaginationParams(t *testing.T) {
	t.Parallel()

	var gotPage, gotPageSize string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPage = r.URL.Query().Get("page")
		gotPageSize = r.URL.Query().Get("page_size")
		w.Write([]byte(`{"results":[]}`))
	})

	if _, err := client.FetchPage(context.Background(), 3, 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPage != "3" || gotPageSize != "25" {
		t.Errorf("query = page=%s page_size=%s, want page=3 page_size=25", gotPage, gotPageSize)
	}
}

func TestClient_FetchPage_nonOKStatus(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := client.FetchPage(context.Background(), 1, 10)
	if !errors.Is(err, shared.ErrUpstreamUnavailable) {
		t.Errorf("got error %v, want %v", err, shared.ErrUpstreamUnavailable)
	}
}

func TestClient_FetchPage_malformedPayload(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": not-json`))
	})

	_, err := client.FetchPage(context.Background(), 1, 10)
	if !errors.Is(err, shared.ErrUpstreamBadPayload) {
		t.Errorf("got error %v, want %v", err, shared.ErrUpstreamBadPayload)
	}
}
