package lot

import (
	"encoding/json"
	"testing"
	"time"
)

func TestLot_UnmarshalJSON_fieldNameVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		payload   string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "camelCase",
			payload:   `{"id":"1","startDate":"2026-03-01T10:00:00Z","endDate":"2026-03-08T10:00:00Z"}`,
			wantStart: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC),
		},
		{
			name:      "snake_case",
			payload:   `{"id":"1","start_date":"2026-03-01T10:00:00Z","end_date":"2026-03-08T10:00:00Z"}`,
			wantStart: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC),
		},
		{
			name:      "camelCase wins when both present",
			payload:   `{"id":"1","startDate":"2026-03-01T10:00:00Z","start_date":"2020-01-01T00:00:00Z","endDate":"2026-03-08T10:00:00Z","end_date":"2020-01-02T00:00:00Z"}`,
			wantStart: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC),
		},
		{
			name:      "epoch milliseconds as numbers",
			payload:   `{"id":"1","startDate":1772359200000,"endDate":1772964000000}`,
			wantStart: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var l Lot
			if err := json.Unmarshal([]byte(tt.payload), &l); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !l.StartDate.Equal(tt.wantStart) {
				t.Errorf("StartDate = %v, want %v", l.StartDate, tt.wantStart)
			}
			if !l.EndDate.Equal(tt.wantEnd) {
				t.Errorf("EndDate = %v, want %v", l.EndDate, tt.wantEnd)
			}
		})
	}
}

func TestLot_UnmarshalJSON_malformedDatesDecodeToZero(t *testing.T) {
	t.Parallel()

	payload := `{"id":"7","title":"broken","startDate":"not-a-date","endDate":""}`

	var l Lot
	if err := json.Unmarshal([]byte(payload), &l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.StartDate.IsZero() {
		t.Errorf("StartDate = %v, want zero", l.StartDate)
	}
	if !l.EndDate.IsZero() {
		t.Errorf("EndDate = %v, want zero", l.EndDate)
	}
}

func TestLot_UnmarshalJSON_numericID(t *testing.T) {
	t.Parallel()

	var l Lot
	if err := json.Unmarshal([]byte(`{"id":42,"title":"numeric"}`), &l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.ID != "42" {
		t.Errorf("ID = %q, want %q", l.ID, "42")
	}
}

func TestLot_UnmarshalJSON_mediaAndCounters(t *testing.T) {
	t.Parallel()

	payload := `{
		"id": "9",
		"title": "Vintage clock",
		"status": "Active",
		"initial_price": 120.5,
		"total_bids": 7,
		"category_name": "Collectibles",
		"media": [
			{"type": "video", "file_url": "https://cdn/clip.mp4"},
			{"type": "image", "fileUrl": "https://cdn/front.jpg"},
			{"type": "image", "file_url": "https://cdn/back.jpg"}
		]
	}`

	var l Lot
	if err := json.Unmarshal([]byte(payload), &l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if l.InitialPrice != 120.5 {
		t.Errorf("InitialPrice = %v, want 120.5", l.InitialPrice)
	}
	if l.TotalBids != 7 {
		t.Errorf("TotalBids = %d, want 7", l.TotalBids)
	}
	if l.CategoryName != "Collectibles" {
		t.Errorf("CategoryName = %q, want %q", l.CategoryName, "Collectibles")
	}
	if got := l.Thumbnail(); got != "https://cdn/front.jpg" {
		t.Errorf("Thumbnail() = %q, want first image attachment", got)
	}
}

func TestLot_NormalizedStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"ACTIVE", StatusActive},
		{"active", StatusActive},
		{" Completed ", StatusCompleted},
		{"draft", StatusDraft},
		{"", ""},
	}

	for _, tt := range tests {
		if got := (Lot{Status: tt.raw}).NormalizedStatus(); got != tt.want {
			t.Errorf("NormalizedStatus(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestLot_CategoryKey_fallsBackToName(t *testing.T) {
	t.Parallel()

	if got := (Lot{Category: "12", CategoryName: "Art"}).CategoryKey(); got != "12" {
		t.Errorf("CategoryKey = %q, want %q", got, "12")
	}
	if got := (Lot{CategoryName: "Art"}).CategoryKey(); got != "Art" {
		t.Errorf("CategoryKey = %q, want %q", got, "Art")
	}
}

func TestLot_jsonRoundTrip(t *testing.T) {
	t.Parallel()

	original := Lot{
		ID:        "5",
		Title:     "Grandfather clock",
		Status:    "APPROVED",
		StartDate: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 5, 8, 12, 0, 0, 0, time.UTC),
		Category:  "3",
		Currency:  "EUR",
		TotalBids: 2,
	}

	payload, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Lot
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.ID != original.ID || decoded.Status != original.Status ||
		!decoded.StartDate.Equal(original.StartDate) || !decoded.EndDate.Equal(original.EndDate) {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, original)
	}
}
