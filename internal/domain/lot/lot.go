package lot

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Raw status values as delivered by the upstream listing API. The upstream is
// not consistent about casing, so comparisons go through NormalizedStatus.
const (
	StatusDraft     = "DRAFT"
	StatusApproved  = "APPROVED"
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
)

// MediaTypeImage marks an attachment usable as a thumbnail.
const MediaTypeImage = "image"

// Media is a single attachment on a lot.
type Media struct {
	Type    string `json:"type"`
	FileURL string `json:"fileUrl"`
}

// Lot represents one auction listing as delivered by the upstream API.
// Instances are read-only values; the service never mutates them.
type Lot struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	Category     string    `json:"category"`
	CategoryName string    `json:"categoryName"`
	InitialPrice float64   `json:"initialPrice"`
	Currency     string    `json:"currency"`
	TotalBids    int       `json:"totalBids"`
	Media        []Media   `json:"media,omitempty"`
}

// NormalizedStatus returns the upstream status uppercased and trimmed for
// comparison against the Status* constants.
func (l Lot) NormalizedStatus() string {
	return strings.ToUpper(strings.TrimSpace(l.Status))
}

// CategoryKey returns the identifier used for category filtering. The upstream
// sometimes omits the category id and only ships the name.
func (l Lot) CategoryKey() string {
	if l.Category != "" {
		return l.Category
	}
	return l.CategoryName
}

// Thumbnail returns the URL of the first image-typed attachment, or empty
// when the lot has no image.
func (l Lot) Thumbnail() string {
	for _, m := range l.Media {
		if strings.EqualFold(m.Type, MediaTypeImage) {
			return m.FileURL
		}
	}
	return ""
}

// lotJSON mirrors Lot but accepts both the camelCase and snake_case field
// spellings the upstream has been observed to ship. camelCase wins when both
// are present.
type lotJSON struct {
	ID                json.RawMessage `json:"id"`
	Title             string          `json:"title"`
	Status            string          `json:"status"`
	StartDate         json.RawMessage `json:"startDate"`
	StartDateSnake    json.RawMessage `json:"start_date"`
	EndDate           json.RawMessage `json:"endDate"`
	EndDateSnake      json.RawMessage `json:"end_date"`
	Category          string          `json:"category"`
	CategoryName      string          `json:"categoryName"`
	CategoryNameSnake string          `json:"category_name"`
	InitialPrice      *float64        `json:"initialPrice"`
	InitialPriceSnake *float64        `json:"initial_price"`
	Currency          string          `json:"currency"`
	TotalBids         *int            `json:"totalBids"`
	TotalBidsSnake    *int            `json:"total_bids"`
	Media             []mediaJSON     `json:"media"`
}

type mediaJSON struct {
	Type         string `json:"type"`
	FileURL      string `json:"fileUrl"`
	FileURLSnake string `json:"file_url"`
}

// UnmarshalJSON decodes a lot tolerating the upstream's field-name variants.
// Unparseable dates decode to the zero time instead of failing the whole
// listing.
func (l *Lot) UnmarshalJSON(data []byte) error {
	var raw lotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	l.ID = decodeID(raw.ID)
	l.Title = raw.Title
	l.Status = raw.Status
	l.StartDate = parseTimestamp(firstNonEmpty(rawString(raw.StartDate), rawString(raw.StartDateSnake)))
	l.EndDate = parseTimestamp(firstNonEmpty(rawString(raw.EndDate), rawString(raw.EndDateSnake)))
	l.Category = raw.Category
	l.CategoryName = firstNonEmpty(raw.CategoryName, raw.CategoryNameSnake)
	l.Currency = raw.Currency

	l.InitialPrice = 0
	if raw.InitialPrice != nil {
		l.InitialPrice = *raw.InitialPrice
	} else if raw.InitialPriceSnake != nil {
		l.InitialPrice = *raw.InitialPriceSnake
	}

	l.TotalBids = 0
	if raw.TotalBids != nil {
		l.TotalBids = *raw.TotalBids
	} else if raw.TotalBidsSnake != nil {
		l.TotalBids = *raw.TotalBidsSnake
	}

	l.Media = nil
	for _, m := range raw.Media {
		l.Media = append(l.Media, Media{
			Type:    m.Type,
			FileURL: firstNonEmpty(m.FileURL, m.FileURLSnake),
		})
	}

	return nil
}

// decodeID accepts the lot identifier as either a JSON string or a number.
func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	return strings.Trim(string(raw), `"`)
}

// rawString extracts the textual content of a JSON value that may arrive as a
// string, a number (epoch milliseconds) or null.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return string(raw)
}

// timestampLayouts are tried in order when parsing upstream dates.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp parses an upstream date string, returning the zero time for
// anything it cannot understand. Malformed dates must never fail the decode.
func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}

	// Some upstream records carry epoch milliseconds.
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms).UTC()
	}

	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
