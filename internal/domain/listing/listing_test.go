package listing

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/lotboard/lotboard-service/internal/domain/lot"
)

func makeLots(count int) []lot.Lot {
	lots := make([]lot.Lot, 0, count)
	for i := 1; i <= count; i++ {
		lots = append(lots, lot.Lot{
			ID:       fmt.Sprintf("%d", i),
			Title:    fmt.Sprintf("Lot %d", i),
			Status:   "ACTIVE",
			Category: "general",
		})
	}
	return lots
}

func TestApply_pagination(t *testing.T) {
	t.Parallel()

	// 23 records, page size 10, page 3: the last page holds the 3 leftovers.
	result := Apply(makeLots(23), Criteria{Page: 3, PageSize: 10})

	if len(result.Page) != 3 {
		t.Errorf("len(Page) = %d, want 3", len(result.Page))
	}
	if result.TotalCount != 23 {
		t.Errorf("TotalCount = %d, want 23", result.TotalCount)
	}
	if result.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", result.TotalPages)
	}
	if result.HasNext {
		t.Errorf("HasNext = true, want false")
	}
	if !result.HasPrev {
		t.Errorf("HasPrev = false, want true")
	}
	if result.Page[0].ID != "21" {
		t.Errorf("first record on page 3 = %q, want %q", result.Page[0].ID, "21")
	}
}

func TestApply_noMatchesYieldsEmptyResult(t *testing.T) {
	t.Parallel()

	result := Apply(makeLots(50), Criteria{SearchText: "zzz-no-match", Page: 1, PageSize: 10})

	if len(result.Page) != 0 || result.TotalCount != 0 || result.TotalPages != 0 {
		t.Errorf("got %+v, want empty result with zero counts", result)
	}
	if result.HasNext || result.HasPrev {
		t.Errorf("empty result must have neither next nor prev")
	}
}

func TestApply_isIdempotent(t *testing.T) {
	t.Parallel()

	lots := makeLots(40)
	criteria := Criteria{SearchText: "lot 1", Page: 2, PageSize: 3}

	first := Apply(lots, criteria)
	second := Apply(lots, criteria)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("same criteria on same records produced different results:\n%+v\n%+v", first, second)
	}
}

func TestApply_predicatesAreANDCombined(t *testing.T) {
	t.Parallel()

	lots := []lot.Lot{
		{ID: "1", Title: "Persian rug", Status: "ACTIVE", Category: "rugs"},
		{ID: "2", Title: "Persian vase", Status: "ACTIVE", Category: "ceramics"},
		{ID: "3", Title: "Persian rug", Status: "COMPLETED", Category: "rugs"},
		{ID: "4", Title: "Oak table", Status: "ACTIVE", Category: "rugs"},
	}

	result := Apply(lots, Criteria{
		Categories: []string{"rugs"},
		Statuses:   []string{"ACTIVE"},
		SearchText: "persian",
		Page:       1,
		PageSize:   10,
	})

	if len(result.Page) != 1 || result.Page[0].ID != "1" {
		t.Errorf("got %d records, want exactly lot 1", len(result.Page))
	}
}

func TestApply_statusMatchIsCaseSensitive(t *testing.T) {
	t.Parallel()

	lots := []lot.Lot{
		{ID: "1", Title: "a", Status: "ACTIVE"},
		{ID: "2", Title: "b", Status: "active"},
	}

	result := Apply(lots, Criteria{Statuses: []string{"ACTIVE"}, Page: 1, PageSize: 10})

	if len(result.Page) != 1 || result.Page[0].ID != "1" {
		t.Errorf("status filter must match the raw enum exactly, got %d records", len(result.Page))
	}
}

func TestApply_searchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	lots := []lot.Lot{
		{ID: "1", Title: "Grandfather Clock"},
		{ID: "2", Title: "pocket watch"},
		{ID: "3", Title: ""},
	}

	result := Apply(lots, Criteria{SearchText: "CLOCK", Page: 1, PageSize: 10})

	if len(result.Page) != 1 || result.Page[0].ID != "1" {
		t.Errorf("search must be case-insensitive, got %d records", len(result.Page))
	}
}

func TestApply_categoryKeyFallsBackToName(t *testing.T) {
	t.Parallel()

	lots := []lot.Lot{
		{ID: "1", Title: "a", Category: "7"},
		{ID: "2", Title: "b", CategoryName: "Art"},
	}

	result := Apply(lots, Criteria{Categories: []string{"Art"}, Page: 1, PageSize: 10})

	if len(result.Page) != 1 || result.Page[0].ID != "2" {
		t.Errorf("category filter must fall back to the category name, got %d records", len(result.Page))
	}
}

func TestApply_clampsInvalidPagination(t *testing.T) {
	t.Parallel()

	lots := makeLots(5)

	tests := []struct {
		name     string
		criteria Criteria
		wantLen  int
		wantPage string // ID of first record on the returned page
	}{
		{"zero page size clamps to one", Criteria{Page: 1, PageSize: 0}, 1, "1"},
		{"negative page size clamps to one", Criteria{Page: 1, PageSize: -3}, 1, "1"},
		{"page zero clamps to first", Criteria{Page: 0, PageSize: 2}, 2, "1"},
		{"page beyond end clamps to last", Criteria{Page: 99, PageSize: 2}, 1, "5"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := Apply(lots, tt.criteria)
			if len(result.Page) != tt.wantLen {
				t.Fatalf("len(Page) = %d, want %d", len(result.Page), tt.wantLen)
			}
			if result.Page[0].ID != tt.wantPage {
				t.Errorf("first record = %q, want %q", result.Page[0].ID, tt.wantPage)
			}
		})
	}
}

func TestApply_pageNeverExceedsPageSize(t *testing.T) {
	t.Parallel()

	for _, total := range []int{0, 1, 9, 10, 11, 23} {
		lots := makeLots(total)
		for page := 1; page <= 4; page++ {
			result := Apply(lots, Criteria{Page: page, PageSize: 10})
			if len(result.Page) > 10 {
				t.Errorf("total=%d page=%d: returned %d records, want at most 10", total, page, len(result.Page))
			}
			wantPages := (total + 9) / 10
			if result.TotalPages != wantPages {
				t.Errorf("total=%d: TotalPages = %d, want %d", total, result.TotalPages, wantPages)
			}
		}
	}
}

func TestCriteria_mutationResetsPage(t *testing.T) {
	t.Parallel()

	criteria := Criteria{Page: 4, PageSize: 10}

	if got := criteria.WithSearch("clock"); got.Page != 1 {
		t.Errorf("WithSearch kept page %d, want 1", got.Page)
	}
	if got := criteria.WithCategories([]string{"art"}); got.Page != 1 {
		t.Errorf("WithCategories kept page %d, want 1", got.Page)
	}
	if got := criteria.WithStatuses([]string{"ACTIVE"}); got.Page != 1 {
		t.Errorf("WithStatuses kept page %d, want 1", got.Page)
	}
}
