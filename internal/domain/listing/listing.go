package listing

import (
	"strings"

	"github.com/lotboard/lotboard-service/internal/domain/lot"
)

// Criteria describes which slice of the listing a caller wants. Empty
// collections and strings mean "no filter". Page is 1-indexed.
type Criteria struct {
	Categories []string
	Statuses   []string
	SearchText string
	Page       int
	PageSize   int
}

// WithCategories returns a copy with the category filter replaced and the
// page reset to 1. Changing any predicate must never retain a stale page
// number, or the caller could render an out-of-range empty page.
func (c Criteria) WithCategories(categories []string) Criteria {
	c.Categories = categories
	c.Page = 1
	return c
}

// WithStatuses returns a copy with the status filter replaced and the page
// reset to 1.
func (c Criteria) WithStatuses(statuses []string) Criteria {
	c.Statuses = statuses
	c.Page = 1
	return c
}

// WithSearch returns a copy with the search text replaced and the page reset
// to 1.
func (c Criteria) WithSearch(text string) Criteria {
	c.SearchText = text
	c.Page = 1
	return c
}

// Result is one page of the filtered listing plus its page metadata.
type Result struct {
	Page       []lot.Lot `json:"page"`
	TotalCount int       `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
	HasNext    bool      `json:"hasNext"`
	HasPrev    bool      `json:"hasPrev"`
}

// Apply filters and paginates the in-memory listing. All predicates are
// AND-combined. Input order is preserved, so applying the same criteria to
// the same records twice yields identical output.
//
// Invalid pagination input is clamped rather than rejected: PageSize < 1
// becomes 1, and Page is clamped into [1, TotalPages] unless the filtered set
// is empty, in which case the page is legitimately empty.
func Apply(lots []lot.Lot, criteria Criteria) Result {
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 1
	}

	categories := toSet(criteria.Categories)
	statuses := toSet(criteria.Statuses)
	search := strings.ToLower(strings.TrimSpace(criteria.SearchText))

	filtered := make([]lot.Lot, 0, len(lots))
	for _, l := range lots {
		if len(categories) > 0 {
			if _, ok := categories[l.CategoryKey()]; !ok {
				continue
			}
		}
		// Status matching is exact and case-sensitive against the raw enum.
		if len(statuses) > 0 {
			if _, ok := statuses[l.Status]; !ok {
				continue
			}
		}
		if search != "" && !strings.Contains(strings.ToLower(l.Title), search) {
			continue
		}
		filtered = append(filtered, l)
	}

	totalCount := len(filtered)
	if totalCount == 0 {
		return Result{Page: []lot.Lot{}}
	}

	totalPages := (totalCount + pageSize - 1) / pageSize

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > totalCount {
		end = totalCount
	}

	return Result{
		Page:       filtered[start:end],
		TotalCount: totalCount,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
