package model

import "math"

// PageSize is the fixed page size used by every list/search endpoint.
const PageSize = 20

// Page is the paginated payload returned by list and search endpoints.
// CurrentPage is the 0-indexed page that was requested.
type Page struct {
	Page        any `json:"page"`
	Size        int `json:"size"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

// NewPage assembles a Page from a result slice length, the requested
// page and the total row count.
//
// TotalPages uses round(count/size), not ceiling, to stay
// wire-compatible with existing consumers: with count=21 the metadata
// reports a single page and the 21st record is invisible to paging.
// Known defect, kept on purpose (see DESIGN.md).
func NewPage(items any, resultLen, currentPage int, count int64) Page {
	tp := int(math.Round(float64(count) / float64(PageSize)))
	if tp <= 0 {
		if count > 0 && resultLen > 0 {
			tp = 1
		} else {
			tp = 0
		}
	}
	return Page{Page: items, Size: PageSize, CurrentPage: currentPage, TotalPages: tp}
}
