package table

import (
	"github.com/HerbHall/roster/internal/query"
	"github.com/HerbHall/roster/pkg/models"
)

// Page is one slice of a sorted, filtered view plus the counts needed to
// draw pagination controls.
type Page struct {
	Items      []models.Character `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   query.PageSize     `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// HasPrev reports whether a preceding page exists.
func (p Page) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

// TotalPages returns ceil(count/size), treating query.All as one page. An
// empty view still has one (empty) page.
func TotalPages(count int, size query.PageSize) int {
	if size.IsAll() || count == 0 || size < 1 {
		return 1
	}
	n := int(size)
	return (count + n - 1) / n
}

// Paginate slices records to the requested page. The page is clamped into
// [1, TotalPages] before slicing.
func Paginate(records []models.Character, page int, size query.PageSize) Page {
	total := len(records)
	pages := TotalPages(total, size)
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start, end := 0, total
	if !size.IsAll() && size >= 1 {
		start = (page - 1) * int(size)
		end = min(start+int(size), total)
	}

	items := make([]models.Character, end-start)
	copy(items, records[start:end])
	return Page{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: pages,
	}
}
