package search

// Pagination describes a page of results. Total counts matching rows before
// the distance post-filter runs.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// Assemble computes the page count; page and limit are echoed verbatim, even
// past the last page.
func Assemble(total int64, page, limit int) Pagination {
	pages := 0
	if total > 0 && limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}
