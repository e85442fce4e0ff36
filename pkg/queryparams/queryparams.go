package queryparams

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// ListParams carries pagination and ordering for list endpoints.
type ListParams struct {
	Page    int    `query:"page"`
	PerPage int    `query:"perPage"`
	SortBy  string `query:"sortBy"`
	OrderBy string `query:"orderBy"`
}

// Validate clamps the parameters to sane bounds in place.
func (p *ListParams) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	if p.OrderBy != "asc" && p.OrderBy != "desc" {
		p.OrderBy = "asc"
	}
}

// Offset returns the SQL offset for the current page.
func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// OrderClause builds the ORDER BY expression from SortBy and OrderBy.
// SortBy is only honored when it names one of the allowed columns, so user
// input never reaches the SQL text; anything else falls back to fallback.
func (p *ListParams) OrderClause(fallback string, allowed ...string) string {
	column := fallback
	for _, candidate := range allowed {
		if p.SortBy == candidate {
			column = candidate
			break
		}
	}
	direction := p.OrderBy
	if direction != "asc" && direction != "desc" {
		direction = "asc"
	}
	return column + " " + direction
}

// PaginationMeta describes one page of a larger result set.
type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	PerPage     int   `json:"perPage"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

// PaginatedResult is the wire shape of every paginated list response.
type PaginatedResult struct {
	Data interface{}    `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// CalculateTotalPages returns the page count for totalItems at perPage.
func CalculateTotalPages(totalItems int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	pages := int(totalItems) / perPage
	if int(totalItems)%perPage != 0 {
		pages++
	}
	return pages
}
