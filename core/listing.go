package core

import "strings"

// List endpoint contract: every list endpoint accepts `page`, `page_size`,
// `search`, `sort_by` and `sort_order` query parameters (plus endpoint
// specific filters) and responds with a {"results": [...], "count": N} body.

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListQuery carries the common list endpoint query parameters.
type ListQuery struct {
	Page      int    `query:"page" json:"page"`
	PageSize  int    `query:"page_size" json:"page_size"`
	Search    string `query:"search" json:"search"`
	SortBy    string `query:"sort_by" json:"sort_by"`
	SortOrder string `query:"sort_order" json:"sort_order"`
}

// Clean normalizes the query in place: page defaults to 1, page size to
// DefaultPageSize (capped at MaxPageSize) and sort order to asc.
func (q *ListQuery) Clean() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	} else if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	q.Search = CleanString(q.Search)
	q.SortBy = CleanString(q.SortBy, true /* lower */)
	if order := CleanString(q.SortOrder, true /* lower */); order == SortDesc {
		q.SortOrder = SortDesc
	} else {
		q.SortOrder = SortAsc
	}
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// DBOrdering is a resolved ORDER BY clause.
type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// Ordering resolves the requested sort into a DBOrdering. `allowed` maps
// exposed sort keys to actual columns; unknown keys fall back to `def`.
func (q ListQuery) Ordering(allowed map[string]string, def DBOrdering) DBOrdering {
	if field, ok := allowed[q.SortBy]; ok {
		return DBOrdering{Field: field, Ascending: q.SortOrder != SortDesc}
	}
	return def
}

// MatchesSearch reports whether any of the given values contains the search
// term, case-insensitively. An empty search matches everything.
func (q ListQuery) MatchesSearch(values ...string) bool {
	if q.Search == "" {
		return true
	}
	term := strings.ToLower(q.Search)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// ListResult is the envelope wrapping every list endpoint response.
type ListResult struct {
	Results interface{} `json:"results"`
	Count   int         `json:"count"`
}

func NewListResult(results interface{}, count int) ListResult {
	return ListResult{Results: results, Count: count}
}

// TotalPages returns ceil(count / pageSize); 0 when the set is empty.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize < 1 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// PageBounds clamps a [lo, hi) slice window for the given page onto a result
// set of `count` items.
func PageBounds(count, page, pageSize int) (lo, hi int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	lo = (page - 1) * pageSize
	if lo > count {
		lo = count
	}
	hi = lo + pageSize
	if hi > count {
		hi = count
	}
	return lo, hi
}
