package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQueryClean(t *testing.T) {
	tests := []struct {
		name string
		in   ListQuery
		want ListQuery
	}{
		{
			name: "defaults",
			in:   ListQuery{},
			want: ListQuery{Page: 1, PageSize: DefaultPageSize, SortOrder: SortAsc},
		},
		{
			name: "negative page",
			in:   ListQuery{Page: -3, PageSize: 10},
			want: ListQuery{Page: 1, PageSize: 10, SortOrder: SortAsc},
		},
		{
			name: "page size capped",
			in:   ListQuery{Page: 2, PageSize: 500},
			want: ListQuery{Page: 2, PageSize: MaxPageSize, SortOrder: SortAsc},
		},
		{
			name: "sort order normalized",
			in:   ListQuery{Page: 1, PageSize: 10, SortBy: "Name", SortOrder: "DESC"},
			want: ListQuery{Page: 1, PageSize: 10, SortBy: "name", SortOrder: SortDesc},
		},
		{
			name: "unknown order falls back to asc",
			in:   ListQuery{Page: 1, PageSize: 10, SortOrder: "sideways"},
			want: ListQuery{Page: 1, PageSize: 10, SortOrder: SortAsc},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Clean()
			assert.Equal(t, tt.want, tt.in)
		})
	}
}

func TestListQueryOrdering(t *testing.T) {
	allowed := map[string]string{"name": "name", "created": "created_at"}
	def := DBOrdering{Field: "created_at"}

	tests := []struct {
		name string
		q    ListQuery
		want DBOrdering
	}{
		{name: "unknown key falls back", q: ListQuery{SortBy: "height"}, want: def},
		{name: "asc", q: ListQuery{SortBy: "name", SortOrder: SortAsc}, want: DBOrdering{Field: "name", Ascending: true}},
		{name: "desc", q: ListQuery{SortBy: "created", SortOrder: SortDesc}, want: DBOrdering{Field: "created_at"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Ordering(allowed, def))
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		pageSize int
		want     int
	}{
		{name: "empty", count: 0, pageSize: 20, want: 0},
		{name: "single short page", count: 1, pageSize: 20, want: 1},
		{name: "exact fit", count: 40, pageSize: 20, want: 2},
		{name: "remainder adds a page", count: 41, pageSize: 20, want: 3},
		{name: "page size one", count: 5, pageSize: 1, want: 5},
		{name: "invalid page size", count: 5, pageSize: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.count, tt.pageSize))
		})
	}
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		page     int
		pageSize int
		wantLo   int
		wantHi   int
	}{
		{name: "first page", count: 45, page: 1, pageSize: 20, wantLo: 0, wantHi: 20},
		{name: "last partial page", count: 45, page: 3, pageSize: 20, wantLo: 40, wantHi: 45},
		{name: "page past the end", count: 45, page: 9, pageSize: 20, wantLo: 45, wantHi: 45},
		{name: "zero page clamps to first", count: 45, page: 0, pageSize: 20, wantLo: 0, wantHi: 20},
		{name: "empty set", count: 0, page: 1, pageSize: 20, wantLo: 0, wantHi: 0},
		{name: "single item", count: 1, page: 1, pageSize: 20, wantLo: 0, wantHi: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := PageBounds(tt.count, tt.page, tt.pageSize)
			assert.Equal(t, tt.wantLo, lo)
			assert.Equal(t, tt.wantHi, hi)
		})
	}
}

func TestListQueryMatchesSearch(t *testing.T) {
	q := ListQuery{Search: "ali"}
	assert.True(t, q.MatchesSearch("Ali Hassan", "555"))
	assert.True(t, q.MatchesSearch("x", "SALIM"))
	assert.False(t, q.MatchesSearch("Omar", "555"))
	assert.True(t, ListQuery{}.MatchesSearch("anything"))
}
