package datatable

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/ui/client"
)

// fakeAPI serves a list endpoint with a scriptable response and records the
// query string of every request.
type fakeAPI struct {
	mu      sync.Mutex
	rows    []map[string]interface{}
	count   int
	status  int
	hits    int
	queries []url.Values

	server *httptest.Server
}

func newFakeAPI() *fakeAPI {
	api := &fakeAPI{status: http.StatusOK}
	api.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.hits++
		api.queries = append(api.queries, r.URL.Query())
		status, rows, count := api.status, api.rows, api.count
		api.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "something went wrong"})
			return
		}
		_ = json.NewEncoder(w).Encode(core.NewListResult(rows, count))
	}))
	return api
}

func (api *fakeAPI) set(rows []map[string]interface{}, count int) {
	api.mu.Lock()
	api.rows = rows
	api.count = count
	api.mu.Unlock()
}

func (api *fakeAPI) setStatus(status int) {
	api.mu.Lock()
	api.status = status
	api.mu.Unlock()
}

func (api *fakeAPI) lastQuery() url.Values {
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.queries) == 0 {
		return nil
	}
	return api.queries[len(api.queries)-1]
}

func (api *fakeAPI) close() { api.server.Close() }

func newTestTable(api *fakeAPI, cfg Config) Model {
	if cfg.Path == "" {
		cfg.Path = "/v1/things"
	}
	if len(cfg.Columns) == 0 {
		cfg.Columns = []Column{
			{Key: "name", Label: "Name", Sortable: true},
			{Key: "status", Label: "Status"},
		}
	}
	return New(client.New(api.server.URL), cfg)
}

// runCmd executes a command and feeds the resulting message back in.
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	m, next := m.Update(cmd())
	if next != nil {
		// follow-up messages (e.g. LoadFailedMsg) are for the parent model
		_ = next
	}
	return m
}

func TestReloadPopulatesRows(t *testing.T) {
	api := newFakeAPI()
	defer api.close()
	api.set([]map[string]interface{}{{"id": "1", "name": "Ali", "status": "ACTIVE"}}, 1)

	m := newTestTable(api, Config{})
	m = runCmd(t, m, m.Init())

	assert.Len(t, m.Rows(), 1)
	assert.Equal(t, 1, m.Count())
	assert.Equal(t, "Showing 1 to 1 of 1 entries", m.FooterText())
	assert.Contains(t, m.View(), "Ali")
}

func TestEmptyResultsRendering(t *testing.T) {
	api := newFakeAPI()
	defer api.close()
	api.set(nil, 0)

	m := newTestTable(api, Config{EmptyMessage: "Nothing here"})
	m = runCmd(t, m, m.Init())

	view := m.View()
	assert.Equal(t, 1, strings.Count(view, "Nothing here"))
	assert.Equal(t, "Showing 0 to 0 of 0 entries", m.FooterText())
	assert.Nil(t, m.PageWindow())
}

func TestServerErrorRendersEmpty(t *testing.T) {
	api := newFakeAPI()
	defer api.close()
	api.set([]map[string]interface{}{{"id": "1", "name": "Ali"}}, 1)

	m := newTestTable(api, Config{})
	m = runCmd(t, m, m.Init())
	assert.Len(t, m.Rows(), 1)

	api.setStatus(http.StatusInternalServerError)
	cmd := m.Reload()
	m, followUp := m.Update(cmd())

	assert.Empty(t, m.Rows())
	assert.Equal(t, 0, m.Count())
	assert.False(t, m.Loading())
	assert.NotPanics(t, func() { _ = m.View() })
	assert.Equal(t, "Showing 0 to 0 of 0 entries", m.FooterText())

	if assert.NotNil(t, followUp) {
		failed, ok := followUp().(LoadFailedMsg)
		if assert.True(t, ok) {
			assert.Contains(t, failed.Err.Error(), "something went wrong")
		}
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	api := newFakeAPI()
	defer api.close()

	api.set([]map[string]interface{}{{"name": "first"}}, 1)
	m := newTestTable(api, Config{})
	staleCmd := m.Reload()
	staleMsg := staleCmd()

	api.set([]map[string]interface{}{{"name": "second"}, {"name": "third"}}, 2)
	freshCmd := m.Reload()
	freshMsg := freshCmd()

	m, _ = m.Update(freshMsg)
	assert.Equal(t, 2, m.Count())

	// the superseded response arrives late and must not clobber the fresh one
	m, _ = m.Update(staleMsg)
	assert.Equal(t, 2, m.Count())
	assert.Equal(t, "second", m.Rows()[0].Get("name"))
}

func TestSetFiltersResetsPage(t *testing.T) {
	api := newFakeAPI()
	defer api.close()
	api.set(nil, 100)

	m := newTestTable(api, Config{Filters: map[string]string{"status": "ACTIVE"}})
	m = runCmd(t, m, m.Init())
	m = runCmd(t, m, m.GoToPage(3))
	assert.Equal(t, 3, m.Page())

	m = runCmd(t, m, m.SetFilters(map[string]string{"category": "PERMANENT"}))

	assert.Equal(t, 1, m.Page())
	q := api.lastQuery()
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "PERMANENT", q.Get("category"))
	assert.Empty(t, q.Get("status")) // replaced wholesale, not merged
}

func TestSortToggle(t *testing.T) {
	api := newFakeAPI()
	defer api.close()
	api.set(nil, 0)

	m := newTestTable(api, Config{})

	m = runCmd(t, m, m.SortBy("name"))
	by, order := m.Sort()
	assert.Equal(t, "name", by)
	assert.Equal(t, core.SortAsc, order)

	m = runCmd(t, m, m.SortBy("name"))
	_, order = m.Sort()
	assert.Equal(t, core.SortDesc, order)

	// toggling twice lands back on ascending
	m = runCmd(t, m, m.SortBy("name"))
	_, order = m.Sort()
	assert.Equal(t, core.SortAsc, order)

	q := api.lastQuery()
	assert.Equal(t, "name", q.Get("sort_by"))
	assert.Equal(t, core.SortAsc, q.Get("sort_order"))

	// a different column starts ascending
	m = runCmd(t, m, m.SortBy("status"))
	by, order = m.Sort()
	assert.Equal(t, "status", by)
	assert.Equal(t, core.SortAsc, order)
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name  string
		count int
		page  int
		want  []int
	}{
		{name: "empty", count: 0, page: 1, want: nil},
		{name: "single page", count: 5, page: 1, want: []int{1}},
		{name: "start of a long set", count: 200, page: 1, want: []int{1, 2, 3, 4, 5}},
		{name: "middle is centered", count: 200, page: 5, want: []int{3, 4, 5, 6, 7}},
		{name: "clamped at the end", count: 200, page: 10, want: []int{6, 7, 8, 9, 10}},
		{name: "fewer pages than the window", count: 50, page: 2, want: []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Model{page: tt.page, pageSize: 20, count: tt.count}
			assert.Equal(t, tt.want, m.PageWindow())
		})
	}
}

func TestFooterText(t *testing.T) {
	tests := []struct {
		name  string
		count int
		page  int
		want  string
	}{
		{name: "empty", count: 0, page: 1, want: "Showing 0 to 0 of 0 entries"},
		{name: "single entry", count: 1, page: 1, want: "Showing 1 to 1 of 1 entries"},
		{name: "full first page", count: 45, page: 1, want: "Showing 1 to 20 of 45 entries"},
		{name: "partial last page", count: 45, page: 3, want: "Showing 41 to 45 of 45 entries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Model{page: tt.page, pageSize: 20, count: tt.count}
			assert.Equal(t, tt.want, m.FooterText())
		})
	}
}

func TestSearchDebounce(t *testing.T) {
	api := newFakeAPI()
	defer api.close()
	api.set(nil, 100)

	m := newTestTable(api, Config{})
	m = runCmd(t, m, m.Init())
	m = runCmd(t, m, m.GoToPage(2))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	assert.True(t, m.SearchFocused())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	firstSeq := m.searchSeq
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})

	// the tick scheduled after the first keystroke fires late and is ignored
	m, cmd := m.Update(searchTickMsg{seq: firstSeq})
	assert.Nil(t, cmd)
	assert.Equal(t, "", m.searchApplied)

	m, cmd = m.Update(searchTickMsg{seq: m.searchSeq})
	if assert.NotNil(t, cmd) {
		m, _ = m.Update(cmd())
	}
	assert.Equal(t, "al", m.searchApplied)
	assert.Equal(t, 1, m.Page())

	q := api.lastQuery()
	assert.Equal(t, "al", q.Get("search"))
	assert.Equal(t, "1", q.Get("page"))
}

func TestColumnRendering(t *testing.T) {
	api := newFakeAPI()
	defer api.close()
	api.set([]map[string]interface{}{
		{"name": "Ali", "status": nil, "active": true},
	}, 1)

	m := newTestTable(api, Config{
		Columns: []Column{
			{Key: "name", Label: "Name"},
			{Key: "status", Label: "Status"},
			{Key: "active", Label: "Active", Render: func(r client.Row) string {
				return r.Get("active")
			}},
		},
	})
	m = runCmd(t, m, m.Init())

	view := m.View()
	assert.Contains(t, view, "Ali")
	assert.Contains(t, view, client.Placeholder) // nil status falls back
	assert.Contains(t, view, "Yes")
}
