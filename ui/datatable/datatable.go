package datatable

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/ui/client"
)

const (
	searchDebounce = 500 * time.Millisecond
	requestTimeout = 15 * time.Second
	pageWindowSize = 5

	defaultEmptyMessage = "No data available"
)

// Column describes one table column. When Render is nil the cell shows
// row.Get(Key), which substitutes the placeholder for missing values.
type Column struct {
	Key      string
	Label    string
	Sortable bool
	Width    int
	Render   func(client.Row) string
}

// Config sets up a table against one list endpoint.
type Config struct {
	Path         string // e.g. "/v1/students"
	Columns      []Column
	PageSize     int
	EmptyMessage string
	Filters      map[string]string
}

// LoadFailedMsg is emitted when a reload fails so the surrounding view can
// surface the error. The table itself falls back to an empty render.
type LoadFailedMsg struct {
	Err error
}

type dataMsg struct {
	seq  int
	page client.ListPage
}

type errMsg struct {
	seq int
	err error
}

type searchTickMsg struct {
	seq int
}

var (
	headerStyle      = lipgloss.NewStyle().Bold(true).Underline(true)
	cellStyle        = lipgloss.NewStyle().PaddingRight(2)
	activePage       = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	inactivePage     = lipgloss.NewStyle().Padding(0, 1)
	footerStyle      = lipgloss.NewStyle().Faint(true)
	emptyRowStyle    = lipgloss.NewStyle().Faint(true).Italic(true)
	selectedRowStyle = lipgloss.NewStyle().Reverse(true)
)

// Model is a paginated, sortable, searchable table bound to a list endpoint.
// All data access goes through the shared API client; every request carries a
// sequence number and responses from superseded requests are discarded.
type Model struct {
	api *client.Client
	cfg Config

	rows  []client.Row
	count int

	page      int
	pageSize  int
	sortBy    string
	sortOrder string
	filters   map[string]string

	search        textinput.Model
	searchApplied string

	cursor    int
	loading   bool
	seq       int
	searchSeq int
	width     int
}

func New(api *client.Client, cfg Config) Model {
	if cfg.PageSize < 1 {
		cfg.PageSize = core.DefaultPageSize
	}
	if cfg.EmptyMessage == "" {
		cfg.EmptyMessage = defaultEmptyMessage
	}

	filters := make(map[string]string, len(cfg.Filters))
	for k, v := range cfg.Filters {
		filters[k] = v
	}

	input := textinput.New()
	input.Placeholder = "Search..."
	input.Prompt = "/ "
	input.CharLimit = 64

	return Model{
		api:      api,
		cfg:      cfg,
		page:     1,
		pageSize: cfg.PageSize,
		filters:  filters,
		search:   input,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload issues a fresh list request for the current query state. Any
// in-flight request is superseded.
func (m *Model) Reload() tea.Cmd {
	m.seq++
	m.loading = true
	seq := m.seq
	api := m.api
	path := m.cfg.Path
	q := m.query()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		page, err := api.List(ctx, path, q)
		if err != nil {
			return errMsg{seq: seq, err: err}
		}
		return dataMsg{seq: seq, page: page}
	}
}

// Refresh re-fetches the current page without touching the query state.
func (m *Model) Refresh() tea.Cmd {
	return m.Reload()
}

// SetFilters replaces the endpoint filters wholesale and jumps back to the
// first page.
func (m *Model) SetFilters(filters map[string]string) tea.Cmd {
	m.filters = make(map[string]string, len(filters))
	for k, v := range filters {
		m.filters[k] = v
	}
	m.page = 1
	return m.Reload()
}

// SortBy activates sorting on the given column: toggles direction when the
// column is already active, otherwise selects it ascending.
func (m *Model) SortBy(key string) tea.Cmd {
	if m.sortBy == key {
		if m.sortOrder == core.SortAsc {
			m.sortOrder = core.SortDesc
		} else {
			m.sortOrder = core.SortAsc
		}
	} else {
		m.sortBy = key
		m.sortOrder = core.SortAsc
	}
	m.page = 1
	return m.Reload()
}

// GoToPage moves to the given page, clamped to the valid range.
func (m *Model) GoToPage(page int) tea.Cmd {
	if page < 1 {
		page = 1
	}
	if tp := m.TotalPages(); tp > 0 && page > tp {
		page = tp
	}
	if page == m.page {
		return nil
	}
	m.page = page
	return m.Reload()
}

func (m *Model) NextPage() tea.Cmd { return m.GoToPage(m.page + 1) }
func (m *Model) PrevPage() tea.Cmd { return m.GoToPage(m.page - 1) }

func (m Model) Rows() []client.Row { return m.rows }

// SearchFocused reports whether keystrokes are currently going into the
// search box.
func (m Model) SearchFocused() bool { return m.search.Focused() }

// SelectedRow returns the row under the cursor, or nil when the table is
// empty.
func (m Model) SelectedRow() client.Row {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor]
}
func (m Model) Count() int         { return m.count }
func (m Model) Page() int          { return m.page }
func (m Model) Loading() bool      { return m.loading }
func (m Model) Sort() (by, order string) {
	return m.sortBy, m.sortOrder
}

func (m Model) TotalPages() int {
	return core.TotalPages(m.count, m.pageSize)
}

func (m Model) query() client.ListQuery {
	filters := make(map[string]string, len(m.filters))
	for k, v := range m.filters {
		filters[k] = v
	}
	return client.ListQuery{
		Page:      m.page,
		PageSize:  m.pageSize,
		Search:    m.searchApplied,
		SortBy:    m.sortBy,
		SortOrder: m.sortOrder,
		Filters:   filters,
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dataMsg:
		if msg.seq != m.seq {
			return m, nil // superseded request
		}
		m.loading = false
		m.rows = msg.page.Rows
		m.count = msg.page.Count
		if m.cursor >= len(m.rows) {
			m.cursor = 0
		}
		return m, nil

	case errMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.rows = nil
		m.count = 0
		err := msg.err
		return m, func() tea.Msg { return LoadFailedMsg{Err: err} }

	case searchTickMsg:
		if msg.seq != m.searchSeq {
			return m, nil // superseded by further typing
		}
		if term := strings.TrimSpace(m.search.Value()); term != m.searchApplied {
			m.searchApplied = term
			m.page = 1
			return m, m.Reload()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.search.Focused() {
		switch msg.String() {
		case "esc":
			m.search.Blur()
			return m, nil
		case "enter":
			m.search.Blur()
			m.searchSeq++
			if term := strings.TrimSpace(m.search.Value()); term != m.searchApplied {
				m.searchApplied = term
				m.page = 1
				return m, m.Reload()
			}
			return m, nil
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.searchSeq++
			seq := m.searchSeq
			cmd = tea.Batch(cmd, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
				return searchTickMsg{seq: seq}
			}))
		}
		return m, cmd
	}

	switch msg.String() {
	case "/":
		m.search.Focus()
		return m, textinput.Blink
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil
	case "left", "h":
		return m, m.PrevPage()
	case "right", "l":
		return m, m.NextPage()
	case "r":
		return m, m.Refresh()
	case "s":
		return m, m.nextSortColumn()
	case "o":
		if m.sortBy != "" {
			return m, m.SortBy(m.sortBy)
		}
		return m, nil
	}
	return m, nil
}

// nextSortColumn moves the active sort to the next sortable column,
// ascending; wraps around past the last one.
func (m *Model) nextSortColumn() tea.Cmd {
	var keys []string
	for _, col := range m.cfg.Columns {
		if col.Sortable {
			keys = append(keys, col.Key)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	next := keys[0]
	for i, key := range keys {
		if key == m.sortBy && i+1 < len(keys) {
			next = keys[i+1]
			break
		}
	}
	m.sortBy = next
	m.sortOrder = core.SortAsc
	m.page = 1
	return m.Reload()
}

// PageWindow returns up to five page numbers centered on the current page and
// clamped to [1, TotalPages].
func (m Model) PageWindow() []int {
	tp := m.TotalPages()
	if tp == 0 {
		return nil
	}
	start := m.page - pageWindowSize/2
	if start < 1 {
		start = 1
	}
	end := start + pageWindowSize - 1
	if end > tp {
		end = tp
		start = end - pageWindowSize + 1
		if start < 1 {
			start = 1
		}
	}
	window := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		window = append(window, p)
	}
	return window
}

// FooterText reads like "Showing 1 to 20 of 45 entries".
func (m Model) FooterText() string {
	lo, hi := core.PageBounds(m.count, m.page, m.pageSize)
	from := 0
	if m.count > 0 {
		from = lo + 1
	}
	return fmt.Sprintf("Showing %d to %d of %d entries", from, hi, m.count)
}

func (m Model) columnWidth(col Column) int {
	if col.Width > 0 {
		return col.Width
	}
	w := len(col.Label) + 2
	if w < 10 {
		w = 10
	}
	return w
}

func (m Model) cellValue(col Column, row client.Row) string {
	if col.Render != nil {
		if v := col.Render(row); v != "" {
			return v
		}
		return client.Placeholder
	}
	return row.Get(col.Key)
}

func (m Model) View() string {
	var b strings.Builder

	if m.search.Focused() || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	headers := make([]string, 0, len(m.cfg.Columns))
	for _, col := range m.cfg.Columns {
		label := col.Label
		if col.Key == m.sortBy {
			if m.sortOrder == core.SortDesc {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		headers = append(headers, cellStyle.Width(m.columnWidth(col)).Render(headerStyle.Render(label)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, headers...))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		msg := m.cfg.EmptyMessage
		if m.loading {
			msg = "Loading..."
		}
		b.WriteString(emptyRowStyle.Render(msg))
		b.WriteString("\n")
	} else {
		for i, row := range m.rows {
			cells := make([]string, 0, len(m.cfg.Columns))
			for _, col := range m.cfg.Columns {
				w := m.columnWidth(col)
				cells = append(cells, cellStyle.Width(w).MaxWidth(w).Render(m.cellValue(col, row)))
			}
			line := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
			if i == m.cursor {
				line = selectedRowStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString(footerStyle.Render(m.FooterText()))
	if window := m.PageWindow(); len(window) > 1 {
		b.WriteString("\n")
		links := make([]string, 0, len(window)+2)
		links = append(links, inactivePage.Render("‹"))
		for _, p := range window {
			style := inactivePage
			if p == m.page {
				style = activePage
			}
			links = append(links, style.Render(strconv.Itoa(p)))
		}
		links = append(links, inactivePage.Render("›"))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, links...))
	}
	return b.String()
}
