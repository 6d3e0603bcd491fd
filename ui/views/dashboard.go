package views

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kicentre/madrasa/core/dashboard"
	"github.com/kicentre/madrasa/ui/client"
)

type statsMsg struct {
	stats dashboard.Stats
	err   error
}

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			MarginRight(2).
			Width(24)
	cardTitleStyle = lipgloss.NewStyle().Bold(true)
	cardValueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
)

// Dashboard shows the headline stat cards.
type Dashboard struct {
	api     *client.Client
	stats   dashboard.Stats
	loaded  bool
	errText string
}

func NewDashboard(api *client.Client) Dashboard {
	return Dashboard{api: api}
}

func (d Dashboard) Load() tea.Cmd {
	api := d.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		var stats dashboard.Stats
		err := api.Get(ctx, "/v1/dashboard/stats", &stats)
		return statsMsg{stats: stats, err: err}
	}
}

func (d Dashboard) Update(msg tea.Msg) (Dashboard, tea.Cmd) {
	switch msg := msg.(type) {
	case statsMsg:
		if msg.err != nil {
			d.errText = msg.err.Error()
			return d, nil
		}
		d.stats = msg.stats
		d.loaded = true
		d.errText = ""
		return d, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			return d, d.Load()
		}
	}
	return d, nil
}

func card(title, value, detail string) string {
	var b strings.Builder
	b.WriteString(cardTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(cardValueStyle.Render(value))
	if detail != "" {
		b.WriteString("\n")
		b.WriteString(detail)
	}
	return cardStyle.Render(b.String())
}

func countLines(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %d", k, counts[k]))
	}
	return strings.Join(lines, "\n")
}

func (d Dashboard) View() string {
	if d.errText != "" {
		return "Could not load stats: " + d.errText + "\n\nr to retry"
	}
	if !d.loaded {
		return "Loading stats..."
	}

	s := d.stats
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Students",
			fmt.Sprintf("%d", s.Students.Total),
			fmt.Sprintf("active: %d\ninactive: %d", s.Students.Active, s.Students.Inactive)),
		card("Staff", fmt.Sprintf("%d", s.Staff.Total), countLines(s.Staff.ByRole)),
		card("Registrations",
			fmt.Sprintf("%d", s.Registrations.Pending+s.Registrations.InfoRequested),
			fmt.Sprintf("pending: %d\ninfo requested: %d", s.Registrations.Pending, s.Registrations.InfoRequested)),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Fees this month", fmt.Sprintf("%d", s.Fees.CollectedThisMonth), ""),
		card("Attendance today",
			fmt.Sprintf("%d/%d", s.Attendance.Present, s.Attendance.Total),
			fmt.Sprintf("absent: %d", s.Attendance.Absent)),
		card("Students by branch", "", countLines(s.Students.ByBranch)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, top, "", bottom, "", "r to refresh")
}
