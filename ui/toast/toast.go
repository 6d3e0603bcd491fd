package toast

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Level selects a banner color.
type Level int

const (
	Info Level = iota
	Success
	Error
)

const defaultTimeout = 4 * time.Second

var (
	infoStyle    = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("24"))
	successStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("28"))
	errorStyle   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("124"))
)

type expireMsg struct {
	seq int
}

// Model is a transient notification banner. Each Push replaces the current
// banner and restarts the dismiss timer.
type Model struct {
	message string
	level   Level
	timeout time.Duration
	seq     int
}

func New() Model {
	return Model{timeout: defaultTimeout}
}

func (m *Model) Push(level Level, message string) tea.Cmd {
	m.message = message
	m.level = level
	m.seq++
	seq := m.seq
	return tea.Tick(m.timeout, func(time.Time) tea.Msg {
		return expireMsg{seq: seq}
	})
}

func (m *Model) Info(message string) tea.Cmd    { return m.Push(Info, message) }
func (m *Model) Success(message string) tea.Cmd { return m.Push(Success, message) }
func (m *Model) Error(message string) tea.Cmd   { return m.Push(Error, message) }

func (m *Model) Update(msg tea.Msg) {
	if exp, ok := msg.(expireMsg); ok && exp.seq == m.seq {
		m.message = ""
	}
}

func (m Model) Active() bool { return m.message != "" }

func (m Model) View() string {
	if m.message == "" {
		return ""
	}
	switch m.level {
	case Success:
		return successStyle.Render(m.message)
	case Error:
		return errorStyle.Render(m.message)
	default:
		return infoStyle.Render(m.message)
	}
}
