package modal

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Size picks the dialog width.
type Size string

const (
	SizeSmall      Size = "small"
	SizeMedium     Size = "medium"
	SizeLarge      Size = "large"
	SizeExtraLarge Size = "extra-large"
)

func (s Size) width() int {
	switch s {
	case SizeSmall:
		return 36
	case SizeLarge:
		return 72
	case SizeExtraLarge:
		return 96
	default:
		return 52
	}
}

// Button is a dialog action. OnPress may return a command to run after the
// dialog is hidden; a nil OnPress just dismisses.
type Button struct {
	Label   string
	OnPress func() tea.Cmd
}

// Config describes one dialog. Zero fields fall back to defaults on Show:
// medium size, dismissible, a single "Close" button.
type Config struct {
	Title       string
	Body        string
	Size        Size
	Buttons     []Button
	Dismissible *bool
	OnShow      func()
	OnHide      func()
}

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)
	titleStyle         = lipgloss.NewStyle().Bold(true)
	buttonStyle        = lipgloss.NewStyle().Padding(0, 2)
	focusedButtonStyle = buttonStyle.Copy().Reverse(true)
)

// Manager is the single shared dialog instance. Showing a new dialog replaces
// whatever is on screen; dialogs never stack.
type Manager struct {
	visible     bool
	title       string
	body        string
	size        Size
	buttons     []Button
	dismissible bool
	onHide      func()
	focus       int
}

func NewManager() *Manager {
	return &Manager{}
}

// Show replaces the current dialog, if any, with the given config merged over
// defaults. Button handlers are attached fresh on every call.
func (m *Manager) Show(cfg Config) {
	m.visible = true
	m.title = cfg.Title
	m.body = cfg.Body

	m.size = cfg.Size
	if m.size == "" {
		m.size = SizeMedium
	}

	m.buttons = cfg.Buttons
	if len(m.buttons) == 0 {
		m.buttons = []Button{{Label: "Close"}}
	}

	m.dismissible = true
	if cfg.Dismissible != nil {
		m.dismissible = *cfg.Dismissible
	}

	m.onHide = cfg.OnHide
	m.focus = 0

	if cfg.OnShow != nil {
		cfg.OnShow()
	}
}

// Confirm shows a Cancel/Confirm dialog. The callback runs after the dialog
// is hidden and fires exactly once per confirmation.
func (m *Manager) Confirm(message string, onConfirm func() tea.Cmd) {
	m.Show(Config{
		Title: "Confirm",
		Body:  message,
		Size:  SizeSmall,
		Buttons: []Button{
			{Label: "Cancel"},
			{Label: "Confirm", OnPress: onConfirm},
		},
	})
	m.focus = 1
}

// Hide dismisses the dialog and drops its handlers.
func (m *Manager) Hide() {
	if !m.visible {
		return
	}
	m.visible = false
	m.buttons = nil
	onHide := m.onHide
	m.onHide = nil
	if onHide != nil {
		onHide()
	}
}

func (m *Manager) Visible() bool { return m.visible }

// Update consumes key events while the dialog is visible. The second return
// reports whether the event was handled and should not reach the view below.
func (m *Manager) Update(msg tea.Msg) (tea.Cmd, bool) {
	if !m.visible {
		return nil, false
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}

	switch keyMsg.String() {
	case "esc":
		if m.dismissible {
			m.Hide()
		}
		return nil, true
	case "left", "shift+tab":
		if m.focus > 0 {
			m.focus--
		}
		return nil, true
	case "right", "tab":
		if m.focus < len(m.buttons)-1 {
			m.focus++
		}
		return nil, true
	case "enter":
		var onPress func() tea.Cmd
		if m.focus < len(m.buttons) {
			onPress = m.buttons[m.focus].OnPress
		}
		m.Hide()
		if onPress != nil {
			return onPress(), true
		}
		return nil, true
	}
	return nil, true // swallow everything else while open
}

// Overlay renders the dialog centered over the given area.
func (m *Manager) Overlay(width, height int) string {
	if !m.visible {
		return ""
	}

	buttons := make([]string, 0, len(m.buttons))
	for i, btn := range m.buttons {
		style := buttonStyle
		if i == m.focus {
			style = focusedButtonStyle
		}
		buttons = append(buttons, style.Render(btn.Label))
	}

	w := m.size.width()
	if width > 0 && w > width-4 {
		w = width - 4
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.title),
		"",
		lipgloss.NewStyle().Width(w).Render(m.body),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, buttons...),
	)
	dialog := frameStyle.Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dialog)
}
