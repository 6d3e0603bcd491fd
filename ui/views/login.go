package views

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kicentre/madrasa/ui/client"
)

type loggedInMsg struct{}

type loginResultMsg struct {
	err error
}

var (
	loginTitleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	loginErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("124"))
)

// Login collects credentials and exchanges them for a bearer token.
type Login struct {
	api      *client.Client
	username textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	errText  string
}

func NewLogin(api *client.Client) Login {
	username := textinput.New()
	username.Placeholder = "Username or email"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword

	return Login{api: api, username: username, password: password}
}

func (l Login) Init() tea.Cmd {
	return textinput.Blink
}

func (l Login) Update(msg tea.Msg) (Login, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		l.busy = false
		if msg.err != nil {
			l.errText = msg.err.Error()
			return l, nil
		}
		return l, func() tea.Msg { return loggedInMsg{} }

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return l, tea.Quit
		case "tab", "shift+tab", "up", "down":
			l.focus = (l.focus + 1) % 2
			if l.focus == 0 {
				l.password.Blur()
				return l, l.username.Focus()
			}
			l.username.Blur()
			return l, l.password.Focus()
		case "enter":
			if l.busy {
				return l, nil
			}
			username := strings.TrimSpace(l.username.Value())
			password := l.password.Value()
			if username == "" || password == "" {
				l.errText = "username and password are required"
				return l, nil
			}
			l.busy = true
			l.errText = ""
			api := l.api
			return l, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				return loginResultMsg{err: api.Login(ctx, username, password)}
			}
		}
	}

	var cmds [2]tea.Cmd
	l.username, cmds[0] = l.username.Update(msg)
	l.password, cmds[1] = l.password.Update(msg)
	return l, tea.Batch(cmds[0], cmds[1])
}

func (l Login) View() string {
	var b strings.Builder
	b.WriteString(loginTitleStyle.Render("Sign in"))
	b.WriteString("\n")
	b.WriteString(l.username.View())
	b.WriteString("\n")
	b.WriteString(l.password.View())
	b.WriteString("\n\n")
	if l.busy {
		b.WriteString("Signing in...")
	} else if l.errText != "" {
		b.WriteString(loginErrStyle.Render(l.errText))
	} else {
		b.WriteString("enter to sign in")
	}
	return b.String()
}
