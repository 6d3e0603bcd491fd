// Package views holds the page controllers of the terminal admin client.
// Each page owns its table, bindings and actions; shared pieces (the API
// client, the dialog manager, the notification banner) are threaded through
// construction instead of living in package globals.
package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kicentre/madrasa/ui/client"
	"github.com/kicentre/madrasa/ui/datatable"
	"github.com/kicentre/madrasa/ui/modal"
	"github.com/kicentre/madrasa/ui/toast"
)

type page int

const (
	pageDashboard page = iota
	pageStudents
	pageRegistrations
	pageStaff
	pageFees
	pageAttendance
)

var pageTitles = []string{
	"Dashboard",
	"Students",
	"Registrations",
	"Staff",
	"Fees",
	"Attendance",
}

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Faint(true)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).Underline(true)
	appFrame       = lipgloss.NewStyle().Padding(1, 2)
)

// noticeMsg asks the root model to flash a success banner; pages emit it
// after a completed action.
type noticeMsg struct {
	message string
}

func notify(message string) tea.Cmd {
	return func() tea.Msg { return noticeMsg{message: message} }
}

// App is the root model: login gate, tab bar, shared dialog overlay and
// notification banner, one controller per page.
type App struct {
	api     *client.Client
	dialogs *modal.Manager
	notices toast.Model

	loggedIn bool
	login    Login
	active   page

	dashboard     Dashboard
	students      Students
	registrations Registrations
	staff         Staff
	fees          Fees
	attendance    Attendance

	width  int
	height int
}

func NewApp(api *client.Client) App {
	dialogs := modal.NewManager()
	return App{
		api:           api,
		dialogs:       dialogs,
		notices:       toast.New(),
		login:         NewLogin(api),
		dashboard:     NewDashboard(api),
		students:      NewStudents(api, dialogs),
		registrations: NewRegistrations(api, dialogs),
		staff:         NewStaff(api, dialogs),
		fees:          NewFees(api, dialogs),
		attendance:    NewAttendance(api),
	}
}

func (a App) Init() tea.Cmd {
	return a.login.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case loggedInMsg:
		a.loggedIn = true
		a.active = pageDashboard
		return a, tea.Batch(a.dashboard.Load(), a.notices.Success("Signed in"))

	case noticeMsg:
		return a, a.notices.Success(msg.message)

	case datatable.LoadFailedMsg:
		return a, a.notices.Error(msg.Err.Error())
	}

	a.notices.Update(msg)

	if cmd, handled := a.dialogs.Update(msg); handled {
		return a, cmd
	}

	if !a.loggedIn {
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "1", "2", "3", "4", "5", "6":
			target := page(int(key.String()[0] - '1'))
			if target != a.active && !a.searchFocused() {
				a.active = target
				return a, a.initPage(target)
			}
		}
	}

	switch a.active {
	case pageDashboard:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		cmds = append(cmds, cmd)
	case pageStudents:
		var cmd tea.Cmd
		a.students, cmd = a.students.Update(msg)
		cmds = append(cmds, cmd)
	case pageRegistrations:
		var cmd tea.Cmd
		a.registrations, cmd = a.registrations.Update(msg)
		cmds = append(cmds, cmd)
	case pageStaff:
		var cmd tea.Cmd
		a.staff, cmd = a.staff.Update(msg)
		cmds = append(cmds, cmd)
	case pageFees:
		var cmd tea.Cmd
		a.fees, cmd = a.fees.Update(msg)
		cmds = append(cmds, cmd)
	case pageAttendance:
		var cmd tea.Cmd
		a.attendance, cmd = a.attendance.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a App) initPage(p page) tea.Cmd {
	switch p {
	case pageDashboard:
		return a.dashboard.Load()
	case pageStudents:
		return a.students.Init()
	case pageRegistrations:
		return a.registrations.Init()
	case pageStaff:
		return a.staff.Init()
	case pageFees:
		return a.fees.Init()
	case pageAttendance:
		return a.attendance.Init()
	}
	return nil
}

// searchFocused prevents the number keys from switching tabs while the user
// is typing into a page's search box.
func (a App) searchFocused() bool {
	switch a.active {
	case pageStudents:
		return a.students.searchFocused()
	case pageRegistrations:
		return a.registrations.searchFocused()
	case pageStaff:
		return a.staff.searchFocused()
	case pageFees:
		return a.fees.searchFocused()
	case pageAttendance:
		return a.attendance.searchFocused()
	}
	return false
}

func (a App) View() string {
	if a.dialogs.Visible() {
		return a.dialogs.Overlay(a.width, a.height)
	}

	if !a.loggedIn {
		return appFrame.Render(a.login.View())
	}

	tabs := make([]string, 0, len(pageTitles))
	for i, title := range pageTitles {
		style := tabStyle
		if page(i) == a.active {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(title))
	}

	var body string
	switch a.active {
	case pageDashboard:
		body = a.dashboard.View()
	case pageStudents:
		body = a.students.View()
	case pageRegistrations:
		body = a.registrations.View()
	case pageStaff:
		body = a.staff.View()
	case pageFees:
		body = a.fees.View()
	case pageAttendance:
		body = a.attendance.View()
	}

	var b strings.Builder
	if a.notices.Active() {
		b.WriteString(a.notices.View())
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")
	b.WriteString(body)
	return appFrame.Render(b.String())
}
