package views

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kicentre/madrasa/core/registration"
	"github.com/kicentre/madrasa/ui/client"
	"github.com/kicentre/madrasa/ui/datatable"
	"github.com/kicentre/madrasa/ui/modal"
)

type reviewDoneMsg struct {
	message string
	err     error
}

// Registrations is the pending admissions queue. The selected submission can
// be approved, rejected with a reason or sent back for more information; each
// action goes through a confirmation dialog.
type Registrations struct {
	api     *client.Client
	dialogs *modal.Manager
	table   datatable.Model

	pendingOnly bool

	// prompt state for the reject reason / info request message
	prompt       textinput.Model
	promptAction string // "reject" or "request-info"
	promptID     string
}

func NewRegistrations(api *client.Client, dialogs *modal.Manager) Registrations {
	table := datatable.New(api, datatable.Config{
		Path: "/v1/registrations",
		Columns: []datatable.Column{
			{Key: "student_name", Label: "Student", Sortable: true, Width: 26},
			{Key: "parent_mobile", Label: "Parent mobile", Width: 16},
			{Key: "email", Label: "Email", Width: 26},
			{Key: "status", Label: "Status", Sortable: true, Width: 16},
			{Key: "submitted_at", Label: "Submitted", Sortable: true, Width: 22},
		},
		Filters:      map[string]string{"status": registration.StatusPending},
		EmptyMessage: "No registrations waiting for review",
	})

	prompt := textinput.New()
	prompt.CharLimit = 200

	return Registrations{
		api:         api,
		dialogs:     dialogs,
		table:       table,
		pendingOnly: true,
		prompt:      prompt,
	}
}

func (v Registrations) Init() tea.Cmd {
	return v.table.Init()
}

func (v Registrations) searchFocused() bool {
	return v.table.SearchFocused() || v.prompt.Focused()
}

func (v Registrations) selectedID() string {
	row := v.table.SelectedRow()
	if row == nil {
		return ""
	}
	id, _ := row["id"].(string)
	return id
}

func (v Registrations) Update(msg tea.Msg) (Registrations, tea.Cmd) {
	switch msg := msg.(type) {
	case reviewDoneMsg:
		if msg.err != nil {
			return v, func() tea.Msg { return datatable.LoadFailedMsg{Err: msg.err} }
		}
		return v, tea.Batch(notify(msg.message), v.table.Refresh())

	case tea.KeyMsg:
		if v.prompt.Focused() {
			return v.updatePrompt(msg)
		}
		if v.table.SearchFocused() {
			break
		}
		switch msg.String() {
		case "f":
			v.pendingOnly = !v.pendingOnly
			filters := map[string]string{}
			if v.pendingOnly {
				filters["status"] = registration.StatusPending
			}
			return v, v.table.SetFilters(filters)
		case "a":
			return v, v.confirmApprove()
		case "x":
			cmd := v.openPrompt("reject", "Rejection reason")
			return v, cmd
		case "i":
			cmd := v.openPrompt("request-info", "Message to the applicant")
			return v, cmd
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v Registrations) confirmApprove() tea.Cmd {
	row := v.table.SelectedRow()
	if row == nil {
		return nil
	}
	id, _ := row["id"].(string)
	api := v.api
	v.dialogs.Confirm(
		"Approve the registration of "+row.Get("student_name")+"? This creates the student record.",
		func() tea.Cmd {
			return func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				err := api.Post(ctx, "/v1/registrations/"+id+"/approve", registration.Approval{}, nil)
				return reviewDoneMsg{message: "Registration approved", err: err}
			}
		},
	)
	return nil
}

func (v *Registrations) openPrompt(action, placeholder string) tea.Cmd {
	id := v.selectedID()
	if id == "" {
		return nil
	}
	v.promptAction = action
	v.promptID = id
	v.prompt.Placeholder = placeholder
	v.prompt.SetValue("")
	return v.prompt.Focus()
}

func (v Registrations) updatePrompt(msg tea.KeyMsg) (Registrations, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.prompt.Blur()
		return v, nil
	case "enter":
		text := strings.TrimSpace(v.prompt.Value())
		if text == "" {
			return v, nil
		}
		v.prompt.Blur()
		return v, v.confirmReview(v.promptAction, v.promptID, text)
	}
	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v Registrations) confirmReview(action, id, text string) tea.Cmd {
	api := v.api
	var question, done string
	var body interface{}
	switch action {
	case "reject":
		question = "Reject this registration?"
		done = "Registration rejected"
		body = registration.Rejection{Reason: text}
	case "request-info":
		question = "Ask the applicant for more information?"
		done = "Information requested"
		body = registration.InfoRequest{Message: text}
	default:
		return nil
	}
	v.dialogs.Confirm(question, func() tea.Cmd {
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			err := api.Post(ctx, "/v1/registrations/"+id+"/"+action, body, nil)
			return reviewDoneMsg{message: done, err: err}
		}
	})
	return nil
}

func (v Registrations) View() string {
	var b strings.Builder
	b.WriteString(v.table.View())
	b.WriteString("\n\n")
	if v.prompt.Focused() {
		b.WriteString(v.prompt.View())
		b.WriteString("  (enter to continue, esc to cancel)")
	} else {
		scope := "pending"
		if !v.pendingOnly {
			scope = "all"
		}
		b.WriteString("showing: " + scope + "  (a approve, x reject, i request info, f filter)")
	}
	return b.String()
}
