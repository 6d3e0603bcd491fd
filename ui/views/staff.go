package views

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kicentre/madrasa/ui/client"
	"github.com/kicentre/madrasa/ui/datatable"
	"github.com/kicentre/madrasa/ui/modal"
)

type leaveReviewedMsg struct {
	message string
	err     error
}

// Staff switches between the staff directory and the leave request queue.
type Staff struct {
	api     *client.Client
	dialogs *modal.Manager

	members datatable.Model
	leaves  datatable.Model

	showLeaves bool
}

func NewStaff(api *client.Client, dialogs *modal.Manager) Staff {
	members := datatable.New(api, datatable.Config{
		Path: "/v1/staff",
		Columns: []datatable.Column{
			{Key: "name", Label: "Name", Sortable: true, Width: 26},
			{Key: "designation", Label: "Designation", Sortable: true, Width: 20},
			{Key: "phone", Label: "Phone", Width: 16},
			{Key: "email", Label: "Email", Width: 26},
			{Key: "status", Label: "Status", Width: 12},
		},
		EmptyMessage: "No staff found",
	})
	leaves := datatable.New(api, datatable.Config{
		Path: "/v1/leave-requests",
		Columns: []datatable.Column{
			{Key: "staff_id", Label: "Staff", Width: 26},
			{Key: "from_date", Label: "From", Width: 14},
			{Key: "to_date", Label: "To", Width: 14},
			{Key: "reason", Label: "Reason", Width: 30},
			{Key: "status", Label: "Status", Width: 12},
		},
		EmptyMessage: "No leave requests",
	})
	return Staff{api: api, dialogs: dialogs, members: members, leaves: leaves}
}

func (v Staff) Init() tea.Cmd {
	return v.members.Init()
}

func (v Staff) searchFocused() bool {
	return v.members.SearchFocused() || v.leaves.SearchFocused()
}

func (v Staff) Update(msg tea.Msg) (Staff, tea.Cmd) {
	switch msg := msg.(type) {
	case leaveReviewedMsg:
		if msg.err != nil {
			return v, func() tea.Msg { return datatable.LoadFailedMsg{Err: msg.err} }
		}
		return v, tea.Batch(notify(msg.message), v.leaves.Refresh())

	case tea.KeyMsg:
		if v.searchFocused() {
			break
		}
		switch msg.String() {
		case "v":
			v.showLeaves = !v.showLeaves
			if v.showLeaves {
				return v, v.leaves.Init()
			}
			return v, v.members.Refresh()
		case "a":
			if v.showLeaves {
				return v, v.reviewLeave("approve", "Approve this leave request?", "Leave request approved")
			}
		case "x":
			if v.showLeaves {
				return v, v.reviewLeave("reject", "Reject this leave request?", "Leave request rejected")
			}
		}
	}

	var cmd tea.Cmd
	if v.showLeaves {
		v.leaves, cmd = v.leaves.Update(msg)
	} else {
		v.members, cmd = v.members.Update(msg)
	}
	return v, cmd
}

func (v Staff) reviewLeave(action, question, done string) tea.Cmd {
	row := v.leaves.SelectedRow()
	if row == nil {
		return nil
	}
	id, _ := row["id"].(string)
	api := v.api
	v.dialogs.Confirm(question, func() tea.Cmd {
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			err := api.Post(ctx, "/v1/leave-requests/"+id+"/"+action, nil, nil)
			return leaveReviewedMsg{message: done, err: err}
		}
	})
	return nil
}

func (v Staff) View() string {
	var b strings.Builder
	if v.showLeaves {
		b.WriteString(v.leaves.View())
		b.WriteString("\n\nleave requests  (a approve, x reject, v staff directory)")
	} else {
		b.WriteString(v.members.View())
		b.WriteString("\n\nstaff directory  (v leave requests)")
	}
	return b.String()
}
