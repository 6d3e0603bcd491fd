package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kicentre/madrasa/core/student"
	"github.com/kicentre/madrasa/ui/client"
	"github.com/kicentre/madrasa/ui/datatable"
	"github.com/kicentre/madrasa/ui/modal"
)

var studentStatusCycle = []string{
	"",
	student.StatusActive,
	student.StatusInactive,
	student.StatusGraduated,
	student.StatusTransferred,
	student.StatusDropped,
}

// Students lists student profiles with a status filter cycle.
type Students struct {
	api     *client.Client
	dialogs *modal.Manager
	table   datatable.Model
	status  int
}

func NewStudents(api *client.Client, dialogs *modal.Manager) Students {
	table := datatable.New(api, datatable.Config{
		Path: "/v1/students",
		Columns: []datatable.Column{
			{Key: "admission_number", Label: "Admission #", Sortable: true, Width: 14},
			{Key: "name", Label: "Name", Sortable: true, Width: 26},
			{Key: "gender", Label: "Gender", Width: 8},
			{Key: "category", Label: "Category", Width: 12},
			{Key: "status", Label: "Status", Sortable: true, Width: 14},
			{Key: "parent_mobile", Label: "Parent mobile", Width: 16},
		},
		EmptyMessage: "No students found",
	})
	return Students{api: api, dialogs: dialogs, table: table}
}

func (v Students) Init() tea.Cmd {
	return v.table.Init()
}

func (v Students) searchFocused() bool {
	return v.table.SearchFocused()
}

func (v Students) Update(msg tea.Msg) (Students, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "f" && !v.table.SearchFocused() {
		v.status = (v.status + 1) % len(studentStatusCycle)
		filters := map[string]string{}
		if status := studentStatusCycle[v.status]; status != "" {
			filters["status"] = status
		}
		return v, v.table.SetFilters(filters)
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v Students) View() string {
	label := "all"
	if status := studentStatusCycle[v.status]; status != "" {
		label = status
	}
	return v.table.View() + "\n\nstatus: " + label + "  (f filter, / search, s sort, o order)"
}
