package views

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kicentre/madrasa/core/attendance"
	"github.com/kicentre/madrasa/ui/client"
	"github.com/kicentre/madrasa/ui/datatable"
)

type attendanceSummaryMsg struct {
	summary attendance.Summary
	err     error
}

// Attendance shows the daily record table with today's headline counts.
type Attendance struct {
	api     *client.Client
	table   datatable.Model
	summary attendance.Summary
	haveSum bool
}

func NewAttendance(api *client.Client) Attendance {
	table := datatable.New(api, datatable.Config{
		Path: "/v1/attendance",
		Columns: []datatable.Column{
			{Key: "student_id", Label: "Student", Width: 26},
			{Key: "date", Label: "Date", Sortable: true, Width: 14},
			{Key: "status", Label: "Status", Sortable: true, Width: 10},
			{Key: "remarks", Label: "Remarks", Width: 30},
		},
		EmptyMessage: "No attendance records",
	})
	return Attendance{api: api, table: table}
}

func (v Attendance) Init() tea.Cmd {
	return tea.Batch(v.table.Init(), v.loadSummary())
}

func (v Attendance) searchFocused() bool {
	return v.table.SearchFocused()
}

func (v Attendance) loadSummary() tea.Cmd {
	api := v.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		var summary attendance.Summary
		err := api.Get(ctx, "/v1/attendance/summary", &summary)
		return attendanceSummaryMsg{summary: summary, err: err}
	}
}

func (v Attendance) Update(msg tea.Msg) (Attendance, tea.Cmd) {
	switch msg := msg.(type) {
	case attendanceSummaryMsg:
		if msg.err == nil {
			v.summary = msg.summary
			v.haveSum = true
		}
		return v, nil

	case tea.KeyMsg:
		if msg.String() == "r" && !v.table.SearchFocused() {
			return v, tea.Batch(v.table.Refresh(), v.loadSummary())
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v Attendance) View() string {
	out := v.table.View()
	if v.haveSum {
		out += fmt.Sprintf("\n\ntoday: %d present, %d absent of %d",
			v.summary.Present, v.summary.Absent, v.summary.Total)
	}
	return out
}
