package views

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kicentre/madrasa/core/fee"
	"github.com/kicentre/madrasa/ui/client"
	"github.com/kicentre/madrasa/ui/datatable"
	"github.com/kicentre/madrasa/ui/modal"
)

type collectionReviewedMsg struct {
	message string
	err     error
}

var feeStatusCycle = []string{"", fee.StatusPending, fee.StatusApproved, fee.StatusCancelled}

// Fees lists fee collections; pending ones can be approved or cancelled.
type Fees struct {
	api     *client.Client
	dialogs *modal.Manager
	table   datatable.Model
	status  int
}

func NewFees(api *client.Client, dialogs *modal.Manager) Fees {
	table := datatable.New(api, datatable.Config{
		Path: "/v1/fees/collections",
		Columns: []datatable.Column{
			{Key: "receipt_number", Label: "Receipt #", Sortable: true, Width: 18},
			{Key: "student_id", Label: "Student", Width: 26},
			{Key: "amount", Label: "Amount", Sortable: true, Width: 10},
			{Key: "payment_method", Label: "Method", Width: 14},
			{Key: "collection_date", Label: "Date", Sortable: true, Width: 22},
			{Key: "status", Label: "Status", Sortable: true, Width: 12},
		},
		EmptyMessage: "No fee collections recorded",
	})
	return Fees{api: api, dialogs: dialogs, table: table}
}

func (v Fees) Init() tea.Cmd {
	return v.table.Init()
}

func (v Fees) searchFocused() bool {
	return v.table.SearchFocused()
}

func (v Fees) Update(msg tea.Msg) (Fees, tea.Cmd) {
	switch msg := msg.(type) {
	case collectionReviewedMsg:
		if msg.err != nil {
			return v, func() tea.Msg { return datatable.LoadFailedMsg{Err: msg.err} }
		}
		return v, tea.Batch(notify(msg.message), v.table.Refresh())

	case tea.KeyMsg:
		if v.table.SearchFocused() {
			break
		}
		switch msg.String() {
		case "f":
			v.status = (v.status + 1) % len(feeStatusCycle)
			filters := map[string]string{}
			if status := feeStatusCycle[v.status]; status != "" {
				filters["status"] = status
			}
			return v, v.table.SetFilters(filters)
		case "a":
			return v, v.reviewCollection("approve", "Approve this payment?", "Payment approved")
		case "x":
			return v, v.reviewCollection("cancel", "Cancel this payment?", "Payment cancelled")
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v Fees) reviewCollection(action, question, done string) tea.Cmd {
	row := v.table.SelectedRow()
	if row == nil {
		return nil
	}
	id, _ := row["id"].(string)
	api := v.api
	v.dialogs.Confirm(question, func() tea.Cmd {
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			err := api.Post(ctx, "/v1/fees/collections/"+id+"/"+action, nil, nil)
			return collectionReviewedMsg{message: done, err: err}
		}
	})
	return nil
}

func (v Fees) View() string {
	label := "all"
	if status := feeStatusCycle[v.status]; status != "" {
		label = status
	}
	return v.table.View() + "\n\nstatus: " + label + "  (f filter, a approve, x cancel)"
}
