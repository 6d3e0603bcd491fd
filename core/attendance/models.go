package attendance

import (
	"strings"
	"time"

	"github.com/kicentre/madrasa/core"
)

// Statuses
const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
)

// Record is one student's attendance for one day. Only one record exists per
// (student, date); remarking overwrites.
type Record struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	Date       time.Time `json:"date"` // date only, UTC midnight
	Status     string    `json:"status"`
	MarkedByID string    `json:"marked_by_id"`
	Remarks    string    `json:"remarks,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Mark is a single marking instruction.
type Mark struct {
	StudentID string `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=PRESENT ABSENT"`
	Remarks   string `json:"remarks"`
}

// BulkMark marks a whole class/division for one day in one call.
type BulkMark struct {
	Date  time.Time `json:"date" validate:"required"`
	Marks []Mark    `json:"marks" validate:"required,min=1,dive"`
}

func (bm *BulkMark) Validate() error {
	for i := range bm.Marks {
		bm.Marks[i].Remarks = core.CleanString(bm.Marks[i].Remarks)
	}
	return core.Validate.Struct(bm)
}

// Summary is the aggregate for a day.
type Summary struct {
	Date    time.Time `json:"date"`
	Present int       `json:"present"`
	Absent  int       `json:"absent"`
	Total   int       `json:"total"`
}

// QueryFilter narrows attendance list queries.
type QueryFilter struct {
	core.ListQuery
	StudentID string     `query:"student"`
	Status    string     `query:"status"`
	DateFrom  *time.Time `query:"date_from"`
	DateTo    *time.Time `query:"date_to"`
}

func (qf *QueryFilter) Clean() {
	qf.ListQuery.Clean()
	qf.StudentID = core.CleanString(qf.StudentID)
	qf.Status = strings.ToUpper(core.CleanString(qf.Status))
}

// DateOnly truncates t to UTC midnight, the canonical attendance key.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
