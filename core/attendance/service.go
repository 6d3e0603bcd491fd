package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core/student"
	"github.com/kicentre/madrasa/core/user"
)

var ErrNotFound = errors.New("attendance record not found")

type (
	Repository interface {
		// UpsertRecord inserts the record or, when one already exists for the
		// same (student, date), overwrites its status/remarks/marker.
		UpsertRecord(rec Record) (Record, error)
		GetRecord(studentID string, date time.Time) (Record, error)
		// FilterRecords returns the requested page and total match count.
		FilterRecords(filter QueryFilter) ([]Record, int, error)
		SummarizeDay(date time.Time) (Summary, error)
	}

	Service struct {
		repo       Repository
		studentSvc *student.Service
	}
)

func NewService(repo Repository, studentSvc *student.Service) *Service {
	return &Service{repo: repo, studentSvc: studentSvc}
}

// MarkBulk records attendance for many students on one day. Existing marks
// for the same day are overwritten, not duplicated.
func (svc *Service) MarkBulk(bm BulkMark, marker user.User) ([]Record, error) {
	date := DateOnly(bm.Date)
	now := time.Now().UTC()

	records := make([]Record, 0, len(bm.Marks))
	for _, mark := range bm.Marks {
		if _, err := svc.studentSvc.GetByID(mark.StudentID); err != nil {
			return nil, errors.Wrapf(err, "marking student %s", mark.StudentID)
		}
		rec, err := svc.repo.UpsertRecord(Record{
			ID:         uuid.NewString(),
			StudentID:  mark.StudentID,
			Date:       date,
			Status:     mark.Status,
			MarkedByID: marker.ID,
			Remarks:    mark.Remarks,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "upserting attendance for student %s", mark.StudentID)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (svc *Service) Get(studentID string, date time.Time) (Record, error) {
	return svc.repo.GetRecord(studentID, DateOnly(date))
}

func (svc *Service) Filter(filter QueryFilter) ([]Record, int, error) {
	filter.Clean()
	if filter.DateFrom != nil {
		d := DateOnly(*filter.DateFrom)
		filter.DateFrom = &d
	}
	if filter.DateTo != nil {
		d := DateOnly(*filter.DateTo)
		filter.DateTo = &d
	}
	return svc.repo.FilterRecords(filter)
}

func (svc *Service) SummarizeDay(date time.Time) (Summary, error) {
	return svc.repo.SummarizeDay(DateOnly(date))
}
