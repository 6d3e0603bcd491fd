package inmemdb

import (
	"sort"
	"time"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/attendance"
)

type attendanceRepository struct {
	db *DB
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func attendanceKey(studentID string, date time.Time) string {
	return studentID + "|" + date.Format("2006-01-02")
}

func (repo *attendanceRepository) UpsertRecord(rec attendance.Record) (attendance.Record, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	key := attendanceKey(rec.StudentID, rec.Date)
	if existing, ok := repo.db.attendance[key]; ok {
		existing.Status = rec.Status
		existing.Remarks = rec.Remarks
		existing.MarkedByID = rec.MarkedByID
		existing.UpdatedAt = rec.UpdatedAt
		return *existing, nil
	}
	repo.db.attendance[key] = &rec
	return rec, nil
}

func (repo *attendanceRepository) GetRecord(studentID string, date time.Time) (attendance.Record, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if rec, ok := repo.db.attendance[attendanceKey(studentID, date)]; ok {
		return *rec, nil
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) FilterRecords(filter attendance.QueryFilter) ([]attendance.Record, int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	matches := make([]attendance.Record, 0)
	for _, rec := range repo.db.attendance {
		if !filter.MatchesSearch(rec.Remarks) {
			continue
		}
		if filter.StudentID != "" && rec.StudentID != filter.StudentID {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.DateFrom != nil && rec.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && rec.Date.After(*filter.DateTo) {
			continue
		}
		matches = append(matches, *rec)
	}

	asc := filter.SortOrder != core.SortDesc
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		var less bool
		switch filter.SortBy {
		case "date":
			less = a.Date.Before(b.Date)
		case "status":
			less = a.Status < b.Status
		default:
			return a.Date.After(b.Date) // most recent first
		}
		if asc {
			return less
		}
		return !less
	})

	count := len(matches)
	lo, hi := core.PageBounds(count, filter.Page, filter.PageSize)
	return matches[lo:hi], count, nil
}

func (repo *attendanceRepository) SummarizeDay(date time.Time) (attendance.Summary, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	sum := attendance.Summary{Date: date}
	for _, rec := range repo.db.attendance {
		if !rec.Date.Equal(date) {
			continue
		}
		switch rec.Status {
		case attendance.StatusPresent:
			sum.Present++
		case attendance.StatusAbsent:
			sum.Absent++
		}
		sum.Total++
	}
	return sum, nil
}
