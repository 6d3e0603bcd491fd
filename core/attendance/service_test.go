package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kicentre/madrasa/core/attendance"
	"github.com/kicentre/madrasa/core/catalog"
	"github.com/kicentre/madrasa/core/student"
	"github.com/kicentre/madrasa/core/user"
	inmemdb "github.com/kicentre/madrasa/storage/database/inmem"
)

type fixture struct {
	svc    *attendance.Service
	first  student.Student
	second student.Student
	marker user.User
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := inmemdb.NewDB()
	catalogSvc := catalog.NewService(inmemdb.NewCatalogRepository(db))

	branch, err := catalogSvc.CreateBranch(catalog.NewBranch{Name: "Wakra", Code: "WAKR"})
	require.NoError(t, err)
	class, err := catalogSvc.CreateClass(catalog.NewClass{Name: "Class 1", Level: 1})
	require.NoError(t, err)
	_, err = catalogSvc.CreateAcademicYear(catalog.NewAcademicYear{
		Name:      "2025-2026",
		StartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	})
	require.NoError(t, err)

	studentSvc := student.NewService(inmemdb.NewStudentRepository(db), catalogSvc)
	mk := func(name string) student.Student {
		st, err := studentSvc.Create(student.NewStudent{
			Name:         name,
			Gender:       "Male",
			DOB:          time.Date(2015, 3, 10, 0, 0, 0, 0, time.UTC),
			Category:     student.CategoryPermanent,
			BranchID:     branch.ID,
			ClassID:      class.ID,
			FatherName:   "Hassan",
			ParentMobile: "55501234",
		})
		require.NoError(t, err)
		return st
	}

	return fixture{
		svc:    attendance.NewService(inmemdb.NewAttendanceRepository(db), studentSvc),
		first:  mk("Ali"),
		second: mk("Omar"),
		marker: user.User{ID: "teacher-1", Name: "Teacher"},
	}
}

func TestMarkBulk(t *testing.T) {
	f := setup(t)
	day := time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)

	records, err := f.svc.MarkBulk(attendance.BulkMark{
		Date: day,
		Marks: []attendance.Mark{
			{StudentID: f.first.ID, Status: attendance.StatusPresent},
			{StudentID: f.second.ID, Status: attendance.StatusAbsent, Remarks: "sick"},
		},
	}, f.marker)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// the time of day is stripped
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, f.marker.ID, records[0].MarkedByID)
}

func TestRemarkingSameDayOverwrites(t *testing.T) {
	f := setup(t)
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.MarkBulk(attendance.BulkMark{
		Date:  day,
		Marks: []attendance.Mark{{StudentID: f.first.ID, Status: attendance.StatusPresent}},
	}, f.marker)
	require.NoError(t, err)

	// the afternoon correction replaces the morning mark
	_, err = f.svc.MarkBulk(attendance.BulkMark{
		Date:  day.Add(14 * time.Hour),
		Marks: []attendance.Mark{{StudentID: f.first.ID, Status: attendance.StatusAbsent, Remarks: "left early"}},
	}, f.marker)
	require.NoError(t, err)

	rec, err := f.svc.Get(f.first.ID, day)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, rec.Status)
	assert.Equal(t, "left early", rec.Remarks)

	var filter attendance.QueryFilter
	filter.StudentID = f.first.ID
	records, count, err := f.svc.Filter(filter)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, records, 1)
}

func TestMarkBulkRejectsUnknownStudent(t *testing.T) {
	f := setup(t)

	_, err := f.svc.MarkBulk(attendance.BulkMark{
		Date:  time.Now(),
		Marks: []attendance.Mark{{StudentID: "nope", Status: attendance.StatusPresent}},
	}, f.marker)
	assert.Error(t, err)
}

func TestSummarizeDay(t *testing.T) {
	f := setup(t)
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.MarkBulk(attendance.BulkMark{
		Date: day,
		Marks: []attendance.Mark{
			{StudentID: f.first.ID, Status: attendance.StatusPresent},
			{StudentID: f.second.ID, Status: attendance.StatusAbsent},
		},
	}, f.marker)
	require.NoError(t, err)

	summary, err := f.svc.SummarizeDay(day.Add(9 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Present)
	assert.Equal(t, 1, summary.Absent)
	assert.Equal(t, 2, summary.Total)
}
