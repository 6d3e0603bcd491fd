package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/attendance"
)

type attendanceRow struct {
	ID         string         `db:"id"`
	StudentID  string         `db:"student_id"`
	Date       time.Time      `db:"date"`
	Status     string         `db:"status"`
	MarkedByID sql.NullString `db:"marked_by_id"`
	Remarks    string         `db:"remarks"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (row attendanceRow) toCore() attendance.Record {
	return attendance.Record{
		ID:         row.ID,
		StudentID:  row.StudentID,
		Date:       row.Date,
		Status:     row.Status,
		MarkedByID: strVal(row.MarkedByID),
		Remarks:    row.Remarks,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) UpsertRecord(rec attendance.Record) (attendance.Record, error) {
	_, err := repo.db.Exec(
		`INSERT INTO attendance_record (id, student_id, date, status, marked_by_id, remarks, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (student_id, date) DO UPDATE
		 SET status = EXCLUDED.status, marked_by_id = EXCLUDED.marked_by_id,
		     remarks = EXCLUDED.remarks, updated_at = EXCLUDED.updated_at`,
		rec.ID, rec.StudentID, rec.Date, rec.Status, nullStr(rec.MarkedByID), rec.Remarks,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "upserting attendance record")
	}
	return repo.GetRecord(rec.StudentID, rec.Date)
}

func (repo *attendanceRepository) GetRecord(studentID string, date time.Time) (attendance.Record, error) {
	var row attendanceRow
	err := repo.db.Get(&row,
		`SELECT * FROM attendance_record WHERE student_id = $1 AND date = $2`, studentID, date)
	switch {
	case err == sql.ErrNoRows:
		return attendance.Record{}, attendance.ErrNotFound
	case err != nil:
		return attendance.Record{}, errors.Wrap(err, "getting attendance record")
	}
	return row.toCore(), nil
}

func (repo *attendanceRepository) FilterRecords(filter attendance.QueryFilter) ([]attendance.Record, int, error) {
	var cs condSet
	if filter.Search != "" {
		cs.add("remarks ILIKE $%d", likeTerm(filter.Search))
	}
	if filter.StudentID != "" {
		cs.add("student_id = $%d", filter.StudentID)
	}
	if filter.Status != "" {
		cs.add("status = $%d", filter.Status)
	}
	if filter.DateFrom != nil {
		cs.add("date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		cs.add("date <= $%d", *filter.DateTo)
	}

	var count int
	if err := repo.db.Get(&count, `SELECT COUNT(*) FROM attendance_record`+cs.where(), cs.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting attendance records")
	}

	ord := filter.Ordering(map[string]string{
		"date":   "date",
		"status": "status",
	}, core.DBOrdering{Field: "date"})
	var rows []attendanceRow
	query := `SELECT * FROM attendance_record` + cs.where() + pageClause(ord, filter.ListQuery)
	if err := repo.db.Select(&rows, query, cs.args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering attendance records")
	}

	records := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toCore())
	}
	return records, count, nil
}

func (repo *attendanceRepository) SummarizeDay(date time.Time) (attendance.Summary, error) {
	rows, err := repo.db.Query(
		`SELECT status, COUNT(*) FROM attendance_record WHERE date = $1 GROUP BY status`, date)
	if err != nil {
		return attendance.Summary{}, errors.Wrap(err, "summarizing attendance")
	}
	defer rows.Close()

	sum := attendance.Summary{Date: date}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return attendance.Summary{}, errors.Wrap(err, "scanning attendance count")
		}
		switch status {
		case attendance.StatusPresent:
			sum.Present = count
		case attendance.StatusAbsent:
			sum.Absent = count
		}
		sum.Total += count
	}
	return sum, rows.Err()
}
