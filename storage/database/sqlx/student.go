package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/student"
)

type studentRow struct {
	ID              string         `db:"id"`
	AdmissionNumber string         `db:"admission_number"`
	Name            string         `db:"name"`
	Gender          string         `db:"gender"`
	DOB             time.Time      `db:"dob"`
	Category        string         `db:"category"`
	Status          string         `db:"status"`
	BranchID        sql.NullString `db:"branch_id"`
	RegistrationID  sql.NullString `db:"registration_id"`
	IDCardType      string         `db:"id_card_type"`
	IDCardNumber    string         `db:"id_card_number"`
	FatherName      string         `db:"father_name"`
	MotherName      string         `db:"mother_name"`
	ParentMobile    string         `db:"parent_mobile"`
	Email           string         `db:"email"`
	HasSiblings     bool           `db:"has_siblings"`
	Notes           string         `db:"notes"`
	ActivatedAt     sql.NullTime   `db:"activated_at"`
	ActivatedByID   sql.NullString `db:"activated_by_id"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (row studentRow) toCore() student.Student {
	return student.Student{
		ID:              row.ID,
		AdmissionNumber: row.AdmissionNumber,
		Name:            row.Name,
		Gender:          row.Gender,
		DOB:             row.DOB,
		Category:        row.Category,
		Status:          row.Status,
		BranchID:        strVal(row.BranchID),
		RegistrationID:  strVal(row.RegistrationID),
		IDCardType:      row.IDCardType,
		IDCardNumber:    row.IDCardNumber,
		FatherName:      row.FatherName,
		MotherName:      row.MotherName,
		ParentMobile:    row.ParentMobile,
		Email:           row.Email,
		HasSiblings:     row.HasSiblings,
		Notes:           row.Notes,
		ActivatedAt:     timePtr(row.ActivatedAt),
		ActivatedByID:   strVal(row.ActivatedByID),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

type enrollmentRow struct {
	ID             string         `db:"id"`
	StudentID      string         `db:"student_id"`
	AcademicYearID string         `db:"academic_year_id"`
	ClassID        string         `db:"class_id"`
	DivisionID     sql.NullString `db:"division_id"`
	Status         string         `db:"status"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (row enrollmentRow) toCore() student.Enrollment {
	return student.Enrollment{
		ID:             row.ID,
		StudentID:      row.StudentID,
		AcademicYearID: row.AcademicYearID,
		ClassID:        row.ClassID,
		DivisionID:     strVal(row.DivisionID),
		Status:         row.Status,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

var studentSortColumns = map[string]string{
	"name":             "lower(s.name)",
	"admission_number": "s.admission_number",
	"status":           "s.status",
	"created_at":       "s.created_at",
}

func (repo *studentRepository) CreateStudent(st student.Student) (student.Student, error) {
	_, err := repo.db.Exec(
		`INSERT INTO student (id, admission_number, name, gender, dob, category, status, branch_id,
		 registration_id, id_card_type, id_card_number, father_name, mother_name, parent_mobile,
		 email, has_siblings, notes, activated_at, activated_by_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		st.ID, st.AdmissionNumber, st.Name, st.Gender, st.DOB, st.Category, st.Status,
		nullStr(st.BranchID), nullStr(st.RegistrationID), st.IDCardType, st.IDCardNumber,
		st.FatherName, st.MotherName, st.ParentMobile, st.Email, st.HasSiblings, st.Notes,
		nullTime(st.ActivatedAt), nullStr(st.ActivatedByID), st.CreatedAt, st.UpdatedAt,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return st, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	var row studentRow
	err := repo.db.Get(&row, `SELECT * FROM student WHERE id = $1`, id)
	switch {
	case err == sql.ErrNoRows:
		return student.Student{}, student.ErrNotFound
	case err != nil:
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return row.toCore(), nil
}

func (repo *studentRepository) FilterStudents(filter student.QueryFilter) ([]student.Student, int, error) {
	// class/division filters apply to the active-year enrollment
	from := ` FROM student s
		LEFT JOIN enrollment e ON e.student_id = s.id
			AND e.academic_year_id = (SELECT id FROM academic_year WHERE is_active)`

	var cs condSet
	if filter.Search != "" {
		cs.add("(s.name ILIKE $%[1]d OR s.admission_number ILIKE $%[1]d OR s.parent_mobile ILIKE $%[1]d)", likeTerm(filter.Search))
	}
	if filter.Status != "" {
		cs.add("s.status = $%d", filter.Status)
	}
	if filter.Category != "" {
		cs.add("s.category = $%d", filter.Category)
	}
	if filter.BranchID != "" {
		cs.add("s.branch_id = $%d", filter.BranchID)
	}
	if filter.ClassID != "" {
		cs.add("e.class_id = $%d", filter.ClassID)
	}
	if filter.DivisionID != "" {
		cs.add("e.division_id = $%d", filter.DivisionID)
	}

	var count int
	if err := repo.db.Get(&count, `SELECT COUNT(*)`+from+cs.where(), cs.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting students")
	}

	ord := filter.Ordering(studentSortColumns, core.DBOrdering{Field: "s.created_at"})
	var rows []studentRow
	query := `SELECT s.*` + from + cs.where() + pageClause(ord, filter.ListQuery)
	if err := repo.db.Select(&rows, query, cs.args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering students")
	}

	students := make([]student.Student, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toCore())
		ids = append(ids, row.ID)
	}
	if err := repo.attachActiveEnrollments(students, ids); err != nil {
		return nil, 0, err
	}
	return students, count, nil
}

// attachActiveEnrollments loads the active-year enrollment for each listed
// student in one query.
func (repo *studentRepository) attachActiveEnrollments(students []student.Student, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	var rows []enrollmentRow
	err := repo.db.Select(&rows,
		`SELECT * FROM enrollment
		 WHERE student_id = ANY($1)
		   AND academic_year_id = (SELECT id FROM academic_year WHERE is_active)`,
		pq.Array(ids),
	)
	if err != nil {
		return errors.Wrap(err, "loading active enrollments")
	}

	byStudent := make(map[string]student.Enrollment, len(rows))
	for _, row := range rows {
		byStudent[row.StudentID] = row.toCore()
	}
	for i := range students {
		if e, ok := byStudent[students[i].ID]; ok {
			enr := e
			students[i].CurrentEnrollment = &enr
		}
	}
	return nil
}

func (repo *studentRepository) UpdateStudent(st student.Student) (student.Student, error) {
	res, err := repo.db.Exec(
		`UPDATE student SET name = $2, gender = $3, dob = $4, category = $5, status = $6,
		 branch_id = $7, id_card_type = $8, id_card_number = $9, father_name = $10,
		 mother_name = $11, parent_mobile = $12, email = $13, has_siblings = $14, notes = $15,
		 activated_at = $16, activated_by_id = $17, updated_at = $18
		 WHERE id = $1`,
		st.ID, st.Name, st.Gender, st.DOB, st.Category, st.Status, nullStr(st.BranchID),
		st.IDCardType, st.IDCardNumber, st.FatherName, st.MotherName, st.ParentMobile,
		st.Email, st.HasSiblings, st.Notes, nullTime(st.ActivatedAt), nullStr(st.ActivatedByID),
		st.UpdatedAt,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return st, nil
}

func (repo *studentRepository) DeleteStudentByID(id string) error {
	_, err := repo.db.Exec(`DELETE FROM student WHERE id = $1`, id)
	return errors.Wrap(err, "deleting student")
}

func (repo *studentRepository) CountAdmissions(prefix string) (int, error) {
	var count int
	err := repo.db.Get(&count, `SELECT COUNT(*) FROM student WHERE admission_number LIKE $1`, prefix+"%")
	return count, errors.Wrap(err, "counting admissions")
}

func (repo *studentRepository) CreateEnrollment(e student.Enrollment) (student.Enrollment, error) {
	_, err := repo.db.Exec(
		`INSERT INTO enrollment (id, student_id, academic_year_id, class_id, division_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.StudentID, e.AcademicYearID, e.ClassID, nullStr(e.DivisionID), e.Status, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return student.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return e, nil
}

func (repo *studentRepository) GetActiveEnrollment(studentID, academicYearID string) (student.Enrollment, error) {
	var row enrollmentRow
	err := repo.db.Get(&row,
		`SELECT * FROM enrollment WHERE student_id = $1 AND academic_year_id = $2`,
		studentID, academicYearID,
	)
	switch {
	case err == sql.ErrNoRows:
		return student.Enrollment{}, student.ErrEnrollmentNotFound
	case err != nil:
		return student.Enrollment{}, errors.Wrap(err, "getting enrollment")
	}
	return row.toCore(), nil
}

func (repo *studentRepository) QueryEnrollments(studentID string) ([]student.Enrollment, error) {
	var rows []enrollmentRow
	err := repo.db.Select(&rows,
		`SELECT * FROM enrollment WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	enrollments := make([]student.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, row.toCore())
	}
	return enrollments, nil
}

func (repo *studentRepository) UpdateEnrollment(e student.Enrollment) (student.Enrollment, error) {
	res, err := repo.db.Exec(
		`UPDATE enrollment SET class_id = $2, division_id = $3, status = $4, updated_at = $5 WHERE id = $1`,
		e.ID, e.ClassID, nullStr(e.DivisionID), e.Status, e.UpdatedAt,
	)
	if err != nil {
		return student.Enrollment{}, errors.Wrap(err, "updating enrollment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.Enrollment{}, student.ErrEnrollmentNotFound
	}
	return e, nil
}

func (repo *studentRepository) CountByStatus() (map[string]int, error) {
	rows, err := repo.db.Query(`SELECT status, COUNT(*) FROM student GROUP BY status`)
	if err != nil {
		return nil, errors.Wrap(err, "counting students by status")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, errors.Wrap(err, "scanning status count")
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (repo *studentRepository) CountActiveByBranch() (map[string]int, error) {
	rows, err := repo.db.Query(
		`SELECT b.name, COUNT(*) FROM student s
		 JOIN branch b ON b.id = s.branch_id
		 WHERE s.status = $1 GROUP BY b.name`,
		student.StatusActive,
	)
	if err != nil {
		return nil, errors.Wrap(err, "counting active students by branch")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, errors.Wrap(err, "scanning branch count")
		}
		counts[name] = count
	}
	return counts, rows.Err()
}
