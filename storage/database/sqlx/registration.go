package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/registration"
)

type registrationRow struct {
	ID                 string         `db:"id"`
	SubmittedAt        time.Time      `db:"submitted_at"`
	AdmissionType      string         `db:"admission_type"`
	StudentName        string         `db:"student_name"`
	Gender             string         `db:"gender"`
	DOB                time.Time      `db:"dob"`
	StudyType          string         `db:"study_type"`
	IDCardType         string         `db:"id_card_type"`
	IDCardNumber       string         `db:"id_card_number"`
	FatherName         string         `db:"father_name"`
	MotherName         string         `db:"mother_name"`
	ParentMobile       string         `db:"parent_mobile"`
	FatherWhatsapp     string         `db:"father_whatsapp"`
	Email              string         `db:"email"`
	SiblingsDetails    string         `db:"siblings_details"`
	ClassToAdmitID     sql.NullString `db:"class_to_admit_id"`
	InterestedBranchID sql.NullString `db:"interested_branch_id"`
	CompletedClasses   string         `db:"completed_classes"`
	PreviousMadrasa    string         `db:"previous_madrasa"`
	TCNumber           string         `db:"tc_number"`
	Status             string         `db:"status"`
	RejectionReason    string         `db:"rejection_reason"`
	InfoRequestMessage string         `db:"info_request_message"`
	ReviewedByID       sql.NullString `db:"reviewed_by_id"`
	ReviewedAt         sql.NullTime   `db:"reviewed_at"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

func (row registrationRow) toCore() registration.Registration {
	return registration.Registration{
		ID:                 row.ID,
		SubmittedAt:        row.SubmittedAt,
		AdmissionType:      row.AdmissionType,
		StudentName:        row.StudentName,
		Gender:             row.Gender,
		DOB:                row.DOB,
		StudyType:          row.StudyType,
		IDCardType:         row.IDCardType,
		IDCardNumber:       row.IDCardNumber,
		FatherName:         row.FatherName,
		MotherName:         row.MotherName,
		ParentMobile:       row.ParentMobile,
		FatherWhatsapp:     row.FatherWhatsapp,
		Email:              row.Email,
		SiblingsDetails:    row.SiblingsDetails,
		ClassToAdmitID:     strVal(row.ClassToAdmitID),
		InterestedBranchID: strVal(row.InterestedBranchID),
		CompletedClasses:   row.CompletedClasses,
		PreviousMadrasa:    row.PreviousMadrasa,
		TCNumber:           row.TCNumber,
		Status:             row.Status,
		RejectionReason:    row.RejectionReason,
		InfoRequestMessage: row.InfoRequestMessage,
		ReviewedByID:       strVal(row.ReviewedByID),
		ReviewedAt:         timePtr(row.ReviewedAt),
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

type registrationRepository struct {
	db *sqlx.DB
}

var _ registration.Repository = (*registrationRepository)(nil)

func NewRegistrationRepository(db *sqlx.DB) *registrationRepository {
	return &registrationRepository{db: db}
}

var registrationSortColumns = map[string]string{
	"student_name": "lower(student_name)",
	"status":       "status",
	"submitted_at": "submitted_at",
}

func (repo *registrationRepository) CreateRegistration(reg registration.Registration) (registration.Registration, error) {
	_, err := repo.db.Exec(
		`INSERT INTO registration (id, submitted_at, admission_type, student_name, gender, dob,
		 study_type, id_card_type, id_card_number, father_name, mother_name, parent_mobile,
		 father_whatsapp, email, siblings_details, class_to_admit_id, interested_branch_id,
		 completed_classes, previous_madrasa, tc_number, status, rejection_reason,
		 info_request_message, reviewed_by_id, reviewed_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
		 $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`,
		reg.ID, reg.SubmittedAt, reg.AdmissionType, reg.StudentName, reg.Gender, reg.DOB,
		reg.StudyType, reg.IDCardType, reg.IDCardNumber, reg.FatherName, reg.MotherName,
		reg.ParentMobile, reg.FatherWhatsapp, reg.Email, reg.SiblingsDetails,
		nullStr(reg.ClassToAdmitID), nullStr(reg.InterestedBranchID), reg.CompletedClasses,
		reg.PreviousMadrasa, reg.TCNumber, reg.Status, reg.RejectionReason,
		reg.InfoRequestMessage, nullStr(reg.ReviewedByID), nullTime(reg.ReviewedAt),
		reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		return registration.Registration{}, errors.Wrap(err, "inserting registration")
	}
	return reg, nil
}

func (repo *registrationRepository) GetRegistrationByID(id string) (registration.Registration, error) {
	var row registrationRow
	err := repo.db.Get(&row, `SELECT * FROM registration WHERE id = $1`, id)
	switch {
	case err == sql.ErrNoRows:
		return registration.Registration{}, registration.ErrNotFound
	case err != nil:
		return registration.Registration{}, errors.Wrap(err, "getting registration")
	}
	return row.toCore(), nil
}

func (repo *registrationRepository) FilterRegistrations(filter registration.QueryFilter) ([]registration.Registration, int, error) {
	var cs condSet
	if filter.Search != "" {
		cs.add("(student_name ILIKE $%[1]d OR parent_mobile ILIKE $%[1]d OR email ILIKE $%[1]d)", likeTerm(filter.Search))
	}
	if filter.Status != "" {
		cs.add("status = $%d", filter.Status)
	}
	if filter.BranchID != "" {
		cs.add("interested_branch_id = $%d", filter.BranchID)
	}

	var count int
	if err := repo.db.Get(&count, `SELECT COUNT(*) FROM registration`+cs.where(), cs.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting registrations")
	}

	ord := filter.Ordering(registrationSortColumns, core.DBOrdering{Field: "submitted_at"})
	var rows []registrationRow
	query := `SELECT * FROM registration` + cs.where() + pageClause(ord, filter.ListQuery)
	if err := repo.db.Select(&rows, query, cs.args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering registrations")
	}

	regs := make([]registration.Registration, 0, len(rows))
	for _, row := range rows {
		regs = append(regs, row.toCore())
	}
	return regs, count, nil
}

func (repo *registrationRepository) UpdateRegistration(reg registration.Registration) (registration.Registration, error) {
	res, err := repo.db.Exec(
		`UPDATE registration SET status = $2, rejection_reason = $3, info_request_message = $4,
		 reviewed_by_id = $5, reviewed_at = $6, updated_at = $7
		 WHERE id = $1`,
		reg.ID, reg.Status, reg.RejectionReason, reg.InfoRequestMessage,
		nullStr(reg.ReviewedByID), nullTime(reg.ReviewedAt), reg.UpdatedAt,
	)
	if err != nil {
		return registration.Registration{}, errors.Wrap(err, "updating registration")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return registration.Registration{}, registration.ErrNotFound
	}
	return reg, nil
}

func (repo *registrationRepository) CountByStatus() (map[string]int, error) {
	rows, err := repo.db.Query(`SELECT status, COUNT(*) FROM registration GROUP BY status`)
	if err != nil {
		return nil, errors.Wrap(err, "counting registrations by status")
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
