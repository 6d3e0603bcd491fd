package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/fee"
)

type feeStructureRow struct {
	ID             string    `db:"id"`
	AcademicYearID string    `db:"academic_year_id"`
	ClassID        string    `db:"class_id"`
	Name           string    `db:"name"`
	Amount         int64     `db:"amount"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (row feeStructureRow) toCore() fee.Structure {
	return fee.Structure(row)
}

type feeCollectionRow struct {
	ID              string         `db:"id"`
	ReceiptNumber   string         `db:"receipt_number"`
	StudentID       string         `db:"student_id"`
	AcademicYearID  string         `db:"academic_year_id"`
	CollectionDate  time.Time      `db:"collection_date"`
	CollectedByID   sql.NullString `db:"collected_by_id"`
	PaymentMethod   string         `db:"payment_method"`
	Amount          int64          `db:"amount"`
	ReferenceNumber string         `db:"reference_number"`
	Remarks         string         `db:"remarks"`
	Status          string         `db:"status"`
	ApprovedByID    sql.NullString `db:"approved_by_id"`
	ApprovedAt      sql.NullTime   `db:"approved_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (row feeCollectionRow) toCore() fee.Collection {
	return fee.Collection{
		ID:              row.ID,
		ReceiptNumber:   row.ReceiptNumber,
		StudentID:       row.StudentID,
		AcademicYearID:  row.AcademicYearID,
		CollectionDate:  row.CollectionDate,
		CollectedByID:   strVal(row.CollectedByID),
		PaymentMethod:   row.PaymentMethod,
		Amount:          row.Amount,
		ReferenceNumber: row.ReferenceNumber,
		Remarks:         row.Remarks,
		Status:          row.Status,
		ApprovedByID:    strVal(row.ApprovedByID),
		ApprovedAt:      timePtr(row.ApprovedAt),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

type feeRepository struct {
	db *sqlx.DB
}

var _ fee.Repository = (*feeRepository)(nil)

func NewFeeRepository(db *sqlx.DB) *feeRepository {
	return &feeRepository{db: db}
}

var feeSortColumns = map[string]string{
	"receipt_number":  "receipt_number",
	"amount":          "amount",
	"collection_date": "collection_date",
	"status":          "status",
}

func (repo *feeRepository) CreateStructure(s fee.Structure) (fee.Structure, error) {
	_, err := repo.db.Exec(
		`INSERT INTO fee_structure (id, academic_year_id, class_id, name, amount, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.AcademicYearID, s.ClassID, s.Name, s.Amount, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fee.Structure{}, errors.Wrap(err, "inserting fee structure")
	}
	return s, nil
}

func (repo *feeRepository) QueryStructures(academicYearID, classID string) ([]fee.Structure, error) {
	var cs condSet
	if academicYearID != "" {
		cs.add("academic_year_id = $%d", academicYearID)
	}
	if classID != "" {
		cs.add("class_id = $%d", classID)
	}
	var rows []feeStructureRow
	if err := repo.db.Select(&rows, `SELECT * FROM fee_structure`+cs.where()+` ORDER BY name`, cs.args...); err != nil {
		return nil, errors.Wrap(err, "querying fee structures")
	}
	structures := make([]fee.Structure, 0, len(rows))
	for _, row := range rows {
		structures = append(structures, row.toCore())
	}
	return structures, nil
}

func (repo *feeRepository) CreateCollection(c fee.Collection) (fee.Collection, error) {
	_, err := repo.db.Exec(
		`INSERT INTO fee_collection (id, receipt_number, student_id, academic_year_id, collection_date,
		 collected_by_id, payment_method, amount, reference_number, remarks, status, approved_by_id,
		 approved_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		c.ID, c.ReceiptNumber, c.StudentID, c.AcademicYearID, c.CollectionDate,
		nullStr(c.CollectedByID), c.PaymentMethod, c.Amount, c.ReferenceNumber, c.Remarks,
		c.Status, nullStr(c.ApprovedByID), nullTime(c.ApprovedAt), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fee.Collection{}, errors.Wrap(err, "inserting fee collection")
	}
	return c, nil
}

func (repo *feeRepository) GetCollectionByID(id string) (fee.Collection, error) {
	var row feeCollectionRow
	err := repo.db.Get(&row, `SELECT * FROM fee_collection WHERE id = $1`, id)
	switch {
	case err == sql.ErrNoRows:
		return fee.Collection{}, fee.ErrCollectionNotFound
	case err != nil:
		return fee.Collection{}, errors.Wrap(err, "getting fee collection")
	}
	return row.toCore(), nil
}

func (repo *feeRepository) FilterCollections(filter fee.QueryFilter) ([]fee.Collection, int, error) {
	var cs condSet
	if filter.Search != "" {
		cs.add("(receipt_number ILIKE $%[1]d OR reference_number ILIKE $%[1]d)", likeTerm(filter.Search))
	}
	if filter.StudentID != "" {
		cs.add("student_id = $%d", filter.StudentID)
	}
	if filter.AcademicYearID != "" {
		cs.add("academic_year_id = $%d", filter.AcademicYearID)
	}
	if filter.Status != "" {
		cs.add("status = $%d", filter.Status)
	}
	if filter.Method != "" {
		cs.add("payment_method = $%d", filter.Method)
	}
	if filter.DateFrom != nil {
		cs.add("collection_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		cs.add("collection_date <= $%d", *filter.DateTo)
	}

	var count int
	if err := repo.db.Get(&count, `SELECT COUNT(*) FROM fee_collection`+cs.where(), cs.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting fee collections")
	}

	ord := filter.Ordering(feeSortColumns, core.DBOrdering{Field: "created_at"})
	var rows []feeCollectionRow
	query := `SELECT * FROM fee_collection` + cs.where() + pageClause(ord, filter.ListQuery)
	if err := repo.db.Select(&rows, query, cs.args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering fee collections")
	}

	collections := make([]fee.Collection, 0, len(rows))
	for _, row := range rows {
		collections = append(collections, row.toCore())
	}
	return collections, count, nil
}

func (repo *feeRepository) UpdateCollection(c fee.Collection) (fee.Collection, error) {
	res, err := repo.db.Exec(
		`UPDATE fee_collection SET status = $2, approved_by_id = $3, approved_at = $4, updated_at = $5 WHERE id = $1`,
		c.ID, c.Status, nullStr(c.ApprovedByID), nullTime(c.ApprovedAt), c.UpdatedAt,
	)
	if err != nil {
		return fee.Collection{}, errors.Wrap(err, "updating fee collection")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fee.Collection{}, fee.ErrCollectionNotFound
	}
	return c, nil
}

func (repo *feeRepository) CountReceipts(prefix string) (int, error) {
	var count int
	err := repo.db.Get(&count, `SELECT COUNT(*) FROM fee_collection WHERE receipt_number LIKE $1`, prefix+"%")
	return count, errors.Wrap(err, "counting receipts")
}

func (repo *feeRepository) SumApproved(studentID, academicYearID string) (int64, error) {
	cs := condSet{}
	cs.add("status = $%d", fee.StatusApproved)
	cs.add("student_id = $%d", studentID)
	if academicYearID != "" {
		cs.add("academic_year_id = $%d", academicYearID)
	}
	var total int64
	err := repo.db.Get(&total, `SELECT COALESCE(SUM(amount), 0) FROM fee_collection`+cs.where(), cs.args...)
	return total, errors.Wrap(err, "summing approved collections")
}

func (repo *feeRepository) SumApprovedSince(t time.Time) (int64, error) {
	var total int64
	err := repo.db.Get(&total,
		`SELECT COALESCE(SUM(amount), 0) FROM fee_collection WHERE status = $1 AND collection_date >= $2`,
		fee.StatusApproved, t,
	)
	return total, errors.Wrap(err, "summing approved collections")
}
