package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core/catalog"
)

type branchRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Code      string    `db:"code"`
	Address   string    `db:"address"`
	Phone     string    `db:"phone"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row branchRow) toCore() catalog.Branch {
	return catalog.Branch(row)
}

type classRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Level     int       `db:"level"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row classRow) toCore() catalog.Class {
	return catalog.Class(row)
}

type divisionRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	ClassID   string    `db:"class_id"`
	BranchID  string    `db:"branch_id"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row divisionRow) toCore() catalog.Division {
	return catalog.Division(row)
}

type academicYearRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row academicYearRow) toCore() catalog.AcademicYear {
	return catalog.AcademicYear(row)
}

type catalogRepository struct {
	db *sqlx.DB
}

var _ catalog.Repository = (*catalogRepository)(nil)

func NewCatalogRepository(db *sqlx.DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) CreateBranch(b catalog.Branch) (catalog.Branch, error) {
	_, err := repo.db.Exec(
		`INSERT INTO branch (id, name, code, address, phone, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.Name, b.Code, b.Address, b.Phone, b.IsActive, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return catalog.Branch{}, errors.Wrap(err, "inserting branch")
	}
	return b, nil
}

func (repo *catalogRepository) GetBranchByID(id string) (catalog.Branch, error) {
	var row branchRow
	err := repo.db.Get(&row, `SELECT * FROM branch WHERE id = $1`, id)
	switch {
	case err == sql.ErrNoRows:
		return catalog.Branch{}, catalog.ErrBranchNotFound
	case err != nil:
		return catalog.Branch{}, errors.Wrap(err, "getting branch")
	}
	return row.toCore(), nil
}

func (repo *catalogRepository) QueryAllBranches() ([]catalog.Branch, error) {
	var rows []branchRow
	if err := repo.db.Select(&rows, `SELECT * FROM branch ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying branches")
	}
	branches := make([]catalog.Branch, 0, len(rows))
	for _, row := range rows {
		branches = append(branches, row.toCore())
	}
	return branches, nil
}

func (repo *catalogRepository) CreateClass(c catalog.Class) (catalog.Class, error) {
	_, err := repo.db.Exec(
		`INSERT INTO class (id, name, level, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Level, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return catalog.Class{}, errors.Wrap(err, "inserting class")
	}
	return c, nil
}

func (repo *catalogRepository) GetClassByID(id string) (catalog.Class, error) {
	var row classRow
	err := repo.db.Get(&row, `SELECT * FROM class WHERE id = $1`, id)
	switch {
	case err == sql.ErrNoRows:
		return catalog.Class{}, catalog.ErrClassNotFound
	case err != nil:
		return catalog.Class{}, errors.Wrap(err, "getting class")
	}
	return row.toCore(), nil
}

func (repo *catalogRepository) QueryAllClasses() ([]catalog.Class, error) {
	var rows []classRow
	if err := repo.db.Select(&rows, `SELECT * FROM class ORDER BY level`); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	classes := make([]catalog.Class, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, row.toCore())
	}
	return classes, nil
}

func (repo *catalogRepository) CreateDivision(d catalog.Division) (catalog.Division, error) {
	_, err := repo.db.Exec(
		`INSERT INTO division (id, name, class_id, branch_id, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.Name, d.ClassID, d.BranchID, d.IsActive, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return catalog.Division{}, errors.Wrap(err, "inserting division")
	}
	return d, nil
}

func (repo *catalogRepository) GetDivisionByID(id string) (catalog.Division, error) {
	var row divisionRow
	err := repo.db.Get(&row, `SELECT * FROM division WHERE id = $1`, id)
	switch {
	case err == sql.ErrNoRows:
		return catalog.Division{}, catalog.ErrDivisionNotFound
	case err != nil:
		return catalog.Division{}, errors.Wrap(err, "getting division")
	}
	return row.toCore(), nil
}

func (repo *catalogRepository) QueryDivisions(classID, branchID string) ([]catalog.Division, error) {
	var cs condSet
	if classID != "" {
		cs.add("class_id = $%d", classID)
	}
	if branchID != "" {
		cs.add("branch_id = $%d", branchID)
	}
	var rows []divisionRow
	if err := repo.db.Select(&rows, `SELECT * FROM division`+cs.where()+` ORDER BY name`, cs.args...); err != nil {
		return nil, errors.Wrap(err, "querying divisions")
	}
	divisions := make([]catalog.Division, 0, len(rows))
	for _, row := range rows {
		divisions = append(divisions, row.toCore())
	}
	return divisions, nil
}

func (repo *catalogRepository) CreateAcademicYear(y catalog.AcademicYear) (catalog.AcademicYear, error) {
	_, err := repo.db.Exec(
		`INSERT INTO academic_year (id, name, start_date, end_date, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		y.ID, y.Name, y.StartDate, y.EndDate, y.IsActive, y.CreatedAt, y.UpdatedAt,
	)
	if err != nil {
		return catalog.AcademicYear{}, errors.Wrap(err, "inserting academic year")
	}
	return y, nil
}

func (repo *catalogRepository) GetAcademicYearByID(id string) (catalog.AcademicYear, error) {
	var row academicYearRow
	err := repo.db.Get(&row, `SELECT * FROM academic_year WHERE id = $1`, id)
	switch {
	case err == sql.ErrNoRows:
		return catalog.AcademicYear{}, catalog.ErrYearNotFound
	case err != nil:
		return catalog.AcademicYear{}, errors.Wrap(err, "getting academic year")
	}
	return row.toCore(), nil
}

func (repo *catalogRepository) GetActiveAcademicYear() (catalog.AcademicYear, error) {
	var row academicYearRow
	err := repo.db.Get(&row, `SELECT * FROM academic_year WHERE is_active`)
	switch {
	case err == sql.ErrNoRows:
		return catalog.AcademicYear{}, catalog.ErrNoActiveYear
	case err != nil:
		return catalog.AcademicYear{}, errors.Wrap(err, "getting active academic year")
	}
	return row.toCore(), nil
}

func (repo *catalogRepository) QueryAllAcademicYears() ([]catalog.AcademicYear, error) {
	var rows []academicYearRow
	if err := repo.db.Select(&rows, `SELECT * FROM academic_year ORDER BY start_date DESC`); err != nil {
		return nil, errors.Wrap(err, "querying academic years")
	}
	years := make([]catalog.AcademicYear, 0, len(rows))
	for _, row := range rows {
		years = append(years, row.toCore())
	}
	return years, nil
}

func (repo *catalogRepository) DeactivateAcademicYears() error {
	_, err := repo.db.Exec(`UPDATE academic_year SET is_active = FALSE WHERE is_active`)
	return errors.Wrap(err, "deactivating academic years")
}
