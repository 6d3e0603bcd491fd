package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/staff"
)

type staffRow struct {
	ID          string         `db:"id"`
	UserID      sql.NullString `db:"user_id"`
	Name        string         `db:"name"`
	Designation string         `db:"designation"`
	BranchID    sql.NullString `db:"branch_id"`
	Phone       string         `db:"phone"`
	Email       string         `db:"email"`
	Status      string         `db:"status"`
	JoinedAt    time.Time      `db:"joined_at"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (row staffRow) toCore() staff.Staff {
	return staff.Staff{
		ID:          row.ID,
		UserID:      strVal(row.UserID),
		Name:        row.Name,
		Designation: row.Designation,
		BranchID:    strVal(row.BranchID),
		Phone:       row.Phone,
		Email:       row.Email,
		Status:      row.Status,
		JoinedAt:    row.JoinedAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

type leaveRequestRow struct {
	ID           string         `db:"id"`
	StaffID      string         `db:"staff_id"`
	FromDate     time.Time      `db:"from_date"`
	ToDate       time.Time      `db:"to_date"`
	Reason       string         `db:"reason"`
	Status       string         `db:"status"`
	ReviewedByID sql.NullString `db:"reviewed_by_id"`
	ReviewedAt   sql.NullTime   `db:"reviewed_at"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (row leaveRequestRow) toCore() staff.LeaveRequest {
	return staff.LeaveRequest{
		ID:           row.ID,
		StaffID:      row.StaffID,
		FromDate:     row.FromDate,
		ToDate:       row.ToDate,
		Reason:       row.Reason,
		Status:       row.Status,
		ReviewedByID: strVal(row.ReviewedByID),
		ReviewedAt:   timePtr(row.ReviewedAt),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

type staffRepository struct {
	db *sqlx.DB
}

var _ staff.Repository = (*staffRepository)(nil)

func NewStaffRepository(db *sqlx.DB) *staffRepository {
	return &staffRepository{db: db}
}

var staffSortColumns = map[string]string{
	"name":        "lower(name)",
	"designation": "designation",
	"joined_at":   "joined_at",
	"created_at":  "created_at",
}

func (repo *staffRepository) CreateStaff(st staff.Staff) (staff.Staff, error) {
	_, err := repo.db.Exec(
		`INSERT INTO staff (id, user_id, name, designation, branch_id, phone, email, status, joined_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		st.ID, nullStr(st.UserID), st.Name, st.Designation, nullStr(st.BranchID),
		st.Phone, st.Email, st.Status, st.JoinedAt, st.CreatedAt, st.UpdatedAt,
	)
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "inserting staff member")
	}
	return st, nil
}

func (repo *staffRepository) GetStaffByID(id string) (staff.Staff, error) {
	var row staffRow
	err := repo.db.Get(&row, `SELECT * FROM staff WHERE id = $1`, id)
	switch {
	case err == sql.ErrNoRows:
		return staff.Staff{}, staff.ErrNotFound
	case err != nil:
		return staff.Staff{}, errors.Wrap(err, "getting staff member")
	}
	return row.toCore(), nil
}

func (repo *staffRepository) FilterStaff(filter staff.QueryFilter) ([]staff.Staff, int, error) {
	var cs condSet
	if filter.Search != "" {
		cs.add("(name ILIKE $%[1]d OR phone ILIKE $%[1]d OR email ILIKE $%[1]d)", likeTerm(filter.Search))
	}
	if filter.Status != "" {
		cs.add("status = $%d", filter.Status)
	}
	if filter.Designation != "" {
		cs.add("designation = $%d", filter.Designation)
	}
	if filter.BranchID != "" {
		cs.add("branch_id = $%d", filter.BranchID)
	}

	var count int
	if err := repo.db.Get(&count, `SELECT COUNT(*) FROM staff`+cs.where(), cs.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting staff")
	}

	ord := filter.Ordering(staffSortColumns, core.DBOrdering{Field: "created_at"})
	var rows []staffRow
	query := `SELECT * FROM staff` + cs.where() + pageClause(ord, filter.ListQuery)
	if err := repo.db.Select(&rows, query, cs.args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering staff")
	}

	members := make([]staff.Staff, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toCore())
	}
	return members, count, nil
}

func (repo *staffRepository) UpdateStaff(st staff.Staff) (staff.Staff, error) {
	res, err := repo.db.Exec(
		`UPDATE staff SET name = $2, designation = $3, branch_id = $4, phone = $5, email = $6,
		 status = $7, updated_at = $8 WHERE id = $1`,
		st.ID, st.Name, st.Designation, nullStr(st.BranchID), st.Phone, st.Email, st.Status, st.UpdatedAt,
	)
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "updating staff member")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return staff.Staff{}, staff.ErrNotFound
	}
	return st, nil
}

func (repo *staffRepository) DeleteStaffByID(id string) error {
	_, err := repo.db.Exec(`DELETE FROM staff WHERE id = $1`, id)
	return errors.Wrap(err, "deleting staff member")
}

func (repo *staffRepository) CountActiveByDesignation() (map[string]int, error) {
	rows, err := repo.db.Query(
		`SELECT designation, COUNT(*) FROM staff WHERE status = $1 GROUP BY designation`,
		staff.StatusActive,
	)
	if err != nil {
		return nil, errors.Wrap(err, "counting staff by designation")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var designation string
		var count int
		if err := rows.Scan(&designation, &count); err != nil {
			return nil, errors.Wrap(err, "scanning designation count")
		}
		counts[designation] = count
	}
	return counts, rows.Err()
}

func (repo *staffRepository) CreateLeaveRequest(lr staff.LeaveRequest) (staff.LeaveRequest, error) {
	_, err := repo.db.Exec(
		`INSERT INTO leave_request (id, staff_id, from_date, to_date, reason, status, reviewed_by_id, reviewed_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		lr.ID, lr.StaffID, lr.FromDate, lr.ToDate, lr.Reason, lr.Status,
		nullStr(lr.ReviewedByID), nullTime(lr.ReviewedAt), lr.CreatedAt, lr.UpdatedAt,
	)
	if err != nil {
		return staff.LeaveRequest{}, errors.Wrap(err, "inserting leave request")
	}
	return lr, nil
}

func (repo *staffRepository) GetLeaveRequestByID(id string) (staff.LeaveRequest, error) {
	var row leaveRequestRow
	err := repo.db.Get(&row, `SELECT * FROM leave_request WHERE id = $1`, id)
	switch {
	case err == sql.ErrNoRows:
		return staff.LeaveRequest{}, staff.ErrLeaveNotFound
	case err != nil:
		return staff.LeaveRequest{}, errors.Wrap(err, "getting leave request")
	}
	return row.toCore(), nil
}

func (repo *staffRepository) FilterLeaveRequests(filter staff.LeaveQueryFilter) ([]staff.LeaveRequest, int, error) {
	var cs condSet
	if filter.Search != "" {
		cs.add("reason ILIKE $%d", likeTerm(filter.Search))
	}
	if filter.StaffID != "" {
		cs.add("staff_id = $%d", filter.StaffID)
	}
	if filter.Status != "" {
		cs.add("status = $%d", filter.Status)
	}

	var count int
	if err := repo.db.Get(&count, `SELECT COUNT(*) FROM leave_request`+cs.where(), cs.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting leave requests")
	}

	ord := filter.Ordering(map[string]string{
		"from_date": "from_date",
		"status":    "status",
	}, core.DBOrdering{Field: "created_at"})
	var rows []leaveRequestRow
	query := `SELECT * FROM leave_request` + cs.where() + pageClause(ord, filter.ListQuery)
	if err := repo.db.Select(&rows, query, cs.args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering leave requests")
	}

	requests := make([]staff.LeaveRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, row.toCore())
	}
	return requests, count, nil
}

func (repo *staffRepository) UpdateLeaveRequest(lr staff.LeaveRequest) (staff.LeaveRequest, error) {
	res, err := repo.db.Exec(
		`UPDATE leave_request SET status = $2, reviewed_by_id = $3, reviewed_at = $4, updated_at = $5 WHERE id = $1`,
		lr.ID, lr.Status, nullStr(lr.ReviewedByID), nullTime(lr.ReviewedAt), lr.UpdatedAt,
	)
	if err != nil {
		return staff.LeaveRequest{}, errors.Wrap(err, "updating leave request")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return staff.LeaveRequest{}, staff.ErrLeaveNotFound
	}
	return lr, nil
}
