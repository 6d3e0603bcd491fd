package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/user"
)

type userRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	BranchID     sql.NullString `db:"branch_id"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    sql.NullTime   `db:"last_login"`
}

func (row userRow) toCore() user.User {
	usr := user.User{
		ID:           row.ID,
		Name:         row.Name,
		Username:     row.Username,
		Email:        row.Email,
		BranchID:     strVal(row.BranchID),
		IsActive:     row.IsActive,
		Roles:        row.Roles,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.LastLogin.Valid {
		usr.LastLogin = row.LastLogin.Time
	}
	return usr
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

var userSortColumns = map[string]string{
	"name":       "lower(name)",
	"username":   "username",
	"email":      "email",
	"created_at": "created_at",
}

func (repo *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	excluded := make([]string, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		excluded = append(excluded, usr.ID)
	}

	var taken string
	err := repo.db.QueryRow(
		`SELECT username FROM "user" WHERE (username = $1 OR email = $2) AND NOT (id = ANY($3)) LIMIT 1`,
		username, email, pq.Array(excluded),
	).Scan(&taken)
	switch {
	case err == sql.ErrNoRows:
		return nil
	case err != nil:
		return errors.Wrap(err, "checking username uniqueness")
	}
	if taken == username {
		return user.ErrUsernameExists
	}
	return user.ErrEmailExists
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	_, err := repo.db.Exec(
		`INSERT INTO "user" (id, name, username, email, branch_id, is_active, roles, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		usr.ID, usr.Name, usr.Username, usr.Email, nullStr(usr.BranchID), usr.IsActive,
		pq.Array(usr.Roles), usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	var row userRow
	err := repo.db.Get(&row, `SELECT * FROM "user" WHERE id = $1`, id)
	switch {
	case err == sql.ErrNoRows:
		return user.User{}, user.ErrNotFound
	case err != nil:
		return user.User{}, errors.Wrap(err, "getting user by id")
	}
	return row.toCore(), nil
}

func (repo *userRepository) GetUserByUsernameOrEmail(username string) (user.User, error) {
	var row userRow
	err := repo.db.Get(&row, `SELECT * FROM "user" WHERE username = $1 OR email = $1`, username)
	switch {
	case err == sql.ErrNoRows:
		return user.User{}, user.ErrNotFound
	case err != nil:
		return user.User{}, errors.Wrap(err, "getting user by username")
	}
	return row.toCore(), nil
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, int, error) {
	var cs condSet
	if filter.Search != "" {
		cs.add("(name ILIKE $%[1]d OR username ILIKE $%[1]d OR email ILIKE $%[1]d)", likeTerm(filter.Search))
	}
	if filter.IsActive != nil {
		cs.add("is_active = $%d", *filter.IsActive)
	}
	if filter.BranchID != "" {
		cs.add("branch_id = $%d", filter.BranchID)
	}
	for _, role := range filter.Roles {
		cs.add(`EXISTS (SELECT 1 FROM unnest(roles) r WHERE r LIKE $%d)`, role+"%")
	}

	var count int
	if err := repo.db.Get(&count, `SELECT COUNT(*) FROM "user"`+cs.where(), cs.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting users")
	}

	ord := filter.Ordering(userSortColumns, core.DBOrdering{Field: "created_at"})
	var rows []userRow
	query := `SELECT * FROM "user"` + cs.where() + pageClause(ord, filter.ListQuery)
	if err := repo.db.Select(&rows, query, cs.args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering users")
	}

	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toCore())
	}
	return users, count, nil
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	if isActive != nil {
		usr.IsActive = *isActive
	}
	res, err := repo.db.Exec(
		`UPDATE "user" SET name = $2, username = $3, email = $4, branch_id = $5, is_active = $6,
		 roles = $7, password_hash = $8, updated_at = $9, last_login = $10 WHERE id = $1`,
		usr.ID, usr.Name, usr.Username, usr.Email, nullStr(usr.BranchID), usr.IsActive,
		pq.Array(usr.Roles), usr.PasswordHash, usr.UpdatedAt,
		sql.NullTime{Time: usr.LastLogin, Valid: !usr.LastLogin.IsZero()},
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ids ...string) error {
	_, err := repo.db.Exec(`DELETE FROM "user" WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting users")
}
