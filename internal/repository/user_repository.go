package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/accounts-service/internal/model"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

const userColumns = "id,email,username,password_hash,role,enabled,active,created_at,updated_at"

// UserRepo is the MySQL user store.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns the stored row. The active flag and
// timestamps come from the column defaults.
func (r *UserRepo) Create(ctx context.Context, u model.NewUser) (model.User, error) {
	email := NormalizeEmail(u.Email)
	role := u.Role
	if role == "" {
		role = model.RoleUser
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role, enabled) VALUES (?,?,?,?,?)",
		u.Username, email, u.PasswordHash, role, u.Enabled)
	if err != nil {
		if isMySQLDuplicate(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, fmt.Errorf("db error: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, fmt.Errorf("db error: %w", err)
	}
	return r.GetByID(ctx, uint64(id))
}

// FindByEmail fetches a user by normalised email. A miss returns found=false
// and a nil error.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, bool, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1",
		NormalizeEmail(email))
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, false, nil
		}
		return model.User{}, false, fmt.Errorf("db error: %w", err)
	}
	return u, true, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// NormalizeEmail trims and lower-cases an address so lookups and the unique
// index agree on its spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isMySQLDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.Enabled, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
