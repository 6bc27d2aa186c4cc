package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iliyamo/accounts-service/internal/model"
)

// pgUniqueViolation is SQLSTATE unique_violation.
const pgUniqueViolation = "23505"

// PgUserRepo is the Postgres user store. It expects a *sql.DB opened with the
// pgx stdlib driver.
type PgUserRepo struct{ DB *sql.DB }

func NewPgUserRepo(db *sql.DB) *PgUserRepo { return &PgUserRepo{DB: db} }

func (r *PgUserRepo) Create(ctx context.Context, u model.NewUser) (model.User, error) {
	role := u.Role
	if role == "" {
		role = model.RoleUser
	}
	row := r.DB.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, role, enabled)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		u.Username, NormalizeEmail(u.Email), u.PasswordHash, role, u.Enabled)
	created, err := scanUser(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *PgUserRepo) FindByEmail(ctx context.Context, email string) (model.User, bool, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1",
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

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
