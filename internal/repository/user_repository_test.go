package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/accounts-service/internal/model"
)

var (
	insertUserSQL = regexp.QuoteMeta("INSERT INTO users (username, email, password_hash, role, enabled) VALUES (?,?,?,?,?)")
	selectByIDSQL = regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE id=? LIMIT 1")
	selectByEmail = regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE email=? LIMIT 1")
)

func newMySQLRepoWithMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), mock
}

func userRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "username", "password_hash", "role", "enabled", "active", "created_at", "updated_at"}).
		AddRow(uint64(1), "ann@x.com", "ann", "hash", model.RoleUser, true, true, now, now)
}

func TestUserRepo_Create_Success(t *testing.T) {
	repo, mock := newMySQLRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectExec(insertUserSQL).
		WithArgs("ann", "ann@x.com", "hash", model.RoleUser, true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(selectByIDSQL).WithArgs(uint64(1)).WillReturnRows(userRows(now))

	u, err := repo.Create(context.Background(), model.NewUser{
		Username: "ann", Email: "  Ann@X.com ", PasswordHash: "hash", Enabled: true,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), u.ID)
	assert.Equal(t, "ann@x.com", u.Email)
	assert.True(t, u.Active)
	assert.True(t, u.Enabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newMySQLRepoWithMock(t)

	mock.ExpectExec(insertUserSQL).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ann@x.com' for key 'users.email'"})

	_, err := repo.Create(context.Background(), model.NewUser{Username: "ann", Email: "ann@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_OtherMySQLError(t *testing.T) {
	repo, mock := newMySQLRepoWithMock(t)

	dbErr := &mysql.MySQLError{Number: 1146, Message: "Table 'users' doesn't exist"}
	mock.ExpectExec(insertUserSQL).WillReturnError(dbErr)

	_, err := repo.Create(context.Background(), model.NewUser{Username: "ann", Email: "ann@x.com", PasswordHash: "hash"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailExists)
	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "db error")
}

func TestUserRepo_FindByEmail_Found(t *testing.T) {
	repo, mock := newMySQLRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(selectByEmail).WithArgs("ann@x.com").WillReturnRows(userRows(now))

	u, found, err := repo.FindByEmail(context.Background(), "ANN@x.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ann", u.Username)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestUserRepo_FindByEmail_Miss(t *testing.T) {
	repo, mock := newMySQLRepoWithMock(t)

	mock.ExpectQuery(selectByEmail).WithArgs("ghost@x.com").WillReturnError(sql.ErrNoRows)

	_, found, err := repo.FindByEmail(context.Background(), "ghost@x.com")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestUserRepo_FindByEmail_DBError(t *testing.T) {
	repo, mock := newMySQLRepoWithMock(t)

	mock.ExpectQuery(selectByEmail).WithArgs("ann@x.com").WillReturnError(errors.New("connection refused"))

	_, found, err := repo.FindByEmail(context.Background(), "ann@x.com")
	require.Error(t, err)
	assert.False(t, found)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	repo, mock := newMySQLRepoWithMock(t)

	mock.ExpectQuery(selectByIDSQL).WithArgs(uint64(9)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ann@x.com", NormalizeEmail("  Ann@X.COM\t"))
	assert.Equal(t, "", NormalizeEmail("   "))
}
