package managers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupUserManager(t *testing.T) (*UserManager, pgxmock.PgxPoolIface) {
	t.Helper()

	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	userMgr := NewUserManager(pool)
	userMgr.hashCost = bcrypt.MinCost
	return userMgr, pool
}

func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestCreateUser(t *testing.T) {
	userMgr, pool := setupUserManager(t)

	args := anyArgs(10)
	args[1] = "ada@example.com"
	pool.ExpectExec("INSERT INTO users").WithArgs(args...).WillReturnResult(pgxmock.NewResult("INSERT", 1))

	user, err := userMgr.CreateUser(context.Background(), "  Ada@Example.COM ", "correct horse",
		schemas.ProfileFields{FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", user.Email)
	assert.False(t, user.IsActive)
	assert.False(t, user.EmailVerified)
	assert.Nil(t, user.VerifiedAt)
	assert.NotEqual(t, "correct horse", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("correct horse")))
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	userMgr, pool := setupUserManager(t)

	pool.ExpectExec("INSERT INTO users").WithArgs(anyArgs(10)...).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := userMgr.CreateUser(context.Background(), "ada@example.com", "correct horse", schemas.ProfileFields{})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestCreateUserDatabaseError(t *testing.T) {
	userMgr, pool := setupUserManager(t)

	pool.ExpectExec("INSERT INTO users").WithArgs(anyArgs(10)...).WillReturnError(errors.New("connection refused"))

	_, err := userMgr.CreateUser(context.Background(), "ada@example.com", "correct horse", schemas.ProfileFields{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
}

func TestFindByEmail(t *testing.T) {
	userMgr, pool := setupUserManager(t)
	user := newTestUser(true)

	pool.ExpectQuery("FROM users WHERE email").WithArgs("reader@example.com").WillReturnRows(userRows(user))
	found, err := userMgr.FindByEmail(context.Background(), "Reader@Example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.True(t, found.EmailVerified)
	require.NotNil(t, found.VerifiedAt)

	pool.ExpectQuery("FROM users WHERE email").WithArgs("nobody@example.com").WillReturnRows(userRows())
	_, err = userMgr.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestMarkVerified(t *testing.T) {
	userMgr, pool := setupUserManager(t)
	user := newTestUser(true)

	pool.ExpectQuery("UPDATE users SET is_active = TRUE, email_verified = TRUE").
		WithArgs(user.ID, pgxmock.AnyArg()).WillReturnRows(userRows(user))

	verified, err := userMgr.MarkVerified(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsActive)
	assert.True(t, verified.EmailVerified)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestCheckPassword(t *testing.T) {
	userMgr, pool := setupUserManager(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	user := newTestUser(true)
	user.Password = string(hash)

	pool.ExpectQuery("FROM users WHERE email").WithArgs(user.Email).WillReturnRows(userRows(user))
	found, err := userMgr.CheckPassword(context.Background(), user.Email, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	pool.ExpectQuery("FROM users WHERE email").WithArgs(user.Email).WillReturnRows(userRows(user))
	_, err = userMgr.CheckPassword(context.Background(), user.Email, "battery staple")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	pool.ExpectQuery("FROM users WHERE email").WithArgs("nobody@example.com").WillReturnRows(userRows())
	_, err = userMgr.CheckPassword(context.Background(), "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestListDirectory(t *testing.T) {
	userMgr, pool := setupUserManager(t)
	first, second := newTestUser(true), newTestUser(true)

	pool.ExpectQuery("SELECT COUNT").WithArgs("%ada%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))
	pool.ExpectQuery("ORDER BY created_at DESC OFFSET").WithArgs("%ada%", 10, 2).
		WillReturnRows(userRows(first, second))

	users, total, err := userMgr.ListDirectory(context.Background(), " ada ", 10, 2)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	assert.Len(t, users, 2)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestListDirectoryEscapesWildcards(t *testing.T) {
	testCases := []struct {
		name    string
		query   string
		pattern string
	}{
		{"Percent", "100%", `%100\%%`},
		{"Underscore", "a_b", `%a\_b%`},
		{"Backslash", `x\y`, `%x\\y%`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			userMgr, pool := setupUserManager(t)

			pool.ExpectQuery(`SELECT COUNT.*ILIKE \$1 ESCAPE`).WithArgs(tc.pattern).
				WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
			pool.ExpectQuery("ORDER BY created_at DESC OFFSET").WithArgs(tc.pattern, 0, 10).
				WillReturnRows(userRows())

			users, total, err := userMgr.ListDirectory(context.Background(), tc.query, 0, 10)
			require.NoError(t, err)
			assert.Zero(t, total)
			assert.Empty(t, users)
			assert.NoError(t, pool.ExpectationsWereMet())
		})
	}
}

func TestComputeAge(t *testing.T) {
	userMgr, _ := setupUserManager(t)
	now := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)

	user := newTestUser(true)
	assert.Nil(t, userMgr.ComputeAge(user, now))

	birthYear := 1990
	user.BirthYear = &birthYear
	age := userMgr.ComputeAge(user, now)
	require.NotNil(t, age)
	assert.Equal(t, 36, *age)
}
