package managers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JaineelPandya/social-book/internal/interfaces"
	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/JaineelPandya/social-book/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const userColumns = "user_id, email, password, first_name, last_name, is_active, email_verified, public_visibility, " +
	"birth_year, address, bio, followers_count, following_count, created_at, updated_at, verified_at"

// UserMgr defines the account store of the platform.
type UserMgr interface {
	CreateUser(ctx context.Context, email, password string, profile schemas.ProfileFields) (*schemas.User, error)
	FindByEmail(ctx context.Context, email string) (*schemas.User, error)
	FindByID(ctx context.Context, userId uuid.UUID) (*schemas.User, error)
	MarkVerified(ctx context.Context, userId uuid.UUID) (*schemas.User, error)
	CheckPassword(ctx context.Context, email, password string) (*schemas.User, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, profile schemas.ProfileFields) (*schemas.User, error)
	ListDirectory(ctx context.Context, query string, offset, limit int) ([]*schemas.User, int, error)
	ComputeAge(user *schemas.User, now time.Time) *int
}

// UserManager implements UserMgr on top of the users table.
type UserManager struct {
	pool     interfaces.PgxPoolIface
	hashCost int
}

// NewUserManager creates a UserManager that hashes passwords with bcrypt's default cost.
func NewUserManager(pool interfaces.PgxPoolIface) *UserManager {
	return &UserManager{pool: pool, hashCost: bcrypt.DefaultCost}
}

// NormalizeEmail trims and lower-cases an email address. All lookups go through the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser stores a new, inactive and unverified user. A second user with the same normalized email
// is rejected with ErrDuplicateEmail.
func (um *UserManager) CreateUser(ctx context.Context, email, password string, profile schemas.ProfileFields) (*schemas.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), um.hashCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &schemas.User{
		ID:               uuid.New(),
		Email:            NormalizeEmail(email),
		Password:         string(hashedPassword),
		FirstName:        profile.FirstName,
		LastName:         profile.LastName,
		PublicVisibility: profile.PublicVisibility,
		BirthYear:        profile.BirthYear,
		Address:          profile.Address,
		Bio:              profile.Bio,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	queryString := "INSERT INTO users (user_id, email, password, first_name, last_name, is_active, email_verified, " +
		"public_visibility, birth_year, address, bio, created_at, updated_at) " +
		"VALUES ($1, $2, $3, $4, $5, FALSE, FALSE, $6, $7, $8, $9, $10, $10)"
	_, err = um.pool.Exec(ctx, queryString, user.ID, user.Email, user.Password, user.FirstName, user.LastName,
		user.PublicVisibility, user.BirthYear, user.Address, user.Bio, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	utils.LogMessageWithFields(ctx, "info", "Created user "+user.ID.String())
	return user, nil
}

// FindByEmail returns the user with the given email, compared case-insensitively.
func (um *UserManager) FindByEmail(ctx context.Context, email string) (*schemas.User, error) {
	queryString := "SELECT " + userColumns + " FROM users WHERE email = $1"
	return scanUser(um.pool.QueryRow(ctx, queryString, NormalizeEmail(email)))
}

// FindByID returns the user with the given id.
func (um *UserManager) FindByID(ctx context.Context, userId uuid.UUID) (*schemas.User, error) {
	queryString := "SELECT " + userColumns + " FROM users WHERE user_id = $1"
	return scanUser(um.pool.QueryRow(ctx, queryString, userId))
}

// MarkVerified activates the user and records the verification. The first verification timestamp is kept
// if the user is verified again.
func (um *UserManager) MarkVerified(ctx context.Context, userId uuid.UUID) (*schemas.User, error) {
	queryString := "UPDATE users SET is_active = TRUE, email_verified = TRUE, verified_at = COALESCE(verified_at, $2), " +
		"updated_at = $2 WHERE user_id = $1 RETURNING " + userColumns
	return scanUser(um.pool.QueryRow(ctx, queryString, userId, time.Now().UTC()))
}

// CheckPassword returns the user if the password matches. Unknown emails and wrong passwords
// are indistinguishable for the caller.
func (um *UserManager) CheckPassword(ctx context.Context, email, password string) (*schemas.User, error) {
	user, err := um.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}
	return user, nil
}

// UpdateProfile replaces the editable profile attributes of the user.
func (um *UserManager) UpdateProfile(ctx context.Context, userId uuid.UUID, profile schemas.ProfileFields) (*schemas.User, error) {
	queryString := "UPDATE users SET first_name = $2, last_name = $3, birth_year = $4, address = $5, bio = $6, " +
		"public_visibility = $7, updated_at = $8 WHERE user_id = $1 RETURNING " + userColumns
	return scanUser(um.pool.QueryRow(ctx, queryString, userId, profile.FirstName, profile.LastName, profile.BirthYear,
		profile.Address, profile.Bio, profile.PublicVisibility, time.Now().UTC()))
}

// likeEscaper makes search input match literally inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ListDirectory returns the publicly visible, active users matching the query, newest first,
// together with the total number of matches.
func (um *UserManager) ListDirectory(ctx context.Context, query string, offset, limit int) ([]*schemas.User, int, error) {
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(query)) + "%"
	whereClause := "WHERE public_visibility AND is_active " +
		`AND (email ILIKE $1 ESCAPE '\' OR first_name ILIKE $1 ESCAPE '\' OR last_name ILIKE $1 ESCAPE '\')`

	var total int
	countQuery := "SELECT COUNT(*) FROM users " + whereClause
	if err := um.pool.QueryRow(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	queryString := "SELECT " + userColumns + " FROM users " + whereClause +
		" ORDER BY created_at DESC OFFSET $2 LIMIT $3"
	rows, err := um.pool.Query(ctx, queryString, pattern, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]*schemas.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ComputeAge derives the age of the user relative to now. It returns nil if no birth year is known.
func (um *UserManager) ComputeAge(user *schemas.User, now time.Time) *int {
	return user.Age(now)
}

// scanUser reads one row selected with userColumns. A missing row is reported as ErrNotFound.
func scanUser(row pgx.Row) (*schemas.User, error) {
	user := &schemas.User{}
	err := row.Scan(&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName, &user.IsActive,
		&user.EmailVerified, &user.PublicVisibility, &user.BirthYear, &user.Address, &user.Bio,
		&user.FollowersCount, &user.FollowingCount, &user.CreatedAt, &user.UpdatedAt, &user.VerifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}
