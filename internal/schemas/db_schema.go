// Package schemas defines the data structures
package schemas

import (
	"time"

	"github.com/google/uuid"
)

// Visibility controls which principals may view an uploaded content item.
type Visibility string

const (
	VisibilityPrivate   Visibility = "private"
	VisibilityPublic    Visibility = "public"
	VisibilityFollowers Visibility = "followers"
)

// Valid reports whether v is one of the known visibility values.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityPublic, VisibilityFollowers:
		return true
	}
	return false
}

// User represents the data model for a user in the system.
type User struct {
	ID               uuid.UUID  `json:"id"`                // Unique identifier for the user.
	Email            string     `json:"email"`             // Lower-cased, unique email address used for login.
	Password         string     `json:"-"`                 // Password hash of the user.
	FirstName        string     `json:"first_name"`        // First name of the user.
	LastName         string     `json:"last_name"`         // Last name of the user.
	IsActive         bool       `json:"is_active"`         // Whether the user may sign in at all.
	EmailVerified    bool       `json:"email_verified"`    // Whether the user completed the activation.
	PublicVisibility bool       `json:"public_visibility"` // Whether the user is listed in the authors directory.
	BirthYear        *int       `json:"birth_year"`        // Optional year of birth, used to derive the age.
	Address          string     `json:"address"`           // Free-text postal address.
	Bio              string     `json:"bio"`               // Free-text biography.
	FollowersCount   int        `json:"followers_count"`   // Number of followers, not maintained yet.
	FollowingCount   int        `json:"following_count"`   // Number of followed users, not maintained yet.
	CreatedAt        time.Time  `json:"created_at"`        // Timestamp when the user was created.
	UpdatedAt        time.Time  `json:"updated_at"`        // Timestamp of the last profile change.
	VerifiedAt       *time.Time `json:"verified_at"`       // Timestamp when the email was verified.
}

// ProfileFields holds the optional attributes given on registration or profile update.
type ProfileFields struct {
	FirstName        string
	LastName         string
	BirthYear        *int
	Address          string
	Bio              string
	PublicVisibility bool
}

// ContentItem represents an uploaded file (book or document) owned by exactly one user.
type ContentItem struct {
	ID            uuid.UUID  `json:"id"`             // Unique identifier for the item.
	OwnerID       uuid.UUID  `json:"owner_id"`       // Identifier of the owning user.
	Title         string     `json:"title"`          // Title of the book or document.
	Description   *string    `json:"description"`    // Optional description.
	BlobKey       string     `json:"blob_key"`       // Key of the file in the blob store.
	OriginalName  string     `json:"original_name"`  // File name as uploaded by the user.
	YearPublished *int       `json:"year_published"` // Optional publication year.
	CostCents     int64      `json:"cost_cents"`     // Price in cents, zero means free.
	Visibility    Visibility `json:"visibility"`     // Visibility of the item.
	IsActive      bool       `json:"is_active"`      // Inactive items are hidden from listings.
	FileSize      int64      `json:"file_size"`      // Size of the stored blob in bytes.
	DownloadCount int64      `json:"download_count"` // Number of downloads.
	CreatedAt     time.Time  `json:"created_at"`     // Timestamp when the item was uploaded.
	UpdatedAt     time.Time  `json:"updated_at"`     // Timestamp of the last change.
}

// Enrollment holds the sale details an owner records for one of their files. Name and Price are
// kept in a JSON payload, empty means not set yet.
type Enrollment struct {
	ID        uuid.UUID `json:"id"`
	FileID    uuid.UUID `json:"file_id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session represents a server-side session created by exchanging a bearer credential.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	ClientIP  string    `json:"client_ip"`
	UserAgent string    `json:"user_agent"`
}

// Credential represents an issued bearer credential. Only its id is stored, the signed token is handed to the client.
type Credential struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Age returns the age derived from the birth year relative to now, or nil if no birth year is known.
func (u *User) Age(now time.Time) *int {
	if u.BirthYear == nil {
		return nil
	}
	age := now.Year() - *u.BirthYear
	return &age
}

// ActivationToken is the pair embedded in an activation link. UID encodes the user id, Token proves
// that the link was issued by the server for the user's current state.
type ActivationToken struct {
	UID   string
	Token string
}

// Path returns the activation route for the token, relative to the public base URL.
func (t ActivationToken) Path() string {
	return "/accounts/activate/" + t.UID + "/" + t.Token
}
