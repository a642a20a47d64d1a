package managers

import (
	"time"

	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
)

var userColumnNames = []string{"user_id", "email", "password", "first_name", "last_name", "is_active",
	"email_verified", "public_visibility", "birth_year", "address", "bio", "followers_count", "following_count",
	"created_at", "updated_at", "verified_at"}

var contentColumnNames = []string{"file_id", "user_id", "title", "description", "blob_key", "original_name",
	"year_published", "cost_cents", "visibility", "is_active", "file_size", "download_count", "created_at", "updated_at"}

func newTestUser(verified bool) *schemas.User {
	createdAt := time.Date(2026, time.January, 5, 12, 0, 0, 0, time.UTC)
	user := &schemas.User{
		ID:               uuid.New(),
		Email:            "reader@example.com",
		Password:         "$2a$04$invalidhashforscanningonly",
		FirstName:        "Ada",
		LastName:         "Lovelace",
		IsActive:         verified,
		EmailVerified:    verified,
		PublicVisibility: true,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
	if verified {
		user.VerifiedAt = &createdAt
	}
	return user
}

func userRows(users ...*schemas.User) *pgxmock.Rows {
	rows := pgxmock.NewRows(userColumnNames)
	for _, user := range users {
		var birthYear, verifiedAt interface{}
		if user.BirthYear != nil {
			birthYear = user.BirthYear
		}
		if user.VerifiedAt != nil {
			verifiedAt = user.VerifiedAt
		}
		rows.AddRow(user.ID, user.Email, user.Password, user.FirstName, user.LastName, user.IsActive,
			user.EmailVerified, user.PublicVisibility, birthYear, user.Address, user.Bio, user.FollowersCount,
			user.FollowingCount, user.CreatedAt, user.UpdatedAt, verifiedAt)
	}
	return rows
}

func newTestItem(ownerId uuid.UUID, visibility schemas.Visibility) *schemas.ContentItem {
	createdAt := time.Date(2026, time.February, 1, 8, 0, 0, 0, time.UTC)
	return &schemas.ContentItem{
		ID:           uuid.New(),
		OwnerID:      ownerId,
		Title:        "The Analytical Engine",
		BlobKey:      "uploads/2026/02/01/engine.pdf",
		OriginalName: "engine.pdf",
		CostCents:    1250,
		Visibility:   visibility,
		IsActive:     true,
		FileSize:     2048,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func contentRows(items ...*schemas.ContentItem) *pgxmock.Rows {
	rows := pgxmock.NewRows(contentColumnNames)
	for _, item := range items {
		var description, yearPublished interface{}
		if item.Description != nil {
			description = item.Description
		}
		if item.YearPublished != nil {
			yearPublished = item.YearPublished
		}
		rows.AddRow(item.ID, item.OwnerID, item.Title, description, item.BlobKey, item.OriginalName, yearPublished,
			item.CostCents, string(item.Visibility), item.IsActive, item.FileSize, item.DownloadCount,
			item.CreatedAt, item.UpdatedAt)
	}
	return rows
}
