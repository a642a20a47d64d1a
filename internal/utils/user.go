package utils

import (
	"time"

	"github.com/JaineelPandya/social-book/internal/schemas"
)

// CreateUserDto converts a user into its response representation, including the derived age.
func CreateUserDto(user *schemas.User) *schemas.UserDTO {
	return &schemas.UserDTO{
		UserId:           user.ID.String(),
		Email:            user.Email,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		IsActive:         user.IsActive,
		EmailVerified:    user.EmailVerified,
		PublicVisibility: user.PublicVisibility,
		BirthYear:        user.BirthYear,
		Age:              user.Age(time.Now()),
		Address:          user.Address,
		Bio:              user.Bio,
		FollowersCount:   user.FollowersCount,
		FollowingCount:   user.FollowingCount,
	}
}

// CreateAuthorDtos converts the users of the directory into their response representation.
func CreateAuthorDtos(users []*schemas.User) []*schemas.AuthorDTO {
	authors := make([]*schemas.AuthorDTO, 0, len(users))
	for _, user := range users {
		authors = append(authors, &schemas.AuthorDTO{
			UserId:           user.ID.String(),
			Email:            user.Email,
			FirstName:        user.FirstName,
			LastName:         user.LastName,
			IsActive:         user.IsActive,
			PublicVisibility: user.PublicVisibility,
		})
	}
	return authors
}
