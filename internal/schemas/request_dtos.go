// Package schemas defines the request structures for various operations in the application.
package schemas

// RegistrationRequest is a struct that represents a registration request
// Email is required and must be a valid email
// Password is required and must be at least 8 characters
// All profile fields are optional, PublicVisibility defaults to true
type RegistrationRequest struct {
	Email            string `json:"email" validate:"required,email,max=254"`
	Password         string `json:"password" validate:"required,min=8,max=128,password_validation" sanitize:"-"`
	FirstName        string `json:"firstName" validate:"max=150"`
	LastName         string `json:"lastName" validate:"max=150"`
	BirthYear        *int   `json:"birthYear" validate:"omitempty,min=1900,max=2100"`
	Address          string `json:"address" validate:"max=512"`
	Bio              string `json:"bio" validate:"max=2048"`
	PublicVisibility *bool  `json:"publicVisibility"`
}

// ActivationRequest is a struct that represents a machine-readable activation request
// Uid is the base64 encoded user id, Token the signed activation token
type ActivationRequest struct {
	Uid   string `json:"uid" validate:"required,max=64"`
	Token string `json:"token" validate:"required,max=128" sanitize:"-"`
}

// ResendActivationRequest is a struct that represents a request to send the activation mail again
type ResendActivationRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// LoginRequest is a struct that represents a credential login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128" sanitize:"-"`
}

// SessionExchangeRequest is a struct that represents the optional body of a session exchange
// Token is the bearer credential, it takes precedence over the Authorization header
type SessionExchangeRequest struct {
	Token string `json:"token" sanitize:"-"`
}

// ChangeProfileRequest is a struct that represents a profile update request
type ChangeProfileRequest struct {
	FirstName        string `json:"firstName" validate:"max=150"`
	LastName         string `json:"lastName" validate:"max=150"`
	BirthYear        *int   `json:"birthYear" validate:"omitempty,min=1900,max=2100"`
	Address          string `json:"address" validate:"max=512"`
	Bio              string `json:"bio" validate:"max=2048"`
	PublicVisibility bool   `json:"publicVisibility"`
}

// UploadFileRequest is a struct that represents the metadata part of a multipart upload
// Cost is a decimal string such as "12.50", empty means free
type UploadFileRequest struct {
	Title         string `form:"title" validate:"required,max=255"`
	Description   string `form:"description" validate:"max=4096"`
	YearPublished *int   `form:"yearPublished" validate:"omitempty,min=1000,max=2100"`
	Cost          string `form:"cost" validate:"omitempty,cost_validation"`
	Visibility    string `form:"visibility" validate:"omitempty,visibility_validation"`
}

// UpdateFileRequest is a struct that represents an owner's update of a file's metadata
// Nil fields are left unchanged
type UpdateFileRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description   *string `json:"description" validate:"omitempty,max=4096"`
	YearPublished *int    `json:"yearPublished" validate:"omitempty,min=1000,max=2100"`
	Cost          *string `json:"cost" validate:"omitempty,cost_validation"`
	Visibility    *string `json:"visibility" validate:"omitempty,visibility_validation"`
	IsActive      *bool   `json:"isActive"`
}

// EnrollmentRequest is a struct that represents an update of a file's enrollment data
// Empty fields keep the stored value
type EnrollmentRequest struct {
	Name  string `json:"name" validate:"max=255"`
	Price string `json:"price" validate:"omitempty,cost_validation"`
}
