package managers

import "errors"

var (
	// ErrDuplicateEmail is returned when a user with the same email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrMissingCredential is returned when a request carries no bearer credential.
	ErrMissingCredential = errors.New("no credential provided")
	// ErrInvalidCredential is returned when a credential, password or session does not resolve to a usable user.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrNotVerified is a policy rejection for users that have not completed the email activation.
	ErrNotVerified = errors.New("email not verified")
	// ErrTokenInvalid covers malformed, expired and forged activation tokens alike.
	ErrTokenInvalid = errors.New("activation token invalid")
	// ErrForbidden is returned when the principal may not access an existing resource.
	ErrForbidden = errors.New("forbidden")
	// ErrNotificationDeliveryFailed wraps failures of the notification sink. It is never fatal to the caller's operation.
	ErrNotificationDeliveryFailed = errors.New("notification delivery failed")
)
