package managers

import "github.com/JaineelPandya/social-book/internal/schemas"

// CheckPrincipal applies the account-state rules shared by every way of authenticating a request:
// the session exchange, session cookies and bearer credentials.
//
// With requireVerified set, users that have not verified their email are rejected with ErrNotVerified.
// Verified users that were deactivated afterwards are rejected with ErrInvalidCredential.
// Without requireVerified, unverified users pass even though they are still inactive.
func CheckPrincipal(user *schemas.User, requireVerified bool) error {
	if user == nil {
		return ErrInvalidCredential
	}
	if !user.EmailVerified {
		if requireVerified {
			return ErrNotVerified
		}
		return nil
	}
	if !user.IsActive {
		return ErrInvalidCredential
	}
	return nil
}
