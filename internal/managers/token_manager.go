package managers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/google/uuid"
)

const activationKeySalt = "social-book.activation-token"

// tokenEpoch is the reference point of the token timestamps, which keeps the base36 part short.
var tokenEpoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// ActivationTokenMgr issues and validates the one-time tokens embedded in activation links.
type ActivationTokenMgr interface {
	Issue(user *schemas.User) schemas.ActivationToken
	Validate(ctx context.Context, uid, token string) (*schemas.User, error)
}

type userLookup interface {
	FindByID(ctx context.Context, userId uuid.UUID) (*schemas.User, error)
}

// ActivationTokenManager derives activation tokens from the user's id and verification state.
// Nothing is stored: once the user is verified, every token issued before no longer matches.
type ActivationTokenManager struct {
	key    []byte
	maxAge time.Duration
	users  userLookup
	now    func() time.Time
}

// NewActivationTokenManager creates a token manager signing with a key derived from secret.
func NewActivationTokenManager(secret string, maxAge time.Duration, users userLookup) *ActivationTokenManager {
	key := sha256.Sum256([]byte(activationKeySalt + secret))
	return &ActivationTokenManager{
		key:    key[:],
		maxAge: maxAge,
		users:  users,
		now:    time.Now,
	}
}

// Issue creates the uid and token pair for the user's activation link.
func (tm *ActivationTokenManager) Issue(user *schemas.User) schemas.ActivationToken {
	timestamp := int64(tm.now().Sub(tokenEpoch) / time.Second)
	return schemas.ActivationToken{
		UID:   EncodeUID(user.ID),
		Token: strconv.FormatInt(timestamp, 36) + "-" + tm.signature(user, timestamp),
	}
}

// Validate resolves the uid and checks the token against the user's current state.
// Malformed input, unknown users, forged or outdated tokens all yield ErrTokenInvalid.
// Other errors come from the user lookup itself.
func (tm *ActivationTokenManager) Validate(ctx context.Context, uid, token string) (*schemas.User, error) {
	userId, err := DecodeUID(uid)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	timestampPart, signaturePart, found := strings.Cut(token, "-")
	if !found || timestampPart == "" || signaturePart == "" {
		return nil, ErrTokenInvalid
	}
	timestamp, err := strconv.ParseInt(timestampPart, 36, 64)
	if err != nil || timestamp < 0 {
		return nil, ErrTokenInvalid
	}

	user, err := tm.users.FindByID(ctx, userId)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	expected := tm.signature(user, timestamp)
	if !hmac.Equal([]byte(expected), []byte(signaturePart)) {
		return nil, ErrTokenInvalid
	}

	issuedAt := tokenEpoch.Add(time.Duration(timestamp) * time.Second)
	if tm.now().Sub(issuedAt) > tm.maxAge {
		return nil, ErrTokenInvalid
	}

	return user, nil
}

// signature binds the token to the user and to the verification flag, so a token is single-use.
func (tm *ActivationTokenManager) signature(user *schemas.User, timestamp int64) string {
	value := user.ID.String() + strconv.FormatInt(timestamp, 10) + user.ID.String() + strconv.FormatBool(user.EmailVerified)

	mac := hmac.New(sha256.New, tm.key)
	mac.Write([]byte(value))
	digest := hex.EncodeToString(mac.Sum(nil))

	// every second character keeps the token short
	var shortened strings.Builder
	for i := 0; i < len(digest); i += 2 {
		shortened.WriteByte(digest[i])
	}
	return shortened.String()
}

// EncodeUID encodes a user id for use in a URL path segment.
func EncodeUID(userId uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(userId.String()))
}

// DecodeUID reverses EncodeUID.
func DecodeUID(uid string) (uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(string(raw))
}
