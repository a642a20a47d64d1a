package managers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/JaineelPandya/social-book/internal/interfaces"
	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/JaineelPandya/social-book/internal/utils"
	"github.com/google/uuid"
)

// CredentialMgr issues, resolves and revokes the bearer credentials of the token API.
type CredentialMgr interface {
	Issue(ctx context.Context, user *schemas.User) (string, *schemas.Credential, error)
	Resolve(ctx context.Context, credential string) (*schemas.User, error)
	Revoke(ctx context.Context, credential string) error
}

// CredentialManager stores the id of every issued credential in auth_tokens. A credential is only
// accepted while its signature is valid, it has not expired and its row still exists.
type CredentialManager struct {
	pool interfaces.PgxPoolIface
	jwt  JWTMgr
	ttl  time.Duration
}

func NewCredentialManager(pool interfaces.PgxPoolIface, jwtMgr JWTMgr, ttl time.Duration) *CredentialManager {
	return &CredentialManager{pool: pool, jwt: jwtMgr, ttl: ttl}
}

// Issue creates a new credential for the user. Account state is not checked here.
func (cm *CredentialManager) Issue(ctx context.Context, user *schemas.User) (string, *schemas.Credential, error) {
	now := time.Now().UTC()
	credential := &schemas.Credential{
		ID:        uuid.New(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(cm.ttl),
	}

	token, err := cm.jwt.GenerateJWT(cm.jwt.GenerateClaims(user.ID.String(), credential.ID.String(), cm.ttl))
	if err != nil {
		return "", nil, err
	}

	queryString := "INSERT INTO auth_tokens (token_id, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)"
	if _, err := cm.pool.Exec(ctx, queryString, credential.ID, credential.UserID, credential.CreatedAt, credential.ExpiresAt); err != nil {
		return "", nil, err
	}

	utils.LogMessageWithFields(ctx, "info", "Issued credential for user "+user.ID.String())
	return token, credential, nil
}

// Resolve returns the user a credential belongs to, or ErrInvalidCredential.
func (cm *CredentialManager) Resolve(ctx context.Context, credential string) (*schemas.User, error) {
	tokenId, err := cm.tokenId(credential)
	if err != nil {
		return nil, err
	}

	queryString := "SELECT " + prefixColumns("u", userColumns) + " FROM auth_tokens t " +
		"INNER JOIN users u ON t.user_id = u.user_id WHERE t.token_id = $1 AND t.expires_at > $2"
	user, err := scanUser(cm.pool.QueryRow(ctx, queryString, tokenId, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}
	return user, nil
}

// Revoke deletes the credential, so it can no longer be resolved.
func (cm *CredentialManager) Revoke(ctx context.Context, credential string) error {
	tokenId, err := cm.tokenId(credential)
	if err != nil {
		return err
	}

	queryString := "DELETE FROM auth_tokens WHERE token_id = $1"
	_, err = cm.pool.Exec(ctx, queryString, tokenId)
	return err
}

func (cm *CredentialManager) tokenId(credential string) (uuid.UUID, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return uuid.Nil, ErrMissingCredential
	}

	claims, err := cm.jwt.ValidateJWT(credential)
	if err != nil {
		return uuid.Nil, ErrInvalidCredential
	}

	tokenId, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, ErrInvalidCredential
	}
	return tokenId, nil
}

// prefixColumns qualifies every column of a comma separated list with the table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}
