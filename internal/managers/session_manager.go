package managers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/JaineelPandya/social-book/internal/interfaces"
	"github.com/JaineelPandya/social-book/internal/metrics"
	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/JaineelPandya/social-book/internal/utils"
	"github.com/google/uuid"
)

// SessionMeta describes the client a session is created for.
type SessionMeta struct {
	ClientIP  string
	UserAgent string
}

// SessionMgr bridges bearer credentials to server-side sessions for browser clients.
type SessionMgr interface {
	Exchange(ctx context.Context, credential string, meta SessionMeta) (*schemas.Session, *schemas.User, error)
	Resolve(ctx context.Context, sessionId uuid.UUID) (*schemas.User, error)
	Destroy(ctx context.Context, sessionId uuid.UUID) error
}

type credentialResolver interface {
	Resolve(ctx context.Context, credential string) (*schemas.User, error)
}

type loginNotifier interface {
	SendLoginNotification(email, name, clientIP string, at time.Time) error
}

// SessionManager stores sessions in the sessions table.
type SessionManager struct {
	pool            interfaces.PgxPoolIface
	credentials     credentialResolver
	notifier        loginNotifier
	ttl             time.Duration
	requireVerified bool
	now             func() time.Time
}

func NewSessionManager(pool interfaces.PgxPoolIface, credentials credentialResolver, notifier loginNotifier,
	ttl time.Duration, requireVerified bool) *SessionManager {
	return &SessionManager{
		pool:            pool,
		credentials:     credentials,
		notifier:        notifier,
		ttl:             ttl,
		requireVerified: requireVerified,
		now:             time.Now,
	}
}

// Exchange resolves the credential, applies the account-state rules and creates a new session.
// Every successful exchange creates its own session and sends one login notification. A failed
// notification is logged and does not fail the exchange.
func (sm *SessionManager) Exchange(ctx context.Context, credential string, meta SessionMeta) (*schemas.Session, *schemas.User, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, nil, ErrMissingCredential
	}

	user, err := sm.credentials.Resolve(ctx, credential)
	if err != nil {
		return nil, nil, err
	}

	if err := CheckPrincipal(user, sm.requireVerified); err != nil {
		utils.LogMessageWithFields(ctx, "info", "Rejected session exchange for user "+user.ID.String()+": "+err.Error())
		return nil, nil, err
	}

	now := sm.now().UTC()
	session := &schemas.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(sm.ttl),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	}

	queryString := "INSERT INTO sessions (session_id, user_id, created_at, expires_at, client_ip, user_agent) " +
		"VALUES ($1, $2, $3, $4, $5, $6)"
	if _, err := sm.pool.Exec(ctx, queryString, session.ID, session.UserID, session.CreatedAt, session.ExpiresAt,
		session.ClientIP, session.UserAgent); err != nil {
		return nil, nil, err
	}
	metrics.SessionsCreatedTotal.Inc()
	utils.LogMessageWithFields(ctx, "info", "Created session for user "+user.ID.String())

	if err := sm.notifier.SendLoginNotification(user.Email, displayName(user), meta.ClientIP, now); err != nil {
		metrics.NotificationFailuresTotal.WithLabelValues("login").Inc()
		utils.LogMessageWithFieldsAndError(ctx, "warn", "Login notification could not be delivered", err)
	}

	return session, user, nil
}

// Resolve returns the user of an unexpired session, or ErrInvalidCredential.
// Account-state rules are left to the caller.
func (sm *SessionManager) Resolve(ctx context.Context, sessionId uuid.UUID) (*schemas.User, error) {
	queryString := "SELECT " + prefixColumns("u", userColumns) + " FROM sessions s " +
		"INNER JOIN users u ON s.user_id = u.user_id WHERE s.session_id = $1 AND s.expires_at > $2"
	user, err := scanUser(sm.pool.QueryRow(ctx, queryString, sessionId, sm.now().UTC()))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}
	return user, nil
}

// Destroy deletes the session. Destroying an unknown session is not an error.
func (sm *SessionManager) Destroy(ctx context.Context, sessionId uuid.UUID) error {
	queryString := "DELETE FROM sessions WHERE session_id = $1"
	_, err := sm.pool.Exec(ctx, queryString, sessionId)
	return err
}

// displayName returns the name used to greet the user in mails.
func displayName(user *schemas.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		return user.Email
	}
	return name
}
