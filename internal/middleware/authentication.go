package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JaineelPandya/social-book/internal/managers"
	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/JaineelPandya/social-book/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// Authentication sources stored under AuthSourceKey.
const (
	AuthSourceSession    = "session"
	AuthSourceCredential = "credential"
)

type sessionResolver interface {
	Resolve(ctx context.Context, sessionId uuid.UUID) (*schemas.User, error)
}

type credentialResolver interface {
	Resolve(ctx context.Context, credential string) (*schemas.User, error)
}

// Authenticate resolves the principal of the request, from the Authorization header first and the session cookie second.
// Requests without either continue anonymously. An invalid bearer credential is rejected, an invalid or expired
// session cookie is cleared and the request continues anonymously.
func Authenticate(sessionMgr sessionResolver, credentialMgr credentialResolver, store sessions.Store, requireVerified bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if credential := ExtractCredential(c.GetHeader("Authorization")); credential != "" {
			user, err := credentialMgr.Resolve(c, credential)
			if err == nil {
				err = managers.CheckPrincipal(user, requireVerified)
			}
			if err != nil {
				writeAuthenticationError(c, err)
				return
			}

			c.Set(utils.PrincipalKey.String(), user)
			c.Set(utils.AuthSourceKey.String(), AuthSourceCredential)
			c.Set(utils.CredentialKey.String(), credential)
			c.Next()
			return
		}

		session, err := store.Get(c.Request, SessionCookieName)
		if err != nil || session.IsNew {
			c.Next()
			return
		}

		rawSessionId, _ := session.Values[SessionIdValue].(string)
		sessionId, err := uuid.Parse(rawSessionId)
		if err != nil {
			clearSession(c, session)
			c.Next()
			return
		}

		user, err := sessionMgr.Resolve(c, sessionId)
		if err == nil {
			err = managers.CheckPrincipal(user, requireVerified)
		}
		if err != nil {
			if !errors.Is(err, managers.ErrInvalidCredential) && !errors.Is(err, managers.ErrNotVerified) {
				utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
				return
			}
			utils.LogMessageWithFields(c, "info", "Discarding session "+sessionId.String()+": "+err.Error())
			clearSession(c, session)
			c.Next()
			return
		}

		c.Set(utils.PrincipalKey.String(), user)
		c.Set(utils.AuthSourceKey.String(), AuthSourceSession)
		c.Set(utils.SessionIdKey.String(), sessionId)
		c.Next()
	}
}

// RequireAuthentication rejects anonymous requests.
func RequireAuthentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Principal(c) == nil {
			utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		c.Next()
	}
}

// Principal returns the authenticated user of the request, or nil for anonymous requests.
func Principal(c *gin.Context) *schemas.User {
	value, exists := c.Get(utils.PrincipalKey.String())
	if !exists {
		return nil
	}
	user, _ := value.(*schemas.User)
	return user
}

// ExtractCredential returns the credential of an Authorization header of the form "Token <credential>" or
// "Bearer <credential>". Any other header yields the empty string.
func ExtractCredential(header string) string {
	scheme, credential, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return ""
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(credential)
}

func writeAuthenticationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, managers.ErrNotVerified):
		utils.WriteAndLogError(c, schemas.UserNotVerified, http.StatusForbidden, err)
	case errors.Is(err, managers.ErrInvalidCredential), errors.Is(err, managers.ErrMissingCredential):
		utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusUnauthorized, err)
	default:
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
	}
}

func clearSession(c *gin.Context, session *sessions.Session) {
	session.Options.MaxAge = -1
	if err := session.Save(c.Request, c.Writer); err != nil {
		utils.LogMessageWithFieldsAndError(c, "warn", "Could not clear session cookie", err)
	}
}
