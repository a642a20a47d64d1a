package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/JaineelPandya/social-book/internal/config"
	"github.com/JaineelPandya/social-book/internal/managers"
	"github.com/JaineelPandya/social-book/internal/middleware"
	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/JaineelPandya/social-book/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

type AuthHdl interface {
	LoginUser(c *gin.Context)
	LogoutUser(c *gin.Context)
	TokenSessionLogin(c *gin.Context)
	SessionLogout(c *gin.Context)
}

type AuthHandler struct {
	UserManager       managers.UserMgr
	CredentialManager managers.CredentialMgr
	SessionManager    managers.SessionMgr
	SessionStore      sessions.Store
	Config            *config.Config
}

func NewAuthHandler(userMgr managers.UserMgr, credentialMgr managers.CredentialMgr, sessionMgr managers.SessionMgr,
	store sessions.Store, cfg *config.Config) AuthHdl {
	return &AuthHandler{
		UserManager:       userMgr,
		CredentialManager: credentialMgr,
		SessionManager:    sessionMgr,
		SessionStore:      store,
		Config:            cfg,
	}
}

// LoginUser checks email and password and issues a bearer credential.
func (handler *AuthHandler) LoginUser(c *gin.Context) {
	loginRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.LoginRequest)

	user, err := handler.UserManager.CheckPassword(c, loginRequest.Email, loginRequest.Password)
	if err == nil {
		err = managers.CheckPrincipal(user, handler.Config.RequireEmailVerification)
	}
	if err != nil {
		writeCredentialError(c, err)
		return
	}

	token, credential, err := handler.CredentialManager.Issue(c, user)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	credentialDto := &schemas.CredentialDTO{
		Token:     token,
		ExpiresAt: credential.ExpiresAt.Format(time.RFC3339),
	}
	utils.WriteAndLogResponse(c, credentialDto, http.StatusOK)
}

// LogoutUser revokes the credential the request was authenticated with.
func (handler *AuthHandler) LogoutUser(c *gin.Context) {
	credential := c.GetString(utils.CredentialKey.String())
	if credential == "" {
		utils.WriteAndLogError(c, schemas.MissingCredential, http.StatusUnauthorized, managers.ErrMissingCredential)
		return
	}

	if err := handler.CredentialManager.Revoke(c, credential); err != nil {
		writeCredentialError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, nil, http.StatusNoContent)
}

// TokenSessionLogin exchanges a bearer credential for a browser session. The credential is taken from the
// JSON body field token or, if that is empty, from the Authorization header.
func (handler *AuthHandler) TokenSessionLogin(c *gin.Context) {
	exchangeRequest := &schemas.SessionExchangeRequest{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(exchangeRequest); err != nil {
			// An unreadable body carries no token, the header may still hold one
			utils.LogMessageWithFieldsAndError(c, "debug", "Ignoring unreadable session exchange body", err)
			exchangeRequest = &schemas.SessionExchangeRequest{}
		}
	}

	credential := exchangeRequest.Token
	if credential == "" {
		credential = middleware.ExtractCredential(c.GetHeader("Authorization"))
	}

	session, user, err := handler.SessionManager.Exchange(c, credential, managers.SessionMeta{
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		writeCredentialError(c, err)
		return
	}

	cookie, err := handler.SessionStore.Get(c.Request, middleware.SessionCookieName)
	if err != nil {
		// A stale or foreign cookie cannot be decoded, the store still hands out a fresh session
		utils.LogMessageWithFieldsAndError(c, "warn", "Could not decode existing session cookie", err)
	}
	cookie.Values[middleware.SessionIdValue] = session.ID.String()
	cookie.Values[middleware.UserIdValue] = user.ID.String()
	if err := cookie.Save(c.Request, c.Writer); err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	sessionDto := &schemas.SessionDTO{
		Detail:    "Session login successful.",
		SessionId: session.ID.String(),
		UserId:    user.ID.String(),
		Email:     user.Email,
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
	}
	utils.WriteAndLogResponse(c, sessionDto, http.StatusOK)
}

// SessionLogout destroys the browser session, if there is one, and clears the cookie.
func (handler *AuthHandler) SessionLogout(c *gin.Context) {
	cookie, err := handler.SessionStore.Get(c.Request, middleware.SessionCookieName)
	if err == nil && !cookie.IsNew {
		rawSessionId, _ := cookie.Values[middleware.SessionIdValue].(string)
		if sessionId, parseErr := uuid.Parse(rawSessionId); parseErr == nil {
			if err := handler.SessionManager.Destroy(c, sessionId); err != nil {
				utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
				return
			}
		}
	}

	if cookie != nil {
		cookie.Options.MaxAge = -1
		if err := cookie.Save(c.Request, c.Writer); err != nil {
			utils.LogMessageWithFieldsAndError(c, "warn", "Could not clear session cookie", err)
		}
	}

	utils.WriteAndLogResponse(c, nil, http.StatusNoContent)
}

func writeCredentialError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, managers.ErrMissingCredential):
		utils.WriteAndLogError(c, schemas.MissingCredential, http.StatusBadRequest, err)
	case errors.Is(err, managers.ErrInvalidCredential):
		utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusUnauthorized, err)
	case errors.Is(err, managers.ErrNotVerified):
		utils.WriteAndLogError(c, schemas.UserNotVerified, http.StatusForbidden, err)
	default:
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
	}
}
