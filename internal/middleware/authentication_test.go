package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaineelPandya/social-book/internal/managers"
	"github.com/JaineelPandya/social-book/internal/managers/mocks"
	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExtractCredential(t *testing.T) {
	tests := []struct {
		header   string
		expected string
	}{
		{"Token abc123", "abc123"},
		{"Bearer abc123", "abc123"},
		{"bearer  abc123 ", "abc123"},
		{"Basic dXNlcjpwYXNz", ""},
		{"abc123", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractCredential(tt.header))
		})
	}
}

type authFixture struct {
	router      *gin.Engine
	sessions    *mocks.MockSessionResolver
	credentials *mocks.MockCredentialManager
	store       sessions.Store
}

func setupAuthentication(requireVerified bool) *authFixture {
	gin.SetMode(gin.TestMode)

	f := &authFixture{
		sessions:    &mocks.MockSessionResolver{},
		credentials: &mocks.MockCredentialManager{},
		store:       CreateSessionStore("test-secret-0123456789abcdef", time.Hour, false),
	}

	f.router = gin.New()
	f.router.GET("/whoami", Authenticate(f.sessions, f.credentials, f.store, requireVerified), func(c *gin.Context) {
		user := Principal(c)
		if user == nil {
			c.JSON(http.StatusOK, gin.H{"principal": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"principal": user.Email})
	})
	f.router.GET("/private", Authenticate(f.sessions, f.credentials, f.store, requireVerified), RequireAuthentication(),
		func(c *gin.Context) { c.Status(http.StatusNoContent) })

	return f
}

func (f *authFixture) sessionCookie(t *testing.T, sessionId string) *http.Cookie {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	session, err := f.store.New(req, SessionCookieName)
	require.NoError(t, err)
	session.Values[SessionIdValue] = sessionId
	require.NoError(t, session.Save(req, rec))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func activeUser(verified bool) *schemas.User {
	return &schemas.User{ID: uuid.New(), Email: "reader@example.com", IsActive: verified, EmailVerified: verified}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body schemas.ErrorDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestAuthenticateAnonymous(t *testing.T) {
	f := setupAuthentication(true)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"principal": ""}`, rec.Body.String())

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, schemas.Unauthorized.Code, errorCode(t, rec))
}

func TestAuthenticateCredential(t *testing.T) {
	f := setupAuthentication(true)
	user := activeUser(true)
	f.credentials.On("Resolve", mock.Anything, "good").Return(user, nil)
	f.credentials.On("Resolve", mock.Anything, "bad").Return(nil, managers.ErrInvalidCredential)
	f.credentials.On("Resolve", mock.Anything, "broken").Return(nil, errors.New("connection reset"))

	tests := []struct {
		name         string
		header       string
		expectedCode int
		errorCode    string
	}{
		{"valid token", "Token good", http.StatusNoContent, ""},
		{"valid bearer", "Bearer good", http.StatusNoContent, ""},
		{"invalid", "Token bad", http.StatusUnauthorized, schemas.InvalidCredentials.Code},
		{"lookup failure", "Token broken", http.StatusInternalServerError, schemas.DatabaseError.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()
			f.router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.errorCode != "" {
				assert.Equal(t, tt.errorCode, errorCode(t, rec))
			}
		})
	}
}

func TestAuthenticateUnverifiedCredential(t *testing.T) {
	user := activeUser(false)

	gated := setupAuthentication(true)
	gated.credentials.On("Resolve", mock.Anything, "fresh").Return(user, nil)
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Token fresh")
	rec := httptest.NewRecorder()
	gated.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, schemas.UserNotVerified.Code, errorCode(t, rec))

	open := setupAuthentication(false)
	open.credentials.On("Resolve", mock.Anything, "fresh").Return(user, nil)
	rec = httptest.NewRecorder()
	open.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthenticateSessionCookie(t *testing.T) {
	f := setupAuthentication(true)
	user := activeUser(true)
	sessionId := uuid.New()
	f.sessions.On("Resolve", mock.Anything, sessionId).Return(user, nil)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(f.sessionCookie(t, sessionId.String()))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	f.credentials.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestAuthenticateExpiredSessionIsCleared(t *testing.T) {
	f := setupAuthentication(true)
	sessionId := uuid.New()
	f.sessions.On("Resolve", mock.Anything, sessionId).Return(nil, managers.ErrInvalidCredential)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(f.sessionCookie(t, sessionId.String()))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"principal": ""}`, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestAuthenticateMalformedSessionId(t *testing.T) {
	f := setupAuthentication(true)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(f.sessionCookie(t, "not-a-uuid"))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	f.sessions.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}
