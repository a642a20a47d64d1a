package mocks

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
)

// MockJwtManager is a mock of the JWTManager.
// It is used to simulate signing failures in tests.
type MockJwtManager struct {
	mock.Mock
}

// GenerateClaims returns the claims configured for the call.
func (m *MockJwtManager) GenerateClaims(userId, tokenId string, ttl time.Duration) jwt.Claims {
	args := m.Called(userId, tokenId, ttl)
	return args.Get(0).(jwt.Claims)
}

// GenerateJWT returns a mock JWT string and an optional error, simulating the behavior of JWT generation in tests.
func (m *MockJwtManager) GenerateJWT(claims jwt.Claims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

// ValidateJWT returns the configured claims, or nil together with the configured error.
func (m *MockJwtManager) ValidateJWT(tokenString string) (*jwt.RegisteredClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*jwt.RegisteredClaims)
	return claims, args.Error(1)
}
