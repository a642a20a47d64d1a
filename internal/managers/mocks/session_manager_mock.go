package mocks

import (
	"context"

	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSessionResolver mocks the session lookup of the session manager.
type MockSessionResolver struct {
	mock.Mock
}

func (m *MockSessionResolver) Resolve(ctx context.Context, sessionId uuid.UUID) (*schemas.User, error) {
	args := m.Called(ctx, sessionId)
	user, _ := args.Get(0).(*schemas.User)
	return user, args.Error(1)
}
