package mocks

import (
	"context"

	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/stretchr/testify/mock"
)

type MockCredentialManager struct {
	mock.Mock
}

func (m *MockCredentialManager) Issue(ctx context.Context, user *schemas.User) (string, *schemas.Credential, error) {
	args := m.Called(ctx, user)
	credential, _ := args.Get(1).(*schemas.Credential)
	return args.String(0), credential, args.Error(2)
}

func (m *MockCredentialManager) Resolve(ctx context.Context, credential string) (*schemas.User, error) {
	args := m.Called(ctx, credential)
	user, _ := args.Get(0).(*schemas.User)
	return user, args.Error(1)
}

func (m *MockCredentialManager) Revoke(ctx context.Context, credential string) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}
