package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
)

type MockMailManager struct {
	mock.Mock
}

func (m *MockMailManager) SendActivationMail(email, name, link string) error {
	args := m.Called(email, name, link)
	return args.Error(0)
}

func (m *MockMailManager) SendConfirmationMail(email, name string) error {
	args := m.Called(email, name)
	return args.Error(0)
}

func (m *MockMailManager) SendLoginNotification(email, name, clientIP string, at time.Time) error {
	args := m.Called(email, name, clientIP, at)
	return args.Error(0)
}
