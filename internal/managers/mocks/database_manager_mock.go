package mocks

import (
	"github.com/JaineelPandya/social-book/internal/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockDatabaseManager is a mock of the DatabaseManager handing out a pgxmock pool.
type MockDatabaseManager struct {
	mock.Mock
}

func (m *MockDatabaseManager) GetPool() interfaces.PgxPoolIface {
	args := m.Called()
	return args.Get(0).(interfaces.PgxPoolIface)
}

func (m *MockDatabaseManager) Close() {
	m.Called()
}
