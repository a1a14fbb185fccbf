package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockGlobalStorage is a testify mock of adapter.GlobalStorage.
type MockGlobalStorage struct {
	mock.Mock
}

// NewMockGlobalStorage creates a mock that asserts its expectations when
// the test ends.
func NewMockGlobalStorage(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGlobalStorage {
	mockStorage := &MockGlobalStorage{}
	mockStorage.Mock.Test(t)

	t.Cleanup(func() { mockStorage.AssertExpectations(t) })

	return mockStorage
}

// Value provides a mock function.
func (_m *MockGlobalStorage) Value(key string) (any, bool) {
	ret := _m.Called(key)

	return ret.Get(0), ret.Bool(1)
}

// Insert provides a mock function.
func (_m *MockGlobalStorage) Insert(key string, value any) {
	_m.Called(key, value)
}

// Keys provides a mock function.
func (_m *MockGlobalStorage) Keys() []string {
	ret := _m.Called()

	if ret.Get(0) == nil {
		return nil
	}

	return ret.Get(0).([]string)
}

// Snapshot provides a mock function.
func (_m *MockGlobalStorage) Snapshot() map[string]any {
	ret := _m.Called()

	if ret.Get(0) == nil {
		return nil
	}

	return ret.Get(0).(map[string]any)
}

// Save provides a mock function.
func (_m *MockGlobalStorage) Save() error {
	ret := _m.Called()

	return ret.Error(0)
}
