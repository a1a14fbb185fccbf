package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	m "github.com/breakerb0y/aaropa-calamares/internal/model"
)

// MockDefinitionLoader is a testify mock of adapter.DefinitionLoader.
type MockDefinitionLoader struct {
	mock.Mock
}

// NewMockDefinitionLoader creates a mock that asserts its expectations when
// the test ends.
func NewMockDefinitionLoader(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDefinitionLoader {
	mockLoader := &MockDefinitionLoader{}
	mockLoader.Mock.Test(t)

	t.Cleanup(func() { mockLoader.AssertExpectations(t) })

	return mockLoader
}

// Load provides a mock function.
func (_m *MockDefinitionLoader) Load(ctx context.Context, path m.Path) ([]m.GroupDefinition, error) {
	ret := _m.Called(ctx, path)

	var groups []m.GroupDefinition
	if fn, ok := ret.Get(0).(func(context.Context, m.Path) []m.GroupDefinition); ok {
		groups = fn(ctx, path)
	} else if ret.Get(0) != nil {
		groups = ret.Get(0).([]m.GroupDefinition)
	}

	return groups, ret.Error(1)
}

// LoadAll provides a mock function.
func (_m *MockDefinitionLoader) LoadAll(ctx context.Context, paths []m.Path) ([][]m.GroupDefinition, error) {
	ret := _m.Called(ctx, paths)

	var groups [][]m.GroupDefinition
	if fn, ok := ret.Get(0).(func(context.Context, []m.Path) [][]m.GroupDefinition); ok {
		groups = fn(ctx, paths)
	} else if ret.Get(0) != nil {
		groups = ret.Get(0).([][]m.GroupDefinition)
	}

	return groups, ret.Error(1)
}
