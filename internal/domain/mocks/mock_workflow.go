package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/breakerb0y/aaropa-calamares/internal/domain"
)

// MockWorkflow is a testify mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a mock that asserts its expectations when the
// test ends.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	mockWorkflow := &MockWorkflow{}
	mockWorkflow.Mock.Test(t)

	t.Cleanup(func() { mockWorkflow.AssertExpectations(t) })

	return mockWorkflow
}

// Show provides a mock function.
func (_m *MockWorkflow) Show(ctx context.Context, args domain.ShowArgs) error {
	ret := _m.Called(ctx, args)

	return ret.Error(0)
}

// Choose provides a mock function.
func (_m *MockWorkflow) Choose(ctx context.Context, args domain.ChooseArgs) error {
	ret := _m.Called(ctx, args)

	return ret.Error(0)
}

// Apply provides a mock function.
func (_m *MockWorkflow) Apply(ctx context.Context, args domain.ApplyArgs) error {
	ret := _m.Called(ctx, args)

	return ret.Error(0)
}
