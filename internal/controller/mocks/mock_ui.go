package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/breakerb0y/aaropa-calamares/internal/controller"
	"github.com/breakerb0y/aaropa-calamares/internal/domain/selection"
)

// MockUI is a testify mock of controller.UI.
type MockUI struct {
	mock.Mock
}

// NewMockUI creates a mock that asserts its expectations when the test
// ends.
func NewMockUI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUI {
	mockUI := &MockUI{}
	mockUI.Mock.Test(t)

	t.Cleanup(func() { mockUI.AssertExpectations(t) })

	return mockUI
}

// Start provides a mock function.
func (_m *MockUI) Start(ctx context.Context, options ...controller.StartOption) error {
	args := []any{ctx}
	for _, opt := range options {
		args = append(args, opt)
	}

	ret := _m.Called(args...)

	return ret.Error(0)
}

// Close provides a mock function.
func (_m *MockUI) Close(ctx context.Context) {
	_m.Called(ctx)
}

// DisplayTree provides a mock function.
func (_m *MockUI) DisplayTree(ctx context.Context, tree *selection.Tree, summary controller.Summary) error {
	ret := _m.Called(ctx, tree, summary)

	return ret.Error(0)
}

// DisplayDiff provides a mock function.
func (_m *MockUI) DisplayDiff(ctx context.Context, name, diff string) error {
	ret := _m.Called(ctx, name, diff)

	return ret.Error(0)
}

// Choose provides a mock function.
func (_m *MockUI) Choose(ctx context.Context, session controller.Session) (bool, error) {
	ret := _m.Called(ctx, session)

	if fn, ok := ret.Get(0).(func(context.Context, controller.Session) bool); ok {
		return fn(ctx, session), ret.Error(1)
	}

	return ret.Bool(0), ret.Error(1)
}
