package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"doclingo/internal/future"
	"doclingo/internal/port"
)

// MockTransport is a mock implementation of port.Transport.
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Execute(ctx context.Context, req *port.Request) (*port.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.Response), args.Error(1)
}

func (m *MockTransport) ExecuteAsync(ctx context.Context, req *port.Request) *future.Future[*port.Response] {
	args := m.Called(ctx, req)
	return args.Get(0).(*future.Future[*port.Response])
}

func (m *MockTransport) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockTransport) Close() error {
	args := m.Called()
	return args.Error(0)
}
