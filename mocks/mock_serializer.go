package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockSerializer is a mock implementation of port.Serializer.
type MockSerializer struct {
	mock.Mock
}

func (m *MockSerializer) Marshal(v any) ([]byte, error) {
	args := m.Called(v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSerializer) Unmarshal(data []byte, v any) error {
	args := m.Called(data, v)
	return args.Error(0)
}

func (m *MockSerializer) Name() string {
	args := m.Called()
	return args.String(0)
}
