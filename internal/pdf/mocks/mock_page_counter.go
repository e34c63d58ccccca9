package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockPageCounter struct {
	mock.Mock
}

func (m *MockPageCounter) Count(data []byte) (int, error) {
	args := m.Called(data)
	return args.Int(0), args.Error(1)
}
