package mocks

import (
	"context"

	"mailrelay/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockMailService struct {
	mock.Mock
}

func (m *MockMailService) Subscribe(ctx context.Context, req model.SubscriptionRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockMailService) Contact(ctx context.Context, req model.ContactRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
