package mocks

import (
	"context"

	"mailrelay/internal/mailer"

	"github.com/stretchr/testify/mock"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg mailer.Message) (mailer.Ack, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(mailer.Ack), args.Error(1)
}
