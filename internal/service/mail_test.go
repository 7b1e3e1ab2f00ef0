package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"mailrelay/internal/mailer"
	mailerMocks "mailrelay/internal/mailer/mocks"
	"mailrelay/internal/model"
	"mailrelay/internal/templates"
)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, sender mailer.Sender, log *zap.Logger) MailService {
	t.Helper()
	r, err := templates.New()
	require.NoError(t, err)
	return NewMailService(sender, r, MailConfig{
		FromAddress:    "team@example.com",
		FromName:       "The Team",
		AdminRecipient: "admin@example.com",
		CompanyName:    "Acme",
		WebsiteURL:     "https://acme.example",
		Now:            func() time.Time { return fixedNow },
	}, log)
}

func to(addr string) interface{} {
	return mock.MatchedBy(func(m mailer.Message) bool { return m.To == addr })
}

func TestMailService_Subscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path sends confirmation then admin notice", func(t *testing.T) {
		mSender := new(mailerMocks.MockSender)
		svc := newTestService(t, mSender, nil)

		var order []string
		mSender.On("Send", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				order = append(order, args.Get(1).(mailer.Message).To)
			}).
			Return(mailer.Ack{MessageID: "id"}, nil)

		err := svc.Subscribe(ctx, model.SubscriptionRequest{Email: "a@b.com", Agreement: true})
		require.NoError(t, err)

		assert.Equal(t, []string{"a@b.com", "admin@example.com"}, order)
		mSender.AssertNumberOfCalls(t, "Send", 2)

		first := mSender.Calls[0].Arguments.Get(1).(mailer.Message)
		assert.Equal(t, SubjectSubscriptionConfirmation, first.Subject)
		assert.Equal(t, "team@example.com", first.FromAddress)
		assert.Equal(t, "The Team", first.FromName)
		assert.Contains(t, first.HTML, "This email was sent to a@b.com")

		second := mSender.Calls[1].Arguments.Get(1).(mailer.Message)
		assert.Equal(t, SubjectSubscriptionAdmin, second.Subject)
		assert.Contains(t, second.HTML, "2026-10-14 09:30:00 UTC")
	})

	t.Run("validation error sends nothing", func(t *testing.T) {
		mSender := new(mailerMocks.MockSender)
		svc := newTestService(t, mSender, nil)

		err := svc.Subscribe(ctx, model.SubscriptionRequest{Email: "a@b.com"})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, MsgAgreementRequired, verr.Message)
		mSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("first send failure aborts the second", func(t *testing.T) {
		mSender := new(mailerMocks.MockSender)
		core, logs := observer.New(zap.WarnLevel)
		svc := newTestService(t, mSender, zap.New(core))

		cause := errors.New("relay down")
		mSender.On("Send", mock.Anything, to("a@b.com")).Return(mailer.Ack{}, cause).Once()

		err := svc.Subscribe(ctx, model.SubscriptionRequest{Email: "a@b.com", Agreement: true})
		var derr *DispatchError
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, StepSubscriberConfirmation, derr.Step)
		assert.ErrorIs(t, err, cause)
		mSender.AssertNumberOfCalls(t, "Send", 1)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "mail dispatch failed", logs.All()[0].Message)
	})

	t.Run("repeated requests send again", func(t *testing.T) {
		mSender := new(mailerMocks.MockSender)
		svc := newTestService(t, mSender, nil)
		mSender.On("Send", mock.Anything, mock.Anything).Return(mailer.Ack{}, nil)

		req := model.SubscriptionRequest{Email: "a@b.com", Agreement: true}
		require.NoError(t, svc.Subscribe(ctx, req))
		require.NoError(t, svc.Subscribe(ctx, req))
		mSender.AssertNumberOfCalls(t, "Send", 4)
	})
}

func TestMailService_Contact(t *testing.T) {
	ctx := context.Background()
	req := model.ContactRequest{Name: "Ann", Email: "a@b.com", Subject: "Pricing", Message: "How much <is> it?"}

	t.Run("happy path notifies admin then acknowledges", func(t *testing.T) {
		mSender := new(mailerMocks.MockSender)
		svc := newTestService(t, mSender, nil)
		mSender.On("Send", mock.Anything, mock.Anything).Return(mailer.Ack{}, nil)

		require.NoError(t, svc.Contact(ctx, req))
		mSender.AssertNumberOfCalls(t, "Send", 2)

		admin := mSender.Calls[0].Arguments.Get(1).(mailer.Message)
		assert.Equal(t, "admin@example.com", admin.To)
		assert.Equal(t, "a@b.com", admin.ReplyTo)
		assert.Equal(t, "Contact Form: Pricing", admin.Subject)
		assert.Contains(t, admin.HTML, "How much &lt;is&gt; it?")

		ack := mSender.Calls[1].Arguments.Get(1).(mailer.Message)
		assert.Equal(t, "a@b.com", ack.To)
		assert.Empty(t, ack.ReplyTo)
		assert.Equal(t, SubjectContactAck, ack.Subject)
		assert.Contains(t, ack.HTML, "Hello Ann,")
	})

	t.Run("second send failure is a dispatch error", func(t *testing.T) {
		mSender := new(mailerMocks.MockSender)
		svc := newTestService(t, mSender, nil)
		mSender.On("Send", mock.Anything, to("admin@example.com")).Return(mailer.Ack{}, nil).Once()
		mSender.On("Send", mock.Anything, to("a@b.com")).Return(mailer.Ack{}, errors.New("rejected")).Once()

		err := svc.Contact(ctx, req)
		var derr *DispatchError
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, StepContactAck, derr.Step)
		assert.True(t, strings.Contains(err.Error(), "rejected"))
		mSender.AssertExpectations(t)
	})

	t.Run("validation error sends nothing", func(t *testing.T) {
		mSender := new(mailerMocks.MockSender)
		svc := newTestService(t, mSender, nil)

		bad := req
		bad.Message = ""
		err := svc.Contact(ctx, bad)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, MsgAllFieldsRequired, verr.Message)
		mSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

type failingRenderer struct{}

func (failingRenderer) Render(name string, data any) (string, error) {
	return "", errors.New("template broken")
}

func TestMailService_RenderFailure(t *testing.T) {
	mSender := new(mailerMocks.MockSender)
	svc := NewMailService(mSender, failingRenderer{}, MailConfig{FromAddress: "team@example.com"}, nil)

	err := svc.Subscribe(context.Background(), model.SubscriptionRequest{Email: "a@b.com", Agreement: true})
	require.Error(t, err)
	var derr *DispatchError
	assert.False(t, errors.As(err, &derr))
	assert.EqualError(t, err, "subscriber_confirmation: template broken")
	mSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}
