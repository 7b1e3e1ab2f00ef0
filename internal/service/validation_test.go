package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailrelay/internal/model"
)

func TestValidateSubscription(t *testing.T) {
	tests := []struct {
		name    string
		req     model.SubscriptionRequest
		wantMsg string
	}{
		{name: "valid", req: model.SubscriptionRequest{Email: "a@b.com", Agreement: true}},
		{name: "missing email", req: model.SubscriptionRequest{Agreement: true}, wantMsg: MsgEmailRequired},
		{name: "missing email and agreement", req: model.SubscriptionRequest{}, wantMsg: MsgEmailRequired},
		{name: "no agreement", req: model.SubscriptionRequest{Email: "a@b.com"}, wantMsg: MsgAgreementRequired},
		{name: "email format not checked", req: model.SubscriptionRequest{Email: "not-an-email", Agreement: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubscription(tt.req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantMsg, verr.Message)
		})
	}
}

func TestValidateContact(t *testing.T) {
	full := model.ContactRequest{Name: "Ann", Email: "a@b.com", Subject: "Hi", Message: "Hello"}
	assert.NoError(t, ValidateContact(full))

	missing := []func(r *model.ContactRequest){
		func(r *model.ContactRequest) { r.Name = "" },
		func(r *model.ContactRequest) { r.Email = "" },
		func(r *model.ContactRequest) { r.Subject = "" },
		func(r *model.ContactRequest) { r.Message = "" },
	}
	for _, clear := range missing {
		req := full
		clear(&req)
		err := ValidateContact(req)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, MsgAllFieldsRequired, verr.Message)
	}
}
