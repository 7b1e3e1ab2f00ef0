package service

import "mailrelay/internal/model"

// Validation messages returned to API callers.
const (
	MsgEmailRequired     = "Email is required"
	MsgAgreementRequired = "You must agree to the terms"
	MsgAllFieldsRequired = "All fields are required"
)

// ValidateSubscription checks presence only; the address format is not inspected.
func ValidateSubscription(req model.SubscriptionRequest) error {
	if req.Email == "" {
		return &ValidationError{Message: MsgEmailRequired}
	}
	if !req.Agreement {
		return &ValidationError{Message: MsgAgreementRequired}
	}
	return nil
}

// ValidateContact requires all four contact fields.
func ValidateContact(req model.ContactRequest) error {
	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		return &ValidationError{Message: MsgAllFieldsRequired}
	}
	return nil
}
