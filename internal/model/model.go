package model

// Package model contains the request entities accepted by the API.
// They live for a single request/response cycle and are never persisted.

// SubscriptionRequest is the newsletter sign-up payload.
type SubscriptionRequest struct {
	Email     string `json:"email" schema:"email"`
	Agreement Truthy `json:"agreement" schema:"agreement"`
}

// ContactRequest is the contact-form payload.
type ContactRequest struct {
	Name    string `json:"name" schema:"name"`
	Email   string `json:"email" schema:"email"`
	Subject string `json:"subject" schema:"subject"`
	Message string `json:"message" schema:"message"`
}
