// Package mailer contains the outbound mail collaborator and its transports.
// Senders are safe for concurrent use and keep no state between calls.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Transport names accepted by MAIL_TRANSPORT.
const (
	TransportSMTP = "smtp"
	TransportSES  = "ses"
)

var (
	ErrNoRecipient = errors.New("recipient is required")
	ErrNoSender    = errors.New("sender address is required")
)

// Message is a single HTML email.
type Message struct {
	FromAddress string
	FromName    string
	To          string
	ReplyTo     string
	Subject     string
	HTML        string
}

// Validate checks the fields every transport needs.
func (m Message) Validate() error {
	if m.FromAddress == "" {
		return ErrNoSender
	}
	if m.To == "" {
		return ErrNoRecipient
	}
	return nil
}

// Ack is the transport's acceptance receipt for a Message.
type Ack struct {
	MessageID string
	Transport string
}

// Sender dispatches one message. Each call is a network round trip;
// nothing is retried or deduplicated.
type Sender interface {
	Send(ctx context.Context, msg Message) (Ack, error)
}

// SMTPOptions configures an SMTPSender.
type SMTPOptions struct {
	Host               string
	Port               int
	Username           string
	Password           string
	TLSMode            string // "auto" | "starttls" | "ssl" | "none"
	InsecureSkipVerify bool
}

// SESOptions configures an SESSender. Empty keys fall back to the default
// AWS credential chain.
type SESOptions struct {
	Region    string
	AccessKey string
	SecretKey string
}

// Options selects and configures a transport.
type Options struct {
	Transport string
	SMTP      SMTPOptions
	SES       SESOptions
}

// New builds the Sender selected by opts.Transport.
func New(ctx context.Context, opts Options) (Sender, error) {
	switch strings.ToLower(opts.Transport) {
	case "", TransportSMTP:
		return NewSMTPSender(opts.SMTP), nil
	case TransportSES:
		return NewSESSender(ctx, opts.SES)
	default:
		return nil, fmt.Errorf("unsupported mail transport: %s", opts.Transport)
	}
}
