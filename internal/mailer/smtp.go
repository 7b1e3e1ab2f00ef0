package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	mail "github.com/go-mail/mail"
	"github.com/google/uuid"
)

type smtpDialer interface {
	DialAndSend(m ...*mail.Message) error
}

// SMTPSender sends mail through an authenticated SMTP relay.
type SMTPSender struct {
	dialer smtpDialer
	host   string
}

// NewSMTPSender creates an SMTPSender for the given relay and account.
func NewSMTPSender(cfg SMTPOptions) *SMTPSender {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	switch cfg.TLSMode {
	case "ssl":
		d.SSL = true
	case "starttls":
		d.StartTLSPolicy = mail.MandatoryStartTLS
	case "none":
		d.TLSConfig = &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}
		d.StartTLSPolicy = mail.NoStartTLS
	default:
		// "auto": go-mail negotiates STARTTLS when the server offers it
	}

	return &SMTPSender{dialer: d, host: cfg.Host}
}

// Send implements Sender.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (Ack, error) {
	if err := msg.Validate(); err != nil {
		return Ack{}, err
	}
	// go-mail has no context support; honour cancellation before dialing.
	if err := ctx.Err(); err != nil {
		return Ack{}, err
	}

	id := messageID(msg.FromAddress, s.host)

	m := mail.NewMessage()
	if msg.FromName != "" {
		m.SetAddressHeader("From", msg.FromAddress, msg.FromName)
	} else {
		m.SetHeader("From", msg.FromAddress)
	}
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", id)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return Ack{}, fmt.Errorf("smtp send: %w", err)
	}
	return Ack{MessageID: id, Transport: TransportSMTP}, nil
}

// messageID builds an RFC 5322 Message-ID using the sender's domain.
func messageID(from, fallbackHost string) string {
	domain := fallbackHost
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		domain = from[i+1:]
	}
	if domain == "" {
		domain = "localhost"
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
