package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"mailrelay/internal/mailer"
	"mailrelay/internal/model"
	"mailrelay/internal/templates"
)

// Subjects of the outbound emails.
const (
	SubjectSubscriptionConfirmation = "Newsletter Subscription Confirmation"
	SubjectSubscriptionAdmin        = "New Newsletter Subscription"
	SubjectContactAdminPrefix       = "Contact Form: "
	SubjectContactAck               = "We received your message"
)

// Dispatch steps reported in DispatchError.Step.
const (
	StepSubscriberConfirmation = "subscriber_confirmation"
	StepSubscriptionAdmin      = "subscription_admin_notification"
	StepContactAdmin           = "contact_admin_notification"
	StepContactAck             = "contact_acknowledgement"
)

const sentAtLayout = "2006-01-02 15:04:05 MST"

var tracer = otel.Tracer("mailrelay/internal/service")

// Renderer turns a named template and view model into an HTML body.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// MailConfig is the dispatcher's explicit configuration. AdminRecipient is
// the resolved notification address (see config.MailConfig.AdminAddress).
type MailConfig struct {
	FromAddress    string
	FromName       string
	AdminRecipient string
	CompanyName    string
	WebsiteURL     string
	Location       *time.Location
	Now            func() time.Time
}

// MailService defines the newsletter and contact use cases.
type MailService interface {
	// Subscribe validates req, confirms to the subscriber, then notifies the admin.
	Subscribe(ctx context.Context, req model.SubscriptionRequest) error

	// Contact validates req, notifies the admin, then acknowledges the submitter.
	Contact(ctx context.Context, req model.ContactRequest) error
}

// mailService is a concrete implementation of MailService.
type mailService struct {
	sender   mailer.Sender
	renderer Renderer
	cfg      MailConfig
	log      *zap.Logger
}

// NewMailService constructs a new MailService.
func NewMailService(sender mailer.Sender, renderer Renderer, cfg MailConfig, log *zap.Logger) MailService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &mailService{sender: sender, renderer: renderer, cfg: cfg, log: log}
}

func (s *mailService) Subscribe(ctx context.Context, req model.SubscriptionRequest) error {
	if err := ValidateSubscription(req); err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "MailService.Subscribe")
	defer span.End()

	data := s.viewData()
	data.Email = req.Email

	return s.dispatch(ctx, span, []outbound{
		{
			step:     StepSubscriberConfirmation,
			template: templates.SubscriptionConfirmation,
			to:       req.Email,
			subject:  SubjectSubscriptionConfirmation,
		},
		{
			step:     StepSubscriptionAdmin,
			template: templates.SubscriptionAdmin,
			to:       s.cfg.AdminRecipient,
			subject:  SubjectSubscriptionAdmin,
		},
	}, data)
}

func (s *mailService) Contact(ctx context.Context, req model.ContactRequest) error {
	if err := ValidateContact(req); err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "MailService.Contact")
	defer span.End()

	data := s.viewData()
	data.Name = req.Name
	data.Email = req.Email
	data.Subject = req.Subject
	data.Message = req.Message

	return s.dispatch(ctx, span, []outbound{
		{
			step:     StepContactAdmin,
			template: templates.ContactAdmin,
			to:       s.cfg.AdminRecipient,
			replyTo:  req.Email,
			subject:  SubjectContactAdminPrefix + req.Subject,
		},
		{
			step:     StepContactAck,
			template: templates.ContactAck,
			to:       req.Email,
			subject:  SubjectContactAck,
		},
	}, data)
}

type outbound struct {
	step     string
	template string
	to       string
	replyTo  string
	subject  string
}

// dispatch renders and sends each message in order, stopping at the first failure.
func (s *mailService) dispatch(ctx context.Context, span trace.Span, msgs []outbound, data templates.EmailData) error {
	for _, o := range msgs {
		html, err := s.renderer.Render(o.template, data)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "render failed")
			return fmt.Errorf("%s: %w", o.step, err)
		}

		ack, err := s.sender.Send(ctx, mailer.Message{
			FromAddress: s.cfg.FromAddress,
			FromName:    s.cfg.FromName,
			To:          o.to,
			ReplyTo:     o.replyTo,
			Subject:     o.subject,
			HTML:        html,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "dispatch failed")
			s.log.Warn("mail dispatch failed", zap.String("step", o.step), zap.Error(err))
			return &DispatchError{Step: o.step, Err: err}
		}

		span.AddEvent("mail.sent", trace.WithAttributes(
			attribute.String("mail.step", o.step),
			attribute.String("mail.transport", ack.Transport),
			attribute.String("mail.message_id", ack.MessageID),
		))
		s.log.Debug("mail dispatched",
			zap.String("step", o.step),
			zap.String("transport", ack.Transport),
			zap.String("message_id", ack.MessageID),
		)
	}
	return nil
}

func (s *mailService) viewData() templates.EmailData {
	now := s.cfg.Now().In(s.cfg.Location)
	return templates.EmailData{
		SentAt:      now.Format(sentAtLayout),
		Year:        now.Year(),
		CompanyName: s.cfg.CompanyName,
		WebsiteURL:  s.cfg.WebsiteURL,
	}
}
