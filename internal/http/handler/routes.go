package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mailrelay/internal/model"
	"mailrelay/internal/service"
	"mailrelay/internal/status"
	"mailrelay/internal/templates"
)

// StatusReporter collects host diagnostics.
type StatusReporter interface {
	Collect(ctx context.Context) (*status.Snapshot, error)
}

// PageRenderer renders an HTML page by template name.
type PageRenderer interface {
	Render(name string, data any) (string, error)
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// A nil reporter leaves the status routes unregistered.
func RegisterRoutes(app *fiber.App, mailSvc service.MailService, reporter StatusReporter, pages PageRenderer, log *zap.Logger) {
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	api.Post("/subscribe", Subscribe(mailSvc, log))
	api.Post("/contact", Contact(mailSvc, log))

	if reporter != nil {
		app.Get("/", StatusPage(reporter, pages, log))
		app.Get("/status", StatusJSON(reporter, log))
	}
}

// LivenessProbe answers 200 while the process is serving.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Subscribe handles POST /api/subscribe.
func Subscribe(svc service.MailService, log *zap.Logger) fiber.Handler {
	log = orNop(log)
	return func(c *fiber.Ctx) error {
		var req model.SubscriptionRequest
		if err := bindBody(c, &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, MsgInvalidBody)
		}

		if err := svc.Subscribe(c.UserContext(), req); err != nil {
			var verr *service.ValidationError
			if errors.As(err, &verr) {
				return writeError(c, fiber.StatusBadRequest, verr.Message)
			}
			log.Error("newsletter subscription error",
				zap.String("request_id", requestIDFromCtx(c)),
				zap.Error(err),
			)
			return writeError(c, fiber.StatusInternalServerError, MsgSubscriptionFailed)
		}
		return writeSuccess(c, "Subscription successful")
	}
}

// Contact handles POST /api/contact.
func Contact(svc service.MailService, log *zap.Logger) fiber.Handler {
	log = orNop(log)
	return func(c *fiber.Ctx) error {
		var req model.ContactRequest
		if err := bindBody(c, &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, MsgInvalidBody)
		}

		if err := svc.Contact(c.UserContext(), req); err != nil {
			var verr *service.ValidationError
			if errors.As(err, &verr) {
				return writeError(c, fiber.StatusBadRequest, verr.Message)
			}
			log.Error("contact form error",
				zap.String("request_id", requestIDFromCtx(c)),
				zap.Error(err),
			)
			return writeError(c, fiber.StatusInternalServerError, MsgContactFailed)
		}
		return writeSuccess(c, "Message sent successfully")
	}
}

// StatusPage handles GET / with an HTML diagnostics page.
func StatusPage(reporter StatusReporter, pages PageRenderer, log *zap.Logger) fiber.Handler {
	log = orNop(log)
	return func(c *fiber.Ctx) error {
		snap, err := reporter.Collect(c.UserContext())
		if err != nil {
			log.Error("status collection failed", zap.String("request_id", requestIDFromCtx(c)), zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, MsgStatusUnavailable)
		}
		html, err := pages.Render(templates.StatusPage, snap)
		if err != nil {
			log.Error("status render failed", zap.String("request_id", requestIDFromCtx(c)), zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, MsgStatusUnavailable)
		}
		return c.Type("html").SendString(html)
	}
}

// StatusJSON handles GET /status with the same snapshot as JSON.
func StatusJSON(reporter StatusReporter, log *zap.Logger) fiber.Handler {
	log = orNop(log)
	return func(c *fiber.Ctx) error {
		snap, err := reporter.Collect(c.UserContext())
		if err != nil {
			log.Error("status collection failed", zap.String("request_id", requestIDFromCtx(c)), zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, MsgStatusUnavailable)
		}
		return c.JSON(snap)
	}
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
