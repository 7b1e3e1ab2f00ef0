package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mailrelay/docs"
	"mailrelay/internal/config"
	handlers "mailrelay/internal/http/handler"
	"mailrelay/internal/http/middleware"
	"mailrelay/internal/logger"
	"mailrelay/internal/mailer"
	"mailrelay/internal/otel"
	"mailrelay/internal/service"
	"mailrelay/internal/status"
	"mailrelay/internal/templates"
)

// @title Mail Relay API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()

	log := logger.NewStdout(cfg.LogLevel, loc)
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// One sender is shared by every request; it keeps no per-call state
	transport, err := mailer.New(ctx, mailer.Options{
		Transport: cfg.Mail.Transport,
		SMTP: mailer.SMTPOptions{
			Host:               cfg.Mail.SMTP.Host,
			Port:               cfg.Mail.SMTP.Port,
			Username:           cfg.Mail.User,
			Password:           cfg.Mail.Password,
			TLSMode:            cfg.Mail.SMTP.TLSMode,
			InsecureSkipVerify: cfg.Mail.SMTP.InsecureSkipVerify,
		},
		SES: mailer.SESOptions{
			Region:    cfg.Mail.SES.Region,
			AccessKey: cfg.Mail.SES.AccessKey,
			SecretKey: cfg.Mail.SES.SecretKey,
		},
	})
	if err != nil {
		log.Fatal("failed to initialize mail transport", zap.Error(err))
	}
	sender, err := mailer.Instrumented(transport, cfg.Mail.Transport, reg)
	if err != nil {
		log.Fatal("failed to register mail metrics", zap.Error(err))
	}

	renderer, err := templates.New()
	if err != nil {
		log.Fatal("failed to parse templates", zap.Error(err))
	}

	mailSvc := service.NewMailService(sender, renderer, service.MailConfig{
		FromAddress:    cfg.Mail.FromAddress,
		FromName:       cfg.Mail.FromName,
		AdminRecipient: cfg.Mail.AdminAddress(),
		CompanyName:    cfg.Branding.CompanyName,
		WebsiteURL:     cfg.Branding.WebsiteURL,
		Location:       loc,
	}, log.Named("mail"))

	var reporter handlers.StatusReporter
	if cfg.StatusPageEnabled {
		reporter = status.NewReporter(loc)
	}

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal("failed to register http metrics", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(log.Named("http")))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, mailSvc, reporter, renderer, log.Named("http"))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error("tracing shutdown failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server running", zap.String("addr", addr), zap.String("mail_transport", cfg.Mail.Transport))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
