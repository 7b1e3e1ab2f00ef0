package config

import (
	"os"
	"strconv"
	"time"
)

// SMTPConfig holds settings for the SMTP transport.
type SMTPConfig struct {
	Host               string
	Port               int
	TLSMode            string // "auto" | "starttls" | "ssl" | "none"
	InsecureSkipVerify bool
}

// SESConfig holds settings for the AWS SES v2 transport.
// Empty keys fall back to the default AWS credential chain.
type SESConfig struct {
	Region    string
	AccessKey string
	SecretKey string
}

// MailConfig groups the mail account and transport settings.
type MailConfig struct {
	Transport      string // "smtp" | "ses"
	User           string
	Password       string
	FromAddress    string
	FromName       string
	AdminRecipient string
	SMTP           SMTPConfig
	SES            SESConfig
}

// AdminAddress returns the address that receives operational notifications.
// ADMIN_EMAIL wins when set; otherwise notices go to the sender address.
func (m MailConfig) AdminAddress() string {
	if m.AdminRecipient != "" {
		return m.AdminRecipient
	}
	return m.FromAddress
}

// BrandingConfig holds values rendered into outbound emails.
type BrandingConfig struct {
	CompanyName string
	WebsiteURL  string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port              string
	Timezone          string
	LogLevel          string
	StatusPageEnabled bool
	Mail              MailConfig
	Branding          BrandingConfig
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	user := getEnv("EMAIL_USER", "")
	return &AppConfig{
		Port:              getEnv("PORT", "3000"),
		Timezone:          getEnv("APP_TIMEZONE", "UTC"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		StatusPageEnabled: getEnvBool("STATUS_PAGE_ENABLED", true),
		Mail: MailConfig{
			Transport:      getEnv("MAIL_TRANSPORT", "smtp"),
			User:           user,
			Password:       getEnv("EMAIL_PASSWORD", ""),
			FromAddress:    getEnv("MAIL_FROM", user),
			FromName:       getEnv("MAIL_FROM_NAME", ""),
			AdminRecipient: getEnv("ADMIN_EMAIL", ""),
			SMTP: SMTPConfig{
				Host:               getEnv("SMTP_HOST", "smtp.gmail.com"),
				Port:               getEnvInt("SMTP_PORT", 587),
				TLSMode:            getEnv("SMTP_TLS_MODE", "auto"),
				InsecureSkipVerify: getEnvBool("SMTP_INSECURE_SKIP_VERIFY", false),
			},
			SES: SESConfig{
				Region:    getEnv("SES_REGION", "us-east-1"),
				AccessKey: getEnv("SES_ACCESS_KEY", ""),
				SecretKey: getEnv("SES_SECRET_KEY", ""),
			},
		},
		Branding: BrandingConfig{
			CompanyName: getEnv("COMPANY_NAME", "Your Company"),
			WebsiteURL:  getEnv("WEBSITE_URL", "#"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
