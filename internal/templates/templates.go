// Package templates renders the HTML bodies for outbound email and the
// status page from files embedded in the binary.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

// Template names, one per embedded file.
const (
	SubscriptionConfirmation = "subscription_confirmation.html"
	SubscriptionAdmin        = "subscription_admin.html"
	ContactAdmin             = "contact_admin.html"
	ContactAck               = "contact_ack.html"
	StatusPage               = "status.html"
)

//go:embed html/*.html
var files embed.FS

// EmailData is the view model shared by all email templates.
// Values are escaped by html/template on render.
type EmailData struct {
	Name        string
	Email       string
	Subject     string
	Message     string
	SentAt      string
	Year        int
	CompanyName string
	WebsiteURL  string
}

// Renderer executes the embedded templates. It is read-only after New
// and safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

// New parses every embedded template.
func New() (*Renderer, error) {
	funcs := sprig.HtmlFuncMap()
	funcs["humanBytes"] = humanBytes
	funcs["humanDuration"] = humanDuration

	tmpl, err := template.New("").Funcs(funcs).ParseFS(files, "html/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the named template with data.
func (r *Renderer) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func humanDuration(d time.Duration) string {
	d = d.Round(time.Second)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	if days > 0 {
		return fmt.Sprintf("%dd %s", days, d)
	}
	return d.String()
}
