// Package email provides an email sending client.
//
// It currently uses Resend (resend-go) as the email provider and
// renders HTML bodies from templates embedded into the binary.
package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/storebot/api/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// Client wraps the Resend client and a logger.
type Client struct {
	// client is the provider client used to send emails via API.
	client *resend.Client

	logger *zerolog.Logger
}

// NewClient creates an email Client.
//
// It initializes a Resend client with the API key from config.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return &Client{
		client: resend.NewClient(cfg.Integration.ResendAPIKey),
		logger: logger,
	}
}

// SendEmail sends an email with HTML rendered from an embedded template.
//
// Inputs:
//   - to: recipient email address
//   - subject: email subject line
//   - templateName: which template to use (e.g. "handoff_alert")
//   - data: key/value pairs available inside the template
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	// Templates are embedded at build time, so a missing file here is
	// a programming error rather than a deployment one.
	tmplPath := fmt.Sprintf("templates/%s.html", templateName)

	tmpl, err := template.ParseFS(templateFS, tmplPath)
	if err != nil {
		return errors.Wrapf(err, "failed to parse email template %s", templateName)
	}

	// Execute template with `data` into a buffer (in-memory string builder).
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return errors.Wrapf(err, "failed to execute email template %s", templateName)
	}

	// Construct request for Resend API.
	params := &resend.SendEmailRequest{
		// "From" is the sender identity.
		// Resend may require a verified domain/address.
		From: fmt.Sprintf("%s <%s>", "Storebot", "alerts@resend.dev"),

		To: []string{to},

		Subject: subject,

		// Html is the email body.
		Html: body.String(),
	}

	_, err = c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
