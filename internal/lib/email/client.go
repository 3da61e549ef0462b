// Package email sends notification emails through Resend (resend-go).
//
// Bodies are rendered from HTML templates embedded in the binary,
// with the sprig function library available inside them.
package email

import (
	"context"
	"fmt"

	"github.com/deppfellow/musician-api/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned when no Resend API key is set.
var ErrNotConfigured = errors.New("email: resend api key not configured")

// Client wraps the Resend client and a logger.
type Client struct {
	client *resend.Client
	from   string
	logger *zerolog.Logger
}

// NewClient creates an email Client. The client is inert until
// integration.resend_api_key is set.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	c := &Client{
		from:   fmt.Sprintf("%s <%s>", "Musician API", cfg.Integration.FromEmail),
		logger: logger,
	}
	if cfg.Integration.ResendAPIKey != "" {
		c.client = resend.NewClient(cfg.Integration.ResendAPIKey)
	}
	return c
}

// Enabled reports whether the client can send.
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// SendEmail renders templateName with data and sends it to a single recipient.
func (c *Client) SendEmail(ctx context.Context, to, subject string, templateName Template, data map[string]any) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}

	body, err := Render(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}

	sent, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return errors.Wrap(err, "failed to send email")
	}

	c.logger.Debug().
		Str("email_id", sent.Id).
		Str("template", string(templateName)).
		Msg("email sent")

	return nil
}
