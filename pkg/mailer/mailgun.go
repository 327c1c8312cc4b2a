package mailer

import (
	"context"
	"strings"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun sends rendered emails through the Mailgun HTTP API.
type Mailgun struct {
	client  *mg.MailgunImpl
	Sender  string
	Tags    []string
	Timeout time.Duration
}

// NewMailgun builds the client once. apiBase is optional and selects a
// region, e.g. https://api.eu.mailgun.net/v3.
func NewMailgun(domain, apiKey, sender, apiBase string, tags ...string) *Mailgun {
	client := mg.NewMailgun(domain, apiKey)
	if b := strings.TrimSpace(apiBase); b != "" {
		client.SetAPIBase(b)
	}
	return &Mailgun{client: client, Sender: sender, Tags: tags, Timeout: 10 * time.Second}
}

// Send delivers one message. html is optional; text is always set as the
// plain-text part.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	if len(m.Tags) > 0 {
		if err := msg.AddTag(m.Tags...); err != nil {
			return err
		}
	}
	c, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}
