package mailer

import (
	"errors"
	"strings"
)

var (
	ErrNoRecipient = errors.New("email job has no recipient")
	ErrNoContent   = errors.New("email job has no template and no body")
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// A job either names a Template rendered with Data, or carries a ready Text
// and/or HTML body.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "report"
	Data     map[string]any `json:"data,omitempty"`
}

// Validate rejects jobs the worker could never deliver.
func (j EmailJob) Validate() error {
	if strings.TrimSpace(j.To) == "" {
		return ErrNoRecipient
	}
	if j.Template == "" && strings.TrimSpace(j.Text) == "" && strings.TrimSpace(j.HTML) == "" {
		return ErrNoContent
	}
	return nil
}
