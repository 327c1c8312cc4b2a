package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/agriassist/agriassist-api/pkg/geo"
	"github.com/agriassist/agriassist-api/pkg/helpers"
	"github.com/agriassist/agriassist-api/pkg/mailer"
	mailtpl "github.com/agriassist/agriassist-api/pkg/mailer/templates"
)

// outcome tells the consumer loop what to do with a delivery.
type outcome int

const (
	ack     outcome = iota
	drop            // nack without requeue
	requeue         // nack and requeue
)

type sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

type worker struct {
	mail     sender
	resolver geo.Resolver
	logger   *logrus.Logger
	timeout  time.Duration
}

// handle decodes, renders and sends one queued job.
func (w *worker) handle(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		helpers.LogError(w.logger, "bad message", err, nil)
		return drop
	}
	if err := job.Validate(); err != nil {
		helpers.LogError(w.logger, "bad message", err, nil)
		return drop
	}

	helpers.EnsureRecipient(&job)
	helpers.LocalizeTimesIfPossible(ctx, w.resolver, job.Data)

	subject, text, html, err := w.render(&job)
	if err != nil {
		helpers.LogError(w.logger, "render failed", err, logrus.Fields{"template": job.Template, "to": job.To})
		return drop
	}

	timeout := w.timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.mail.Send(c, job.To, subject, text, html); err != nil {
		helpers.LogError(w.logger, "send failed", err, logrus.Fields{"to": job.To})
		return requeue
	}
	helpers.LogInfo(w.logger, "email sent", logrus.Fields{"to": job.To, "template": job.Template})
	return ack
}

func (w *worker) render(job *mailer.EmailJob) (string, string, string, error) {
	if job.Template != "" {
		return mailtpl.Render(job.Template, job.Data)
	}
	return helpers.FallbackSubject(job), job.Text, job.HTML, nil
}
