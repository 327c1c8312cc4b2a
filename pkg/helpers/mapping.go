package helpers

import (
	"fmt"
	"strings"

	"github.com/agriassist/agriassist-api/pkg/mailer"
	mailtpl "github.com/agriassist/agriassist-api/pkg/mailer/templates"
)

// EnsureRecipient copies job.To into the template data when missing.
func EnsureRecipient(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || v == nil || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// FallbackSubject is used for raw jobs that carry neither a subject nor a template.
func FallbackSubject(job *mailer.EmailJob) string {
	if s := strings.TrimSpace(job.Subject); s != "" {
		return s
	}
	if t, ok := job.Data["Title"]; ok && t != nil && fmt.Sprintf("%v", t) != "" {
		return fmt.Sprintf("%v", t)
	}
	if strings.EqualFold(job.Template, mailtpl.Report) {
		return "Your AgriAssist report"
	}
	return "AgriAssist notification"
}
