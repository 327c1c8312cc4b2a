package application

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/agriassist/agriassist-api/config"
	"github.com/agriassist/agriassist-api/pkg/geo"
	"github.com/agriassist/agriassist-api/pkg/mailer"
	mailtpl "github.com/agriassist/agriassist-api/pkg/mailer/templates"
	"github.com/agriassist/agriassist-api/pkg/validation"
)

var ErrMailDisabled = errors.New("email delivery is disabled")

// Publisher puts a JSON job on the mail queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type ReportSection struct {
	Heading string   `json:"heading" validate:"required,max=120"`
	Items   []string `json:"items" validate:"required,min=1,max=50,dive,required,max=1000"`
}

type ReportRequest struct {
	To       string          `json:"to" validate:"required,email"`
	Title    string          `json:"title" validate:"required,min=2,max=120"`
	Summary  string          `json:"summary" validate:"max=4000"`
	Sections []ReportSection `json:"sections" validate:"max=20,dive"`
}

type ReportService struct {
	Cfg       *config.Config
	Publisher Publisher
	Geo       geo.Resolver
	Logger    *logrus.Logger
	validate  *validator.Validate
}

func NewReportService(cfg *config.Config, pub Publisher, resolver geo.Resolver, logger *logrus.Logger) *ReportService {
	return &ReportService{Cfg: cfg, Publisher: pub, Geo: resolver, Logger: logger, validate: validation.New()}
}

// Enqueue validates the report and queues it for the email worker.
func (s *ReportService) Enqueue(ctx context.Context, uid, clientIP string, in ReportRequest) error {
	in.To = strings.TrimSpace(in.To)
	if err := s.validate.Struct(in); err != nil {
		return err
	}
	if !s.Cfg.MailSendEnabled || s.Publisher == nil {
		return ErrMailDisabled
	}

	sections := make([]mailtpl.ReportSection, 0, len(in.Sections))
	for _, sec := range in.Sections {
		sections = append(sections, mailtpl.ReportSection{Heading: sec.Heading, Items: sec.Items})
	}
	data := mailtpl.NewReportData(s.Cfg, in.To, in.Title, in.Summary, sections,
		mailtpl.WithIP(clientIP),
		mailtpl.WithGeoFromIP(ctx, s.Geo, clientIP),
	)

	job := mailer.EmailJob{To: in.To, Template: mailtpl.Report, Data: data}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", uid).Error("publish report failed")
		}
		return err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": uid, "title": in.Title}).Info("report queued")
	}
	return nil
}
