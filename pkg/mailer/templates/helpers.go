package templates

import (
	"context"
	"strings"
	"time"

	"github.com/agriassist/agriassist-api/config"
	"github.com/agriassist/agriassist-api/pkg/geo"
)

const timeLayout = "02 January 2006, 15:04"

// Option pattern
type Option func(*ReportData)

func WithIP(ip string) Option { return func(d *ReportData) { d.IP = ip } }

func WithTime(t time.Time) Option {
	return func(d *ReportData) {
		utc := t.UTC()
		d.GeneratedAt = utc
		d.GeneratedAtText = utc.Format(timeLayout)
	}
}

func setLocation(d *ReportData, loc string) {
	if s := strings.TrimSpace(loc); s != "" {
		d.Location = s
	}
}

func WithLocation(loc string) Option {
	return func(d *ReportData) { setLocation(d, loc) }
}

func WithGeoFromIP(ctx context.Context, r geo.Resolver, ip string) Option {
	return func(d *ReportData) {
		if r == nil || strings.TrimSpace(ip) == "" {
			return
		}
		if g, err := r.Lookup(ctx, ip); err == nil {
			setLocation(d, geo.Format(g))
		}
	}
}

// NewReportData fills the common fields from config, then applies opts.
func NewReportData(cfg *config.Config, to, title, summary string, sections []ReportSection, opts ...Option) map[string]any {
	d := ReportData{
		Title:          title,
		Summary:        summary,
		Sections:       sections,
		RecipientEmail: to,

		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,

		LogoURL:        cfg.LogoURL,
		SupportURL:     cfg.SupportURL,
		PrivacyURL:     cfg.PrivacyURL,
		UnsubscribeURL: cfg.UnsubscribeURL,
	}
	WithTime(time.Now())(&d)
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}
