package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// ReportSection is one heading with its bullet items.
type ReportSection struct {
	Heading string   `json:"Heading"`
	Items   []string `json:"Items"`
}

// ReportData defines the fields available to the report templates.
type ReportData struct {
	Title          string          `json:"Title"`
	Summary        string          `json:"Summary"`
	Sections       []ReportSection `json:"Sections"`
	RecipientEmail string          `json:"RecipientEmail"`

	// Company info
	CompanyName    string `json:"CompanyName"`
	CompanyAddress string `json:"CompanyAddress"`
	AppName        string `json:"AppName"`

	// URLs
	LogoURL        string `json:"LogoURL"`
	SupportURL     string `json:"SupportURL"`
	PrivacyURL     string `json:"PrivacyURL"`
	UnsubscribeURL string `json:"UnsubscribeURL"`

	GeneratedAt     time.Time `json:"GeneratedAt"`
	GeneratedAtText string    `json:"GeneratedAtText"`
	IP              string    `json:"IP"`
	Location        string    `json:"Location"`
}

// ToMap converts ReportData to a map[string]any for EmailJob.Data
func ToMap(d ReportData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() {
			return fallback
		}
		zero := reflect.Zero(rv.Type()).Interface()
		if reflect.DeepEqual(value, zero) {
			return fallback
		}
		return value
	}
}

func baseFuncs() map[string]any {
	return map[string]any{
		"upper":   strings.ToUpper,
		"default": defaultFn,
	}
}

const Report = "report"

var ErrUnknownTemplate = errors.New("unknown email template")

// Every template is parsed once: subject and text parts with text/template,
// html parts with html/template for escaping.
var (
	textTemplates = texttpl.Must(texttpl.New("text").Funcs(texttpl.FuncMap(baseFuncs())).
			ParseFS(FS, "*.subject.tmpl", "*.text.tmpl"))
	htmlTemplates = htmpl.Must(htmpl.New("html").Funcs(htmpl.FuncMap(baseFuncs())).
			ParseFS(FS, "*.html.tmpl"))
)

// Render produces subject, text and html for the template family name,
// backed by <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data any) (subject, text, html string, err error) {
	if textTemplates.Lookup(name+".subject.tmpl") == nil || htmlTemplates.Lookup(name+".html.tmpl") == nil {
		return "", "", "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	var buf bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&buf, name+".subject.tmpl", data); err != nil {
		return "", "", "", fmt.Errorf("exec subject %q: %w", name, err)
	}
	subject = strings.TrimSpace(buf.String())

	buf.Reset()
	if err := textTemplates.ExecuteTemplate(&buf, name+".text.tmpl", data); err != nil {
		return "", "", "", fmt.Errorf("exec text %q: %w", name, err)
	}
	text = buf.String()

	buf.Reset()
	if err := htmlTemplates.ExecuteTemplate(&buf, name+".html.tmpl", data); err != nil {
		return "", "", "", fmt.Errorf("exec html %q: %w", name, err)
	}
	return subject, text, buf.String(), nil
}
