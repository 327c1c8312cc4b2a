// Package flows holds the single-call prompt flows: validate input, render a
// prompt, call the generation service, decode and validate its JSON answer.
package flows

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/agriassist/agriassist-api/internal/ai"
	"github.com/agriassist/agriassist-api/pkg/validation"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.New("prompts").Funcs(template.FuncMap{
	"languageName": LanguageName,
	"join":         strings.Join,
}).ParseFS(promptFS, "prompts/*.tmpl"))

var ErrInvalidOutput = errors.New("model output failed validation")

// ValidationError reports an input that failed validation.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "invalid input: " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// Options selects models and voice used by the flows.
type Options struct {
	Model    string
	TTSModel string
	Voice    string
}

// Flows exposes every prompt flow over a single Generator.
type Flows struct {
	gen      ai.Generator
	opts     Options
	validate *validator.Validate
	logger   *logrus.Logger
}

func New(gen ai.Generator, opts Options, logger *logrus.Logger) *Flows {
	v := validation.New()
	_ = v.RegisterValidation("imageuri", mediaURI("image/"))
	_ = v.RegisterValidation("audiouri", mediaURI("audio/"))
	return &Flows{gen: gen, opts: opts, validate: v, logger: logger}
}

func mediaURI(prefix string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		m, err := ai.ParseDataURI(fl.Field().String())
		return err == nil && strings.HasPrefix(m.MIMEType, prefix)
	}
}

func (f *Flows) checkInput(in any) error {
	if err := f.validate.Struct(in); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// generateJSON runs one schema-constrained call and decodes the answer into T.
func generateJSON[T any](ctx context.Context, f *Flows, promptName string, data any, schema *genai.Schema, media ...ai.Media) (*T, error) {
	prompt, err := render(promptName, data)
	if err != nil {
		return nil, err
	}
	system, err := render("system.tmpl", data)
	if err != nil {
		return nil, err
	}
	res, err := f.gen.Generate(ctx, ai.Request{
		Model:  f.opts.Model,
		System: system,
		Prompt: prompt,
		Media:  media,
		Schema: schema,
	})
	if err != nil {
		return nil, err
	}
	var out T
	if err := decodeJSON(res.Text, &out); err != nil {
		if f.logger != nil {
			f.logger.WithError(err).WithField("prompt", promptName).Warn("undecodable model output")
		}
		return nil, fmt.Errorf("%w: %v", ai.ErrNoOutput, err)
	}
	if err := f.validate.Struct(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return &out, nil
}

// decodeJSON tolerates a markdown code fence around the payload.
func decodeJSON(text string, dst any) error {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("empty body")
	}
	return json.Unmarshal([]byte(s), dst)
}
