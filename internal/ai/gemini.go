package ai

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models used by Gemini.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini implements Generator on top of the Gemini API.
type Gemini struct {
	models       contentGenerator
	DefaultModel string
	Logger       *logrus.Logger
}

// NewGemini builds a Gemini API client. An empty apiKey yields ErrNotConfigured.
func NewGemini(ctx context.Context, apiKey, defaultModel string, logger *logrus.Logger) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Gemini{models: client.Models, DefaultModel: defaultModel, Logger: logger}, nil
}

func (g *Gemini) Generate(ctx context.Context, req Request) (*Response, error) {
	if g == nil || g.models == nil {
		return nil, ErrNotConfigured
	}
	model := req.Model
	if model == "" {
		model = g.DefaultModel
	}

	parts := make([]*genai.Part, 0, len(req.Media)+1)
	if req.Prompt != "" {
		parts = append(parts, genai.NewPartFromText(req.Prompt))
	}
	for _, m := range req.Media {
		parts = append(parts, genai.NewPartFromBytes(m.Data, m.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	start := time.Now()
	res, err := g.models.GenerateContent(ctx, model, contents, buildConfig(req))
	if g.Logger != nil {
		entry := g.Logger.WithFields(logrus.Fields{"model": model, "duration_ms": time.Since(start).Milliseconds()})
		if err != nil {
			entry.WithError(err).Warn("generate content failed")
		} else {
			entry.Debug("generate content")
		}
	}
	if err != nil {
		return nil, err
	}
	return extract(res)
}

func buildConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{Temperature: req.Temperature}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}
	if len(req.ResponseModalities) > 0 {
		cfg.ResponseModalities = req.ResponseModalities
	}
	if req.Voice != "" {
		cfg.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: req.Voice},
			},
		}
	}
	return cfg
}

// extract concatenates text parts of the first candidate and picks up the
// first inline blob as audio.
func extract(res *genai.GenerateContentResponse) (*Response, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return nil, ErrNoOutput
	}
	out := &Response{}
	var sb strings.Builder
	for _, p := range res.Candidates[0].Content.Parts {
		if p == nil {
			continue
		}
		if p.Text != "" && !p.Thought {
			sb.WriteString(p.Text)
		}
		if p.InlineData != nil && out.Audio == nil && len(p.InlineData.Data) > 0 {
			out.Audio = &Media{MIMEType: p.InlineData.MIMEType, Data: p.InlineData.Data}
		}
	}
	out.Text = strings.TrimSpace(sb.String())
	if out.Text == "" && out.Audio == nil {
		return nil, ErrNoOutput
	}
	return out, nil
}
