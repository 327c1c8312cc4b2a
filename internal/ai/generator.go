package ai

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

var (
	ErrNoOutput      = errors.New("model returned no output")
	ErrNotConfigured = errors.New("generation service not configured")
)

// Media is binary content sent to or received from the model.
type Media struct {
	MIMEType string
	Data     []byte
}

// Request is a single generation call. Schema switches the model to JSON mode.
type Request struct {
	Model              string
	System             string
	Prompt             string
	Media              []Media
	Schema             *genai.Schema
	ResponseModalities []string
	Voice              string
	Temperature        *float32
}

// Response carries whatever the model produced: text for text/JSON calls,
// Audio for speech synthesis.
type Response struct {
	Text  string
	Audio *Media
}

// Generator talks to the hosted generation service.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}
