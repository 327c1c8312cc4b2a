package flows

import (
	"context"
	"fmt"

	"github.com/agriassist/agriassist-api/internal/ai"
	"github.com/agriassist/agriassist-api/internal/ai/audio"
)

type VoiceChatInput struct {
	AudioDataURI string `json:"audioDataUri" validate:"required,audiouri"`
	Language     string `json:"language,omitempty" validate:"omitempty,lang"`
}

type VoiceChatOutput struct {
	Transcript   string `json:"transcript"`
	Reply        string `json:"reply"`
	AudioDataURI string `json:"audioDataUri"`
}

// VoiceChat transcribes a spoken question, answers it and speaks the answer
// back as a base64 WAV data URI.
func (f *Flows) VoiceChat(ctx context.Context, in VoiceChatInput) (*VoiceChatOutput, error) {
	in.Language = langOrDefault(in.Language)
	if err := f.checkInput(in); err != nil {
		return nil, err
	}
	clip, err := ai.ParseDataURI(in.AudioDataURI)
	if err != nil {
		return nil, &ValidationError{Err: err}
	}

	transcript, err := f.transcribe(ctx, in, clip)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	answer, err := f.Chat(ctx, ChatInput{Message: transcript, Language: in.Language})
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}

	speech, err := f.synthesize(ctx, answer.Reply)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	return &VoiceChatOutput{
		Transcript:   transcript,
		Reply:        answer.Reply,
		AudioDataURI: ai.EncodeDataURI("audio/wav", audio.EncodeVoiceWAV(speech)),
	}, nil
}

func (f *Flows) transcribe(ctx context.Context, in VoiceChatInput, clip ai.Media) (string, error) {
	prompt, err := render("transcribe.tmpl", in)
	if err != nil {
		return "", err
	}
	res, err := f.gen.Generate(ctx, ai.Request{Model: f.opts.Model, Prompt: prompt, Media: []ai.Media{clip}})
	if err != nil {
		return "", err
	}
	if res.Text == "" {
		return "", ai.ErrNoOutput
	}
	return res.Text, nil
}

// synthesize returns raw PCM for text.
func (f *Flows) synthesize(ctx context.Context, text string) ([]byte, error) {
	res, err := f.gen.Generate(ctx, ai.Request{
		Model:              f.opts.TTSModel,
		Prompt:             text,
		ResponseModalities: []string{"AUDIO"},
		Voice:              f.opts.Voice,
	})
	if err != nil {
		return nil, err
	}
	if res.Audio == nil || len(res.Audio.Data) == 0 {
		return nil, ai.ErrNoOutput
	}
	return res.Audio.Data, nil
}
