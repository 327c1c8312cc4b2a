package flows

import (
	"context"

	"google.golang.org/genai"
)

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user model"`
	Content string `json:"content" validate:"required,max=4000"`
}

type ChatInput struct {
	Message  string        `json:"message" validate:"required,min=1,max=2000"`
	History  []ChatMessage `json:"history,omitempty" validate:"max=40,dive"`
	Language string        `json:"language,omitempty" validate:"omitempty,lang"`
}

type ChatOutput struct {
	Reply string `json:"reply" validate:"required"`
}

var chatSchema = object(map[string]*genai.Schema{
	"reply": str("Answer to the farmer's latest message"),
}, "reply")

// Chat answers the farmer's latest message given the prior conversation.
func (f *Flows) Chat(ctx context.Context, in ChatInput) (*ChatOutput, error) {
	in.Language = langOrDefault(in.Language)
	if err := f.checkInput(in); err != nil {
		return nil, err
	}
	return generateJSON[ChatOutput](ctx, f, "chat.tmpl", in, chatSchema)
}
