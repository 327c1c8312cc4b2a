package flows

import (
	"context"

	"google.golang.org/genai"
)

type NewsInput struct {
	Topic    string `json:"topic,omitempty" validate:"omitempty,max=120"`
	Count    int    `json:"count,omitempty" validate:"omitempty,min=1,max=10"`
	Language string `json:"language,omitempty" validate:"omitempty,lang"`
}

// NewsArticle is a generated, read-only news item.
type NewsArticle struct {
	Title       string `json:"title" validate:"required"`
	Summary     string `json:"summary" validate:"required"`
	Category    string `json:"category"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
}

type NewsOutput struct {
	Articles []NewsArticle `json:"articles" validate:"required,min=1,dive"`
}

var newsSchema = object(map[string]*genai.Schema{
	"articles": array("News articles", object(map[string]*genai.Schema{
		"title":       str("Headline"),
		"summary":     str("Two or three sentence summary"),
		"category":    enum("Category", "policy", "weather", "market", "technology", "schemes", "general"),
		"source":      str("Publication or agency the story is attributed to"),
		"publishedAt": str("Publication date as YYYY-MM-DD"),
	}, "title", "summary")),
}, "articles")

// GenerateNews produces short agricultural news items.
func (f *Flows) GenerateNews(ctx context.Context, in NewsInput) (*NewsOutput, error) {
	in.Language = langOrDefault(in.Language)
	if in.Count == 0 {
		in.Count = 5
	}
	if err := f.checkInput(in); err != nil {
		return nil, err
	}
	return generateJSON[NewsOutput](ctx, f, "news.tmpl", in, newsSchema)
}
