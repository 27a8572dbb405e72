package llm

import (
	"context"
	"strings"

	"github.com/sells-group/trip-assistant/internal/model"
	"github.com/sells-group/trip-assistant/internal/resilience"
	"github.com/sells-group/trip-assistant/pkg/gemini"
)

// GeminiGenerator generates text with a Gemini model.
type GeminiGenerator struct {
	client    gemini.Client
	maxTokens int32
	retry     resilience.RetryConfig
}

// NewGeminiGenerator wraps a Gemini client.
func NewGeminiGenerator(client gemini.Client, maxTokens int32, retry resilience.RetryConfig) *GeminiGenerator {
	return &GeminiGenerator{client: client, maxTokens: maxTokens, retry: retry}
}

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	gr := gemini.Request{System: req.System, MaxTokens: g.maxTokens}
	if req.MaxTokens > 0 {
		gr.MaxTokens = int32(req.MaxTokens)
	}
	if req.Temperature != nil {
		t := float32(*req.Temperature)
		gr.Temperature = &t
	}
	for _, m := range req.Messages {
		if m.Role == model.RoleSystem {
			continue
		}
		gr.Messages = append(gr.Messages, gemini.Message{Role: m.Role, Content: m.Content})
	}

	retry := g.retry
	retry.OnRetry = resilience.RetryLogger("gemini", req.Phase)
	resp, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*gemini.Response, error) {
		return g.client.Generate(ctx, gr)
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
