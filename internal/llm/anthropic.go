package llm

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/trip-assistant/internal/model"
	"github.com/sells-group/trip-assistant/internal/resilience"
	"github.com/sells-group/trip-assistant/pkg/anthropic"
)

const statusOverloaded = 529

// AnthropicGenerator generates text with Claude models.
type AnthropicGenerator struct {
	client    anthropic.Client
	model     string
	fastModel string
	maxTokens int64
	retry     resilience.RetryConfig
}

// NewAnthropicGenerator returns a Generator using model for regular calls and
// fastModel for Request.Fast calls.
func NewAnthropicGenerator(client anthropic.Client, model, fastModel string, maxTokens int64, retry resilience.RetryConfig) *AnthropicGenerator {
	if fastModel == "" {
		fastModel = model
	}
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	retry.ShouldRetry = anthropicRetryable
	return &AnthropicGenerator{
		client:    client,
		model:     model,
		fastModel: fastModel,
		maxTokens: maxTokens,
		retry:     retry,
	}
}

func (g *AnthropicGenerator) Generate(ctx context.Context, req Request) (string, error) {
	modelID := g.model
	if req.Fast {
		modelID = g.fastModel
	}
	maxTokens := g.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	msgReq := anthropic.MessageRequest{
		Model:       modelID,
		MaxTokens:   maxTokens,
		System:      anthropic.BuildCachedSystemBlocks(req.System),
		Messages:    toAnthropicMessages(req.Messages),
		Temperature: req.Temperature,
	}

	retry := g.retry
	retry.OnRetry = resilience.RetryLogger("anthropic", req.Phase)

	start := time.Now()
	resp, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return g.client.CreateMessage(ctx, msgReq)
	})
	if err != nil {
		return "", err
	}
	resp.Usage.LogCost(modelID, req.Phase)
	zap.L().Debug("llm: generated",
		zap.String("phase", req.Phase),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// toAnthropicMessages drops system messages and merges consecutive turns of
// the same role, which the Messages API rejects.
func toAnthropicMessages(msgs []model.Message) []anthropic.Message {
	out := make([]anthropic.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == model.RoleSystem || m.Content == "" {
			continue
		}
		role := model.RoleUser
		if m.Role == model.RoleAssistant {
			role = model.RoleAssistant
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content += "\n\n" + m.Content
			continue
		}
		out = append(out, anthropic.Message{Role: role, Content: m.Content})
	}
	// The conversation must open with a user turn.
	if len(out) > 0 && out[0].Role == model.RoleAssistant {
		out = out[1:]
	}
	return out
}

func anthropicRetryable(err error) bool {
	code := anthropic.StatusCode(err)
	return code == statusOverloaded || resilience.IsTransientHTTPStatus(code) || resilience.IsTransient(err)
}
