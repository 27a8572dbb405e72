// Package gemini wraps the Google generative-ai-go SDK behind a small
// chat-completion interface.
package gemini

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

// Client generates text with a Gemini model.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Close() error
}

// Message is one turn of conversation. Role is "user" or "assistant".
type Message struct {
	Role    string
	Content string
}

// Request is a chat request. The last message is sent; earlier ones become
// chat history.
type Request struct {
	System      string
	Messages    []Message
	Temperature *float32
	MaxTokens   int32
}

// Response is the generated text plus token usage.
type Response struct {
	Text         string
	InputTokens  int32
	OutputTokens int32
}

type sdkClient struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client for model. An empty model selects the
// default.
func NewClient(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (Client, error) {
	if model == "" {
		model = defaultModel
	}
	c, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}
	return &sdkClient{client: c, model: model}, nil
}

func (c *sdkClient) Generate(ctx context.Context, req Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, eris.New("gemini: request has no messages")
	}

	model := c.client.GenerativeModel(c.model)
	if req.System != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(req.System))
	}
	if req.Temperature != nil {
		model.SetTemperature(*req.Temperature)
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(req.MaxTokens)
	}

	cs := model.StartChat()
	cs.History = toHistory(req.Messages[:len(req.Messages)-1])
	last := req.Messages[len(req.Messages)-1]

	resp, err := cs.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return nil, eris.Wrap(err, "gemini: generate content")
	}

	out := &Response{Text: textOf(resp)}
	if resp.UsageMetadata != nil {
		out.InputTokens = resp.UsageMetadata.PromptTokenCount
		out.OutputTokens = resp.UsageMetadata.CandidatesTokenCount
	}
	zap.L().Debug("gemini: usage",
		zap.String("model", c.model),
		zap.Int32("input_tokens", out.InputTokens),
		zap.Int32("output_tokens", out.OutputTokens),
	)
	return out, nil
}

func (c *sdkClient) Close() error {
	return c.client.Close()
}

func toHistory(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return out
}

func textOf(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
