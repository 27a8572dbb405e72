// Package llm adapts text-generation backends to the single call shape the
// assistant uses for extraction, dialog, synthesis and follow-ups.
package llm

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trip-assistant/internal/model"
)

// ErrEmptyResponse is returned when the backend produced no text.
var ErrEmptyResponse = eris.New("llm: empty response")

// Request is one text-generation call.
type Request struct {
	// Phase labels the call in logs and cost attribution.
	Phase       string
	System      string
	Messages    []model.Message
	MaxTokens   int
	Temperature *float64
	// Fast selects the cheaper model when the backend has one.
	Fast bool
}

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Prompt builds a single-message request.
func Prompt(phase, system, user string) Request {
	return Request{
		Phase:    phase,
		System:   system,
		Messages: []model.Message{{Role: model.RoleUser, Content: user}},
	}
}

// Temp returns a pointer for Request.Temperature.
func Temp(v float64) *float64 {
	return &v
}
