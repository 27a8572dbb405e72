package dialog

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trip-assistant/internal/llm"
	"github.com/sells-group/trip-assistant/internal/model"
	"github.com/sells-group/trip-assistant/internal/resilience"
)

const collectingSystem = `You are a friendly travel planning assistant. You are collecting the details needed to plan a trip.
Reply in two to four short sentences. Acknowledge what the user just told you, mention any problem listed below, then ask for the next missing detail.
Never ask again for a detail that is already known. Never invent trip details. Do not plan the trip yet.`

// DefaultHistory is how many past messages Local sends by default.
const DefaultHistory = 10

// Local phrases replies with a text generator over the session's own
// recent history.
type Local struct {
	gen     llm.Generator
	history int
	timeout time.Duration
}

// NewLocal returns a Local context sending at most history past messages.
func NewLocal(gen llm.Generator, history int, timeout time.Duration) *Local {
	if history <= 0 {
		history = DefaultHistory
	}
	return &Local{gen: gen, history: history, timeout: timeout}
}

func (l *Local) Respond(ctx context.Context, sess *model.Session, message string, brief Brief) (string, error) {
	req := llm.Request{
		Phase:       "dialog",
		System:      collectingSystem + "\n\n" + brief.Render(),
		Messages:    conversation(sess.Recent(l.history), message),
		MaxTokens:   300,
		Temperature: llm.Temp(0.7),
		Fast:        true,
	}
	reply, err := resilience.WithTimeout(ctx, l.timeout, func(ctx context.Context) (string, error) {
		return l.gen.Generate(ctx, req)
	})
	if err != nil {
		return "", eris.Wrap(err, "dialog: local reply")
	}
	return reply, nil
}

// conversation turns history into a message list that starts with a user
// turn and ends with message.
func conversation(history []model.Message, message string) []model.Message {
	out := make([]model.Message, 0, len(history)+1)
	for _, m := range history {
		if m.Role != model.RoleUser && m.Role != model.RoleAssistant {
			continue
		}
		if len(out) == 0 && m.Role != model.RoleUser {
			continue
		}
		out = append(out, m)
	}
	if n := len(out); n == 0 || out[n-1].Role != model.RoleUser || out[n-1].Content != message {
		out = append(out, model.Message{Role: model.RoleUser, Content: message})
	}
	return out
}
