package itinerary

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trip-assistant/internal/llm"
	"github.com/sells-group/trip-assistant/internal/model"
	"github.com/sells-group/trip-assistant/internal/resilience"
)

const followUpSystem = `You are a travel planner helping a traveler with the itinerary you already wrote for them. Answer their question using the itinerary and trip details below. Keep answers focused. When asked for a day-by-day or detailed plan, rewrite the full itinerary in that form and keep the Budget Breakdown table at the end.`

var revisionRe = regexp.MustCompile(`(?i)\bday[\s-]+by[\s-]+day\b|\bdetailed\b`)

// IsRevision reports whether message asks for a rewrite of the whole
// itinerary rather than a question about it.
func IsRevision(message string) bool {
	return revisionRe.MatchString(message)
}

// Answer is a follow-up response. Replaces is set when the text is a new
// version of the itinerary.
type Answer struct {
	Text     string
	Replaces bool
}

// FollowUp answers messages sent after the itinerary was delivered.
type FollowUp struct {
	gen     llm.Generator
	timeout time.Duration
	history int
}

// NewFollowUp returns a FollowUp sending at most history past messages.
func NewFollowUp(gen llm.Generator, timeout time.Duration, history int) *FollowUp {
	return &FollowUp{gen: gen, timeout: timeout, history: history}
}

// Handle answers message with the stored itinerary and profile as context.
func (f *FollowUp) Handle(ctx context.Context, message string, p model.TripProfile, itinerary string, history []model.Message) (Answer, error) {
	if itinerary == "" {
		return Answer{}, eris.New("itinerary: follow-up without itinerary")
	}

	system := followUpSystem + "\n\nTrip details:\n" + tripDetails(p) + "\n\nCurrent itinerary:\n" + itinerary
	req := llm.Request{
		Phase:       "followup",
		System:      system,
		Messages:    recentTurns(history, message, f.history),
		MaxTokens:   maxItineraryTokens,
		Temperature: llm.Temp(0.7),
	}

	text, err := resilience.WithTimeout(ctx, f.timeout, func(ctx context.Context) (string, error) {
		return f.gen.Generate(ctx, req)
	})
	if err != nil {
		return Answer{}, eris.Wrap(err, "itinerary: follow-up")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Answer{}, ErrEmptyOutput
	}
	return Answer{Text: text, Replaces: IsRevision(message)}, nil
}

// recentTurns keeps the last n user and assistant messages, starting on a
// user turn and ending with message.
func recentTurns(history []model.Message, message string, n int) []model.Message {
	var turns []model.Message
	for _, m := range history {
		if m.Role == model.RoleUser || m.Role == model.RoleAssistant {
			turns = append(turns, m)
		}
	}
	if n > 0 && len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	for len(turns) > 0 && turns[0].Role != model.RoleUser {
		turns = turns[1:]
	}
	if k := len(turns); k == 0 || turns[k-1].Role != model.RoleUser || turns[k-1].Content != message {
		turns = append(turns, model.Message{Role: model.RoleUser, Content: message})
	}
	return turns
}
