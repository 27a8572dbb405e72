package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trip-assistant/internal/llm"
	"github.com/sells-group/trip-assistant/internal/model"
	"github.com/sells-group/trip-assistant/internal/resilience"
)

const extractionSystem = `You read one message from a traveller planning a trip and return the trip facts it states as a single JSON object. Return JSON only, no prose and no code fences.

Keys (use null for anything the message does not state):
- "origin": city or airport the trip departs from
- "destination": city, region or country being visited
- "start_date", "end_date": ISO dates (YYYY-MM-DD)
- "travelers": total number of people travelling, as an integer
- "budget": total budget in dollars, as a number
- "preferences": activities or interests, as a short phrase
- "date_reference": "next_week", "next_month" or "this_weekend" when the message uses one of those phrases, otherwise null

Rules:
- Today is %s. A date without a year is the next occurrence of that date.
- "N days" starting on a date ends N-1 days later; "N nights" ends N days later.
- "with N others" or "with N friends" means N+1 travelers; "N of us" means N.
- A budget range means its midpoint.
- Report explicit dates even when the message also uses a vague phrase; explicit dates take precedence.
- Only report what this message says. Never copy values from the current profile.`

// LLMExtractor asks a language model for the trip facts in a message.
type LLMExtractor struct {
	gen      llm.Generator
	timeout  time.Duration
	resolver resolver
}

// NewLLMExtractor creates an LLMExtractor. A non-positive timeout means the
// caller's context alone bounds the call.
func NewLLMExtractor(gen llm.Generator, timeout time.Duration, opts ...Option) *LLMExtractor {
	return &LLMExtractor{gen: gen, timeout: timeout, resolver: newResolver(opts)}
}

// Extract implements Engine.
func (x *LLMExtractor) Extract(ctx context.Context, message string, profile model.TripProfile) (model.Partial, error) {
	today := x.resolver.today()
	user := fmt.Sprintf("Current profile: %s\n\nMessage: %s", profile.String(), message)
	if f, ok := askedField(ctx); ok {
		user = fmt.Sprintf("Current profile: %s\n\nThe assistant just asked for the %s.\n\nMessage: %s",
			profile.String(), f.Label(), message)
	}
	req := llm.Prompt("extraction", fmt.Sprintf(extractionSystem, today.String()), user)
	req.Temperature = llm.Temp(0.1)
	req.MaxTokens = 400
	req.Fast = true

	text, err := resilience.WithTimeout(ctx, x.timeout, func(ctx context.Context) (string, error) {
		return x.gen.Generate(ctx, req)
	})
	if err != nil {
		return model.Partial{}, eris.Wrap(err, "extract: llm call")
	}

	fields, err := parseFields(text)
	if err != nil {
		return model.Partial{}, err
	}
	ev, err := fields.evidence(message)
	if err != nil {
		return model.Partial{}, err
	}
	return x.resolver.resolve(ev, profile), nil
}

// llmFields is the JSON object the model returns.
type llmFields struct {
	Origin        *string `json:"origin"`
	Destination   *string `json:"destination"`
	StartDate     *string `json:"start_date"`
	EndDate       *string `json:"end_date"`
	Travelers     *number `json:"travelers"`
	Budget        *number `json:"budget"`
	Preferences   *string `json:"preferences"`
	DateReference *string `json:"date_reference"`
}

// number accepts a JSON number or a numeric string.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	s = strings.NewReplacer(",", "", "$", "").Replace(s)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return eris.Wrapf(err, "extract: number %q", s)
	}
	*n = number(v)
	return nil
}

var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

func parseFields(text string) (llmFields, error) {
	text = strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	if i, j := strings.Index(text, "{"), strings.LastIndex(text, "}"); i >= 0 && j > i {
		text = text[i : j+1]
	}
	var f llmFields
	if err := json.Unmarshal([]byte(text), &f); err != nil {
		return llmFields{}, eris.Wrapf(ErrUnparseable, "extract: decode json: %v", err)
	}
	return f, nil
}

var dateHintRe = regexp.MustCompile(`(?i)\d|\b` + monthPat + `\b|tomorrow|today`)

func (f llmFields) evidence(message string) (evidence, error) {
	var ev evidence
	ev.origin = clean(f.Origin)
	ev.destination = clean(f.Destination)
	ev.preferences = clean(f.Preferences)
	if f.Travelers != nil && *f.Travelers >= 1 {
		ev.travelers = int(*f.Travelers)
	}
	if f.Budget != nil && *f.Budget >= 0 {
		b := float64(*f.Budget)
		ev.budget = &b
	}

	// Dates the message gives no hint of were copied from context.
	if dateHintRe.MatchString(message) {
		for _, d := range []struct {
			raw *string
			dst **model.Date
		}{{f.StartDate, &ev.start}, {f.EndDate, &ev.end}} {
			s := clean(d.raw)
			if s == "" {
				continue
			}
			parsed, err := model.ParseDate(s)
			if err != nil {
				return evidence{}, eris.Wrap(ErrUnparseable, err.Error())
			}
			*d.dst = &parsed
		}
	}
	if ev.start != nil || ev.end != nil {
		return ev, nil
	}

	switch ref := model.DateReference(strings.ToLower(clean(f.DateReference))); ref {
	case model.RefNextWeek, model.RefNextMonth, model.RefThisWeekend:
		ev.reference = ref
		ev.span = scanSpan(message)
	}
	return ev, nil
}

func clean(s *string) string {
	if s == nil {
		return ""
	}
	v := strings.TrimSpace(*s)
	if strings.EqualFold(v, "null") || strings.EqualFold(v, "none") {
		return ""
	}
	return v
}
