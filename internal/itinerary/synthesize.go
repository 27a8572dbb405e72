// Package itinerary turns planning results into the itinerary text, answers
// follow-up questions about it and extracts its cost breakdown.
package itinerary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-assistant/internal/llm"
	"github.com/sells-group/trip-assistant/internal/model"
	"github.com/sells-group/trip-assistant/internal/planner"
	"github.com/sells-group/trip-assistant/internal/resilience"
)

var (
	// ErrIncompleteBundle is returned when a lookup has not settled.
	ErrIncompleteBundle = eris.New("itinerary: bundle not settled")
	// ErrEmptyOutput is returned when generation produced no text.
	ErrEmptyOutput = eris.New("itinerary: empty output")
)

const synthesisSystem = `You are an expert travel planner. Write a complete trip itinerary from the trip details and the search results provided.

Structure:
1. A short overview of the trip.
2. Recommended flights, chosen from the flight results.
3. Recommended accommodation, chosen from the hotel results, respecting the budget.
4. A day-by-day plan covering every day of the trip, using the activity results and the traveler's preferences.
5. A "Budget Breakdown" section as a markdown table with columns | Item | Cost | Notes |, one row per category (Flights, Accommodation, Food, Activities, Transportation, Miscellaneous) and a final Total row.

Only recommend options that appear in the results. When a section says no information is available, say so briefly and suggest how the traveler can fill the gap. Do not mention search tools or data sources.`

const maxItineraryTokens = 4096

// Synthesizer writes the itinerary for a planned trip.
type Synthesizer struct {
	gen     llm.Generator
	timeout time.Duration
}

// NewSynthesizer returns a Synthesizer bounded by timeout per call.
func NewSynthesizer(gen llm.Generator, timeout time.Duration) *Synthesizer {
	return &Synthesizer{gen: gen, timeout: timeout}
}

// Synthesize writes the itinerary. It refuses a bundle that has not fully
// settled.
func (s *Synthesizer) Synthesize(ctx context.Context, p model.TripProfile, b planner.Bundle) (string, error) {
	if !b.Settled() {
		return "", ErrIncompleteBundle
	}

	req := llm.Prompt("synthesis", synthesisSystem, synthesisPrompt(p, b))
	req.Temperature = llm.Temp(0.7)
	req.MaxTokens = maxItineraryTokens

	start := time.Now()
	text, err := resilience.WithTimeout(ctx, s.timeout, func(ctx context.Context) (string, error) {
		return s.gen.Generate(ctx, req)
	})
	if err != nil {
		return "", eris.Wrap(err, "itinerary: synthesize")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyOutput
	}

	zap.L().Info("itinerary: synthesized",
		zap.String("destination", p.Destination),
		zap.Int("chars", len(text)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return text, nil
}

func synthesisPrompt(p model.TripProfile, b planner.Bundle) string {
	var sb strings.Builder
	sb.WriteString("Trip details:\n")
	sb.WriteString(tripDetails(p))
	fmt.Fprintf(&sb, "\n\nFlight results:\n%s", b.Flights.Section())
	fmt.Fprintf(&sb, "\n\nHotel results:\n%s", b.Hotels.Section())
	fmt.Fprintf(&sb, "\n\nActivity results:\n%s", b.Activities.Section())
	return sb.String()
}

func tripDetails(p model.TripProfile) string {
	lines := make([]string, 0, len(model.AllFields)+1)
	for _, f := range p.Known() {
		lines = append(lines, fmt.Sprintf("- %s: %s", f.Label(), p.Value(f)))
	}
	if n := p.Nights(); n > 0 {
		lines = append(lines, fmt.Sprintf("- length: %d nights", n))
	}
	if p.Budget != nil {
		lines = append(lines, "- the budget is the total for the whole trip")
	}
	return strings.Join(lines, "\n")
}
