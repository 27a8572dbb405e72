package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trip-assistant/internal/model"
)

func newTestRules() *RuleExtractor {
	return NewRuleExtractor(WithClock(clockAt(friday)))
}

func extractRules(t *testing.T, msg string, profile model.TripProfile) model.Partial {
	t.Helper()
	p, err := newTestRules().Extract(context.Background(), msg, profile)
	require.NoError(t, err)
	return p
}

func TestRuleExtractor_WeekLongTrip(t *testing.T) {
	t.Parallel()

	p := extractRules(t, "I want to visit Paris for a week starting 2026-06-01", model.TripProfile{})
	assert.Equal(t, "Paris", p.Destination)
	assert.Equal(t, model.KnownDate(model.MustDate("2026-06-01"), model.ConfidenceExplicit), p.StartDate)
	assert.Equal(t, model.KnownDate(model.MustDate("2026-06-07"), model.ConfidenceExplicit), p.EndDate)
	assert.Empty(t, p.Origin)
	assert.Zero(t, p.Travelers)
	assert.Nil(t, p.Budget)
}

func TestRuleExtractor_EverythingAtOnce(t *testing.T) {
	t.Parallel()

	p := extractRules(t, "Flying from Boston to Rome June 3-10, 2 of us, budget $4,000", model.TripProfile{})
	assert.Equal(t, "Boston", p.Origin)
	assert.Equal(t, "Rome", p.Destination)
	assert.Equal(t, "2026-06-03", p.StartDate.Date.String())
	assert.Equal(t, "2026-06-10", p.EndDate.Date.String())
	assert.Equal(t, 2, p.Travelers)
	require.NotNil(t, p.Budget)
	assert.Equal(t, 4000.0, *p.Budget)
	assert.Equal(t, model.RefNone, p.Reference)
}

func TestRuleExtractor_DateValidation(t *testing.T) {
	t.Parallel()

	p := extractRules(t, "Trip to Paris on June 3 2025", model.TripProfile{})
	assert.Equal(t, "Paris", p.Destination)
	assert.Equal(t, model.RejectedDate(model.MustDate("2025-06-03"), model.RejectPast), p.StartDate)

	p = extractRules(t, "trip to Lisbon on 2027-03-01", model.TripProfile{})
	assert.Equal(t, model.RejectedDate(model.MustDate("2027-03-01"), model.RejectBeyondHorizon), p.StartDate)

	p = extractRules(t, "from 2026-06-10 to 2026-06-05", model.TripProfile{})
	assert.Equal(t, model.RejectEndNotAfter, p.StartDate.Reason)
	assert.Equal(t, model.RejectEndNotAfter, p.EndDate.Reason)
	assert.Equal(t, model.SlotRejected, p.EndDate.State)

	p = extractRules(t, "leaving today", model.TripProfile{})
	assert.Equal(t, model.SlotUnknown, p.StartDate.State)
}

func TestRuleExtractor_HorizonOption(t *testing.T) {
	t.Parallel()

	x := NewRuleExtractor(WithClock(clockAt(friday)), WithHorizon(30))
	p, err := x.Extract(context.Background(), "on 2026-07-01", model.TripProfile{})
	require.NoError(t, err)
	assert.Equal(t, model.RejectBeyondHorizon, p.StartDate.Reason)
}

func TestRuleExtractor_VagueReferences(t *testing.T) {
	t.Parallel()

	p := extractRules(t, "Thinking about Lisbon sometime next week", model.TripProfile{})
	assert.Equal(t, model.RefNextWeek, p.Reference)
	assert.Equal(t, model.KnownDate(model.MustDate("2026-05-18"), model.ConfidenceInferred), p.StartDate)
	assert.Equal(t, model.KnownDate(model.MustDate("2026-05-24"), model.ConfidenceInferred), p.EndDate)

	p = extractRules(t, "next week for 3 days", model.TripProfile{})
	assert.Equal(t, "2026-05-18", p.StartDate.Date.String())
	assert.Equal(t, "2026-05-20", p.EndDate.Date.String())

	// Explicit dates win over a vague phrase in the same message.
	p = extractRules(t, "next week, June 1 to June 4", model.TripProfile{})
	assert.Equal(t, model.RefNone, p.Reference)
	assert.Equal(t, model.ConfidenceExplicit, p.StartDate.Confidence)
	assert.Equal(t, "2026-06-01", p.StartDate.Date.String())
}

func TestRuleExtractor_DurationUsesProfileStart(t *testing.T) {
	t.Parallel()

	start := model.MustDate("2026-06-01")
	p := extractRules(t, "for 5 nights", model.TripProfile{StartDate: &start})
	assert.Equal(t, model.SlotUnknown, p.StartDate.State)
	assert.Equal(t, "2026-06-06", p.EndDate.Date.String())

	// A duration alone never invents dates.
	p = extractRules(t, "for 5 nights", model.TripProfile{})
	assert.Equal(t, model.SlotUnknown, p.StartDate.State)
	assert.Equal(t, model.SlotUnknown, p.EndDate.State)
}

func TestMatchTravelers(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"going with 3 other people": 4,
		"with 2 friends":            3,
		"there are 4 of us":         4,
		"we are a family of 5":      5,
		"we are 2":                  2,
		"6 adults":                  6,
		"a total of three":          3,
		"my wife and I":             2,
		"traveling solo":            1,
		"I want to go":              0,
	}
	for text, want := range tests {
		assert.Equal(t, want, matchTravelers(utterance{text: text}).travelers, text)
	}
}

func TestMatchBudget(t *testing.T) {
	t.Parallel()

	tests := map[string]float64{
		"budget is 3k":                3000,
		"between $2000 and $3000":     2500,
		"around 1500 dollars":         1500,
		"budget of $2,000-$3,000":     2500,
		"we can spend about 1200":     1200,
		"max budget: $750.50 overall": 750.5,
	}
	for text, want := range tests {
		ev := matchBudget(utterance{text: text})
		require.NotNil(t, ev.budget, text)
		assert.Equal(t, want, *ev.budget, text)
	}

	assert.Nil(t, matchBudget(utterance{text: "budget for June 3"}).budget)
	assert.Nil(t, matchBudget(utterance{text: "no idea yet"}).budget)
}

func TestMatchPreferences(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hiking and street food", matchPreferences(utterance{text: "We love hiking and street food."}).preferences)
	assert.Equal(t, "museums", matchPreferences(utterance{text: "I'm interested in museums, but not tours"}).preferences)
	assert.Equal(t, "jazz bars", matchPreferences(utterance{text: "activities like jazz bars"}).preferences)
	assert.Empty(t, matchPreferences(utterance{text: "I like to travel"}).preferences)
}

func TestMatchPlaces(t *testing.T) {
	t.Parallel()

	u := utterance{text: "I live in Chicago and want to see Tokyo"}
	assert.Equal(t, "Chicago", matchOrigin(u).origin)
	assert.Empty(t, matchDestination(u).destination)

	u = utterance{text: "flying out of JFK to LAX"}
	assert.Equal(t, "JFK", matchOrigin(u).origin)
	assert.Equal(t, "LAX", matchDestination(u).destination)

	u = utterance{text: "going to new york city from boston"}
	assert.Equal(t, "New York City", matchDestination(u).destination)
	assert.Equal(t, "Boston", matchOrigin(u).origin)

	u = utterance{text: "I'm interested in museums and want to go to the beach"}
	assert.Empty(t, matchDestination(u).destination)

	u = utterance{text: "we'd love to visit the Bahamas"}
	assert.Equal(t, "the Bahamas", matchDestination(u).destination)

	assert.Empty(t, matchOrigin(utterance{text: "from June 3 to June 9"}).origin)
	assert.Empty(t, matchOrigin(utterance{text: "from the 3rd"}).origin)
}

func TestMatchShortAnswer(t *testing.T) {
	t.Parallel()

	askDest := utterance{text: "Lisbon", asked: model.FieldDestination, hasAsked: true}
	assert.Equal(t, "Lisbon", matchShortAnswer(askDest).destination)

	withDest := model.TripProfile{Destination: "Lisbon"}
	ev := matchShortAnswer(utterance{text: "boston.", profile: withDest, asked: model.FieldOrigin, hasAsked: true})
	assert.Empty(t, ev.destination)
	assert.Equal(t, "Boston", ev.origin)

	assert.Equal(t, 4, matchShortAnswer(utterance{text: "4"}).travelers)

	ev = matchShortAnswer(utterance{text: "$2,500"})
	require.NotNil(t, ev.budget)
	assert.Equal(t, 2500.0, *ev.budget)

	for _, text := range []string{
		"yes", "sounds good", "no thanks", "June", "ok!",
		"Hello there", "Good morning", "absolutely", "confirmed", "alright", "hi",
	} {
		u := utterance{text: text, asked: model.FieldDestination, hasAsked: true}
		assert.True(t, matchShortAnswer(u).empty(), text)
	}

	full := model.TripProfile{Destination: "Lisbon", Origin: "Boston", Travelers: 2}
	assert.True(t, matchShortAnswer(utterance{text: "Madrid", profile: full, asked: model.FieldDestination, hasAsked: true}).empty())
}

func TestMatchShortAnswer_PlaceNeedsQuestion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		u        utterance
		wantDest string
		wantOrig string
	}{
		{"nothing asked", utterance{text: "Lisbon"}, "", ""},
		{"asked for dates", utterance{text: "Lisbon", asked: model.FieldStartDate, hasAsked: true}, "", ""},
		{"asked for origin", utterance{text: "Lisbon", asked: model.FieldOrigin, hasAsked: true}, "", "Lisbon"},
		{"asked for destination", utterance{text: "lisbon", asked: model.FieldDestination, hasAsked: true}, "Lisbon", ""},
		{"asked field already set", utterance{
			text: "Lisbon", asked: model.FieldDestination, hasAsked: true,
			profile: model.TripProfile{Destination: "Porto"},
		}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ev := matchShortAnswer(tt.u)
			assert.Equal(t, tt.wantDest, ev.destination)
			assert.Equal(t, tt.wantOrig, ev.origin)
		})
	}
}

func TestRuleExtractor_GreetingIsNotADestination(t *testing.T) {
	t.Parallel()

	for _, msg := range []string{"Hello there", "Good morning", "absolutely", "confirmed", "Tokyo"} {
		p := extractRules(t, msg, model.TripProfile{})
		assert.True(t, p.Empty(), msg)
	}

	ctx := Asking(context.Background(), model.FieldDestination)
	p, err := newTestRules().Extract(ctx, "Tokyo", model.TripProfile{})
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", p.Destination)

	p, err = newTestRules().Extract(ctx, "Hello there", model.TripProfile{})
	require.NoError(t, err)
	assert.Empty(t, p.Destination)
}

func TestRuleExtractor_RecoversFromPanickingRule(t *testing.T) {
	t.Parallel()

	x := &RuleExtractor{
		rules: []Rule{
			{Name: "destination", Match: matchDestination},
			{Name: "boom", Match: func(utterance) evidence { panic("bad rule") }},
		},
		resolver: newResolver([]Option{WithClock(clockAt(friday))}),
	}
	p, err := x.Extract(context.Background(), "trip to Rome", model.TripProfile{})
	require.NoError(t, err)
	assert.True(t, p.Empty())
}
