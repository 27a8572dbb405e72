package conversation

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/trip-assistant/internal/dialog"
	"github.com/sells-group/trip-assistant/internal/extract"
	"github.com/sells-group/trip-assistant/internal/itinerary"
	"github.com/sells-group/trip-assistant/internal/model"
	"github.com/sells-group/trip-assistant/internal/planner"
	"github.com/sells-group/trip-assistant/internal/store"
)

func fixedClock() time.Time {
	return time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)
}

type planFunc func(ctx context.Context, p model.TripProfile) planner.Bundle

func (f planFunc) Plan(ctx context.Context, p model.TripProfile) planner.Bundle {
	return f(ctx, p)
}

type synthFunc func(ctx context.Context, p model.TripProfile, b planner.Bundle) (string, error)

func (f synthFunc) Synthesize(ctx context.Context, p model.TripProfile, b planner.Bundle) (string, error) {
	return f(ctx, p, b)
}

type mockFollowUp struct {
	mock.Mock
}

func (m *mockFollowUp) Handle(ctx context.Context, message string, p model.TripProfile, stored string, history []model.Message) (itinerary.Answer, error) {
	args := m.Called(ctx, message, p, stored, history)
	return args.Get(0).(itinerary.Answer), args.Error(1)
}

type failingDialog struct {
	err error
}

func (d failingDialog) Respond(context.Context, *model.Session, string, dialog.Brief) (string, error) {
	return "", d.err
}

// countingExtractor records how often extraction runs.
type countingExtractor struct {
	extract.Engine
	calls atomic.Int32
}

func (c *countingExtractor) Extract(ctx context.Context, message string, p model.TripProfile) (model.Partial, error) {
	c.calls.Add(1)
	return c.Engine.Extract(ctx, message, p)
}

type failingStore struct {
	store.Store
	loadErr error
	saveErr error
}

func (s *failingStore) Load(ctx context.Context, id string) (*model.Session, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.Store.Load(ctx, id)
}

func (s *failingStore) Save(ctx context.Context, sess *model.Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.Store.Save(ctx, sess)
}

const budgetItinerary = `# Paris, June 1 to 7

## Day 1
Arrive and check in.

## Budget Breakdown

| Item | Cost | Notes |
|------|------|-------|
| Flights | $1,800 | Round trips |
| Hotel | $1,200 | |
| **Total** | **$3,000** | |`

func okBundle() planner.Bundle {
	return planner.Bundle{
		Flights:    planner.Result{Provider: planner.Flights, Content: "AF 331 Boston to Paris $900"},
		Hotels:     planner.Result{Provider: planner.Hotels, Content: "Hotel Lumiere $180/night"},
		Activities: planner.Result{Provider: planner.Activities, Content: "Louvre, Seine cruise"},
	}
}

func okPlanner() planFunc {
	return func(context.Context, model.TripProfile) planner.Bundle { return okBundle() }
}

func okSynth() synthFunc {
	return func(context.Context, model.TripProfile, planner.Bundle) (string, error) {
		return budgetItinerary, nil
	}
}

// testDeps wires the real rule extractor, template dialog and an in-memory
// store around canned planning collaborators.
func testDeps() Deps {
	return Deps{
		Store:       store.NewMemory(time.Hour),
		Extractor:   extract.NewRuleExtractor(extract.WithClock(fixedClock)),
		Dialog:      dialog.Template{},
		Planner:     okPlanner(),
		Synthesizer: okSynth(),
		FollowUp:    &mockFollowUp{},
	}
}

func ptr[T any](v T) *T {
	return &v
}

func parisProfile() model.TripProfile {
	return model.TripProfile{
		Origin:      "Boston",
		Destination: "Paris",
		StartDate:   ptr(model.MustDate("2026-06-01")),
		EndDate:     ptr(model.MustDate("2026-06-07")),
		Travelers:   2,
	}
}
