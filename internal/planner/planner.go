// Package planner fans a confirmed trip out to the flights, hotels and
// activities lookups and collects their results into one bundle.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/trip-assistant/internal/model"
	"github.com/sells-group/trip-assistant/internal/provider"
	"github.com/sells-group/trip-assistant/internal/resilience"
)

// Lookup names, in bundle order.
const (
	Flights    = "flights"
	Hotels     = "hotels"
	Activities = "activities"
)

// ErrNotConfigured marks a lookup with no source behind it.
var ErrNotConfigured = eris.New("planner: lookup not configured")

// DefaultTimeout bounds each lookup when none is configured.
const DefaultTimeout = 20 * time.Second

// Result is the settled outcome of one lookup. Exactly one of Content and
// Err is set.
type Result struct {
	Provider string
	Content  string
	Err      error
	Duration time.Duration
}

// OK reports whether the lookup produced content.
func (r Result) OK() bool {
	return r.Err == nil && r.Content != ""
}

// Bundle holds all three lookup results of one planning run.
type Bundle struct {
	Flights    Result
	Hotels     Result
	Activities Result
}

// Results returns the three results in bundle order.
func (b Bundle) Results() []Result {
	return []Result{b.Flights, b.Hotels, b.Activities}
}

// Settled reports whether every slot holds a result.
func (b Bundle) Settled() bool {
	for _, r := range b.Results() {
		if r.Provider == "" || (r.Err == nil && r.Content == "") {
			return false
		}
	}
	return true
}

// Failed names the lookups that produced no content.
func (b Bundle) Failed() []string {
	var out []string
	for _, r := range b.Results() {
		if !r.OK() {
			out = append(out, r.Provider)
		}
	}
	return out
}

// Aggregator runs the lookups for a trip.
type Aggregator struct {
	set     provider.Set
	timeout time.Duration
}

// NewAggregator returns an Aggregator bounding each lookup by timeout.
func NewAggregator(set provider.Set, timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Aggregator{set: set, timeout: timeout}
}

// Plan runs the three lookups concurrently, one attempt each, and returns
// once all have settled. A failing, panicking or timed-out lookup becomes an
// error in its own slot; the others are unaffected.
func (a *Aggregator) Plan(ctx context.Context, p model.TripProfile) Bundle {
	fq, hq, aq := provider.Queries(p)
	var b Bundle

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b.Flights = a.run(gCtx, Flights, a.set.Flights != nil, func(ctx context.Context) (string, error) {
			return a.set.Flights.Flights(ctx, fq)
		})
		return nil
	})
	g.Go(func() error {
		b.Hotels = a.run(gCtx, Hotels, a.set.Hotels != nil, func(ctx context.Context) (string, error) {
			return a.set.Hotels.Hotels(ctx, hq)
		})
		return nil
	})
	g.Go(func() error {
		b.Activities = a.run(gCtx, Activities, a.set.Activities != nil, func(ctx context.Context) (string, error) {
			return a.set.Activities.Activities(ctx, aq)
		})
		return nil
	})

	// Lookups never return an error to the group; failures live in the bundle.
	_ = g.Wait()

	zap.L().Info("planner: lookups settled",
		zap.String("destination", p.Destination),
		zap.Strings("failed", b.Failed()),
		zap.Int64("flights_ms", b.Flights.Duration.Milliseconds()),
		zap.Int64("hotels_ms", b.Hotels.Duration.Milliseconds()),
		zap.Int64("activities_ms", b.Activities.Duration.Milliseconds()),
	)
	return b
}

func (a *Aggregator) run(ctx context.Context, name string, configured bool, fn func(ctx context.Context) (string, error)) (res Result) {
	res.Provider = name
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res.Content = ""
			res.Err = eris.Errorf("planner: %s lookup panicked: %v", name, r)
		}
		res.Duration = time.Since(start)
		if res.Err != nil {
			zap.L().Warn("planner: lookup failed",
				zap.String("provider", name),
				zap.Int64("duration_ms", res.Duration.Milliseconds()),
				zap.Error(res.Err),
			)
		}
	}()

	if !configured {
		res.Err = ErrNotConfigured
		return res
	}
	content, err := resilience.WithTimeout(ctx, a.timeout, fn)
	switch {
	case err != nil:
		res.Err = eris.Wrapf(err, "planner: %s lookup", name)
	case content == "":
		res.Err = eris.Wrapf(provider.ErrNoResults, "planner: %s lookup", name)
	default:
		res.Content = content
	}
	return res
}

// Section renders one result for the itinerary prompt. Failures become a
// neutral note so the itinerary can describe the gap.
func (r Result) Section() string {
	if r.OK() {
		return r.Content
	}
	return fmt.Sprintf("No %s information is available right now.", r.Provider)
}
