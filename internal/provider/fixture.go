package provider

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// FixtureSet serves canned lookup results from a YAML file, for demos and
// offline runs.
type FixtureSet struct {
	Defaults     FixtureTrip            `yaml:"defaults"`
	Destinations map[string]FixtureTrip `yaml:"destinations"`
}

// FixtureTrip holds the canned result of each lookup.
type FixtureTrip struct {
	Flights    FixtureEntry `yaml:"flights"`
	Hotels     FixtureEntry `yaml:"hotels"`
	Activities FixtureEntry `yaml:"activities"`
}

// FixtureEntry is one canned result. Content may use the placeholders
// {origin}, {destination}, {start}, {end}, {travelers} and {preferences}.
// A non-empty Error makes the lookup fail with that message.
type FixtureEntry struct {
	Content string `yaml:"content"`
	Error   string `yaml:"error,omitempty"`
	DelayMs int    `yaml:"delay_ms,omitempty"`
}

func (e FixtureEntry) empty() bool {
	return e.Content == "" && e.Error == "" && e.DelayMs == 0
}

// LoadFixtures reads a fixture file.
func LoadFixtures(path string) (*FixtureSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "provider: read fixtures %s", path)
	}
	return ParseFixtures(data)
}

// ParseFixtures parses fixture YAML with a top-level "fixtures" key.
// Destination keys are matched case-insensitively.
func ParseFixtures(data []byte) (*FixtureSet, error) {
	var wrapper struct {
		Fixtures FixtureSet `yaml:"fixtures"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "provider: parse fixtures")
	}
	fs := &wrapper.Fixtures
	normalized := make(map[string]FixtureTrip, len(fs.Destinations))
	for k, v := range fs.Destinations {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}
	fs.Destinations = normalized
	return fs, nil
}

// Set returns fs as all three lookups.
func (fs *FixtureSet) Set() Set {
	return Set{Flights: fs, Hotels: fs, Activities: fs}
}

// Trip returns the fixtures for destination, falling back to the defaults
// entry by entry.
func (fs *FixtureSet) Trip(destination string) FixtureTrip {
	trip := fs.Defaults
	t, ok := fs.Destinations[strings.ToLower(strings.TrimSpace(destination))]
	if !ok {
		return trip
	}
	if !t.Flights.empty() {
		trip.Flights = t.Flights
	}
	if !t.Hotels.empty() {
		trip.Hotels = t.Hotels
	}
	if !t.Activities.empty() {
		trip.Activities = t.Activities
	}
	return trip
}

func (fs *FixtureSet) Flights(ctx context.Context, q FlightQuery) (string, error) {
	return serve(ctx, fs.Trip(q.Destination).Flights, strings.NewReplacer(
		"{origin}", q.Origin,
		"{destination}", q.Destination,
		"{start}", q.Start.String(),
		"{end}", q.End.String(),
		"{travelers}", strconv.Itoa(q.Travelers),
	))
}

func (fs *FixtureSet) Hotels(ctx context.Context, q HotelQuery) (string, error) {
	return serve(ctx, fs.Trip(q.Destination).Hotels, strings.NewReplacer(
		"{destination}", q.Destination,
		"{start}", q.Start.String(),
		"{end}", q.End.String(),
		"{travelers}", strconv.Itoa(q.Travelers),
	))
}

func (fs *FixtureSet) Activities(ctx context.Context, q ActivityQuery) (string, error) {
	return serve(ctx, fs.Trip(q.Destination).Activities, strings.NewReplacer(
		"{destination}", q.Destination,
		"{preferences}", q.Preferences,
		"{start}", q.Start.String(),
		"{end}", q.End.String(),
	))
}

func serve(ctx context.Context, e FixtureEntry, r *strings.Replacer) (string, error) {
	if e.DelayMs > 0 {
		select {
		case <-ctx.Done():
			return "", eris.Wrap(ctx.Err(), "provider: fixture delay")
		case <-time.After(time.Duration(e.DelayMs) * time.Millisecond):
		}
	}
	if e.Error != "" {
		return "", eris.Errorf("provider: fixture: %s", e.Error)
	}
	out := strings.TrimSpace(r.Replace(e.Content))
	if out == "" {
		return "", ErrNoResults
	}
	return out, nil
}
