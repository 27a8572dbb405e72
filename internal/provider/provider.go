// Package provider looks up flights, hotels and activities for a trip. Each
// lookup returns display text for the itinerary prompt or an error; the
// planner isolates failures per lookup.
package provider

import (
	"context"
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trip-assistant/internal/model"
)

// ErrNoResults is returned when a lookup succeeded but found nothing.
var ErrNoResults = eris.New("provider: no results")

// FlightQuery is what the flights lookup needs.
type FlightQuery struct {
	Origin      string
	Destination string
	Start       model.Date
	End         model.Date
	Travelers   int
}

// HotelQuery is what the hotels lookup needs. Budget is the trip total.
type HotelQuery struct {
	Destination string
	Start       model.Date
	End         model.Date
	Travelers   int
	Budget      *float64
}

// ActivityQuery is what the activities lookup needs.
type ActivityQuery struct {
	Destination string
	Preferences string
	Start       model.Date
	End         model.Date
}

// FlightSource finds flights.
type FlightSource interface {
	Flights(ctx context.Context, q FlightQuery) (string, error)
}

// HotelSource finds accommodation.
type HotelSource interface {
	Hotels(ctx context.Context, q HotelQuery) (string, error)
}

// ActivitySource finds things to do.
type ActivitySource interface {
	Activities(ctx context.Context, q ActivityQuery) (string, error)
}

// Set groups the three lookups used for one plan.
type Set struct {
	Flights    FlightSource
	Hotels     HotelSource
	Activities ActivitySource
}

// Queries builds the three lookup queries from a complete profile.
func Queries(p model.TripProfile) (FlightQuery, HotelQuery, ActivityQuery) {
	var start, end model.Date
	if p.StartDate != nil {
		start = *p.StartDate
	}
	if p.EndDate != nil {
		end = *p.EndDate
	}
	travelers := max(p.Travelers, 1)
	return FlightQuery{
			Origin:      p.Origin,
			Destination: p.Destination,
			Start:       start,
			End:         end,
			Travelers:   travelers,
		}, HotelQuery{
			Destination: p.Destination,
			Start:       start,
			End:         end,
			Travelers:   travelers,
			Budget:      p.Budget,
		}, ActivityQuery{
			Destination: p.Destination,
			Preferences: p.Preferences,
			Start:       start,
			End:         end,
		}
}

// Nights returns the stay length, at least one.
func (q HotelQuery) Nights() int {
	if q.Start.IsZero() || q.End.IsZero() {
		return 1
	}
	return max(q.Start.DaysUntil(q.End), 1)
}

// Rooms assumes two guests per room.
func (q HotelQuery) Rooms() int {
	return max((q.Travelers+1)/2, 1)
}

// NightlyCap derives a per-room, per-night price ceiling from the total
// budget. It returns 0 when there is no budget.
func (q HotelQuery) NightlyCap() int {
	if q.Budget == nil || *q.Budget <= 0 {
		return 0
	}
	return int(math.Floor(*q.Budget / float64(q.Nights()) / float64(q.Rooms())))
}

// FlightFunc adapts a function to FlightSource.
type FlightFunc func(ctx context.Context, q FlightQuery) (string, error)

func (f FlightFunc) Flights(ctx context.Context, q FlightQuery) (string, error) {
	return f(ctx, q)
}

// HotelFunc adapts a function to HotelSource.
type HotelFunc func(ctx context.Context, q HotelQuery) (string, error)

func (f HotelFunc) Hotels(ctx context.Context, q HotelQuery) (string, error) {
	return f(ctx, q)
}

// ActivityFunc adapts a function to ActivitySource.
type ActivityFunc func(ctx context.Context, q ActivityQuery) (string, error)

func (f ActivityFunc) Activities(ctx context.Context, q ActivityQuery) (string, error) {
	return f(ctx, q)
}
