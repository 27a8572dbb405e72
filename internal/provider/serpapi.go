package provider

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-assistant/internal/resilience"
	"github.com/sells-group/trip-assistant/pkg/serpapi"
)

// Breaker names used for the SerpAPI-backed lookups.
const (
	ServiceFlights    = "flights"
	ServiceHotels     = "hotels"
	ServiceActivities = "activities"
)

const maxListed = 5

// SerpAPI implements all three lookups on SerpAPI's Google engines. Each
// lookup runs behind its own circuit breaker.
type SerpAPI struct {
	client   serpapi.Client
	airports Airports
	breakers *resilience.ServiceBreakers
	currency string
	nowFunc  func() time.Time
}

// NewSerpAPI returns the SerpAPI-backed lookups.
func NewSerpAPI(client serpapi.Client, airports Airports, breakers *resilience.ServiceBreakers, currency string) *SerpAPI {
	if breakers == nil {
		breakers = resilience.NewServiceBreakers(resilience.DefaultCircuitBreakerConfig())
	}
	if currency == "" {
		currency = "USD"
	}
	return &SerpAPI{
		client:   client,
		airports: airports,
		breakers: breakers,
		currency: currency,
		nowFunc:  time.Now,
	}
}

// Set returns s as all three lookups.
func (s *SerpAPI) Set() Set {
	return Set{Flights: s, Hotels: s, Activities: s}
}

func (s *SerpAPI) Flights(ctx context.Context, q FlightQuery) (string, error) {
	return resilience.ExecuteVal(ctx, s.breakers.Get(ServiceFlights), func(ctx context.Context) (string, error) {
		from, err := s.airports.Resolve(ctx, q.Origin)
		if err != nil {
			return "", err
		}
		to, err := s.airports.Resolve(ctx, q.Destination)
		if err != nil {
			return "", err
		}

		req := serpapi.FlightsRequest{
			DepartureID:  from,
			ArrivalID:    to,
			OutboundDate: q.Start.String(),
			Adults:       q.Travelers,
		}
		if !q.End.IsZero() {
			req.ReturnDate = q.End.String()
		}
		resp, err := s.client.Flights(ctx, req)
		if err != nil {
			return "", err
		}
		opts := resp.Options()
		if len(opts) == 0 {
			return "", eris.Wrapf(ErrNoResults, "flights %s-%s: %s", from, to, resp.Error)
		}
		return renderFlights(q, from, to, opts, s.currency), nil
	})
}

func (s *SerpAPI) Hotels(ctx context.Context, q HotelQuery) (string, error) {
	return resilience.ExecuteVal(ctx, s.breakers.Get(ServiceHotels), func(ctx context.Context) (string, error) {
		req := serpapi.HotelsRequest{
			Query:    "hotels in " + q.Destination,
			CheckIn:  q.Start.String(),
			CheckOut: q.End.String(),
			Adults:   q.Travelers,
			MaxPrice: q.NightlyCap(),
		}
		if req.MaxPrice == 0 {
			req.SortBy = "8" // highest rating
		}
		resp, err := s.client.Hotels(ctx, req)
		if err != nil {
			return "", err
		}
		if len(resp.Properties) == 0 {
			return "", eris.Wrapf(ErrNoResults, "hotels in %s: %s", q.Destination, resp.Error)
		}
		return renderHotels(q, resp.Properties, s.currency), nil
	})
}

// Activities combines local attractions with events during the stay. A
// failed events search is logged and left out.
func (s *SerpAPI) Activities(ctx context.Context, q ActivityQuery) (string, error) {
	return resilience.ExecuteVal(ctx, s.breakers.Get(ServiceActivities), func(ctx context.Context) (string, error) {
		query := "top attractions"
		if q.Preferences != "" {
			query = q.Preferences
		}
		local, err := s.client.Local(ctx, serpapi.LocalRequest{Query: query, Location: q.Destination})
		if err != nil {
			return "", err
		}

		var events []serpapi.Event
		ev, err := s.client.Events(ctx, serpapi.EventsRequest{
			Query:      "events in " + q.Destination,
			DateFilter: eventWindow(s.nowFunc(), q),
		})
		if err != nil {
			zap.L().Warn("provider: events search failed",
				zap.String("destination", q.Destination),
				zap.Error(err),
			)
		} else {
			events = ev.EventsResults
		}

		if len(local.LocalResults) == 0 && len(events) == 0 {
			return "", eris.Wrapf(ErrNoResults, "activities in %s: %s", q.Destination, local.Error)
		}
		return renderActivities(q, local.LocalResults, events), nil
	})
}

// eventWindow picks the google_events date chip covering the trip start,
// or "" when the trip is too far out for any chip.
func eventWindow(now time.Time, q ActivityQuery) string {
	if q.Start.IsZero() {
		return ""
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(q.Start.Time().Sub(today).Hours() / 24)
	nextMonth := time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	switch {
	case days < 7:
		return "week"
	case days < 14:
		return "next_week"
	case q.Start.Year == today.Year() && q.Start.Month == today.Month():
		return "month"
	case q.Start.Year == nextMonth.Year() && q.Start.Month == nextMonth.Month():
		return "next_month"
	default:
		return ""
	}
}
