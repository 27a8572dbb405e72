package provider

import (
	"fmt"
	"strings"

	"github.com/sells-group/trip-assistant/internal/model"
	"github.com/sells-group/trip-assistant/pkg/serpapi"
)

func renderFlights(q FlightQuery, from, to string, opts []serpapi.FlightOption, currency string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Flights from %s (%s) to %s (%s), departing %s", q.Origin, from, q.Destination, to, q.Start.Pretty())
	if !q.End.IsZero() {
		fmt.Fprintf(&sb, ", returning %s", q.End.Pretty())
	}
	fmt.Fprintf(&sb, ", %d traveler(s):\n", q.Travelers)

	for i, o := range opts[:min(len(opts), maxListed)] {
		if len(o.Flights) == 0 {
			continue
		}
		first, last := o.Flights[0], o.Flights[len(o.Flights)-1]
		fmt.Fprintf(&sb, "%d. %s: %s %s -> %s %s, %s, %s, %s\n",
			i+1,
			airlines(o.Flights),
			first.DepartureAirport.ID, first.DepartureAirport.Time,
			last.ArrivalAirport.ID, last.ArrivalAirport.Time,
			minutes(o.TotalDuration),
			stops(o.Layovers),
			money(o.Price, currency),
		)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderHotels(q HotelQuery, props []serpapi.Property, currency string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hotels in %s, %s to %s (%d nights, %d room(s))", q.Destination, q.Start.Pretty(), q.End.Pretty(), q.Nights(), q.Rooms())
	if c := q.NightlyCap(); c > 0 {
		fmt.Fprintf(&sb, ", up to %s per night", money(float64(c), currency))
	}
	sb.WriteString(":\n")

	for i, p := range props[:min(len(props), maxListed)] {
		fmt.Fprintf(&sb, "%d. %s", i+1, p.Name)
		if p.HotelClass != "" {
			fmt.Fprintf(&sb, " (%s)", p.HotelClass)
		}
		if p.OverallRating > 0 {
			fmt.Fprintf(&sb, ", rated %.1f (%d reviews)", p.OverallRating, p.Reviews)
		}
		if p.RatePerNight.ExtractedLowest > 0 {
			fmt.Fprintf(&sb, ", %s per night", money(p.RatePerNight.ExtractedLowest, currency))
		}
		if p.TotalRate.ExtractedLowest > 0 {
			fmt.Fprintf(&sb, ", %s total", money(p.TotalRate.ExtractedLowest, currency))
		}
		if len(p.Amenities) > 0 {
			fmt.Fprintf(&sb, ". Amenities: %s", strings.Join(p.Amenities[:min(len(p.Amenities), 4)], ", "))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderActivities(q ActivityQuery, places []serpapi.Place, events []serpapi.Event) string {
	var sb strings.Builder
	if len(places) > 0 {
		fmt.Fprintf(&sb, "Things to do in %s", q.Destination)
		if q.Preferences != "" {
			fmt.Fprintf(&sb, " for %s", q.Preferences)
		}
		sb.WriteString(":\n")
		for i, p := range places[:min(len(places), maxListed)] {
			fmt.Fprintf(&sb, "%d. %s", i+1, p.Title)
			if p.Type != "" {
				fmt.Fprintf(&sb, " (%s)", p.Type)
			}
			if p.Rating > 0 {
				fmt.Fprintf(&sb, ", rated %.1f", p.Rating)
			}
			if p.Price != "" {
				fmt.Fprintf(&sb, ", %s", p.Price)
			}
			if p.Description != "" {
				fmt.Fprintf(&sb, ". %s", p.Description)
			}
			sb.WriteString("\n")
		}
	}
	if len(events) > 0 {
		fmt.Fprintf(&sb, "Events in %s:\n", q.Destination)
		for _, e := range events[:min(len(events), maxListed)] {
			fmt.Fprintf(&sb, "- %s", e.Title)
			if e.Date.When != "" {
				fmt.Fprintf(&sb, ", %s", e.Date.When)
			}
			if len(e.Address) > 0 {
				fmt.Fprintf(&sb, ", %s", strings.Join(e.Address, ", "))
			}
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func airlines(legs []serpapi.FlightLeg) string {
	var names []string
	seen := make(map[string]bool)
	for _, l := range legs {
		if l.Airline != "" && !seen[l.Airline] {
			seen[l.Airline] = true
			names = append(names, l.Airline)
		}
	}
	if len(names) == 0 {
		return "Unknown airline"
	}
	return strings.Join(names, " / ")
}

func stops(layovers []serpapi.Layover) string {
	switch len(layovers) {
	case 0:
		return "nonstop"
	case 1:
		return fmt.Sprintf("1 stop (%s)", layovers[0].ID)
	default:
		ids := make([]string, len(layovers))
		for i, l := range layovers {
			ids[i] = l.ID
		}
		return fmt.Sprintf("%d stops (%s)", len(layovers), strings.Join(ids, ", "))
	}
}

func minutes(m int) string {
	if m <= 0 {
		return "duration unknown"
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}

func money(v float64, currency string) string {
	s := model.FormatMoney(v)
	if currency == "" || currency == "USD" {
		return s
	}
	return strings.TrimPrefix(s, "$") + " " + currency
}
