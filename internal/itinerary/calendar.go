package itinerary

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/rotisserie/eris"

	"github.com/sells-group/trip-assistant/internal/model"
)

// ErrNoDates is returned when a calendar is requested for a trip without
// both dates.
var ErrNoDates = eris.New("itinerary: trip has no dates")

// WriteCalendar writes the trip as one all-day iCalendar event spanning
// start_date through end_date, with the itinerary as its description.
func WriteCalendar(w io.Writer, sessionID string, p model.TripProfile, text string, now time.Time) error {
	if p.StartDate == nil || p.EndDate == nil {
		return ErrNoDates
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//trip-assistant//itinerary//EN")

	ev := cal.AddEvent(sessionID + "@trip-assistant")
	ev.SetDtStampTime(now)
	ev.SetSummary("Trip to " + p.Destination)
	ev.SetLocation(p.Destination)
	ev.SetAllDayStartAt(p.StartDate.Time())
	// DTEND of an all-day event is exclusive.
	ev.SetAllDayEndAt(p.EndDate.AddDays(1).Time())
	ev.SetDescription(calendarDescription(p, text))

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return eris.Wrap(err, "itinerary: write calendar")
	}
	return nil
}

func calendarDescription(p model.TripProfile, text string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From %s, %d traveler(s), %d nights.\n", p.Origin, p.Travelers, p.Nights())
	if text != "" {
		sb.WriteString("\n")
		sb.WriteString(text)
	}
	return sb.String()
}
