package serpapi

// FlightsRequest queries the google_flights engine. Dates are YYYY-MM-DD.
// An empty ReturnDate searches one-way.
type FlightsRequest struct {
	DepartureID  string
	ArrivalID    string
	OutboundDate string
	ReturnDate   string
	Adults       int
}

// FlightsResponse is the subset of the google_flights response we read.
type FlightsResponse struct {
	BestFlights  []FlightOption `json:"best_flights"`
	OtherFlights []FlightOption `json:"other_flights"`
	Error        string         `json:"error,omitempty"`
}

// Options returns the best flights, or the others when there are none.
func (r *FlightsResponse) Options() []FlightOption {
	if len(r.BestFlights) > 0 {
		return r.BestFlights
	}
	return r.OtherFlights
}

// FlightOption is one priced itinerary.
type FlightOption struct {
	Flights       []FlightLeg `json:"flights"`
	Layovers      []Layover   `json:"layovers,omitempty"`
	TotalDuration int         `json:"total_duration"`
	Price         float64     `json:"price"`
	Type          string      `json:"type"`
}

// FlightLeg is one segment of an itinerary.
type FlightLeg struct {
	DepartureAirport Airport `json:"departure_airport"`
	ArrivalAirport   Airport `json:"arrival_airport"`
	Duration         int     `json:"duration"`
	Airline          string  `json:"airline"`
	FlightNumber     string  `json:"flight_number"`
	TravelClass      string  `json:"travel_class"`
}

// Airport is an endpoint of a flight leg.
type Airport struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Time string `json:"time"`
}

// Layover is a stop between legs.
type Layover struct {
	Name     string `json:"name"`
	ID       string `json:"id"`
	Duration int    `json:"duration"`
}

// HotelsRequest queries the google_hotels engine.
type HotelsRequest struct {
	Query    string
	CheckIn  string
	CheckOut string
	Adults   int
	// MaxPrice is a per-night ceiling. Zero means no ceiling.
	MaxPrice int
	SortBy   string
}

// HotelsResponse is the subset of the google_hotels response we read.
type HotelsResponse struct {
	Properties []Property `json:"properties"`
	Error      string     `json:"error,omitempty"`
}

// Property is one hotel or rental.
type Property struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Description   string   `json:"description"`
	Link          string   `json:"link"`
	RatePerNight  Rate     `json:"rate_per_night"`
	TotalRate     Rate     `json:"total_rate"`
	OverallRating float64  `json:"overall_rating"`
	Reviews       int      `json:"reviews"`
	HotelClass    string   `json:"hotel_class"`
	Amenities     []string `json:"amenities"`
}

// Rate is a displayed and parsed price.
type Rate struct {
	Lowest          string  `json:"lowest"`
	ExtractedLowest float64 `json:"extracted_lowest"`
}

// LocalRequest queries the google_local engine.
type LocalRequest struct {
	Query    string
	Location string
}

// LocalResponse is the subset of the google_local response we read.
type LocalResponse struct {
	LocalResults []Place `json:"local_results"`
	Error        string  `json:"error,omitempty"`
}

// Place is one local search hit.
type Place struct {
	Position    int     `json:"position"`
	Title       string  `json:"title"`
	Type        string  `json:"type"`
	Rating      float64 `json:"rating"`
	Reviews     int     `json:"reviews"`
	Price       string  `json:"price"`
	Address     string  `json:"address"`
	Description string  `json:"description"`
}

// EventsRequest queries the google_events engine. DateFilter is one of
// today, tomorrow, week, weekend, next_week, month, next_month.
type EventsRequest struct {
	Query      string
	DateFilter string
}

// EventsResponse is the subset of the google_events response we read.
type EventsResponse struct {
	EventsResults []Event `json:"events_results"`
	Error         string  `json:"error,omitempty"`
}

// Event is one listed event.
type Event struct {
	Title       string    `json:"title"`
	Date        EventDate `json:"date"`
	Address     []string  `json:"address"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
}

// EventDate is when an event happens.
type EventDate struct {
	StartDate string `json:"start_date"`
	When      string `json:"when"`
}
