package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/trip-assistant/internal/model"
)

func tripProfile() model.TripProfile {
	start := model.MustDate("2026-06-01")
	end := model.MustDate("2026-06-07")
	budget := 3000.0
	return model.TripProfile{
		Origin:      "Boston",
		Destination: "Paris",
		StartDate:   &start,
		EndDate:     &end,
		Travelers:   3,
		Budget:      &budget,
		Preferences: "museums",
	}
}

func TestQueries(t *testing.T) {
	t.Parallel()

	fq, hq, aq := Queries(tripProfile())
	assert.Equal(t, "Boston", fq.Origin)
	assert.Equal(t, "Paris", fq.Destination)
	assert.Equal(t, 3, fq.Travelers)
	assert.Equal(t, "2026-06-07", hq.End.String())
	assert.Equal(t, 3000.0, *hq.Budget)
	assert.Equal(t, "museums", aq.Preferences)
}

func TestQueries_TravelersDefaultToOne(t *testing.T) {
	t.Parallel()

	fq, hq, _ := Queries(model.TripProfile{Destination: "Rome"})
	assert.Equal(t, 1, fq.Travelers)
	assert.Equal(t, 1, hq.Rooms())
	assert.Equal(t, 1, hq.Nights())
}

func TestHotelQuery_NightlyCap(t *testing.T) {
	t.Parallel()

	_, hq, _ := Queries(tripProfile())
	assert.Equal(t, 6, hq.Nights())
	assert.Equal(t, 2, hq.Rooms())
	assert.Equal(t, 250, hq.NightlyCap())

	hq.Budget = nil
	assert.Equal(t, 0, hq.NightlyCap())

	zero := 0.0
	hq.Budget = &zero
	assert.Equal(t, 0, hq.NightlyCap())
}
