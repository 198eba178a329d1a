package match

import (
	"testing"
	"time"

	"github.com/Jatin546/routebuddy-mobile-app/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func route(start, end models.Coordinates, departure string, days ...string) *models.Route {
	return &models.Route{
		RouteID:       "route_test",
		UserID:        "user_test",
		StartCoords:   start,
		EndCoords:     end,
		DepartureTime: departure,
		DaysOfWeek:    days,
		Active:        true,
		CreatedAt:     time.Now(),
	}
}

func TestHaversineSymmetricAndZero(t *testing.T) {
	a := models.Coordinates{Lat: 40.7128, Lng: -74.0060}
	b := models.Coordinates{Lat: 51.5074, Lng: -0.1278}

	assert.Equal(t, Haversine(a, b), Haversine(b, a))
	assert.Zero(t, Haversine(a, a))
	assert.Zero(t, Haversine(b, b))
}

func TestHaversineKnownDistance(t *testing.T) {
	// New York to London is roughly 5570 km.
	nyc := models.Coordinates{Lat: 40.7128, Lng: -74.0060}
	london := models.Coordinates{Lat: 51.5074, Lng: -0.1278}

	assert.InDelta(t, 5570, Haversine(nyc, london), 20)
}

func TestTimeDiffMinutes(t *testing.T) {
	d, err := TimeDiffMinutes("08:30", "08:45")
	require.NoError(t, err)
	assert.Equal(t, 15, d)

	d, err = TimeDiffMinutes("08:45", "08:30")
	require.NoError(t, err)
	assert.Equal(t, 15, d)

	// No wraparound across midnight: the gap is measured within the day.
	d, err = TimeDiffMinutes("23:50", "00:10")
	require.NoError(t, err)
	assert.Equal(t, 1420, d)
}

func TestTimeDiffMinutesRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"", "25:00", "08:60", "eight", "08:30xyz", "08:30:00", " 08:30", "8.30"} {
		_, err := TimeDiffMinutes(bad, "08:00")
		assert.Error(t, err, bad)
	}
}

func TestScoreDistanceBoundaryIsStrict(t *testing.T) {
	origin := models.Coordinates{Lat: 0, Lng: 0}
	// At the equator one degree of longitude is ~111.19 km, so these
	// offsets land just inside and just outside the 5 km limit.
	inside := models.Coordinates{Lat: 0, Lng: 0.04495}  // ~4.9995 km
	outside := models.Coordinates{Lat: 0, Lng: 0.04505} // ~5.0106 km

	end := models.Coordinates{Lat: 1, Lng: 1}

	own := route(origin, end, "08:00", "monday")

	require.Less(t, Haversine(origin, inside), 5.0)
	require.Greater(t, Haversine(origin, outside), 5.0)

	accepted := route(inside, end, "08:00", "monday")
	assert.NotNil(t, Score(own, accepted))

	rejected := route(outside, end, "08:00", "monday")
	assert.Nil(t, Score(own, rejected))
}

func TestScoreTimeBoundaryIsStrict(t *testing.T) {
	a := models.Coordinates{Lat: 0, Lng: 0}
	b := models.Coordinates{Lat: 1, Lng: 1}

	own := route(a, b, "08:00", "monday")

	// Exactly at the limit is accepted.
	atLimit := route(a, b, "08:30", "monday")
	assert.NotNil(t, Score(own, atLimit))

	// One minute past the limit is rejected.
	pastLimit := route(a, b, "08:31", "monday")
	assert.Nil(t, Score(own, pastLimit))
}

func TestScoreRejectsDisjointDays(t *testing.T) {
	a := models.Coordinates{Lat: 0, Lng: 0}
	b := models.Coordinates{Lat: 1, Lng: 1}

	own := route(a, b, "08:00", "monday", "tuesday")
	other := route(a, b, "08:00", "saturday", "sunday")

	assert.Nil(t, Score(own, other))
}

func TestScoreIdenticalRoutesIsPerfect(t *testing.T) {
	a := models.Coordinates{Lat: 40.7128, Lng: -74.0060}
	b := models.Coordinates{Lat: 40.6413, Lng: -73.7781}

	own := route(a, b, "08:30", "monday", "wednesday", "friday")
	other := route(a, b, "08:30", "monday", "wednesday", "friday")

	score := Score(own, other)
	require.NotNil(t, score)
	assert.InDelta(t, 100, score.Score, 1e-9)
	assert.Zero(t, score.StartDistance)
	assert.Zero(t, score.EndDistance)
	assert.Zero(t, score.TimeDiff)
}

func TestScoreStaysInRange(t *testing.T) {
	a := models.Coordinates{Lat: 40.7128, Lng: -74.0060}
	offsets := []float64{0, 0.005, 0.01, 0.02, 0.04}

	own := route(a, a, "08:00", "monday", "tuesday", "wednesday")
	for _, dLat := range offsets {
		for _, dLng := range offsets {
			shifted := models.Coordinates{Lat: a.Lat + dLat, Lng: a.Lng + dLng}
			other := route(shifted, shifted, "08:20", "monday")

			if score := Score(own, other); score != nil {
				assert.GreaterOrEqual(t, score.Score, 0.0)
				assert.LessOrEqual(t, score.Score, 100.0)
			}
		}
	}
}

func TestScoreCommuteScenario(t *testing.T) {
	// Commuter A: lower Manhattan to JFK, 08:30, weekdays.
	aStart := models.Coordinates{Lat: 40.7128, Lng: -74.0060}
	aEnd := models.Coordinates{Lat: 40.6413, Lng: -73.7781}
	own := route(aStart, aEnd, "08:30", "monday", "tuesday", "wednesday", "thursday", "friday")

	// Commuter B starts and ends ~0.7 km away, departs 15 minutes later,
	// overlaps on three of A's five days.
	bStart := models.Coordinates{Lat: 40.7191, Lng: -74.0060}
	bEnd := models.Coordinates{Lat: 40.6476, Lng: -73.7781}
	other := route(bStart, bEnd, "08:45", "monday", "wednesday", "friday")

	score := Score(own, other)
	require.NotNil(t, score)

	assert.InDelta(t, 0.7, score.StartDistance, 0.05)
	assert.InDelta(t, 0.7, score.EndDistance, 0.05)
	assert.Equal(t, 15, score.TimeDiff)

	expected := 0.30*(100*(1-score.StartDistance/5)) +
		0.30*(100*(1-score.EndDistance/5)) +
		0.25*50 + // 15 of 30 minutes
		0.15*60 // 3 of 5 days
	assert.InDelta(t, expected, score.Score, 1e-9)
	assert.InDelta(t, 73.6, score.Score, 1.5)
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 73.6, Round1(73.649))
	assert.Equal(t, 0.7, Round2(0.7004))
	assert.Equal(t, 0.71, Round2(0.706))
}
