// Package match implements the geometric and temporal compatibility
// scoring between commute routes.
package match

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Jatin546/routebuddy-mobile-app/internal/models"
)

// Compatibility thresholds. A pair is rejected when a metric strictly
// exceeds its limit, so a start distance of exactly 5 km still matches.
const (
	MaxStartDistanceKM = 5.0
	MaxEndDistanceKM   = 5.0
	MaxTimeDiffMinutes = 30

	earthRadiusKM = 6371
)

// MinScore is the cutoff below which a scored pair is discarded
// (strictly greater than required).
const MinScore = 30.0

// RouteScore is the result of scoring one route pair.
type RouteScore struct {
	Score         float64 // composite, in [0,100]
	StartDistance float64 // km
	EndDistance   float64 // km
	TimeDiff      int     // minutes
}

// Haversine returns the great-circle distance in kilometers between two
// coordinate pairs. It is symmetric and zero for identical points.
func Haversine(a, b models.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lon1 := a.Lng * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lon2 := b.Lng * math.Pi / 180

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKM * c
}

// TimeDiffMinutes returns the absolute difference in minutes between two
// "HH:MM" times of day. There is no wraparound across midnight: 23:50 vs
// 00:10 yields 1420, not 20. That matches how departure times behave for
// commutes and is intentional.
func TimeDiffMinutes(t1, t2 string) (int, error) {
	m1, err := ParseClock(t1)
	if err != nil {
		return 0, err
	}
	m2, err := ParseClock(t2)
	if err != nil {
		return 0, err
	}
	d := m1 - m2
	if d < 0 {
		d = -d
	}
	return d, nil
}

// ParseClock parses an "HH:MM" 24h time of day into minutes since
// midnight. The whole string must be the time; trailing input is an
// error.
func ParseClock(t string) (int, error) {
	hh, mm, ok := strings.Cut(t, ":")
	if !ok {
		return 0, fmt.Errorf("invalid departure time %q", t)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid departure time %q: %w", t, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid departure time %q: %w", t, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid departure time %q", t)
	}
	return h*60 + m, nil
}

// Score computes the compatibility of two routes. It returns nil when the
// pair fails any threshold or the routes share no common weekday. The day
// component is relative to the requester's own weekday set.
func Score(own, other *models.Route) *RouteScore {
	startDist := Haversine(own.StartCoords, other.StartCoords)
	endDist := Haversine(own.EndCoords, other.EndCoords)

	timeDiff, err := TimeDiffMinutes(own.DepartureTime, other.DepartureTime)
	if err != nil {
		return nil
	}

	if startDist > MaxStartDistanceKM || endDist > MaxEndDistanceKM || timeDiff > MaxTimeDiffMinutes {
		return nil
	}

	common := commonDays(own.DaysOfWeek, other.DaysOfWeek)
	if common == 0 || len(own.DaysOfWeek) == 0 {
		return nil
	}

	startScore := math.Max(0, 100*(1-startDist/MaxStartDistanceKM))
	endScore := math.Max(0, 100*(1-endDist/MaxEndDistanceKM))
	timeScore := math.Max(0, 100*(1-float64(timeDiff)/MaxTimeDiffMinutes))
	dayScore := 100 * float64(common) / float64(len(own.DaysOfWeek))

	total := 0.30*startScore + 0.30*endScore + 0.25*timeScore + 0.15*dayScore

	return &RouteScore{
		Score:         total,
		StartDistance: startDist,
		EndDistance:   endDist,
		TimeDiff:      timeDiff,
	}
}

func commonDays(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, d := range a {
		set[d] = struct{}{}
	}
	n := 0
	for _, d := range b {
		if _, ok := set[d]; ok {
			n++
			delete(set, d) // guard against duplicate labels
		}
	}
	return n
}

// Round1 rounds to one decimal place (used for scores).
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places (used for distances).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
