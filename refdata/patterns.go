package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spkg/bom"
)

// Static per-route sailing templates. Loaded once at startup and
// read-only for the rest of the run.

type Pattern struct {
	RouteID              string
	DepartureShore       string
	ArrivalShore         string
	Headsign             string
	DirectionID          int8
	DepartureStopID      string
	ArrivalStopID        string
	TravelMinutes        int
	WheelchairAccessible int8
	BikesAllowed         int8
}

type PatternSet struct {
	byRoute map[string][]Pattern
}

// Builds a PatternSet from already-typed patterns. Mostly useful for
// tests; production loads from JSON via LoadPatterns.
func NewPatternSet(patterns ...Pattern) *PatternSet {
	ps := &PatternSet{byRoute: map[string][]Pattern{}}
	for _, p := range patterns {
		ps.byRoute[p.RouteID] = append(ps.byRoute[p.RouteID], p)
	}
	return ps
}

// On-disk schema. GTFS enum fields are stored as strings in the
// reference JSON.
type patternJSON struct {
	DepartureShore       string `json:"departure_shore"`
	ArrivalShore         string `json:"arrival_shore"`
	Headsign             string `json:"gtfs_trip_headsign"`
	DirectionID          string `json:"gtfs_direction_id"`
	DepartureStopID      string `json:"gtfs_departure_stop_id"`
	ArrivalStopID        string `json:"gtfs_arrival_stop_id"`
	TravelMinutes        int    `json:"travel_minutes"`
	WheelchairAccessible string `json:"wheelchair_accessible"`
	BikesAllowed         string `json:"bikes_allowed"`
}

type routePatternsJSON struct {
	RouteID  string        `json:"route_id"`
	Patterns []patternJSON `json:"service_patterns"`
}

func LoadPatterns(path string) (*PatternSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening patterns: %w", err)
	}
	defer f.Close()

	var doc struct {
		Routes []routePatternsJSON `json:"routes"`
	}
	if err := json.NewDecoder(bom.NewReader(f)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding patterns: %w", err)
	}

	ps := &PatternSet{byRoute: map[string][]Pattern{}}
	for _, route := range doc.Routes {
		if route.RouteID == "" {
			return nil, fmt.Errorf("pattern entry with empty route_id")
		}
		for i, pj := range route.Patterns {
			p, err := buildPattern(route.RouteID, pj)
			if err != nil {
				return nil, errors.Wrapf(err, "route %s pattern %d", route.RouteID, i)
			}
			ps.byRoute[route.RouteID] = append(ps.byRoute[route.RouteID], p)
		}
	}

	return ps, nil
}

func buildPattern(routeID string, pj patternJSON) (Pattern, error) {
	direction, err := parseEnum(pj.DirectionID, 1)
	if err != nil {
		return Pattern{}, fmt.Errorf("direction_id: %w", err)
	}
	wheelchair, err := parseEnum(pj.WheelchairAccessible, 2)
	if err != nil {
		return Pattern{}, fmt.Errorf("wheelchair_accessible: %w", err)
	}
	bikes, err := parseEnum(pj.BikesAllowed, 2)
	if err != nil {
		return Pattern{}, fmt.Errorf("bikes_allowed: %w", err)
	}

	if pj.DepartureStopID == "" || pj.ArrivalStopID == "" {
		return Pattern{}, fmt.Errorf("missing stop id")
	}
	if pj.TravelMinutes <= 0 {
		return Pattern{}, fmt.Errorf("invalid travel_minutes %d", pj.TravelMinutes)
	}

	return Pattern{
		RouteID:              routeID,
		DepartureShore:       pj.DepartureShore,
		ArrivalShore:         pj.ArrivalShore,
		Headsign:             pj.Headsign,
		DirectionID:          direction,
		DepartureStopID:      pj.DepartureStopID,
		ArrivalStopID:        pj.ArrivalStopID,
		TravelMinutes:        pj.TravelMinutes,
		WheelchairAccessible: wheelchair,
		BikesAllowed:         bikes,
	}, nil
}

func parseEnum(s string, max int8) (int8, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("non-integer value '%s'", s)
	}
	if v < 0 || int8(v) > max {
		return 0, fmt.Errorf("value %d out of range", v)
	}
	return int8(v), nil
}

// Reports whether any patterns exist for the route at all.
func (ps *PatternSet) HasRoute(routeID string) bool {
	return len(ps.byRoute[routeID]) > 0
}

// Looks up the template for a route's shore pair. Reference data is
// small, so a linear scan is fine. The second return is false when no
// template matches; callers are expected to skip such entries rather
// than abort, since the schedule API sometimes serves placeholder
// shores that aren't in the reference set yet.
func (ps *PatternSet) Resolve(routeID, departureShore, arrivalShore string) (Pattern, bool) {
	for _, p := range ps.byRoute[routeID] {
		if p.DepartureShore == departureShore && p.ArrivalShore == arrivalShore {
			return p, true
		}
	}
	return Pattern{}, false
}

func (ps *PatternSet) RouteIDs() []string {
	ids := make([]string, 0, len(ps.byRoute))
	for id := range ps.byRoute {
		ids = append(ids, id)
	}
	return ids
}
