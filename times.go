package stqgtfs

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// All published times are expressed in the agency's zone,
	// regardless of which shore the stop is on.
	TargetTimezone = "America/Toronto"

	// Zone assumed for stops with no stop_timezone on record.
	DefaultStopTimezone = "America/Montreal"

	// A service day starts at 04:00 local, not midnight. Anchoring
	// here avoids off-by-one day diffs for sailings near midnight.
	serviceDayAnchorHour = 4
)

// Normalizer converts local wall-clock departure times into
// service-day-relative GTFS time strings.
type Normalizer struct {
	target    *time.Location
	fallback  *time.Location
	stopZones map[string]*time.Location
}

// Builds a Normalizer from a stop_id -> IANA zone name map. Zone
// names that fail to load are dropped, leaving those stops on the
// fallback zone; publication must proceed even with incomplete
// reference data.
func NewNormalizer(stopZones map[string]string) (*Normalizer, error) {
	target, err := time.LoadLocation(TargetTimezone)
	if err != nil {
		return nil, fmt.Errorf("loading target timezone: %w", err)
	}
	fallback, err := time.LoadLocation(DefaultStopTimezone)
	if err != nil {
		return nil, fmt.Errorf("loading fallback timezone: %w", err)
	}

	zones := map[string]*time.Location{}
	for stopID, name := range stopZones {
		loc, err := time.LoadLocation(name)
		if err != nil {
			continue
		}
		zones[stopID] = loc
	}

	return &Normalizer{
		target:    target,
		fallback:  fallback,
		stopZones: zones,
	}, nil
}

// Normalize interprets localTime on tripDate in the stop's zone,
// re-expresses it in the target zone, and returns it as "HH:MM:SS"
// relative to serviceDate's service day. When the normalized instant
// falls on a later calendar day than the service day, hours run past
// 23 instead of wrapping ("24:05:00" for 00:05 the next day), per the
// GTFS next-day convention. Dates are "2006-01-02", times "15:04:05".
func (n *Normalizer) Normalize(localTime, tripDate, serviceDate, stopID string) (string, error) {
	loc, ok := n.stopZones[stopID]
	if !ok {
		loc = n.fallback
	}

	trip, err := time.ParseInLocation("2006-01-02T15:04:05", tripDate+"T"+localTime, loc)
	if err != nil {
		return "", fmt.Errorf("parsing departure time: %w", err)
	}
	anchor, err := time.ParseInLocation("2006-01-02", serviceDate, loc)
	if err != nil {
		return "", fmt.Errorf("parsing service date: %w", err)
	}
	anchor = anchor.Add(serviceDayAnchorHour * time.Hour)

	tripNorm := trip.In(n.target)
	anchorNorm := anchor.In(n.target)

	days := calendarDaysBetween(anchorNorm, tripNorm)

	hour := tripNorm.Hour() + 24*days
	return fmt.Sprintf("%02d:%02d:%02d", hour, tripNorm.Minute(), tripNorm.Second()), nil
}

// Number of calendar days from a's date to b's date, ignoring
// time-of-day. Computed on date components so DST transitions can't
// skew the count.
func calendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}

// AddMinutes advances an "HH:MM:SS" time string, carrying overflow
// minutes into the hour component. Hours are allowed to exceed 23.
func AddMinutes(t string, minutes int) (string, error) {
	parts := strings.Split(t, ":")
	if len(parts) != 3 {
		return "", fmt.Errorf("found %d parts in '%s'", len(parts), t)
	}

	hms := [3]int{}
	for i, str := range parts {
		j, err := strconv.Atoi(str)
		if err != nil {
			return "", fmt.Errorf("non-integer in '%s' pos %d", t, i)
		}
		hms[i] = j
	}

	hms[1] += minutes
	hms[0] += hms[1] / 60
	hms[1] %= 60

	return fmt.Sprintf("%02d:%02d:%02d", hms[0], hms[1], hms[2]), nil
}
