package stqgtfs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"transitdata.ca/stq-gtfs/feed"
	"transitdata.ca/stq-gtfs/model"
	"transitdata.ca/stq-gtfs/refdata"
)

// Composite trip identity. Month-scoped so each month's trips can be
// managed and debugged independently, and typed so delimiter
// characters inside field values can't collide two trips.
type TripKey struct {
	YearMonth string
	RouteID   string
	DepStopID string
	ArrStopID string
	DepTime   string // normalized HH:MM:SS with colons stripped
	Type      model.DepartureType
}

// The published trip_id. Regular sailings keep the compact historical
// form; other categories get a type suffix since they're distinct
// trips (a foot-only crossing isn't the same trip as a vehicle one).
func (k TripKey) ID() string {
	id := fmt.Sprintf("%s_%s_%s_%s_%s", k.YearMonth, k.RouteID, k.DepStopID, k.ArrStopID, k.DepTime)
	if k.Type != model.DepartureRegular {
		id += "_" + string(k.Type)
	}
	return id
}

// A trip before service assignment. Seeds are immutable; the grouper
// produces the final model.Trip collection with service_id attached.
type TripSeed struct {
	Key                  TripKey
	Headsign             string
	DirectionID          int8
	WheelchairAccessible int8
	BikesAllowed         int8
	CarsAllowed          int8
}

// Set of YYYYMMDD dates a trip operates on.
type DateSet map[string]bool

func (ds DateSet) SortedDates() []string {
	dates := make([]string, 0, len(ds))
	for d := range ds {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Departure categories that admit vehicles on board. Anything not
// listed is treated as no-vehicles.
var vehiclesAllowed = map[model.DepartureType]bool{
	model.DepartureRegular:             true,
	model.DepartureReservationRequired: true,
	model.DepartureNoticeTide:          true,
}

// Departure categories that can't take bikes even when the route's
// pattern normally allows them.
var bikesForbidden = map[model.DepartureType]bool{
	model.DepartureFootOnly:       true,
	model.DepartureAirTransport:   true,
	model.DepartureDangerousCargo: true,
}

func carsAllowedFlag(t model.DepartureType) int8 {
	if vehiclesAllowed[t] {
		return model.AccessAllowed
	}
	return model.AccessNotAllowed
}

func bikesAllowedFlag(t model.DepartureType, patternFlag int8) int8 {
	if bikesForbidden[t] {
		return model.AccessNotAllowed
	}
	return patternFlag
}

// Booking rule referenced by reservation-required sailings. These
// crossings only run if booked 24h ahead.
const BookingRuleReservation24h = "reservation-24h"

type Synthesizer struct {
	Patterns   *refdata.PatternSet
	Normalizer *Normalizer

	// In strict mode a missing pattern fails the run instead of
	// skipping the entry.
	Strict bool

	Logger zerolog.Logger
}

type SynthesisResult struct {
	Seeds     []TripSeed
	StopTimes []model.StopTime

	// Calendar dates each trip operates on. Grows as records are
	// scanned, never shrinks.
	Dates map[TripKey]DateSet
}

// Synthesize walks the raw per-date feed and emits deduplicated trip
// seeds, their stop-time pairs, and the per-trip date sets. Two
// departures with the same key collapse into one trip operating on
// both dates. Output ordering is deterministic: seeds by trip id,
// stop times by (trip id, stop_sequence).
func (s *Synthesizer) Synthesize(records []feed.Record) (*SynthesisResult, error) {
	result := &SynthesisResult{
		Dates: map[TripKey]DateSet{},
	}

	for _, record := range records {
		if !s.Patterns.HasRoute(record.Route) {
			if s.Strict {
				return nil, fmt.Errorf("no service patterns for route '%s'", record.Route)
			}
			s.Logger.Warn().
				Str("route", record.Route).
				Msg("No service patterns for route, skipping")
			continue
		}

		for _, traj := range record.Data.Trajectories {
			err := s.synthesizeTrajectory(record.Route, traj, result)
			if err != nil {
				return nil, err
			}
		}
	}

	sort.SliceStable(result.Seeds, func(i, j int) bool {
		return result.Seeds[i].Key.ID() < result.Seeds[j].Key.ID()
	})
	sort.SliceStable(result.StopTimes, func(i, j int) bool {
		cmp := strings.Compare(result.StopTimes[i].TripID, result.StopTimes[j].TripID)
		if cmp == 0 {
			return result.StopTimes[i].StopSequence < result.StopTimes[j].StopSequence
		}
		return cmp < 0
	})

	return result, nil
}

func (s *Synthesizer) synthesizeTrajectory(route string, traj feed.Trajectory, result *SynthesisResult) error {
	pattern, ok := s.Patterns.Resolve(route, traj.DepartureShore, traj.ArrivalShore)
	if !ok {
		if s.Strict {
			return fmt.Errorf(
				"no service pattern for route '%s' from '%s' to '%s'",
				route, traj.DepartureShore, traj.ArrivalShore,
			)
		}
		s.Logger.Warn().
			Str("route", route).
			Str("departure_shore", traj.DepartureShore).
			Str("arrival_shore", traj.ArrivalShore).
			Msg("No matching service pattern, skipping")
		return nil
	}

	for _, day := range traj.Days {
		if len(day.Departures) == 0 {
			s.Logger.Debug().
				Str("route", route).
				Str("date", day.Date).
				Msg("No departures for day")
			continue
		}

		for _, dep := range day.Departures {
			if err := s.synthesizeDeparture(route, pattern, day.Date, dep, result); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *Synthesizer) synthesizeDeparture(
	route string,
	pattern refdata.Pattern,
	serviceDate string,
	dep feed.Departure,
	result *SynthesisResult,
) error {
	// Times are normalized against the day the departure was
	// scheduled under, not the departure's own clock date; a
	// sailing past midnight still belongs to the prior service day.
	depTime, err := s.Normalizer.Normalize(dep.Time, dep.Date, serviceDate, pattern.DepartureStopID)
	if err != nil {
		if s.Strict {
			return fmt.Errorf("normalizing departure on %s: %w", serviceDate, err)
		}
		s.Logger.Warn().
			Str("route", route).
			Str("date", serviceDate).
			Str("time", dep.Time).
			Err(err).
			Msg("Skipping unparseable departure")
		return nil
	}

	depType := model.DepartureType(dep.Type)
	key := TripKey{
		YearMonth: strings.ReplaceAll(serviceDate, "-", "")[:6],
		RouteID:   route,
		DepStopID: pattern.DepartureStopID,
		ArrStopID: pattern.ArrivalStopID,
		DepTime:   strings.ReplaceAll(depTime, ":", ""),
		Type:      depType,
	}

	if _, seen := result.Dates[key]; !seen {
		arrTime, err := AddMinutes(depTime, pattern.TravelMinutes)
		if err != nil {
			return fmt.Errorf("computing arrival time: %w", err)
		}

		result.Seeds = append(result.Seeds, TripSeed{
			Key:                  key,
			Headsign:             pattern.Headsign,
			DirectionID:          pattern.DirectionID,
			WheelchairAccessible: pattern.WheelchairAccessible,
			BikesAllowed:         bikesAllowedFlag(depType, pattern.BikesAllowed),
			CarsAllowed:          carsAllowedFlag(depType),
		})

		bookingRule := ""
		pickupType := int8(0)
		if depType == model.DepartureReservationRequired {
			bookingRule = BookingRuleReservation24h
			pickupType = 2
		}

		result.StopTimes = append(result.StopTimes,
			model.StopTime{
				TripID:              key.ID(),
				Arrival:             depTime,
				Departure:           depTime,
				StopID:              pattern.DepartureStopID,
				StopSequence:        1,
				PickupType:          pickupType,
				DropOffType:         1,
				Timepoint:           1,
				PickupBookingRuleID: bookingRule,
			},
			model.StopTime{
				TripID:       key.ID(),
				Arrival:      arrTime,
				Departure:    arrTime,
				StopID:       pattern.ArrivalStopID,
				StopSequence: 2,
				PickupType:   1,
				DropOffType:  0,
				Timepoint:    1,
			},
		)

		result.Dates[key] = DateSet{}
	}

	result.Dates[key][strings.ReplaceAll(serviceDate, "-", "")] = true

	return nil
}
