package stqgtfs

import (
	"fmt"

	"transitdata.ca/stq-gtfs/feed"
	"transitdata.ca/stq-gtfs/model"
)

// The synthesized feed, ready for export. All slices are in their
// published order; building twice from the same input yields
// byte-identical files.
type Feed struct {
	Trips         []model.Trip
	StopTimes     []model.StopTime
	Calendar      []model.Calendar
	CalendarDates []model.CalendarDate
}

// Build runs the full pipeline over an already-fetched set of raw
// records: trip synthesis, service grouping, then calendar
// optimization.
func (s *Synthesizer) Build(records []feed.Record) (*Feed, error) {
	result, err := s.Synthesize(records)
	if err != nil {
		return nil, fmt.Errorf("synthesizing trips: %w", err)
	}

	trips, raw := AssignServices(result.Seeds, result.Dates)

	calendar, exceptions, err := OptimizeCalendar(raw)
	if err != nil {
		return nil, fmt.Errorf("optimizing calendar: %w", err)
	}

	return &Feed{
		Trips:         trips,
		StopTimes:     result.StopTimes,
		Calendar:      calendar,
		CalendarDates: exceptions,
	}, nil
}
