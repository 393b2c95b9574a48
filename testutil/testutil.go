package testutil

// Shared fixtures for tests across packages.

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	stqgtfs "transitdata.ca/stq-gtfs"
	"transitdata.ca/stq-gtfs/feed"
	"transitdata.ca/stq-gtfs/refdata"
)

// A two-shore route resembling the Île d'Entrée crossing. Both stops
// sit in the fallback zone, so tests that don't care about timezones
// see no conversion offset beyond Montreal->Toronto (which is zero).
func Patterns() *refdata.PatternSet {
	return refdata.NewPatternSet(
		refdata.Pattern{
			RouteID:              "ile-d-entree-cap-aux-meules",
			DepartureShore:       "Ile d'Entrée",
			ArrivalShore:         "Cap-aux-Meules",
			Headsign:             "Cap-aux-Meules",
			DirectionID:          0,
			DepartureStopID:      "IDE",
			ArrivalStopID:        "CAM",
			TravelMinutes:        60,
			WheelchairAccessible: 1,
			BikesAllowed:         1,
		},
		refdata.Pattern{
			RouteID:              "ile-d-entree-cap-aux-meules",
			DepartureShore:       "Cap-aux-Meules",
			ArrivalShore:         "Ile d'Entrée",
			Headsign:             "Île d'Entrée",
			DirectionID:          1,
			DepartureStopID:      "CAM",
			ArrivalStopID:        "IDE",
			TravelMinutes:        60,
			WheelchairAccessible: 1,
			BikesAllowed:         1,
		},
	)
}

func Normalizer(t testing.TB) *stqgtfs.Normalizer {
	n, err := stqgtfs.NewNormalizer(map[string]string{
		"IDE": "America/Montreal",
		"CAM": "America/Montreal",
	})
	require.NoError(t, err)
	return n
}

func Synthesizer(t testing.TB) *stqgtfs.Synthesizer {
	return &stqgtfs.Synthesizer{
		Patterns:   Patterns(),
		Normalizer: Normalizer(t),
		Logger:     zerolog.Nop(),
	}
}

// One raw record with a single departure. Dates are "2006-01-02",
// times "15:04:05".
func Record(route, shoreFrom, shoreTo, serviceDate, depDate, depTime, depType string) feed.Record {
	return feed.Record{
		Date:  serviceDate,
		Route: route,
		Data: feed.Schedule{
			Trajectories: []feed.Trajectory{
				{
					DepartureShore: shoreFrom,
					ArrivalShore:   shoreTo,
					Days: []feed.Day{
						{
							Date: serviceDate,
							Departures: []feed.Departure{
								{Type: depType, Time: depTime, Date: depDate},
							},
						},
					},
				},
			},
		},
	}
}
