package stqgtfs

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"transitdata.ca/stq-gtfs/model"
)

// Derives the service identifier for an exact set of operating
// dates. Content-hashed so identical schedules produce the same id
// across independent runs and months; downstream consumers diff feeds
// between publications and rely on this stability.
func ServiceID(dates DateSet) string {
	joined := strings.Join(dates.SortedDates(), ",")
	sum := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("s%x", sum[:4])
}

// AssignServices groups trips by the exact content of their date sets
// and produces the final trip collection with service_id attached,
// plus one raw ADD exception per (service, date) pair. Trips with
// different schedules never share a service_id, even when their date
// counts match.
func AssignServices(seeds []TripSeed, dates map[TripKey]DateSet) ([]model.Trip, []model.CalendarDate) {
	trips := make([]model.Trip, 0, len(seeds))
	seen := map[string]bool{}
	raw := []model.CalendarDate{}

	for _, seed := range seeds {
		ds := dates[seed.Key]
		serviceID := ServiceID(ds)

		trips = append(trips, model.Trip{
			RouteID:              seed.Key.RouteID,
			ServiceID:            serviceID,
			ID:                   seed.Key.ID(),
			Headsign:             seed.Headsign,
			DirectionID:          seed.DirectionID,
			WheelchairAccessible: seed.WheelchairAccessible,
			BikesAllowed:         seed.BikesAllowed,
			CarsAllowed:          seed.CarsAllowed,
		})

		if seen[serviceID] {
			continue
		}
		seen[serviceID] = true

		for _, date := range ds.SortedDates() {
			raw = append(raw, model.CalendarDate{
				ServiceID:     serviceID,
				Date:          date,
				ExceptionType: model.ExceptionAdded,
			})
		}
	}

	sort.SliceStable(trips, func(i, j int) bool {
		return trips[i].ID < trips[j].ID
	})
	sort.SliceStable(raw, func(i, j int) bool {
		if raw[i].ServiceID == raw[j].ServiceID {
			return raw[i].Date < raw[j].Date
		}
		return raw[i].ServiceID < raw[j].ServiceID
	})

	return trips, raw
}
