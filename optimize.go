package stqgtfs

import (
	"fmt"
	"sort"
	"time"

	"transitdata.ca/stq-gtfs/model"
)

const gtfsDateLayout = "20060102"

// OptimizeCalendar collapses each service's exact date set into a
// weekly recurring pattern plus the minimal add/remove exceptions.
//
// A weekday is flagged operating when the service runs on at least
// half of that weekday's occurrences within [start, end] (ties round
// up). The union of the flagged pattern and ADD exceptions, minus
// REMOVE exceptions, reproduces the exact date set — that invariant
// is what makes this a pure compression step.
func OptimizeCalendar(raw []model.CalendarDate) ([]model.Calendar, []model.CalendarDate, error) {
	serviceDates := map[string]DateSet{}
	for _, cd := range raw {
		if serviceDates[cd.ServiceID] == nil {
			serviceDates[cd.ServiceID] = DateSet{}
		}
		serviceDates[cd.ServiceID][cd.Date] = true
	}

	calendar := []model.Calendar{}
	exceptions := []model.CalendarDate{}

	for serviceID, dates := range serviceDates {
		entry, serviceExceptions, err := optimizeService(serviceID, dates)
		if err != nil {
			return nil, nil, fmt.Errorf("optimizing service '%s': %w", serviceID, err)
		}
		calendar = append(calendar, entry)
		exceptions = append(exceptions, serviceExceptions...)
	}

	sort.SliceStable(calendar, func(i, j int) bool {
		return calendar[i].ServiceID < calendar[j].ServiceID
	})
	sort.SliceStable(exceptions, func(i, j int) bool {
		if exceptions[i].ServiceID == exceptions[j].ServiceID {
			return exceptions[i].Date < exceptions[j].Date
		}
		return exceptions[i].ServiceID < exceptions[j].ServiceID
	})

	return calendar, exceptions, nil
}

func optimizeService(serviceID string, dates DateSet) (model.Calendar, []model.CalendarDate, error) {
	sorted := dates.SortedDates()
	if len(sorted) == 0 {
		return model.Calendar{}, nil, fmt.Errorf("empty date set")
	}

	start, err := time.ParseInLocation(gtfsDateLayout, sorted[0], time.UTC)
	if err != nil {
		return model.Calendar{}, nil, fmt.Errorf("parsing start date: %w", err)
	}
	end, err := time.ParseInLocation(gtfsDateLayout, sorted[len(sorted)-1], time.UTC)
	if err != nil {
		return model.Calendar{}, nil, fmt.Errorf("parsing end date: %w", err)
	}

	// Count, per weekday, how many occurrences fall in the span and
	// how many of those are active.
	var total, active [7]int
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		w := day.Weekday()
		total[w]++
		if dates[day.Format(gtfsDateLayout)] {
			active[w]++
		}
	}

	var operating [7]bool
	for w := 0; w < 7; w++ {
		if total[w] > 0 && active[w]*2 >= total[w] {
			operating[w] = true
		}
	}

	exceptions := []model.CalendarDate{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		inSet := dates[day.Format(gtfsDateLayout)]
		flagged := operating[day.Weekday()]

		if flagged && !inSet {
			exceptions = append(exceptions, model.CalendarDate{
				ServiceID:     serviceID,
				Date:          day.Format(gtfsDateLayout),
				ExceptionType: model.ExceptionRemoved,
			})
		} else if !flagged && inSet {
			exceptions = append(exceptions, model.CalendarDate{
				ServiceID:     serviceID,
				Date:          day.Format(gtfsDateLayout),
				ExceptionType: model.ExceptionAdded,
			})
		}
	}

	entry := model.Calendar{
		ServiceID: serviceID,
		Monday:    flag(operating[time.Monday]),
		Tuesday:   flag(operating[time.Tuesday]),
		Wednesday: flag(operating[time.Wednesday]),
		Thursday:  flag(operating[time.Thursday]),
		Friday:    flag(operating[time.Friday]),
		Saturday:  flag(operating[time.Saturday]),
		Sunday:    flag(operating[time.Sunday]),
		StartDate: sorted[0],
		EndDate:   sorted[len(sorted)-1],
	}

	return entry, exceptions, nil
}

func flag(b bool) int8 {
	if b {
		return 1
	}
	return 0
}
