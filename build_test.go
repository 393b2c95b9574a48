package stqgtfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitdata.ca/stq-gtfs/feed"
	"transitdata.ca/stq-gtfs/model"
	"transitdata.ca/stq-gtfs/testutil"
)

func buildRecords() []feed.Record {
	return []feed.Record{
		testutil.Record(testRoute, shoreIDE, shoreCAM, "2024-06-03", "2024-06-03", "14:15:00", "regular"),
		testutil.Record(testRoute, shoreIDE, shoreCAM, "2024-06-10", "2024-06-10", "14:15:00", "regular"),
		testutil.Record(testRoute, shoreIDE, shoreCAM, "2024-06-17", "2024-06-17", "14:15:00", "regular"),
		testutil.Record(testRoute, shoreCAM, shoreIDE, "2024-06-03", "2024-06-03", "15:30:00", "regular"),
		testutil.Record(testRoute, shoreCAM, shoreIDE, "2024-06-17", "2024-06-17", "15:30:00", "regular"),
	}
}

func TestBuildPipeline(t *testing.T) {
	f, err := testutil.Synthesizer(t).Build(buildRecords())
	require.NoError(t, err)

	require.Len(t, f.Trips, 2)
	require.Len(t, f.StopTimes, 4)
	require.Len(t, f.Calendar, 2)

	// Every trip's service has a calendar entry.
	services := map[string]bool{}
	for _, c := range f.Calendar {
		services[c.ServiceID] = true
	}
	for _, trip := range f.Trips {
		assert.True(t, services[trip.ServiceID], "trip %s has no calendar entry", trip.ID)
	}

	// The inbound trip misses Jun 10, a Monday active 2 of 3 times:
	// still flagged, reconciled with one REMOVE.
	require.Len(t, f.CalendarDates, 1)
	assert.Equal(t, "20240610", f.CalendarDates[0].Date)
	assert.Equal(t, model.ExceptionRemoved, f.CalendarDates[0].ExceptionType)
}

func TestBuildDeterministic(t *testing.T) {
	first, err := testutil.Synthesizer(t).Build(buildRecords())
	require.NoError(t, err)
	second, err := testutil.Synthesizer(t).Build(buildRecords())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
