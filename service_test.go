package stqgtfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stqgtfs "transitdata.ca/stq-gtfs"
	"transitdata.ca/stq-gtfs/feed"
	"transitdata.ca/stq-gtfs/model"
	"transitdata.ca/stq-gtfs/testutil"
)

func TestServiceIDContentHash(t *testing.T) {
	a := stqgtfs.DateSet{"20240424": true, "20240425": true}
	b := stqgtfs.DateSet{"20240425": true, "20240424": true}
	c := stqgtfs.DateSet{"20240424": true}

	// Same content, same id, regardless of insertion order.
	assert.Equal(t, stqgtfs.ServiceID(a), stqgtfs.ServiceID(b))
	assert.NotEqual(t, stqgtfs.ServiceID(a), stqgtfs.ServiceID(c))

	// "s" plus 8 hex characters.
	id := stqgtfs.ServiceID(a)
	assert.Len(t, id, 9)
	assert.Equal(t, "s", id[:1])
}

func TestAssignServices(t *testing.T) {
	s := testutil.Synthesizer(t)

	result, err := s.Synthesize([]feed.Record{
		// Two trips on the same pair of dates, one on a lone date.
		testutil.Record(testRoute, shoreIDE, shoreCAM, "2024-04-24", "2024-04-24", "14:15:00", "regular"),
		testutil.Record(testRoute, shoreIDE, shoreCAM, "2024-04-25", "2024-04-25", "14:15:00", "regular"),
		testutil.Record(testRoute, shoreCAM, shoreIDE, "2024-04-24", "2024-04-24", "15:00:00", "regular"),
		testutil.Record(testRoute, shoreCAM, shoreIDE, "2024-04-25", "2024-04-25", "15:00:00", "regular"),
		testutil.Record(testRoute, shoreIDE, shoreCAM, "2024-04-26", "2024-04-26", "09:00:00", "regular"),
	})
	require.NoError(t, err)
	require.Len(t, result.Seeds, 3)

	trips, raw := stqgtfs.AssignServices(result.Seeds, result.Dates)
	require.Len(t, trips, 3)

	byID := map[string]model.Trip{}
	for _, trip := range trips {
		byID[trip.ID] = trip
	}

	outbound := byID["202404_ile-d-entree-cap-aux-meules_IDE_CAM_141500"]
	inbound := byID["202404_ile-d-entree-cap-aux-meules_CAM_IDE_150000"]
	lone := byID["202404_ile-d-entree-cap-aux-meules_IDE_CAM_090000"]

	// Identical date sets share a service, different ones don't.
	assert.Equal(t, outbound.ServiceID, inbound.ServiceID)
	assert.NotEqual(t, outbound.ServiceID, lone.ServiceID)

	assert.Equal(t, "Cap-aux-Meules", outbound.Headsign)
	assert.Equal(t, int8(1), inbound.DirectionID)

	// One raw ADD row per (service, date), despite two trips
	// sharing the first service.
	expected := map[string]int{outbound.ServiceID: 2, lone.ServiceID: 1}
	counts := map[string]int{}
	for _, cd := range raw {
		assert.Equal(t, model.ExceptionAdded, cd.ExceptionType)
		counts[cd.ServiceID]++
	}
	assert.Equal(t, expected, counts)

	// Sorted by (service_id, date).
	for i := 1; i < len(raw); i++ {
		prev, cur := raw[i-1], raw[i]
		assert.True(t,
			prev.ServiceID < cur.ServiceID ||
				(prev.ServiceID == cur.ServiceID && prev.Date < cur.Date))
	}
}

func TestAssignServicesStableAcrossRuns(t *testing.T) {
	records := []feed.Record{
		testutil.Record(testRoute, shoreIDE, shoreCAM, "2024-04-24", "2024-04-24", "14:15:00", "regular"),
		testutil.Record(testRoute, shoreIDE, shoreCAM, "2024-04-25", "2024-04-25", "14:15:00", "regular"),
	}

	first, err := testutil.Synthesizer(t).Synthesize(records)
	require.NoError(t, err)
	second, err := testutil.Synthesizer(t).Synthesize(records)
	require.NoError(t, err)

	tripsA, rawA := stqgtfs.AssignServices(first.Seeds, first.Dates)
	tripsB, rawB := stqgtfs.AssignServices(second.Seeds, second.Dates)

	assert.Equal(t, tripsA, tripsB)
	assert.Equal(t, rawA, rawB)
}
