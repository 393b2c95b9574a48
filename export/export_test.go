package export

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stqgtfs "transitdata.ca/stq-gtfs"
	"transitdata.ca/stq-gtfs/model"
	"transitdata.ca/stq-gtfs/refdata"
)

func sampleFeed() *stqgtfs.Feed {
	return &stqgtfs.Feed{
		Trips: []model.Trip{
			{
				RouteID:              "ile-d-entree-cap-aux-meules",
				ServiceID:            "sabcd1234",
				ID:                   "202404_ile-d-entree-cap-aux-meules_IDE_CAM_141500",
				Headsign:             "Cap-aux-Meules",
				DirectionID:          0,
				WheelchairAccessible: 1,
				BikesAllowed:         1,
				CarsAllowed:          1,
			},
		},
		StopTimes: []model.StopTime{
			{
				TripID:       "202404_ile-d-entree-cap-aux-meules_IDE_CAM_141500",
				Arrival:      "14:15:00",
				Departure:    "14:15:00",
				StopID:       "IDE",
				StopSequence: 1,
				DropOffType:  1,
				Timepoint:    1,
			},
			{
				TripID:       "202404_ile-d-entree-cap-aux-meules_IDE_CAM_141500",
				Arrival:      "15:15:00",
				Departure:    "15:15:00",
				StopID:       "CAM",
				StopSequence: 2,
				PickupType:   1,
				Timepoint:    1,
			},
		},
		Calendar: []model.Calendar{
			{ServiceID: "sabcd1234", Wednesday: 1, StartDate: "20240424", EndDate: "20240424"},
		},
		CalendarDates: []model.CalendarDate{
			{ServiceID: "sabcd1234", Date: "20240501", ExceptionType: model.ExceptionAdded},
		},
	}
}

func TestWriteFeed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFeed(dir, sampleFeed()))

	trips, err := os.ReadFile(filepath.Join(dir, "trips.txt"))
	require.NoError(t, err)
	assert.Equal(t,
		"route_id,service_id,trip_id,trip_headsign,direction_id,wheelchair_accessible,bikes_allowed,cars_allowed\n"+
			"ile-d-entree-cap-aux-meules,sabcd1234,202404_ile-d-entree-cap-aux-meules_IDE_CAM_141500,Cap-aux-Meules,0,1,1,1\n",
		string(trips))

	stopTimes, err := os.ReadFile(filepath.Join(dir, "stop_times.txt"))
	require.NoError(t, err)
	assert.Equal(t,
		"trip_id,arrival_time,departure_time,stop_id,stop_sequence,pickup_type,drop_off_type,timepoint,pickup_booking_rule_id\n"+
			"202404_ile-d-entree-cap-aux-meules_IDE_CAM_141500,14:15:00,14:15:00,IDE,1,0,1,1,\n"+
			"202404_ile-d-entree-cap-aux-meules_IDE_CAM_141500,15:15:00,15:15:00,CAM,2,1,0,1,\n",
		string(stopTimes))

	calendar, err := os.ReadFile(filepath.Join(dir, "calendar.txt"))
	require.NoError(t, err)
	assert.Equal(t,
		"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n"+
			"sabcd1234,0,0,1,0,0,0,0,20240424,20240424\n",
		string(calendar))

	calendarDates, err := os.ReadFile(filepath.Join(dir, "calendar_dates.txt"))
	require.NoError(t, err)
	assert.Equal(t,
		"service_id,date,exception_type\nsabcd1234,20240501,1\n",
		string(calendarDates))
}

func TestWriteFeedDeterministic(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	require.NoError(t, WriteFeed(dirA, sampleFeed()))
	require.NoError(t, WriteFeed(dirB, sampleFeed()))

	for _, name := range []string{"trips.txt", "stop_times.txt", "calendar.txt", "calendar_dates.txt"} {
		a, err := os.ReadFile(filepath.Join(dirA, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirB, name))
		require.NoError(t, err)
		assert.Equal(t, a, b, name)
	}
}

func TestWriteFeedInfo(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFeedInfo(dir, model.FeedInfo{
		PublisherName: "Example Transit Data",
		PublisherURL:  "https://example.com/",
		Lang:          "fr",
		DefaultLang:   "fr",
		StartDate:     "20240401",
		EndDate:       "20240630",
		Version:       "2024-04-24T09:30:00Z",
		ContactURL:    "https://example.com/issues",
	}))

	content, err := os.ReadFile(filepath.Join(dir, "feed_info.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(content),
		"feed_publisher_name,feed_publisher_url,feed_lang,default_lang,feed_start_date,feed_end_date,feed_version,feed_contact_url")
	assert.Contains(t, string(content), "Example Transit Data")
}

func TestWriteTable(t *testing.T) {
	table := &refdata.Table{
		Fields: []string{"stop_id", "stop_name", "stop_desc"},
		Rows: []map[string]any{
			{"stop_id": "IDE", "stop_name": "Île d'Entrée, quai", "extra": "dropped"},
			{"stop_id": "CAM", "stop_name": "Cap-aux-Meules", "stop_desc": "Said \"the\" terminal"},
		},
	}

	path := filepath.Join(t.TempDir(), "stops.txt")
	require.NoError(t, WriteTable(path, table, "stop_id"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"stop_id,stop_name,stop_desc\n"+
			"CAM,Cap-aux-Meules,\"Said \"\"the\"\" terminal\"\n"+
			"IDE,\"Île d'Entrée, quai\",\n",
		string(content))
}

func TestZip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"trips.txt", "agency.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name+" content\n"), 0644))
	}
	// Non-txt files stay out of the archive.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0644))

	out := filepath.Join(t.TempDir(), "gtfs.zip")
	require.NoError(t, Zip(dir, out))

	r, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer r.Close()

	names := []string{}
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"agency.txt", "trips.txt"}, names)
}

func TestZipEmptyDir(t *testing.T) {
	err := Zip(t.TempDir(), filepath.Join(t.TempDir(), "gtfs.zip"))
	assert.Error(t, err)
}
