package stqgtfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stqgtfs "transitdata.ca/stq-gtfs"
)

func TestNormalize(t *testing.T) {
	n, err := stqgtfs.NewNormalizer(map[string]string{
		"CAM": "America/Montreal",
		"SOU": "America/Halifax",
		"BAD": "Not/AZone",
	})
	require.NoError(t, err)

	for _, tc := range []struct {
		name        string
		localTime   string
		tripDate    string
		serviceDate string
		stopID      string
		expected    string
	}{
		{
			"same day, same zone as target",
			"14:15:00", "2024-04-24", "2024-04-24", "CAM",
			"14:15:00",
		},
		{
			"next day rolls past midnight",
			"00:05:00", "2024-04-25", "2024-04-24", "CAM",
			"24:05:00",
		},
		{
			"late evening stays below 24",
			"23:50:00", "2024-04-24", "2024-04-24", "CAM",
			"23:50:00",
		},
		{
			"next day late",
			"01:45:00", "2024-04-25", "2024-04-24", "CAM",
			"25:45:00",
		},
		{
			"atlantic zone shifts back one hour",
			"14:15:00", "2024-04-24", "2024-04-24", "SOU",
			"13:15:00",
		},
		{
			"atlantic departure just past local midnight",
			"00:30:00", "2024-04-25", "2024-04-24", "SOU",
			"23:30:00",
		},
		{
			"unknown stop falls back to default zone",
			"09:00:00", "2024-04-24", "2024-04-24", "nope",
			"09:00:00",
		},
		{
			"unloadable zone falls back to default zone",
			"09:00:00", "2024-04-24", "2024-04-24", "BAD",
			"09:00:00",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := n.Normalize(tc.localTime, tc.tripDate, tc.serviceDate, tc.stopID)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNormalizeMalformed(t *testing.T) {
	n, err := stqgtfs.NewNormalizer(nil)
	require.NoError(t, err)

	_, err = n.Normalize("25:99:00", "2024-04-24", "2024-04-24", "CAM")
	assert.Error(t, err)

	_, err = n.Normalize("14:15:00", "2024-13-40", "2024-04-24", "CAM")
	assert.Error(t, err)
}

func TestAddMinutes(t *testing.T) {
	for _, tc := range []struct {
		in       string
		minutes  int
		expected string
	}{
		{"14:15:00", 60, "15:15:00"},
		{"14:45:00", 30, "15:15:00"},
		{"23:30:00", 45, "24:15:00"},
		{"24:05:00", 120, "26:05:00"},
		{"09:00:30", 0, "09:00:30"},
	} {
		got, err := stqgtfs.AddMinutes(tc.in, tc.minutes)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, got, "%s + %d", tc.in, tc.minutes)
	}

	_, err := stqgtfs.AddMinutes("1415", 5)
	assert.Error(t, err)
}
