package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	stqgtfs "transitdata.ca/stq-gtfs"
	"transitdata.ca/stq-gtfs/model"
	"transitdata.ca/stq-gtfs/refdata"
)

// Writes GTFS txt files into a directory. The typed files go through
// gocsv; the reference tables are field-projected by hand since their
// columns come from the JSON documents, not from struct tags.

func WriteFeed(dir string, f *stqgtfs.Feed) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	if err := writeCSV(filepath.Join(dir, "trips.txt"), f.Trips); err != nil {
		return errors.Wrap(err, "writing trips.txt")
	}
	if err := writeCSV(filepath.Join(dir, "stop_times.txt"), f.StopTimes); err != nil {
		return errors.Wrap(err, "writing stop_times.txt")
	}
	if err := writeCSV(filepath.Join(dir, "calendar.txt"), f.Calendar); err != nil {
		return errors.Wrap(err, "writing calendar.txt")
	}
	if err := writeCSV(filepath.Join(dir, "calendar_dates.txt"), f.CalendarDates); err != nil {
		return errors.Wrap(err, "writing calendar_dates.txt")
	}

	return nil
}

func WriteFeedInfo(dir string, info model.FeedInfo) error {
	return writeCSV(filepath.Join(dir, "feed_info.txt"), []model.FeedInfo{info})
}

func writeCSV(path string, records any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(records, f); err != nil {
		return fmt.Errorf("marshaling csv: %w", err)
	}

	return nil
}

// WriteTable writes a field-projected reference table, sorted by
// sortField when given. Values are quoted only when they contain a
// comma, matching the historical output byte for byte.
func WriteTable(path string, t *refdata.Table, sortField string) error {
	if sortField != "" {
		t.SortBy(sortField)
	}

	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, strings.Join(t.Fields, ","))

	for i := range t.Rows {
		cells := make([]string, len(t.Fields))
		for j, field := range t.Fields {
			cells[j] = escapeCell(t.Cell(i, field))
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	return nil
}

func escapeCell(v string) string {
	if strings.Contains(v, "\"") {
		v = strings.ReplaceAll(v, "\"", "\"\"")
		return "\"" + v + "\""
	}
	if strings.Contains(v, ",") || strings.Contains(v, "\n") {
		return "\"" + v + "\""
	}
	return v
}
