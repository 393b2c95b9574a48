package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spkg/bom"
)

// Field-projected reference tables (agency, routes, stops,
// attributions). The JSON documents declare which fields to publish
// and in what order; rows may carry extra fields that are simply not
// projected.
type Table struct {
	Fields []string
	Rows   []map[string]any
}

func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table: %w", err)
	}
	defer f.Close()

	var doc struct {
		Fields []string         `json:"fields"`
		Data   []map[string]any `json:"data"`
	}
	if err := json.NewDecoder(bom.NewReader(f)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding table: %w", err)
	}

	if len(doc.Fields) == 0 {
		return nil, fmt.Errorf("table has no fields")
	}

	return &Table{Fields: doc.Fields, Rows: doc.Data}, nil
}

// Sorts rows by the given field, if it's one of the projected
// fields. Missing values sort first.
func (t *Table) SortBy(field string) {
	found := false
	for _, f := range t.Fields {
		if f == field {
			found = true
			break
		}
	}
	if !found {
		return
	}

	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Cell(i, field) < t.Cell(j, field)
	})
}

// Returns the string form of a cell, "" for absent or null values.
func (t *Table) Cell(row int, field string) string {
	v, ok := t.Rows[row][field]
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		// encoding/json decodes all numbers as float64.
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%g", x)
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", x)
	}
}

// Extracts a column as a list, in row order.
func (t *Table) Column(field string) []string {
	col := make([]string, len(t.Rows))
	for i := range t.Rows {
		col[i] = t.Cell(i, field)
	}
	return col
}

// Builds the stop_id -> stop_timezone map from a stops table. Stops
// without a timezone are omitted; the time normalizer falls back to
// its default zone for those.
func StopTimezones(stops *Table) map[string]string {
	zones := map[string]string{}
	for i := range stops.Rows {
		id := stops.Cell(i, "stop_id")
		tz := stops.Cell(i, "stop_timezone")
		if id == "" || tz == "" {
			continue
		}
		zones[id] = tz
	}
	return zones
}
