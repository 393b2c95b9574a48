package feed

import (
	"encoding/json"
	"fmt"
)

// Raw schedule data as served by the traversiers API. One Record per
// (route, requested date). Field names follow the upstream French
// JSON schema.

type Record struct {
	Date  string   `json:"date"`
	Route string   `json:"route"`
	Data  Schedule `json:"data"`
}

type Schedule struct {
	LocalDate    string            `json:"journee_locale"`
	LocalTime    string            `json:"heure_locale"`
	RequestedDay string            `json:"jour_demande"`
	Types        map[string]string `json:"type"`
	Trajectories []Trajectory      `json:"trajet"`
}

// One directed shore pair within a route's schedule.
type Trajectory struct {
	DepartureShore string `json:"rive_depart"`
	ArrivalShore   string `json:"rive_arrivee"`
	Days           []Day  `json:"jour"`
}

type Day struct {
	Date       string      `json:"date"`
	Departures []Departure `json:"depart"`
}

type Departure struct {
	Type   string `json:"type"`
	Time   string `json:"heure"`
	Date   string `json:"date"`
	IsPast bool   `json:"is_past"`
}

// Parses a raw schedule body for the given route and requested date.
func ParseRecord(route, date string, body []byte) (Record, error) {
	var sched Schedule
	if err := json.Unmarshal(body, &sched); err != nil {
		return Record{}, fmt.Errorf("unmarshaling schedule for %s on %s: %w", route, date, err)
	}
	return Record{
		Date:  date,
		Route: route,
		Data:  sched,
	}, nil
}
