package feed

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spkg/bom"
)

const DefaultScheduleURL = "https://donnees.traversiers.com/horaires"

// Build configuration, read from data/config.json. The fetch window
// is expressed in days relative to the day the run starts.
type Config struct {
	ScheduleURL string `json:"schedule_url"`
	EarliestDay int    `json:"earliest_day"`
	LatestDay   int    `json:"latest_day"`

	// Snap the published feed span to whole months. Defaults to
	// true; the upstream schedule viewer paginates by month.
	GetFullMonths bool `json:"get_full_months"`

	RequestDelayMS int `json:"request_delay_ms"`

	PublisherName string `json:"feed_publisher_name"`
	PublisherURL  string `json:"feed_publisher_url"`
	Lang          string `json:"feed_lang"`
	ContactURL    string `json:"feed_contact_url"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ScheduleURL:   DefaultScheduleURL,
		GetFullMonths: true,
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	// The BOM reader strips unicode BOMs if present.
	if err := json.NewDecoder(bom.NewReader(f)).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.EarliestDay > cfg.LatestDay {
		return cfg, fmt.Errorf("earliest_day %d after latest_day %d", cfg.EarliestDay, cfg.LatestDay)
	}

	return cfg, nil
}
