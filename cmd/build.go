package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	stqgtfs "transitdata.ca/stq-gtfs"
	"transitdata.ca/stq-gtfs/export"
	"transitdata.ca/stq-gtfs/feed"
	"transitdata.ca/stq-gtfs/refdata"
)

var strictBuild bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the GTFS feed from stored snapshots",
	Long: "Synthesizes trips and stop times from stored schedule snapshots, " +
		"optimizes the service calendar, and writes the GTFS txt files",
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVarP(&strictBuild, "strict", "", false,
		"Fail on unresolvable routes or shore pairs instead of skipping them")
}

// The static reference tables published as-is, and the field each is
// sorted by.
var staticTables = []struct {
	jsonName  string
	txtName   string
	sortField string
}{
	{"agency.json", "agency.txt", "agency_id"},
	{"routes.json", "routes.txt", "route_id"},
	{"attributions.json", "attributions.txt", "attribution_id"},
	{"stops.json", "stops.txt", "stop_id"},
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := feed.LoadConfig(filepath.Join(dataDir, "config.json"))
	if err != nil {
		return err
	}

	patterns, err := refdata.LoadPatterns(filepath.Join(dataDir, "service_patterns.json"))
	if err != nil {
		return fmt.Errorf("loading service patterns: %w", err)
	}

	stops, err := refdata.LoadTable(filepath.Join(dataDir, "static", "stops.json"))
	if err != nil {
		return fmt.Errorf("loading stops: %w", err)
	}

	normalizer, err := stqgtfs.NewNormalizer(refdata.StopTimezones(stops))
	if err != nil {
		return fmt.Errorf("building time normalizer: %w", err)
	}

	store, err := openStorage()
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	snapshots, err := store.ListSnapshots()
	if err != nil {
		return fmt.Errorf("listing snapshots: %w", err)
	}
	if len(snapshots) == 0 {
		return fmt.Errorf("no snapshots in storage; run fetch first")
	}

	records := []feed.Record{}
	for _, snap := range snapshots {
		record, err := feed.ParseRecord(snap.Route, snap.Date, snap.Body)
		if err != nil {
			log.Warn().
				Str("route", snap.Route).
				Str("date", snap.Date).
				Err(err).
				Msg("Skipping malformed snapshot")
			continue
		}
		records = append(records, record)
	}

	synthesizer := &stqgtfs.Synthesizer{
		Patterns:   patterns,
		Normalizer: normalizer,
		Strict:     strictBuild,
		Logger:     log.Logger,
	}

	gtfsFeed, err := synthesizer.Build(records)
	if err != nil {
		return err
	}

	outDir := outputDir()
	if err := export.WriteFeed(outDir, gtfsFeed); err != nil {
		return err
	}
	if err := export.WriteFeedInfo(outDir, stqgtfs.MakeFeedInfo(cfg, time.Now())); err != nil {
		return fmt.Errorf("writing feed_info.txt: %w", err)
	}

	for _, table := range staticTables {
		t, err := refdata.LoadTable(filepath.Join(dataDir, "static", table.jsonName))
		if err != nil {
			return fmt.Errorf("loading %s: %w", table.jsonName, err)
		}
		if err := export.WriteTable(filepath.Join(outDir, table.txtName), t, table.sortField); err != nil {
			return fmt.Errorf("writing %s: %w", table.txtName, err)
		}
	}

	log.Info().
		Int("trips", len(gtfsFeed.Trips)).
		Int("stop_times", len(gtfsFeed.StopTimes)).
		Int("services", len(gtfsFeed.Calendar)).
		Int("exceptions", len(gtfsFeed.CalendarDates)).
		Str("dir", outDir).
		Msg("Feed built")

	return nil
}
