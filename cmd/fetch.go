package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"transitdata.ca/stq-gtfs/feed"
	"transitdata.ca/stq-gtfs/refdata"
	"transitdata.ca/stq-gtfs/storage"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch raw schedules into snapshot storage",
	Long: "Requests one schedule per route per date over the configured window " +
		"and stores the raw bodies for later builds",
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := feed.LoadConfig(filepath.Join(dataDir, "config.json"))
	if err != nil {
		return err
	}

	routesTable, err := refdata.LoadTable(filepath.Join(dataDir, "static", "routes.json"))
	if err != nil {
		return fmt.Errorf("loading routes: %w", err)
	}
	routes := routesTable.Column("route_id")
	if len(routes) == 0 {
		return fmt.Errorf("no routes in reference data")
	}

	store, err := openStorage()
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	now := time.Now()
	start := now.AddDate(0, 0, cfg.EarliestDay)
	end := now.AddDate(0, 0, cfg.LatestDay)

	fetcher := feed.NewFetcher(
		cfg.ScheduleURL,
		time.Duration(cfg.RequestDelayMS)*time.Millisecond,
		log.Logger,
	)

	bodies, err := fetcher.FetchRange(cmd.Context(), routes, start, end)
	if err != nil {
		return fmt.Errorf("fetching schedules: %w", err)
	}

	for _, b := range bodies {
		err := store.WriteSnapshot(storage.Snapshot{
			Route:       b.Route,
			Date:        b.Date,
			Body:        b.Data,
			RetrievedAt: now,
		})
		if err != nil {
			return fmt.Errorf("storing snapshot: %w", err)
		}
	}

	log.Info().Int("snapshots", len(bodies)).Msg("Fetch complete")

	return nil
}
