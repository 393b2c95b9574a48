package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	_ "time/tzdata"
)

var rootCmd = &cobra.Command{
	Use:          "stq-gtfs",
	Short:        "STQ ferry GTFS builder",
	Long:         "Fetches ferry schedules and builds a GTFS feed from them",
	SilenceUsage: true,
}

var (
	dataDir     string
	gtfsDir     string
	storageKind string
	sqlitePath  string
	postgresURL string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data", "", "data", "Directory holding config and static reference data")
	rootCmd.PersistentFlags().StringVarP(&gtfsDir, "gtfs-dir", "", "", "GTFS output directory (default <data>/gtfs)")
	rootCmd.PersistentFlags().StringVarP(&storageKind, "storage", "", "sqlite", "Snapshot storage backend (sqlite or postgres)")
	rootCmd.PersistentFlags().StringVarP(&sqlitePath, "sqlite-path", "", "", "SQLite snapshot db path (default <data>/snapshots.db)")
	rootCmd.PersistentFlags().StringVarP(&postgresURL, "postgres-url", "", "", "Postgres connection string for snapshot storage")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(zipCmd)
}

func outputDir() string {
	if gtfsDir != "" {
		return gtfsDir
	}
	return filepath.Join(dataDir, "gtfs")
}

func main() {
	if os.Getenv("STQ_GTFS_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("STQ_GTFS_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
