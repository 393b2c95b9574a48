package main

import (
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"transitdata.ca/stq-gtfs/export"
)

var zipOut string

var zipCmd = &cobra.Command{
	Use:   "zip",
	Short: "Package the GTFS directory into a zip archive",
	RunE:  runZip,
}

func init() {
	zipCmd.Flags().StringVarP(&zipOut, "out", "o", "", "Archive path (default <data>/stq-gtfs.zip)")
}

func runZip(cmd *cobra.Command, args []string) error {
	out := zipOut
	if out == "" {
		out = filepath.Join(dataDir, "stq-gtfs.zip")
	}

	if err := export.Zip(outputDir(), out); err != nil {
		return err
	}

	log.Info().Str("archive", out).Msg("Archive created")

	return nil
}
