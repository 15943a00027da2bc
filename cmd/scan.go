package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mpfm/config"
	"mpfm/core/analyzer"
	"mpfm/core/library"
	"mpfm/core/midifile"
	"mpfm/logger"
	"mpfm/repository"
)

// buildPlaylist wires a playlist from the configuration for one-shot
// commands. The returned cleanup closes any store connection.
func buildPlaylist(cfg *config.Config) (*library.Playlist, func() error, error) {
	store, cleanup, err := repository.NewStoreFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	deps := library.Deps{
		Store:    store,
		Analyzer: analyzer.NewMetamidi(cfg.MetamidiPath),
		Prober:   midifile.FileProber{},
	}

	playlist, err := library.NewPlaylist(cfg.PlaylistDir, cfg.TrackExts, deps, cfg.AutoWrite)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return playlist, cleanup, nil
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the playlist directory once and print the track list",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		playlist, cleanup, err := buildPlaylist(cfg)
		if err != nil {
			logger.Fatal("scan failed", logger.ErrorField(err))
		}
		defer cleanup()

		out, err := json.MarshalIndent(playlist.AsMaps(), "", "  ")
		if err != nil {
			logger.Fatal("failed to encode track list", logger.ErrorField(err))
		}
		fmt.Fprintln(os.Stdout, string(out))
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
