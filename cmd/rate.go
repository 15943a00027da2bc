package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mpfm/logger"
)

var rateCmd = &cobra.Command{
	Use:   "rate <title> <stars>",
	Short: "Set a track's rating (0-5)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		stars, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("stars must be an integer: %w", err)
		}

		playlist, cleanup, err := buildPlaylist(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		song, ok := playlist.FindByTitle(args[0])
		if !ok {
			return fmt.Errorf("no track titled %q", args[0])
		}
		if err := song.SetStars(stars); err != nil {
			return err
		}

		logger.Info("rating updated",
			logger.String("track", song.Title()),
			logger.Int("stars", song.Stars()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rateCmd)
}
