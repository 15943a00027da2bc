package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mpfm/config"
	"mpfm/logger"
	"mpfm/server"
)

var rootCmd = &cobra.Command{
	Use:   "mpfm",
	Short: "mpfm manages a MIDI track playlist with per-track sidecar metadata.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		server.Start(cfg)
	},
}

// loadConfig loads the configuration and initializes logging from it.
func loadConfig() *config.Config {
	cfg := config.Load()
	logger.Init(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})
	return cfg
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
