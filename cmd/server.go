package cmd

import (
	"github.com/spf13/cobra"

	"mpfm/server"
)

var serverCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the playlist HTTP server",
	Long:  `Scan the playlist directory, watch it for changes and serve the playlist API over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		server.Start(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
