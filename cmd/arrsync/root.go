package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL  string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "arrsync",
	Short: "CLI client for the arrsync library reconciler",
	Long: `arrsync - CLI client for the arrsync library reconciler

Inspect and trigger the scan jobs that keep the title catalog in
sync with Plex, Jellyfin, Sonarr and Radarr.

Run 'arrsyncd' to start the server daemon.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8484", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("arrsync {{.Version}}\n")
}
