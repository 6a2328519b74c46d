package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	RunE:  runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	status, err := client.Status()
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	if jsonOutput {
		printJSON(status)
		return nil
	}

	printStatus(serverURL, status)
	return nil
}

func printStatus(server string, s *StatusResponse) {
	version := s.Version
	if version == "" {
		version = "unknown"
	}
	fmt.Printf("arrsyncd %s (%s)\n\n", version, server)
	fmt.Printf("  %-14s %s\n", "Status:", s.Status)
	fmt.Printf("  %-14s %d\n", "Titles:", s.Titles)
	fmt.Printf("  %-14s movies=%s series=%s\n", "4K tracking:", onOff(s.Features.UHDMovies), onOff(s.Features.UHDSeries))

	running := "none"
	if len(s.RunningJobs) > 0 {
		running = strings.Join(s.RunningJobs, ", ")
	}
	fmt.Printf("  %-14s %s\n", "Running jobs:", running)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
