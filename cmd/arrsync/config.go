package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmunix/arrsync/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configCheckCmd = &cobra.Command{
	Use:     "check [path]",
	Aliases: []string{"test"},
	Short: "Validate configuration file",
	Long: `Validates config.toml syntax, required fields, and environment variable
substitution without starting the server. Without a path, the file is
located the same way arrsyncd finds it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigCheck,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configCheckCmd)
}

func runConfigCheck(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	fmt.Printf("Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(cfg)
	fmt.Println("\nConfiguration valid!")
	return nil
}

func printConfigErrors(e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Println("Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Printf("  - %s\n", m)
		}
		fmt.Println()
	}

	if len(e.Errors) > 0 {
		fmt.Println("Validation errors:")
		for _, err := range e.Errors {
			fmt.Printf("  - %s\n", err)
		}
		fmt.Println()
	}
}

func printConfigSummary(cfg *config.Config) {
	fmt.Println("Configuration Summary:")
	fmt.Printf("  Server:     %s:%d (log: %s)\n", cfg.Server.Host, cfg.Server.Port, cfg.Server.LogLevel)
	fmt.Printf("  Database:   %s\n", cfg.Database.Path)

	if cfg.Plex.Configured() {
		fmt.Printf("  Plex:       %s (%s)\n", cfg.Plex.URL, libraryNames(cfg.Plex.Libraries))
	}
	if cfg.Jellyfin.Configured() {
		fmt.Printf("  Jellyfin:   %s (%s)\n", cfg.Jellyfin.URL, libraryNames(cfg.Jellyfin.Libraries))
	}
	if len(cfg.Radarr) > 0 {
		fmt.Printf("  Radarr:     %s\n", serverNames(cfg.Radarr))
	}
	if len(cfg.Sonarr) > 0 {
		fmt.Printf("  Sonarr:     %s\n", serverNames(cfg.Sonarr))
	}

	fmt.Printf("  Bundles:    movies=%d plex=%d sonarr=%d every %s\n",
		cfg.Sync.BundleSize, cfg.Sync.PlexBundleSize, cfg.Sync.SonarrBundleSize, cfg.Sync.UpdateRate)

	ids := make([]string, 0, len(cfg.Jobs))
	for id := range cfg.Jobs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		schedule, enabled := cfg.JobSchedule(id, "")
		state := ""
		if !enabled {
			state = " (disabled)"
		}
		fmt.Printf("  Job:        %-30s %s%s\n", id, schedule, state)
	}
}

func libraryNames(libs []config.LibraryConfig) string {
	names := make([]string, 0, len(libs))
	for _, l := range libs {
		if !l.Enabled {
			continue
		}
		name := l.Name
		if name == "" {
			name = l.ID
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return "no libraries enabled"
	}
	return strings.Join(names, ", ")
}

func serverNames(servers []config.ArrServerConfig) string {
	names := make([]string, 0, len(servers))
	for _, s := range servers {
		name := s.Name
		if s.Is4K {
			name += " [4K]"
		}
		if !s.SyncEnabled {
			name += " [sync off]"
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}
