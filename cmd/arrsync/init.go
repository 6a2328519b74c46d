package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmunix/arrsync/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example config file",
	Long: `Writes an example config.toml. Without a path it goes to the default
location (` + "`$XDG_CONFIG_HOME/arrsync/config.toml`" + `). Secrets are left as
environment variable references.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInitCmd,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

func runInitCmd(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	if err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Wrote %s\n\n", path)
	fmt.Println("Next steps:")
	fmt.Println("  1. Set TMDB_API_KEY, PLEX_TOKEN, SONARR_API_KEY and RADARR_API_KEY")
	fmt.Println("  2. Edit the library ids under [plex]")
	fmt.Printf("  3. Run 'arrsync config check %s'\n", path)
	return nil
}
