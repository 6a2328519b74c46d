package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "List catalog titles",
	Long: `List titles recorded by the reconciler.

Examples:
  arrsync titles --kind movie
  arrsync titles --status PARTIALLY_AVAILABLE
  arrsync titles --limit 100 --offset 100`,
	RunE: runTitlesCmd,
}

var titleCmd = &cobra.Command{
	Use:   "title <id>",
	Short: "Show one title with its seasons",
	Args:  cobra.ExactArgs(1),
	RunE:  runTitleCmd,
}

func init() {
	rootCmd.AddCommand(titlesCmd)
	rootCmd.AddCommand(titleCmd)
	titlesCmd.Flags().String("kind", "", "Filter by kind (movie, series)")
	titlesCmd.Flags().String("status", "", "Filter by standard availability status")
	titlesCmd.Flags().IntP("limit", "n", 50, "Maximum titles to show")
	titlesCmd.Flags().Int("offset", 0, "Number of titles to skip")
}

func runTitlesCmd(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	client := NewClient(serverURL)
	resp, err := client.Titles(TitleQuery{
		Kind:   kind,
		Status: strings.ToUpper(status),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch titles: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	if len(resp.Items) == 0 {
		fmt.Println("No titles")
		return nil
	}

	fmt.Printf("Titles (%d-%d of %d):\n\n", resp.Offset+1, resp.Offset+len(resp.Items), resp.Total)
	fmt.Printf("  %-6s %-7s %-36s %-21s %s\n", "ID", "KIND", "NAME", "STANDARD", "4K")
	fmt.Println("  " + strings.Repeat("-", 90))
	for _, t := range resp.Items {
		fmt.Printf("  %-6d %-7s %-36s %-21s %s\n",
			t.ID, t.Kind, truncate(t.Name, 36), formatStatus(t.Standard.Status), formatStatus(t.UHD.Status))
	}
	return nil
}

func runTitleCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ID: %s", args[0])
	}

	client := NewClient(serverURL)
	t, err := client.Title(id)
	if err != nil {
		return fmt.Errorf("failed to fetch title: %w", err)
	}

	if jsonOutput {
		printJSON(t)
		return nil
	}

	printTitle(t)
	return nil
}

func printTitle(t *TitleResponse) {
	name := t.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Printf("%s #%d\n\n", name, t.ID)
	fmt.Printf("  %-14s %s\n", "Kind:", t.Kind)
	fmt.Printf("  %-14s %d\n", "TMDB:", t.TMDBID)
	if t.TVDBID != nil {
		fmt.Printf("  %-14s %d\n", "TVDB:", *t.TVDBID)
	}
	if t.IMDBID != "" {
		fmt.Printf("  %-14s %s\n", "IMDb:", t.IMDBID)
	}
	fmt.Printf("  %-14s %s\n", "Standard:", formatSlot(t.Standard))
	fmt.Printf("  %-14s %s\n", "4K:", formatSlot(t.UHD))
	if t.MediaAddedAt != nil {
		fmt.Printf("  %-14s %s\n", "Added:", t.MediaAddedAt.Local().Format("2006-01-02"))
	}
	fmt.Printf("  %-14s %s\n", "Updated:", formatTimeAgo(t.UpdatedAt))

	if len(t.Seasons) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("  %-8s %-21s %s\n", "SEASON", "STANDARD", "4K")
	for _, s := range t.Seasons {
		fmt.Printf("  %-8d %-21s %s\n", s.Number, formatStatus(s.Standard.Status), formatStatus(s.UHD.Status))
	}
}

func formatSlot(s SlotResponse) string {
	parts := []string{formatStatus(s.Status)}
	if s.RatingKey != "" {
		parts = append(parts, "plex="+s.RatingKey)
	}
	if s.JellyfinID != "" {
		parts = append(parts, "jellyfin="+s.JellyfinID)
	}
	if s.ServiceID != nil && s.ExternalServiceID != nil {
		parts = append(parts, fmt.Sprintf("server=%d id=%d", *s.ServiceID, *s.ExternalServiceID))
	}
	return strings.Join(parts, "  ")
}
