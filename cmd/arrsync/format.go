package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

var titleCaser = cases.Title(language.English)

// formatStatus renders an availability status such as PARTIALLY_AVAILABLE
// as "Partially Available".
func formatStatus(s string) string {
	if s == "" {
		return "-"
	}
	return titleCaser.String(strings.ToLower(strings.ReplaceAll(s, "_", " ")))
}

func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	ago := time.Since(t)
	switch {
	case ago < time.Minute:
		return "just now"
	case ago < time.Hour:
		return fmt.Sprintf("%dm ago", int(ago.Minutes()))
	case ago < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(ago.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(ago.Hours()/24))
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
