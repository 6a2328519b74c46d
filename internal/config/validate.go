// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"

	"github.com/robfig/cron/v3"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validLibraryTypes = map[string]bool{"movie": true, "show": true}

// KnownJobs lists the job ids a [jobs.<id>] section may configure.
var KnownJobs = []string{
	"plex-recently-added-scan",
	"plex-full-scan",
	"jellyfin-recently-added-scan",
	"jellyfin-full-scan",
	"radarr-scan",
	"sonarr-scan",
}

// CronParser parses job schedules. Schedules carry a seconds field.
var CronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if c.TMDB.APIKey == "" {
		errs = append(errs, "tmdb.api_key: required")
	}
	if c.TMDB.RateLimit < 0 {
		errs = append(errs, fmt.Sprintf("tmdb.rate_limit: must not be negative, got %v", c.TMDB.RateLimit))
	}

	if !c.Plex.Configured() && !c.Jellyfin.Configured() && len(c.Sonarr) == 0 && len(c.Radarr) == 0 {
		errs = append(errs, "at least one of plex, jellyfin, sonarr or radarr must be configured")
	}

	if c.Plex.Configured() {
		errs = append(errs, validateURL("plex.url", c.Plex.URL)...)
		if c.Plex.Token == "" {
			errs = append(errs, "plex.token: required when plex is configured")
		}
		errs = append(errs, validateLibraries("plex", c.Plex.Libraries)...)
	}
	if c.Jellyfin.Configured() {
		errs = append(errs, validateURL("jellyfin.url", c.Jellyfin.URL)...)
		if c.Jellyfin.APIKey == "" {
			errs = append(errs, "jellyfin.api_key: required when jellyfin is configured")
		}
		errs = append(errs, validateLibraries("jellyfin", c.Jellyfin.Libraries)...)
	}

	errs = append(errs, validateServers("sonarr", c.Sonarr)...)
	errs = append(errs, validateServers("radarr", c.Radarr)...)

	// Sync validation
	if c.Sync.BundleSize < 0 || c.Sync.PlexBundleSize < 0 || c.Sync.SonarrBundleSize < 0 {
		errs = append(errs, "sync: bundle sizes must not be negative")
	}
	if c.Sync.UpdateRate < 0 {
		errs = append(errs, "sync.update_rate: must not be negative")
	}
	if c.Sync.UHDWidthThreshold < 0 {
		errs = append(errs, "sync.uhd_width_threshold: must not be negative")
	}

	// Job validation
	known := make(map[string]bool, len(KnownJobs))
	for _, id := range KnownJobs {
		known[id] = true
	}
	for id, job := range c.Jobs {
		if !known[id] {
			errs = append(errs, fmt.Sprintf("jobs.%s: unknown job", id))
			continue
		}
		if job.Schedule == "" {
			continue
		}
		if _, err := CronParser.Parse(job.Schedule); err != nil {
			errs = append(errs, fmt.Sprintf("jobs.%s.schedule: %v", id, err))
		}
	}

	return errs
}

func validateURL(field, raw string) []string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return []string{fmt.Sprintf("%s: must be an absolute URL, got %q", field, raw)}
	}
	return nil
}

func validateLibraries(section string, libs []LibraryConfig) []string {
	var errs []string
	seen := make(map[string]bool, len(libs))
	for i, l := range libs {
		if l.ID == "" {
			errs = append(errs, fmt.Sprintf("%s.libraries[%d].id: required", section, i))
		} else if seen[l.ID] {
			errs = append(errs, fmt.Sprintf("%s.libraries[%d].id: duplicate id %q", section, i, l.ID))
		}
		seen[l.ID] = true
		if !validLibraryTypes[l.Type] {
			errs = append(errs, fmt.Sprintf("%s.libraries[%d].type: must be movie or show; got %q", section, i, l.Type))
		}
	}
	return errs
}

func validateServers(section string, servers []ArrServerConfig) []string {
	var errs []string
	seen := make(map[int64]bool, len(servers))
	for i, s := range servers {
		if s.ID <= 0 {
			errs = append(errs, fmt.Sprintf("%s[%d].id: must be a positive number", section, i))
		} else if seen[s.ID] {
			errs = append(errs, fmt.Sprintf("%s[%d].id: duplicate id %d", section, i, s.ID))
		}
		seen[s.ID] = true
		if s.Hostname == "" {
			errs = append(errs, fmt.Sprintf("%s[%d].hostname: required", section, i))
		}
		if s.Port < 1 || s.Port > 65535 {
			errs = append(errs, fmt.Sprintf("%s[%d].port: must be between 1 and 65535, got %d", section, i, s.Port))
		}
		if s.APIKey == "" {
			errs = append(errs, fmt.Sprintf("%s[%d].api_key: required", section, i))
		}
	}
	return errs
}
