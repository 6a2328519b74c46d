// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig         `toml:"server"`
	Database  DatabaseConfig       `toml:"database"`
	TMDB      TMDBConfig           `toml:"tmdb"`
	Plex      PlexConfig           `toml:"plex"`
	Jellyfin  JellyfinConfig       `toml:"jellyfin"`
	Sonarr    []ArrServerConfig    `toml:"sonarr"`
	Radarr    []ArrServerConfig    `toml:"radarr"`
	Sync      SyncConfig           `toml:"sync"`
	Jobs      map[string]JobConfig `toml:"jobs"`
	AnimeList AnimeListConfig      `toml:"animelist"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type TMDBConfig struct {
	APIKey    string        `toml:"api_key"`
	CacheTTL  time.Duration `toml:"cache_ttl"`
	RateLimit float64       `toml:"rate_limit"` // requests per second
	Burst     int           `toml:"burst"`
}

// LibraryConfig selects one media server library for syncing.
type LibraryConfig struct {
	ID      string `toml:"id"`
	Name    string `toml:"name"`
	Type    string `toml:"type"` // movie or show
	Enabled bool   `toml:"enabled"`
}

type PlexConfig struct {
	URL       string          `toml:"url"`
	Token     string          `toml:"token"`
	Libraries []LibraryConfig `toml:"libraries"`
}

// Configured reports whether a Plex server is set up.
func (p PlexConfig) Configured() bool { return p.URL != "" }

type JellyfinConfig struct {
	URL       string          `toml:"url"`
	APIKey    string          `toml:"api_key"`
	UserID    string          `toml:"user_id"`
	Libraries []LibraryConfig `toml:"libraries"`
}

// Configured reports whether a Jellyfin server is set up.
func (j JellyfinConfig) Configured() bool { return j.URL != "" }

// ArrServerConfig is one Sonarr or Radarr server.
type ArrServerConfig struct {
	ID          int64  `toml:"id"`
	Name        string `toml:"name"`
	Hostname    string `toml:"hostname"`
	Port        int    `toml:"port"`
	UseSSL      bool   `toml:"use_ssl"`
	BaseURL     string `toml:"base_url"`
	APIKey      string `toml:"api_key"`
	Is4K        bool   `toml:"is_4k"`
	SyncEnabled bool   `toml:"sync_enabled"`
}

type SyncConfig struct {
	BundleSize        int           `toml:"bundle_size"`
	PlexBundleSize    int           `toml:"plex_bundle_size"`
	SonarrBundleSize  int           `toml:"sonarr_bundle_size"`
	UpdateRate        time.Duration `toml:"update_rate"`
	UHDWidthThreshold int           `toml:"uhd_width_threshold"`
}

// JobConfig overrides a job's schedule. A nil Enabled keeps the default.
type JobConfig struct {
	Schedule string `toml:"schedule"`
	Enabled  *bool  `toml:"enabled"`
}

type AnimeListConfig struct {
	URL             string        `toml:"url"`
	RefreshInterval time.Duration `toml:"refresh_interval"`
}

// UHDMovies reports whether a 4K Radarr server is configured.
func (c *Config) UHDMovies() bool { return any4K(c.Radarr) }

// UHDSeries reports whether a 4K Sonarr server is configured.
func (c *Config) UHDSeries() bool { return any4K(c.Sonarr) }

func any4K(servers []ArrServerConfig) bool {
	for _, s := range servers {
		if s.Is4K {
			return true
		}
	}
	return false
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, leaving
// unresolved variables and invalid values in place.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, missing, nil
}

// Defaults.
const (
	DefaultHost       = "0.0.0.0"
	DefaultPort       = 8484
	DefaultBundleSize = 20
	DefaultPagedSize  = 50
	DefaultUpdateRate = 4 * time.Second
	DefaultUHDWidth   = 2000
)

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/arrsync.db"
	}
	if c.TMDB.CacheTTL == 0 {
		c.TMDB.CacheTTL = 24 * time.Hour
	}
	if c.TMDB.RateLimit == 0 {
		c.TMDB.RateLimit = 20
	}
	if c.TMDB.Burst == 0 {
		c.TMDB.Burst = 20
	}
	if c.Sync.BundleSize == 0 {
		c.Sync.BundleSize = DefaultBundleSize
	}
	if c.Sync.PlexBundleSize == 0 {
		c.Sync.PlexBundleSize = DefaultPagedSize
	}
	if c.Sync.SonarrBundleSize == 0 {
		c.Sync.SonarrBundleSize = DefaultPagedSize
	}
	if c.Sync.UpdateRate == 0 {
		c.Sync.UpdateRate = DefaultUpdateRate
	}
	if c.Sync.UHDWidthThreshold == 0 {
		c.Sync.UHDWidthThreshold = DefaultUHDWidth
	}
	if c.AnimeList.RefreshInterval == 0 {
		c.AnimeList.RefreshInterval = 24 * time.Hour
	}
	for i := range c.Sonarr {
		defaultServer(&c.Sonarr[i], 8989)
	}
	for i := range c.Radarr {
		defaultServer(&c.Radarr[i], 7878)
	}
}

func defaultServer(s *ArrServerConfig, port int) {
	if s.Port == 0 {
		s.Port = port
	}
	if s.Name == "" {
		s.Name = s.Hostname
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces variable references with environment values.
// Unresolved references are left in place and reported in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name, op, arg := parts[1], parts[2], parts[3]

		value, ok := os.LookupEnv(name)
		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, name+": "+strings.TrimSpace(arg))
				return match
			}
			return value
		}
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}

// JobSchedule returns the effective schedule for a job, falling back to
// def when the job has no override. Jobs are enabled unless set otherwise.
func (c *Config) JobSchedule(id, def string) (schedule string, enabled bool) {
	job, ok := c.Jobs[id]
	if !ok {
		return def, true
	}
	schedule = job.Schedule
	if schedule == "" {
		schedule = def
	}
	return schedule, job.Enabled == nil || *job.Enabled
}
