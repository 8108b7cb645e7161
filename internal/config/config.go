package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the playoff challenge site.
const DefaultBaseURL = "https://playoffchallenge.fantasy.nfl.com"

// Config holds everything the pipeline and its callers need. Defaults cover
// the current playoff bracket; a YAML file can update the lookup tables
// between seasons without a rebuild, and environment variables override the
// server knobs.
type Config struct {
	BaseURL  string `yaml:"base_url"`
	PageSize int    `yaml:"page_size"`
	Workers  int    `yaml:"workers"`

	// Raw team id → display abbreviation; ids with no mapping pass through.
	TeamAbbreviations map[string]string `yaml:"team_abbreviations"`
	// Raw week id → display label; ids with no mapping pass through.
	WeekRemapping map[string]string `yaml:"week_remapping"`
	// Display names never shown on the board (staff and test accounts).
	ExcludedEntries []string `yaml:"excluded_entries"`

	Port            string `yaml:"port"`
	RedisURL        string `yaml:"redis_url"`
	FetchMode       string `yaml:"fetch_mode"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
}

// Default returns the built-in configuration for the current bracket.
func Default() *Config {
	return &Config{
		BaseURL:  DefaultBaseURL,
		PageSize: 16,
		Workers:  8,
		TeamAbbreviations: map[string]string{
			"2":  "BAL",
			"3":  "BUF",
			"11": "GB",
			"12": "TEN",
			"13": "HOU",
			"16": "KC",
			"20": "MIN",
			"21": "NE",
			"22": "NO",
			"29": "SF",
			"30": "SEA",
		},
		// The site numbers playoff rounds 1-4; the board shows NFL week
		// numbers (22 is the Super Bowl after the pro-bowl gap).
		WeekRemapping: map[string]string{
			"1": "18",
			"2": "19",
			"3": "20",
			"4": "22",
		},
		Port:            "8080",
		RedisURL:        "redis://localhost:6379",
		FetchMode:       "http",
		CacheTTLSeconds: 120,
	}
}

// Load builds the config from defaults, an optional YAML file, and
// environment variables, in that order of increasing precedence. File maps
// are merged over the default tables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.PageSize <= 0 {
		cfg.PageSize = 16
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}

	return cfg, nil
}

// CacheTTL returns the response-cache lifetime as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) applyEnv() {
	c.BaseURL = getEnv("BASE_URL", c.BaseURL)
	c.Port = getEnv("PORT", c.Port)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.FetchMode = getEnv("FETCH_MODE", c.FetchMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
