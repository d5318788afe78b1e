// Package config loads engine configuration from a YAML file with
// environment overrides for deployment-specific values and secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "15m".
type Duration time.Duration

// UnmarshalYAML parses the Go duration syntax.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library form.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all engine configuration.
type Config struct {
	HTTPAddr     string `yaml:"http_addr"`
	DBPath       string `yaml:"db_path"`
	BankrollPath string `yaml:"bankroll_path"`
	RedisURL     string `yaml:"redis_url"`

	// API credentials come from the environment only, never the file.
	NBAAPIKey string `yaml:"-"`

	Season   int            `yaml:"season"`
	Model    ModelConfig    `yaml:"model"`
	Sizing   SizingConfig   `yaml:"sizing"`
	Workflow WorkflowConfig `yaml:"workflow"`
}

// ModelConfig holds the analytical model constants.
type ModelConfig struct {
	LeagueAvgEfficiency float64 `yaml:"league_avg_efficiency"`
	RotationSize        int     `yaml:"rotation_size"`
	SeasonDecay         float64 `yaml:"season_decay"`
	RecentGameHalfLife  float64 `yaml:"recent_game_half_life"`
	ReplacementFactor   float64 `yaml:"replacement_factor"`
	// LeagueAvgCacheTTL bounds how long the computed league average
	// efficiency is reused.
	LeagueAvgCacheTTL Duration `yaml:"league_avg_cache_ttl"`
}

// SizingConfig holds the Kelly sizing knobs.
type SizingConfig struct {
	KellyMultiplier     float64 `yaml:"kelly_multiplier"`
	MaxBankrollFraction float64 `yaml:"max_bankroll_fraction"`
	OracleClipRatio     float64 `yaml:"oracle_clip_ratio"`
}

// WorkflowConfig holds the slate-run parameters.
type WorkflowConfig struct {
	Fanout          int      `yaml:"fanout"`
	RequestsPerSec  float64  `yaml:"requests_per_sec"`
	AnalyzeInterval Duration `yaml:"analyze_interval"`
	SettleInterval  Duration `yaml:"settle_interval"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		HTTPAddr:     ":8080",
		DBPath:       "data/bets.db",
		BankrollPath: "data/bankroll.json",
		Season:       currentSeason(),
		Model: ModelConfig{
			LeagueAvgEfficiency: 113.5,
			RotationSize:        6,
			SeasonDecay:         0.6,
			RecentGameHalfLife:  3.0,
			ReplacementFactor:   0.55,
			LeagueAvgCacheTTL:   Duration(30 * 24 * time.Hour),
		},
		Sizing: SizingConfig{
			KellyMultiplier:     0.5,
			MaxBankrollFraction: 0.03,
			OracleClipRatio:     1.2,
		},
		Workflow: WorkflowConfig{
			Fanout:          4,
			RequestsPerSec:  5,
			AnalyzeInterval: Duration(30 * time.Minute),
			SettleInterval:  Duration(10 * time.Minute),
		},
	}
}

// The NBA season is labeled by its starting year; a new one starts in
// October.
func currentSeason() int {
	now := time.Now()
	if now.Month() >= time.October {
		return now.Year()
	}
	return now.Year() - 1
}

// Load reads the YAML file (optional) over the defaults, then applies
// environment overrides (and .env if present).
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file: %w", err)
		}
	}

	_ = godotenv.Load() // Ignore error if .env doesn't exist
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("COURTSIDE_HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("COURTSIDE_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("COURTSIDE_BANKROLL_PATH"); v != "" {
		c.BankrollPath = v
	}
	if v := os.Getenv("COURTSIDE_REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	c.NBAAPIKey = os.Getenv("NBA_API_KEY")
}

func (c *Config) validate() error {
	if c.Sizing.KellyMultiplier <= 0 || c.Sizing.KellyMultiplier > 1 {
		return fmt.Errorf("kelly_multiplier %v out of (0,1]", c.Sizing.KellyMultiplier)
	}
	if c.Sizing.MaxBankrollFraction <= 0 || c.Sizing.MaxBankrollFraction > 0.5 {
		return fmt.Errorf("max_bankroll_fraction %v out of (0,0.5]", c.Sizing.MaxBankrollFraction)
	}
	if c.Workflow.Fanout < 1 {
		return fmt.Errorf("fanout %d must be at least 1", c.Workflow.Fanout)
	}
	if c.Model.RotationSize < 1 {
		return fmt.Errorf("rotation_size %d must be at least 1", c.Model.RotationSize)
	}
	return nil
}
