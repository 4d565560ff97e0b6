package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/readmeabook/readmeabook/internal/decisioning"
	"github.com/readmeabook/readmeabook/internal/indexer/scoring"
	"github.com/readmeabook/readmeabook/internal/indexer/search"
	"github.com/readmeabook/readmeabook/internal/indexer/types"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Ranking RankingConfig `mapstructure:"ranking"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"gte=1,lte=65535"`

	// RequestsPerMinute limits API calls per client IP; 0 disables the limit.
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"gte=0"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal disabled off"`
	Format     string `mapstructure:"format" validate:"oneof=console json"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

// RankingConfig holds the admin-configured ranking policy.
type RankingConfig struct {
	MinSizeMB          int                `mapstructure:"min_size_mb" validate:"gte=0"`
	IndexerPriorities  map[int64]int      `mapstructure:"indexer_priorities"`
	Flags              []types.FlagConfig `mapstructure:"flags" validate:"dive"`
	AutoSelectMinScore float64            `mapstructure:"auto_select_min_score" validate:"gte=0"`
	AutoSelectMinSeeds int                `mapstructure:"auto_select_min_seeders" validate:"gte=0"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              3030,
			RequestsPerMinute: 120,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Ranking: RankingConfig{
			MinSizeMB:          20,
			AutoSelectMinScore: decisioning.DefaultMinScore,
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > .env file > config file > defaults
func Load(configPath string) (*Config, error) {
	// .env only fills variables that are not already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.readmeabook")
	}

	// Environment variable settings
	v.SetEnvPrefix("RMAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	d := Default()

	// Server defaults
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.requests_per_minute", d.Server.RequestsPerMinute)

	// Logging defaults
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	// Ranking defaults
	v.SetDefault("ranking.min_size_mb", d.Ranking.MinSizeMB)
	v.SetDefault("ranking.auto_select_min_score", d.Ranking.AutoSelectMinScore)
	v.SetDefault("ranking.auto_select_min_seeders", 0)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Options converts the ranking policy to scoring options.
// Author strictness is decided per search by its mode.
func (r *RankingConfig) Options() scoring.Options {
	return scoring.Options{
		IndexerPriorities: r.IndexerPriorities,
		FlagConfigs:       r.Flags,
	}
}

// ScoringConfig returns scoring weights with the configured size floor.
func (r *RankingConfig) ScoringConfig() scoring.ScoringConfig {
	cfg := scoring.DefaultConfig()
	cfg.MinSizeBytes = int64(r.MinSizeMB) * 1024 * 1024
	return cfg
}

// Selection returns the automatic selection thresholds.
func (r *RankingConfig) Selection() decisioning.SelectionConfig {
	return decisioning.SelectionConfig{
		MinScore:   r.AutoSelectMinScore,
		MinSeeders: r.AutoSelectMinSeeds,
	}
}

// Policy assembles the ranking policy the search service applies.
func (r *RankingConfig) Policy() search.Policy {
	return search.Policy{
		Options:   r.Options(),
		Selection: r.Selection(),
		Scoring:   r.ScoringConfig(),
	}
}
