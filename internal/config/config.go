// Package config loads the orchestrator's configuration from a YAML file
// overlaid by environment variables, then fills fields still at their zero
// value with defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full configuration tree for a running instance.
type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Sources SourcesConfig `mapstructure:"sources"`
	API     APIConfig     `mapstructure:"api"`
	Alert   AlertConfig   `mapstructure:"alert"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StoreConfig selects the embedded database file.
type StoreConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// StreamingSourceConfig configures one websocket-backed AIS feed.
type StreamingSourceConfig struct {
	Name     string `mapstructure:"name" validate:"required"`
	URL      string `mapstructure:"url" validate:"required,url"`
	Priority int    `mapstructure:"priority"`
}

// RESTSourceConfig configures one polling REST AIS feed.
type RESTSourceConfig struct {
	Name              string        `mapstructure:"name" validate:"required"`
	BaseURL           string        `mapstructure:"base_url" validate:"required,url"`
	Priority          int           `mapstructure:"priority"`
	PollInterval      time.Duration `mapstructure:"poll_interval"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" validate:"gt=0"`
}

// EnrichmentSourceConfig configures one vessel-registry lookup feed.
type EnrichmentSourceConfig struct {
	Name     string        `mapstructure:"name" validate:"required"`
	BaseURL  string        `mapstructure:"base_url" validate:"required,url"`
	Priority int           `mapstructure:"priority"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// SourcesConfig lists every configured data source.
type SourcesConfig struct {
	Streaming  []StreamingSourceConfig  `mapstructure:"streaming" validate:"dive"`
	REST       []RESTSourceConfig       `mapstructure:"rest" validate:"dive"`
	Enrichment []EnrichmentSourceConfig `mapstructure:"enrichment" validate:"dive"`
}

// APIConfig configures the HTTP/websocket query surface.
type APIConfig struct {
	ListenAddr     string `mapstructure:"listen_addr" validate:"required"`
	RateLimitPerIP int    `mapstructure:"rate_limit_per_ip"`
	RateLimitBurst int    `mapstructure:"rate_limit_burst"`
}

// AlertConfig configures webhook delivery targets.
type AlertConfig struct {
	Webhooks []WebhookConfig `mapstructure:"webhooks" validate:"dive"`
}

// WebhookConfig mirrors alert.Webhook for configuration purposes.
type WebhookConfig struct {
	Name        string `mapstructure:"name"`
	URL         string `mapstructure:"url" validate:"required,url"`
	MinSeverity string `mapstructure:"min_severity" validate:"oneof=info warning critical"`
}

// LoggingConfig configures the ambient obslog tag verbosity.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from configPath (a YAML file), with environment
// variables prefixed DARKFLEET_ taking priority over the file; the package
// defaults then fill any field still at its zero value. A .env file in the
// working directory is loaded first, if present.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/darkfleet")
	}

	v.SetEnvPrefix("DARKFLEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration and panics on error, for use at process
// startup where there is no sensible recovery.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
