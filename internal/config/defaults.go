package config

import "time"

// SetDefaults fills in zero-valued fields with sane operational defaults.
// It is applied after unmarshalling, so a field that config/env sets to an
// explicit zero cannot be told apart from an unset one and is replaced by
// the default as well.
func SetDefaults(cfg *Config) {
	if cfg.Store.Path == "" {
		cfg.Store.Path = "darkfleet.db"
	}

	for i := range cfg.Sources.REST {
		r := &cfg.Sources.REST[i]
		if r.PollInterval == 0 {
			r.PollInterval = 30 * time.Second
		}
		if r.RequestsPerSecond == 0 {
			r.RequestsPerSecond = 1.0
		}
	}
	for i := range cfg.Sources.Enrichment {
		e := &cfg.Sources.Enrichment[i]
		if e.CacheTTL == 0 {
			e.CacheTTL = 24 * time.Hour
		}
	}

	if cfg.API.ListenAddr == "" {
		cfg.API.ListenAddr = ":8080"
	}
	if cfg.API.RateLimitPerIP == 0 {
		cfg.API.RateLimitPerIP = 10
	}
	if cfg.API.RateLimitBurst == 0 {
		cfg.API.RateLimitBurst = 20
	}

	for i := range cfg.Alert.Webhooks {
		w := &cfg.Alert.Webhooks[i]
		if w.MinSeverity == "" {
			w.MinSeverity = "warning"
		}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
