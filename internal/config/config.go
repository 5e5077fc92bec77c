package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// #region config

// Config holds every runtime knob of the daemon. Values come from the
// environment, optionally seeded from a .env file in the working
// directory.
type Config struct {
	// DBPath is the SQLite database file backing the store.
	DBPath string `env:"ECCO9_DB" envDefault:"ecco9.db"`

	// ProviderAddr is the gRPC thought provider address. Empty keeps
	// the daemon on template-generated thoughts.
	ProviderAddr string `env:"ECCO9_PROVIDER_ADDR"`

	// Orchestrator pacing.
	TickInterval     time.Duration `env:"ECCO9_TICK_INTERVAL" envDefault:"1s"`
	RestTickInterval time.Duration `env:"ECCO9_REST_TICK_INTERVAL" envDefault:"5s"`
	HistoryLimit     int           `env:"ECCO9_HISTORY_LIMIT" envDefault:"100"`

	// Thought pacing.
	ThoughtIntervalMin time.Duration `env:"ECCO9_THOUGHT_INTERVAL_MIN" envDefault:"5s"`
	ThoughtIntervalMax time.Duration `env:"ECCO9_THOUGHT_INTERVAL_MAX" envDefault:"15s"`

	// Maintenance cron schedules.
	DecaySchedule   string `env:"ECCO9_DECAY_SCHEDULE" envDefault:"@daily"`
	PersistSchedule string `env:"ECCO9_PERSIST_SCHEDULE" envDefault:"@every 5m"`

	// RelationHalfLife drives the topic-graph weight decay.
	RelationHalfLife time.Duration `env:"ECCO9_RELATION_HALF_LIFE" envDefault:"168h"`
}

// Load reads the configuration from the environment. A .env file is
// folded in first when present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// #endregion config
