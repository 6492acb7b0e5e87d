package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/mcdev12/vocabversus/go/clients"
	"github.com/mcdev12/vocabversus/go/internal/lobby"
	"github.com/rs/zerolog"
)

const (
	connectionStoreMemory = "memory"
	connectionStoreRedis  = "redis"
)

// Config is the server configuration, read from the environment.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// api or catalog; inferred from the two settings below when empty
	WordSetSource  string `env:"WORDSET_SOURCE"`
	WordSetAPIURL  string `env:"WORDSET_API_URL"`
	WordSetCatalog string `env:"WORDSET_CATALOG"`

	GameTTL            time.Duration `env:"GAME_TTL" envDefault:"30m"`
	ConnectionTTL      time.Duration `env:"CONNECTION_TTL" envDefault:"2h"`
	GameStartDelay     time.Duration `env:"GAME_START_DELAY" envDefault:"5s"`
	StoreSweepInterval time.Duration `env:"STORE_SWEEP_INTERVAL" envDefault:"1m"`
	ConnectionStore    string        `env:"CONNECTION_STORE" envDefault:"memory"`
	GameDefaultsFile   string        `env:"GAME_DEFAULTS_FILE"`

	// empty disables the event mirror
	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"vocabversus.events"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

func loadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	source, err := c.wordSetSource()
	if err != nil {
		return err
	}
	switch {
	case source == clients.WordSetSourceAPI && c.WordSetAPIURL == "":
		return errors.New("WORDSET_API_URL must be set")
	case source == clients.WordSetSourceCatalog && c.WordSetCatalog == "":
		return errors.New("WORDSET_CATALOG must be set")
	}
	if c.GameTTL <= 0 || c.ConnectionTTL <= 0 {
		return errors.New("GAME_TTL and CONNECTION_TTL must be positive")
	}
	if c.StoreSweepInterval <= 0 {
		return errors.New("STORE_SWEEP_INTERVAL must be positive")
	}
	if c.GameStartDelay < 0 {
		return errors.New("GAME_START_DELAY cannot be negative")
	}
	switch c.ConnectionStore {
	case connectionStoreMemory, connectionStoreRedis:
	default:
		return fmt.Errorf("unknown CONNECTION_STORE %q", c.ConnectionStore)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

// wordSetSource prefers the local catalog when one is configured.
func (c *Config) wordSetSource() (clients.WordSetSource, error) {
	if c.WordSetSource != "" {
		return clients.ParseWordSetSource(c.WordSetSource)
	}
	if c.WordSetCatalog != "" {
		return clients.WordSetSourceCatalog, nil
	}
	return clients.WordSetSourceAPI, nil
}

func (c *Config) gameDefaults() (lobby.Defaults, error) {
	if c.GameDefaultsFile == "" {
		return lobby.DefaultDefaults(), nil
	}
	return lobby.LoadDefaults(c.GameDefaultsFile)
}
