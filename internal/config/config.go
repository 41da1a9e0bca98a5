// Package config loads the process configuration from INSIGHTWATCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/gabapcia/insightwatch/internal/pkg/validator"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix is prepended to every variable name, e.g. INSIGHTWATCH_LOG_LEVEL.
const envPrefix = "INSIGHTWATCH"

// Detail fetch backends.
const (
	BackendInsight  = "insight"
	BackendBitcoind = "bitcoind"
)

// ErrInvalidConfig is returned when the environment cannot be parsed or fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full process configuration.
type Config struct {
	// Insight server. Empty selects the public server of Network.
	Server      string `split_words:"true" validate:"omitempty,url"`
	Network     string `split_words:"true" default:"livenet" validate:"oneof=livenet mainnet testnet regtest simnet"`
	RoutePrefix string `split_words:"true"`

	Backend          string `split_words:"true" default:"insight" validate:"oneof=insight bitcoind"`
	BitcoindURL      string `split_words:"true" validate:"required_if=Backend bitcoind"`
	BitcoindUser     string `split_words:"true"`
	BitcoindPassword string `split_words:"true"`

	EIOVersion        int           `split_words:"true" default:"3" validate:"oneof=3 4"`
	HTTPTimeout       time.Duration `split_words:"true" default:"10s" validate:"gt=0"`
	HTTPRetryMax      int           `split_words:"true" default:"2" validate:"gte=0"`
	ReconnectAttempts uint          `split_words:"true" default:"10"`
	ReconnectDelay    time.Duration `split_words:"true" default:"1s" validate:"gt=0"`

	AddressFanout   bool `split_words:"true" default:"true"`
	StrictAddresses bool `split_words:"true" default:"false"`

	LogLevel string `split_words:"true" default:"info" validate:"oneof=debug info warn error panic fatal"`

	// Relay target. Empty disables the relay.
	RedisAddr     string `split_words:"true" validate:"omitempty,hostname_port"`
	RedisUsername string `split_words:"true"`
	RedisPassword string `split_words:"true"`
	RedisDB       int    `split_words:"true" default:"0" validate:"gte=0"`
	RedisPrefix   string `split_words:"true" default:"insightwatch"`

	TelemetryEnabled bool   `split_words:"true" default:"false"`
	ServiceName      string `split_words:"true" default:"insightwatch" validate:"required"`
}

// RelayEnabled reports whether events should be relayed to Redis.
func (c Config) RelayEnabled() bool {
	return c.RedisAddr != ""
}

// Load reads and validates the configuration.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}
