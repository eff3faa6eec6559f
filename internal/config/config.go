package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vovakirdan/roomrelay-server/internal/core"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr" validate:"required"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogJSON           bool          `mapstructure:"log_json" yaml:"log_json"`

	HistoryCapacity     int           `mapstructure:"history_capacity" yaml:"history_capacity" validate:"min=1"`
	ChannelGracePeriod  time.Duration `mapstructure:"channel_grace_period" yaml:"channel_grace_period" validate:"gt=0"`
	TypingActiveWindow  time.Duration `mapstructure:"typing_active_window" yaml:"typing_active_window" validate:"gt=0"`
	TypingSweepWindow   time.Duration `mapstructure:"typing_sweep_window" yaml:"typing_sweep_window" validate:"gt=0"`
	TypingSweepInterval time.Duration `mapstructure:"typing_sweep_interval" yaml:"typing_sweep_interval" validate:"gt=0"`
	MaxEmoteTokens      int           `mapstructure:"max_emote_tokens" yaml:"max_emote_tokens" validate:"min=0"`

	Denylist        []string      `mapstructure:"denylist" yaml:"denylist"`
	EmoteCatalogURL string        `mapstructure:"emote_catalog_url" yaml:"emote_catalog_url" validate:"omitempty,url"`
	EmoteCacheTTL   time.Duration `mapstructure:"emote_cache_ttl" yaml:"emote_cache_ttl" validate:"gt=0"`
}

// Default returns configuration with the base relay policy.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",

		HistoryCapacity:     100,
		ChannelGracePeriod:  60 * time.Second,
		TypingActiveWindow:  5 * time.Second,
		TypingSweepWindow:   10 * time.Second,
		TypingSweepInterval: 10 * time.Second,
		MaxEmoteTokens:      10,

		EmoteCacheTTL: 10 * time.Minute,
	}
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// HubOptions maps the relay tuning knobs onto core options.
func (c *Config) HubOptions() core.Options {
	return core.Options{
		HistoryCapacity:     c.HistoryCapacity,
		GracePeriod:         c.ChannelGracePeriod,
		TypingActiveWindow:  c.TypingActiveWindow,
		TypingSweepWindow:   c.TypingSweepWindow,
		TypingSweepInterval: c.TypingSweepInterval,
		MaxEmoteTokens:      c.MaxEmoteTokens,
	}
}
