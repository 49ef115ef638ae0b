package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/papercomputeco/lingo/pkg/llm/provider"
)

// Config represents the persistent lingo configuration stored as config.toml
// in the .lingo/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version  int            `toml:"version"`
	Provider ProviderConfig `toml:"provider"`
	API      APIConfig      `toml:"api"`
	Client   ClientConfig   `toml:"client"`
	Storage  StorageConfig  `toml:"storage"`
	Events   EventsConfig   `toml:"events"`
}

// ProviderConfig selects and tunes the upstream translation API.
type ProviderConfig struct {
	// Type is one of openai, azure, gemini or compatible.
	Type string `toml:"type,omitempty"`

	// APIURL is a base URL (openai, gemini) or the full endpoint URL
	// (azure, compatible).
	APIURL string `toml:"api_url,omitempty"`

	Model       string  `toml:"model,omitempty"`
	CustomModel string  `toml:"custom_model,omitempty"`
	Temperature float64 `toml:"temperature"`
	Stream      bool    `toml:"stream"`

	// SystemPrompt and UserPrompt are templates; $text, $sourceLang and
	// $targetLang are substituted.
	SystemPrompt string `toml:"system_prompt,omitempty"`
	UserPrompt   string `toml:"user_prompt,omitempty"`

	// Timeout is a Go duration string such as "120s".
	Timeout string `toml:"timeout,omitempty"`

	// ExtraBody is a JSON object merged into every request body.
	ExtraBody string `toml:"extra_body,omitempty"`
}

// TimeoutDuration parses Timeout, falling back to the default.
func (p ProviderConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(p.Timeout)
	if err != nil || d <= 0 {
		return defaultTimeout
	}
	return d
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// ClientConfig holds settings for CLI commands that talk to a running
// lingo API server (e.g. lingo translate --api-target).
// Values are full URLs (scheme + host + port).
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}

// StorageConfig selects the translation history backend. Postgres wins
// over sqlite when both are set; neither means in-memory.
type StorageConfig struct {
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// EventsConfig holds the Kafka publisher settings. Empty brokers disable
// publishing.
type EventsConfig struct {
	KafkaBrokers string `toml:"kafka_brokers,omitempty"`
	KafkaTopic   string `toml:"kafka_topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"provider.type": {
		get: func(c *Config) string { return c.Provider.Type },
		set: func(c *Config, v string) error {
			if !slices.Contains(provider.SupportedProviders(), v) {
				return fmt.Errorf("unsupported provider %q (supported: %s)", v, strings.Join(provider.SupportedProviders(), ", "))
			}
			c.Provider.Type = v
			return nil
		},
	},
	"provider.api_url": {
		get: func(c *Config) string { return c.Provider.APIURL },
		set: func(c *Config, v string) error { c.Provider.APIURL = v; return nil },
	},
	"provider.model": {
		get: func(c *Config) string { return c.Provider.Model },
		set: func(c *Config, v string) error { c.Provider.Model = v; return nil },
	},
	"provider.custom_model": {
		get: func(c *Config) string { return c.Provider.CustomModel },
		set: func(c *Config, v string) error { c.Provider.CustomModel = v; return nil },
	},
	"provider.temperature": {
		get: func(c *Config) string { return strconv.FormatFloat(c.Provider.Temperature, 'f', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for provider.temperature: %w", err)
			}
			if f < 0 || f > 2 {
				return fmt.Errorf("invalid value for provider.temperature: %v is outside [0, 2]", f)
			}
			c.Provider.Temperature = f
			return nil
		},
	},
	"provider.stream": {
		get: func(c *Config) string { return strconv.FormatBool(c.Provider.Stream) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for provider.stream: %w", err)
			}
			c.Provider.Stream = b
			return nil
		},
	},
	"provider.system_prompt": {
		get: func(c *Config) string { return c.Provider.SystemPrompt },
		set: func(c *Config, v string) error { c.Provider.SystemPrompt = v; return nil },
	},
	"provider.user_prompt": {
		get: func(c *Config) string { return c.Provider.UserPrompt },
		set: func(c *Config, v string) error { c.Provider.UserPrompt = v; return nil },
	},
	"provider.timeout": {
		get: func(c *Config) string { return c.Provider.Timeout },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for provider.timeout: %w", err)
			}
			c.Provider.Timeout = v
			return nil
		},
	},
	"provider.extra_body": {
		get: func(c *Config) string { return c.Provider.ExtraBody },
		set: func(c *Config, v string) error { c.Provider.ExtraBody = v; return nil },
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"storage.postgres_dsn": {
		get: func(c *Config) string { return c.Storage.PostgresDSN },
		set: func(c *Config, v string) error { c.Storage.PostgresDSN = v; return nil },
	},
	"events.kafka_brokers": {
		get: func(c *Config) string { return c.Events.KafkaBrokers },
		set: func(c *Config, v string) error { c.Events.KafkaBrokers = v; return nil },
	},
	"events.kafka_topic": {
		get: func(c *Config) string { return c.Events.KafkaTopic },
		set: func(c *Config, v string) error { c.Events.KafkaTopic = v; return nil },
	},
}

// orderedKeys lists configKeys in TOML section order.
var orderedKeys = []string{
	"provider.type",
	"provider.api_url",
	"provider.model",
	"provider.custom_model",
	"provider.temperature",
	"provider.stream",
	"provider.system_prompt",
	"provider.user_prompt",
	"provider.timeout",
	"provider.extra_body",
	"api.listen",
	"client.api_target",
	"storage.sqlite_path",
	"storage.postgres_dsn",
	"events.kafka_brokers",
	"events.kafka_topic",
}
