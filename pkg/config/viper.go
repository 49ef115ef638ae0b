package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/lingo/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the LINGO_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (LINGO_PROVIDER_TYPE, LINGO_API_LISTEN, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("LINGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// FromViper assembles a Config from v, honoring the full precedence chain.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		Provider: ProviderConfig{
			Type:         v.GetString("provider.type"),
			APIURL:       v.GetString("provider.api_url"),
			Model:        v.GetString("provider.model"),
			CustomModel:  v.GetString("provider.custom_model"),
			Temperature:  v.GetFloat64("provider.temperature"),
			Stream:       v.GetBool("provider.stream"),
			SystemPrompt: v.GetString("provider.system_prompt"),
			UserPrompt:   v.GetString("provider.user_prompt"),
			Timeout:      v.GetString("provider.timeout"),
			ExtraBody:    v.GetString("provider.extra_body"),
		},
		API: APIConfig{
			Listen: v.GetString("api.listen"),
		},
		Client: ClientConfig{
			APITarget: v.GetString("client.api_target"),
		},
		Storage: StorageConfig{
			SQLitePath:  v.GetString("storage.sqlite_path"),
			PostgresDSN: v.GetString("storage.postgres_dsn"),
		},
		Events: EventsConfig{
			KafkaBrokers: v.GetString("events.kafka_brokers"),
			KafkaTopic:   v.GetString("events.kafka_topic"),
		},
	}
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Provider
	v.SetDefault("provider.type", d.Provider.Type)
	v.SetDefault("provider.api_url", d.Provider.APIURL)
	v.SetDefault("provider.model", d.Provider.Model)
	v.SetDefault("provider.custom_model", d.Provider.CustomModel)
	v.SetDefault("provider.temperature", d.Provider.Temperature)
	v.SetDefault("provider.stream", d.Provider.Stream)
	v.SetDefault("provider.system_prompt", d.Provider.SystemPrompt)
	v.SetDefault("provider.user_prompt", d.Provider.UserPrompt)
	v.SetDefault("provider.timeout", d.Provider.Timeout)
	v.SetDefault("provider.extra_body", d.Provider.ExtraBody)

	// API
	v.SetDefault("api.listen", d.API.Listen)

	// Client
	v.SetDefault("client.api_target", d.Client.APITarget)

	// Storage
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)
	v.SetDefault("storage.postgres_dsn", d.Storage.PostgresDSN)

	// Events
	v.SetDefault("events.kafka_brokers", d.Events.KafkaBrokers)
	v.SetDefault("events.kafka_topic", d.Events.KafkaTopic)
}
